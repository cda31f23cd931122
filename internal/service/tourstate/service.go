// Package tourstate stores whether a signed-in user has completed or
// dismissed a guided tour.
package tourstate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/bizdesk-backend/internal/domain"
	"github.com/heartmarshall/bizdesk-backend/pkg/ctxutil"
)

type stateRepo interface {
	Get(ctx context.Context, userID uuid.UUID, tourID string) (*domain.TourState, error)
	Upsert(ctx context.Context, userID uuid.UUID, tourID string, status domain.TourStatus) (*domain.TourState, error)
	Delete(ctx context.Context, userID uuid.UUID, tourID string) error
}

const maxTourIDLength = 100

// Service provides per-user tour status operations.
type Service struct {
	states stateRepo
	log    *slog.Logger
}

// NewService creates a new tour state service.
func NewService(log *slog.Logger, states stateRepo) *Service {
	return &Service{
		states: states,
		log:    log.With("service", "tourstate"),
	}
}

// Get returns the caller's status for a tour; a missing record is
// TourStatusNone.
func (s *Service) Get(ctx context.Context, tourID string) (domain.TourStatus, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return "", domain.ErrUnauthorized
	}
	if err := validateTourID(tourID); err != nil {
		return "", err
	}

	st, err := s.states.Get(ctx, userID, tourID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.TourStatusNone, nil
	}
	if err != nil {
		return "", fmt.Errorf("get tour state: %w", err)
	}
	return st.Status, nil
}

// Set stores the caller's status. Setting TourStatusNone clears the record.
func (s *Service) Set(ctx context.Context, tourID string, status domain.TourStatus) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	var errs []domain.FieldError
	if err := validateTourID(tourID); err != nil {
		errs = append(errs, err.(*domain.ValidationError).Errors...)
	}
	if !status.IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "must be none, completed or dismissed"})
	}
	if err := domain.NewValidationErrors(errs); err != nil {
		return err
	}

	if status == domain.TourStatusNone {
		return s.Clear(ctx, tourID)
	}

	if _, err := s.states.Upsert(ctx, userID, tourID, status); err != nil {
		return fmt.Errorf("upsert tour state: %w", err)
	}

	s.log.InfoContext(ctx, "tour status saved",
		slog.String("user_id", userID.String()),
		slog.String("tour_id", tourID),
		slog.String("status", status.String()),
	)
	return nil
}

// Clear forgets the caller's status so auto-triggered tours run again.
func (s *Service) Clear(ctx context.Context, tourID string) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if err := validateTourID(tourID); err != nil {
		return err
	}

	if err := s.states.Delete(ctx, userID, tourID); err != nil {
		return fmt.Errorf("delete tour state: %w", err)
	}
	return nil
}

func validateTourID(tourID string) error {
	id := strings.TrimSpace(tourID)
	if id == "" {
		return domain.NewValidationError("tour_id", "required")
	}
	if len(id) > maxTourIDLength {
		return domain.NewValidationError("tour_id", "max 100 characters")
	}
	return nil
}
