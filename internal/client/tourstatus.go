package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/heartmarshall/bizdesk-backend/internal/domain"
	"github.com/heartmarshall/bizdesk-backend/pkg/commentapi"
)

// TourStatusStore persists tour completion per user on the comment service.
// All calls require a token.
type TourStatusStore struct {
	c *Client
}

// TourStatuses returns a status store backed by this client.
func (c *Client) TourStatuses() *TourStatusStore {
	return &TourStatusStore{c: c}
}

// Get returns the stored status, TourStatusNone when nothing was recorded.
func (s *TourStatusStore) Get(ctx context.Context, tourID string) (domain.TourStatus, error) {
	if !s.c.Authenticated() {
		return domain.TourStatusNone, domain.ErrUnauthorized
	}

	var resp commentapi.TourStatus
	err := s.c.do(ctx, http.MethodGet, tourStatusPath(tourID), nil, &resp)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.TourStatusNone, nil
	}
	if err != nil {
		return domain.TourStatusNone, err
	}

	status := domain.TourStatus(resp.Status)
	if !status.IsValid() {
		return domain.TourStatusNone, nil
	}
	return status, nil
}

// Set records a status for the tour.
func (s *TourStatusStore) Set(ctx context.Context, tourID string, status domain.TourStatus) error {
	if !s.c.Authenticated() {
		return domain.ErrUnauthorized
	}
	return s.c.do(ctx, http.MethodPut, tourStatusPath(tourID), commentapi.TourStatus{Status: status.String()}, nil)
}

// Clear removes the stored status.
func (s *TourStatusStore) Clear(ctx context.Context, tourID string) error {
	if !s.c.Authenticated() {
		return domain.ErrUnauthorized
	}
	return s.c.do(ctx, http.MethodDelete, tourStatusPath(tourID), nil, nil)
}

func tourStatusPath(tourID string) string {
	return strings.Replace(commentapi.PathTourStatus, "{tourID}", url.PathEscape(tourID), 1)
}
