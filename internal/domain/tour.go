package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TourPosition is the placement hint of a tour panel relative to its target.
type TourPosition string

const (
	TourPositionTop    TourPosition = "top"
	TourPositionBottom TourPosition = "bottom"
	TourPositionLeft   TourPosition = "left"
	TourPositionRight  TourPosition = "right"
	TourPositionCenter TourPosition = "center"
)

func (p TourPosition) String() string { return string(p) }

func (p TourPosition) IsValid() bool {
	switch p {
	case TourPositionTop, TourPositionBottom, TourPositionLeft, TourPositionRight, TourPositionCenter:
		return true
	}
	return false
}

// TourStep is one stop of a guided walkthrough.
type TourStep struct {
	ID          string
	Title       string
	Description string
	Target      string
	Position    TourPosition
	Action      *string
	Highlight   bool
	ShowSkip    bool
}

// ValidateTourSteps checks that steps are non-empty, ids are unique and
// every step has a valid position.
func ValidateTourSteps(steps []TourStep) error {
	if len(steps) == 0 {
		return NewValidationError("steps", "at least one required")
	}

	var errs []FieldError
	seen := make(map[string]struct{}, len(steps))
	for i, s := range steps {
		id := strings.TrimSpace(s.ID)
		if id == "" {
			errs = append(errs, FieldError{Field: stepField(i, "id"), Message: "required"})
		} else if _, dup := seen[id]; dup {
			errs = append(errs, FieldError{Field: stepField(i, "id"), Message: "duplicate"})
		}
		seen[id] = struct{}{}

		if !s.Position.IsValid() {
			errs = append(errs, FieldError{Field: stepField(i, "position"), Message: "invalid"})
		}
	}
	return NewValidationErrors(errs)
}

func stepField(i int, name string) string {
	return "steps[" + strconv.Itoa(i) + "]." + name
}

// TourStatus is the persisted outcome of a tour for one viewer.
type TourStatus string

const (
	TourStatusNone      TourStatus = "none"
	TourStatusCompleted TourStatus = "completed"
	TourStatusDismissed TourStatus = "dismissed"
)

func (s TourStatus) String() string { return string(s) }

func (s TourStatus) IsValid() bool {
	switch s {
	case TourStatusNone, TourStatusCompleted, TourStatusDismissed:
		return true
	}
	return false
}

// Seen reports whether the viewer already finished or dismissed the tour.
func (s TourStatus) Seen() bool {
	return s == TourStatusCompleted || s == TourStatusDismissed
}

// TourState is the server-side record of a user's tour status.
type TourState struct {
	UserID    uuid.UUID
	TourID    string
	Status    TourStatus
	UpdatedAt time.Time
}
