package comment

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/heartmarshall/bizdesk-backend/internal/domain"
)

// ListInput selects the thread of one entity.
type ListInput struct {
	Entity domain.EntityRef
}

// Validate checks all fields and collects all errors.
func (i ListInput) Validate() error {
	return domain.NewValidationErrors(validateEntity(nil, i.Entity))
}

// CreateInput holds the parameters for posting a comment or a reply.
type CreateInput struct {
	Entity     domain.EntityRef
	ParentID   *uuid.UUID
	TimelineID *string
	AuthorName string
	Content    string
}

// Validate checks all fields and collects all errors.
func (i CreateInput) Validate(l Limits) error {
	errs := validateEntity(nil, i.Entity)

	content := strings.TrimSpace(i.Content)
	if content == "" {
		errs = append(errs, domain.FieldError{Field: "content", Message: "required"})
	} else if utf8.RuneCountInString(content) > l.MaxContentLength {
		errs = append(errs, domain.FieldError{Field: "content", Message: maxChars(l.MaxContentLength)})
	}

	author := strings.TrimSpace(i.AuthorName)
	if author == "" {
		errs = append(errs, domain.FieldError{Field: "author_name", Message: "required"})
	} else if utf8.RuneCountInString(author) > l.MaxAuthorLength {
		errs = append(errs, domain.FieldError{Field: "author_name", Message: maxChars(l.MaxAuthorLength)})
	}

	if i.TimelineID != nil && utf8.RuneCountInString(*i.TimelineID) > maxTimelineIDLength {
		errs = append(errs, domain.FieldError{Field: "timeline_id", Message: maxChars(maxTimelineIDLength)})
	}

	if i.ParentID != nil && *i.ParentID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "parent_id", Message: "invalid"})
	}

	return domain.NewValidationErrors(errs)
}

// ReactionInput is the wire-shaped reaction request: the target is addressed
// generically by entity type and id, with the kind as emotion_type_id.
type ReactionInput struct {
	EntityType    string
	EntityID      string
	EmotionTypeID int
}

// Validate checks all fields and collects all errors. On success it returns
// the parsed comment id and reaction kind.
func (i ReactionInput) Validate() (uuid.UUID, domain.ReactionKind, error) {
	var errs []domain.FieldError

	if i.EntityType != domain.ReactionEntityComment {
		errs = append(errs, domain.FieldError{Field: "entity_type", Message: "must be \"comment\""})
	}

	commentID, err := uuid.Parse(strings.TrimSpace(i.EntityID))
	if err != nil {
		errs = append(errs, domain.FieldError{Field: "entity_id", Message: "must be a comment id"})
	}

	kind, ok := domain.ReactionKindFromEmotionID(i.EmotionTypeID)
	if !ok {
		errs = append(errs, domain.FieldError{Field: "emotion_type_id", Message: "unknown emotion type"})
	}

	if err := domain.NewValidationErrors(errs); err != nil {
		return uuid.Nil, "", err
	}
	return commentID, kind, nil
}

// CountsInput lists the entities to count comments for.
type CountsInput struct {
	Entities []domain.EntityRef
}

// Validate checks all fields and collects all errors.
func (i CountsInput) Validate(l Limits) error {
	if len(i.Entities) == 0 {
		return domain.NewValidationError("entity_id", "at least one required")
	}
	if len(i.Entities) > l.MaxCountEntities {
		return domain.NewValidationError("entity_id", fmt.Sprintf("max %d entities", l.MaxCountEntities))
	}

	var errs []domain.FieldError
	for idx, ref := range i.Entities {
		errs = validateEntity(errs, ref, fmt.Sprintf("entities[%d].", idx))
	}
	return domain.NewValidationErrors(errs)
}

func validateEntity(errs []domain.FieldError, ref domain.EntityRef, prefix ...string) []domain.FieldError {
	p := strings.Join(prefix, "")

	switch n := utf8.RuneCountInString(ref.Type); {
	case strings.TrimSpace(ref.Type) == "":
		errs = append(errs, domain.FieldError{Field: p + "entity_type", Message: "required"})
	case n > maxEntityTypeLength:
		errs = append(errs, domain.FieldError{Field: p + "entity_type", Message: maxChars(maxEntityTypeLength)})
	}

	switch n := utf8.RuneCountInString(ref.ID); {
	case strings.TrimSpace(ref.ID) == "":
		errs = append(errs, domain.FieldError{Field: p + "entity_id", Message: "required"})
	case n > maxEntityIDLength:
		errs = append(errs, domain.FieldError{Field: p + "entity_id", Message: maxChars(maxEntityIDLength)})
	}

	return errs
}

func maxChars(n int) string {
	return fmt.Sprintf("max %d characters", n)
}
