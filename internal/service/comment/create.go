package comment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/bizdesk-backend/internal/domain"
	"github.com/heartmarshall/bizdesk-backend/pkg/ctxutil"
)

// Create posts a root comment, or a reply when ParentID is set. The parent
// may be any comment of the same entity, root or nested. Authenticated
// callers have their user id recorded.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Comment, error) {
	if err := input.Validate(s.limits); err != nil {
		return nil, err
	}

	c := &domain.Comment{
		ID:         uuid.New(),
		ParentID:   input.ParentID,
		Entity:     input.Entity,
		TimelineID: input.TimelineID,
		UserID:     ctxutil.OptionalUserID(ctx),
		AuthorName: strings.TrimSpace(input.AuthorName),
		Content:    strings.TrimSpace(input.Content),
	}

	var created *domain.Comment
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if c.ParentID != nil {
			parent, err := s.comments.GetByID(txCtx, *c.ParentID)
			if err != nil {
				return fmt.Errorf("get parent: %w", err)
			}
			if parent.Entity != c.Entity {
				return domain.NewValidationError("parent_id", "belongs to another entity")
			}
		}

		var err error
		created, err = s.comments.Create(txCtx, c)
		if err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	attrs := []any{
		slog.String("comment_id", created.ID.String()),
		slog.String("entity", created.Entity.String()),
		slog.Bool("reply", created.ParentID != nil),
	}
	if created.UserID != nil {
		attrs = append(attrs, slog.String("user_id", created.UserID.String()))
	}
	s.log.InfoContext(ctx, "comment created", attrs...)

	return created, nil
}
