package comment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/bizdesk-backend/internal/domain"
	"github.com/heartmarshall/bizdesk-backend/pkg/ctxutil"
)

// AddReaction records one reaction on an existing comment.
func (s *Service) AddReaction(ctx context.Context, input ReactionInput) (*domain.Reaction, error) {
	commentID, kind, err := input.Validate()
	if err != nil {
		return nil, err
	}

	if _, err := s.comments.GetByID(ctx, commentID); err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}

	reaction, err := s.reactions.Create(ctx, &domain.Reaction{
		ID:        uuid.New(),
		CommentID: commentID,
		Kind:      kind,
		UserID:    ctxutil.OptionalUserID(ctx),
	})
	if err != nil {
		return nil, fmt.Errorf("create reaction: %w", err)
	}

	s.log.InfoContext(ctx, "reaction added",
		slog.String("comment_id", commentID.String()),
		slog.String("kind", kind.String()),
	)

	return reaction, nil
}
