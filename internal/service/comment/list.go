package comment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/bizdesk-backend/internal/domain"
)

// List returns the full thread of an entity: roots in arrival order, each
// with nested replies and aggregated reaction counts.
func (s *Service) List(ctx context.Context, input ListInput) ([]*domain.Comment, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	flat, err := s.comments.ListByEntity(ctx, input.Entity)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	if len(flat) == 0 {
		return []*domain.Comment{}, nil
	}

	ids := make([]uuid.UUID, len(flat))
	for i, c := range flat {
		ids[i] = c.ID
	}

	counts, err := s.reactions.CountsByCommentIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count reactions: %w", err)
	}
	for _, c := range flat {
		if rc, ok := counts[c.ID]; ok {
			c.Reactions = rc
		} else if c.Reactions == nil {
			c.Reactions = domain.ReactionCounts{}
		}
	}

	return domain.BuildThread(flat), nil
}
