package comment

import (
	"context"
	"fmt"

	"github.com/heartmarshall/bizdesk-backend/internal/domain"
)

// Counts returns the number of comments per entity, in input order. Entities
// without comments are reported with a zero count.
func (s *Service) Counts(ctx context.Context, input CountsInput) ([]domain.CommentCount, error) {
	if err := input.Validate(s.limits); err != nil {
		return nil, err
	}

	rows, err := s.comments.CountByEntities(ctx, input.Entities)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}

	byRef := make(map[domain.EntityRef]int, len(rows))
	for _, r := range rows {
		byRef[r.Entity] = r.Count
	}

	out := make([]domain.CommentCount, len(input.Entities))
	for i, ref := range input.Entities {
		out[i] = domain.CommentCount{Entity: ref, Count: byRef[ref]}
	}
	return out, nil
}
