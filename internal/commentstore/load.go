package commentstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/bizdesk-backend/internal/domain"
)

// Load fetches the thread of ref and replaces the in-memory tree with it.
//
// On failure the tree is emptied and the error is returned with the empty
// tree, so callers can tell "no comments" from "load failed". When loads
// overlap only the most recently issued one installs its result; earlier
// ones return the current tree and ErrSuperseded.
func (s *Store) Load(ctx context.Context, ref domain.EntityRef) ([]*domain.Comment, error) {
	if ref.IsZero() {
		return nil, domain.NewValidationError("entity", "entity_type and entity_id are required")
	}

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.entity = ref
	s.mu.Unlock()

	tree, err := s.remote.ListComments(ctx, ref)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		s.log.DebugContext(ctx, "discarding superseded load", slog.String("entity", ref.String()))
		return s.snapshotLocked(), ErrSuperseded
	}

	if err != nil {
		s.resetLocked()
		s.log.WarnContext(ctx, "load comments failed",
			slog.String("entity", ref.String()),
			slog.String("error", err.Error()),
		)
		return []*domain.Comment{}, fmt.Errorf("commentstore: load %s: %w", ref, err)
	}

	s.installLocked(tree)
	s.log.DebugContext(ctx, "comments loaded",
		slog.String("entity", ref.String()),
		slog.Int("count", len(s.nodes)),
	)
	return s.snapshotLocked(), nil
}
