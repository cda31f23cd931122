package commentstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/bizdesk-backend/internal/domain"
	"github.com/heartmarshall/bizdesk-backend/internal/optimistic"
)

// AddReaction bumps the reaction counter of a comment anywhere in the tree
// before sending it. If the server call fails the counter is decremented
// again (never below zero) and the error is returned. Local-only comments
// are rejected with ErrUnsynced and nothing is sent.
//
// Increment and compensation are each applied atomically, so overlapping
// failures on the same comment cancel exactly their own increments.
func (s *Store) AddReaction(ctx context.Context, commentID uuid.UUID, kind domain.ReactionKind) error {
	if !kind.IsValid() {
		return domain.NewValidationError("reaction", "unknown reaction kind")
	}

	if s.isLocalOnly(commentID) {
		return ErrUnsynced
	}

	err := optimistic.Apply(ctx,
		func() bool { return s.bumpReaction(commentID, kind, 1) },
		func(ctx context.Context) error { return s.remote.AddReaction(ctx, commentID, kind) },
		func() { s.bumpReaction(commentID, kind, -1) },
	)
	switch {
	case errors.Is(err, optimistic.ErrNotApplied):
		return domain.ErrNotFound
	case err != nil:
		s.log.WarnContext(ctx, "reaction not saved, rolled back",
			slog.String("comment_id", commentID.String()),
			slog.String("reaction", kind.String()),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("commentstore: add reaction: %w", err)
	}
	return nil
}

func (s *Store) isLocalOnly(commentID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[commentID]
	return ok && n.comment.SyncStatus == domain.SyncStatusLocalOnly
}

// bumpReaction adds delta to one counter, flooring at zero. It reports
// whether the comment exists.
func (s *Store) bumpReaction(commentID uuid.UUID, kind domain.ReactionKind, delta int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.nodes[commentID]
	if !ok {
		return false
	}
	next := n.comment.Reactions[kind] + delta
	if next < 0 {
		next = 0
	}
	n.comment.Reactions[kind] = next
	return true
}
