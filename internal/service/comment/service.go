// Package comment implements the threaded comment and reaction use cases
// behind the comment REST API.
package comment

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/bizdesk-backend/internal/domain"
)

type commentRepo interface {
	Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	ListByEntity(ctx context.Context, ref domain.EntityRef) ([]*domain.Comment, error)
	CountByEntities(ctx context.Context, refs []domain.EntityRef) ([]domain.CommentCount, error)
}

type reactionRepo interface {
	Create(ctx context.Context, r *domain.Reaction) (*domain.Reaction, error)
	CountsByCommentIDs(ctx context.Context, commentIDs []uuid.UUID) (map[uuid.UUID]domain.ReactionCounts, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Limits bounds user-supplied text. Zero values fall back to the defaults.
type Limits struct {
	MaxContentLength int
	MaxAuthorLength  int
	MaxCountEntities int
}

const (
	DefaultMaxContentLength = 5000
	DefaultMaxAuthorLength  = 100
	DefaultMaxCountEntities = 100

	maxEntityTypeLength = 50
	maxEntityIDLength   = 100
	maxTimelineIDLength = 100
)

func (l Limits) withDefaults() Limits {
	if l.MaxContentLength <= 0 {
		l.MaxContentLength = DefaultMaxContentLength
	}
	if l.MaxAuthorLength <= 0 {
		l.MaxAuthorLength = DefaultMaxAuthorLength
	}
	if l.MaxCountEntities <= 0 {
		l.MaxCountEntities = DefaultMaxCountEntities
	}
	return l
}

// Service provides comment operations.
type Service struct {
	comments  commentRepo
	reactions reactionRepo
	tx        txManager
	limits    Limits
	log       *slog.Logger
}

// NewService creates a new comment service.
func NewService(
	log *slog.Logger,
	comments commentRepo,
	reactions reactionRepo,
	tx txManager,
	limits Limits,
) *Service {
	return &Service{
		comments:  comments,
		reactions: reactions,
		tx:        tx,
		limits:    limits.withDefaults(),
		log:       log.With("service", "comment"),
	}
}
