// Package reaction implements the comment reaction repository using PostgreSQL.
package reaction

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/bizdesk-backend/internal/adapter/postgres"
	"github.com/heartmarshall/bizdesk-backend/internal/domain"
)

const table = "comment_reactions"

// Repo provides reaction persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new reaction repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type reactionRow struct {
	ID            uuid.UUID  `db:"id"`
	CommentID     uuid.UUID  `db:"comment_id"`
	EmotionTypeID int        `db:"emotion_type_id"`
	UserID        *uuid.UUID `db:"user_id"`
	CreatedAt     time.Time  `db:"created_at"`
}

// Create inserts a reaction. The kind must map to a known emotion id.
// Returns domain.ErrNotFound if the comment does not exist.
func (r *Repo) Create(ctx context.Context, reaction *domain.Reaction) (*domain.Reaction, error) {
	emotionID, ok := reaction.Kind.EmotionTypeID()
	if !ok {
		return nil, domain.NewValidationError("emotion_type_id", "unknown reaction kind")
	}

	query, args, err := postgres.Builder().
		Insert(table).
		Columns("id", "comment_id", "emotion_type_id", "user_id").
		Values(reaction.ID, reaction.CommentID, emotionID, reaction.UserID).
		Suffix("RETURNING id, comment_id, emotion_type_id, user_id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert reaction: %w", err)
	}

	var row reactionRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "comment", reaction.CommentID)
	}

	kind, _ := domain.ReactionKindFromEmotionID(row.EmotionTypeID)
	return &domain.Reaction{
		ID:        row.ID,
		CommentID: row.CommentID,
		Kind:      kind,
		UserID:    row.UserID,
		CreatedAt: row.CreatedAt,
	}, nil
}

type countRow struct {
	CommentID     uuid.UUID `db:"comment_id"`
	EmotionTypeID int       `db:"emotion_type_id"`
	Count         int64     `db:"count"`
}

// CountsByCommentIDs aggregates reaction counts per comment. Comments without
// reactions are absent from the map.
func (r *Repo) CountsByCommentIDs(ctx context.Context, commentIDs []uuid.UUID) (map[uuid.UUID]domain.ReactionCounts, error) {
	result := make(map[uuid.UUID]domain.ReactionCounts)
	if len(commentIDs) == 0 {
		return result, nil
	}

	query, args, err := postgres.Builder().
		Select("comment_id", "emotion_type_id", "count(*) AS count").
		From(table).
		Where(sq.Expr("comment_id = ANY(?)", commentIDs)).
		GroupBy("comment_id", "emotion_type_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build count reactions: %w", err)
	}

	var rows []countRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("count reactions: %w", err)
	}

	for _, row := range rows {
		kind, ok := domain.ReactionKindFromEmotionID(row.EmotionTypeID)
		if !ok {
			continue
		}
		counts, exists := result[row.CommentID]
		if !exists {
			counts = domain.ReactionCounts{}
			result[row.CommentID] = counts
		}
		counts[kind] += int(row.Count)
	}
	return result, nil
}
