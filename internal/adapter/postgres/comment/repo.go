// Package comment implements the comment repository using PostgreSQL.
// Comments are append-only: the repository exposes no update or delete.
package comment

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/bizdesk-backend/internal/adapter/postgres"
	"github.com/heartmarshall/bizdesk-backend/internal/domain"
)

const table = "comments"

var columns = []string{
	"id", "entity_type", "entity_id", "timeline_id", "parent_id",
	"user_id", "author_name", "content", "created_at",
}

// Repo provides comment persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new comment repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type commentRow struct {
	ID         uuid.UUID  `db:"id"`
	EntityType string     `db:"entity_type"`
	EntityID   string     `db:"entity_id"`
	TimelineID *string    `db:"timeline_id"`
	ParentID   *uuid.UUID `db:"parent_id"`
	UserID     *uuid.UUID `db:"user_id"`
	AuthorName string     `db:"author_name"`
	Content    string     `db:"content"`
	CreatedAt  time.Time  `db:"created_at"`
}

func (r commentRow) toDomain() *domain.Comment {
	return &domain.Comment{
		ID:         r.ID,
		ParentID:   r.ParentID,
		Entity:     domain.EntityRef{Type: r.EntityType, ID: r.EntityID},
		TimelineID: r.TimelineID,
		UserID:     r.UserID,
		AuthorName: r.AuthorName,
		Content:    r.Content,
		CreatedAt:  r.CreatedAt,
		Reactions:  domain.ReactionCounts{},
		SyncStatus: domain.SyncStatusSynced,
	}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a single comment without replies.
// Returns domain.ErrNotFound if the comment does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	query, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(sq.Expr("id = ?", id)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get comment: %w", err)
	}

	var row commentRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "comment", id)
	}
	return row.toDomain(), nil
}

// ListByEntity returns every comment attached to an entity as a flat list in
// arrival order. Returns an empty slice (not nil) when there are none.
func (r *Repo) ListByEntity(ctx context.Context, ref domain.EntityRef) ([]*domain.Comment, error) {
	query, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(sq.Eq{"entity_type": ref.Type, "entity_id": ref.ID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list comments: %w", err)
	}

	var rows []commentRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list comments %s: %w", ref, err)
	}

	out := make([]*domain.Comment, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

type countRow struct {
	EntityType string `db:"entity_type"`
	EntityID   string `db:"entity_id"`
	Count      int64  `db:"count"`
}

// CountByEntities returns comment counts for a batch of entities (DataLoader).
// Entities without comments are absent from the result.
func (r *Repo) CountByEntities(ctx context.Context, refs []domain.EntityRef) ([]domain.CommentCount, error) {
	if len(refs) == 0 {
		return []domain.CommentCount{}, nil
	}

	// Group ids by type so each type becomes one IN list.
	byType := make(map[string][]string)
	var order []string
	for _, ref := range refs {
		if _, ok := byType[ref.Type]; !ok {
			order = append(order, ref.Type)
		}
		byType[ref.Type] = append(byType[ref.Type], ref.ID)
	}
	where := make(sq.Or, 0, len(order))
	for _, t := range order {
		where = append(where, sq.Eq{"entity_type": t, "entity_id": byType[t]})
	}

	query, args, err := postgres.Builder().
		Select("entity_type", "entity_id", "count(*) AS count").
		From(table).
		Where(where).
		GroupBy("entity_type", "entity_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build count comments: %w", err)
	}

	var rows []countRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}

	out := make([]domain.CommentCount, len(rows))
	for i, row := range rows {
		out[i] = domain.CommentCount{
			Entity: domain.EntityRef{Type: row.EntityType, ID: row.EntityID},
			Count:  int(row.Count),
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a comment and returns the persisted row. The caller assigns
// the id; created_at is set by the database.
// Returns domain.ErrNotFound if parent_id references a missing comment.
func (r *Repo) Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
	query, args, err := postgres.Builder().
		Insert(table).
		Columns("id", "entity_type", "entity_id", "timeline_id", "parent_id", "user_id", "author_name", "content").
		Values(c.ID, c.Entity.Type, c.Entity.ID, c.TimelineID, c.ParentID, c.UserID, c.AuthorName, c.Content).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert comment: %w", err)
	}

	var row commentRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "comment", c.ID)
	}
	return row.toDomain(), nil
}
