// Package tourstate persists per-user guided tour status in PostgreSQL.
package tourstate

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

const table = "tour_states"

// Repo provides tour status persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new tour state repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type stateRow struct {
	UserID    uuid.UUID `db:"user_id"`
	TourID    string    `db:"tour_id"`
	Status    string    `db:"status"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r stateRow) toDomain() *domain.TourState {
	return &domain.TourState{
		UserID:    r.UserID,
		TourID:    r.TourID,
		Status:    domain.TourStatus(r.Status),
		UpdatedAt: r.UpdatedAt,
	}
}

func key(userID uuid.UUID, tourID string) postgres.Key {
	return postgres.Key(userID.String() + "/" + tourID)
}

// Get returns the stored state. Returns domain.ErrNotFound when the user has
// no record for the tour.
func (r *Repo) Get(ctx context.Context, userID uuid.UUID, tourID string) (*domain.TourState, error) {
	query, args, err := postgres.Builder().
		Select("user_id", "tour_id", "status", "updated_at").
		From(table).
		Where(sq.And{sq.Expr("user_id = ?", userID), sq.Eq{"tour_id": tourID}}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get tour state: %w", err)
	}

	var row stateRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "tour_state", key(userID, tourID))
	}
	return row.toDomain(), nil
}

// Upsert stores the status, replacing any previous value.
func (r *Repo) Upsert(ctx context.Context, userID uuid.UUID, tourID string, status domain.TourStatus) (*domain.TourState, error) {
	query, args, err := postgres.Builder().
		Insert(table).
		Columns("user_id", "tour_id", "status").
		Values(userID, tourID, string(status)).
		Suffix(`ON CONFLICT (user_id, tour_id) DO UPDATE
SET status = EXCLUDED.status, updated_at = now()
RETURNING user_id, tour_id, status, updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build upsert tour state: %w", err)
	}

	var row stateRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "tour_state", key(userID, tourID))
	}
	return row.toDomain(), nil
}

// Delete removes the stored state. Deleting a missing record is not an error.
func (r *Repo) Delete(ctx context.Context, userID uuid.UUID, tourID string) error {
	query, args, err := postgres.Builder().
		Delete(table).
		Where(sq.And{sq.Expr("user_id = ?", userID), sq.Eq{"tour_id": tourID}}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete tour state: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "tour_state", key(userID, tourID))
	}
	return nil
}
