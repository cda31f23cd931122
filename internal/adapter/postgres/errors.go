package postgres

import (
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/bizdesk-backend/internal/domain"
)

// SQLSTATE codes that map onto domain errors.
var constraintErrors = map[string]error{
	"23505": domain.ErrAlreadyExists, // unique_violation
	"23503": domain.ErrNotFound,      // foreign_key_violation, e.g. reacting to a deleted comment
	"23514": domain.ErrValidation,    // check_violation
}

// MapError prefixes err with the row it concerns ("comment <uuid>") and
// translates missing rows and constraint violations to domain errors.
// Anything else, context errors included, is wrapped unchanged.
func MapError(err error, entity string, key fmt.Stringer) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) || pgxscan.NotFound(err) {
		return fmt.Errorf("%s %s: %w", entity, key, domain.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if mapped, ok := constraintErrors[pgErr.Code]; ok {
			return fmt.Errorf("%s %s: %w", entity, key, mapped)
		}
	}
	return fmt.Errorf("%s %s: %w", entity, key, err)
}

// Key lets composite string keys, such as "<user>/<tour>", name a row.
type Key string

func (k Key) String() string { return string(k) }
