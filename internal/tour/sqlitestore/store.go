// Package sqlitestore is a file-backed tour StatusStore for command-line
// use, built on the pure-Go modernc.org/sqlite driver.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"github.com/heartmarshall/bizdesk-backend/internal/domain"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS tour_status (
	tour_id    TEXT PRIMARY KEY,
	status     TEXT NOT NULL CHECK (status IN ('completed', 'dismissed')),
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// Store keeps tour statuses in a SQLite file.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := path
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlitestore: create dir: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open: %w", err)
	}
	// One connection keeps an in-memory database alive and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlitestore: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Get(ctx context.Context, tourID string) (domain.TourStatus, error) {
	query, args, err := builder.
		Select("status").
		From("tour_status").
		Where(sq.Eq{"tour_id": tourID}).
		ToSql()
	if err != nil {
		return domain.TourStatusNone, fmt.Errorf("sqlitestore: build query: %w", err)
	}

	var status string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.TourStatusNone, nil
	}
	if err != nil {
		return domain.TourStatusNone, fmt.Errorf("sqlitestore: get %s: %w", tourID, err)
	}
	return domain.TourStatus(status), nil
}

// Set records status; TourStatusNone clears the entry.
func (s *Store) Set(ctx context.Context, tourID string, status domain.TourStatus) error {
	if !status.IsValid() {
		return domain.NewValidationError("status", "invalid")
	}
	if status == domain.TourStatusNone {
		return s.Clear(ctx, tourID)
	}

	query, args, err := builder.
		Insert("tour_status").
		Columns("tour_id", "status").
		Values(tourID, status.String()).
		Suffix("ON CONFLICT (tour_id) DO UPDATE SET status = excluded.status, updated_at = CURRENT_TIMESTAMP").
		ToSql()
	if err != nil {
		return fmt.Errorf("sqlitestore: build query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("sqlitestore: set %s: %w", tourID, err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context, tourID string) error {
	query, args, err := builder.
		Delete("tour_status").
		Where(sq.Eq{"tour_id": tourID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("sqlitestore: build query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("sqlitestore: clear %s: %w", tourID, err)
	}
	return nil
}
