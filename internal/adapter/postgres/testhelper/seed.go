package testhelper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/bizdesk-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// NewEntity returns an entity reference unique to the calling test.
func NewEntity(entityType string) domain.EntityRef {
	return domain.EntityRef{Type: entityType, ID: "e-" + uniqueSuffix()}
}

// SeedComment inserts a comment on ref. parent may be nil for a root.
// Returns the persisted comment with the database-assigned created_at.
func SeedComment(t *testing.T, pool *pgxpool.Pool, ref domain.EntityRef, parent *uuid.UUID, content string) domain.Comment {
	t.Helper()

	c := domain.Comment{
		ID:         uuid.New(),
		ParentID:   parent,
		Entity:     ref,
		AuthorName: "Seeder " + uniqueSuffix(),
		Content:    content,
		Reactions:  domain.ReactionCounts{},
		SyncStatus: domain.SyncStatusSynced,
	}

	err := pool.QueryRow(context.Background(),
		`INSERT INTO comments (id, entity_type, entity_id, parent_id, author_name, content)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		c.ID, ref.Type, ref.ID, parent, c.AuthorName, c.Content,
	).Scan(&c.CreatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedComment: %v", err)
	}

	return c
}

// SeedReaction inserts one reaction of kind on commentID.
func SeedReaction(t *testing.T, pool *pgxpool.Pool, commentID uuid.UUID, kind domain.ReactionKind) {
	t.Helper()

	emotionID, ok := kind.EmotionTypeID()
	if !ok {
		t.Fatalf("testhelper: SeedReaction: unknown kind %q", kind)
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO comment_reactions (id, comment_id, emotion_type_id) VALUES ($1, $2, $3)`,
		uuid.New(), commentID, emotionID,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedReaction: %v", err)
	}
}
