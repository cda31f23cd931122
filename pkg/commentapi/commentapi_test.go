package commentapi

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/bizdesk-backend/internal/domain"
)

func TestComment_ToDomainDropsUnknownReactions(t *testing.T) {
	t.Parallel()

	raw := `{
		"id": "` + uuid.NewString() + `",
		"entity_type": "expense",
		"entity_id": "e1",
		"author_name": "Ann",
		"content": "hi",
		"created_at": "2026-01-02T03:04:05Z",
		"reactions": {"like": 2, "shrug": 4, "sad": 0},
		"replies": [{"id": "` + uuid.NewString() + `", "content": "r", "reactions": null, "replies": null}]
	}`

	var c Comment
	require.NoError(t, json.Unmarshal([]byte(raw), &c))

	got := c.ToDomain()
	assert.Equal(t, domain.ReactionCounts{domain.ReactionLike: 2}, got.Reactions)
	assert.Equal(t, domain.SyncStatusSynced, got.SyncStatus)
	require.Len(t, got.Replies, 1)
	assert.NotNil(t, got.Replies[0].Reactions)
}

func TestFromDomainComment_NestsRepliesAndNamesReactions(t *testing.T) {
	t.Parallel()

	root := &domain.Comment{ID: uuid.New(), Reactions: domain.ReactionCounts{domain.ReactionWow: 1}}
	root.Replies = []*domain.Comment{{ID: uuid.New(), ParentID: &root.ID}}

	got := FromDomainComment(root)
	assert.Equal(t, map[string]int{"wow": 1}, got.Reactions)
	require.Len(t, got.Replies, 1)
	assert.Equal(t, root.ID, *got.Replies[0].ParentID)
	assert.NotNil(t, got.Replies[0].Replies, "replies should encode as [] rather than null")
}
