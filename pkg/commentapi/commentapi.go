// Package commentapi holds the JSON wire types of the comment REST API,
// shared by the server handlers and the Go client.
package commentapi

import (
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/bizdesk-backend/internal/domain"
)

// Paths served by the comment service.
const (
	PathComments        = "/api/comments"
	PathPublicComments  = "/api/public/comments"
	PathReactions       = "/api/reactions"
	PathPublicReactions = "/api/public/reactions"
	PathCommentCounts   = "/api/comments/counts"
	PathTourStatus      = "/api/tours/{tourID}/status"
)

// Comment is a comment with its nested replies.
type Comment struct {
	ID         uuid.UUID      `json:"id"`
	ParentID   *uuid.UUID     `json:"parent_id"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	TimelineID *string        `json:"timeline_id"`
	AuthorName string         `json:"author_name"`
	Content    string         `json:"content"`
	CreatedAt  time.Time      `json:"created_at"`
	Reactions  map[string]int `json:"reactions"`
	Replies    []Comment      `json:"replies"`
}

// CommentList is the body of a list response.
type CommentList struct {
	Comments []Comment `json:"comments"`
}

// CreateCommentRequest is the body of a comment or reply submission.
type CreateCommentRequest struct {
	Content    string     `json:"content"`
	EntityType string     `json:"entity_type"`
	EntityID   string     `json:"entity_id"`
	TimelineID *string    `json:"timeline_id"`
	ParentID   *uuid.UUID `json:"parent_id"`
	AuthorName string     `json:"author_name"`
}

// CreateReactionRequest is the body of a reaction submission. EntityType is
// always "comment" and EntityID the comment id.
type CreateReactionRequest struct {
	EntityType    string `json:"entity_type"`
	EntityID      string `json:"entity_id"`
	EmotionTypeID int    `json:"emotion_type_id"`
}

// Reaction is the persisted reaction returned on creation.
type Reaction struct {
	ID            uuid.UUID `json:"id"`
	CommentID     uuid.UUID `json:"comment_id"`
	EmotionTypeID int       `json:"emotion_type_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// CommentCount is one entry of a counts response.
type CommentCount struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Count      int    `json:"count"`
}

// CommentCounts is the body of a counts response.
type CommentCounts struct {
	Counts []CommentCount `json:"counts"`
}

// TourStatus is the body of tour status reads and writes.
type TourStatus struct {
	TourID string `json:"tour_id,omitempty"`
	Status string `json:"status"`
}

// Error is the body of every non-2xx response.
type Error struct {
	Error string `json:"error"`
}

// FromDomainComment converts a comment tree to its wire form.
func FromDomainComment(c *domain.Comment) Comment {
	out := Comment{
		ID:         c.ID,
		ParentID:   c.ParentID,
		EntityType: c.Entity.Type,
		EntityID:   c.Entity.ID,
		TimelineID: c.TimelineID,
		AuthorName: c.AuthorName,
		Content:    c.Content,
		CreatedAt:  c.CreatedAt,
		Reactions:  make(map[string]int, len(c.Reactions)),
		Replies:    make([]Comment, len(c.Replies)),
	}
	for k, v := range c.Reactions {
		out.Reactions[k.String()] = v
	}
	for i, r := range c.Replies {
		out.Replies[i] = FromDomainComment(r)
	}
	return out
}

// ToDomain converts a wire comment tree back to the domain model. Unknown
// reaction names are dropped.
func (c Comment) ToDomain() *domain.Comment {
	out := &domain.Comment{
		ID:         c.ID,
		ParentID:   c.ParentID,
		Entity:     domain.EntityRef{Type: c.EntityType, ID: c.EntityID},
		TimelineID: c.TimelineID,
		AuthorName: c.AuthorName,
		Content:    c.Content,
		CreatedAt:  c.CreatedAt,
		Reactions:  domain.ReactionCounts{},
		Replies:    make([]*domain.Comment, len(c.Replies)),
		SyncStatus: domain.SyncStatusSynced,
	}
	for name, v := range c.Reactions {
		if k := domain.ReactionKind(name); k.IsValid() && v > 0 {
			out.Reactions[k] = v
		}
	}
	for i, r := range c.Replies {
		out.Replies[i] = r.ToDomain()
	}
	return out
}
