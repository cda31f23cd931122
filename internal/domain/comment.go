package domain

import (
	"time"

	"github.com/google/uuid"
)

// EntityRef identifies the business record (expense, project, quote, ...)
// a comment thread is attached to.
type EntityRef struct {
	Type string
	ID   string
}

func (r EntityRef) String() string { return r.Type + ":" + r.ID }

// IsZero reports whether either part of the reference is missing.
func (r EntityRef) IsZero() bool { return r.Type == "" || r.ID == "" }

// SyncStatus tells whether a comment is known to be persisted remotely.
type SyncStatus string

const (
	SyncStatusSynced    SyncStatus = "synced"
	SyncStatusLocalOnly SyncStatus = "local_only"
)

func (s SyncStatus) String() string { return string(s) }

// Comment is a root comment or a reply. Replies are kept in arrival order.
type Comment struct {
	ID         uuid.UUID
	ParentID   *uuid.UUID
	Entity     EntityRef
	TimelineID *string
	UserID     *uuid.UUID
	AuthorName string
	Content    string
	CreatedAt  time.Time
	Replies    []*Comment
	Reactions  ReactionCounts
	SyncStatus SyncStatus
}

// IsRoot reports whether the comment has no parent.
func (c *Comment) IsRoot() bool { return c.ParentID == nil }

// Clone deep-copies the comment and its whole reply subtree.
func (c *Comment) Clone() *Comment {
	if c == nil {
		return nil
	}
	out := *c
	out.Reactions = c.Reactions.Clone()
	if c.ParentID != nil {
		pid := *c.ParentID
		out.ParentID = &pid
	}
	if c.TimelineID != nil {
		tid := *c.TimelineID
		out.TimelineID = &tid
	}
	if c.UserID != nil {
		uid := *c.UserID
		out.UserID = &uid
	}
	out.Replies = make([]*Comment, len(c.Replies))
	for i, r := range c.Replies {
		out.Replies[i] = r.Clone()
	}
	return &out
}

// CommentCount is the number of comments attached to an entity.
type CommentCount struct {
	Entity EntityRef
	Count  int
}
