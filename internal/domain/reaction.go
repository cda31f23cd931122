package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReactionEntityComment is the only entity_type accepted by the reaction API.
const ReactionEntityComment = "comment"

// ReactionKind is an emotion tag attachable to a comment.
type ReactionKind string

const (
	ReactionLike  ReactionKind = "like"
	ReactionLove  ReactionKind = "love"
	ReactionLaugh ReactionKind = "laugh"
	ReactionAngry ReactionKind = "angry"
	ReactionSad   ReactionKind = "sad"
	ReactionWow   ReactionKind = "wow"
)

// emotionTypeIDs is the wire mapping used by the backend's emotion_type_id.
// Order matters: it is also the display order returned by ReactionKinds.
var emotionTypeIDs = []struct {
	kind ReactionKind
	id   int
}{
	{ReactionLike, 1},
	{ReactionLove, 2},
	{ReactionLaugh, 3},
	{ReactionAngry, 4},
	{ReactionSad, 5},
	{ReactionWow, 6},
}

func (k ReactionKind) String() string { return string(k) }

func (k ReactionKind) IsValid() bool {
	_, ok := k.EmotionTypeID()
	return ok
}

// EmotionTypeID returns the backend identifier for the kind.
func (k ReactionKind) EmotionTypeID() (int, bool) {
	for _, e := range emotionTypeIDs {
		if e.kind == k {
			return e.id, true
		}
	}
	return 0, false
}

// ReactionKindFromEmotionID is the inverse of EmotionTypeID.
func ReactionKindFromEmotionID(id int) (ReactionKind, bool) {
	for _, e := range emotionTypeIDs {
		if e.id == id {
			return e.kind, true
		}
	}
	return "", false
}

// ReactionKinds lists every kind in display order.
func ReactionKinds() []ReactionKind {
	kinds := make([]ReactionKind, len(emotionTypeIDs))
	for i, e := range emotionTypeIDs {
		kinds[i] = e.kind
	}
	return kinds
}

// Reaction is a single persisted reaction to a comment.
type Reaction struct {
	ID        uuid.UUID
	CommentID uuid.UUID
	Kind      ReactionKind
	UserID    *uuid.UUID
	CreatedAt time.Time
}

// ReactionCounts maps a kind to the number of reactions of that kind.
type ReactionCounts map[ReactionKind]int

// Clone returns an independent copy. A nil receiver yields an empty map.
func (rc ReactionCounts) Clone() ReactionCounts {
	out := make(ReactionCounts, len(rc))
	for k, v := range rc {
		out[k] = v
	}
	return out
}

// Total sums all counts.
func (rc ReactionCounts) Total() int {
	total := 0
	for _, v := range rc {
		total += v
	}
	return total
}
