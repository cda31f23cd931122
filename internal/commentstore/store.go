// Package commentstore keeps the comment thread of one entity in memory and
// mirrors writes to the comment service.
//
// Comments live in an arena: a flat id → node map plus ordered root ids,
// each node holding its ordered child ids. Snapshots handed to callers are
// deep copies built without recursion.
package commentstore

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/bizdesk-backend/internal/client"
	"github.com/heartmarshall/bizdesk-backend/internal/domain"
)

// LocalAuthor is the author label of comments that failed to reach the server.
const LocalAuthor = "You"

var (
	// ErrSubmitInProgress is returned when a comment or reply is submitted
	// while another submission is still in flight.
	ErrSubmitInProgress = errors.New("commentstore: submission in progress")
	// ErrSuperseded is returned by Load when a later Load was issued before
	// this one completed; its result was discarded.
	ErrSuperseded = errors.New("commentstore: load superseded")
	// ErrNoEntity is returned by writes issued before any Load.
	ErrNoEntity = errors.New("commentstore: no entity loaded")
	// ErrUnsynced is returned when reacting to a local-only comment, which
	// the server has never seen.
	ErrUnsynced = errors.New("commentstore: comment not synced")
)

type remote interface {
	ListComments(ctx context.Context, ref domain.EntityRef) ([]*domain.Comment, error)
	CreateComment(ctx context.Context, in client.NewComment) (*domain.Comment, error)
	AddReaction(ctx context.Context, commentID uuid.UUID, kind domain.ReactionKind) error
}

type node struct {
	comment  *domain.Comment // Replies always nil; structure lives in children
	children []uuid.UUID
}

// Store is safe for concurrent use.
type Store struct {
	remote remote
	clock  clockwork.Clock
	log    *slog.Logger

	mu         sync.Mutex
	entity     domain.EntityRef
	nodes      map[uuid.UUID]*node
	roots      []uuid.UUID
	gen        uint64
	submitting bool
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used to timestamp local echoes.
func WithClock(c clockwork.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// New creates an empty Store.
func New(log *slog.Logger, r remote, opts ...Option) *Store {
	s := &Store{
		remote: r,
		clock:  clockwork.NewRealClock(),
		log:    log.With("component", "commentstore"),
		nodes:  make(map[uuid.UUID]*node),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Entity returns the entity the store currently mirrors.
func (s *Store) Entity() domain.EntityRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entity
}

// Len returns the number of comments in the tree, replies included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.nodes)
}

// Tree returns a deep copy of the current thread.
func (s *Store) Tree() []*domain.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Find returns a copy of one comment without its replies.
func (s *Store) Find(id uuid.UUID) (*domain.Comment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.nodes[id]
	if !ok {
		return nil, false
	}
	return n.comment.Clone(), true
}

// Unsynced lists the comments that exist only locally, in thread order.
func (s *Store) Unsynced() []*domain.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.Comment
	s.walkLocked(func(n *node) {
		if n.comment.SyncStatus == domain.SyncStatusLocalOnly {
			out = append(out, n.comment.Clone())
		}
	})
	return out
}

// walkLocked visits every node depth-first in thread order using an
// explicit stack.
func (s *Store) walkLocked(visit func(n *node)) {
	stack := make([]uuid.UUID, 0, len(s.nodes))
	for i := len(s.roots) - 1; i >= 0; i-- {
		stack = append(stack, s.roots[i])
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := s.nodes[id]
		visit(n)
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
}

func (s *Store) snapshotLocked() []*domain.Comment {
	copies := make(map[uuid.UUID]*domain.Comment, len(s.nodes))
	for id, n := range s.nodes {
		c := n.comment.Clone()
		c.Replies = make([]*domain.Comment, 0, len(n.children))
		copies[id] = c
	}
	for id, n := range s.nodes {
		parent := copies[id]
		for _, child := range n.children {
			parent.Replies = append(parent.Replies, copies[child])
		}
	}

	out := make([]*domain.Comment, len(s.roots))
	for i, id := range s.roots {
		out[i] = copies[id]
	}
	return out
}

func (s *Store) resetLocked() {
	s.nodes = make(map[uuid.UUID]*node)
	s.roots = nil
}

// installLocked replaces the arena with the given nested tree. Replies are
// visited breadth-first so each parent's children keep their order.
// Duplicate ids are dropped.
func (s *Store) installLocked(tree []*domain.Comment) {
	s.resetLocked()

	type item struct {
		c      *domain.Comment
		parent *uuid.UUID
	}
	queue := make([]item, 0, len(tree))
	for _, c := range tree {
		queue = append(queue, item{c: c})
	}

	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]
		if it.c == nil {
			continue
		}
		if _, dup := s.nodes[it.c.ID]; dup {
			s.log.Warn("duplicate comment id in thread", slog.String("comment_id", it.c.ID.String()))
			continue
		}

		c := it.c.Clone()
		c.Replies = nil
		c.ParentID = it.parent
		if c.Reactions == nil {
			c.Reactions = domain.ReactionCounts{}
		}
		if c.SyncStatus == "" {
			c.SyncStatus = domain.SyncStatusSynced
		}
		s.insertLocked(c)

		id := c.ID
		for _, r := range it.c.Replies {
			queue = append(queue, item{c: r, parent: &id})
		}
	}
}

// insertLocked appends c under c.ParentID, or as a root when it has none.
// The parent must already be in the arena.
func (s *Store) insertLocked(c *domain.Comment) {
	s.nodes[c.ID] = &node{comment: c}
	if c.ParentID == nil {
		s.roots = append(s.roots, c.ID)
		return
	}
	parent := s.nodes[*c.ParentID]
	parent.children = append(parent.children, c.ID)
}
