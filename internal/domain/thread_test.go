package domain

import (
	"testing"

	"github.com/google/uuid"
)

func newComment(parent *Comment) *Comment {
	c := &Comment{ID: uuid.New(), Reactions: ReactionCounts{}}
	if parent != nil {
		pid := parent.ID
		c.ParentID = &pid
	}
	return c
}

func TestBuildThread_NestsRepliesInOrder(t *testing.T) {
	t.Parallel()

	a := newComment(nil)
	b := newComment(nil)
	a1 := newComment(a)
	a2 := newComment(a)
	a1x := newComment(a1)

	roots := BuildThread([]*Comment{a, b, a1, a2, a1x})

	if len(roots) != 2 || roots[0] != a || roots[1] != b {
		t.Fatalf("roots = %v, want [a b]", roots)
	}
	if len(a.Replies) != 2 || a.Replies[0] != a1 || a.Replies[1] != a2 {
		t.Fatalf("a.Replies not in arrival order")
	}
	if len(a1.Replies) != 1 || a1.Replies[0] != a1x {
		t.Fatalf("a1.Replies = %v, want [a1x]", a1.Replies)
	}
	if got := CountThread(roots); got != 5 {
		t.Errorf("CountThread = %d, want 5", got)
	}
}

func TestBuildThread_OrphanBecomesRoot(t *testing.T) {
	t.Parallel()

	missing := uuid.New()
	orphan := &Comment{ID: uuid.New(), ParentID: &missing}

	roots := BuildThread([]*Comment{orphan})
	if len(roots) != 1 || roots[0] != orphan {
		t.Fatalf("expected orphan promoted to root, got %v", roots)
	}
}

func TestWalk_DepthFirstAndEarlyStop(t *testing.T) {
	t.Parallel()

	a := newComment(nil)
	a1 := newComment(a)
	a1x := newComment(a1)
	b := newComment(nil)
	roots := BuildThread([]*Comment{a, a1, a1x, b})

	var order []uuid.UUID
	var depths []int
	Walk(roots, func(c *Comment, depth int) bool {
		order = append(order, c.ID)
		depths = append(depths, depth)
		return true
	})

	want := []uuid.UUID{a.ID, a1.ID, a1x.ID, b.ID}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("visit %d = %s, want %s", i, order[i], want[i])
		}
	}
	if depths[2] != 2 || depths[3] != 0 {
		t.Errorf("depths = %v, want [0 1 2 0]", depths)
	}

	visited := 0
	Walk(roots, func(c *Comment, _ int) bool {
		visited++
		return c.ID != a1.ID
	})
	if visited != 2 {
		t.Errorf("early stop visited %d, want 2", visited)
	}
}

func TestComment_CloneIsDeep(t *testing.T) {
	t.Parallel()

	root := newComment(nil)
	reply := newComment(root)
	root.Replies = []*Comment{reply}
	reply.Reactions[ReactionLike] = 1

	cp := root.Clone()
	cp.Replies[0].Reactions[ReactionLike] = 5
	cp.Replies = append(cp.Replies, newComment(root))

	if reply.Reactions[ReactionLike] != 1 {
		t.Errorf("clone shares reaction map with original")
	}
	if len(root.Replies) != 1 {
		t.Errorf("clone shares replies slice with original")
	}
}
