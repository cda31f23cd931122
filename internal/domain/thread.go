package domain

import "github.com/google/uuid"

// BuildThread assembles flat comments (ordered by creation) into a forest.
// A comment whose parent is absent from the input is promoted to a root so
// that nothing returned by storage is silently dropped.
func BuildThread(flat []*Comment) []*Comment {
	byID := make(map[uuid.UUID]*Comment, len(flat))
	for _, c := range flat {
		c.Replies = nil
		byID[c.ID] = c
	}

	roots := make([]*Comment, 0, len(flat))
	for _, c := range flat {
		if c.ParentID != nil {
			if parent, ok := byID[*c.ParentID]; ok && parent != c {
				parent.Replies = append(parent.Replies, c)
				continue
			}
		}
		roots = append(roots, c)
	}
	return roots
}

// Walk visits every comment depth-first, parents before children, in
// reply order. It stops early when visit returns false. The walk uses an
// explicit stack so deep reply chains cannot exhaust the goroutine stack.
func Walk(roots []*Comment, visit func(c *Comment, depth int) bool) {
	type frame struct {
		c     *Comment
		depth int
	}

	stack := make([]frame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{roots[i], 0})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !visit(f.c, f.depth) {
			return
		}
		for i := len(f.c.Replies) - 1; i >= 0; i-- {
			stack = append(stack, frame{f.c.Replies[i], f.depth + 1})
		}
	}
}

// CountThread returns the number of comments in the forest.
func CountThread(roots []*Comment) int {
	n := 0
	Walk(roots, func(*Comment, int) bool {
		n++
		return true
	})
	return n
}
