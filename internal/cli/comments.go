package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/bizdesk-backend/internal/commentstore"
	"github.com/heartmarshall/bizdesk-backend/internal/domain"
)

// entityFlags binds --type and --id to ref.
func entityFlags(cmd *cobra.Command, ref *domain.EntityRef) {
	cmd.Flags().StringVar(&ref.Type, "type", "", "entity type (expense, project, quote, ...)")
	cmd.Flags().StringVar(&ref.ID, "id", "", "entity id")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("id")
}

func submissionFlags(cmd *cobra.Command, in *commentstore.Submission, timeline *string) {
	cmd.Flags().StringVar(&in.AuthorName, "author", "", "author name")
	cmd.Flags().StringVar(timeline, "timeline", "", "timeline entry id")
	_ = cmd.MarkFlagRequired("author")
}

// loadStore returns a store holding the thread of ref.
func (e *env) loadStore(ctx context.Context, ref domain.EntityRef) (*commentstore.Store, error) {
	store := commentstore.New(e.log, e.client)
	if _, err := store.Load(ctx, ref); err != nil {
		return nil, err
	}
	return store, nil
}

func listCmd(e *env) *cobra.Command {
	var ref domain.EntityRef

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the comment thread of an entity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := e.loadStore(cmd.Context(), ref)
			if err != nil {
				return err
			}

			tree := store.Tree()
			if len(tree) == 0 {
				e.printf("no comments on %s\n", ref)
				return nil
			}
			printThread(e, tree)
			return nil
		},
	}
	entityFlags(cmd, &ref)
	return cmd
}

func postCmd(e *env) *cobra.Command {
	var (
		ref      domain.EntityRef
		in       commentstore.Submission
		timeline string
	)

	cmd := &cobra.Command{
		Use:   "post [content]",
		Short: "Add a root comment",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := e.loadStore(cmd.Context(), ref)
			if err != nil {
				return err
			}

			in.Content = strings.Join(args, " ")
			in.TimelineID = optional(timeline)
			c, err := store.AddComment(cmd.Context(), in)
			if err != nil {
				return err
			}
			reportSubmission(e, c)
			return nil
		},
	}
	entityFlags(cmd, &ref)
	submissionFlags(cmd, &in, &timeline)
	return cmd
}

func replyCmd(e *env) *cobra.Command {
	var (
		ref      domain.EntityRef
		in       commentstore.Submission
		timeline string
	)

	cmd := &cobra.Command{
		Use:   "reply <parent-id> [content]",
		Short: "Reply to an existing comment",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			parentID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("parent id: %w", err)
			}

			store, err := e.loadStore(cmd.Context(), ref)
			if err != nil {
				return err
			}

			in.Content = strings.Join(args[1:], " ")
			in.TimelineID = optional(timeline)
			c, err := store.AddReply(cmd.Context(), parentID, in)
			if err != nil {
				return err
			}
			reportSubmission(e, c)
			return nil
		},
	}
	entityFlags(cmd, &ref)
	submissionFlags(cmd, &in, &timeline)
	return cmd
}

func reactCmd(e *env) *cobra.Command {
	var ref domain.EntityRef

	kinds := make([]string, 0, 6)
	for _, k := range domain.ReactionKinds() {
		kinds = append(kinds, k.String())
	}

	cmd := &cobra.Command{
		Use:       "react <comment-id> <kind>",
		Short:     "React to a comment (" + strings.Join(kinds, ", ") + ")",
		Args:      cobra.ExactArgs(2),
		ValidArgs: kinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			commentID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("comment id: %w", err)
			}
			kind := domain.ReactionKind(args[1])

			store, err := e.loadStore(cmd.Context(), ref)
			if err != nil {
				return err
			}
			if err := store.AddReaction(cmd.Context(), commentID, kind); err != nil {
				return err
			}

			c, _ := store.Find(commentID)
			e.printf("%s on %s: %d\n", kind, short(commentID), c.Reactions[kind])
			return nil
		},
	}
	entityFlags(cmd, &ref)
	return cmd
}

func countsCmd(e *env) *cobra.Command {
	var entityType string

	cmd := &cobra.Command{
		Use:   "counts <entity-id>...",
		Short: "Show comment counts for several entities (requires a token)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, err := e.client.CommentCounts(cmd.Context(), entityType, args)
			if err != nil {
				return err
			}
			for _, c := range counts {
				e.printf("%s\t%d\n", c.Entity, c.Count)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&entityType, "type", "", "entity type")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func printThread(e *env, tree []*domain.Comment) {
	domain.Walk(tree, func(c *domain.Comment, depth int) bool {
		e.printf("%s- [%s] %s: %s%s%s\n",
			strings.Repeat("  ", depth),
			short(c.ID),
			c.AuthorName,
			c.Content,
			formatReactions(c.Reactions),
			syncMarker(c),
		)
		return true
	})
}

func reportSubmission(e *env, c *domain.Comment) {
	if c.SyncStatus == domain.SyncStatusLocalOnly {
		e.printf("saved locally only, server unreachable: %s\n", c.ID)
		return
	}
	e.printf("created %s\n", c.ID)
}

// formatReactions renders non-zero counts in display order.
func formatReactions(rc domain.ReactionCounts) string {
	var parts []string
	for _, k := range domain.ReactionKinds() {
		if n := rc[k]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", k, n))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

func syncMarker(c *domain.Comment) string {
	if c.SyncStatus == domain.SyncStatusLocalOnly {
		return " [unsynced]"
	}
	return ""
}

func short(id uuid.UUID) string { return id.String()[:8] }

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
