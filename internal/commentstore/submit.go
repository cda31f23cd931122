package commentstore

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/bizdesk-backend/internal/client"
	"github.com/heartmarshall/bizdesk-backend/internal/domain"
)

// Submission is the user-entered part of a comment or reply.
type Submission struct {
	Content    string
	AuthorName string
	TimelineID *string
}

func (in Submission) validate() error {
	var errs []domain.FieldError
	if strings.TrimSpace(in.Content) == "" {
		errs = append(errs, domain.FieldError{Field: "content", Message: "required"})
	}
	if strings.TrimSpace(in.AuthorName) == "" {
		errs = append(errs, domain.FieldError{Field: "author_name", Message: "required"})
	}
	return domain.NewValidationErrors(errs)
}

// AddComment submits a new root comment.
//
// A remote failure does not surface as an error: a local echo carrying the
// typed content is appended instead and returned with SyncStatus
// local_only. Errors are returned only for invalid input, a missing entity
// or a submission already in flight.
func (s *Store) AddComment(ctx context.Context, in Submission) (*domain.Comment, error) {
	return s.submit(ctx, nil, in)
}

// AddReply submits a reply to any comment already in the tree. An unknown
// parent returns domain.ErrNotFound without contacting the server.
func (s *Store) AddReply(ctx context.Context, parentID uuid.UUID, in Submission) (*domain.Comment, error) {
	return s.submit(ctx, &parentID, in)
}

func (s *Store) submit(ctx context.Context, parentID *uuid.UUID, in Submission) (*domain.Comment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	switch {
	case s.entity.IsZero():
		s.mu.Unlock()
		return nil, ErrNoEntity
	case s.submitting:
		s.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	if parentID != nil {
		if _, ok := s.nodes[*parentID]; !ok {
			s.mu.Unlock()
			return nil, domain.ErrNotFound
		}
	}
	s.submitting = true
	entity := s.entity
	s.mu.Unlock()

	created, err := s.remote.CreateComment(ctx, client.NewComment{
		Entity:     entity,
		ParentID:   parentID,
		TimelineID: in.TimelineID,
		AuthorName: strings.TrimSpace(in.AuthorName),
		Content:    strings.TrimSpace(in.Content),
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false

	if err != nil {
		s.log.WarnContext(ctx, "comment not saved, keeping local copy",
			slog.String("entity", entity.String()),
			slog.String("error", err.Error()),
		)
		created = s.localEcho(entity, parentID, in)
	} else {
		created = created.Clone()
		created.Replies = nil
		created.ParentID = parentID
		created.SyncStatus = domain.SyncStatusSynced
		if created.Reactions == nil {
			created.Reactions = domain.ReactionCounts{}
		}
	}

	s.attachLocked(ctx, entity, created)
	return created.Clone(), nil
}

func (s *Store) localEcho(entity domain.EntityRef, parentID *uuid.UUID, in Submission) *domain.Comment {
	return &domain.Comment{
		ID:         uuid.New(),
		ParentID:   parentID,
		Entity:     entity,
		TimelineID: in.TimelineID,
		AuthorName: LocalAuthor,
		Content:    strings.TrimSpace(in.Content),
		CreatedAt:  s.clock.Now(),
		Reactions:  domain.ReactionCounts{},
		SyncStatus: domain.SyncStatusLocalOnly,
	}
}

// attachLocked inserts a freshly submitted comment unless the tree moved on
// while the request was in flight: another entity was loaded, a reload
// already contains it, or its parent disappeared.
func (s *Store) attachLocked(ctx context.Context, entity domain.EntityRef, c *domain.Comment) {
	skip := ""
	switch {
	case s.entity != entity:
		skip = "entity changed"
	case s.nodes[c.ID] != nil:
		skip = "already loaded"
	case c.ParentID != nil && s.nodes[*c.ParentID] == nil:
		skip = "parent gone"
	}
	if skip != "" {
		s.log.DebugContext(ctx, "submitted comment not attached",
			slog.String("comment_id", c.ID.String()),
			slog.String("reason", skip),
		)
		return
	}
	s.insertLocked(c)
}
