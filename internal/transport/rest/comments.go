package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/heartmarshall/bizdesk-backend/internal/domain"
	"github.com/heartmarshall/bizdesk-backend/internal/service/comment"
	"github.com/heartmarshall/bizdesk-backend/internal/transport/dataloader"
	"github.com/heartmarshall/bizdesk-backend/pkg/commentapi"
)

// commentService defines the minimal interface needed by CommentHandler.
type commentService interface {
	List(ctx context.Context, input comment.ListInput) ([]*domain.Comment, error)
	Create(ctx context.Context, input comment.CreateInput) (*domain.Comment, error)
	AddReaction(ctx context.Context, input comment.ReactionInput) (*domain.Reaction, error)
}

// CommentHandler serves the comment and reaction endpoints. The same handler
// backs both the authenticated and the public routes; the middleware stack
// decides who may reach it.
type CommentHandler struct {
	svc              commentService
	maxCountEntities int
	log              *slog.Logger
}

// NewCommentHandler creates a CommentHandler.
func NewCommentHandler(svc commentService, maxCountEntities int, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{
		svc:              svc,
		maxCountEntities: maxCountEntities,
		log:              logger.With("handler", "comment"),
	}
}

// List handles GET /api/comments and /api/public/comments.
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ref := domain.EntityRef{Type: q.Get("entity_type"), ID: q.Get("entity_id")}

	tree, err := h.svc.List(r.Context(), comment.ListInput{Entity: ref})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := commentapi.CommentList{Comments: make([]commentapi.Comment, len(tree))}
	for i, c := range tree {
		resp.Comments[i] = commentapi.FromDomainComment(c)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create handles POST /api/comments and /api/public/comments.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req commentapi.CreateCommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.svc.Create(r.Context(), comment.CreateInput{
		Entity:     domain.EntityRef{Type: req.EntityType, ID: req.EntityID},
		ParentID:   req.ParentID,
		TimelineID: req.TimelineID,
		AuthorName: req.AuthorName,
		Content:    req.Content,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, commentapi.FromDomainComment(c))
}

// AddReaction handles POST /api/reactions and /api/public/reactions.
func (h *CommentHandler) AddReaction(w http.ResponseWriter, r *http.Request) {
	var req commentapi.CreateReactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reaction, err := h.svc.AddReaction(r.Context(), comment.ReactionInput{
		EntityType:    req.EntityType,
		EntityID:      req.EntityID,
		EmotionTypeID: req.EmotionTypeID,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	emotionID, _ := reaction.Kind.EmotionTypeID()
	writeJSON(w, http.StatusCreated, commentapi.Reaction{
		ID:            reaction.ID,
		CommentID:     reaction.CommentID,
		EmotionTypeID: emotionID,
		CreatedAt:     reaction.CreatedAt,
	})
}

// Counts handles GET /api/comments/counts?entity_type=T&entity_id=a&entity_id=b.
// Each id is loaded through the request's DataLoader so the lookups collapse
// into one query.
func (h *CommentHandler) Counts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entityType := q.Get("entity_type")
	ids := q["entity_id"]

	if len(ids) == 0 {
		writeError(w, http.StatusBadRequest, "validation: entity_id: at least one required")
		return
	}
	if len(ids) > h.maxCountEntities {
		writeError(w, http.StatusBadRequest, "validation: entity_id: max "+strconv.Itoa(h.maxCountEntities)+" entities")
		return
	}

	loader := dataloader.FromContext(r.Context()).CommentCountByEntity
	thunks := make([]func() (int, error), len(ids))
	for i, id := range ids {
		thunks[i] = loader.Load(r.Context(), domain.EntityRef{Type: entityType, ID: id})
	}

	resp := commentapi.CommentCounts{Counts: make([]commentapi.CommentCount, len(ids))}
	for i, thunk := range thunks {
		n, err := thunk()
		if err != nil {
			handleError(h.log, w, r, err)
			return
		}
		resp.Counts[i] = commentapi.CommentCount{EntityType: entityType, EntityID: ids[i], Count: n}
	}
	writeJSON(w, http.StatusOK, resp)
}
