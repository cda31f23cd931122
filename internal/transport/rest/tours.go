package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/bizdesk-backend/internal/domain"
	"github.com/heartmarshall/bizdesk-backend/pkg/commentapi"
)

type tourStateService interface {
	Get(ctx context.Context, tourID string) (domain.TourStatus, error)
	Set(ctx context.Context, tourID string, status domain.TourStatus) error
	Clear(ctx context.Context, tourID string) error
}

// TourHandler serves /api/tours/{tourID}/status.
type TourHandler struct {
	svc tourStateService
	log *slog.Logger
}

// NewTourHandler creates a TourHandler.
func NewTourHandler(svc tourStateService, logger *slog.Logger) *TourHandler {
	return &TourHandler{svc: svc, log: logger.With("handler", "tour")}
}

// GetStatus handles GET. A tour the user never finished reports "none".
func (h *TourHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	tourID := r.PathValue("tourID")

	status, err := h.svc.Get(r.Context(), tourID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, commentapi.TourStatus{TourID: tourID, Status: status.String()})
}

// PutStatus handles PUT with body {"status": "completed"|"dismissed"|"none"}.
func (h *TourHandler) PutStatus(w http.ResponseWriter, r *http.Request) {
	var req commentapi.TourStatus
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.Set(r.Context(), r.PathValue("tourID"), domain.TourStatus(req.Status)); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteStatus handles DELETE; clearing an unknown tour succeeds.
func (h *TourHandler) DeleteStatus(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Clear(r.Context(), r.PathValue("tourID")); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
