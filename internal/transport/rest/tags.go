package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/keepnotes/internal/domain"
	"github.com/heartmarshall/keepnotes/internal/service/tag"
)

type tagRegistry interface {
	Dispatch(ctx context.Context, cmd tag.Command) tag.Result
	Labels() []string
}

// TagsHandler serves the tag registry endpoints.
type TagsHandler struct {
	registry tagRegistry
	log      *slog.Logger
	maxBytes int64
}

// NewTagsHandler creates a TagsHandler.
func NewTagsHandler(registry tagRegistry, logger *slog.Logger, maxBytes int64) *TagsHandler {
	return &TagsHandler{registry: registry, log: logger, maxBytes: maxBytes}
}

// TagsResponse lists registered labels in insertion order.
type TagsResponse struct {
	Tags []string `json:"tags"`
}

type createTagRequest struct {
	Label string `json:"label"`
}

// List handles GET /api/tags.
func (h *TagsHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, TagsResponse{Tags: h.registry.Labels()})
}

// Create handles POST /api/tags. Blank labels are rejected with 400 and
// duplicates with 409; the registry is unchanged in both cases.
func (h *TagsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTagRequest
	if err := decodeJSON(w, r, h.maxBytes, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if len(req.Label) > 64 {
		handleError(h.log, w, r, domain.NewValidationError("label", "max 64 characters"))
		return
	}

	res := h.registry.Dispatch(r.Context(), tag.Add{Label: req.Label})
	switch res.Outcome {
	case domain.OutcomeApplied:
		writeJSON(w, http.StatusCreated, TagsResponse{Tags: h.registry.Labels()})
	case domain.OutcomeInvalid:
		handleError(h.log, w, r, domain.NewValidationError("label", "required"))
	default:
		handleError(h.log, w, r, res.Outcome.Err())
	}
}

// Delete handles DELETE /api/tags/{label}. Notes keep their copies of the
// label.
func (h *TagsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	res := h.registry.Dispatch(r.Context(), tag.Remove{Label: r.PathValue("label")})
	if err := res.Outcome.Err(); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
