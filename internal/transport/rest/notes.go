package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/keepnotes/internal/domain"
	"github.com/heartmarshall/keepnotes/internal/service/note"
	"github.com/heartmarshall/keepnotes/pkg/sanitize"
)

// noteStore defines the note store operations the handlers need.
type noteStore interface {
	Dispatch(ctx context.Context, cmd note.Command) note.Result
	Get(id string) (domain.Note, domain.Collection, bool)
	List(c domain.Collection) []domain.Note
}

// NotesHandler serves the note endpoints.
type NotesHandler struct {
	store    noteStore
	log      *slog.Logger
	maxBytes int64
}

// NewNotesHandler creates a NotesHandler. maxBytes bounds request bodies.
func NewNotesHandler(store noteStore, logger *slog.Logger, maxBytes int64) *NotesHandler {
	return &NotesHandler{store: store, log: logger, maxBytes: maxBytes}
}

// NoteResponse is a note as rendered to API clients.
type NoteResponse struct {
	domain.Note
	// ContentHTML is Content with script-executing markup removed.
	ContentHTML string            `json:"contentHtml"`
	Collection  domain.Collection `json:"collection"`
}

// ProjectionResponse is the body of GET /api/notes.
type ProjectionResponse struct {
	Collection domain.Collection `json:"collection"`
	Pinned     []NoteResponse    `json:"pinned"`
	Others     []NoteResponse    `json:"others"`
	Total      int               `json:"total"`
}

func toResponse(n domain.Note, c domain.Collection) NoteResponse {
	return NoteResponse{Note: n, ContentHTML: sanitize.HTML(n.Content), Collection: c}
}

func toResponses(notes []domain.Note, c domain.Collection) []NoteResponse {
	out := make([]NoteResponse, len(notes))
	for i, n := range notes {
		out[i] = toResponse(n, c)
	}
	return out
}

// List handles GET /api/notes.
func (h *NotesHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c, ok := domain.ParseCollection(q.Get("collection"))
	if !ok {
		handleError(h.log, w, r, domain.NewValidationError("collection", "must be one of: active, archived, trashed"))
		return
	}

	p, err := note.Project(h.store.List(c), note.Query{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		TagGlob:  q.Get("tag_glob"),
		Sort:     note.SortKey(q.Get("sort")),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ProjectionResponse{
		Collection: c,
		Pinned:     toResponses(p.Pinned, c),
		Others:     toResponses(p.Others, c),
		Total:      p.Len(),
	})
}

// Get handles GET /api/notes/{id}.
func (h *NotesHandler) Get(w http.ResponseWriter, r *http.Request) {
	n, c, ok := h.store.Get(r.PathValue("id"))
	if !ok {
		handleError(h.log, w, r, domain.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(n, c))
}

// Create handles POST /api/notes.
func (h *NotesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in note.FieldsInput
	if err := decodeJSON(w, r, h.maxBytes, &in); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	h.respond(w, r, note.Create{Draft: in.Fields()}, http.StatusCreated)
}

// Update handles PUT /api/notes/{id}.
func (h *NotesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in note.FieldsInput
	if err := decodeJSON(w, r, h.maxBytes, &in); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	h.respond(w, r, note.Update{ID: r.PathValue("id"), Fields: in.Fields()}, http.StatusOK)
}

// SetPriority handles PUT /api/notes/{id}/priority.
func (h *NotesHandler) SetPriority(w http.ResponseWriter, r *http.Request) {
	var in note.PriorityInput
	if err := decodeJSON(w, r, h.maxBytes, &in); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	h.respond(w, r, note.SetPriority{ID: r.PathValue("id"), Priority: domain.Priority(in.Priority)}, http.StatusOK)
}

// SetTags handles PUT /api/notes/{id}/tags.
func (h *NotesHandler) SetTags(w http.ResponseWriter, r *http.Request) {
	var in note.TagsInput
	if err := decodeJSON(w, r, h.maxBytes, &in); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	h.respond(w, r, note.SetTags{ID: r.PathValue("id"), Tags: in.Tags}, http.StatusOK)
}

// Archive handles POST /api/notes/{id}/archive.
func (h *NotesHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, note.Archive{ID: r.PathValue("id")}, http.StatusOK)
}

// Unarchive handles POST /api/notes/{id}/unarchive.
func (h *NotesHandler) Unarchive(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, note.Unarchive{ID: r.PathValue("id")}, http.StatusOK)
}

// Trash handles POST /api/notes/{id}/trash.
func (h *NotesHandler) Trash(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, note.Remove{ID: r.PathValue("id")}, http.StatusOK)
}

// Restore handles POST /api/notes/{id}/restore.
func (h *NotesHandler) Restore(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, note.Restore{ID: r.PathValue("id")}, http.StatusOK)
}

// TogglePin handles POST /api/notes/{id}/pin.
func (h *NotesHandler) TogglePin(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, note.TogglePin{ID: r.PathValue("id")}, http.StatusOK)
}

// Purge handles DELETE /api/notes/{id}. Only trashed notes can be purged.
func (h *NotesHandler) Purge(w http.ResponseWriter, r *http.Request) {
	res := h.store.Dispatch(r.Context(), note.Purge{ID: r.PathValue("id")})
	if err := res.Outcome.Err(); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// respond dispatches cmd and writes the affected note with its current
// collection.
func (h *NotesHandler) respond(w http.ResponseWriter, r *http.Request, cmd note.Command, status int) {
	res := h.store.Dispatch(r.Context(), cmd)
	if err := res.Outcome.Err(); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	n, c, ok := h.store.Get(res.Note.ID)
	if !ok {
		// Moved or purged by a concurrent request after dispatch.
		handleError(h.log, w, r, domain.ErrNotFound)
		return
	}
	writeJSON(w, status, toResponse(n, c))
}
