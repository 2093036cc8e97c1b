package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/heartmarshall/keepnotes/internal/domain"
	"github.com/heartmarshall/keepnotes/internal/service/note"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNotesHandler(t *testing.T) (*NotesHandler, *note.Store) {
	t.Helper()
	ids := 0
	store := note.NewStore(discardLogger(), note.WithIDGenerator(func() string {
		ids++
		return fmt.Sprintf("id%d", ids)
	}))
	return NewNotesHandler(store, discardLogger(), 1<<20), store
}

func mustCreate(t *testing.T, store *note.Store, d domain.Draft) domain.Note {
	t.Helper()
	res := store.Dispatch(context.Background(), note.Create{Draft: d})
	require.Equal(t, domain.OutcomeApplied, res.Outcome)
	return res.Note
}

func TestNotes_Create(t *testing.T) {
	t.Parallel()

	h, store := newNotesHandler(t)
	rec := httptest.NewRecorder()
	h.Create(rec, newRequest(http.MethodPost, "/api/notes",
		`{"title":"Groceries","content":"<b>milk</b><script>x()</script>","tags":[" food ","food"]}`))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decode[NoteResponse](t, rec)
	assert.Equal(t, "id1", resp.ID)
	assert.Equal(t, "Groceries", resp.Title)
	assert.Equal(t, domain.DefaultColor, resp.Color)
	assert.Equal(t, domain.PriorityLow, resp.Priority)
	assert.Equal(t, []string{"food"}, resp.Tags)
	assert.Equal(t, domain.CollectionActive, resp.Collection)
	assert.Contains(t, resp.Content, "<script>", "content is stored as given")
	assert.NotContains(t, resp.ContentHTML, "<script>")
	assert.Contains(t, resp.ContentHTML, "<b>milk</b>")

	assert.Equal(t, note.Counts{Active: 1}, store.Counts())
}

func TestNotes_CreateValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"empty note", `{"title":"  "}`, "title"},
		{"bad priority", `{"title":"x","priority":"urgent"}`, "priority"},
		{"bad json", `{"title":`, "body"},
		{"unknown field", `{"title":"x","owner":"me"}`, "body"},
		{"trailing data", `{"title":"x"}{}`, "body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, store := newNotesHandler(t)
			rec := httptest.NewRecorder()
			h.Create(rec, newRequest(http.MethodPost, "/api/notes", tt.body))

			require.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decode[ErrorResponse](t, rec)
			require.NotEmpty(t, resp.Fields)
			assert.Equal(t, tt.field, resp.Fields[0].Field)
			assert.Zero(t, store.Counts().Active)
		})
	}
}

func TestNotes_CreateBodyTooLarge(t *testing.T) {
	t.Parallel()

	store := note.NewStore(discardLogger())
	h := NewNotesHandler(store, discardLogger(), 32)
	rec := httptest.NewRecorder()
	h.Create(rec, newRequest(http.MethodPost, "/api/notes", `{"title":"`+strings.Repeat("a", 100)+`"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "max 32 bytes")
}

func TestNotes_Get(t *testing.T) {
	t.Parallel()

	h, store := newNotesHandler(t)
	n := mustCreate(t, store, domain.Draft{Title: "a"})
	store.Dispatch(context.Background(), note.Archive{ID: n.ID})

	rec := httptest.NewRecorder()
	h.Get(rec, newRequest(http.MethodGet, "/api/notes/"+n.ID, "", "id", n.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.CollectionArchived, decode[NoteResponse](t, rec).Collection)

	rec = httptest.NewRecorder()
	h.Get(rec, newRequest(http.MethodGet, "/api/notes/nope", "", "id", "nope"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not found"}`, rec.Body.String())
}

func TestNotes_Update(t *testing.T) {
	t.Parallel()

	h, store := newNotesHandler(t)
	n := mustCreate(t, store, domain.Draft{Title: "a"})

	rec := httptest.NewRecorder()
	h.Update(rec, newRequest(http.MethodPut, "/api/notes/"+n.ID,
		`{"title":"b","content":"c","color":"red","priority":"high","tags":["t"]}`, "id", n.ID))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[NoteResponse](t, rec)
	assert.Equal(t, n.ID, resp.ID)
	assert.Equal(t, "b", resp.Title)
	assert.Equal(t, domain.PriorityHigh, resp.Priority)
	assert.Equal(t, n.CreatedAt, resp.CreatedAt)
}

func TestNotes_UpdateNonActiveIs404(t *testing.T) {
	t.Parallel()

	h, store := newNotesHandler(t)
	n := mustCreate(t, store, domain.Draft{Title: "a"})
	store.Dispatch(context.Background(), note.Remove{ID: n.ID})

	rec := httptest.NewRecorder()
	h.Update(rec, newRequest(http.MethodPut, "/api/notes/"+n.ID, `{"title":"b"}`, "id", n.ID))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	got, _, _ := store.Get(n.ID)
	assert.Equal(t, "a", got.Title)
}

func TestNotes_Lifecycle(t *testing.T) {
	t.Parallel()

	h, store := newNotesHandler(t)
	n := mustCreate(t, store, domain.Draft{Title: "a"})

	steps := []struct {
		name     string
		handler  http.HandlerFunc
		wantCode int
		wantIn   domain.Collection
	}{
		{"archive", h.Archive, http.StatusOK, domain.CollectionArchived},
		{"trash while archived", h.Trash, http.StatusNotFound, domain.CollectionArchived},
		{"unarchive", h.Unarchive, http.StatusOK, domain.CollectionActive},
		{"pin", h.TogglePin, http.StatusOK, domain.CollectionActive},
		{"trash", h.Trash, http.StatusOK, domain.CollectionTrashed},
		{"restore", h.Restore, http.StatusOK, domain.CollectionActive},
		{"purge while active", h.Purge, http.StatusNotFound, domain.CollectionActive},
		{"trash again", h.Trash, http.StatusOK, domain.CollectionTrashed},
	}
	for _, st := range steps {
		rec := httptest.NewRecorder()
		st.handler(rec, newRequest(http.MethodPost, "/api/notes/"+n.ID, "", "id", n.ID))
		require.Equal(t, st.wantCode, rec.Code, st.name)
		_, c, ok := store.Get(n.ID)
		require.True(t, ok, st.name)
		assert.Equal(t, st.wantIn, c, st.name)
	}

	got, _, _ := store.Get(n.ID)
	assert.True(t, got.Pinned, "pin survives moves")

	rec := httptest.NewRecorder()
	h.Purge(rec, newRequest(http.MethodDelete, "/api/notes/"+n.ID, "", "id", n.ID))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	_, _, ok := store.Get(n.ID)
	assert.False(t, ok)

	rec = httptest.NewRecorder()
	h.Restore(rec, newRequest(http.MethodPost, "/api/notes/"+n.ID+"/restore", "", "id", n.ID))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotes_SetPriorityAndTags(t *testing.T) {
	t.Parallel()

	h, store := newNotesHandler(t)
	n := mustCreate(t, store, domain.Draft{Title: "a"})

	rec := httptest.NewRecorder()
	h.SetPriority(rec, newRequest(http.MethodPut, "/", `{"priority":"medium"}`, "id", n.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.PriorityMedium, decode[NoteResponse](t, rec).Priority)

	rec = httptest.NewRecorder()
	h.SetPriority(rec, newRequest(http.MethodPut, "/", `{"priority":"meh"}`, "id", n.ID))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.SetTags(rec, newRequest(http.MethodPut, "/", `{"tags":["x","y","x"]}`, "id", n.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"x", "y"}, decode[NoteResponse](t, rec).Tags)
}

func TestNotes_List(t *testing.T) {
	t.Parallel()

	h, store := newNotesHandler(t)
	ctx := context.Background()
	mustCreate(t, store, domain.Draft{Title: "one", Priority: domain.PriorityMedium, Tags: []string{"Work"}})
	two := mustCreate(t, store, domain.Draft{Title: "two", Priority: domain.PriorityHigh, Tags: []string{"home"}})
	mustCreate(t, store, domain.Draft{Title: "three", Priority: domain.PriorityLow, Tags: []string{"work"}})
	four := mustCreate(t, store, domain.Draft{Title: "four", Tags: []string{"work"}})
	store.Dispatch(ctx, note.TogglePin{ID: two.ID})
	store.Dispatch(ctx, note.Archive{ID: four.ID})

	rec := httptest.NewRecorder()
	h.List(rec, newRequest(http.MethodGet, "/api/notes?sort=priority_low_high", ""))
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[ProjectionResponse](t, rec)
	assert.Equal(t, domain.CollectionActive, resp.Collection)
	assert.Equal(t, 3, resp.Total)
	require.Len(t, resp.Pinned, 1)
	assert.Equal(t, "two", resp.Pinned[0].Title)
	require.Len(t, resp.Others, 2)
	assert.Equal(t, "three", resp.Others[0].Title, "low before medium")
	assert.Equal(t, "one", resp.Others[1].Title)

	rec = httptest.NewRecorder()
	h.List(rec, newRequest(http.MethodGet, "/api/notes?category=WORK", ""))
	assert.Equal(t, 2, decode[ProjectionResponse](t, rec).Total)

	rec = httptest.NewRecorder()
	h.List(rec, newRequest(http.MethodGet, "/api/notes?collection=archive", ""))
	resp = decode[ProjectionResponse](t, rec)
	assert.Equal(t, domain.CollectionArchived, resp.Collection)
	require.Len(t, resp.Others, 1)
	assert.Equal(t, "four", resp.Others[0].Title)
}

func TestNotes_ListInvalidQuery(t *testing.T) {
	t.Parallel()

	h, _ := newNotesHandler(t)
	for _, target := range []string{
		"/api/notes?collection=deleted",
		"/api/notes?sort=random",
		"/api/notes?tag_glob=%5B",
	} {
		rec := httptest.NewRecorder()
		h.List(rec, newRequest(http.MethodGet, target, ""))
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestNotes_ClosedStore(t *testing.T) {
	t.Parallel()

	h, store := newNotesHandler(t)
	store.Close()

	rec := httptest.NewRecorder()
	h.Create(rec, newRequest(http.MethodPost, "/api/notes", `{"title":"x"}`))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
