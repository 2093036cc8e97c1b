package note

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/heartmarshall/keepnotes/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observation struct {
	store, command string
	outcome        domain.Outcome
}

type recordingObserver struct {
	mu   sync.Mutex
	seen []observation
}

func (o *recordingObserver) ObserveCommand(store, command string, outcome domain.Outcome) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = append(o.seen, observation{store, command, outcome})
}

func TestStore_DispatchAndRead(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore()

	res := s.Dispatch(ctx, Create{Draft: domain.Draft{Title: "a", Tags: []string{"x"}}})
	require.Equal(t, domain.OutcomeApplied, res.Outcome)

	n, c, ok := s.Get(res.Note.ID)
	require.True(t, ok)
	assert.Equal(t, domain.CollectionActive, c)
	assert.Equal(t, "a", n.Title)

	s.Dispatch(ctx, Archive{ID: n.ID})
	_, c, _ = s.Get(n.ID)
	assert.Equal(t, domain.CollectionArchived, c)
	assert.Equal(t, Counts{Archived: 1}, s.Counts())
	assert.Len(t, s.List(domain.CollectionArchived), 1)
	assert.Empty(t, s.List(domain.CollectionActive))

	_, _, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestStore_ListReturnsCopies(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	res := s.Dispatch(context.Background(), Create{Draft: domain.Draft{Title: "a", Tags: []string{"x"}}})

	list := s.List(domain.CollectionActive)
	list[0].Tags[0] = "mutated"
	list[0].Title = "mutated"

	n, _, _ := s.Get(res.Note.ID)
	assert.Equal(t, "a", n.Title)
	assert.Equal(t, []string{"x"}, n.Tags)
}

func TestStore_SnapshotIsStable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore()
	res := s.Dispatch(ctx, Create{Draft: domain.Draft{Title: "a"}})

	before := s.Snapshot()
	s.Dispatch(ctx, Remove{ID: res.Note.ID})

	assert.Len(t, before.Active, 1)
	assert.Empty(t, before.Trashed)
	assert.Len(t, s.Snapshot().Trashed, 1)
}

func TestStore_IDsNeverReused(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	// The generator repeats "dup" until it has been issued once.
	calls := 0
	gen := func() string {
		calls++
		if calls <= 3 {
			return "dup"
		}
		return "fresh"
	}
	s := NewStore(discardLogger(), WithIDGenerator(gen))

	first := s.Dispatch(ctx, Create{Draft: domain.Draft{Title: "a"}})
	require.Equal(t, "dup", first.Note.ID)
	s.Dispatch(ctx, Remove{ID: "dup"})
	s.Dispatch(ctx, Purge{ID: "dup"})

	second := s.Dispatch(ctx, Create{Draft: domain.Draft{Title: "b"}})
	require.Equal(t, domain.OutcomeApplied, second.Outcome)
	assert.Equal(t, "fresh", second.Note.ID)
}

func TestStore_WithState(t *testing.T) {
	t.Parallel()

	seed := State{Archived: []domain.Note{{ID: "n1", Title: "seeded", Tags: []string{}}}}
	s := newTestStore(withState(seed))

	res := s.Dispatch(context.Background(), Create{Draft: domain.Draft{Title: "new"}})
	assert.Equal(t, "n2", res.Note.ID, "seeded ids are not reissued")
	assert.Equal(t, Counts{Active: 1, Archived: 1}, s.Counts())
}

func TestStore_WithStateRejectsDuplicateIDs(t *testing.T) {
	t.Parallel()

	seed := State{
		Active:  []domain.Note{{ID: "x", Tags: []string{}}},
		Trashed: []domain.Note{{ID: "x", Tags: []string{}}},
	}
	assert.PanicsWithValue(t, `note: seed state holds id "x" more than once`, func() {
		withState(seed)
	})
}

func TestStore_DispatchResultIsDetached(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore()

	created := s.Dispatch(ctx, Create{Draft: domain.Draft{Title: "a", Tags: []string{"work"}}})
	require.Equal(t, domain.OutcomeApplied, created.Outcome)
	created.Note.Tags[0] = "changed"

	got, _, ok := s.Get(created.Note.ID)
	require.True(t, ok)
	assert.Equal(t, []string{"work"}, got.Tags)

	retagged := s.Dispatch(ctx, SetTags{ID: created.Note.ID, Tags: []string{"again"}})
	require.Equal(t, domain.OutcomeApplied, retagged.Outcome)
	retagged.Note.Tags[0] = "changed"
	assert.Equal(t, []string{"again"}, s.Snapshot().Active[0].Tags)

	s.Dispatch(ctx, Remove{ID: created.Note.ID})
	purged := s.Dispatch(ctx, Purge{ID: created.Note.ID})
	require.Equal(t, domain.OutcomeApplied, purged.Outcome)
	assert.Equal(t, []string{"again"}, purged.Note.Tags)
}

func TestStore_ObserverAndClose(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	obs := &recordingObserver{}
	s := newTestStore(WithObserver(obs))

	res := s.Dispatch(ctx, Create{Draft: domain.Draft{Title: "a"}})
	s.Dispatch(ctx, Restore{ID: res.Note.ID})
	s.Close()
	closed := s.Dispatch(ctx, TogglePin{ID: res.Note.ID})

	assert.Equal(t, domain.OutcomeClosed, closed.Outcome)
	assert.True(t, s.Closed())
	assert.Equal(t, Counts{}, s.Counts())
	assert.Equal(t, []observation{
		{"note", "create", domain.OutcomeApplied},
		{"note", "restore", domain.OutcomeNotFound},
		{"note", "toggle_pin", domain.OutcomeClosed},
	}, obs.seen)
}

func TestStore_Logging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := NewStore(log, WithIDGenerator(seqIDs()))
	ctx := context.Background()

	s.Dispatch(ctx, Create{Draft: domain.Draft{Title: "a"}})
	s.Dispatch(ctx, Archive{ID: "nope"})

	out := buf.String()
	assert.Contains(t, out, `"service":"note"`)
	assert.Contains(t, out, `"msg":"note created"`)
	assert.Contains(t, out, `"note_id":"n1"`)
	assert.Contains(t, out, `"outcome":"NOT_FOUND"`)
	assert.Contains(t, out, `"note_id":"nope"`)
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore(discardLogger())

	const workers, perWorker = 8, 50
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				res := s.Dispatch(ctx, Create{Draft: domain.Draft{Title: "t"}})
				s.Dispatch(ctx, Archive{ID: res.Note.ID})
				s.Dispatch(ctx, TogglePin{ID: res.Note.ID})
			}
		}()
	}
	wg.Wait()

	st := s.Snapshot()
	assert.Equal(t, workers*perWorker, st.Len())
	assert.Len(t, st.Archived, workers*perWorker)

	seen := make(map[string]bool)
	for _, n := range st.Archived {
		assert.False(t, seen[n.ID], "duplicate id %s", n.ID)
		seen[n.ID] = true
	}
}
