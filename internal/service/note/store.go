package note

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/heartmarshall/keepnotes/internal/domain"
)

// Observer is notified after every dispatched command.
type Observer interface {
	ObserveCommand(store, command string, outcome domain.Outcome)
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for createdAt/editedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.reducer.Now = now }
}

// WithIDGenerator overrides the note id generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithObserver registers an observer for dispatched commands.
func WithObserver(o Observer) Option {
	return func(s *Store) { s.observer = o }
}

// withState starts the store from an existing snapshot. It panics if an id
// appears more than once across the collections.
func withState(st State) Option {
	if id, ok := st.duplicateID(); ok {
		panic(fmt.Sprintf("note: seed state holds id %q more than once", id))
	}
	return func(s *Store) { s.state = st }
}

// Store owns the note collections. Commands are applied one at a time in
// the order Dispatch is called; readers get immutable snapshots.
type Store struct {
	mu       sync.RWMutex
	state    State
	reducer  Reducer
	newID    func() string
	issued   map[string]struct{}
	closed   bool
	observer Observer
	log      *slog.Logger
}

// NewStore creates an empty note store.
func NewStore(log *slog.Logger, opts ...Option) *Store {
	s := &Store{
		reducer: DefaultReducer(),
		issued:  make(map[string]struct{}),
		log:     log.With("service", "note"),
	}
	s.newID = s.reducer.NewID
	for _, opt := range opts {
		opt(s)
	}
	for _, c := range collections {
		for _, n := range s.state.List(c) {
			s.issued[n.ID] = struct{}{}
		}
	}
	// Ids stay unique for the lifetime of the store, purged notes included.
	s.reducer.NewID = func() string {
		id := s.newID()
		if _, ok := s.issued[id]; ok {
			return ""
		}
		return id
	}
	return s
}

// Dispatch applies cmd and returns its result. Unknown ids are not errors:
// the state is left unchanged and the outcome says why.
func (s *Store) Dispatch(ctx context.Context, cmd Command) Result {
	s.mu.Lock()
	var res Result
	if s.closed {
		res = Result{Outcome: domain.OutcomeClosed}
	} else {
		s.state, res = s.reducer.Apply(s.state, cmd)
		if _, ok := cmd.(Create); ok && res.Outcome.Applied() {
			s.issued[res.Note.ID] = struct{}{}
		}
	}
	s.mu.Unlock()
	// The note in the result shares its tags with the stored copy.
	if res.Note.ID != "" {
		res.Note = res.Note.Clone()
	}

	if s.observer != nil {
		s.observer.ObserveCommand("note", cmd.Name(), res.Outcome)
	}

	id := res.Note.ID
	if id == "" {
		id = targetID(cmd)
	}
	switch {
	case !res.Outcome.Applied():
		s.log.DebugContext(ctx, "note command ignored",
			slog.String("command", cmd.Name()),
			slog.String("note_id", id),
			slog.String("outcome", res.Outcome.String()),
		)
	case cmd.Name() == "create":
		s.log.InfoContext(ctx, "note created", slog.String("note_id", id))
	case cmd.Name() == "purge":
		s.log.InfoContext(ctx, "note purged", slog.String("note_id", id))
	default:
		s.log.DebugContext(ctx, "note command applied",
			slog.String("command", cmd.Name()),
			slog.String("note_id", id),
		)
	}

	return res
}

// Snapshot returns the current state. The returned value is shared and
// must be treated as read-only.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Get returns a copy of the note with id and the collection holding it.
func (s *Store) Get(id string) (domain.Note, domain.Collection, bool) {
	n, c, ok := s.Snapshot().Find(id)
	if !ok {
		return domain.Note{}, "", false
	}
	return n.Clone(), c, true
}

// List returns copies of the notes in collection c, in store order.
func (s *Store) List(c domain.Collection) []domain.Note {
	src := s.Snapshot().List(c)
	out := make([]domain.Note, len(src))
	for i, n := range src {
		out[i] = n.Clone()
	}
	return out
}

// Counts reports the size of each collection.
func (s *Store) Counts() Counts {
	return s.Snapshot().Counts()
}

// Close drops all notes. Later commands report OutcomeClosed.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{}
	s.closed = true
	s.log.Debug("note store closed")
}

// Closed reports whether Close has been called.
func (s *Store) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}
