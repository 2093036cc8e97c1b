package tag

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/heartmarshall/keepnotes/internal/domain"
)

// DefaultLabels match the tags.defaults config default. NewRegistry does
// not fall back to them; callers pass the seed explicitly.
var DefaultLabels = []string{"Coding", "Exercise", "Quotes"}

// Command is a mutation request for the tag registry. Only the types in
// this package implement it.
type Command interface {
	Name() string
	command()
}

// Add appends a label unless it is blank or already present.
type Add struct{ Label string }

// Remove deletes an exact label match. Notes keep their copies of the label.
type Remove struct{ Label string }

func (Add) Name() string    { return "add" }
func (Remove) Name() string { return "remove" }
func (Add) command()        {}
func (Remove) command()     {}

// State is an immutable ordered list of labels.
type State struct {
	Labels []string
}

// Result reports what Apply did and the label it acted on.
type Result struct {
	Outcome domain.Outcome
	Label   string
}

// Apply returns the state that results from cmd without modifying s.
func Apply(s State, cmd Command) (State, Result) {
	switch c := cmd.(type) {
	case Add:
		label := domain.NormalizeLabel(c.Label)
		if label == "" {
			return s, Result{Outcome: domain.OutcomeInvalid}
		}
		if slices.Contains(s.Labels, label) {
			return s, Result{Outcome: domain.OutcomeDuplicate, Label: label}
		}
		next := make([]string, len(s.Labels), len(s.Labels)+1)
		copy(next, s.Labels)
		return State{Labels: append(next, label)}, Result{Outcome: domain.OutcomeApplied, Label: label}
	case Remove:
		i := slices.Index(s.Labels, c.Label)
		if i < 0 {
			return s, Result{Outcome: domain.OutcomeNotFound, Label: c.Label}
		}
		next := slices.Concat(s.Labels[:i], s.Labels[i+1:])
		return State{Labels: next}, Result{Outcome: domain.OutcomeApplied, Label: c.Label}
	}
	panic(fmt.Sprintf("tag: unhandled command %T", cmd))
}

// Observer is notified after every dispatched command.
type Observer interface {
	ObserveCommand(store, command string, outcome domain.Outcome)
}

// Registry owns the set of available tag labels.
type Registry struct {
	mu       sync.RWMutex
	state    State
	closed   bool
	observer Observer
	log      *slog.Logger
}

// NewRegistry creates a registry seeded with initial. Seeds go through the
// same rules as Add, so blanks and duplicates are dropped.
func NewRegistry(log *slog.Logger, initial []string, observer Observer) *Registry {
	var st State
	for _, l := range initial {
		st, _ = Apply(st, Add{Label: l})
	}
	if st.Labels == nil {
		st.Labels = []string{}
	}
	return &Registry{
		state:    st,
		observer: observer,
		log:      log.With("service", "tag"),
	}
}

// Dispatch applies cmd. Rejected commands leave the registry unchanged.
func (r *Registry) Dispatch(ctx context.Context, cmd Command) Result {
	r.mu.Lock()
	var res Result
	if r.closed {
		res = Result{Outcome: domain.OutcomeClosed}
	} else {
		r.state, res = Apply(r.state, cmd)
	}
	r.mu.Unlock()

	if r.observer != nil {
		r.observer.ObserveCommand("tag", cmd.Name(), res.Outcome)
	}
	if res.Outcome.Applied() {
		r.log.InfoContext(ctx, "tag "+cmd.Name(),
			slog.String("label", res.Label),
		)
	} else {
		r.log.DebugContext(ctx, "tag command ignored",
			slog.String("command", cmd.Name()),
			slog.String("label", res.Label),
			slog.String("outcome", res.Outcome.String()),
		)
	}
	return res
}

// Labels returns the labels in insertion order.
func (r *Registry) Labels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.state.Labels)
}

// Len is the number of registered labels.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.state.Labels)
}

// Close drops all labels. Later commands report OutcomeClosed.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = State{Labels: []string{}}
	r.closed = true
}

// Closed reports whether Close has been called.
func (r *Registry) Closed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.closed
}
