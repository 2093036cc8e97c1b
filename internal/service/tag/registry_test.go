package tag

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/heartmarshall/keepnotes/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func newTestRegistry(initial ...string) *Registry {
	return NewRegistry(slog.New(slog.NewTextHandler(io.Discard, nil)), initial, nil)
}

func TestApply_Add(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		labels  []string
		add     string
		want    []string
		outcome domain.Outcome
	}{
		{"append", []string{"a"}, "b", []string{"a", "b"}, domain.OutcomeApplied},
		{"trimmed", nil, "  work  ", []string{"work"}, domain.OutcomeApplied},
		{"blank", []string{"a"}, "   ", []string{"a"}, domain.OutcomeInvalid},
		{"duplicate", []string{"a"}, " a", []string{"a"}, domain.OutcomeDuplicate},
		{"case sensitive", []string{"work"}, "Work", []string{"work", "Work"}, domain.OutcomeApplied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, res := Apply(State{Labels: tt.labels}, Add{Label: tt.add})
			assert.Equal(t, tt.outcome, res.Outcome)
			assert.Equal(t, tt.want, append([]string{}, s.Labels...))
		})
	}
}

func TestApply_Remove(t *testing.T) {
	t.Parallel()

	in := State{Labels: []string{"a", "b", "c"}}
	s, res := Apply(in, Remove{Label: "b"})
	assert.Equal(t, domain.OutcomeApplied, res.Outcome)
	assert.Equal(t, []string{"a", "c"}, s.Labels)
	assert.Equal(t, []string{"a", "b", "c"}, in.Labels, "input untouched")

	s, res = Apply(s, Remove{Label: "B"})
	assert.Equal(t, domain.OutcomeNotFound, res.Outcome)
	assert.Equal(t, []string{"a", "c"}, s.Labels)
}

// addTag("work") twice leaves one "work".
func TestScenario_AddTwice(t *testing.T) {
	t.Parallel()

	r := newTestRegistry()
	ctx := context.Background()

	assert.Equal(t, domain.OutcomeApplied, r.Dispatch(ctx, Add{Label: "work"}).Outcome)
	assert.Equal(t, domain.OutcomeDuplicate, r.Dispatch(ctx, Add{Label: "work"}).Outcome)
	assert.Equal(t, []string{"work"}, r.Labels())
}

func TestNewRegistry_Seeds(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(DefaultLabels...)
	assert.Equal(t, []string{"Coding", "Exercise", "Quotes"}, r.Labels())
	assert.NotContains(t, r.Labels(), "quotes", "labels are case-sensitive")

	r = newTestRegistry("x", " x ", "")
	assert.Equal(t, []string{"x"}, r.Labels())

	assert.NotNil(t, newTestRegistry().Labels())
}

func TestRegistry_LabelsIsACopy(t *testing.T) {
	t.Parallel()

	r := newTestRegistry("a")
	l := r.Labels()
	l[0] = "mutated"
	assert.Equal(t, []string{"a"}, r.Labels())
}

func TestRegistry_Close(t *testing.T) {
	t.Parallel()

	r := newTestRegistry("a")
	assert.False(t, r.Closed())
	r.Close()
	assert.True(t, r.Closed())
	res := r.Dispatch(context.Background(), Add{Label: "b"})
	assert.Equal(t, domain.OutcomeClosed, res.Outcome)
	assert.Zero(t, r.Len())
}

func TestRegistry_Logging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := NewRegistry(log, nil, nil)

	r.Dispatch(context.Background(), Add{Label: "work"})
	r.Dispatch(context.Background(), Remove{Label: "home"})

	out := buf.String()
	require.Contains(t, out, `"service":"tag"`)
	assert.Contains(t, out, `"msg":"tag add"`)
	assert.Contains(t, out, `"outcome":"NOT_FOUND"`)
}

func testAdd_Idempotent_Properties(t *rapid.T) {
	seed := rapid.SliceOfN(rapid.StringMatching(`[a-c ]{0,3}`), 0, 5).Draw(t, "seed")
	label := rapid.StringMatching(`[a-c ]{0,3}`).Draw(t, "label")

	var s State
	for _, l := range seed {
		s, _ = Apply(s, Add{Label: l})
	}
	once, _ := Apply(s, Add{Label: label})
	twice, res := Apply(once, Add{Label: label})

	if len(once.Labels) != len(twice.Labels) {
		t.Fatalf("second add changed size: %v -> %v", once.Labels, twice.Labels)
	}
	for i := range once.Labels {
		if once.Labels[i] != twice.Labels[i] {
			t.Fatalf("second add changed labels: %v -> %v", once.Labels, twice.Labels)
		}
	}
	if res.Outcome == domain.OutcomeApplied {
		t.Fatal("second add reported applied")
	}
}

func TestAdd_Idempotent_Properties(t *testing.T) {
	rapid.Check(t, testAdd_Idempotent_Properties)
}

func testLabels_Unique_Properties(t *rapid.T) {
	var s State
	n := rapid.IntRange(0, 30).Draw(t, "n")
	for range n {
		l := rapid.StringMatching(`[ab]{1,2}`).Draw(t, "label")
		if rapid.Bool().Draw(t, "add") {
			s, _ = Apply(s, Add{Label: l})
		} else {
			s, _ = Apply(s, Remove{Label: l})
		}
	}
	seen := map[string]bool{}
	for _, l := range s.Labels {
		if seen[l] {
			t.Fatalf("label %q present twice in %v", l, s.Labels)
		}
		seen[l] = true
	}
}

func TestLabels_Unique_Properties(t *testing.T) {
	rapid.Check(t, testLabels_Unique_Properties)
}
