package note

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/heartmarshall/keepnotes/internal/domain"
)

var baseTime = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

// tickingClock returns a clock that advances one second per call.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := baseTime
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

// seqIDs returns a generator yielding n1, n2, ...
func seqIDs() func() string {
	var mu sync.Mutex
	i := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		i++
		return fmt.Sprintf("n%d", i)
	}
}

func testReducer() Reducer {
	return Reducer{Now: tickingClock(), NewID: seqIDs()}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(opts ...Option) *Store {
	opts = append([]Option{WithClock(tickingClock()), WithIDGenerator(seqIDs())}, opts...)
	return NewStore(discardLogger(), opts...)
}

func ids(notes []domain.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}
