package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/heartmarshall/keepnotes/internal/domain"
	"github.com/heartmarshall/keepnotes/internal/service/note"
)

// commandMetrics counts dispatched store commands by outcome. It is the
// Observer for both stores.
type commandMetrics struct {
	commands *prometheus.CounterVec
}

func newCommandMetrics(reg prometheus.Registerer) *commandMetrics {
	m := &commandMetrics{
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "keepnotes_commands_total",
			Help: "Total number of store commands by store, command and outcome.",
		}, []string{"store", "command", "outcome"}),
	}
	reg.MustRegister(m.commands)
	return m
}

func (m *commandMetrics) ObserveCommand(store, command string, outcome domain.Outcome) {
	m.commands.WithLabelValues(store, command, outcome.String()).Inc()
}

// registerStoreGauges exposes collection sizes, read at scrape time.
func registerStoreGauges(reg prometheus.Registerer, notes *note.Store, tags interface{ Len() int }) {
	for _, c := range []domain.Collection{domain.CollectionActive, domain.CollectionArchived, domain.CollectionTrashed} {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name:        "keepnotes_notes",
			Help:        "Number of notes per collection.",
			ConstLabels: prometheus.Labels{"collection": c.String()},
		}, func() float64 {
			return float64(len(notes.Snapshot().List(c)))
		}))
	}
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "keepnotes_tags",
		Help: "Number of registered tag labels.",
	}, func() float64 {
		return float64(tags.Len())
	}))
}

// newRegistry returns a registry preloaded with Go runtime and process
// collectors.
func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}
