package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/heartmarshall/keepnotes/internal/service/note"
)

type noteStats interface {
	Counts() note.Counts
	Closed() bool
}

type tagStats interface {
	Len() int
	Closed() bool
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	notes   noteStats
	tags    tagStats
	version string
	started time.Time
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(notes noteStats, tags tagStats, version string) *HealthHandler {
	return &HealthHandler{notes: notes, tags: tags, version: version, started: time.Now()}
}

// HealthResponse is the JSON response for /health and /ready.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Uptime     string                `json:"uptime,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of an individual component.
type CompStatus struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Live is the liveness probe. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Ready is the readiness probe: 200 while both stores accept commands,
// 503 once either has been closed.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	if h.notes.Closed() || h.tags.Closed() {
		status, code = "down", http.StatusServiceUnavailable
	}
	writeJSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
	})
}

// Health is the full health check with per-store sizes and version.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	components := make(map[string]CompStatus, 2)
	overall := "ok"

	if h.notes.Closed() {
		components["notes"] = CompStatus{Status: "down"}
		overall = "down"
	} else {
		c := h.notes.Counts()
		components["notes"] = CompStatus{
			Status: "ok",
			Detail: "active=" + strconv.Itoa(c.Active) +
				" archived=" + strconv.Itoa(c.Archived) +
				" trashed=" + strconv.Itoa(c.Trashed),
		}
	}

	if h.tags.Closed() {
		components["tags"] = CompStatus{Status: "down"}
		overall = "down"
	} else {
		components["tags"] = CompStatus{Status: "ok", Detail: "labels=" + strconv.Itoa(h.tags.Len())}
	}

	code := http.StatusOK
	if overall != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, HealthResponse{
		Status:     overall,
		Version:    h.version,
		Uptime:     time.Since(h.started).Round(time.Second).String(),
		Components: components,
		Timestamp:  time.Now(),
	})
}
