package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RouteFunc maps a request to a low-cardinality route label.
type RouteFunc func(*http.Request) string

// HTTPMetrics records Prometheus metrics for served requests.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	size     *prometheus.HistogramVec
	active   prometheus.Gauge
}

// NewHTTPMetrics creates the HTTP collectors and registers them with reg.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "route"}),
		size: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "Size of HTTP responses.",
			Buckets: prometheus.ExponentialBuckets(100, 10, 6),
		}, []string{"method", "route"}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_active_requests",
			Help: "Current number of in-flight HTTP requests.",
		}),
	}
	reg.MustRegister(m.requests, m.duration, m.size, m.active)
	return m
}

// Middleware records request count, latency and response size labelled by
// the route that route resolves. Unmatched requests are labelled "unmatched".
func (m *HTTPMetrics) Middleware(route RouteFunc) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			m.active.Inc()
			defer m.active.Dec()

			rw := wrap(w)
			next.ServeHTTP(rw, r)

			label := route(r)
			if label == "" {
				label = "unmatched"
			}
			method := methodLabel(r.Method)
			m.requests.WithLabelValues(method, label, strconv.Itoa(rw.status)).Inc()
			m.duration.WithLabelValues(method, label).Observe(time.Since(start).Seconds())
			m.size.WithLabelValues(method, label).Observe(float64(rw.bytes))
		})
	}
}

// methodLabel keeps the method label bounded: anything outside the
// standard set is reported as OTHER.
func methodLabel(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch,
		http.MethodDelete, http.MethodConnect, http.MethodOptions, http.MethodTrace:
		return method
	}
	return "OTHER"
}
