// Package metrics exposes Prometheus instrumentation for both tiers.
//
// Collectors are registered on the default registry at init and served by
// promhttp.Handler at /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for upstream calls.
const (
	OutcomeSuccess   = "success"
	OutcomeStatus    = "status_error"
	OutcomeTransport = "transport_error"
)

var (
	// HTTP surface
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviedb_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"tier", "method", "route", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moviedb_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"tier", "method", "route"},
	)

	HTTPActiveRequests = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "moviedb_http_active_requests",
			Help: "Current number of in-flight HTTP requests",
		},
		[]string{"tier"},
	)

	// Outbound calls
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviedb_upstream_requests_total",
			Help: "Total number of outbound requests by target and outcome",
		},
		[]string{"target", "outcome"},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moviedb_upstream_request_duration_seconds",
			Help:    "Outbound request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"target"},
	)
)

// RecordHTTPRequest records a served request.
func RecordHTTPRequest(tier, method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(tier, method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(tier, method, route).Observe(duration.Seconds())
}

// RecordUpstream records one outbound call.
func RecordUpstream(target, outcome string, duration time.Duration) {
	UpstreamRequestsTotal.WithLabelValues(target, outcome).Inc()
	UpstreamRequestDuration.WithLabelValues(target).Observe(duration.Seconds())
}

// Middleware instruments a chi router. Requests are labelled with the
// matched route pattern rather than the raw path to keep cardinality bounded.
func Middleware(tier string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			active := HTTPActiveRequests.WithLabelValues(tier)
			active.Inc()
			defer active.Dec()

			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			RecordHTTPRequest(tier, r.Method, routePattern(r), status, time.Since(start))
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
