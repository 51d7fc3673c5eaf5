package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	generationAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recommendation_generation_attempts_total",
		Help: "Generative service calls by provider and result",
	}, []string{"provider", "result"})

	generationOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recommendation_generation_outcomes_total",
		Help: "Generation runs by provider and final state",
	}, []string{"provider", "state"})

	generationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "recommendation_generation_duration_seconds",
		Help:    "Generation duration including retries and backoff",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
	}, []string{"provider"})

	recommendationsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recommendations_dropped_total",
		Help: "Recommendations excluded by validation, by pass",
	}, []string{"pass"})

	fallbackResults = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recommendation_fallback_results_total",
		Help: "Unparseable service responses converted to a degraded result",
	})

	exportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "exports_total",
		Help: "Export calls by format and outcome",
	}, []string{"format", "outcome"})

	exportDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "export_duration_seconds",
		Help:    "Export pipeline duration by format",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"format"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by route and status",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	rateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_rate_limited_total",
		Help: "Requests rejected by the rate limiter, by group",
	}, []string{"group"})
)

// IncGenerationAttempt records a single call to the generative service.
func IncGenerationAttempt(provider string, ok bool) {
	result := "error"
	if ok {
		result = "ok"
	}
	generationAttempts.WithLabelValues(provider, result).Inc()
}

// IncGenerationOutcome records the terminal state of a generation run.
func IncGenerationOutcome(provider, state string) {
	generationOutcomes.WithLabelValues(provider, state).Inc()
}

// ObserveGenerationDuration records a generation run duration.
func ObserveGenerationDuration(provider string, d time.Duration) {
	generationDuration.WithLabelValues(provider).Observe(d.Seconds())
}

// AddDropped records recommendations excluded by a validation pass.
func AddDropped(pass string, n int) {
	if n <= 0 {
		return
	}
	recommendationsDropped.WithLabelValues(pass).Add(float64(n))
}

// IncFallback records a degraded parse-fallback result.
func IncFallback() {
	fallbackResults.Inc()
}

// IncExport records an export call outcome.
func IncExport(format, outcome string) {
	exportsTotal.WithLabelValues(format, outcome).Inc()
}

// ObserveExportDuration records an export pipeline duration.
func ObserveExportDuration(format string, d time.Duration) {
	exportDuration.WithLabelValues(format).Observe(d.Seconds())
}

// ObserveHTTPRequest records one served request. Unmatched routes share a label.
func ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// IncRateLimited records a request rejected by the rate limiter.
func IncRateLimited(group string) {
	rateLimited.WithLabelValues(group).Inc()
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
