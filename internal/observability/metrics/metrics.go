// Package metrics registers the service's prometheus collectors. Counters
// are package-level so domain code can record outcomes without threading a
// registry through every constructor.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce sync.Once

	resolutionsTotal     *prometheus.CounterVec
	accountsCreatedTotal *prometheus.CounterVec
	createConflictsTotal *prometheus.CounterVec

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
)

func ensureRegistered() {
	registerOnce.Do(func() {
		resolutionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "socialauth_resolutions_total",
			Help: "Identity resolutions by provider and outcome (created, existing, error)",
		}, []string{"provider", "outcome"})

		accountsCreatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "socialauth_accounts_created_total",
			Help: "Accounts created on first login, by provider",
		}, []string{"provider"})

		createConflictsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "socialauth_create_conflicts_total",
			Help: "Create races lost and recovered by re-lookup, by provider",
		}, []string{"provider"})

		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "socialauth_http_requests_total",
			Help: "HTTP requests processed",
		}, []string{"method", "path", "status"})

		httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "socialauth_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"})

		prometheus.MustRegister(
			resolutionsTotal,
			accountsCreatedTotal,
			createConflictsTotal,
			httpRequestsTotal,
			httpRequestDuration,
		)
	})
}

// ResolutionOutcome records one resolution attempt.
func ResolutionOutcome(provider, outcome string) {
	ensureRegistered()
	resolutionsTotal.WithLabelValues(provider, outcome).Inc()
}

// AccountCreated records a first-login account creation.
func AccountCreated(provider string) {
	ensureRegistered()
	accountsCreatedTotal.WithLabelValues(provider).Inc()
}

// CreateConflict records a lost creation race.
func CreateConflict(provider string) {
	ensureRegistered()
	createConflictsTotal.WithLabelValues(provider).Inc()
}

// Handler returns the /metrics handler.
func Handler() http.Handler {
	ensureRegistered()
	return promhttp.Handler()
}

// statusRecorder captures the response status for the HTTP middleware.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and latency per route pattern.
func Middleware(next http.Handler) http.Handler {
	ensureRegistered()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(rec.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
	})
}
