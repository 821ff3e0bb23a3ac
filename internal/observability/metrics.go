package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpRequestsTotal     *prometheus.CounterVec
	httpLatencySeconds    *prometheus.HistogramVec
	httpErrorsTotal       *prometheus.CounterVec
	authAttemptsTotal     *prometheus.CounterVec
	authzRejectionsTotal  *prometheus.CounterVec
	registrationsTotal    *prometheus.CounterVec
	dashboardCacheLookups *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the portal.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		authAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_auth_attempts_total",
			Help: "Login attempts partitioned by outcome.",
		}, []string{"outcome"})

		authzRejectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_authz_rejections_total",
			Help: "Requests rejected by the authorization gate.",
		}, []string{"reason"})

		registrationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_registrations_total",
			Help: "Accounts registered partitioned by role.",
		}, []string{"role"})

		dashboardCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_dashboard_cache_lookups_total",
			Help: "Admin dashboard cache lookups partitioned by result.",
		}, []string{"result"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			authAttemptsTotal,
			authzRejectionsTotal,
			registrationsTotal,
			dashboardCacheLookups,
		)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for API error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// AuthAttempts counts logins by outcome: success, invalid_credentials, inactive, error.
func AuthAttempts() *prometheus.CounterVec {
	RegisterMetrics()
	return authAttemptsTotal
}

// AuthzRejections counts gate rejections by reason: unauthenticated, forbidden.
func AuthzRejections() *prometheus.CounterVec {
	RegisterMetrics()
	return authzRejectionsTotal
}

// Registrations counts created accounts by role.
func Registrations() *prometheus.CounterVec {
	RegisterMetrics()
	return registrationsTotal
}

// DashboardCacheLookups counts dashboard cache hits and misses.
func DashboardCacheLookups() *prometheus.CounterVec {
	RegisterMetrics()
	return dashboardCacheLookups
}
