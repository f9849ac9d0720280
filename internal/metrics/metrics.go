package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests"},
		[]string{"route", "method", "status"},
	)
	ReqDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Request duration seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	InFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "http_in_flight_requests", Help: "In-flight HTTP requests"},
	)

	TokensIssued = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "auth_tokens_issued_total", Help: "Session tokens minted"},
	)
	TokensRevoked = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "auth_tokens_revoked_total", Help: "Session token revocations"},
		[]string{"scope"}, // "one" | "all"
	)
	AuthFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "auth_failures_total", Help: "Rejected logins and bearer tokens"},
		[]string{"reason"},
	)
)

func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(RequestsTotal, ReqDuration, InFlight, TokensIssued, TokensRevoked, AuthFailures)
}
