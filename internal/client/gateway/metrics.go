package gateway

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	OutcomeSuccess        = "success"
	OutcomeNetwork        = "network"
	OutcomeAuthentication = "authentication"
	OutcomeValidation     = "validation"
	OutcomeServer         = "server"
)

// RequestsTotal counts gateway calls by outcome.
// Use RegisterMetrics to register this with a Prometheus registry.
var RequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "biblio_gateway_requests_total",
		Help: "Total number of requests dispatched through the gateway",
	},
	[]string{"method", "route", "outcome"},
)

// RequestDuration observes round-trip time including body decoding.
var RequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "biblio_gateway_request_duration_seconds",
		Help:    "Gateway request duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// SessionInvalidations counts 401 responses that cleared the session.
var SessionInvalidations = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "biblio_gateway_session_invalidations_total",
		Help: "Total number of sessions cleared after an authentication failure",
	},
)

// RegisterMetrics registers gateway metrics with the given registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(RequestsTotal)
	reg.MustRegister(RequestDuration)
	reg.MustRegister(SessionInvalidations)
}

func outcomeOf(err error) string {
	switch KindOf(err) {
	case 0:
		if err == nil {
			return OutcomeSuccess
		}
		return OutcomeNetwork
	case KindNetwork:
		return OutcomeNetwork
	case KindAuthentication:
		return OutcomeAuthentication
	case KindValidation:
		return OutcomeValidation
	default:
		return OutcomeServer
	}
}

func recordRequest(method, route string, err error, d time.Duration) {
	RequestsTotal.WithLabelValues(method, route, outcomeOf(err)).Inc()
	RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
