package core

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Relay drop reasons, used as the "reason" label.
const (
	dropMalformed      = "malformed"
	dropUnknownRouter  = "unknown_router"
	dropUnknownDest    = "unknown_destination"
	dropNotNeighbour   = "not_neighbour"
	dropUnexpectedKind = "unexpected_kind"
	dropSenderUnknown  = "sender_not_registered"
	dropSendFailed     = "send_failed"
)

var (
	metricsRegistry = prometheus.NewRegistry()

	forwardedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dvnet",
			Subsystem: "relay",
			Name:      "forwarded_total",
			Help:      "Advertisements forwarded to a registered destination.",
		},
	)

	droppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dvnet",
			Subsystem: "relay",
			Name:      "dropped_total",
			Help:      "Datagrams dropped, by reason.",
		},
		[]string{"reason"},
	)

	registrationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dvnet",
			Subsystem: "relay",
			Name:      "registrations_total",
			Help:      "Join messages accepted, including re-registrations.",
		},
	)
)

func init() {
	metricsRegistry.MustRegister(forwardedTotal, droppedTotal, registrationsTotal)
}

// MetricsHandler exposes the relay counters for scraping.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{})
}
