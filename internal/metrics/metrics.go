// Package metrics exposes Prometheus collectors for the signaling
// server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ConnectedEndpoints = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "airforshare",
		Name:      "connected_endpoints",
		Help:      "Number of currently connected signaling endpoints.",
	})

	ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "airforshare",
		Name:      "active_rooms",
		Help:      "Number of rooms currently present in the directory.",
	})

	RelayedEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "airforshare",
		Name:      "relayed_events_total",
		Help:      "Inbound signaling events processed, by type.",
	}, []string{"type"})
)

// Handler exposes Prometheus metrics at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
