package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// StatusTransitions counts successful order status transitions by target status.
	StatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tably",
		Name:      "order_status_transitions_total",
		Help:      "Total number of successful order status transitions.",
	}, []string{"status"})

	// BroadcastsTotal counts realtime status events broadcast to venue subscribers.
	BroadcastsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tably",
		Name:      "realtime_broadcasts_total",
		Help:      "Total number of realtime status events broadcast.",
	})

	// PushDeliveries counts push delivery attempts by result (delivered, failed, pruned).
	PushDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tably",
		Name:      "push_deliveries_total",
		Help:      "Total number of push delivery attempts by result.",
	}, []string{"result"})

	// WebsocketConnections tracks currently connected realtime clients.
	WebsocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tably",
		Name:      "websocket_connections",
		Help:      "Number of currently connected websocket clients.",
	})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
