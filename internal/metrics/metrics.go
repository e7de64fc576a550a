package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ActiveConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ws_active_connections",
		Help: "Active websocket connections",
	})
	ValidationFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chat_validation_failures_total",
		Help: "Chat payloads dropped at the validation boundary",
	})
	ProtocolAnomalies = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "presence_protocol_anomalies_total",
		Help: "Disconnects delivered without a matching connect",
	})
	Broadcasts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "room_broadcasts_total",
		Help: "Messages fanned out to rooms",
	})
)

func Init() {
	prometheus.MustRegister(ActiveConnections, ValidationFailures, ProtocolAnomalies, Broadcasts)
}

// Serve exposes /metrics for Prometheus scraping on its own listener, kept
// off the fasthttp-based app port.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
