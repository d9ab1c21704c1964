package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// TicksTotal counts simulation ticks since startup.
	TicksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aquaview_ticks_total",
		Help: "Simulation ticks executed.",
	})

	// ReadingsGenerated counts simulator-produced readings.
	ReadingsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aquaview_readings_generated_total",
		Help: "Readings produced by the simulator.",
	})

	// ManualReadings counts accepted manual-entry submissions.
	ManualReadings = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aquaview_manual_readings_total",
		Help: "Manual readings accepted through the entry endpoint.",
	})

	// ReadingsByStatus counts generated readings by their overall status.
	ReadingsByStatus = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aquaview_readings_by_status_total",
		Help: "Generated readings partitioned by overall classification.",
	}, []string{"status"})

	// AlertsFired counts alert firings by severity.
	AlertsFired = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aquaview_alerts_fired_total",
		Help: "Alerts fired, partitioned by severity.",
	}, []string{"severity"})

	// WSClients tracks currently connected dashboard clients.
	WSClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "aquaview_ws_clients",
		Help: "Currently connected WebSocket dashboard clients.",
	})
)

// Handler returns the HTTP handler serving the Prometheus exposition.
func Handler() http.Handler {
	return promhttp.Handler()
}
