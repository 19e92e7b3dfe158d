package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus counters for the complaint lifecycle.
var (
	ComplaintsSubmittedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "complaints_submitted_total",
			Help: "Total number of complaints persisted by the intake pipeline",
		},
	)

	ComplaintsRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "complaints_rejected_total",
			Help: "Total number of submissions rejected by the vision gate",
		},
	)

	UpvotesRegisteredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "upvotes_registered_total",
			Help: "Total number of successful vote registrations",
		},
	)

	StatusTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "status_transitions_total",
			Help: "Total number of accepted status transitions",
		},
		[]string{"new_status"},
	)

	RealtimeClientsConnected = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "realtime_clients_connected",
			Help: "Number of live realtime subscribers",
		},
	)
)

func init() {
	prometheus.MustRegister(
		ComplaintsSubmittedTotal,
		ComplaintsRejectedTotal,
		UpvotesRegisteredTotal,
		StatusTransitionsTotal,
		RealtimeClientsConnected,
	)
}
