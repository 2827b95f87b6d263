package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ActiveSessions tracks the number of currently connected simulator sessions.
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dronehub_active_sessions",
			Help: "Number of currently connected simulator sessions.",
		},
	)

	// CommandsTotal counts processed commands by outcome.
	// outcome: success, rejected, crashed, malformed
	CommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dronehub_commands_total",
			Help: "Total number of inbound command frames by outcome.",
		},
		[]string{"outcome"},
	)

	// CrashesTotal counts terminal crashes by reason.
	CrashesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dronehub_crashes_total",
			Help: "Total number of session crashes by reason.",
		},
		[]string{"reason"},
	)

	// LivenessClosesTotal counts connections closed by the liveness monitor.
	// cause: probe_timeout, inactivity
	LivenessClosesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dronehub_liveness_closes_total",
			Help: "Total number of connections closed by the liveness monitor.",
		},
		[]string{"cause"},
	)
)

func init() {
	prometheus.MustRegister(ActiveSessions)
	prometheus.MustRegister(CommandsTotal)
	prometheus.MustRegister(CrashesTotal)
	prometheus.MustRegister(LivenessClosesTotal)
}
