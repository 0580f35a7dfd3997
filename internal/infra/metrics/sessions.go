package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(activeSessions, sessionsExpiredTotal)
}

var (
	activeSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_sessions",
			Help: "Chat sessions currently held by the stub server.",
		},
	)

	sessionsExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_expired_total",
			Help: "Sessions dropped by the idle sweeper.",
		},
	)
)

func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}

func AddExpiredSessions(n int) {
	sessionsExpiredTotal.Add(float64(n))
}
