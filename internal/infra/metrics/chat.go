package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		chatTurnsTotal,
		chatTurnLatencyMs,
		welcomeFetchesTotal,
	)
}

var (
	chatTurnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_turns_total",
			Help: "Chat turns by outcome (ok/rejected/unreachable).",
		},
		[]string{"outcome"},
	)

	chatTurnLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chat_turn_latency_ms",
			Help:    "Assistant round-trip latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
		},
		[]string{"outcome"},
	)

	welcomeFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "welcome_fetches_total",
			Help: "Welcome fetch attempts by result (ok/error).",
		},
		[]string{"result"},
	)
)

func ObserveChatTurn(outcome string, latencyMs int64) {
	chatTurnsTotal.WithLabelValues(norm(outcome)).Inc()
	chatTurnLatencyMs.WithLabelValues(norm(outcome)).Observe(float64(latencyMs))
}

func IncWelcomeFetch(result string) {
	welcomeFetchesTotal.WithLabelValues(norm(result)).Inc()
}
