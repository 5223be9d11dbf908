// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "quiz"

var (
	// Answers counts resolved questions by result: correct, wrong, timeout.
	Answers = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "answers_total",
		Help:      "Resolved questions by result.",
	}, []string{"result"})

	// AuthAttempts counts login and register calls by outcome.
	AuthAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Login and registration attempts by action and outcome.",
	}, []string{"action", "outcome"})

	// LeaderboardWrites counts score submissions that replaced the stored high score.
	LeaderboardWrites = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "leaderboard_writes_total",
		Help:      "Score submissions that wrote a new high score.",
	})

	// StoreErrors counts failed score store calls.
	StoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_errors_total",
		Help:      "Failed score store operations.",
	}, []string{"op"})

	// ActiveSessions tracks open quiz sessions.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Open quiz sessions.",
	})
)
