package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ayusman/simonsays/internal/game"
	"github.com/ayusman/simonsays/internal/gesture"
)

const namespace = "simonsays"

// Metrics exports game events to Prometheus. It implements game.Listener.
type Metrics struct {
	registry *prometheus.Registry
	rounds   prometheus.Counter
	locks    *prometheus.CounterVec
	verdicts *prometheus.CounterVec
	score    prometheus.Gauge
	games    *prometheus.CounterVec
}

// NewMetrics creates the collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rounds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_total",
			Help:      "Rounds started.",
		}),
		locks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gesture_locks_total",
			Help:      "Gestures locked in after being held steady.",
		}, []string{"gesture"}),
		verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verdicts_total",
			Help:      "Scored rounds by outcome.",
		}, []string{"outcome"}),
		score: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "score",
			Help:      "Current score.",
		}),
		games: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_total",
			Help:      "Finished games by result.",
		}, []string{"result"}),
	}

	m.registry.MustRegister(m.rounds, m.locks, m.verdicts, m.score, m.games)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) RoundStarted(game.RoundState) {
	m.rounds.Inc()
}

func (m *Metrics) GestureLocked(g gesture.Gesture) {
	m.locks.WithLabelValues(g.String()).Inc()
}

func (m *Metrics) Verdict(v game.Verdict, score int) {
	m.verdicts.WithLabelValues(v.Outcome.String()).Inc()
	m.score.Set(float64(score))
}

func (m *Metrics) GameOver(status game.Status, score int) {
	m.games.WithLabelValues(status.String()).Inc()
	m.score.Set(float64(score))
}
