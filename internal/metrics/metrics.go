package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tictactoe"

const (
	TriggerScheduled = "scheduled"
	TriggerFired     = "fired"
	TriggerCancelled = "cancelled"
	TriggerStale     = "stale"
)

// Metrics groups the game counters.
type Metrics struct {
	GamesStarted    prometheus.Counter
	Moves           *prometheus.CounterVec
	GamesFinished   *prometheus.CounterVec
	ComputerTrigger *prometheus.CounterVec
}

func New(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		GamesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_started_total",
			Help:      "Games created or reset.",
		}),
		Moves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moves_total",
			Help:      "Accepted moves by mark.",
		}, []string{"mark"}),
		GamesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Finished games by outcome.",
		}, []string{"outcome"}),
		ComputerTrigger: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "computer_triggers_total",
			Help:      "Delayed computer move triggers by result.",
		}, []string{"result"}),
	}

	for _, collector := range []prometheus.Collector{m.GamesStarted, m.Moves, m.GamesFinished, m.ComputerTrigger} {
		if err := registerer.Register(collector); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}

	return m, nil
}

// NewNop returns counters that are not registered anywhere.
func NewNop() *Metrics {
	m, _ := New(prometheus.NewRegistry())
	return m
}
