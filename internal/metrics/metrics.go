// Package metrics provides Prometheus metrics for matchup evaluations.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stitts-dev/edge-sim/internal/models"
)

// EvaluationMetrics collects and exposes evaluation-related Prometheus metrics.
type EvaluationMetrics struct {
	registry *prometheus.Registry

	EvaluationsTotal   *prometheus.CounterVec
	EvaluationErrors   *prometheus.CounterVec
	DivergenceTotal    *prometheus.CounterVec
	RecommendationsTot *prometheus.CounterVec
	SimulationDuration *prometheus.HistogramVec
	SimulationTrials   *prometheus.HistogramVec
	RecommendationEdge *prometheus.HistogramVec
}

// NewEvaluationMetrics creates a collector backed by its own registry.
func NewEvaluationMetrics() *EvaluationMetrics {
	registry := prometheus.NewRegistry()

	m := &EvaluationMetrics{
		registry: registry,

		EvaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edgesim_evaluations_total",
				Help: "Total number of completed matchup evaluations",
			},
			[]string{"league"},
		),
		EvaluationErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edgesim_evaluation_errors_total",
				Help: "Total number of rejected or failed evaluations",
			},
			[]string{"league", "reason"},
		),
		DivergenceTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edgesim_divergence_total",
				Help: "Line divergence classifications",
			},
			[]string{"league", "severity"},
		),
		RecommendationsTot: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edgesim_recommendations_total",
				Help: "Recommendations that passed the confidence threshold",
			},
			[]string{"league", "market"},
		),
		SimulationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "edgesim_simulation_duration_seconds",
				Help:    "Monte Carlo simulation latency",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
			},
			[]string{"league"},
		),
		SimulationTrials: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "edgesim_simulation_trials",
				Help:    "Number of trials per simulation",
				Buckets: []float64{1, 100, 1000, 5000, 10000, 25000, 50000, 100000, 200000},
			},
			[]string{"league"},
		),
		RecommendationEdge: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "edgesim_recommendation_edge_pct",
				Help:    "Model minus implied probability for priced recommendations",
				Buckets: prometheus.LinearBuckets(-20, 2.5, 17),
			},
			[]string{"market"},
		),
	}

	registry.MustRegister(
		m.EvaluationsTotal,
		m.EvaluationErrors,
		m.DivergenceTotal,
		m.RecommendationsTot,
		m.SimulationDuration,
		m.SimulationTrials,
		m.RecommendationEdge,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *EvaluationMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveEvaluation records one completed evaluation.
func (m *EvaluationMetrics) ObserveEvaluation(
	league string,
	div models.DivergenceReport,
	sim models.SimulationResult,
	recs []models.EdgeRecommendation,
	simDuration time.Duration,
) {
	m.EvaluationsTotal.WithLabelValues(league).Inc()
	m.DivergenceTotal.WithLabelValues(league, div.Severity.String()).Inc()
	m.SimulationDuration.WithLabelValues(league).Observe(simDuration.Seconds())
	m.SimulationTrials.WithLabelValues(league).Observe(float64(sim.NumTrials))

	for _, rec := range recs {
		m.RecommendationsTot.WithLabelValues(league, rec.Market).Inc()
		if rec.EdgePct != nil {
			m.RecommendationEdge.WithLabelValues(rec.Market).Observe(*rec.EdgePct)
		}
	}
}

// ObserveError records a rejected or failed evaluation.
func (m *EvaluationMetrics) ObserveError(league, reason string) {
	m.EvaluationErrors.WithLabelValues(league, reason).Inc()
}
