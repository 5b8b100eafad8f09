// Package telemetry exports batch-level pursuit metrics for Prometheus.
package telemetry

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"foxhunt/internal/platform"
	"foxhunt/internal/trial"
)

const namespace = "foxhunt"

const (
	OutcomeOK          = "ok"
	OutcomeCapExceeded = "cap_exceeded"
	OutcomeCanceled    = "canceled"
	OutcomeError       = "error"
)

// Metrics implements platform.Observer. It owns its registry so several
// instances can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	batches       *prometheus.CounterVec
	trials        prometheus.Counter
	batchMean     prometheus.Histogram
	batchDuration prometheus.Histogram
	maxSteps      prometheus.Gauge

	mu      sync.Mutex
	longest float64
}

var _ platform.Observer = (*Metrics)(nil)

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		batches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Finished worker batches by outcome.",
		}, []string{"outcome"}),
		trials: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trials_total",
			Help:      "Trials played in successful batches.",
		}),
		batchMean: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_mean_steps",
			Help:      "Mean capture time of each successful batch.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
		}),
		batchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Wall time of each worker batch.",
			Buckets:   prometheus.DefBuckets,
		}),
		maxSteps: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "max_steps_observed",
			Help:      "Longest single trial seen in any batch.",
		}),
	}
}

func (m *Metrics) ObserveBatch(report platform.BatchReport) {
	m.batchDuration.Observe(report.Elapsed.Seconds())
	outcome := Outcome(report.Err)
	m.batches.WithLabelValues(outcome).Inc()
	if outcome != OutcomeOK {
		return
	}
	m.trials.Add(float64(report.Result.Iterations))
	m.batchMean.Observe(report.Result.Mean)
	m.raiseMaxSteps(float64(report.Result.MaxSteps))
}

// Outcome classifies a batch error into a label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, trial.ErrTrialCapExceeded):
		return OutcomeCapExceeded
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	default:
		return OutcomeError
	}
}

func (m *Metrics) raiseMaxSteps(steps float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if steps > m.longest {
		m.longest = steps
		m.maxSteps.Set(steps)
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
