// Package metrics instruments compilation, evaluation and result store
// traffic with Prometheus collectors.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/specialistvlad/vectorgrid/internal/dagerr"
	"github.com/specialistvlad/vectorgrid/internal/resultstore"
)

// Metrics holds all collectors, registered on a private registry so several
// instances can coexist in tests.
type Metrics struct {
	RecordsEvaluated   *prometheus.CounterVec
	EvaluationErrors   *prometheus.CounterVec
	EvaluationDuration *prometheus.HistogramVec
	NodesCompiled      prometheus.Counter
	StoreOperations    *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates the collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		RecordsEvaluated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vectorgrid_records_evaluated_total",
			Help: "Total records evaluated, by index",
		}, []string{"index"}),
		EvaluationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vectorgrid_evaluation_errors_total",
			Help: "Total failed evaluation calls, by error kind",
		}, []string{"kind"}),
		EvaluationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vectorgrid_evaluation_duration_seconds",
			Help:    "Duration of one evaluation call",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"index"}),
		NodesCompiled: factory.NewCounter(prometheus.CounterOpts{
			Name: "vectorgrid_nodes_compiled_total",
			Help: "Total online nodes instantiated by the compiler",
		}),
		StoreOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vectorgrid_store_operations_total",
			Help: "Result store operations, by operation and outcome",
		}, []string{"op", "outcome"}),
		registry: registry,
	}
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the collectors in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveEvaluation records one evaluation call of records records that
// served every index in indexes. A failed call counts as one error.
func (m *Metrics) ObserveEvaluation(indexes []string, records int, d time.Duration, err error) {
	for _, index := range indexes {
		m.EvaluationDuration.WithLabelValues(index).Observe(d.Seconds())
	}
	if err != nil {
		kind := string(dagerr.KindOf(err))
		if kind == "" {
			kind = "other"
		}
		m.EvaluationErrors.WithLabelValues(kind).Inc()
		return
	}
	for _, index := range indexes {
		m.RecordsEvaluated.WithLabelValues(index).Add(float64(records))
	}
}

// InstrumentStore wraps a result store so its traffic is counted.
func (m *Metrics) InstrumentStore(inner resultstore.Manager) resultstore.Manager {
	return &instrumentedStore{inner: inner, ops: m.StoreOperations}
}

type instrumentedStore struct {
	inner resultstore.Manager
	ops   *prometheus.CounterVec
}

func (s *instrumentedStore) Store(ctx context.Context, nodeID, recordID string, value any) error {
	err := s.inner.Store(ctx, nodeID, recordID, value)
	s.ops.WithLabelValues("store", outcome(err, true)).Inc()
	return err
}

func (s *instrumentedStore) Load(ctx context.Context, nodeID, recordID string) (any, bool, error) {
	v, found, err := s.inner.Load(ctx, nodeID, recordID)
	s.ops.WithLabelValues("load", outcome(err, found)).Inc()
	return v, found, err
}

func outcome(err error, found bool) string {
	switch {
	case err != nil:
		return "error"
	case !found:
		return "miss"
	default:
		return "ok"
	}
}
