// Package metrics instruments one scheduler run: fulfillment counts per
// priority, the size of the ILP model, and solver duration. The
// scheduler is a single-shot batch job, so no HTTP exporter is started;
// collectors are registered on a private registry and the fulfillment
// counters are read back by the caller for the JSON statistics bundle.
package metrics

import (
	"time"

	dto "github.com/prometheus/client_model/go"

	"github.com/prometheus/client_golang/prometheus"
)

// Run bundles the Prometheus collectors for a single pipeline
// invocation. Create one per run with New; do not share across runs.
type Run struct {
	registry *prometheus.Registry

	Fulfilled     *prometheus.CounterVec
	Unfulfilled   *prometheus.CounterVec
	VariableCount prometheus.Gauge
	SolveDuration prometheus.Histogram
}

// New creates a fresh, privately registered metrics bundle.
func New() *Run {
	registry := prometheus.NewRegistry()

	r := &Run{
		registry: registry,
		Fulfilled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "masterschedule_fulfilled_requests_total",
			Help: "Requests fulfilled, by priority.",
		}, []string{"priority"}),
		Unfulfilled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "masterschedule_unfulfilled_requests_total",
			Help: "Requests left unfulfilled, by priority.",
		}, []string{"priority"}),
		VariableCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "masterschedule_model_variables",
			Help: "Number of binary decision variables in the assembled model.",
		}),
		SolveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "masterschedule_solve_duration_seconds",
			Help:    "Wall-clock time spent in the solver driver.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	registry.MustRegister(r.Fulfilled, r.Unfulfilled, r.VariableCount, r.SolveDuration)
	return r
}

// ObserveSolve records the duration of one solver invocation.
func (r *Run) ObserveSolve(d time.Duration) {
	r.SolveDuration.Observe(d.Seconds())
}

// Snapshot reads the current counter values back out, keyed by priority
// label, for embedding in the JSON statistics bundle.
func (r *Run) Snapshot() (fulfilled, unfulfilled map[string]float64) {
	fulfilled = collectCounterVec(r.Fulfilled)
	unfulfilled = collectCounterVec(r.Unfulfilled)
	return
}

func collectCounterVec(vec *prometheus.CounterVec) map[string]float64 {
	out := make(map[string]float64)
	metricCh := make(chan prometheus.Metric, 8)
	go func() {
		vec.Collect(metricCh)
		close(metricCh)
	}()
	for m := range metricCh {
		var pb dto.Metric
		if err := m.Write(&pb); err != nil {
			continue
		}
		label := "unknown"
		for _, lp := range pb.GetLabel() {
			if lp.GetName() == "priority" {
				label = lp.GetValue()
			}
		}
		out[label] = pb.GetCounter().GetValue()
	}
	return out
}
