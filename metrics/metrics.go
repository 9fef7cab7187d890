// Package metrics collects Prometheus metrics of an adaptive run
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "biharmonic"

// Recorder owns a private registry so concurrent runs do not share series
type Recorder struct {
	Registry *prometheus.Registry

	iterations    prometheus.Counter
	stageDuration *prometheus.HistogramVec
	cells         prometheus.Gauge
	ndof          prometheus.Gauge
	marked        prometheus.Gauge
	errors        *prometheus.GaugeVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		Registry: prometheus.NewRegistry(),
		iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "adaptive",
			Name:      "iterations_total",
			Help:      "Completed adaptive iterations.",
		}),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "adaptive",
				Name:      "stage_duration_seconds",
				Help:      "Duration of each adaptive loop stage in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		cells: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "mesh",
			Name:      "cells",
			Help:      "Number of cells of the current mesh.",
		}),
		ndof: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "mesh",
			Name:      "dofs",
			Help:      "Global degrees of freedom of the current solution space.",
		}),
		marked: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "adaptive",
			Name:      "marked_cells",
			Help:      "Cells marked for refinement in the last iteration.",
		}),
		errors: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "adaptive",
				Name:      "error",
				Help:      "Latest recorded error or estimate by kind.",
			},
			[]string{"kind"},
		),
	}
	r.Registry.MustRegister(r.iterations, r.stageDuration, r.cells, r.ndof, r.marked, r.errors)
	return r
}

func (r *Recorder) ObserveStage(stage string, d time.Duration) {
	r.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordIteration stores the scalars of a completed Recording stage
func (r *Recorder) RecordIteration(cells, ndof int, errs map[string]float64) {
	r.iterations.Inc()
	r.cells.Set(float64(cells))
	r.ndof.Set(float64(ndof))
	for kind, v := range errs {
		r.errors.WithLabelValues(kind).Set(v)
	}
}

func (r *Recorder) RecordMarked(n int) {
	r.marked.Set(float64(n))
}

// WriteTextfile writes the registry in the text exposition format, for the
// node exporter textfile collector or later inspection
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.Registry)
}
