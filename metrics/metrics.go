// Package metrics counts validations with Prometheus.
package metrics

import (
	"fmt"

	"github.com/deepnoodle-ai/strict/internal/typeerr"
	"github.com/deepnoodle-ai/strict/types"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "strict"

// Recorder counts validation outcomes. It satisfies the validator Observer
// interface, so it can be passed to WithObserver directly.
type Recorder struct {
	registry    *prometheus.Registry
	validations *prometheus.CounterVec
	failures    *prometheus.CounterVec
}

// NewRecorder returns a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validations_total",
				Help:      "Total number of attribute validations by result",
			},
			[]string{"result"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_errors_total",
				Help:      "Total number of failed validations by error kind",
			},
			[]string{"kind"},
		),
	}
	r.registry.MustRegister(r.validations, r.failures)
	return r
}

// ObserveValidation records the outcome of validating attr.
func (r *Recorder) ObserveValidation(attr types.Attribute, err error) {
	if err == nil {
		r.validations.WithLabelValues("ok").Inc()
		return
	}
	r.validations.WithLabelValues("failed").Inc()
	r.failures.WithLabelValues(typeerr.Code(err)).Inc()
}

// Registry returns the registry holding the recorder's collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes the current counters in the Prometheus text format,
// suitable for the node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
