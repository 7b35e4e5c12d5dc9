// Package metrics counts what happened during one generation run. Each run
// owns its registry, which can be dumped in the node-exporter textfile format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Recorder struct {
	registry *prometheus.Registry

	LLMRequests         *prometheus.CounterVec
	LLMRequestDuration  *prometheus.HistogramVec
	Errors              *prometheus.CounterVec
	Generations         *prometheus.CounterVec
	ValidationRuns      *prometheus.CounterVec
	StepDurationSeconds *prometheus.HistogramVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		LLMRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rcgen_llm_requests_total",
				Help: "Number of remote generation requests by provider, model and result",
			},
			[]string{"provider", "model", "result"}, // result: ok|error|timeout
		),
		LLMRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rcgen_llm_request_duration_seconds",
				Help:    "Duration of remote generation requests",
				Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
			},
			[]string{"provider"},
		),
		Errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rcgen_errors_total",
				Help: "Errors by component and type",
			},
			[]string{"component", "type"},
		),
		Generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rcgen_components_total",
				Help: "Components written by origin",
			},
			[]string{"origin"}, // origin: generated|templated
		),
		ValidationRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rcgen_validation_runs_total",
				Help: "Validation runs by result",
			},
			[]string{"result"}, // result: pass|fail
		),
		StepDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rcgen_step_duration_seconds",
				Help:    "Duration of pipeline steps",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"step"},
		),
	}

	r.registry.MustRegister(
		r.LLMRequests,
		r.LLMRequestDuration,
		r.Errors,
		r.Generations,
		r.ValidationRuns,
		r.StepDurationSeconds,
	)
	return r
}

func (r *Recorder) ObserveLLMRequest(provider, model, result string, d time.Duration) {
	r.LLMRequests.WithLabelValues(provider, model, result).Inc()
	r.LLMRequestDuration.WithLabelValues(provider).Observe(d.Seconds())
}

func (r *Recorder) IncError(component, typ string) {
	r.Errors.WithLabelValues(component, typ).Inc()
}

func (r *Recorder) IncGeneration(origin string) {
	r.Generations.WithLabelValues(origin).Inc()
}

func (r *Recorder) ObserveValidation(passed bool) {
	result := "fail"
	if passed {
		result = "pass"
	}
	r.ValidationRuns.WithLabelValues(result).Inc()
}

func (r *Recorder) ObserveStep(step string, d time.Duration) {
	r.StepDurationSeconds.WithLabelValues(step).Observe(d.Seconds())
}

// WriteTextfile writes every metric of the run to path.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("error writing metrics to %s: %w", path, err)
	}
	return nil
}
