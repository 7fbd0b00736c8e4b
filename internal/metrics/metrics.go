package metrics

import (
	"net/http"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Package-level Prometheus collectors. They are registered via Register.
var (
	regOK atomic.Bool

	samples = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "gotraywatch",
			Subsystem: "monitor",
			Name:      "samples_total",
			Help:      "Number of process samples taken.",
		},
	)
	sampleFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gotraywatch",
			Subsystem: "monitor",
			Name:      "sample_failures_total",
			Help:      "Number of samples whose process query failed.",
		}, []string{"kind"},
	)
	sampleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "gotraywatch",
			Subsystem: "monitor",
			Name:      "sample_duration_seconds",
			Help:      "Time spent listing and matching processes per sample.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
	)
	stateTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gotraywatch",
			Subsystem: "monitor",
			Name:      "state_transitions_total",
			Help:      "Number of monitor status transitions.",
		}, []string{"from", "to"},
	)
	currentState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "gotraywatch",
			Subsystem: "monitor",
			Name:      "current_state",
			Help:      "Current monitor status (1 = active state, 0 = inactive).",
		}, []string{"state"},
	)
	terminations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gotraywatch",
			Subsystem: "monitor",
			Name:      "terminations_total",
			Help:      "Terminate requests for the watched process by result.",
		}, []string{"result"},
	)
	configsApplied = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "gotraywatch",
			Subsystem: "monitor",
			Name:      "configs_applied_total",
			Help:      "Number of accepted configurations.",
		},
	)
)

// Register registers all metrics with the provided registerer.
// It is safe to call multiple times; subsequent calls after success are no-ops.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	cs := []prometheus.Collector{samples, sampleFailures, sampleDuration, stateTransitions, currentState, terminations, configsApplied}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// Handler returns an http.Handler that serves Prometheus metrics for the DefaultGatherer.
func Handler() http.Handler { return promhttp.Handler() }

// HandlerFor serves metrics from g.
func HandlerFor(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// The helpers below no-op until Register has succeeded.

func IncSample() {
	if regOK.Load() {
		samples.Inc()
	}
}

func IncSampleFailure(kind string) {
	if regOK.Load() {
		sampleFailures.WithLabelValues(kind).Inc()
	}
}

func ObserveSampleDuration(seconds float64) {
	if regOK.Load() {
		sampleDuration.Observe(seconds)
	}
}

func RecordStateTransition(from, to string) {
	if regOK.Load() {
		stateTransitions.WithLabelValues(from, to).Inc()
		currentState.WithLabelValues(from).Set(0)
		currentState.WithLabelValues(to).Set(1)
	}
}

func IncTermination(result string) {
	if regOK.Load() {
		terminations.WithLabelValues(result).Inc()
	}
}

func IncConfigApplied() {
	if regOK.Load() {
		configsApplied.Inc()
	}
}
