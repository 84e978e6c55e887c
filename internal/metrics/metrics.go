// Package metrics holds the prometheus collectors for provider calls and
// design runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amritPVre/BAESS-Solar-sub008/pkg/irradiance"
)

const namespace = "solarplanner"

// Registry owns a prometheus registry and the engine collectors.
type Registry struct {
	reg *prometheus.Registry

	// IrradianceRequests counts provider calls by provider and outcome.
	IrradianceRequests *prometheus.CounterVec
	// IrradianceDuration measures the latency of each provider attempt.
	IrradianceDuration *prometheus.HistogramVec
	// DesignRuns counts pipeline runs by outcome.
	DesignRuns *prometheus.CounterVec
	// CableInadequate counts cable runs with no suitable catalog entry.
	CableInadequate prometheus.Counter
}

// New creates and registers the collectors on a fresh registry.
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		IrradianceRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "irradiance_requests_total",
				Help:      "Irradiance provider attempts and cache hits by provider and outcome; each retry counts separately",
			},
			[]string{"provider", "outcome"}, // success, error, cancelled, cache_hit
		),
		IrradianceDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "irradiance_request_duration_seconds",
				Help:      "Latency of a single irradiance provider attempt; backoff waits are excluded",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
			},
			[]string{"provider"},
		),
		DesignRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "design_runs_total",
				Help:      "Design pipeline runs by outcome",
			},
			[]string{"outcome"}, // success, invalid, error
		),
		CableInadequate: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cable_inadequate_total",
				Help:      "Cable runs for which no catalog entry met ampacity and voltage drop",
			},
		),
	}
	r.reg.MustRegister(
		r.IrradianceRequests,
		r.IrradianceDuration,
		r.DesignRuns,
		r.CableInadequate,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

var _ irradiance.Observer = (*Registry)(nil)

// ObserveIrradianceRequest implements irradiance.Observer.
func (r *Registry) ObserveIrradianceRequest(provider string, outcome irradiance.Outcome, took time.Duration) {
	r.IrradianceRequests.WithLabelValues(provider, string(outcome)).Inc()
	if outcome != irradiance.OutcomeCacheHit {
		r.IrradianceDuration.WithLabelValues(provider).Observe(took.Seconds())
	}
}

// ObserveDesignRun records a pipeline outcome and how many cable runs came
// back inadequate.
func (r *Registry) ObserveDesignRun(outcome string, inadequateCables int) {
	r.DesignRuns.WithLabelValues(outcome).Inc()
	if inadequateCables > 0 {
		r.CableInadequate.Add(float64(inadequateCables))
	}
}

// Handler serves the registry in the prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Gatherer exposes the registry for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}
