// Package metrics counts what a run fetched and rendered, for export through
// the node_exporter textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Fetch results.
const (
	ResultVerified = "verified"
	ResultFailed   = "failed"
)

// Recorder holds the metrics of one run. A nil *Recorder records nothing.
type Recorder struct {
	registry *prometheus.Registry

	fetches       *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	endpoints     *prometheus.CounterVec
	undecodable   *prometheus.CounterVec
	lastRun       prometheus.Gauge
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stampwall_source_fetches_total",
				Help: "Source URL fetches by verification result",
			},
			[]string{"source", "result"},
		),
		fetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stampwall_source_fetch_duration_seconds",
				Help:    "Time to retrieve and verify a source URL",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		endpoints: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stampwall_endpoints_total",
				Help: "Decoded endpoints with an address, by stamp protocol",
			},
			[]string{"source", "proto"},
		),
		undecodable: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stampwall_endpoints_without_address_total",
				Help: "Stamps that yielded no address",
			},
			[]string{"source"},
		),
		lastRun: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "stampwall_last_run_timestamp_seconds",
				Help: "Unix time the last run finished",
			},
		),
	}

	r.registry.MustRegister(r.fetches, r.fetchDuration, r.endpoints, r.undecodable, r.lastRun)
	return r
}

// Registry returns the registry holding the run's metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Fetched records the outcome of one fetch.
func (r *Recorder) Fetched(source string, verified bool, took time.Duration) {
	if r == nil {
		return
	}
	result := ResultFailed
	if verified {
		result = ResultVerified
	}
	r.fetches.WithLabelValues(source, result).Inc()
	r.fetchDuration.WithLabelValues(source).Observe(took.Seconds())
}

// Endpoint records one decoded stamp.
func (r *Recorder) Endpoint(source, proto string, hasAddress bool) {
	if r == nil {
		return
	}
	if hasAddress {
		r.endpoints.WithLabelValues(source, proto).Inc()
		return
	}
	r.undecodable.WithLabelValues(source).Inc()
}

// Finish stamps the run completion time.
func (r *Recorder) Finish(at time.Time) {
	if r == nil {
		return
	}
	r.lastRun.Set(float64(at.Unix()))
}

// WriteTextfile writes all metrics to path in the text exposition format.
// The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
