// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const subsystem = "tides"

var (
	requestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:      "request_latency",
			Subsystem: subsystem,
			Help:      "HTTP request latencies in seconds.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		},
		[]string{"verb", "path", "code"},
	)

	modelCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "model_cache_lookups_total",
			Subsystem: subsystem,
			Help:      "Constituent model cache lookups by result.",
		},
		[]string{"result"},
	)

	predictions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "predictions_total",
			Subsystem: subsystem,
			Help:      "Day predictions served, by calibration source.",
		},
		[]string{"source"},
	)
)

func init() {
	prometheus.MustRegister(
		requestLatency,
		modelCacheLookups,
		predictions,
	)
}

// ObserveRequestLatency records one HTTP request.
func ObserveRequestLatency(verb, path, code string, latency float64) {
	requestLatency.With(prometheus.Labels{
		"code": code,
		"verb": verb,
		"path": path,
	}).Observe(latency)
}

// CacheHit counts a model cache hit.
func CacheHit() { modelCacheLookups.WithLabelValues("hit").Inc() }

// CacheMiss counts a model cache miss.
func CacheMiss() { modelCacheLookups.WithLabelValues("miss").Inc() }

// ObservePrediction counts a served day prediction. source is "station" or "location".
func ObservePrediction(source string) {
	predictions.WithLabelValues(source).Inc()
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
