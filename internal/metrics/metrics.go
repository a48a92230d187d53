// Package metrics exposes the Prometheus collectors of the dashboard service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stepherg/rigtune"
)

// Metrics groups the collectors registered on one registry, so tests can use
// isolated instances.
type Metrics struct {
	Registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	mutations    *prometheus.CounterVec
	score        prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		Registry:     prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rigtune",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rigtune",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rigtune",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 10), // 0.5ms to ~250ms
		}, []string{"method", "path"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rigtune",
			Subsystem: "catalog",
			Name:      "mutations_total",
			Help:      "Catalog mutations that changed state, by kind.",
		}, []string{"kind"}),
		score: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rigtune",
			Subsystem: "catalog",
			Name:      "optimization_score",
			Help:      "Optimization score after the latest mutation.",
		}),
	}
	m.Registry.MustRegister(
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		m.mutations,
		m.score,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) IncrementInFlight() { m.httpInFlight.Inc() }
func (m *Metrics) DecrementInFlight() { m.httpInFlight.Dec() }

func (m *Metrics) RecordHTTPRequest(method, path string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// SetScore records the current optimization score.
func (m *Metrics) SetScore(score int) { m.score.Set(float64(score)) }

// ObserveEvent counts a catalog mutation and updates the score gauge.
func (m *Metrics) ObserveEvent(e rigtune.Event) {
	m.mutations.WithLabelValues(string(e.Kind)).Inc()
	m.SetScore(e.Score)
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
