// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import (
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
)

func attrString(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// DefaultHistogramBuckets is the fixed bucket list spec §6 mandates for
// every duration histogram.
var DefaultHistogramBuckets = []float64{
	0.005, 0.010, 0.025, 0.050, 0.100, 0.250, 0.500, 1, 2.5, 5, 10,
}

// Metrics is the optional metrics service contract (spec §6): counters,
// gauges, and histograms, each keyed by (name, labels).
type Metrics interface {
	Counter(name string, labels map[string]string) Counter
	Gauge(name string, labels map[string]string) Gauge
	Histogram(name string, labels map[string]string) Histogram
}

// Counter accumulates a monotonically increasing value.
type Counter interface{ Inc(delta float64) }

// Gauge reports an instantaneous value.
type Gauge interface{ Set(value float64) }

// Histogram observes a distribution of values into spec's fixed buckets.
type Histogram interface{ Observe(value float64) }

// promMetrics adapts github.com/prometheus/client_golang to the Metrics
// contract. Vectors are created lazily per (name, label-keys) and reused
// across calls so repeated Counter/Gauge/Histogram calls for the same
// name+labels return distinct facing handles to the same series.
type promMetrics struct {
	reg *prometheus.Registry

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
}

// NewPrometheusMetrics builds a Metrics service backed by a
// prometheus.Registry. Pass prometheus.NewRegistry() for an isolated
// registry, or prometheus.DefaultRegisterer's registry to participate in
// a process-wide /metrics endpoint.
func NewPrometheusMetrics(reg *prometheus.Registry) Metrics {
	return &promMetrics{
		reg:        reg,
		counters:   map[string]*prometheus.CounterVec{},
		gauges:     map[string]*prometheus.GaugeVec{},
		histograms: map[string]*prometheus.HistogramVec{},
	}
}

func labelNames(labels map[string]string) []string {
	names := make([]string, 0, len(labels))
	for k := range labels {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func vecKey(name string, names []string) string {
	return name + "|" + strings.Join(names, ",")
}

func (m *promMetrics) Counter(name string, labels map[string]string) Counter {
	names := labelNames(labels)
	m.mu.Lock()
	defer m.mu.Unlock()
	key := vecKey(name, names)
	v, ok := m.counters[key]
	if !ok {
		v = prometheus.NewCounterVec(prometheus.CounterOpts{Name: name}, names)
		m.reg.MustRegister(v)
		m.counters[key] = v
	}
	return &promCounter{v.With(labels)}
}

func (m *promMetrics) Gauge(name string, labels map[string]string) Gauge {
	names := labelNames(labels)
	m.mu.Lock()
	defer m.mu.Unlock()
	key := vecKey(name, names)
	v, ok := m.gauges[key]
	if !ok {
		v = prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name}, names)
		m.reg.MustRegister(v)
		m.gauges[key] = v
	}
	return &promGauge{v.With(labels)}
}

func (m *promMetrics) Histogram(name string, labels map[string]string) Histogram {
	names := labelNames(labels)
	m.mu.Lock()
	defer m.mu.Unlock()
	key := vecKey(name, names)
	v, ok := m.histograms[key]
	if !ok {
		v = prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: name, Buckets: DefaultHistogramBuckets}, names)
		m.reg.MustRegister(v)
		m.histograms[key] = v
	}
	return &promHistogram{v.With(labels)}
}

type promCounter struct{ c prometheus.Counter }

func (c *promCounter) Inc(delta float64) { c.c.Add(delta) }

type promGauge struct{ g prometheus.Gauge }

func (g *promGauge) Set(value float64) { g.g.Set(value) }

type promHistogram struct{ h prometheus.Observer }

func (h *promHistogram) Observe(value float64) { h.h.Observe(value) }

// NopMetrics discards every observation.
func NopMetrics() Metrics { return nopMetrics{} }

type nopMetrics struct{}

func (nopMetrics) Counter(string, map[string]string) Counter     { return nopCounter{} }
func (nopMetrics) Gauge(string, map[string]string) Gauge         { return nopGauge{} }
func (nopMetrics) Histogram(string, map[string]string) Histogram { return nopHistogram{} }

type nopCounter struct{}

func (nopCounter) Inc(float64) {}

type nopGauge struct{}

func (nopGauge) Set(float64) {}

type nopHistogram struct{}

func (nopHistogram) Observe(float64) {}
