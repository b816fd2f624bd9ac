// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package telemetry declares the consumer-facing boundary for shipping
// collected spans and metrics out of process. Wire exporters (OTLP/HTTP,
// Prometheus remote-write, etc.) are explicitly out of scope for this
// module; only the interfaces a concrete exporter would implement live
// here.
package telemetry

import "context"

// SpanRecord is the minimal, exporter-agnostic shape of a completed span.
type SpanRecord struct {
	TraceID    string
	SpanID     string
	Name       string
	StatusCode int
	StatusMsg  string
	Attributes map[string]string
}

// MetricSample is one observed point for a counter, gauge, or histogram.
type MetricSample struct {
	Name   string
	Labels map[string]string
	Value  float64
}

// TraceExporter ships completed spans to an external collector. A
// concrete implementation (not provided here) owns the wire protocol.
type TraceExporter interface {
	ExportSpans(ctx context.Context, spans []SpanRecord) error
	Shutdown(ctx context.Context) error
}

// MetricExporter ships metric samples to an external collector.
type MetricExporter interface {
	ExportMetrics(ctx context.Context, samples []MetricSample) error
	Shutdown(ctx context.Context) error
}
