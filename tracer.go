// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import (
	"context"

	otelcodes "go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// SpanStatus classifies how a span ended.
type SpanStatus int

const (
	SpanOK SpanStatus = iota
	SpanError
	SpanDie
)

// SpanInfo is the minimal correlation-ID view of an active span, read by
// Logger to stamp records with trace_id/span_id (spec §6).
type SpanInfo struct {
	TraceID string
	SpanID  string
}

// Span is a handle to a started span; callers attach attributes/events
// and end it via Tracer.EndSpan.
type Span struct {
	otel trace.Span
	ctx  context.Context
}

// Context returns the context carrying this span, for propagation to
// child operations.
func (s *Span) Context() context.Context { return s.ctx }

// SetAttribute attaches a string attribute to the span.
func (s *Span) SetAttribute(key, value string) {
	s.otel.SetAttributes(attrString(key, value))
}

// AddEvent records a named event on the span's timeline.
func (s *Span) AddEvent(name string) { s.otel.AddEvent(name) }

// Tracer is the optional distributed-tracing service contract (spec §6).
// Span IDs are random; the parent span is read from task-local context.
type Tracer interface {
	StartSpan(ctx context.Context, name string) *Span
	EndSpan(s *Span, status SpanStatus, err error)
}

// otelTracer adapts go.opentelemetry.io/otel to the Tracer contract.
type otelTracer struct {
	tr trace.Tracer
}

// NewOtelTracer builds a Tracer from an otel trace.Tracer (typically
// obtained from an otel/sdk TracerProvider).
func NewOtelTracer(tr trace.Tracer) Tracer {
	return &otelTracer{tr: tr}
}

// NewSDKTracerProvider builds an in-process otel/sdk TracerProvider with
// the given span processors (e.g. sdktrace.NewSimpleSpanProcessor wrapping
// a span exporter), for callers that want real spans without standing up
// an external collector. name and version populate the provider's default
// Tracer's instrumentation scope.
func NewSDKTracerProvider(name, version string, processors ...sdktrace.SpanProcessor) (*sdktrace.TracerProvider, Tracer) {
	opts := make([]sdktrace.TracerProviderOption, 0, len(processors))
	for _, p := range processors {
		opts = append(opts, sdktrace.WithSpanProcessor(p))
	}
	tp := sdktrace.NewTracerProvider(opts...)
	return tp, NewOtelTracer(tp.Tracer(name, trace.WithInstrumentationVersion(version)))
}

func (t *otelTracer) StartSpan(ctx context.Context, name string) *Span {
	next, s := t.tr.Start(ctx, name)
	return &Span{otel: s, ctx: next}
}

func (t *otelTracer) EndSpan(s *Span, status SpanStatus, err error) {
	switch status {
	case SpanError:
		s.otel.SetStatus(otelcodes.Error, errString(err))
		if err != nil {
			s.otel.RecordError(err)
		}
	case SpanDie:
		s.otel.SetStatus(otelcodes.Error, "die")
		if err != nil {
			s.otel.RecordError(err)
		}
	default:
		s.otel.SetStatus(otelcodes.Ok, "")
	}
	s.otel.End()
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// SpanFromContext extracts trace/span correlation IDs from ctx, or nil if
// no span is active.
func SpanFromContext(ctx context.Context) *SpanInfo {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}
	return &SpanInfo{TraceID: sc.TraceID().String(), SpanID: sc.SpanID().String()}
}

// NopTracer discards every span.
func NopTracer() Tracer { return nopTracer{} }

type nopTracer struct{}

func (nopTracer) StartSpan(ctx context.Context, name string) *Span {
	return &Span{otel: trace.SpanFromContext(ctx), ctx: ctx}
}
func (nopTracer) EndSpan(*Span, SpanStatus, error) {}
