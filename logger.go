// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field is a single structured logging attribute.
type Field struct {
	Key   string
	Value any
}

// Logger is the optional structured logging service contract (spec §6).
// Implementations are level-filtered and may emit JSON. Correlation IDs
// (trace_id, span_id) are read from task-local context by the concrete
// implementation, not by callers.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...Field)
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)
}

// zapLogger adapts go.uber.org/zap to the Logger contract and enriches
// every record with the trace/span correlation IDs of the span carried
// in the record's ctx (see SpanFromContext).
type zapLogger struct {
	base *zap.Logger
}

// NewZapLogger builds a Logger backed by a *zap.Logger. Pass
// zap.NewProduction() for JSON output or zap.NewDevelopment() for
// human-readable console output.
func NewZapLogger(base *zap.Logger) Logger {
	return &zapLogger{base: base}
}

func (l *zapLogger) log(lvl zapcore.Level, ctx context.Context, msg string, fields []Field) {
	zf := make([]zap.Field, 0, len(fields)+2)
	if sc := SpanFromContext(ctx); sc != nil {
		zf = append(zf, zap.String("trace_id", sc.TraceID), zap.String("span_id", sc.SpanID))
	}
	for _, f := range fields {
		zf = append(zf, zap.Any(f.Key, f.Value))
	}
	if ce := l.base.Check(lvl, msg); ce != nil {
		ce.Write(zf...)
	}
}

func (l *zapLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.log(zapcore.DebugLevel, ctx, msg, fields)
}
func (l *zapLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.log(zapcore.InfoLevel, ctx, msg, fields)
}
func (l *zapLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.log(zapcore.WarnLevel, ctx, msg, fields)
}
func (l *zapLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.log(zapcore.ErrorLevel, ctx, msg, fields)
}

// NopLogger discards everything. Useful as a Context default so services
// that log defensively never nil-check.
func NopLogger() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...Field) {}
func (nopLogger) Info(context.Context, string, ...Field)  {}
func (nopLogger) Warn(context.Context, string, ...Field)  {}
func (nopLogger) Error(context.Context, string, ...Field) {}
