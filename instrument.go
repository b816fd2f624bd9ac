// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import (
	"errors"
	"sort"
	"strings"
)

func resolveLogger(env *Context) Logger {
	if l, err := GetService[Logger](env); err == nil {
		return l
	}
	return NopLogger()
}

func resolveTracer(env *Context) Tracer {
	if t, err := GetService[Tracer](env); err == nil {
		return t
	}
	return NopTracer()
}

func resolveMetrics(env *Context) Metrics {
	if m, err := GetService[Metrics](env); err == nil {
		return m
	}
	return NopMetrics()
}

func resolveClock(env *Context) Clock {
	if c, err := GetService[Clock](env); err == nil {
		return c
	}
	return LiveClock{}
}

// sortedTagFields renders tags as Fields ordered by key, for a
// deterministic log line regardless of map iteration order.
func sortedTagFields(tags map[string]string) []Field {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fields := make([]Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, Field{Key: k, Value: tags[k]})
	}
	return fields
}

func sanitizeMetricName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

func causeErrorFor[E any](c *Cause[E]) error {
	if c == nil {
		return nil
	}
	if c.IsInterrupt() {
		return errors.New("interrupted")
	}
	if defects := c.Defects(); len(defects) > 0 {
		if err, ok := defects[0].(error); ok {
			return err
		}
		return errors.New("die")
	}
	if fails := c.Failures(); len(fails) > 0 {
		if err, ok := any(fails[0]).(error); ok {
			return err
		}
	}
	return errors.New(c.Render())
}

// Instrument wraps e so every invocation logs its start and end, opens and
// closes a trace span around it, and records its wall-clock duration into
// a histogram named "effect_duration_seconds_<name>", labeled with tags.
// Any of Logger, Tracer, Metrics, or Clock absent from ec.env falls back to
// its nop/live default rather than failing the wrapped effect.
func Instrument[E, A any](name string, tags map[string]string, e Effect[E, A]) Effect[E, A] {
	return Effect[E, A]{run: func(ec *execContext) (A, *Cause[E]) {
		logger := resolveLogger(ec.env)
		tracer := resolveTracer(ec.env)
		metrics := resolveMetrics(ec.env)
		clock := resolveClock(ec.env)

		startFields := append([]Field{{Key: "name", Value: name}}, sortedTagFields(tags)...)
		logger.Debug(ec.std, "effect start", startFields...)

		span := tracer.StartSpan(ec.std, name)
		started := clock.Now()

		a, c := runEffect(e, ec.withStd(span.Context()))

		elapsed := clock.Now().Sub(started).Seconds()
		histName := "effect_duration_seconds_" + sanitizeMetricName(name)
		metrics.Histogram(histName, tags).Observe(elapsed)

		status := SpanOK
		var spanErr error
		if c != nil {
			spanErr = causeErrorFor(c)
			if c.IsInterrupt() {
				status = SpanError
			} else if c.IsDie() {
				status = SpanDie
			} else {
				status = SpanError
			}
			endFields := append([]Field{{Key: "name", Value: name}, {Key: "cause", Value: c.Render()}}, sortedTagFields(tags)...)
			logger.Error(ec.std, "effect failed", endFields...)
		} else {
			endFields := append([]Field{{Key: "name", Value: name}}, sortedTagFields(tags)...)
			logger.Debug(ec.std, "effect end", endFields...)
		}
		tracer.EndSpan(span, status, spanErr)

		return a, c
	}}
}
