// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import "context"

// Supervisor observes fiber lifecycle events. A Runtime notifies its
// Supervisor exactly once per event: on_start when a fiber begins, on_end
// always exactly once when it terminates, and on_failure only for outcomes
// other than success or interrupt.
type Supervisor interface {
	OnStart(f *Fiber)
	OnFailure(f *Fiber, cause any)
	OnEnd(f *Fiber, exit any)
}

// NopSupervisor observes nothing; it is the default when a Runtime is
// constructed without one.
func NopSupervisor() Supervisor { return nopSupervisor{} }

type nopSupervisor struct{}

func (nopSupervisor) OnStart(*Fiber)        {}
func (nopSupervisor) OnFailure(*Fiber, any) {}
func (nopSupervisor) OnEnd(*Fiber, any)     {}

// LoggingSupervisor logs every lifecycle event through logger, in the same
// style as the rest of the package's instrumentation (see instrument.go).
type LoggingSupervisor struct {
	logger Logger
}

// NewLoggingSupervisor builds a Supervisor that logs fiber lifecycle
// transitions at Debug (start), Error (failure), and Debug (end) levels.
func NewLoggingSupervisor(logger Logger) *LoggingSupervisor {
	return &LoggingSupervisor{logger: logger}
}

func (s *LoggingSupervisor) OnStart(f *Fiber) {
	s.logger.Debug(context.Background(), "fiber started", Field{Key: "fiber_id", Value: f.ID()}, Field{Key: "fiber_name", Value: f.Name()})
}

func (s *LoggingSupervisor) OnFailure(f *Fiber, cause any) {
	s.logger.Error(context.Background(), "fiber failed", Field{Key: "fiber_id", Value: f.ID()}, Field{Key: "cause", Value: cause})
}

func (s *LoggingSupervisor) OnEnd(f *Fiber, exit any) {
	s.logger.Debug(context.Background(), "fiber ended", Field{Key: "fiber_id", Value: f.ID()}, Field{Key: "status", Value: f.Status().String()})
}
