// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import (
	"context"
	"runtime"
	"time"
)

// Backend abstracts the reactor a Runtime's fibers are scheduled on (spec
// §9's {spawn, sleep, cancel_scope, yield_now}). This module ships one
// goroutine-based implementation. spec §4.4 requires an optional
// structured-task-group backend to match the default's semantics; nothing
// in SPEC_FULL.md's component map exercises a second implementation, so
// it is deliberately not built here (see DESIGN.md) — the interface is
// kept so one can be added without touching callers.
type Backend interface {
	Spawn(ctx context.Context, f func(ctx context.Context)) context.CancelFunc
	Sleep(ctx context.Context, d time.Duration) error
	CancelScope(ctx context.Context) (context.Context, context.CancelFunc)
	YieldNow(ctx context.Context)
}

// GoroutineBackend is the default Backend: Spawn launches a goroutine,
// Sleep blocks on a timer racing ctx cancellation, CancelScope is a plain
// context.WithCancel, and YieldNow hands off to the Go scheduler.
type GoroutineBackend struct{}

// Spawn launches f on its own goroutine under a cancellable child of ctx.
func (GoroutineBackend) Spawn(ctx context.Context, f func(ctx context.Context)) context.CancelFunc {
	child, cancel := context.WithCancel(ctx)
	go f(child)
	return cancel
}

// Sleep blocks for d or until ctx is cancelled, whichever comes first.
func (GoroutineBackend) Sleep(ctx context.Context, d time.Duration) error {
	return LiveClock{}.Sleep(ctx, d)
}

// CancelScope returns a child context cancellable independently of ctx's
// own cancellation tree.
func (GoroutineBackend) CancelScope(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithCancel(ctx)
}

// YieldNow cooperatively yields the current goroutine's time slice.
func (GoroutineBackend) YieldNow(context.Context) {
	runtime.Gosched()
}

// SleepEffect lifts Clock.Sleep into an Effect, consulting whichever Clock
// is registered in the environment (LiveClock if none).
func SleepEffect[E any](d time.Duration) Effect[E, struct{}] {
	return Effect[E, struct{}]{run: func(ec *execContext) (struct{}, *Cause[E]) {
		if ic := checkInterrupt[E](ec); ic != nil {
			return struct{}{}, ic
		}
		clk := resolveClock(ec.env)
		if err := clk.Sleep(ec.std, d); err != nil {
			return struct{}{}, InterruptCause[E]()
		}
		return struct{}{}, nil
	}}
}
