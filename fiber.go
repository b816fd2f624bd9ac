// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
)

// FiberStatus is a Fiber's observable lifecycle state.
type FiberStatus int32

const (
	FiberRunning FiberStatus = iota
	FiberDone
	FiberFailed
	FiberCancelled
)

func (s FiberStatus) String() string {
	switch s {
	case FiberRunning:
		return "running"
	case FiberDone:
		return "done"
	case FiberFailed:
		return "failed"
	case FiberCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Fiber is the untyped handle carried by execContext: a stable id, an
// optional name, the interrupt flag checked at every suspension point, and
// the cancel func that tears down the fiber's std context. It is embedded
// in FiberHandle[E, A], which adds the typed Exit once the fiber completes.
type Fiber struct {
	id            string
	name          string
	interruptFlag atomic.Bool
	status        atomic.Int32
	cancel        context.CancelFunc
	done          chan struct{}
}

func newFiber(name string, cancel context.CancelFunc) *Fiber {
	f := &Fiber{id: uuid.NewString(), name: name, cancel: cancel, done: make(chan struct{})}
	f.status.Store(int32(FiberRunning))
	return f
}

// ID returns the fiber's stable unique identifier.
func (f *Fiber) ID() string { return f.id }

// Name returns the fiber's optional name, or "" if none was given at fork.
func (f *Fiber) Name() string { return f.name }

// Status reports the fiber's current lifecycle state.
func (f *Fiber) Status() FiberStatus { return FiberStatus(f.status.Load()) }

// Interrupt requests cancellation. Idempotent and safe to call from any
// fiber, including the fiber itself or its parent.
func (f *Fiber) Interrupt() {
	f.interruptFlag.Store(true)
	f.cancel()
}

// Done returns a channel closed exactly once, when the fiber terminates.
func (f *Fiber) Done() <-chan struct{} { return f.done }

// FiberHandle[E, A] is the typed handle returned by Fork: a Fiber
// plus the Exit it materializes on completion.
type FiberHandle[E, A any] struct {
	*Fiber
	exit Exit[E, A]
}

func (h *FiberHandle[E, A]) complete(exit Exit[E, A]) {
	h.exit = exit
	if exit.IsSuccess() {
		h.status.Store(int32(FiberDone))
	} else if c, ok := exit.Cause(); ok && c.IsInterrupt() {
		h.status.Store(int32(FiberCancelled))
	} else {
		h.status.Store(int32(FiberFailed))
	}
}

// Await_ blocks until the fiber terminates (or ctx is cancelled first) and
// returns the materialized Exit: Success, Fail, Die, or Interrupt.
func (h *FiberHandle[E, A]) Await_(ctx context.Context) Exit[E, A] {
	select {
	case <-h.done:
		return h.exit
	case <-ctx.Done():
		return FailExit[E, A](InterruptCause[E]())
	}
}

// Join waits like Await_ but separates the success value from the failure
// cause as two return values, rather than a single Exit — the Go analogue
// of spec.md's "surfaces failures as raised signals" (Go has no exception
// channel to re-raise into).
func (h *FiberHandle[E, A]) Join(ctx context.Context) (A, *Cause[E]) {
	exit := h.Await_(ctx)
	if v, ok := exit.Value(); ok {
		return v, nil
	}
	c, _ := exit.Cause()
	var zero A
	return zero, c
}

// JoinEffect lifts Await_ into an Effect so joining one fiber from inside
// another participates in the same interrupt/suspension bookkeeping as any
// other blocking primitive.
func JoinEffect[E, A any](h *FiberHandle[E, A]) Effect[E, Exit[E, A]] {
	return Effect[E, Exit[E, A]]{run: func(ec *execContext) (Exit[E, A], *Cause[E]) {
		select {
		case <-h.done:
			return h.exit, nil
		case <-ec.std.Done():
			var zero Exit[E, A]
			return zero, InterruptCause[E]()
		}
	}}
}
