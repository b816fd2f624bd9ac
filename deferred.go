// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import (
	"context"
	"sync/atomic"
)

// Deferred[E, A] is a single-assignment future: at most one of Succeed or
// Fail may complete it, enforced the same way kont's Affine enforces
// one-shot continuation resumption — an atomic counter that only the
// first caller wins, everyone else is a no-op. Await blocks until
// completion or interruption.
type Deferred[E, A any] struct {
	done  chan struct{}
	used  atomic.Uintptr
	value A
	cause *Cause[E]
}

// NewDeferred creates an uncompleted Deferred.
func NewDeferred[E, A any]() *Deferred[E, A] {
	return &Deferred[E, A]{done: make(chan struct{})}
}

// Succeed completes the Deferred with a. Returns false if it was already
// completed (by either Succeed or Fail).
func (d *Deferred[E, A]) Succeed(a A) bool {
	if d.used.Add(1) != 1 {
		return false
	}
	d.value = a
	close(d.done)
	return true
}

// Fail completes the Deferred with a failure. Returns false if it was
// already completed.
func (d *Deferred[E, A]) Fail(c *Cause[E]) bool {
	if d.used.Add(1) != 1 {
		return false
	}
	d.cause = c
	close(d.done)
	return true
}

// Await blocks the caller's goroutine until the Deferred completes or ctx
// is cancelled.
func (d *Deferred[E, A]) Await(ctx context.Context) (A, *Cause[E]) {
	select {
	case <-d.done:
		return d.value, d.cause
	case <-ctx.Done():
		var zero A
		return zero, InterruptCause[E]()
	}
}

// AwaitEffect lifts Await into an Effect, so it participates in the
// interpreter's suspension-point/interrupt bookkeeping like any other
// blocking primitive (spec §4.5's Queue and §4.4's Fiber.Join share this
// same shape).
func AwaitEffect[E, A any](d *Deferred[E, A]) Effect[E, A] {
	return Effect[E, A]{run: func(ec *execContext) (A, *Cause[E]) {
		select {
		case <-d.done:
			return d.value, d.cause
		case <-ec.std.Done():
			var zero A
			return zero, InterruptCause[E]()
		}
	}}
}

// IsCompleted reports whether the Deferred has already been assigned.
func (d *Deferred[E, A]) IsCompleted() bool {
	select {
	case <-d.done:
		return true
	default:
		return false
	}
}
