// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import (
	"context"
	"runtime/debug"
)

// Effect[E, A] is a lazy, pure description of an asynchronous computation.
// Interpreting it against a Context yields success A, a typed failure E
// (Fail), an unexpected exception (Die), or cancellation (Interrupt).
// Effect values are immutable; the same value may be run any number of
// times and from any number of fibers.
type Effect[E, A any] struct {
	run func(ec *execContext) (A, *Cause[E])
}

// execContext is the interpreter's per-invocation state: the service
// registry, the owning fiber (for status/interrupt checks and FiberRef
// inheritance), and the interruptible-region mask. It is small and
// value-copied whenever a combinator needs to change one field (e.g.
// uninterruptible) without affecting the caller's own ec.
type execContext struct {
	std           context.Context
	env           *Context
	fiber         *Fiber
	fstore        *fiberRefStore
	interruptible bool
}

func (ec *execContext) withInterruptible(v bool) *execContext {
	cp := *ec
	cp.interruptible = v
	return &cp
}

func (ec *execContext) withEnv(env *Context) *execContext {
	cp := *ec
	cp.env = env
	return &cp
}

func (ec *execContext) withStd(std context.Context) *execContext {
	cp := *ec
	cp.std = std
	return &cp
}

// interruptRequested reports whether this execContext's owning fiber has
// been asked to cancel and the current region permits delivering it.
func (ec *execContext) interruptRequested() bool {
	if !ec.interruptible || ec.fiber == nil {
		return false
	}
	return ec.fiber.interruptFlag.Load()
}

// checkInterrupt is called at every suspension point (spec §4.4/§5).
func checkInterrupt[E any](ec *execContext) *Cause[E] {
	if ec.interruptRequested() {
		return InterruptCause[E]()
	}
	return nil
}

// runEffect is the entry point every combinator uses to evaluate a
// sub-effect. It exists so combinators never call e.run directly, keeping
// one seam available for future instrumentation (see instrument.go).
func runEffect[E, A any](e Effect[E, A], ec *execContext) (A, *Cause[E]) {
	return e.run(ec)
}

// Succeed builds an Effect that immediately completes with a.
func Succeed[E, A any](a A) Effect[E, A] {
	return Effect[E, A]{run: func(ec *execContext) (A, *Cause[E]) {
		if c := checkInterrupt[E](ec); c != nil {
			var zero A
			return zero, c
		}
		return a, nil
	}}
}

// Fail builds an Effect that immediately fails with e.
func Fail[E, A any](e E) Effect[E, A] {
	return Effect[E, A]{run: func(ec *execContext) (A, *Cause[E]) {
		var zero A
		if c := checkInterrupt[E](ec); c != nil {
			return zero, c
		}
		return zero, FailCause[E](e)
	}}
}

// FailCauseEffect lifts an already-built Cause directly; combinators that
// compose sub-causes (e.g. parallel Both) use this to re-surface them.
func FailCauseEffect[E, A any](c *Cause[E]) Effect[E, A] {
	return Effect[E, A]{run: func(*execContext) (A, *Cause[E]) {
		var zero A
		return zero, c
	}}
}

// recoverPanic converts a recovered panic value into a Die cause.
func recoverPanic[E any](r any) *Cause[E] {
	return DieCause[E](r, string(debug.Stack()))
}

// Sync evaluates a synchronous function; any panic becomes a Die.
func Sync[E, A any](thunk func() A) Effect[E, A] {
	return Effect[E, A]{run: func(ec *execContext) (a A, c *Cause[E]) {
		if ic := checkInterrupt[E](ec); ic != nil {
			return a, ic
		}
		defer func() {
			if r := recover(); r != nil {
				var zero A
				a, c = zero, recoverPanic[E](r)
			}
		}()
		return thunk(), nil
	}}
}

// Async awaits a function that may block (I/O, a channel receive, a
// sub-process). It receives the standard context.Context carrying this
// fiber's cancellation so it can cooperate with interruption. A panic
// becomes a Die, matching Sync's exception treatment.
func Async[E, A any](thunk func(ctx context.Context) A) Effect[E, A] {
	return Effect[E, A]{run: func(ec *execContext) (a A, c *Cause[E]) {
		if ic := checkInterrupt[E](ec); ic != nil {
			return a, ic
		}
		defer func() {
			if r := recover(); r != nil {
				var zero A
				a, c = zero, recoverPanic[E](r)
			}
		}()
		v := thunk(ec.std)
		if ic := checkInterrupt[E](ec); ic != nil {
			return a, ic
		}
		return v, nil
	}}
}

// Attempt evaluates thunk, mapping a returned error to a typed Fail via
// onError. A panic still becomes a Die.
func Attempt[E, A any](thunk func() (A, error), onError func(error) E) Effect[E, A] {
	return Effect[E, A]{run: func(ec *execContext) (a A, c *Cause[E]) {
		if ic := checkInterrupt[E](ec); ic != nil {
			return a, ic
		}
		defer func() {
			if r := recover(); r != nil {
				var zero A
				a, c = zero, recoverPanic[E](r)
			}
		}()
		v, err := thunk()
		if err != nil {
			var zero A
			return zero, FailCause[E](onError(err))
		}
		return v, nil
	}}
}

// RunSync evaluates e with a background Context and no owning fiber; used
// for top-level, one-shot evaluation outside any Runtime (spec's `_run`).
func RunSync[E, A any](e Effect[E, A], env *Context) Exit[E, A] {
	ec := &execContext{std: context.Background(), env: env, fstore: newFiberRefStore(), interruptible: true}
	a, c := runEffect(e, ec)
	if c != nil {
		return FailExit[E, A](c)
	}
	return Exit[E, A]{ok: true, value: a}
}
