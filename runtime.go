// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import "context"

// Runtime holds a base Context and a Supervisor and is the entry point for
// forking independent fibers (spec §4.4). Fibers forked via Fork
// are not cancelled when their forker's effect returns — they are
// independent unless the caller joins or interrupts them, unlike the
// combinators in parallel.go which cancel their children on first failure.
type Runtime struct {
	base       *Context
	supervisor Supervisor
	std        context.Context
}

// NewRuntime builds a Runtime rooted at base, running against
// context.Background(), with no supervision.
func NewRuntime(base *Context) *Runtime {
	return &Runtime{base: base, supervisor: NopSupervisor(), std: context.Background()}
}

// WithSupervisor returns a copy of the Runtime that notifies s of fiber
// lifecycle events.
func (r *Runtime) WithSupervisor(s Supervisor) *Runtime {
	cp := *r
	cp.supervisor = s
	return &cp
}

// WithStd returns a copy of the Runtime whose forked fibers derive their
// cancellation context from std instead of context.Background().
func (r *Runtime) WithStd(std context.Context) *Runtime {
	cp := *r
	cp.std = std
	return &cp
}

// Fork starts e on its own goroutine, rooted at the Runtime's base Context
// and an empty FiberRef store, and returns immediately with a handle to
// observe it. Use this for top-level forks outside any running Effect.
func Fork[E, A any](rt *Runtime, e Effect[E, A], name string) *FiberHandle[E, A] {
	return forkFiber(rt, rt.std, rt.base, newFiberRefStore(), e, name)
}

// ForkEffect lifts Fork into an Effect so the forked fiber inherits the
// calling fiber's enriched Context and a copy-on-write snapshot of its
// FiberRef store, per spec.md's task-local inheritance rule.
func ForkEffect[E, A any](rt *Runtime, e Effect[E, A], name string) Effect[E, *FiberHandle[E, A]] {
	return Effect[E, *FiberHandle[E, A]]{run: func(ec *execContext) (*FiberHandle[E, A], *Cause[E]) {
		if ic := checkInterrupt[E](ec); ic != nil {
			return nil, ic
		}
		return forkFiber(rt, ec.std, ec.env, ec.fstore.clone(), e, name), nil
	}}
}

func forkFiber[E, A any](rt *Runtime, parentStd context.Context, env *Context, fstore *fiberRefStore, e Effect[E, A], name string) *FiberHandle[E, A] {
	childStd, cancel := context.WithCancel(parentStd)
	fib := newFiber(name, cancel)
	handle := &FiberHandle[E, A]{Fiber: fib}
	ec := &execContext{std: childStd, env: env, fiber: fib, fstore: fstore, interruptible: true}

	rt.supervisor.OnStart(fib)
	go func() {
		a, c := runEffect(e, ec)
		var exit Exit[E, A]
		if c != nil {
			exit = FailExit[E, A](c)
			if !c.IsInterrupt() {
				rt.supervisor.OnFailure(fib, c)
			}
		} else {
			exit = SucceedExit[E, A](a)
		}
		handle.complete(exit)
		rt.supervisor.OnEnd(fib, exit)
		close(fib.done)
	}()
	return handle
}
