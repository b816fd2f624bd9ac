// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import (
	"context"
	"time"
)

// Map applies f to e's success value; every failure (Fail, Die, or
// Interrupt) propagates unchanged.
func Map[E, A, B any](e Effect[E, A], f func(A) B) Effect[E, B] {
	return Effect[E, B]{run: func(ec *execContext) (B, *Cause[E]) {
		var zero B
		a, c := runEffect(e, ec)
		if c != nil {
			return zero, c
		}
		return f(a), nil
	}}
}

// FlatMap sequences e and k: k runs only on e's success; any failure
// short-circuits before k is ever invoked.
func FlatMap[E, A, B any](e Effect[E, A], k func(A) Effect[E, B]) Effect[E, B] {
	return Effect[E, B]{run: func(ec *execContext) (B, *Cause[E]) {
		var zero B
		a, c := runEffect(e, ec)
		if c != nil {
			return zero, c
		}
		return runEffect(k(a), ec)
	}}
}

// CatchAll recovers from a Fail only; Die and Interrupt still propagate.
func CatchAll[E, A any](e Effect[E, A], h func(E) Effect[E, A]) Effect[E, A] {
	return Effect[E, A]{run: func(ec *execContext) (A, *Cause[E]) {
		a, c := runEffect(e, ec)
		if c == nil {
			return a, nil
		}
		if fails := onlyFail(c); fails != nil {
			return runEffect(h(*fails), ec)
		}
		var zero A
		return zero, c
	}}
}

// onlyFail returns the error of c when c is exactly a single Fail leaf
// (not a Then/Both tree and not Die/Interrupt); CatchAll/Fold only
// recover this shape, matching spec's "fail(e).catch_all(h) ≡ h(e))"
// single-leaf law. Composite causes from parallel combinators propagate
// unchanged, since which single E to hand the recovery function is
// ambiguous once two typed failures have already been combined.
func onlyFail[E any](c *Cause[E]) *E {
	if c != nil && c.kind == causeFail {
		e := c.err
		return &e
	}
	return nil
}

// Fold totally recovers both Fail and success into B; Die and Interrupt
// still propagate, now carried by a Cause[Never] since the Fail channel
// has been eliminated.
func Fold[E, A, B any](e Effect[E, A], onFail func(E) B, onSuccess func(A) B) Effect[Never, B] {
	return Effect[Never, B]{run: func(ec *execContext) (B, *Cause[Never]) {
		a, c := runEffect(e, ec)
		if c == nil {
			return onSuccess(a), nil
		}
		if fails := onlyFail(c); fails != nil {
			return onFail(*fails), nil
		}
		return *new(B), eliminateFail[E, Never](c)
	}}
}

// eliminateFail translates a Cause that is statically known (by the
// caller) to contain no remaining Fail leaves into a Cause[F] (a
// Cause[Never] for Fold).
func eliminateFail[E, F any](c *Cause[E]) *Cause[F] {
	if c == nil {
		return nil
	}
	switch c.kind {
	case causeDie:
		return &Cause[F]{kind: causeDie, defect: c.defect, stack: c.stack, annotations: c.annotations}
	case causeInterrupt:
		return &Cause[F]{kind: causeInterrupt, annotations: c.annotations}
	case causeThen:
		return &Cause[F]{kind: causeThen, left: eliminateFail[E, F](c.left), right: eliminateFail[E, F](c.right), annotations: c.annotations}
	case causeBoth:
		return &Cause[F]{kind: causeBoth, left: eliminateFail[E, F](c.left), right: eliminateFail[E, F](c.right), annotations: c.annotations}
	default:
		// A Fail leaf reached here means the caller's precondition was
		// violated; surface it as a Die rather than silently losing it.
		return &Cause[F]{kind: causeDie, defect: c.err}
	}
}

// FoldEffect is Fold's effectful generalization: both branches
// return a new Effect rather than a plain value.
func FoldEffect[E, F, A, B any](e Effect[E, A], onFail func(E) Effect[F, B], onSuccess func(A) Effect[F, B]) Effect[F, B] {
	return Effect[F, B]{run: func(ec *execContext) (B, *Cause[F]) {
		a, c := runEffect(e, ec)
		if c == nil {
			return runEffect(onSuccess(a), ec)
		}
		if fails := onlyFail(c); fails != nil {
			return runEffect(onFail(*fails), ec)
		}
		var zero B
		return zero, eliminateFail[E, F](c)
	}}
}

// MapError transforms the typed failure channel.
func MapError[E, F, A any](e Effect[E, A], f func(E) F) Effect[F, A] {
	return Effect[F, A]{run: func(ec *execContext) (A, *Cause[F]) {
		a, c := runEffect(e, ec)
		if c == nil {
			return a, nil
		}
		return a, MapCauseError(c, f)
	}}
}

// RefineOrDie narrows a Fail via pf; when pf returns false the fail is
// converted into a Die instead (the refinement did not match).
func RefineOrDie[E, F, A any](e Effect[E, A], pf func(E) (F, bool)) Effect[F, A] {
	return Effect[F, A]{run: func(ec *execContext) (A, *Cause[F]) {
		a, c := runEffect(e, ec)
		if c == nil {
			return a, nil
		}
		if fails := onlyFail(c); fails != nil {
			if f, ok := pf(*fails); ok {
				return a, FailCause[F](f)
			}
			return a, DieCause[F](*fails, "")
		}
		return a, eliminateFail[E, F](c)
	}}
}

// ZipEffect runs self then other strictly sequentially and pairs their
// results; it is ZipWith with a Pair-building combiner.
func ZipEffect[E, A, B any](self Effect[E, A], other Effect[E, B]) Effect[E, Pair[A, B]] {
	return ZipWith(self, other, func(a A, b B) Pair[A, B] { return Pair[A, B]{First: a, Second: b} })
}

// ZipWith runs self then other strictly sequentially, combining results
// with f; the first failure wins.
func ZipWith[E, A, B, C any](self Effect[E, A], other Effect[E, B], f func(A, B) C) Effect[E, C] {
	return Effect[E, C]{run: func(ec *execContext) (C, *Cause[E]) {
		var zero C
		a, c := runEffect(self, ec)
		if c != nil {
			return zero, c
		}
		b, c2 := runEffect(other, ec)
		if c2 != nil {
			return zero, c2
		}
		return f(a, b), nil
	}}
}

// Ensuring runs fin on every exit path of e (success, fail, die, or
// interrupt). fin itself runs uninterruptibly and any failure it raises
// is swallowed so the original outcome of e is always what's returned.
func Ensuring[E, A any](e Effect[E, A], fin Effect[any, struct{}]) Effect[E, A] {
	return Effect[E, A]{run: func(ec *execContext) (A, *Cause[E]) {
		a, c := runEffect(e, ec)
		finEc := ec.withInterruptible(false)
		_, _ = runEffect(fin, finEc)
		return a, c
	}}
}

// OnError runs side only when e fails (Fail or Die; not on success), then
// re-raises the original cause. side itself runs uninterruptibly.
func OnError[E, A any](e Effect[E, A], side func(*Cause[E]) Effect[any, struct{}]) Effect[E, A] {
	return Effect[E, A]{run: func(ec *execContext) (A, *Cause[E]) {
		a, c := runEffect(e, ec)
		if c != nil && !c.IsInterrupt() {
			finEc := ec.withInterruptible(false)
			_, _ = runEffect(side(c), finEc)
		}
		return a, c
	}}
}

// OnInterrupt runs side only when e is interrupted, then re-raises the
// interrupt.
func OnInterrupt[E, A any](e Effect[E, A], side func() Effect[any, struct{}]) Effect[E, A] {
	return Effect[E, A]{run: func(ec *execContext) (A, *Cause[E]) {
		a, c := runEffect(e, ec)
		if c != nil && c.IsInterrupt() {
			finEc := ec.withInterruptible(false)
			_, _ = runEffect(side(), finEc)
		}
		return a, c
	}}
}

// Annotate appends note to the annotation list of the Cause of any
// failure (Fail, Die, or Interrupt) raised through e.
func Annotate[E, A any](e Effect[E, A], note string) Effect[E, A] {
	return Effect[E, A]{run: func(ec *execContext) (A, *Cause[E]) {
		a, c := runEffect(e, ec)
		if c == nil {
			return a, nil
		}
		return a, c.Annotate(note)
	}}
}

// Uninterruptible runs e in a region where interruption is not delivered:
// checkInterrupt inside e ignores the fiber's interrupt flag, whether it
// was set before e started or while e runs. A pending request is observed
// at the first suspension point after e returns to an interruptible
// region.
func Uninterruptible[E, A any](e Effect[E, A]) Effect[E, A] {
	return Effect[E, A]{run: func(ec *execContext) (A, *Cause[E]) {
		return runEffect(e, ec.withInterruptible(false))
	}}
}

// UninterruptibleMask runs f's body uninterruptibly, handing it a restore
// function that reinstates the mask state captured at the call site for
// any inner Effect it wraps — the fix to the source's restore, which
// unconditionally re-enabled interruption rather than restoring the
// caller's own prior mask.
func UninterruptibleMask[E, A any](f func(restore func(Effect[E, A]) Effect[E, A]) Effect[E, A]) Effect[E, A] {
	return Effect[E, A]{run: func(ec *execContext) (A, *Cause[E]) {
		outer := ec.interruptible
		restore := func(inner Effect[E, A]) Effect[E, A] {
			return Effect[E, A]{run: func(innerEc *execContext) (A, *Cause[E]) {
				return runEffect(inner, innerEc.withInterruptible(outer))
			}}
		}
		return runEffect(f(restore), ec.withInterruptible(false))
	}}
}

// Timeout runs e with deadline d. On deadline it interrupts the inner
// computation and yields None; otherwise it yields Some(result) and
// propagates failures unchanged. If the owning fiber is itself
// interrupted while e is running, that Interrupt propagates rather than
// being reported as a timeout (spec §7: interrupt is never masked except
// by on_interrupt).
func Timeout[E, A any](e Effect[E, A], d time.Duration) Effect[E, Option[A]] {
	return Effect[E, Option[A]]{run: func(ec *execContext) (Option[A], *Cause[E]) {
		type result struct {
			a A
			c *Cause[E]
		}
		done := make(chan result, 1)
		childStd, cancel := context.WithTimeout(ec.std, d)
		defer cancel()
		childEc := ec.withStd(childStd)

		go func() {
			a, c := runEffect(e, childEc)
			done <- result{a, c}
		}()

		select {
		case r := <-done:
			if r.c != nil {
				return None[A](), r.c
			}
			if ic := checkInterrupt[E](ec); ic != nil {
				return None[A](), ic
			}
			return Some(r.a), nil
		case <-childStd.Done():
			var prior bool
			if ec.fiber != nil {
				prior = ec.fiber.interruptFlag.Load()
				ec.fiber.interruptFlag.Store(true)
			}
			<-done // wait for the inner goroutine to observe interruption and exit
			if ec.fiber != nil {
				ec.fiber.interruptFlag.Store(prior)
			}
			if childStd.Err() != context.DeadlineExceeded {
				return None[A](), InterruptCause[E]()
			}
			return None[A](), nil
		}
	}}
}
