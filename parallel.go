// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// ZipPar runs a and b concurrently. If one fails, the other is cancelled;
// if the cancelled side merely observes the cancellation (interrupts),
// the aggregate failure is the genuine side's cause, never a Both wrapping
// an Interrupt (spec.md note 6). If both fail independently, the causes
// compose with Both.
func ZipPar[E, A, B any](a Effect[E, A], b Effect[E, B]) Effect[E, Pair[A, B]] {
	return Effect[E, Pair[A, B]]{run: func(ec *execContext) (Pair[A, B], *Cause[E]) {
		if ic := checkInterrupt[E](ec); ic != nil {
			return Pair[A, B]{}, ic
		}
		childStd, cancel := context.WithCancel(ec.std)
		defer cancel()
		childEc := ec.withStd(childStd)

		var av A
		var bv B
		var ca, cb *Cause[E]
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			av, ca = runEffect(a, childEc)
			if ca != nil {
				cancel()
			}
		}()
		go func() {
			defer wg.Done()
			bv, cb = runEffect(b, childEc)
			if cb != nil {
				cancel()
			}
		}()
		wg.Wait()

		switch {
		case ca == nil && cb == nil:
			return Pair[A, B]{First: av, Second: bv}, nil
		case ca != nil && cb != nil:
			if cb.IsInterrupt() && !ca.IsInterrupt() {
				return Pair[A, B]{}, ca
			}
			if ca.IsInterrupt() && !cb.IsInterrupt() {
				return Pair[A, B]{}, cb
			}
			return Pair[A, B]{}, BothCause(ca, cb)
		case ca != nil:
			return Pair[A, B]{}, ca
		default:
			return Pair[A, B]{}, cb
		}
	}}
}

// RaceResult is RaceAll's return value: which effect won and its value.
type RaceResult[A any] struct {
	Index int
	Value A
}

// Race returns whichever of a or b completes first, success or failure,
// and cancels the loser.
func Race[E, A any](a, b Effect[E, A]) Effect[E, A] {
	return Effect[E, A]{run: func(ec *execContext) (A, *Cause[E]) {
		r, c := runEffect(RaceAll[E, A]([]Effect[E, A]{a, b}), ec)
		return r.Value, c
	}}
}

// RaceFirst is RaceAll without the winner's index.
func RaceFirst[E, A any](xs []Effect[E, A]) Effect[E, A] {
	return Effect[E, A]{run: func(ec *execContext) (A, *Cause[E]) {
		r, c := runEffect(RaceAll[E, A](xs), ec)
		return r.Value, c
	}}
}

// RaceAll runs every effect in xs concurrently and returns the first to
// complete along with its index; the rest are cancelled. When more than
// one completes in the same instant, the winner is an arbitrary member of
// that done set (spec.md's documented tie-break).
func RaceAll[E, A any](xs []Effect[E, A]) Effect[E, RaceResult[A]] {
	return Effect[E, RaceResult[A]]{run: func(ec *execContext) (RaceResult[A], *Cause[E]) {
		if ic := checkInterrupt[E](ec); ic != nil {
			return RaceResult[A]{}, ic
		}
		childStd, cancel := context.WithCancel(ec.std)
		childEc := ec.withStd(childStd)

		type result struct {
			idx int
			v   A
			c   *Cause[E]
		}
		ch := make(chan result, len(xs))
		for i, e := range xs {
			i, e := i, e
			go func() {
				v, c := runEffect(e, childEc)
				ch <- result{idx: i, v: v, c: c}
			}()
		}

		first := <-ch
		cancel()
		for i := 1; i < len(xs); i++ {
			<-ch
		}
		return RaceResult[A]{Index: first.idx, Value: first.v}, first.c
	}}
}

// ForEachPar maps f over items with at most parallelism concurrent
// evaluations, preserving input order in the result slice. Any failure
// cancels the remaining, not-yet-started and in-flight, evaluations.
func ForEachPar[E, A, B any](items []A, f func(A) Effect[E, B], parallelism int) Effect[E, []B] {
	return Effect[E, []B]{run: func(ec *execContext) ([]B, *Cause[E]) {
		if ic := checkInterrupt[E](ec); ic != nil {
			return nil, ic
		}
		if parallelism < 1 {
			parallelism = 1
		}
		childStd, cancel := context.WithCancel(ec.std)
		defer cancel()
		childEc := ec.withStd(childStd)

		results := make([]B, len(items))
		sem := semaphore.NewWeighted(int64(parallelism))
		var wg sync.WaitGroup
		var once sync.Once
		var firstCause *Cause[E]

		for i, item := range items {
			i, item := i, item
			if err := sem.Acquire(childStd, 1); err != nil {
				once.Do(func() { firstCause = InterruptCause[E]() })
				break
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer sem.Release(1)
				v, c := runEffect(f(item), childEc)
				if c != nil {
					once.Do(func() { firstCause = c; cancel() })
					return
				}
				results[i] = v
			}()
		}
		wg.Wait()

		if firstCause != nil {
			return nil, firstCause
		}
		return results, nil
	}}
}

// MergeAll gathers xs with at most parallelism concurrent evaluations. With
// preserveOrder it behaves exactly like ForEachPar over identity effects;
// otherwise results are returned in completion order.
func MergeAll[E, A any](xs []Effect[E, A], parallelism int, preserveOrder bool) Effect[E, []A] {
	if preserveOrder {
		return ForEachPar[E, Effect[E, A], A](xs, func(e Effect[E, A]) Effect[E, A] { return e }, parallelism)
	}
	return Effect[E, []A]{run: func(ec *execContext) ([]A, *Cause[E]) {
		if ic := checkInterrupt[E](ec); ic != nil {
			return nil, ic
		}
		if parallelism < 1 {
			parallelism = 1
		}
		childStd, cancel := context.WithCancel(ec.std)
		defer cancel()
		childEc := ec.withStd(childStd)

		type result struct {
			v A
			c *Cause[E]
		}
		ch := make(chan result, len(xs))
		sem := semaphore.NewWeighted(int64(parallelism))
		var wg sync.WaitGroup
		for _, e := range xs {
			e := e
			if err := sem.Acquire(childStd, 1); err != nil {
				break
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer sem.Release(1)
				v, c := runEffect(e, childEc)
				ch <- result{v: v, c: c}
			}()
		}
		go func() { wg.Wait(); close(ch) }()

		out := make([]A, 0, len(xs))
		var firstCause *Cause[E]
		for r := range ch {
			if r.c != nil {
				if firstCause == nil {
					firstCause = r.c
					cancel()
				}
				continue
			}
			out = append(out, r.v)
		}
		if firstCause != nil {
			return nil, firstCause
		}
		return out, nil
	}}
}
