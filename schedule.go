// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import "time"

// Schedule[S, In, Out] is a stateful retry/repeat policy: given its
// current state and the most recent input (the failure for Retry, the
// success for Repeat), Step decides whether to continue, how long to
// delay, and what output to carry.
type Schedule[S, In, Out any] struct {
	initial S
	step    func(s S, in In) (cont bool, delay time.Duration, out Out, next S)
}

// Step advances the schedule by one input.
func (s Schedule[S, In, Out]) Step(state S, in In) (cont bool, delay time.Duration, out Out, next S) {
	return s.step(state, in)
}

// Initial returns the schedule's resettable starting state; Retry/Repeat
// call this on entry, so the same Schedule value may be reused across
// independent calls.
func (s Schedule[S, In, Out]) Initial() S { return s.initial }

// Recurs continues up to n times with zero delay, yielding the attempt
// index (0-based) as Out.
func Recurs[In any](n int) Schedule[int, In, int] {
	return Schedule[int, In, int]{
		initial: 0,
		step: func(attempt int, _ In) (bool, time.Duration, int, int) {
			if attempt >= n {
				return false, 0, attempt, attempt
			}
			return true, 0, attempt, attempt + 1
		},
	}
}

// Spaced repeats unboundedly with a constant delay, yielding the attempt
// index as Out.
func Spaced[In any](interval time.Duration) Schedule[int, In, int] {
	return Schedule[int, In, int]{
		initial: 0,
		step: func(attempt int, _ In) (bool, time.Duration, int, int) {
			return true, interval, attempt, attempt + 1
		},
	}
}

// Exponential delays base·2^attempt, optionally capped at maxDelay (pass
// 0 for uncapped), continuing unboundedly.
func Exponential[In any](base time.Duration, maxDelay time.Duration) Schedule[int, In, time.Duration] {
	return Schedule[int, In, time.Duration]{
		initial: 0,
		step: func(attempt int, _ In) (bool, time.Duration, time.Duration, int) {
			d := base
			for i := 0; i < attempt; i++ {
				d *= 2
				if maxDelay > 0 && d >= maxDelay {
					d = maxDelay
					break
				}
			}
			return true, d, d, attempt + 1
		},
	}
}

// Jittered decorates a schedule, multiplying its delay by a uniform
// random factor in [minFactor, maxFactor).
func Jittered[S, In, Out any](sched Schedule[S, In, Out], minFactor, maxFactor float64, rnd Random) Schedule[S, In, Out] {
	return Schedule[S, In, Out]{
		initial: sched.initial,
		step: func(s S, in In) (bool, time.Duration, Out, S) {
			cont, delay, out, next := sched.step(s, in)
			factor := minFactor + rnd.NextFloat()*(maxFactor-minFactor)
			return cont, time.Duration(float64(delay) * factor), out, next
		},
	}
}

func scheduleClock(ec *execContext) Clock {
	if c, err := GetService[Clock](ec.env); err == nil {
		return c
	}
	return LiveClock{}
}

// Retry re-evaluates e on Fail only, consulting sched; Die and Interrupt
// never retry. The schedule's state resets to Initial() on entry.
func Retry[E, A, S, Out any](e Effect[E, A], sched Schedule[S, E, Out]) Effect[E, A] {
	return Effect[E, A]{run: func(ec *execContext) (A, *Cause[E]) {
		state := sched.Initial()
		clk := scheduleClock(ec)
		for {
			a, c := runEffect(e, ec)
			if c == nil {
				return a, nil
			}
			fail := onlyFail(c)
			if fail == nil {
				return a, c
			}
			cont, delay, _, next := sched.Step(state, *fail)
			if !cont {
				return a, c
			}
			state = next
			if err := clk.Sleep(ec.std, delay); err != nil {
				return a, c
			}
			if ic := checkInterrupt[E](ec); ic != nil {
				return a, ic
			}
		}
	}}
}

// Repeat re-evaluates e on success only, consulting sched, and returns
// the schedule's final Out once it stops continuing.
func Repeat[E, A, S, Out any](e Effect[E, A], sched Schedule[S, A, Out]) Effect[E, Out] {
	return Effect[E, Out]{run: func(ec *execContext) (Out, *Cause[E]) {
		var zero Out
		state := sched.Initial()
		clk := scheduleClock(ec)
		for {
			a, c := runEffect(e, ec)
			if c != nil {
				return zero, c
			}
			cont, delay, out, next := sched.Step(state, a)
			if !cont {
				return out, nil
			}
			state = next
			if err := clk.Sleep(ec.std, delay); err != nil {
				return out, nil
			}
			if ic := checkInterrupt[E](ec); ic != nil {
				return zero, ic
			}
		}
	}}
}
