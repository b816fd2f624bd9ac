// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"code.hybscloud.com/effect"
)

func TestRecursStopsAfterNAttempts(t *testing.T) {
	sched := effect.Recurs[string](3)
	state := sched.Initial()
	attempts := 0
	for {
		cont, _, _, next := sched.Step(state, "x")
		if !cont {
			break
		}
		attempts++
		state = next
	}
	require.Equal(t, 3, attempts)
}

func TestExponentialDoublesAndCaps(t *testing.T) {
	sched := effect.Exponential[string](10*time.Millisecond, 35*time.Millisecond)
	state := sched.Initial()
	var delays []time.Duration
	for i := 0; i < 4; i++ {
		_, d, _, next := sched.Step(state, "x")
		delays = append(delays, d)
		state = next
	}
	require.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 35 * time.Millisecond, 35 * time.Millisecond}, delays)
}

func TestJitteredScalesDelayWithinBounds(t *testing.T) {
	base := effect.Spaced[string](100 * time.Millisecond)
	rnd := effect.NewSeededRandom(1)
	jittered := effect.Jittered[int, string, int](base, 0.5, 1.5, rnd)
	state := jittered.Initial()
	_, d, _, _ := jittered.Step(state, "x")
	require.GreaterOrEqual(t, d, 50*time.Millisecond)
	require.LessOrEqual(t, d, 150*time.Millisecond)
}

func TestRetryGivesUpAfterScheduleExhausted(t *testing.T) {
	attempts := 0
	e := effect.Sync[string, int](func() int {
		attempts++
		return 0
	})
	failing := effect.FlatMap(e, func(int) effect.Effect[string, int] {
		return effect.Fail[string, int]("nope")
	})
	retried := effect.Retry[string, int](failing, effect.Recurs[string](2))
	exit := effect.RunSync(retried, effect.NewContext())
	require.True(t, exit.IsFailure())
	require.Equal(t, 3, attempts, "one initial attempt plus two retries")
}

func TestRetrySucceedsWithoutExhaustingSchedule(t *testing.T) {
	attempts := 0
	e := effect.Sync[string, int](func() int {
		attempts++
		if attempts < 2 {
			return 0
		}
		return 99
	})
	flaky := effect.FlatMap(e, func(n int) effect.Effect[string, int] {
		if n == 0 {
			return effect.Fail[string, int]("not yet")
		}
		return effect.Succeed[string, int](n)
	})
	retried := effect.Retry[string, int](flaky, effect.Recurs[string](5))
	exit := effect.RunSync(retried, effect.NewContext())
	require.True(t, exit.IsSuccess())
	v, _ := exit.Value()
	require.Equal(t, 99, v)
}

func TestRepeatStopsAtScheduleLimitAndReturnsOut(t *testing.T) {
	runs := 0
	e := effect.Sync[string, int](func() int {
		runs++
		return runs
	})
	repeated := effect.Repeat[string, int](e, effect.Recurs[int](2))
	exit := effect.RunSync(repeated, effect.NewContext())
	require.True(t, exit.IsSuccess())
	require.Equal(t, 3, runs, "one initial run plus two repeats")
}

func TestRetryNeverRetriesOnDie(t *testing.T) {
	attempts := 0
	dying := effect.Sync[string, int](func() int {
		attempts++
		panic("boom")
	})
	retried := effect.Retry[string, int](dying, effect.Recurs[string](5))
	exit := effect.RunSync(retried, effect.NewContext())
	require.True(t, exit.IsFailure())
	c, _ := exit.Cause()
	require.True(t, c.IsDie())
	require.Equal(t, 1, attempts, "Die must not be retried")
}
