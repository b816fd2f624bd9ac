// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"code.hybscloud.com/effect"
)

func TestLiveClockSleepHonorsContextCancellation(t *testing.T) {
	clk := effect.LiveClock{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := clk.Sleep(ctx, time.Second)
	require.Error(t, err)
}

func TestLiveClockSleepZeroReturnsContextErr(t *testing.T) {
	clk := effect.LiveClock{}
	err := clk.Sleep(context.Background(), 0)
	require.NoError(t, err)
}

func TestTestClockAdvanceWakesOnlyDueWaiters(t *testing.T) {
	clk := effect.NewTestClock(time.Unix(0, 0))
	woke := make(chan string, 2)

	go func() {
		_ = clk.Sleep(context.Background(), 100*time.Millisecond)
		woke <- "short"
	}()
	go func() {
		_ = clk.Sleep(context.Background(), time.Hour)
		woke <- "long"
	}()

	time.Sleep(10 * time.Millisecond)
	clk.Advance(100 * time.Millisecond)

	select {
	case who := <-woke:
		require.Equal(t, "short", who)
	case <-time.After(time.Second):
		t.Fatal("advancing past the short waiter's deadline should wake it")
	}

	select {
	case <-woke:
		t.Fatal("the hour-long waiter must not wake from a 100ms advance")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestTestClockNowReflectsAdvance(t *testing.T) {
	start := time.Unix(1000, 0)
	clk := effect.NewTestClock(start)
	require.True(t, clk.Now().Equal(start))
	clk.Advance(5 * time.Second)
	require.True(t, clk.Now().Equal(start.Add(5*time.Second)))
}
