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

// Cancelling the Runtime's std context propagates to every forked fiber's
// own std, so an Async effect selecting on ctx.Done() observes it — but
// this is cooperative cancellation, not the interruptFlag/Cause.Interrupt
// path, which only fires through FiberHandle.Interrupt (see fiber_test.go's
// TestFiberInterruptMarksCancelled).
func TestRuntimeWithStdDerivesForkedFiberCancellation(t *testing.T) {
	std, cancel := context.WithCancel(context.Background())
	rt := effect.NewRuntime(effect.NewContext()).WithStd(std)

	woke := make(chan struct{})
	blocking := effect.Async[string, struct{}](func(ctx context.Context) struct{} {
		<-ctx.Done()
		close(woke)
		return struct{}{}
	})
	h := effect.Fork[string, struct{}](rt, blocking, "w")

	cancel()

	select {
	case <-woke:
	case <-time.After(time.Second):
		t.Fatal("forked fiber never observed the Runtime's std cancellation")
	}

	exit := h.Await_(context.Background())
	require.True(t, exit.IsSuccess())
}
