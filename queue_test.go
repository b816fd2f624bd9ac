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

func TestQueueSendReceiveFIFO(t *testing.T) {
	q := effect.NewQueue[int](2)
	ctx := context.Background()
	require.NoError(t, q.Send(ctx, 1))
	require.NoError(t, q.Send(ctx, 2))

	v, err := q.Receive(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, v)
	v, err = q.Receive(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, v)
}

func TestQueueSendBlocksWhenFull(t *testing.T) {
	q := effect.NewQueue[int](1)
	ctx := context.Background()
	require.NoError(t, q.Send(ctx, 1))

	done := make(chan struct{})
	go func() {
		_ = q.Send(ctx, 2)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Send must block while the queue is full")
	case <-time.After(20 * time.Millisecond):
	}

	_, _ = q.Receive(ctx)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Send should unblock once room frees up")
	}
}

func TestQueueCloseWakesWaitersAndDrainsBuffered(t *testing.T) {
	q := effect.NewQueue[int](2)
	ctx := context.Background()
	require.NoError(t, q.Send(ctx, 1))
	q.Close()

	v, err := q.Receive(ctx)
	require.NoError(t, err, "a closed queue still drains buffered items")
	require.Equal(t, 1, v)

	_, err = q.Receive(ctx)
	require.Error(t, err)
	require.IsType(t, effect.ErrQueueClosed{}, err)

	err = q.Send(ctx, 2)
	require.Error(t, err)
	require.IsType(t, effect.ErrQueueClosed{}, err)
}

func TestSendEffectReceiveEffectRoundTrip(t *testing.T) {
	q := effect.NewQueue[string](1)
	send := effect.SendEffect[string, string](q, "hi", func(err error) string { return err.Error() })
	recv := effect.ReceiveEffect[string, string](q, func(err error) string { return err.Error() })

	exit := effect.RunSync(send, effect.NewContext())
	require.True(t, exit.IsSuccess())

	exit2 := effect.RunSync(recv, effect.NewContext())
	v, ok := exit2.Value()
	require.True(t, ok)
	require.Equal(t, "hi", v)
}
