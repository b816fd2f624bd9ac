// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"code.hybscloud.com/effect"
)

func TestChannelSendReceive(t *testing.T) {
	ch := effect.NewChannel[int](1)
	ctx := context.Background()
	require.NoError(t, ch.Send(ctx, 42))
	v, ok := ch.Receive(ctx)
	require.True(t, ok)
	require.Equal(t, 42, v)
}

func TestChannelCloseYieldsOkFalseAfterDrain(t *testing.T) {
	ch := effect.NewChannel[int](2)
	ctx := context.Background()
	require.NoError(t, ch.Send(ctx, 1))
	ch.Close()

	v, ok := ch.Receive(ctx)
	require.True(t, ok)
	require.Equal(t, 1, v)

	_, ok = ch.Receive(ctx)
	require.False(t, ok)

	err := ch.Send(ctx, 2)
	require.Error(t, err)
	require.IsType(t, effect.ErrChannelClosed{}, err)
}
