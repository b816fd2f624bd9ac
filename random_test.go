// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"code.hybscloud.com/effect"
)

func TestSeededRandomIsReproducible(t *testing.T) {
	a := effect.NewSeededRandom(42)
	b := effect.NewSeededRandom(42)

	for i := 0; i < 10; i++ {
		require.Equal(t, a.NextFloat(), b.NextFloat())
		require.Equal(t, a.NextInt(100), b.NextInt(100))
		require.Equal(t, a.Choice(5), b.Choice(5))
	}
}

func TestSeededRandomNextIntRespectsBound(t *testing.T) {
	r := effect.NewSeededRandom(1)
	for i := 0; i < 50; i++ {
		v := r.NextInt(10)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 10)
	}
}

func TestSeededRandomNextIntZeroBoundReturnsZero(t *testing.T) {
	r := effect.NewSeededRandom(1)
	require.Equal(t, 0, r.NextInt(0))
}

func TestLiveRandomStaysWithinBound(t *testing.T) {
	r := effect.LiveRandom{}
	for i := 0; i < 50; i++ {
		v := r.NextInt(7)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 7)
	}
}
