// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"code.hybscloud.com/effect"
)

func TestEmptyChunkHasZeroLen(t *testing.T) {
	c := effect.EmptyChunk[int]()
	require.Equal(t, 0, c.Len())
	require.Empty(t, c.ToSlice())
}

func TestChunkOfCopiesInputSlice(t *testing.T) {
	src := []int{1, 2, 3}
	c := effect.ChunkOf(src...)
	src[0] = 99
	require.Equal(t, []int{1, 2, 3}, c.ToSlice())
}

func TestChunkAppendLeavesReceiverUnchanged(t *testing.T) {
	base := effect.ChunkOf(1, 2)
	appended := base.Append(3)
	require.Equal(t, 2, base.Len())
	require.Equal(t, 3, appended.Len())
	require.Equal(t, []int{1, 2, 3}, appended.ToSlice())
}

func TestChunkAtIndexesElements(t *testing.T) {
	c := effect.ChunkOf("a", "b", "c")
	require.Equal(t, "b", c.At(1))
}
