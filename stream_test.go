// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect_test

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"code.hybscloud.com/effect"
)

func runCollect[A any](t *testing.T, s effect.Stream[A]) []A {
	t.Helper()
	e := effect.RunPlainStream[A, []A](s, effect.FoldSink[A, []A](nil, func(acc []A, v A) []A {
		return append(acc, v)
	}))
	exit := effect.RunSync(e, effect.NewContext())
	require.True(t, exit.IsSuccess(), "stream run must succeed")
	v, _ := exit.Value()
	return v
}

func TestFromIterableEmitsInOrder(t *testing.T) {
	got := runCollect(t, effect.FromIterable([]int{1, 2, 3}))
	require.Equal(t, []int{1, 2, 3}, got)
}

func TestMapStreamSingleWorkerPreservesOrder(t *testing.T) {
	src := effect.FromIterable([]int{1, 2, 3, 4})
	doubled := effect.MapStream(src, func(n int) int { return n * 2 }, 1)
	require.Equal(t, []int{2, 4, 6, 8}, runCollect(t, doubled))
}

func TestMapStreamMultiWorkerPreservesSet(t *testing.T) {
	src := effect.FromIterable([]int{1, 2, 3, 4, 5})
	doubled := effect.MapStream(src, func(n int) int { return n * 2 }, 4)
	got := runCollect(t, doubled)
	sort.Ints(got)
	require.Equal(t, []int{2, 4, 6, 8, 10}, got)
}

func TestFilterStreamKeepsOnlyMatching(t *testing.T) {
	src := effect.FromIterable([]int{1, 2, 3, 4, 5, 6})
	even := effect.FilterStream(src, func(n int) bool { return n%2 == 0 }, 1)
	require.Equal(t, []int{2, 4, 6}, runCollect(t, even))
}

func TestTakeStreamLimitsCount(t *testing.T) {
	src := effect.FromIterable([]int{1, 2, 3, 4, 5})
	first3 := effect.TakeStream(src, 3)
	require.Equal(t, []int{1, 2, 3}, runCollect(t, first3))
}

func TestTakeStreamHandlesFewerThanN(t *testing.T) {
	src := effect.FromIterable([]int{1, 2})
	first5 := effect.TakeStream(src, 5)
	require.Equal(t, []int{1, 2}, runCollect(t, first5))
}

func TestBufferStreamPassesThroughAllElements(t *testing.T) {
	src := effect.FromIterable([]int{1, 2, 3})
	buffered := effect.BufferStream(src, 8)
	require.Equal(t, []int{1, 2, 3}, runCollect(t, buffered))
}

func TestThrottleStreamPassesThroughAllElements(t *testing.T) {
	src := effect.FromIterable([]int{1, 2, 3})
	throttled := effect.ThrottleStream(src, time.Millisecond)
	require.Equal(t, []int{1, 2, 3}, runCollect(t, throttled))
}

func TestTimeoutStreamPassesFastElements(t *testing.T) {
	src := effect.FromIterable([]int{1, 2, 3})
	timed := effect.TimeoutStream(src, 200*time.Millisecond)
	require.Equal(t, []int{1, 2, 3}, runCollect(t, timed))
}

func TestMergeStreamUnionsBothUpstreams(t *testing.T) {
	a := effect.FromIterable([]int{1, 2})
	b := effect.FromIterable([]int{3, 4})
	merged := effect.MergeStream(a, b)
	got := runCollect(t, merged)
	sort.Ints(got)
	require.Equal(t, []int{1, 2, 3, 4}, got)
}

func TestViaAcquireReleaseRunsAcquireOncePerWorkerAndReleasesAll(t *testing.T) {
	var released int32
	src := effect.FromIterable([]int{1, 2, 3})
	s := effect.ViaAcquireRelease[int, string, int](src,
		func() (string, error) { return "handle", nil },
		func(string) { released++ },
		func(h string, n int) int { return n * 10 },
		1,
	)
	got := runCollect(t, s)
	sort.Ints(got)
	require.Equal(t, []int{10, 20, 30}, got)
	require.EqualValues(t, 1, released)
}

func TestLiftStreamENeverWritesErrorQueue(t *testing.T) {
	src := effect.FromIterable([]string{"a", "b"})
	se := effect.LiftStreamE(src)
	e := effect.RunStream[string, []string](se, effect.FoldSink[string, []string](nil, func(acc []string, v string) []string {
		return append(acc, v)
	}))
	exit := effect.RunSync(e, effect.NewContext())
	require.True(t, exit.IsSuccess())
	v, _ := exit.Value()
	require.Equal(t, []string{"a", "b"}, v)
}
