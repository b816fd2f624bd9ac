// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"code.hybscloud.com/effect"
)

func TestFoldSinkAccumulatesValues(t *testing.T) {
	sum := effect.FoldSink[int, int](0, func(acc, v int) int { return acc + v })
	s := effect.LiftStreamE(effect.FromIterable([]int{1, 2, 3, 4}))
	e := effect.RunStream[int, int](s, sum)
	exit := effect.RunSync(e, effect.NewContext())
	require.True(t, exit.IsSuccess())
	v, _ := exit.Value()
	require.Equal(t, 10, v)
}

func TestFoldSinkSurfacesErrorQueueAsFailure(t *testing.T) {
	boom := errors.New("boom")
	customStream := effect.NewStreamE(func(out *effect.Queue[int], errs *effect.Queue[error]) effect.Effect[any, struct{}] {
		return effect.Sync[any, struct{}](func() struct{} {
			_ = errs.Send(context.Background(), boom)
			out.Close()
			errs.Close()
			return struct{}{}
		})
	})
	sum := effect.FoldSink[int, int](0, func(acc, v int) int { return acc + v })
	e := effect.RunStream[int, int](customStream, sum)
	exit := effect.RunSync(e, effect.NewContext())
	require.True(t, exit.IsFailure())
	c, _ := exit.Cause()
	require.Equal(t, []error{boom}, c.Failures())
}

func TestHeadSinkReturnsFirstValue(t *testing.T) {
	s := effect.LiftStreamE(effect.FromIterable([]int{7, 8, 9}))
	e := effect.RunStream[int, effect.Option[int]](s, effect.HeadSink[int]())
	exit := effect.RunSync(e, effect.NewContext())
	require.True(t, exit.IsSuccess())
	v, _ := exit.Value()
	require.True(t, v.IsSome())
	got, ok := v.Get()
	require.True(t, ok)
	require.Equal(t, 7, got)
}

func TestHeadSinkReturnsNoneOnEmptyStream(t *testing.T) {
	s := effect.LiftStreamE(effect.FromIterable([]int{}))
	e := effect.RunStream[int, effect.Option[int]](s, effect.HeadSink[int]())
	exit := effect.RunSync(e, effect.NewContext())
	require.True(t, exit.IsSuccess())
	v, _ := exit.Value()
	require.False(t, v.IsSome())
}

func TestDrainSinkDiscardsValuesAndSucceeds(t *testing.T) {
	s := effect.LiftStreamE(effect.FromIterable([]int{1, 2, 3}))
	e := effect.RunStream[int, struct{}](s, effect.DrainSink[int]())
	exit := effect.RunSync(e, effect.NewContext())
	require.True(t, exit.IsSuccess())
}

func TestRunPlainStreamLiftsStreamWithoutErrorChannel(t *testing.T) {
	s := effect.FromIterable([]string{"x", "y"})
	e := effect.RunPlainStream[string, []string](s, effect.FoldSink[string, []string](nil, func(acc []string, v string) []string {
		return append(acc, v)
	}))
	exit := effect.RunSync(e, effect.NewContext())
	require.True(t, exit.IsSuccess())
	v, _ := exit.Value()
	require.Equal(t, []string{"x", "y"}, v)
}
