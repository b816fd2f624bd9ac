// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"code.hybscloud.com/effect"
)

type dbHandle struct{ closed bool }
type cacheHandle struct{ closed bool }

func TestLayerThenBuildsSequentiallyAndTearsDown(t *testing.T) {
	db := &dbHandle{}
	layerDB := effect.NewLayer(
		func(parent *effect.Context) (*effect.Context, error) {
			return effect.AddService[*dbHandle](effect.NewContext(), db), nil
		},
		func(built *effect.Context) error { db.closed = true; return nil },
	)

	var sawDB bool
	layerCache := effect.NewLayer(
		func(parent *effect.Context) (*effect.Context, error) {
			sawDB = effect.HasService[*dbHandle](parent)
			return effect.AddService[*cacheHandle](effect.NewContext(), &cacheHandle{}), nil
		},
		nil,
	)

	combined := effect.Then(layerDB, layerCache)
	ctx, scope, err := effect.BuildLayer(effect.NewContext(), combined)
	require.NoError(t, err)
	require.True(t, sawDB, "the second layer in Then must see the first layer's contribution")
	require.True(t, effect.HasService[*dbHandle](ctx))
	require.True(t, effect.HasService[*cacheHandle](ctx))

	require.NoError(t, scope.Close(nil))
	require.True(t, db.closed)
}

func TestLayerParBuildsConcurrentlyAndMemoizesByIdentity(t *testing.T) {
	builds := 0
	shared := effect.NewLayer(func(parent *effect.Context) (*effect.Context, error) {
		builds++
		return effect.AddService[*dbHandle](effect.NewContext(), &dbHandle{}), nil
	}, nil)

	combined := effect.Par(shared, shared)
	_, _, err := effect.BuildLayer(effect.NewContext(), combined)
	require.NoError(t, err)
	require.Equal(t, 1, builds, "the same *Layer referenced twice acquires only once")
}

func TestLayerParReportsBothFailuresTogether(t *testing.T) {
	failA := effect.NewLayer(func(*effect.Context) (*effect.Context, error) {
		return nil, errors.New("a failed")
	}, nil)
	failB := effect.NewLayer(func(*effect.Context) (*effect.Context, error) {
		return nil, errors.New("b failed")
	}, nil)

	_, _, err := effect.BuildLayer(effect.NewContext(), effect.Par(failA, failB))
	require.Error(t, err)
	require.Contains(t, err.Error(), "a failed")
	require.Contains(t, err.Error(), "b failed")
}

func TestProvideTearsDownAfterEffectRuns(t *testing.T) {
	db := &dbHandle{}
	l := effect.NewLayer(
		func(*effect.Context) (*effect.Context, error) {
			return effect.AddService[*dbHandle](effect.NewContext(), db), nil
		},
		func(*effect.Context) error { db.closed = true; return nil },
	)

	body := effect.Sync[string, bool](func() bool { return !db.closed })
	exit := effect.RunSync(effect.Provide(body, l), effect.NewContext())
	v, ok := exit.Value()
	require.True(t, ok)
	require.True(t, v, "db must still be open while the provided effect runs")
	require.True(t, db.closed, "db must be torn down once Provide's effect returns")
}
