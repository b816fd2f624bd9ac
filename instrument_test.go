// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"code.hybscloud.com/effect"
)

func TestInstrumentPassesThroughSuccessWithNoServicesRegistered(t *testing.T) {
	e := effect.Instrument[string, int]("noop", nil, effect.Succeed[string, int](5))
	exit := effect.RunSync(e, effect.NewContext())
	require.True(t, exit.IsSuccess())
	v, _ := exit.Value()
	require.Equal(t, 5, v)
}

func TestInstrumentPassesThroughFailure(t *testing.T) {
	e := effect.Instrument[string, int]("noop", nil, effect.Fail[string, int]("bad"))
	exit := effect.RunSync(e, effect.NewContext())
	require.True(t, exit.IsFailure())
	c, _ := exit.Cause()
	require.Equal(t, []string{"bad"}, c.Failures())
}

func TestInstrumentLogsStartAndEnd(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := effect.NewZapLogger(zap.New(core))
	env := effect.AddService[effect.Logger](effect.NewContext(), logger)

	e := effect.Instrument[string, int]("op", map[string]string{"k": "v"}, effect.Succeed[string, int](1))
	exit := effect.RunSync(e, env)
	require.True(t, exit.IsSuccess())

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, "effect start", entries[0].Message)
	require.Equal(t, "effect end", entries[1].Message)
}

func TestInstrumentRecordsHistogramSample(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := effect.NewPrometheusMetrics(reg)
	env := effect.AddService[effect.Metrics](effect.NewContext(), metrics)

	e := effect.Instrument[string, int]("fetch-user", nil, effect.Succeed[string, int](1))
	exit := effect.RunSync(e, env)
	require.True(t, exit.IsSuccess())

	families, err := reg.Gather()
	require.NoError(t, err)
	found := false
	for _, fam := range families {
		if fam.GetName() == "effect_duration_seconds_fetch_user" {
			found = true
		}
	}
	require.True(t, found, "instrument must sanitize the effect name into the histogram name")
}

func TestInstrumentLogsFailureWithCause(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := effect.NewZapLogger(zap.New(core))
	env := effect.AddService[effect.Logger](effect.NewContext(), logger)

	e := effect.Instrument[string, int]("op", nil, effect.Fail[string, int]("boom"))
	exit := effect.RunSync(e, env)
	require.True(t, exit.IsFailure())

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, "effect failed", entries[1].Message)
	require.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}
