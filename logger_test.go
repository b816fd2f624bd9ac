// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"code.hybscloud.com/effect"
)

func TestNopLoggerDiscardsEverything(t *testing.T) {
	l := effect.NopLogger()
	require.NotPanics(t, func() {
		l.Debug(context.Background(), "x")
		l.Info(context.Background(), "x")
		l.Warn(context.Background(), "x")
		l.Error(context.Background(), "x")
	})
}

func TestZapLoggerEmitsAtRequestedLevel(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := effect.NewZapLogger(zap.New(core))

	l.Info(context.Background(), "started", effect.Field{Key: "n", Value: 3})
	l.Error(context.Background(), "failed")

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, "started", entries[0].Message)
	require.Equal(t, zapcore.InfoLevel, entries[0].Level)
	require.Equal(t, "failed", entries[1].Message)
	require.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}

func TestZapLoggerRespectsMinimumLevel(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	l := effect.NewZapLogger(zap.New(core))

	l.Debug(context.Background(), "ignored")
	l.Info(context.Background(), "ignored too")
	l.Warn(context.Background(), "kept")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "kept", entries[0].Message)
}
