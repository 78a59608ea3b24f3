package logger

import (
	"context"
	"testing"

	"github.com/athebyme/gomarket-stocksync/pkg/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved() (*ZapLogger, *observer.ObservedLogs) {
	level := zap.NewAtomicLevelAt(zapcore.DebugLevel)
	core, logs := observer.New(level)
	return &ZapLogger{logger: zap.New(core).Sugar()}, logs
}

func TestZapLogger_ContextFields(t *testing.T) {
	l, logs := newObserved()

	ctx := context.WithValue(context.Background(), RunIDKey, "run-1")
	ctx = context.WithValue(ctx, TargetKey, "ozon")

	l.InfoWithContext(ctx, "batch uploaded", interfaces.LogField{Key: "batch", Value: 2})

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "run-1", fields["run_id"])
	assert.Equal(t, "ozon", fields["target"])
	assert.EqualValues(t, 2, fields["batch"])
	assert.NotContains(t, fields, "request_id")
}

func TestZapLogger_WithFields(t *testing.T) {
	l, logs := newObserved()

	l.WithFields(interfaces.LogField{Key: "target", Value: "yandex-fbs"}).Warn("skipped")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "yandex-fbs", logs.All()[0].ContextMap()["target"])
}

func TestNewZapLogger_Level(t *testing.T) {
	l, err := NewZapLogger("warn", true)
	require.NoError(t, err)
	core := l.(*ZapLogger).logger.Desugar().Core()
	assert.False(t, core.Enabled(zapcore.InfoLevel))
	assert.True(t, core.Enabled(zapcore.WarnLevel))

	// неизвестный уровень
	l, err = NewZapLogger("loud", false)
	require.NoError(t, err)
	core = l.(*ZapLogger).logger.Desugar().Core()
	assert.False(t, core.Enabled(zapcore.DebugLevel))
	assert.True(t, core.Enabled(zapcore.InfoLevel))
}
