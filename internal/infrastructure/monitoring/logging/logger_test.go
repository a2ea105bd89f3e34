package logging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger(level zapcore.Level) (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewLoggerFromCore(core), logs
}

func TestNewLogger_Formats(t *testing.T) {
	for _, format := range []string{"json", "console", ""} {
		l, err := NewLogger(LogConfig{Level: LevelDebug, Format: format, OutputPaths: []string{"stdout"}})
		require.NoError(t, err, format)
		assert.NotNil(t, l)
	}
}

func TestNewLogger_BadOutputPath(t *testing.T) {
	l, err := NewLogger(LogConfig{OutputPaths: []string{"/nonexistent-dir/sub/log.txt"}})
	assert.Error(t, err)
	assert.Nil(t, l)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel(" error "))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"))
}

func TestZapLogger_FieldsAreTyped(t *testing.T) {
	l, logs := newObservedLogger(zapcore.DebugLevel)

	l.Info("graph normalized",
		String("source", "atom"),
		Int("nodes", 12),
		Int64("gen", 7),
		Uint64("sig", 42),
		Float64("threshold", 4.5),
		Bool("isolated", true),
		Strings("types", []string{"hbond", "ionic"}),
		Duration("elapsed", 3*time.Millisecond),
		Err(errors.New("boom")),
		Any("pairs", map[string]int{"cross": 2}),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	ctx := entry.ContextMap()
	assert.Equal(t, "graph normalized", entry.Message)
	assert.Equal(t, "atom", ctx["source"])
	assert.Equal(t, int64(12), ctx["nodes"])
	assert.Equal(t, uint64(42), ctx["sig"])
	assert.Equal(t, 4.5, ctx["threshold"])
	assert.Equal(t, true, ctx["isolated"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestZapLogger_LevelGate(t *testing.T) {
	l, logs := newObservedLogger(zapcore.WarnLevel)
	l.Debug("d")
	l.Info("i")
	l.Warn("w")
	l.Error("e")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[1].Level)
}

func TestZapLogger_WithAndNamed(t *testing.T) {
	l, logs := newObservedLogger(zapcore.DebugLevel)
	child := l.Named("viewer").With(String("view_id", "v1"))
	child.Info("synced")
	l.Info("root")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "viewer", logs.All()[0].LoggerName)
	assert.Equal(t, "v1", logs.All()[0].ContextMap()["view_id"])
	assert.Empty(t, logs.All()[1].ContextMap())
}

func TestErr_Nil(t *testing.T) {
	f := Err(nil)
	assert.Equal(t, "error", f.Key)
	assert.Equal(t, "<nil>", f.Value)
}

func TestNopLogger_AllMethodsNoOp(t *testing.T) {
	l := NewNopLogger()
	assert.NotPanics(t, func() {
		l.Debug("msg")
		l.Info("msg")
		l.Warn("msg")
		l.Error("msg")
		l.With(String("k", "v")).Named("x").Info("msg")
	})
}

func TestSetDefault(t *testing.T) {
	orig := Default()
	t.Cleanup(func() { SetDefault(orig) })

	l, _ := newObservedLogger(zapcore.InfoLevel)
	SetDefault(nil)
	assert.Equal(t, orig, Default())
	SetDefault(l)
	assert.Equal(t, l, Default())
}

func TestContextRoundTrip(t *testing.T) {
	l, logs := newObservedLogger(zapcore.InfoLevel)
	fallback := NewNopLogger()

	assert.Equal(t, fallback, FromContext(context.Background(), fallback))

	ctx := WithContext(context.Background(), l.With(String("request_id", "r-1")))
	FromContext(ctx, fallback).Info("scoped")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "r-1", logs.All()[0].ContextMap()["request_id"])
}

//Personal.AI order the ending
