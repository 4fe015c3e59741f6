package logger

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// resetLogger resets the global logger state for testing
func resetLogger() {
	baseLogger = nil
	initBaseLoggerOnce = sync.Once{}
}

// observeLogger replaces the global logger with one recording every entry.
func observeLogger(t *testing.T) *observer.ObservedLogs {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	resetLogger()
	initBaseLoggerOnce.Do(func() {})
	baseLogger = zap.New(core).Sugar()
	t.Cleanup(resetLogger)

	return logs
}

func TestInit(t *testing.T) {
	t.Run("successful initialization with valid levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			resetLogger()
			require.NoError(t, Init(level), level)
			assert.NotNil(t, baseLogger, level)
		}
	})

	t.Run("error with invalid level", func(t *testing.T) {
		resetLogger()
		err := Init("invalid")
		assert.Error(t, err)
		assert.Nil(t, baseLogger)
	})

	t.Run("init only once", func(t *testing.T) {
		resetLogger()

		require.NoError(t, Init("debug"))
		firstLogger := baseLogger

		require.NoError(t, Init("error"))
		assert.Same(t, firstLogger, baseLogger, "Init() should only initialize once")
	})
}

func TestDerive(t *testing.T) {
	t.Run("derived fields are attached to later entries", func(t *testing.T) {
		logs := observeLogger(t)

		ctx := Derive(t.Context(), "key", "k1")
		Info(ctx, "resolved", "source", "redis")

		entries := logs.All()
		require.Len(t, entries, 1)
		fields := entries[0].ContextMap()
		assert.Equal(t, "k1", fields["key"])
		assert.Equal(t, "redis", fields["source"])
	})

	t.Run("derivations accumulate", func(t *testing.T) {
		logs := observeLogger(t)

		ctx := Derive(Derive(t.Context(), "a", 1), "b", 2)
		Debug(ctx, "nested")

		fields := logs.All()[0].ContextMap()
		assert.EqualValues(t, 1, fields["a"])
		assert.EqualValues(t, 2, fields["b"])
	})

	t.Run("context without logger uses the base logger", func(t *testing.T) {
		logs := observeLogger(t)

		Warn(t.Context(), "plain")

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
	})
}

func TestTraceIntegration(t *testing.T) {
	t.Run("valid span context adds trace ids", func(t *testing.T) {
		logs := observeLogger(t)

		traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
		spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
		ctx := trace.ContextWithSpanContext(t.Context(), trace.NewSpanContext(trace.SpanContextConfig{
			TraceID: traceID,
			SpanID:  spanID,
		}))

		Error(ctx, "with trace")

		fields := logs.All()[0].ContextMap()
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", fields["trace_id"])
		assert.Equal(t, "00f067aa0ba902b7", fields["span_id"])
	})

	t.Run("invalid span context adds nothing", func(t *testing.T) {
		logs := observeLogger(t)

		ctx := trace.ContextWithSpanContext(t.Context(), trace.SpanContext{})
		Info(ctx, "no trace")

		assert.NotContains(t, logs.All()[0].ContextMap(), "trace_id")
	})
}

func TestSync(t *testing.T) {
	t.Run("sync after init", func(t *testing.T) {
		resetLogger()
		require.NoError(t, Init("info"))

		assert.NotPanics(t, func() {
			_ = Sync()
		})
	})

	t.Run("sync without init panics", func(t *testing.T) {
		resetLogger()

		assert.Panics(t, func() {
			_ = Sync()
		}, "Sync() should panic when logger is not initialized")
	})
}

func TestPanic(t *testing.T) {
	observeLogger(t)

	assert.Panics(t, func() {
		Panic(Derive(t.Context(), "context", "derived"), "panic message", "key", "value")
	}, "Panic() should panic")
}

func TestFatal(t *testing.T) {
	if os.Getenv("TEST_FATAL_SUBPROCESS") == "1" {
		_ = Init("debug")
		Fatal(context.Background(), "fatal error for test", "key", "value")
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal")
	cmd.Env = append(os.Environ(), "TEST_FATAL_SUBPROCESS=1")

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitErr, ok := err.(*exec.ExitError)
	require.True(t, ok, "the subprocess should exit with a non-zero status")
	assert.Equal(t, 1, exitErr.ExitCode(), "logger.Fatal should terminate with exit code 1")
	assert.Contains(t, stderr.String(), `"level":"fatal"`)
}
