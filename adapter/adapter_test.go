package adapter

import (
	"testing"

	"github.com/go-kit/log/level"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testLogLevels(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		core, logs = observer.New(zapcore.DebugLevel)
		logger     = Logger{zap.New(core)}
	)

	require.NoError(logger.Log(level.Key(), level.DebugValue(), "msg", "d"))
	require.NoError(logger.Log(level.Key(), level.WarnValue(), "msg", "w"))
	require.NoError(logger.Log(level.Key(), level.ErrorValue(), "msg", "e"))
	require.NoError(logger.Log("msg", "plain"))

	entries := logs.All()
	require.Len(entries, 4)
	assert.Equal(zapcore.DebugLevel, entries[0].Level)
	assert.Equal(zapcore.WarnLevel, entries[1].Level)
	assert.Equal(zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(zapcore.InfoLevel, entries[3].Level)
}

func testLogFields(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		core, logs = observer.New(zapcore.DebugLevel)
		logger     = Logger{zap.New(core)}
	)

	require.NoError(logger.Log("pid", 42, "msg", "stale holder"))

	entries := logs.All()
	require.Len(entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(int64(42), fields["pid"])
	assert.Equal("stale holder", fields["msg"])
}

func TestLogger(t *testing.T) {
	t.Run("Levels", testLogLevels)
	t.Run("Fields", testLogFields)
}
