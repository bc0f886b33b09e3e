package logx

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFromFlags(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LevelFromFlags(true, false))
	assert.Equal(t, slog.LevelDebug, LevelFromFlags(true, true))
	assert.Equal(t, slog.LevelError, LevelFromFlags(false, true))
	assert.Equal(t, slog.LevelInfo, LevelFromFlags(false, false))
}

func TestNew(t *testing.T) {
	previous := slog.Default()
	defer slog.SetDefault(previous)

	var buf bytes.Buffer
	logger := New(&buf, slog.LevelWarn)

	logger.Info("hidden")
	slog.Warn("shown", "lesson", "triangle")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "lesson=triangle")
}
