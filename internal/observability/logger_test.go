package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/chrisuehlinger/boxrender/internal/config"
)

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LoggerConfig{Level: "debug", Format: "json", ServiceName: "test"}, zapcore.AddSync(&buf))

	logger.Debug("rendered", zap.Int("boxes", 3))
	require.NoError(t, logger.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, "test", entry["logger"])
	assert.Equal(t, "rendered", entry["msg"])
	assert.Equal(t, 3.0, entry["boxes"])
}

func TestNewLoggerConsoleColors(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.NewDefaultConfig().Logger
	logger := NewLogger(cfg, zapcore.AddSync(&buf))

	logger.Info("hello")
	logger.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "\x1b[32mINFO\x1b[0m")
	assert.Contains(t, out, "boxrender.")
	assert.Contains(t, out, "hello")
	assert.NotContains(t, out, "hidden", "debug is below the default level")
}

func TestLevelLabels(t *testing.T) {
	labels := levelLabels(config.ColorConfig{Debug: "nope", Info: "green", Warn: "yellow", Error: "red"})

	assert.Equal(t, "DEBUG", labels[zapcore.DebugLevel], "unknown color names stay plain")
	assert.Equal(t, "\x1b[32mINFO\x1b[0m", labels[zapcore.InfoLevel])
	assert.Equal(t, "\x1b[33mWARN\x1b[0m", labels[zapcore.WarnLevel])
	assert.Equal(t, "\x1b[31mFATAL\x1b[0m", labels[zapcore.FatalLevel], "levels above error use the error color")
}

func TestNewLoggerInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LoggerConfig{Level: "loud", Format: "json"}, zapcore.AddSync(&buf))

	logger.Debug("no")
	logger.Info("yes")

	out := buf.String()
	assert.NotContains(t, out, `"no"`)
	assert.Contains(t, out, `"yes"`)
}

func TestNewLoggerFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boxrender.log")
	var console bytes.Buffer
	logger := NewLogger(config.LoggerConfig{Level: "info", Format: "console", LogFile: path, MaxSize: 1}, zapcore.AddSync(&console))

	logger.Warn("to file", zap.String("doc", "a.html"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry), "file sink is always JSON")
	assert.Equal(t, "a.html", entry["doc"])
	assert.Contains(t, console.String(), "to file")
}

func TestGlobalLogger(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	assert.NotNil(t, GetLogger(), "uninitialized logger is a no-op, never nil")

	var first, second bytes.Buffer
	Initialize(config.LoggerConfig{Level: "info", Format: "json"}, zapcore.AddSync(&first))
	Initialize(config.LoggerConfig{Level: "info", Format: "json"}, zapcore.AddSync(&second))

	GetLogger().Info("once")
	Sync()
	assert.Contains(t, first.String(), "once")
	assert.Empty(t, second.String(), "only the first Initialize takes effect")
}
