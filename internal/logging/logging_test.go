package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, LevelWarn, cfg.Level)
	assert.Equal(t, FormatText, cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
}

func TestNewLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "scandiff.log")
	logger, err := New(Config{
		Level:  LevelInfo,
		Format: FormatJSON,
		Output: path,
	})
	require.NoError(t, err)

	logger.WithComponent("parse").Info("loaded scan", "hosts", 3)
	logger.Debug("suppressed below the configured level")

	data, err := os.ReadFile(path) //nolint:gosec // test-owned temp path
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "loaded scan", entry["msg"])
	assert.Equal(t, "parse", entry["component"])
	assert.Equal(t, float64(3), entry["hosts"])
}

func TestNewUnknownLevelDefaultsToWarn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := New(Config{Level: "loud", Output: path})
	require.NoError(t, err)

	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))
}

func TestWarnParse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := New(Config{
		Level:  LevelWarn,
		Format: FormatJSON,
		Output: path,
	})
	require.NoError(t, err)

	logger.WarnParse("port element has no state; skipping", "scans/a.xml")

	data, err := os.ReadFile(path) //nolint:gosec // test-owned temp path
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry))
	assert.Equal(t, "port element has no state; skipping", entry["msg"])
	assert.Equal(t, "parse", entry["component"])
	assert.Equal(t, "scans/a.xml", entry["file"])
}

func TestSetDefault(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := New(Config{Level: LevelDebug, Format: FormatJSON, Output: path})
	require.NoError(t, err)
	SetDefault(logger)

	Debug("visible at debug level")

	data, err := os.ReadFile(path) //nolint:gosec // test-owned temp path
	require.NoError(t, err)
	assert.Contains(t, string(data), "visible at debug level")
}
