package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetupLoggerWithWriters_FansOut(t *testing.T) {
	var echo, file bytes.Buffer
	logger := SetupLoggerWithWriters(&echo, &file, slog.LevelInfo)

	logger.Info("turn completed", "session_id", "s-1")
	logger.Debug("hidden")

	require.Contains(t, echo.String(), "turn completed")
	require.Contains(t, echo.String(), "session_id=s-1")
	require.NotContains(t, echo.String(), "hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(file.Bytes(), &entry))
	require.Equal(t, "turn completed", entry["msg"])
	require.Equal(t, "s-1", entry["session_id"])
}

func TestSetupLoggerWithWriters_FileOnly(t *testing.T) {
	var file bytes.Buffer
	logger := SetupLoggerWithWriters(nil, &file, slog.LevelDebug)
	logger.Debug("visible")
	require.Contains(t, file.String(), "visible")
}

func TestSetupLogger_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "chat.log")
	logger, cleanup := SetupLogger(path, slog.LevelInfo, nil)
	logger.Info("hello")
	require.NoError(t, cleanup())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"hello"`)
}
