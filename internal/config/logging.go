package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultLogFile = "travelchat.log"
	maxLogSizeMB   = 5
	maxLogBackups  = 3
	maxLogAgeDays  = 14
)

// SetupLogger writes JSON logs to a rotating file and, when echo is non-nil,
// text logs to echo as well. The returned cleanup closes the file.
func SetupLogger(logFile string, level slog.Level, echo io.Writer) (*slog.Logger, func() error) {
	opts := &slog.HandlerOptions{Level: level}

	path := strings.TrimSpace(logFile)
	if path == "" {
		path = DefaultLogPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		if echo == nil {
			echo = io.Discard
		}
		logger := slog.New(slog.NewTextHandler(echo, opts))
		logger.Error("failed to create log directory", "err", err, "file", path)
		return logger, func() error { return nil }
	}

	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxLogSizeMB,
		MaxBackups: maxLogBackups,
		MaxAge:     maxLogAgeDays,
		Compress:   true,
	}
	return SetupLoggerWithWriters(echo, file, level), file.Close
}

// SetupLoggerWithWriters fans out to a JSON handler on file and, if echo is
// non-nil, a text handler on echo.
func SetupLoggerWithWriters(echo, file io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	handlers := []slog.Handler{slog.NewJSONHandler(file, opts)}
	if echo != nil {
		handlers = append(handlers, slog.NewTextHandler(echo, opts))
	}
	return slog.New(slogmulti.Fanout(handlers...))
}

// NewLambdaLogger logs JSON to stdout, where the Lambda runtime collects it.
func NewLambdaLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func DefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(home) == "" {
		return filepath.Join(".travelchat", "logs", defaultLogFile)
	}
	return filepath.Join(home, ".travelchat", "logs", defaultLogFile)
}
