package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Lambda holds the settings of the HTTP function. Only cmd/main.go reads the
// environment.
type Lambda struct {
	StateTable       string
	ParamPrefix      string
	LogLevel         slog.Level
	MaxMessageLength int
	ThinkingDelayMin time.Duration
	ThinkingDelayMax time.Duration
}

// LoadLambda reads the function configuration from environment variables.
func LoadLambda() (Lambda, error) {
	table := strings.TrimSpace(os.Getenv("STATE_TABLE"))
	if table == "" {
		return Lambda{}, errors.New("config: STATE_TABLE is required")
	}
	return Lambda{
		StateTable:       table,
		ParamPrefix:      strings.TrimSpace(os.Getenv("PARAM_PREFIX")),
		LogLevel:         ParseLogLevel(getEnv("LOG_LEVEL", "INFO")),
		MaxMessageLength: envInt("MAX_MESSAGE_LENGTH", 2000),
		// the web client animates its own typing indicator
		ThinkingDelayMin: time.Duration(envInt("THINKING_DELAY_MIN_MS", 0)) * time.Millisecond,
		ThinkingDelayMax: time.Duration(envInt("THINKING_DELAY_MAX_MS", 0)) * time.Millisecond,
	}, nil
}

// CLI is the travelchat configuration, read from an optional YAML file.
type CLI struct {
	LogFile          string        `yaml:"log_file"`
	LogLevel         string        `yaml:"log_level"`
	ThinkingDelayMin time.Duration `yaml:"thinking_delay_min"`
	ThinkingDelayMax time.Duration `yaml:"thinking_delay_max"`
	MaxMessageLength int           `yaml:"max_message_length"`
	// SubmitKey sends the input; the other of enter/shift+enter inserts a newline.
	SubmitKey string `yaml:"submit_key"`
}

// DefaultCLI mirrors the web client: a 1-3 second thinking pause and enter to send.
func DefaultCLI() CLI {
	return CLI{
		LogLevel:         "info",
		ThinkingDelayMin: time.Second,
		ThinkingDelayMax: 3 * time.Second,
		MaxMessageLength: 2000,
		SubmitKey:        "enter",
	}
}

// LoadCLI overlays the YAML file at path on DefaultCLI. A missing file is not
// an error when path is empty or the file does not exist.
func LoadCLI(path string) (CLI, error) {
	cfg := DefaultCLI()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return CLI{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return CLI{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return CLI{}, err
	}
	return cfg, nil
}

func (c CLI) Validate() error {
	switch c.SubmitKey {
	case "enter", "shift+enter":
	default:
		return fmt.Errorf("config: submit_key must be enter or shift+enter, got %q", c.SubmitKey)
	}
	if c.ThinkingDelayMin < 0 || c.ThinkingDelayMax < 0 {
		return errors.New("config: thinking delay must not be negative")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func ParseLogLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
