// Package cli provides the travelchat command-line interface.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"travel-assistant/internal/assistant"
	"travel-assistant/internal/config"
	"travel-assistant/internal/repository"
	"travel-assistant/internal/usecase"
)

// Version is set at build time.
var Version = "0.1.0"

type app struct {
	configPath string
	logLevel   string
	noDelay    bool
	verbose    bool

	cfg     config.CLI
	logger  *slog.Logger
	cleanup func() error
	chat    *usecase.ChatService
}

// NewRootCommand builds the travelchat command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "travelchat",
		Short: "Chat with a keyword-driven travel assistant",
		Long: `travelchat is a terminal travel assistant. It recognises destinations and
topics (weather, culture, budget, language, planning) in what you type and
answers with travel advice, while keeping track of your trip context.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			return a.setup(cmd.ErrOrStderr(), cmd.Name() != "chat")
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.cleanup != nil {
				if err := a.cleanup(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
				}
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", defaultConfigPath(), "path to the YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&a.noDelay, "no-delay", false, "answer without the simulated thinking pause")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "also print logs to stderr")

	root.AddCommand(newChatCommand(a), newAskCommand(a))
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// setup loads the config, opens the log and builds the chat service. Logs go
// to stderr only when the command is not a full-screen UI.
func (a *app) setup(stderr io.Writer, echoAllowed bool) error {
	cfg, err := config.LoadCLI(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.noDelay {
		cfg.ThinkingDelayMin, cfg.ThinkingDelayMax = 0, 0
	}
	a.cfg = cfg

	var echo io.Writer
	if a.verbose && echoAllowed {
		echo = stderr
	}
	a.logger, a.cleanup = config.SetupLogger(cfg.LogFile, config.ParseLogLevel(cfg.LogLevel), echo)

	a.chat, err = usecase.NewChatService(
		repository.NewMemoryStore(),
		assistant.Engine{},
		usecase.StaticSettings{
			ThinkingDelayMin: cfg.ThinkingDelayMin,
			ThinkingDelayMax: cfg.ThinkingDelayMax,
			MaxMessageLength: cfg.MaxMessageLength,
		},
		a.logger,
	)
	if err != nil {
		return fmt.Errorf("create chat service: %w", err)
	}
	return nil
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".travelchat.yaml")
}
