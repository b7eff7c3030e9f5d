package cli

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"travel-assistant/internal/tui"
)

func newChatCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Open the interactive chat",
		Long: `Open the full-screen chat. Press enter to send (configurable with
submit_key in the config file), esc or ctrl+c to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := a.chat.StartSession(cmd.Context())
			if err != nil {
				return fmt.Errorf("start session: %w", err)
			}
			p := tea.NewProgram(tui.NewModel(a.chat, session, a.cfg.SubmitKey))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run chat: %w", err)
			}
			return nil
		},
	}
}
