package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"travel-assistant/internal/assistant"
	"travel-assistant/internal/domain"
	"travel-assistant/internal/usecase"
)

type transcript struct {
	SessionID string                     `json:"sessionId"`
	Messages  []domain.Message           `json:"messages"`
	Context   domain.ConversationContext `json:"context"`
}

func newAskCommand(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "ask <message>...",
		Short: "Send one or more messages and print the conversation",
		Long: fmt.Sprintf(`Send each argument as a chat message, in order, within one conversation
and print the resulting transcript and trip context.

Recognised destinations: %s.

Examples:
  travelchat ask "I'm going to Tokyo in March" "What's the weather like?"
  travelchat ask --no-delay --json help`, strings.Join(assistant.Gazetteer(), ", ")),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			session, err := a.chat.StartSession(ctx)
			if err != nil {
				return fmt.Errorf("start session: %w", err)
			}

			t := transcript{SessionID: session.SessionID, Messages: session.Messages, Context: session.Context}
			for _, text := range args {
				out, err := a.chat.Send(ctx, usecase.SendInput{SessionID: session.SessionID, Text: text})
				if err != nil {
					return fmt.Errorf("send %q: %w", text, err)
				}
				if !out.Accepted {
					continue
				}
				t.Messages = append(t.Messages, out.Messages...)
				t.Context = out.Context
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(t)
			}
			printTranscript(cmd.OutOrStdout(), t)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the transcript as JSON")
	return cmd
}

func printTranscript(w io.Writer, t transcript) {
	for _, m := range t.Messages {
		who := "You"
		if m.Sender == domain.SenderAssistant {
			who = "TravelAI"
		}
		fmt.Fprintf(w, "%s [%s]\n%s\n", who, m.Timestamp.Format("15:04"), m.Text)
		if len(m.Features) > 0 {
			fmt.Fprintf(w, "  features: %s\n", strings.Join(m.Features, ", "))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "Trip context:")
	fmt.Fprintf(w, "  destination: %s\n", orNone(t.Context.Destination, "No destination set"))
	fmt.Fprintf(w, "  dates:       %s\n", orNone(t.Context.Dates, "Dates not specified"))
	fmt.Fprintf(w, "  budget:      %s\n", orNone(t.Context.Budget, "Budget not set"))
}

func orNone(v, placeholder string) string {
	if v == "" {
		return placeholder
	}
	return v
}
