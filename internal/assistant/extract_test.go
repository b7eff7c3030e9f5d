package assistant

import (
	"testing"

	"github.com/stretchr/testify/require"

	"travel-assistant/internal/domain"
)

func TestDetectDestination(t *testing.T) {
	cases := []struct {
		name    string
		message string
		want    string
	}{
		{name: "city", message: "I'm going to Tokyo in March", want: "tokyo"},
		{name: "multi word", message: "thinking about NEW YORK", want: "new york"},
		{name: "none", message: "hello there", want: ""},
		{name: "empty", message: "", want: ""},
		{name: "substring false positive", message: "I love parisian food", want: "paris"},
		{name: "name inside another word", message: "dinner with romero", want: "rome"},
		{name: "country adjective", message: "japanese food please", want: "japan"},
		{name: "short code inside word", message: "I play the ukulele", want: "uk"},
		{name: "gazetteer order beats position", message: "tokyo first, then paris", want: "paris"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, DetectDestination(tc.message))
		})
	}
}

func TestExtract_SetsDestinationAndBudget(t *testing.T) {
	got := Extract("Cheap flights to Bali?", domain.ConversationContext{})
	require.Equal(t, "bali", got.Destination)
	require.Equal(t, BudgetMentioned, got.Budget)
	require.Empty(t, got.Dates)
}

func TestExtract_BudgetTerms(t *testing.T) {
	for _, msg := range []string{"my budget is tight", "around $500", "somewhere cheap", "is it expensive"} {
		got := Extract(msg, domain.ConversationContext{})
		require.Equal(t, BudgetMentioned, got.Budget, msg)
	}
	require.Empty(t, Extract("how much money", domain.ConversationContext{}).Budget)
}

func TestExtract_KeepsPriorValues(t *testing.T) {
	prior := domain.ConversationContext{
		Destination: "tokyo",
		Budget:      BudgetMentioned,
		Dates:       "march",
		Preferences: []string{"food"},
	}
	got := Extract("what should I pack?", prior)
	require.Equal(t, prior, got)
}

func TestExtract_OverwritesDestination(t *testing.T) {
	got := Extract("actually let's do rome", domain.ConversationContext{Destination: "tokyo"})
	require.Equal(t, "rome", got.Destination)
}

func TestExtract_DoesNotAliasPrior(t *testing.T) {
	prior := domain.ConversationContext{Preferences: []string{"museums"}}
	got := Extract("paris", prior)
	got.Preferences[0] = "changed"
	require.Equal(t, "museums", prior.Preferences[0])
}

func TestGazetteer_ReturnsCopy(t *testing.T) {
	g := Gazetteer()
	require.Equal(t, "paris", g[0])
	g[0] = "nowhere"
	require.Equal(t, "paris", Gazetteer()[0])
}
