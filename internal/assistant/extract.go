package assistant

import (
	"strings"

	"travel-assistant/internal/domain"
)

// BudgetMentioned is recorded in the context when a message talks about money.
// No amount is extracted.
const BudgetMentioned = "mentioned"

// gazetteer is matched in order; the first entry contained in the message wins.
var gazetteer = []string{
	"paris",
	"tokyo",
	"london",
	"new york",
	"bali",
	"rome",
	"barcelona",
	"thailand",
	"japan",
	"italy",
	"spain",
	"france",
	"uk",
	"usa",
}

var budgetTerms = []string{"budget", "$", "cheap", "expensive"}

// Gazetteer returns the recognised destination names in match order.
func Gazetteer() []string {
	return append([]string(nil), gazetteer...)
}

// DetectDestination returns the first gazetteer entry that appears anywhere in
// message, or "" when none does. Matching is plain substring containment, so
// "parisian" yields "paris".
func DetectDestination(message string) string {
	return findDestination(strings.ToLower(message))
}

// Extract merges what message reveals about the trip into prior. Fields are
// only overwritten when something new was found; nothing is ever cleared.
func Extract(message string, prior domain.ConversationContext) domain.ConversationContext {
	lower := strings.ToLower(message)
	next := prior.Clone()

	if dest := findDestination(lower); dest != "" {
		next.Destination = dest
	}
	if containsAny(lower, budgetTerms) {
		next.Budget = BudgetMentioned
	}
	return next
}

func findDestination(lower string) string {
	for _, dest := range gazetteer {
		if strings.Contains(lower, dest) {
			return dest
		}
	}
	return ""
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
