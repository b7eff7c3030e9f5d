package assistant

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"travel-assistant/internal/domain"
)

// Category names the topical branch that produced a response.
type Category string

const (
	CategoryWeather     Category = "weather"
	CategoryCulture     Category = "culture"
	CategoryBudget      Category = "budget"
	CategoryLanguage    Category = "language"
	CategoryPlanning    Category = "planning"
	CategoryDestination Category = "destination"
	CategoryHelp        Category = "help"
	CategoryGeneral     Category = "general"
)

// Result is the canned reply chosen for a message.
type Result struct {
	Category Category
	Text     string
	Features []string
}

// Rule is one entry of the ordered classification table. Match receives the
// lower-cased message and the destination detected in it ("" if none).
type Rule struct {
	Category Category
	Features []string
	Match    func(lower, destination string) bool
	Render   func(destination string) string
}

var rules = []Rule{
	{
		Category: CategoryWeather,
		Features: []string{domain.FeatureWeather, domain.FeatureActivities},
		Match:    keywords("weather", "rain", "sunny", "temperature"),
		Render:   weatherReply,
	},
	{
		Category: CategoryCulture,
		Features: []string{domain.FeatureCulture, domain.FeatureEtiquette},
		Match:    keywords("culture", "custom", "etiquette", "tip"),
		Render:   cultureReply,
	},
	{
		Category: CategoryBudget,
		Features: []string{domain.FeatureBudget, domain.FeaturePlanning},
		Match:    keywords("budget", "cheap", "money", "cost"),
		Render:   budgetReply,
	},
	{
		Category: CategoryLanguage,
		Features: []string{domain.FeatureLanguage, domain.FeatureCulture},
		Match:    keywords("language", "translate", "speak", "communication"),
		Render:   languageReply,
	},
	{
		Category: CategoryPlanning,
		Features: []string{domain.FeaturePlanning, domain.FeatureItinerary},
		Match:    keywords("plan", "itinerary", "schedule", "trip"),
		Render:   planningReply,
	},
	{
		Category: CategoryDestination,
		Features: []string{domain.FeatureDestination, domain.FeaturePlanning, domain.FeatureComprehensive},
		Match:    func(_, destination string) bool { return destination != "" },
		Render:   destinationReply,
	},
	{
		Category: CategoryHelp,
		Features: []string{domain.FeatureComprehensive},
		Match:    keywords("help", "what can you do"),
		Render:   func(string) string { return capabilitySummary },
	},
	{
		Category: CategoryGeneral,
		Features: []string{domain.FeatureGeneral},
		Match:    func(string, string) bool { return true },
		Render:   func(string) string { return generalReply },
	},
}

// Rules returns the classification table in evaluation order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	for i, r := range rules {
		r.Features = append([]string(nil), r.Features...)
		out[i] = r
	}
	return out
}

// Classify returns the reply of the first rule matching message. destination
// is the destination detected in this message, not the remembered one.
// The last rule always matches, so Classify never fails.
func Classify(message, destination string) Result {
	lower := strings.ToLower(message)
	for _, r := range rules {
		if !r.Match(lower, destination) {
			continue
		}
		return Result{
			Category: r.Category,
			Text:     r.Render(destination),
			Features: append([]string(nil), r.Features...),
		}
	}
	// unreachable: the general rule matches everything
	return Result{Category: CategoryGeneral, Text: generalReply, Features: []string{domain.FeatureGeneral}}
}

func keywords(terms ...string) func(string, string) bool {
	return func(lower, _ string) bool {
		return containsAny(lower, terms)
	}
}

// capitalize upper-cases the first letter only: "new york" becomes "New york".
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
