package domain

import (
	"errors"
	"time"
)

// Sender identifies who authored a transcript message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Feature tags attached to assistant messages.
const (
	FeatureWeather       = "weather"
	FeatureActivities    = "activities"
	FeatureCulture       = "culture"
	FeatureEtiquette     = "etiquette"
	FeatureBudget        = "budget"
	FeaturePlanning      = "planning"
	FeatureLanguage      = "language"
	FeatureItinerary     = "itinerary"
	FeatureDestination   = "destination"
	FeatureComprehensive = "comprehensive"
	FeatureGeneral       = "general"
	FeatureError         = "error"
)

var (
	ErrSessionNotFound = errors.New("domain: session not found")
	ErrTurnConflict    = errors.New("domain: session changed by a concurrent turn")
)

// Message is a single transcript entry. It is not modified after creation.
type Message struct {
	ID        int       `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
	Features  []string  `json:"features,omitempty"`
}

// ConversationContext is the trip context inferred from the conversation so far.
// An empty string means the field has not been set.
type ConversationContext struct {
	Destination string   `json:"destination"`
	Dates       string   `json:"dates"`
	Budget      string   `json:"budget"`
	Preferences []string `json:"preferences"`
	CurrentTrip string   `json:"currentTrip,omitempty"`
}

// Clone returns a copy that shares no slices with c.
func (c ConversationContext) Clone() ConversationContext {
	out := c
	if c.Preferences != nil {
		out.Preferences = append([]string(nil), c.Preferences...)
	}
	return out
}

// Session is one conversation: its transcript, trip context and turn count.
type Session struct {
	ID           string
	Messages     []Message
	Context      ConversationContext
	Turns        int
	LastActivity time.Time
}

// NextMessageID returns the id the next appended message should carry.
func NextMessageID(messages []Message) int {
	if len(messages) == 0 {
		return 1
	}
	return messages[len(messages)-1].ID + 1
}
