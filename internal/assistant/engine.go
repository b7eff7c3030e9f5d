package assistant

import (
	"context"

	"travel-assistant/internal/domain"
)

// Reply is the outcome of one assistant turn.
type Reply struct {
	Result  Result
	Context domain.ConversationContext
}

// Engine answers messages with the keyword rules. The zero value is ready to use.
type Engine struct{}

// Reply extracts trip context from message and classifies it. It never fails.
func (Engine) Reply(_ context.Context, message string, prior domain.ConversationContext) (Reply, error) {
	return Reply{
		Result:  Classify(message, DetectDestination(message)),
		Context: Extract(message, prior),
	}, nil
}
