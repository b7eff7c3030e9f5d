package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"travel-assistant/internal/assistant"
	"travel-assistant/internal/domain"
)

// Responder produces the assistant reply for one user message.
type Responder interface {
	Reply(ctx context.Context, message string, prior domain.ConversationContext) (assistant.Reply, error)
}

// Orchestrator runs single conversation turns: user message in, exactly one
// assistant message out.
type Orchestrator struct {
	responder Responder
	delay     Delayer
	logger    *slog.Logger
	now       func() time.Time
}

func NewOrchestrator(r Responder, d Delayer, logger *slog.Logger) (*Orchestrator, error) {
	if r == nil {
		return nil, errors.New("usecase: responder must not be nil")
	}
	if d == nil {
		d = NoDelay{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{responder: r, delay: d, logger: logger, now: time.Now}, nil
}

// Respond appends a user message for text and the assistant's answer to
// messages. Blank text is a no-op: the inputs are returned unchanged and ok is
// false. A failing responder yields the fixed error reply and keeps convCtx.
func (o *Orchestrator) Respond(ctx context.Context, messages []domain.Message, convCtx domain.ConversationContext, text string) (out []domain.Message, next domain.ConversationContext, ok bool) {
	if strings.TrimSpace(text) == "" {
		return messages, convCtx, false
	}

	out = make([]domain.Message, 0, len(messages)+2)
	out = append(out, messages...)
	out = append(out, domain.Message{
		ID:        domain.NextMessageID(out),
		Text:      text,
		Sender:    domain.SenderUser,
		Timestamp: o.now(),
	})

	o.delay.Wait(ctx)

	reply, err := o.reply(ctx, text, convCtx)
	if err != nil {
		o.logger.Error("assistant reply failed", "err", err)
		out = append(out, domain.Message{
			ID:        domain.NextMessageID(out),
			Text:      assistant.ErrorReply,
			Sender:    domain.SenderAssistant,
			Timestamp: o.now(),
			Features:  []string{domain.FeatureError},
		})
		return out, convCtx, true
	}

	out = append(out, domain.Message{
		ID:        domain.NextMessageID(out),
		Text:      reply.Result.Text,
		Sender:    domain.SenderAssistant,
		Timestamp: o.now(),
		Features:  reply.Result.Features,
	})
	return out, reply.Context, true
}

func (o *Orchestrator) reply(ctx context.Context, text string, convCtx domain.ConversationContext) (reply assistant.Reply, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("usecase: responder panic: %v", r)
		}
	}()
	return o.responder.Reply(ctx, text, convCtx.Clone())
}

// Greeting returns the assistant message that opens a conversation.
func (o *Orchestrator) Greeting() domain.Message {
	return domain.Message{
		ID:        1,
		Text:      assistant.Greeting,
		Sender:    domain.SenderAssistant,
		Timestamp: o.now(),
		Features:  append([]string(nil), assistant.GreetingFeatures...),
	}
}
