package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"travel-assistant/internal/domain"
	"travel-assistant/internal/usecase"
)

const correlationHeader = "X-Correlation-Id"

// ChatUseCase is the subset of usecase.ChatService the handler calls.
type ChatUseCase interface {
	StartSession(ctx context.Context) (usecase.SessionOutput, error)
	GetSession(ctx context.Context, sessionID string) (usecase.SessionOutput, error)
	Send(ctx context.Context, in usecase.SendInput) (usecase.SendOutput, error)
}

type Handler struct {
	chat   ChatUseCase
	logger *slog.Logger
}

type sendRequest struct {
	Text string `json:"text"`
}

type messageBody struct {
	ID        int       `json:"id"`
	Text      string    `json:"text"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
	Features  []string  `json:"features,omitempty"`
}

type contextBody struct {
	Destination string   `json:"destination"`
	Dates       string   `json:"dates"`
	Budget      string   `json:"budget"`
	Preferences []string `json:"preferences"`
	CurrentTrip string   `json:"currentTrip,omitempty"`
}

type sessionResponse struct {
	SessionID string        `json:"sessionId"`
	Messages  []messageBody `json:"messages"`
	Context   contextBody   `json:"context"`
}

type sendResponse struct {
	SessionID string        `json:"sessionId"`
	Accepted  bool          `json:"accepted"`
	Messages  []messageBody `json:"messages"`
	Context   contextBody   `json:"context"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func NewHandler(chat ChatUseCase, logger *slog.Logger) (*Handler, error) {
	if chat == nil {
		return nil, errors.New("handler: chat use case must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{chat: chat, logger: logger}, nil
}

// Handle routes API Gateway proxy requests:
//
//	POST /sessions                 start a session
//	GET  /sessions/{id}            read transcript and trip context
//	POST /sessions/{id}/messages   send one message
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	corrID := correlationID(req.Headers)
	logger := h.logger.With("correlation_id", corrID, "method", req.HTTPMethod, "path", req.Path)

	parts := strings.Split(strings.Trim(req.Path, "/"), "/")
	switch {
	case len(parts) == 1 && parts[0] == "sessions" && req.HTTPMethod == http.MethodPost:
		out, err := h.chat.StartSession(ctx)
		if err != nil {
			return h.errorResponse(logger, corrID, err), nil
		}
		return jsonResponse(http.StatusCreated, corrID, toSessionResponse(out)), nil

	case len(parts) == 2 && parts[0] == "sessions" && req.HTTPMethod == http.MethodGet:
		out, err := h.chat.GetSession(ctx, parts[1])
		if err != nil {
			return h.errorResponse(logger, corrID, err), nil
		}
		return jsonResponse(http.StatusOK, corrID, toSessionResponse(out)), nil

	case len(parts) == 3 && parts[0] == "sessions" && parts[2] == "messages" && req.HTTPMethod == http.MethodPost:
		var body sendRequest
		if err := json.Unmarshal([]byte(req.Body), &body); err != nil {
			logger.Warn("invalid request body", "err", err)
			return jsonResponse(http.StatusBadRequest, corrID, errorResponse{
				Error:   string(usecase.ErrorInvalidInput),
				Message: "request body must be JSON with a text field",
			}), nil
		}
		out, err := h.chat.Send(ctx, usecase.SendInput{SessionID: parts[1], Text: body.Text})
		if err != nil {
			return h.errorResponse(logger, corrID, err), nil
		}
		return jsonResponse(http.StatusOK, corrID, sendResponse{
			SessionID: out.SessionID,
			Accepted:  out.Accepted,
			Messages:  toMessageBodies(out.Messages),
			Context:   toContextBody(out.Context),
		}), nil
	}

	return jsonResponse(http.StatusNotFound, corrID, errorResponse{
		Error:   string(usecase.ErrorNotFound),
		Message: "route not found",
	}), nil
}

func (h *Handler) errorResponse(logger *slog.Logger, corrID string, err error) events.APIGatewayProxyResponse {
	var ucErr *usecase.Error
	if !errors.As(err, &ucErr) {
		logger.Error("unexpected error", "err", err)
		return jsonResponse(http.StatusInternalServerError, corrID, errorResponse{
			Error:   string(usecase.ErrorInternal),
			Message: "internal error",
		})
	}

	status := http.StatusInternalServerError
	switch ucErr.Code {
	case usecase.ErrorInvalidInput:
		status = http.StatusBadRequest
	case usecase.ErrorNotFound:
		status = http.StatusNotFound
	case usecase.ErrorBusy:
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "code", ucErr.Code, "reason", ucErr.Reason, "err", ucErr.Err)
	} else {
		logger.Info("request rejected", "code", ucErr.Code, "reason", ucErr.Reason)
	}
	return jsonResponse(status, corrID, errorResponse{Error: string(ucErr.Code), Message: ucErr.Reason})
}

func jsonResponse(status int, corrID string, body any) events.APIGatewayProxyResponse {
	raw, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		raw = []byte(`{"error":"INTERNAL_ERROR","message":"encode response"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":    "application/json",
			correlationHeader: corrID,
		},
		Body: string(raw),
	}
}

// correlationID returns the caller's correlation id (header names are matched
// case-insensitively) or a new one.
func correlationID(headers map[string]string) string {
	for k, v := range headers {
		if strings.EqualFold(k, correlationHeader) && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return uuid.NewString()
}

func toSessionResponse(out usecase.SessionOutput) sessionResponse {
	return sessionResponse{
		SessionID: out.SessionID,
		Messages:  toMessageBodies(out.Messages),
		Context:   toContextBody(out.Context),
	}
}

func toMessageBodies(msgs []domain.Message) []messageBody {
	out := make([]messageBody, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, messageBody{
			ID:        m.ID,
			Text:      m.Text,
			Sender:    string(m.Sender),
			Timestamp: m.Timestamp,
			Features:  m.Features,
		})
	}
	return out
}

func toContextBody(c domain.ConversationContext) contextBody {
	prefs := c.Preferences
	if prefs == nil {
		prefs = []string{}
	}
	return contextBody{
		Destination: c.Destination,
		Dates:       c.Dates,
		Budget:      c.Budget,
		Preferences: prefs,
		CurrentTrip: c.CurrentTrip,
	}
}
