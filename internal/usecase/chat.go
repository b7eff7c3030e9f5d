package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"travel-assistant/internal/domain"
)

type SessionStore interface {
	CreateSession(ctx context.Context, session domain.Session) error
	GetSession(ctx context.Context, sessionID string) (domain.Session, error)
	SaveTurn(ctx context.Context, session domain.Session, appended []domain.Message, expectedTurns int) error
}

// ChatService is the caller-facing entry point: it loads a session, runs one
// turn through the Orchestrator and stores the result. At most one turn per
// session is in flight in this process.
type ChatService struct {
	store     SessionStore
	responder Responder
	settings  SettingsSource
	logger    *slog.Logger
	now       func() time.Time

	mu      sync.Mutex
	pending map[string]struct{}
}

type SessionOutput struct {
	SessionID string
	Messages  []domain.Message
	Context   domain.ConversationContext
}

type SendInput struct {
	SessionID string
	Text      string
}

type SendOutput struct {
	SessionID string
	// Accepted is false for blank text; Messages and Context are then empty.
	Accepted bool
	// Messages holds only the messages appended by this turn.
	Messages []domain.Message
	Context  domain.ConversationContext
}

func NewChatService(store SessionStore, r Responder, settings SettingsSource, logger *slog.Logger) (*ChatService, error) {
	if store == nil {
		return nil, errors.New("usecase: session store must not be nil")
	}
	if r == nil {
		return nil, errors.New("usecase: responder must not be nil")
	}
	if settings == nil {
		settings = StaticSettings{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatService{
		store:     store,
		responder: r,
		settings:  settings,
		logger:    logger,
		now:       time.Now,
		pending:   make(map[string]struct{}),
	}, nil
}

// StartSession creates a session seeded with the greeting.
func (s *ChatService) StartSession(ctx context.Context) (SessionOutput, error) {
	o := s.orchestrator(NoDelay{})
	session := domain.Session{
		ID:           newUUID(),
		Messages:     []domain.Message{o.Greeting()},
		LastActivity: s.now().UTC(),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return SessionOutput{}, newError(ErrorInternal, "store_write_error", err)
	}
	s.logger.Info("session started", "session_id", session.ID)
	return SessionOutput{SessionID: session.ID, Messages: session.Messages, Context: session.Context}, nil
}

func (s *ChatService) GetSession(ctx context.Context, sessionID string) (SessionOutput, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return SessionOutput{}, err
	}
	return SessionOutput{SessionID: session.ID, Messages: session.Messages, Context: session.Context}, nil
}

// Send runs one turn. Blank text is a no-op that never touches the settings or
// the store.
func (s *ChatService) Send(ctx context.Context, in SendInput) (SendOutput, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return SendOutput{}, newError(ErrorInvalidInput, "empty_session_id", nil)
	}
	if strings.TrimSpace(in.Text) == "" {
		return SendOutput{SessionID: sessionID}, nil
	}
	settings, err := s.settings.Settings(ctx)
	if err != nil {
		return SendOutput{}, newError(ErrorInternal, "settings_load_error", err)
	}
	if utf8.RuneCountInString(in.Text) > settings.MaxMessageLength {
		return SendOutput{}, newError(ErrorInvalidInput, "message_too_long", nil)
	}

	if !s.acquire(sessionID) {
		return SendOutput{}, newError(ErrorBusy, "turn_in_progress", nil)
	}
	defer s.release(sessionID)

	session, err := s.load(ctx, sessionID)
	if err != nil {
		return SendOutput{}, err
	}

	o := s.orchestrator(NewDelayer(settings.ThinkingDelayMin, settings.ThinkingDelayMax))
	messages, convCtx, ok := o.Respond(ctx, session.Messages, session.Context, in.Text)
	if !ok {
		return SendOutput{SessionID: sessionID, Context: session.Context}, nil
	}

	appended := messages[len(session.Messages):]
	expected := session.Turns
	session.Messages = messages
	session.Context = convCtx
	session.Turns++
	session.LastActivity = s.now().UTC()

	if err := s.store.SaveTurn(ctx, session, appended, expected); err != nil {
		if errors.Is(err, domain.ErrTurnConflict) {
			return SendOutput{}, newError(ErrorBusy, "turn_conflict", err)
		}
		return SendOutput{}, newError(ErrorInternal, "store_write_error", err)
	}

	last := appended[len(appended)-1]
	s.logger.Info("turn completed",
		"session_id", sessionID,
		"turn", session.Turns,
		"features", last.Features,
		"destination", convCtx.Destination,
	)
	return SendOutput{
		SessionID: sessionID,
		Accepted:  true,
		Messages:  appended,
		Context:   convCtx,
	}, nil
}

func (s *ChatService) load(ctx context.Context, sessionID string) (domain.Session, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return domain.Session{}, newError(ErrorInvalidInput, "empty_session_id", nil)
	}
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.Session{}, newError(ErrorNotFound, "session_not_found", err)
		}
		return domain.Session{}, newError(ErrorInternal, "store_read_error", err)
	}
	return session, nil
}

func (s *ChatService) orchestrator(d Delayer) *Orchestrator {
	return &Orchestrator{responder: s.responder, delay: d, logger: s.logger, now: s.now}
}

func (s *ChatService) acquire(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.pending[sessionID]; busy {
		return false
	}
	s.pending[sessionID] = struct{}{}
	return true
}

func (s *ChatService) release(sessionID string) {
	s.mu.Lock()
	delete(s.pending, sessionID)
	s.mu.Unlock()
}

var newUUID = func() string {
	return uuid.NewString()
}
