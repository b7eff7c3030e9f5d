package repository

import (
	"context"
	"errors"
	"strings"
	"sync"

	"travel-assistant/internal/domain"
)

// MemoryStore keeps sessions for the lifetime of the process. It applies the
// same turn-count check as Client.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]domain.Session)}
}

func (m *MemoryStore) CreateSession(_ context.Context, session domain.Session) error {
	if strings.TrimSpace(session.ID) == "" {
		return errors.New("repository: CreateSession: session ID is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[session.ID]; exists {
		return domain.ErrTurnConflict
	}
	m.sessions[session.ID] = cloneSession(session)
	return nil
}

func (m *MemoryStore) GetSession(_ context.Context, sessionID string) (domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return cloneSession(s), nil
}

// SaveTurn stores session as the new state. appended is implied by
// session.Messages and only used by the DynamoDB store.
func (m *MemoryStore) SaveTurn(_ context.Context, session domain.Session, _ []domain.Message, expectedTurns int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.sessions[session.ID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	if current.Turns != expectedTurns {
		return domain.ErrTurnConflict
	}
	m.sessions[session.ID] = cloneSession(session)
	return nil
}

func cloneSession(s domain.Session) domain.Session {
	out := s
	out.Messages = append([]domain.Message(nil), s.Messages...)
	out.Context = s.Context.Clone()
	return out
}
