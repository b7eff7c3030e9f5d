package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"travel-assistant/internal/domain"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	s := testSession()
	s.Turns = 0

	require.NoError(t, m.CreateSession(ctx, s))
	require.ErrorIs(t, m.CreateSession(ctx, s), domain.ErrTurnConflict)

	got, err := m.GetSession(ctx, "abc")
	require.NoError(t, err)
	require.Equal(t, s, got)

	// returned sessions are copies
	got.Messages[0].Text = "changed"
	got.Context.Preferences[0] = "changed"
	again, err := m.GetSession(ctx, "abc")
	require.NoError(t, err)
	require.Equal(t, "Hi!", again.Messages[0].Text)
	require.Equal(t, "food", again.Context.Preferences[0])
}

func TestMemoryStore_SaveTurn(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	s := testSession()
	s.Turns = 0
	require.NoError(t, m.CreateSession(ctx, s))

	s.Turns = 1
	s.Context.Destination = "rome"
	require.NoError(t, m.SaveTurn(ctx, s, nil, 0))
	require.ErrorIs(t, m.SaveTurn(ctx, s, nil, 0), domain.ErrTurnConflict)

	got, err := m.GetSession(ctx, "abc")
	require.NoError(t, err)
	require.Equal(t, "rome", got.Context.Destination)
	require.Equal(t, 1, got.Turns)

	_, err = m.GetSession(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
	require.ErrorIs(t, m.SaveTurn(ctx, domain.Session{ID: "missing"}, nil, 0), domain.ErrSessionNotFound)
	require.Error(t, m.CreateSession(ctx, domain.Session{}))
}
