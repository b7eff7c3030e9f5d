package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type mockParams struct {
	vals  map[string]string
	err   error
	calls int
}

func (m *mockParams) GetParameter(_ context.Context, name string) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	v, ok := m.vals[name]
	if !ok {
		return "", fmt.Errorf("param not found: %s", name)
	}
	return v, nil
}

type transientParams struct {
	*mockParams
	failOnce bool
}

func (p *transientParams) GetParameter(ctx context.Context, name string) (string, error) {
	if p.failOnce {
		p.failOnce = false
		return "", errors.New("temporary ssm failure")
	}
	return p.mockParams.GetParameter(ctx, name)
}

func TestNewParamSettings_Validates(t *testing.T) {
	_, err := NewParamSettings(nil, "/prefix", Settings{})
	require.Error(t, err)

	_, err = NewParamSettings(&mockParams{}, " / ", Settings{})
	require.Error(t, err)
}

func TestParamSettings_OverlaysDefaults(t *testing.T) {
	p := &mockParams{vals: map[string]string{
		"/prefix/config/runtime": `{"thinking_delay_max_ms":1500,"max_message_length":500}`,
	}}
	s, err := NewParamSettings(p, "/prefix/", Settings{ThinkingDelayMin: time.Second})
	require.NoError(t, err)

	got, err := s.Settings(context.Background())
	require.NoError(t, err)
	require.Equal(t, Settings{
		ThinkingDelayMin: time.Second,
		ThinkingDelayMax: 1500 * time.Millisecond,
		MaxMessageLength: 500,
	}, got)

	_, err = s.Settings(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, p.calls)
}

func TestParamSettings_RejectsMalformed(t *testing.T) {
	for _, raw := range []string{`not-json`, `{"unknown":1}`} {
		p := &mockParams{vals: map[string]string{"/prefix/config/runtime": raw}}
		s, err := NewParamSettings(p, "/prefix", Settings{})
		require.NoError(t, err)
		_, err = s.Settings(context.Background())
		require.Error(t, err, raw)
	}
}

func TestParamSettings_RetriesAfterFailure(t *testing.T) {
	p := &transientParams{
		mockParams: &mockParams{vals: map[string]string{"/prefix/config/runtime": `{}`}},
		failOnce:   true,
	}
	s, err := NewParamSettings(p, "/prefix", Settings{})
	require.NoError(t, err)

	_, err = s.Settings(context.Background())
	require.Error(t, err)

	got, err := s.Settings(context.Background())
	require.NoError(t, err)
	require.Equal(t, defaultMaxMessageLength, got.MaxMessageLength)
}

func TestStaticSettings_Defaults(t *testing.T) {
	got, err := StaticSettings{ThinkingDelayMin: 2 * time.Second, ThinkingDelayMax: time.Second}.Settings(context.Background())
	require.NoError(t, err)
	require.Equal(t, defaultMaxMessageLength, got.MaxMessageLength)
	require.Equal(t, 2*time.Second, got.ThinkingDelayMax)
}

type missingParam struct{}

func (missingParam) Error() string  { return "missing" }
func (missingParam) NotFound() bool { return true }

func TestParamSettings_MissingParameterUsesDefaults(t *testing.T) {
	s, err := NewParamSettings(&mockParams{err: missingParam{}}, "/prefix", Settings{MaxMessageLength: 42})
	require.NoError(t, err)

	got, err := s.Settings(context.Background())
	require.NoError(t, err)
	require.Equal(t, 42, got.MaxMessageLength)
}
