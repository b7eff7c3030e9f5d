package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

const defaultMaxMessageLength = 2000

// Settings are the runtime knobs of a ChatService.
type Settings struct {
	ThinkingDelayMin time.Duration
	ThinkingDelayMax time.Duration
	MaxMessageLength int
}

func (s Settings) withDefaults() Settings {
	if s.MaxMessageLength <= 0 {
		s.MaxMessageLength = defaultMaxMessageLength
	}
	if s.ThinkingDelayMin < 0 {
		s.ThinkingDelayMin = 0
	}
	if s.ThinkingDelayMax < s.ThinkingDelayMin {
		s.ThinkingDelayMax = s.ThinkingDelayMin
	}
	return s
}

type SettingsSource interface {
	Settings(ctx context.Context) (Settings, error)
}

// StaticSettings serves fixed settings.
type StaticSettings Settings

func (s StaticSettings) Settings(context.Context) (Settings, error) {
	return Settings(s).withDefaults(), nil
}

type ParamGetter interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

type notFounder interface {
	NotFound() bool
}

// runtimeParams is the JSON document stored at <prefix>/config/runtime.
// Absent keys keep the defaults.
type runtimeParams struct {
	ThinkingDelayMinMS *int `json:"thinking_delay_min_ms"`
	ThinkingDelayMaxMS *int `json:"thinking_delay_max_ms"`
	MaxMessageLength   *int `json:"max_message_length"`
}

// ParamSettings overlays settings stored in the parameter store on defaults.
// A missing parameter means "defaults only". The parameter is read once; a
// failed read is retried on the next call.
type ParamSettings struct {
	params   ParamGetter
	name     string
	defaults Settings

	cacheMu     sync.RWMutex
	cacheLoaded bool
	cached      Settings
}

func NewParamSettings(p ParamGetter, paramPrefix string, defaults Settings) (*ParamSettings, error) {
	if p == nil {
		return nil, errors.New("usecase: param getter must not be nil")
	}
	paramPrefix = strings.TrimRight(strings.TrimSpace(paramPrefix), "/")
	if paramPrefix == "" {
		return nil, errors.New("usecase: parameter prefix must not be empty")
	}
	return &ParamSettings{
		params:   p,
		name:     paramPrefix + "/config/runtime",
		defaults: defaults,
	}, nil
}

func (s *ParamSettings) Settings(ctx context.Context) (Settings, error) {
	s.cacheMu.RLock()
	if s.cacheLoaded {
		defer s.cacheMu.RUnlock()
		return s.cached, nil
	}
	s.cacheMu.RUnlock()

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.cacheLoaded {
		return s.cached, nil
	}

	settings := s.defaults.withDefaults()
	raw, err := s.params.GetParameter(ctx, s.name)
	switch {
	case isNotFound(err):
	case err != nil:
		return Settings{}, fmt.Errorf("usecase: load runtime settings: %w", err)
	default:
		settings, err = parseRuntimeParams(raw, s.defaults)
		if err != nil {
			return Settings{}, err
		}
	}

	s.cached = settings
	s.cacheLoaded = true
	return settings, nil
}

func parseRuntimeParams(raw string, defaults Settings) (Settings, error) {
	var p runtimeParams
	dec := json.NewDecoder(bytes.NewBufferString(strings.TrimSpace(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return Settings{}, fmt.Errorf("usecase: decode runtime settings: %w", err)
	}

	out := defaults
	if p.ThinkingDelayMinMS != nil {
		out.ThinkingDelayMin = time.Duration(*p.ThinkingDelayMinMS) * time.Millisecond
	}
	if p.ThinkingDelayMaxMS != nil {
		out.ThinkingDelayMax = time.Duration(*p.ThinkingDelayMaxMS) * time.Millisecond
	}
	if p.MaxMessageLength != nil {
		out.MaxMessageLength = *p.MaxMessageLength
	}
	return out.withDefaults(), nil
}

func isNotFound(err error) bool {
	var nf notFounder
	return errors.As(err, &nf) && nf.NotFound()
}
