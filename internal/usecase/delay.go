package usecase

import (
	"context"
	"math/rand/v2"
	"time"
)

// Delayer pauses a turn before the assistant answers. The pause is cosmetic.
type Delayer interface {
	Wait(ctx context.Context)
}

// NoDelay answers immediately.
type NoDelay struct{}

func (NoDelay) Wait(context.Context) {}

// RandomDelay sleeps for a uniformly random duration in [Min, Max).
// When Max <= Min it sleeps exactly Min.
type RandomDelay struct {
	Min time.Duration
	Max time.Duration
}

func (d RandomDelay) Wait(ctx context.Context) {
	wait := d.duration()
	if wait <= 0 {
		return
	}
	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func (d RandomDelay) duration() time.Duration {
	if d.Max <= d.Min {
		return d.Min
	}
	return d.Min + rand.N(d.Max-d.Min)
}

// NewDelayer returns NoDelay for a zero range and a RandomDelay otherwise.
func NewDelayer(minDelay, maxDelay time.Duration) Delayer {
	if minDelay <= 0 && maxDelay <= 0 {
		return NoDelay{}
	}
	return RandomDelay{Min: minDelay, Max: maxDelay}
}
