package protocol

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy configures one exponential retry loop. The delay before retry n is
// InitialInterval * Multiplier^(n-1), capped at MaxInterval and randomized by
// +/- RandomizationFactor. No retry is scheduled once MaxElapsedTime has
// passed since the first attempt.
type Policy struct {
	InitialInterval     time.Duration
	Multiplier          float64
	MaxInterval         time.Duration
	MaxElapsedTime      time.Duration
	RandomizationFactor float64
}

// DefaultRateLimitPolicy is used to retry 429 responses.
func DefaultRateLimitPolicy() Policy {
	return Policy{
		InitialInterval:     2 * time.Second,
		Multiplier:          1.5,
		MaxInterval:         30 * time.Second,
		MaxElapsedTime:      time.Minute,
		RandomizationFactor: 0.5,
	}
}

// DefaultPendingPolicy is used to retry 202 responses, bgg answers 202 while
// it is still preparing a collection so the curve is slower.
func DefaultPendingPolicy() Policy {
	return Policy{
		InitialInterval:     5 * time.Second,
		Multiplier:          2,
		MaxInterval:         30 * time.Second,
		MaxElapsedTime:      90 * time.Second,
		RandomizationFactor: 0.5,
	}
}

// withDefaults fills every unset field from def. RandomizationFactor is only
// taken from def when the whole policy is unset, 0 is a valid jitter.
func (p Policy) withDefaults(def Policy) Policy {
	if p == (Policy{}) {
		return def
	}
	if p.InitialInterval <= 0 {
		p.InitialInterval = def.InitialInterval
	}
	if p.Multiplier < 1 {
		p.Multiplier = def.Multiplier
	}
	if p.MaxInterval <= 0 {
		p.MaxInterval = def.MaxInterval
	}
	if p.MaxElapsedTime <= 0 {
		p.MaxElapsedTime = def.MaxElapsedTime
	}
	if p.RandomizationFactor < 0 || p.RandomizationFactor > 1 {
		p.RandomizationFactor = def.RandomizationFactor
	}
	return p
}

// backOff returns a fresh schedule for a single call, it stops as soon as ctx
// is done.
func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.Multiplier = p.Multiplier
	b.MaxInterval = p.MaxInterval
	b.MaxElapsedTime = p.MaxElapsedTime
	b.RandomizationFactor = p.RandomizationFactor
	b.Reset()
	return backoff.WithContext(b, ctx)
}
