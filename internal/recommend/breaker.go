package recommend

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// BreakerConfig tunes BreakerSource.
type BreakerConfig struct {
	// Failures is the number of consecutive failures that opens the breaker.
	Failures uint32
	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration
}

// BreakerSource wraps a Source in a circuit breaker. While open, calls fail
// immediately with gobreaker.ErrOpenState instead of reaching the model.
type BreakerSource struct {
	next Source
	cb   *gobreaker.CircuitBreaker[[]map[string]any]
}

// NewBreakerSource wraps next.
func NewBreakerSource(next Source, cfg BreakerConfig, log zerolog.Logger) *BreakerSource {
	failures := cfg.Failures
	if failures == 0 {
		failures = 5
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        "recommendation-source",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
		// Caller cancellation says nothing about the model's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}

	return &BreakerSource{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[[]map[string]any](settings),
	}
}

// Recommend implements Source.
func (b *BreakerSource) Recommend(ctx context.Context, req Request) ([]map[string]any, error) {
	return b.cb.Execute(func() ([]map[string]any, error) {
		return b.next.Recommend(ctx, req)
	})
}

// State reports the breaker state ("closed", "half-open", "open").
func (b *BreakerSource) State() string {
	return b.cb.State().String()
}
