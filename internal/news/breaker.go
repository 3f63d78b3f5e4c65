package news

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/nadzzz/newsvox/internal/config"
)

// Breaker wraps a Source in a circuit breaker so a failing backend is not
// hammered while the user keeps issuing commands.
type Breaker struct {
	source Source
	cb     *gobreaker.CircuitBreaker
}

var _ Source = (*Breaker)(nil)

// NewBreaker wraps src with a circuit breaker configured from cfg.
func NewBreaker(name string, src Source, cfg config.BreakerConfig) *Breaker {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 3
	}
	timeout := cfg.OpenTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Breaker{
		source: src,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    name,
			Timeout: timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				slog.Warn("news circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
			},
		}),
	}
}

// Fetch calls the wrapped source unless the circuit is open.
func (b *Breaker) Fetch(ctx context.Context, category, country string) ([]Article, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		return b.source.Fetch(ctx, category, country)
	})
	if err != nil {
		return nil, fmt.Errorf("news fetch: %w", err)
	}
	return res.([]Article), nil
}

// Search calls the wrapped source unless the circuit is open.
func (b *Breaker) Search(ctx context.Context, query, lang string) ([]Article, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		return b.source.Search(ctx, query, lang)
	})
	if err != nil {
		return nil, fmt.Errorf("news search: %w", err)
	}
	return res.([]Article), nil
}

// State reports the breaker state ("closed", "half-open", "open").
func (b *Breaker) State() string { return b.cb.State().String() }
