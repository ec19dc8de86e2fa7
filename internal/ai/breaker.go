package ai

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/suPer8Hu/car-advisor/internal/logging"
	"github.com/suPer8Hu/car-advisor/internal/metrics"
)

// ErrUnavailable is returned while the breaker is open.
var ErrUnavailable = errors.New("text generator temporarily unavailable")

type BreakerProvider struct {
	next Provider
	cb   *gobreaker.CircuitBreaker[string]
}

// WithBreaker opens after 5 consecutive failures and probes again after timeout.
// A cancelled request does not count as a generator failure.
func WithBreaker(name string, next Provider, timeout time.Duration) *BreakerProvider {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	metrics.GeneratorBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("generator", name).Str("from", from.String()).Str("to", to.String()).
				Msg("text generator breaker state change")
			metrics.GeneratorBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})
	return &BreakerProvider{next: next, cb: cb}
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

func (b *BreakerProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	out, err := b.cb.Execute(func() (string, error) {
		return b.next.Chat(ctx, messages)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", ErrUnavailable
	}
	return out, err
}

func (b *BreakerProvider) Close() error {
	if c, ok := b.next.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
