package notify

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerMailer stops calling a failing provider until it has had time to recover.
type BreakerMailer struct {
	next Mailer
	cb   *gobreaker.CircuitBreaker
}

// BreakerSettings tunes the breaker. Zero values pick the defaults.
type BreakerSettings struct {
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
}

// WithBreaker wraps next in a circuit breaker named after the provider.
func WithBreaker(next Mailer, settings BreakerSettings, logger *zap.Logger) *BreakerMailer {
	if settings.ConsecutiveFailures == 0 {
		settings.ConsecutiveFailures = 3
	}
	if settings.OpenTimeout == 0 {
		settings.OpenTimeout = time.Minute
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "mail-" + next.Name(),
		MaxRequests: 1,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return &BreakerMailer{next: next, cb: cb}
}

func (m *BreakerMailer) Name() string { return m.next.Name() }

// Send fails fast with gobreaker.ErrOpenState while the breaker is open.
func (m *BreakerMailer) Send(ctx context.Context, msg Message) error {
	_, err := m.cb.Execute(func() (interface{}, error) {
		return nil, m.next.Send(ctx, msg)
	})
	return err
}

// State reports the breaker state.
func (m *BreakerMailer) State() gobreaker.State {
	return m.cb.State()
}
