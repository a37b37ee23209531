package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// ErrBackendUnavailable is returned while the breaker is open.
var ErrBackendUnavailable = errors.New("store: backend unavailable")

// BreakerSettings tunes BreakerBackend.
type BreakerSettings struct {
	Name        string
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// MinRequests and FailureRatio decide when the breaker trips.
	MinRequests  uint32
	FailureRatio float64
	Logger       logrus.FieldLogger
}

// DefaultBreakerSettings returns the settings used by the server.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Name:         "registry-store",
		MaxRequests:  3,
		Interval:     10 * time.Second,
		Timeout:      30 * time.Second,
		MinRequests:  5,
		FailureRatio: 0.6,
	}
}

// BreakerBackend fails fast once the wrapped backend keeps failing.
type BreakerBackend struct {
	next Backend
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerBackend wraps next with a circuit breaker.
func NewBreakerBackend(next Backend, settings BreakerSettings) *BreakerBackend {
	logger := settings.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	minRequests := settings.MinRequests
	if minRequests == 0 {
		minRequests = 1
	}
	ratio := settings.FailureRatio

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= ratio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			entry := logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
			if to == gobreaker.StateOpen {
				entry.Warn("store: circuit breaker open")
				return
			}
			entry.Info("store: circuit breaker state change")
		},
		// Caller cancellations say nothing about backend health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
	})
	return &BreakerBackend{next: next, cb: cb}
}

// State reports the breaker state.
func (b *BreakerBackend) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerBackend) execute(fn func() (interface{}, error)) (interface{}, error) {
	out, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return out, err
}

func (b *BreakerBackend) Put(ctx context.Context, rec Record) error {
	_, err := b.execute(func() (interface{}, error) {
		return nil, b.next.Put(ctx, rec)
	})
	return err
}

type getResult struct {
	rec Record
	ok  bool
}

func (b *BreakerBackend) Get(ctx context.Context, id string) (Record, bool, error) {
	out, err := b.execute(func() (interface{}, error) {
		rec, ok, err := b.next.Get(ctx, id)
		return getResult{rec: rec, ok: ok}, err
	})
	if err != nil {
		return Record{}, false, err
	}
	res := out.(getResult)
	return res.rec, res.ok, nil
}

func (b *BreakerBackend) Delete(ctx context.Context, id string) error {
	_, err := b.execute(func() (interface{}, error) {
		return nil, b.next.Delete(ctx, id)
	})
	return err
}

func (b *BreakerBackend) DeleteIfExpired(ctx context.Context, id string, now time.Time) (bool, error) {
	out, err := b.execute(func() (interface{}, error) {
		return b.next.DeleteIfExpired(ctx, id, now)
	})
	if err != nil {
		return false, err
	}
	return out.(bool), nil
}

func (b *BreakerBackend) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	out, err := b.execute(func() (interface{}, error) {
		return b.next.DeleteExpired(ctx, now)
	})
	if err != nil {
		return 0, err
	}
	return out.(int), nil
}

// Close closes the wrapped backend when it supports closing.
func (b *BreakerBackend) Close() error {
	if closer, ok := b.next.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
