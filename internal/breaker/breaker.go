// Package breaker wraps remote generation and synthesis calls in a circuit
// breaker so a failing API is reported immediately instead of hammered.
// Calls are never retried.
package breaker

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sony/gobreaker"
)

// Settings controls when the breaker opens
type Settings struct {
	Failures uint32        // consecutive failures before opening
	Timeout  time.Duration // how long the breaker stays open
}

// DefaultSettings returns the settings used when none are configured
func DefaultSettings() Settings {
	return Settings{
		Failures: 5,
		Timeout:  30 * time.Second,
	}
}

// New creates a named circuit breaker
func New(name string, s Settings) *gobreaker.CircuitBreaker {
	if s.Failures == 0 {
		s.Failures = DefaultSettings().Failures
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.Failures
		},
		// The caller giving up is not the remote side failing.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
}

// Do runs fn through cb. A nil breaker runs fn directly.
func Do[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	if cb == nil {
		return fn()
	}

	res, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}

// IsOpen reports whether err was produced by an open breaker
func IsOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
