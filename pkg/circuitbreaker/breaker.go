package circuitbreaker

import (
	"errors"
	"fmt"
	"time"

	"github.com/gymratia/gymratia-api/pkg/logger"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ErrOpen is returned without calling fn while the breaker is open
var ErrOpen = gobreaker.ErrOpenState

// Config holds circuit breaker configuration
type Config struct {
	Name        string
	MaxRequests uint32        // requests let through while half-open
	Interval    time.Duration // closed-state window for failure counts
	Timeout     time.Duration // open-state duration before probing again
	MinRequests uint32
	FailureRate float64
}

// DefaultConfig trips after 3+ requests with at least 60% failures
func DefaultConfig(name string) Config {
	return Config{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		MinRequests: 3,
		FailureRate: 0.6,
	}
}

// New creates a circuit breaker that logs state changes
func New(cfg Config) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRate
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
}

// Execute runs fn through cb and keeps its result type
func Execute[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	var zero T

	result, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("circuit breaker %q: %w", cb.Name(), err)
		}
		return zero, err
	}

	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker %q: unexpected result type %T", cb.Name(), result)
	}
	return typed, nil
}

// IsOpen reports whether cb currently rejects calls
func IsOpen(cb *gobreaker.CircuitBreaker) bool {
	return cb.State() == gobreaker.StateOpen
}
