// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/marketbasket/internal/logging"
	"github.com/tomtom215/marketbasket/internal/metrics"
	"github.com/tomtom215/marketbasket/internal/recommend"
)

var _ recommend.TransactionSource = (*DB)(nil)
var _ recommend.TransactionSource = (*BreakerSource)(nil)

// BreakerSettings tunes the circuit breaker around a transaction source.
type BreakerSettings struct {
	// MaxRequests is the number of trial loads allowed while half-open.
	MaxRequests uint32

	// Interval resets the failure counts while closed.
	Interval time.Duration

	// Timeout is how long the breaker stays open before a trial load.
	Timeout time.Duration

	// ConsecutiveFailures opens the breaker.
	ConsecutiveFailures uint32
}

// DefaultBreakerSettings returns settings suited to periodic retraining:
// three consecutive failed loads open the breaker for two minutes.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:         1,
		Interval:            10 * time.Minute,
		Timeout:             2 * time.Minute,
		ConsecutiveFailures: 3,
	}
}

// BreakerSource wraps a TransactionSource with circuit breaker protection.
// While open, LoadTransactions fails immediately with gobreaker.ErrOpenState.
type BreakerSource struct {
	source recommend.TransactionSource
	cb     *gobreaker.CircuitBreaker[[]recommend.Transaction]
	name   string
}

// NewBreakerSource wraps source with DefaultBreakerSettings.
func NewBreakerSource(name string, source recommend.TransactionSource) *BreakerSource {
	return NewBreakerSourceWithSettings(name, source, DefaultBreakerSettings())
}

// NewBreakerSourceWithSettings wraps source with the given settings.
func NewBreakerSourceWithSettings(name string, source recommend.TransactionSource, s BreakerSettings) *BreakerSource {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0) // closed

	cb := gobreaker.NewCircuitBreaker[[]recommend.Transaction](gobreaker.Settings{
		Name:        name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			shouldTrip := counts.ConsecutiveFailures >= s.ConsecutiveFailures
			if shouldTrip {
				logging.Warn().
					Str("breaker", name).
					Uint32("consecutive_failures", counts.ConsecutiveFailures).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},

		// A cancelled or timed-out training run says nothing about the source.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &BreakerSource{source: source, cb: cb, name: name}
}

// LoadTransactions loads from the wrapped source through the breaker.
func (b *BreakerSource) LoadTransactions(ctx context.Context) ([]recommend.Transaction, error) {
	txs, err := b.cb.Execute(func() ([]recommend.Transaction, error) {
		return b.source.LoadTransactions(ctx)
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			logging.Warn().Str("breaker", b.name).Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
			return nil, fmt.Errorf("transaction source %s unavailable: %w", b.name, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	return txs, nil
}

// State returns the breaker state as a string: closed, half-open or open.
func (b *BreakerSource) State() string {
	return stateToString(b.cb.State())
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
