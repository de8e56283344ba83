// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package recommend

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers classify failures with errors.Is.
var (
	// ErrConfiguration marks an out-of-range parameter such as minSupport
	// outside (0, 1] or a negative threshold.
	ErrConfiguration = errors.New("configuration error")

	// ErrValidation marks malformed input data: an empty transaction or a
	// duplicated item.
	ErrValidation = errors.New("validation error")

	// ErrInvariantViolation marks an internal inconsistency such as a zero
	// antecedent support. It indicates a bug, never bad input.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrModelNotReady is returned by queries issued before the first
	// successful training run.
	ErrModelNotReady = errors.New("model not trained")

	// ErrTrainingInProgress is returned when a training run is requested while
	// another is still running.
	ErrTrainingInProgress = errors.New("training already in progress")

	// ErrInsufficientData is returned when the source holds fewer transactions
	// than the configured training minimum.
	ErrInsufficientData = errors.New("insufficient training data")
)

// ConfigurationError describes a rejected parameter.
type ConfigurationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s=%v: %s", ErrConfiguration, e.Field, e.Value, e.Reason)
}

// Unwrap returns ErrConfiguration.
func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// ValidationError describes rejected input data.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Field, e.Reason)
}

// Unwrap returns ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// InvariantError wraps ErrInvariantViolation with detail.
func InvariantError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariantViolation, fmt.Sprintf(format, args...))
}

// IsUserError reports whether err is caused by caller input rather than by
// the system, i.e. a configuration or validation error.
func IsUserError(err error) bool {
	return errors.Is(err, ErrConfiguration) || errors.Is(err, ErrValidation)
}
