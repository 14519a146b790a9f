package goldenseed

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSeedLength is returned when a seed is not exactly SeedSize bytes.
	ErrInvalidSeedLength = errors.New("goldenseed: invalid seed length")

	// ErrInvalidProtocol is returned for unknown or malformed protocol definitions.
	ErrInvalidProtocol = errors.New("goldenseed: invalid protocol")

	// ErrInvalidLag is returned for a non-positive serial correlation lag.
	ErrInvalidLag = errors.New("goldenseed: invalid lag")

	// ErrPositionOverflow is returned when the position counter would leave
	// the uint64 range.
	ErrPositionOverflow = errors.New("goldenseed: position overflow")

	// ErrInsufficientData is returned when a buffer is shorter than the
	// minimum sample size of a statistical test.
	ErrInsufficientData = errors.New("goldenseed: insufficient data")
)

// ConfigurationError reports an invalid seed or protocol configuration.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Field)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// RangeError reports a position or skip argument outside the counter's domain.
type RangeError struct {
	Op       string
	Position uint64
	Delta    uint64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%v: %s from position %d by %d", ErrPositionOverflow, e.Op, e.Position, e.Delta)
}

func (e *RangeError) Unwrap() error { return ErrPositionOverflow }

// InsufficientDataError is the structured "not computable" outcome of a
// statistical test. It is distinct from a failing verdict.
type InsufficientDataError struct {
	Test string
	Have int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%v: %s needs at least %d bytes, have %d", ErrInsufficientData, e.Test, e.Need, e.Have)
}

func (e *InsufficientDataError) Unwrap() error { return ErrInsufficientData }

func insufficient(test string, have, need int) error {
	return &InsufficientDataError{Test: test, Have: have, Need: need}
}
