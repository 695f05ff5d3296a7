package domain

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidInput is wrapped by every error raised for an out-of-domain
	// parameter. It is always returned before any computation begins.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotSupported is wrapped when individually valid inputs form a
	// combination that no engine handles, e.g. Vega from the PDE engine.
	ErrNotSupported = errors.New("not supported")

	// ErrModelAssumption is wrapped when inputs violate an assumption of the
	// pricing model rather than a plain domain constraint.
	ErrModelAssumption = errors.New("model assumption violated")
)

// Invalidf returns an error wrapping ErrInvalidInput.
func Invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// NotSupportedf returns an error wrapping ErrNotSupported.
func NotSupportedf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotSupported, fmt.Sprintf(format, args...))
}

// ModelAssumptionf returns an error wrapping ErrModelAssumption.
func ModelAssumptionf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrModelAssumption, fmt.Sprintf(format, args...))
}

// CheckFinite rejects NaN and infinite values for the named parameter.
func CheckFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Invalidf("%s must be finite, got %v", name, v)
	}
	return nil
}
