package tween

import (
	"errors"
	"fmt"
)

var (
	// ErrNonFinite is returned when a target is NaN, infinite, or too large to
	// quantize at the Value's precision.
	ErrNonFinite = errors.New("tween: value must be finite")

	// ErrDestroyed is returned by operations on a destroyed Value or Multiple.
	ErrDestroyed = errors.New("tween: use after destroy")
)

// ConfigError reports an invalid option passed to NewValue or NewMultiple.
type ConfigError struct {
	// Field names the offending option.
	Field string

	// Reason describes what is wrong with it.
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("tween: invalid %s: %s", e.Field, e.Reason)
}

// UnknownKeyError is returned by Multiple when a mapping names a value the
// Multiple was not constructed with.
type UnknownKeyError struct {
	Key string
}

// Error implements the error interface.
func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("tween: unknown key %q", e.Key)
}

// IsConfigError returns true if err is, or wraps, a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
