package tween

import (
	"fmt"
	"math"
)

// Options configures a Value. Zero Force, Precision and Easing select
// DefaultForce, DefaultPrecision and DefaultEasing.
type Options struct {
	// Force is the approach rate per nominal 16ms frame, in (0, 1].
	Force float64 `yaml:"force"`

	// Precision is the quantization step of the observed value and the
	// convergence threshold.
	Precision float64 `yaml:"precision"`

	// Easing names a registered easing function.
	Easing string `yaml:"easing"`

	// EasingFunc, when set, is used instead of Easing.
	EasingFunc EasingFunc `yaml:"-"`

	// Value, when set, is applied with To on construction.
	Value *float64 `yaml:"value"`

	// Listeners registered on construction.
	OnStart func(float64) `yaml:"-"`
	OnStep  func(float64) `yaml:"-"`
	OnStop  func(float64) `yaml:"-"`
}

// Float returns a pointer to f, for Options.Value.
func Float(f float64) *float64 {
	return &f
}

// withDefaults returns a copy of o with zero fields defaulted and validates
// the result.
func (o Options) withDefaults() (Options, EasingFunc, error) {
	if o.Force == 0 {
		o.Force = DefaultForce
	}
	if o.Precision == 0 {
		o.Precision = DefaultPrecision
	}
	if o.Easing == "" {
		o.Easing = DefaultEasing
	}

	if math.IsNaN(o.Force) || o.Force <= 0 || o.Force > 1 {
		return o, nil, &ConfigError{Field: "force", Reason: fmt.Sprintf("%v is outside (0, 1]", o.Force)}
	}
	if math.IsNaN(o.Precision) || math.IsInf(o.Precision, 0) || o.Precision <= 0 {
		return o, nil, &ConfigError{Field: "precision", Reason: fmt.Sprintf("%v is not a positive finite number", o.Precision)}
	}
	if o.Value != nil && !quantizable(*o.Value, o.Precision) {
		return o, nil, &ConfigError{Field: "value", Reason: ErrNonFinite.Error()}
	}

	easing := o.EasingFunc
	if easing == nil {
		var ok bool
		easing, ok = LookupEasing(o.Easing)
		if !ok {
			return o, nil, &ConfigError{Field: "easing", Reason: fmt.Sprintf("no easing registered as %q", o.Easing)}
		}
	}

	return o, easing, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// quantizable reports whether f and its quantization at precision are finite.
func quantizable(f, precision float64) bool {
	return isFinite(f) && isFinite(quantize(f, precision))
}

func quantize(f, precision float64) float64 {
	return math.Round(f/precision) * precision
}
