package tween

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEasings_Builtin(t *testing.T) {
	assert.Equal(t, []string{"easeOut", "linear"}, Easings())

	_, ok := LookupEasing("easeOut")
	assert.True(t, ok)
	_, ok = LookupEasing("linear")
	assert.True(t, ok)
	_, ok = LookupEasing("spline")
	assert.False(t, ok)
}

func TestEaseOut_Step(t *testing.T) {
	v := &Value{raw: 0, target: 100, force: 0.1}

	// One nominal frame covers force of the distance
	assert.InDelta(t, 10, EaseOut(v, 16), 1e-9)
	// Two frames' worth of time covers twice as much
	assert.InDelta(t, 20, EaseOut(v, 32), 1e-9)
	assert.Equal(t, 0.0, EaseOut(v, 0))
}

func TestEaseOut_Decreasing(t *testing.T) {
	v := &Value{raw: 100, target: 0, force: 0.5}
	assert.InDelta(t, 50, EaseOut(v, 16), 1e-9)
}

func TestEaseOut_Clamps(t *testing.T) {
	up := &Value{raw: 0, target: 10, force: 1}
	assert.Equal(t, 10.0, EaseOut(up, 1000))

	down := &Value{raw: 10, target: 0, force: 1}
	assert.Equal(t, 0.0, EaseOut(down, 1000))
}

func TestLinear_Step(t *testing.T) {
	up := &Value{raw: 0, target: 100, force: 0.5}
	assert.InDelta(t, 0.5, Linear(up, 16), 1e-9)

	down := &Value{raw: 100, target: 0, force: 0.5}
	assert.InDelta(t, 99.5, Linear(down, 16), 1e-9)
}

func TestLinear_Clamps(t *testing.T) {
	up := &Value{raw: 9.8, target: 10, force: 1}
	assert.Equal(t, 10.0, Linear(up, 16))

	down := &Value{raw: 0.2, target: 0, force: 1}
	assert.Equal(t, 0.0, Linear(down, 16))
}

func TestRegisterEasing(t *testing.T) {
	jump := func(v *Value, tdelta float64) float64 { return v.Target() }
	RegisterEasing("jump", jump)
	t.Cleanup(func() { RegisterEasing("jump", nil) })

	f := newManualFrames(16)
	v, err := NewValue(f, f, Options{Value: Float(0), Easing: "jump"})
	require.NoError(t, err)

	require.NoError(t, v.To(42))
	assert.Equal(t, 42.0, v.Raw())
	assert.False(t, v.IsRunning())
}

func TestRegisterEasing_NilRemoves(t *testing.T) {
	RegisterEasing("gone", Linear)
	RegisterEasing("gone", nil)

	_, ok := LookupEasing("gone")
	assert.False(t, ok)
}

func TestOptions_EasingFunc(t *testing.T) {
	half := func(v *Value, tdelta float64) float64 {
		return v.Raw() + (v.Target()-v.Raw())/2
	}

	f := newManualFrames(16)
	v, err := NewValue(f, f, Options{Value: Float(0), Easing: "unregistered", EasingFunc: half, Precision: 1})
	require.NoError(t, err)

	require.NoError(t, v.To(8))
	assert.Equal(t, 4.0, v.Raw())
	f.Frame()
	assert.Equal(t, 6.0, v.Raw())
}

func TestSystemClock_Monotonic(t *testing.T) {
	c := SystemClock()
	a := c.Now()
	b := c.Now()
	assert.GreaterOrEqual(t, b, a)
	assert.GreaterOrEqual(t, a, 0.0)
}

func TestClockFunc(t *testing.T) {
	c := ClockFunc(func() float64 { return 12.5 })
	assert.Equal(t, 12.5, c.Now())
}
