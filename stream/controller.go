package stream

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matt-g-everett/ledease/events"
	"github.com/matt-g-everett/ledease/tween"
)

// Driver supplies frames and time to the Controller's eased properties.
type Driver interface {
	tween.Clock
	tween.Scheduler
}

// DefaultTint is the background tint before any command changes it.
var DefaultTint = map[string]float64{
	TintHue:    20,
	TintChroma: 0.3,
	TintLuma:   0.03,
}

const eventState = "state"

// Controller that manages animations. Brightness, background tint and the
// cross-fade between animations are eased on the Driver's frames.
type Controller struct {
	log        *slog.Logger
	animations []Animation
	current    int
	next       int

	brightness *tween.Value
	transition *tween.Value
	tint       *tween.Multiple
	background colorful.Color

	state events.Emitter[State]
}

// NewController creates a Controller cycling through animations in order.
func NewController(d Driver, cfg Config, animations []Animation, log *slog.Logger) (*Controller, error) {
	if len(animations) == 0 {
		return nil, errors.New("controller: at least one animation is required")
	}
	if log == nil {
		log = slog.Default()
	}

	c := &Controller{
		log:        log,
		animations: animations,
		next:       -1,
	}

	var err error
	c.brightness, err = tween.NewValue(d, d, cfg.Brightness)
	if err != nil {
		return nil, fmt.Errorf("brightness: %w", err)
	}

	transitionOpts := cfg.Transition
	transitionOpts.Value = tween.Float(0)
	c.transition, err = tween.NewValue(d, d, transitionOpts)
	if err != nil {
		return nil, fmt.Errorf("transition: %w", err)
	}

	channels := make(map[string]*tween.Value, len(DefaultTint))
	for name, initial := range DefaultTint {
		opts := cfg.Tint
		opts.Value = tween.Float(initial)
		channels[name], err = tween.NewValue(d, d, opts)
		if err != nil {
			return nil, fmt.Errorf("tint %s: %w", name, err)
		}
	}
	c.tint, err = tween.NewMultiple(d, channels)
	if err != nil {
		return nil, fmt.Errorf("tint: %w", err)
	}

	c.brightness.On(tween.EventStep, func(float64) { c.emitState() })
	c.transition.On(tween.EventStart, func(float64) { c.emitState() })
	c.transition.On(tween.EventStop, c.handleTransitionStop)
	c.tint.On(tween.EventStep, c.handleTint)

	c.handleTint(c.tint.Value())
	return c, nil
}

// Name implements Animation.
func (c *Controller) Name() string {
	return c.animations[c.current].Name()
}

// CalculateFrame renders the current animation, blended with the next one
// during a cross-fade, at the current brightness.
func (c *Controller) CalculateFrame(nowMs float64) *Frame {
	f := c.animations[c.current].CalculateFrame(nowMs)
	if c.next >= 0 {
		f2 := c.animations[c.next].CalculateFrame(nowMs)
		f = f.InterpolateFrame(f2, c.transition.Value())
	}
	f.Scale(c.brightness.Value())

	return f
}

// Next starts a cross-fade to the next animation. It returns false when a
// cross-fade is already in progress or there is nothing to fade to.
func (c *Controller) Next() bool {
	if c.next >= 0 || len(c.animations) < 2 {
		return false
	}

	c.next = (c.current + 1) % len(c.animations)
	c.log.Info("cross-fading", "from", c.animations[c.current].Name(), "to", c.animations[c.next].Name())

	if err := c.transition.To(1); err != nil {
		c.log.Error("start cross-fade", "err", err)
		c.next = -1
		return false
	}
	return true
}

// Apply carries out a command.
func (c *Controller) Apply(cmd Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if cmd.Brightness != nil {
		set := c.brightness.To
		if cmd.Reset {
			set = c.brightness.Reset
		}
		if err := set(*cmd.Brightness); err != nil {
			return fmt.Errorf("brightness: %w", err)
		}
	}

	if len(cmd.Tint) > 0 {
		set := c.tint.To
		if cmd.Reset {
			set = c.tint.Reset
		}
		if err := set(cmd.Tint); err != nil {
			return fmt.Errorf("tint: %w", err)
		}
	}

	if cmd.Next {
		c.Next()
	}
	return nil
}

// State returns a snapshot of the eased properties.
func (c *Controller) State() State {
	return State{
		Brightness: c.brightness.Value(),
		Tint:       c.tint.Value(),
		Transition: c.transition.Value(),
		Animation:  c.Name(),
		Running:    c.brightness.IsRunning() || c.transition.IsRunning() || c.tint.IsRunning(),
	}
}

// Background returns the current background colour.
func (c *Controller) Background() colorful.Color {
	return c.background
}

// OnState registers fn to receive a State whenever brightness or tint steps,
// or a cross-fade starts or ends.
func (c *Controller) OnState(fn func(State)) events.ListenerID {
	return c.state.On(eventState, fn)
}

// Destroy stops all easing and removes listeners.
func (c *Controller) Destroy() {
	c.brightness.Destroy()
	c.transition.Destroy()
	c.tint.Destroy()
	c.state.Clear()
}

func (c *Controller) handleTint(value map[string]float64) {
	c.background = colorful.Hcl(value[TintHue], value[TintChroma], value[TintLuma]).Clamped()
	for _, a := range c.animations {
		if t, ok := a.(Tintable); ok {
			t.SetBackground(c.background)
		}
	}
	c.emitState()
}

func (c *Controller) handleTransitionStop(float64) {
	if c.next < 0 || c.transition.Raw() != 1 {
		return
	}

	c.current = c.next
	c.next = -1
	c.log.Info("cross-fade complete", "animation", c.Name())

	if err := c.transition.Reset(0); err != nil {
		c.log.Error("reset transition", "err", err)
	}
	c.emitState()
}

func (c *Controller) emitState() {
	if c.state.Count(eventState) == 0 {
		return
	}
	c.state.Trigger(eventState, c.State())
}
