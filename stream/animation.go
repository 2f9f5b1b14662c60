package stream

import "github.com/lucasb-eyer/go-colorful"

// An Animation implements a way to render a specific animation.
type Animation interface {
	Name() string
	CalculateFrame(nowMs float64) *Frame
}

// A Tintable Animation draws over a background colour that can be changed
// while it runs.
type Tintable interface {
	SetBackground(c colorful.Color)
}
