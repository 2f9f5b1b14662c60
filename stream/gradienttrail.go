package stream

import (
	"math"
)

// A GradientTrail is an Animation that cycles a gradient along an led strip.
type GradientTrail struct {
	numPixels   int
	gradient    GradientTable
	trailLength int
	pixelsPerMs float64
	chroma      float64
	luminance   float64

	current float64
	lastMs  float64
	started bool
}

// NewGradientTrail creates a GradientTrail that moves pixelsPerMs along the
// strip, repeating the gradient every trailLength pixels.
func NewGradientTrail(numPixels int, gradient GradientTable, trailLength int, pixelsPerMs float64) *GradientTrail {
	g := new(GradientTrail)
	g.numPixels = numPixels
	g.gradient = gradient
	g.trailLength = trailLength
	g.pixelsPerMs = pixelsPerMs
	g.chroma = 1.0
	g.luminance = 0.05
	return g
}

// Name implements Animation.
func (g *GradientTrail) Name() string {
	return "gradient-trail"
}

// CalculateFrame creates a new Frame instance.
func (g *GradientTrail) CalculateFrame(nowMs float64) *Frame {
	if g.started {
		g.current += g.pixelsPerMs * (nowMs - g.lastMs)
		g.current = math.Mod(g.current, float64(g.trailLength))
	}
	g.lastMs = nowMs
	g.started = true

	f := NewFrame(g.numPixels)
	trail := float64(g.trailLength)
	for i := 0; i < g.numPixels; i++ {
		t := math.Mod(float64(i+g.numPixels)-g.current, trail) / trail
		if t < 0 {
			t += 1
		}
		f.pixels[i] = g.gradient.GetColor(t, g.chroma, g.luminance)
	}

	return f
}
