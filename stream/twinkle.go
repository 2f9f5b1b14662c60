package stream

import (
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matt-g-everett/ledease/util"
)

type particle struct {
	lut     []float64
	current int
}

// A Twinkle is an Animation that twinkles random particles over a background.
type Twinkle struct {
	numPixels    int
	numParticles int
	peak         colorful.Color
	backColour   colorful.Color

	rand      *rand.Rand
	luts      util.LutCache
	particles map[int]*particle
}

// NewTwinkle creates a Twinkle keeping numParticles scintillating at once.
func NewTwinkle(numPixels int, numParticles int, peak colorful.Color, backColour colorful.Color, r *rand.Rand) *Twinkle {
	t := new(Twinkle)
	t.numPixels = numPixels
	t.numParticles = numParticles
	t.peak = peak
	t.backColour = backColour
	t.rand = r
	t.particles = make(map[int]*particle)
	return t
}

// Name implements Animation.
func (t *Twinkle) Name() string {
	return "twinkle"
}

// SetBackground implements Tintable.
func (t *Twinkle) SetBackground(c colorful.Color) {
	t.backColour = c
}

func (t *Twinkle) spawn() {
	for len(t.particles) < t.numParticles && len(t.particles) < t.numPixels {
		i := t.rand.Intn(t.numPixels)
		if _, found := t.particles[i]; found {
			continue
		}
		length := (t.rand.Intn(18) + 6) * 2
		t.particles[i] = &particle{lut: t.luts.Get(length)}
	}
}

// CalculateFrame creates a new Frame instance.
func (t *Twinkle) CalculateFrame(nowMs float64) *Frame {
	t.spawn()

	f := NewFrame(t.numPixels)
	f.Fill(t.backColour)

	for i, p := range t.particles {
		gain := p.lut[p.current]
		f.pixels[i] = t.backColour.BlendRgb(t.peak, gain).Clamped()

		p.current++
		if p.current == len(p.lut) {
			delete(t.particles, i)
		}
	}

	return f
}
