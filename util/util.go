package util

import (
	"math/rand"

	"github.com/fogleman/ease"
)

// RandomBetween returns a random float in [min, max).
func RandomBetween(r *rand.Rand, min float64, max float64) float64 {
	return r.Float64()*(max-min) + min
}

// GenerateLut builds a gain table that rises from 0 to 1 and falls back again
// along ease.InOutQuad. The peak sits in the middle entry.
func GenerateLut(length int) []float64 {
	if length <= 0 {
		return nil
	}

	lut := make([]float64, length)
	half := (length - 1) / 2
	if half == 0 {
		for i := range lut {
			lut[i] = 1
		}
		return lut
	}

	increment := 1.0 / float64(half)
	for i, j := 0, length-1; i <= j; i, j = i+1, j-1 {
		gain := ease.InOutQuad(clamp01(float64(i) * increment))
		lut[i] = gain
		lut[j] = gain
	}
	return lut
}

// LutCache memoizes tables from GenerateLut by length.
type LutCache struct {
	luts map[int][]float64
}

// Get returns the table for length, building it on first use. Callers must
// not modify the returned slice.
func (c *LutCache) Get(length int) []float64 {
	if lut, ok := c.luts[length]; ok {
		return lut
	}
	if c.luts == nil {
		c.luts = make(map[int][]float64)
	}
	lut := GenerateLut(length)
	c.luts[length] = lut
	return lut
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
