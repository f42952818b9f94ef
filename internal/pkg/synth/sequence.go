// Package synth fabricates diagnostic results for uploaded medical images.
//
// Nothing here inspects pixels. A seeded linear congruential sequence picks a
// primary condition and a handful of secondary conditions from a static
// per-modality catalog, assigns probabilities and image-space locations, and
// renders narrative text from templates. The heatmap compositor turns the
// located conditions into an SVG overlay encoded as a data URI.
//
// Every function in this package is total: malformed embedded data panics at
// load time, everything else returns a value.
package synth

import (
	"math"
	"math/rand"
	"time"
)

const (
	lcgMultiplier = 9301
	lcgIncrement  = 49297
	lcgModulus    = 233280
)

// Sequence yields bounded integers. Next returns a value in [min, max]
// inclusive; implementations swap the bounds when max < min.
type Sequence interface {
	Next(min, max int) int
}

// LCG is the seeded generator used for every synthesis:
//
//	seed = (seed*9301 + 49297) mod 233280
//	value = min + floor(seed/233280 * (max-min+1))
//
// An LCG is not safe for concurrent use.
type LCG struct {
	origin int64
	state  int64
}

// NewLCG returns a generator that reproduces the same sequence for the same
// seed. Negative seeds are accepted.
func NewLCG(seed int64) *LCG {
	state := seed % lcgModulus
	if state < 0 {
		state += lcgModulus
	}
	return &LCG{origin: seed, state: state}
}

// NewSeed derives a fresh seed from the wall clock plus a random salt, so two
// syntheses started in the same millisecond still diverge.
func NewSeed() int64 {
	return time.Now().UnixMilli() + rand.Int63n(lcgModulus)
}

// Seed reports the value the generator was created with.
func (g *LCG) Seed() int64 {
	return g.origin
}

func (g *LCG) Next(min, max int) int {
	if max < min {
		min, max = max, min
	}
	g.state = (g.state*lcgMultiplier + lcgIncrement) % lcgModulus
	span := float64(max - min + 1)
	return min + int(math.Floor(float64(g.state)/lcgModulus*span))
}
