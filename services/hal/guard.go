package hal

import (
	"math"
	"sync"
)

// Probe is a single raw sensor acquisition. Implementations return the
// measured value, or an error / NaN when the acquisition failed.
type Probe func() (float64, error)

// Guarded wraps a raw probe with the consecutive-failure policy: an
// isolated failure returns the last accepted value; once failures reach
// the threshold the reading degrades to NaN and Valid flips false. Any
// good reading clears the strike count.
//
// Safe for concurrent use: the sampling task calls Read while the safety
// monitor polls Valid.
type Guarded struct {
	mu       sync.Mutex
	probe    Probe
	maxFails int
	fails    int
	last     float64
	haveLast bool
}

// DefaultMaxFails is the consecutive-failure threshold shared by both
// sensor channels.
const DefaultMaxFails = 3

func NewGuarded(probe Probe, maxFails int) *Guarded {
	if maxFails <= 0 {
		maxFails = DefaultMaxFails
	}
	return &Guarded{probe: probe, maxFails: maxFails, last: math.NaN()}
}

func (g *Guarded) Read() float64 {
	v, err := g.probe()
	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil || math.IsNaN(v) {
		g.fails++
		if g.fails >= g.maxFails || !g.haveLast {
			return math.NaN()
		}
		return g.last
	}
	g.fails = 0
	g.last = v
	g.haveLast = true
	return v
}

func (g *Guarded) Valid() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fails < g.maxFails && g.haveLast
}
