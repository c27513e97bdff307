// Package confetti animates a celebratory particle burst. A Burst is a
// finite sequence of frames: each Step moves every particle and drops the
// ones that left the bottom of the area.
package confetti

import (
	"math/rand/v2"
	"time"
)

// Interval is the time between frames.
const Interval = 20 * time.Millisecond

// Colors are the pastel particle colours.
var Colors = []string{"#FFADAD", "#FFD1DC", "#FFC994", "#FFF5BA", "#C7E6D0", "#B3D6FF", "#C4B7E0"}

// Particle positions are in pixels; velocities in pixels per frame.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Size   int
	Color  string
}

// Burst is one animation. It is not safe for concurrent use.
type Burst struct {
	width, height float64
	particles     []Particle
	frames        int
}

// NewBurst scatters n particles along the top edge of a width by height
// area, just above the visible region.
func NewBurst(rng *rand.Rand, width, height, n int) *Burst {
	b := &Burst{width: float64(width), height: float64(height), particles: make([]Particle, n)}
	for i := range b.particles {
		b.particles[i] = Particle{
			X:     float64(rng.IntN(width + 1)),
			Y:     -float64(rng.IntN(51)),
			VX:    rng.Float64()*2 - 1,
			VY:    1 + rng.Float64()*2,
			Size:  5 + rng.IntN(6),
			Color: Colors[rng.IntN(len(Colors))],
		}
	}
	return b
}

// Step advances one frame and reports whether any particle remains.
func (b *Burst) Step() bool {
	kept := b.particles[:0]
	for _, p := range b.particles {
		p.X += p.VX
		p.Y += p.VY
		if p.Y > b.height {
			continue
		}
		kept = append(kept, p)
	}
	b.particles = kept
	b.frames++
	return len(b.particles) > 0
}

// Particles is the current frame.
func (b *Burst) Particles() []Particle { return b.particles }

// Done reports whether every particle has left the area.
func (b *Burst) Done() bool { return len(b.particles) == 0 }

// Frames is the number of steps taken so far.
func (b *Burst) Frames() int { return b.frames }

// Size is the area the burst falls through.
func (b *Burst) Size() (width, height float64) { return b.width, b.height }
