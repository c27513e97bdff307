package confetti

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRand() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }

func TestNewBurstRanges(t *testing.T) {
	b := NewBurst(newRand(), 640, 480, 100)
	require.Len(t, b.Particles(), 100)
	for _, p := range b.Particles() {
		assert.True(t, p.X >= 0 && p.X <= 640, "x %v", p.X)
		assert.True(t, p.Y >= -50 && p.Y <= 0, "y %v", p.Y)
		assert.True(t, p.VX >= -1 && p.VX < 1, "vx %v", p.VX)
		assert.True(t, p.VY >= 1 && p.VY < 3, "vy %v", p.VY)
		assert.True(t, p.Size >= 5 && p.Size <= 10, "size %v", p.Size)
		assert.Contains(t, Colors, p.Color)
	}
}

func TestStepMovesParticles(t *testing.T) {
	b := NewBurst(newRand(), 100, 100, 10)
	before := append([]Particle(nil), b.Particles()...)
	require.True(t, b.Step())
	for i, p := range b.Particles() {
		assert.InDelta(t, before[i].X+before[i].VX, p.X, 1e-12)
		assert.InDelta(t, before[i].Y+before[i].VY, p.Y, 1e-12)
	}
	assert.Equal(t, 1, b.Frames())
}

func TestBurstTerminates(t *testing.T) {
	const height = 200
	b := NewBurst(newRand(), 300, height, 50)
	// The slowest particle starts 50 above the top and falls at least 1 per
	// frame.
	limit := height + 50 + 2
	steps := 0
	for b.Step() {
		steps++
		require.Less(t, steps, limit, "burst did not finish")
	}
	assert.True(t, b.Done())
	assert.Empty(t, b.Particles())
}

func TestEmptyBurst(t *testing.T) {
	b := NewBurst(newRand(), 10, 10, 0)
	assert.True(t, b.Done())
	assert.False(t, b.Step())
}
