package game

import "math/rand/v2"

// Randomizer is the seedable source for spawned pieces.
type Randomizer struct {
	rng *rand.Rand
}

// NewRandomizer returns a randomizer; equal seeds give equal sequences.
func NewRandomizer(seed uint64) Randomizer {
	return Randomizer{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Draw picks the kind and orientation of an upcoming piece.
func (r Randomizer) Draw() Preview {
	return Preview{
		Kind:     Kind(r.rng.IntN(NumKinds)),
		Rotation: r.rng.IntN(Rotations),
	}
}

// Column picks a spawn column in [0, n).
func (r Randomizer) Column(n int) int {
	if n <= 1 {
		return 0
	}
	return r.rng.IntN(n)
}

// Intn exposes the underlying source for autoplay drivers.
func (r Randomizer) Intn(n int) int {
	return r.rng.IntN(n)
}
