// Package dice provides the randomness source used by combat resolution.
// All random outcomes (damage jitter, stun chance, hit count, enemy choice)
// are drawn from a single Source so battles can be replayed from a seed.
package dice

import (
	"math/rand"
	"time"
)

// Source is the randomness provider for combat rolls.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	// Panics if n <= 0.
	Intn(n int) int
}

// seededSource implements Source with math/rand. Not safe for concurrent use;
// the battle engine is single-threaded.
type seededSource struct {
	rng *rand.Rand
}

// NewSeededSource returns a Source seeded with seed.
// A seed of 0 means a time-based seed is chosen.
func NewSeededSource(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &seededSource{rng: rand.New(rand.NewSource(seed))}
}

// Intn returns a random int in [0, n).
func (s *seededSource) Intn(n int) int {
	return s.rng.Intn(n)
}
