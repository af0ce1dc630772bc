package internal

import (
	"math/rand"
	"time"
)

// Returns a random source seeded with the given seed.
// A seed of 0 seeds from the clock.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func Shuffle[S ~[]E, E any](slice S, rng *rand.Rand) {
	rng.Shuffle(
		len(slice),
		func(i, j int) { slice[i], slice[j] = slice[j], slice[i] },
	)
}

// Returns a value in [0, scale) for breaking ties between
// otherwise equal priorities.
func Jitter(rng *rand.Rand, scale float64) float64 {
	return rng.Float64() * scale
}
