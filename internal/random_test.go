package internal

import (
	"math/rand"
	"slices"
	"testing"
)

func TestShuffle(t *testing.T) {
	values := []int{1, 2, 3, 4, 5, 6, 7, 8}

	shuffled1 := slices.Clone(values)
	Shuffle(shuffled1, rand.New(rand.NewSource(3)))
	shuffled2 := slices.Clone(values)
	Shuffle(shuffled2, rand.New(rand.NewSource(3)))

	if !slices.Equal(shuffled1, shuffled2) {
		t.Fatal("the same seed gave different shuffles")
	}

	slices.Sort(shuffled1)
	if !slices.Equal(shuffled1, values) {
		t.Fatal("the shuffle lost values")
	}
}

func TestJitter(t *testing.T) {
	rng := NewRand(11)
	for range 100 {
		j := Jitter(rng, 2)
		if j < 0 || j >= 2 {
			t.Fatal("the jitter is out of range")
		}
	}
}

func TestNewRand(t *testing.T) {
	if NewRand(5).Int63() != NewRand(5).Int63() {
		t.Fatal("the seeded sources differ")
	}
	if NewRand(0) == nil {
		t.Fatal("no clock seeded source was created")
	}
}
