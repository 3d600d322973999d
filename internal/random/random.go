package random

import (
	"hash/fnv"
	"math/rand"
	"strings"
)

// DefaultSeed roots the RNG hierarchy when no seed is configured.
const DefaultSeed = "arena"

// Factory produces deterministic RNG instances for placement subsystems.
type Factory func(rootSeed, label string) *rand.Rand

// SeedValue derives a stable int64 seed from the root seed and a subsystem
// label.
func SeedValue(rootSeed, label string) int64 {
	rootSeed = strings.TrimSpace(rootSeed)
	if rootSeed == "" {
		rootSeed = DefaultSeed
	}
	hasher := fnv.New64a()
	hasher.Write([]byte(rootSeed))
	hasher.Write([]byte{0})
	hasher.Write([]byte(label))
	sum := hasher.Sum64()
	if sum == 0 {
		sum = 1
	}
	return int64(sum)
}

// NewDeterministicRNG is the default Factory.
func NewDeterministicRNG(rootSeed, label string) *rand.Rand {
	return rand.New(rand.NewSource(SeedValue(rootSeed, label)))
}

// Uniform draws from [min, max). A nil rng falls back to a fixed-seed source
// so callers never panic, but layouts are only reproducible with an explicit
// rng.
func Uniform(rng *rand.Rand, min, max float64) float64 {
	if max <= min {
		return min
	}
	if rng == nil {
		rng = NewDeterministicRNG(DefaultSeed, "fallback")
	}
	return min + rng.Float64()*(max-min)
}

// IntRange draws an integer from [low, high).
func IntRange(rng *rand.Rand, low, high int) int {
	if high <= low {
		return low
	}
	if rng == nil {
		rng = NewDeterministicRNG(DefaultSeed, "fallback")
	}
	return low + rng.Intn(high-low)
}
