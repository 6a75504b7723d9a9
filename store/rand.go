package store

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// RNG abstracts the random source so draws and shuffles can be replayed in tests.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// NewRNG returns a seeded pseudo-random source. A zero seed asks crypto/rand
// for one.
func NewRNG(seed int64) (*rand.Rand, error) {
	if seed == 0 {
		s, err := NewSeed()
		if err != nil {
			return nil, err
		}
		seed = s
	}
	return rand.New(rand.NewSource(seed)), nil
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
