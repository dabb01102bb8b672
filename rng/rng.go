// Package rng provides the per-game seeded random stream. Every random
// event of a game (wind assignment, wall shuffles) draws from one Stream,
// and the stream state is persisted back to the game record after each use,
// so a whole game replays identically from its stored seed.
package rng

import (
	"fmt"
	"math/rand/v2"
)

type Stream struct {
	seed uint64
	pcg  *rand.PCG
	rnd  *rand.Rand
}

// New creates a stream from a game seed.
func New(seed uint64) *Stream {
	pcg := rand.NewPCG(seed, seed)
	return &Stream{seed: seed, pcg: pcg, rnd: rand.New(pcg)}
}

// Restore rebuilds a stream from a previously captured state.
func Restore(seed uint64, state []byte) (*Stream, error) {
	s := New(seed)
	if len(state) == 0 {
		return s, nil
	}
	if err := s.pcg.UnmarshalBinary(state); err != nil {
		return nil, fmt.Errorf("restore rng state: %w", err)
	}
	return s, nil
}

// Seed returns the seed the stream was created from.
func (s *Stream) Seed() uint64 {
	return s.seed
}

// State captures the current generator state. Callers store it alongside
// the game after every operation that consumed randomness.
func (s *Stream) State() []byte {
	state, err := s.pcg.MarshalBinary()
	if err != nil {
		// PCG's MarshalBinary never fails.
		panic("rng: marshal state: " + err.Error())
	}
	return state
}

func (s *Stream) IntN(n int) int {
	return s.rnd.IntN(n)
}

// Shuffle pseudo-randomizes the order of n elements via the swap function.
func (s *Stream) Shuffle(n int, swap func(i, j int)) {
	s.rnd.Shuffle(n, swap)
}

// Perm returns a random permutation of the integers [0, n).
func (s *Stream) Perm(n int) []int {
	return s.rnd.Perm(n)
}
