// Package random provides a goroutine-safe seeded *rand.Rand for injection
// into services that run on concurrent request goroutines.
package random

import (
	"math/rand"
	"sync"
)

// lockedSource serializes access to a rand source. math/rand sources are not
// safe for concurrent use, and the same injected *rand.Rand is shared by the
// weather service, the chat router and the websocket handler.
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source64
}

func (s *lockedSource) Int63() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Int63()
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}

func (s *lockedSource) Seed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src.Seed(seed)
}

// NewLockedRand returns a seeded *rand.Rand whose source is safe to share
// across goroutines. The value stream is identical to rand.New(rand.NewSource(seed)).
func NewLockedRand(seed int64) *rand.Rand {
	return rand.New(&lockedSource{src: rand.NewSource(seed).(rand.Source64)})
}
