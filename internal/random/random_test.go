package random

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLockedRand_SameStreamAsPlainSource(t *testing.T) {
	locked := NewLockedRand(42)
	plain := rand.New(rand.NewSource(42))

	for i := 0; i < 100; i++ {
		require.Equal(t, plain.Int63(), locked.Int63())
	}
}

func TestNewLockedRand_ConcurrentUse(t *testing.T) {
	rng := NewLockedRand(1)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				rng.Intn(100)
				rng.Float64()
			}
		}()
	}
	wg.Wait()
}
