// Package random supplies uniformly distributed integers for the simulation
package random

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

// ErrInvalidRange is the panic value for a range whose minimum exceeds its maximum
var ErrInvalidRange = errors.New("invalid random range")

// Source draws integers in an inclusive range. It is safe for concurrent use.
type Source struct {
	rng *rand.Rand
	mu  sync.Mutex
}

// New creates a source. A zero seed picks one from the clock.
func New(seed uint64) *Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Source{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// IntRange returns a uniform integer in [min, max]. min > max is a
// programming error and panics.
func (s *Source) IntRange(min, max int) int {
	if min > max {
		panic(fmt.Errorf("%w: min %d > max %d", ErrInvalidRange, min, max))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return min + s.rng.IntN(max-min+1)
}
