// Package simulation supplies the randomized outcomes that stand in for
// real availability checks, extension approvals and rate fluctuation.
package simulation

import (
	"math/rand"
	"sync"
	"time"
)

// Source draws simulated outcomes.
type Source interface {
	// Chance reports true with probability p.
	Chance(p float64) bool
	// Uniform returns a value in [min, max).
	Uniform(min, max float64) float64
	// Intn returns a value in [0, n).
	Intn(n int) int
}

// RandSource is a Source backed by math/rand. It is safe for concurrent use.
type RandSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandSource seeds a source. A zero seed uses the current time.
func NewRandSource(seed int64) *RandSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandSource{rnd: rand.New(rand.NewSource(seed))}
}

func (s *RandSource) Chance(p float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64() < p
}

func (s *RandSource) Uniform(min, max float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return min + s.rnd.Float64()*(max-min)
}

func (s *RandSource) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Intn(n)
}
