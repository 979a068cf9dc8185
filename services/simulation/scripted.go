package simulation

import "sync"

// Scripted replays queued outcomes. When a queue is empty it falls back to
// Chance=DefaultChance, Uniform=midpoint and Intn=0.
type Scripted struct {
	mu            sync.Mutex
	chances       []bool
	uniforms      []float64
	ints          []int
	DefaultChance bool
}

// NewScripted returns a source whose unscripted Chance calls succeed.
func NewScripted() *Scripted {
	return &Scripted{DefaultChance: true}
}

// QueueChance appends Bernoulli outcomes.
func (s *Scripted) QueueChance(outcomes ...bool) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chances = append(s.chances, outcomes...)
	return s
}

// QueueUniform appends values returned verbatim by Uniform.
func (s *Scripted) QueueUniform(values ...float64) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uniforms = append(s.uniforms, values...)
	return s
}

// QueueInt appends values returned (modulo n) by Intn.
func (s *Scripted) QueueInt(values ...int) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ints = append(s.ints, values...)
	return s
}

func (s *Scripted) Chance(float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.chances) == 0 {
		return s.DefaultChance
	}
	v := s.chances[0]
	s.chances = s.chances[1:]
	return v
}

func (s *Scripted) Uniform(min, max float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.uniforms) == 0 {
		return (min + max) / 2
	}
	v := s.uniforms[0]
	s.uniforms = s.uniforms[1:]
	return v
}

func (s *Scripted) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ints) == 0 || n <= 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	if v < 0 {
		v = -v
	}
	return v % n
}
