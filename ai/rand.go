package ai

import "math/rand/v2"

// NewRand returns a seeded source for reproducible matches.
func NewRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Script replays fixed values, wrapping around at the end.
type Script struct {
	Values []float64
	i      int
}

func (s *Script) Float64() float64 {
	if s == nil || len(s.Values) == 0 {
		return 0
	}
	v := s.Values[s.i%len(s.Values)]
	s.i++
	return v
}
