// Package rng provides the seedable random source consumed by every
// stochastic operation in the policy engine and the simulation harness.
// There is no hidden global state: callers construct a Source and pass it
// explicitly, which keeps independent trials reproducible.
package rng

import (
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

// Source wraps a PCG generator and adds the distribution draws the bandit
// policies and the reward environment need. It satisfies rand.Source, so it
// can be plugged into gonum distributions directly.
type Source struct {
	*rand.Rand
}

// New creates a Source seeded with the given value. A zero seed selects a
// time-derived seed, for callers that do not need reproducibility.
func New(seed int64) *Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := uint64(seed)
	return &Source{rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))}
}

// Bernoulli returns 1 with probability p and 0 otherwise.
func (s *Source) Bernoulli(p float64) float64 {
	if s.Float64() < p {
		return 1
	}
	return 0
}

// Beta draws one sample from the Beta(alpha, beta) distribution.
func (s *Source) Beta(alpha, beta float64) float64 {
	return distuv.Beta{Alpha: alpha, Beta: beta, Src: s.Rand}.Rand()
}
