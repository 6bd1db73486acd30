package bandit

import (
	"math"

	"github.com/banditlab/go-bandit-sim/rng"
)

// EpsilonGreedy explores a uniformly random arm with probability epsilon and
// otherwise exploits the arm with the highest estimated value.
type EpsilonGreedy struct {
	tracker
	epsilon       float64
	src           *rng.Source
	explorations  int
	exploitations int
}

// NewEpsilonGreedy creates an epsilon-greedy policy over nArms arms.
// Epsilon is clamped into [0, 1], never rejected.
func NewEpsilonGreedy(nArms int, epsilon float64, src *rng.Source) (*EpsilonGreedy, error) {
	if nArms <= 0 {
		return nil, &ParamError{Name: "nArms", Value: float64(nArms)}
	}
	e := &EpsilonGreedy{tracker: newTracker(nArms), src: src}
	e.SetEpsilon(epsilon)
	return e, nil
}

// SelectArm returns a random arm with probability epsilon and the current
// value-estimate maximiser otherwise, ties broken uniformly at random.
func (e *EpsilonGreedy) SelectArm() int {
	if e.src.Float64() < e.epsilon {
		e.explorations++
		return e.src.IntN(e.nArms)
	}
	e.exploitations++
	return argmaxRand(e.values, e.src)
}

// Update records the observed reward for arm.
func (e *EpsilonGreedy) Update(arm int, reward float64) error {
	return e.record(arm, reward)
}

// Reset zeroes all learned state.
func (e *EpsilonGreedy) Reset() {
	e.reset()
	e.explorations = 0
	e.exploitations = 0
}

// SetEpsilon updates the exploration probability, clamped into [0, 1].
func (e *EpsilonGreedy) SetEpsilon(epsilon float64) {
	e.epsilon = math.Max(0, math.Min(1, epsilon))
}

// Epsilon returns the current exploration probability.
func (e *EpsilonGreedy) Epsilon() float64 { return e.epsilon }

// ExplorationRatio reports the fraction of selections so far that explored.
func (e *EpsilonGreedy) ExplorationRatio() float64 {
	total := e.explorations + e.exploitations
	if total == 0 {
		return 0
	}
	return float64(e.explorations) / float64(total)
}
