package bandit

import (
	"math"

	"github.com/banditlab/go-bandit-sim/rng"
)

// minC is the lower bound for the UCB confidence parameter. The bonus term
// exists to keep exploration alive, so it must never vanish.
const minC = 0.1

// UCB implements the UCB1 policy: optimism in the face of uncertainty.
// Each arm is scored by its value estimate plus a confidence bonus that
// shrinks as the arm accumulates pulls.
type UCB struct {
	tracker
	c   float64
	src *rng.Source
}

// NewUCB creates a UCB1 policy over nArms arms with confidence parameter c,
// clamped to at least 0.1.
func NewUCB(nArms int, c float64, src *rng.Source) (*UCB, error) {
	if nArms <= 0 {
		return nil, &ParamError{Name: "nArms", Value: float64(nArms)}
	}
	u := &UCB{tracker: newTracker(nArms), src: src}
	u.SetC(c)
	return u, nil
}

// SelectArm pulls every arm once, in index order, before any bonus
// comparison; the round-robin guarantees the bonus term never sees a zero
// count or log(0). Afterwards it returns the arm with the highest upper
// confidence bound, ties broken uniformly at random.
func (u *UCB) SelectArm() int {
	for arm, n := range u.counts {
		if n == 0 {
			return arm
		}
	}
	vals := make([]float64, u.nArms)
	logT := math.Log(float64(u.totalPulls))
	for arm := range vals {
		vals[arm] = u.values[arm] + u.c*math.Sqrt(logT/float64(u.counts[arm]))
	}
	return argmaxRand(vals, u.src)
}

// Update records the observed reward for arm.
func (u *UCB) Update(arm int, reward float64) error {
	return u.record(arm, reward)
}

// Reset zeroes all learned state.
func (u *UCB) Reset() { u.reset() }

// SetC updates the confidence parameter, clamped to at least 0.1.
func (u *UCB) SetC(c float64) { u.c = math.Max(minC, c) }

// C returns the current confidence parameter.
func (u *UCB) C() float64 { return u.c }

// UCBValues returns the current upper confidence bound for every arm.
// Unpulled arms report +Inf, meaning "always explore this arm next".
// Before any pull at all, the bounds are all zero.
func (u *UCB) UCBValues() []float64 {
	vals := make([]float64, u.nArms)
	if u.totalPulls == 0 {
		return vals
	}
	logT := math.Log(float64(u.totalPulls))
	for arm := range vals {
		if u.counts[arm] == 0 {
			vals[arm] = math.Inf(1)
			continue
		}
		vals[arm] = u.values[arm] + u.c*math.Sqrt(logT/float64(u.counts[arm]))
	}
	return vals
}
