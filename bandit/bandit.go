// Package bandit implements multi-armed bandit policies for sequential
// decision-making under uncertainty: epsilon-greedy, UCB1, Thompson sampling
// and a contextual linear policy (LinUCB). All policies consume an explicit
// random source and expose their bookkeeping as copies, so independent
// simulation trials never interfere with each other.
package bandit

import (
	"fmt"
	"math"

	"github.com/banditlab/go-bandit-sim/rng"
)

// Bandit is the capability shared by every policy.
type Bandit interface {
	// NArms returns the number of selectable arms.
	NArms() int
	// Reset zeroes all learned state. The caller must not run the policy
	// concurrently with its own reset.
	Reset()
	// Metrics returns a copy of the current bookkeeping state.
	Metrics() Metrics
}

// Policy is a non-contextual bandit: it selects on accumulated value
// estimates alone.
type Policy interface {
	Bandit
	// SelectArm returns the next arm to pull.
	SelectArm() int
	// Update records the observed reward for the pulled arm.
	Update(arm int, reward float64) error
}

// ContextualPolicy selects using a per-round feature vector instead of plain
// value estimates. The capability is declared by the type, not probed at
// runtime: the simulation runner branches on it once, before the round loop.
type ContextualPolicy interface {
	Bandit
	// SelectArmContext returns the best arm for the given context.
	SelectArmContext(context []float64) (int, error)
	// UpdateContext records the observed reward for the pulled arm under
	// the context it was selected with.
	UpdateContext(arm int, context []float64, reward float64) error
}

// Pull records one observed interaction.
type Pull struct {
	Arm    int
	Reward float64
}

// Metrics is a snapshot of a policy's bookkeeping state. All slices are
// copies; mutating them does not affect the policy.
type Metrics struct {
	TotalPulls    int
	TotalReward   float64
	AverageReward float64
	Counts        []int
	Values        []float64
	History       []Pull
}

// ArmError reports an arm index outside [0, nArms).
type ArmError struct {
	Arm   int
	NArms int
}

func (e *ArmError) Error() string {
	return fmt.Sprintf("arm index %d out of range [0, %d)", e.Arm, e.NArms)
}

// ParamError reports an out-of-range parameter value.
type ParamError struct {
	Name  string
	Value float64
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid %s: %g", e.Name, e.Value)
}

// tracker carries the bookkeeping shared by the non-contextual policies:
// per-arm pull counts, running mean value estimates and the pull history.
type tracker struct {
	nArms       int
	counts      []int
	values      []float64
	totalPulls  int
	totalReward float64
	history     []Pull
}

func newTracker(nArms int) tracker {
	return tracker{
		nArms:  nArms,
		counts: make([]int, nArms),
		values: make([]float64, nArms),
	}
}

// record folds one observation into the counts and value estimates.
// The incremental form keeps values[arm] equal to the exact arithmetic mean
// without the accumulation error of a running-sum/divide update.
func (t *tracker) record(arm int, reward float64) error {
	if arm < 0 || arm >= t.nArms {
		return &ArmError{Arm: arm, NArms: t.nArms}
	}
	t.counts[arm]++
	t.totalPulls++
	t.totalReward += reward
	t.values[arm] += (reward - t.values[arm]) / float64(t.counts[arm])
	t.history = append(t.history, Pull{Arm: arm, Reward: reward})
	return nil
}

func (t *tracker) reset() {
	for i := range t.counts {
		t.counts[i] = 0
		t.values[i] = 0
	}
	t.totalPulls = 0
	t.totalReward = 0
	t.history = nil
}

// NArms returns the number of selectable arms.
func (t *tracker) NArms() int { return t.nArms }

// Metrics returns a deep copy of the bookkeeping state.
func (t *tracker) Metrics() Metrics {
	m := Metrics{
		TotalPulls:  t.totalPulls,
		TotalReward: t.totalReward,
		Counts:      append([]int(nil), t.counts...),
		Values:      append([]float64(nil), t.values...),
		History:     append([]Pull(nil), t.history...),
	}
	if t.totalPulls > 0 {
		m.AverageReward = t.totalReward / float64(t.totalPulls)
	}
	return m
}

// argmaxRand returns the index of the maximum value, breaking exact ties
// uniformly at random so arms with equal estimates are never starved.
// No random draw is consumed when the maximum is unique.
func argmaxRand(values []float64, src *rng.Source) int {
	best := math.Inf(-1)
	var ties []int
	for i, v := range values {
		if v > best {
			best = v
			ties = ties[:0]
		}
		if v == best {
			ties = append(ties, i)
		}
	}
	if len(ties) == 1 {
		return ties[0]
	}
	return ties[src.IntN(len(ties))]
}
