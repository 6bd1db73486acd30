package bandit

import (
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/banditlab/go-bandit-sim/rng"
)

// ThompsonSampling maintains a Beta posterior over each arm's success rate
// and selects by drawing one sample per arm. The value estimates in the
// shared tracker stay the empirical means, independent of the posterior,
// so they remain comparable across policies.
type ThompsonSampling struct {
	tracker
	alphaPrior float64
	betaPrior  float64
	successes  []float64
	failures   []float64
	src        *rng.Source
}

// ThompsonOption configures a ThompsonSampling policy.
type ThompsonOption func(*ThompsonSampling)

// WithPriors sets the Beta prior shape parameters. Both default to 1
// (uniform prior).
func WithPriors(alphaPrior, betaPrior float64) ThompsonOption {
	return func(t *ThompsonSampling) {
		t.alphaPrior = alphaPrior
		t.betaPrior = betaPrior
	}
}

// NewThompsonSampling creates a Thompson sampling policy over nArms arms.
func NewThompsonSampling(nArms int, src *rng.Source, options ...ThompsonOption) (*ThompsonSampling, error) {
	if nArms <= 0 {
		return nil, &ParamError{Name: "nArms", Value: float64(nArms)}
	}
	t := &ThompsonSampling{
		tracker:    newTracker(nArms),
		alphaPrior: 1,
		betaPrior:  1,
		src:        src,
	}
	for _, opt := range options {
		opt(t)
	}
	if t.alphaPrior <= 0 {
		return nil, &ParamError{Name: "alphaPrior", Value: t.alphaPrior}
	}
	if t.betaPrior <= 0 {
		return nil, &ParamError{Name: "betaPrior", Value: t.betaPrior}
	}
	t.successes = make([]float64, nArms)
	t.failures = make([]float64, nArms)
	t.resetPosterior()
	return t, nil
}

func (t *ThompsonSampling) resetPosterior() {
	for i := range t.successes {
		t.successes[i] = t.alphaPrior
		t.failures[i] = t.betaPrior
	}
}

// SelectArm draws one sample from every arm's posterior and returns the
// maximiser. Exact ties are numerically rare but still broken uniformly
// at random.
func (t *ThompsonSampling) SelectArm() int {
	samples := make([]float64, t.nArms)
	for arm := range samples {
		samples[arm] = t.src.Beta(t.successes[arm], t.failures[arm])
	}
	return argmaxRand(samples, t.src)
}

// Update records the observed reward and advances the arm's posterior:
// a positive reward counts as a success, anything else as a failure.
func (t *ThompsonSampling) Update(arm int, reward float64) error {
	if err := t.record(arm, reward); err != nil {
		return err
	}
	if reward > 0 {
		t.successes[arm]++
	} else {
		t.failures[arm]++
	}
	return nil
}

// Reset zeroes all learned state and restores the priors.
func (t *ThompsonSampling) Reset() {
	t.reset()
	t.resetPosterior()
}

// Distributions returns copies of the per-arm Beta shape parameters.
func (t *ThompsonSampling) Distributions() (successes, failures []float64) {
	return append([]float64(nil), t.successes...), append([]float64(nil), t.failures...)
}

// ConfidenceIntervals returns per-arm credible intervals for the success
// rate at the given confidence level, which must lie strictly in (0, 1).
func (t *ThompsonSampling) ConfidenceIntervals(confidence float64) (lower, upper []float64, err error) {
	if confidence <= 0 || confidence >= 1 {
		return nil, nil, &ParamError{Name: "confidence", Value: confidence}
	}
	tail := (1 - confidence) / 2
	lower = make([]float64, t.nArms)
	upper = make([]float64, t.nArms)
	for arm := 0; arm < t.nArms; arm++ {
		dist := distuv.Beta{Alpha: t.successes[arm], Beta: t.failures[arm]}
		lower[arm] = dist.Quantile(tail)
		upper[arm] = dist.Quantile(1 - tail)
	}
	return lower, upper, nil
}
