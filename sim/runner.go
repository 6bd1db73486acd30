package sim

import (
	"fmt"

	"github.com/banditlab/go-bandit-sim/bandit"
	"github.com/banditlab/go-bandit-sim/rng"
)

// Result is the immutable record of one simulation run. The four sequences
// have equal length, one entry per round.
type Result struct {
	Rewards          []float64
	Arms             []int
	CumulativeRegret []float64
	RunningCTR       []float64
}

// TotalReward sums the observed rewards.
func (r *Result) TotalReward() float64 {
	total := 0.0
	for _, reward := range r.Rewards {
		total += reward
	}
	return total
}

// FinalRegret returns the cumulative regret after the last round.
func (r *Result) FinalRegret() float64 {
	if len(r.CumulativeRegret) == 0 {
		return 0
	}
	return r.CumulativeRegret[len(r.CumulativeRegret)-1]
}

// Run drives one policy against the environment for nRounds rounds:
// select, sample a reward, update, record. Whether the policy receives the
// per-round context is decided once from its declared capability, never
// probed inside the loop. Cumulative regret is computed after the loop from
// the recorded arm sequence, decoupling the regret definition from the
// live loop.
func Run(policy bandit.Bandit, env *Environment, nRounds int, useContext bool, src *rng.Source) (*Result, error) {
	if nRounds <= 0 {
		return nil, &bandit.ParamError{Name: "nRounds", Value: float64(nRounds)}
	}
	cp, contextual := policy.(bandit.ContextualPolicy)
	plain, hasPlain := policy.(bandit.Policy)
	if !hasPlain && (!useContext || !contextual) {
		return nil, fmt.Errorf("policy %T cannot run with useContext=%v", policy, useContext)
	}

	res := &Result{
		Rewards:    make([]float64, 0, nRounds),
		Arms:       make([]int, 0, nRounds),
		RunningCTR: make([]float64, 0, nRounds),
	}
	cumulative := 0.0
	for t := 0; t < nRounds; t++ {
		var arm int
		var reward float64
		if useContext {
			user := env.NewUser(src)
			var err error
			if contextual {
				arm, err = cp.SelectArmContext(user.Features)
				if err != nil {
					return nil, err
				}
			} else {
				arm = plain.SelectArm()
			}
			reward, err = env.ContextualPull(arm, user, src)
			if err != nil {
				return nil, err
			}
			if contextual {
				err = cp.UpdateContext(arm, user.Features, reward)
			} else {
				err = plain.Update(arm, reward)
			}
			if err != nil {
				return nil, err
			}
		} else {
			arm = plain.SelectArm()
			var err error
			reward, err = env.Pull(arm, src)
			if err != nil {
				return nil, err
			}
			if err := plain.Update(arm, reward); err != nil {
				return nil, err
			}
		}

		cumulative += reward
		res.Rewards = append(res.Rewards, reward)
		res.Arms = append(res.Arms, arm)
		res.RunningCTR = append(res.RunningCTR, cumulative/float64(t+1))
	}

	regret, err := env.CumulativeRegret(res.Arms)
	if err != nil {
		return nil, err
	}
	res.CumulativeRegret = regret
	return res, nil
}
