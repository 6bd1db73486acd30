package sim

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/banditlab/go-bandit-sim/bandit"
	"github.com/banditlab/go-bandit-sim/rng"
)

// Entry pairs a display name with a policy for comparison runs. Entries are
// ordered so the output table is stable.
type Entry struct {
	Name   string
	Policy bandit.Policy
}

// ComparisonRow summarises one policy's performance across independent
// trials.
type ComparisonRow struct {
	Name            string
	MeanTotalReward float64
	StdTotalReward  float64
	MeanFinalRegret float64
	StdFinalRegret  float64
	MeanCTR         float64
}

// Compare runs every policy for nTrials independent trials of nRounds
// rounds against the same environment. Policy state is fully reset between
// trials; the environment's ground truth is shared so rows are comparable,
// while the random draws stay independent per trial.
func Compare(entries []Entry, env *Environment, nRounds, nTrials int, src *rng.Source) ([]ComparisonRow, error) {
	if nRounds <= 0 {
		return nil, &bandit.ParamError{Name: "nRounds", Value: float64(nRounds)}
	}
	if nTrials <= 0 {
		return nil, &bandit.ParamError{Name: "nTrials", Value: float64(nTrials)}
	}

	rows := make([]ComparisonRow, 0, len(entries))
	for _, entry := range entries {
		if entry.Policy == nil {
			return nil, fmt.Errorf("comparison entry %q has no policy", entry.Name)
		}
		totals := make([]float64, nTrials)
		regrets := make([]float64, nTrials)
		for trial := 0; trial < nTrials; trial++ {
			entry.Policy.Reset()
			res, err := Run(entry.Policy, env, nRounds, false, src)
			if err != nil {
				return nil, err
			}
			totals[trial] = res.TotalReward()
			regrets[trial] = res.FinalRegret()
		}
		meanTotal := stat.Mean(totals, nil)
		rows = append(rows, ComparisonRow{
			Name:            entry.Name,
			MeanTotalReward: meanTotal,
			StdTotalReward:  stat.PopStdDev(totals, nil),
			MeanFinalRegret: stat.Mean(regrets, nil),
			StdFinalRegret:  stat.PopStdDev(regrets, nil),
			MeanCTR:         meanTotal / float64(nRounds),
		})
	}
	return rows, nil
}
