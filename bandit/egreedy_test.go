package bandit

import (
	"errors"
	"testing"

	"github.com/banditlab/go-bandit-sim/rng"
)

func TestNewEpsilonGreedy(t *testing.T) {
	tests := []struct {
		name        string
		nArms       int
		epsilon     float64
		wantErr     bool
		wantEpsilon float64
	}{
		{name: "valid", nArms: 5, epsilon: 0.1, wantEpsilon: 0.1},
		{name: "epsilon clamped high", nArms: 5, epsilon: 1.5, wantEpsilon: 1},
		{name: "epsilon clamped low", nArms: 5, epsilon: -0.2, wantEpsilon: 0},
		{name: "zero arms", nArms: 0, epsilon: 0.1, wantErr: true},
		{name: "negative arms", nArms: -3, epsilon: 0.1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEpsilonGreedy(tt.nArms, tt.epsilon, rng.New(1))
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewEpsilonGreedy() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var paramErr *ParamError
				if !errors.As(err, &paramErr) {
					t.Errorf("error = %v, want *ParamError", err)
				}
				return
			}
			if e.Epsilon() != tt.wantEpsilon {
				t.Errorf("Epsilon() = %v, want %v", e.Epsilon(), tt.wantEpsilon)
			}
		})
	}
}

func TestEpsilonGreedyPureExploitation(t *testing.T) {
	e, err := NewEpsilonGreedy(4, 0, rng.New(42))
	if err != nil {
		t.Fatalf("NewEpsilonGreedy() error = %v", err)
	}
	// Fix the estimates so arm 2 is the unique maximiser.
	copy(e.values, []float64{0.1, 0.2, 0.9, 0.3})

	for i := 0; i < 200; i++ {
		if got := e.SelectArm(); got != 2 {
			t.Fatalf("SelectArm() = %d with epsilon=0, want 2", got)
		}
	}
	if ratio := e.ExplorationRatio(); ratio != 0 {
		t.Errorf("ExplorationRatio() = %v with epsilon=0, want 0", ratio)
	}
}

func TestEpsilonGreedyPureExploration(t *testing.T) {
	e, err := NewEpsilonGreedy(5, 1, rng.New(42))
	if err != nil {
		t.Fatalf("NewEpsilonGreedy() error = %v", err)
	}
	seen := make(map[int]int)
	for i := 0; i < 5000; i++ {
		arm := e.SelectArm()
		if arm < 0 || arm >= 5 {
			t.Fatalf("SelectArm() = %d, out of range", arm)
		}
		seen[arm]++
	}
	for arm := 0; arm < 5; arm++ {
		if seen[arm] < 700 {
			t.Errorf("arm %d selected %d/5000 times under pure exploration, want roughly uniform", arm, seen[arm])
		}
	}
	if ratio := e.ExplorationRatio(); ratio != 1 {
		t.Errorf("ExplorationRatio() = %v with epsilon=1, want 1", ratio)
	}
}

func TestEpsilonGreedyLocksOntoFirstReward(t *testing.T) {
	e, err := NewEpsilonGreedy(5, 0, rng.New(7))
	if err != nil {
		t.Fatalf("NewEpsilonGreedy() error = %v", err)
	}
	// All estimates start tied at zero: round 1 is a random tie-break.
	first := e.SelectArm()
	if err := e.Update(first, 1); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	// The rewarded arm is now the unique maximiser and stays selected as
	// long as its estimate holds.
	for i := 0; i < 50; i++ {
		if got := e.SelectArm(); got != first {
			t.Fatalf("round %d: SelectArm() = %d, want %d", i+2, got, first)
		}
		if err := e.Update(first, 1); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
	}
}

func TestEpsilonGreedyUpdateInvalidArm(t *testing.T) {
	e, err := NewEpsilonGreedy(3, 0.1, rng.New(1))
	if err != nil {
		t.Fatalf("NewEpsilonGreedy() error = %v", err)
	}
	var armErr *ArmError
	if err := e.Update(3, 1); !errors.As(err, &armErr) {
		t.Errorf("Update(3, 1) error = %v, want *ArmError", err)
	}
}

func TestEpsilonGreedyReset(t *testing.T) {
	e, err := NewEpsilonGreedy(3, 0.5, rng.New(1))
	if err != nil {
		t.Fatalf("NewEpsilonGreedy() error = %v", err)
	}
	for i := 0; i < 20; i++ {
		arm := e.SelectArm()
		if err := e.Update(arm, 1); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
	}
	e.Reset()
	m := e.Metrics()
	if m.TotalPulls != 0 || m.TotalReward != 0 || len(m.History) != 0 {
		t.Errorf("Metrics() after Reset = %+v, want zeroed", m)
	}
	if e.ExplorationRatio() != 0 {
		t.Errorf("ExplorationRatio() after Reset = %v, want 0", e.ExplorationRatio())
	}
}
