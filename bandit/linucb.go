package bandit

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/banditlab/go-bandit-sim/rng"
)

// LinUCB is the contextual linear policy: each arm carries its own ridge
// regression (design matrix A and response vector b) over the context
// features, and selection adds the LinUCB upper-confidence bonus
// alpha * sqrt(xᵀ A⁻¹ x). Its state shape differs fundamentally from the
// scalar-estimate policies, so it does not share their tracker.
type LinUCB struct {
	nArms  int
	dim    int
	alpha  float64
	lambda float64
	src    *rng.Source

	design   []*mat.SymDense // A = lambda*I + sum x xᵀ, per arm
	response []*mat.VecDense // b = sum reward*x, per arm

	counts      []int
	totalPulls  int
	totalReward float64
	history     []Pull
}

// LinUCBOption configures a LinUCB policy.
type LinUCBOption func(*LinUCB)

// WithAlpha sets the exploration parameter (default 1.0).
func WithAlpha(alpha float64) LinUCBOption {
	return func(l *LinUCB) { l.alpha = alpha }
}

// WithLambda sets the ridge regularization parameter (default 1.0).
// Lambda must be positive so the design matrix starts invertible; no
// warm-up round is needed.
func WithLambda(lambda float64) LinUCBOption {
	return func(l *LinUCB) { l.lambda = lambda }
}

// NewLinUCB creates a contextual linear policy over nArms arms with
// contextDim-dimensional feature vectors.
func NewLinUCB(nArms, contextDim int, src *rng.Source, options ...LinUCBOption) (*LinUCB, error) {
	if nArms <= 0 {
		return nil, &ParamError{Name: "nArms", Value: float64(nArms)}
	}
	if contextDim <= 0 {
		return nil, &ParamError{Name: "contextDim", Value: float64(contextDim)}
	}
	l := &LinUCB{
		nArms:  nArms,
		dim:    contextDim,
		alpha:  1.0,
		lambda: 1.0,
		src:    src,
	}
	for _, opt := range options {
		opt(l)
	}
	if l.lambda <= 0 {
		return nil, &ParamError{Name: "lambda", Value: l.lambda}
	}
	l.design = make([]*mat.SymDense, nArms)
	l.response = make([]*mat.VecDense, nArms)
	l.counts = make([]int, nArms)
	l.initArms()
	return l, nil
}

func (l *LinUCB) initArms() {
	for arm := 0; arm < l.nArms; arm++ {
		A := mat.NewSymDense(l.dim, nil)
		for i := 0; i < l.dim; i++ {
			A.SetSym(i, i, l.lambda)
		}
		l.design[arm] = A
		l.response[arm] = mat.NewVecDense(l.dim, nil)
	}
}

// SelectArmContext scores every arm against the context, including the
// exploration bonus, and returns the maximiser with random tie-breaking.
func (l *LinUCB) SelectArmContext(context []float64) (int, error) {
	return l.selectArm(context, true)
}

// SelectArmGreedy scores without the exploration bonus.
func (l *LinUCB) SelectArmGreedy(context []float64) (int, error) {
	return l.selectArm(context, false)
}

func (l *LinUCB) selectArm(context []float64, explore bool) (int, error) {
	if len(context) != l.dim {
		return 0, &ParamError{Name: "context dimension", Value: float64(len(context))}
	}
	x := mat.NewVecDense(l.dim, context)
	theta := mat.NewVecDense(l.dim, nil)
	solved := mat.NewVecDense(l.dim, nil)
	scores := make([]float64, l.nArms)
	for arm := 0; arm < l.nArms; arm++ {
		var chol mat.Cholesky
		if !chol.Factorize(l.design[arm]) {
			// Singular design matrix: fall back to theta = 0 so
			// selection proceeds instead of aborting.
			scores[arm] = 0
			continue
		}
		if err := chol.SolveVecTo(theta, l.response[arm]); err != nil {
			scores[arm] = 0
			continue
		}
		score := mat.Dot(theta, x)
		if explore {
			if err := chol.SolveVecTo(solved, x); err == nil {
				score += l.alpha * math.Sqrt(mat.Dot(x, solved))
			}
		}
		scores[arm] = score
	}
	return argmaxRand(scores, l.src), nil
}

// UpdateContext folds one observation into the selected arm's regression
// state: A += x xᵀ and b += reward*x.
func (l *LinUCB) UpdateContext(arm int, context []float64, reward float64) error {
	if arm < 0 || arm >= l.nArms {
		return &ArmError{Arm: arm, NArms: l.nArms}
	}
	if len(context) != l.dim {
		return &ParamError{Name: "context dimension", Value: float64(len(context))}
	}
	x := mat.NewVecDense(l.dim, context)
	l.design[arm].SymRankOne(l.design[arm], 1, x)
	l.response[arm].AddScaledVec(l.response[arm], reward, x)
	l.counts[arm]++
	l.totalPulls++
	l.totalReward += reward
	l.history = append(l.history, Pull{Arm: arm, Reward: reward})
	return nil
}

// Coefficients solves the current ridge estimate theta = A⁻¹ b for one arm.
// A singular design matrix yields the zero vector.
func (l *LinUCB) Coefficients(arm int) ([]float64, error) {
	if arm < 0 || arm >= l.nArms {
		return nil, &ArmError{Arm: arm, NArms: l.nArms}
	}
	theta := make([]float64, l.dim)
	var chol mat.Cholesky
	if !chol.Factorize(l.design[arm]) {
		return theta, nil
	}
	v := mat.NewVecDense(l.dim, theta)
	if err := chol.SolveVecTo(v, l.response[arm]); err != nil {
		for i := range theta {
			theta[i] = 0
		}
	}
	return theta, nil
}

// Reset restores every arm to the initial lambda*I / zero-vector state.
func (l *LinUCB) Reset() {
	l.initArms()
	for i := range l.counts {
		l.counts[i] = 0
	}
	l.totalPulls = 0
	l.totalReward = 0
	l.history = nil
}

// NArms returns the number of selectable arms.
func (l *LinUCB) NArms() int { return l.nArms }

// ContextDim returns the expected context vector length.
func (l *LinUCB) ContextDim() int { return l.dim }

// Metrics returns a copy of the bookkeeping state. Values is nil: the
// contextual policy has no scalar value estimates.
func (l *LinUCB) Metrics() Metrics {
	m := Metrics{
		TotalPulls:  l.totalPulls,
		TotalReward: l.totalReward,
		Counts:      append([]int(nil), l.counts...),
		History:     append([]Pull(nil), l.history...),
	}
	if l.totalPulls > 0 {
		m.AverageReward = l.totalReward / float64(l.totalPulls)
	}
	return m
}
