// Package sim provides the simulation harness for the bandit policies:
// a synthetic news-recommendation environment with fixed ground-truth click
// rates, a per-round simulation runner and a multi-trial policy comparison.
package sim

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/banditlab/go-bandit-sim/bandit"
	"github.com/banditlab/go-bandit-sim/rng"
)

// FeatureDim is the dimensionality of article and user feature vectors.
const FeatureDim = 5

// maxClickProb caps boosted click probabilities so they stay valid.
const maxClickProb = 0.95

var categories = []string{
	"Politics", "Technology", "Sports", "Entertainment",
	"Business", "Science", "Health", "World",
}

var titles = []string{
	"Breaking: Major Policy Changes Announced",
	"Tech Giant Unveils Revolutionary AI System",
	"Championship Game Ends in Dramatic Fashion",
	"Celebrity Interview: Exclusive Insights",
	"Market Analysis: What Investors Need to Know",
	"Scientific Breakthrough in Climate Research",
	"Health Tips: Expert Recommendations",
	"Global Summit Addresses Critical Issues",
	"Innovation in Renewable Energy Sector",
	"Sports Star Makes Historic Achievement",
	"Entertainment Industry Trends 2025",
	"Economic Forecast for Next Quarter",
	"Medical Advances in Treatment Options",
	"International Relations Update",
	"Startup Success Story Inspires Many",
}

var ages = []int{18, 25, 35, 45, 55, 65}

var locations = []string{"US-East", "US-West", "Europe", "Asia", "Other"}

// Article is one selectable item with a fixed ground-truth click rate and a
// unit-norm topic feature vector. Title and category are descriptive
// metadata for consumers of the results; the policies never see them.
type Article struct {
	ID       int
	Title    string
	Category string
	TrueCTR  float64
	Features []float64
}

// User is a synthetic visitor drawn per round for the contextual path.
// Immutable once drawn.
type User struct {
	ID                  int
	Age                 int
	Location            string
	PreferredCategories []string
	Features            []float64
}

// Environment holds the fixed ground truth the policies are evaluated
// against. It is constructed once and never mutated, so repeated
// comparisons against it stay consistent.
type Environment struct {
	articles   []Article
	trueCTRs   []float64
	optimalArm int
	optimalCTR float64
}

// NewEnvironment generates nArticles synthetic articles. Click rates are
// drawn from Beta(2, 5), rescaled into [0.05, 0.30] and sorted descending:
// a right-skewed difficulty profile with one clearly best arm. The same
// seed always reproduces the same environment; a zero seed randomizes.
func NewEnvironment(nArticles int, seed int64) (*Environment, error) {
	if nArticles <= 0 {
		return nil, &bandit.ParamError{Name: "nArticles", Value: float64(nArticles)}
	}
	src := rng.New(seed)

	ctrs := make([]float64, nArticles)
	for i := range ctrs {
		ctrs[i] = 0.05 + 0.25*src.Beta(2, 5)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(ctrs)))

	articles := make([]Article, nArticles)
	for i := range articles {
		feat := make([]float64, FeatureDim)
		for j := range feat {
			feat[j] = src.NormFloat64()
		}
		floats.Scale(1/floats.Norm(feat, 2), feat)

		category := categories[i%len(categories)]
		title := fmt.Sprintf("Article %d: %s News", i+1, category)
		if i < len(titles) {
			title = titles[i]
		}
		articles[i] = Article{
			ID:       i,
			Title:    title,
			Category: category,
			TrueCTR:  ctrs[i],
			Features: feat,
		}
	}

	optimal := 0
	for i, c := range ctrs {
		if c > ctrs[optimal] {
			optimal = i
		}
	}
	return &Environment{
		articles:   articles,
		trueCTRs:   ctrs,
		optimalArm: optimal,
		optimalCTR: ctrs[optimal],
	}, nil
}

// NArms returns the number of articles.
func (e *Environment) NArms() int { return len(e.articles) }

// Articles returns a copy of the article table.
func (e *Environment) Articles() []Article {
	return append([]Article(nil), e.articles...)
}

// TrueCTRs returns a copy of the ground-truth click rates.
func (e *Environment) TrueCTRs() []float64 {
	return append([]float64(nil), e.trueCTRs...)
}

// OptimalArm returns the index of the best arm.
func (e *Environment) OptimalArm() int { return e.optimalArm }

// OptimalCTR returns the best arm's true click rate.
func (e *Environment) OptimalCTR() float64 { return e.optimalCTR }

// Pull simulates one interaction with the article: a Bernoulli draw with
// the article's true click rate. Returns 1 on click, 0 otherwise.
func (e *Environment) Pull(arm int, src *rng.Source) (float64, error) {
	if arm < 0 || arm >= len(e.articles) {
		return 0, &bandit.ArmError{Arm: arm, NArms: len(e.articles)}
	}
	return src.Bernoulli(e.trueCTRs[arm]), nil
}

// NewUser draws a synthetic user: an age and location bucket, up to three
// distinct preferred categories and a FeatureDim-dimensional feature vector.
func (e *Environment) NewUser(src *rng.Source) User {
	age := ages[src.IntN(len(ages))]
	loc := src.IntN(len(locations))

	cats := e.categorySet()
	k := len(cats)
	if k > 3 {
		k = 3
	}
	perm := src.Perm(len(cats))
	preferred := make([]string, k)
	for i := 0; i < k; i++ {
		preferred[i] = cats[perm[i]]
	}

	feat := []float64{
		float64(age) / 100.0,
		float64(loc) / float64(len(locations)),
		0.5, 0.5, 0.5,
	}
	return User{
		ID:                  src.IntN(100000),
		Age:                 age,
		Location:            locations[loc],
		PreferredCategories: preferred,
		Features:            feat,
	}
}

// categorySet returns the distinct categories present among the articles,
// in first-seen order.
func (e *Environment) categorySet() []string {
	seen := make(map[string]bool, len(categories))
	var cats []string
	for _, a := range e.articles {
		if !seen[a.Category] {
			seen[a.Category] = true
			cats = append(cats, a.Category)
		}
	}
	return cats
}

// ContextualPull simulates an interaction with preference-based boosts on
// top of the article's base rate: +0.10 when the article's category is one
// of the user's preferred categories, +0.05 for young users on Technology
// and Entertainment, +0.05 for older users on Health and Business. The
// boosted probability is capped at 0.95.
func (e *Environment) ContextualPull(arm int, user User, src *rng.Source) (float64, error) {
	if arm < 0 || arm >= len(e.articles) {
		return 0, &bandit.ArmError{Arm: arm, NArms: len(e.articles)}
	}
	a := e.articles[arm]
	p := a.TrueCTR
	for _, c := range user.PreferredCategories {
		if c == a.Category {
			p += 0.10
			break
		}
	}
	switch {
	case user.Age < 35 && (a.Category == "Technology" || a.Category == "Entertainment"):
		p += 0.05
	case user.Age >= 55 && (a.Category == "Health" || a.Category == "Business"):
		p += 0.05
	}
	p = math.Min(p, maxClickProb)
	return src.Bernoulli(p), nil
}

// CumulativeRegret computes in one pass the running shortfall of the chosen
// arms against the optimal arm's rate: regret[t] = sum over i <= t of
// (optimalCTR - trueCTR[arms[i]]). The result is non-negative and
// non-decreasing.
func (e *Environment) CumulativeRegret(arms []int) ([]float64, error) {
	regret := make([]float64, len(arms))
	total := 0.0
	for i, arm := range arms {
		if arm < 0 || arm >= len(e.articles) {
			return nil, &bandit.ArmError{Arm: arm, NArms: len(e.articles)}
		}
		total += e.optimalCTR - e.trueCTRs[arm]
		regret[i] = total
	}
	return regret, nil
}
