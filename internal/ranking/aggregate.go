package ranking

import (
	"sort"

	"jobmate/ranking-service/internal/model"
)

// Factor name constants, used as weight-map keys and in rank explanations.
const (
	FactorLocation       = "location"
	FactorSalary         = "salary"
	FactorRemoteType     = "remote_type"
	FactorSeniority      = "seniority"
	FactorCompanySize    = "company_size"
	FactorEmploymentType = "employment_type"
	FactorSkills         = "skills"
)

// factors is the closed, ordered list of scoring dimensions. The order is
// the deterministic tie-break for explain entries with equal contributions.
var factors = []struct {
	name          string
	defaultWeight float64
	score         func(model.Job, Preferences, Policy) float64
}{
	{FactorSkills, 3.0, ScoreSkills},
	{FactorSalary, 2.0, ScoreSalary},
	{FactorLocation, 2.0, ScoreLocation},
	{FactorRemoteType, 1.5, ScoreRemoteType},
	{FactorSeniority, 1.5, ScoreSeniority},
	{FactorCompanySize, 1.0, ScoreCompanySize},
	{FactorEmploymentType, 1.0, ScoreEmploymentType},
}

// FactorNames returns the factor names in canonical order.
func FactorNames() []string {
	names := make([]string, len(factors))
	for i, f := range factors {
		names[i] = f.name
	}
	return names
}

// Score computes the weighted rank score and its per-factor explanation for
// one (job, campaign) pair. The rank score is the exact sum of the explain
// contributions; it is not clamped — the attainable maximum is the sum of
// the campaign's weights.
//
// Explain entries are ordered by descending contribution, ties broken by
// the canonical factor order.
func Score(j model.Job, p Preferences, pol Policy) (float64, []model.FactorContribution) {
	explain := make([]model.FactorContribution, 0, len(factors))
	total := 0.0

	for _, f := range factors {
		s := f.score(j, p, pol)
		w := p.Weights[f.name]
		c := s * w
		total += c
		explain = append(explain, model.FactorContribution{
			Factor:       f.name,
			Score:        s,
			Weight:       w,
			Contribution: c,
		})
	}

	sort.SliceStable(explain, func(i, k int) bool {
		return explain[i].Contribution > explain[k].Contribution
	})

	return total, explain
}
