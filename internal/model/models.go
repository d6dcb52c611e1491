// Package model defines shared data structures for the ranking service.
package model

import (
	"strings"
	"time"
)

// Campaign mirrors the campaigns table row relevant to ranking.
// Preference fields are user-entered free text and must be parsed defensively:
// multi-select fields are comma-joined token strings, salary bounds may be
// non-numeric, and weights arrive as an arbitrary JSONB object.
type Campaign struct {
	ID              int64
	Location        string
	MinSalary       string
	MaxSalary       string
	RemoteTypes     string // comma-joined tokens, e.g. "remote,hybrid"
	SeniorityLevels string
	CompanySizes    string // comma-joined band tokens, e.g. "51-200,10000+"
	EmploymentTypes string
	Skills          string // comma/semicolon-joined free-text tokens
	Weights         map[string]any
	UpdatedAt       time.Time
}

// Job is an enriched job posting as produced by the ETL/enrichment pipeline.
// Every field except the identity pair may be absent; scorers translate
// missing data into the documented neutral/missing scores, never errors.
type Job struct {
	JSearchJobID    string
	CampaignID      int64
	City            string
	State           string
	Country         string
	Location        string // composed string, preferred over City/State/Country when set
	MinSalary       *float64
	MaxSalary       *float64
	SalaryPeriod    string // unit the amounts are expressed in: YEAR, MONTH, WEEK, DAY, HOUR
	SalaryCurrency  string
	RemoteWorkType  string
	SeniorityLevel  string
	CompanySize     string // single number, "X-Y" range, or "N+"
	EmploymentTypes []string
	ExtractedSkills []string
	EnrichedAt      time.Time
}

// ComposedLocation returns the job's location as a single display string,
// falling back to joining city/state/country when the composed field is empty.
func (j Job) ComposedLocation() string {
	if j.Location != "" {
		return j.Location
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{j.City, j.State, j.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// FactorContribution is one entry of the rank explanation: the raw [0,1]
// factor score, the weight applied, and their product.
type FactorContribution struct {
	Factor       string  `json:"factor"`
	Score        float64 `json:"score"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// RankingResult is the output row for one (job, campaign) pair.
// RankScore always equals the sum of the explain contributions; the maximum
// attainable score is the sum of the campaign's weights, not a global constant.
type RankingResult struct {
	JSearchJobID string
	CampaignID   int64
	RankScore    float64
	Explain      []FactorContribution
	RankedAt     time.Time
}
