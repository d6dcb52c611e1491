package ranking

import (
	"math"
	"strconv"
	"strings"

	"jobmate/ranking-service/internal/model"
)

// Policy carries the shared scoring constants every factor scorer applies.
// The adjacency credit for near-miss seniority/company-size matches is a
// product decision, so it travels with the policy rather than being baked
// into the scorers.
type Policy struct {
	Neutral     float64 // no stated preference for this dimension
	MissingData float64 // preference stated, job data absent
	Miss        float64 // preference stated, job data present, no match
	Adjacent    float64 // one step away on an ordinal scale
}

// DefaultPolicy returns the standard scoring policy table.
func DefaultPolicy() Policy {
	return Policy{
		Neutral:     0.5,
		MissingData: 0.3,
		Miss:        0.2,
		Adjacent:    0.6,
	}
}

// seniorityRank is the fixed ordinal scale used for adjacency credit.
var seniorityRank = map[string]int{
	"intern":    0,
	"junior":    1,
	"mid":       2,
	"senior":    3,
	"executive": 4,
}

// companySizeLadder is the canonical sequence of company-size bands.
// Adjacency is measured in ladder steps.
var companySizeLadder = []struct{ lo, hi float64 }{
	{1, 50},
	{51, 200},
	{201, 500},
	{501, 1000},
	{1001, 5000},
	{5001, 10000},
	{10001, math.Inf(1)},
}

// ScoreLocation matches the job's location string against the preferred
// location by case-insensitive substring containment in either direction.
func ScoreLocation(j model.Job, p Preferences, pol Policy) float64 {
	if p.Location == "" {
		return pol.Neutral
	}
	loc := strings.ToLower(strings.TrimSpace(j.ComposedLocation()))
	if loc == "" {
		return pol.MissingData
	}
	if strings.Contains(loc, p.Location) || strings.Contains(p.Location, loc) {
		return 1.0
	}
	return pol.Miss
}

// ScoreSalary compares the job's yearly-normalised salary range against the
// campaign's bounds. Full containment scores 1.0; partial overlap earns
// linear credit proportional to the overlapping span over the job's span,
// floored at the hard-miss score so a sliver of overlap never ranks below
// an outright miss.
func ScoreSalary(j model.Job, p Preferences, pol Policy) float64 {
	if p.MinSalary == nil && p.MaxSalary == nil {
		return pol.Neutral
	}

	jobLo, jobHi, ok := yearlySalaryRange(j)
	if !ok {
		return pol.MissingData
	}

	prefLo, prefHi := math.Inf(-1), math.Inf(1)
	if p.MinSalary != nil {
		prefLo = *p.MinSalary
	}
	if p.MaxSalary != nil {
		prefHi = *p.MaxSalary
	}

	overlap := math.Min(jobHi, prefHi) - math.Max(jobLo, prefLo)
	if overlap < 0 {
		return pol.Miss
	}

	span := jobHi - jobLo
	if span == 0 {
		return 1.0 // single-point salary inside the preferred range
	}
	frac := overlap / span
	if frac >= 1 {
		return 1.0
	}
	return math.Max(frac, pol.Miss)
}

// ScoreRemoteType applies best-match semantics: the job's single remote
// work type is checked for membership in the preferred set.
func ScoreRemoteType(j model.Job, p Preferences, pol Policy) float64 {
	return scoreTokenMembership(j.RemoteWorkType, p.RemoteTypes, pol)
}

// ScoreSeniority applies best-match semantics with graded adjacency: a job
// level one step away from any preferred level on the fixed ordinal scale
// earns partial credit instead of the hard miss.
func ScoreSeniority(j model.Job, p Preferences, pol Policy) float64 {
	if len(p.SeniorityLevels) == 0 {
		return pol.Neutral
	}
	level := strings.ToLower(strings.TrimSpace(j.SeniorityLevel))
	if level == "" {
		return pol.MissingData
	}
	if _, ok := p.SeniorityLevels[level]; ok {
		return 1.0
	}
	jobRank, ok := seniorityRank[level]
	if !ok {
		return pol.Miss
	}
	for want := range p.SeniorityLevels {
		if wantRank, ok := seniorityRank[want]; ok && abs(jobRank-wantRank) == 1 {
			return pol.Adjacent
		}
	}
	return pol.Miss
}

// ScoreCompanySize parses the job's company size into a representative
// midpoint and checks it against the preferred bands. A midpoint one band
// away on the canonical ladder earns adjacency credit.
func ScoreCompanySize(j model.Job, p Preferences, pol Policy) float64 {
	if len(p.CompanySizes) == 0 {
		return pol.Neutral
	}
	mid, ok := companySizeMidpoint(j.CompanySize)
	if !ok {
		return pol.MissingData
	}

	bestDist := math.MaxInt
	jobStep := ladderStep(mid)
	for band := range p.CompanySizes {
		lo, hi, ok := parseSizeBand(band)
		if !ok {
			continue
		}
		if mid >= lo && mid <= hi {
			return 1.0
		}
		prefMid := lo
		if !math.IsInf(hi, 1) {
			prefMid = (lo + hi) / 2
		}
		if d := abs(jobStep - ladderStep(prefMid)); d < bestDist {
			bestDist = d
		}
	}
	if bestDist == 1 {
		return pol.Adjacent
	}
	return pol.Miss
}

// ScoreEmploymentType applies best-match semantics across the job's one or
// more employment type tokens: any token present in the preferred set is a
// full match.
func ScoreEmploymentType(j model.Job, p Preferences, pol Policy) float64 {
	if len(p.EmploymentTypes) == 0 {
		return pol.Neutral
	}
	matched := false
	present := false
	for _, t := range j.EmploymentTypes {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		present = true
		if _, ok := p.EmploymentTypes[t]; ok {
			matched = true
		}
	}
	if !present {
		return pol.MissingData
	}
	if matched {
		return 1.0
	}
	return pol.Miss
}

// ScoreSkills computes the overlap between the job's extracted skills and
// the campaign's skill set: |intersection| / |preference skills|, capped
// at 1.0.
func ScoreSkills(j model.Job, p Preferences, pol Policy) float64 {
	if len(p.Skills) == 0 {
		return pol.Neutral
	}
	if len(j.ExtractedSkills) == 0 {
		return pol.MissingData
	}
	seen := make(map[string]struct{}, len(j.ExtractedSkills))
	matches := 0
	for _, s := range j.ExtractedSkills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		if _, ok := p.Skills[s]; ok {
			matches++
		}
	}
	score := float64(matches) / math.Max(1, float64(len(p.Skills)))
	return math.Min(1.0, score)
}

// scoreTokenMembership is the shared best-of-multiple-preferences check for
// single-token job dimensions.
func scoreTokenMembership(jobToken string, prefSet map[string]struct{}, pol Policy) float64 {
	if len(prefSet) == 0 {
		return pol.Neutral
	}
	tok := strings.ToLower(strings.TrimSpace(jobToken))
	if tok == "" {
		return pol.MissingData
	}
	if _, ok := prefSet[tok]; ok {
		return 1.0
	}
	return pol.Miss
}

// companySizeMidpoint parses a company_size string into a representative
// number: "X-Y" becomes the mean of its bounds, "N+" and plain "N" become N.
func companySizeMidpoint(s string) (float64, bool) {
	lo, hi, ok := parseSizeBand(s)
	if !ok {
		return 0, false
	}
	if math.IsInf(hi, 1) {
		return lo, true
	}
	return (lo + hi) / 2, true
}

// parseSizeBand parses "X-Y", "N+" or "N" (commas and spaces tolerated)
// into numeric bounds. "N+" is open-ended on the high side.
func parseSizeBand(s string) (lo, hi float64, ok bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, 0, false
	}

	if strings.HasSuffix(s, "+") {
		n, err := strconv.ParseFloat(strings.TrimSuffix(s, "+"), 64)
		if err != nil {
			return 0, 0, false
		}
		return n, math.Inf(1), true
	}

	if i := strings.IndexByte(s, '-'); i > 0 {
		a, errA := strconv.ParseFloat(s[:i], 64)
		b, errB := strconv.ParseFloat(s[i+1:], 64)
		if errA != nil || errB != nil {
			return 0, 0, false
		}
		if a > b {
			a, b = b, a
		}
		return a, b, true
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, 0, false
	}
	return n, n, true
}

// ladderStep returns the index of the canonical band containing n.
// Values between bands (fractional midpoints) round up to the next band;
// values below the first band map to it.
func ladderStep(n float64) int {
	for i, band := range companySizeLadder {
		if n <= band.hi {
			return i
		}
	}
	return len(companySizeLadder) - 1
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
