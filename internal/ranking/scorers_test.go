package ranking_test

import (
	"math"
	"testing"

	"jobmate/ranking-service/internal/model"
	"jobmate/ranking-service/internal/ranking"
)

const eps = 1e-9

func f64(v float64) *float64 { return &v }

func prefsWith(mutate func(*ranking.Preferences)) ranking.Preferences {
	p := ranking.ParsePreferences(model.Campaign{ID: 1}, ranking.DefaultWeights())
	if mutate != nil {
		mutate(&p)
	}
	return p
}

func tokenSet(tokens ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// ── Location ───────────────────────────────────────────────────────────────

func TestScoreLocation(t *testing.T) {
	pol := ranking.DefaultPolicy()
	tests := []struct {
		name     string
		job      model.Job
		prefLoc  string
		expected float64
	}{
		{"no preference is neutral", model.Job{Location: "Paris, France"}, "", pol.Neutral},
		{"missing job location", model.Job{}, "paris", pol.MissingData},
		{"substring match", model.Job{Location: "Paris, France"}, "paris", 1.0},
		{"reverse containment", model.Job{Location: "Lyon"}, "lyon, france", 1.0},
		{"case-insensitive", model.Job{Location: "BERLIN"}, "berlin", 1.0},
		{"no match", model.Job{Location: "Madrid, Spain"}, "berlin", pol.Miss},
		{"composed from city/country", model.Job{City: "Austin", State: "TX", Country: "US"}, "austin", 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := prefsWith(func(p *ranking.Preferences) { p.Location = tt.prefLoc })
			got := ranking.ScoreLocation(tt.job, p, pol)
			if math.Abs(got-tt.expected) > eps {
				t.Errorf("ScoreLocation = %v, want %v", got, tt.expected)
			}
		})
	}
}

// ── Salary ─────────────────────────────────────────────────────────────────

func TestScoreSalary(t *testing.T) {
	pol := ranking.DefaultPolicy()
	tests := []struct {
		name     string
		job      model.Job
		min, max *float64
		expected float64
	}{
		{
			name:     "no preference bounds is neutral",
			job:      model.Job{MinSalary: f64(90000), MaxSalary: f64(110000), SalaryPeriod: "YEAR"},
			expected: pol.Neutral,
		},
		{
			name:     "missing job salary",
			job:      model.Job{},
			min:      f64(100000), max: f64(120000),
			expected: pol.MissingData,
		},
		{
			name:     "full containment",
			job:      model.Job{MinSalary: f64(90000), MaxSalary: f64(110000), SalaryPeriod: "year"},
			min:      f64(50000), max: f64(200000),
			expected: 1.0,
		},
		{
			name:     "partial overlap is proportional",
			job:      model.Job{MinSalary: f64(90000), MaxSalary: f64(110000), SalaryPeriod: "year"},
			min:      f64(100000), max: f64(120000),
			expected: 0.5, // 10k overlap / 20k job span
		},
		{
			name:     "no overlap",
			job:      model.Job{MinSalary: f64(40000), MaxSalary: f64(50000), SalaryPeriod: "YEAR"},
			min:      f64(100000), max: f64(120000),
			expected: pol.Miss,
		},
		{
			name:     "hourly rate normalised to yearly",
			job:      model.Job{MinSalary: f64(50), MaxSalary: f64(60), SalaryPeriod: "HOUR"},
			min:      f64(100000), max: f64(130000), // 104k-124.8k yearly, fully contained
			expected: 1.0,
		},
		{
			name:     "monthly rate normalised to yearly",
			job:      model.Job{MinSalary: f64(5000), MaxSalary: f64(5000), SalaryPeriod: "MONTH"},
			min:      f64(50000), max: f64(70000), // 60k yearly single point inside
			expected: 1.0,
		},
		{
			name:     "single-sided job bound treated as point",
			job:      model.Job{MaxSalary: f64(110000), SalaryPeriod: "YEAR"},
			min:      f64(100000), max: f64(120000),
			expected: 1.0,
		},
		{
			name:     "open-ended preference minimum",
			job:      model.Job{MinSalary: f64(120000), MaxSalary: f64(140000), SalaryPeriod: "YEAR"},
			min:      f64(100000),
			expected: 1.0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := prefsWith(func(p *ranking.Preferences) {
				p.MinSalary = tt.min
				p.MaxSalary = tt.max
			})
			got := ranking.ScoreSalary(tt.job, p, pol)
			if math.Abs(got-tt.expected) > eps {
				t.Errorf("ScoreSalary = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestScoreSalary_PartialStrictlyBetweenMissAndFull(t *testing.T) {
	pol := ranking.DefaultPolicy()
	job := model.Job{MinSalary: f64(90000), MaxSalary: f64(110000), SalaryPeriod: "year"}
	p := prefsWith(func(p *ranking.Preferences) {
		p.MinSalary = f64(100000)
		p.MaxSalary = f64(120000)
	})
	got := ranking.ScoreSalary(job, p, pol)
	if got <= pol.Miss || got >= 1.0 {
		t.Errorf("partial overlap score %v should be strictly between %v and 1.0", got, pol.Miss)
	}
}

// ── Remote type ────────────────────────────────────────────────────────────

func TestScoreRemoteType(t *testing.T) {
	pol := ranking.DefaultPolicy()
	tests := []struct {
		name     string
		jobType  string
		prefSet  []string
		expected float64
	}{
		{"no preference is neutral", "hybrid", nil, pol.Neutral},
		{"missing job data", "", []string{"remote"}, pol.MissingData},
		{"best match in multi-select", "hybrid", []string{"remote", "hybrid"}, 1.0},
		{"stated but no match", "hybrid", []string{"remote", "onsite"}, pol.Miss},
		{"case-insensitive match", "REMOTE", []string{"remote"}, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := prefsWith(func(p *ranking.Preferences) { p.RemoteTypes = tokenSet(tt.prefSet...) })
			got := ranking.ScoreRemoteType(model.Job{RemoteWorkType: tt.jobType}, p, pol)
			if math.Abs(got-tt.expected) > eps {
				t.Errorf("ScoreRemoteType = %v, want %v", got, tt.expected)
			}
		})
	}
}

// ── Seniority ──────────────────────────────────────────────────────────────

func TestScoreSeniority(t *testing.T) {
	pol := ranking.DefaultPolicy()
	tests := []struct {
		name     string
		jobLevel string
		prefSet  []string
		expected float64
	}{
		{"no preference is neutral", "senior", nil, pol.Neutral},
		{"missing job level", "", []string{"mid"}, pol.MissingData},
		{"exact match", "senior", []string{"senior", "executive"}, 1.0},
		{"adjacent level earns partial credit", "senior", []string{"mid"}, pol.Adjacent},
		{"adjacent downward too", "junior", []string{"mid"}, pol.Adjacent},
		{"two steps away is a miss", "intern", []string{"mid"}, pol.Miss},
		{"unknown level off the scale", "wizard", []string{"mid"}, pol.Miss},
		{"unknown level can still match exactly", "wizard", []string{"wizard"}, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := prefsWith(func(p *ranking.Preferences) { p.SeniorityLevels = tokenSet(tt.prefSet...) })
			got := ranking.ScoreSeniority(model.Job{SeniorityLevel: tt.jobLevel}, p, pol)
			if math.Abs(got-tt.expected) > eps {
				t.Errorf("ScoreSeniority = %v, want %v", got, tt.expected)
			}
		})
	}
}

// ── Company size ───────────────────────────────────────────────────────────

func TestScoreCompanySize(t *testing.T) {
	pol := ranking.DefaultPolicy()
	tests := []struct {
		name     string
		jobSize  string
		prefSet  []string
		expected float64
	}{
		{"no preference is neutral", "250", nil, pol.Neutral},
		{"missing job size", "", []string{"51-200"}, pol.MissingData},
		{"unparsable job size", "huge", []string{"51-200"}, pol.MissingData},
		{"midpoint inside preferred band", "51-200", []string{"51-200"}, 1.0},
		{"single number inside band", "150", []string{"51-200"}, 1.0},
		{"open-ended band match", "25000", []string{"10000+"}, 1.0},
		{"adjacent band earns partial credit", "300", []string{"51-200"}, pol.Adjacent},
		{"distant band is a miss", "8000", []string{"1-50"}, pol.Miss},
		{"range midpoint used for comparison", "40-60", []string{"1-50"}, 1.0}, // midpoint 50
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := prefsWith(func(p *ranking.Preferences) { p.CompanySizes = tokenSet(tt.prefSet...) })
			got := ranking.ScoreCompanySize(model.Job{CompanySize: tt.jobSize}, p, pol)
			if math.Abs(got-tt.expected) > eps {
				t.Errorf("ScoreCompanySize = %v, want %v", got, tt.expected)
			}
		})
	}
}

// ── Employment type ────────────────────────────────────────────────────────

func TestScoreEmploymentType(t *testing.T) {
	pol := ranking.DefaultPolicy()
	tests := []struct {
		name     string
		jobTypes []string
		prefSet  []string
		expected float64
	}{
		{"no preference is neutral", []string{"fulltime"}, nil, pol.Neutral},
		{"missing job types", nil, []string{"fulltime"}, pol.MissingData},
		{"any job token matching is full credit", []string{"contract", "fulltime"}, []string{"fulltime"}, 1.0},
		{"no token matches", []string{"contract", "parttime"}, []string{"fulltime"}, pol.Miss},
		{"blank tokens ignored", []string{"", "  "}, []string{"fulltime"}, pol.MissingData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := prefsWith(func(p *ranking.Preferences) { p.EmploymentTypes = tokenSet(tt.prefSet...) })
			got := ranking.ScoreEmploymentType(model.Job{EmploymentTypes: tt.jobTypes}, p, pol)
			if math.Abs(got-tt.expected) > eps {
				t.Errorf("ScoreEmploymentType = %v, want %v", got, tt.expected)
			}
		})
	}
}

// ── Skills ─────────────────────────────────────────────────────────────────

func TestScoreSkills(t *testing.T) {
	pol := ranking.DefaultPolicy()
	tests := []struct {
		name      string
		jobSkills []string
		prefSet   []string
		expected  float64
	}{
		{"no preference is neutral", []string{"go"}, nil, pol.Neutral},
		{"no extracted skills", nil, []string{"python"}, pol.MissingData},
		{"partial overlap", []string{"python", "sql"}, []string{"python", "sql", "aws"}, 2.0 / 3.0},
		{"full overlap", []string{"python", "sql"}, []string{"python", "sql"}, 1.0},
		{"superset capped at one", []string{"python", "sql", "aws", "gcp"}, []string{"python"}, 1.0},
		{"zero overlap", []string{"cobol"}, []string{"python", "sql"}, 0.0},
		{"duplicate job skills counted once", []string{"python", "Python", "PYTHON"}, []string{"python", "sql"}, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := prefsWith(func(p *ranking.Preferences) { p.Skills = tokenSet(tt.prefSet...) })
			got := ranking.ScoreSkills(model.Job{ExtractedSkills: tt.jobSkills}, p, pol)
			if math.Abs(got-tt.expected) > eps {
				t.Errorf("ScoreSkills = %v, want %v", got, tt.expected)
			}
		})
	}
}

// ── Range invariant ────────────────────────────────────────────────────────

// Every scorer must stay inside [0, 1] for any input shape.
func TestScorers_AlwaysInUnitRange(t *testing.T) {
	pol := ranking.DefaultPolicy()
	jobs := []model.Job{
		{},
		{Location: "Paris", MinSalary: f64(-5), MaxSalary: f64(1e12), SalaryPeriod: "fortnight"},
		{RemoteWorkType: "  HYBRID ", SeniorityLevel: "SENIOR", CompanySize: "-10"},
		{EmploymentTypes: []string{"", "x"}, ExtractedSkills: []string{"a", "b", "c", "d", "e"}},
	}
	prefSets := []ranking.Preferences{
		prefsWith(nil),
		prefsWith(func(p *ranking.Preferences) {
			p.Location = "paris"
			p.MinSalary = f64(0)
			p.MaxSalary = f64(1)
			p.RemoteTypes = tokenSet("remote")
			p.SeniorityLevels = tokenSet("executive")
			p.CompanySizes = tokenSet("1-50", "10000+")
			p.EmploymentTypes = tokenSet("fulltime")
			p.Skills = tokenSet("a")
		}),
	}

	scorers := map[string]func(model.Job, ranking.Preferences, ranking.Policy) float64{
		"location":        ranking.ScoreLocation,
		"salary":          ranking.ScoreSalary,
		"remote_type":     ranking.ScoreRemoteType,
		"seniority":       ranking.ScoreSeniority,
		"company_size":    ranking.ScoreCompanySize,
		"employment_type": ranking.ScoreEmploymentType,
		"skills":          ranking.ScoreSkills,
	}

	for name, score := range scorers {
		for _, j := range jobs {
			for _, p := range prefSets {
				got := score(j, p, pol)
				if got < 0 || got > 1 {
					t.Errorf("%s scorer returned %v, outside [0, 1]", name, got)
				}
			}
		}
	}
}
