// Package ranking implements the job ranking engine: it scores one job
// posting against one campaign's preference set, producing a weighted rank
// score plus a per-factor explanation.
//
// The engine is pure — it performs no I/O. Preferences are parsed once per
// campaign into a Preferences value object and reused across every job
// scored against it; scorers never re-split the raw delimited strings.
package ranking

import (
	"strconv"
	"strings"

	"jobmate/ranking-service/internal/model"
)

// Preferences is a campaign's preference set normalised for scoring.
// Empty sets and nil bounds mean "no stated preference" (neutral), never
// "exclude everything".
type Preferences struct {
	CampaignID      int64
	Location        string // trimmed, lowercase; empty means no preference
	MinSalary       *float64
	MaxSalary       *float64
	RemoteTypes     map[string]struct{}
	SeniorityLevels map[string]struct{}
	CompanySizes    map[string]struct{}
	EmploymentTypes map[string]struct{}
	Skills          map[string]struct{}
	Weights         Weights // fully populated: campaign overrides over defaults
}

// ParsePreferences normalises a campaign's raw preference fields.
// Malformed numeric input (salary bounds, weights) degrades to
// absent/default — preferences are user-entered text and never error.
func ParsePreferences(c model.Campaign, defaults Weights) Preferences {
	return Preferences{
		CampaignID:      c.ID,
		Location:        strings.ToLower(strings.TrimSpace(c.Location)),
		MinSalary:       parseSalaryBound(c.MinSalary),
		MaxSalary:       parseSalaryBound(c.MaxSalary),
		RemoteTypes:     splitTokenSet(c.RemoteTypes, ","),
		SeniorityLevels: splitTokenSet(c.SeniorityLevels, ","),
		CompanySizes:    splitTokenSet(c.CompanySizes, ","),
		EmploymentTypes: splitTokenSet(c.EmploymentTypes, ","),
		Skills:          splitTokenSet(c.Skills, ",;"),
		Weights:         resolveWeights(c.Weights, defaults),
	}
}

// HasAnyPreference reports whether at least one dimension carries a stated
// preference. A campaign with none produces the same score for every job.
func (p Preferences) HasAnyPreference() bool {
	return p.Location != "" ||
		p.MinSalary != nil || p.MaxSalary != nil ||
		len(p.RemoteTypes) > 0 ||
		len(p.SeniorityLevels) > 0 ||
		len(p.CompanySizes) > 0 ||
		len(p.EmploymentTypes) > 0 ||
		len(p.Skills) > 0
}

// splitTokenSet splits s on any of the given separator characters, trims
// whitespace, lower-cases, and drops empty tokens. An all-empty result
// means "no preference" for that dimension.
func splitTokenSet(s, seps string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(seps, r)
	}) {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok != "" {
			set[tok] = struct{}{}
		}
	}
	return set
}

// parseSalaryBound parses a user-entered salary bound. Currency symbols,
// thousands separators and surrounding whitespace are tolerated; anything
// non-numeric beyond that means "no bound on this side".
func parseSalaryBound(s string) *float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}

// resolveWeights overlays a campaign's explicit weights on the defaults.
// Unknown factor names, negative values and non-numeric values are ignored.
func resolveWeights(raw map[string]any, defaults Weights) Weights {
	resolved := make(Weights, len(defaults))
	for name, w := range defaults {
		resolved[name] = w
	}
	for name, v := range raw {
		if _, known := resolved[name]; !known {
			continue
		}
		w, ok := coerceWeight(v)
		if !ok || w < 0 {
			continue
		}
		resolved[name] = w
	}
	return resolved
}

// coerceWeight converts a decoded JSONB weight value to float64.
// Numbers arrive as float64 from encoding/json, but string-typed numerics
// from older campaign rows are accepted too.
func coerceWeight(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		w, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return w, true
	default:
		return 0, false
	}
}
