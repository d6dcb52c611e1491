package ranking

import (
	"strings"

	"jobmate/ranking-service/internal/model"
)

// yearlyMultiplier converts a job_salary_period token to a factor that
// turns per-period amounts into yearly amounts. Assumes full-time:
// 40h weeks, 5-day weeks, 52 weeks a year.
func yearlyMultiplier(period string) float64 {
	switch strings.ToUpper(strings.TrimSpace(period)) {
	case "", "YEAR", "YEARLY", "ANNUAL", "ANNUM":
		return 1
	case "MONTH", "MONTHLY":
		return 12
	case "WEEK", "WEEKLY":
		return 52
	case "DAY", "DAILY":
		return 260
	case "HOUR", "HOURLY":
		return 2080
	default:
		// Unknown period: treat amounts as already yearly rather than
		// discarding the data point.
		return 1
	}
}

// yearlySalaryRange normalises a job's salary range to yearly amounts.
// A single-sided range collapses to a point. Returns ok=false when the
// job carries no salary data at all.
func yearlySalaryRange(j model.Job) (lo, hi float64, ok bool) {
	if j.MinSalary == nil && j.MaxSalary == nil {
		return 0, 0, false
	}

	mult := yearlyMultiplier(j.SalaryPeriod)
	switch {
	case j.MinSalary == nil:
		lo, hi = *j.MaxSalary, *j.MaxSalary
	case j.MaxSalary == nil:
		lo, hi = *j.MinSalary, *j.MinSalary
	default:
		lo, hi = *j.MinSalary, *j.MaxSalary
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo * mult, hi * mult, true
}
