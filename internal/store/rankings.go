// Package store is the ranking service's Postgres access layer: it loads
// active campaigns and their jobs awaiting (re-)ranking, and upserts
// ranking results keyed by (jsearch_job_id, campaign_id).
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"jobmate/ranking-service/internal/model"
)

// Store wraps the pgx pool with ranking-specific queries.
type Store struct {
	pool *pgxpool.Pool
}

// New returns a Store backed by the given pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// LoadActiveCampaigns fetches all is_active = true campaigns with their raw
// preference fields and weight overrides.
func (s *Store) LoadActiveCampaigns(ctx context.Context) ([]model.Campaign, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT campaign_id,
		        COALESCE(location, ''),
		        COALESCE(min_salary, ''),
		        COALESCE(max_salary, ''),
		        COALESCE(remote_types, ''),
		        COALESCE(seniority_levels, ''),
		        COALESCE(company_sizes, ''),
		        COALESCE(employment_types, ''),
		        COALESCE(skills, ''),
		        COALESCE(weights, '{}'::jsonb),
		        updated_at
		 FROM campaigns
		 WHERE is_active = true`,
	)
	if err != nil {
		return nil, fmt.Errorf("query campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []model.Campaign
	for rows.Next() {
		var c model.Campaign
		var weightsJSON []byte
		if err := rows.Scan(
			&c.ID, &c.Location, &c.MinSalary, &c.MaxSalary,
			&c.RemoteTypes, &c.SeniorityLevels, &c.CompanySizes,
			&c.EmploymentTypes, &c.Skills, &weightsJSON, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		if err := json.Unmarshal(weightsJSON, &c.Weights); err != nil {
			// Corrupt weights JSONB degrades to defaults downstream.
			c.Weights = nil
		}
		campaigns = append(campaigns, c)
	}

	return campaigns, rows.Err()
}

// LoadJobsNeedingRank fetches the campaign's jobs whose ranking row is
// missing or stale — older than the job's last enrichment or the campaign's
// last preference change.
func (s *Store) LoadJobsNeedingRank(ctx context.Context, campaignID int64) ([]model.Job, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT j.jsearch_job_id, j.campaign_id,
		        COALESCE(j.job_city, ''), COALESCE(j.job_state, ''), COALESCE(j.job_country, ''),
		        COALESCE(j.job_location, ''),
		        j.job_min_salary, j.job_max_salary,
		        COALESCE(j.job_salary_period, ''), COALESCE(j.job_salary_currency, ''),
		        COALESCE(j.remote_work_type, ''), COALESCE(j.seniority_level, ''),
		        COALESCE(j.company_size, ''),
		        COALESCE(j.employment_types, '{}'), COALESCE(j.extracted_skills, '{}'),
		        j.enriched_at
		 FROM jobs j
		 JOIN campaigns c ON c.campaign_id = j.campaign_id
		 LEFT JOIN job_rankings r
		   ON r.jsearch_job_id = j.jsearch_job_id AND r.campaign_id = j.campaign_id
		 WHERE j.campaign_id = $1
		   AND (r.jsearch_job_id IS NULL
		        OR r.ranked_at < j.enriched_at
		        OR r.ranked_at < c.updated_at)`,
		campaignID,
	)
	if err != nil {
		return nil, fmt.Errorf("query jobs for campaign %d: %w", campaignID, err)
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		var j model.Job
		if err := rows.Scan(
			&j.JSearchJobID, &j.CampaignID,
			&j.City, &j.State, &j.Country, &j.Location,
			&j.MinSalary, &j.MaxSalary,
			&j.SalaryPeriod, &j.SalaryCurrency,
			&j.RemoteWorkType, &j.SeniorityLevel, &j.CompanySize,
			&j.EmploymentTypes, &j.ExtractedSkills,
			&j.EnrichedAt,
		); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, j)
	}

	return jobs, rows.Err()
}

// UpsertRanking writes one ranking result, overwriting any prior row for the
// same (jsearch_job_id, campaign_id) pair. Returns whether the row was newly
// inserted (as opposed to updated in place).
func (s *Store) UpsertRanking(ctx context.Context, r model.RankingResult) (inserted bool, err error) {
	explainJSON, err := json.Marshal(r.Explain)
	if err != nil {
		return false, fmt.Errorf("marshal rank_explain: %w", err)
	}

	// xmax = 0 only on a freshly inserted tuple.
	err = s.pool.QueryRow(ctx,
		`INSERT INTO job_rankings (jsearch_job_id, campaign_id, rank_score, rank_explain, ranked_at)
		 VALUES ($1, $2, $3, $4::jsonb, NOW())
		 ON CONFLICT (jsearch_job_id, campaign_id)
		 DO UPDATE SET rank_score   = EXCLUDED.rank_score,
		               rank_explain = EXCLUDED.rank_explain,
		               ranked_at    = EXCLUDED.ranked_at
		 RETURNING (xmax = 0)`,
		r.JSearchJobID, r.CampaignID, r.RankScore, string(explainJSON),
	).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("upsert ranking (%s, %d): %w", r.JSearchJobID, r.CampaignID, err)
	}

	return inserted, nil
}
