// Package batch drives rank cycles: for every active campaign it parses the
// preference set once, then scores and upserts each pending job against it.
//
// Pairs are independent — each owns a disjoint (jsearch_job_id, campaign_id)
// key — so they are scored and written concurrently with no ordering
// requirement. One corrupt job or failed write never aborts the cycle.
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"jobmate/ranking-service/internal/model"
	"jobmate/ranking-service/internal/ranking"
)

const (
	// rankCycleChannel is the Redis pub/sub channel the Gateway subscribes
	// to for SSE forwarding of cycle completions.
	rankCycleChannel = "EVENT_RANK_CYCLE"

	upsertMaxRetries   = 3
	upsertMaxElapsed   = 15 * time.Second
	upsertInitialDelay = 100 * time.Millisecond
)

// Store is the persistence boundary the runner depends on. The pgx
// implementation lives in internal/store; tests substitute an in-memory one.
type Store interface {
	LoadActiveCampaigns(ctx context.Context) ([]model.Campaign, error)
	LoadJobsNeedingRank(ctx context.Context, campaignID int64) ([]model.Job, error)
	UpsertRanking(ctx context.Context, r model.RankingResult) (inserted bool, err error)
}

// Runner executes rank cycles over the cross-product of active campaigns
// and their pending jobs.
type Runner struct {
	store   Store
	rdb     *redis.Client // nil disables cycle events
	weights ranking.Weights
	policy  ranking.Policy
	workers int
	metrics *Metrics // nil disables metrics
}

// NewRunner constructs a Runner. weights is the system default weight
// table (campaign overrides are applied per campaign during parsing).
func NewRunner(store Store, rdb *redis.Client, weights ranking.Weights, workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		store:   store,
		rdb:     rdb,
		weights: weights,
		policy:  ranking.DefaultPolicy(),
		workers: workers,
	}
}

// SetMetrics attaches Prometheus metrics to the runner.
func (r *Runner) SetMetrics(m *Metrics) { r.metrics = m }

// RunCycle scores every pending (job, campaign) pair once. Per-pair
// failures are counted and logged but never abort the cycle; cancellation
// is honoured between pairs. The returned stats are valid even when an
// error is returned.
func (r *Runner) RunCycle(ctx context.Context) (*CycleStats, error) {
	start := time.Now()
	stats := &CycleStats{}

	campaigns, err := r.store.LoadActiveCampaigns(ctx)
	if err != nil {
		return stats, fmt.Errorf("load active campaigns: %w", err)
	}
	if len(campaigns) == 0 {
		log.Println("[batch] No active campaigns — nothing to rank")
		return stats, nil
	}

	log.Printf("[batch] Rank cycle started — %d campaign(s), %d worker(s)", len(campaigns), r.workers)

	for _, c := range campaigns {
		if ctx.Err() != nil {
			break
		}
		if err := r.rankCampaign(ctx, c, stats); err != nil {
			log.Printf("[batch] Error ranking campaign %d: %v — continuing", c.ID, err)
		}
	}

	elapsed := time.Since(start)
	if r.metrics != nil {
		r.metrics.ObserveCycle(elapsed.Seconds())
	}
	log.Printf("[batch] Rank cycle complete in %s — %s", elapsed.Round(time.Millisecond), stats)

	r.publishCycleEvent(ctx, stats, elapsed)

	return stats, ctx.Err()
}

// rankCampaign parses the campaign's preferences once and scores all its
// pending jobs concurrently.
func (r *Runner) rankCampaign(ctx context.Context, c model.Campaign, stats *CycleStats) error {
	prefs := ranking.ParsePreferences(c, r.weights)

	jobs, err := r.store.LoadJobsNeedingRank(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("load jobs: %w", err)
	}
	if len(jobs) == 0 {
		return nil
	}

	var g errgroup.Group
	g.SetLimit(r.workers)

	for _, job := range jobs {
		if ctx.Err() != nil {
			break
		}
		job := job
		g.Go(func() error {
			r.rankPair(ctx, job, prefs, stats)
			return nil
		})
	}

	return g.Wait()
}

// rankPair scores one pair and upserts the result, retrying transient
// store failures with bounded backoff. All outcomes are absorbed into
// stats — a pair failure is isolated by design.
func (r *Runner) rankPair(ctx context.Context, job model.Job, prefs ranking.Preferences, stats *CycleStats) {
	if job.JSearchJobID == "" {
		slog.Warn("skipping corrupt job record: missing jsearch_job_id",
			"campaign_id", prefs.CampaignID)
		stats.RecordSkip()
		r.observePair(StatusSkipped)
		return
	}

	score, explain := ranking.Score(job, prefs, r.policy)
	result := model.RankingResult{
		JSearchJobID: job.JSearchJobID,
		CampaignID:   prefs.CampaignID,
		RankScore:    score,
		Explain:      explain,
	}

	var inserted bool
	op := func() error {
		var err error
		inserted, err = r.store.UpsertRanking(ctx, result)
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = upsertInitialDelay
	bo.MaxElapsedTime = upsertMaxElapsed

	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, upsertMaxRetries), ctx)); err != nil {
		slog.Warn("upsert ranking failed after retries",
			"jsearch_job_id", job.JSearchJobID,
			"campaign_id", prefs.CampaignID,
			"err", err)
		stats.RecordFailure()
		r.observePair(StatusFailed)
		return
	}

	if inserted {
		stats.RecordInsert()
	} else {
		stats.RecordUpdate()
	}
	r.observePair(StatusRanked)
}

// publishCycleEvent notifies the Gateway that a cycle finished (non-fatal).
func (r *Runner) publishCycleEvent(ctx context.Context, stats *CycleStats, elapsed time.Duration) {
	if r.rdb == nil {
		return
	}
	event, _ := json.Marshal(map[string]any{
		"type":       rankCycleChannel,
		"ranked":     stats.Ranked(),
		"inserted":   stats.Inserted(),
		"updated":    stats.Updated(),
		"failed":     stats.Failed(),
		"skipped":    stats.Skipped(),
		"durationMs": elapsed.Milliseconds(),
	})
	if err := r.rdb.Publish(ctx, rankCycleChannel, event).Err(); err != nil {
		slog.Warn("publish EVENT_RANK_CYCLE failed", "err", err)
	}
}

func (r *Runner) observePair(status string) {
	if r.metrics != nil {
		r.metrics.ObservePair(status)
	}
}
