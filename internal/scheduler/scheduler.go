// Package scheduler wires up the cron job that periodically triggers a rank
// cycle over all active campaigns.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/robfig/cron/v3"

	"jobmate/ranking-service/internal/batch"
)

// Scheduler wraps robfig/cron and manages the rank cycle loop.
type Scheduler struct {
	cron    *cron.Cron
	runner  *batch.Runner
	spec    string // cron spec, e.g. "@every 6h"
	running atomic.Bool
}

// New creates a Scheduler that fires every intervalHours hours.
func New(runner *batch.Runner, intervalHours int) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(cron.DefaultLogger)),
		runner: runner,
		spec:   fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Start registers the job and starts the scheduler. Also runs one cycle
// immediately so fresh campaigns are ranked without waiting for the first
// tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runCycle(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started — spec: %s", s.spec)

	// Run immediately on startup (non-blocking)
	go s.runCycle(ctx)

	return nil
}

// Trigger fires a rank cycle outside the cron cadence (e.g. from the
// /rerank endpoint). Non-blocking.
func (s *Scheduler) Trigger(ctx context.Context) {
	go s.runCycle(ctx)
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[scheduler] Cron stopped")
}

// runCycle runs one rank cycle, skipping the tick if a cycle is already in
// flight so overlapping runs never contend for the same pairs.
func (s *Scheduler) runCycle(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		log.Println("[scheduler] Rank cycle already in flight — skipping tick")
		return
	}
	defer s.running.Store(false)

	if _, err := s.runner.RunCycle(ctx); err != nil {
		log.Printf("[scheduler] Rank cycle error: %v", err)
	}
}
