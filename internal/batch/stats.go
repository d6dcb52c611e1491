package batch

import (
	"fmt"
	"sync/atomic"
)

// CycleStats tracks cumulative counters for one rank cycle.
// All operations are thread-safe using atomic counters.
type CycleStats struct {
	inserted int64 // rankings written for the first time
	updated  int64 // rankings overwritten in place
	failed   int64 // pairs that exhausted retries or hit a store error
	skipped  int64 // pairs rejected before scoring (corrupt job identity)
}

// RecordInsert increments the inserted counter.
func (s *CycleStats) RecordInsert() { atomic.AddInt64(&s.inserted, 1) }

// RecordUpdate increments the updated counter.
func (s *CycleStats) RecordUpdate() { atomic.AddInt64(&s.updated, 1) }

// RecordFailure increments the failed counter.
func (s *CycleStats) RecordFailure() { atomic.AddInt64(&s.failed, 1) }

// RecordSkip increments the skipped counter.
func (s *CycleStats) RecordSkip() { atomic.AddInt64(&s.skipped, 1) }

// Inserted returns the number of newly inserted rankings.
func (s *CycleStats) Inserted() int64 { return atomic.LoadInt64(&s.inserted) }

// Updated returns the number of overwritten rankings.
func (s *CycleStats) Updated() int64 { return atomic.LoadInt64(&s.updated) }

// Failed returns the number of failed pairs.
func (s *CycleStats) Failed() int64 { return atomic.LoadInt64(&s.failed) }

// Skipped returns the number of skipped pairs.
func (s *CycleStats) Skipped() int64 { return atomic.LoadInt64(&s.skipped) }

// Ranked returns the total number of successfully stored rankings.
func (s *CycleStats) Ranked() int64 { return s.Inserted() + s.Updated() }

// String returns a human-readable summary of the cycle.
func (s *CycleStats) String() string {
	return fmt.Sprintf("ranked=%d (inserted=%d updated=%d) failed=%d skipped=%d",
		s.Ranked(), s.Inserted(), s.Updated(), s.Failed(), s.Skipped())
}
