package state

import (
	"fmt"
	"sync"
	"time"
)

// Report describes one completed refresh cycle.
type Report struct {
	Cycle    int
	Interval int
	Duration time.Duration
	RSS      uint64
	Rows     int
	At       time.Time
}

// Snapshot is the diagnostic view of the refresh loop shown by the UI.
type Snapshot struct {
	SlurmVersion        string
	Last                Report
	HasReport           bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive failed cycles
	Failures            int
}

// IsStale returns true when the table has missed several refreshes in a row.
func (s Snapshot) IsStale() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the diagnostic snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// SetSlurmVersion records the version reported by squeue at startup.
func (s *Store) SetSlurmVersion(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.SlurmVersion = v
}

// Update records the outcome of a cycle. When err is non-nil the previous
// report is kept but the error is recorded for visibility.
func (s *Store) Update(report Report, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := report.At
	if now.IsZero() {
		now = time.Now()
	}
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = now
		s.snapshot.ConsecutiveFailures++
		s.snapshot.Failures++
		return
	}

	report.At = now
	s.snapshot.Last = report
	s.snapshot.HasReport = true
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = now
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
