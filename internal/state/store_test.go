package state

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestStore_UpdateRecordsReport(t *testing.T) {
	var s Store

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.Update(Report{Cycle: 3, Interval: 5, Duration: 40 * time.Millisecond, RSS: 1 << 20, Rows: 12, At: at}, nil)

	snap := s.Snapshot()
	if !snap.HasReport {
		t.Fatal("HasReport = false, want true")
	}
	if snap.Last.Cycle != 3 || snap.Last.Rows != 12 || snap.Last.RSS != 1<<20 {
		t.Fatalf("Last = %#v, want cycle=3 rows=12 rss=1MiB", snap.Last)
	}
	if !snap.LastUpdated.Equal(at) {
		t.Fatalf("LastUpdated = %v, want %v", snap.LastUpdated, at)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}
}

func TestStore_UpdateStampsZeroTime(t *testing.T) {
	var s Store

	before := time.Now()
	s.Update(Report{Cycle: 1}, nil)

	snap := s.Snapshot()
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if !snap.Last.At.Equal(snap.LastUpdated) {
		t.Fatalf("Last.At = %v, want %v", snap.Last.At, snap.LastUpdated)
	}
}

func TestStore_UpdateErrorKeepsPreviousReport(t *testing.T) {
	var s Store

	s.Update(Report{Cycle: 1, Rows: 4}, nil)
	prev := s.Snapshot()

	before := time.Now()
	origErr := errors.New("boom")
	s.Update(Report{}, origErr)

	snap := s.Snapshot()
	if snap.Last != prev.Last {
		t.Fatalf("report changed on error: got %#v want %#v", snap.Last, prev.Last)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if !errors.Is(snap.LastError, origErr) {
		t.Fatalf("LastError should wrap the recorded error")
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsStale() {
		t.Fatalf("fresh store = %+v, want no failures", snap)
	}

	s.Update(Report{}, errors.New("fail 1"))
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 1 {
		t.Fatalf("ConsecutiveFailures = %d, want 1", snap.ConsecutiveFailures)
	}
	if snap.IsStale() {
		t.Fatal("IsStale() = true, want false with 1 failure")
	}

	s.Update(Report{}, errors.New("fail 2"))
	snap = s.Snapshot()
	if !snap.IsStale() {
		t.Fatal("IsStale() = false, want true with 2 failures")
	}

	s.Update(Report{Cycle: 9}, nil)
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 0 {
		t.Fatalf("ConsecutiveFailures = %d, want 0 after success", snap.ConsecutiveFailures)
	}
	if snap.Failures != 2 {
		t.Fatalf("Failures = %d, want 2", snap.Failures)
	}
	if snap.IsStale() {
		t.Fatal("IsStale() = true, want false after success")
	}
}

func TestStore_SlurmVersion(t *testing.T) {
	var s Store
	s.SetSlurmVersion("23.2.7")
	s.Update(Report{Cycle: 1}, nil)
	if got := s.Snapshot().SlurmVersion; got != "23.2.7" {
		t.Fatalf("SlurmVersion = %q, want 23.2.7", got)
	}
}
