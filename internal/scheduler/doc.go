// Package scheduler drives periodic refreshes of the queue table.
//
// A Scheduler is either idle or armed. Enable arms a ticker at the current
// interval and resets the cycle count; Disable disarms it. Each tick tries a
// single-permit semaphore and, if it is free, runs one cycle on its own
// goroutine:
//
//	tick ──TryAcquire──▶ Source.Query ──▶ snapshot.Build ──▶ Table.Replace
//	  │                                                        │
//	  └── permit busy: tick dropped                            └── state.Report
//
// RefreshNow runs a cycle through the same permit without touching the
// ticker, so manual refreshes never overlap a timed one and do not shift the
// timer phase. A failed cycle is logged and recorded in the state store; the
// table keeps its previous contents and the ticker keeps running.
//
// SetInterval accepts 1 to 9999 seconds. Changing it while armed restarts the
// ticker at the new interval.
package scheduler
