// Package state keeps the diagnostic record of the refresh loop.
//
// The scheduler writes one Report per completed cycle (cycle number,
// interval, duration, resident memory and row count) or the error of a
// failed cycle. The UI reads copies through Snapshot to draw its header.
//
//	Producer (scheduler):          Consumer (UI):
//	┌────────────────────┐        ┌───────────────────┐
//	│ query + build      │        │                   │
//	│ table.Replace()    │        │                   │
//	│ store.Update()     │───────→│ store.Snapshot()  │
//	└────────────────────┘ (mutex)└───────────────────┘
//
// # Update Semantics
//
// A successful Update replaces the last report and clears the error. A
// failed Update keeps the last report, records the error and increments the
// consecutive failure count. After two failures in a row the snapshot
// reports IsStale, and the header marks the table as stale.
//
// The zero Store is ready to use.
package state
