// Package table holds the canonical queue view: typed cells, immutable
// snapshots, and the sortable Table that owns them.
//
// # Overview
//
// A Snapshot is a rectangular set of rows sharing one ordered column schema.
// Snapshots are built once (usually by the snapshot package) and never
// mutated. The Table installs a snapshot on every refresh and keeps it
// ordered according to the active SortState.
//
// # Sorting
//
// Sorting is always stable and uses each cell kind's natural order:
//
//   - strings compare lexicographically
//   - integers compare numerically
//   - instants compare chronologically, with the unset instant first
//
// Ascending places the smallest value first. The sort column is tracked by
// name, so a refresh that keeps the column keeps the ordering; a refresh
// that drops it falls back to the first column without touching the
// direction.
//
// # Concurrency
//
//	writer (scheduler)          readers (ui)
//	┌──────────────┐            ┌──────────────┐
//	│ Replace()    │──(op lock)─│ View()       │
//	│ SortBy()     │            │ CellAt()     │
//	│ EditCell()   │            │ RowCount()   │
//	└──────┬───────┘            └──────────────┘
//	       └──> notify subscribers (in order)
//
// Whole operations are serialized, including notification delivery, so
// observers see changes in the order they completed and never observe a
// schema from one snapshot with rows from another.
package table
