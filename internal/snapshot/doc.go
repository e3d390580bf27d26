// Package snapshot turns raw squeue records into table snapshots.
//
// Build projects every record onto the configured columns, drops entries
// that are neither RUNNING nor PENDING, optionally keeps only the current
// user's entries, and converts epoch-second fields into typed time cells.
// The controller's unset-time value (EpochSentinel) becomes an unset cell
// that renders as "N/A".
//
// A record that lacks a requested column fails the whole build with an
// error wrapping ErrSchemaMismatch that lists every offending column.
package snapshot
