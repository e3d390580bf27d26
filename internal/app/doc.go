// Package app wires configuration, logging, the squeue client, the job
// table, the refresh scheduler and the UI together.
//
// Run is the interactive entry point:
//
//  1. Set up logrus to write to the configured log file
//  2. Check that squeue is at least 21.08 (JSON output)
//  3. Build the table, restoring the saved sort from prefs
//  4. Create the scheduler with the diagnostic store and memory probe
//  5. Refresh once, start the scheduler and hand the terminal to the UI
//  6. Stop the scheduler when the UI exits
//
// List runs a single cycle through the same scheduler and prints the table
// with uitable. It is used by `sqmon list` and when stdout is not a
// terminal.
package app
