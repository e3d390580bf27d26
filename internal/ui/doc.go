// Package ui renders the live job table in the terminal with Bubble Tea.
//
// The Model never owns job data. It subscribes to a *table.Table and, on
// every change notification, copies a consistent table.View into a bubbles
// table. Sorting and cell edits go back through the Table so the change
// reaches every subscriber. Refresh control goes through the Controller
// interface, which the refresh scheduler implements.
//
// # Views
//
//   - Queue: the job table with a column cursor, sort arrow and header
//     diagnostics (cycle number, duration, resident memory, staleness)
//   - Logs: the tail of the diagnostic log file, colored by level
//
// # Key Bindings
//
//   - r: Refresh now
//   - a: Toggle auto refresh
//   - i: Set the auto refresh interval in seconds
//   - m: Show only my jobs
//   - left/right: Move the column cursor
//   - s or enter: Sort by the column under the cursor
//   - o: Flip the sort direction
//   - E: Edit the selected cell until the next refresh
//   - l: Log view
//   - T: Cycle theme
//   - h or ?: Help
//   - ESC: Return to the queue view
//   - e or Ctrl+C: Exit
//
// Theme and sort order persist through the prefs package.
package ui
