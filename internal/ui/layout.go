package ui

import "time"

// LayoutCompactWidth is the terminal width below which the header drops
// the cycle duration and memory fields.
const LayoutCompactWidth = 100

const (
	// LogTailLines is the number of log lines shown in the diagnostics view.
	LogTailLines = 500

	// DefaultUIInterval is how often the header re-reads the diagnostic store.
	DefaultUIInterval = time.Second
)
