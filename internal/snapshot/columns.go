package snapshot

// Record is one raw queue entry keyed by field name. Values are string,
// int64 or nil.
type Record map[string]any

const (
	// IDColumn holds the job id, which identifies an entry across refreshes.
	IDColumn = "job_id"
	// StateColumn holds the entry state.
	StateColumn = "job_state"
	// OwnerColumn holds the submitting user.
	OwnerColumn = "user_name"

	// EpochSentinel is the epoch second squeue reports for an unset time
	// (zero shifted by the controller's timezone).
	EpochSentinel int64 = 18000
)

// Columns is the fixed column set shown by the monitor, in display order.
var Columns = []string{
	IDColumn,
	StateColumn,
	OwnerColumn,
	"qos",
	"node_count",
	"cpus",
	"start_time",
}

// TimeColumns are the fields carrying epoch seconds.
var TimeColumns = map[string]struct{}{
	"accrue_time":           {},
	"eligible_time":         {},
	"end_time":              {},
	"last_sched_evaluation": {},
	"start_time":            {},
	"submit_time":           {},
}

// AcceptedStates are the entry states kept in every snapshot.
var AcceptedStates = map[string]struct{}{
	"RUNNING": {},
	"PENDING": {},
}

// IsTimeColumn reports whether name carries epoch seconds.
func IsTimeColumn(name string) bool {
	_, ok := TimeColumns[name]
	return ok
}

// DefaultColumns returns a copy of Columns.
func DefaultColumns() []string {
	return append([]string(nil), Columns...)
}
