// Package diag measures the monitor's own resource use for the per-cycle
// diagnostic line.
package diag

import (
	"fmt"
	"os"

	"github.com/docker/go-units"
	"github.com/shirou/gopsutil/process"
)

// Probe reports the resident memory of the running process in bytes.
type Probe interface {
	RSS() (uint64, error)
}

// ProcessProbe reads memory statistics for a process id.
type ProcessProbe struct {
	pid int32
}

var _ Probe = (*ProcessProbe)(nil)

// NewProcessProbe returns a probe for the current process.
func NewProcessProbe() *ProcessProbe {
	return &ProcessProbe{pid: int32(os.Getpid())}
}

// RSS returns the resident set size of the probed process.
func (p *ProcessProbe) RSS() (uint64, error) {
	proc, err := process.NewProcess(p.pid)
	if err != nil {
		return 0, fmt.Errorf("open process %d: %w", p.pid, err)
	}
	mem, err := proc.MemoryInfo()
	if err != nil {
		return 0, fmt.Errorf("read memory of process %d: %w", p.pid, err)
	}
	return mem.RSS, nil
}

// StaticProbe always reports the same value.
type StaticProbe uint64

// RSS returns the fixed value.
func (s StaticProbe) RSS() (uint64, error) {
	return uint64(s), nil
}

// FormatBytes renders n in binary units, e.g. "42.5MiB".
func FormatBytes(n uint64) string {
	return units.BytesSize(float64(n))
}
