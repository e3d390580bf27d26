package slurm

import (
	"context"
	"fmt"
	"strings"

	semver "github.com/Masterminds/semver/v3"
)

// MinimumVersion is the oldest Slurm release whose squeue supports --json.
var MinimumVersion = semver.MustParse("21.8.0")

const minimumLabel = "21.08"

// Version runs squeue --version and parses output such as
// "slurm 21.08.8-2".
func (c *Client) Version(ctx context.Context) (*semver.Version, error) {
	out, err := c.output(ctx, "--version")
	if err != nil {
		return nil, err
	}
	return parseVersion(string(out))
}

// CheckVersion returns the installed version, or an error wrapping
// ErrStartupIncompatible when it is older than MinimumVersion or cannot be
// determined.
func (c *Client) CheckVersion(ctx context.Context) (*semver.Version, error) {
	v, err := c.Version(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStartupIncompatible, err)
	}
	if v.LessThan(MinimumVersion) {
		return v, fmt.Errorf("%w: slurm version %s (< %s) does not support JSON output",
			ErrStartupIncompatible, v.Original(), minimumLabel)
	}
	return v, nil
}

func parseVersion(out string) (*semver.Version, error) {
	fields := strings.Fields(out)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty version output")
	}
	orig := fields[len(fields)-1]
	if len(fields) >= 2 {
		orig = fields[1]
	}
	raw := orig
	// Drop the package release suffix ("-2") so it is not read as a
	// pre-release.
	if i := strings.IndexByte(raw, '-'); i > 0 {
		raw = raw[:i]
	}
	parts := strings.Split(raw, ".")
	for i, p := range parts {
		trimmed := strings.TrimLeft(p, "0")
		if trimmed == "" {
			trimmed = "0"
		}
		parts[i] = trimmed
	}
	v, err := semver.NewVersion(strings.Join(parts, "."))
	if err != nil {
		return nil, fmt.Errorf("parse slurm version %q: %w", orig, err)
	}
	return v, nil
}
