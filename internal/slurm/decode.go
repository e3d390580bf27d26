package slurm

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/five82/sqmon/internal/snapshot"
)

type jobsPayload struct {
	Jobs []map[string]any `json:"jobs"`
}

func decodeJobs(r io.Reader, columns []string) ([]snapshot.Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var payload jobsPayload
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode squeue json: %w", err)
	}
	if payload.Jobs == nil {
		return nil, fmt.Errorf("decode squeue json: missing \"jobs\"")
	}

	// State and owner are always kept so the snapshot filters work when
	// the display columns leave them out.
	fields := append([]string{snapshot.StateColumn, snapshot.OwnerColumn}, columns...)

	records := make([]snapshot.Record, 0, len(payload.Jobs))
	for _, job := range payload.Jobs {
		rec := make(snapshot.Record, len(fields))
		for _, name := range fields {
			raw, ok := job[name]
			if !ok {
				continue
			}
			rec[name] = normalize(raw)
		}
		records = append(records, rec)
	}
	return records, nil
}

// normalize flattens a squeue JSON value into string, int64 or nil.
// Newer Slurm wraps states in arrays and numbers in {set, infinite, number}
// objects.
func normalize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		return x
	case json.Number:
		return number(x)
	case bool:
		return strconv.FormatBool(x)
	case []any:
		if len(x) == 0 {
			return nil
		}
		return normalize(x[0])
	case map[string]any:
		return wrappedNumber(x)
	default:
		return nil
	}
}

func number(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return i
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return n.String()
	}
	// Conversion of a float outside the int64 range is not defined.
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return n.String()
	}
	return int64(f)
}

func wrappedNumber(obj map[string]any) any {
	if set, ok := obj["set"].(bool); ok && !set {
		return nil
	}
	if inf, ok := obj["infinite"].(bool); ok && inf {
		return nil
	}
	n, ok := obj["number"]
	if !ok {
		return nil
	}
	return normalize(n)
}
