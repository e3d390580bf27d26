package snapshot

import (
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/five82/sqmon/internal/table"
)

// ErrSchemaMismatch is returned when a record lacks a required column or a
// value cannot be typed for its column.
var ErrSchemaMismatch = errors.New("schema mismatch")

// Build projects records onto columns, keeps running and pending entries
// (and only selfUser's when filterToSelf is set), types timestamp columns,
// and returns the rows in source order.
func Build(records []Record, columns []string, selfUser string, filterToSelf bool) (table.Snapshot, error) {
	var merr *multierror.Error
	rows := make([]table.Row, 0, len(records))

	for i, rec := range records {
		row, err := project(rec, columns)
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		if !accepted(rec) {
			continue
		}
		if filterToSelf && owner(rec) != selfUser {
			continue
		}
		rows = append(rows, row)
	}
	if err := merr.ErrorOrNil(); err != nil {
		return table.Snapshot{}, err
	}
	return table.NewSnapshot(columns, rows)
}

func project(rec Record, columns []string) (table.Row, error) {
	var merr *multierror.Error
	row := make(table.Row, len(columns))
	for i, name := range columns {
		raw, ok := rec[name]
		if !ok {
			merr = multierror.Append(merr, fmt.Errorf("missing column %q: %w", name, ErrSchemaMismatch))
			continue
		}
		cell, err := toCell(name, raw)
		if err != nil {
			merr = multierror.Append(merr, err)
			continue
		}
		row[i] = cell
	}
	if err := merr.ErrorOrNil(); err != nil {
		return nil, err
	}
	return row, nil
}

func toCell(name string, raw any) (table.Cell, error) {
	if IsTimeColumn(name) {
		return timeCell(name, raw)
	}
	switch v := raw.(type) {
	case nil:
		return table.String(""), nil
	case string:
		return table.String(v), nil
	case int64:
		return table.Int(v), nil
	case int:
		return table.Int(int64(v)), nil
	default:
		return table.Cell{}, fmt.Errorf("column %q: unsupported value %T: %w", name, raw, ErrSchemaMismatch)
	}
}

func timeCell(name string, raw any) (table.Cell, error) {
	var secs int64
	switch v := raw.(type) {
	case nil:
		return table.Unset(), nil
	case int64:
		secs = v
	case int:
		secs = int64(v)
	default:
		return table.Cell{}, fmt.Errorf("column %q: want epoch seconds, got %T: %w", name, raw, ErrSchemaMismatch)
	}
	if secs == EpochSentinel {
		return table.Unset(), nil
	}
	return table.Time(time.Unix(secs, 0).UTC()), nil
}

func accepted(rec Record) bool {
	state, _ := rec[StateColumn].(string)
	_, ok := AcceptedStates[state]
	return ok
}

func owner(rec Record) string {
	user, _ := rec[OwnerColumn].(string)
	return user
}
