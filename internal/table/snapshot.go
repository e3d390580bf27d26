package table

import (
	"fmt"
	"strings"
)

// Row is an ordered tuple of cells matching a snapshot schema.
type Row []Cell

// Clone returns an independent copy of the row.
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	dup := make(Row, len(r))
	copy(dup, r)
	return dup
}

// Snapshot is an immutable set of rows sharing one column schema.
type Snapshot struct {
	columns []string
	rows    []Row
}

// NewSnapshot validates columns and rows and returns a snapshot that owns
// copies of both.
func NewSnapshot(columns []string, rows []Row) (Snapshot, error) {
	seen := make(map[string]struct{}, len(columns))
	for i, name := range columns {
		if strings.TrimSpace(name) == "" {
			return Snapshot{}, fmt.Errorf("%w: column %d has no name", ErrInvalidSnapshot, i)
		}
		if _, dup := seen[name]; dup {
			return Snapshot{}, fmt.Errorf("%w: duplicate column %q", ErrInvalidSnapshot, name)
		}
		seen[name] = struct{}{}
	}

	out := Snapshot{
		columns: append([]string(nil), columns...),
		rows:    make([]Row, len(rows)),
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return Snapshot{}, fmt.Errorf("%w: row %d has %d cells, want %d",
				ErrInvalidSnapshot, i, len(row), len(columns))
		}
		out.rows[i] = row.Clone()
	}
	return out, nil
}

// Empty returns a snapshot with the given schema and no rows.
func Empty(columns []string) (Snapshot, error) {
	return NewSnapshot(columns, nil)
}

// Columns returns a copy of the schema.
func (s Snapshot) Columns() []string {
	return append([]string(nil), s.columns...)
}

// Rows returns a copy of the rows.
func (s Snapshot) Rows() []Row {
	out := make([]Row, len(s.rows))
	for i, row := range s.rows {
		out[i] = row.Clone()
	}
	return out
}

// Len returns the number of rows.
func (s Snapshot) Len() int { return len(s.rows) }

// ColumnIndex returns the index of name in the schema, or -1.
func (s Snapshot) ColumnIndex(name string) int {
	return indexOf(s.columns, name)
}

func indexOf(columns []string, name string) int {
	for i, c := range columns {
		if c == name {
			return i
		}
	}
	return -1
}
