package table

import (
	"fmt"
	"slices"
	"sync"
)

// Direction is the sort direction. Ascending puts the smallest value first.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// String returns the direction name.
func (d Direction) String() string {
	if d == Descending {
		return "descending"
	}
	return "ascending"
}

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Descending {
		return Ascending
	}
	return Descending
}

// SortState is the active sort column (by name) and direction.
type SortState struct {
	Column    string
	Direction Direction
}

// ChangeKind describes the scope of a change notification.
type ChangeKind int

const (
	// ChangeLayout means schema, rows or order may all have changed.
	ChangeLayout ChangeKind = iota
	// ChangeCell means only the cell at Row/Column changed.
	ChangeCell
)

// Change is delivered to subscribers after every successful operation.
// Row and Column are -1 for layout changes.
type Change struct {
	Kind   ChangeKind
	Row    int
	Column int
}

// View is a consistent copy of the table taken under a single lock.
type View struct {
	Columns   []string
	Rows      []Row
	Sort      SortState
	SortIndex int
}

type subscriber struct {
	id int
	fn func(Change)
}

// Table owns the current snapshot and sort state. All mutations are
// serialized; subscribers are invoked synchronously, in operation order,
// after each mutation has been installed. Subscribers must not call
// mutating methods from inside the callback.
type Table struct {
	op sync.Mutex // serializes whole operations including notification

	mu      sync.RWMutex
	columns []string
	rows    []Row
	sort    SortState
	sortIdx int

	subMu  sync.Mutex
	subs   []subscriber
	nextID int
}

// New returns an empty table with the given schema, sorted on the first
// column in descending order.
func New(columns []string) (*Table, error) {
	snap, err := Empty(columns)
	if err != nil {
		return nil, err
	}
	t := &Table{
		columns: snap.Columns(),
		sort:    SortState{Direction: Descending},
	}
	if len(t.columns) > 0 {
		t.sort.Column = t.columns[0]
	}
	return t, nil
}

// Subscribe registers fn for change notifications and returns a function
// that removes it.
func (t *Table) Subscribe(fn func(Change)) (cancel func()) {
	t.subMu.Lock()
	defer t.subMu.Unlock()
	t.nextID++
	id := t.nextID
	t.subs = append(t.subs, subscriber{id: id, fn: fn})
	return func() {
		t.subMu.Lock()
		defer t.subMu.Unlock()
		t.subs = slices.DeleteFunc(t.subs, func(s subscriber) bool { return s.id == id })
	}
}

func (t *Table) notify(c Change) {
	t.subMu.Lock()
	subs := slices.Clone(t.subs)
	t.subMu.Unlock()
	for _, s := range subs {
		s.fn(c)
	}
}

// Replace installs snap as the current snapshot. The sort column is kept
// when snap still has it and reset to the first column otherwise; the
// direction never changes. Rows are re-sorted before the single
// notification fires. Local cell edits are discarded.
func (t *Table) Replace(snap Snapshot) {
	t.op.Lock()
	defer t.op.Unlock()

	columns := snap.Columns()
	rows := snap.Rows()

	t.mu.Lock()
	idx := indexOf(columns, t.sort.Column)
	if idx < 0 {
		idx = 0
		t.sort.Column = ""
		if len(columns) > 0 {
			t.sort.Column = columns[0]
		}
	}
	sortRows(rows, idx, t.sort.Direction)
	t.columns = columns
	t.rows = rows
	t.sortIdx = idx
	t.mu.Unlock()

	t.notify(Change{Kind: ChangeLayout, Row: -1, Column: -1})
}

// SortBy sets the sort state and reorders the rows with a stable sort.
func (t *Table) SortBy(column string, dir Direction) error {
	if dir != Ascending && dir != Descending {
		return fmt.Errorf("invalid sort direction %d", dir)
	}

	t.op.Lock()
	defer t.op.Unlock()

	t.mu.Lock()
	idx := indexOf(t.columns, column)
	if idx < 0 {
		t.mu.Unlock()
		return fmt.Errorf("sort by %q: %w", column, ErrUnknownColumn)
	}
	t.sort = SortState{Column: column, Direction: dir}
	t.sortIdx = idx
	sortRows(t.rows, idx, dir)
	t.mu.Unlock()

	t.notify(Change{Kind: ChangeLayout, Row: -1, Column: -1})
	return nil
}

// EditCell overrides a single displayed value. The edit lives only in this
// table and is discarded by the next Replace. Editing the sort column
// re-sorts the rows and emits a layout change instead of a cell change.
func (t *Table) EditCell(row, column int, value Cell) error {
	t.op.Lock()
	defer t.op.Unlock()

	t.mu.Lock()
	if row < 0 || row >= len(t.rows) || column < 0 || column >= len(t.columns) {
		t.mu.Unlock()
		return fmt.Errorf("edit cell (%d, %d): %w", row, column, ErrOutOfRange)
	}
	change := t.edit(row, column, value)
	t.mu.Unlock()

	t.notify(change)
	return nil
}

// EditWhere edits column in the first row accepted by match. The lookup and
// the edit happen under one lock, so a concurrent Replace cannot move a
// different row under the target. match sees the live schema and row and
// must not modify them. The returned index is the row's position before any
// re-sort.
func (t *Table) EditWhere(match func(columns []string, row Row) bool, column string, value Cell) (int, error) {
	t.op.Lock()
	defer t.op.Unlock()

	t.mu.Lock()
	col := indexOf(t.columns, column)
	if col < 0 {
		t.mu.Unlock()
		return -1, fmt.Errorf("edit %q: %w", column, ErrUnknownColumn)
	}
	row := slices.IndexFunc(t.rows, func(r Row) bool { return match(t.columns, r) })
	if row < 0 {
		t.mu.Unlock()
		return -1, fmt.Errorf("edit %q: %w", column, ErrNoMatch)
	}
	change := t.edit(row, col, value)
	t.mu.Unlock()

	t.notify(change)
	return row, nil
}

// edit installs value at row, column and restores sort order when the sort
// column changed. Callers hold t.mu.
func (t *Table) edit(row, column int, value Cell) Change {
	edited := t.rows[row].Clone()
	edited[column] = value
	t.rows[row] = edited

	if column == t.sortIdx {
		sortRows(t.rows, t.sortIdx, t.sort.Direction)
		return Change{Kind: ChangeLayout, Row: -1, Column: -1}
	}
	return Change{Kind: ChangeCell, Row: row, Column: column}
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.columns)
}

// Header returns the name of column index.
func (t *Table) Header(index int) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if index < 0 || index >= len(t.columns) {
		return "", fmt.Errorf("header %d: %w", index, ErrOutOfRange)
	}
	return t.columns[index], nil
}

// CellAt returns the cell at row, column.
func (t *Table) CellAt(row, column int) (Cell, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if row < 0 || row >= len(t.rows) || column < 0 || column >= len(t.columns) {
		return Cell{}, fmt.Errorf("cell (%d, %d): %w", row, column, ErrOutOfRange)
	}
	return t.rows[row][column], nil
}

// Sort returns the active sort state.
func (t *Table) Sort() SortState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sort
}

// View returns a copy of columns, rows and sort state.
func (t *Table) View() View {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rows := make([]Row, len(t.rows))
	for i, row := range t.rows {
		rows[i] = row.Clone()
	}
	return View{
		Columns:   slices.Clone(t.columns),
		Rows:      rows,
		Sort:      t.sort,
		SortIndex: t.sortIdx,
	}
}

func sortRows(rows []Row, column int, dir Direction) {
	if len(rows) < 2 || column < 0 || column >= len(rows[0]) {
		return
	}
	slices.SortStableFunc(rows, func(a, b Row) int {
		c := Compare(a[column], b[column])
		if dir == Descending {
			return -c
		}
		return c
	})
}
