package ui

import (
	"fmt"

	btable "github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/sqmon/internal/table"
)

const (
	sortAscArrow  = "▲"
	sortDescArrow = "▼"
)

func newGrid() btable.Model {
	return btable.New(
		btable.WithFocused(true),
		btable.WithHeight(10),
	)
}

// gridStyles returns bubbles table styles for the current theme.
func (m Model) gridStyles() btable.Styles {
	s := btable.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(m.theme.Border)).
		BorderBottom(true).
		Foreground(lipgloss.Color(m.theme.Accent)).
		Bold(true)
	s.Cell = s.Cell.Foreground(lipgloss.Color(m.theme.Text))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color(m.theme.SelectionText)).
		Background(lipgloss.Color(m.theme.SelectionBg)).
		Bold(false)
	return s
}

// syncTable copies the authoritative table into the grid. Column widths
// follow the widest cell so the view resizes to its contents.
func (m *Model) syncTable() {
	if m.tbl == nil {
		return
	}
	m.view = m.tbl.View()
	if m.colCursor >= len(m.view.Columns) {
		m.colCursor = max(len(m.view.Columns)-1, 0)
	}

	rows := make([]btable.Row, len(m.view.Rows))
	for i, r := range m.view.Rows {
		row := make(btable.Row, len(r))
		for j, c := range r {
			row[j] = c.String()
		}
		rows[i] = row
	}

	// Clear rows first: SetColumns re-renders existing rows against the
	// new column count.
	cursor := m.grid.Cursor()
	m.grid.SetRows(nil)
	m.grid.SetColumns(m.gridColumns(rows))
	m.grid.SetRows(rows)
	m.grid.SetStyles(m.gridStyles())
	m.grid.SetCursor(min(max(cursor, 0), max(len(rows)-1, 0)))
}

func (m Model) gridColumns(rows []btable.Row) []btable.Column {
	cols := make([]btable.Column, len(m.view.Columns))
	for i, name := range m.view.Columns {
		title := m.columnLabel(i, name)
		width := lipgloss.Width(title)
		for _, r := range rows {
			width = max(width, lipgloss.Width(r[i]))
		}
		cols[i] = btable.Column{Title: title, Width: width}
	}
	return cols
}

// columnLabel decorates a header with the sort arrow and the column cursor.
func (m Model) columnLabel(i int, name string) string {
	label := name
	if i == m.view.SortIndex {
		arrow := sortDescArrow
		if m.view.Sort.Direction == table.Ascending {
			arrow = sortAscArrow
		}
		label += " " + arrow
	}
	if i == m.colCursor {
		label = "[" + label + "]"
	}
	return label
}

func (m *Model) moveColumn(delta int) {
	n := len(m.view.Columns)
	if n == 0 {
		return
	}
	m.colCursor = (m.colCursor + delta + n) % n
	m.syncTable()
}

// sortByCursor sorts by the column under the cursor. Choosing the column
// that is already sorted flips its direction; a new column starts ascending.
func (m *Model) sortByCursor() {
	if m.tbl == nil || len(m.view.Columns) == 0 {
		return
	}
	column := m.view.Columns[m.colCursor]
	dir := table.Ascending
	if m.view.Sort.Column == column {
		dir = m.view.Sort.Direction.Flip()
	}
	m.applySort(column, dir)
}

func (m *Model) flipSort() {
	if m.tbl == nil || len(m.view.Columns) == 0 {
		return
	}
	m.applySort(m.view.Sort.Column, m.view.Sort.Direction.Flip())
}

func (m *Model) applySort(column string, dir table.Direction) {
	if err := m.tbl.SortBy(column, dir); err != nil {
		m.status = err.Error()
		return
	}
	m.syncTable()
	m.status = fmt.Sprintf("sorted by %s %s", column, dir)
	m.savePrefs()
}

// renderQueue renders the job table inside a titled box.
func (m Model) renderQueue() string {
	styles := m.theme.Styles()
	contentHeight := m.height - 2
	if m.mode != inputNone {
		contentHeight -= 2
	}

	if len(m.view.Columns) == 0 {
		msg := styles.MutedText.Render("No columns")
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, msg)
	}

	content := m.grid.View()
	if len(m.view.Rows) == 0 {
		empty := "No running or pending jobs"
		if m.sched != nil && m.sched.FilterToSelf() {
			empty = "No running or pending jobs for you"
		}
		content += "\n" + styles.MutedText.Render(empty)
	}
	return content
}
