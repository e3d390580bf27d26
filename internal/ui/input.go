package ui

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/sqmon/internal/snapshot"
	"github.com/five82/sqmon/internal/table"
)

// resetInterval is written back into the interval input after a rejected
// value.
const resetInterval = "1"

func (m *Model) openInput(mode inputMode, value string) tea.Cmd {
	m.mode = mode
	m.inputErr = ""
	switch mode {
	case inputInterval:
		m.input.Prompt = "Auto refresh (s): "
		m.input.Placeholder = "1-9999"
	case inputEdit:
		m.input.Prompt = m.edit.prompt()
		m.input.Placeholder = ""
	}
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.resize()
	return tea.Batch(m.input.Focus(), textinput.Blink)
}

func (m *Model) closeInput() {
	m.mode = inputNone
	m.inputErr = ""
	m.input.Blur()
	m.input.SetValue("")
	m.resize()
}

// beginEdit opens the editor on the cell under the row and column cursors.
func (m *Model) beginEdit() tea.Cmd {
	if m.tbl == nil || len(m.view.Rows) == 0 || len(m.view.Columns) == 0 {
		return nil
	}
	row := m.grid.Cursor()
	if row < 0 || row >= len(m.view.Rows) || m.colCursor >= len(m.view.Columns) {
		return nil
	}
	m.edit = newEditTarget(m.view.Columns, m.view.Rows[row], row, m.view.Columns[m.colCursor])
	cell := m.view.Rows[row][m.colCursor]
	value := cell.String()
	if cell.IsUnset() {
		value = ""
	}
	return m.openInput(inputEdit, value)
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.closeInput()
		return m, nil
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Confirm):
		switch m.mode {
		case inputInterval:
			m.commitInterval()
		case inputEdit:
			m.commitEdit()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// commitInterval applies the typed interval. A rejected value keeps the
// scheduler's interval, shows the error and resets the input to 1.
func (m *Model) commitInterval() {
	raw := strings.TrimSpace(m.input.Value())
	seconds, err := strconv.Atoi(raw)
	if err == nil {
		err = m.sched.SetInterval(seconds)
	} else {
		err = fmt.Errorf("invalid interval %q", raw)
	}
	if err != nil {
		m.inputErr = err.Error()
		m.input.SetValue(resetInterval)
		m.input.CursorEnd()
		return
	}
	m.closeInput()
	m.status = "interval " + itoa(seconds) + "s"
}

// commitEdit applies the edit to the row it was opened on. The row is
// looked up again in the current table, so a refresh that removed it
// discards the edit instead of landing it on another job.
func (m *Model) commitEdit() {
	m.syncTable()
	row, col, ok := m.edit.locate(m.view)
	if !ok {
		m.discardEdit()
		return
	}
	cell, err := parseCell(m.view.Rows[row][col].Kind(), m.input.Value())
	if err != nil {
		m.inputErr = err.Error()
		return
	}
	if _, err := m.tbl.EditWhere(m.edit.matches, m.edit.column, cell); err != nil {
		if errors.Is(err, table.ErrNoMatch) || errors.Is(err, table.ErrUnknownColumn) {
			m.discardEdit()
			return
		}
		m.inputErr = err.Error()
		return
	}
	m.closeInput()
	m.syncTable()
	m.status = "edited " + m.edit.column + " (until next refresh)"
}

func (m *Model) discardEdit() {
	m.closeInput()
	m.status = "row changed, edit discarded"
}

// editTarget identifies the cell being edited across refreshes: by job id
// when the table has one, otherwise by the full row as it was shown.
type editTarget struct {
	column  string
	keyed   bool
	key     table.Cell
	index   int
	columns []string
	row     table.Row
}

func newEditTarget(columns []string, row table.Row, index int, column string) editTarget {
	t := editTarget{column: column, index: index}
	if id := slices.Index(columns, snapshot.IDColumn); id >= 0 {
		t.keyed = true
		t.key = row[id]
		return t
	}
	t.columns = slices.Clone(columns)
	t.row = row.Clone()
	return t
}

func (t editTarget) matches(columns []string, row table.Row) bool {
	if t.keyed {
		id := slices.Index(columns, snapshot.IDColumn)
		return id >= 0 && row[id].Equal(t.key)
	}
	return slices.Equal(columns, t.columns) && slices.EqualFunc(row, t.row, table.Cell.Equal)
}

// locate returns the target's position in view.
func (t editTarget) locate(view table.View) (row, col int, ok bool) {
	col = slices.Index(view.Columns, t.column)
	if col < 0 {
		return 0, 0, false
	}
	for i, r := range view.Rows {
		if t.matches(view.Columns, r) {
			return i, col, true
		}
	}
	return 0, 0, false
}

func (t editTarget) prompt() string {
	if t.keyed {
		return fmt.Sprintf("%s of %s %s: ", t.column, snapshot.IDColumn, t.key)
	}
	return fmt.Sprintf("%s[%d]: ", t.column, t.index)
}

// parseCell converts edited text into a cell of the given kind. Blank
// text or N/A clears a time cell.
func parseCell(kind table.Kind, text string) (table.Cell, error) {
	text = strings.TrimSpace(text)
	switch kind {
	case table.KindInt:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return table.Cell{}, fmt.Errorf("want an integer, got %q", text)
		}
		return table.Int(n), nil
	case table.KindTime:
		if text == "" || text == table.UnsetLabel {
			return table.Unset(), nil
		}
		at, err := time.ParseInLocation(table.TimeLayout, text, time.Local)
		if err != nil {
			return table.Cell{}, fmt.Errorf("want %s, got %q", table.TimeLayout, text)
		}
		return table.Time(at), nil
	default:
		return table.String(text), nil
	}
}

func (m Model) renderInput() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	line := m.input.View()
	hint := bg.Render("enter", styles.AccentText) + bg.Sep(":") + bg.Render("apply", styles.MutedText) +
		bg.Spaces(2) + bg.Render("esc", styles.AccentText) + bg.Sep(":") + bg.Render("cancel", styles.MutedText)
	if m.inputErr != "" {
		hint = bg.Render(m.inputErr, styles.DangerText)
	}
	return line + "\n" + styles.Header.Width(m.width).Render(hint)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
