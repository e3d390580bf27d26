package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/five82/sqmon/internal/diag"
	"github.com/five82/sqmon/internal/snapshot"
)

// renderHeader renders the status bar: refresh mode, job count and the
// diagnostics of the last cycle.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	var parts []string
	parts = append(parts, bg.Render("sqmon", styles.Logo))

	if v := m.diag.SlurmVersion; v != "" {
		parts = append(parts, bg.Render("slurm", styles.MutedText)+bg.Space()+bg.Render(v, styles.Text))
	}

	if m.sched != nil {
		if m.sched.Enabled() {
			parts = append(parts,
				bg.Render("● AUTO ON", styles.SuccessText)+bg.Space()+
					bg.Render(fmt.Sprintf("%ds", m.sched.Interval()), styles.Text))
		} else {
			parts = append(parts, bg.Render("○ AUTO OFF", styles.MutedText))
		}
		if m.sched.FilterToSelf() {
			parts = append(parts, bg.Render("MINE", styles.WarningText.Bold(true))+bg.Space()+
				bg.Render(m.sched.SelfUser(), styles.Text))
		}
	}

	parts = append(parts,
		bg.Render("Jobs:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", len(m.view.Rows)), styles.Text))
	if !compact {
		for _, sc := range m.stateCounts() {
			parts = append(parts, styles.StateStyle(sc.state).Render(fmt.Sprintf("%s %d", sc.state, sc.n)))
		}
	}

	if m.diag.HasReport {
		last := m.diag.Last
		parts = append(parts, bg.Render(fmt.Sprintf("#%d", last.Cycle), styles.InfoText))
		if !compact {
			parts = append(parts,
				bg.Render(formatDuration(last.Duration), styles.MutedText),
				bg.Render(diag.FormatBytes(last.RSS), styles.MutedText))
		}
	}

	if ts := formatTimestamp(m.diag.LastUpdated, time.Now()); ts != "" {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	if m.diag.LastError != nil {
		label := "ERROR"
		if m.diag.IsStale() {
			label = "STALE"
		}
		maxErr := 80
		if compact {
			maxErr = 40
		}
		parts = append(parts,
			bg.Render(label, styles.DangerText.Bold(true))+bg.Space()+
				bg.Render(truncate(firstLine(m.diag.LastError.Error()), maxErr), styles.DangerText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

type stateCount struct {
	state string
	n     int
}

// stateCounts tallies the state column in first-seen order.
func (m Model) stateCounts() []stateCount {
	idx := -1
	for i, name := range m.view.Columns {
		if name == snapshot.StateColumn {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	var out []stateCount
	pos := make(map[string]int)
	for _, row := range m.view.Rows {
		state := row[idx].String()
		i, ok := pos[state]
		if !ok {
			i = len(out)
			pos[state] = i
			out = append(out, stateCount{state: state})
		}
		out[i].n++
	}
	return out
}

// renderCommandBar renders the key hints for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewLogs:
		commands = []cmd{
			{"j/k", "Scroll"},
			{"r", "Refresh"},
			{"esc", "Queue"},
			{"?", "More"},
		}
	default:
		auto := "Auto"
		if m.sched != nil && m.sched.Enabled() {
			auto = "Manual"
		}
		commands = []cmd{
			{"r", "Refresh"},
			{"a", auto},
			{"i", "Interval"},
			{"m", "Mine"},
			{"←/→", "Column"},
			{"s", "Sort"},
			{"o", "Order"},
			{"E", "Edit"},
			{"l", "Log"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+2)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	if m.status != "" {
		segments = append(segments, bg.Render(truncate(m.status, 60), styles.WarningText))
	}

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}

// formatTimestamp formats the last update time with a relative indicator.
func formatTimestamp(at, now time.Time) string {
	if at.IsZero() {
		return ""
	}

	since := now.Sub(at)
	s := at.Format("15:04:05")

	switch {
	case since < time.Minute:
		s += " (now)"
	case since < time.Hour:
		s += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	case since < 24*time.Hour:
		s += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	}
	return s
}

// formatDuration renders a cycle duration in milliseconds.
func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fms", float64(d)/float64(time.Millisecond))
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
