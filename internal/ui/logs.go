package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/sqmon/internal/logtail"
)

type logLinesMsg struct {
	lines []string
	err   error
}

// loadLogsCmd reads the tail of the diagnostic log file.
func loadLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return logLinesMsg{}
		}
		lines, err := logtail.Read(path, LogTailLines)
		return logLinesMsg{lines: lines, err: err}
	}
}

func (m *Model) handleLogLines(msg logLinesMsg) {
	m.logErr = msg.err
	if msg.err != nil {
		return
	}
	follow := m.logViewport.AtBottom() || len(m.logLines) == 0
	m.logLines = msg.lines
	m.logViewport.SetContent(m.renderLogContent())
	if follow {
		m.logViewport.GotoBottom()
	}
}

// renderLogContent colors each line by its logrus level.
func (m Model) renderLogContent() string {
	styles := m.theme.Styles()
	if len(m.logLines) == 0 {
		return styles.MutedText.Render("No log entries")
	}

	var b strings.Builder
	for i, line := range m.logLines {
		b.WriteString(styles.FaintText.Render(fmt.Sprintf("%4d │ ", i+1)))
		b.WriteString(levelStyle(logtail.Level(line), styles).Render(line))
		if i < len(m.logLines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func levelStyle(level string, styles Styles) lipgloss.Style {
	switch level {
	case "info":
		return styles.Text
	case "warning":
		return styles.WarningText
	case "error", "fatal", "panic":
		return styles.DangerText
	case "debug", "trace":
		return styles.MutedText
	default:
		return styles.Text
	}
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()

	title := "Log"
	if m.logPath != "" {
		title = "Log " + m.logPath
	}

	var content string
	switch {
	case m.logPath == "":
		content = styles.MutedText.Render("Logging to stderr; set log_file to view the log here")
	case m.logErr != nil:
		content = styles.DangerText.Render(firstLine(m.logErr.Error()))
	default:
		content = m.logViewport.View()
	}

	return m.renderBox(title, content, m.width, m.logViewport.Height+2)
}

// renderBox draws a rounded border with the title set into the top edge.
func (m Model) renderBox(title, content string, width, height int) string {
	styles := m.theme.Styles()
	border := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.BorderFocus))

	inner := max(width-2, 0)
	label := " " + title + " "
	if lipgloss.Width(label) > inner {
		label = truncate(label, inner)
	}
	top := border.Render("╭") +
		styles.AccentText.Render(label) +
		border.Render(strings.Repeat("─", max(inner-lipgloss.Width(label), 0))+"╮")

	body := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderTop(false).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Padding(0, 1).
		Width(inner).
		Height(max(height-2, 1)).
		Render(content)

	return top + "\n" + body
}
