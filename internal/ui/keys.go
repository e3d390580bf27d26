package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding
	ViewLogs   key.Binding

	// Refresh control
	Refresh     key.Binding
	ToggleAuto  key.Binding
	SetInterval key.Binding
	ToggleMine  key.Binding

	// Table
	ColumnLeft  key.Binding
	ColumnRight key.Binding
	SortColumn  key.Binding
	FlipSort    key.Binding
	EditCell    key.Binding

	// Input
	Confirm key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "e"),
			key.WithHelp("e", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back to queue"),
		),
		ViewLogs: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Diagnostics log"),
		),

		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh now"),
		),
		ToggleAuto: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Toggle auto refresh"),
		),
		SetInterval: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "Set interval (s)"),
		),
		ToggleMine: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "Only my jobs"),
		),

		ColumnLeft: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "Previous column"),
		),
		ColumnRight: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "Next column"),
		),
		SortColumn: key.NewBinding(
			key.WithKeys("enter", "s"),
			key.WithHelp("s/enter", "Sort by column"),
		),
		FlipSort: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Flip sort order"),
		),
		EditCell: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "Edit cell"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.ToggleAuto, k.SortColumn, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view, one group per
// help section.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Refresh, k.ToggleAuto, k.SetInterval, k.ToggleMine},
		{k.ColumnLeft, k.ColumnRight, k.SortColumn, k.FlipSort, k.EditCell},
		{k.ViewLogs, k.Escape},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
