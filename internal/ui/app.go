package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	btable "github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/sqmon/internal/prefs"
	"github.com/five82/sqmon/internal/state"
	"github.com/five82/sqmon/internal/table"
)

// View represents the current active view.
type View int

const (
	ViewQueue View = iota
	ViewLogs
)

type inputMode int

const (
	inputNone inputMode = iota
	inputInterval
	inputEdit
)

// Controller is the part of the refresh scheduler the UI drives.
type Controller interface {
	RefreshNow(ctx context.Context) (bool, error)
	SetInterval(seconds int) error
	Interval() int
	Enable()
	Disable()
	Enabled() bool
	SetFilterToSelf(on bool)
	FilterToSelf() bool
	SelfUser() string
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Table     *table.Table
	Scheduler Controller
	Store     *state.Store
	LogPath   string
	ThemeName string
	PrefsPath string
	UITick    time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	tbl       *table.Table
	sched     Controller
	store     *state.Store
	logPath   string
	prefsPath string
	uiTick    time.Duration
	keys      keyMap

	// Table notifications, coalesced to one pending signal.
	changes     chan struct{}
	unsubscribe func()

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool

	// Data state
	view      table.View
	grid      btable.Model
	colCursor int
	diag      state.Snapshot
	status    string // transient message shown in the command bar

	// Input state
	mode     inputMode
	input    textinput.Model
	inputErr string
	edit     editTarget

	// Log state
	logViewport viewport.Model
	logLines    []string
	logErr      error
}

// New creates a new Bubble Tea model and subscribes it to table changes.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	uiTick := opts.UITick
	if uiTick == 0 {
		uiTick = DefaultUIInterval
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	changes := make(chan struct{}, 1)
	unsubscribe := func() {}
	if opts.Table != nil {
		unsubscribe = opts.Table.Subscribe(func(table.Change) {
			select {
			case changes <- struct{}{}:
			default:
			}
		})
	}

	ti := textinput.New()
	ti.CharLimit = 64

	m := Model{
		ctx:         ctx,
		tbl:         opts.Table,
		sched:       opts.Scheduler,
		store:       opts.Store,
		logPath:     opts.LogPath,
		prefsPath:   prefsPath,
		uiTick:      uiTick,
		keys:        DefaultKeyMap(),
		changes:     changes,
		unsubscribe: unsubscribe,
		theme:       GetTheme(opts.ThemeName),
		currentView: ViewQueue,
		grid:        newGrid(),
		input:       ti,
		logViewport: viewport.New(0, 0),
	}
	m.syncTable()
	m.syncDiagnostics()
	return m
}

// Close cancels the table subscription.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(m.uiTick),
		waitForChange(m.ctx, m.changes),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case tickMsg:
		m.syncDiagnostics()
		cmds := []tea.Cmd{tickCmd(m.uiTick)}
		if m.currentView == ViewLogs {
			cmds = append(cmds, loadLogsCmd(m.logPath))
		}
		return m, tea.Batch(cmds...)

	case tableChangedMsg:
		m.syncTable()
		if m.mode == inputEdit {
			if _, _, ok := m.edit.locate(m.view); !ok {
				m.discardEdit()
			}
		}
		return m, waitForChange(m.ctx, m.changes)

	case refreshDoneMsg:
		m.handleRefreshDone(msg)
		return m, nil

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode != inputNone {
		return m.handleInputKey(msg)
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.grid.SetStyles(m.gridStyles())
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.ViewLogs):
		m.currentView = ViewLogs
		return m, loadLogsCmd(m.logPath)

	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewQueue
		m.status = ""
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshCmd()
	}

	switch m.currentView {
	case ViewQueue:
		return m.handleQueueKey(msg)
	case ViewLogs:
		var cmd tea.Cmd
		m.logViewport, cmd = m.logViewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleQueueKey processes keyboard input for the queue view.
func (m Model) handleQueueKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleAuto):
		m.toggleAuto()
		return m, nil

	case key.Matches(msg, m.keys.SetInterval):
		if m.sched == nil {
			return m, nil
		}
		return m, m.openInput(inputInterval, itoa(m.sched.Interval()))

	case key.Matches(msg, m.keys.ToggleMine):
		if m.sched == nil {
			return m, nil
		}
		m.sched.SetFilterToSelf(!m.sched.FilterToSelf())
		return m, m.refreshCmd()

	case key.Matches(msg, m.keys.ColumnLeft):
		m.moveColumn(-1)
		return m, nil

	case key.Matches(msg, m.keys.ColumnRight):
		m.moveColumn(1)
		return m, nil

	case key.Matches(msg, m.keys.SortColumn):
		m.sortByCursor()
		return m, nil

	case key.Matches(msg, m.keys.FlipSort):
		m.flipSort()
		return m, nil

	case key.Matches(msg, m.keys.EditCell):
		return m, m.beginEdit()
	}

	var cmd tea.Cmd
	m.grid, cmd = m.grid.Update(msg)
	return m, cmd
}

func (m *Model) toggleAuto() {
	if m.sched == nil {
		return
	}
	if m.sched.Enabled() {
		m.sched.Disable()
		m.status = "auto refresh off"
		return
	}
	m.sched.Enable()
	m.status = "auto refresh every " + itoa(m.sched.Interval()) + "s"
}

func (m *Model) handleRefreshDone(msg refreshDoneMsg) {
	switch {
	case msg.err != nil:
		m.status = "refresh failed: " + firstLine(msg.err.Error())
	case !msg.ran:
		m.status = "refresh skipped: cycle in flight"
	default:
		m.status = ""
	}
	m.syncDiagnostics()
}

func (m *Model) syncDiagnostics() {
	if m.store != nil {
		m.diag = m.store.Snapshot()
	}
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{
		Theme:         m.theme.Name,
		SortColumn:    m.view.Sort.Column,
		SortAscending: m.view.Sort.Direction == table.Ascending,
	}
	_ = prefs.Save(m.prefsPath, p)
}

// resize fits the grid and the log viewport below the two header lines.
func (m *Model) resize() {
	contentHeight := m.height - 2
	if m.mode != inputNone {
		contentHeight -= 2
	}
	m.grid.SetWidth(m.width)
	m.grid.SetHeight(max(contentHeight, 3))
	m.logViewport.Width = m.width - 4
	m.logViewport.Height = max(contentHeight-2, 1)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	switch m.currentView {
	case ViewLogs:
		b.WriteString(m.renderLogs())
	default:
		b.WriteString(m.renderQueue())
	}

	if m.mode != inputNone {
		b.WriteString("\n")
		b.WriteString(m.renderInput())
	}
	return b.String()
}

// Messages

type tickMsg time.Time

type tableChangedMsg struct{}

type refreshDoneMsg struct {
	ran bool
	err error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForChange blocks until the table reports a change or ctx ends.
func waitForChange(ctx context.Context, changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			return tableChangedMsg{}
		}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	if m.sched == nil {
		return nil
	}
	ctx, sched := m.ctx, m.sched
	return func() tea.Msg {
		ran, err := sched.RefreshNow(ctx)
		return refreshDoneMsg{ran: ran, err: err}
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	defer m.Close()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
