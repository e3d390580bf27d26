package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/mattn/go-isatty"

	"github.com/five82/sqmon/internal/logging"
	"github.com/five82/sqmon/internal/scheduler"
	"github.com/five82/sqmon/internal/snapshot"
	"github.com/five82/sqmon/internal/table"
)

// ListOptions configure a one-shot listing.
type ListOptions struct {
	Options
	Sort      string // column name; empty keeps the default order
	Ascending bool
}

// List runs one refresh cycle and prints the resulting table to w.
func List(ctx context.Context, opts ListOptions, w io.Writer) error {
	cfg := opts.Config

	logCfg := logging.DefaultConfig()
	if cfg.LogLevel != "" {
		logCfg.Level = cfg.LogLevel
	}
	logCfg.Color = isatty.IsTerminal(os.Stderr.Fd())
	closeLog, err := logging.Setup(logCfg)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = closeLog() }()

	client := newClient(cfg, opts.Runner)
	if _, err := client.CheckVersion(ctx); err != nil {
		return err
	}

	tbl, err := table.New(snapshot.DefaultColumns())
	if err != nil {
		return fmt.Errorf("init table: %w", err)
	}

	sched, err := scheduler.New(scheduler.Config{
		Interval:     cfg.Interval,
		FilterToSelf: cfg.FilterToSelf,
		SelfUser:     currentUser(),
	}, client, tbl)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	if _, err := sched.RefreshNow(ctx); err != nil {
		return err
	}

	if opts.Sort != "" {
		if err := tbl.SortBy(opts.Sort, direction(opts.Ascending)); err != nil {
			return err
		}
	}

	render(w, tbl.View())
	return nil
}

var stateColors = map[string]*color.Color{
	"RUNNING": color.New(color.FgGreen),
	"PENDING": color.New(color.FgYellow),
}

func render(w io.Writer, view table.View) {
	if len(view.Rows) == 0 {
		_, _ = fmt.Fprintln(w, "No running or pending jobs")
		return
	}

	bold := color.New(color.Bold)
	stateIdx := -1

	tbl := uitable.New()
	tbl.Separator = "  "

	header := make([]any, len(view.Columns))
	for i, name := range view.Columns {
		if name == snapshot.StateColumn {
			stateIdx = i
		}
		header[i] = bold.Sprint(name)
	}
	tbl.AddRow(header...)

	for _, row := range view.Rows {
		cells := make([]any, len(row))
		for i, c := range row {
			cells[i] = c.String()
			if i == stateIdx {
				if col, ok := stateColors[c.String()]; ok {
					cells[i] = col.Sprint(c.String())
				}
			}
		}
		tbl.AddRow(cells...)
	}

	_, _ = fmt.Fprintln(w, tbl)
}
