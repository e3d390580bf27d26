package app

import (
	"context"
	"fmt"
	"os"
	"os/user"

	log "github.com/sirupsen/logrus"

	"github.com/five82/sqmon/internal/config"
	"github.com/five82/sqmon/internal/diag"
	"github.com/five82/sqmon/internal/logging"
	"github.com/five82/sqmon/internal/prefs"
	"github.com/five82/sqmon/internal/scheduler"
	"github.com/five82/sqmon/internal/slurm"
	"github.com/five82/sqmon/internal/snapshot"
	"github.com/five82/sqmon/internal/state"
	"github.com/five82/sqmon/internal/table"
	"github.com/five82/sqmon/internal/ui"
)

var (
	_ scheduler.Source = (*slurm.Client)(nil)
	_ ui.Controller    = (*scheduler.Scheduler)(nil)
)

// Options configure the sqmon application.
type Options struct {
	Config    config.Config
	PrefsPath string       // empty uses default ~/.config/sqmon/prefs.toml
	Runner    slurm.Runner // nil runs the squeue binary
}

// Run boots the sqmon TUI until the user quits or the context is cancelled.
// A squeue without JSON support fails with slurm.ErrStartupIncompatible
// before anything is drawn.
func Run(ctx context.Context, opts Options) error {
	cfg := opts.Config

	closeLog, err := logging.Setup(logging.Config{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = closeLog() }()

	client := newClient(cfg, opts.Runner)
	version, err := client.CheckVersion(ctx)
	if err != nil {
		return err
	}
	logger := log.WithField("component", "app")
	logger.WithFields(log.Fields{"squeue": client.Binary(), "version": version}).Info("starting")

	userPrefs := prefs.Load(opts.PrefsPath)

	tbl, err := table.New(snapshot.DefaultColumns())
	if err != nil {
		return fmt.Errorf("init table: %w", err)
	}
	if userPrefs.SortColumn != "" {
		if err := tbl.SortBy(userPrefs.SortColumn, direction(userPrefs.SortAscending)); err != nil {
			logger.WithError(err).Debug("ignoring saved sort")
		}
	}

	store := &state.Store{}
	store.SetSlurmVersion(version.String())

	sched, err := scheduler.New(scheduler.Config{
		Interval:     cfg.Interval,
		Enabled:      cfg.AutoRefresh,
		FilterToSelf: cfg.FilterToSelf,
		SelfUser:     currentUser(),
	}, client, tbl,
		scheduler.WithStore(store),
		scheduler.WithProbe(diag.NewProcessProbe()),
	)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	// Populate the table before the UI starts. A failure is recorded in
	// the store and shown in the header.
	_, _ = sched.RefreshNow(ctx)

	sched.Start(ctx)
	defer sched.Stop()

	return ui.Run(ui.Options{
		Context:   ctx,
		Table:     tbl,
		Scheduler: sched,
		Store:     store,
		LogPath:   cfg.LogFile,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
	})
}

func newClient(cfg config.Config, runner slurm.Runner) *slurm.Client {
	return slurm.NewClient(slurm.Options{
		Binary:  cfg.Squeue,
		Timeout: cfg.QueryTimeout,
		Retries: cfg.QueryRetries,
		Runner:  runner,
	})
}

func direction(ascending bool) table.Direction {
	if ascending {
		return table.Ascending
	}
	return table.Descending
}

// currentUser returns the login name used by the own-jobs filter.
func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}
