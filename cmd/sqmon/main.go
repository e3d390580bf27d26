package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	goversion "go.hein.dev/go-version"

	"github.com/five82/sqmon/internal/app"
	"github.com/five82/sqmon/internal/config"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "sqmon: %v\n", err)
		return 1
	}
	return 0
}

type rootFlags struct {
	configPath string
	interval   int
	auto       bool
	mine       bool
	squeue     string
	logLevel   string
	logFile    string
}

func newRootCommand() *cobra.Command {
	f := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "sqmon",
		Short:         "Live monitor for running and pending Slurm jobs.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.load(cmd)
			if err != nil {
				return err
			}
			opts := app.Options{Config: cfg}
			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				return app.List(cmd.Context(), app.ListOptions{Options: opts}, color.Output)
			}
			return app.Run(cmd.Context(), opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&f.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	flags.IntVarP(&f.interval, "interval", "n", 0, "auto refresh interval in seconds (1-9999)")
	flags.BoolVarP(&f.auto, "auto", "a", false, "start with auto refresh enabled")
	flags.BoolVarP(&f.mine, "mine", "m", false, "show only your own jobs")
	flags.StringVar(&f.squeue, "squeue", "", "squeue binary to run")
	flags.StringVar(&f.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	flags.StringVar(&f.logFile, "log-file", "", "log file for the interactive view")

	addList(cmd, f)
	addVersion(cmd)
	return cmd
}

// load reads the config file and applies the flags that were set.
func (f *rootFlags) load(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("interval") {
		cfg.Interval = f.interval
	}
	if flags.Changed("auto") {
		cfg.AutoRefresh = f.auto
	}
	if flags.Changed("mine") {
		cfg.FilterToSelf = f.mine
	}
	if flags.Changed("squeue") {
		cfg.Squeue = f.squeue
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = f.logFile
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func addList(topLevel *cobra.Command, f *rootFlags) {
	var (
		sortColumn string
		ascending  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print running and pending jobs once and exit.",
		Example: `
sqmon list
sqmon list --sort start_time --asc
sqmon list --mine
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.load(cmd)
			if err != nil {
				return err
			}
			opts := app.ListOptions{
				Options:   app.Options{Config: cfg},
				Sort:      sortColumn,
				Ascending: ascending,
			}
			return app.List(cmd.Context(), opts, color.Output)
		},
	}

	cmd.Flags().StringVarP(&sortColumn, "sort", "s", "", "sort by column")
	cmd.Flags().BoolVar(&ascending, "asc", false, "sort ascending (smallest first)")

	topLevel.AddCommand(cmd)
}

func addVersion(topLevel *cobra.Command) {
	shortened := false
	output := "json"

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the sqmon version.",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Print(goversion.FuncWithOutput(shortened, version, commit, date, output))
		},
	}

	cmd.Flags().BoolVarP(&shortened, "short", "s", false, "Print just the version number.")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format. One of 'yaml' or 'json'.")

	topLevel.AddCommand(cmd)
}
