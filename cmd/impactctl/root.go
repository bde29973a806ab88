package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arloliu/impact/internal/config"
	"github.com/arloliu/impact/store/sqlite"
)

// Build metadata, set via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app holds the state shared by every subcommand.
type app struct {
	configPath string
	output     string
	dbPath     string
	verbose    bool
	noColor    bool

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "impactctl",
		Short: "Encode, store and score social program impact records",
		Long: `impactctl encodes program records into compact blocks and computes
impact metrics over them.

Commands:
  encode     Encode a record file into a block
  decode     Decode a block back into records
  append     Append records to an existing block
  summarize  Score and rank programs
  trend      Show beneficiary growth per period
  inspect    Show the layout of a serialized block
  blocks     Manage blocks in the database`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default is .impact.yaml in CWD or $HOME)")
	flags.StringVarP(&a.output, "output", "o", "", "output format: table, json or yaml")
	flags.StringVar(&a.dbPath, "db", "", "path of the block database")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(
		a.encodeCmd(),
		a.decodeCmd(),
		a.appendCmd(),
		a.summarizeCmd(),
		a.trendCmd(),
		a.inspectCmd(),
		a.blocksCmd(),
		versionCmd(),
	)

	return rootCmd
}

// setup loads the configuration, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	if a.output != "" {
		cfg.Output.Format = a.output
	}
	if a.dbPath != "" {
		cfg.Database.Path = a.dbPath
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate flags: %w", err)
	}

	if a.noColor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	}

	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(cmd.ErrOrStderr(), handlerOpts)
	} else {
		handler = slog.NewTextHandler(cmd.ErrOrStderr(), handlerOpts)
	}

	a.cfg = cfg
	a.logger = slog.New(handler)
	a.logger.Debug("configuration loaded",
		"compression", cfg.Block.Compression,
		"concurrency", cfg.Metrics.Concurrency,
		"database", cfg.Database.Path,
	)

	return nil
}

// openStore opens the configured block database.
func (a *app) openStore(ctx context.Context) (*sqlite.Store, error) {
	s, err := sqlite.Open(ctx, a.cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", a.cfg.Database.Path, err)
	}

	return s, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "impactctl %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}
