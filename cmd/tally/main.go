package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spektr-org/tally/config"
	"github.com/spektr-org/tally/internal/logging"
	"github.com/spektr-org/tally/telemetry"
)

// ============================================================================
// TALLY CLI — shared-scale number formatting for dashboards
// ============================================================================

var version = "0.3.0"

// app carries what every subcommand shares once the root has set up.
type app struct {
	cfgPath  string
	logLevel string
	logFile  string

	cfg    *config.Config
	events *telemetry.Handler
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "tally",
		Short: "Format columns of numbers with one shared scale",
		Long: `Tally picks a single k/M/B/T/Q scale for a column of numbers, formats
every value with it and aligns the results on the decimal point.

It reads CSV or XLSX files and prints aligned tables, leaderboards and
growth summaries.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { logging.Close() },
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgPath, "config", "", "config file (default is $HOME/.config/tally/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&a.logFile, "log-file", "", "append JSON logs to this file instead of stderr")

	rootCmd.AddCommand(
		a.scaleCmd(),
		a.splitCmd(),
		a.alignCmd(),
		a.tableCmd(),
		a.leaderboardCmd(),
		a.growthCmd(),
		a.formatsCmd(),
		a.schemaCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version number",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "tally version %s\n", version)
			},
		},
	)
	return rootCmd
}

// setup loads configuration, then points the logger and the event handler
// at their destinations. Flags override the config file.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.Log.Level
	if a.logLevel != "" {
		level = a.logLevel
	}
	file := cfg.Log.File
	if a.logFile != "" {
		file = a.logFile
	}
	if file != "" {
		if err := logging.EnableFileLogging(file, logging.Level(level)); err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
	} else {
		logging.Configure(logging.Level(level), cmd.ErrOrStderr())
	}

	var dispatcher telemetry.Dispatcher
	if cfg.Telemetry.Enabled {
		dispatcher = telemetry.LogDispatcher{}
	}
	a.events = telemetry.NewHandler(dispatcher, telemetry.CommonFields{
		AppName: "tally",
		Version: version,
		IsDev:   strings.HasSuffix(version, "-dev"),
	})

	logging.Debug("configuration loaded", "locale", cfg.Locale, "format", cfg.Format, "formatter", cfg.Formatter)
	return nil
}

// track records that a command ran against entity. Failures are logged only.
func (a *app) track(ctx context.Context, entity string, screen telemetry.Screen) {
	if a.events == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := a.events.FireNavigationEvent(ctx, entity, telemetry.MediumCommand, telemetry.SpaceTerminal, "", screen)
	if err != nil {
		logging.Warn("behaviour event dropped", "screen", screen, "error", err)
	}
}
