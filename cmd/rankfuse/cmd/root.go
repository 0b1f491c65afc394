// Package cmd provides the CLI commands for rankfuse.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/rankfuse/internal/config"
	rferrors "github.com/Aman-CERP/rankfuse/internal/errors"
	"github.com/Aman-CERP/rankfuse/internal/logging"
	"github.com/Aman-CERP/rankfuse/internal/profiling"
	"github.com/Aman-CERP/rankfuse/pkg/version"
)

// Persistent flags shared by every subcommand.
var (
	cfgFile  string
	logLevel string
	logFile  string
	noColor  bool
)

// Profiling flags and state.
var (
	profileCPU string
	profileMem string
	profiler   = profiling.NewProfiler()
	cpuCleanup func()
)

var (
	loggingCleanup func()

	// rootCfg is the configuration resolved by the pre-run hook. Subcommands
	// read it through rootConfig, which falls back to a fresh load when a
	// command runs without the root (tests).
	rootCfg *config.Config
)

// NewRootCmd creates the root command for the rankfuse CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rankfuse",
		Short: "Fuse ranked lists into a single consensus ranking",
		Long: `Rankfuse combines multiple ranked lists into one consensus ranking
using rank-biased centroids: each rank position carries a geometrically
decaying weight, and an item's fused score is the sum of the weights of
the positions it occupies across the inputs.

Rankings come from plain text files (one item per line, # comments) or
inline comma-separated lists. The persistence parameter steers how deep
into each list the fusion looks.`,
		Example: `  # Fuse two ranking files
  rankfuse fuse systemA.txt systemB.txt

  # Shallow fusion: only the first few ranks matter
  rankfuse fuse -p 0.6 systemA.txt systemB.txt

  # Inline rankings, JSON output
  rankfuse fuse -r "A,B,C" -r "B,A,D" --format json

  # Re-fuse whenever an input file changes
  rankfuse watch systemA.txt systemB.txt`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("rankfuse version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: .rankfuse.yaml, then ~/.config/rankfuse/config.yaml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.PersistentFlags().StringVar(&profileCPU, "cpu-profile", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&profileMem, "mem-profile", "", "Write memory profile to file")

	cmd.PersistentPreRunE = startProfilingAndLogging
	cmd.PersistentPostRunE = stopProfilingAndLogging

	cmd.AddCommand(newFuseCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// startProfilingAndLogging resolves configuration, installs the global
// logger, and starts CPU profiling if requested.
func startProfilingAndLogging(_ *cobra.Command, _ []string) error {
	cfg, err := loadRootConfig()
	if err != nil {
		return err
	}
	rootCfg = cfg

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.FilePath = cfg.Log.File
	logCfg.WriteToStderr = false
	logger, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	loggingCleanup = cleanup
	slog.SetDefault(logger)

	if profileCPU != "" {
		cpuCleanup, err = profiler.StartCPU(profileCPU)
		if err != nil {
			return fmt.Errorf("failed to start CPU profile: %w", err)
		}
	}

	return nil
}

// stopProfilingAndLogging stops CPU profiling, writes the heap profile if
// requested, and closes the log file.
func stopProfilingAndLogging(_ *cobra.Command, _ []string) error {
	if cpuCleanup != nil {
		cpuCleanup()
		cpuCleanup = nil
	}

	if profileMem != "" {
		if err := profiler.WriteHeap(profileMem); err != nil {
			return fmt.Errorf("failed to write memory profile: %w", err)
		}
	}

	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}

	return nil
}

// loadRootConfig resolves the effective configuration for this invocation:
// an explicit --config file, or the layered defaults + user + project + env
// merge, with persistent flag overrides applied on top.
func loadRootConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.LoadFile(cfgFile)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, rferrors.New(rferrors.ErrCodeConfigNotFound, err.Error(), err).
				WithSuggestion("check the --config path, or run 'rankfuse config init' to create one")
		}
		return nil, rferrors.New(rferrors.ErrCodeConfigInvalid, err.Error(), err).
			WithSuggestion("compare against the template written by 'rankfuse config init'")
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}
	if noColor {
		cfg.Output.Color = config.ColorNever
	}

	return cfg, nil
}

// rootConfig returns the configuration resolved by the pre-run hook.
func rootConfig() *config.Config {
	if rootCfg != nil {
		return rootCfg
	}
	cfg, err := loadRootConfig()
	if err != nil {
		return config.NewConfig()
	}
	return cfg
}

// Execute runs the root command and prints any error in structured form.
func Execute() error {
	err := NewRootCmd().Execute()
	if err != nil {
		fmt.Fprint(os.Stderr, rferrors.FormatForCLI(err))
	}
	return err
}
