package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/framenotes"
	"github.com/aretw0/framenotes/internal/config"
	"github.com/aretw0/framenotes/internal/metrics"
)

var (
	verbose    bool
	dataDir    string
	adapter    string
	history    bool
	readOnly   bool
	configPath string

	cfg config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "framenotes",
	Short: "Notes made of text, images and videos, with drawings on top",
	Long: `Frame Notes keeps a notebook of block-based notes on this device.
Images and videos are embedded in the notes and can be annotated with
freehand drawings. Notes are stored as a single JSON document in a data
directory, or in a SQLite database.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath != "" {
			cfg, err = config.Load(configPath)
		} else {
			wd, wdErr := os.Getwd()
			if wdErr != nil {
				return wdErr
			}
			cfg, _, err = config.Discover(wd)
		}
		if err != nil {
			return err
		}

		level := cfg.Level()
		if verbose {
			level = slog.LevelDebug
		}
		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		runExitHooks()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "dir", "d", "", "Data directory (default: config data_dir or current directory)")
	rootCmd.PersistentFlags().StringVar(&adapter, "adapter", "", "Storage adapter: fs, sqlite or memory")
	rootCmd.PersistentFlags().BoolVar(&history, "history", false, "Commit every save to git (fs adapter)")
	rootCmd.PersistentFlags().BoolVar(&readOnly, "read-only", false, "Never write to the data directory")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to framenotes.yaml (default: searched upwards)")
}

// openEnv wires an instance from the configuration file and the flags.
// Flags win over the configuration file.
func openEnv(ctx context.Context, m *metrics.Metrics) (*framenotes.Env, error) {
	dir := dataDir
	if dir == "" {
		dir = cfg.DataDir
	}
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir = wd
	}

	opts := cfg.Options()
	opts = append(opts, framenotes.WithLogger(slog.Default()))
	if adapter != "" {
		opts = append(opts, framenotes.WithAdapter(adapter))
	}
	if history {
		opts = append(opts, framenotes.WithHistory(true))
	}
	if readOnly {
		opts = append(opts, framenotes.WithReadOnly(true))
	}
	if m != nil {
		opts = append(opts, framenotes.WithMetrics(m))
	}
	env, err := framenotes.New(ctx, dir, opts...)
	if err != nil {
		return nil, err
	}
	onFatal(env.Close)
	return env, nil
}

// mustEnv is openEnv for commands that cannot continue without notes.
func mustEnv(ctx context.Context) *framenotes.Env {
	env, err := openEnv(ctx, nil)
	if err != nil {
		fatal("Failed to open notes", err)
	}
	return env
}
