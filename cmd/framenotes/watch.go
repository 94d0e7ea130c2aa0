package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	lcsource "github.com/aretw0/framenotes/pkg/adapters/lifecycle"
	"github.com/aretw0/framenotes/pkg/core"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload and print the notes whenever another process changes them",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		env := mustEnv(ctx)
		defer env.Close()

		events, err := env.Watch(ctx)
		if err != nil {
			fatal("Failed to watch notes", err)
		}
		src := lcsource.NewSource(events, core.EventModify)
		if err := src.Start(ctx); err != nil {
			fatal("Failed to start watcher", err)
		}

		fmt.Printf("Watching %d notes (Ctrl+C to stop)\n", len(env.Library.Notes()))
		for e := range src.Events() {
			if err := env.Library.Reload(ctx); err != nil {
				slog.Error("reload failed", "error", err)
				continue
			}
			fmt.Printf("%s: %d notes\n", e, len(env.Library.Notes()))
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
