package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/framenotes/internal/metrics"
)

var stateMetrics bool

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the state of every component",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		m := metrics.New()
		env, err := openEnv(ctx, m)
		if err != nil {
			fatal("Failed to open notes", err)
		}
		defer env.Close()

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(env.State()); err != nil {
			fatal("Error encoding JSON", err)
		}
		if stateMetrics {
			if err := m.WriteText(os.Stdout); err != nil {
				fatal("Failed to write metrics", err)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(stateCmd)
	stateCmd.Flags().BoolVar(&stateMetrics, "metrics", false, "Also print the prometheus counters")
}
