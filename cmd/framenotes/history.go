package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var historyCount int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved versions of the notes (requires --history)",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		env := mustEnv(ctx)
		defer env.Close()

		commits, err := env.History(ctx, historyCount)
		if err != nil {
			fatal("Failed to read history", err)
		}
		for _, c := range commits {
			fmt.Printf("%.8s  %s  %s\n", c.Hash, c.When.Local().Format("2006-01-02 15:04:05"), c.Subject)
		}
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyCount, "count", "n", 20, "Number of versions to list")
}
