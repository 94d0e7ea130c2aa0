package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	listJSON   bool
	listHidden bool
	listQuery  string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, pinned first then most recently updated",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		env := mustEnv(ctx)
		defer env.Close()

		if listHidden {
			env.App.ToggleHidden()
		}
		env.App.SetQuery(listQuery)
		visible := env.App.Visible()

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(visible); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		for _, n := range visible {
			marker := " "
			if n.IsPinned {
				marker = "*"
			}
			title := n.Title
			if strings.TrimSpace(title) == "" {
				title = "(untitled)"
			}
			fmt.Printf("%s %s  %s  %s  [%d blocks]\n", marker, n.ID, n.UpdatedAt.Local().Format("2006-01-02 15:04"), title, len(n.Blocks))
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().BoolVar(&listHidden, "hidden", false, "List hidden notes instead")
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "Only notes whose title or text contains the query")
}
