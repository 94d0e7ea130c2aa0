package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/framenotes/pkg/theme"
)

var themeCmd = &cobra.Command{
	Use:   "theme [name]",
	Short: "Show or set the theme",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		env := mustEnv(ctx)
		defer env.Close()

		if len(args) == 0 {
			current := env.App.Theme()
			for _, id := range theme.All() {
				marker := " "
				if id == current {
					marker = "*"
				}
				fmt.Printf("%s %s\n", marker, id)
			}
			return
		}

		if err := env.App.SetTheme(ctx, theme.ID(args[0])); err != nil {
			fatal("Failed to set theme", err)
		}
		fmt.Printf("Theme set to %s\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(themeCmd)
}
