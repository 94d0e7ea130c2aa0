package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/framenotes"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of framenotes",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("framenotes version %s\n", strings.TrimSpace(framenotes.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
