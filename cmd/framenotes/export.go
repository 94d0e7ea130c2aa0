package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/framenotes/pkg/codec"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every note to stdout as JSON or YAML",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		env := mustEnv(ctx)
		defer env.Close()

		all := env.Library.Notes()
		var (
			data []byte
			err  error
		)
		switch exportFormat {
		case "json":
			data, err = codec.EncodeNotes(all)
		case "yaml":
			data, err = codec.EncodeYAML(all)
		default:
			err = fmt.Errorf("unknown format %q", exportFormat)
		}
		if err != nil {
			fatal("Failed to export notes", err)
		}
		os.Stdout.Write(data)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Output format: json or yaml")
}
