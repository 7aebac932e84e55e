package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newThumbnailCommand() *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "thumbnail <file>",
		Short: "Extract a single-frame thumbnail image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			eng, err := newEngine(outputDir)
			if err != nil {
				return err
			}

			result, err := eng.GenerateThumbnail(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Saved thumbnail to %s\n", result.FilePath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", ".", "directory for the thumbnail image")
	return cmd
}
