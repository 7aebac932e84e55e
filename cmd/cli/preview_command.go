package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPreviewCommand() *cobra.Command {
	flags := &encodeFlags{}
	var seconds int

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Render before/after quality preview clips around the midpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			opts, err := flags.options(args[0])
			if err != nil {
				return err
			}

			eng, err := newEngine(flags.outputDir)
			if err != nil {
				return err
			}

			result, err := eng.GeneratePreview(ctx, opts, seconds)
			if err != nil {
				return err
			}

			fmt.Printf("Source clip:     %s\n", result.SourceFilePath)
			fmt.Printf("Compressed clip: %s\n", result.CompressedFilePath)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&seconds, "seconds", 0, "preview length in seconds (1-120, 0 selects the default)")
	return cmd
}
