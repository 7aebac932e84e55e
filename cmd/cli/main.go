// Command cli is the non-interactive batch interface to the compression
// engine. It shares the same argument builder and process supervision as the
// desktop application.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "video-compressor",
		Short:         "Compress, preview, and inspect videos with ffmpeg",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		newCompressCommand(),
		newThumbnailCommand(),
		newPreviewCommand(),
		newProbeCommand(),
	)
	return root
}
