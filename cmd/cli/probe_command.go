package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newProbeCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "probe <file>",
		Short: "Print duration, dimensions, and frame rate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			eng, err := newEngine(os.TempDir())
			if err != nil {
				return err
			}

			info, err := eng.Probe(ctx, args[0])
			if err != nil {
				return err
			}

			if asJSON {
				encoded, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(encoded))
				return nil
			}

			duration := info.Duration
			if duration == "" {
				duration = "unknown"
			}
			fmt.Printf("Duration:   %s\n", duration)
			if info.Dimensions != nil {
				fmt.Printf("Dimensions: %dx%d\n", info.Dimensions.Width, info.Dimensions.Height)
			} else {
				fmt.Println("Dimensions: unknown")
			}
			if info.FPS > 0 {
				fmt.Printf("Frame rate: %g fps\n", info.FPS)
			} else {
				fmt.Println("Frame rate: unknown")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print media info as JSON")
	return cmd
}
