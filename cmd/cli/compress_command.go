package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"video-compressor/internal/domain"
	"video-compressor/internal/engine"
)

func newCompressCommand() *cobra.Command {
	flags := &encodeFlags{}
	var onConflict string

	cmd := &cobra.Command{
		Use:   "compress <file> [file...]",
		Short: "Transcode one or more videos",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			eng, err := newEngine(flags.outputDir)
			if err != nil {
				return err
			}

			succeeded, failed, skipped := 0, 0, 0
			for index, inputPath := range args {
				fmt.Printf("Processing %d/%d: %s\n", index+1, len(args), inputPath)

				opts, err := flags.options(inputPath)
				if err != nil {
					return err
				}

				outputPath, err := resolveOutputPath(inputPath, flags.outputDir, opts.Extension, onConflict)
				if errors.Is(err, errSkipExisting) {
					fmt.Println("Skipped (output exists).")
					skipped++
					continue
				}
				if err != nil {
					return err
				}

				if err := compressOne(ctx, eng, opts, outputPath); err != nil {
					failed++
					fmt.Printf("Failed: %v\n", err)
					continue
				}
				succeeded++
				fmt.Printf("Saved to %s\n", outputPath)
			}

			fmt.Printf("\nDone. Succeeded: %d, Failed: %d, Skipped: %d\n", succeeded, failed, skipped)
			if failed > 0 {
				return fmt.Errorf("%d file(s) failed", failed)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&onConflict, "on-conflict", "auto-rename", "existing output handling: overwrite, skip, or auto-rename")
	return cmd
}

// compressOne runs a single transcode with a terminal progress bar scaled to
// the probed source duration when available.
func compressOne(ctx context.Context, eng *engine.Engine, opts domain.CompressionOptions, outputPath string) error {
	totalMillis := int64(-1)
	if info, err := eng.Probe(ctx, opts.VideoPath); err == nil && info.Duration != "" {
		if seconds, ok := engine.ParseTimecode(info.Duration); ok {
			totalMillis = int64(seconds * 1000)
		}
	}

	bar := progressbar.NewOptions64(totalMillis,
		progressbar.OptionSetDescription(filepath.Base(opts.VideoPath)),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
	)

	_, err := eng.CompressTo(ctx, opts, outputPath, nil, func(event domain.ProgressEvent) {
		position := int64(event.ElapsedSeconds * 1000)
		if totalMillis > 0 && position > totalMillis {
			position = totalMillis
		}
		_ = bar.Set64(position)
	})
	_ = bar.Finish()
	return err
}
