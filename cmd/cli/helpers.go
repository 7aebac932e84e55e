package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"video-compressor/internal/domain"
	"video-compressor/internal/encoder"
	"video-compressor/internal/engine"
)

// encodeFlags holds the options shared by compress and preview commands.
type encodeFlags struct {
	format    string
	preset    string
	quality   int
	fps       string
	width     int
	height    int
	mute      bool
	outputDir string
}

func (f *encodeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.format, "format", "", "target container (mp4, mov, webm, avi, mkv); defaults to the source extension")
	cmd.Flags().StringVar(&f.preset, "preset", "default", "encoder preset: default or thunderbolt")
	cmd.Flags().IntVar(&f.quality, "quality", 70, "quality 0-100, higher is better")
	cmd.Flags().StringVar(&f.fps, "fps", "", "frame-rate override; empty keeps the original")
	cmd.Flags().IntVar(&f.width, "width", 0, "target width; requires --height")
	cmd.Flags().IntVar(&f.height, "height", 0, "target height; requires --width")
	cmd.Flags().BoolVar(&f.mute, "mute", false, "strip the audio track")
	cmd.Flags().StringVarP(&f.outputDir, "output-dir", "o", ".", "directory for generated files")
}

// options maps the flags onto job options for one input file.
func (f *encodeFlags) options(inputPath string) (domain.CompressionOptions, error) {
	ext := strings.ToLower(strings.TrimSpace(f.format))
	if ext == "" {
		ext = strings.ToLower(strings.TrimPrefix(filepath.Ext(inputPath), "."))
	}
	if !domain.IsSupportedExtension(ext) {
		return domain.CompressionOptions{}, fmt.Errorf("unsupported target format: %q", ext)
	}

	var preset domain.Preset
	switch strings.ToLower(strings.TrimSpace(f.preset)) {
	case "", "default":
		preset = domain.PresetDefault
	case "thunderbolt":
		preset = domain.PresetThunderbolt
	default:
		return domain.CompressionOptions{}, fmt.Errorf("unknown preset: %q", f.preset)
	}

	if f.quality < 0 || f.quality > 100 {
		return domain.CompressionOptions{}, fmt.Errorf("quality must be between 0 and 100")
	}

	var dims *domain.Dimensions
	switch {
	case f.width > 0 && f.height > 0:
		dims = &domain.Dimensions{Width: f.width, Height: f.height}
	case f.width > 0 || f.height > 0:
		return domain.CompressionOptions{}, fmt.Errorf("--width and --height must be set together")
	}

	return domain.CompressionOptions{
		VideoPath:  inputPath,
		Extension:  ext,
		Preset:     preset,
		Quality:    f.quality,
		FPS:        f.fps,
		Mute:       f.mute,
		Dimensions: dims,
	}, nil
}

// newEngine resolves ffmpeg and prepares the output directory.
func newEngine(outputDir string) (*engine.Engine, error) {
	ffmpegPath, err := encoder.NewLocator().Locate()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("prepare output directory: %w", err)
	}

	return engine.New(ffmpegPath, outputDir), nil
}

// signalContext cancels on interrupt so running encoders are killed.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// errSkipExisting marks an output skipped by the conflict policy.
var errSkipExisting = fmt.Errorf("output exists")

// resolveOutputPath applies the conflict policy to the conventional
// <stem>_compressed.<ext> output name.
func resolveOutputPath(inputPath, outputDir, ext, policy string) (string, error) {
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	if stem == "" {
		stem = "output"
	}

	candidate := filepath.Join(outputDir, fmt.Sprintf("%s_compressed.%s", stem, ext))
	if _, err := os.Stat(candidate); err != nil {
		return candidate, nil
	}

	switch policy {
	case "overwrite":
		return candidate, nil
	case "skip":
		return "", errSkipExisting
	case "auto-rename":
		for index := 1; ; index++ {
			candidate = filepath.Join(outputDir, fmt.Sprintf("%s_compressed_%d.%s", stem, index, ext))
			if _, err := os.Stat(candidate); err != nil {
				return candidate, nil
			}
		}
	default:
		return "", fmt.Errorf("unknown conflict policy: %q", policy)
	}
}
