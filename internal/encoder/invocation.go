// Package encoder builds ffmpeg invocations from compression options and
// resolves the ffmpeg executable. It is the single source of truth for the
// quality mapping, preset flag sets, and filter-graph composition used by
// every call site.
package encoder

import (
	"path/filepath"
	"strconv"

	"video-compressor/internal/domain"
)

const (
	// CRF bounds: a lower CRF means higher visual quality and larger output.
	minCRF     = 24
	maxCRF     = 36
	defaultCRF = 28

	videoCodec = "libx264"
	webmCodec  = "libvpx-vp9"
)

// QualityToCRF maps quality in [0,100] linearly and inversely onto the CRF
// range. Out-of-range quality falls back to the fixed default.
func QualityToCRF(quality int) int {
	if quality < 0 || quality > 100 {
		return defaultCRF
	}
	diff := (maxCRF - minCRF) - ((maxCRF-minCRF)*quality)/100
	return minCRF + diff
}

// Invocation is an ordered encoder argument sequence plus the filter graph it
// embeds. Immutable once built; identical options produce identical
// invocations for the same output path.
type Invocation struct {
	Args        []string
	FilterGraph string
}

// Build assembles the full compression invocation writing to outputPath.
func Build(opts domain.CompressionOptions, outputPath string) Invocation {
	crf := strconv.Itoa(QualityToCRF(opts.Quality))
	graph := FilterGraph(opts.Transforms, opts.Dimensions)

	args := progressBaseArgs(opts.VideoPath)
	args = append(args, presetArgs(opts.Preset, crf)...)
	args = append(args, "-vf", graph)
	args = appendTrailingArgs(args, opts, outputPath)

	return Invocation{Args: args, FilterGraph: graph}
}

// BuildPreviewSource assembles the untouched short-clip invocation: a fast,
// near-lossless cut around the seek point with the same filter graph applied.
func BuildPreviewSource(opts domain.CompressionOptions, seek string, seconds int, outputPath string) Invocation {
	graph := FilterGraph(opts.Transforms, opts.Dimensions)

	args := append(quietBaseArgs(opts.VideoPath),
		"-ss", seek,
		"-t", strconv.Itoa(seconds),
		"-pix_fmt", "yuv420p",
		"-c:v", videoCodec,
		"-preset", "veryfast",
		"-crf", "18",
		"-movflags", "+faststart",
		"-vf", graph,
	)
	if opts.FPS != "" {
		args = append(args, "-r", opts.FPS)
	}
	args = append(args, "-an", outputPath, "-y")

	return Invocation{Args: args, FilterGraph: graph}
}

// BuildPreviewCompressed assembles the filtered, compressed short-clip
// invocation using the same preset and quality logic as a full transcode.
func BuildPreviewCompressed(opts domain.CompressionOptions, seek string, seconds int, outputPath string) Invocation {
	crf := strconv.Itoa(QualityToCRF(opts.Quality))
	graph := FilterGraph(opts.Transforms, opts.Dimensions)

	args := append(quietBaseArgs(opts.VideoPath), "-ss", seek, "-t", strconv.Itoa(seconds))
	args = append(args, presetArgs(opts.Preset, crf)...)
	args = append(args, "-vf", graph)
	args = appendTrailingArgs(args, opts, outputPath)

	return Invocation{Args: args, FilterGraph: graph}
}

// ProbeArgs builds a metadata-only invocation that produces no output file.
func ProbeArgs(videoPath string) []string {
	return []string{"-i", videoPath, "-hide_banner"}
}

// ThumbnailArgs builds a single-frame extraction at a fixed 1 second offset.
func ThumbnailArgs(videoPath, outputPath string) []string {
	return []string{
		"-i", videoPath,
		"-ss", "00:00:01.00",
		"-vframes", "1",
		outputPath,
		"-y",
	}
}

// progressBaseArgs emits machine-readable progress on stdout and keeps the
// diagnostic stream quiet.
func progressBaseArgs(videoPath string) []string {
	return []string{
		"-i", videoPath,
		"-hide_banner",
		"-progress", "-",
		"-nostats",
		"-loglevel", "error",
	}
}

// quietBaseArgs suppresses banner and stats without progress reporting.
func quietBaseArgs(videoPath string) []string {
	return []string{
		"-i", videoPath,
		"-hide_banner",
		"-nostats",
		"-loglevel", "error",
	}
}

// presetArgs returns the flag set for a named preset. The thunderbolt preset
// (and an unset preset) omits the deep pixel-format and rate-hint flags for a
// faster encode; the default preset applies the full fidelity set.
func presetArgs(preset domain.Preset, crf string) []string {
	if preset == domain.PresetDefault {
		return []string{
			"-pix_fmt", "yuv420p",
			"-c:v", videoCodec,
			"-b:v", "0",
			"-movflags", "+faststart",
			"-preset", "slow",
			"-qp", "0",
			"-crf", crf,
		}
	}
	return []string{"-c:v", videoCodec, "-crf", crf}
}

// appendTrailingArgs appends the frame-rate override, container codec
// override, mute flag, output path, and overwrite flag. The order matters:
// ffmpeg applies the last occurrence of a repeated flag, so the webm codec
// override must follow the preset's codec.
func appendTrailingArgs(args []string, opts domain.CompressionOptions, outputPath string) []string {
	if opts.FPS != "" {
		args = append(args, "-r", opts.FPS)
	}
	if targetExtension(outputPath, opts.Extension) == "webm" {
		args = append(args, "-c:v", webmCodec)
	}
	if opts.Mute {
		args = append(args, "-an")
	}
	return append(args, outputPath, "-y")
}

// targetExtension prefers the explicit option and falls back to the output
// file name.
func targetExtension(outputPath, ext string) string {
	if ext != "" {
		return ext
	}
	out := filepath.Ext(outputPath)
	if out == "" {
		return ""
	}
	return out[1:]
}
