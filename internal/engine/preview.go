package engine

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"video-compressor/internal/domain"
	"video-compressor/internal/encoder"
)

const (
	defaultPreviewSeconds = 20
	minPreviewSeconds     = 1
	maxPreviewSeconds     = 120
)

// GeneratePreview renders two short clips around the source's midpoint: an
// untouched reference clip and a clip with the requested filters and
// compression applied. Both must succeed; a partial result is cleaned up.
// previewSeconds <= 0 selects the default length.
func (e *Engine) GeneratePreview(
	ctx context.Context,
	opts domain.CompressionOptions,
	previewSeconds int,
) (domain.PreviewResult, error) {
	if _, err := e.stat(opts.VideoPath); err != nil {
		return domain.PreviewResult{}, &JobError{
			Kind:    KindNotFound,
			Message: "file does not exist in given path: " + opts.VideoPath,
			Err:     err,
		}
	}
	if !domain.IsSupportedExtension(opts.Extension) {
		return domain.PreviewResult{}, &JobError{
			Kind:    KindValidation,
			Message: "invalid convert to extension: " + opts.Extension,
		}
	}

	seconds := clampPreviewSeconds(previewSeconds)
	seek := strconv.FormatFloat(e.previewSeekSeconds(ctx, opts.VideoPath, seconds), 'f', 3, 64)

	id := e.newID()
	sourceFileName := id + "-preview-source.mp4"
	compressedExtension := "mp4"
	if opts.Extension == "webm" {
		compressedExtension = "webm"
	}
	compressedFileName := id + "-preview-compressed." + compressedExtension

	sourcePath := filepath.Join(e.assetsDir, sourceFileName)
	compressedPath := filepath.Join(e.assetsDir, compressedFileName)

	if err := e.runPreviewClip(ctx, encoder.BuildPreviewSource(opts, seek, seconds, sourcePath)); err != nil {
		e.cleanupArtifacts(sourcePath)
		return domain.PreviewResult{}, &JobError{
			Kind:    KindRuntime,
			Message: "could not generate source preview",
			Err:     err,
		}
	}

	if err := e.runPreviewClip(ctx, encoder.BuildPreviewCompressed(opts, seek, seconds, compressedPath)); err != nil {
		e.cleanupArtifacts(sourcePath, compressedPath)
		return domain.PreviewResult{}, &JobError{
			Kind:    KindPartial,
			Message: "could not generate compressed preview",
			Err:     err,
		}
	}

	return domain.PreviewResult{
		SourceFileName:     sourceFileName,
		SourceFilePath:     sourcePath,
		CompressedFileName: compressedFileName,
		CompressedFilePath: compressedPath,
	}, nil
}

// previewSeekSeconds probes the source duration and centers the preview
// window on it. Any probe failure falls back to the start of the video.
func (e *Engine) previewSeekSeconds(ctx context.Context, videoPath string, previewSeconds int) float64 {
	info, err := e.Probe(ctx, videoPath)
	if err != nil || info.Duration == "" {
		return 0
	}

	total, ok := ParseTimecode(info.Duration)
	if !ok || total <= float64(previewSeconds) {
		return 0
	}

	seek := total/2 - float64(previewSeconds)/2
	if seek < 0 {
		return 0
	}
	return seek
}

// clampPreviewSeconds applies the default length and the allowed bounds.
func clampPreviewSeconds(seconds int) int {
	if seconds <= 0 {
		return defaultPreviewSeconds
	}
	if seconds < minPreviewSeconds {
		return minPreviewSeconds
	}
	if seconds > maxPreviewSeconds {
		return maxPreviewSeconds
	}
	return seconds
}

// runPreviewClip runs one short sub-encode to completion.
func (e *Engine) runPreviewClip(ctx context.Context, invocation encoder.Invocation) error {
	proc, err := e.starter.Start(e.ffmpegPath, invocation.Args)
	if err != nil {
		return &JobError{Kind: KindSpawn, Message: "could not launch encoder", Err: err}
	}

	done := make(chan struct{})
	watchTeardown(ctx, proc, done)

	var readers sync.WaitGroup
	readers.Add(2)
	go func() {
		defer readers.Done()
		drain(proc.Stdout())
	}()
	go func() {
		defer readers.Done()
		drain(proc.Stderr())
	}()

	readers.Wait()
	waitErr := proc.Wait()
	close(done)
	proc.Kill()

	return waitErr
}

// cleanupArtifacts removes partial outputs. A failed delete is logged, not
// escalated; the job has already failed for another reason.
func (e *Engine) cleanupArtifacts(paths ...string) {
	for _, path := range paths {
		if err := e.remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("cleanup preview artifact %s: %v", path, err)
		}
	}
}
