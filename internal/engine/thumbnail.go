package engine

import (
	"context"
	"path/filepath"
	"sync"

	"video-compressor/internal/domain"
	"video-compressor/internal/encoder"
)

// GenerateThumbnail extracts a single frame one second into the video as a
// .jpg in the artifact directory.
func (e *Engine) GenerateThumbnail(ctx context.Context, videoPath string) (domain.ThumbnailResult, error) {
	if _, err := e.stat(videoPath); err != nil {
		return domain.ThumbnailResult{}, &JobError{
			Kind:    KindNotFound,
			Message: "file does not exist in given path: " + videoPath,
			Err:     err,
		}
	}

	id := e.newID()
	fileName := id + ".jpg"
	outputPath := filepath.Join(e.assetsDir, fileName)

	proc, err := e.starter.Start(e.ffmpegPath, encoder.ThumbnailArgs(videoPath, outputPath))
	if err != nil {
		return domain.ThumbnailResult{}, &JobError{
			Kind:    KindSpawn,
			Message: "could not launch encoder",
			Err:     err,
		}
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

	if waitErr != nil {
		return domain.ThumbnailResult{}, &JobError{
			Kind:    KindRuntime,
			Message: "video is corrupted or unsupported",
			Err:     waitErr,
		}
	}

	return domain.ThumbnailResult{ID: id, FileName: fileName, FilePath: outputPath}, nil
}
