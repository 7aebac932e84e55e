package engine

import (
	"context"
	"path/filepath"
	"sync"

	"video-compressor/internal/domain"
	"video-compressor/internal/encoder"
	"video-compressor/internal/jobs"
)

// Compress runs a full transcode into the engine's artifact directory,
// streaming progress until the encoder exits.
func (e *Engine) Compress(
	ctx context.Context,
	opts domain.CompressionOptions,
	token *jobs.Token,
	onProgress func(domain.ProgressEvent),
) (domain.CompressionResult, error) {
	if !domain.IsSupportedExtension(opts.Extension) {
		return domain.CompressionResult{}, &JobError{
			Kind:    KindValidation,
			Message: "invalid convert to extension: " + opts.Extension,
		}
	}

	id := opts.VideoID
	if id == "" {
		id = e.newID()
	}
	outputPath := filepath.Join(e.assetsDir, id+"."+opts.Extension)

	return e.compressTo(ctx, opts, id, outputPath, token, onProgress)
}

// CompressTo runs a full transcode to an explicit output path. The target
// container is taken from opts and must be one of the supported extensions.
func (e *Engine) CompressTo(
	ctx context.Context,
	opts domain.CompressionOptions,
	outputPath string,
	token *jobs.Token,
	onProgress func(domain.ProgressEvent),
) (domain.CompressionResult, error) {
	if !domain.IsSupportedExtension(opts.Extension) {
		return domain.CompressionResult{}, &JobError{
			Kind:    KindValidation,
			Message: "invalid convert to extension: " + opts.Extension,
		}
	}

	id := opts.VideoID
	if id == "" {
		id = e.newID()
	}

	return e.compressTo(ctx, opts, id, outputPath, token, onProgress)
}

// compressTo spawns the encoder and supervises it until completion. On every
// exit path the cancellation hook is unbound and a final idempotent kill is
// issued before the result is reported.
func (e *Engine) compressTo(
	ctx context.Context,
	opts domain.CompressionOptions,
	id string,
	outputPath string,
	token *jobs.Token,
	onProgress func(domain.ProgressEvent),
) (domain.CompressionResult, error) {
	fileName := filepath.Base(outputPath)
	invocation := encoder.Build(opts, outputPath)

	proc, err := e.starter.Start(e.ffmpegPath, invocation.Args)
	if err != nil {
		return domain.CompressionResult{}, &JobError{
			Kind:    KindSpawn,
			Message: "could not launch encoder",
			Err:     err,
		}
	}

	done := make(chan struct{})
	watchTeardown(ctx, proc, done)
	if token != nil {
		token.Bind(proc.Kill)
	}

	ticks := make(chan domain.ProgressEvent, progressBuffer)
	var forwarder sync.WaitGroup
	forwarder.Add(1)
	go func() {
		defer forwarder.Done()
		for event := range ticks {
			if onProgress != nil {
				onProgress(event)
			}
		}
	}()

	var readers sync.WaitGroup
	readers.Add(2)
	go func() {
		defer readers.Done()
		scanProgress(proc.Stdout(), id, fileName, ticks)
	}()
	go func() {
		defer readers.Done()
		drain(proc.Stderr())
	}()

	readers.Wait()
	waitErr := proc.Wait()

	close(ticks)
	forwarder.Wait()
	close(done)
	if token != nil {
		token.Unbind()
	}
	proc.Kill()

	// The cancellation flag wins over any exit-code-derived failure.
	if token != nil && token.Cancelled() {
		return domain.CompressionResult{}, cancelledError()
	}
	if waitErr != nil {
		return domain.CompressionResult{}, &JobError{
			Kind:    KindRuntime,
			Message: "video is corrupted or unsupported",
			Err:     waitErr,
		}
	}

	return domain.CompressionResult{FileName: fileName, FilePath: outputPath}, nil
}
