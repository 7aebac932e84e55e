package engine

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os/exec"
	"regexp"
	"strconv"

	"video-compressor/internal/domain"
	"video-compressor/internal/encoder"
)

var (
	durationRe  = regexp.MustCompile(`Duration: (.*?),`)
	dimensionRe = regexp.MustCompile(`Video:.*?,.*? (\d{2,5})x(\d{2,5})`)
	fpsRe       = regexp.MustCompile(`(\d+(\.\d+)?) fps`)
)

// Probe inspects a source file's metadata without producing output. A probe
// invocation exits nonzero because no output file is given; that is not a
// failure. Only a file that cannot be found or a process that cannot be
// waited on fails the probe.
func (e *Engine) Probe(ctx context.Context, videoPath string) (domain.MediaInfo, error) {
	if _, err := e.stat(videoPath); err != nil {
		return domain.MediaInfo{}, &JobError{
			Kind:    KindNotFound,
			Message: "file does not exist in given path: " + videoPath,
			Err:     err,
		}
	}

	proc, err := e.starter.Start(e.ffmpegPath, encoder.ProbeArgs(videoPath))
	if err != nil {
		return domain.MediaInfo{}, &JobError{
			Kind:    KindSpawn,
			Message: "could not launch encoder",
			Err:     err,
		}
	}

	done := make(chan struct{})
	watchTeardown(ctx, proc, done)

	go drain(proc.Stdout())

	stderr := proc.Stderr()
	info := scanMediaInfo(stderr)
	go drain(stderr)

	waitErr := proc.Wait()
	close(done)
	proc.Kill()

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		return domain.MediaInfo{}, &JobError{
			Kind:    KindIO,
			Message: "could not read media info",
			Err:     waitErr,
		}
	}

	return info, nil
}

// scanMediaInfo scans diagnostic lines for duration, dimensions, and frame
// rate, each filled as soon as found, stopping early once all three are
// satisfied or the stream closes.
func scanMediaInfo(r io.Reader) domain.MediaInfo {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var info domain.MediaInfo
	for scanner.Scan() {
		line := scanner.Text()

		if info.Duration == "" {
			if m := durationRe.FindStringSubmatch(line); m != nil {
				info.Duration = m[1]
			}
		}
		if info.Dimensions == nil {
			if m := dimensionRe.FindStringSubmatch(line); m != nil {
				width, werr := strconv.Atoi(m[1])
				height, herr := strconv.Atoi(m[2])
				if werr == nil && herr == nil {
					info.Dimensions = &domain.Dimensions{Width: width, Height: height}
				}
			}
		}
		if info.FPS == 0 {
			if m := fpsRe.FindStringSubmatch(line); m != nil {
				if fps, err := strconv.ParseFloat(m[1], 64); err == nil {
					info.FPS = fps
				}
			}
		}

		if info.Duration != "" && info.Dimensions != nil && info.FPS != 0 {
			break
		}
	}

	return info
}
