// Package engine orchestrates ffmpeg processes: full transcodes with live
// progress and cancellation, single-frame thumbnails, two-clip quality
// previews, and metadata probes. Each job owns its process handle and tasks;
// nothing is shared across jobs.
package engine

import (
	"os"

	"github.com/google/uuid"
)

// Engine drives encoder jobs against one ffmpeg binary and one artifact
// directory.
type Engine struct {
	ffmpegPath string
	assetsDir  string
	starter    starter
	newID      func() string
	stat       func(string) (os.FileInfo, error)
	remove     func(string) error
}

// New constructs an engine for a located ffmpeg binary writing artifacts into
// assetsDir. The directory is assumed to exist and be writable.
func New(ffmpegPath, assetsDir string) *Engine {
	return &Engine{
		ffmpegPath: ffmpegPath,
		assetsDir:  assetsDir,
		starter:    &execStarter{},
		newID:      uuid.NewString,
		stat:       os.Stat,
		remove:     os.Remove,
	}
}

// AssetsDir returns the directory receiving generated artifacts.
func (e *Engine) AssetsDir() string {
	return e.assetsDir
}

// NewEngineForTests constructs an engine with injectable dependencies.
func NewEngineForTests(
	ffmpegPath string,
	assetsDir string,
	st starter,
	newID func() string,
	stat func(string) (os.FileInfo, error),
	remove func(string) error,
) *Engine {
	return &Engine{
		ffmpegPath: ffmpegPath,
		assetsDir:  assetsDir,
		starter:    st,
		newID:      newID,
		stat:       stat,
		remove:     remove,
	}
}
