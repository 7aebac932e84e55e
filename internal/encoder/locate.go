package encoder

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	goruntime "runtime"
)

// EnvFFmpegPath overrides ffmpeg resolution when set to an existing file.
const EnvFFmpegPath = "VIDEO_COMPRESSOR_FFMPEG_PATH"

// ErrFFmpegNotFound is returned when no resolution step yields a binary.
var ErrFFmpegNotFound = errors.New(
	"could not locate ffmpeg binary: set " + EnvFFmpegPath + " or place ffmpeg alongside the application")

// Locator resolves the ffmpeg executable in priority order: environment
// override, sidecar next to the running executable, platform install path,
// then the system search path.
type Locator struct {
	getenv     func(string) string
	executable func() (string, error)
	stat       func(string) (os.FileInfo, error)
	lookPath   func(string) (string, error)
	goos       string
}

// NewLocator builds a locator using real OS dependencies.
func NewLocator() *Locator {
	return &Locator{
		getenv:     os.Getenv,
		executable: os.Executable,
		stat:       os.Stat,
		lookPath:   exec.LookPath,
		goos:       goruntime.GOOS,
	}
}

// Locate returns the ffmpeg path or ErrFFmpegNotFound.
func (l *Locator) Locate() (string, error) {
	if override := l.getenv(EnvFFmpegPath); override != "" {
		if _, err := l.stat(override); err == nil {
			return override, nil
		}
	}

	binary := "ffmpeg" + l.exeSuffix()

	if exePath, err := l.executable(); err == nil {
		exeDir := filepath.Dir(exePath)
		for _, candidate := range []string{
			filepath.Join(exeDir, binary),
			filepath.Join(exeDir, "bin", binary),
		} {
			if _, err := l.stat(candidate); err == nil {
				return candidate, nil
			}
		}
	}

	for _, candidate := range l.installPaths(binary) {
		if _, err := l.stat(candidate); err == nil {
			return candidate, nil
		}
	}

	if path, err := l.lookPath("ffmpeg"); err == nil {
		return path, nil
	}

	return "", ErrFFmpegNotFound
}

// installPaths lists conventional per-platform install locations.
func (l *Locator) installPaths(binary string) []string {
	switch l.goos {
	case "darwin":
		return []string{
			filepath.Join("/opt/homebrew/bin", binary),
			filepath.Join("/usr/local/bin", binary),
		}
	case "windows":
		return []string{filepath.Join(`C:\ffmpeg\bin`, binary)}
	default:
		return []string{
			filepath.Join("/usr/bin", binary),
			filepath.Join("/usr/local/bin", binary),
		}
	}
}

func (l *Locator) exeSuffix() string {
	if l.goos == "windows" {
		return ".exe"
	}
	return ""
}

// NewLocatorForTests creates a locator with injectable dependencies.
func NewLocatorForTests(
	getenv func(string) string,
	executable func() (string, error),
	stat func(string) (os.FileInfo, error),
	lookPath func(string) (string, error),
	goos string,
) *Locator {
	return &Locator{
		getenv:     getenv,
		executable: executable,
		stat:       stat,
		lookPath:   lookPath,
		goos:       goos,
	}
}
