package bootstrap

import (
	"fmt"
	"os"
	"os/exec"
	goruntime "runtime"
	"strings"
	"time"

	"video-compressor/internal/config"
	"video-compressor/internal/domain"
)

const installCommandTimeout = 30 * time.Minute

// installOption is one package-manager route for installing ffmpeg.
type installOption struct {
	manager string
	command []string
}

// InstallOrFixDiagnostic applies an OS-specific remediation for one failed
// diagnostic item and returns the refreshed report.
func (a *App) InstallOrFixDiagnostic(itemID string) (domain.DiagnosticReport, error) {
	if a.Store == nil {
		return domain.DiagnosticReport{}, fmt.Errorf("settings store is not configured")
	}

	id := strings.TrimSpace(itemID)
	if id == "" {
		return domain.DiagnosticReport{}, fmt.Errorf("diagnostic item id is required")
	}

	settings, err := a.Store.Load()
	if err != nil {
		return domain.DiagnosticReport{}, fmt.Errorf("load settings: %w", err)
	}

	settingsChanged := false
	var fixErr error

	switch id {
	case "tool_ffmpeg":
		fixErr = installFFmpegForCurrentOS()
	case "output_dir":
		settings, settingsChanged, fixErr = fixOutputDir(settings)
	default:
		return domain.DiagnosticReport{}, fmt.Errorf("unsupported diagnostic item id: %s", id)
	}

	if settingsChanged {
		if saveErr := a.Store.Save(settings); saveErr != nil {
			report := a.refreshDiagnosticsFromSettings(settings)
			return report, fmt.Errorf("save settings after fix: %w", saveErr)
		}
	}

	report := a.refreshDiagnosticsFromSettings(settings)
	if fixErr != nil {
		return report, fixErr
	}
	return report, nil
}

func (a *App) refreshDiagnosticsFromSettings(settings domain.Settings) domain.DiagnosticReport {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Settings = settings
	if a.checker != nil {
		a.Diagnostics = a.checker.Run(settings)
	}
	return a.Diagnostics
}

// installFFmpegForCurrentOS tries the platform's package managers in order.
func installFFmpegForCurrentOS() error {
	var options []installOption
	switch goruntime.GOOS {
	case "darwin":
		options = []installOption{
			{manager: "brew", command: []string{"brew", "install", "ffmpeg"}},
		}
	case "windows":
		options = []installOption{
			{manager: "winget", command: []string{"winget", "install", "--id", "Gyan.FFmpeg", "-e", "--silent"}},
			{manager: "choco", command: []string{"choco", "install", "ffmpeg", "-y"}},
		}
	default:
		options = []installOption{
			{manager: "apt-get", command: []string{"sudo", "apt-get", "install", "-y", "ffmpeg"}},
			{manager: "dnf", command: []string{"sudo", "dnf", "install", "-y", "ffmpeg"}},
			{manager: "pacman", command: []string{"sudo", "pacman", "-S", "--noconfirm", "ffmpeg"}},
		}
	}

	var attempted []string
	for _, option := range options {
		if _, err := exec.LookPath(option.manager); err != nil {
			continue
		}
		attempted = append(attempted, option.manager)
		if err := runInstallCommand(option.command); err == nil {
			return nil
		}
	}

	if len(attempted) == 0 {
		return fmt.Errorf("no supported package manager found; install ffmpeg manually")
	}
	return fmt.Errorf("ffmpeg installation failed via %s; install it manually", strings.Join(attempted, ", "))
}

// runInstallCommand runs one install command with a generous timeout.
func runInstallCommand(command []string) error {
	cmd := exec.Command(command[0], command[1:]...)
	if err := cmd.Start(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		return err
	case <-time.After(installCommandTimeout):
		_ = cmd.Process.Kill()
		return fmt.Errorf("install command timed out: %s", strings.Join(command, " "))
	}
}

// fixOutputDir resets an unusable output directory to the default location.
func fixOutputDir(settings domain.Settings) (domain.Settings, bool, error) {
	fallback := config.DefaultSettings().OutputDir

	target := strings.TrimSpace(settings.OutputDir)
	if target == "" {
		target = fallback
	}

	if err := os.MkdirAll(target, 0o755); err != nil {
		if target == fallback {
			return settings, false, fmt.Errorf("create output directory: %w", err)
		}
		if err := os.MkdirAll(fallback, 0o755); err != nil {
			return settings, false, fmt.Errorf("create default output directory: %w", err)
		}
		target = fallback
	}

	changed := settings.OutputDir != target
	settings.OutputDir = target
	return settings, changed, nil
}
