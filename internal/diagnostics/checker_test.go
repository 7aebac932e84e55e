package diagnostics

import (
	"errors"
	"os"
	"testing"

	"video-compressor/internal/domain"
)

func itemByID(t *testing.T, report domain.DiagnosticReport, id string) domain.DiagnosticItem {
	t.Helper()
	for _, item := range report.Items {
		if item.ID == id {
			return item
		}
	}
	t.Fatalf("report has no item %q", id)
	return domain.DiagnosticItem{}
}

// TestRunAllPass checks a healthy environment produces a clean report.
func TestRunAllPass(t *testing.T) {
	checker := NewCheckerForTests(
		func() (string, error) { return "/usr/bin/ffmpeg", nil },
		os.MkdirAll,
		os.CreateTemp,
		os.Remove,
	)

	report := checker.Run(domain.Settings{OutputDir: t.TempDir()})
	if report.HasFailures {
		t.Fatalf("HasFailures = true, report = %+v", report)
	}
	if report.GeneratedAt.IsZero() {
		t.Fatal("GeneratedAt not set")
	}

	ffmpeg := itemByID(t, report, "tool_ffmpeg")
	if ffmpeg.Status != domain.DiagnosticStatusPass {
		t.Fatalf("ffmpeg status = %q", ffmpeg.Status)
	}
	outputDir := itemByID(t, report, "output_dir")
	if outputDir.Status != domain.DiagnosticStatusPass {
		t.Fatalf("output_dir status = %q", outputDir.Status)
	}
}

// TestRunMissingFFmpeg checks the encoder check fails with a hint.
func TestRunMissingFFmpeg(t *testing.T) {
	checker := NewCheckerForTests(
		func() (string, error) { return "", errors.New("not found") },
		os.MkdirAll,
		os.CreateTemp,
		os.Remove,
	)

	report := checker.Run(domain.Settings{OutputDir: t.TempDir()})
	if !report.HasFailures {
		t.Fatal("HasFailures = false")
	}

	ffmpeg := itemByID(t, report, "tool_ffmpeg")
	if ffmpeg.Status != domain.DiagnosticStatusFail {
		t.Fatalf("ffmpeg status = %q", ffmpeg.Status)
	}
	if ffmpeg.Hint == "" {
		t.Fatal("expected a remediation hint")
	}
}

// TestRunEmptyOutputDir checks the empty directory failure.
func TestRunEmptyOutputDir(t *testing.T) {
	checker := NewCheckerForTests(
		func() (string, error) { return "/usr/bin/ffmpeg", nil },
		os.MkdirAll,
		os.CreateTemp,
		os.Remove,
	)

	report := checker.Run(domain.Settings{OutputDir: "   "})
	item := itemByID(t, report, "output_dir")
	if item.Status != domain.DiagnosticStatusFail {
		t.Fatalf("output_dir status = %q", item.Status)
	}
}

// TestRunUnwritableOutputDir checks the write-probe failure path.
func TestRunUnwritableOutputDir(t *testing.T) {
	checker := NewCheckerForTests(
		func() (string, error) { return "/usr/bin/ffmpeg", nil },
		func(string, os.FileMode) error { return nil },
		func(string, string) (*os.File, error) { return nil, errors.New("read-only filesystem") },
		os.Remove,
	)

	report := checker.Run(domain.Settings{OutputDir: "/mnt/readonly"})
	item := itemByID(t, report, "output_dir")
	if item.Status != domain.DiagnosticStatusFail {
		t.Fatalf("output_dir status = %q", item.Status)
	}
	if !report.HasFailures {
		t.Fatal("HasFailures = false")
	}
}

// TestRunUncreatableOutputDir checks the mkdir failure path.
func TestRunUncreatableOutputDir(t *testing.T) {
	checker := NewCheckerForTests(
		func() (string, error) { return "/usr/bin/ffmpeg", nil },
		func(string, os.FileMode) error { return errors.New("permission denied") },
		os.CreateTemp,
		os.Remove,
	)

	report := checker.Run(domain.Settings{OutputDir: "/root/forbidden"})
	item := itemByID(t, report, "output_dir")
	if item.Status != domain.DiagnosticStatusFail {
		t.Fatalf("output_dir status = %q", item.Status)
	}
}
