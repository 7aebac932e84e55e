package bootstrap

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"video-compressor/internal/config"
	"video-compressor/internal/domain"
	"video-compressor/internal/engine"
	"video-compressor/internal/jobs"
)

// fakeEngine scripts engine responses and records received options.
type fakeEngine struct {
	compressResult domain.CompressionResult
	compressErr    error
	compressOpts   domain.CompressionOptions
	progressTicks  []domain.ProgressEvent

	thumbnailResult domain.ThumbnailResult
	previewResult   domain.PreviewResult
	previewSeconds  int
	probeInfo       domain.MediaInfo
}

func (f *fakeEngine) Compress(
	ctx context.Context,
	opts domain.CompressionOptions,
	token *jobs.Token,
	onProgress func(domain.ProgressEvent),
) (domain.CompressionResult, error) {
	f.compressOpts = opts
	for _, tick := range f.progressTicks {
		if onProgress != nil {
			onProgress(tick)
		}
	}
	if f.compressErr != nil {
		return domain.CompressionResult{}, f.compressErr
	}
	return f.compressResult, nil
}

func (f *fakeEngine) GenerateThumbnail(ctx context.Context, videoPath string) (domain.ThumbnailResult, error) {
	return f.thumbnailResult, nil
}

func (f *fakeEngine) GeneratePreview(ctx context.Context, opts domain.CompressionOptions, previewSeconds int) (domain.PreviewResult, error) {
	f.previewSeconds = previewSeconds
	return f.previewResult, nil
}

func (f *fakeEngine) Probe(ctx context.Context, videoPath string) (domain.MediaInfo, error) {
	return f.probeInfo, nil
}

func newTestApp(t *testing.T, eng *fakeEngine) *App {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	return &App{
		Settings:  domain.Settings{Preset: domain.PresetDefault, Quality: 70, PreviewSeconds: 20},
		Store:     config.NewJSONStore(filepath.Join(t.TempDir(), "settings.json")),
		Engine:    eng,
		Registry:  jobs.NewRegistry(),
		events:    jobs.NewEventBus(100),
		appCtx:    ctx,
		appCancel: cancel,
	}
}

func eventTypes(events []jobs.Event) []jobs.EventType {
	types := make([]jobs.EventType, 0, len(events))
	for _, event := range events {
		types = append(types, event.Type)
	}
	return types
}

// TestCompressPublishesLifecycleEvents checks the status, progress, and
// result event sequence of a successful job.
func TestCompressPublishesLifecycleEvents(t *testing.T) {
	eng := &fakeEngine{
		compressResult: domain.CompressionResult{FileName: "vid-1.mp4", FilePath: "/assets/vid-1.mp4"},
		progressTicks: []domain.ProgressEvent{
			{VideoID: "vid-1", Timecode: "00:00:01.000", ElapsedSeconds: 1},
		},
	}
	app := newTestApp(t, eng)

	result, err := app.Compress(domain.CompressionOptions{
		VideoPath: "/videos/clip.mp4",
		Extension: "mp4",
		VideoID:   "vid-1",
	})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if result.FileName != "vid-1.mp4" {
		t.Fatalf("FileName = %q", result.FileName)
	}

	got := eventTypes(app.JobEvents(0))
	want := []jobs.EventType{jobs.EventTypeStatus, jobs.EventTypeProgress, jobs.EventTypeResult}
	if len(got) != len(want) {
		t.Fatalf("event types = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event types = %v, want %v", got, want)
		}
	}

	if app.Registry.Active() != 0 {
		t.Fatalf("Active = %d after completion, want 0", app.Registry.Active())
	}
}

// TestCompressGeneratesJobID checks a missing id is filled before dispatch.
func TestCompressGeneratesJobID(t *testing.T) {
	eng := &fakeEngine{compressResult: domain.CompressionResult{FileName: "out.mp4"}}
	app := newTestApp(t, eng)

	if _, err := app.Compress(domain.CompressionOptions{VideoPath: "/videos/clip.mp4", Extension: "mp4"}); err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if eng.compressOpts.VideoID == "" {
		t.Fatal("VideoID was not generated")
	}
}

// TestCompressAppliesPresetDefault checks persisted settings fill unset
// options.
func TestCompressAppliesPresetDefault(t *testing.T) {
	eng := &fakeEngine{compressResult: domain.CompressionResult{}}
	app := newTestApp(t, eng)
	app.Settings.Preset = domain.PresetThunderbolt

	if _, err := app.Compress(domain.CompressionOptions{VideoPath: "/videos/clip.mp4", Extension: "mp4"}); err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if eng.compressOpts.Preset != domain.PresetThunderbolt {
		t.Fatalf("Preset = %q, want thunderbolt", eng.compressOpts.Preset)
	}
}

// TestCompressRejectsUnknownTransform checks boundary validation before any
// job registration.
func TestCompressRejectsUnknownTransform(t *testing.T) {
	app := newTestApp(t, &fakeEngine{})

	_, err := app.Compress(domain.CompressionOptions{
		VideoPath:  "/videos/clip.mp4",
		Extension:  "mp4",
		Transforms: []domain.TransformAction{{Kind: "sharpen"}},
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if app.Registry.Active() != 0 {
		t.Fatalf("Active = %d, want 0", app.Registry.Active())
	}
}

// TestCompressRejectsDuplicateJob checks one id cannot run twice at once.
func TestCompressRejectsDuplicateJob(t *testing.T) {
	app := newTestApp(t, &fakeEngine{})
	if _, err := app.Registry.Register("vid-1"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := app.Compress(domain.CompressionOptions{
		VideoPath: "/videos/clip.mp4",
		Extension: "mp4",
		VideoID:   "vid-1",
	})
	if !errors.Is(err, jobs.ErrJobAlreadyRunning) {
		t.Fatalf("err = %v, want ErrJobAlreadyRunning", err)
	}
}

// TestCompressCancelledEvent checks the cancelled outcome is reported as a
// status event, not an error event.
func TestCompressCancelledEvent(t *testing.T) {
	eng := &fakeEngine{compressErr: &engine.JobError{Kind: engine.KindCancelled, Message: "CANCELLED"}}
	app := newTestApp(t, eng)

	_, err := app.Compress(domain.CompressionOptions{
		VideoPath: "/videos/clip.mp4",
		Extension: "mp4",
		VideoID:   "vid-1",
	})
	if !errors.Is(err, engine.ErrCancelled) {
		t.Fatalf("err = %v, want ErrCancelled", err)
	}

	events := app.JobEvents(0)
	last := events[len(events)-1]
	if last.Type != jobs.EventTypeStatus || last.Message != "Compression cancelled" {
		t.Fatalf("last event = %+v", last)
	}
}

// TestCompressFailureEvent checks failures surface as error events.
func TestCompressFailureEvent(t *testing.T) {
	eng := &fakeEngine{compressErr: &engine.JobError{Kind: engine.KindRuntime, Message: "video is corrupted or unsupported"}}
	app := newTestApp(t, eng)

	_, err := app.Compress(domain.CompressionOptions{
		VideoPath: "/videos/clip.mp4",
		Extension: "mp4",
		VideoID:   "vid-1",
	})
	if err == nil {
		t.Fatal("expected error")
	}

	events := app.JobEvents(0)
	last := events[len(events)-1]
	if last.Type != jobs.EventTypeError {
		t.Fatalf("last event type = %q, want error", last.Type)
	}
}

// TestCancelCompressionUnknownJob checks cancelling an unknown id fails.
func TestCancelCompressionUnknownJob(t *testing.T) {
	app := newTestApp(t, &fakeEngine{})
	if err := app.CancelCompression("ghost"); !errors.Is(err, jobs.ErrNoRunningJob) {
		t.Fatalf("err = %v, want ErrNoRunningJob", err)
	}
}

// TestGeneratePreviewForwardsSeconds checks the preview length passes through.
func TestGeneratePreviewForwardsSeconds(t *testing.T) {
	eng := &fakeEngine{}
	app := newTestApp(t, eng)

	if _, err := app.GeneratePreview(domain.CompressionOptions{VideoPath: "/videos/clip.mp4", Extension: "mp4"}, 15); err != nil {
		t.Fatalf("GeneratePreview: %v", err)
	}
	if eng.previewSeconds != 15 {
		t.Fatalf("previewSeconds = %d, want 15", eng.previewSeconds)
	}
}

// TestSaveSettingsNormalizes checks bounds and defaults on persisted
// settings.
func TestSaveSettingsNormalizes(t *testing.T) {
	app := newTestApp(t, &fakeEngine{})

	saved, err := app.SaveSettings(domain.Settings{
		OutputDir:      "  /videos/out  ",
		Preset:         "turbo",
		Quality:        150,
		PreviewSeconds: 500,
	})
	if err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	if saved.OutputDir != "/videos/out" {
		t.Fatalf("OutputDir = %q", saved.OutputDir)
	}
	if saved.Preset != domain.PresetDefault {
		t.Fatalf("Preset = %q, want default", saved.Preset)
	}
	if saved.Quality != 100 {
		t.Fatalf("Quality = %d, want 100", saved.Quality)
	}
	if saved.PreviewSeconds != 120 {
		t.Fatalf("PreviewSeconds = %d, want 120", saved.PreviewSeconds)
	}

	loaded, err := app.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if loaded != saved {
		t.Fatalf("GetSettings = %+v, want %+v", loaded, saved)
	}
}

// TestSaveSettingsKeepsThunderbolt checks the only alternative preset
// survives normalization.
func TestSaveSettingsKeepsThunderbolt(t *testing.T) {
	app := newTestApp(t, &fakeEngine{})

	saved, err := app.SaveSettings(domain.Settings{
		OutputDir:      "/videos/out",
		Preset:         domain.PresetThunderbolt,
		Quality:        50,
		PreviewSeconds: 10,
	})
	if err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	if saved.Preset != domain.PresetThunderbolt {
		t.Fatalf("Preset = %q, want thunderbolt", saved.Preset)
	}
}

// TestShutdownCancelsRunningJobs checks host teardown reaches every token.
func TestShutdownCancelsRunningJobs(t *testing.T) {
	app := newTestApp(t, &fakeEngine{})
	token, err := app.Registry.Register("vid-1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	app.Shutdown(context.Background())
	if !token.Cancelled() {
		t.Fatal("token not cancelled on shutdown")
	}
	if app.jobContext().Err() == nil {
		t.Fatal("app context not cancelled on shutdown")
	}
}

// TestPickVideoFileWithoutRuntime checks dialog calls fail cleanly before
// startup.
func TestPickVideoFileWithoutRuntime(t *testing.T) {
	app := newTestApp(t, &fakeEngine{})
	if _, err := app.PickVideoFile(); err == nil {
		t.Fatal("expected error without runtime context")
	}
}
