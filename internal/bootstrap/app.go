package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"video-compressor/internal/config"
	"video-compressor/internal/diagnostics"
	"video-compressor/internal/domain"
	"video-compressor/internal/encoder"
	"video-compressor/internal/engine"
	"video-compressor/internal/jobs"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// Host event names bridging the frontend and the engine.
const (
	EventVideoProgress     = "video:progress"
	EventCancelCompression = "video:cancel"
)

var videoDialogFilter = []wailsruntime.FileFilter{
	{
		DisplayName: "Video files",
		Pattern:     "*.mp4;*.mov;*.webm;*.avi;*.mkv",
	},
	{
		DisplayName: "All files",
		Pattern:     "*",
	},
}

// App wires configuration, the encoder engine, job tracking, and UI runtime
// callbacks.
type App struct {
	Settings    domain.Settings
	Store       config.Store
	Engine      videoEngine
	Registry    *jobs.Registry
	Diagnostics domain.DiagnosticReport
	assets      fs.FS
	checker     *diagnostics.Checker

	mu             sync.Mutex
	events         *jobs.EventBus
	runtimeCtx     context.Context
	appCtx         context.Context
	appCancel      context.CancelFunc
	unsubscribeBus func()
}

// videoEngine isolates the encoder engine behind an interface.
type videoEngine interface {
	Compress(ctx context.Context, opts domain.CompressionOptions, token *jobs.Token, onProgress func(domain.ProgressEvent)) (domain.CompressionResult, error)
	GenerateThumbnail(ctx context.Context, videoPath string) (domain.ThumbnailResult, error)
	GeneratePreview(ctx context.Context, opts domain.CompressionOptions, previewSeconds int) (domain.PreviewResult, error)
	Probe(ctx context.Context, videoPath string) (domain.MediaInfo, error)
}

// New builds the application with persisted settings and startup diagnostics.
func New() (*App, error) {
	return NewWithAssets(nil)
}

// NewWithAssets builds the application and optionally configures embedded
// frontend assets.
func NewWithAssets(assets fs.FS) (*App, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve user home: %w", err)
	}

	appDir := filepath.Join(homeDir, ".video-compressor")
	assetsDir := filepath.Join(appDir, "assets")
	if err := os.MkdirAll(assetsDir, 0o755); err != nil {
		return nil, fmt.Errorf("prepare assets directory: %w", err)
	}

	store := config.NewJSONStore(filepath.Join(appDir, "settings.json"))
	settings, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	// A missing binary is reported through diagnostics; spawning later fails
	// with a spawn error instead of blocking startup.
	ffmpegPath, _ := encoder.NewLocator().Locate()

	checker := diagnostics.NewChecker()
	report := checker.Run(settings)

	ctx, cancel := context.WithCancel(context.Background())

	return &App{
		Settings:    settings,
		Store:       store,
		Engine:      engine.New(ffmpegPath, assetsDir),
		Registry:    jobs.NewRegistry(),
		Diagnostics: report,
		assets:      assets,
		checker:     checker,
		events:      jobs.NewEventBus(1000),
		appCtx:      ctx,
		appCancel:   cancel,
	}, nil
}

// Run starts the Wails desktop application and binds backend methods.
func (a *App) Run() error {
	assetOptions := &assetserver.Options{}
	if a.assets != nil {
		assetOptions.Assets = a.assets
	} else {
		assetOptions.Handler = http.FileServer(http.Dir("./frontend"))
	}

	return wails.Run(&options.App{
		Title:       "Video Compressor",
		Width:       1180,
		Height:      780,
		AssetServer: assetOptions,
		OnStartup:   a.Startup,
		OnShutdown:  a.Shutdown,
		Bind:        []interface{}{a},
	})
}

// Startup stores the Wails runtime context and adapts the host event bus to
// per-job cancellation tokens.
func (a *App) Startup(ctx context.Context) {
	a.mu.Lock()
	a.runtimeCtx = ctx
	a.mu.Unlock()

	unsubscribe := wailsruntime.EventsOn(ctx, EventCancelCompression, func(args ...interface{}) {
		if len(args) == 0 {
			return
		}
		videoID, ok := args[0].(string)
		if !ok {
			return
		}
		_ = a.CancelCompression(videoID)
	})

	a.mu.Lock()
	a.unsubscribeBus = unsubscribe
	a.mu.Unlock()
}

// Shutdown kills every running job's process, independent of job completion.
func (a *App) Shutdown(ctx context.Context) {
	a.mu.Lock()
	cancel := a.appCancel
	unsubscribe := a.unsubscribeBus
	a.runtimeCtx = nil
	a.unsubscribeBus = nil
	a.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if cancel != nil {
		cancel()
	}
	a.Registry.CancelAll()
}

// Compress transcodes one video, emitting progress events while the encoder
// runs, and returns the output location or a failure reason.
func (a *App) Compress(opts domain.CompressionOptions) (domain.CompressionResult, error) {
	if err := domain.ValidateTransforms(opts.Transforms); err != nil {
		return domain.CompressionResult{}, err
	}

	settings := a.currentSettings()
	opts = applySettingsDefaults(opts, settings)
	if opts.VideoID == "" {
		opts.VideoID = uuid.NewString()
	}

	token, err := a.Registry.Register(opts.VideoID)
	if err != nil {
		return domain.CompressionResult{}, err
	}
	defer a.Registry.Deregister(opts.VideoID)

	a.publishEvent(jobs.Event{
		VideoID: opts.VideoID,
		Type:    jobs.EventTypeStatus,
		Message: "Compression started",
	})

	result, err := a.Engine.Compress(a.jobContext(), opts, token, a.publishProgress)
	if err != nil {
		if errors.Is(err, engine.ErrCancelled) {
			a.publishEvent(jobs.Event{
				VideoID: opts.VideoID,
				Type:    jobs.EventTypeStatus,
				Message: "Compression cancelled",
			})
			return domain.CompressionResult{}, err
		}

		a.publishEvent(jobs.Event{
			VideoID: opts.VideoID,
			Type:    jobs.EventTypeError,
			Message: err.Error(),
		})
		return domain.CompressionResult{}, err
	}

	a.publishEvent(jobs.Event{
		VideoID:  opts.VideoID,
		Type:     jobs.EventTypeResult,
		Message:  "Compression finished",
		FileName: result.FileName,
		FilePath: result.FilePath,
	})
	return result, nil
}

// CancelCompression cancels the running job with the given id.
func (a *App) CancelCompression(videoID string) error {
	return a.Registry.Cancel(videoID)
}

// GenerateThumbnail extracts a preview frame for the given video.
func (a *App) GenerateThumbnail(videoPath string) (domain.ThumbnailResult, error) {
	return a.Engine.GenerateThumbnail(a.jobContext(), videoPath)
}

// GeneratePreview renders the before/after quality preview clips.
func (a *App) GeneratePreview(opts domain.CompressionOptions, previewSeconds int) (domain.PreviewResult, error) {
	if err := domain.ValidateTransforms(opts.Transforms); err != nil {
		return domain.PreviewResult{}, err
	}

	opts = applySettingsDefaults(opts, a.currentSettings())
	return a.Engine.GeneratePreview(a.jobContext(), opts, previewSeconds)
}

// GetVideoInfo probes duration, dimensions, and frame rate.
func (a *App) GetVideoInfo(videoPath string) (domain.MediaInfo, error) {
	return a.Engine.Probe(a.jobContext(), videoPath)
}

// JobEvents returns all events with sequence greater than sinceSeq.
func (a *App) JobEvents(sinceSeq int64) []jobs.Event {
	return a.events.Since(sinceSeq)
}

// GetDiagnostics returns the latest cached diagnostics report.
func (a *App) GetDiagnostics() domain.DiagnosticReport {
	return a.Diagnostics
}

// RefreshDiagnostics reloads settings and reruns dependency checks.
func (a *App) RefreshDiagnostics() (domain.DiagnosticReport, error) {
	settings, err := a.Store.Load()
	if err != nil {
		return domain.DiagnosticReport{}, fmt.Errorf("load settings: %w", err)
	}

	a.mu.Lock()
	a.Settings = settings
	a.Diagnostics = a.checker.Run(settings)
	report := a.Diagnostics
	a.mu.Unlock()

	return report, nil
}

// GetSettings loads and returns the latest persisted settings.
func (a *App) GetSettings() (domain.Settings, error) {
	settings, err := a.Store.Load()
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}

	a.mu.Lock()
	a.Settings = settings
	a.mu.Unlock()

	return settings, nil
}

// SaveSettings normalizes and persists settings, then refreshes diagnostics.
func (a *App) SaveSettings(settings domain.Settings) (domain.Settings, error) {
	normalized := normalizeSettings(settings)
	if err := a.Store.Save(normalized); err != nil {
		return domain.Settings{}, fmt.Errorf("save settings: %w", err)
	}

	a.mu.Lock()
	a.Settings = normalized
	if a.checker != nil {
		a.Diagnostics = a.checker.Run(normalized)
	}
	a.mu.Unlock()

	return normalized, nil
}

// PickVideoFile opens a native file dialog for video selection.
func (a *App) PickVideoFile() (string, error) {
	ctx, err := a.runtimeContext()
	if err != nil {
		return "", err
	}

	path, err := wailsruntime.OpenFileDialog(ctx, wailsruntime.OpenDialogOptions{
		Title:   "Select video file",
		Filters: videoDialogFilter,
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(path), nil
}

// PickOutputDirectory opens a native directory picker for compressed output.
func (a *App) PickOutputDirectory() (string, error) {
	ctx, err := a.runtimeContext()
	if err != nil {
		return "", err
	}

	path, err := wailsruntime.OpenDirectoryDialog(ctx, wailsruntime.OpenDialogOptions{
		Title: "Select output directory",
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(path), nil
}

// OpenOutputFolder opens the given path (or configured output dir) in the
// platform file manager.
func (a *App) OpenOutputFolder(path string) error {
	target := strings.TrimSpace(path)
	if target == "" {
		a.mu.Lock()
		target = a.Settings.OutputDir
		a.mu.Unlock()
	}
	if target == "" {
		return fmt.Errorf("output path is empty")
	}

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	openPath := target
	if !info.IsDir() {
		openPath = filepath.Dir(target)
	}

	return openInFileManager(openPath)
}

// publishProgress fans one progress tick out to the event history and the
// host event bus.
func (a *App) publishProgress(progress domain.ProgressEvent) {
	a.publishEvent(jobs.Event{
		VideoID:        progress.VideoID,
		Type:           jobs.EventTypeProgress,
		FileName:       progress.FileName,
		Timecode:       progress.Timecode,
		ElapsedSeconds: progress.ElapsedSeconds,
	})
}

// publishEvent stores event history and emits runtime push notifications.
func (a *App) publishEvent(event jobs.Event) {
	published := a.events.Publish(event)

	a.mu.Lock()
	ctx := a.runtimeCtx
	a.mu.Unlock()
	if ctx != nil {
		wailsruntime.EventsEmit(ctx, EventVideoProgress, published)
	}
}

// jobContext is cancelled on host shutdown so running encoders are killed.
func (a *App) jobContext() context.Context {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.appCtx != nil {
		return a.appCtx
	}
	return context.Background()
}

// runtimeContext returns the current Wails runtime context for dialog APIs.
func (a *App) runtimeContext() (context.Context, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.runtimeCtx == nil {
		return nil, fmt.Errorf("runtime context is not initialized")
	}
	return a.runtimeCtx, nil
}

// currentSettings returns a snapshot of the in-memory settings.
func (a *App) currentSettings() domain.Settings {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Settings
}

// applySettingsDefaults fills unset job options from persisted settings.
func applySettingsDefaults(opts domain.CompressionOptions, settings domain.Settings) domain.CompressionOptions {
	if opts.Preset == "" && settings.Preset != "" {
		opts.Preset = settings.Preset
	}
	return opts
}

// normalizeSettings trims user inputs and applies bounds and defaults.
func normalizeSettings(settings domain.Settings) domain.Settings {
	settings.OutputDir = strings.TrimSpace(settings.OutputDir)
	if settings.Preset != domain.PresetThunderbolt {
		settings.Preset = domain.PresetDefault
	}
	if settings.Quality < 0 {
		settings.Quality = 0
	}
	if settings.Quality > 100 {
		settings.Quality = 100
	}
	if settings.PreviewSeconds <= 0 {
		settings.PreviewSeconds = 20
	}
	if settings.PreviewSeconds > 120 {
		settings.PreviewSeconds = 120
	}
	return settings
}

// openInFileManager launches the platform file explorer for the provided path.
func openInFileManager(path string) error {
	var cmd *exec.Cmd
	switch goruntime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("explorer", filepath.Clean(path))
	default:
		cmd = exec.Command("xdg-open", path)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch file manager: %w", err)
	}
	return nil
}
