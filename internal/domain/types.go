package domain

// Extensions lists the supported target container extensions.
var Extensions = []string{"mp4", "mov", "webm", "avi", "mkv"}

// IsSupportedExtension reports whether ext is a valid target container.
func IsSupportedExtension(ext string) bool {
	for _, supported := range Extensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// Preset names a bundle of encoder flags trading speed against compression.
type Preset string

const (
	PresetDefault     Preset = "default"
	PresetThunderbolt Preset = "thunderbolt"
)

// Dimensions is a target pixel size for the encoded output.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// CompressionOptions describes one user-requested compression job.
type CompressionOptions struct {
	VideoPath  string            `json:"videoPath"`
	Extension  string            `json:"extension"`
	Preset     Preset            `json:"preset,omitempty"`
	VideoID    string            `json:"videoId,omitempty"`
	Mute       bool              `json:"mute"`
	Quality    int               `json:"quality"`
	FPS        string            `json:"fps,omitempty"`
	Dimensions *Dimensions       `json:"dimensions,omitempty"`
	Transforms []TransformAction `json:"transforms,omitempty"`
}

// MediaInfo holds probed metadata; zero values mean the field was not found.
type MediaInfo struct {
	Duration   string      `json:"duration,omitempty"`
	Dimensions *Dimensions `json:"dimensions,omitempty"`
	FPS        float64     `json:"fps,omitempty"`
}

// CompressionResult is the output location of a finished transcode.
type CompressionResult struct {
	FileName string `json:"fileName"`
	FilePath string `json:"filePath"`
}

// ThumbnailResult is one extracted frame image.
type ThumbnailResult struct {
	ID       string `json:"id"`
	FileName string `json:"fileName"`
	FilePath string `json:"filePath"`
}

// PreviewResult pairs the untouched and compressed preview clips.
type PreviewResult struct {
	SourceFileName     string `json:"sourceFileName"`
	SourceFilePath     string `json:"sourceFilePath"`
	CompressedFileName string `json:"compressedFileName"`
	CompressedFilePath string `json:"compressedFilePath"`
}

// ProgressEvent reports elapsed encoded time for one running job.
type ProgressEvent struct {
	VideoID        string  `json:"videoId"`
	FileName       string  `json:"fileName"`
	Timecode       string  `json:"timecode"`
	ElapsedSeconds float64 `json:"elapsedSeconds"`
}

// Settings contains user-selectable runtime configuration.
type Settings struct {
	OutputDir      string `json:"outputDir"`
	Preset         Preset `json:"preset"`
	Quality        int    `json:"quality"`
	PreviewSeconds int    `json:"previewSeconds"`
	MuteAudio      bool   `json:"muteAudio"`
}
