package config

import (
	"os"
	"path/filepath"

	"video-compressor/internal/domain"
)

// DefaultSettings returns baseline local configuration for first launch.
func DefaultSettings() domain.Settings {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return domain.Settings{
		OutputDir:      filepath.Join(homeDir, "Videos", "Compressed"),
		Preset:         domain.PresetDefault,
		Quality:        70,
		PreviewSeconds: 20,
	}
}
