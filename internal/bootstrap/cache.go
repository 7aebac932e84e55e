package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"
)

// assetsDirProvider is implemented by engines that expose their artifact
// directory.
type assetsDirProvider interface {
	AssetsDir() string
}

// ClearCache deletes generated artifacts (thumbnails, previews, compressed
// outputs not yet moved by the user) from the assets directory.
func (a *App) ClearCache() error {
	provider, ok := a.Engine.(assetsDirProvider)
	if !ok {
		return fmt.Errorf("engine does not expose an assets directory")
	}

	assetsDir := provider.AssetsDir()
	entries, err := os.ReadDir(assetsDir)
	if err != nil {
		return fmt.Errorf("read assets directory: %w", err)
	}

	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(assetsDir, entry.Name())); err != nil {
			return fmt.Errorf("delete cached artifact %s: %w", entry.Name(), err)
		}
	}
	return nil
}
