package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/pagesmith/internal/logfields"
)

// loadEnvFiles loads .env and .env.local from the blog directory. Existing
// process variables win; missing files are skipped.
func loadEnvFiles(root string) {
	for _, name := range []string{".env", ".env.local"} {
		path := filepath.Join(root, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			slog.Warn("Failed to load env file", logfields.Path(path), logfields.Error(err))
			continue
		}
		slog.Debug("Loaded environment file", logfields.Path(path))
	}
}
