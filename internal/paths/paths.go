// Package paths provides centralized path configuration for the application
package paths

import "path/filepath"

// Paths holds all configurable paths for the application
type Paths struct {
	ConfigPath  string // /etc/fest-bot/config.json
	CatalogPath string // /etc/fest-bot/catalog.yaml
	DataDir     string // /var/lib/fest-bot
	LogPath     string // /var/log/fest-bot/bot.log
}

// Default returns the default paths for production use
func Default() Paths {
	return Paths{
		ConfigPath:  "/etc/fest-bot/config.json",
		CatalogPath: "/etc/fest-bot/catalog.yaml",
		DataDir:     "/var/lib/fest-bot",
		LogPath:     "/var/log/fest-bot/bot.log",
	}
}

// DevPaths returns paths under testdata/dev for local runs
func DevPaths() Paths {
	return Under("testdata/dev")
}

// Under returns every path rooted at dir.
func Under(dir string) Paths {
	return Paths{
		ConfigPath:  filepath.Join(dir, "config.json"),
		CatalogPath: filepath.Join(dir, "catalog.yaml"),
		DataDir:     filepath.Join(dir, "data"),
		LogPath:     filepath.Join(dir, "bot.log"),
	}
}

// MediaFile is the JSON file used by the file store backend.
func (p Paths) MediaFile() string {
	return filepath.Join(p.DataDir, "media.json")
}

// BadgerDir is the database directory used by the badger backend.
func (p Paths) BadgerDir() string {
	return filepath.Join(p.DataDir, "badger")
}

// AnnouncementFile records the last version announced to admins.
func (p Paths) AnnouncementFile() string {
	return filepath.Join(p.DataDir, "announced.json")
}
