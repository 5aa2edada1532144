package paths

import (
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	p := Default()

	tests := []struct {
		name    string
		got     string
		wantPfx string
		wantSfx string
	}{
		{"ConfigPath", p.ConfigPath, "/etc/fest-bot/", "config.json"},
		{"CatalogPath", p.CatalogPath, "/etc/fest-bot/", "catalog.yaml"},
		{"DataDir", p.DataDir, "/var/lib/", "fest-bot"},
		{"LogPath", p.LogPath, "/var/log/fest-bot/", "bot.log"},
		{"MediaFile", p.MediaFile(), "/var/lib/fest-bot/", "media.json"},
		{"BadgerDir", p.BadgerDir(), "/var/lib/fest-bot/", "badger"},
		{"AnnouncementFile", p.AnnouncementFile(), "/var/lib/fest-bot/", "announced.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got == "" {
				t.Errorf("%s is empty", tt.name)
			}
			if tt.wantPfx != "" && !strings.HasPrefix(tt.got, tt.wantPfx) {
				t.Errorf("%s = %q, want prefix %q", tt.name, tt.got, tt.wantPfx)
			}
			if tt.wantSfx != "" && !strings.HasSuffix(tt.got, tt.wantSfx) {
				t.Errorf("%s = %q, want suffix %q", tt.name, tt.got, tt.wantSfx)
			}
		})
	}
}

func TestDevPaths(t *testing.T) {
	p := DevPaths()

	for name, got := range map[string]string{
		"ConfigPath":  p.ConfigPath,
		"CatalogPath": p.CatalogPath,
		"DataDir":     p.DataDir,
		"LogPath":     p.LogPath,
	} {
		if !strings.HasPrefix(got, "testdata/dev/") {
			t.Errorf("%s = %q, want prefix testdata/dev/", name, got)
		}
	}
}
