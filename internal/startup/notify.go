// Package startup handles bot startup tasks like the release announcement.
package startup

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/telegram"
)

// Announcement describes the running bot.
type Announcement struct {
	Version     string
	Store       string
	Events      int
	Classes     int
	Individuals int
}

// announced is the JSON structure of the state file.
type announced struct {
	Version string `json:"version"`
}

func (a Announcement) text() string {
	return fmt.Sprintf("Bot started: %s\nStore: %s\nCatalog: %d events, %d classes, %d individuals",
		a.Version, a.Store, a.Events, a.Classes, a.Individuals)
}

// AnnounceIfNew sends the announcement to every admin chat unless stateFile
// already records this version. The state file is written only after at
// least one admin received the message, so a failed round is retried on the
// next start.
func AnnounceIfNew(sender telegram.MessageSender, adminChats []int64, stateFile string, a Announcement) error {
	if len(adminChats) == 0 {
		return nil
	}

	data, err := os.ReadFile(stateFile)
	switch {
	case err == nil:
		var prev announced
		if err := json.Unmarshal(data, &prev); err != nil {
			slog.Warn("Invalid announcement state file, announcing again", "path", stateFile, "error", err)
		} else if prev.Version == a.Version {
			return nil
		}
	case !os.IsNotExist(err):
		return fmt.Errorf("read announcement state: %w", err)
	}

	text := a.text()
	var errs []error
	delivered := 0
	for _, chatID := range adminChats {
		if err := sender.SendPlain(chatID, text); err != nil {
			slog.Warn("Failed to send startup announcement", "chat_id", chatID, "version", a.Version, "error", err)
			errs = append(errs, err)
			continue
		}
		delivered++
	}
	if delivered == 0 {
		return fmt.Errorf("send announcement: %w", errors.Join(errs...))
	}

	if err := writeState(stateFile, announced{Version: a.Version}); err != nil {
		slog.Warn("Failed to record announcement", "path", stateFile, "error", err)
	}
	slog.Info("Startup announcement sent", "version", a.Version, "admins", delivered)
	return nil
}

func writeState(path string, st announced) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
