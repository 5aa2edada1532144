// Package filestore keeps media records in a JSON file, or only in memory
// when no path is given.
package filestore

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/media"
)

// Store provides thread-safe storage of media records.
type Store struct {
	mu      sync.RWMutex
	path    string
	records []media.Record
}

// New creates a new Store. If the file exists, it loads existing records.
// An empty path keeps records in memory only.
func New(path string) *Store {
	s := &Store{path: path}
	s.load()
	return s
}

// load reads data from file. Invalid JSON is treated as an empty store.
func (s *Store) load() {
	if s.path == "" {
		return
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return // no file yet, start empty
	}
	if err := json.Unmarshal(data, &s.records); err != nil {
		slog.Warn("Invalid media file, starting with empty store", "path", s.path, "error", err)
		s.records = nil
	}
}

// save writes data to file atomically.
func (s *Store) save() error {
	if s.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}

	return os.Rename(tmpPath, s.path)
}

// Append adds a record and persists the file.
func (s *Store) Append(ctx context.Context, rec media.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, media.Stamp(rec))
	if err := s.save(); err != nil {
		s.records = s.records[:len(s.records)-1]
		return media.Wrap("append", err)
	}
	return nil
}

// Query returns file ids of matching records in insertion order.
func (s *Store) Query(ctx context.Context, key media.FilterKey, value string, kind media.Kind) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return media.FilterFileIDs(s.records, key, value, kind), nil
}

// DistinctCategories returns category names for ct in order of first appearance.
func (s *Store) DistinctCategories(ctx context.Context, ct media.CategoryType) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return media.Distinct(s.records, ct), nil
}

// ClearAll removes every record.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.records
	s.records = nil
	if err := s.save(); err != nil {
		s.records = prev
		return media.Wrap("clear", err)
	}
	return nil
}

// Records returns a copy of every stored record.
func (s *Store) Records(ctx context.Context) ([]media.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]media.Record, len(s.records))
	copy(out, s.records)
	return out, nil
}
