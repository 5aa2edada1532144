// Package backend opens the configured media store and applies the
// breaker and instrumentation decorators.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/config"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/media"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/media/badgerstore"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/media/dynamo"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/media/filestore"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/media/sheets"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/paths"
)

// Opened is a ready store plus the function that releases it.
type Opened struct {
	Store media.Store
	Close func() error
}

func noClose() error { return nil }

// Open builds the backend named by cfg.Backend. Relative locations fall
// back to p. A nil obs disables instrumentation.
func Open(ctx context.Context, cfg config.StoreConfig, p paths.Paths, obs media.Observer) (*Opened, error) {
	raw, closeFn, err := openRaw(ctx, cfg, p)
	if err != nil {
		return nil, err
	}

	store := raw
	if cfg.CircuitBreaker {
		store = media.WithBreaker(store, media.DefaultBreakerConfig("media-"+cfg.Backend))
	}
	if obs != nil {
		store = media.Instrument(store, obs)
	}

	slog.Info("Media store opened", "backend", cfg.Backend, "circuit_breaker", cfg.CircuitBreaker)
	return &Opened{Store: store, Close: closeFn}, nil
}

func openRaw(ctx context.Context, cfg config.StoreConfig, p paths.Paths) (media.Store, func() error, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		path := cfg.Path
		if path == "" {
			path = p.MediaFile()
		}
		return filestore.New(path), noClose, nil

	case config.BackendBadger:
		dir := cfg.Path
		if dir == "" {
			dir = p.BadgerDir()
		}
		s, err := badgerstore.Open(dir)
		if err != nil {
			return nil, nil, fmt.Errorf("open badger store: %w", err)
		}
		return s, s.Close, nil

	case config.BackendSheets:
		s, err := sheets.New(ctx, sheets.Config{
			SpreadsheetID:   cfg.SpreadsheetID,
			Sheet:           cfg.Sheet,
			CredentialsFile: cfg.CredentialsFile,
		})
		if err != nil {
			return nil, nil, err
		}
		if err := s.EnsureHeader(ctx); err != nil {
			return nil, nil, fmt.Errorf("prepare sheet: %w", err)
		}
		return s, noClose, nil

	case config.BackendDynamoDB:
		s, err := dynamo.New(ctx, cfg.Table, cfg.Region, cfg.Endpoint)
		if err != nil {
			return nil, nil, err
		}
		return s, noClose, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}
