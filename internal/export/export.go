// Package export writes every stored media record to a Parquet file.
package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/media"
)

// Write encodes records as Parquet, one row per record.
func Write(w io.Writer, records []media.Record) error {
	pw := parquet.NewGenericWriter[media.Record](w)
	if len(records) > 0 {
		if _, err := pw.Write(records); err != nil {
			return fmt.Errorf("write rows: %w", err)
		}
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return nil
}

// ToFile lists every record of store and writes them to path. It returns
// the number of rows written.
func ToFile(ctx context.Context, store media.Store, path string) (int, error) {
	lister, ok := store.(media.Lister)
	if !ok {
		return 0, media.Wrap("records", media.ErrNotListable)
	}
	records, err := lister.Records(ctx)
	if err != nil {
		return 0, err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, err
		}
	}

	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return 0, err
	}
	if err := Write(f, records); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return 0, err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return 0, err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return 0, err
	}

	slog.Info("Records exported", "path", path, "rows", len(records))
	return len(records), nil
}

// Read decodes a file produced by Write.
func Read(path string) ([]media.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[media.Record](pf)
	defer reader.Close()

	records := make([]media.Record, 0, pf.NumRows())
	rows := make([]media.Record, 128)
	for {
		n, err := reader.Read(rows)
		records = append(records, rows[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read rows: %w", err)
		}
	}
	return records, nil
}
