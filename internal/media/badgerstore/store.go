// Package badgerstore keeps media records in an embedded Badger database.
package badgerstore

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/media"
)

var (
	recordPrefix = []byte("rec/")
	sequenceKey  = []byte("seq/records")
)

// Store is a media.Store backed by Badger. Keys are a fixed prefix plus a
// big-endian sequence number, so iteration order is insertion order.
type Store struct {
	db  *badger.DB
	seq *badger.Sequence
}

// Open opens (or creates) a Badger database in dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).
		WithLoggingLevel(badger.ERROR)
	return open(opts)
}

// OpenInMemory opens a database that never touches disk.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLoggingLevel(badger.ERROR)
	return open(opts)
}

func open(opts badger.Options) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	seq, err := db.GetSequence(sequenceKey, 100)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("badger sequence: %w", err)
	}
	return &Store{db: db, seq: seq}, nil
}

// Close releases the sequence lease and closes the database.
func (s *Store) Close() error {
	if err := s.seq.Release(); err != nil {
		s.db.Close()
		return err
	}
	return s.db.Close()
}

func recordKey(n uint64) []byte {
	key := make([]byte, len(recordPrefix)+8)
	copy(key, recordPrefix)
	binary.BigEndian.PutUint64(key[len(recordPrefix):], n)
	return key
}

// Append stores one record under the next sequence number.
func (s *Store) Append(ctx context.Context, rec media.Record) error {
	n, err := s.seq.Next()
	if err != nil {
		return media.Wrap("append", err)
	}
	data, err := json.Marshal(media.Stamp(rec))
	if err != nil {
		return media.Wrap("append", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(n), data)
	})
	return media.Wrap("append", err)
}

// scan walks every record in key order.
func (s *Store) scan(fn func(media.Record)) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = recordPrefix
		opts.PrefetchSize = 50

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec media.Record
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			fn(rec)
		}
		return nil
	})
}

// Query returns file ids of matching records in insertion order.
func (s *Store) Query(ctx context.Context, key media.FilterKey, value string, kind media.Kind) ([]string, error) {
	var ids []string
	err := s.scan(func(rec media.Record) {
		if rec.Matches(key, value, kind) {
			ids = append(ids, rec.FileID)
		}
	})
	if err != nil {
		return nil, media.Wrap("query", err)
	}
	return ids, nil
}

// DistinctCategories returns category names for ct in order of first appearance.
func (s *Store) DistinctCategories(ctx context.Context, ct media.CategoryType) ([]string, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return nil, media.Wrap("categories", err)
	}
	return media.Distinct(records, ct), nil
}

// ClearAll drops every record key. The sequence keeps counting.
func (s *Store) ClearAll(ctx context.Context) error {
	return media.Wrap("clear", s.db.DropPrefix(recordPrefix))
}

// Records returns every record in insertion order.
func (s *Store) Records(ctx context.Context) ([]media.Record, error) {
	var records []media.Record
	if err := s.scan(func(rec media.Record) { records = append(records, rec) }); err != nil {
		return nil, media.Wrap("records", err)
	}
	return records, nil
}
