// Package media defines the append-only media record store contract and
// helpers shared by its backends.
package media

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind is the type of an attachment.
type Kind string

const (
	KindAny   Kind = ""
	KindPhoto Kind = "photo"
	KindVideo Kind = "video"
)

// CategoryType discriminates which classifying fields a record carries.
type CategoryType string

const (
	CategoryParticipant CategoryType = "participant"
	CategoryOtherPhoto  CategoryType = "other_photo"
	CategoryVideo       CategoryType = "video"
)

// FilterKey names a record column that Query can match on.
type FilterKey string

const (
	FilterEvent      FilterKey = "event_id"
	FilterClass      FilterKey = "class_id"
	FilterIndividual FilterKey = "individual_id"
	FilterCategory   FilterKey = "media_category"
)

// Record is one stored media item. Records are never mutated.
type Record struct {
	ID             string       `json:"record_id" dynamodbav:"record_id" parquet:"record_id"`
	FileID         string       `json:"media_file_id" dynamodbav:"media_file_id" parquet:"media_file_id"`
	Kind           Kind         `json:"media_type" dynamodbav:"media_type" parquet:"media_type"`
	CategoryType   CategoryType `json:"category_type" dynamodbav:"category_type" parquet:"category_type"`
	EventID        string       `json:"event_id,omitempty" dynamodbav:"event_id,omitempty" parquet:"event_id"`
	EventName      string       `json:"event_name,omitempty" dynamodbav:"event_name,omitempty" parquet:"event_name"`
	ClassID        string       `json:"class_id,omitempty" dynamodbav:"class_id,omitempty" parquet:"class_id"`
	ClassName      string       `json:"class_name,omitempty" dynamodbav:"class_name,omitempty" parquet:"class_name"`
	IndividualID   string       `json:"individual_id,omitempty" dynamodbav:"individual_id,omitempty" parquet:"individual_id"`
	IndividualName string       `json:"individual_name,omitempty" dynamodbav:"individual_name,omitempty" parquet:"individual_name"`
	Category       string       `json:"media_category,omitempty" dynamodbav:"media_category,omitempty" parquet:"media_category"`
	CreatedAt      time.Time    `json:"created_at" dynamodbav:"created_at" parquet:"created_at"`
}

// Store is the append-only record store.
type Store interface {
	// Append adds one record. Duplicates are allowed.
	Append(ctx context.Context, rec Record) error
	// Query returns file ids of matching records in insertion order.
	// KindAny matches every kind.
	Query(ctx context.Context, key FilterKey, value string, kind Kind) ([]string, error)
	// DistinctCategories returns category names present for a category
	// type, in order of first appearance.
	DistinctCategories(ctx context.Context, ct CategoryType) ([]string, error)
	// ClearAll deletes every record.
	ClearAll(ctx context.Context) error
}

// Lister is implemented by stores that can return every record.
type Lister interface {
	Records(ctx context.Context) ([]Record, error)
}

// ErrNotListable is returned when a store cannot enumerate its records.
var ErrNotListable = errors.New("store cannot list records")

// StoreError wraps a backing store failure with the operation name.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("media store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// IsStoreError reports whether err came from a backing store.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

// Wrap returns err wrapped in a StoreError, or nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// Stamp fills the record id and creation time when they are unset.
func Stamp(rec Record) Record {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	return rec
}

// Field returns the value of the column named by key.
func (r Record) Field(key FilterKey) string {
	switch key {
	case FilterEvent:
		return r.EventID
	case FilterClass:
		return r.ClassID
	case FilterIndividual:
		return r.IndividualID
	case FilterCategory:
		return r.Category
	}
	return ""
}

// Matches reports whether the record satisfies a Query filter.
func (r Record) Matches(key FilterKey, value string, kind Kind) bool {
	if kind != KindAny && r.Kind != kind {
		return false
	}
	return r.Field(key) == value
}

// ValidFilterKey reports whether key is a known column.
func ValidFilterKey(key FilterKey) bool {
	switch key {
	case FilterEvent, FilterClass, FilterIndividual, FilterCategory:
		return true
	}
	return false
}

// FilterFileIDs applies a Query filter over records kept in insertion order.
func FilterFileIDs(records []Record, key FilterKey, value string, kind Kind) []string {
	var ids []string
	for _, r := range records {
		if r.Matches(key, value, kind) {
			ids = append(ids, r.FileID)
		}
	}
	return ids
}

// Distinct returns the non-empty category names of the given type in order
// of first appearance.
func Distinct(records []Record, ct CategoryType) []string {
	seen := make(map[string]bool)
	var names []string
	for _, r := range records {
		if r.CategoryType != ct || r.Category == "" || seen[r.Category] {
			continue
		}
		seen[r.Category] = true
		names = append(names, r.Category)
	}
	return names
}
