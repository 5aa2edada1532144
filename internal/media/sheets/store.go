// Package sheets stores media records as rows of a Google Sheets tab.
package sheets

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/media"
)

// DefaultSheet is the tab the bot reads and writes.
const DefaultSheet = "images"

// Row layout. The first row of the tab is a header and is never touched.
var columns = []string{
	"media_file_id", "media_type", "category_type",
	"event_id", "event_name", "class_id", "class_name",
	"individual_id", "individual_name", "media_category",
	"record_id", "created_at",
}

// Config selects the spreadsheet and credentials.
type Config struct {
	SpreadsheetID   string
	Sheet           string
	CredentialsFile string
	CredentialsJSON []byte
}

// valuesAPI is the part of the Sheets values service the store uses.
type valuesAPI interface {
	Append(ctx context.Context, spreadsheetID, rng string, rows [][]interface{}) error
	Get(ctx context.Context, spreadsheetID, rng string) ([][]interface{}, error)
	Clear(ctx context.Context, spreadsheetID, rng string) error
}

// Store is a media.Store over one sheet tab.
type Store struct {
	api           valuesAPI
	spreadsheetID string
	sheet         string
}

// New connects to the Sheets API with service account credentials.
func New(ctx context.Context, cfg Config) (*Store, error) {
	opts := []option.ClientOption{option.WithScopes(gsheets.SpreadsheetsScope)}
	switch {
	case len(cfg.CredentialsJSON) > 0:
		opts = append(opts, option.WithCredentialsJSON(cfg.CredentialsJSON))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return newStore(&serviceValues{svc: svc}, cfg.SpreadsheetID, cfg.Sheet), nil
}

func newStore(api valuesAPI, spreadsheetID, sheet string) *Store {
	if sheet == "" {
		sheet = DefaultSheet
	}
	return &Store{api: api, spreadsheetID: spreadsheetID, sheet: sheet}
}

// EnsureHeader writes the column names into the first row of an empty tab.
func (s *Store) EnsureHeader(ctx context.Context) error {
	rows, err := s.api.Get(ctx, s.spreadsheetID, fmt.Sprintf("%s!A1:L1", s.sheet))
	if err != nil {
		return media.Wrap("header", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		return nil
	}
	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	return media.Wrap("header", s.api.Append(ctx, s.spreadsheetID, fmt.Sprintf("%s!A1:L1", s.sheet), [][]interface{}{header}))
}

func (s *Store) dataRange() string {
	return fmt.Sprintf("%s!A2:L", s.sheet)
}

// Append adds one row.
func (s *Store) Append(ctx context.Context, rec media.Record) error {
	row := toRow(media.Stamp(rec))
	err := s.api.Append(ctx, s.spreadsheetID, fmt.Sprintf("%s!A:L", s.sheet), [][]interface{}{row})
	return media.Wrap("append", err)
}

// Query returns file ids of matching rows in sheet order.
func (s *Store) Query(ctx context.Context, key media.FilterKey, value string, kind media.Kind) ([]string, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return nil, media.Wrap("query", err)
	}
	return media.FilterFileIDs(records, key, value, kind), nil
}

// DistinctCategories returns category names for ct in order of first appearance.
func (s *Store) DistinctCategories(ctx context.Context, ct media.CategoryType) ([]string, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return nil, media.Wrap("categories", err)
	}
	return media.Distinct(records, ct), nil
}

// ClearAll clears every data row, keeping the header.
func (s *Store) ClearAll(ctx context.Context) error {
	return media.Wrap("clear", s.api.Clear(ctx, s.spreadsheetID, s.dataRange()))
}

// Records reads every data row.
func (s *Store) Records(ctx context.Context) ([]media.Record, error) {
	rows, err := s.api.Get(ctx, s.spreadsheetID, s.dataRange())
	if err != nil {
		return nil, media.Wrap("read", err)
	}
	records := make([]media.Record, 0, len(rows))
	for _, row := range rows {
		rec := fromRow(row)
		if rec.FileID == "" {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func toRow(r media.Record) []interface{} {
	return []interface{}{
		r.FileID, string(r.Kind), string(r.CategoryType),
		r.EventID, r.EventName, r.ClassID, r.ClassName,
		r.IndividualID, r.IndividualName, r.Category,
		r.ID, r.CreatedAt.Format(time.RFC3339),
	}
}

func fromRow(row []interface{}) media.Record {
	cell := func(i int) string {
		if i >= len(row) || row[i] == nil {
			return ""
		}
		return fmt.Sprint(row[i])
	}
	rec := media.Record{
		FileID:         cell(0),
		Kind:           media.Kind(cell(1)),
		CategoryType:   media.CategoryType(cell(2)),
		EventID:        cell(3),
		EventName:      cell(4),
		ClassID:        cell(5),
		ClassName:      cell(6),
		IndividualID:   cell(7),
		IndividualName: cell(8),
		Category:       cell(9),
		ID:             cell(10),
	}
	if ts, err := time.Parse(time.RFC3339, cell(11)); err == nil {
		rec.CreatedAt = ts
	}
	return rec
}

// serviceValues adapts the generated client to valuesAPI.
type serviceValues struct {
	svc *gsheets.Service
}

func (v *serviceValues) Append(ctx context.Context, spreadsheetID, rng string, rows [][]interface{}) error {
	_, err := v.svc.Spreadsheets.Values.Append(spreadsheetID, rng, &gsheets.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

func (v *serviceValues) Get(ctx context.Context, spreadsheetID, rng string) ([][]interface{}, error) {
	resp, err := v.svc.Spreadsheets.Values.Get(spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (v *serviceValues) Clear(ctx context.Context, spreadsheetID, rng string) error {
	_, err := v.svc.Spreadsheets.Values.Clear(spreadsheetID, rng, &gsheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	return err
}
