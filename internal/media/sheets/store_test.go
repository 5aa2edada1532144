package sheets

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/media"
)

// fakeValues emulates one tab: row 0 is the header.
type fakeValues struct {
	rows    [][]interface{}
	err     error
	cleared []string
}

func (f *fakeValues) Append(ctx context.Context, spreadsheetID, rng string, rows [][]interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, rows...)
	return nil
}

func (f *fakeValues) Get(ctx context.Context, spreadsheetID, rng string) ([][]interface{}, error) {
	if f.err != nil {
		return nil, f.err
	}
	if strings.HasSuffix(rng, "A1:L1") {
		if len(f.rows) == 0 {
			return nil, nil
		}
		return f.rows[:1], nil
	}
	if len(f.rows) <= 1 {
		return nil, nil
	}
	return f.rows[1:], nil
}

func (f *fakeValues) Clear(ctx context.Context, spreadsheetID, rng string) error {
	if f.err != nil {
		return f.err
	}
	f.cleared = append(f.cleared, rng)
	if len(f.rows) > 1 {
		f.rows = f.rows[:1]
	}
	return nil
}

func TestStore_EnsureHeaderWritesOnce(t *testing.T) {
	ctx := context.Background()
	fake := &fakeValues{}
	store := newStore(fake, "sheet-id", "")

	require.NoError(t, store.EnsureHeader(ctx))
	require.NoError(t, store.EnsureHeader(ctx))

	require.Len(t, fake.rows, 1)
	assert.Equal(t, "media_file_id", fake.rows[0][0])
	assert.Len(t, fake.rows[0], len(columns))
}

func TestStore_AppendQueryRoundTripThroughRows(t *testing.T) {
	ctx := context.Background()
	fake := &fakeValues{}
	store := newStore(fake, "sheet-id", "images")
	require.NoError(t, store.EnsureHeader(ctx))

	require.NoError(t, store.Append(ctx, media.Record{
		FileID: "p1", Kind: media.KindPhoto, CategoryType: media.CategoryParticipant,
		EventID: "E01", EventName: "Painting", ClassID: "C1", ClassName: "Class A",
		IndividualID: "I_1001", IndividualName: "Ajmel",
	}))
	require.NoError(t, store.Append(ctx, media.Record{
		FileID: "v1", Kind: media.KindVideo, CategoryType: media.CategoryVideo, Category: "Opening",
	}))

	ids, err := store.Query(ctx, media.FilterIndividual, "I_1001", media.KindPhoto)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, ids)

	names, err := store.DistinctCategories(ctx, media.CategoryVideo)
	require.NoError(t, err)
	assert.Equal(t, []string{"Opening"}, names)

	records, err := store.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.NotEmpty(t, records[0].ID)
	assert.False(t, records[0].CreatedAt.IsZero())
}

func TestStore_ShortRowsAreTolerated(t *testing.T) {
	fake := &fakeValues{rows: [][]interface{}{
		{"media_file_id"},
		{"f1", "photo", "other_photo", "", "", "", "", "", "", "Trophies"},
		{},
	}}
	store := newStore(fake, "sheet-id", "images")

	ids, err := store.Query(context.Background(), media.FilterCategory, "Trophies", media.KindPhoto)
	require.NoError(t, err)
	assert.Equal(t, []string{"f1"}, ids)
}

func TestStore_ClearAllKeepsHeader(t *testing.T) {
	ctx := context.Background()
	fake := &fakeValues{}
	store := newStore(fake, "sheet-id", "images")
	require.NoError(t, store.EnsureHeader(ctx))
	require.NoError(t, store.Append(ctx, media.Record{FileID: "a", Kind: media.KindPhoto}))

	require.NoError(t, store.ClearAll(ctx))

	assert.Equal(t, []string{"images!A2:L"}, fake.cleared)
	assert.Len(t, fake.rows, 1)
}

func TestStore_ErrorsAreStoreErrors(t *testing.T) {
	fake := &fakeValues{err: errors.New("quota exceeded")}
	store := newStore(fake, "sheet-id", "images")

	_, err := store.Query(context.Background(), media.FilterEvent, "E01", media.KindAny)
	require.Error(t, err)
	assert.True(t, media.IsStoreError(err))

	err = store.Append(context.Background(), media.Record{FileID: "a"})
	assert.True(t, media.IsStoreError(err))
}
