package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/media"
)

func participant(fileID, event, class, individual string) media.Record {
	return media.Record{
		FileID:       fileID,
		Kind:         media.KindPhoto,
		CategoryType: media.CategoryParticipant,
		EventID:      event,
		ClassID:      class,
		IndividualID: individual,
	}
}

func TestStore_AppendAndQuery_InsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := New("")

	_ = store.Append(ctx, participant("f1", "E01", "C1", "I_1001"))
	_ = store.Append(ctx, participant("f2", "E02", "C1", "I_1002"))
	_ = store.Append(ctx, participant("f3", "E01", "C2", "I_1001"))

	ids, err := store.Query(ctx, media.FilterEvent, "E01", media.KindPhoto)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != "f1" || ids[1] != "f3" {
		t.Errorf("expected [f1 f3], got %v", ids)
	}

	ids, _ = store.Query(ctx, media.FilterEvent, "E01", media.KindVideo)
	if len(ids) != 0 {
		t.Errorf("expected no videos, got %v", ids)
	}
}

func TestStore_AppendStampsRecord(t *testing.T) {
	ctx := context.Background()
	store := New("")
	_ = store.Append(ctx, participant("f1", "E01", "C1", "I_1001"))

	records, _ := store.Records(ctx)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].ID == "" {
		t.Error("expected record id to be set")
	}
	if records[0].CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestStore_DistinctCategories(t *testing.T) {
	ctx := context.Background()
	store := New("")

	for _, rec := range []media.Record{
		{FileID: "a", Kind: media.KindPhoto, CategoryType: media.CategoryOtherPhoto, Category: "Trophies"},
		{FileID: "b", Kind: media.KindPhoto, CategoryType: media.CategoryOtherPhoto, Category: "Guests"},
		{FileID: "c", Kind: media.KindPhoto, CategoryType: media.CategoryOtherPhoto, Category: "Trophies"},
		{FileID: "d", Kind: media.KindVideo, CategoryType: media.CategoryVideo, Category: "Opening"},
	} {
		_ = store.Append(ctx, rec)
	}

	names, _ := store.DistinctCategories(ctx, media.CategoryOtherPhoto)
	if len(names) != 2 || names[0] != "Trophies" || names[1] != "Guests" {
		t.Errorf("expected [Trophies Guests], got %v", names)
	}

	names, _ = store.DistinctCategories(ctx, media.CategoryVideo)
	if len(names) != 1 || names[0] != "Opening" {
		t.Errorf("expected [Opening], got %v", names)
	}
}

func TestStore_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "media.json")

	store := New(path)
	if err := store.Append(ctx, participant("f1", "E01", "C1", "I_1001")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	reloaded := New(path)
	ids, _ := reloaded.Query(ctx, media.FilterIndividual, "I_1001", media.KindAny)
	if len(ids) != 1 || ids[0] != "f1" {
		t.Errorf("expected [f1] after reload, got %v", ids)
	}
}

func TestStore_ClearAll(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "media.json")

	store := New(path)
	_ = store.Append(ctx, participant("f1", "E01", "C1", "I_1001"))

	if err := store.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}

	ids, _ := New(path).Query(ctx, media.FilterEvent, "E01", media.KindAny)
	if len(ids) != 0 {
		t.Errorf("expected empty store after clear, got %v", ids)
	}
}

func TestStore_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "media.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	store := New(path)
	records, _ := store.Records(context.Background())
	if len(records) != 0 {
		t.Errorf("expected empty store for invalid JSON, got %d records", len(records))
	}
}

func TestStore_AppendFailureIsStoreError(t *testing.T) {
	dir := t.TempDir()
	// A directory where the file should be makes the rename fail.
	path := filepath.Join(dir, "media.json")
	if err := os.MkdirAll(filepath.Join(path, "blocker"), 0755); err != nil {
		t.Fatal(err)
	}

	store := New(path)
	err := store.Append(context.Background(), participant("f1", "E01", "C1", "I_1001"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !media.IsStoreError(err) {
		t.Errorf("expected StoreError, got %T", err)
	}

	records, _ := store.Records(context.Background())
	if len(records) != 0 {
		t.Errorf("failed append must not keep the record, got %d", len(records))
	}
}
