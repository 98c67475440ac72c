package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"airquality/ml"
)

func sampleRecord(class int) PredictionRecord {
	return PredictionRecord{
		Features:      ml.FeatureVector{50, 80, 1, 40, 20, 60, 25, 55, 0, 3},
		Class:         class,
		Label:         ml.LabelFor(class),
		Probabilities: []float64{0.1, 0.2, 0.3, 0.4},
		CreatedAt:     time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
	}
}

func testStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	defer store.Close()

	for class := 0; class < 3; class++ {
		id, err := store.Save(ctx, sampleRecord(class))
		if err != nil {
			t.Fatalf("save failed: %v", err)
		}
		if id <= 0 {
			t.Fatalf("expected positive id, got %d", id)
		}
	}

	records, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Class != 2 || records[1].Class != 1 {
		t.Fatalf("expected newest first, got classes %d, %d", records[0].Class, records[1].Class)
	}
	if records[0].Features[ml.Humidity] != 55 || len(records[0].Probabilities) != 4 {
		t.Fatalf("record fields lost: %+v", records[0])
	}
	if !records[0].CreatedAt.Equal(time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("timestamp lost: %v", records[0].CreatedAt)
	}

	empty, err := store.Recent(ctx, 0)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty result for limit 0, got %v, %v", empty, err)
	}
}

func TestMemoryStore(t *testing.T) {
	store, err := NewMemoryStore(10)
	if err != nil {
		t.Fatal(err)
	}
	testStore(t, store)
}

func TestMemoryStoreEvictsOldest(t *testing.T) {
	store, err := NewMemoryStore(2)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for class := 0; class < 4; class++ {
		if _, err := store.Save(ctx, sampleRecord(class)); err != nil {
			t.Fatal(err)
		}
	}
	records, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || records[0].Class != 3 || records[1].Class != 2 {
		t.Fatalf("unexpected records after eviction: %+v", records)
	}
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	testStore(t, store)
}

func TestOpen(t *testing.T) {
	store, err := Open("none", 0, "")
	if err != nil || store != nil {
		t.Fatalf("expected nil store for none, got %v, %v", store, err)
	}
	if _, err := Open("redis", 0, ""); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	store, err = Open("memory", 5, "")
	if err != nil || store == nil {
		t.Fatalf("expected memory store, got %v, %v", store, err)
	}
	store.Close()
}
