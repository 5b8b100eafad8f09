package storage

import (
	"context"
	"testing"
)

func TestMemoryStoreEstimateRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	record := sampleEstimate("e1", 7)
	if err := store.SaveEstimate(ctx, record); err != nil {
		t.Fatalf("save estimate: %v", err)
	}

	loaded, ok, err := store.GetEstimate(ctx, "e1")
	if err != nil {
		t.Fatalf("get estimate: %v", err)
	}
	if !ok {
		t.Fatal("expected estimate e1")
	}
	if loaded.Mean != record.Mean || loaded.TrackSize != 7 || len(loaded.WorkerMeans) != 2 {
		t.Fatalf("unexpected estimate loaded: %+v", loaded)
	}
	if loaded.SchemaVersion != CurrentSchemaVersion || loaded.CodecVersion != CurrentCodecVersion {
		t.Fatalf("expected stamped versions, got %+v", loaded.VersionedRecord)
	}

	loaded.WorkerMeans[0] = -1
	again, _, _ := store.GetEstimate(ctx, "e1")
	if again.WorkerMeans[0] != 3.25 {
		t.Fatalf("stored worker means were mutated through a returned record: %v", again.WorkerMeans)
	}

	if _, ok, err := store.GetEstimate(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing estimate, ok=%t err=%v", ok, err)
	}
}

func TestMemoryStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	for i, id := range []string{"a", "b", "c"} {
		if err := store.SaveEstimate(ctx, sampleEstimate(id, 3+i)); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}
	// re-saving keeps the original position
	if err := store.SaveEstimate(ctx, sampleEstimate("a", 10)); err != nil {
		t.Fatalf("resave a: %v", err)
	}

	all, err := store.ListEstimates(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].ID != "c" || all[1].ID != "b" || all[2].ID != "a" {
		t.Fatalf("unexpected order: %+v", all)
	}
	if all[2].TrackSize != 10 {
		t.Fatalf("expected updated record, got %+v", all[2])
	}

	limited, err := store.ListEstimates(ctx, 2)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 2 || limited[0].ID != "c" {
		t.Fatalf("unexpected limited list: %+v", limited)
	}

	if err := store.DeleteEstimate(ctx, "b"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	all, _ = store.ListEstimates(ctx, 0)
	if len(all) != 2 || all[0].ID != "c" || all[1].ID != "a" {
		t.Fatalf("unexpected list after delete: %+v", all)
	}
}

func TestMemoryStoreRequiresInit(t *testing.T) {
	store := NewMemoryStore()
	if err := store.SaveEstimate(context.Background(), sampleEstimate("x", 4)); err == nil {
		t.Fatal("expected not initialized error")
	}
	if _, err := store.ListEstimates(context.Background(), 0); err == nil {
		t.Fatal("expected not initialized error")
	}
}

func TestMemoryStoreRejectsMissingID(t *testing.T) {
	store := NewMemoryStore()
	_ = store.Init(context.Background())
	if err := store.SaveEstimate(context.Background(), sampleEstimate("", 4)); err == nil {
		t.Fatal("expected id error")
	}
}
