package memory

import (
	"context"
	"errors"
	"testing"

	"signal-lab/internal/domain"
	"signal-lab/internal/storage"
)

func makeExport(id, symbol, key string, day int) *domain.SnapshotExport {
	return &domain.SnapshotExport{
		ExportID:    id,
		Symbol:      symbol,
		SignalKey:   key,
		SignalValue: "bull",
		Dt:          t0.AddDate(0, 0, day),
		Path:        "snapshots/" + key + "/" + id + ".html",
	}
}

func TestSnapshotExportStore_InsertAndGet(t *testing.T) {
	store := NewSnapshotExportStore()
	ctx := context.Background()

	if err := store.Insert(ctx, makeExport("e1", "000001.SH", "D_MA5_MA20", 0)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByID(ctx, "e1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.SignalKey != "D_MA5_MA20" {
		t.Errorf("SignalKey mismatch: got %s", got.SignalKey)
	}

	if _, err := store.GetByID(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSnapshotExportStore_DuplicateKey(t *testing.T) {
	store := NewSnapshotExportStore()
	ctx := context.Background()

	e := makeExport("e1", "000001.SH", "D_MA5_MA20", 0)
	if err := store.Insert(ctx, e); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}
	if err := store.Insert(ctx, e); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
	if err := store.Insert(ctx, &domain.SnapshotExport{}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestSnapshotExportStore_Ordering(t *testing.T) {
	store := NewSnapshotExportStore()
	ctx := context.Background()

	for _, e := range []*domain.SnapshotExport{
		makeExport("e3", "000001.SH", "D_MA5_MA20", 5),
		makeExport("e2", "000001.SH", "D_RSI14", 1),
		makeExport("e1", "000001.SH", "D_MA5_MA20", 1),
		makeExport("e4", "399006.SZ", "D_MA5_MA20", 0),
	} {
		if err := store.Insert(ctx, e); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	bySymbol, _ := store.GetBySymbol(ctx, "000001.SH")
	wantSymbol := []string{"e1", "e2", "e3"}
	if len(bySymbol) != len(wantSymbol) {
		t.Fatalf("Expected %d exports, got %d", len(wantSymbol), len(bySymbol))
	}
	for i, id := range wantSymbol {
		if bySymbol[i].ExportID != id {
			t.Errorf("GetBySymbol[%d] = %s, want %s", i, bySymbol[i].ExportID, id)
		}
	}

	byKey, _ := store.GetBySignalKey(ctx, "D_MA5_MA20")
	wantKey := []string{"e4", "e1", "e3"}
	if len(byKey) != len(wantKey) {
		t.Fatalf("Expected %d exports, got %d", len(wantKey), len(byKey))
	}
	for i, id := range wantKey {
		if byKey[i].ExportID != id {
			t.Errorf("GetBySignalKey[%d] = %s, want %s", i, byKey[i].ExportID, id)
		}
	}
}
