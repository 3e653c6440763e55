package memory

import (
	"context"
	"errors"
	"testing"

	"signal-lab/internal/domain"
	"signal-lab/internal/storage"
)

func makeRecord(runID string, seq int) *domain.SignalRecord {
	return &domain.SignalRecord{
		RunID:  runID,
		Seq:    seq,
		Symbol: "000001.SH",
		Dt:     t0.AddDate(0, 0, seq),
		State:  domain.SignalState{"D_MA5_MA20": "bull"},
	}
}

func TestSignalRecordStore_InsertBulkAndGet(t *testing.T) {
	store := NewSignalRecordStore()
	ctx := context.Background()

	records := []*domain.SignalRecord{makeRecord("run1", 2), makeRecord("run1", 0), makeRecord("run1", 1), makeRecord("run2", 0)}
	if err := store.InsertBulk(ctx, records); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByRunID(ctx, "run1")
	if err != nil {
		t.Fatalf("GetByRunID failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(got))
	}
	for i, r := range got {
		if r.Seq != i {
			t.Errorf("record %d has seq %d", i, r.Seq)
		}
	}
}

func TestSignalRecordStore_DuplicateKey(t *testing.T) {
	store := NewSignalRecordStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, []*domain.SignalRecord{makeRecord("run1", 0)}); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}
	err := store.InsertBulk(ctx, []*domain.SignalRecord{makeRecord("run1", 1), makeRecord("run1", 0)})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}

	got, _ := store.GetByRunID(ctx, "run1")
	if len(got) != 1 {
		t.Errorf("Expected 1 record after failed batch, got %d", len(got))
	}
}

func TestSignalRecordStore_InvalidInput(t *testing.T) {
	store := NewSignalRecordStore()
	for _, r := range []*domain.SignalRecord{nil, makeRecord("", 0), makeRecord("run1", -1)} {
		if err := store.InsertBulk(context.Background(), []*domain.SignalRecord{r}); !errors.Is(err, storage.ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput, got %v", err)
		}
	}
}

func TestSignalRecordStore_StateIsCopied(t *testing.T) {
	store := NewSignalRecordStore()
	ctx := context.Background()

	r := makeRecord("run1", 0)
	if err := store.InsertBulk(ctx, []*domain.SignalRecord{r}); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}
	r.State["D_MA5_MA20"] = "bear"

	got, _ := store.GetByRunID(ctx, "run1")
	if got[0].State["D_MA5_MA20"] != "bull" {
		t.Errorf("stored state aliased caller map: %v", got[0].State)
	}
}
