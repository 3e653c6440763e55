package storage_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signal-lab/internal/domain"
	"signal-lab/internal/storage"
	"signal-lab/internal/storage/memory"
)

func TestErrors_Distinct(t *testing.T) {
	errs := []error{storage.ErrNotFound, storage.ErrDuplicateKey, storage.ErrInvalidInput}
	for i, a := range errs {
		for j, b := range errs {
			if i != j {
				assert.NotErrorIs(t, a, b)
			}
		}
		assert.ErrorIs(t, fmt.Errorf("record export: %w", a), a)
	}
}

func TestErrors_ExportKeyedByID(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSnapshotExportStore()
	e := &domain.SnapshotExport{
		ExportID:  "abc",
		Symbol:    "000001.SH",
		SignalKey: "sig",
		Dt:        time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Insert(ctx, e))

	again := *e
	again.Path = "elsewhere.html"
	assert.ErrorIs(t, store.Insert(ctx, &again), storage.ErrDuplicateKey)
	assert.ErrorIs(t, store.Insert(ctx, &domain.SnapshotExport{Symbol: "x"}), storage.ErrInvalidInput)

	_, err := store.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
