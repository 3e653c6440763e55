// Package storage defines the persistence interfaces for bars, generated
// signal records and snapshot exports.
package storage

import (
	"context"
	"time"

	"signal-lab/internal/domain"
)

// BarKey identifies one bar series.
type BarKey struct {
	Symbol string
	Asset  domain.Asset
	Freq   domain.Freq
}

// BarStore provides access to bars storage.
type BarStore interface {
	// InsertBulk adds multiple bars. Fails entire batch on duplicate (symbol, asset, freq, dt).
	InsertBulk(ctx context.Context, bars []*domain.Bar) error

	// GetByKey retrieves all bars of a series, ordered by dt ASC.
	GetByKey(ctx context.Context, key BarKey) ([]*domain.Bar, error)

	// GetByTimeRange retrieves bars of a series within [start, end] (inclusive), ordered by dt ASC.
	GetByTimeRange(ctx context.Context, key BarKey, start, end time.Time) ([]*domain.Bar, error)
}

// SignalRecordStore provides access to signal_records storage.
type SignalRecordStore interface {
	// InsertBulk adds multiple records atomically. Fails entire batch on duplicate (run_id, seq).
	InsertBulk(ctx context.Context, records []*domain.SignalRecord) error

	// GetByRunID retrieves all records of a run, ordered by seq ASC.
	GetByRunID(ctx context.Context, runID string) ([]*domain.SignalRecord, error)
}

// SnapshotExportStore provides access to snapshot_exports storage.
type SnapshotExportStore interface {
	// Insert adds a new export. Returns ErrDuplicateKey if export_id exists.
	Insert(ctx context.Context, e *domain.SnapshotExport) error

	// GetByID retrieves an export by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, exportID string) (*domain.SnapshotExport, error)

	// GetBySymbol retrieves all exports for a symbol, ordered by (dt ASC, export_id ASC).
	GetBySymbol(ctx context.Context, symbol string) ([]*domain.SnapshotExport, error)

	// GetBySignalKey retrieves all exports for a signal key, ordered by (dt ASC, export_id ASC).
	GetBySignalKey(ctx context.Context, signalKey string) ([]*domain.SnapshotExport, error)
}
