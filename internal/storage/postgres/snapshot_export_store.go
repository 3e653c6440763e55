package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"signal-lab/internal/domain"
	"signal-lab/internal/storage"
)

// SnapshotExportStore implements storage.SnapshotExportStore using PostgreSQL.
type SnapshotExportStore struct {
	pool *Pool
}

// NewSnapshotExportStore creates a new SnapshotExportStore.
func NewSnapshotExportStore(pool *Pool) *SnapshotExportStore {
	return &SnapshotExportStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SnapshotExportStore = (*SnapshotExportStore)(nil)

const selectExports = `
	SELECT export_id, symbol, signal_key, signal_value, dt, path
	FROM snapshot_exports
`

// Insert adds a new export. Returns ErrDuplicateKey if export_id exists.
func (s *SnapshotExportStore) Insert(ctx context.Context, e *domain.SnapshotExport) (err error) {
	if e == nil || e.ExportID == "" {
		return storage.ErrInvalidInput
	}
	defer func(start time.Time) { observe("snapshot_exports.insert", start, err) }(time.Now())

	query := `
		INSERT INTO snapshot_exports (export_id, symbol, signal_key, signal_value, dt, path)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = s.pool.Exec(ctx, query, e.ExportID, e.Symbol, e.SignalKey, e.SignalValue, e.Dt, e.Path)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert snapshot export: %w", err)
	}
	return nil
}

// GetByID retrieves an export by its ID. Returns ErrNotFound if not exists.
func (s *SnapshotExportStore) GetByID(ctx context.Context, exportID string) (_ *domain.SnapshotExport, err error) {
	defer func(start time.Time) { observe("snapshot_exports.get_by_id", start, err) }(time.Now())

	row := s.pool.QueryRow(ctx, selectExports+` WHERE export_id = $1`, exportID)
	e, err := scanSnapshotExport(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot export by id: %w", err)
	}
	return e, nil
}

// GetBySymbol retrieves all exports for a symbol, ordered by (dt ASC, export_id ASC).
func (s *SnapshotExportStore) GetBySymbol(ctx context.Context, symbol string) (_ []*domain.SnapshotExport, err error) {
	defer func(start time.Time) { observe("snapshot_exports.get_by_symbol", start, err) }(time.Now())

	rows, err := s.pool.Query(ctx, selectExports+` WHERE symbol = $1 ORDER BY dt ASC, export_id ASC`, symbol)
	if err != nil {
		return nil, fmt.Errorf("get snapshot exports by symbol: %w", err)
	}
	defer rows.Close()

	return scanSnapshotExports(rows)
}

// GetBySignalKey retrieves all exports for a signal key, ordered by (dt ASC, export_id ASC).
func (s *SnapshotExportStore) GetBySignalKey(ctx context.Context, signalKey string) (_ []*domain.SnapshotExport, err error) {
	defer func(start time.Time) { observe("snapshot_exports.get_by_signal_key", start, err) }(time.Now())

	rows, err := s.pool.Query(ctx, selectExports+` WHERE signal_key = $1 ORDER BY dt ASC, export_id ASC`, signalKey)
	if err != nil {
		return nil, fmt.Errorf("get snapshot exports by signal key: %w", err)
	}
	defer rows.Close()

	return scanSnapshotExports(rows)
}

// scanSnapshotExport scans a single row into a SnapshotExport.
func scanSnapshotExport(row pgx.Row) (*domain.SnapshotExport, error) {
	var e domain.SnapshotExport
	if err := row.Scan(&e.ExportID, &e.Symbol, &e.SignalKey, &e.SignalValue, &e.Dt, &e.Path); err != nil {
		return nil, err
	}
	e.Dt = e.Dt.UTC()
	return &e, nil
}

// scanSnapshotExports scans multiple rows into a slice of SnapshotExport.
func scanSnapshotExports(rows pgx.Rows) ([]*domain.SnapshotExport, error) {
	var exports []*domain.SnapshotExport

	for rows.Next() {
		e, err := scanSnapshotExport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot export row: %w", err)
		}
		exports = append(exports, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot export rows: %w", err)
	}

	return exports, nil
}
