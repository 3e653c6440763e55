package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"signal-lab/internal/domain"
	"signal-lab/internal/storage"
)

// SignalRecordStore implements storage.SignalRecordStore using PostgreSQL.
type SignalRecordStore struct {
	pool *Pool
}

// NewSignalRecordStore creates a new SignalRecordStore.
func NewSignalRecordStore(pool *Pool) *SignalRecordStore {
	return &SignalRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SignalRecordStore = (*SignalRecordStore)(nil)

// InsertBulk adds multiple records atomically. Fails entire batch on any duplicate.
func (s *SignalRecordStore) InsertBulk(ctx context.Context, records []*domain.SignalRecord) (err error) {
	if len(records) == 0 {
		return nil
	}

	query := `
		INSERT INTO signal_records (run_id, seq, symbol, dt, state)
		VALUES ($1, $2, $3, $4, $5)
	`

	batch := &pgx.Batch{}
	for _, r := range records {
		if r == nil || r.RunID == "" || r.Seq < 0 {
			return storage.ErrInvalidInput
		}
		state, err := json.Marshal(r.State)
		if err != nil {
			return fmt.Errorf("marshal signal state: %w", err)
		}
		batch.Queue(query, r.RunID, r.Seq, r.Symbol, r.Dt, state)
	}
	defer func(start time.Time) { observe("signal_records.insert_bulk", start, err) }(time.Now())

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	results := tx.SendBatch(ctx, batch)
	for range records {
		if _, err := results.Exec(); err != nil {
			results.Close()
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert signal record in bulk: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByRunID retrieves all records of a run, ordered by seq ASC.
func (s *SignalRecordStore) GetByRunID(ctx context.Context, runID string) (_ []*domain.SignalRecord, err error) {
	defer func(start time.Time) { observe("signal_records.get_by_run_id", start, err) }(time.Now())

	query := `
		SELECT run_id, seq, symbol, dt, state
		FROM signal_records
		WHERE run_id = $1
		ORDER BY seq ASC
	`

	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("get signal records by run id: %w", err)
	}
	defer rows.Close()

	return scanSignalRecords(rows)
}

// scanSignalRecords scans multiple rows into a slice of SignalRecord.
func scanSignalRecords(rows pgx.Rows) ([]*domain.SignalRecord, error) {
	var records []*domain.SignalRecord

	for rows.Next() {
		var r domain.SignalRecord
		var state []byte

		if err := rows.Scan(&r.RunID, &r.Seq, &r.Symbol, &r.Dt, &state); err != nil {
			return nil, fmt.Errorf("scan signal record row: %w", err)
		}
		if err := json.Unmarshal(state, &r.State); err != nil {
			return nil, fmt.Errorf("unmarshal signal state: %w", err)
		}
		r.Dt = r.Dt.UTC()
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate signal record rows: %w", err)
	}

	return records, nil
}
