package clickhouse

import (
	"context"
	"fmt"
	"time"

	"signal-lab/internal/domain"
	"signal-lab/internal/storage"
)

// BarStore implements storage.BarStore using ClickHouse.
type BarStore struct {
	conn *Conn
}

// NewBarStore creates a new BarStore.
func NewBarStore(conn *Conn) *BarStore {
	return &BarStore{conn: conn}
}

// Compile-time interface check.
var _ storage.BarStore = (*BarStore)(nil)

const selectBars = `
	SELECT symbol, asset, freq, dt, id, open, close, high, low, vol, amount
	FROM bars
`

// InsertBulk adds multiple bars. Fails entire batch on duplicate (symbol, asset, freq, dt).
// MergeTree does not enforce uniqueness, so duplicates are checked before the insert.
func (s *BarStore) InsertBulk(ctx context.Context, bars []*domain.Bar) (err error) {
	if len(bars) == 0 {
		return nil
	}

	// Check for intra-batch duplicates and collect the time span per series
	type key struct {
		series storage.BarKey
		dtMs   int64
	}
	type span struct{ start, end time.Time }
	seen := make(map[key]struct{}, len(bars))
	spans := make(map[storage.BarKey]span)
	for _, b := range bars {
		if b == nil || b.Symbol == "" || !b.Freq.Valid() {
			return storage.ErrInvalidInput
		}
		series := storage.BarKey{Symbol: b.Symbol, Asset: b.Asset, Freq: b.Freq}
		k := key{series, b.Dt.UnixMilli()}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}

		sp, ok := spans[series]
		if !ok {
			sp = span{b.Dt, b.Dt}
		}
		if b.Dt.Before(sp.start) {
			sp.start = b.Dt
		}
		if b.Dt.After(sp.end) {
			sp.end = b.Dt
		}
		spans[series] = sp
	}
	defer func(start time.Time) { observe("bars.insert_bulk", start, err) }(time.Now())

	// Check for duplicates against existing DB rows, one range query per series
	for series, sp := range spans {
		existing, err := s.existingTimes(ctx, series, sp.start, sp.end)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		for dtMs := range existing {
			if _, clash := seen[key{series, dtMs}]; clash {
				return storage.ErrDuplicateKey
			}
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO bars (
			symbol, asset, freq, dt, id, open, close, high, low, vol, amount
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, b := range bars {
		err = batch.Append(
			b.Symbol, string(b.Asset), string(b.Freq), b.Dt.UTC(), b.ID,
			b.Open, b.Close, b.High, b.Low, b.Vol, b.Amount,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByKey retrieves all bars of a series, ordered by dt ASC.
func (s *BarStore) GetByKey(ctx context.Context, key storage.BarKey) (_ []*domain.Bar, err error) {
	defer func(start time.Time) { observe("bars.get_by_key", start, err) }(time.Now())

	query := selectBars + `
		WHERE symbol = ? AND asset = ? AND freq = ?
		ORDER BY dt ASC
	`

	rows, err := s.conn.Query(ctx, query, key.Symbol, string(key.Asset), string(key.Freq))
	if err != nil {
		return nil, fmt.Errorf("query bars by key: %w", err)
	}
	defer rows.Close()

	return scanBars(rows)
}

// GetByTimeRange retrieves bars of a series within [start, end] (inclusive), ordered by dt ASC.
func (s *BarStore) GetByTimeRange(ctx context.Context, key storage.BarKey, start, end time.Time) (_ []*domain.Bar, err error) {
	defer func(t time.Time) { observe("bars.get_by_time_range", t, err) }(time.Now())

	query := selectBars + `
		WHERE symbol = ? AND asset = ? AND freq = ? AND dt >= ? AND dt <= ?
		ORDER BY dt ASC
	`

	rows, err := s.conn.Query(ctx, query, key.Symbol, string(key.Asset), string(key.Freq), start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("query bars by time range: %w", err)
	}
	defer rows.Close()

	return scanBars(rows)
}

// existingTimes returns the dt (ms) of stored bars of one series within [start, end].
func (s *BarStore) existingTimes(ctx context.Context, key storage.BarKey, start, end time.Time) (map[int64]struct{}, error) {
	query := `
		SELECT dt FROM bars
		WHERE symbol = ? AND asset = ? AND freq = ? AND dt >= ? AND dt <= ?
	`

	rows, err := s.conn.Query(ctx, query, key.Symbol, string(key.Asset), string(key.Freq), start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]struct{})
	for rows.Next() {
		var dt time.Time
		if err := rows.Scan(&dt); err != nil {
			return nil, err
		}
		out[dt.UnixMilli()] = struct{}{}
	}
	return out, rows.Err()
}

// scanBars scans multiple rows.
func scanBars(rows chRows) ([]*domain.Bar, error) {
	var bars []*domain.Bar

	for rows.Next() {
		var b domain.Bar
		var asset, freq string

		err := rows.Scan(
			&b.Symbol, &asset, &freq, &b.Dt, &b.ID,
			&b.Open, &b.Close, &b.High, &b.Low, &b.Vol, &b.Amount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan bar row: %w", err)
		}

		b.Asset = domain.Asset(asset)
		b.Freq = domain.Freq(freq)
		b.Dt = b.Dt.UTC()
		bars = append(bars, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bar rows: %w", err)
	}

	return bars, nil
}
