// Package datacache serves historical bars from a BarStore, memoizing each
// query for the life of the cache.
package datacache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"signal-lab/internal/domain"
	"signal-lab/internal/storage"
)

// ErrNoBars is returned when a query matches no stored bars.
var ErrNoBars = errors.New("no bars for query")

// farFuture bounds open-ended queries.
var farFuture = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

// Query selects one bar series, optionally bounded to [Start, End].
// A zero Start or End leaves that side open.
type Query struct {
	Symbol string
	Asset  domain.Asset
	Freq   domain.Freq
	Start  time.Time
	End    time.Time
}

func (q Query) key() storage.BarKey {
	return storage.BarKey{Symbol: q.Symbol, Asset: q.Asset, Freq: q.Freq}
}

// DecoratedBar is a bar with its close-to-close return in basis points.
type DecoratedBar struct {
	domain.Bar
	ReturnBP float64
}

// Cache reads bars through a BarStore. Safe for concurrent use.
type Cache struct {
	store storage.BarStore

	mu  sync.Mutex
	raw map[Query][]domain.Bar
}

// New creates a cache over store.
func New(store storage.BarStore) *Cache {
	return &Cache{
		store: store,
		raw:   make(map[Query][]domain.Bar),
	}
}

// RawBars returns the bars of a series ordered by dt, with ids renumbered
// 1..n in that order. The returned slice is owned by the caller.
func (c *Cache) RawBars(ctx context.Context, q Query) ([]domain.Bar, error) {
	c.mu.Lock()
	cached, ok := c.raw[q]
	c.mu.Unlock()
	if ok {
		return append([]domain.Bar(nil), cached...), nil
	}

	var (
		stored []*domain.Bar
		err    error
	)
	if q.Start.IsZero() && q.End.IsZero() {
		stored, err = c.store.GetByKey(ctx, q.key())
	} else {
		end := q.End
		if end.IsZero() {
			end = farFuture
		}
		stored, err = c.store.GetByTimeRange(ctx, q.key(), q.Start, end)
	}
	if err != nil {
		return nil, fmt.Errorf("load bars %s %s: %w", q.Symbol, q.Freq, err)
	}
	if len(stored) == 0 {
		return nil, fmt.Errorf("%w: %s %s %s", ErrNoBars, q.Symbol, q.Asset, q.Freq)
	}

	bars := make([]domain.Bar, len(stored))
	for i, b := range stored {
		bars[i] = *b
		bars[i].ID = int64(i + 1)
	}

	c.mu.Lock()
	c.raw[q] = bars
	c.mu.Unlock()

	return append([]domain.Bar(nil), bars...), nil
}

// Bars returns RawBars decorated with per-bar returns.
func (c *Cache) Bars(ctx context.Context, q Query) ([]DecoratedBar, error) {
	raw, err := c.RawBars(ctx, q)
	if err != nil {
		return nil, err
	}
	return Decorate(raw), nil
}

// Decorate computes close-to-close returns in basis points. The first bar,
// and any bar following a zero close, gets 0.
func Decorate(bars []domain.Bar) []DecoratedBar {
	out := make([]DecoratedBar, len(bars))
	for i, b := range bars {
		out[i].Bar = b
		if i == 0 {
			continue
		}
		if prev := bars[i-1].Close; prev != 0 {
			out[i].ReturnBP = (b.Close/prev - 1) * 10000
		}
	}
	return out
}

// Returns extracts ReturnBP in order.
func Returns(bars []DecoratedBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.ReturnBP
	}
	return out
}
