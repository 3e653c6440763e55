package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"signal-lab/internal/domain"
	"signal-lab/internal/storage"
)

// BarStore is an in-memory implementation of storage.BarStore.
type BarStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Bar // keyed by (symbol, asset, freq, dt)
}

// NewBarStore creates a new in-memory bar store.
func NewBarStore() *BarStore {
	return &BarStore{
		data: make(map[string]*domain.Bar),
	}
}

// barKey generates a unique key for a bar.
func barKey(b *domain.Bar) string {
	return fmt.Sprintf("%s|%s|%s|%d", b.Symbol, b.Asset, b.Freq, b.Dt.UnixNano())
}

// InsertBulk adds multiple bars. Fails entire batch on duplicate.
func (s *BarStore) InsertBulk(_ context.Context, bars []*domain.Bar) error {
	if len(bars) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track keys in this batch to detect intra-batch duplicates
	batchKeys := make(map[string]struct{}, len(bars))

	// First pass: check for duplicates (existing + intra-batch)
	for _, b := range bars {
		if b == nil || b.Symbol == "" || !b.Freq.Valid() {
			return storage.ErrInvalidInput
		}
		key := barKey(b)

		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	// Second pass: insert all
	for _, b := range bars {
		barCopy := *b
		s.data[barKey(b)] = &barCopy
	}

	return nil
}

// GetByKey retrieves all bars of a series, ordered by dt ASC.
func (s *BarStore) GetByKey(_ context.Context, key storage.BarKey) ([]*domain.Bar, error) {
	return s.filter(key, func(*domain.Bar) bool { return true }), nil
}

// GetByTimeRange retrieves bars of a series within [start, end] (inclusive).
func (s *BarStore) GetByTimeRange(_ context.Context, key storage.BarKey, start, end time.Time) ([]*domain.Bar, error) {
	return s.filter(key, func(b *domain.Bar) bool {
		return !b.Dt.Before(start) && !b.Dt.After(end)
	}), nil
}

func (s *BarStore) filter(key storage.BarKey, keep func(*domain.Bar) bool) []*domain.Bar {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Bar
	for _, b := range s.data {
		if b.Symbol == key.Symbol && b.Asset == key.Asset && b.Freq == key.Freq && keep(b) {
			barCopy := *b
			result = append(result, &barCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Dt.Before(result[j].Dt)
	})
	return result
}

var _ storage.BarStore = (*BarStore)(nil)
