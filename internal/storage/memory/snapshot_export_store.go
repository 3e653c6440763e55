package memory

import (
	"context"
	"sort"
	"sync"

	"signal-lab/internal/domain"
	"signal-lab/internal/storage"
)

// SnapshotExportStore is an in-memory implementation of storage.SnapshotExportStore.
type SnapshotExportStore struct {
	mu   sync.RWMutex
	data map[string]*domain.SnapshotExport // keyed by export_id
}

// NewSnapshotExportStore creates a new in-memory snapshot export store.
func NewSnapshotExportStore() *SnapshotExportStore {
	return &SnapshotExportStore{
		data: make(map[string]*domain.SnapshotExport),
	}
}

// Insert adds a new export. Returns ErrDuplicateKey if export_id exists.
func (s *SnapshotExportStore) Insert(_ context.Context, e *domain.SnapshotExport) error {
	if e == nil || e.ExportID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[e.ExportID]; exists {
		return storage.ErrDuplicateKey
	}

	exportCopy := *e
	s.data[e.ExportID] = &exportCopy
	return nil
}

// GetByID retrieves an export by its ID. Returns ErrNotFound if not exists.
func (s *SnapshotExportStore) GetByID(_ context.Context, exportID string) (*domain.SnapshotExport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.data[exportID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	exportCopy := *e
	return &exportCopy, nil
}

// GetBySymbol retrieves all exports for a symbol, ordered by (dt ASC, export_id ASC).
func (s *SnapshotExportStore) GetBySymbol(_ context.Context, symbol string) ([]*domain.SnapshotExport, error) {
	return s.filter(func(e *domain.SnapshotExport) bool { return e.Symbol == symbol }), nil
}

// GetBySignalKey retrieves all exports for a signal key, ordered by (dt ASC, export_id ASC).
func (s *SnapshotExportStore) GetBySignalKey(_ context.Context, signalKey string) ([]*domain.SnapshotExport, error) {
	return s.filter(func(e *domain.SnapshotExport) bool { return e.SignalKey == signalKey }), nil
}

func (s *SnapshotExportStore) filter(keep func(*domain.SnapshotExport) bool) []*domain.SnapshotExport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SnapshotExport
	for _, e := range s.data {
		if keep(e) {
			exportCopy := *e
			result = append(result, &exportCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Dt.Equal(result[j].Dt) {
			return result[i].Dt.Before(result[j].Dt)
		}
		return result[i].ExportID < result[j].ExportID
	})
	return result
}

var _ storage.SnapshotExportStore = (*SnapshotExportStore)(nil)
