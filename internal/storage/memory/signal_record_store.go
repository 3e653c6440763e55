package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"signal-lab/internal/domain"
	"signal-lab/internal/storage"
)

// SignalRecordStore is an in-memory implementation of storage.SignalRecordStore.
type SignalRecordStore struct {
	mu   sync.RWMutex
	data map[string]*domain.SignalRecord // keyed by (run_id, seq)
}

// NewSignalRecordStore creates a new in-memory signal record store.
func NewSignalRecordStore() *SignalRecordStore {
	return &SignalRecordStore{
		data: make(map[string]*domain.SignalRecord),
	}
}

func recordKey(runID string, seq int) string {
	return fmt.Sprintf("%s|%d", runID, seq)
}

// copyRecord returns a deep copy; State is a map.
func copyRecord(r *domain.SignalRecord) *domain.SignalRecord {
	out := *r
	out.State = r.State.Clone()
	return &out
}

// InsertBulk adds multiple records atomically. Fails entire batch on any duplicate.
func (s *SignalRecordStore) InsertBulk(_ context.Context, records []*domain.SignalRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r == nil || r.RunID == "" || r.Seq < 0 {
			return storage.ErrInvalidInput
		}
		key := recordKey(r.RunID, r.Seq)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, r := range records {
		s.data[recordKey(r.RunID, r.Seq)] = copyRecord(r)
	}
	return nil
}

// GetByRunID retrieves all records of a run, ordered by seq ASC.
func (s *SignalRecordStore) GetByRunID(_ context.Context, runID string) ([]*domain.SignalRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SignalRecord
	for _, r := range s.data {
		if r.RunID == runID {
			result = append(result, copyRecord(r))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Seq < result[j].Seq
	})
	return result, nil
}

var _ storage.SignalRecordStore = (*SignalRecordStore)(nil)
