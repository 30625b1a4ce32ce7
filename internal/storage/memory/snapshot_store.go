package memory

import (
	"context"
	"sort"
	"sync"

	"solana-staking-ledger/internal/domain"
	"solana-staking-ledger/internal/storage"
)

// SnapshotStore is an in-memory implementation of storage.SnapshotStore.
type SnapshotStore struct {
	mu   sync.RWMutex
	data []*domain.AccumulatorSnapshot
}

// NewSnapshotStore creates a new in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// InsertBulk adds multiple snapshots.
func (s *SnapshotStore) InsertBulk(_ context.Context, snapshots []*domain.AccumulatorSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, snap := range snapshots {
		if snap == nil || snap.ProjectID == "" {
			return storage.ErrInvalidInput
		}
		cp := *snap
		s.data = append(s.data, &cp)
	}
	return nil
}

// GetByProject retrieves snapshots of a project within [start, end] (inclusive).
func (s *SnapshotStore) GetByProject(_ context.Context, projectID string, start, end int64) ([]*domain.AccumulatorSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.AccumulatorSnapshot
	for _, snap := range s.data {
		if snap.ProjectID == projectID && snap.TimestampMs >= start && snap.TimestampMs <= end {
			cp := *snap
			result = append(result, &cp)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TimestampMs < result[j].TimestampMs
	})
	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.SnapshotStore = (*SnapshotStore)(nil)
