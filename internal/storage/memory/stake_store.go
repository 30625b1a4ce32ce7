package memory

import (
	"context"
	"sort"
	"sync"

	"solana-staking-ledger/internal/domain"
	"solana-staking-ledger/internal/storage"
)

// StakeStore is an in-memory implementation of storage.StakeStore.
type StakeStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Stake // keyed by stake_id
}

// NewStakeStore creates a new in-memory stake store.
func NewStakeStore() *StakeStore {
	return &StakeStore{
		data: make(map[string]*domain.Stake),
	}
}

// Save upserts a stake by stake_id.
func (s *StakeStore) Save(_ context.Context, st *domain.Stake) error {
	if st == nil || st.StakeID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[st.StakeID] = st.Clone()
	return nil
}

// GetByID retrieves a stake by its ID. Returns ErrNotFound if not exists.
func (s *StakeStore) GetByID(_ context.Context, stakeID string) (*domain.Stake, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, exists := s.data[stakeID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return st.Clone(), nil
}

// GetByProjectUser retrieves the stake of user in a project.
func (s *StakeStore) GetByProjectUser(_ context.Context, projectID, user string) (*domain.Stake, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, st := range s.data {
		if st.ProjectID == projectID && st.User == user {
			return st.Clone(), nil
		}
	}
	return nil, storage.ErrNotFound
}

// GetByProject retrieves all stakes of a project ordered by stake_id.
func (s *StakeStore) GetByProject(_ context.Context, projectID string) ([]*domain.Stake, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Stake
	for _, st := range s.data {
		if st.ProjectID == projectID {
			result = append(result, st.Clone())
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].StakeID < result[j].StakeID
	})
	return result, nil
}

// GetByUser retrieves all stakes of a user across projects.
func (s *StakeStore) GetByUser(_ context.Context, user string) ([]*domain.Stake, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Stake
	for _, st := range s.data {
		if st.User == user {
			result = append(result, st.Clone())
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].StakeID < result[j].StakeID
	})
	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.StakeStore = (*StakeStore)(nil)
