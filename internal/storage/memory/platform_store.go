package memory

import (
	"context"
	"sync"

	"solana-staking-ledger/internal/domain"
	"solana-staking-ledger/internal/storage"
)

// PlatformStore is an in-memory implementation of storage.PlatformStore.
type PlatformStore struct {
	mu   sync.RWMutex
	data *domain.Platform
}

// NewPlatformStore creates a new in-memory platform store.
func NewPlatformStore() *PlatformStore {
	return &PlatformStore{}
}

// Get retrieves the platform record. Returns ErrNotFound before
// platform initialization.
func (s *PlatformStore) Get(_ context.Context) (*domain.Platform, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data == nil {
		return nil, storage.ErrNotFound
	}
	cp := *s.data
	return &cp, nil
}

// Save upserts the platform record.
func (s *PlatformStore) Save(_ context.Context, p *domain.Platform) error {
	if p == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *p
	s.data = &cp
	return nil
}

// Verify interface compliance at compile time.
var _ storage.PlatformStore = (*PlatformStore)(nil)
