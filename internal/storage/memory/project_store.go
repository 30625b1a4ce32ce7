package memory

import (
	"context"
	"sort"
	"sync"

	"solana-staking-ledger/internal/domain"
	"solana-staking-ledger/internal/storage"
)

// ProjectStore is an in-memory implementation of storage.ProjectStore.
type ProjectStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Project // keyed by project_id
}

// NewProjectStore creates a new in-memory project store.
func NewProjectStore() *ProjectStore {
	return &ProjectStore{
		data: make(map[string]*domain.Project),
	}
}

// Insert adds a new project. Returns ErrDuplicateKey if project_id exists.
func (s *ProjectStore) Insert(_ context.Context, p *domain.Project) error {
	if p == nil || p.ProjectID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[p.ProjectID]; exists {
		return storage.ErrDuplicateKey
	}
	s.data[p.ProjectID] = p.Clone()
	return nil
}

// Save upserts a project by project_id.
func (s *ProjectStore) Save(_ context.Context, p *domain.Project) error {
	if p == nil || p.ProjectID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[p.ProjectID] = p.Clone()
	return nil
}

// GetByID retrieves a project by its ID. Returns ErrNotFound if not exists.
func (s *ProjectStore) GetByID(_ context.Context, projectID string) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.data[projectID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return p.Clone(), nil
}

// GetByMint retrieves all projects staking a given mint.
func (s *ProjectStore) GetByMint(_ context.Context, mint string) ([]*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Project
	for _, p := range s.data {
		if p.TokenMint == mint {
			result = append(result, p.Clone())
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ProjectID < result[j].ProjectID
	})
	return result, nil
}

// List retrieves all projects ordered by project_id.
func (s *ProjectStore) List(_ context.Context) ([]*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Project, 0, len(s.data))
	for _, p := range s.data {
		result = append(result, p.Clone())
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ProjectID < result[j].ProjectID
	})
	return result, nil
}

// Delete removes a closed project. Returns ErrNotFound if not exists.
func (s *ProjectStore) Delete(_ context.Context, projectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[projectID]; !exists {
		return storage.ErrNotFound
	}
	delete(s.data, projectID)
	return nil
}

// Verify interface compliance at compile time.
var _ storage.ProjectStore = (*ProjectStore)(nil)
