package service

import (
	"context"

	"solana-staking-ledger/internal/domain"
)

// Platform returns the platform record.
func (svc *Service) Platform(ctx context.Context) (*domain.Platform, error) {
	return svc.platform.Get(ctx)
}

// Project returns a project by ID.
func (svc *Service) Project(ctx context.Context, projectID string) (*domain.Project, error) {
	return svc.projects.GetByID(ctx, projectID)
}

// Projects returns all projects.
func (svc *Service) Projects(ctx context.Context) ([]*domain.Project, error) {
	return svc.projects.List(ctx)
}

// ProjectsByMint returns all projects staking a mint.
func (svc *Service) ProjectsByMint(ctx context.Context, mint string) ([]*domain.Project, error) {
	return svc.projects.GetByMint(ctx, mint)
}

// Stake returns a user's stake in a project.
func (svc *Service) Stake(ctx context.Context, projectID, user string) (*domain.Stake, error) {
	return svc.stakes.GetByProjectUser(ctx, projectID, user)
}

// StakesByProject returns all stakes of a project.
func (svc *Service) StakesByProject(ctx context.Context, projectID string) ([]*domain.Stake, error) {
	return svc.stakes.GetByProject(ctx, projectID)
}

// StakesByUser returns a user's stakes across projects.
func (svc *Service) StakesByUser(ctx context.Context, user string) ([]*domain.Stake, error) {
	return svc.stakes.GetByUser(ctx, user)
}

// ProjectEvents returns journaled events of a project within [start, end].
func (svc *Service) ProjectEvents(ctx context.Context, projectID string, start, end int64) ([]*domain.Event, error) {
	return svc.journal.GetByProject(ctx, projectID, start, end)
}

// UserEvents returns journaled events of a user within [start, end].
func (svc *Service) UserEvents(ctx context.Context, user string, start, end int64) ([]*domain.Event, error) {
	return svc.journal.GetByUser(ctx, user, start, end)
}

// ProjectSnapshots returns accumulator snapshots of a project within
// [start, end].
func (svc *Service) ProjectSnapshots(ctx context.Context, projectID string, start, end int64) ([]*domain.AccumulatorSnapshot, error) {
	return svc.snapshots.GetByProject(ctx, projectID, start, end)
}
