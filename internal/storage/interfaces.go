package storage

import (
	"context"

	"solana-staking-ledger/internal/domain"
)

// PlatformStore persists the singleton platform record.
type PlatformStore interface {
	// Get retrieves the platform record. Returns ErrNotFound before
	// platform initialization.
	Get(ctx context.Context) (*domain.Platform, error)

	// Save upserts the platform record.
	Save(ctx context.Context, p *domain.Platform) error
}

// ProjectStore persists project records.
type ProjectStore interface {
	// Insert adds a new project. Returns ErrDuplicateKey if project_id exists.
	Insert(ctx context.Context, p *domain.Project) error

	// Save upserts a project by project_id.
	Save(ctx context.Context, p *domain.Project) error

	// GetByID retrieves a project by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, projectID string) (*domain.Project, error)

	// GetByMint retrieves all projects staking a given mint.
	GetByMint(ctx context.Context, mint string) ([]*domain.Project, error)

	// List retrieves all projects ordered by project_id.
	List(ctx context.Context) ([]*domain.Project, error)

	// Delete removes a closed project. Returns ErrNotFound if not exists.
	Delete(ctx context.Context, projectID string) error
}

// StakeStore persists per-(project, user) stake records.
type StakeStore interface {
	// Save upserts a stake by stake_id.
	Save(ctx context.Context, s *domain.Stake) error

	// GetByID retrieves a stake by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, stakeID string) (*domain.Stake, error)

	// GetByProjectUser retrieves the stake of user in a project.
	// Returns ErrNotFound if the user never deposited.
	GetByProjectUser(ctx context.Context, projectID, user string) (*domain.Stake, error)

	// GetByProject retrieves all stakes of a project ordered by stake_id.
	GetByProject(ctx context.Context, projectID string) ([]*domain.Stake, error)

	// GetByUser retrieves all stakes of a user across projects.
	GetByUser(ctx context.Context, user string) ([]*domain.Stake, error)
}

// EventJournal is the append-only operation journal.
type EventJournal interface {
	// Append records an event.
	Append(ctx context.Context, e *domain.Event) error

	// GetByProject retrieves events of a project within [start, end]
	// (inclusive, unix seconds), ordered by timestamp ASC.
	GetByProject(ctx context.Context, projectID string, start, end int64) ([]*domain.Event, error)

	// GetByUser retrieves events of a user within [start, end] (inclusive),
	// ordered by timestamp ASC.
	GetByUser(ctx context.Context, user string, start, end int64) ([]*domain.Event, error)
}

// SnapshotStore persists periodic accumulator snapshots for analytics.
type SnapshotStore interface {
	// InsertBulk adds multiple snapshots.
	InsertBulk(ctx context.Context, snapshots []*domain.AccumulatorSnapshot) error

	// GetByProject retrieves snapshots of a project within [start, end]
	// (inclusive), ordered by timestamp ASC.
	GetByProject(ctx context.Context, projectID string, start, end int64) ([]*domain.AccumulatorSnapshot, error)
}
