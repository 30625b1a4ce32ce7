// Package service orchestrates ledger operations against storage and the
// custody layer. Every state-changing call follows the same shape: load
// records, clone them, run the ledger operation inside a vault transaction,
// commit, persist the clones, then journal and broadcast the event. Clones
// keep failed operations from leaking half-applied mutations into stores.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"solana-staking-ledger/internal/domain"
	"solana-staking-ledger/internal/ledger"
	"solana-staking-ledger/internal/observability"
	"solana-staking-ledger/internal/storage"
	"solana-staking-ledger/internal/vault"
)

// Broadcaster pushes events to live subscribers.
type Broadcaster interface {
	Broadcast(e *domain.Event)
}

// Service coordinates stores, the vault mover and the ledger rules.
type Service struct {
	platform  storage.PlatformStore
	projects  storage.ProjectStore
	stakes    storage.StakeStore
	journal   storage.EventJournal
	snapshots storage.SnapshotStore

	mover       vault.Mover
	broadcaster Broadcaster
	log         *zap.Logger
	now         func() int64

	// mu serializes state-changing operations. The ledger's accumulators
	// are read-modify-write over shared records; concurrent operations on
	// the same project would race.
	mu sync.Mutex
}

// Options for creating a Service.
type Options struct {
	Platform  storage.PlatformStore
	Projects  storage.ProjectStore
	Stakes    storage.StakeStore
	Journal   storage.EventJournal
	Snapshots storage.SnapshotStore

	Mover       vault.Mover
	Broadcaster Broadcaster  // optional
	Logger      *zap.Logger  // optional
	Now         func() int64 // optional clock override
}

// New creates a Service.
func New(opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = func() int64 { return time.Now().Unix() }
	}
	return &Service{
		platform:    opts.Platform,
		projects:    opts.Projects,
		stakes:      opts.Stakes,
		journal:     opts.Journal,
		snapshots:   opts.Snapshots,
		mover:       opts.Mover,
		broadcaster: opts.Broadcaster,
		log:         log,
		now:         now,
	}
}

// record observes one operation outcome.
func record(op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	observability.RecordOperation(op, status, time.Since(start).Seconds())
}

// finish journals and broadcasts a committed event. Journal failures are
// logged, not returned: the operation has already committed.
func (svc *Service) finish(ctx context.Context, e *domain.Event) {
	if err := svc.journal.Append(ctx, e); err != nil {
		observability.DefaultMetrics.JournalErrors.Inc()
		svc.log.Error("journal append failed",
			zap.String("kind", string(e.Kind)),
			zap.String("project", e.ProjectID),
			zap.Error(err))
	} else {
		observability.DefaultMetrics.EventsJournaled.Inc()
	}
	if svc.broadcaster != nil {
		svc.broadcaster.Broadcast(e)
	}
}

// loadPlatform returns the platform record, or a zero record before
// initialization.
func (svc *Service) loadPlatform(ctx context.Context) (*domain.Platform, error) {
	plat, err := svc.platform.Get(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return &domain.Platform{}, nil
	}
	if err != nil {
		return nil, err
	}
	return plat, nil
}

// loadStake returns the user's stake in a project, or nil when the user
// never deposited.
func (svc *Service) loadStake(ctx context.Context, projectID, user string) (*domain.Stake, error) {
	s, err := svc.stakes.GetByProjectUser(ctx, projectID, user)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// mutatePlatform runs a platform-record mutation and persists on success.
func (svc *Service) mutatePlatform(ctx context.Context, op string, fn func(plat *domain.Platform) (*domain.Event, error)) (e *domain.Event, err error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	defer record(op, time.Now(), err)

	plat, err := svc.loadPlatform(ctx)
	if err != nil {
		return nil, err
	}
	e, err = fn(plat)
	if err != nil {
		return nil, err
	}
	if err = svc.platform.Save(ctx, plat); err != nil {
		return nil, err
	}
	svc.finish(ctx, e)
	return e, nil
}

// mutateProject runs a project-record mutation without vault movement and
// persists on success.
func (svc *Service) mutateProject(ctx context.Context, op, projectID string, fn func(p *domain.Project) (*domain.Event, error)) (e *domain.Event, err error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	defer record(op, time.Now(), err)

	stored, err := svc.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	p := stored.Clone()
	e, err = fn(p)
	if err != nil {
		return nil, err
	}
	if err = svc.projects.Save(ctx, p); err != nil {
		return nil, err
	}
	svc.finish(ctx, e)
	return e, nil
}

// InitializePlatform sets up the singleton platform record.
func (svc *Service) InitializePlatform(ctx context.Context, admin, feeCollector string, tokenFeeBps, nativeFee uint64) (*domain.Event, error) {
	return svc.mutatePlatform(ctx, "initialize_platform", func(plat *domain.Platform) (*domain.Event, error) {
		return ledger.InitializePlatform(plat, admin, feeCollector, tokenFeeBps, nativeFee, svc.now())
	})
}

// SetFees updates the platform fee schedule.
func (svc *Service) SetFees(ctx context.Context, admin string, tokenFeeBps, nativeFee uint64) (*domain.Event, error) {
	return svc.mutatePlatform(ctx, "set_fees", func(plat *domain.Platform) (*domain.Event, error) {
		return ledger.SetFees(plat, admin, tokenFeeBps, nativeFee, svc.now())
	})
}

// UpdateFeeCollector changes the fee destination wallet.
func (svc *Service) UpdateFeeCollector(ctx context.Context, admin, collector string) (*domain.Event, error) {
	return svc.mutatePlatform(ctx, "update_fee_collector", func(plat *domain.Platform) (*domain.Event, error) {
		return ledger.UpdateFeeCollector(plat, admin, collector, svc.now())
	})
}

// CreateProject registers a new staking project for a token mint.
func (svc *Service) CreateProject(ctx context.Context, admin, tokenMint string, poolID uint64) (p *domain.Project, e *domain.Event, err error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	defer record("create_project", time.Now(), err)

	p, e, err = ledger.CreateProject(admin, tokenMint, poolID, svc.now())
	if err != nil {
		return nil, nil, err
	}
	if err = svc.projects.Insert(ctx, p); err != nil {
		return nil, nil, err
	}
	svc.finish(ctx, e)
	return p, e, nil
}

// InitializePool configures a created project's reward pool.
func (svc *Service) InitializePool(ctx context.Context, projectID, admin string, params ledger.PoolParams) (*domain.Event, error) {
	return svc.mutateProject(ctx, "initialize_pool", projectID, func(p *domain.Project) (*domain.Event, error) {
		return ledger.InitializePool(p, admin, params, svc.now())
	})
}

// SetPoolDuration changes the pool length, re-anchored at the start time.
func (svc *Service) SetPoolDuration(ctx context.Context, projectID, admin string, durationSeconds uint64) (*domain.Event, error) {
	return svc.mutateProject(ctx, "set_pool_duration", projectID, func(p *domain.Project) (*domain.Event, error) {
		return ledger.SetPoolDuration(p, admin, durationSeconds, svc.now())
	})
}

// UpdatePoolParams replaces the fixed rate and lockup.
func (svc *Service) UpdatePoolParams(ctx context.Context, projectID, admin string, rateBpsPerYear, lockupSeconds uint64) (*domain.Event, error) {
	return svc.mutateProject(ctx, "update_pool_params", projectID, func(p *domain.Project) (*domain.Event, error) {
		return ledger.UpdatePoolParams(p, admin, rateBpsPerYear, lockupSeconds, svc.now())
	})
}

// UpdateReferrer changes the referral configuration.
func (svc *Service) UpdateReferrer(ctx context.Context, projectID, admin, referrer string, splitBps uint64) (*domain.Event, error) {
	return svc.mutateProject(ctx, "update_referrer", projectID, func(p *domain.Project) (*domain.Event, error) {
		return ledger.UpdateReferrer(p, admin, referrer, splitBps, svc.now())
	})
}

// ToggleReflections enables or disables reflection distribution.
func (svc *Service) ToggleReflections(ctx context.Context, projectID, admin string, enable bool, reflectionToken string) (*domain.Event, error) {
	return svc.mutateProject(ctx, "toggle_reflections", projectID, func(p *domain.Project) (*domain.Event, error) {
		return ledger.ToggleReflections(p, admin, enable, reflectionToken, svc.now())
	})
}

// SetPause toggles an operation gate.
func (svc *Service) SetPause(ctx context.Context, projectID, admin string, gate ledger.Gate, paused bool) (*domain.Event, error) {
	return svc.mutateProject(ctx, "set_pause", projectID, func(p *domain.Project) (*domain.Event, error) {
		return ledger.SetPause(p, admin, gate, paused, svc.now())
	})
}

// TransferAdmin hands project control to a new admin wallet.
func (svc *Service) TransferAdmin(ctx context.Context, projectID, admin, newAdmin string) (*domain.Event, error) {
	return svc.mutateProject(ctx, "transfer_admin", projectID, func(p *domain.Project) (*domain.Event, error) {
		return ledger.TransferAdmin(p, admin, newAdmin, svc.now())
	})
}

// EmergencyUnlock removes the lockup so all stakes become withdrawable.
func (svc *Service) EmergencyUnlock(ctx context.Context, projectID, admin string) (*domain.Event, error) {
	return svc.mutateProject(ctx, "emergency_unlock", projectID, func(p *domain.Project) (*domain.Event, error) {
		return ledger.EmergencyUnlock(p, admin, svc.now())
	})
}

// CloseProject deletes a project with no active stakes.
func (svc *Service) CloseProject(ctx context.Context, projectID, admin string) (e *domain.Event, err error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	defer record("close_project", time.Now(), err)

	stored, err := svc.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	e, err = ledger.CloseProject(stored.Clone(), admin, svc.now())
	if err != nil {
		return nil, err
	}
	if err = svc.projects.Delete(ctx, projectID); err != nil {
		return nil, err
	}
	observability.UpdateTotalStaked(projectID, 0)
	svc.finish(ctx, e)
	return e, nil
}

// DepositRewards funds the reward vault from the admin wallet.
func (svc *Service) DepositRewards(ctx context.Context, projectID, admin string, amount uint64) (e *domain.Event, err error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	defer record("deposit_rewards", time.Now(), err)

	stored, err := svc.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	p := stored.Clone()

	tx, err := svc.mover.Begin(ctx)
	if err != nil {
		return nil, err
	}
	e, err = ledger.DepositRewards(ctx, tx, p, admin, amount, svc.now())
	if err != nil {
		tx.Rollback(ctx)
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	if err = svc.projects.Save(ctx, p); err != nil {
		svc.log.Error("project save after commit failed", zap.String("project", projectID), zap.Error(err))
		return nil, err
	}
	svc.finish(ctx, e)
	return e, nil
}

// ClaimUnclaimedTokens sweeps surplus from a project vault to the admin.
func (svc *Service) ClaimUnclaimedTokens(ctx context.Context, projectID, admin, vaultID string, amount uint64) (e *domain.Event, err error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	defer record("claim_unclaimed", time.Now(), err)

	stored, err := svc.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	p := stored.Clone()

	tx, err := svc.mover.Begin(ctx)
	if err != nil {
		return nil, err
	}
	e, err = ledger.ClaimUnclaimedTokens(ctx, tx, p, admin, vaultID, amount, svc.now())
	if err != nil {
		tx.Rollback(ctx)
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	if err = svc.projects.Save(ctx, p); err != nil {
		svc.log.Error("project save after commit failed", zap.String("project", projectID), zap.Error(err))
		return nil, err
	}
	svc.finish(ctx, e)
	return e, nil
}

// DepositRequest describes a user deposit.
type DepositRequest struct {
	ProjectID        string
	User             string
	WithdrawalWallet string
	Referrer         string
	Amount           uint64
}

// Deposit stakes tokens for a user, creating the stake record on first use.
func (svc *Service) Deposit(ctx context.Context, req DepositRequest) (e *domain.Event, err error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	defer record("deposit", time.Now(), err)

	plat, p, s, err := svc.loadAll(ctx, req.ProjectID, req.User)
	if err != nil {
		return nil, err
	}

	tx, err := svc.mover.Begin(ctx)
	if err != nil {
		return nil, err
	}
	s, e, err = ledger.Deposit(ctx, tx, plat, p, s, req.User, req.WithdrawalWallet, req.Referrer, req.Amount, svc.now())
	if err != nil {
		tx.Rollback(ctx)
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	if err = svc.persist(ctx, p, s); err != nil {
		return nil, err
	}
	observability.UpdateTotalStaked(p.ProjectID, p.TotalStaked)
	observability.RecordFee("deposit", e.Fee)
	svc.finish(ctx, e)
	return e, nil
}

// Withdraw removes staked tokens after lockup expiry.
func (svc *Service) Withdraw(ctx context.Context, projectID, user, referrer string, amount uint64) (e *domain.Event, err error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	defer record("withdraw", time.Now(), err)

	plat, p, s, err := svc.loadAll(ctx, projectID, user)
	if err != nil {
		return nil, err
	}

	tx, err := svc.mover.Begin(ctx)
	if err != nil {
		return nil, err
	}
	e, err = ledger.Withdraw(ctx, tx, plat, p, s, user, referrer, amount, svc.now())
	if err != nil {
		tx.Rollback(ctx)
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	if err = svc.persist(ctx, p, s); err != nil {
		return nil, err
	}
	observability.UpdateTotalStaked(p.ProjectID, p.TotalStaked)
	observability.RecordFee("withdraw", e.Fee)
	svc.finish(ctx, e)
	return e, nil
}

// Claim settles and pays out accrued rewards.
func (svc *Service) Claim(ctx context.Context, projectID, user, referrer string) (e *domain.Event, err error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	defer record("claim", time.Now(), err)

	plat, p, s, err := svc.loadAll(ctx, projectID, user)
	if err != nil {
		return nil, err
	}

	tx, err := svc.mover.Begin(ctx)
	if err != nil {
		return nil, err
	}
	e, err = ledger.Claim(ctx, tx, plat, p, s, user, referrer, svc.now())
	if err != nil {
		tx.Rollback(ctx)
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	if err = svc.persist(ctx, p, s); err != nil {
		return nil, err
	}
	observability.RecordRewardsClaimed(p.ProjectID, e.Amount)
	svc.finish(ctx, e)
	return e, nil
}

// ClaimReflections settles and pays out accrued reflections.
func (svc *Service) ClaimReflections(ctx context.Context, projectID, user, referrer string) (e *domain.Event, err error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	defer record("claim_reflections", time.Now(), err)

	plat, p, s, err := svc.loadAll(ctx, projectID, user)
	if err != nil {
		return nil, err
	}

	tx, err := svc.mover.Begin(ctx)
	if err != nil {
		return nil, err
	}
	e, err = ledger.ClaimReflections(ctx, tx, plat, p, s, user, referrer, svc.now())
	if err != nil {
		tx.Rollback(ctx)
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	if err = svc.persist(ctx, p, s); err != nil {
		return nil, err
	}
	observability.RecordReflectionsClaimed(p.ProjectID, e.Amount)
	svc.finish(ctx, e)
	return e, nil
}

// RefreshReflections settles reflection accrual without paying out. No
// event is emitted; only the records advance.
func (svc *Service) RefreshReflections(ctx context.Context, projectID, user string) (err error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	defer record("refresh_reflections", time.Now(), err)

	_, p, s, err := svc.loadAll(ctx, projectID, user)
	if err != nil {
		return err
	}
	if s == nil {
		return ledger.ErrNoStake
	}

	tx, err := svc.mover.Begin(ctx)
	if err != nil {
		return err
	}
	if err = ledger.RefreshReflections(ctx, tx, p, s, user, svc.now()); err != nil {
		tx.Rollback(ctx)
		return err
	}
	// Nothing was staged, but commit releases the transaction.
	if err = tx.Commit(ctx); err != nil {
		return err
	}
	return svc.persist(ctx, p, s)
}

// EmergencyReturnStake force-returns a user's full principal, admin-only.
func (svc *Service) EmergencyReturnStake(ctx context.Context, projectID, user, admin string) (e *domain.Event, err error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	defer record("emergency_return", time.Now(), err)

	_, p, s, err := svc.loadAll(ctx, projectID, user)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ledger.ErrNoStake
	}

	tx, err := svc.mover.Begin(ctx)
	if err != nil {
		return nil, err
	}
	e, err = ledger.EmergencyReturnStake(ctx, tx, p, s, admin, svc.now())
	if err != nil {
		tx.Rollback(ctx)
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	if err = svc.persist(ctx, p, s); err != nil {
		return nil, err
	}
	observability.UpdateTotalStaked(p.ProjectID, p.TotalStaked)
	svc.finish(ctx, e)
	return e, nil
}

// loadAll loads cloned platform, project and stake records for a user
// operation. The stake is nil when the user never deposited.
func (svc *Service) loadAll(ctx context.Context, projectID, user string) (*domain.Platform, *domain.Project, *domain.Stake, error) {
	plat, err := svc.loadPlatform(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	stored, err := svc.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, nil, nil, err
	}
	s, err := svc.loadStake(ctx, projectID, user)
	if err != nil {
		return nil, nil, nil, err
	}
	if s != nil {
		s = s.Clone()
	}
	return plat, stored.Clone(), s, nil
}

// persist saves the mutated project and stake records after a committed
// vault transaction. Failures here leave the vault ahead of the stores;
// they are logged for reconciliation and surfaced to the caller.
func (svc *Service) persist(ctx context.Context, p *domain.Project, s *domain.Stake) error {
	if err := svc.projects.Save(ctx, p); err != nil {
		svc.log.Error("project save after commit failed", zap.String("project", p.ProjectID), zap.Error(err))
		return err
	}
	if s != nil {
		if err := svc.stakes.Save(ctx, s); err != nil {
			svc.log.Error("stake save after commit failed", zap.String("stake", s.StakeID), zap.Error(err))
			return err
		}
	}
	return nil
}
