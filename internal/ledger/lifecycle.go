// Package ledger implements the staking ledger's operation state machine.
// Every operation is a pure transition over Platform/Project/Stake records
// plus an asset-mover transaction: callers hand in copies of the records,
// and persist them together with the mover commit only when the operation
// returns nil. A non-nil error means nothing may be persisted.
package ledger

import (
	"context"

	"solana-staking-ledger/internal/accrual"
	"solana-staking-ledger/internal/domain"
	"solana-staking-ledger/internal/fixedpoint"
	"solana-staking-ledger/internal/solkey"
	"solana-staking-ledger/internal/vault"
)

// SecondsPerYear converts annual basis points to a per-second rate.
const SecondsPerYear = 31_536_000 // 365 days

// InitializePlatform configures the deployment-wide fee record. One-shot.
func InitializePlatform(platform *domain.Platform, admin, feeCollector string, tokenFeeBps, nativeFee uint64, now int64) (*domain.Event, error) {
	if platform.Initialized {
		return nil, ErrAlreadyInitialized
	}
	if tokenFeeBps > 10_000 {
		return nil, ErrInvalidFee
	}
	platform.Admin = admin
	platform.FeeCollector = feeCollector
	platform.TokenFeeBps = tokenFeeBps
	platform.NativeFee = nativeFee
	platform.Initialized = true

	return &domain.Event{Kind: domain.EventPlatformInitialized, User: admin, Timestamp: now}, nil
}

// SetFees updates the platform fee configuration. Platform admin only.
func SetFees(platform *domain.Platform, admin string, tokenFeeBps, nativeFee uint64, now int64) (*domain.Event, error) {
	if !platform.Initialized {
		return nil, ErrNotInitialized
	}
	if admin != platform.Admin {
		return nil, ErrUnauthorized
	}
	if tokenFeeBps > 10_000 {
		return nil, ErrInvalidFee
	}
	platform.TokenFeeBps = tokenFeeBps
	platform.NativeFee = nativeFee

	return &domain.Event{Kind: domain.EventFeesUpdated, User: admin, Timestamp: now}, nil
}

// UpdateFeeCollector points platform fees at a new collector wallet.
func UpdateFeeCollector(platform *domain.Platform, admin, collector string, now int64) (*domain.Event, error) {
	if !platform.Initialized {
		return nil, ErrNotInitialized
	}
	if admin != platform.Admin {
		return nil, ErrUnauthorized
	}
	platform.FeeCollector = collector

	return &domain.Event{Kind: domain.EventFeeCollectorUpdated, User: admin, Timestamp: now}, nil
}

// CreateProject allocates an empty project record for a (token mint, pool
// id) pair with its vault keys derived. The pool opens only after
// InitializePool.
func CreateProject(admin, tokenMint string, poolID uint64, now int64) (*domain.Project, *domain.Event, error) {
	if err := solkey.Validate(tokenMint); err != nil {
		return nil, nil, err
	}

	projectID := solkey.ProjectID(tokenMint, poolID)
	p := &domain.Project{
		ProjectID:    projectID,
		Admin:        admin,
		TokenMint:    tokenMint,
		PoolID:       poolID,
		StakingVault: solkey.VaultID("staking_vault", projectID),
		RewardVault:  solkey.VaultID("reward_vault", projectID),
	}

	event := &domain.Event{
		Kind:      domain.EventProjectCreated,
		ProjectID: projectID,
		User:      admin,
		Timestamp: now,
	}
	return p, event, nil
}

// PoolParams configures a pool at initialization.
type PoolParams struct {
	RateMode            domain.RateMode
	RateBpsPerYear      uint64
	LockupSeconds       uint64
	PoolDurationSeconds uint64

	Referrer         string
	ReferrerSplitBps uint64

	EnableReflections bool
	// ReflectionToken selects the reflection asset. Empty with
	// EnableReflections means native-asset reflections.
	ReflectionToken string
}

// InitializePool configures a created project exactly once and opens the
// pool window. Fixed-rate pools derive their per-second rate here;
// variable pools stay at rate zero until the first reward deposit.
func InitializePool(p *domain.Project, admin string, params PoolParams, now int64) (*domain.Event, error) {
	if admin != p.Admin {
		return nil, ErrUnauthorized
	}
	if p.Initialized {
		return nil, ErrAlreadyInitialized
	}
	if params.PoolDurationSeconds == 0 {
		return nil, ErrInvalidDuration
	}
	if !params.RateMode.Valid() {
		return nil, ErrInvalidRateMode
	}
	if params.ReferrerSplitBps > 10_000 {
		return nil, ErrInvalidSplit
	}

	p.RateMode = params.RateMode
	p.RateBpsPerYear = params.RateBpsPerYear
	p.LockupSeconds = params.LockupSeconds
	p.PoolDurationSeconds = params.PoolDurationSeconds
	p.PoolStartTime = now
	p.PoolEndTime = now + int64(params.PoolDurationSeconds)
	p.LastUpdateTime = now
	p.LastReflectionUpdateTime = now

	if params.RateMode == domain.RateModeFixed {
		rate, err := fixedRatePerSecond(params.RateBpsPerYear)
		if err != nil {
			return nil, err
		}
		p.RewardRatePerSecond = rate
	}

	if params.Referrer != "" {
		p.Referrer = params.Referrer
		p.ReferrerSplitBps = params.ReferrerSplitBps
	}

	if params.EnableReflections {
		p.ReflectionVault = solkey.VaultID("reflection_vault", p.ProjectID)
		p.ReflectionToken = params.ReflectionToken
	}

	p.Initialized = true

	return &domain.Event{
		Kind:       domain.EventPoolInitialized,
		ProjectID:  p.ProjectID,
		User:       admin,
		RewardRate: p.RewardRatePerSecond,
		Timestamp:  now,
	}, nil
}

// fixedRatePerSecond derives the per-token, Precision-scaled rate from an
// annual basis-point rate: floor(bps * 1e9 / (10000 * seconds_per_year)).
func fixedRatePerSecond(rateBpsPerYear uint64) (uint64, error) {
	return fixedpoint.MulDiv(rateBpsPerYear, fixedpoint.Precision, 10_000*SecondsPerYear)
}

// DepositRewards funds the reward vault from the admin wallet. Variable
// pools respread all unclaimed liquidity over the remaining lifetime; the
// fixed rate is never touched here. The accumulator is settled first so the
// new rate applies only to time after this call.
func DepositRewards(ctx context.Context, tx vault.Tx, p *domain.Project, admin string, amount uint64, now int64) (*domain.Event, error) {
	if admin != p.Admin {
		return nil, ErrUnauthorized
	}
	if !p.Initialized {
		return nil, ErrNotInitialized
	}
	if p.Paused {
		return nil, ErrPaused
	}
	if amount == 0 {
		return nil, ErrInvalidAmount
	}

	if err := accrual.SettleReward(p, nil, now); err != nil {
		return nil, err
	}

	received, err := tx.Move(ctx, vault.Transfer{
		Asset: p.StakedAsset(), Amount: amount,
		From: admin, To: p.RewardVault, Authority: admin,
	})
	if err != nil {
		return nil, err
	}

	deposited, err := fixedpoint.Add(p.TotalRewardsDeposited, received)
	if err != nil {
		return nil, err
	}
	p.TotalRewardsDeposited = deposited

	if p.RateMode == domain.RateModeVariable {
		if err := respreadVariableRate(p, now); err != nil {
			return nil, err
		}
	}

	return &domain.Event{
		Kind:       domain.EventRewardsDeposited,
		ProjectID:  p.ProjectID,
		User:       admin,
		Amount:     received,
		RewardRate: p.RewardRatePerSecond,
		Timestamp:  now,
	}, nil
}

// respreadVariableRate spreads unclaimed reward liquidity evenly over the
// remaining pool lifetime.
func respreadVariableRate(p *domain.Project, now int64) error {
	unclaimed, err := fixedpoint.Sub(p.TotalRewardsDeposited, p.TotalRewardsClaimed)
	if err != nil {
		return err
	}
	remaining := int64(1)
	if p.PoolEndTime > now {
		remaining = p.PoolEndTime - now
	}
	p.RewardRatePerSecond = unclaimed / uint64(remaining)
	return nil
}

// SetPoolDuration re-anchors the pool window to pool_start_time plus the
// new duration and, for variable pools, re-derives the rate over the new
// remaining time.
func SetPoolDuration(p *domain.Project, admin string, durationSeconds uint64, now int64) (*domain.Event, error) {
	if admin != p.Admin {
		return nil, ErrUnauthorized
	}
	if !p.Initialized {
		return nil, ErrNotInitialized
	}
	if durationSeconds == 0 {
		return nil, ErrInvalidDuration
	}

	if err := accrual.SettleReward(p, nil, now); err != nil {
		return nil, err
	}

	p.PoolDurationSeconds = durationSeconds
	p.PoolEndTime = p.PoolStartTime + int64(durationSeconds)

	if p.RateMode == domain.RateModeVariable {
		if err := respreadVariableRate(p, now); err != nil {
			return nil, err
		}
	}

	return &domain.Event{
		Kind:      domain.EventPoolDurationUpdated,
		ProjectID: p.ProjectID,
		User:      admin,
		Amount:    durationSeconds,
		Timestamp: now,
	}, nil
}

// UpdatePoolParams changes the annual rate and lockup. Fixed pools have
// their per-second rate re-derived; accrual up to now is settled first so
// the change is forward-only.
func UpdatePoolParams(p *domain.Project, admin string, rateBpsPerYear, lockupSeconds uint64, now int64) (*domain.Event, error) {
	if admin != p.Admin {
		return nil, ErrUnauthorized
	}
	if !p.Initialized {
		return nil, ErrNotInitialized
	}

	if err := accrual.SettleReward(p, nil, now); err != nil {
		return nil, err
	}

	p.RateBpsPerYear = rateBpsPerYear
	p.LockupSeconds = lockupSeconds
	if p.RateMode == domain.RateModeFixed {
		rate, err := fixedRatePerSecond(rateBpsPerYear)
		if err != nil {
			return nil, err
		}
		p.RewardRatePerSecond = rate
	}

	return &domain.Event{
		Kind:      domain.EventPoolParamsUpdated,
		ProjectID: p.ProjectID,
		User:      admin,
		Timestamp: now,
	}, nil
}

// UpdateReferrer sets or clears the project referrer and its fee split.
func UpdateReferrer(p *domain.Project, admin, referrer string, splitBps uint64, now int64) (*domain.Event, error) {
	if admin != p.Admin {
		return nil, ErrUnauthorized
	}
	if splitBps > 10_000 {
		return nil, ErrInvalidSplit
	}

	p.Referrer = referrer
	p.ReferrerSplitBps = splitBps

	return &domain.Event{
		Kind:      domain.EventReferrerUpdated,
		ProjectID: p.ProjectID,
		User:      admin,
		Timestamp: now,
	}, nil
}

// ToggleReflections enables or disables the reflection stream. Enabling
// derives the reflection vault key; the baseline stays where it was, so
// any balance already in the vault distributes on the first settle.
func ToggleReflections(p *domain.Project, admin string, enable bool, reflectionToken string, now int64) (*domain.Event, error) {
	if admin != p.Admin {
		return nil, ErrUnauthorized
	}

	if enable {
		p.ReflectionVault = solkey.VaultID("reflection_vault", p.ProjectID)
		p.ReflectionToken = reflectionToken
	} else {
		p.ReflectionVault = ""
		p.ReflectionToken = ""
	}

	return &domain.Event{
		Kind:      domain.EventReflectionsToggled,
		ProjectID: p.ProjectID,
		User:      admin,
		Timestamp: now,
	}, nil
}

// Gate selects which operation class a pause flag covers.
type Gate string

// Pause gates.
const (
	GateAll      Gate = "all"
	GateDeposit  Gate = "deposit"
	GateWithdraw Gate = "withdraw"
	GateClaim    Gate = "claim"
)

// SetPause flips a pause gate.
func SetPause(p *domain.Project, admin string, gate Gate, paused bool, now int64) (*domain.Event, error) {
	if admin != p.Admin {
		return nil, ErrUnauthorized
	}

	switch gate {
	case GateAll:
		p.Paused = paused
	case GateDeposit:
		p.DepositPaused = paused
	case GateWithdraw:
		p.WithdrawPaused = paused
	case GateClaim:
		p.ClaimPaused = paused
	default:
		return nil, ErrInvalidGate
	}

	return &domain.Event{
		Kind:      domain.EventPauseToggled,
		ProjectID: p.ProjectID,
		User:      admin,
		Timestamp: now,
	}, nil
}

// TransferAdmin hands project control to a new admin.
func TransferAdmin(p *domain.Project, admin, newAdmin string, now int64) (*domain.Event, error) {
	if admin != p.Admin {
		return nil, ErrUnauthorized
	}
	p.Admin = newAdmin

	return &domain.Event{
		Kind:      domain.EventAdminTransferred,
		ProjectID: p.ProjectID,
		User:      newAdmin,
		Timestamp: now,
	}, nil
}

// EmergencyUnlock zeroes the lockup so every stake becomes immediately
// withdrawable. Admin escape hatch.
func EmergencyUnlock(p *domain.Project, admin string, now int64) (*domain.Event, error) {
	if admin != p.Admin {
		return nil, ErrUnauthorized
	}
	p.LockupSeconds = 0

	return &domain.Event{
		Kind:      domain.EventEmergencyUnlock,
		ProjectID: p.ProjectID,
		User:      admin,
		Timestamp: now,
	}, nil
}

// ClaimUnclaimedTokens sweeps leftover balance from one of the project's
// vaults back to the admin wallet.
func ClaimUnclaimedTokens(ctx context.Context, tx vault.Tx, p *domain.Project, admin, vaultID string, amount uint64, now int64) (*domain.Event, error) {
	if admin != p.Admin {
		return nil, ErrUnauthorized
	}
	if amount == 0 {
		return nil, ErrInvalidAmount
	}
	if vaultID != p.StakingVault && vaultID != p.RewardVault && vaultID != p.ReflectionVault {
		return nil, ErrInvalidVault
	}

	asset := p.StakedAsset()
	if vaultID == p.ReflectionVault {
		asset = p.ReflectionAsset()
	}

	balance, err := tx.Balance(ctx, asset, vaultID)
	if err != nil {
		return nil, err
	}
	if balance < amount {
		return nil, ErrVaultIlliquid
	}

	if _, err := tx.Move(ctx, vault.Transfer{
		Asset: asset, Amount: amount,
		From: vaultID, To: admin, Authority: p.ProjectID,
	}); err != nil {
		return nil, err
	}

	return &domain.Event{
		Kind:      domain.EventUnclaimedSwept,
		ProjectID: p.ProjectID,
		User:      admin,
		Amount:    amount,
		Timestamp: now,
	}, nil
}

// CloseProject validates that a project can be destroyed. Only the record
// deletion itself is the caller's concern; a project with live stakes can
// never be closed.
func CloseProject(p *domain.Project, admin string, now int64) (*domain.Event, error) {
	if admin != p.Admin {
		return nil, ErrUnauthorized
	}
	if p.TotalStaked != 0 {
		return nil, ErrActiveStakes
	}

	return &domain.Event{
		Kind:      domain.EventProjectClosed,
		ProjectID: p.ProjectID,
		User:      admin,
		Timestamp: now,
	}, nil
}
