package ledger

import "errors"

// Operation errors. Every failure leaves all records exactly as they were:
// operations mutate copies and the caller persists only on success.
//
// Validation errors — bad input, rejected before any state is touched.
var (
	ErrInvalidAmount   = errors.New("ledger: amount must be greater than zero")
	ErrInvalidDuration = errors.New("ledger: pool duration must be greater than zero")
	ErrInvalidSplit    = errors.New("ledger: referrer split exceeds 10000 bps")
	ErrInvalidFee      = errors.New("ledger: token fee exceeds 10000 bps")
	ErrInvalidRateMode = errors.New("ledger: invalid rate mode")
	ErrInvalidReferrer = errors.New("ledger: referrer does not match project referrer")
	ErrInvalidVault    = errors.New("ledger: vault does not belong to this project")
	ErrInvalidGate     = errors.New("ledger: unknown pause gate")
)

// State-precondition errors — recoverable by waiting or by admin action.
var (
	ErrAlreadyInitialized  = errors.New("ledger: already initialized")
	ErrNotInitialized      = errors.New("ledger: not initialized")
	ErrPoolEnded           = errors.New("ledger: pool has ended")
	ErrPaused              = errors.New("ledger: project is paused")
	ErrDepositsPaused      = errors.New("ledger: deposits are paused")
	ErrWithdrawalsPaused   = errors.New("ledger: withdrawals are paused")
	ErrClaimsPaused        = errors.New("ledger: claims are paused")
	ErrLockupNotExpired    = errors.New("ledger: lockup period not expired")
	ErrReflectionsDisabled = errors.New("ledger: reflections not enabled")
	ErrActiveStakes        = errors.New("ledger: project still has active stakes")
)

// Balance and liquidity errors.
var (
	ErrInsufficientStake = errors.New("ledger: withdraw amount exceeds staked balance")
	ErrNothingToClaim    = errors.New("ledger: nothing to claim")
	ErrVaultIlliquid     = errors.New("ledger: vault balance insufficient")
	ErrNoStake           = errors.New("ledger: no stake for user")
	ErrInconsistentTotal = errors.New("ledger: total staked below withdrawal amount")
)

// Authorization errors — rejected unconditionally.
var (
	ErrUnauthorized = errors.New("ledger: unauthorized")
)
