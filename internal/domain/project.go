package domain

// RateMode selects how a project's reward rate is derived.
type RateMode string

// Rate modes.
const (
	// RateModeFixed derives a constant per-second rate from an annual
	// percentage at pool initialization. The rate never changes afterwards.
	RateModeFixed RateMode = "fixed"

	// RateModeVariable spreads unclaimed reward liquidity evenly over the
	// remaining pool lifetime; the rate is recomputed on every reward
	// deposit and duration change.
	RateModeVariable RateMode = "variable"
)

// Valid reports whether m is a known rate mode.
func (m RateMode) Valid() bool {
	return m == RateModeFixed || m == RateModeVariable
}

// Project is the per-pool record. It owns the shared accumulators every
// stake in the pool settles against.
//
// Invariants:
//   - TotalStaked == sum of Stake.Amount over all stakes of this project
//   - RewardPerTokenStored and ReflectionPerTokenStored never decrease
type Project struct {
	ProjectID string // derived key, see solkey.ProjectID
	Admin     string
	TokenMint string
	PoolID    uint64

	// Custody references. ReflectionVault and ReflectionToken are empty
	// when reflections are disabled.
	StakingVault    string
	RewardVault     string
	ReflectionVault string
	ReflectionToken string

	// Aggregate state.
	TotalStaked           uint64
	TotalRewardsDeposited uint64
	TotalRewardsClaimed   uint64
	TotalReflectionDebt   uint64

	// Rate configuration. RewardRatePerSecond is derived: for fixed mode
	// it is per staked token and scaled by fixedpoint.Precision; for
	// variable mode it is whole-pool tokens per second, unscaled.
	RateMode            RateMode
	RateBpsPerYear      uint64
	RewardRatePerSecond uint64
	LockupSeconds       uint64

	// Schedule (unix seconds).
	PoolStartTime       int64
	PoolEndTime         int64
	PoolDurationSeconds uint64

	// Reward accumulator, scaled by fixedpoint.Precision.
	RewardPerTokenStored uint64
	LastUpdateTime       int64

	// Reflection accumulator, scaled by fixedpoint.Precision.
	// LastReflectionBalance is the high-water mark of the observed
	// reflection vault balance.
	ReflectionPerTokenStored uint64
	LastReflectionUpdateTime int64
	LastReflectionBalance    uint64

	// Referral. Referrer is empty when none is configured.
	Referrer         string
	ReferrerSplitBps uint64

	// Gating flags.
	Paused         bool
	DepositPaused  bool
	WithdrawPaused bool
	ClaimPaused    bool
	Initialized    bool
}

// ReflectionsEnabled reports whether the project has a reflection vault
// configured.
func (p *Project) ReflectionsEnabled() bool {
	return p.ReflectionVault != ""
}

// ReflectionAsset resolves what the reflection vault holds: the native
// asset when no reflection token is configured, otherwise that token
// (which may equal the staking token for self-reflection pools).
func (p *Project) ReflectionAsset() Asset {
	if p.ReflectionToken == "" {
		return NativeAsset()
	}
	return FungibleAsset(p.ReflectionToken)
}

// StakedAsset resolves the asset users stake into this project.
func (p *Project) StakedAsset() Asset {
	return FungibleAsset(p.TokenMint)
}

// Clone returns a deep copy of the project.
func (p *Project) Clone() *Project {
	cp := *p
	return &cp
}
