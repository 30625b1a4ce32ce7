package domain

// Stake is the per-(project, user) record, lazily created on first deposit.
// Amount may reach zero without the record being destroyed; it persists as
// a claim and history anchor.
type Stake struct {
	StakeID   string // derived key, see solkey.StakeID
	User      string
	ProjectID string

	// Principal currently staked and when it last changed.
	Amount             uint64
	LastStakeTimestamp int64

	// WithdrawalWallet receives principal on withdraw; it may differ from
	// the staking identity and is admin-changeable.
	WithdrawalWallet string

	// Reward bookkeeping. RewardPerTokenPaid is the accumulator snapshot
	// at last settlement.
	RewardPerTokenPaid  uint64
	RewardsPending      uint64
	TotalRewardsClaimed uint64

	// Reflection bookkeeping. ReflectionDebt is a pre-existing entitlement
	// gap subtracted once at next settlement; no operation populates it.
	ReflectionPerTokenPaid  uint64
	ReflectionsPending      uint64
	TotalReflectionsClaimed uint64
	ReflectionDebt          uint64

	// RewardRateSnapshot records the project rate at stake creation.
	// Informational only; settlement always uses the project rate.
	RewardRateSnapshot uint64
}

// Clone returns a deep copy of the stake.
func (s *Stake) Clone() *Stake {
	cp := *s
	return &cp
}
