// Package domain defines the persistent records of the staking ledger:
// the platform-wide fee configuration, per-pool Project records and
// per-(project, user) Stake records, plus the event types emitted by
// ledger operations.
package domain

// Platform holds deployment-wide fee configuration. Exactly one record
// exists per deployment.
type Platform struct {
	Admin        string // admin wallet address
	FeeCollector string // wallet receiving platform fees

	// TokenFeeBps is the fee in basis points deducted from deposit and
	// withdraw amounts in the staked token.
	TokenFeeBps uint64

	// NativeFee is a flat fee in native units charged per user-facing
	// operation, split with the project referrer when one is configured.
	NativeFee uint64

	Initialized bool
}
