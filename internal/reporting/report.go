// Package reporting produces staking activity reports from stored ledger
// state and the event journal, rendered as Markdown and CSV.
package reporting

import "time"

// Report is the full staking report.
type Report struct {
	GeneratedAt  time.Time
	ProjectCount int

	// Platform fee configuration at generation time.
	Platform PlatformSection

	// Per-project aggregate rows, sorted by project ID.
	Projects []ProjectRow

	// Per-project operation activity within the report window.
	Activity []ActivityRow

	// Integrity findings from the ledger audit.
	IntegrityErrors []string
}

// PlatformSection describes the platform record.
type PlatformSection struct {
	Initialized  bool
	Admin        string
	FeeCollector string
	TokenFeeBps  uint64
	NativeFee    uint64
}

// ProjectRow is one project's aggregate state.
type ProjectRow struct {
	ProjectID             string
	TokenMint             string
	RateMode              string
	RateBpsPerYear        uint64
	TotalStaked           uint64
	TotalRewardsDeposited uint64
	TotalRewardsClaimed   uint64
	Stakers               int
	ReflectionsEnabled    bool
	Paused                bool
}

// ActivityRow summarizes one project's journaled operations over the
// report window.
type ActivityRow struct {
	ProjectID string

	Deposits       int
	DepositVolume  uint64
	Withdrawals    int
	WithdrawVolume uint64
	Claims         int
	ClaimVolume    uint64
	FeesCollected  uint64
}
