package domain

// AccumulatorSnapshot is a periodic capture of a project's aggregate state,
// kept as an analytics timeseries.
type AccumulatorSnapshot struct {
	ProjectID   string
	TimestampMs int64

	TotalStaked              uint64
	RewardPerTokenStored     uint64
	ReflectionPerTokenStored uint64
	RewardRatePerSecond      uint64
	TotalRewardsDeposited    uint64
	TotalRewardsClaimed      uint64
}
