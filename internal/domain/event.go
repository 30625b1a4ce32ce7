package domain

// EventKind identifies a ledger event.
type EventKind string

// Event kinds, one per state-changing operation outcome.
const (
	EventPlatformInitialized EventKind = "platform_initialized"
	EventProjectCreated      EventKind = "project_created"
	EventPoolInitialized     EventKind = "pool_initialized"
	EventDeposited           EventKind = "deposited"
	EventWithdrawn           EventKind = "withdrawn"
	EventRewardsClaimed      EventKind = "rewards_claimed"
	EventReflectionsClaimed  EventKind = "reflections_claimed"
	EventRewardsDeposited    EventKind = "rewards_deposited"
	EventPoolDurationUpdated EventKind = "pool_duration_updated"
	EventPoolParamsUpdated   EventKind = "pool_params_updated"
	EventReferrerUpdated     EventKind = "referrer_updated"
	EventReflectionsToggled  EventKind = "reflections_toggled"
	EventPauseToggled        EventKind = "pause_toggled"
	EventAdminTransferred    EventKind = "admin_transferred"
	EventEmergencyUnlock     EventKind = "emergency_unlock"
	EventEmergencyReturn     EventKind = "emergency_return"
	EventUnclaimedSwept      EventKind = "unclaimed_swept"
	EventProjectClosed       EventKind = "project_closed"
	EventFeesUpdated         EventKind = "fees_updated"
	EventFeeCollectorUpdated EventKind = "fee_collector_updated"
)

// Event is emitted by every successful state-changing operation. It is
// journaled and broadcast to subscribers; it carries no authority.
type Event struct {
	Kind      EventKind `json:"kind"`
	ProjectID string    `json:"project_id,omitempty"`
	User      string    `json:"user,omitempty"`

	// Amount is the operation's principal figure: net deposited, net
	// withdrawn, rewards claimed, and so on.
	Amount uint64 `json:"amount,omitempty"`
	Fee    uint64 `json:"fee,omitempty"`

	// NewTotal is the stake amount after the operation, where relevant.
	NewTotal uint64 `json:"new_total,omitempty"`

	// RewardRate is the project rate after the operation, where relevant.
	RewardRate uint64 `json:"reward_rate,omitempty"`

	Timestamp int64 `json:"timestamp"`
}
