package ledger

import (
	"context"

	"solana-staking-ledger/internal/domain"
	"solana-staking-ledger/internal/fixedpoint"
	"solana-staking-ledger/internal/vault"
)

// Claim settles and pays out the stake's pending rewards from the reward
// vault. A stake with zero principal can still claim what it accrued
// before withdrawing everything; the record survives as the claim anchor.
func Claim(ctx context.Context, tx vault.Tx, platform *domain.Platform, p *domain.Project, s *domain.Stake, user, referrer string, now int64) (*domain.Event, error) {
	if !p.Initialized {
		return nil, ErrNotInitialized
	}
	if p.Paused {
		return nil, ErrPaused
	}
	if p.ClaimPaused {
		return nil, ErrClaimsPaused
	}
	if s == nil || s.User != user {
		return nil, ErrNoStake
	}
	ref, err := resolveReferrer(p, referrer)
	if err != nil {
		return nil, err
	}

	if err := settle(ctx, tx, p, s, now); err != nil {
		return nil, err
	}

	pending := s.RewardsPending
	if pending == 0 {
		return nil, ErrNothingToClaim
	}

	balance, err := tx.Balance(ctx, p.StakedAsset(), p.RewardVault)
	if err != nil {
		return nil, err
	}
	if balance < pending {
		return nil, ErrVaultIlliquid
	}

	if err := chargeNativeFee(ctx, tx, platform, p, user, ref); err != nil {
		return nil, err
	}

	if _, err := tx.Move(ctx, vault.Transfer{
		Asset: p.StakedAsset(), Amount: pending,
		From: p.RewardVault, To: user, Authority: p.ProjectID,
	}); err != nil {
		return nil, err
	}

	claimedTotal, err := fixedpoint.Add(s.TotalRewardsClaimed, pending)
	if err != nil {
		return nil, err
	}
	projectTotal, err := fixedpoint.Add(p.TotalRewardsClaimed, pending)
	if err != nil {
		return nil, err
	}
	s.RewardsPending = 0
	s.TotalRewardsClaimed = claimedTotal
	// Claiming re-anchors the lockup, same as a deposit.
	s.LastStakeTimestamp = now
	p.TotalRewardsClaimed = projectTotal

	event := &domain.Event{
		Kind:      domain.EventRewardsClaimed,
		ProjectID: p.ProjectID,
		User:      user,
		Amount:    pending,
		Timestamp: now,
	}
	return event, nil
}
