package ledger

import (
	"context"

	"solana-staking-ledger/internal/domain"
	"solana-staking-ledger/internal/fixedpoint"
	"solana-staking-ledger/internal/solkey"
	"solana-staking-ledger/internal/vault"
)

// Deposit stakes tokens into a project. The platform token fee comes off
// the top before any accounting, so only the net amount ever enters the
// stake ledger; the flat native fee is charged on the side with its
// referrer split. The amount credited is what the staking vault actually
// received, which for fee-on-transfer mints is less than what was sent.
//
// s is the user's existing stake record, or nil on first deposit; the
// returned stake is the record to persist.
func Deposit(ctx context.Context, tx vault.Tx, platform *domain.Platform, p *domain.Project, s *domain.Stake, user, withdrawalWallet, referrer string, amount uint64, now int64) (*domain.Stake, *domain.Event, error) {
	if !p.Initialized {
		return nil, nil, ErrNotInitialized
	}
	if p.Paused {
		return nil, nil, ErrPaused
	}
	if p.DepositPaused {
		return nil, nil, ErrDepositsPaused
	}
	if now >= p.PoolEndTime {
		return nil, nil, ErrPoolEnded
	}
	if amount == 0 {
		return nil, nil, ErrInvalidAmount
	}
	ref, err := resolveReferrer(p, referrer)
	if err != nil {
		return nil, nil, err
	}

	if s == nil {
		s = &domain.Stake{
			StakeID:          solkey.StakeID(p.ProjectID, user),
			User:             user,
			ProjectID:        p.ProjectID,
			WithdrawalWallet: withdrawalWallet,
		}
	}

	// Settle before the amount changes so the new tokens only earn from
	// this point forward.
	if err := settle(ctx, tx, p, s, now); err != nil {
		return nil, nil, err
	}

	tokenFee, err := fixedpoint.MulDiv(amount, platform.TokenFeeBps, 10_000)
	if err != nil {
		return nil, nil, err
	}
	net, err := fixedpoint.Sub(amount, tokenFee)
	if err != nil {
		return nil, nil, err
	}

	if err := payFee(ctx, tx, p.StakedAsset(), user, platform.FeeCollector, "", tokenFee, 0); err != nil {
		return nil, nil, err
	}
	if err := chargeNativeFee(ctx, tx, platform, p, user, ref); err != nil {
		return nil, nil, err
	}

	received, err := tx.Move(ctx, vault.Transfer{
		Asset: p.StakedAsset(), Amount: net,
		From: user, To: p.StakingVault, Authority: user,
	})
	if err != nil {
		return nil, nil, err
	}

	newAmount, err := fixedpoint.Add(s.Amount, received)
	if err != nil {
		return nil, nil, err
	}
	newTotal, err := fixedpoint.Add(p.TotalStaked, received)
	if err != nil {
		return nil, nil, err
	}
	s.Amount = newAmount
	s.LastStakeTimestamp = now
	s.RewardRateSnapshot = p.RewardRatePerSecond
	p.TotalStaked = newTotal

	event := &domain.Event{
		Kind:      domain.EventDeposited,
		ProjectID: p.ProjectID,
		User:      user,
		Amount:    received,
		Fee:       tokenFee,
		NewTotal:  s.Amount,
		Timestamp: now,
	}
	return s, event, nil
}
