package ledger

import (
	"context"

	"solana-staking-ledger/internal/domain"
	"solana-staking-ledger/internal/fixedpoint"
	"solana-staking-ledger/internal/vault"
)

// Withdraw removes staked tokens after the lockup has expired. The full
// requested amount leaves the stake ledger; the platform token fee is
// carved out of it on the way to the user, so the user receives
// amount minus fee at the withdrawal wallet.
func Withdraw(ctx context.Context, tx vault.Tx, platform *domain.Platform, p *domain.Project, s *domain.Stake, user, referrer string, amount uint64, now int64) (*domain.Event, error) {
	if !p.Initialized {
		return nil, ErrNotInitialized
	}
	if p.Paused {
		return nil, ErrPaused
	}
	if p.WithdrawPaused {
		return nil, ErrWithdrawalsPaused
	}
	if s == nil || s.User != user {
		return nil, ErrNoStake
	}
	if amount == 0 {
		return nil, ErrInvalidAmount
	}
	if amount > s.Amount {
		return nil, ErrInsufficientStake
	}
	if amount > p.TotalStaked {
		return nil, ErrInconsistentTotal
	}
	if now < s.LastStakeTimestamp+int64(p.LockupSeconds) {
		return nil, ErrLockupNotExpired
	}
	ref, err := resolveReferrer(p, referrer)
	if err != nil {
		return nil, err
	}

	if err := settle(ctx, tx, p, s, now); err != nil {
		return nil, err
	}

	tokenFee, err := fixedpoint.MulDiv(amount, platform.TokenFeeBps, 10_000)
	if err != nil {
		return nil, err
	}
	net, err := fixedpoint.Sub(amount, tokenFee)
	if err != nil {
		return nil, err
	}

	if err := chargeNativeFee(ctx, tx, platform, p, user, ref); err != nil {
		return nil, err
	}

	destination := s.WithdrawalWallet
	if destination == "" {
		destination = user
	}

	if tokenFee > 0 {
		if _, err := tx.Move(ctx, vault.Transfer{
			Asset: p.StakedAsset(), Amount: tokenFee,
			From: p.StakingVault, To: platform.FeeCollector, Authority: p.ProjectID,
		}); err != nil {
			return nil, err
		}
	}
	if _, err := tx.Move(ctx, vault.Transfer{
		Asset: p.StakedAsset(), Amount: net,
		From: p.StakingVault, To: destination, Authority: p.ProjectID,
	}); err != nil {
		return nil, err
	}

	s.Amount -= amount
	p.TotalStaked -= amount

	event := &domain.Event{
		Kind:      domain.EventWithdrawn,
		ProjectID: p.ProjectID,
		User:      user,
		Amount:    net,
		Fee:       tokenFee,
		NewTotal:  s.Amount,
		Timestamp: now,
	}
	return event, nil
}
