package ledger

import (
	"context"

	"solana-staking-ledger/internal/domain"
	"solana-staking-ledger/internal/fixedpoint"
	"solana-staking-ledger/internal/vault"
)

// ClaimReflections settles and pays out the stake's pending reflections
// from the reflection vault. The project baseline drops by the paid
// amount so the outgoing transfer is not mistaken for an external claim
// on the next settlement.
func ClaimReflections(ctx context.Context, tx vault.Tx, platform *domain.Platform, p *domain.Project, s *domain.Stake, user, referrer string, now int64) (*domain.Event, error) {
	if !p.Initialized {
		return nil, ErrNotInitialized
	}
	if !p.ReflectionsEnabled() {
		return nil, ErrReflectionsDisabled
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

	pending := s.ReflectionsPending
	if pending == 0 {
		return nil, ErrNothingToClaim
	}

	balance, err := tx.Balance(ctx, p.ReflectionAsset(), p.ReflectionVault)
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
		Asset: p.ReflectionAsset(), Amount: pending,
		From: p.ReflectionVault, To: user, Authority: p.ProjectID,
	}); err != nil {
		return nil, err
	}

	claimedTotal, err := fixedpoint.Add(s.TotalReflectionsClaimed, pending)
	if err != nil {
		return nil, err
	}
	s.ReflectionsPending = 0
	s.TotalReflectionsClaimed = claimedTotal
	p.LastReflectionBalance = fixedpoint.SubSat(p.LastReflectionBalance, pending)

	event := &domain.Event{
		Kind:      domain.EventReflectionsClaimed,
		ProjectID: p.ProjectID,
		User:      user,
		Amount:    pending,
		Timestamp: now,
	}
	return event, nil
}

// RefreshReflections recomputes pending reflections without paying out.
// It runs the same settlement as a claim, so the refreshed pending figure
// is exactly what a claim at the same instant would pay.
func RefreshReflections(ctx context.Context, tx vault.Tx, p *domain.Project, s *domain.Stake, user string, now int64) error {
	if !p.Initialized {
		return ErrNotInitialized
	}
	if !p.ReflectionsEnabled() {
		return ErrReflectionsDisabled
	}
	if s == nil || s.User != user {
		return ErrNoStake
	}
	return settle(ctx, tx, p, s, now)
}
