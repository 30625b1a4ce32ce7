package ledger

import (
	"context"

	"solana-staking-ledger/internal/domain"
	"solana-staking-ledger/internal/vault"
)

// EmergencyReturnStake force-returns a user's full principal from the
// staking vault, bypassing the lockup and every fee. Pending rewards and
// reflections are settled but stay on the record; the user can still
// claim them afterwards. Admin only.
func EmergencyReturnStake(ctx context.Context, tx vault.Tx, p *domain.Project, s *domain.Stake, admin string, now int64) (*domain.Event, error) {
	if admin != p.Admin {
		return nil, ErrUnauthorized
	}
	if s == nil {
		return nil, ErrNoStake
	}
	if s.Amount == 0 {
		return nil, ErrInvalidAmount
	}
	if s.Amount > p.TotalStaked {
		return nil, ErrInconsistentTotal
	}

	if err := settle(ctx, tx, p, s, now); err != nil {
		return nil, err
	}

	destination := s.WithdrawalWallet
	if destination == "" {
		destination = s.User
	}

	amount := s.Amount
	if _, err := tx.Move(ctx, vault.Transfer{
		Asset: p.StakedAsset(), Amount: amount,
		From: p.StakingVault, To: destination, Authority: p.ProjectID,
	}); err != nil {
		return nil, err
	}

	s.Amount = 0
	p.TotalStaked -= amount

	event := &domain.Event{
		Kind:      domain.EventEmergencyReturn,
		ProjectID: p.ProjectID,
		User:      s.User,
		Amount:    amount,
		Timestamp: now,
	}
	return event, nil
}
