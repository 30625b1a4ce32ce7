package ledger

import (
	"context"

	"solana-staking-ledger/internal/accrual"
	"solana-staking-ledger/internal/domain"
	"solana-staking-ledger/internal/vault"
)

// settle brings the project's reward accumulator up to now and, when
// reflections are enabled, folds in any balance growth observed on the
// reflection vault. s may be nil for project-only settlement.
func settle(ctx context.Context, tx vault.Tx, p *domain.Project, s *domain.Stake, now int64) error {
	if err := accrual.SettleReward(p, s, now); err != nil {
		return err
	}
	if !p.ReflectionsEnabled() {
		return nil
	}
	balance, err := tx.Balance(ctx, p.ReflectionAsset(), p.ReflectionVault)
	if err != nil {
		return err
	}
	return accrual.SettleReflection(p, s, balance, now)
}
