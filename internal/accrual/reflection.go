package accrual

import (
	"solana-staking-ledger/internal/domain"
	"solana-staking-ledger/internal/fixedpoint"
)

// SettleReflection folds an externally observed reflection-vault balance
// into the project's reflection accumulator and credits the stake's pending
// reflections. Unlike rewards, reflection accrual is not a time function:
// only observed balance increases produce accrual.
//
// A decrease in the observed balance means someone took funds out of the
// vault (a claim, or an external withdrawal). That interval contributes
// nothing; the baseline resets to the lower value and the accumulator is
// left untouched, so it stays monotonic.
//
// Refresh and claim both route through this function with identical marker
// semantics; claim differs only in moving funds afterwards.
func SettleReflection(p *domain.Project, s *domain.Stake, observedBalance uint64, now int64) error {
	if !p.ReflectionsEnabled() {
		return nil
	}

	if observedBalance < p.LastReflectionBalance {
		p.LastReflectionBalance = observedBalance
		p.LastReflectionUpdateTime = now
		return nil
	}

	newTokens := observedBalance - p.LastReflectionBalance
	if newTokens > 0 && p.TotalStaked > 0 {
		rate, err := fixedpoint.MulDiv(newTokens, fixedpoint.Precision, p.TotalStaked)
		if err != nil {
			return err
		}
		stored, err := fixedpoint.Add(p.ReflectionPerTokenStored, rate)
		if err != nil {
			return err
		}
		p.ReflectionPerTokenStored = stored
		p.LastReflectionBalance = observedBalance
		p.LastReflectionUpdateTime = now
	}

	if s == nil {
		return nil
	}

	if s.Amount > 0 {
		diff := fixedpoint.SubSat(p.ReflectionPerTokenStored, s.ReflectionPerTokenPaid)
		if diff > 0 {
			earned, err := fixedpoint.MulDiv(diff, s.Amount, fixedpoint.Precision)
			if err != nil {
				return err
			}
			net := fixedpoint.SubSat(earned, s.ReflectionDebt)
			pending, err := fixedpoint.Add(s.ReflectionsPending, net)
			if err != nil {
				return err
			}
			s.ReflectionsPending = pending
			s.ReflectionDebt = 0
		}
	}

	s.ReflectionPerTokenPaid = p.ReflectionPerTokenStored

	return nil
}
