// Package accrual implements the reward and reflection accumulator engines.
// Both are pure settlement functions over a Project and an optional Stake:
// they advance the global per-token accumulator, then credit the stake's
// pending balance from the accumulator delta since its last settlement.
//
// Accumulator convention, applied uniformly to both engines and both rate
// modes: the stored per-token value is scaled by fixedpoint.Precision, and
// a stake's earned delta divides by Precision exactly once.
package accrual

import (
	"errors"

	"solana-staking-ledger/internal/domain"
	"solana-staking-ledger/internal/fixedpoint"
)

// ErrTimeReversed is returned when the caller-supplied clock is behind the
// project's last settlement. The clock is trusted and monotonic; regression
// aborts the operation.
var ErrTimeReversed = errors.New("accrual: time moved backwards")

// SettleReward advances the project's reward accumulator to now and credits
// the stake's pending rewards. Stake may be nil for project-only settlement
// (rate changes, reward deposits).
//
// Calling twice with the same now is a no-op the second time: the elapsed
// interval is zero and the stake's accumulator delta is zero.
func SettleReward(p *domain.Project, s *domain.Stake, now int64) error {
	if now < p.LastUpdateTime {
		return ErrTimeReversed
	}

	if p.TotalStaked > 0 && now > p.LastUpdateTime {
		effective := effectiveSeconds(p.LastUpdateTime, now, p.PoolEndTime)
		if effective > 0 {
			delta, err := perTokenDelta(p, effective)
			if err != nil {
				return err
			}
			stored, err := fixedpoint.Add(p.RewardPerTokenStored, delta)
			if err != nil {
				return err
			}
			p.RewardPerTokenStored = stored
		}
	}

	// Advanced unconditionally so the same interval is never re-accrued,
	// and as a high-water mark even while the pool is empty.
	p.LastUpdateTime = now

	if s == nil {
		return nil
	}

	if s.Amount > 0 {
		diff := fixedpoint.SubSat(p.RewardPerTokenStored, s.RewardPerTokenPaid)
		if diff > 0 {
			earned, err := fixedpoint.MulDiv(s.Amount, diff, fixedpoint.Precision)
			if err != nil {
				return err
			}
			pending, err := fixedpoint.Add(s.RewardsPending, earned)
			if err != nil {
				return err
			}
			s.RewardsPending = pending
		}
	}

	// The marker advances even for a zero-amount stake, so accrual from
	// an empty interval is never back-credited after a later deposit.
	s.RewardPerTokenPaid = p.RewardPerTokenStored

	return nil
}

// perTokenDelta computes the accumulator increment for the elapsed seconds.
// Fixed-mode rates are already per staked token and Precision-scaled;
// variable-mode rates are whole-pool tokens per second and get scaled here.
func perTokenDelta(p *domain.Project, effective uint64) (uint64, error) {
	switch p.RateMode {
	case domain.RateModeFixed:
		return fixedpoint.Mul(p.RewardRatePerSecond, effective)
	default:
		total, err := fixedpoint.Mul(p.RewardRatePerSecond, effective)
		if err != nil {
			return 0, err
		}
		return fixedpoint.MulDiv(total, fixedpoint.Precision, p.TotalStaked)
	}
}

// effectiveSeconds clips [last, now] to the pool window. No accrual is ever
// computed for time past poolEnd.
func effectiveSeconds(last, now, poolEnd int64) uint64 {
	if now > poolEnd {
		now = poolEnd
	}
	if now <= last {
		return 0
	}
	return uint64(now - last)
}
