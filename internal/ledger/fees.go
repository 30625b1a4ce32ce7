package ledger

import (
	"context"

	"solana-staking-ledger/internal/domain"
	"solana-staking-ledger/internal/fixedpoint"
	"solana-staking-ledger/internal/vault"
)

// splitFee divides a fee between the fee collector and the referrer.
// The referrer cut is floor(fee*splitBps/10000); the integer remainder
// always goes to the collector, so nothing is lost or duplicated.
func splitFee(fee, splitBps uint64) (collector, referrer uint64, err error) {
	referrer, err = fixedpoint.MulDiv(fee, splitBps, 10_000)
	if err != nil {
		return 0, 0, err
	}
	return fee - referrer, referrer, nil
}

// resolveReferrer decides whether the supplied referrer participates in the
// fee split. A supplied referrer that does not match the configured one is
// rejected; no supplied referrer simply means no split.
func resolveReferrer(p *domain.Project, supplied string) (string, error) {
	if supplied == "" || p.Referrer == "" {
		return "", nil
	}
	if supplied != p.Referrer {
		return "", ErrInvalidReferrer
	}
	return supplied, nil
}

// payFee routes a fee amount from payer, split between the platform fee
// collector and the referrer (when one participates). Amounts of zero are
// skipped.
func payFee(ctx context.Context, tx vault.Tx, asset domain.Asset, payer, feeCollector, referrer string, fee, splitBps uint64) error {
	if fee == 0 {
		return nil
	}

	collectorCut := fee
	referrerCut := uint64(0)
	if referrer != "" {
		var err error
		collectorCut, referrerCut, err = splitFee(fee, splitBps)
		if err != nil {
			return err
		}
	}

	if collectorCut > 0 {
		if _, err := tx.Move(ctx, vault.Transfer{
			Asset: asset, Amount: collectorCut,
			From: payer, To: feeCollector, Authority: payer,
		}); err != nil {
			return err
		}
	}
	if referrerCut > 0 {
		if _, err := tx.Move(ctx, vault.Transfer{
			Asset: asset, Amount: referrerCut,
			From: payer, To: referrer, Authority: payer,
		}); err != nil {
			return err
		}
	}
	return nil
}

// chargeNativeFee collects the platform's flat native fee from the payer,
// split with the referrer like the token fee.
func chargeNativeFee(ctx context.Context, tx vault.Tx, platform *domain.Platform, p *domain.Project, payer, referrer string) error {
	return payFee(ctx, tx, domain.NativeAsset(), payer, platform.FeeCollector, referrer, platform.NativeFee, p.ReferrerSplitBps)
}
