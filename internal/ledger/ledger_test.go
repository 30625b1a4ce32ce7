package ledger

import (
	"context"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"

	"solana-staking-ledger/internal/domain"
	"solana-staking-ledger/internal/fixedpoint"
	"solana-staking-ledger/internal/vault"
)

const (
	adminWallet  = "admin-wallet"
	feeCollector = "collector-wallet"
	alice        = "alice-wallet"
	bob          = "bob-wallet"
	refWallet    = "referrer-wallet"

	t0   = int64(1_700_000_000)
	year = int64(31_536_000)
)

func testMint(tag byte) string {
	buf := make([]byte, 32)
	buf[0] = tag
	return base58.Encode(buf)
}

type env struct {
	assets *vault.MemoryLedger
	plat   *domain.Platform
	proj   *domain.Project
}

// newEnv builds an initialized platform and pool backed by a memory asset
// ledger, with the project vaults under project-key authority.
func newEnv(t *testing.T, tokenFeeBps, nativeFee uint64, params PoolParams) *env {
	t.Helper()

	plat := &domain.Platform{}
	_, err := InitializePlatform(plat, adminWallet, feeCollector, tokenFeeBps, nativeFee, t0)
	require.NoError(t, err)

	proj, _, err := CreateProject(adminWallet, testMint(1), 1, t0)
	require.NoError(t, err)
	_, err = InitializePool(proj, adminWallet, params, t0)
	require.NoError(t, err)

	assets := vault.NewMemoryLedger()
	assets.SetAuthority(proj.StakingVault, proj.ProjectID)
	assets.SetAuthority(proj.RewardVault, proj.ProjectID)
	if proj.ReflectionVault != "" {
		assets.SetAuthority(proj.ReflectionVault, proj.ProjectID)
	}
	return &env{assets: assets, plat: plat, proj: proj}
}

func fixedParams(rateBps uint64) PoolParams {
	return PoolParams{
		RateMode:            domain.RateModeFixed,
		RateBpsPerYear:      rateBps,
		PoolDurationSeconds: uint64(10 * year),
	}
}

// run executes op inside a mover transaction and commits on success.
func (e *env) run(t *testing.T, op func(tx vault.Tx) error) error {
	t.Helper()
	ctx := context.Background()
	tx, err := e.assets.Begin(ctx)
	require.NoError(t, err)
	if err := op(tx); err != nil {
		require.NoError(t, tx.Rollback(ctx))
		return err
	}
	require.NoError(t, tx.Commit(ctx))
	return nil
}

func (e *env) deposit(t *testing.T, s *domain.Stake, user string, amount uint64, now int64) *domain.Stake {
	t.Helper()
	var out *domain.Stake
	err := e.run(t, func(tx vault.Tx) error {
		var err error
		out, _, err = Deposit(context.Background(), tx, e.plat, e.proj, s, user, "", "", amount, now)
		return err
	})
	require.NoError(t, err)
	return out
}

func TestInitializePlatformOnce(t *testing.T) {
	plat := &domain.Platform{}
	_, err := InitializePlatform(plat, adminWallet, feeCollector, 200, 1000, t0)
	require.NoError(t, err)
	require.True(t, plat.Initialized)
	require.Equal(t, uint64(200), plat.TokenFeeBps)

	_, err = InitializePlatform(plat, adminWallet, feeCollector, 0, 0, t0)
	require.ErrorIs(t, err, ErrAlreadyInitialized)
}

func TestSetFeesRequiresAdmin(t *testing.T) {
	plat := &domain.Platform{}
	_, err := InitializePlatform(plat, adminWallet, feeCollector, 0, 0, t0)
	require.NoError(t, err)

	_, err = SetFees(plat, alice, 500, 2000, t0)
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = SetFees(plat, adminWallet, 500, 2000, t0)
	require.NoError(t, err)
	require.Equal(t, uint64(500), plat.TokenFeeBps)
	require.Equal(t, uint64(2000), plat.NativeFee)
}

func TestFeeBpsBounds(t *testing.T) {
	plat := &domain.Platform{}
	_, err := InitializePlatform(plat, adminWallet, feeCollector, 10_001, 0, t0)
	require.ErrorIs(t, err, ErrInvalidFee)

	_, err = InitializePlatform(plat, adminWallet, feeCollector, 10_000, 0, t0)
	require.NoError(t, err)

	_, err = SetFees(plat, adminWallet, 10_001, 0, t0)
	require.ErrorIs(t, err, ErrInvalidFee)
	require.Equal(t, uint64(10_000), plat.TokenFeeBps)
}

// A fee configuration beyond the bps scale on a stale platform record must
// abort as an arithmetic error, never wrap the net amount.
func TestDepositExcessiveFeeAborts(t *testing.T) {
	e := newEnv(t, 0, 0, fixedParams(1000))
	e.plat.TokenFeeBps = 15_000
	e.assets.Fund(e.proj.StakedAsset(), alice, 10_000)

	err := e.run(t, func(tx vault.Tx) error {
		_, _, err := Deposit(context.Background(), tx, e.plat, e.proj, nil, alice, "", "", 10_000, t0)
		return err
	})
	require.ErrorIs(t, err, fixedpoint.ErrOverflow)
	require.Equal(t, uint64(10_000), e.assets.BalanceOf(e.proj.StakedAsset(), alice))
	require.Equal(t, uint64(0), e.assets.BalanceOf(e.proj.StakedAsset(), e.proj.StakingVault))
}

func TestWithdrawExcessiveFeeAborts(t *testing.T) {
	e := newEnv(t, 0, 0, fixedParams(1000))
	e.assets.Fund(e.proj.StakedAsset(), alice, 10_000)
	s := e.deposit(t, nil, alice, 10_000, t0)

	e.plat.TokenFeeBps = 15_000
	err := e.run(t, func(tx vault.Tx) error {
		_, err := Withdraw(context.Background(), tx, e.plat, e.proj, s, alice, "", 10_000, t0+1)
		return err
	})
	require.ErrorIs(t, err, fixedpoint.ErrOverflow)
	require.Equal(t, uint64(10_000), s.Amount)
	require.Equal(t, uint64(10_000), e.assets.BalanceOf(e.proj.StakedAsset(), e.proj.StakingVault))
}

func TestInitializePoolFixedRate(t *testing.T) {
	proj, _, err := CreateProject(adminWallet, testMint(1), 1, t0)
	require.NoError(t, err)

	_, err = InitializePool(proj, adminWallet, fixedParams(1000), t0)
	require.NoError(t, err)

	// floor(1000 * 1e9 / (10000 * 31_536_000))
	require.Equal(t, uint64(3), proj.RewardRatePerSecond)
	require.Equal(t, t0+10*year, proj.PoolEndTime)
	require.True(t, proj.Initialized)

	_, err = InitializePool(proj, adminWallet, fixedParams(1000), t0)
	require.ErrorIs(t, err, ErrAlreadyInitialized)
}

func TestInitializePoolValidation(t *testing.T) {
	mk := func() *domain.Project {
		p, _, err := CreateProject(adminWallet, testMint(1), 1, t0)
		require.NoError(t, err)
		return p
	}

	_, err := InitializePool(mk(), bob, fixedParams(1000), t0)
	require.ErrorIs(t, err, ErrUnauthorized)

	bad := fixedParams(1000)
	bad.PoolDurationSeconds = 0
	_, err = InitializePool(mk(), adminWallet, bad, t0)
	require.ErrorIs(t, err, ErrInvalidDuration)

	bad = fixedParams(1000)
	bad.RateMode = "hourly"
	_, err = InitializePool(mk(), adminWallet, bad, t0)
	require.ErrorIs(t, err, ErrInvalidRateMode)

	bad = fixedParams(1000)
	bad.Referrer = refWallet
	bad.ReferrerSplitBps = 10_001
	_, err = InitializePool(mk(), adminWallet, bad, t0)
	require.ErrorIs(t, err, ErrInvalidSplit)
}

func TestDepositCreatesStake(t *testing.T) {
	e := newEnv(t, 0, 0, fixedParams(1000))
	e.assets.Fund(e.proj.StakedAsset(), alice, 10_000)

	s := e.deposit(t, nil, alice, 10_000, t0)

	require.Equal(t, uint64(10_000), s.Amount)
	require.Equal(t, t0, s.LastStakeTimestamp)
	require.Equal(t, e.proj.RewardPerTokenStored, s.RewardPerTokenPaid)
	require.Equal(t, e.proj.RewardRatePerSecond, s.RewardRateSnapshot)
	require.Equal(t, uint64(10_000), e.proj.TotalStaked)
	require.Equal(t, uint64(10_000), e.assets.BalanceOf(e.proj.StakedAsset(), e.proj.StakingVault))
	require.Equal(t, uint64(0), e.assets.BalanceOf(e.proj.StakedAsset(), alice))
}

func TestDepositTokenFee(t *testing.T) {
	e := newEnv(t, 200, 0, fixedParams(1000)) // 2% token fee
	e.assets.Fund(e.proj.StakedAsset(), alice, 10_000)

	var event *domain.Event
	err := e.run(t, func(tx vault.Tx) error {
		var err error
		_, event, err = Deposit(context.Background(), tx, e.plat, e.proj, nil, alice, "", "", 10_000, t0)
		return err
	})
	require.NoError(t, err)

	require.Equal(t, uint64(200), event.Fee)
	require.Equal(t, uint64(9_800), event.Amount)
	require.Equal(t, uint64(9_800), e.proj.TotalStaked)
	require.Equal(t, uint64(200), e.assets.BalanceOf(e.proj.StakedAsset(), feeCollector))
	require.Equal(t, uint64(9_800), e.assets.BalanceOf(e.proj.StakedAsset(), e.proj.StakingVault))
}

func TestDepositNativeFeeReferrerSplit(t *testing.T) {
	params := fixedParams(1000)
	params.Referrer = refWallet
	params.ReferrerSplitBps = 3_000 // 30% of the native fee
	e := newEnv(t, 0, 1_000, params)
	e.assets.Fund(e.proj.StakedAsset(), alice, 5_000)
	e.assets.Fund(domain.NativeAsset(), alice, 1_000)

	err := e.run(t, func(tx vault.Tx) error {
		_, _, err := Deposit(context.Background(), tx, e.plat, e.proj, nil, alice, "", refWallet, 5_000, t0)
		return err
	})
	require.NoError(t, err)

	require.Equal(t, uint64(700), e.assets.BalanceOf(domain.NativeAsset(), feeCollector))
	require.Equal(t, uint64(300), e.assets.BalanceOf(domain.NativeAsset(), refWallet))
}

func TestDepositRejectsWrongReferrer(t *testing.T) {
	params := fixedParams(1000)
	params.Referrer = refWallet
	params.ReferrerSplitBps = 3_000
	e := newEnv(t, 0, 0, params)
	e.assets.Fund(e.proj.StakedAsset(), alice, 5_000)

	err := e.run(t, func(tx vault.Tx) error {
		_, _, err := Deposit(context.Background(), tx, e.plat, e.proj, nil, alice, "", bob, 5_000, t0)
		return err
	})
	require.ErrorIs(t, err, ErrInvalidReferrer)
}

func TestDepositFeeOnTransferCreditsReceived(t *testing.T) {
	e := newEnv(t, 0, 0, fixedParams(1000))
	e.assets.SetTransferTax(e.proj.TokenMint, 100) // 1% burned in transit
	e.assets.Fund(e.proj.StakedAsset(), alice, 10_000)

	s := e.deposit(t, nil, alice, 10_000, t0)

	require.Equal(t, uint64(9_900), s.Amount)
	require.Equal(t, uint64(9_900), e.proj.TotalStaked)
	require.Equal(t, uint64(9_900), e.assets.BalanceOf(e.proj.StakedAsset(), e.proj.StakingVault))
}

func TestDepositGates(t *testing.T) {
	e := newEnv(t, 0, 0, fixedParams(1000))
	e.assets.Fund(e.proj.StakedAsset(), alice, 1_000)
	ctx := context.Background()

	try := func(now int64) error {
		return e.run(t, func(tx vault.Tx) error {
			_, _, err := Deposit(ctx, tx, e.plat, e.proj, nil, alice, "", "", 1_000, now)
			return err
		})
	}

	e.proj.Paused = true
	require.ErrorIs(t, try(t0), ErrPaused)
	e.proj.Paused = false

	e.proj.DepositPaused = true
	require.ErrorIs(t, try(t0), ErrDepositsPaused)
	e.proj.DepositPaused = false

	require.ErrorIs(t, try(e.proj.PoolEndTime), ErrPoolEnded)

	err := e.run(t, func(tx vault.Tx) error {
		_, _, err := Deposit(ctx, tx, e.plat, e.proj, nil, alice, "", "", 0, t0)
		return err
	})
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestWithdrawLockupBoundary(t *testing.T) {
	params := fixedParams(1000)
	params.LockupSeconds = 3_600
	e := newEnv(t, 0, 0, params)
	e.assets.Fund(e.proj.StakedAsset(), alice, 1_000)
	s := e.deposit(t, nil, alice, 1_000, t0)

	withdraw := func(now int64) error {
		return e.run(t, func(tx vault.Tx) error {
			_, err := Withdraw(context.Background(), tx, e.plat, e.proj, s, alice, "", 1_000, now)
			return err
		})
	}

	require.ErrorIs(t, withdraw(t0+3_599), ErrLockupNotExpired)
	require.NoError(t, withdraw(t0+3_600))
	require.Equal(t, uint64(0), s.Amount)
	require.Equal(t, uint64(1_000), e.assets.BalanceOf(e.proj.StakedAsset(), alice))
}

func TestWithdrawFeeAndDestination(t *testing.T) {
	e := newEnv(t, 100, 0, fixedParams(1000)) // 1% token fee
	e.assets.Fund(e.proj.StakedAsset(), alice, 10_000)

	var s *domain.Stake
	err := e.run(t, func(tx vault.Tx) error {
		var err error
		s, _, err = Deposit(context.Background(), tx, e.plat, e.proj, nil, alice, bob, "", 10_000, t0)
		return err
	})
	require.NoError(t, err)
	require.Equal(t, uint64(9_900), s.Amount) // 1% off the deposit too

	collectorBefore := e.assets.BalanceOf(e.proj.StakedAsset(), feeCollector)
	err = e.run(t, func(tx vault.Tx) error {
		_, err := Withdraw(context.Background(), tx, e.plat, e.proj, s, alice, "", 9_900, t0+1)
		return err
	})
	require.NoError(t, err)

	require.Equal(t, uint64(0), s.Amount)
	require.Equal(t, uint64(0), e.proj.TotalStaked)
	require.Equal(t, uint64(99), e.assets.BalanceOf(e.proj.StakedAsset(), feeCollector)-collectorBefore)
	// Principal lands at the withdrawal wallet, not the staking identity.
	require.Equal(t, uint64(9_801), e.assets.BalanceOf(e.proj.StakedAsset(), bob))
	require.Equal(t, uint64(0), e.assets.BalanceOf(e.proj.StakedAsset(), alice))
}

func TestWithdrawValidation(t *testing.T) {
	e := newEnv(t, 0, 0, fixedParams(1000))
	e.assets.Fund(e.proj.StakedAsset(), alice, 1_000)
	s := e.deposit(t, nil, alice, 1_000, t0)

	err := e.run(t, func(tx vault.Tx) error {
		_, err := Withdraw(context.Background(), tx, e.plat, e.proj, s, alice, "", 1_001, t0+1)
		return err
	})
	require.ErrorIs(t, err, ErrInsufficientStake)

	err = e.run(t, func(tx vault.Tx) error {
		_, err := Withdraw(context.Background(), tx, e.plat, e.proj, nil, bob, "", 100, t0+1)
		return err
	})
	require.ErrorIs(t, err, ErrNoStake)
}

func TestClaimFixedRate(t *testing.T) {
	e := newEnv(t, 0, 0, fixedParams(1000))
	principal := uint64(1_000_000_000)
	e.assets.Fund(e.proj.StakedAsset(), alice, principal)
	s := e.deposit(t, nil, alice, principal, t0)

	e.assets.Fund(e.proj.StakedAsset(), e.proj.RewardVault, principal)

	var event *domain.Event
	err := e.run(t, func(tx vault.Tx) error {
		var err error
		event, err = Claim(context.Background(), tx, e.plat, e.proj, s, alice, "", t0+year)
		return err
	})
	require.NoError(t, err)

	// floor(1e9 * 3 * 31_536_000 / 1e9)
	want := uint64(94_608_000)
	require.Equal(t, want, event.Amount)
	require.Equal(t, want, e.assets.BalanceOf(e.proj.StakedAsset(), alice))
	require.Equal(t, uint64(0), s.RewardsPending)
	require.Equal(t, want, s.TotalRewardsClaimed)
	require.Equal(t, want, e.proj.TotalRewardsClaimed)

	err = e.run(t, func(tx vault.Tx) error {
		_, err := Claim(context.Background(), tx, e.plat, e.proj, s, alice, "", t0+year)
		return err
	})
	require.ErrorIs(t, err, ErrNothingToClaim)
}

func TestClaimReanchorsLockup(t *testing.T) {
	params := fixedParams(1000)
	params.LockupSeconds = 3_600
	e := newEnv(t, 0, 0, params)
	principal := uint64(1_000_000_000)
	e.assets.Fund(e.proj.StakedAsset(), alice, principal)
	s := e.deposit(t, nil, alice, principal, t0)
	e.assets.Fund(e.proj.StakedAsset(), e.proj.RewardVault, 100_000_000)

	claimAt := t0 + year
	err := e.run(t, func(tx vault.Tx) error {
		_, err := Claim(context.Background(), tx, e.plat, e.proj, s, alice, "", claimAt)
		return err
	})
	require.NoError(t, err)
	require.Equal(t, claimAt, s.LastStakeTimestamp)

	// The lockup counts from the claim, not the original deposit.
	withdraw := func(now int64) error {
		return e.run(t, func(tx vault.Tx) error {
			_, err := Withdraw(context.Background(), tx, e.plat, e.proj, s, alice, "", principal, now)
			return err
		})
	}
	require.ErrorIs(t, withdraw(claimAt+3_599), ErrLockupNotExpired)
	require.NoError(t, withdraw(claimAt+3_600))
}

func TestClaimVaultIlliquid(t *testing.T) {
	e := newEnv(t, 0, 0, fixedParams(1000))
	e.assets.Fund(e.proj.StakedAsset(), alice, 2_000)
	s := e.deposit(t, nil, alice, 2_000, t0)
	e.assets.Fund(e.proj.StakedAsset(), e.proj.RewardVault, 10) // far short

	err := e.run(t, func(tx vault.Tx) error {
		_, err := Claim(context.Background(), tx, e.plat, e.proj, s, alice, "", t0+year)
		return err
	})
	require.ErrorIs(t, err, ErrVaultIlliquid)

	// Rolled back: nothing left the vaults.
	require.Equal(t, uint64(10), e.assets.BalanceOf(e.proj.StakedAsset(), e.proj.RewardVault))
	require.Equal(t, uint64(0), e.assets.BalanceOf(e.proj.StakedAsset(), alice))
}

func TestVariablePoolRespread(t *testing.T) {
	params := PoolParams{
		RateMode:            domain.RateModeVariable,
		PoolDurationSeconds: 1_000,
	}
	e := newEnv(t, 0, 0, params)
	require.Equal(t, uint64(0), e.proj.RewardRatePerSecond)

	e.assets.Fund(e.proj.StakedAsset(), adminWallet, 100_000)
	err := e.run(t, func(tx vault.Tx) error {
		_, err := DepositRewards(context.Background(), tx, e.proj, adminWallet, 100_000, t0)
		return err
	})
	require.NoError(t, err)
	// 100_000 tokens over 1_000 remaining seconds.
	require.Equal(t, uint64(100), e.proj.RewardRatePerSecond)
	require.Equal(t, uint64(100_000), e.assets.BalanceOf(e.proj.StakedAsset(), e.proj.RewardVault))

	e.assets.Fund(e.proj.StakedAsset(), alice, 500)
	s := e.deposit(t, nil, alice, 500, t0)

	// Sole staker earns the whole pool rate.
	var event *domain.Event
	err = e.run(t, func(tx vault.Tx) error {
		var err error
		event, err = Claim(context.Background(), tx, e.plat, e.proj, s, alice, "", t0+100)
		return err
	})
	require.NoError(t, err)
	require.Equal(t, uint64(10_000), event.Amount)
}

func TestSetPoolDurationReanchors(t *testing.T) {
	e := newEnv(t, 0, 0, fixedParams(1000))

	_, err := SetPoolDuration(e.proj, adminWallet, uint64(year), t0+100)
	require.NoError(t, err)
	require.Equal(t, e.proj.PoolStartTime+year, e.proj.PoolEndTime)

	_, err = SetPoolDuration(e.proj, bob, uint64(year), t0+100)
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = SetPoolDuration(e.proj, adminWallet, 0, t0+100)
	require.ErrorIs(t, err, ErrInvalidDuration)
}

func TestUpdatePoolParamsRederivesFixedRate(t *testing.T) {
	e := newEnv(t, 0, 0, fixedParams(1000))
	require.Equal(t, uint64(3), e.proj.RewardRatePerSecond)

	_, err := UpdatePoolParams(e.proj, adminWallet, 2_000, 600, t0+10)
	require.NoError(t, err)
	require.Equal(t, uint64(6), e.proj.RewardRatePerSecond) // floor(2000e9/3.1536e11)
	require.Equal(t, uint64(600), e.proj.LockupSeconds)
}

func reflectionParams() PoolParams {
	p := fixedParams(0)
	p.EnableReflections = true
	p.ReflectionToken = testMint(2)
	return p
}

func TestReflectionClaim(t *testing.T) {
	e := newEnv(t, 0, 0, reflectionParams())
	reflAsset := e.proj.ReflectionAsset()
	e.assets.Fund(e.proj.StakedAsset(), alice, 2_000)
	s := e.deposit(t, nil, alice, 2_000, t0)

	// External reflection income arrives in the vault.
	e.assets.Fund(reflAsset, e.proj.ReflectionVault, 1_000)

	var event *domain.Event
	err := e.run(t, func(tx vault.Tx) error {
		var err error
		event, err = ClaimReflections(context.Background(), tx, e.plat, e.proj, s, alice, "", t0+10)
		return err
	})
	require.NoError(t, err)

	require.Equal(t, uint64(1_000), event.Amount)
	require.Equal(t, uint64(1_000), e.assets.BalanceOf(reflAsset, alice))
	require.Equal(t, uint64(0), s.ReflectionsPending)
	require.Equal(t, uint64(1_000), s.TotalReflectionsClaimed)
	// Baseline follows the outgoing payment so the next settle sees no
	// phantom decrease.
	require.Equal(t, uint64(0), e.proj.LastReflectionBalance)

	err = e.run(t, func(tx vault.Tx) error {
		_, err := ClaimReflections(context.Background(), tx, e.plat, e.proj, s, alice, "", t0+20)
		return err
	})
	require.ErrorIs(t, err, ErrNothingToClaim)
}

func TestRefreshThenClaimNoDoubleCount(t *testing.T) {
	e := newEnv(t, 0, 0, reflectionParams())
	reflAsset := e.proj.ReflectionAsset()
	e.assets.Fund(e.proj.StakedAsset(), alice, 2_000)
	s := e.deposit(t, nil, alice, 2_000, t0)
	e.assets.Fund(reflAsset, e.proj.ReflectionVault, 1_000)

	err := e.run(t, func(tx vault.Tx) error {
		return RefreshReflections(context.Background(), tx, e.proj, s, alice, t0+5)
	})
	require.NoError(t, err)
	require.Equal(t, uint64(1_000), s.ReflectionsPending)

	var event *domain.Event
	err = e.run(t, func(tx vault.Tx) error {
		var err error
		event, err = ClaimReflections(context.Background(), tx, e.plat, e.proj, s, alice, "", t0+10)
		return err
	})
	require.NoError(t, err)
	require.Equal(t, uint64(1_000), event.Amount)
}

func TestReflectionClaimDisabled(t *testing.T) {
	e := newEnv(t, 0, 0, fixedParams(1000))
	e.assets.Fund(e.proj.StakedAsset(), alice, 1_000)
	s := e.deposit(t, nil, alice, 1_000, t0)

	err := e.run(t, func(tx vault.Tx) error {
		_, err := ClaimReflections(context.Background(), tx, e.plat, e.proj, s, alice, "", t0+10)
		return err
	})
	require.ErrorIs(t, err, ErrReflectionsDisabled)
}

func TestEmergencyReturnStake(t *testing.T) {
	params := fixedParams(1000)
	params.LockupSeconds = uint64(year) // locked for a year
	e := newEnv(t, 200, 0, params)
	e.assets.Fund(e.proj.StakedAsset(), alice, 10_000)
	s := e.deposit(t, nil, alice, 10_000, t0)
	require.Equal(t, uint64(9_800), s.Amount)

	err := e.run(t, func(tx vault.Tx) error {
		_, err := EmergencyReturnStake(context.Background(), tx, e.proj, s, bob, t0+10)
		return err
	})
	require.ErrorIs(t, err, ErrUnauthorized)

	err = e.run(t, func(tx vault.Tx) error {
		_, err := EmergencyReturnStake(context.Background(), tx, e.proj, s, adminWallet, t0+year/2)
		return err
	})
	require.NoError(t, err)

	// Full principal back, no withdraw fee, lockup ignored.
	require.Equal(t, uint64(9_800), e.assets.BalanceOf(e.proj.StakedAsset(), alice))
	require.Equal(t, uint64(0), s.Amount)
	require.Equal(t, uint64(0), e.proj.TotalStaked)
	// Settled rewards survive on the record:
	// floor(9800 * 3 * 15_768_000 / 1e9).
	require.Equal(t, uint64(463), s.RewardsPending)
}

func TestPauseGates(t *testing.T) {
	e := newEnv(t, 0, 0, fixedParams(1000))

	_, err := SetPause(e.proj, bob, GateAll, true, t0)
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = SetPause(e.proj, adminWallet, Gate("maintenance"), true, t0)
	require.ErrorIs(t, err, ErrInvalidGate)

	for _, gate := range []Gate{GateAll, GateDeposit, GateWithdraw, GateClaim} {
		_, err = SetPause(e.proj, adminWallet, gate, true, t0)
		require.NoError(t, err)
	}
	require.True(t, e.proj.Paused)
	require.True(t, e.proj.DepositPaused)
	require.True(t, e.proj.WithdrawPaused)
	require.True(t, e.proj.ClaimPaused)
}

func TestTransferAdminAndEmergencyUnlock(t *testing.T) {
	params := fixedParams(1000)
	params.LockupSeconds = uint64(year)
	e := newEnv(t, 0, 0, params)
	e.assets.Fund(e.proj.StakedAsset(), alice, 1_000)
	s := e.deposit(t, nil, alice, 1_000, t0)

	_, err := TransferAdmin(e.proj, adminWallet, bob, t0)
	require.NoError(t, err)
	require.Equal(t, bob, e.proj.Admin)

	// Old admin lost control.
	_, err = EmergencyUnlock(e.proj, adminWallet, t0)
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = EmergencyUnlock(e.proj, bob, t0)
	require.NoError(t, err)

	err = e.run(t, func(tx vault.Tx) error {
		_, err := Withdraw(context.Background(), tx, e.plat, e.proj, s, alice, "", 1_000, t0+1)
		return err
	})
	require.NoError(t, err)
}

func TestClaimUnclaimedTokens(t *testing.T) {
	e := newEnv(t, 0, 0, fixedParams(1000))
	e.assets.Fund(e.proj.StakedAsset(), e.proj.RewardVault, 5_000)

	err := e.run(t, func(tx vault.Tx) error {
		_, err := ClaimUnclaimedTokens(context.Background(), tx, e.proj, adminWallet, "someone-else", 1_000, t0)
		return err
	})
	require.ErrorIs(t, err, ErrInvalidVault)

	err = e.run(t, func(tx vault.Tx) error {
		_, err := ClaimUnclaimedTokens(context.Background(), tx, e.proj, adminWallet, e.proj.RewardVault, 6_000, t0)
		return err
	})
	require.ErrorIs(t, err, ErrVaultIlliquid)

	err = e.run(t, func(tx vault.Tx) error {
		_, err := ClaimUnclaimedTokens(context.Background(), tx, e.proj, adminWallet, e.proj.RewardVault, 5_000, t0)
		return err
	})
	require.NoError(t, err)
	require.Equal(t, uint64(5_000), e.assets.BalanceOf(e.proj.StakedAsset(), adminWallet))
}

func TestCloseProjectRequiresNoStakes(t *testing.T) {
	e := newEnv(t, 0, 0, fixedParams(1000))
	e.assets.Fund(e.proj.StakedAsset(), alice, 1_000)
	s := e.deposit(t, nil, alice, 1_000, t0)

	_, err := CloseProject(e.proj, adminWallet, t0+1)
	require.ErrorIs(t, err, ErrActiveStakes)

	err = e.run(t, func(tx vault.Tx) error {
		_, err := Withdraw(context.Background(), tx, e.plat, e.proj, s, alice, "", 1_000, t0+1)
		return err
	})
	require.NoError(t, err)

	_, err = CloseProject(e.proj, adminWallet, t0+2)
	require.NoError(t, err)
}

// TestPrincipalConservation drives a mixed sequence and checks the staking
// vault always carries exactly the sum of live principal.
func TestPrincipalConservation(t *testing.T) {
	e := newEnv(t, 0, 0, fixedParams(1000))
	asset := e.proj.StakedAsset()
	e.assets.Fund(asset, alice, 50_000)
	e.assets.Fund(asset, bob, 50_000)

	sa := e.deposit(t, nil, alice, 20_000, t0)
	sb := e.deposit(t, nil, bob, 30_000, t0+10)
	sa = e.deposit(t, sa, alice, 5_000, t0+20)

	err := e.run(t, func(tx vault.Tx) error {
		_, err := Withdraw(context.Background(), tx, e.plat, e.proj, sb, bob, "", 12_000, t0+30)
		return err
	})
	require.NoError(t, err)

	require.Equal(t, uint64(25_000), sa.Amount)
	require.Equal(t, uint64(18_000), sb.Amount)
	require.Equal(t, sa.Amount+sb.Amount, e.proj.TotalStaked)
	require.Equal(t, e.proj.TotalStaked, e.assets.BalanceOf(asset, e.proj.StakingVault))
}
