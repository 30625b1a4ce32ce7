package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-staking-ledger/internal/domain"
	"solana-staking-ledger/internal/storage"
)

func testProject(id string) *domain.Project {
	return &domain.Project{
		ProjectID:           id,
		Admin:               "admin-wallet",
		TokenMint:           "Mint" + id,
		PoolID:              1,
		StakingVault:        "staking-" + id,
		RewardVault:         "reward-" + id,
		RateMode:            domain.RateModeFixed,
		RateBpsPerYear:      1000,
		RewardRatePerSecond: 3,
		PoolStartTime:       1_700_000_000,
		PoolEndTime:         1_731_536_000,
		PoolDurationSeconds: 31_536_000,
		Initialized:         true,
	}
}

func TestPlatformStore_Roundtrip(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	store := NewPlatformStore(pool)

	_, err := store.Get(ctx)
	require.ErrorIs(t, err, storage.ErrNotFound)

	p := &domain.Platform{
		Admin:        "admin-wallet",
		FeeCollector: "collector-wallet",
		TokenFeeBps:  200,
		NativeFee:    1000,
		Initialized:  true,
	}
	require.NoError(t, store.Save(ctx, p))

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	// Upsert keeps the single row.
	p.TokenFeeBps = 500
	require.NoError(t, store.Save(ctx, p))
	got, err = store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), got.TokenFeeBps)
}

func TestProjectStore_InsertGetDelete(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	store := NewProjectStore(pool)
	p := testProject("proj-1")

	require.NoError(t, store.Insert(ctx, p))
	require.ErrorIs(t, store.Insert(ctx, p), storage.ErrDuplicateKey)

	got, err := store.GetByID(ctx, "proj-1")
	require.NoError(t, err)
	assert.Equal(t, p, got)

	_, err = store.GetByID(ctx, "missing")
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, store.Delete(ctx, "proj-1"))
	require.ErrorIs(t, store.Delete(ctx, "proj-1"), storage.ErrNotFound)
}

func TestProjectStore_SaveUpserts(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	store := NewProjectStore(pool)
	p := testProject("proj-1")
	require.NoError(t, store.Save(ctx, p))

	p.TotalStaked = 12_345
	p.RewardPerTokenStored = 99
	p.Paused = true
	require.NoError(t, store.Save(ctx, p))

	got, err := store.GetByID(ctx, "proj-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(12_345), got.TotalStaked)
	assert.Equal(t, uint64(99), got.RewardPerTokenStored)
	assert.True(t, got.Paused)
}

func TestProjectStore_ListAndGetByMint(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	store := NewProjectStore(pool)
	a := testProject("proj-a")
	b := testProject("proj-b")
	b.TokenMint = a.TokenMint
	c := testProject("proj-c")
	for _, p := range []*domain.Project{b, c, a} {
		require.NoError(t, store.Insert(ctx, p))
	}

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "proj-a", list[0].ProjectID)
	assert.Equal(t, "proj-c", list[2].ProjectID)

	byMint, err := store.GetByMint(ctx, a.TokenMint)
	require.NoError(t, err)
	require.Len(t, byMint, 2)
}

func TestStakeStore_SaveAndLookups(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	store := NewStakeStore(pool)
	st := &domain.Stake{
		StakeID:            "stake-1",
		ProjectID:          "proj-1",
		User:               "alice",
		Amount:             10_000,
		LastStakeTimestamp: 1_700_000_000,
		WithdrawalWallet:   "alice-cold",
		RewardPerTokenPaid: 42,
		RewardsPending:     7,
		RewardRateSnapshot: 3,
	}
	require.NoError(t, store.Save(ctx, st))

	got, err := store.GetByID(ctx, "stake-1")
	require.NoError(t, err)
	assert.Equal(t, st, got)

	got, err = store.GetByProjectUser(ctx, "proj-1", "alice")
	require.NoError(t, err)
	assert.Equal(t, st, got)

	_, err = store.GetByProjectUser(ctx, "proj-1", "bob")
	require.ErrorIs(t, err, storage.ErrNotFound)

	// Upsert after a settle.
	st.Amount = 12_000
	st.RewardsPending = 0
	st.TotalRewardsClaimed = 7
	require.NoError(t, store.Save(ctx, st))

	got, err = store.GetByID(ctx, "stake-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(12_000), got.Amount)
	assert.Equal(t, uint64(7), got.TotalRewardsClaimed)

	st2 := &domain.Stake{StakeID: "stake-2", ProjectID: "proj-1", User: "bob", Amount: 5}
	st3 := &domain.Stake{StakeID: "stake-3", ProjectID: "proj-2", User: "alice", Amount: 9}
	require.NoError(t, store.Save(ctx, st2))
	require.NoError(t, store.Save(ctx, st3))

	byProject, err := store.GetByProject(ctx, "proj-1")
	require.NoError(t, err)
	require.Len(t, byProject, 2)

	byUser, err := store.GetByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, byUser, 2)
}
