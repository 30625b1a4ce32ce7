package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-staking-ledger/internal/domain"
	"solana-staking-ledger/internal/storage"
)

func TestEventJournal_AppendAndQuery(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	journal := NewEventJournal(conn)

	events := []*domain.Event{
		{Kind: domain.EventDeposited, ProjectID: "proj-1", User: "alice", Amount: 100, Fee: 2, NewTotal: 100, Timestamp: 10},
		{Kind: domain.EventWithdrawn, ProjectID: "proj-1", User: "alice", Amount: 40, NewTotal: 60, Timestamp: 20},
		{Kind: domain.EventDeposited, ProjectID: "proj-2", User: "bob", Amount: 9, Timestamp: 15},
	}
	for _, e := range events {
		require.NoError(t, journal.Append(ctx, e))
	}

	byProject, err := journal.GetByProject(ctx, "proj-1", 0, 100)
	require.NoError(t, err)
	require.Len(t, byProject, 2)
	assert.Equal(t, domain.EventDeposited, byProject[0].Kind)
	assert.Equal(t, uint64(100), byProject[0].Amount)
	assert.Equal(t, uint64(2), byProject[0].Fee)
	assert.Equal(t, domain.EventWithdrawn, byProject[1].Kind)

	// Inclusive bounds.
	ranged, err := journal.GetByProject(ctx, "proj-1", 20, 20)
	require.NoError(t, err)
	require.Len(t, ranged, 1)

	byUser, err := journal.GetByUser(ctx, "bob", 0, 100)
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, "proj-2", byUser[0].ProjectID)
}

func TestEventJournal_AppendValidation(t *testing.T) {
	journal := NewEventJournal(nil)

	err := journal.Append(context.Background(), &domain.Event{})
	require.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestSnapshotStore_InsertBulkAndQuery(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	store := NewSnapshotStore(conn)

	snaps := []*domain.AccumulatorSnapshot{
		{ProjectID: "proj-1", TimestampMs: 1000, TotalStaked: 10, RewardPerTokenStored: 5},
		{ProjectID: "proj-1", TimestampMs: 2000, TotalStaked: 20, RewardPerTokenStored: 9},
		{ProjectID: "proj-2", TimestampMs: 1500, TotalStaked: 15},
	}
	require.NoError(t, store.InsertBulk(ctx, snaps))

	got, err := store.GetByProject(ctx, "proj-1", 0, 5000)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1000), got[0].TimestampMs)
	assert.Equal(t, uint64(9), got[1].RewardPerTokenStored)

	empty, err := store.GetByProject(ctx, "proj-3", 0, 5000)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
