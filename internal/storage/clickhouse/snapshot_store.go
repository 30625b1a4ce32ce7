package clickhouse

import (
	"context"
	"fmt"

	"solana-staking-ledger/internal/domain"
	"solana-staking-ledger/internal/storage"
)

// SnapshotStore implements storage.SnapshotStore using ClickHouse.
type SnapshotStore struct {
	conn *Conn
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(conn *Conn) *SnapshotStore {
	return &SnapshotStore{conn: conn}
}

// Compile-time interface check.
var _ storage.SnapshotStore = (*SnapshotStore)(nil)

// InsertBulk adds multiple snapshots.
func (s *SnapshotStore) InsertBulk(ctx context.Context, snapshots []*domain.AccumulatorSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO accumulator_snapshots (
			project_id, timestamp_ms, total_staked,
			reward_per_token_stored, reflection_per_token_stored,
			reward_rate_per_second, total_rewards_deposited, total_rewards_claimed
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, snap := range snapshots {
		if snap == nil || snap.ProjectID == "" {
			return storage.ErrInvalidInput
		}
		err = batch.Append(
			snap.ProjectID, snap.TimestampMs, snap.TotalStaked,
			snap.RewardPerTokenStored, snap.ReflectionPerTokenStored,
			snap.RewardRatePerSecond, snap.TotalRewardsDeposited, snap.TotalRewardsClaimed,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByProject retrieves snapshots of a project within [start, end] (inclusive).
func (s *SnapshotStore) GetByProject(ctx context.Context, projectID string, start, end int64) ([]*domain.AccumulatorSnapshot, error) {
	query := `
		SELECT project_id, timestamp_ms, total_staked,
			reward_per_token_stored, reflection_per_token_stored,
			reward_rate_per_second, total_rewards_deposited, total_rewards_claimed
		FROM accumulator_snapshots
		WHERE project_id = ? AND timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, projectID, start, end)
	if err != nil {
		return nil, fmt.Errorf("query snapshots by project: %w", err)
	}
	defer rows.Close()

	var snapshots []*domain.AccumulatorSnapshot
	for rows.Next() {
		var snap domain.AccumulatorSnapshot
		err := rows.Scan(
			&snap.ProjectID, &snap.TimestampMs, &snap.TotalStaked,
			&snap.RewardPerTokenStored, &snap.ReflectionPerTokenStored,
			&snap.RewardRatePerSecond, &snap.TotalRewardsDeposited, &snap.TotalRewardsClaimed,
		)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		snapshots = append(snapshots, &snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}
	return snapshots, nil
}
