package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-staking-ledger/internal/domain"
	"solana-staking-ledger/internal/storage"
)

// StakeStore implements storage.StakeStore using PostgreSQL.
type StakeStore struct {
	pool *Pool
}

// NewStakeStore creates a new StakeStore.
func NewStakeStore(pool *Pool) *StakeStore {
	return &StakeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.StakeStore = (*StakeStore)(nil)

const stakeColumns = `
	stake_id, project_id, user_wallet, amount, last_stake_timestamp, withdrawal_wallet,
	reward_per_token_paid, rewards_pending, total_rewards_claimed,
	reflection_per_token_paid, reflections_pending, total_reflections_claimed, reflection_debt,
	reward_rate_snapshot
`

// Save upserts a stake by stake_id.
func (s *StakeStore) Save(ctx context.Context, st *domain.Stake) error {
	query := `
		INSERT INTO stakes (` + stakeColumns + `) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)
		ON CONFLICT (stake_id) DO UPDATE SET
			amount = EXCLUDED.amount,
			last_stake_timestamp = EXCLUDED.last_stake_timestamp,
			withdrawal_wallet = EXCLUDED.withdrawal_wallet,
			reward_per_token_paid = EXCLUDED.reward_per_token_paid,
			rewards_pending = EXCLUDED.rewards_pending,
			total_rewards_claimed = EXCLUDED.total_rewards_claimed,
			reflection_per_token_paid = EXCLUDED.reflection_per_token_paid,
			reflections_pending = EXCLUDED.reflections_pending,
			total_reflections_claimed = EXCLUDED.total_reflections_claimed,
			reflection_debt = EXCLUDED.reflection_debt,
			reward_rate_snapshot = EXCLUDED.reward_rate_snapshot
	`

	_, err := s.pool.Exec(ctx, query,
		st.StakeID, st.ProjectID, st.User, int64(st.Amount), st.LastStakeTimestamp, st.WithdrawalWallet,
		int64(st.RewardPerTokenPaid), int64(st.RewardsPending), int64(st.TotalRewardsClaimed),
		int64(st.ReflectionPerTokenPaid), int64(st.ReflectionsPending), int64(st.TotalReflectionsClaimed), int64(st.ReflectionDebt),
		int64(st.RewardRateSnapshot),
	)
	if err != nil {
		return fmt.Errorf("save stake: %w", err)
	}
	return nil
}

// GetByID retrieves a stake by its ID. Returns ErrNotFound if not exists.
func (s *StakeStore) GetByID(ctx context.Context, stakeID string) (*domain.Stake, error) {
	query := `SELECT ` + stakeColumns + ` FROM stakes WHERE stake_id = $1`

	row := s.pool.QueryRow(ctx, query, stakeID)
	st, err := scanStake(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get stake by id: %w", err)
	}
	return st, nil
}

// GetByProjectUser retrieves the stake of user in a project.
func (s *StakeStore) GetByProjectUser(ctx context.Context, projectID, user string) (*domain.Stake, error) {
	query := `SELECT ` + stakeColumns + ` FROM stakes WHERE project_id = $1 AND user_wallet = $2`

	row := s.pool.QueryRow(ctx, query, projectID, user)
	st, err := scanStake(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get stake by project and user: %w", err)
	}
	return st, nil
}

// GetByProject retrieves all stakes of a project ordered by stake_id.
func (s *StakeStore) GetByProject(ctx context.Context, projectID string) ([]*domain.Stake, error) {
	query := `SELECT ` + stakeColumns + ` FROM stakes WHERE project_id = $1 ORDER BY stake_id ASC`

	rows, err := s.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("get stakes by project: %w", err)
	}
	defer rows.Close()

	return scanStakes(rows)
}

// GetByUser retrieves all stakes of a user across projects.
func (s *StakeStore) GetByUser(ctx context.Context, user string) ([]*domain.Stake, error) {
	query := `SELECT ` + stakeColumns + ` FROM stakes WHERE user_wallet = $1 ORDER BY stake_id ASC`

	rows, err := s.pool.Query(ctx, query, user)
	if err != nil {
		return nil, fmt.Errorf("get stakes by user: %w", err)
	}
	defer rows.Close()

	return scanStakes(rows)
}

// scanStake scans a single row into a Stake.
func scanStake(row pgx.Row) (*domain.Stake, error) {
	var st domain.Stake
	var amount, rewardPaid, rewardsPending, rewardsClaimed int64
	var reflectionPaid, reflectionsPending, reflectionsClaimed, reflectionDebt, rateSnapshot int64

	err := row.Scan(
		&st.StakeID, &st.ProjectID, &st.User, &amount, &st.LastStakeTimestamp, &st.WithdrawalWallet,
		&rewardPaid, &rewardsPending, &rewardsClaimed,
		&reflectionPaid, &reflectionsPending, &reflectionsClaimed, &reflectionDebt,
		&rateSnapshot,
	)
	if err != nil {
		return nil, err
	}

	st.Amount = uint64(amount)
	st.RewardPerTokenPaid = uint64(rewardPaid)
	st.RewardsPending = uint64(rewardsPending)
	st.TotalRewardsClaimed = uint64(rewardsClaimed)
	st.ReflectionPerTokenPaid = uint64(reflectionPaid)
	st.ReflectionsPending = uint64(reflectionsPending)
	st.TotalReflectionsClaimed = uint64(reflectionsClaimed)
	st.ReflectionDebt = uint64(reflectionDebt)
	st.RewardRateSnapshot = uint64(rateSnapshot)
	return &st, nil
}

// scanStakes scans multiple rows into a slice of Stake.
func scanStakes(rows pgx.Rows) ([]*domain.Stake, error) {
	var stakes []*domain.Stake

	for rows.Next() {
		st, err := scanStake(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stake row: %w", err)
		}
		stakes = append(stakes, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stake rows: %w", err)
	}
	return stakes, nil
}
