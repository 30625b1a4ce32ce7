package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-staking-ledger/internal/domain"
	"solana-staking-ledger/internal/storage"
)

// ProjectStore implements storage.ProjectStore using PostgreSQL.
type ProjectStore struct {
	pool *Pool
}

// NewProjectStore creates a new ProjectStore.
func NewProjectStore(pool *Pool) *ProjectStore {
	return &ProjectStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ProjectStore = (*ProjectStore)(nil)

const projectColumns = `
	project_id, admin, token_mint, pool_id,
	staking_vault, reward_vault, reflection_vault, reflection_token,
	total_staked, total_rewards_deposited, total_rewards_claimed, total_reflection_debt,
	rate_mode, rate_bps_per_year, reward_rate_per_second, lockup_seconds,
	pool_start_time, pool_end_time, pool_duration_seconds,
	reward_per_token_stored, last_update_time,
	reflection_per_token_stored, last_reflection_update_time, last_reflection_balance,
	referrer, referrer_split_bps,
	is_paused, deposit_paused, withdraw_paused, claim_paused, is_initialized
`

// Insert adds a new project. Returns ErrDuplicateKey if project_id exists.
func (s *ProjectStore) Insert(ctx context.Context, p *domain.Project) error {
	query := `
		INSERT INTO projects (` + projectColumns + `) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31
		)
	`

	_, err := s.pool.Exec(ctx, query, projectArgs(p)...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

// Save upserts a project by project_id.
func (s *ProjectStore) Save(ctx context.Context, p *domain.Project) error {
	query := `
		INSERT INTO projects (` + projectColumns + `) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31
		)
		ON CONFLICT (project_id) DO UPDATE SET
			admin = EXCLUDED.admin,
			reflection_vault = EXCLUDED.reflection_vault,
			reflection_token = EXCLUDED.reflection_token,
			total_staked = EXCLUDED.total_staked,
			total_rewards_deposited = EXCLUDED.total_rewards_deposited,
			total_rewards_claimed = EXCLUDED.total_rewards_claimed,
			total_reflection_debt = EXCLUDED.total_reflection_debt,
			rate_mode = EXCLUDED.rate_mode,
			rate_bps_per_year = EXCLUDED.rate_bps_per_year,
			reward_rate_per_second = EXCLUDED.reward_rate_per_second,
			lockup_seconds = EXCLUDED.lockup_seconds,
			pool_start_time = EXCLUDED.pool_start_time,
			pool_end_time = EXCLUDED.pool_end_time,
			pool_duration_seconds = EXCLUDED.pool_duration_seconds,
			reward_per_token_stored = EXCLUDED.reward_per_token_stored,
			last_update_time = EXCLUDED.last_update_time,
			reflection_per_token_stored = EXCLUDED.reflection_per_token_stored,
			last_reflection_update_time = EXCLUDED.last_reflection_update_time,
			last_reflection_balance = EXCLUDED.last_reflection_balance,
			referrer = EXCLUDED.referrer,
			referrer_split_bps = EXCLUDED.referrer_split_bps,
			is_paused = EXCLUDED.is_paused,
			deposit_paused = EXCLUDED.deposit_paused,
			withdraw_paused = EXCLUDED.withdraw_paused,
			claim_paused = EXCLUDED.claim_paused,
			is_initialized = EXCLUDED.is_initialized
	`

	_, err := s.pool.Exec(ctx, query, projectArgs(p)...)
	if err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	return nil
}

// GetByID retrieves a project by its ID. Returns ErrNotFound if not exists.
func (s *ProjectStore) GetByID(ctx context.Context, projectID string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE project_id = $1`

	row := s.pool.QueryRow(ctx, query, projectID)
	p, err := scanProject(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get project by id: %w", err)
	}
	return p, nil
}

// GetByMint retrieves all projects staking a given mint.
func (s *ProjectStore) GetByMint(ctx context.Context, mint string) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE token_mint = $1 ORDER BY project_id ASC`

	rows, err := s.pool.Query(ctx, query, mint)
	if err != nil {
		return nil, fmt.Errorf("get projects by mint: %w", err)
	}
	defer rows.Close()

	return scanProjects(rows)
}

// List retrieves all projects ordered by project_id.
func (s *ProjectStore) List(ctx context.Context) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY project_id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	return scanProjects(rows)
}

// Delete removes a closed project. Returns ErrNotFound if not exists.
func (s *ProjectStore) Delete(ctx context.Context, projectID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM projects WHERE project_id = $1`, projectID)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func projectArgs(p *domain.Project) []any {
	return []any{
		p.ProjectID, p.Admin, p.TokenMint, int64(p.PoolID),
		p.StakingVault, p.RewardVault, p.ReflectionVault, p.ReflectionToken,
		int64(p.TotalStaked), int64(p.TotalRewardsDeposited), int64(p.TotalRewardsClaimed), int64(p.TotalReflectionDebt),
		string(p.RateMode), int64(p.RateBpsPerYear), int64(p.RewardRatePerSecond), int64(p.LockupSeconds),
		p.PoolStartTime, p.PoolEndTime, int64(p.PoolDurationSeconds),
		int64(p.RewardPerTokenStored), p.LastUpdateTime,
		int64(p.ReflectionPerTokenStored), p.LastReflectionUpdateTime, int64(p.LastReflectionBalance),
		p.Referrer, int64(p.ReferrerSplitBps),
		p.Paused, p.DepositPaused, p.WithdrawPaused, p.ClaimPaused, p.Initialized,
	}
}

// scanProject scans a single row into a Project.
func scanProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	var rateMode string
	var poolID, totalStaked, rewardsDeposited, rewardsClaimed, reflectionDebt int64
	var rateBps, ratePerSecond, lockup, duration int64
	var rewardStored, reflectionStored, reflectionBalance, splitBps int64

	err := row.Scan(
		&p.ProjectID, &p.Admin, &p.TokenMint, &poolID,
		&p.StakingVault, &p.RewardVault, &p.ReflectionVault, &p.ReflectionToken,
		&totalStaked, &rewardsDeposited, &rewardsClaimed, &reflectionDebt,
		&rateMode, &rateBps, &ratePerSecond, &lockup,
		&p.PoolStartTime, &p.PoolEndTime, &duration,
		&rewardStored, &p.LastUpdateTime,
		&reflectionStored, &p.LastReflectionUpdateTime, &reflectionBalance,
		&p.Referrer, &splitBps,
		&p.Paused, &p.DepositPaused, &p.WithdrawPaused, &p.ClaimPaused, &p.Initialized,
	)
	if err != nil {
		return nil, err
	}

	p.PoolID = uint64(poolID)
	p.TotalStaked = uint64(totalStaked)
	p.TotalRewardsDeposited = uint64(rewardsDeposited)
	p.TotalRewardsClaimed = uint64(rewardsClaimed)
	p.TotalReflectionDebt = uint64(reflectionDebt)
	p.RateMode = domain.RateMode(rateMode)
	p.RateBpsPerYear = uint64(rateBps)
	p.RewardRatePerSecond = uint64(ratePerSecond)
	p.LockupSeconds = uint64(lockup)
	p.PoolDurationSeconds = uint64(duration)
	p.RewardPerTokenStored = uint64(rewardStored)
	p.ReflectionPerTokenStored = uint64(reflectionStored)
	p.LastReflectionBalance = uint64(reflectionBalance)
	p.ReferrerSplitBps = uint64(splitBps)
	return &p, nil
}

// scanProjects scans multiple rows into a slice of Project.
func scanProjects(rows pgx.Rows) ([]*domain.Project, error) {
	var projects []*domain.Project

	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project row: %w", err)
		}
		projects = append(projects, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate project rows: %w", err)
	}
	return projects, nil
}
