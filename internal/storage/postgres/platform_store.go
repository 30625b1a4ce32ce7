package postgres

import (
	"context"
	"fmt"

	"solana-staking-ledger/internal/domain"
	"solana-staking-ledger/internal/storage"
)

// PlatformStore implements storage.PlatformStore using PostgreSQL. The
// platform is a single row pinned to id 1.
type PlatformStore struct {
	pool *Pool
}

// NewPlatformStore creates a new PlatformStore.
func NewPlatformStore(pool *Pool) *PlatformStore {
	return &PlatformStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PlatformStore = (*PlatformStore)(nil)

// Get retrieves the platform record. Returns ErrNotFound before
// platform initialization.
func (s *PlatformStore) Get(ctx context.Context) (*domain.Platform, error) {
	query := `
		SELECT admin, fee_collector, token_fee_bps, native_fee, initialized
		FROM platform
		WHERE id = 1
	`

	var p domain.Platform
	var tokenFeeBps, nativeFee int64
	err := s.pool.QueryRow(ctx, query).Scan(
		&p.Admin,
		&p.FeeCollector,
		&tokenFeeBps,
		&nativeFee,
		&p.Initialized,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get platform: %w", err)
	}

	p.TokenFeeBps = uint64(tokenFeeBps)
	p.NativeFee = uint64(nativeFee)
	return &p, nil
}

// Save upserts the platform record.
func (s *PlatformStore) Save(ctx context.Context, p *domain.Platform) error {
	query := `
		INSERT INTO platform (id, admin, fee_collector, token_fee_bps, native_fee, initialized)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			admin = EXCLUDED.admin,
			fee_collector = EXCLUDED.fee_collector,
			token_fee_bps = EXCLUDED.token_fee_bps,
			native_fee = EXCLUDED.native_fee,
			initialized = EXCLUDED.initialized
	`

	_, err := s.pool.Exec(ctx, query,
		p.Admin,
		p.FeeCollector,
		int64(p.TokenFeeBps),
		int64(p.NativeFee),
		p.Initialized,
	)
	if err != nil {
		return fmt.Errorf("save platform: %w", err)
	}
	return nil
}
