package vault

import (
	"context"
	"sync"

	"solana-staking-ledger/internal/domain"
	"solana-staking-ledger/internal/fixedpoint"
)

// MemoryLedger is an in-memory Mover. It models account balances per asset,
// account authorities, and per-mint transfer taxes so fee-on-transfer
// behavior can be exercised without a chain.
type MemoryLedger struct {
	mu          sync.Mutex
	balances    map[assetKey]map[string]uint64
	authorities map[string]string // account -> authority; self when absent
	taxBps      map[string]uint64 // mint -> transfer tax in bps
}

type assetKey struct {
	kind domain.AssetKind
	mint string
}

// NewMemoryLedger creates an empty in-memory asset ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		balances:    make(map[assetKey]map[string]uint64),
		authorities: make(map[string]string),
		taxBps:      make(map[string]uint64),
	}
}

// Compile-time interface check.
var _ Mover = (*MemoryLedger)(nil)

// Fund credits an account directly, outside any transaction. Test and
// simulation setup only.
func (l *MemoryLedger) Fund(asset domain.Asset, account string, amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.creditLocked(l.balances, asset, account, amount)
}

// SetAuthority assigns control of an account to an authority. Accounts
// without an explicit authority are controlled by themselves.
func (l *MemoryLedger) SetAuthority(account, authority string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.authorities[account] = authority
}

// SetTransferTax configures a transfer tax in bps for a fungible mint.
// Transfers of that mint deliver amount minus tax to the destination.
func (l *MemoryLedger) SetTransferTax(mint string, bps uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.taxBps[mint] = bps
}

// BalanceOf returns the committed balance. Test helper.
func (l *MemoryLedger) BalanceOf(asset domain.Asset, account string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[keyOf(asset)][account]
}

// Begin opens a transaction over a snapshot of the committed balances.
func (l *MemoryLedger) Begin(_ context.Context) (Tx, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	staged := make(map[assetKey]map[string]uint64, len(l.balances))
	for k, accounts := range l.balances {
		cp := make(map[string]uint64, len(accounts))
		for acct, bal := range accounts {
			cp[acct] = bal
		}
		staged[k] = cp
	}
	return &memoryTx{ledger: l, staged: staged}, nil
}

func (l *MemoryLedger) creditLocked(m map[assetKey]map[string]uint64, asset domain.Asset, account string, amount uint64) {
	k := keyOf(asset)
	if m[k] == nil {
		m[k] = make(map[string]uint64)
	}
	m[k][account] += amount
}

func keyOf(asset domain.Asset) assetKey {
	return assetKey{kind: asset.Kind, mint: asset.Mint}
}

// memoryTx stages transfers against a balance snapshot.
type memoryTx struct {
	ledger *MemoryLedger
	staged map[assetKey]map[string]uint64
	done   bool
}

// Move stages a transfer. The received amount is the requested amount minus
// any configured transfer tax for the mint.
func (tx *memoryTx) Move(_ context.Context, t Transfer) (uint64, error) {
	if tx.done {
		return 0, ErrTransferFailed
	}
	if t.Amount == 0 {
		return 0, nil
	}

	tx.ledger.mu.Lock()
	authority, ok := tx.ledger.authorities[t.From]
	tax := tx.ledger.taxBps[t.Asset.Mint]
	tx.ledger.mu.Unlock()
	if !ok {
		authority = t.From
	}
	if t.Authority != authority {
		return 0, ErrUnauthorized
	}

	k := keyOf(t.Asset)
	if tx.staged[k] == nil {
		tx.staged[k] = make(map[string]uint64)
	}
	if tx.staged[k][t.From] < t.Amount {
		return 0, ErrInsufficientFunds
	}

	received := t.Amount
	if t.Asset.Kind == domain.AssetFungible && tax > 0 {
		taxed, err := fixedpoint.MulDiv(t.Amount, tax, 10_000)
		if err != nil {
			return 0, err
		}
		received, err = fixedpoint.Sub(t.Amount, taxed)
		if err != nil {
			return 0, err
		}
	}

	tx.staged[k][t.From] -= t.Amount
	tx.staged[k][t.To] += received
	return received, nil
}

// Balance reads the staged balance.
func (tx *memoryTx) Balance(_ context.Context, asset domain.Asset, account string) (uint64, error) {
	if tx.done {
		return 0, ErrTransferFailed
	}
	return tx.staged[keyOf(asset)][account], nil
}

// Commit publishes the staged balances.
func (tx *memoryTx) Commit(_ context.Context) error {
	if tx.done {
		return ErrTransferFailed
	}
	tx.done = true

	tx.ledger.mu.Lock()
	defer tx.ledger.mu.Unlock()
	tx.ledger.balances = tx.staged
	return nil
}

// Rollback discards the staged balances.
func (tx *memoryTx) Rollback(_ context.Context) error {
	tx.done = true
	return nil
}
