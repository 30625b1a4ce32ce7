// Package vault abstracts the external asset-custody collaborator. The
// ledger never holds funds itself; it instructs a Mover to shift balances
// between accounts and trusts the Mover's atomicity: every operation runs
// inside a single mover transaction that commits or rolls back as a unit
// with the ledger's own record mutations.
package vault

import (
	"context"
	"errors"

	"solana-staking-ledger/internal/domain"
)

// Mover errors.
var (
	// ErrInsufficientFunds is returned when the source account cannot
	// cover the requested amount.
	ErrInsufficientFunds = errors.New("vault: insufficient funds")

	// ErrUnauthorized is returned when the supplied authority does not
	// control the source account.
	ErrUnauthorized = errors.New("vault: unauthorized")

	// ErrTransferFailed covers custody-side failures that are not a
	// balance or authority problem.
	ErrTransferFailed = errors.New("vault: transfer failed")
)

// Transfer describes one asset movement.
type Transfer struct {
	Asset  domain.Asset
	Amount uint64
	From   string
	To     string

	// Authority must control From. User wallets are their own authority;
	// project vaults are controlled by the project record key.
	Authority string
}

// Tx is a staged set of transfers. Nothing is visible to other transactions
// until Commit; Rollback discards everything. Balance reads observe the
// staged state, so a settle that follows a staged transfer sees its effect.
type Tx interface {
	// Move stages a transfer and returns the amount actually received by
	// To, which may be less than Transfer.Amount for fee-on-transfer
	// assets. Callers must credit the received amount, never the
	// requested one.
	Move(ctx context.Context, t Transfer) (received uint64, err error)

	// Balance returns the staged balance of account for asset.
	Balance(ctx context.Context, asset domain.Asset, account string) (uint64, error)

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Mover opens transactions against the custody layer.
type Mover interface {
	Begin(ctx context.Context) (Tx, error)
}
