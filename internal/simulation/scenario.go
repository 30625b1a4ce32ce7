// Package simulation runs scripted ledger scenarios against in-memory
// stores and custody. Scenarios are deterministic: they carry their own
// clock and every step either succeeds, fails as expected, or aborts the
// run.
package simulation

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mr-tron/base58"
)

// Scenario is a scripted sequence of ledger operations.
type Scenario struct {
	Name      string `json:"name"`
	StartTime int64  `json:"start_time"`

	// Platform bootstrap, applied before the first step.
	Platform PlatformSetup `json:"platform"`

	Steps []Step `json:"steps"`
}

// PlatformSetup configures the platform record for a scenario run.
type PlatformSetup struct {
	Admin        string `json:"admin"`
	FeeCollector string `json:"fee_collector"`
	TokenFeeBps  uint64 `json:"token_fee_bps"`
	NativeFee    uint64 `json:"native_fee"`
}

// Step is one scripted action. Op selects the action; the remaining fields
// are read per-op. Project references use the alias given at create_project.
type Step struct {
	Op string `json:"op"`

	// Aliases. As names a created project; Project references one.
	As      string `json:"as,omitempty"`
	Project string `json:"project,omitempty"`

	// Common actors and amounts.
	Admin    string `json:"admin,omitempty"`
	User     string `json:"user,omitempty"`
	Referrer string `json:"referrer,omitempty"`
	Amount   uint64 `json:"amount,omitempty"`

	// advance
	Seconds int64 `json:"seconds,omitempty"`

	// fund / expect_balance / tax. Mint is an alias resolved to a derived
	// mint address; empty means the native asset.
	Mint    string `json:"mint,omitempty"`
	Account string `json:"account,omitempty"`
	Bps     uint64 `json:"bps,omitempty"`

	// create_project / initialize_pool
	PoolID              uint64 `json:"pool_id,omitempty"`
	RateMode            string `json:"rate_mode,omitempty"`
	RateBpsPerYear      uint64 `json:"rate_bps_per_year,omitempty"`
	LockupSeconds       uint64 `json:"lockup_seconds,omitempty"`
	PoolDurationSeconds uint64 `json:"pool_duration_seconds,omitempty"`
	ReferrerSplitBps    uint64 `json:"referrer_split_bps,omitempty"`
	EnableReflections   bool   `json:"enable_reflections,omitempty"`
	ReflectionToken     string `json:"reflection_token,omitempty"`

	// deposit
	WithdrawalWallet string `json:"withdrawal_wallet,omitempty"`

	// pause
	Gate   string `json:"gate,omitempty"`
	Paused bool   `json:"paused,omitempty"`

	// transfer_admin
	NewAdmin string `json:"new_admin,omitempty"`

	// toggle_reflections
	Enable bool `json:"enable,omitempty"`

	// sweep
	Vault string `json:"vault,omitempty"`

	// Expectations. ExpectError substring-matches the step's error; a step
	// with ExpectError set fails the run if the operation succeeds.
	ExpectError  string  `json:"expect_error,omitempty"`
	ExpectAmount *uint64 `json:"expect_amount,omitempty"`
}

// ParseScenario decodes a scenario from JSON.
func ParseScenario(r io.Reader) (*Scenario, error) {
	var sc Scenario
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("parse scenario: no steps")
	}
	return &sc, nil
}

// DeriveMint maps a mint alias to a deterministic valid token address, so
// scenarios can use readable names.
func DeriveMint(alias string) string {
	sum := sha256.Sum256([]byte("mint:" + alias))
	return base58.Encode(sum[:])
}
