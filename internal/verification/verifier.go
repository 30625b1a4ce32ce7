// Package verification audits ledger state: stored aggregates against the
// stake records, custody balances against the ledger's totals, and stored
// stakes against a replay of the event journal.
package verification

import (
	"context"
	"fmt"

	"solana-staking-ledger/internal/domain"
	"solana-staking-ledger/internal/storage"
)

// BalanceReader reads committed custody balances. The in-memory asset
// ledger satisfies it.
type BalanceReader interface {
	BalanceOf(asset domain.Asset, account string) uint64
}

// Divergence is one detected inconsistency.
type Divergence struct {
	ProjectID string `json:"project_id"`
	User      string `json:"user,omitempty"`
	Field     string `json:"field"`
	Expected  uint64 `json:"expected"`
	Actual    uint64 `json:"actual"`
}

func (d Divergence) String() string {
	if d.User != "" {
		return fmt.Sprintf("%s/%s %s: expected %d, got %d", d.ProjectID, d.User, d.Field, d.Expected, d.Actual)
	}
	return fmt.Sprintf("%s %s: expected %d, got %d", d.ProjectID, d.Field, d.Expected, d.Actual)
}

// Report is the outcome of an audit.
type Report struct {
	ProjectsChecked int          `json:"projects_checked"`
	StakesChecked   int          `json:"stakes_checked"`
	Divergences     []Divergence `json:"divergences,omitempty"`
}

// Clean reports whether no divergence was found.
func (r *Report) Clean() bool {
	return len(r.Divergences) == 0
}

// Verifier cross-checks stored ledger state.
type Verifier struct {
	projects storage.ProjectStore
	stakes   storage.StakeStore
	balances BalanceReader // optional: custody checks are skipped when nil
}

// NewVerifier creates a Verifier. balances may be nil when no custody
// layer is reachable.
func NewVerifier(projects storage.ProjectStore, stakes storage.StakeStore, balances BalanceReader) *Verifier {
	return &Verifier{projects: projects, stakes: stakes, balances: balances}
}

// VerifyProject audits one project:
//   - TotalStaked equals the sum of its stake amounts
//   - TotalRewardsClaimed equals the sum over its stakes
//   - the staking vault holds exactly TotalStaked
func (v *Verifier) VerifyProject(ctx context.Context, projectID string) (*Report, error) {
	p, err := v.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	report := &Report{ProjectsChecked: 1}
	v.check(ctx, p, report)
	return report, nil
}

// VerifyAll audits every project.
func (v *Verifier) VerifyAll(ctx context.Context) (*Report, error) {
	projects, err := v.projects.List(ctx)
	if err != nil {
		return nil, err
	}
	report := &Report{}
	for _, p := range projects {
		report.ProjectsChecked++
		if err := v.check(ctx, p, report); err != nil {
			return nil, err
		}
	}
	return report, nil
}

func (v *Verifier) check(ctx context.Context, p *domain.Project, report *Report) error {
	stakes, err := v.stakes.GetByProject(ctx, p.ProjectID)
	if err != nil {
		return err
	}

	var stakedSum, claimedSum uint64
	for _, s := range stakes {
		report.StakesChecked++
		stakedSum += s.Amount
		claimedSum += s.TotalRewardsClaimed
	}

	if stakedSum != p.TotalStaked {
		report.Divergences = append(report.Divergences, Divergence{
			ProjectID: p.ProjectID, Field: "total_staked",
			Expected: stakedSum, Actual: p.TotalStaked,
		})
	}
	if claimedSum != p.TotalRewardsClaimed {
		report.Divergences = append(report.Divergences, Divergence{
			ProjectID: p.ProjectID, Field: "total_rewards_claimed",
			Expected: claimedSum, Actual: p.TotalRewardsClaimed,
		})
	}

	if v.balances != nil {
		vaultBalance := v.balances.BalanceOf(p.StakedAsset(), p.StakingVault)
		if vaultBalance != p.TotalStaked {
			report.Divergences = append(report.Divergences, Divergence{
				ProjectID: p.ProjectID, Field: "staking_vault_balance",
				Expected: p.TotalStaked, Actual: vaultBalance,
			})
		}
	}
	return nil
}
