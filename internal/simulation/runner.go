package simulation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"solana-staking-ledger/internal/domain"
	"solana-staking-ledger/internal/ledger"
	"solana-staking-ledger/internal/service"
	"solana-staking-ledger/internal/storage/memory"
	"solana-staking-ledger/internal/vault"
)

// ErrScenarioFailed is returned when any step fails or an expectation does
// not hold.
var ErrScenarioFailed = errors.New("simulation: scenario failed")

// Runner executes scenarios against a fresh in-memory ledger per run.
type Runner struct {
	log *zap.Logger
}

// NewRunner creates a scenario runner.
func NewRunner(log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{log: log}
}

// StepResult records one executed step.
type StepResult struct {
	Index int    `json:"index"`
	Op    string `json:"op"`
	Error string `json:"error,omitempty"`

	// Event is the ledger event the step produced, if any.
	Event *domain.Event `json:"event,omitempty"`
}

// ProjectSummary is the final aggregate state of one project.
type ProjectSummary struct {
	Alias                string `json:"alias"`
	ProjectID            string `json:"project_id"`
	TotalStaked          uint64 `json:"total_staked"`
	TotalRewardsClaimed  uint64 `json:"total_rewards_claimed"`
	StakingVaultBalance  uint64 `json:"staking_vault_balance"`
	RewardVaultBalance   uint64 `json:"reward_vault_balance"`
	RewardPerTokenStored uint64 `json:"reward_per_token_stored"`
}

// RunResult is the outcome of a scenario run.
type RunResult struct {
	Scenario string           `json:"scenario"`
	Steps    []StepResult     `json:"steps"`
	Events   int              `json:"events"`
	Failures []string         `json:"failures,omitempty"`
	Projects []ProjectSummary `json:"projects"`
}

// Failed reports whether the run had any failure.
func (r *RunResult) Failed() bool {
	return len(r.Failures) > 0
}

// run holds the mutable state of one scenario execution.
type run struct {
	svc      *service.Service
	assets   *vault.MemoryLedger
	now      int64
	projects map[string]*domain.Project // alias -> created project
	events   int
}

type eventCounter struct {
	n *int
}

func (c eventCounter) Broadcast(*domain.Event) { *c.n++ }

// Run executes a scenario and returns its result. The returned error is
// ErrScenarioFailed when steps or expectations failed; the result carries
// the detail either way.
func (r *Runner) Run(ctx context.Context, sc *Scenario) (*RunResult, error) {
	st := &run{
		assets:   vault.NewMemoryLedger(),
		now:      sc.StartTime,
		projects: make(map[string]*domain.Project),
	}
	st.svc = service.New(service.Options{
		Platform:    memory.NewPlatformStore(),
		Projects:    memory.NewProjectStore(),
		Stakes:      memory.NewStakeStore(),
		Journal:     memory.NewEventJournal(),
		Snapshots:   memory.NewSnapshotStore(),
		Mover:       st.assets,
		Broadcaster: eventCounter{n: &st.events},
		Now:         func() int64 { return st.now },
	})

	result := &RunResult{Scenario: sc.Name}

	if sc.Platform.Admin != "" {
		if _, err := st.svc.InitializePlatform(ctx, sc.Platform.Admin, sc.Platform.FeeCollector,
			sc.Platform.TokenFeeBps, sc.Platform.NativeFee); err != nil {
			result.Failures = append(result.Failures, fmt.Sprintf("platform setup: %v", err))
			return result, ErrScenarioFailed
		}
	}

	for i, step := range sc.Steps {
		sr := StepResult{Index: i, Op: step.Op}
		event, err := st.apply(ctx, step)
		sr.Event = event

		switch {
		case step.ExpectError != "":
			if err == nil {
				sr.Error = "expected error, got success"
				result.Failures = append(result.Failures, fmt.Sprintf("step %d (%s): expected error %q, got success", i, step.Op, step.ExpectError))
			} else if !strings.Contains(err.Error(), step.ExpectError) {
				sr.Error = err.Error()
				result.Failures = append(result.Failures, fmt.Sprintf("step %d (%s): expected error %q, got %q", i, step.Op, step.ExpectError, err))
			}
		case err != nil:
			sr.Error = err.Error()
			result.Failures = append(result.Failures, fmt.Sprintf("step %d (%s): %v", i, step.Op, err))
		}

		result.Steps = append(result.Steps, sr)
		if err != nil && step.ExpectError == "" {
			break
		}
	}

	result.Events = st.events
	st.summarize(ctx, result)

	r.log.Info("scenario finished",
		zap.String("scenario", sc.Name),
		zap.Int("steps", len(result.Steps)),
		zap.Int("failures", len(result.Failures)))

	if result.Failed() {
		return result, ErrScenarioFailed
	}
	return result, nil
}

// summarize captures final project state and checks that every staking
// vault holds exactly the staked total.
func (st *run) summarize(ctx context.Context, result *RunResult) {
	for alias, created := range st.projects {
		p, err := st.svc.Project(ctx, created.ProjectID)
		if err != nil {
			// Closed projects are gone from the store; report the vaults only.
			p = created
		}
		staking := st.assets.BalanceOf(p.StakedAsset(), p.StakingVault)
		result.Projects = append(result.Projects, ProjectSummary{
			Alias:                alias,
			ProjectID:            p.ProjectID,
			TotalStaked:          p.TotalStaked,
			TotalRewardsClaimed:  p.TotalRewardsClaimed,
			StakingVaultBalance:  staking,
			RewardVaultBalance:   st.assets.BalanceOf(p.StakedAsset(), p.RewardVault),
			RewardPerTokenStored: p.RewardPerTokenStored,
		})
		if staking != p.TotalStaked {
			result.Failures = append(result.Failures,
				fmt.Sprintf("project %s: staking vault holds %d, ledger says %d", alias, staking, p.TotalStaked))
		}
	}
}

func (st *run) projectID(alias string) (string, error) {
	p, ok := st.projects[alias]
	if !ok {
		return "", fmt.Errorf("unknown project alias %q", alias)
	}
	return p.ProjectID, nil
}

func assetOf(mintAlias string) domain.Asset {
	if mintAlias == "" {
		return domain.NativeAsset()
	}
	return domain.FungibleAsset(DeriveMint(mintAlias))
}

// apply executes one step. Steps that emit no ledger event return a nil
// event.
func (st *run) apply(ctx context.Context, step Step) (*domain.Event, error) {
	switch step.Op {
	case "fund":
		st.assets.Fund(assetOf(step.Mint), step.Account, step.Amount)
		return nil, nil

	case "tax":
		st.assets.SetTransferTax(DeriveMint(step.Mint), step.Bps)
		return nil, nil

	case "advance":
		st.now += step.Seconds
		return nil, nil

	case "create_project":
		if step.As == "" {
			return nil, fmt.Errorf("create_project needs an alias")
		}
		p, e, err := st.svc.CreateProject(ctx, step.Admin, DeriveMint(step.Mint), step.PoolID)
		if err != nil {
			return nil, err
		}
		st.projects[step.As] = p
		st.assets.SetAuthority(p.StakingVault, p.ProjectID)
		st.assets.SetAuthority(p.RewardVault, p.ProjectID)
		return e, nil

	case "initialize_pool":
		pid, err := st.projectID(step.Project)
		if err != nil {
			return nil, err
		}
		var reflectionToken string
		if step.ReflectionToken != "" {
			reflectionToken = DeriveMint(step.ReflectionToken)
		}
		e, err := st.svc.InitializePool(ctx, pid, step.Admin, ledger.PoolParams{
			RateMode:            domain.RateMode(step.RateMode),
			RateBpsPerYear:      step.RateBpsPerYear,
			LockupSeconds:       step.LockupSeconds,
			PoolDurationSeconds: step.PoolDurationSeconds,
			Referrer:            step.Referrer,
			ReferrerSplitBps:    step.ReferrerSplitBps,
			EnableReflections:   step.EnableReflections,
			ReflectionToken:     reflectionToken,
		})
		if err != nil {
			return nil, err
		}
		st.refreshVaultAuthority(ctx, pid)
		return e, nil

	case "deposit_rewards":
		pid, err := st.projectID(step.Project)
		if err != nil {
			return nil, err
		}
		return st.svc.DepositRewards(ctx, pid, step.Admin, step.Amount)

	case "set_duration":
		pid, err := st.projectID(step.Project)
		if err != nil {
			return nil, err
		}
		return st.svc.SetPoolDuration(ctx, pid, step.Admin, step.PoolDurationSeconds)

	case "update_params":
		pid, err := st.projectID(step.Project)
		if err != nil {
			return nil, err
		}
		return st.svc.UpdatePoolParams(ctx, pid, step.Admin, step.RateBpsPerYear, step.LockupSeconds)

	case "update_referrer":
		pid, err := st.projectID(step.Project)
		if err != nil {
			return nil, err
		}
		return st.svc.UpdateReferrer(ctx, pid, step.Admin, step.Referrer, step.ReferrerSplitBps)

	case "toggle_reflections":
		pid, err := st.projectID(step.Project)
		if err != nil {
			return nil, err
		}
		var reflectionToken string
		if step.ReflectionToken != "" {
			reflectionToken = DeriveMint(step.ReflectionToken)
		}
		e, err := st.svc.ToggleReflections(ctx, pid, step.Admin, step.Enable, reflectionToken)
		if err != nil {
			return nil, err
		}
		st.refreshVaultAuthority(ctx, pid)
		return e, nil

	case "pause":
		pid, err := st.projectID(step.Project)
		if err != nil {
			return nil, err
		}
		return st.svc.SetPause(ctx, pid, step.Admin, ledger.Gate(step.Gate), step.Paused)

	case "transfer_admin":
		pid, err := st.projectID(step.Project)
		if err != nil {
			return nil, err
		}
		return st.svc.TransferAdmin(ctx, pid, step.Admin, step.NewAdmin)

	case "emergency_unlock":
		pid, err := st.projectID(step.Project)
		if err != nil {
			return nil, err
		}
		return st.svc.EmergencyUnlock(ctx, pid, step.Admin)

	case "sweep":
		pid, err := st.projectID(step.Project)
		if err != nil {
			return nil, err
		}
		return st.svc.ClaimUnclaimedTokens(ctx, pid, step.Admin, step.Vault, step.Amount)

	case "close_project":
		pid, err := st.projectID(step.Project)
		if err != nil {
			return nil, err
		}
		return st.svc.CloseProject(ctx, pid, step.Admin)

	case "deposit":
		pid, err := st.projectID(step.Project)
		if err != nil {
			return nil, err
		}
		return st.svc.Deposit(ctx, service.DepositRequest{
			ProjectID:        pid,
			User:             step.User,
			WithdrawalWallet: step.WithdrawalWallet,
			Referrer:         step.Referrer,
			Amount:           step.Amount,
		})

	case "withdraw":
		pid, err := st.projectID(step.Project)
		if err != nil {
			return nil, err
		}
		return st.svc.Withdraw(ctx, pid, step.User, step.Referrer, step.Amount)

	case "claim":
		pid, err := st.projectID(step.Project)
		if err != nil {
			return nil, err
		}
		return st.svc.Claim(ctx, pid, step.User, step.Referrer)

	case "claim_reflections":
		pid, err := st.projectID(step.Project)
		if err != nil {
			return nil, err
		}
		return st.svc.ClaimReflections(ctx, pid, step.User, step.Referrer)

	case "refresh_reflections":
		pid, err := st.projectID(step.Project)
		if err != nil {
			return nil, err
		}
		return nil, st.svc.RefreshReflections(ctx, pid, step.User)

	case "emergency_return":
		pid, err := st.projectID(step.Project)
		if err != nil {
			return nil, err
		}
		return st.svc.EmergencyReturnStake(ctx, pid, step.User, step.Admin)

	case "expect_balance":
		want := step.Amount
		if step.ExpectAmount != nil {
			want = *step.ExpectAmount
		}
		got := st.assets.BalanceOf(assetOf(step.Mint), step.Account)
		if got != want {
			return nil, fmt.Errorf("balance of %s: got %d, want %d", step.Account, got, want)
		}
		return nil, nil

	case "expect_stake":
		pid, err := st.projectID(step.Project)
		if err != nil {
			return nil, err
		}
		s, err := st.svc.Stake(ctx, pid, step.User)
		if err != nil {
			return nil, err
		}
		want := step.Amount
		if step.ExpectAmount != nil {
			want = *step.ExpectAmount
		}
		if s.Amount != want {
			return nil, fmt.Errorf("stake of %s: got %d, want %d", step.User, s.Amount, want)
		}
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown op %q", step.Op)
	}
}

// refreshVaultAuthority hands a newly derived reflection vault to the
// project key.
func (st *run) refreshVaultAuthority(ctx context.Context, projectID string) {
	p, err := st.svc.Project(ctx, projectID)
	if err != nil {
		return
	}
	if p.ReflectionVault != "" {
		st.assets.SetAuthority(p.ReflectionVault, p.ProjectID)
	}
}
