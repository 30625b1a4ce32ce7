package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"solana-staking-ledger/internal/domain"
	"solana-staking-ledger/internal/ledger"
	"solana-staking-ledger/internal/service"
	"solana-staking-ledger/internal/solkey"
	"solana-staking-ledger/internal/storage"
	"solana-staking-ledger/internal/vault"
)

// api exposes the ledger service over HTTP.
type api struct {
	svc    *service.Service
	assets *vault.MemoryLedger
	log    *zap.Logger
}

// routes registers all API endpoints on mux.
func (a *api) routes(mux *http.ServeMux) {
	// Platform
	mux.HandleFunc("POST /v1/platform/init", a.handleInitPlatform)
	mux.HandleFunc("POST /v1/platform/fees", a.handleSetFees)
	mux.HandleFunc("POST /v1/platform/fee-collector", a.handleFeeCollector)
	mux.HandleFunc("GET /v1/platform", a.handleGetPlatform)

	// Projects and pools
	mux.HandleFunc("POST /v1/projects", a.handleCreateProject)
	mux.HandleFunc("GET /v1/projects", a.handleListProjects)
	mux.HandleFunc("GET /v1/projects/{id}", a.handleGetProject)
	mux.HandleFunc("POST /v1/projects/{id}/pool", a.handleInitPool)
	mux.HandleFunc("POST /v1/projects/{id}/rewards", a.handleDepositRewards)
	mux.HandleFunc("POST /v1/projects/{id}/duration", a.handleSetDuration)
	mux.HandleFunc("POST /v1/projects/{id}/params", a.handleUpdateParams)
	mux.HandleFunc("POST /v1/projects/{id}/referrer", a.handleUpdateReferrer)
	mux.HandleFunc("POST /v1/projects/{id}/reflections", a.handleToggleReflections)
	mux.HandleFunc("POST /v1/projects/{id}/pause", a.handleSetPause)
	mux.HandleFunc("POST /v1/projects/{id}/admin", a.handleTransferAdmin)
	mux.HandleFunc("POST /v1/projects/{id}/unlock", a.handleEmergencyUnlock)
	mux.HandleFunc("POST /v1/projects/{id}/sweep", a.handleSweep)
	mux.HandleFunc("POST /v1/projects/{id}/close", a.handleCloseProject)

	// User operations
	mux.HandleFunc("POST /v1/projects/{id}/deposit", a.handleDeposit)
	mux.HandleFunc("POST /v1/projects/{id}/withdraw", a.handleWithdraw)
	mux.HandleFunc("POST /v1/projects/{id}/claim", a.handleClaim)
	mux.HandleFunc("POST /v1/projects/{id}/claim-reflections", a.handleClaimReflections)
	mux.HandleFunc("POST /v1/projects/{id}/refresh-reflections", a.handleRefreshReflections)
	mux.HandleFunc("POST /v1/projects/{id}/emergency-return", a.handleEmergencyReturn)

	// Queries
	mux.HandleFunc("GET /v1/projects/{id}/stakes", a.handleProjectStakes)
	mux.HandleFunc("GET /v1/projects/{id}/stakes/{user}", a.handleStake)
	mux.HandleFunc("GET /v1/projects/{id}/events", a.handleProjectEvents)
	mux.HandleFunc("GET /v1/projects/{id}/snapshots", a.handleProjectSnapshots)
	mux.HandleFunc("GET /v1/users/{user}/stakes", a.handleUserStakes)
	mux.HandleFunc("GET /v1/users/{user}/events", a.handleUserEvents)

	// Custody administration (in-process asset ledger)
	mux.HandleFunc("POST /v1/vault/fund", a.handleFund)
	mux.HandleFunc("POST /v1/vault/authority", a.handleAuthority)
	mux.HandleFunc("POST /v1/vault/tax", a.handleTax)
	mux.HandleFunc("GET /v1/vault/balance", a.handleBalance)
}

func (a *api) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.log.Warn("write response failed", zap.Error(err))
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain errors onto HTTP status codes.
func (a *api) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ledger.ErrUnauthorized), errors.Is(err, vault.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, ledger.ErrAlreadyInitialized), errors.Is(err, storage.ErrDuplicateKey):
		status = http.StatusConflict
	case errors.Is(err, ledger.ErrVaultIlliquid), errors.Is(err, vault.ErrInsufficientFunds):
		status = http.StatusConflict
	case errors.Is(err, storage.ErrInvalidInput), errors.Is(err, solkey.ErrInvalidAddress):
		status = http.StatusBadRequest
	default:
		// All remaining ledger validation errors are client errors.
		if isLedgerError(err) {
			status = http.StatusUnprocessableEntity
		}
	}
	a.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func isLedgerError(err error) bool {
	for _, e := range []error{
		ledger.ErrInvalidAmount, ledger.ErrInvalidDuration, ledger.ErrInvalidRateMode,
		ledger.ErrInvalidReferrer, ledger.ErrInvalidSplit, ledger.ErrInvalidVault,
		ledger.ErrInvalidGate, ledger.ErrNotInitialized, ledger.ErrPaused,
		ledger.ErrDepositsPaused, ledger.ErrWithdrawalsPaused, ledger.ErrClaimsPaused,
		ledger.ErrPoolEnded, ledger.ErrLockupNotExpired, ledger.ErrNoStake,
		ledger.ErrInsufficientStake, ledger.ErrInconsistentTotal,
		ledger.ErrNothingToClaim, ledger.ErrReflectionsDisabled, ledger.ErrActiveStakes,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// requireWallets rejects the request when any non-empty address is not an
// on-curve signing key. Derived accounts cannot sign operations.
func (a *api) requireWallets(w http.ResponseWriter, addrs ...string) bool {
	for _, addr := range addrs {
		if addr == "" {
			continue
		}
		if err := solkey.ValidateWallet(addr); err != nil {
			a.writeError(w, err)
			return false
		}
	}
	return true
}

func (a *api) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		a.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

// timeRange parses optional start/end query parameters, defaulting to the
// full range.
func timeRange(r *http.Request) (int64, int64, error) {
	start, end := int64(0), int64(1<<62)
	if v := r.URL.Query().Get("start"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, 0, err
		}
		start = n
	}
	if v := r.URL.Query().Get("end"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, 0, err
		}
		end = n
	}
	return start, end, nil
}

func (a *api) handleInitPlatform(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Admin        string `json:"admin"`
		FeeCollector string `json:"fee_collector"`
		TokenFeeBps  uint64 `json:"token_fee_bps"`
		NativeFee    uint64 `json:"native_fee"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	e, err := a.svc.InitializePlatform(r.Context(), req.Admin, req.FeeCollector, req.TokenFeeBps, req.NativeFee)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, e)
}

func (a *api) handleSetFees(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Admin       string `json:"admin"`
		TokenFeeBps uint64 `json:"token_fee_bps"`
		NativeFee   uint64 `json:"native_fee"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	e, err := a.svc.SetFees(r.Context(), req.Admin, req.TokenFeeBps, req.NativeFee)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, e)
}

func (a *api) handleFeeCollector(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Admin        string `json:"admin"`
		FeeCollector string `json:"fee_collector"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	e, err := a.svc.UpdateFeeCollector(r.Context(), req.Admin, req.FeeCollector)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, e)
}

func (a *api) handleGetPlatform(w http.ResponseWriter, r *http.Request) {
	plat, err := a.svc.Platform(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, plat)
}

func (a *api) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Admin     string `json:"admin"`
		TokenMint string `json:"token_mint"`
		PoolID    uint64 `json:"pool_id"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	if !a.requireWallets(w, req.Admin) {
		return
	}
	p, _, err := a.svc.CreateProject(r.Context(), req.Admin, req.TokenMint, req.PoolID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	// Project vaults are custody accounts controlled by the project key.
	a.assets.SetAuthority(p.StakingVault, p.ProjectID)
	a.assets.SetAuthority(p.RewardVault, p.ProjectID)
	a.writeJSON(w, http.StatusCreated, p)
}

func (a *api) handleListProjects(w http.ResponseWriter, r *http.Request) {
	if mint := r.URL.Query().Get("mint"); mint != "" {
		projects, err := a.svc.ProjectsByMint(r.Context(), mint)
		if err != nil {
			a.writeError(w, err)
			return
		}
		a.writeJSON(w, http.StatusOK, projects)
		return
	}
	projects, err := a.svc.Projects(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, projects)
}

func (a *api) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := a.svc.Project(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, p)
}

func (a *api) handleInitPool(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Admin               string `json:"admin"`
		RateMode            string `json:"rate_mode"`
		RateBpsPerYear      uint64 `json:"rate_bps_per_year"`
		LockupSeconds       uint64 `json:"lockup_seconds"`
		PoolDurationSeconds uint64 `json:"pool_duration_seconds"`
		Referrer            string `json:"referrer"`
		ReferrerSplitBps    uint64 `json:"referrer_split_bps"`
		EnableReflections   bool   `json:"enable_reflections"`
		ReflectionToken     string `json:"reflection_token"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	e, err := a.svc.InitializePool(r.Context(), r.PathValue("id"), req.Admin, ledger.PoolParams{
		RateMode:            domain.RateMode(req.RateMode),
		RateBpsPerYear:      req.RateBpsPerYear,
		LockupSeconds:       req.LockupSeconds,
		PoolDurationSeconds: req.PoolDurationSeconds,
		Referrer:            req.Referrer,
		ReferrerSplitBps:    req.ReferrerSplitBps,
		EnableReflections:   req.EnableReflections,
		ReflectionToken:     req.ReflectionToken,
	})
	if err != nil {
		a.writeError(w, err)
		return
	}
	if p, perr := a.svc.Project(r.Context(), r.PathValue("id")); perr == nil && p.ReflectionVault != "" {
		a.assets.SetAuthority(p.ReflectionVault, p.ProjectID)
	}
	a.writeJSON(w, http.StatusOK, e)
}

func (a *api) handleDepositRewards(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Admin  string `json:"admin"`
		Amount uint64 `json:"amount"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	e, err := a.svc.DepositRewards(r.Context(), r.PathValue("id"), req.Admin, req.Amount)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, e)
}

func (a *api) handleSetDuration(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Admin           string `json:"admin"`
		DurationSeconds uint64 `json:"duration_seconds"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	e, err := a.svc.SetPoolDuration(r.Context(), r.PathValue("id"), req.Admin, req.DurationSeconds)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, e)
}

func (a *api) handleUpdateParams(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Admin          string `json:"admin"`
		RateBpsPerYear uint64 `json:"rate_bps_per_year"`
		LockupSeconds  uint64 `json:"lockup_seconds"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	e, err := a.svc.UpdatePoolParams(r.Context(), r.PathValue("id"), req.Admin, req.RateBpsPerYear, req.LockupSeconds)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, e)
}

func (a *api) handleUpdateReferrer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Admin    string `json:"admin"`
		Referrer string `json:"referrer"`
		SplitBps uint64 `json:"split_bps"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	e, err := a.svc.UpdateReferrer(r.Context(), r.PathValue("id"), req.Admin, req.Referrer, req.SplitBps)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, e)
}

func (a *api) handleToggleReflections(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Admin           string `json:"admin"`
		Enable          bool   `json:"enable"`
		ReflectionToken string `json:"reflection_token"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	e, err := a.svc.ToggleReflections(r.Context(), r.PathValue("id"), req.Admin, req.Enable, req.ReflectionToken)
	if err != nil {
		a.writeError(w, err)
		return
	}
	if p, perr := a.svc.Project(r.Context(), r.PathValue("id")); perr == nil && p.ReflectionVault != "" {
		a.assets.SetAuthority(p.ReflectionVault, p.ProjectID)
	}
	a.writeJSON(w, http.StatusOK, e)
}

func (a *api) handleSetPause(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Admin  string `json:"admin"`
		Gate   string `json:"gate"`
		Paused bool   `json:"paused"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	e, err := a.svc.SetPause(r.Context(), r.PathValue("id"), req.Admin, ledger.Gate(req.Gate), req.Paused)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, e)
}

func (a *api) handleTransferAdmin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Admin    string `json:"admin"`
		NewAdmin string `json:"new_admin"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	// The new admin must be able to sign future operations.
	if !a.requireWallets(w, req.NewAdmin) {
		return
	}
	e, err := a.svc.TransferAdmin(r.Context(), r.PathValue("id"), req.Admin, req.NewAdmin)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, e)
}

func (a *api) handleEmergencyUnlock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Admin string `json:"admin"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	e, err := a.svc.EmergencyUnlock(r.Context(), r.PathValue("id"), req.Admin)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, e)
}

func (a *api) handleSweep(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Admin  string `json:"admin"`
		Vault  string `json:"vault"`
		Amount uint64 `json:"amount"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	e, err := a.svc.ClaimUnclaimedTokens(r.Context(), r.PathValue("id"), req.Admin, req.Vault, req.Amount)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, e)
}

func (a *api) handleCloseProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Admin string `json:"admin"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	e, err := a.svc.CloseProject(r.Context(), r.PathValue("id"), req.Admin)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, e)
}

func (a *api) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		User             string `json:"user"`
		WithdrawalWallet string `json:"withdrawal_wallet"`
		Referrer         string `json:"referrer"`
		Amount           uint64 `json:"amount"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	if !a.requireWallets(w, req.User) {
		return
	}
	e, err := a.svc.Deposit(r.Context(), service.DepositRequest{
		ProjectID:        r.PathValue("id"),
		User:             req.User,
		WithdrawalWallet: req.WithdrawalWallet,
		Referrer:         req.Referrer,
		Amount:           req.Amount,
	})
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, e)
}

func (a *api) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	var req struct {
		User     string `json:"user"`
		Referrer string `json:"referrer"`
		Amount   uint64 `json:"amount"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	if !a.requireWallets(w, req.User) {
		return
	}
	e, err := a.svc.Withdraw(r.Context(), r.PathValue("id"), req.User, req.Referrer, req.Amount)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, e)
}

func (a *api) handleClaim(w http.ResponseWriter, r *http.Request) {
	var req struct {
		User     string `json:"user"`
		Referrer string `json:"referrer"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	if !a.requireWallets(w, req.User) {
		return
	}
	e, err := a.svc.Claim(r.Context(), r.PathValue("id"), req.User, req.Referrer)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, e)
}

func (a *api) handleClaimReflections(w http.ResponseWriter, r *http.Request) {
	var req struct {
		User     string `json:"user"`
		Referrer string `json:"referrer"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	if !a.requireWallets(w, req.User) {
		return
	}
	e, err := a.svc.ClaimReflections(r.Context(), r.PathValue("id"), req.User, req.Referrer)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, e)
}

func (a *api) handleRefreshReflections(w http.ResponseWriter, r *http.Request) {
	var req struct {
		User string `json:"user"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	if !a.requireWallets(w, req.User) {
		return
	}
	if err := a.svc.RefreshReflections(r.Context(), r.PathValue("id"), req.User); err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *api) handleEmergencyReturn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Admin string `json:"admin"`
		User  string `json:"user"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	e, err := a.svc.EmergencyReturnStake(r.Context(), r.PathValue("id"), req.User, req.Admin)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, e)
}

func (a *api) handleProjectStakes(w http.ResponseWriter, r *http.Request) {
	stakes, err := a.svc.StakesByProject(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, stakes)
}

func (a *api) handleStake(w http.ResponseWriter, r *http.Request) {
	s, err := a.svc.Stake(r.Context(), r.PathValue("id"), r.PathValue("user"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, s)
}

func (a *api) handleProjectEvents(w http.ResponseWriter, r *http.Request) {
	start, end, err := timeRange(r)
	if err != nil {
		a.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid time range"})
		return
	}
	events, err := a.svc.ProjectEvents(r.Context(), r.PathValue("id"), start, end)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, events)
}

func (a *api) handleProjectSnapshots(w http.ResponseWriter, r *http.Request) {
	start, end, err := timeRange(r)
	if err != nil {
		a.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid time range"})
		return
	}
	snaps, err := a.svc.ProjectSnapshots(r.Context(), r.PathValue("id"), start, end)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, snaps)
}

func (a *api) handleUserStakes(w http.ResponseWriter, r *http.Request) {
	stakes, err := a.svc.StakesByUser(r.Context(), r.PathValue("user"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, stakes)
}

func (a *api) handleUserEvents(w http.ResponseWriter, r *http.Request) {
	start, end, err := timeRange(r)
	if err != nil {
		a.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid time range"})
		return
	}
	events, err := a.svc.UserEvents(r.Context(), r.PathValue("user"), start, end)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, events)
}

func assetFromMint(mint string) domain.Asset {
	if mint == "" {
		return domain.NativeAsset()
	}
	return domain.FungibleAsset(mint)
}

func (a *api) handleFund(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mint    string `json:"mint"`
		Account string `json:"account"`
		Amount  uint64 `json:"amount"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	a.assets.Fund(assetFromMint(req.Mint), req.Account, req.Amount)
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *api) handleAuthority(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Account   string `json:"account"`
		Authority string `json:"authority"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	a.assets.SetAuthority(req.Account, req.Authority)
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *api) handleTax(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mint string `json:"mint"`
		Bps  uint64 `json:"bps"`
	}
	if !a.decode(w, r, &req) {
		return
	}
	a.assets.SetTransferTax(req.Mint, req.Bps)
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *api) handleBalance(w http.ResponseWriter, r *http.Request) {
	account := r.URL.Query().Get("account")
	if account == "" {
		a.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "account is required"})
		return
	}
	balance := a.assets.BalanceOf(assetFromMint(r.URL.Query().Get("mint")), account)
	a.writeJSON(w, http.StatusOK, map[string]uint64{"balance": balance})
}
