package main

import (
	"crypto/ed25519"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"solana-staking-ledger/internal/service"
	"solana-staking-ledger/internal/solkey"
	"solana-staking-ledger/internal/storage/memory"
	"solana-staking-ledger/internal/vault"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	assets := vault.NewMemoryLedger()
	svc := service.New(service.Options{
		Platform:  memory.NewPlatformStore(),
		Projects:  memory.NewProjectStore(),
		Stakes:    memory.NewStakeStore(),
		Journal:   memory.NewEventJournal(),
		Snapshots: memory.NewSnapshotStore(),
		Mover:     assets,
		Logger:    zap.NewNop(),
	})
	a := &api{svc: svc, assets: assets, log: zap.NewNop()}
	mux := http.NewServeMux()
	a.routes(mux)
	return mux
}

func post(mux *http.ServeMux, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

// signerAddr is a real ed25519 public key, on-curve by construction.
func signerAddr(seed byte) string {
	s := make([]byte, ed25519.SeedSize)
	s[0] = seed
	pub := ed25519.NewKeyFromSeed(s).Public().(ed25519.PublicKey)
	return base58.Encode(pub)
}

// derivedAddr finds a 32-byte value off the curve, like a program-derived
// account.
func derivedAddr(t *testing.T) string {
	t.Helper()
	for i := 0; i < 256; i++ {
		buf := make([]byte, 32)
		buf[0] = byte(i)
		if addr := base58.Encode(buf); !solkey.IsOnCurve(addr) {
			return addr
		}
	}
	t.Fatal("no off-curve candidate in 256 tries")
	return ""
}

func TestDepositRejectsNonSignerWallet(t *testing.T) {
	mux := newTestMux(t)

	rec := post(mux, "/v1/projects/proj-1/deposit",
		`{"user":"`+derivedAddr(t)+`","amount":100}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid address")

	rec = post(mux, "/v1/projects/proj-1/deposit",
		`{"user":"not-base58-!!","amount":100}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDepositAcceptsSignerWallet(t *testing.T) {
	mux := newTestMux(t)

	// A real key clears wallet validation; the unknown project is the
	// only failure left.
	rec := post(mux, "/v1/projects/missing/deposit",
		`{"user":"`+signerAddr(3)+`","amount":100}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTransferAdminRejectsDerivedNewAdmin(t *testing.T) {
	mux := newTestMux(t)

	rec := post(mux, "/v1/projects/proj-1/admin",
		`{"admin":"`+signerAddr(1)+`","new_admin":"`+derivedAddr(t)+`"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
