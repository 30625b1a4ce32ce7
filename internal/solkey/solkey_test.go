package solkey

import (
	"crypto/ed25519"
	"strings"
	"testing"

	"github.com/mr-tron/base58"
)

// System program address: 32 zero bytes.
const systemProgram = "11111111111111111111111111111111"

func TestValidate(t *testing.T) {
	if err := Validate(systemProgram); err != nil {
		t.Errorf("Validate(system program) = %v", err)
	}

	if err := Validate("not-base58-!!"); err == nil {
		t.Error("expected error for non-base58 input")
	}

	// Valid base58 but wrong length.
	if err := Validate("abc"); err == nil {
		t.Error("expected error for short address")
	}
}

// walletAddr derives a real ed25519 public key, which is on-curve by
// construction.
func walletAddr(seed byte) string {
	s := make([]byte, ed25519.SeedSize)
	s[0] = seed
	pub := ed25519.NewKeyFromSeed(s).Public().(ed25519.PublicKey)
	return base58.Encode(pub)
}

// offCurveAddr searches for a 32-byte value that does not decode to a
// curve point, the way derived program addresses are found.
func offCurveAddr(t *testing.T) string {
	t.Helper()
	for i := 0; i < 256; i++ {
		buf := make([]byte, 32)
		buf[0] = byte(i)
		if addr := base58.Encode(buf); !IsOnCurve(addr) {
			return addr
		}
	}
	t.Fatal("no off-curve candidate in 256 tries")
	return ""
}

func TestIsOnCurve(t *testing.T) {
	if !IsOnCurve(walletAddr(7)) {
		t.Error("ed25519 public key reported off-curve")
	}
	if IsOnCurve(offCurveAddr(t)) {
		t.Error("off-curve bytes reported on-curve")
	}
	if IsOnCurve("not-base58-!!") {
		t.Error("invalid base58 reported on-curve")
	}
	if IsOnCurve("abc") {
		t.Error("short address reported on-curve")
	}
}

func TestValidateWallet(t *testing.T) {
	if err := ValidateWallet(walletAddr(1)); err != nil {
		t.Errorf("ValidateWallet(ed25519 key) = %v", err)
	}
	if err := ValidateWallet(offCurveAddr(t)); err == nil {
		t.Error("expected error for off-curve address")
	}
	if err := ValidateWallet("not-base58-!!"); err == nil {
		t.Error("expected error for non-base58 input")
	}
}

func TestProjectID_Deterministic(t *testing.T) {
	a := ProjectID("So11111111111111111111111111111111111111112", 1)
	b := ProjectID("So11111111111111111111111111111111111111112", 1)
	if a != b {
		t.Errorf("same inputs produced different ids: %s vs %s", a, b)
	}
	if a == "" || strings.ContainsAny(a, "0OIl") {
		t.Errorf("id %q is not valid base58", a)
	}
}

func TestProjectID_DistinguishesPools(t *testing.T) {
	mint := "So11111111111111111111111111111111111111112"
	if ProjectID(mint, 1) == ProjectID(mint, 2) {
		t.Error("different pool ids produced the same project id")
	}
	if ProjectID(mint, 1) == ProjectID("other", 1) {
		t.Error("different mints produced the same project id")
	}
}

func TestStakeID_DistinguishesUsers(t *testing.T) {
	project := ProjectID("mint", 1)
	if StakeID(project, "alice") == StakeID(project, "bob") {
		t.Error("different users produced the same stake id")
	}
}

func TestVaultID_DistinguishesTags(t *testing.T) {
	project := ProjectID("mint", 1)
	staking := VaultID("staking_vault", project)
	reward := VaultID("reward_vault", project)
	if staking == reward {
		t.Error("different vault tags produced the same id")
	}
}
