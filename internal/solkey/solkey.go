// Package solkey handles Solana-style addresses and deterministic record
// keys. Addresses are 32 bytes, base58-encoded; record keys are derived the
// way the on-chain program derives PDAs, from a seed tag and the
// identifying fields, so a project or stake has the same key on every node.
package solkey

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// Address validation errors.
var (
	ErrInvalidAddress = errors.New("solkey: invalid address")
)

// Validate checks that addr is valid base58 decoding to exactly 32 bytes.
func Validate(addr string) error {
	raw, err := base58.Decode(addr)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAddress, addr)
	}
	if len(raw) != 32 {
		return fmt.Errorf("%w: %s decodes to %d bytes", ErrInvalidAddress, addr, len(raw))
	}
	return nil
}

// IsOnCurve reports whether addr decodes to a point on the ed25519 curve.
// Wallet addresses are on-curve; program-derived addresses are not.
func IsOnCurve(addr string) bool {
	raw, err := base58.Decode(addr)
	if err != nil || len(raw) != 32 {
		return false
	}
	_, err = new(edwards25519.Point).SetBytes(raw)
	return err == nil
}

// ValidateWallet checks that addr is a well-formed address that is also on
// the curve. Signing identities must pass this; derived accounts cannot
// sign and are rejected.
func ValidateWallet(addr string) error {
	if err := Validate(addr); err != nil {
		return err
	}
	if !IsOnCurve(addr) {
		return fmt.Errorf("%w: %s is not an ed25519 key", ErrInvalidAddress, addr)
	}
	return nil
}

// ProjectID derives the deterministic record key for a (token mint, pool id)
// pair.
func ProjectID(tokenMint string, poolID uint64) string {
	return derive("project", []byte(tokenMint), uint64le(poolID))
}

// StakeID derives the deterministic record key for a (project, user) pair.
func StakeID(projectID, user string) string {
	return derive("stake", []byte(projectID), []byte(user))
}

// VaultID derives the deterministic key for one of a project's vaults.
// Tag is "staking_vault", "reward_vault" or "reflection_vault".
func VaultID(tag, projectID string) string {
	return derive(tag, []byte(projectID))
}

// derive hashes the tag and seeds and encodes the digest as base58.
func derive(tag string, seeds ...[]byte) string {
	h := sha256.New()
	h.Write([]byte(tag))
	for _, seed := range seeds {
		h.Write([]byte{'|'})
		h.Write(seed)
	}
	return base58.Encode(h.Sum(nil))
}

func uint64le(v uint64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return buf[:]
}
