package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// IdentityPrefix tags every player identity string. The suffix is 64 hex
// characters regardless of which backend produced it.
const IdentityPrefix = "User:"

const identityBytes = 32

// LocalCredentialRecord is the durable record backing the local simulated
// backend. At most one record exists per device profile; SecretMaterial is
// generated once and never regenerated while the record exists.
type LocalCredentialRecord struct {
	Identity       string
	LocalChainID   string
	SecretMaterial string
	Balance        string
	CreatedAt      time.Time
}

// StartingBalance is the advisory balance granted to a freshly created local
// wallet, as a decimal string.
const StartingBalance = "10000"

// NewRandomIdentity derives a fresh identity from cryptographically random
// bytes, never from user input.
func NewRandomIdentity() (string, error) {
	buf := make([]byte, identityBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate identity bytes: %w", err)
	}
	return IdentityPrefix + hex.EncodeToString(buf), nil
}

// NewLocalChainID generates an opaque chain handle for a local wallet.
func NewLocalChainID() (string, error) {
	buf := make([]byte, identityBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate chain id bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// IdentityFromBridgedAddress maps a bridged provider address onto an
// identity. The mapping is reversible formatting, not a cryptographic
// derivation: the address hex is lowercased and left-padded with zeros to the
// identity width, so the original address can be read back out.
func IdentityFromBridgedAddress(address string) string {
	hexPart := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(address), "0x"))
	if len(hexPart) < identityBytes*2 {
		hexPart = strings.Repeat("0", identityBytes*2-len(hexPart)) + hexPart
	}
	return IdentityPrefix + hexPart
}
