// Package htlc holds the cryptographic material and executor contract for
// hash time-locked contracts across the supported chain families.
package htlc

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/sha3"

	"github.com/unite-defi/fusion-go/chains"
)

const (
	// SecretSize is the preimage length committed on-chain.
	SecretSize = 32

	// SwapIDSize is the length of the off-chain correlation id.
	SwapIDSize = 16

	// SourceTimelock is how far ahead of now the source-chain HTLC expires.
	SourceTimelock = 2 * time.Hour

	// DestTimelockDelta is how much earlier the destination leg must expire
	// than the source leg. If the destination expired later, the responder
	// could be left exposed after the initiator reclaims the source funds.
	DestTimelockDelta = 30 * time.Minute
)

// Secret is the 32-byte preimage. It is held by the initiating client only
// and must never travel to the destination chain before reveal.
type Secret [SecretSize]byte

// Hashlock is the 32-byte hash committed on-chain.
type Hashlock [32]byte

func (h Hashlock) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

func (s Secret) Hex() string { return "0x" + hex.EncodeToString(s[:]) }

// NewSecret draws a fresh preimage from the system CSPRNG.
func NewSecret() (Secret, error) {
	var s Secret
	if _, err := rand.Read(s[:]); err != nil {
		return Secret{}, fmt.Errorf("failed to generate secret: %w", err)
	}
	return s, nil
}

// NewSwapID draws a 16-byte correlation id, hex encoded. It is independent
// of any chain's transaction hash.
func NewSwapID() (string, error) {
	var b [SwapIDSize]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("failed to generate swap id: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}

// HashFor commits the secret with the chain's native hash primitive.
// EVM-family contracts verify preimages with keccak-256, Move-based VMs
// with sha-256. A cross-family pair therefore yields two different
// hashlocks for the same secret, one per side.
func HashFor(secret Secret, chain *chains.Descriptor) Hashlock {
	var h Hashlock
	switch chain.HashAlgorithm {
	case chains.SHA256:
		h = sha256.Sum256(secret[:])
	default: // chains.Keccak256
		k := sha3.NewLegacyKeccak256()
		k.Write(secret[:])
		copy(h[:], k.Sum(nil))
	}
	return h
}

// NewTimelock returns the absolute unix-seconds deadline for the
// source-chain HTLC.
func NewTimelock(now time.Time) int64 {
	return now.Add(SourceTimelock).Unix()
}

// DestinationTimelock is the deadline this client assumes the resolver
// applies on the destination leg. The resolver wire message carries only
// the source timelock; shortening the destination leg is the resolver's
// obligation under the hand-off contract.
func DestinationTimelock(sourceTimelock int64) int64 {
	return sourceTimelock - int64(DestTimelockDelta/time.Second)
}
