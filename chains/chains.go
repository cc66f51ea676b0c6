// Chain registry for the fusion swap service.
// Every chain a swap can touch must resolve to exactly one Descriptor here.
package chains

import (
	"fmt"
	"strings"
)

// Family groups chains that share a transaction construction model
// and a native hash primitive.
type Family string

const (
	FamilyEVM     Family = "EVM"
	FamilyAptos   Family = "MOVE_APTOS"
	FamilySui     Family = "MOVE_SUI"
	FamilyNear    Family = "NEAR"
	FamilyCosmos  Family = "COSMOS"
	FamilyTron    Family = "TRON"
	FamilyStellar Family = "STELLAR"
	FamilyTON     Family = "TON"
	FamilySolana  Family = "SOLANA"
)

// HashAlgorithm is the hash primitive an on-chain HTLC verifier
// applies to the revealed preimage.
type HashAlgorithm string

const (
	Keccak256 HashAlgorithm = "keccak256"
	SHA256    HashAlgorithm = "sha256"
)

// Ref addresses one chain. EVM chains are addressed by numeric chain id,
// everything else by symbolic name. Exactly one of the two fields is set.
type Ref struct {
	EVMID int64
	Name  string
}

func EVMRef(id int64) Ref { return Ref{EVMID: id} }

func NameRef(name string) Ref { return Ref{Name: name} }

func (r Ref) IsEVM() bool { return r.EVMID != 0 }

func (r Ref) String() string {
	if r.IsEVM() {
		return fmt.Sprintf("evm:%d", r.EVMID)
	}
	return r.Name
}

// Descriptor is the immutable record for one supported chain.
type Descriptor struct {
	// Key is the canonical upper-case name, e.g. "ETHEREUM", "APTOS".
	Key string

	// EVMID is the numeric chain id for EVM chains, 0 otherwise.
	EVMID int64

	Family         Family
	NativeSymbol   string
	NativeDecimals int
	HashAlgorithm  HashAlgorithm
	RpcUrl         string

	// HTLCContract is empty if no HTLC contract is deployed on this chain.
	HTLCContract string

	// FinalitySeconds is the time to treat a submitted transaction as final.
	FinalitySeconds int

	// CreateFee / ClaimFee are rough native-unit fee estimates (decimal
	// strings) for creating and claiming an HTLC on this chain.
	CreateFee string
	ClaimFee  string

	IsTestnet bool
}

// Ref returns the canonical Ref for this descriptor.
func (d *Descriptor) Ref() Ref {
	if d.Family == FamilyEVM {
		return EVMRef(d.EVMID)
	}
	return NameRef(d.Key)
}

// UnknownChainError is returned when a Ref does not resolve.
// It is a validation error and is never retried.
type UnknownChainError struct {
	Ref Ref
}

func (e *UnknownChainError) Error() string {
	return fmt.Sprintf("unknown chain %q", e.Ref.String())
}

// IsNativeToken reports whether a token identifier names the chain's
// native coin: empty, the literal "native", the zero address, the 1inch
// 0xeeee... sentinel, or the native symbol itself.
func IsNativeToken(d *Descriptor, token string) bool {
	switch strings.ToLower(token) {
	case "", "native",
		"0x0000000000000000000000000000000000000000",
		"0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee":
		return true
	}
	return strings.EqualFold(token, d.NativeSymbol)
}

// TokenDecimals returns the decimal count for a token on a chain: the
// chain's native decimals for the native coin, a fixed table for common
// stable/wrapped tokens, 18 otherwise.
func TokenDecimals(d *Descriptor, token string) int {
	if IsNativeToken(d, token) {
		return d.NativeDecimals
	}
	if dec, ok := commonTokenDecimals[strings.ToUpper(token)]; ok {
		return dec
	}
	return 18
}

// HashCompatible reports whether two chains commit to the same hash value
// for the same secret. A cross-family swap between incompatible chains needs
// one hashlock per side; any design that shares a single hash value across
// an incompatible pair must be rejected before funds move.
func HashCompatible(a, b *Descriptor) bool {
	return a.HashAlgorithm == b.HashAlgorithm
}
