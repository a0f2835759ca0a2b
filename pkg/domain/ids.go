// Package domain provides type-safe identifiers to prevent mixing up
// principals, assets, and token accounts at compile time.
package domain

import (
	"crypto/rand"
	"encoding/hex"

	dErrors "github.com/provenance-io/hastra-sol-vault-mint/pkg/domain-errors"
)

// All on-ledger identifiers are 32-byte values. Distinct named types keep the
// compiler from accepting an AssetID where a Principal is expected.
type (
	// Principal identifies a signer: a human caller, an administrator, or a
	// derived program authority.
	Principal [32]byte

	// AssetID identifies a mintable asset type.
	AssetID [32]byte

	// AccountID identifies a token holding account on the ledger.
	AccountID [32]byte
)

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParsePrincipal(s string) (Principal, error) {
	b, err := parse32(s, "principal")
	return Principal(b), err
}

func ParseAssetID(s string) (AssetID, error) {
	b, err := parse32(s, "asset ID")
	return AssetID(b), err
}

func ParseAccountID(s string) (AccountID, error) {
	b, err := parse32(s, "account ID")
	return AccountID(b), err
}

func parse32(s, what string) ([32]byte, error) {
	var out [32]byte
	raw, err := hex.DecodeString(s)
	if err != nil {
		return out, dErrors.New(dErrors.CodeBadRequest, "invalid "+what+" format")
	}
	if len(raw) != 32 {
		return out, dErrors.New(dErrors.CodeBadRequest, what+" must be 32 bytes")
	}
	copy(out[:], raw)
	return out, nil
}

// String methods - for logging, JSON responses, and debugging.

func (p Principal) String() string { return hex.EncodeToString(p[:]) }
func (a AssetID) String() string   { return hex.EncodeToString(a[:]) }
func (a AccountID) String() string { return hex.EncodeToString(a[:]) }

// MarshalText renders identifiers as hex wherever they are serialized, log
// output included.

func (p Principal) MarshalText() ([]byte, error) { return []byte(p.String()), nil }
func (a AssetID) MarshalText() ([]byte, error)   { return []byte(a.String()), nil }
func (a AccountID) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// IsZero reports whether the identifier is the zero value. A zero Principal
// means "no signer"; authorization checks treat it as an unsigned call.
func (p Principal) IsZero() bool { return p == Principal{} }
func (a AssetID) IsZero() bool   { return a == AssetID{} }
func (a AccountID) IsZero() bool { return a == AccountID{} }

// Bytes returns the raw identifier bytes, used for hashing.
func (p Principal) Bytes() []byte { return p[:] }

// NewPrincipal, NewAssetID, and NewAccountID generate random identifiers.
// Setup tooling and tests use these; production identifiers come from the
// ledger substrate.

func NewPrincipal() Principal { return Principal(random32()) }

func NewAssetID() AssetID { return AssetID(random32()) }

func NewAccountID() AccountID { return AccountID(random32()) }

func random32() [32]byte {
	var out [32]byte
	// rand.Read never fails on supported platforms.
	_, _ = rand.Read(out[:])
	return out
}
