// Package ledger defines the contract the vault core needs from the
// account-storage substrate that holds asset balances. The substrate is an
// external collaborator; the in-memory implementation here backs tests and
// the demo environment.
package ledger

import (
	"context"

	"github.com/provenance-io/hastra-sol-vault-mint/pkg/domain"
)

// Authorization proves the right to act as a principal. Two implementations
// exist: Signer for transport-authenticated callers, and authority.Grant for
// the program's derived authorities. The substrate only compares the proven
// principal against the required one; signature verification itself belongs
// to the substrate.
type Authorization interface {
	Principal() domain.Principal
}

type signer struct {
	principal domain.Principal
}

func (s signer) Principal() domain.Principal { return s.principal }

// Signer wraps an authenticated caller as an Authorization. Callers reach
// services only through authenticated transport, so wrapping the caller
// principal here is equivalent to presenting their signature.
func Signer(p domain.Principal) Authorization {
	return signer{principal: p}
}

// Asset describes one mintable asset type.
type Asset struct {
	ID              domain.AssetID
	Supply          uint64
	MintAuthority   domain.Principal
	FreezeAuthority domain.Principal
}

// TokenAccount is one holding account for a single asset.
type TokenAccount struct {
	ID              domain.AccountID
	Asset           domain.AssetID
	Owner           domain.Principal
	Balance         uint64
	Frozen          bool
	Delegate        domain.Principal // zero when no delegation is active
	DelegatedAmount uint64
}

// Ledger is the asset-ledger substrate surface used by the core.
// Every mutating call validates its Authorization and returns sentinel
// errors (wrapped) on refusal; services translate them to domain errors.
type Ledger interface {
	Asset(ctx context.Context, id domain.AssetID) (Asset, error)
	Account(ctx context.Context, id domain.AccountID) (TokenAccount, error)

	Transfer(ctx context.Context, from, to domain.AccountID, amount uint64, auth Authorization) error
	MintTo(ctx context.Context, asset domain.AssetID, to domain.AccountID, amount uint64, auth Authorization) error
	Burn(ctx context.Context, asset domain.AssetID, from domain.AccountID, amount uint64, auth Authorization) error
	Approve(ctx context.Context, account domain.AccountID, delegate domain.Principal, amount uint64, auth Authorization) error
	SetAccountOwner(ctx context.Context, account domain.AccountID, newOwner domain.Principal, auth Authorization) error
	FreezeAccount(ctx context.Context, account domain.AccountID, asset domain.AssetID, auth Authorization) error
	ThawAccount(ctx context.Context, account domain.AccountID, asset domain.AssetID, auth Authorization) error
}

// Tx provides the atomic boundary for one operation: every ledger call made
// inside fn commits together, or none of it does.
type Tx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
