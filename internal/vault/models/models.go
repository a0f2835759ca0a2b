// Package models holds the vault domain's persisted records.
package models

import (
	"time"

	"github.com/provenance-io/hastra-sol-vault-mint/pkg/domain"
)

// RedemptionRequest is the pending-withdrawal lock. One exists per user at
// most; its existence is the "locked for redemption" state, and it is
// destroyed when the redemption completes.
type RedemptionRequest struct {
	User   domain.Principal
	Amount uint64

	DepositAsset   domain.AssetID
	SyntheticAsset domain.AssetID

	// The user's holding accounts, captured at request time so completion
	// needs no further input from the user.
	SyntheticAccount domain.AccountID
	DepositAccount   domain.AccountID

	CreatedAt time.Time
}
