// Package models holds the registry's persisted records.
package models

import (
	"time"

	"github.com/provenance-io/hastra-sol-vault-mint/pkg/domain"
)

// MaxAdministrators bounds each administrator set. Records are pre-allocated
// at fixed size, so the cap is part of the persisted layout.
const MaxAdministrators = 5

// Config is the single configuration record, created once at initialization
// and mutated only by owner-guarded configuration operations.
type Config struct {
	DepositAsset   domain.AssetID
	SyntheticAsset domain.AssetID

	FreezeAdministrators  []domain.Principal
	RewardsAdministrators []domain.Principal

	// VaultAccount holds deposited assets; VaultOwner is the principal
	// recorded as owning it at initialization.
	VaultAccount domain.AccountID
	VaultOwner   domain.Principal

	// RedeemVaultAccount is the reserve that pays out completed redemptions.
	RedeemVaultAccount domain.AccountID

	// AllowedExternalCaller may trigger mints without a proof. Zero means no
	// external caller is registered.
	AllowedExternalCaller domain.Principal

	Paused    bool
	CreatedAt time.Time
}

// IsFreezeAdministrator reports membership in the freeze administrator set.
func (c *Config) IsFreezeAdministrator(p domain.Principal) bool {
	return containsPrincipal(c.FreezeAdministrators, p)
}

// IsRewardsAdministrator reports membership in the rewards administrator set.
func (c *Config) IsRewardsAdministrator(p domain.Principal) bool {
	return containsPrincipal(c.RewardsAdministrators, p)
}

func containsPrincipal(set []domain.Principal, p domain.Principal) bool {
	for _, member := range set {
		if member == p {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so store reads never alias stored state.
func (c *Config) Clone() *Config {
	cp := *c
	cp.FreezeAdministrators = append([]domain.Principal(nil), c.FreezeAdministrators...)
	cp.RewardsAdministrators = append([]domain.Principal(nil), c.RewardsAdministrators...)
	return &cp
}

// Deployment is the metadata record describing the deployed program. The
// administrator guard validates that the record lives at the address derived
// from the program identity before trusting its upgrade authority.
type Deployment struct {
	Address          domain.Principal
	Program          domain.Principal
	UpgradeAuthority *domain.Principal
}
