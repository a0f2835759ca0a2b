package handler

import (
	"time"

	"github.com/provenance-io/hastra-sol-vault-mint/internal/registry/models"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/domain"
)

type ConfigResponse struct {
	DepositAsset          string    `json:"deposit_asset"`
	SyntheticAsset        string    `json:"synthetic_asset"`
	FreezeAdministrators  []string  `json:"freeze_administrators"`
	RewardsAdministrators []string  `json:"rewards_administrators"`
	VaultAccount          string    `json:"vault_account"`
	VaultOwner            string    `json:"vault_owner"`
	RedeemVaultAccount    string    `json:"redeem_vault_account"`
	AllowedExternalCaller string    `json:"allowed_external_caller,omitempty"`
	Paused                bool      `json:"paused"`
	CreatedAt             time.Time `json:"created_at"`
}

func toConfigResponse(cfg *models.Config) *ConfigResponse {
	resp := &ConfigResponse{
		DepositAsset:          cfg.DepositAsset.String(),
		SyntheticAsset:        cfg.SyntheticAsset.String(),
		FreezeAdministrators:  principalsToStrings(cfg.FreezeAdministrators),
		RewardsAdministrators: principalsToStrings(cfg.RewardsAdministrators),
		VaultAccount:          cfg.VaultAccount.String(),
		VaultOwner:            cfg.VaultOwner.String(),
		RedeemVaultAccount:    cfg.RedeemVaultAccount.String(),
		Paused:                cfg.Paused,
		CreatedAt:             cfg.CreatedAt,
	}
	if !cfg.AllowedExternalCaller.IsZero() {
		resp.AllowedExternalCaller = cfg.AllowedExternalCaller.String()
	}
	return resp
}

func principalsToStrings(in []domain.Principal) []string {
	out := make([]string, 0, len(in))
	for _, p := range in {
		out = append(out, p.String())
	}
	return out
}
