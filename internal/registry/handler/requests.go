package handler

import (
	"strings"

	"github.com/provenance-io/hastra-sol-vault-mint/pkg/domain"
	dErrors "github.com/provenance-io/hastra-sol-vault-mint/pkg/domain-errors"
)

// HTTP Request DTOs - contain JSON tags for API serialization.
// These are converted to typed service arguments before processing.

// MaxAdministratorsPerRequest bounds the administrator lists before they are
// parsed, failing fast on oversized input.
const MaxAdministratorsPerRequest = 16

type InitializeRequest struct {
	DepositAsset          string   `json:"deposit_asset"`
	SyntheticAsset        string   `json:"synthetic_asset"`
	FreezeAdministrators  []string `json:"freeze_administrators"`
	RewardsAdministrators []string `json:"rewards_administrators"`
	VaultAccount          string   `json:"vault_account"`
	RedeemVaultAccount    string   `json:"redeem_vault_account"`
}

func (r *InitializeRequest) Normalize() {
	if r == nil {
		return
	}
	r.DepositAsset = strings.TrimSpace(r.DepositAsset)
	r.SyntheticAsset = strings.TrimSpace(r.SyntheticAsset)
	r.VaultAccount = strings.TrimSpace(r.VaultAccount)
	r.RedeemVaultAccount = strings.TrimSpace(r.RedeemVaultAccount)
	r.FreezeAdministrators = trimAll(r.FreezeAdministrators)
	r.RewardsAdministrators = trimAll(r.RewardsAdministrators)
}

func (r *InitializeRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.DepositAsset == "" {
		return dErrors.New(dErrors.CodeValidation, "deposit_asset is required")
	}
	if r.SyntheticAsset == "" {
		return dErrors.New(dErrors.CodeValidation, "synthetic_asset is required")
	}
	if r.VaultAccount == "" {
		return dErrors.New(dErrors.CodeValidation, "vault_account is required")
	}
	if r.RedeemVaultAccount == "" {
		return dErrors.New(dErrors.CodeValidation, "redeem_vault_account is required")
	}
	if len(r.FreezeAdministrators) > MaxAdministratorsPerRequest {
		return dErrors.New(dErrors.CodeValidation, "too many freeze administrators")
	}
	if len(r.RewardsAdministrators) > MaxAdministratorsPerRequest {
		return dErrors.New(dErrors.CodeValidation, "too many rewards administrators")
	}
	return nil
}

type AdministratorsRequest struct {
	Administrators []string `json:"administrators"`
}

func (r *AdministratorsRequest) Normalize() {
	if r == nil {
		return
	}
	r.Administrators = trimAll(r.Administrators)
}

func (r *AdministratorsRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if len(r.Administrators) > MaxAdministratorsPerRequest {
		return dErrors.New(dErrors.CodeValidation, "too many administrators")
	}
	return nil
}

type ExternalCallerRequest struct {
	Caller string `json:"caller"`
}

func (r *ExternalCallerRequest) Normalize() {
	if r == nil {
		return
	}
	r.Caller = strings.TrimSpace(r.Caller)
}

func (r *ExternalCallerRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.Caller == "" {
		return dErrors.New(dErrors.CodeValidation, "caller is required")
	}
	return nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parsePrincipals(in []string) ([]domain.Principal, error) {
	out := make([]domain.Principal, 0, len(in))
	for _, s := range in {
		p, err := domain.ParsePrincipal(s)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
