package handler

import (
	"strings"

	dErrors "github.com/provenance-io/hastra-sol-vault-mint/pkg/domain-errors"
)

// HTTP Request DTOs - contain JSON tags for API serialization.

type DepositRequest struct {
	Amount      uint64 `json:"amount"`
	FromAccount string `json:"from_account"`
	ToAccount   string `json:"to_account"`
}

func (r *DepositRequest) Normalize() {
	if r == nil {
		return
	}
	r.FromAccount = strings.TrimSpace(r.FromAccount)
	r.ToAccount = strings.TrimSpace(r.ToAccount)
}

func (r *DepositRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.Amount == 0 {
		return dErrors.New(dErrors.CodeInvalidAmount, "amount must be positive")
	}
	if r.FromAccount == "" {
		return dErrors.New(dErrors.CodeValidation, "from_account is required")
	}
	if r.ToAccount == "" {
		return dErrors.New(dErrors.CodeValidation, "to_account is required")
	}
	return nil
}

type RedeemRequest struct {
	Amount           uint64 `json:"amount"`
	SyntheticAccount string `json:"synthetic_account"`
	DepositAccount   string `json:"deposit_account"`
}

func (r *RedeemRequest) Normalize() {
	if r == nil {
		return
	}
	r.SyntheticAccount = strings.TrimSpace(r.SyntheticAccount)
	r.DepositAccount = strings.TrimSpace(r.DepositAccount)
}

func (r *RedeemRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.Amount == 0 {
		return dErrors.New(dErrors.CodeInvalidAmount, "amount must be positive")
	}
	if r.SyntheticAccount == "" {
		return dErrors.New(dErrors.CodeValidation, "synthetic_account is required")
	}
	if r.DepositAccount == "" {
		return dErrors.New(dErrors.CodeValidation, "deposit_account is required")
	}
	return nil
}
