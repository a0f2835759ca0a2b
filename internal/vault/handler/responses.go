package handler

import (
	"time"

	"github.com/provenance-io/hastra-sol-vault-mint/internal/vault/models"
)

type RedemptionResponse struct {
	User             string    `json:"user"`
	Amount           uint64    `json:"amount"`
	SyntheticAccount string    `json:"synthetic_account"`
	DepositAccount   string    `json:"deposit_account"`
	CreatedAt        time.Time `json:"created_at"`
}

func toRedemptionResponse(req *models.RedemptionRequest) *RedemptionResponse {
	return &RedemptionResponse{
		User:             req.User.String(),
		Amount:           req.Amount,
		SyntheticAccount: req.SyntheticAccount.String(),
		DepositAccount:   req.DepositAccount.String(),
		CreatedAt:        req.CreatedAt,
	}
}

type CompleteRedemptionResponse struct {
	User     string `json:"user"`
	Redeemed uint64 `json:"redeemed"`
}
