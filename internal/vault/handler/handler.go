// Package handler exposes deposits and redemptions over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/provenance-io/hastra-sol-vault-mint/internal/vault/models"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/domain"
	dErrors "github.com/provenance-io/hastra-sol-vault-mint/pkg/domain-errors"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/platform/httputil"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/platform/middleware/auth"
	request "github.com/provenance-io/hastra-sol-vault-mint/pkg/platform/middleware/request"
)

// Service defines the interface for vault operations.
type Service interface {
	Deposit(ctx context.Context, caller domain.Principal, amount uint64, from, to domain.AccountID) error
	RequestRedeem(ctx context.Context, caller domain.Principal, amount uint64, syntheticAccount, depositAccount domain.AccountID) (*models.RedemptionRequest, error)
	CompleteRedeem(ctx context.Context, admin, user domain.Principal) (uint64, error)
	Request(ctx context.Context, user domain.Principal) (*models.RedemptionRequest, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/vault/deposit", h.HandleDeposit)
	r.Post("/vault/redemptions", h.HandleRequestRedeem)
	r.Get("/vault/redemptions/{user}", h.HandleGetRedemption)
	r.Post("/vault/redemptions/{user}/complete", h.HandleCompleteRedeem)
}

// HandleDeposit moves deposit asset into the vault and mints synthetic 1:1.
func (h *Handler) HandleDeposit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[DepositRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	from, err := domain.ParseAccountID(req.FromAccount)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid from_account"))
		return
	}
	to, err := domain.ParseAccountID(req.ToAccount)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid to_account"))
		return
	}

	if err := h.service.Deposit(ctx, auth.GetPrincipal(ctx), req.Amount, from, to); err != nil {
		h.logger.ErrorContext(ctx, "deposit failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleRequestRedeem opens a redemption request for the caller.
func (h *Handler) HandleRequestRedeem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RedeemRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	syntheticAccount, err := domain.ParseAccountID(req.SyntheticAccount)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid synthetic_account"))
		return
	}
	depositAccount, err := domain.ParseAccountID(req.DepositAccount)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid deposit_account"))
		return
	}

	pending, err := h.service.RequestRedeem(ctx, auth.GetPrincipal(ctx), req.Amount, syntheticAccount, depositAccount)
	if err != nil {
		h.logger.ErrorContext(ctx, "redemption request failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toRedemptionResponse(pending))
}

// HandleGetRedemption returns a user's outstanding redemption request.
func (h *Handler) HandleGetRedemption(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := domain.ParsePrincipal(chi.URLParam(r, "user"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid user"))
		return
	}

	pending, err := h.service.Request(ctx, user)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toRedemptionResponse(pending))
}

// HandleCompleteRedeem resolves a user's pending redemption. The caller must
// be a rewards administrator; the service enforces that.
func (h *Handler) HandleCompleteRedeem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	user, err := domain.ParsePrincipal(chi.URLParam(r, "user"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid user"))
		return
	}

	redeemed, err := h.service.CompleteRedeem(ctx, auth.GetPrincipal(ctx), user)
	if err != nil {
		h.logger.ErrorContext(ctx, "complete redemption failed", "error", err, "request_id", requestID, "user", user)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, &CompleteRedemptionResponse{
		User:     user.String(),
		Redeemed: redeemed,
	})
}
