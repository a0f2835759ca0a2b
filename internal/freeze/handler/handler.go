// Package handler exposes freeze administration over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/provenance-io/hastra-sol-vault-mint/pkg/domain"
	dErrors "github.com/provenance-io/hastra-sol-vault-mint/pkg/domain-errors"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/platform/httputil"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/platform/middleware/auth"
	request "github.com/provenance-io/hastra-sol-vault-mint/pkg/platform/middleware/request"
)

// Service defines the interface for freeze operations.
type Service interface {
	FreezeTokenAccount(ctx context.Context, admin domain.Principal, account domain.AccountID, asset domain.AssetID) error
	ThawTokenAccount(ctx context.Context, admin domain.Principal, account domain.AccountID, asset domain.AssetID) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/freeze/accounts/{account}/freeze", h.HandleFreeze)
	r.Post("/freeze/accounts/{account}/thaw", h.HandleThaw)
}

type TransitionRequest struct {
	Asset string `json:"asset"`
}

func (r *TransitionRequest) Normalize() {
	if r == nil {
		return
	}
	r.Asset = strings.TrimSpace(r.Asset)
}

func (r *TransitionRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.Asset == "" {
		return dErrors.New(dErrors.CodeValidation, "asset is required")
	}
	return nil
}

func (h *Handler) HandleFreeze(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.FreezeTokenAccount)
}

func (h *Handler) HandleThaw(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.ThawTokenAccount)
}

func (h *Handler) transition(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, admin domain.Principal, account domain.AccountID, asset domain.AssetID) error,
) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	account, err := domain.ParseAccountID(chi.URLParam(r, "account"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid account"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[TransitionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	asset, err := domain.ParseAssetID(req.Asset)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid asset"))
		return
	}

	if err := op(ctx, auth.GetPrincipal(ctx), account, asset); err != nil {
		h.logger.ErrorContext(ctx, "freeze transition failed", "error", err, "request_id", requestID, "account", account)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
