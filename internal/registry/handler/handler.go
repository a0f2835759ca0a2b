// Package handler exposes registry administration over HTTP. All mutating
// routes require an authenticated principal; the service layer decides
// whether that principal holds the upgrade authority.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/provenance-io/hastra-sol-vault-mint/internal/registry/models"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/registry/service"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/domain"
	dErrors "github.com/provenance-io/hastra-sol-vault-mint/pkg/domain-errors"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/platform/httputil"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/platform/middleware/auth"
	request "github.com/provenance-io/hastra-sol-vault-mint/pkg/platform/middleware/request"
)

// Service defines the interface for registry operations.
type Service interface {
	Initialize(ctx context.Context, caller domain.Principal, p service.InitializeParams) (*models.Config, error)
	Config(ctx context.Context) (*models.Config, error)
	UpdateFreezeAdministrators(ctx context.Context, caller domain.Principal, administrators []domain.Principal) error
	UpdateRewardsAdministrators(ctx context.Context, caller domain.Principal, administrators []domain.Principal) error
	SetAllowedExternalCaller(ctx context.Context, caller, external domain.Principal) error
	Pause(ctx context.Context, caller domain.Principal) error
	Resume(ctx context.Context, caller domain.Principal) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/registry/initialize", h.HandleInitialize)
	r.Get("/registry/config", h.HandleGetConfig)
	r.Put("/registry/freeze-administrators", h.HandleUpdateFreezeAdministrators)
	r.Put("/registry/rewards-administrators", h.HandleUpdateRewardsAdministrators)
	r.Put("/registry/external-caller", h.HandleSetExternalCaller)
	r.Post("/registry/pause", h.HandlePause)
	r.Post("/registry/resume", h.HandleResume)
}

// HandleInitialize performs one-time program setup.
func (h *Handler) HandleInitialize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[InitializeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	params, err := req.toParams()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	cfg, err := h.service.Initialize(ctx, auth.GetPrincipal(ctx), *params)
	if err != nil {
		h.logger.ErrorContext(ctx, "initialize failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toConfigResponse(cfg))
}

// HandleGetConfig returns the registry configuration record.
func (h *Handler) HandleGetConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cfg, err := h.service.Config(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toConfigResponse(cfg))
}

func (h *Handler) HandleUpdateFreezeAdministrators(w http.ResponseWriter, r *http.Request) {
	h.updateAdministrators(w, r, h.service.UpdateFreezeAdministrators)
}

func (h *Handler) HandleUpdateRewardsAdministrators(w http.ResponseWriter, r *http.Request) {
	h.updateAdministrators(w, r, h.service.UpdateRewardsAdministrators)
}

func (h *Handler) updateAdministrators(
	w http.ResponseWriter,
	r *http.Request,
	update func(ctx context.Context, caller domain.Principal, administrators []domain.Principal) error,
) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[AdministratorsRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	administrators, err := parsePrincipals(req.Administrators)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := update(ctx, auth.GetPrincipal(ctx), administrators); err != nil {
		h.logger.ErrorContext(ctx, "administrator update failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleSetExternalCaller(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ExternalCallerRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	external, err := domain.ParsePrincipal(req.Caller)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.SetAllowedExternalCaller(ctx, auth.GetPrincipal(ctx), external); err != nil {
		h.logger.ErrorContext(ctx, "set external caller failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandlePause(w http.ResponseWriter, r *http.Request) {
	h.setPaused(w, r, h.service.Pause)
}

func (h *Handler) HandleResume(w http.ResponseWriter, r *http.Request) {
	h.setPaused(w, r, h.service.Resume)
}

func (h *Handler) setPaused(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, caller domain.Principal) error) {
	ctx := r.Context()
	if err := op(ctx, auth.GetPrincipal(ctx)); err != nil {
		h.logger.ErrorContext(ctx, "pause transition failed", "error", err, "request_id", request.GetRequestID(ctx))
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (r *InitializeRequest) toParams() (*service.InitializeParams, error) {
	depositAsset, err := domain.ParseAssetID(r.DepositAsset)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "invalid deposit_asset")
	}
	syntheticAsset, err := domain.ParseAssetID(r.SyntheticAsset)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "invalid synthetic_asset")
	}
	vaultAccount, err := domain.ParseAccountID(r.VaultAccount)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "invalid vault_account")
	}
	redeemVaultAccount, err := domain.ParseAccountID(r.RedeemVaultAccount)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "invalid redeem_vault_account")
	}
	freezeAdmins, err := parsePrincipals(r.FreezeAdministrators)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "invalid freeze administrator")
	}
	rewardsAdmins, err := parsePrincipals(r.RewardsAdministrators)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "invalid rewards administrator")
	}

	return &service.InitializeParams{
		DepositAsset:          depositAsset,
		SyntheticAsset:        syntheticAsset,
		FreezeAdministrators:  freezeAdmins,
		RewardsAdministrators: rewardsAdmins,
		VaultAccount:          vaultAccount,
		RedeemVaultAccount:    redeemVaultAccount,
	}, nil
}
