// Package handler exposes the rewards pipeline over HTTP.
package handler

import (
	"context"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/provenance-io/hastra-sol-vault-mint/internal/rewards/merkle"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/rewards/models"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/domain"
	dErrors "github.com/provenance-io/hastra-sol-vault-mint/pkg/domain-errors"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/platform/httputil"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/platform/middleware/auth"
	request "github.com/provenance-io/hastra-sol-vault-mint/pkg/platform/middleware/request"
)

// Service defines the interface for rewards operations.
type Service interface {
	CreateEpoch(ctx context.Context, admin domain.Principal, index uint64, root merkle.Root, total uint64) error
	Claim(ctx context.Context, caller domain.Principal, epochIndex uint64, amount uint64, proof []merkle.ProofNode, to domain.AccountID) error
	ExternalProgramMint(ctx context.Context, caller domain.Principal, amount uint64, to domain.AccountID) error
	Epoch(ctx context.Context, index uint64) (models.Epoch, error)
	Epochs(ctx context.Context) ([]models.Epoch, error)
	Claimed(ctx context.Context, epoch uint64, user domain.Principal) (bool, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/rewards/epochs", h.HandleCreateEpoch)
	r.Get("/rewards/epochs", h.HandleListEpochs)
	r.Get("/rewards/epochs/{index}", h.HandleGetEpoch)
	r.Get("/rewards/epochs/{index}/claims/{user}", h.HandleGetClaim)
	r.Post("/rewards/claims", h.HandleClaim)
	r.Post("/rewards/external-mint", h.HandleExternalMint)
}

// HandleCreateEpoch publishes a rewards distribution.
func (h *Handler) HandleCreateEpoch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateEpochRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	root, err := parseHash(req.MerkleRoot)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.CreateEpoch(ctx, auth.GetPrincipal(ctx), req.Index, root, req.Total); err != nil {
		h.logger.ErrorContext(ctx, "create epoch failed", "error", err, "request_id", requestID, "epoch", req.Index)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) HandleListEpochs(w http.ResponseWriter, r *http.Request) {
	epochs, err := h.service.Epochs(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]*EpochResponse, 0, len(epochs))
	for _, epoch := range epochs {
		out = append(out, toEpochResponse(epoch))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) HandleGetEpoch(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.ParseUint(chi.URLParam(r, "index"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid epoch index"))
		return
	}

	epoch, err := h.service.Epoch(r.Context(), index)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toEpochResponse(epoch))
}

func (h *Handler) HandleGetClaim(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.ParseUint(chi.URLParam(r, "index"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid epoch index"))
		return
	}
	user, err := domain.ParsePrincipal(chi.URLParam(r, "user"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid user"))
		return
	}

	claimed, err := h.service.Claimed(r.Context(), index, user)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, &ClaimStatusResponse{
		Epoch:   index,
		User:    user.String(),
		Claimed: claimed,
	})
}

// HandleClaim verifies the caller's proof and pays out the reward.
func (h *Handler) HandleClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ClaimRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	to, err := domain.ParseAccountID(req.ToAccount)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid to_account"))
		return
	}

	if err := h.service.Claim(ctx, auth.GetPrincipal(ctx), req.Epoch, req.Amount, req.toProof(), to); err != nil {
		h.logger.ErrorContext(ctx, "claim failed", "error", err, "request_id", requestID, "epoch", req.Epoch)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleExternalMint mints on behalf of the registered external caller.
func (h *Handler) HandleExternalMint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ExternalMintRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	to, err := domain.ParseAccountID(req.ToAccount)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid to_account"))
		return
	}

	if err := h.service.ExternalProgramMint(ctx, auth.GetPrincipal(ctx), req.Amount, to); err != nil {
		h.logger.ErrorContext(ctx, "external mint failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type EpochResponse struct {
	Index      uint64    `json:"index"`
	MerkleRoot string    `json:"merkle_root"`
	Total      uint64    `json:"total"`
	CreatedAt  time.Time `json:"created_at"`
}

func toEpochResponse(epoch models.Epoch) *EpochResponse {
	return &EpochResponse{
		Index:      epoch.Index,
		MerkleRoot: hex.EncodeToString(epoch.MerkleRoot[:]),
		Total:      epoch.Total,
		CreatedAt:  epoch.CreatedAt,
	}
}

type ClaimStatusResponse struct {
	Epoch   uint64 `json:"epoch"`
	User    string `json:"user"`
	Claimed bool   `json:"claimed"`
}
