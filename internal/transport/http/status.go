package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/provenance-io/hastra-sol-vault-mint/internal/ledger"
	registrymodels "github.com/provenance-io/hastra-sol-vault-mint/internal/registry/models"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/platform/httputil"
)

const statusTimeout = 5 * time.Second

// ConfigSource reads the registry configuration record.
type ConfigSource interface {
	Get(ctx context.Context) (*registrymodels.Config, error)
}

// StatusHandler reports a consolidated view of the program: configuration,
// synthetic supply, and vault balances.
type StatusHandler struct {
	config ConfigSource
	ledger ledger.Ledger
	logger *slog.Logger
}

func NewStatusHandler(config ConfigSource, l ledger.Ledger, logger *slog.Logger) *StatusHandler {
	return &StatusHandler{config: config, ledger: l, logger: logger}
}

// StatusResponse is the consolidated program view.
type StatusResponse struct {
	Paused             bool   `json:"paused"`
	SyntheticSupply    uint64 `json:"synthetic_supply"`
	VaultBalance       uint64 `json:"vault_balance"`
	RedeemVaultBalance uint64 `json:"redeem_vault_balance"`
}

// HandleStatus gathers supply and balances in parallel after loading the
// configuration once. Each fetch writes to its own field, so no locking is
// needed before the group completes.
func (h *StatusHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), statusTimeout)
	defer cancel()

	cfg, err := h.config.Get(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "status: config load failed", "error", err)
		httputil.WriteError(w, err)
		return
	}

	var response StatusResponse
	response.Paused = cfg.Paused

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		asset, err := h.ledger.Asset(ctx, cfg.SyntheticAsset)
		if err != nil {
			return err
		}
		response.SyntheticSupply = asset.Supply
		return nil
	})
	g.Go(func() error {
		acc, err := h.ledger.Account(ctx, cfg.VaultAccount)
		if err != nil {
			return err
		}
		response.VaultBalance = acc.Balance
		return nil
	})
	g.Go(func() error {
		acc, err := h.ledger.Account(ctx, cfg.RedeemVaultAccount)
		if err != nil {
			return err
		}
		response.RedeemVaultBalance = acc.Balance
		return nil
	})

	if err := g.Wait(); err != nil {
		h.logger.ErrorContext(ctx, "status: ledger read failed", "error", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, response)
}
