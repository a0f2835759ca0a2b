// Package service implements administrator-gated freezing and thawing of
// holding accounts. No state is stored here; the ledger substrate carries
// the frozen flag.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/provenance-io/hastra-sol-vault-mint/internal/authority"
	freezemetrics "github.com/provenance-io/hastra-sol-vault-mint/internal/freeze/metrics"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/ledger"
	registrymodels "github.com/provenance-io/hastra-sol-vault-mint/internal/registry/models"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/sentinel"
	dErrors "github.com/provenance-io/hastra-sol-vault-mint/pkg/domain-errors"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/domain"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/platform/audit"
)

// ConfigSource reads the registry configuration record.
type ConfigSource interface {
	Get(ctx context.Context) (*registrymodels.Config, error)
}

// AuditPublisher records administrative actions.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	config    ConfigSource
	ledger    ledger.Ledger
	authority *authority.Provider
	logger    *slog.Logger
	publisher AuditPublisher
	metrics   *freezemetrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

func WithMetrics(m *freezemetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(config ConfigSource, l ledger.Ledger, provider *authority.Provider, opts ...Option) *Service {
	s := &Service{config: config, ledger: l, authority: provider}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// FreezeTokenAccount suspends a holding account. The caller must be a freeze
// administrator and the asset's freeze capability must be held by the derived
// freeze authority. Freezing an already-frozen account is left to the
// substrate, which treats it as a no-op.
func (s *Service) FreezeTokenAccount(ctx context.Context, admin domain.Principal, account domain.AccountID, asset domain.AssetID) error {
	return s.transition(ctx, admin, account, asset, true)
}

// ThawTokenAccount restores a suspended holding account.
func (s *Service) ThawTokenAccount(ctx context.Context, admin domain.Principal, account domain.AccountID, asset domain.AssetID) error {
	return s.transition(ctx, admin, account, asset, false)
}

func (s *Service) transition(ctx context.Context, admin domain.Principal, account domain.AccountID, asset domain.AssetID, freeze bool) error {
	cfg, err := s.config.Get(ctx)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "registry is not initialized")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load config record")
	}
	if cfg.Paused {
		return dErrors.New(dErrors.CodeProgramPaused, "program is paused")
	}
	if !cfg.IsFreezeAdministrator(admin) {
		return dErrors.New(dErrors.CodeUnauthorizedFreezeAdministrator, "caller is not a freeze administrator")
	}

	a, err := s.ledger.Asset(ctx, asset)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeNotFound, "asset not found")
	}
	if a.FreezeAuthority != s.authority.Authority(authority.FreezeAuthority) {
		return dErrors.New(dErrors.CodeInvalidFreezeAuthority, "asset freeze capability is not held by the derived authority")
	}

	grant := s.authority.SignAs(authority.FreezeAuthority)
	if freeze {
		err = s.ledger.FreezeAccount(ctx, account, asset, grant)
	} else {
		err = s.ledger.ThawAccount(ctx, account, asset, grant)
	}
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeNotFound, "holding account not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "ledger refused the freeze transition")
	}

	action := audit.EventTokenAccountThawed
	name := "thaw"
	if freeze {
		action = audit.EventTokenAccountFrozen
		name = "freeze"
	}
	s.logger.InfoContext(ctx, "freeze transition applied", "action", name, "account", account, "admin", admin)
	if s.publisher != nil {
		if err := s.publisher.Emit(ctx, audit.Event{
			Action:  string(action),
			Admin:   admin.String(),
			Asset:   asset.String(),
			Account: account.String(),
		}); err != nil {
			s.logger.ErrorContext(ctx, "failed to emit audit event", "error", err, "action", name)
		}
	}
	if s.metrics != nil {
		s.metrics.IncrementTransition(name)
	}
	return nil
}
