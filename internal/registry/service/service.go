// Package service implements the registry: the single configuration record
// and the owner-guarded operations that mutate it.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/provenance-io/hastra-sol-vault-mint/internal/authority"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/ledger"
	registrymetrics "github.com/provenance-io/hastra-sol-vault-mint/internal/registry/metrics"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/registry/models"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/sentinel"
	dErrors "github.com/provenance-io/hastra-sol-vault-mint/pkg/domain-errors"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/domain"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/platform/audit"
)

// ConfigStore defines the persistence contract for the configuration record.
type ConfigStore interface {
	CreateOnce(ctx context.Context, cfg *models.Config) error
	Get(ctx context.Context) (*models.Config, error)
	Mutate(ctx context.Context, fn func(cfg *models.Config) error) error
}

// UpgradeGuard validates that a caller is the deployment's upgrade authority.
type UpgradeGuard interface {
	RequireUpgradeAuthority(ctx context.Context, caller domain.Principal) error
}

// AuditPublisher records administrative actions.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates registry configuration.
type Service struct {
	config    ConfigStore
	guard     UpgradeGuard
	ledger    ledger.Ledger
	authority *authority.Provider
	logger    *slog.Logger
	publisher AuditPublisher
	metrics   *registrymetrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

func WithMetrics(m *registrymetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(config ConfigStore, g UpgradeGuard, l ledger.Ledger, provider *authority.Provider, opts ...Option) *Service {
	s := &Service{config: config, guard: g, ledger: l, authority: provider}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// InitializeParams carries the setup inputs for the one-time configuration.
type InitializeParams struct {
	DepositAsset          domain.AssetID
	SyntheticAsset        domain.AssetID
	FreezeAdministrators  []domain.Principal
	RewardsAdministrators []domain.Principal
	VaultAccount          domain.AccountID
	RedeemVaultAccount    domain.AccountID
}

// Initialize creates the configuration record. It records the vault account's
// current owner as the vault owner reference, and hands the redeem vault to
// the derived redeem-vault authority if the calling human still owns it, so
// only this program can move its funds thereafter.
func (s *Service) Initialize(ctx context.Context, caller domain.Principal, p InitializeParams) (*models.Config, error) {
	if caller.IsZero() {
		return nil, dErrors.New(dErrors.CodeMissingSigner, "caller did not sign the request")
	}
	if len(p.FreezeAdministrators) > models.MaxAdministrators || len(p.RewardsAdministrators) > models.MaxAdministrators {
		return nil, dErrors.New(dErrors.CodeTooManyAdministrators, fmt.Sprintf("administrator sets are limited to %d members", models.MaxAdministrators))
	}
	if p.DepositAsset.IsZero() || p.SyntheticAsset.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "deposit and synthetic asset identifiers are required")
	}

	vaultAcc, err := s.ledger.Account(ctx, p.VaultAccount)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "vault account not found")
	}
	if vaultAcc.Asset != p.DepositAsset {
		return nil, dErrors.New(dErrors.CodeInvalidVaultMint, "vault account does not hold the deposit asset")
	}
	redeemAcc, err := s.ledger.Account(ctx, p.RedeemVaultAccount)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "redeem vault account not found")
	}
	if redeemAcc.Asset != p.DepositAsset {
		return nil, dErrors.New(dErrors.CodeInvalidVaultMint, "redeem vault account does not hold the deposit asset")
	}

	cfg := &models.Config{
		DepositAsset:          p.DepositAsset,
		SyntheticAsset:        p.SyntheticAsset,
		FreezeAdministrators:  append([]domain.Principal(nil), p.FreezeAdministrators...),
		RewardsAdministrators: append([]domain.Principal(nil), p.RewardsAdministrators...),
		VaultAccount:          p.VaultAccount,
		VaultOwner:            vaultAcc.Owner,
		RedeemVaultAccount:    p.RedeemVaultAccount,
		CreatedAt:             time.Now().UTC(),
	}

	if err := s.config.CreateOnce(ctx, cfg); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyExists) {
			return nil, dErrors.New(dErrors.CodeConflict, "registry is already initialized")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create config record")
	}

	// Hand the redeem vault reserve to the derived authority so only program
	// code can release funds from it.
	if redeemAcc.Owner == caller {
		redeemAuthority := s.authority.Authority(authority.RedeemVaultAuthority)
		if err := s.ledger.SetAccountOwner(ctx, p.RedeemVaultAccount, redeemAuthority, ledger.Signer(caller)); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to assign redeem vault to derived authority")
		}
	}

	s.logger.InfoContext(ctx, "registry initialized",
		"deposit_asset", p.DepositAsset,
		"synthetic_asset", p.SyntheticAsset,
		"vault_owner", cfg.VaultOwner,
	)
	return cfg.Clone(), nil
}

// Config returns the current configuration record.
func (s *Service) Config(ctx context.Context) (*models.Config, error) {
	cfg, err := s.config.Get(ctx)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "registry is not initialized")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load config record")
	}
	return cfg, nil
}

// UpdateFreezeAdministrators replaces the freeze administrator set. Only the
// deployment's upgrade authority may call it.
func (s *Service) UpdateFreezeAdministrators(ctx context.Context, caller domain.Principal, administrators []domain.Principal) error {
	return s.updateAdministrators(ctx, caller, "freeze", administrators, func(cfg *models.Config, set []domain.Principal) {
		cfg.FreezeAdministrators = set
	})
}

// UpdateRewardsAdministrators replaces the rewards administrator set. Only
// the deployment's upgrade authority may call it.
func (s *Service) UpdateRewardsAdministrators(ctx context.Context, caller domain.Principal, administrators []domain.Principal) error {
	return s.updateAdministrators(ctx, caller, "rewards", administrators, func(cfg *models.Config, set []domain.Principal) {
		cfg.RewardsAdministrators = set
	})
}

func (s *Service) updateAdministrators(ctx context.Context, caller domain.Principal, set string, administrators []domain.Principal, apply func(cfg *models.Config, set []domain.Principal)) error {
	if err := s.guard.RequireUpgradeAuthority(ctx, caller); err != nil {
		return err
	}
	if len(administrators) > models.MaxAdministrators {
		return dErrors.New(dErrors.CodeTooManyAdministrators, fmt.Sprintf("administrator sets are limited to %d members", models.MaxAdministrators))
	}

	cp := append([]domain.Principal(nil), administrators...)
	if err := s.config.Mutate(ctx, func(cfg *models.Config) error {
		apply(cfg, cp)
		return nil
	}); err != nil {
		return s.translateMutate(err)
	}

	s.logger.InfoContext(ctx, "administrators updated", "set", set, "count", len(administrators))
	s.emit(ctx, audit.Event{
		Action: string(audit.EventAdministratorsUpdated),
		Admin:  caller.String(),
	})
	if s.metrics != nil {
		s.metrics.IncrementAdministratorsUpdated(set)
	}
	return nil
}

// SetAllowedExternalCaller registers the one external program identity that
// may trigger proof-less mints. Owner-guarded: this is a capability grant,
// not an operational action.
func (s *Service) SetAllowedExternalCaller(ctx context.Context, caller, external domain.Principal) error {
	if err := s.guard.RequireUpgradeAuthority(ctx, caller); err != nil {
		return err
	}
	if err := s.config.Mutate(ctx, func(cfg *models.Config) error {
		cfg.AllowedExternalCaller = external
		return nil
	}); err != nil {
		return s.translateMutate(err)
	}
	s.logger.InfoContext(ctx, "allowed external caller updated", "external_caller", external)
	return nil
}

// Pause flips the circuit breaker on. Every state-changing operation outside
// the owner-guarded configuration path refuses while paused.
func (s *Service) Pause(ctx context.Context, caller domain.Principal) error {
	return s.setPaused(ctx, caller, true)
}

// Resume flips the circuit breaker off.
func (s *Service) Resume(ctx context.Context, caller domain.Principal) error {
	return s.setPaused(ctx, caller, false)
}

func (s *Service) setPaused(ctx context.Context, caller domain.Principal, paused bool) error {
	if err := s.guard.RequireUpgradeAuthority(ctx, caller); err != nil {
		return err
	}
	if err := s.config.Mutate(ctx, func(cfg *models.Config) error {
		cfg.Paused = paused
		return nil
	}); err != nil {
		return s.translateMutate(err)
	}

	action := audit.EventProgramResumed
	state := "resumed"
	if paused {
		action = audit.EventProgramPaused
		state = "paused"
	}
	s.logger.InfoContext(ctx, "pause state changed", "paused", paused)
	s.emit(ctx, audit.Event{Action: string(action), Admin: caller.String()})
	if s.metrics != nil {
		s.metrics.IncrementPauseTransition(state)
	}
	return nil
}

func (s *Service) translateMutate(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "registry is not initialized")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update config record")
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event", "error", err, "action", event.Action)
	}
}
