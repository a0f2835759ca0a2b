// Package service implements the deposit/mint engine and the two-phase
// redemption state machine.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/provenance-io/hastra-sol-vault-mint/internal/authority"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/ledger"
	registrymodels "github.com/provenance-io/hastra-sol-vault-mint/internal/registry/models"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/sentinel"
	vaultmetrics "github.com/provenance-io/hastra-sol-vault-mint/internal/vault/metrics"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/vault/models"
	dErrors "github.com/provenance-io/hastra-sol-vault-mint/pkg/domain-errors"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/domain"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/platform/audit"
)

// DefaultMinRedeemReserve is the operational balance the redeem vault must
// hold before a new redemption request is accepted.
const DefaultMinRedeemReserve uint64 = 1

// ConfigSource reads the registry configuration record.
type ConfigSource interface {
	Get(ctx context.Context) (*registrymodels.Config, error)
}

// RequestStore defines the persistence contract for redemption requests.
type RequestStore interface {
	Create(ctx context.Context, req *models.RedemptionRequest) error
	Find(ctx context.Context, user domain.Principal) (*models.RedemptionRequest, error)
	Delete(ctx context.Context, user domain.Principal) error
}

// AuditPublisher records asset movements.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates deposits and redemptions.
type Service struct {
	config    ConfigSource
	requests  RequestStore
	ledger    ledger.Ledger
	tx        ledger.Tx
	authority *authority.Provider

	minRedeemReserve uint64
	logger           *slog.Logger
	publisher        AuditPublisher
	metrics          *vaultmetrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

func WithMetrics(m *vaultmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithMinRedeemReserve overrides the redeem vault reserve threshold.
func WithMinRedeemReserve(min uint64) Option {
	return func(s *Service) { s.minRedeemReserve = min }
}

func New(config ConfigSource, requests RequestStore, l ledger.Ledger, tx ledger.Tx, provider *authority.Provider, opts ...Option) *Service {
	s := &Service{
		config:           config,
		requests:         requests,
		ledger:           l,
		tx:               tx,
		authority:        provider,
		minRedeemReserve: DefaultMinRedeemReserve,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Deposit moves amount of the deposit asset from the caller's holding
// account into the vault and mints the same amount of synthetic asset to the
// caller. The transfer and the mint commit together or not at all.
func (s *Service) Deposit(ctx context.Context, caller domain.Principal, amount uint64, from, to domain.AccountID) error {
	cfg, err := s.activeConfig(ctx)
	if err != nil {
		return err
	}
	if amount == 0 {
		return dErrors.New(dErrors.CodeInvalidAmount, "deposit amount must be positive")
	}

	vaultAcc, err := s.ledger.Account(ctx, cfg.VaultAccount)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeNotFound, "vault account not found")
	}
	// Defends against a registry pointing at a stale or substituted vault.
	if vaultAcc.Owner != cfg.VaultOwner {
		return dErrors.New(dErrors.CodeInvalidVaultAuthority, "vault account owner does not match registry reference")
	}

	fromAcc, err := s.ledger.Account(ctx, from)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeNotFound, "deposit source account not found")
	}
	if fromAcc.Asset != cfg.DepositAsset {
		return dErrors.New(dErrors.CodeInvalidVaultMint, "deposit source does not hold the deposit asset")
	}
	toAcc, err := s.ledger.Account(ctx, to)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeNotFound, "mint destination account not found")
	}
	if toAcc.Asset != cfg.SyntheticAsset {
		return dErrors.New(dErrors.CodeInvalidMint, "mint destination does not hold the synthetic asset")
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.ledger.Transfer(ctx, from, cfg.VaultAccount, amount, ledger.Signer(caller)); err != nil {
			return err
		}
		return s.ledger.MintTo(ctx, cfg.SyntheticAsset, to, amount, s.authority.SignAs(authority.MintAuthority))
	})
	if err != nil {
		return s.translateLedger(err)
	}

	s.logger.InfoContext(ctx, "deposit completed", "user", caller, "amount", amount)
	s.emit(ctx, audit.Event{
		Action:    string(audit.EventDepositCompleted),
		Principal: caller.String(),
		Amount:    amount,
		Asset:     cfg.DepositAsset.String(),
		Account:   cfg.VaultAccount.String(),
	})
	if s.metrics != nil {
		s.metrics.ObserveDeposit(amount)
	}
	return nil
}

// RequestRedeem opens a redemption: it records the per-user request and
// delegates spending rights over the caller's synthetic account to the
// redeem-vault authority, up to amount. The request's existence blocks a
// second concurrent request.
func (s *Service) RequestRedeem(ctx context.Context, caller domain.Principal, amount uint64, syntheticAccount, depositAccount domain.AccountID) (*models.RedemptionRequest, error) {
	cfg, err := s.activeConfig(ctx)
	if err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidAmount, "redemption amount must be positive")
	}

	synthAcc, err := s.ledger.Account(ctx, syntheticAccount)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "synthetic asset account not found")
	}
	if synthAcc.Owner != caller {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "synthetic asset account is not owned by the caller")
	}
	if synthAcc.Asset != cfg.SyntheticAsset {
		return nil, dErrors.New(dErrors.CodeInvalidMint, "account does not hold the synthetic asset")
	}
	if synthAcc.Balance < amount {
		return nil, dErrors.New(dErrors.CodeInsufficientBalance, "synthetic asset balance below requested amount")
	}

	depositAcc, err := s.ledger.Account(ctx, depositAccount)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "deposit asset account not found")
	}
	if depositAcc.Asset != cfg.DepositAsset {
		return nil, dErrors.New(dErrors.CodeInvalidVaultMint, "payout account does not hold the deposit asset")
	}

	redeemAcc, err := s.ledger.Account(ctx, cfg.RedeemVaultAccount)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "redeem vault account not found")
	}
	if redeemAcc.Balance < s.minRedeemReserve {
		return nil, dErrors.New(dErrors.CodeInsufficientRedeemVaultFunds, "redeem vault reserve below operational minimum")
	}

	req := &models.RedemptionRequest{
		User:             caller,
		Amount:           amount,
		DepositAsset:     cfg.DepositAsset,
		SyntheticAsset:   cfg.SyntheticAsset,
		SyntheticAccount: syntheticAccount,
		DepositAccount:   depositAccount,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.requests.Create(ctx, req); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyExists) {
			return nil, dErrors.New(dErrors.CodeRedemptionPending, "a redemption request is already outstanding")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record redemption request")
	}

	redeemAuthority := s.authority.Authority(authority.RedeemVaultAuthority)
	if err := s.ledger.Approve(ctx, syntheticAccount, redeemAuthority, amount, ledger.Signer(caller)); err != nil {
		// Undo the lock; the request never became observable as accepted.
		if delErr := s.requests.Delete(ctx, caller); delErr != nil {
			s.logger.ErrorContext(ctx, "failed to roll back redemption request", "error", delErr, "user", caller)
		}
		return nil, s.translateLedger(err)
	}

	s.logger.InfoContext(ctx, "redemption requested", "user", caller, "amount", amount)
	s.emit(ctx, audit.Event{
		Action:    string(audit.EventRedemptionRequested),
		Principal: caller.String(),
		Amount:    amount,
		Asset:     cfg.SyntheticAsset.String(),
	})
	if s.metrics != nil {
		s.metrics.ObserveRedemptionRequested()
	}
	return req, nil
}

// CompleteRedeem resolves a user's pending request: burns synthetic asset and
// releases deposit asset from the redeem vault. Only rewards administrators
// may call it. The burned amount is the minimum of the user's current balance
// and the requested amount, protecting against users who moved synthetic
// asset after requesting.
func (s *Service) CompleteRedeem(ctx context.Context, admin, user domain.Principal) (uint64, error) {
	cfg, err := s.activeConfig(ctx)
	if err != nil {
		return 0, err
	}
	if !cfg.IsRewardsAdministrator(admin) {
		return 0, dErrors.New(dErrors.CodeInvalidRewardsAdministrator, "caller is not a rewards administrator")
	}

	req, err := s.requests.Find(ctx, user)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return 0, dErrors.New(dErrors.CodeNotFound, "no redemption request outstanding for user")
		}
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load redemption request")
	}

	synthAcc, err := s.ledger.Account(ctx, req.SyntheticAccount)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeNotFound, "synthetic asset account not found")
	}
	amountToRedeem := min(synthAcc.Balance, req.Amount)
	if amountToRedeem == 0 {
		return 0, dErrors.New(dErrors.CodeInvalidAmount, "nothing left to redeem")
	}

	redeemAcc, err := s.ledger.Account(ctx, cfg.RedeemVaultAccount)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeNotFound, "redeem vault account not found")
	}
	if redeemAcc.Balance < amountToRedeem {
		return 0, dErrors.New(dErrors.CodeInsufficientVaultBalance, "redeem vault balance below redemption amount")
	}

	grant := s.authority.SignAs(authority.RedeemVaultAuthority)
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		// Burn via the delegation granted at request time; the user's
		// signature is not needed here.
		if err := s.ledger.Burn(ctx, cfg.SyntheticAsset, req.SyntheticAccount, amountToRedeem, grant); err != nil {
			return err
		}
		return s.ledger.Transfer(ctx, cfg.RedeemVaultAccount, req.DepositAccount, amountToRedeem, grant)
	})
	if err != nil {
		return 0, s.translateLedger(err)
	}

	if err := s.requests.Delete(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to destroy completed redemption request", "error", err, "user", user)
	}

	s.logger.InfoContext(ctx, "redemption completed", "user", user, "admin", admin, "amount", amountToRedeem)
	s.emit(ctx, audit.Event{
		Action:    string(audit.EventRedemptionCompleted),
		Principal: user.String(),
		Admin:     admin.String(),
		Amount:    amountToRedeem,
		Asset:     cfg.DepositAsset.String(),
	})
	if s.metrics != nil {
		s.metrics.ObserveRedemptionCompleted(amountToRedeem)
	}
	return amountToRedeem, nil
}

// Request returns the user's outstanding redemption request, if any.
func (s *Service) Request(ctx context.Context, user domain.Principal) (*models.RedemptionRequest, error) {
	req, err := s.requests.Find(ctx, user)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "no redemption request outstanding for user")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load redemption request")
	}
	return req, nil
}

func (s *Service) activeConfig(ctx context.Context) (*registrymodels.Config, error) {
	cfg, err := s.config.Get(ctx)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "registry is not initialized")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load config record")
	}
	if cfg.Paused {
		return nil, dErrors.New(dErrors.CodeProgramPaused, "program is paused")
	}
	return cfg, nil
}

// translateLedger maps substrate refusals to domain errors exactly once.
func (s *Service) translateLedger(err error) error {
	switch {
	case errors.Is(err, sentinel.ErrInsufficientFunds):
		return dErrors.Wrap(err, dErrors.CodeInsufficientBalance, "insufficient balance")
	case errors.Is(err, sentinel.ErrFrozen):
		return dErrors.Wrap(err, dErrors.CodeForbidden, "account is frozen")
	case errors.Is(err, sentinel.ErrUnauthorized):
		return dErrors.Wrap(err, dErrors.CodeUnauthorized, "ledger refused the authorization")
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, "ledger record not found")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "ledger operation failed")
	}
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event", "error", err, "action", event.Action)
	}
}
