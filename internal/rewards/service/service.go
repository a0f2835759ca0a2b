// Package service implements rewards epoch publication, Merkle-proof claims,
// and the privileged external mint path.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/provenance-io/hastra-sol-vault-mint/internal/authority"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/ledger"
	registrymodels "github.com/provenance-io/hastra-sol-vault-mint/internal/registry/models"
	rewardsmetrics "github.com/provenance-io/hastra-sol-vault-mint/internal/rewards/metrics"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/rewards/merkle"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/rewards/models"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/sentinel"
	dErrors "github.com/provenance-io/hastra-sol-vault-mint/pkg/domain-errors"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/domain"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/platform/audit"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/platform/tracer"
)

// ConfigSource reads the registry configuration record.
type ConfigSource interface {
	Get(ctx context.Context) (*registrymodels.Config, error)
}

// EpochStore defines the persistence contract for published epochs.
type EpochStore interface {
	Create(ctx context.Context, epoch models.Epoch) error
	Find(ctx context.Context, index uint64) (models.Epoch, error)
	List(ctx context.Context) ([]models.Epoch, error)
}

// ClaimStore defines the persistence contract for claim records.
type ClaimStore interface {
	Create(ctx context.Context, claim models.Claim) error
	Find(ctx context.Context, epoch uint64, user domain.Principal) (models.Claim, error)
	Delete(ctx context.Context, epoch uint64, user domain.Principal) error
}

// AuditPublisher records asset movements.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates rewards distribution.
type Service struct {
	config    ConfigSource
	epochs    EpochStore
	claims    ClaimStore
	ledger    ledger.Ledger
	authority *authority.Provider

	logger    *slog.Logger
	publisher AuditPublisher
	metrics   *rewardsmetrics.Metrics
	tracer    tracer.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

func WithMetrics(m *rewardsmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

func New(config ConfigSource, epochs EpochStore, claims ClaimStore, l ledger.Ledger, provider *authority.Provider, opts ...Option) *Service {
	s := &Service{
		config:    config,
		epochs:    epochs,
		claims:    claims,
		ledger:    l,
		authority: provider,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.tracer == nil {
		s.tracer = tracer.NewNoop()
	}
	return s
}

// CreateEpoch publishes a rewards distribution under a fresh index. The root
// commits to every entry of the distribution; individual amounts are verified
// at claim time against it.
func (s *Service) CreateEpoch(ctx context.Context, admin domain.Principal, index uint64, root merkle.Root, total uint64) (err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanEpochCreate,
		tracer.Int64(tracer.AttrEpoch, int64(index)),
		tracer.String(tracer.AttrAdmin, admin.String()),
	)
	defer func() { span.End(err) }()

	cfg, err := s.activeConfig(ctx)
	if err != nil {
		return err
	}
	if !cfg.IsRewardsAdministrator(admin) {
		return dErrors.New(dErrors.CodeInvalidRewardsAdministrator, "caller is not a rewards administrator")
	}

	epoch := models.Epoch{
		Index:      index,
		MerkleRoot: root,
		Total:      total,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.epochs.Create(ctx, epoch); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyExists) {
			return dErrors.New(dErrors.CodeConflict, "rewards epoch index already published")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record rewards epoch")
	}

	s.logger.InfoContext(ctx, "rewards epoch created", "epoch", index, "total", total, "admin", admin)
	s.emit(ctx, audit.Event{
		Action: string(audit.EventRewardsEpochCreated),
		Admin:  admin.String(),
		Amount: total,
		Epoch:  index,
	})
	if s.metrics != nil {
		s.metrics.ObserveEpochCreated()
	}
	return nil
}

// Claim verifies the caller's inclusion proof against the epoch's root and
// mints the proven amount of the synthetic asset to the destination account.
// The claim record is written before the mint so a concurrent duplicate loses
// the race; it is unwound if the mint itself fails.
func (s *Service) Claim(ctx context.Context, caller domain.Principal, epochIndex uint64, amount uint64, proof []merkle.ProofNode, to domain.AccountID) (err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanClaim,
		tracer.Int64(tracer.AttrEpoch, int64(epochIndex)),
		tracer.String(tracer.AttrUser, caller.String()),
		tracer.Int64(tracer.AttrAmount, int64(amount)),
		tracer.Int64(tracer.AttrProofLen, int64(len(proof))),
	)
	defer func() { span.End(err) }()

	cfg, err := s.activeConfig(ctx)
	if err != nil {
		return err
	}
	if amount == 0 {
		return dErrors.New(dErrors.CodeInvalidAmount, "claim amount must be positive")
	}

	epoch, err := s.epochs.Find(ctx, epochIndex)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeInvalidRewardsEpoch, "rewards epoch does not exist")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load rewards epoch")
	}

	toAcc, err := s.ledger.Account(ctx, to)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeNotFound, "claim destination account not found")
	}
	if toAcc.Asset != cfg.SyntheticAsset {
		return dErrors.New(dErrors.CodeInvalidMint, "claim destination does not hold the synthetic asset")
	}
	if toAcc.Owner != caller {
		return dErrors.New(dErrors.CodeUnauthorized, "claim destination is not owned by the caller")
	}

	leaf := merkle.Leaf(caller, amount, epochIndex)
	if !merkle.Verify(epoch.MerkleRoot, leaf, proof) {
		return dErrors.New(dErrors.CodeInvalidMerkleProof, "proof does not verify against epoch root")
	}
	span.AddEvent(tracer.EventProofVerified)

	claim := models.Claim{
		Epoch:     epochIndex,
		User:      caller,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.claims.Create(ctx, claim); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyExists) {
			return dErrors.New(dErrors.CodeRewardsAlreadyClaimed, "rewards already claimed for this epoch")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record claim")
	}
	span.AddEvent(tracer.EventClaimRecorded)

	if err := s.ledger.MintTo(ctx, cfg.SyntheticAsset, to, amount, s.authority.SignAs(authority.MintAuthority)); err != nil {
		// Undo the record; the claim never became observable as paid.
		if delErr := s.claims.Delete(ctx, epochIndex, caller); delErr != nil {
			s.logger.ErrorContext(ctx, "failed to roll back claim record", "error", delErr, "epoch", epochIndex, "user", caller)
		}
		return s.translateLedger(err)
	}

	s.logger.InfoContext(ctx, "rewards claimed", "epoch", epochIndex, "user", caller, "amount", amount)
	s.emit(ctx, audit.Event{
		Action:    string(audit.EventRewardsClaimed),
		Principal: caller.String(),
		Amount:    amount,
		Asset:     cfg.SyntheticAsset.String(),
		Account:   to.String(),
		Epoch:     epochIndex,
	})
	if s.metrics != nil {
		s.metrics.ObserveClaim(amount)
	}
	return nil
}

// ExternalProgramMint mints the synthetic asset on behalf of the single
// registered external caller. The destination is unconstrained beyond holding
// the synthetic asset; the external caller decides who receives.
func (s *Service) ExternalProgramMint(ctx context.Context, caller domain.Principal, amount uint64, to domain.AccountID) (err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanExternalMint,
		tracer.String(tracer.AttrUser, caller.String()),
		tracer.Int64(tracer.AttrAmount, int64(amount)),
		tracer.String(tracer.AttrRecipient, to.String()),
	)
	defer func() { span.End(err) }()

	cfg, err := s.activeConfig(ctx)
	if err != nil {
		return err
	}
	if cfg.AllowedExternalCaller.IsZero() || caller != cfg.AllowedExternalCaller {
		return dErrors.New(dErrors.CodeUnauthorizedExternalCaller, "caller is not the registered external program")
	}
	if amount == 0 {
		return dErrors.New(dErrors.CodeInvalidAmount, "mint amount must be positive")
	}

	toAcc, err := s.ledger.Account(ctx, to)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeNotFound, "mint destination account not found")
	}
	if toAcc.Asset != cfg.SyntheticAsset {
		return dErrors.New(dErrors.CodeInvalidMint, "mint destination does not hold the synthetic asset")
	}

	if err := s.ledger.MintTo(ctx, cfg.SyntheticAsset, to, amount, s.authority.SignAs(authority.MintAuthority)); err != nil {
		return s.translateLedger(err)
	}

	s.logger.InfoContext(ctx, "external mint performed", "caller", caller, "amount", amount)
	s.emit(ctx, audit.Event{
		Action:    string(audit.EventExternalMintPerformed),
		Principal: caller.String(),
		Amount:    amount,
		Asset:     cfg.SyntheticAsset.String(),
		Account:   to.String(),
	})
	if s.metrics != nil {
		s.metrics.ObserveExternalMint()
	}
	return nil
}

// Epoch returns a published epoch by index.
func (s *Service) Epoch(ctx context.Context, index uint64) (models.Epoch, error) {
	epoch, err := s.epochs.Find(ctx, index)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Epoch{}, dErrors.New(dErrors.CodeNotFound, "rewards epoch does not exist")
		}
		return models.Epoch{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load rewards epoch")
	}
	return epoch, nil
}

// Epochs lists every published epoch.
func (s *Service) Epochs(ctx context.Context) ([]models.Epoch, error) {
	epochs, err := s.epochs.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list rewards epochs")
	}
	return epochs, nil
}

// Claimed reports whether user has already claimed from the epoch.
func (s *Service) Claimed(ctx context.Context, epoch uint64, user domain.Principal) (bool, error) {
	_, err := s.claims.Find(ctx, epoch, user)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return false, nil
		}
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load claim record")
	}
	return true, nil
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

func (s *Service) translateLedger(err error) error {
	switch {
	case errors.Is(err, sentinel.ErrFrozen):
		return dErrors.Wrap(err, dErrors.CodeForbidden, "account is frozen")
	case errors.Is(err, sentinel.ErrUnauthorized):
		return dErrors.Wrap(err, dErrors.CodeInvalidMintAuthority, "ledger refused the mint authority")
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
