package service

import (
	"context"
	"testing"

	"github.com/provenance-io/hastra-sol-vault-mint/internal/authority"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/ledger"
	registrymodels "github.com/provenance-io/hastra-sol-vault-mint/internal/registry/models"
	registrystore "github.com/provenance-io/hastra-sol-vault-mint/internal/registry/store"
	dErrors "github.com/provenance-io/hastra-sol-vault-mint/pkg/domain-errors"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/domain"
)

type env struct {
	svc       *Service
	ledger    *ledger.InMemory
	provider  *authority.Provider
	config    *registrystore.InMemoryConfig
	admin     domain.Principal
	synthetic domain.AssetID
	holder    domain.Principal
	account   domain.AccountID
	unmanaged domain.AssetID
}

func newEnv(t *testing.T) *env {
	t.Helper()
	program := domain.NewPrincipal()
	e := &env{
		ledger:    ledger.NewInMemory(),
		provider:  authority.NewProvider(program),
		config:    registrystore.NewInMemoryConfig(),
		admin:     domain.NewPrincipal(),
		synthetic: domain.NewAssetID(),
		holder:    domain.NewPrincipal(),
		account:   domain.NewAccountID(),
		unmanaged: domain.NewAssetID(),
	}
	ctx := context.Background()

	if err := e.ledger.CreateAsset(ledger.Asset{
		ID:              e.synthetic,
		MintAuthority:   e.provider.Authority(authority.MintAuthority),
		FreezeAuthority: e.provider.Authority(authority.FreezeAuthority),
	}); err != nil {
		t.Fatalf("create asset: %v", err)
	}
	// Freeze capability held by an outside party, not the derived authority.
	if err := e.ledger.CreateAsset(ledger.Asset{
		ID:              e.unmanaged,
		MintAuthority:   domain.NewPrincipal(),
		FreezeAuthority: domain.NewPrincipal(),
	}); err != nil {
		t.Fatalf("create unmanaged asset: %v", err)
	}
	if err := e.ledger.CreateAccount(ledger.TokenAccount{ID: e.account, Asset: e.synthetic, Owner: e.holder, Balance: 100}); err != nil {
		t.Fatalf("create account: %v", err)
	}

	if err := e.config.CreateOnce(ctx, &registrymodels.Config{
		DepositAsset:         domain.NewAssetID(),
		SyntheticAsset:       e.synthetic,
		FreezeAdministrators: []domain.Principal{e.admin},
	}); err != nil {
		t.Fatalf("seed config: %v", err)
	}

	e.svc = New(e.config, e.ledger, e.provider)
	return e
}

func TestFreezeThenThawRestoresTransfers(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	dst := domain.NewAccountID()
	if err := e.ledger.CreateAccount(ledger.TokenAccount{ID: dst, Asset: e.synthetic, Owner: domain.NewPrincipal()}); err != nil {
		t.Fatalf("create account: %v", err)
	}

	if err := e.svc.FreezeTokenAccount(ctx, e.admin, e.account, e.synthetic); err != nil {
		t.Fatalf("freeze: %v", err)
	}
	if err := e.ledger.Transfer(ctx, e.account, dst, 10, ledger.Signer(e.holder)); err == nil {
		t.Fatalf("expected transfer blocked while frozen")
	}

	if err := e.svc.ThawTokenAccount(ctx, e.admin, e.account, e.synthetic); err != nil {
		t.Fatalf("thaw: %v", err)
	}
	if err := e.ledger.Transfer(ctx, e.account, dst, 10, ledger.Signer(e.holder)); err != nil {
		t.Fatalf("expected transfer restored after thaw: %v", err)
	}
}

func TestFreezeRequiresAdministrator(t *testing.T) {
	e := newEnv(t)
	err := e.svc.FreezeTokenAccount(context.Background(), domain.NewPrincipal(), e.account, e.synthetic)
	if !dErrors.HasCode(err, dErrors.CodeUnauthorizedFreezeAdministrator) {
		t.Fatalf("expected unauthorized_freeze_administrator, got %v", err)
	}
}

func TestFreezeRequiresDerivedFreezeAuthority(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	acc := domain.NewAccountID()
	if err := e.ledger.CreateAccount(ledger.TokenAccount{ID: acc, Asset: e.unmanaged, Owner: e.holder}); err != nil {
		t.Fatalf("create account: %v", err)
	}

	err := e.svc.FreezeTokenAccount(ctx, e.admin, acc, e.unmanaged)
	if !dErrors.HasCode(err, dErrors.CodeInvalidFreezeAuthority) {
		t.Fatalf("expected invalid_freeze_authority, got %v", err)
	}
}

func TestFreezeIsIdempotentInEffect(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	if err := e.svc.FreezeTokenAccount(ctx, e.admin, e.account, e.synthetic); err != nil {
		t.Fatalf("freeze: %v", err)
	}
	// Freezing a frozen account is not specially rejected.
	if err := e.svc.FreezeTokenAccount(ctx, e.admin, e.account, e.synthetic); err != nil {
		t.Fatalf("second freeze: %v", err)
	}
}

func TestFreezeRefusesWhilePaused(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	if err := e.config.Mutate(ctx, func(cfg *registrymodels.Config) error {
		cfg.Paused = true
		return nil
	}); err != nil {
		t.Fatalf("pause: %v", err)
	}

	err := e.svc.FreezeTokenAccount(ctx, e.admin, e.account, e.synthetic)
	if !dErrors.HasCode(err, dErrors.CodeProgramPaused) {
		t.Fatalf("expected program_paused, got %v", err)
	}
}
