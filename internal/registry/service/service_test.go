package service

import (
	"context"
	"testing"

	"github.com/provenance-io/hastra-sol-vault-mint/internal/authority"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/ledger"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/registry/guard"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/registry/models"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/registry/store"
	dErrors "github.com/provenance-io/hastra-sol-vault-mint/pkg/domain-errors"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/domain"
)

type env struct {
	svc          *Service
	ledger       *ledger.InMemory
	owner        domain.Principal // upgrade authority
	operator     domain.Principal // human who runs initialize
	depositAsset domain.AssetID
	synthetic    domain.AssetID
	vaultAcc     domain.AccountID
	redeemAcc    domain.AccountID
	provider     *authority.Provider
}

func admins(n int) []domain.Principal {
	out := make([]domain.Principal, n)
	for i := range out {
		out[i] = domain.NewPrincipal()
	}
	return out
}

func newEnv(t *testing.T) *env {
	t.Helper()
	program := domain.NewPrincipal()
	e := &env{
		owner:        domain.NewPrincipal(),
		operator:     domain.NewPrincipal(),
		depositAsset: domain.NewAssetID(),
		synthetic:    domain.NewAssetID(),
		vaultAcc:     domain.NewAccountID(),
		redeemAcc:    domain.NewAccountID(),
		ledger:       ledger.NewInMemory(),
		provider:     authority.NewProvider(program),
	}

	if err := e.ledger.CreateAsset(ledger.Asset{ID: e.depositAsset, MintAuthority: domain.NewPrincipal(), FreezeAuthority: domain.NewPrincipal()}); err != nil {
		t.Fatalf("create deposit asset: %v", err)
	}
	if err := e.ledger.CreateAsset(ledger.Asset{ID: e.synthetic, MintAuthority: e.provider.Authority(authority.MintAuthority)}); err != nil {
		t.Fatalf("create synthetic asset: %v", err)
	}
	if err := e.ledger.CreateAccount(ledger.TokenAccount{ID: e.vaultAcc, Asset: e.depositAsset, Owner: e.provider.Authority(authority.VaultAuthority)}); err != nil {
		t.Fatalf("create vault account: %v", err)
	}
	if err := e.ledger.CreateAccount(ledger.TokenAccount{ID: e.redeemAcc, Asset: e.depositAsset, Owner: e.operator}); err != nil {
		t.Fatalf("create redeem vault account: %v", err)
	}

	deployments := store.NewInMemoryDeployments()
	if err := deployments.Put(context.Background(), &models.Deployment{
		Address:          authority.ProgramDataAddress(program),
		Program:          program,
		UpgradeAuthority: &e.owner,
	}); err != nil {
		t.Fatalf("put deployment: %v", err)
	}

	e.svc = New(store.NewInMemoryConfig(), guard.New(program, deployments), e.ledger, e.provider)
	return e
}

func (e *env) initialize(t *testing.T) *models.Config {
	t.Helper()
	cfg, err := e.svc.Initialize(context.Background(), e.operator, InitializeParams{
		DepositAsset:          e.depositAsset,
		SyntheticAsset:        e.synthetic,
		FreezeAdministrators:  admins(2),
		RewardsAdministrators: admins(2),
		VaultAccount:          e.vaultAcc,
		RedeemVaultAccount:    e.redeemAcc,
	})
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return cfg
}

func TestInitializeRecordsVaultOwnerAndMovesRedeemVault(t *testing.T) {
	e := newEnv(t)
	cfg := e.initialize(t)

	if cfg.VaultOwner != e.provider.Authority(authority.VaultAuthority) {
		t.Fatalf("expected vault owner reference to record the vault account owner")
	}

	redeemAcc, err := e.ledger.Account(context.Background(), e.redeemAcc)
	if err != nil {
		t.Fatalf("account: %v", err)
	}
	if redeemAcc.Owner != e.provider.Authority(authority.RedeemVaultAuthority) {
		t.Fatalf("expected redeem vault ownership transferred to derived authority, got %s", redeemAcc.Owner)
	}
}

func TestInitializeLeavesRedeemVaultWhenAlreadyDerived(t *testing.T) {
	e := newEnv(t)
	derived := e.provider.Authority(authority.RedeemVaultAuthority)
	if err := e.ledger.SetAccountOwner(context.Background(), e.redeemAcc, derived, ledger.Signer(e.operator)); err != nil {
		t.Fatalf("set owner: %v", err)
	}

	e.initialize(t)

	redeemAcc, _ := e.ledger.Account(context.Background(), e.redeemAcc)
	if redeemAcc.Owner != derived {
		t.Fatalf("expected redeem vault ownership untouched")
	}
}

func TestInitializeRejectsOversizedAdministratorSets(t *testing.T) {
	e := newEnv(t)
	_, err := e.svc.Initialize(context.Background(), e.operator, InitializeParams{
		DepositAsset:          e.depositAsset,
		SyntheticAsset:        e.synthetic,
		FreezeAdministrators:  admins(6),
		RewardsAdministrators: admins(1),
		VaultAccount:          e.vaultAcc,
		RedeemVaultAccount:    e.redeemAcc,
	})
	if !dErrors.HasCode(err, dErrors.CodeTooManyAdministrators) {
		t.Fatalf("expected too_many_administrators, got %v", err)
	}
}

func TestInitializeAcceptsFiveAdministrators(t *testing.T) {
	e := newEnv(t)
	_, err := e.svc.Initialize(context.Background(), e.operator, InitializeParams{
		DepositAsset:          e.depositAsset,
		SyntheticAsset:        e.synthetic,
		FreezeAdministrators:  admins(5),
		RewardsAdministrators: admins(5),
		VaultAccount:          e.vaultAcc,
		RedeemVaultAccount:    e.redeemAcc,
	})
	if err != nil {
		t.Fatalf("expected size-5 sets accepted: %v", err)
	}
}

func TestInitializeIsOneShot(t *testing.T) {
	e := newEnv(t)
	e.initialize(t)

	_, err := e.svc.Initialize(context.Background(), e.operator, InitializeParams{
		DepositAsset:          e.depositAsset,
		SyntheticAsset:        e.synthetic,
		VaultAccount:          e.vaultAcc,
		RedeemVaultAccount:    e.redeemAcc,
	})
	if !dErrors.HasCode(err, dErrors.CodeConflict) {
		t.Fatalf("expected conflict on second initialize, got %v", err)
	}
}

func TestInitializeRejectsVaultWithWrongAsset(t *testing.T) {
	e := newEnv(t)
	wrongAcc := domain.NewAccountID()
	if err := e.ledger.CreateAccount(ledger.TokenAccount{ID: wrongAcc, Asset: e.synthetic, Owner: e.operator}); err != nil {
		t.Fatalf("create account: %v", err)
	}

	_, err := e.svc.Initialize(context.Background(), e.operator, InitializeParams{
		DepositAsset:       e.depositAsset,
		SyntheticAsset:     e.synthetic,
		VaultAccount:       wrongAcc,
		RedeemVaultAccount: e.redeemAcc,
	})
	if !dErrors.HasCode(err, dErrors.CodeInvalidVaultMint) {
		t.Fatalf("expected invalid_vault_mint, got %v", err)
	}
}

func TestUpdateAdministratorsRequiresUpgradeAuthority(t *testing.T) {
	e := newEnv(t)
	e.initialize(t)
	ctx := context.Background()

	cfg, _ := e.svc.Config(ctx)
	member := cfg.FreezeAdministrators[0]

	// An administrator is not the upgrade authority; membership is irrelevant.
	err := e.svc.UpdateFreezeAdministrators(ctx, member, admins(1))
	if !dErrors.HasCode(err, dErrors.CodeInvalidUpgradeAuthority) {
		t.Fatalf("expected invalid_upgrade_authority for administrator caller, got %v", err)
	}

	err = e.svc.UpdateFreezeAdministrators(ctx, domain.Principal{}, admins(1))
	if !dErrors.HasCode(err, dErrors.CodeMissingSigner) {
		t.Fatalf("expected missing_signer for unsigned caller, got %v", err)
	}

	next := admins(3)
	if err := e.svc.UpdateFreezeAdministrators(ctx, e.owner, next); err != nil {
		t.Fatalf("expected owner update to pass: %v", err)
	}
	cfg, _ = e.svc.Config(ctx)
	if len(cfg.FreezeAdministrators) != 3 {
		t.Fatalf("expected replacement set of 3, got %d", len(cfg.FreezeAdministrators))
	}
}

func TestUpdateRewardsAdministratorsBoundsSet(t *testing.T) {
	e := newEnv(t)
	e.initialize(t)
	ctx := context.Background()

	err := e.svc.UpdateRewardsAdministrators(ctx, e.owner, admins(6))
	if !dErrors.HasCode(err, dErrors.CodeTooManyAdministrators) {
		t.Fatalf("expected too_many_administrators, got %v", err)
	}
	if err := e.svc.UpdateRewardsAdministrators(ctx, e.owner, admins(5)); err != nil {
		t.Fatalf("expected size-5 set accepted: %v", err)
	}
}

func TestPauseResume(t *testing.T) {
	e := newEnv(t)
	e.initialize(t)
	ctx := context.Background()

	if err := e.svc.Pause(ctx, e.operator); !dErrors.HasCode(err, dErrors.CodeInvalidUpgradeAuthority) {
		t.Fatalf("expected pause restricted to upgrade authority, got %v", err)
	}

	if err := e.svc.Pause(ctx, e.owner); err != nil {
		t.Fatalf("pause: %v", err)
	}
	cfg, _ := e.svc.Config(ctx)
	if !cfg.Paused {
		t.Fatalf("expected paused flag set")
	}

	if err := e.svc.Resume(ctx, e.owner); err != nil {
		t.Fatalf("resume: %v", err)
	}
	cfg, _ = e.svc.Config(ctx)
	if cfg.Paused {
		t.Fatalf("expected paused flag cleared")
	}
}

func TestSetAllowedExternalCaller(t *testing.T) {
	e := newEnv(t)
	e.initialize(t)
	ctx := context.Background()
	external := domain.NewPrincipal()

	if err := e.svc.SetAllowedExternalCaller(ctx, e.operator, external); !dErrors.HasCode(err, dErrors.CodeInvalidUpgradeAuthority) {
		t.Fatalf("expected owner-only, got %v", err)
	}
	if err := e.svc.SetAllowedExternalCaller(ctx, e.owner, external); err != nil {
		t.Fatalf("set external caller: %v", err)
	}
	cfg, _ := e.svc.Config(ctx)
	if cfg.AllowedExternalCaller != external {
		t.Fatalf("expected external caller recorded")
	}
}
