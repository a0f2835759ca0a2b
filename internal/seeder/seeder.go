// Package seeder populates the in-memory substrate with demo data so a dev
// environment boots into a usable state: assets, funded accounts, an
// initialized registry, and one claimable rewards epoch.
package seeder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/provenance-io/hastra-sol-vault-mint/internal/authority"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/ledger"
	registrymodels "github.com/provenance-io/hastra-sol-vault-mint/internal/registry/models"
	registryservice "github.com/provenance-io/hastra-sol-vault-mint/internal/registry/service"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/rewards/merkle"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/domain"
)

// SetupLedger is the substrate surface needed for seeding: the regular ledger
// operations plus record creation, which in production belongs to the
// substrate's own tooling.
type SetupLedger interface {
	ledger.Ledger
	CreateAsset(a ledger.Asset) error
	CreateAccount(a ledger.TokenAccount) error
}

// Registry initializes the configuration record.
type Registry interface {
	Initialize(ctx context.Context, caller domain.Principal, p registryservice.InitializeParams) (*registrymodels.Config, error)
}

// Vault performs demo deposits.
type Vault interface {
	Deposit(ctx context.Context, caller domain.Principal, amount uint64, from, to domain.AccountID) error
}

// Rewards publishes the demo epoch.
type Rewards interface {
	CreateEpoch(ctx context.Context, admin domain.Principal, index uint64, root merkle.Root, total uint64) error
}

// DemoUser is one seeded holder with funded accounts.
type DemoUser struct {
	Name             string
	Principal        domain.Principal
	DepositAccount   domain.AccountID
	SyntheticAccount domain.AccountID
	RewardAmount     uint64
	RewardProof      []merkle.ProofNode
}

// Result reports every identity the seeder generated, so the process can log
// them for use with the token generator.
type Result struct {
	Owner              domain.Principal
	FreezeAdmin        domain.Principal
	RewardsAdmin       domain.Principal
	DepositAsset       domain.AssetID
	SyntheticAsset     domain.AssetID
	VaultAccount       domain.AccountID
	RedeemVaultAccount domain.AccountID
	RewardsEpoch       uint64
	Users              []DemoUser
}

// Seeder populates the stores and ledger with demo data.
type Seeder struct {
	ledger   SetupLedger
	registry Registry
	vault    Vault
	rewards  Rewards
	provider *authority.Provider
	logger   *slog.Logger
}

// New creates a new seeder.
func New(l SetupLedger, registry Registry, vault Vault, rewards Rewards, provider *authority.Provider, logger *slog.Logger) *Seeder {
	return &Seeder{
		ledger:   l,
		registry: registry,
		vault:    vault,
		rewards:  rewards,
		provider: provider,
		logger:   logger,
	}
}

const (
	demoFaucetGrant  uint64 = 100_000
	demoDepositEach  uint64 = 25_000
	demoRedeemFloat  uint64 = 50_000
	demoRewardsEpoch uint64 = 1
)

// SeedAll builds the demo environment: two assets, the vault accounts, an
// initialized registry under owner, three funded users with completed
// deposits, and a two-leaf rewards epoch claimable by the first two users.
func (s *Seeder) SeedAll(ctx context.Context, owner domain.Principal) (*Result, error) {
	s.logger.Info("seeding demo data...")

	res := &Result{
		Owner:              owner,
		FreezeAdmin:        domain.NewPrincipal(),
		RewardsAdmin:       domain.NewPrincipal(),
		DepositAsset:       domain.NewAssetID(),
		SyntheticAsset:     domain.NewAssetID(),
		VaultAccount:       domain.NewAccountID(),
		RedeemVaultAccount: domain.NewAccountID(),
		RewardsEpoch:       demoRewardsEpoch,
	}

	// The faucet stands in for the external issuer of the deposit asset.
	faucet := domain.NewPrincipal()

	if err := s.seedAssets(res, faucet); err != nil {
		return nil, fmt.Errorf("failed to seed assets: %w", err)
	}
	if err := s.seedVaultAccounts(ctx, res, owner, faucet); err != nil {
		return nil, fmt.Errorf("failed to seed vault accounts: %w", err)
	}

	if _, err := s.registry.Initialize(ctx, owner, registryservice.InitializeParams{
		DepositAsset:          res.DepositAsset,
		SyntheticAsset:        res.SyntheticAsset,
		FreezeAdministrators:  []domain.Principal{res.FreezeAdmin},
		RewardsAdministrators: []domain.Principal{res.RewardsAdmin},
		VaultAccount:          res.VaultAccount,
		RedeemVaultAccount:    res.RedeemVaultAccount,
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize registry: %w", err)
	}

	if err := s.seedUsers(ctx, res, faucet); err != nil {
		return nil, fmt.Errorf("failed to seed users: %w", err)
	}
	if err := s.seedRewardsEpoch(ctx, res); err != nil {
		return nil, fmt.Errorf("failed to seed rewards epoch: %w", err)
	}

	s.logger.Info("demo data seeded successfully",
		"users", len(res.Users),
		"rewards_epoch", res.RewardsEpoch,
	)
	return res, nil
}

func (s *Seeder) seedAssets(res *Result, faucet domain.Principal) error {
	if err := s.ledger.CreateAsset(ledger.Asset{
		ID:              res.DepositAsset,
		MintAuthority:   faucet,
		FreezeAuthority: faucet,
	}); err != nil {
		return err
	}
	return s.ledger.CreateAsset(ledger.Asset{
		ID:              res.SyntheticAsset,
		MintAuthority:   s.provider.Authority(authority.MintAuthority),
		FreezeAuthority: s.provider.Authority(authority.FreezeAuthority),
	})
}

func (s *Seeder) seedVaultAccounts(ctx context.Context, res *Result, owner, faucet domain.Principal) error {
	if err := s.ledger.CreateAccount(ledger.TokenAccount{
		ID:    res.VaultAccount,
		Asset: res.DepositAsset,
		Owner: s.provider.Authority(authority.VaultAuthority),
	}); err != nil {
		return err
	}
	// Created under the human owner; initialization hands it to the derived
	// redeem-vault authority.
	if err := s.ledger.CreateAccount(ledger.TokenAccount{
		ID:    res.RedeemVaultAccount,
		Asset: res.DepositAsset,
		Owner: owner,
	}); err != nil {
		return err
	}
	return s.ledger.MintTo(ctx, res.DepositAsset, res.RedeemVaultAccount, demoRedeemFloat, ledger.Signer(faucet))
}

func (s *Seeder) seedUsers(ctx context.Context, res *Result, faucet domain.Principal) error {
	for _, name := range []string{"alice", "bob", "charlie"} {
		user := DemoUser{
			Name:             name,
			Principal:        domain.NewPrincipal(),
			DepositAccount:   domain.NewAccountID(),
			SyntheticAccount: domain.NewAccountID(),
		}

		if err := s.ledger.CreateAccount(ledger.TokenAccount{
			ID:    user.DepositAccount,
			Asset: res.DepositAsset,
			Owner: user.Principal,
		}); err != nil {
			return err
		}
		if err := s.ledger.CreateAccount(ledger.TokenAccount{
			ID:    user.SyntheticAccount,
			Asset: res.SyntheticAsset,
			Owner: user.Principal,
		}); err != nil {
			return err
		}
		if err := s.ledger.MintTo(ctx, res.DepositAsset, user.DepositAccount, demoFaucetGrant, ledger.Signer(faucet)); err != nil {
			return err
		}
		if err := s.vault.Deposit(ctx, user.Principal, demoDepositEach, user.DepositAccount, user.SyntheticAccount); err != nil {
			return err
		}

		res.Users = append(res.Users, user)
	}
	return nil
}

func (s *Seeder) seedRewardsEpoch(ctx context.Context, res *Result) error {
	if len(res.Users) < 2 {
		return fmt.Errorf("rewards epoch needs two seeded users, have %d", len(res.Users))
	}

	a, b := &res.Users[0], &res.Users[1]
	a.RewardAmount = 1_000
	b.RewardAmount = 500

	leafA := merkle.Leaf(a.Principal, a.RewardAmount, demoRewardsEpoch)
	leafB := merkle.Leaf(b.Principal, b.RewardAmount, demoRewardsEpoch)
	root := merkle.Parent(leafA, leafB)
	a.RewardProof = []merkle.ProofNode{{Sibling: leafB, IsLeft: false}}
	b.RewardProof = []merkle.ProofNode{{Sibling: leafA, IsLeft: true}}

	return s.rewards.CreateEpoch(ctx, res.RewardsAdmin, demoRewardsEpoch, root, a.RewardAmount+b.RewardAmount)
}
