package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/provenance-io/hastra-sol-vault-mint/internal/authority"
	freezehandler "github.com/provenance-io/hastra-sol-vault-mint/internal/freeze/handler"
	freezemetrics "github.com/provenance-io/hastra-sol-vault-mint/internal/freeze/metrics"
	freezeservice "github.com/provenance-io/hastra-sol-vault-mint/internal/freeze/service"
	jwttoken "github.com/provenance-io/hastra-sol-vault-mint/internal/jwt_token"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/ledger"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/platform/config"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/platform/health"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/platform/httpserver"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/platform/logger"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/registry/guard"
	registryhandler "github.com/provenance-io/hastra-sol-vault-mint/internal/registry/handler"
	registrymetrics "github.com/provenance-io/hastra-sol-vault-mint/internal/registry/metrics"
	registrymodels "github.com/provenance-io/hastra-sol-vault-mint/internal/registry/models"
	registryservice "github.com/provenance-io/hastra-sol-vault-mint/internal/registry/service"
	registrystore "github.com/provenance-io/hastra-sol-vault-mint/internal/registry/store"
	rewardshandler "github.com/provenance-io/hastra-sol-vault-mint/internal/rewards/handler"
	rewardsmetrics "github.com/provenance-io/hastra-sol-vault-mint/internal/rewards/metrics"
	rewardsservice "github.com/provenance-io/hastra-sol-vault-mint/internal/rewards/service"
	rewardsstore "github.com/provenance-io/hastra-sol-vault-mint/internal/rewards/store"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/seeder"
	httptransport "github.com/provenance-io/hastra-sol-vault-mint/internal/transport/http"
	vaulthandler "github.com/provenance-io/hastra-sol-vault-mint/internal/vault/handler"
	vaultmetrics "github.com/provenance-io/hastra-sol-vault-mint/internal/vault/metrics"
	vaultservice "github.com/provenance-io/hastra-sol-vault-mint/internal/vault/service"
	vaultstore "github.com/provenance-io/hastra-sol-vault-mint/internal/vault/store"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/domain"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/platform/audit"
	auditpublisher "github.com/provenance-io/hastra-sol-vault-mint/pkg/platform/audit/publisher"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/platform/middleware/request"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/platform/tracer"
)

const tokenIssuer = "hastra-sol-vault-mint"

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	program, err := principalFromEnv(cfg.ProgramID)
	if err != nil {
		log.Error("invalid PROGRAM_ID", "error", err)
		os.Exit(1)
	}
	owner, err := principalFromEnv(cfg.UpgradeAuthority)
	if err != nil {
		log.Error("invalid UPGRADE_AUTHORITY", "error", err)
		os.Exit(1)
	}

	log.Info("initializing vault-mint",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"program", program,
		"upgrade_authority", owner,
	)

	ctx := context.Background()
	provider := authority.NewProvider(program)
	l := ledger.NewInMemory()

	// The deployment metadata record anchors the administrator guard. In this
	// process it is installed at boot from the configured upgrade authority.
	deployments := registrystore.NewInMemoryDeployments()
	if err := deployments.Put(ctx, &registrymodels.Deployment{
		Address:          authority.ProgramDataAddress(program),
		Program:          program,
		UpgradeAuthority: &owner,
	}); err != nil {
		log.Error("failed to install deployment record", "error", err)
		os.Exit(1)
	}
	g := guard.New(program, deployments)

	auditStore := audit.NewInMemoryStore()
	publisher := auditpublisher.New(auditStore,
		auditpublisher.WithAsyncBuffer(cfg.AuditBuffer),
		auditpublisher.WithLogger(log),
	)
	defer publisher.Close()

	configStore := registrystore.NewInMemoryConfig()
	registrySvc := registryservice.New(configStore, g, l, provider,
		registryservice.WithLogger(log),
		registryservice.WithAuditPublisher(publisher),
		registryservice.WithMetrics(registrymetrics.New()),
	)

	vaultSvc := vaultservice.New(configStore, vaultstore.NewInMemoryRequests(), l, l, provider,
		vaultservice.WithLogger(log),
		vaultservice.WithAuditPublisher(publisher),
		vaultservice.WithMetrics(vaultmetrics.New()),
		vaultservice.WithMinRedeemReserve(cfg.MinRedeemReserve),
	)

	freezeSvc := freezeservice.New(configStore, l, provider,
		freezeservice.WithLogger(log),
		freezeservice.WithAuditPublisher(publisher),
		freezeservice.WithMetrics(freezemetrics.New()),
	)

	rewardsSvc := rewardsservice.New(configStore, rewardsstore.NewInMemoryEpochs(), rewardsstore.NewInMemoryClaims(), l, provider,
		rewardsservice.WithLogger(log),
		rewardsservice.WithAuditPublisher(publisher),
		rewardsservice.WithMetrics(rewardsmetrics.New()),
		rewardsservice.WithTracer(tracer.NewOTel()),
	)

	if cfg.SeedDemo {
		seed := seeder.New(l, registrySvc, vaultSvc, rewardsSvc, provider, log)
		res, err := seed.SeedAll(ctx, owner)
		if err != nil {
			log.Error("demo seeding failed", "error", err)
			os.Exit(1)
		}
		logSeedResult(log, res)
	}

	jwtSvc := jwttoken.NewJWTService(cfg.JWTSigningKey, tokenIssuer, tokenIssuer, cfg.TokenTTL)

	healthHandler := health.New(cfg.Environment)
	healthHandler.RegisterCheck("registry", func() error {
		_, err := configStore.Get(context.Background())
		return err
	})

	router := httptransport.NewRouter(httptransport.Config{
		Logger:          log,
		Validator:       jwtSvc,
		AdminSecretHash: cfg.AdminSecretHash,
		RequestMetrics:  request.NewMetrics(),
		Health:          healthHandler,
		Status:          httptransport.NewStatusHandler(configStore, l, log),
		Authenticated: []httptransport.Registrar{
			vaulthandler.New(vaultSvc, log),
			rewardshandler.New(rewardsSvc, log),
			freezehandler.New(freezeSvc, log),
		},
		Operator: []httptransport.Registrar{
			registryhandler.New(registrySvc, log),
		},
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info("shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}

// principalFromEnv parses a configured identity, generating a fresh one when
// the variable is unset so dev environments boot without ceremony.
func principalFromEnv(value string) (domain.Principal, error) {
	if value == "" {
		return domain.NewPrincipal(), nil
	}
	return domain.ParsePrincipal(value)
}

func logSeedResult(log *slog.Logger, res *seeder.Result) {
	log.Info("demo environment ready",
		"owner", res.Owner,
		"freeze_admin", res.FreezeAdmin,
		"rewards_admin", res.RewardsAdmin,
		"deposit_asset", res.DepositAsset,
		"synthetic_asset", res.SyntheticAsset,
		"vault_account", res.VaultAccount,
		"redeem_vault_account", res.RedeemVaultAccount,
		"rewards_epoch", res.RewardsEpoch,
	)
	for _, u := range res.Users {
		log.Info("demo user",
			"name", u.Name,
			"principal", u.Principal,
			"deposit_account", u.DepositAccount,
			"synthetic_account", u.SyntheticAccount,
			"reward_amount", u.RewardAmount,
		)
	}
}
