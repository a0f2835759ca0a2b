package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr             string
	Environment      string
	JWTSigningKey    string
	AdminSecretHash  string
	TokenTTL         time.Duration
	ProgramID        string
	UpgradeAuthority string
	MinRedeemReserve uint64
	AuditBuffer      int
	SeedDemo         bool
}

var TokenTTL = 15 * time.Minute

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("VAULT_MINT_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	environment := os.Getenv("VAULT_MINT_ENV")
	if environment == "" {
		environment = "dev"
	}

	tokenTTLStr := os.Getenv("TOKEN_TTL")
	if tokenTTLStr != "" {
		if duration, err := time.ParseDuration(tokenTTLStr); err == nil {
			TokenTTL = duration
		}
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	minReserve := uint64(1)
	if v := os.Getenv("MIN_REDEEM_RESERVE"); v != "" {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
			minReserve = parsed
		}
	}

	auditBuffer := 1024
	if v := os.Getenv("AUDIT_BUFFER"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			auditBuffer = parsed
		}
	}

	return Server{
		Addr:             addr,
		Environment:      environment,
		JWTSigningKey:    jwtSigningKey,
		AdminSecretHash:  os.Getenv("ADMIN_SECRET_HASH"),
		TokenTTL:         TokenTTL,
		ProgramID:        os.Getenv("PROGRAM_ID"),
		UpgradeAuthority: os.Getenv("UPGRADE_AUTHORITY"),
		MinRedeemReserve: minReserve,
		AuditBuffer:      auditBuffer,
		SeedDemo:         os.Getenv("SEED_DEMO") == "true",
	}
}
