// Package main provides a CLI tool for generating dev credentials for the
// vault-mint API: bearer tokens for a principal and operator secrets for the
// X-Admin-Secret header. Dev signing keys only; not for production.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	jwttoken "github.com/provenance-io/hastra-sol-vault-mint/internal/jwt_token"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/domain"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/secrets"
)

const (
	// Dev signing key - matches config.go when JWT_SIGNING_KEY is not set
	devSigningKey = "dev-secret-key-change-in-production"

	defaultIssuer   = "hastra-sol-vault-mint"
	defaultTokenTTL = 15 * time.Minute
)

type tokenOutput struct {
	Token     string            `json:"token"`
	Type      string            `json:"type"`
	ExpiresIn string            `json:"expires_in,omitempty"`
	Principal string            `json:"principal,omitempty"`
	Usage     map[string]string `json:"usage"`
}

type secretOutput struct {
	Secret string            `json:"secret"`
	Hash   string            `json:"hash"`
	Usage  map[string]string `json:"usage"`
}

func main() {
	tokenCmd := flag.NewFlagSet("token", flag.ExitOnError)
	secretCmd := flag.NewFlagSet("secret", flag.ExitOnError)

	tokenPrincipal := tokenCmd.String("principal", "", "Principal (64 hex chars). Generated if empty.")
	tokenKey := tokenCmd.String("key", devSigningKey, "JWT signing key (must match the server's)")
	tokenTTL := tokenCmd.Duration("ttl", defaultTokenTTL, "Token time-to-live")
	tokenJSON := tokenCmd.Bool("json", false, "Output as JSON")

	secretJSON := secretCmd.Bool("json", false, "Output as JSON")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "token":
		tokenCmd.Parse(os.Args[2:])
		generateToken(*tokenPrincipal, *tokenKey, *tokenTTL, *tokenJSON)
	case "secret":
		secretCmd.Parse(os.Args[2:])
		generateSecret(*secretJSON)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tokengen - Generate dev credentials for the vault-mint API

WARNING: Tokens use the dev signing key unless -key is set.
         Only use for local development and testing.

Usage:
  tokengen <command> [flags]

Commands:
  token     Generate a bearer token (JWT) for a principal
  secret    Generate an operator secret and its bcrypt hash

Examples:
  # Token for a fresh principal
  tokengen token

  # Token for a seeded demo user
  tokengen token -principal <64-hex-principal>

  # Token with a custom TTL
  tokengen token -ttl 1h

  # Operator secret: export the hash, send the secret
  tokengen secret

Use "tokengen <command> -h" for more information about a command.`)
}

func generateToken(principalHex, key string, ttl time.Duration, jsonOutput bool) {
	principal := parseOrGeneratePrincipal(principalHex)

	svc := jwttoken.NewJWTService(key, defaultIssuer, defaultIssuer, ttl)
	token, err := svc.GenerateAccessToken(context.Background(), principal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating token: %v\n", err)
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(tokenOutput{
			Token:     token,
			Type:      "bearer",
			ExpiresIn: ttl.String(),
			Principal: principal.String(),
			Usage: map[string]string{
				"header": "Authorization: Bearer <token>",
			},
		})
		return
	}

	fmt.Println("Bearer Token (JWT)")
	fmt.Println("==================")
	fmt.Printf("Principal:  %s\n", principal)
	fmt.Printf("Expires In: %s\n", ttl)
	fmt.Println()
	fmt.Println("Token:")
	fmt.Println(token)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  curl -H \"Authorization: Bearer <token>\" http://localhost:8080/...")
}

func generateSecret(jsonOutput bool) {
	secret, err := secrets.Generate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating secret: %v\n", err)
		os.Exit(1)
	}
	hash, err := secrets.Hash(secret)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error hashing secret: %v\n", err)
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(secretOutput{
			Secret: secret,
			Hash:   hash,
			Usage: map[string]string{
				"server": "export ADMIN_SECRET_HASH='<hash>'",
				"client": "X-Admin-Secret: <secret>",
			},
		})
		return
	}

	fmt.Println("Operator Secret")
	fmt.Println("===============")
	fmt.Printf("Secret: %s\n", secret)
	fmt.Printf("Hash:   %s\n", hash)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  Server: export ADMIN_SECRET_HASH='" + hash + "'")
	fmt.Println("  Client: curl -H \"X-Admin-Secret: " + secret + "\" http://localhost:8080/...")
}

func parseOrGeneratePrincipal(input string) domain.Principal {
	if input == "" {
		return domain.NewPrincipal()
	}
	parsed, err := domain.ParsePrincipal(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid principal: %s\n", input)
		os.Exit(1)
	}
	return parsed
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}
