// Package jwttoken issues and validates bearer tokens for the API surface.
// The token subject is the caller's principal in hex; the service layer
// treats that principal as the transaction signer.
package jwttoken

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/provenance-io/hastra-sol-vault-mint/pkg/domain"
	dErrors "github.com/provenance-io/hastra-sol-vault-mint/pkg/domain-errors"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/requestcontext"
)

// AccessTokenClaims represents the JWT claims for our access tokens.
type AccessTokenClaims struct {
	jwt.RegisteredClaims
}

// JWTService handles JWT creation and validation.
type JWTService struct {
	signingKey []byte
	issuer     string
	audience   string
	tokenTTL   time.Duration
}

func NewJWTService(signingKey string, issuer string, audience string, tokenTTL time.Duration) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
		tokenTTL:   tokenTTL,
	}
}

// GenerateAccessToken issues a signed token whose subject is the principal.
func (s *JWTService) GenerateAccessToken(ctx context.Context, principal domain.Principal) (string, error) {
	if principal.IsZero() {
		return "", dErrors.New(dErrors.CodeValidation, "principal cannot be zero")
	}
	now := requestcontext.Now(ctx)

	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        uuid.NewString(),
		},
	})

	signedToken, err := newToken.SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not sign token")
	}
	return signedToken, nil
}

// ValidateToken verifies the signature and standard claims and returns the
// principal carried in the subject.
func (s *JWTService) ValidateToken(tokenString string) (domain.Principal, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &AccessTokenClaims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Principal{}, dErrors.New(dErrors.CodeUnauthorized, "token expired")
		}
		return domain.Principal{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	if !parsed.Valid {
		return domain.Principal{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*AccessTokenClaims)
	if !ok {
		return domain.Principal{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	if claims.Issuer != s.issuer {
		return domain.Principal{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token issuer")
	}

	principal, err := domain.ParsePrincipal(claims.Subject)
	if err != nil {
		return domain.Principal{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token subject")
	}
	return principal, nil
}
