package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "github.com/provenance-io/hastra-sol-vault-mint/pkg/domain-errors"
)

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Errors after WriteHeader cannot change the status code, so we ignore encoding errors.
	// The response body may be incomplete, but headers are already sent.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError centralizes domain error translation to HTTP responses.
// It translates transport-agnostic domain errors into HTTP status codes and
// error responses. Domain codes are already wire-safe snake_case strings, so
// they travel unchanged in the "error" field.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		response := map[string]string{
			"error": string(domainErr.Code),
		}
		if domainErr.Message != "" {
			response["error_description"] = domainErr.Message
		}
		WriteJSON(w, DomainCodeToHTTPStatus(domainErr.Code), response)
		return
	}

	// Fallback for unexpected errors
	WriteJSON(w, http.StatusInternalServerError, map[string]string{
		"error": string(dErrors.CodeInternal),
	})
}

// DomainCodeToHTTPStatus translates domain error codes to HTTP status codes.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeBadRequest, dErrors.CodeValidation,
		dErrors.CodeInvalidAmount, dErrors.CodeTooManyAdministrators,
		dErrors.CodeInvalidProgramData,
		dErrors.CodeInvalidMint, dErrors.CodeInvalidVaultMint,
		dErrors.CodeInvalidRewardsEpoch, dErrors.CodeInvalidMerkleProof:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized, dErrors.CodeMissingSigner:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden,
		dErrors.CodeNoUpgradeAuthority, dErrors.CodeInvalidUpgradeAuthority,
		dErrors.CodeUnauthorizedFreezeAdministrator, dErrors.CodeInvalidRewardsAdministrator,
		dErrors.CodeUnauthorizedExternalCaller,
		dErrors.CodeInvalidMintAuthority, dErrors.CodeInvalidVaultAuthority,
		dErrors.CodeInvalidFreezeAuthority:
		return http.StatusForbidden
	case dErrors.CodeConflict, dErrors.CodeRedemptionPending, dErrors.CodeRewardsAlreadyClaimed:
		return http.StatusConflict
	case dErrors.CodeInsufficientBalance, dErrors.CodeInsufficientVaultBalance,
		dErrors.CodeInsufficientRedeemVaultFunds:
		return http.StatusUnprocessableEntity
	case dErrors.CodeProgramPaused:
		return http.StatusServiceUnavailable
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	case dErrors.CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
