package domainerrors

import "errors"

// Code represents a domain error category independent of transport layer.
// These codes describe what went wrong in business logic terms, not HTTP terms.
type Code string

const (
	CodeNotFound     Code = "not_found"
	CodeBadRequest   Code = "bad_request"
	CodeValidation   Code = "validation_failed"
	CodeInternal     Code = "internal_error"
	CodeConflict     Code = "conflict"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeTimeout      Code = "timeout"

	// Input validation.
	CodeInvalidAmount         Code = "invalid_amount"
	CodeTooManyAdministrators Code = "too_many_administrators"

	// Authorization.
	CodeInvalidProgramData              Code = "invalid_program_data"
	CodeNoUpgradeAuthority              Code = "no_upgrade_authority"
	CodeInvalidUpgradeAuthority         Code = "invalid_upgrade_authority"
	CodeMissingSigner                   Code = "missing_signer"
	CodeUnauthorizedFreezeAdministrator Code = "unauthorized_freeze_administrator"
	CodeInvalidRewardsAdministrator     Code = "invalid_rewards_administrator"
	CodeUnauthorizedExternalCaller      Code = "unauthorized_external_caller"

	// Referential integrity.
	CodeInvalidMint           Code = "invalid_mint"
	CodeInvalidVaultMint      Code = "invalid_vault_mint"
	CodeInvalidMintAuthority  Code = "invalid_mint_authority"
	CodeInvalidVaultAuthority Code = "invalid_vault_authority"
	CodeInvalidFreezeAuthority Code = "invalid_freeze_authority"

	// State-machine violations.
	CodeInsufficientBalance         Code = "insufficient_balance"
	CodeInsufficientVaultBalance    Code = "insufficient_vault_balance"
	CodeInsufficientRedeemVaultFunds Code = "insufficient_redeem_vault_funds"
	CodeRedemptionPending           Code = "redemption_pending"
	CodeInvalidRewardsEpoch         Code = "invalid_rewards_epoch"
	CodeInvalidMerkleProof          Code = "invalid_merkle_proof"
	CodeRewardsAlreadyClaimed       Code = "rewards_already_claimed"
	CodeProgramPaused               Code = "program_paused"
)

// Error wraps domain or infrastructure failures with a stable code.
// It is transport-agnostic and can be used across service, store, and other layers.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

// Unwrap implements error unwrapping for error chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is enables errors.Is() to match errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new domain error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap creates a new domain error wrapping an existing error.
// If the wrapped error is already a domain error, the original code is preserved.
func Wrap(err error, code Code, msg string) error {
	var existing *Error
	if errors.As(err, &existing) {
		// Preserve the original domain code, update message
		return &Error{Code: existing.Code, Message: msg, Err: err}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode checks if an error is a domain error with the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
