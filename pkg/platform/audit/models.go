package audit

import (
	"context"
	"time"
)

// Event is emitted from domain logic to capture asset movements and
// administrative actions. Keep it transport-agnostic so stores and sinks can
// fan out.
type Event struct {
	ID        string
	Timestamp time.Time
	Action    string

	// Principal is the user or caller the action concerns; Admin is the
	// administrator who triggered it, when different.
	Principal string
	Admin     string

	Amount  uint64
	Asset   string
	Account string
	Epoch   uint64

	RequestID string
}

type AuditEvent string

const (
	EventDepositCompleted      AuditEvent = "deposit_completed"
	EventRedemptionRequested   AuditEvent = "redemption_requested"
	EventRedemptionCompleted   AuditEvent = "redemption_completed"
	EventRewardsEpochCreated   AuditEvent = "rewards_epoch_created"
	EventRewardsClaimed        AuditEvent = "rewards_claimed"
	EventExternalMintPerformed AuditEvent = "external_mint_performed"
	EventTokenAccountFrozen    AuditEvent = "token_account_frozen"
	EventTokenAccountThawed    AuditEvent = "token_account_thawed"
	EventAdministratorsUpdated AuditEvent = "administrators_updated"
	EventProgramPaused         AuditEvent = "program_paused"
	EventProgramResumed        AuditEvent = "program_resumed"
)

// Store persists emitted events.
type Store interface {
	Append(ctx context.Context, event Event) error
}
