// Package models holds the rewards domain records.
package models

import (
	"time"

	"github.com/provenance-io/hastra-sol-vault-mint/pkg/domain"
)

// Epoch is one published rewards distribution. The Merkle root commits to
// every (user, amount) entry of the distribution; Total is the sum of those
// amounts and is informational only.
type Epoch struct {
	Index      uint64
	MerkleRoot [32]byte
	Total      uint64
	CreatedAt  time.Time
}

// Claim records that a user has claimed from an epoch. Existence is the
// whole payload; a second claim for the same (epoch, user) pair is refused
// because the record already exists.
type Claim struct {
	Epoch     uint64
	User      domain.Principal
	Amount    uint64
	CreatedAt time.Time
}
