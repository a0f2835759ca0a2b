package handler

import (
	"encoding/hex"
	"strings"

	"github.com/provenance-io/hastra-sol-vault-mint/internal/rewards/merkle"
	dErrors "github.com/provenance-io/hastra-sol-vault-mint/pkg/domain-errors"
)

// HTTP Request DTOs - contain JSON tags for API serialization.

// MaxProofNodes bounds a claim proof; a distribution of 2^32 entries needs
// only 32 nodes.
const MaxProofNodes = 64

type CreateEpochRequest struct {
	Index      uint64 `json:"index"`
	MerkleRoot string `json:"merkle_root"`
	Total      uint64 `json:"total"`
}

func (r *CreateEpochRequest) Normalize() {
	if r == nil {
		return
	}
	r.MerkleRoot = strings.TrimSpace(strings.ToLower(r.MerkleRoot))
}

func (r *CreateEpochRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.MerkleRoot == "" {
		return dErrors.New(dErrors.CodeValidation, "merkle_root is required")
	}
	if _, err := parseHash(r.MerkleRoot); err != nil {
		return err
	}
	return nil
}

type ProofNodeDTO struct {
	Sibling string `json:"sibling"`
	IsLeft  bool   `json:"is_left"`
}

type ClaimRequest struct {
	Epoch     uint64         `json:"epoch"`
	Amount    uint64         `json:"amount"`
	Proof     []ProofNodeDTO `json:"proof"`
	ToAccount string         `json:"to_account"`
}

func (r *ClaimRequest) Normalize() {
	if r == nil {
		return
	}
	r.ToAccount = strings.TrimSpace(r.ToAccount)
	for i := range r.Proof {
		r.Proof[i].Sibling = strings.TrimSpace(strings.ToLower(r.Proof[i].Sibling))
	}
}

func (r *ClaimRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.Amount == 0 {
		return dErrors.New(dErrors.CodeInvalidAmount, "amount must be positive")
	}
	if r.ToAccount == "" {
		return dErrors.New(dErrors.CodeValidation, "to_account is required")
	}
	if len(r.Proof) > MaxProofNodes {
		return dErrors.New(dErrors.CodeValidation, "proof is too long")
	}
	for _, node := range r.Proof {
		if _, err := parseHash(node.Sibling); err != nil {
			return err
		}
	}
	return nil
}

func (r *ClaimRequest) toProof() []merkle.ProofNode {
	proof := make([]merkle.ProofNode, 0, len(r.Proof))
	for _, node := range r.Proof {
		sibling, _ := parseHash(node.Sibling) // validated above
		proof = append(proof, merkle.ProofNode{Sibling: sibling, IsLeft: node.IsLeft})
	}
	return proof
}

type ExternalMintRequest struct {
	Amount    uint64 `json:"amount"`
	ToAccount string `json:"to_account"`
}

func (r *ExternalMintRequest) Normalize() {
	if r == nil {
		return
	}
	r.ToAccount = strings.TrimSpace(r.ToAccount)
}

func (r *ExternalMintRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.Amount == 0 {
		return dErrors.New(dErrors.CodeInvalidAmount, "amount must be positive")
	}
	if r.ToAccount == "" {
		return dErrors.New(dErrors.CodeValidation, "to_account is required")
	}
	return nil
}

func parseHash(s string) ([32]byte, error) {
	var out [32]byte
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 32 {
		return out, dErrors.New(dErrors.CodeValidation, "hash must be 32 hex-encoded bytes")
	}
	copy(out[:], raw)
	return out, nil
}
