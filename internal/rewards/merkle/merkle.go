// Package merkle verifies inclusion proofs for rewards distributions.
//
// A distribution leaf commits to the recipient, the amount, and the epoch
// index, so a proof for one epoch cannot be replayed against another. Proof
// nodes carry an explicit side flag rather than relying on sorted-pair
// hashing, matching how distribution snapshots are published.
package merkle

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/provenance-io/hastra-sol-vault-mint/pkg/domain"
)

// Root is a 32-byte Merkle root.
type Root = [32]byte

// ProofNode is one step of an inclusion proof. Sibling is the hash paired
// with the running node; IsLeft reports whether the sibling sits on the left.
type ProofNode struct {
	Sibling [32]byte `json:"sibling"`
	IsLeft  bool     `json:"is_left"`
}

// Leaf hashes a single distribution entry.
func Leaf(user domain.Principal, amount uint64, epoch uint64) [32]byte {
	var buf [32 + 8 + 8]byte
	copy(buf[:32], user.Bytes())
	binary.LittleEndian.PutUint64(buf[32:40], amount)
	binary.LittleEndian.PutUint64(buf[40:48], epoch)
	return sha256.Sum256(buf[:])
}

// Verify folds the proof from the leaf up and compares against root.
func Verify(root Root, leaf [32]byte, proof []ProofNode) bool {
	node := leaf
	for _, p := range proof {
		if p.IsLeft {
			node = Parent(p.Sibling, node)
		} else {
			node = Parent(node, p.Sibling)
		}
	}
	return node == root
}

// Parent hashes an ordered pair of child nodes. Exposed so distribution
// builders can assemble trees with the same pairing rule Verify uses.
func Parent(left, right [32]byte) [32]byte {
	var buf [64]byte
	copy(buf[:32], left[:])
	copy(buf[32:], right[:])
	return sha256.Sum256(buf[:])
}
