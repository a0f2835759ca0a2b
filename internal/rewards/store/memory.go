// Package store provides in-memory persistence for rewards epochs and claims.
package store

import (
	"context"
	"sync"

	"github.com/provenance-io/hastra-sol-vault-mint/internal/rewards/models"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/sentinel"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/domain"
)

// InMemoryEpochs keeps published epochs keyed by their index.
type InMemoryEpochs struct {
	mu     sync.RWMutex
	epochs map[uint64]models.Epoch
}

func NewInMemoryEpochs() *InMemoryEpochs {
	return &InMemoryEpochs{epochs: make(map[uint64]models.Epoch)}
}

// Create inserts an epoch. An epoch index can only be published once.
func (s *InMemoryEpochs) Create(_ context.Context, epoch models.Epoch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.epochs[epoch.Index]; ok {
		return sentinel.ErrAlreadyExists
	}
	s.epochs[epoch.Index] = epoch
	return nil
}

func (s *InMemoryEpochs) Find(_ context.Context, index uint64) (models.Epoch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	epoch, ok := s.epochs[index]
	if !ok {
		return models.Epoch{}, sentinel.ErrNotFound
	}
	return epoch, nil
}

// List returns all published epochs in unspecified order.
func (s *InMemoryEpochs) List(_ context.Context) ([]models.Epoch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Epoch, 0, len(s.epochs))
	for _, epoch := range s.epochs {
		out = append(out, epoch)
	}
	return out, nil
}

type claimKey struct {
	epoch uint64
	user  domain.Principal
}

// InMemoryClaims keeps claim records keyed by (epoch, user). Insert-if-absent
// is what makes a claim single-use.
type InMemoryClaims struct {
	mu     sync.RWMutex
	claims map[claimKey]models.Claim
}

func NewInMemoryClaims() *InMemoryClaims {
	return &InMemoryClaims{claims: make(map[claimKey]models.Claim)}
}

func (s *InMemoryClaims) Create(_ context.Context, claim models.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := claimKey{epoch: claim.Epoch, user: claim.User}
	if _, ok := s.claims[key]; ok {
		return sentinel.ErrAlreadyExists
	}
	s.claims[key] = claim
	return nil
}

func (s *InMemoryClaims) Find(_ context.Context, epoch uint64, user domain.Principal) (models.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	claim, ok := s.claims[claimKey{epoch: epoch, user: user}]
	if !ok {
		return models.Claim{}, sentinel.ErrNotFound
	}
	return claim, nil
}

// Delete removes a claim record. Used to unwind a claim whose mint failed.
func (s *InMemoryClaims) Delete(_ context.Context, epoch uint64, user domain.Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := claimKey{epoch: epoch, user: user}
	if _, ok := s.claims[key]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.claims, key)
	return nil
}
