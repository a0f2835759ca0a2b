package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/provenance-io/hastra-sol-vault-mint/internal/sentinel"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/vault/models"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/domain"
)

// InMemoryRequests stores redemption requests keyed by user. Create is
// insert-if-absent: the per-user key is the mutual-exclusion mechanism that
// blocks a second concurrent request.
type InMemoryRequests struct {
	mu       sync.RWMutex
	requests map[domain.Principal]*models.RedemptionRequest
}

func NewInMemoryRequests() *InMemoryRequests {
	return &InMemoryRequests{requests: make(map[domain.Principal]*models.RedemptionRequest)}
}

// Create atomically inserts the request if the user has none outstanding.
func (s *InMemoryRequests) Create(_ context.Context, req *models.RedemptionRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.requests[req.User]; exists {
		return fmt.Errorf("redemption request for %s: %w", req.User, sentinel.ErrAlreadyExists)
	}
	cp := *req
	s.requests[req.User] = &cp
	return nil
}

// Find returns the user's outstanding request.
func (s *InMemoryRequests) Find(_ context.Context, user domain.Principal) (*models.RedemptionRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	req, ok := s.requests[user]
	if !ok {
		return nil, fmt.Errorf("redemption request for %s: %w", user, sentinel.ErrNotFound)
	}
	cp := *req
	return &cp, nil
}

// Delete destroys the user's request, returning the user to the no-request
// state. Deleting an absent request is an error so double completion fails.
func (s *InMemoryRequests) Delete(_ context.Context, user domain.Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requests[user]; !ok {
		return fmt.Errorf("redemption request for %s: %w", user, sentinel.ErrNotFound)
	}
	delete(s.requests, user)
	return nil
}
