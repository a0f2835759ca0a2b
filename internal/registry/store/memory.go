package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/provenance-io/hastra-sol-vault-mint/internal/registry/models"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/sentinel"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/domain"
)

// InMemoryConfig stores the single Config record.
type InMemoryConfig struct {
	mu     sync.RWMutex
	config *models.Config
}

func NewInMemoryConfig() *InMemoryConfig {
	return &InMemoryConfig{}
}

// CreateOnce installs the configuration record. It fails if one already
// exists; the record is created exactly once at setup.
func (s *InMemoryConfig) CreateOnce(_ context.Context, cfg *models.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.config != nil {
		return fmt.Errorf("config record: %w", sentinel.ErrAlreadyExists)
	}
	s.config = cfg.Clone()
	return nil
}

// Get returns a copy of the configuration record.
func (s *InMemoryConfig) Get(_ context.Context) (*models.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.config == nil {
		return nil, fmt.Errorf("config record: %w", sentinel.ErrNotFound)
	}
	return s.config.Clone(), nil
}

// Mutate applies fn to the configuration record under the store lock. The
// asset identifiers are immutable after creation; fn operates on a copy and
// the mutation is discarded on error.
func (s *InMemoryConfig) Mutate(_ context.Context, fn func(cfg *models.Config) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.config == nil {
		return fmt.Errorf("config record: %w", sentinel.ErrNotFound)
	}
	next := s.config.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if next.DepositAsset != s.config.DepositAsset || next.SyntheticAsset != s.config.SyntheticAsset {
		return fmt.Errorf("asset identifiers are immutable: %w", sentinel.ErrInvalidState)
	}
	s.config = next
	return nil
}

// InMemoryDeployments stores deployment metadata records by address.
type InMemoryDeployments struct {
	mu          sync.RWMutex
	deployments map[domain.Principal]*models.Deployment
}

func NewInMemoryDeployments() *InMemoryDeployments {
	return &InMemoryDeployments{deployments: make(map[domain.Principal]*models.Deployment)}
}

// Put installs or replaces a deployment record. Deploy tooling surface.
func (s *InMemoryDeployments) Put(_ context.Context, dep *models.Deployment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *dep
	if dep.UpgradeAuthority != nil {
		auth := *dep.UpgradeAuthority
		cp.UpgradeAuthority = &auth
	}
	s.deployments[dep.Address] = &cp
	return nil
}

// Find returns the deployment record at the given address.
func (s *InMemoryDeployments) Find(_ context.Context, address domain.Principal) (*models.Deployment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dep, ok := s.deployments[address]
	if !ok {
		return nil, fmt.Errorf("deployment %s: %w", address, sentinel.ErrNotFound)
	}
	cp := *dep
	if dep.UpgradeAuthority != nil {
		auth := *dep.UpgradeAuthority
		cp.UpgradeAuthority = &auth
	}
	return &cp, nil
}
