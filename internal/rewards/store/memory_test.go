package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provenance-io/hastra-sol-vault-mint/internal/rewards/models"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/sentinel"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/domain"
)

func TestEpochsCreateIsSingleUse(t *testing.T) {
	s := NewInMemoryEpochs()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, models.Epoch{Index: 1, Total: 100}))
	err := s.Create(ctx, models.Epoch{Index: 1, Total: 200})
	assert.ErrorIs(t, err, sentinel.ErrAlreadyExists)

	epoch, err := s.Find(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), epoch.Total)

	_, err = s.Find(ctx, 2)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestEpochsList(t *testing.T) {
	s := NewInMemoryEpochs()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, models.Epoch{Index: 1}))
	require.NoError(t, s.Create(ctx, models.Epoch{Index: 2}))

	epochs, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, epochs, 2)
}

func TestClaimsCreateIsSingleUsePerEpochAndUser(t *testing.T) {
	s := NewInMemoryClaims()
	ctx := context.Background()
	user := domain.NewPrincipal()

	require.NoError(t, s.Create(ctx, models.Claim{Epoch: 1, User: user, Amount: 50}))
	err := s.Create(ctx, models.Claim{Epoch: 1, User: user, Amount: 50})
	assert.ErrorIs(t, err, sentinel.ErrAlreadyExists)

	// Same user, different epoch is a distinct record.
	require.NoError(t, s.Create(ctx, models.Claim{Epoch: 2, User: user, Amount: 75}))
	// Same epoch, different user likewise.
	require.NoError(t, s.Create(ctx, models.Claim{Epoch: 1, User: domain.NewPrincipal(), Amount: 10}))

	claim, err := s.Find(ctx, 2, user)
	require.NoError(t, err)
	assert.Equal(t, uint64(75), claim.Amount)
}

func TestClaimsDelete(t *testing.T) {
	s := NewInMemoryClaims()
	ctx := context.Background()
	user := domain.NewPrincipal()

	require.NoError(t, s.Create(ctx, models.Claim{Epoch: 1, User: user, Amount: 50}))
	require.NoError(t, s.Delete(ctx, 1, user))

	_, err := s.Find(ctx, 1, user)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	err = s.Delete(ctx, 1, user)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
