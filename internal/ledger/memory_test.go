package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provenance-io/hastra-sol-vault-mint/internal/sentinel"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/domain"
)

type fixture struct {
	ledger *InMemory
	asset  domain.AssetID
	mintAuth domain.Principal
	freezeAuth domain.Principal
	owner  domain.Principal
	acct   domain.AccountID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ledger:     NewInMemory(),
		asset:      domain.NewAssetID(),
		mintAuth:   domain.NewPrincipal(),
		freezeAuth: domain.NewPrincipal(),
		owner:      domain.NewPrincipal(),
		acct:       domain.NewAccountID(),
	}
	require.NoError(t, f.ledger.CreateAsset(Asset{
		ID:              f.asset,
		MintAuthority:   f.mintAuth,
		FreezeAuthority: f.freezeAuth,
	}))
	require.NoError(t, f.ledger.CreateAccount(TokenAccount{
		ID:    f.acct,
		Asset: f.asset,
		Owner: f.owner,
	}))
	return f
}

func (f *fixture) newAccount(t *testing.T, owner domain.Principal, balance uint64) domain.AccountID {
	t.Helper()
	id := domain.NewAccountID()
	require.NoError(t, f.ledger.CreateAccount(TokenAccount{
		ID:      id,
		Asset:   f.asset,
		Owner:   owner,
		Balance: balance,
	}))
	return id
}

func TestMintRequiresMintAuthority(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.ledger.MintTo(ctx, f.asset, f.acct, 100, Signer(f.owner))
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel.ErrUnauthorized)

	require.NoError(t, f.ledger.MintTo(ctx, f.asset, f.acct, 100, Signer(f.mintAuth)))

	acc, err := f.ledger.Account(ctx, f.acct)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), acc.Balance)

	asset, err := f.ledger.Asset(ctx, f.asset)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), asset.Supply)
}

func TestTransferDebitsAndCredits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	src := f.newAccount(t, f.owner, 50)
	dst := f.newAccount(t, domain.NewPrincipal(), 0)

	require.NoError(t, f.ledger.Transfer(ctx, src, dst, 30, Signer(f.owner)))

	srcAcc, _ := f.ledger.Account(ctx, src)
	dstAcc, _ := f.ledger.Account(ctx, dst)
	assert.Equal(t, uint64(20), srcAcc.Balance)
	assert.Equal(t, uint64(30), dstAcc.Balance)

	err := f.ledger.Transfer(ctx, src, dst, 21, Signer(f.owner))
	assert.ErrorIs(t, err, sentinel.ErrInsufficientFunds)
}

func TestTransferRejectsNonOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	src := f.newAccount(t, f.owner, 50)
	dst := f.newAccount(t, domain.NewPrincipal(), 0)

	err := f.ledger.Transfer(ctx, src, dst, 10, Signer(domain.NewPrincipal()))
	assert.ErrorIs(t, err, sentinel.ErrUnauthorized)

	err = f.ledger.Transfer(ctx, src, dst, 10, nil)
	assert.ErrorIs(t, err, sentinel.ErrUnauthorized)
}

func TestDelegateSpendConsumesAllowance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	src := f.newAccount(t, f.owner, 100)
	delegate := domain.NewPrincipal()

	require.NoError(t, f.ledger.Approve(ctx, src, delegate, 60, Signer(f.owner)))
	require.NoError(t, f.ledger.Burn(ctx, f.asset, src, 40, Signer(delegate)))

	// 20 of the delegated 60 remain; another 40 exceeds it.
	err := f.ledger.Burn(ctx, f.asset, src, 40, Signer(delegate))
	assert.ErrorIs(t, err, sentinel.ErrUnauthorized)

	acc, _ := f.ledger.Account(ctx, src)
	assert.Equal(t, uint64(60), acc.Balance)
	assert.Equal(t, uint64(20), acc.DelegatedAmount)
}

func TestFreezeBlocksTransfersUntilThaw(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	src := f.newAccount(t, f.owner, 50)
	dst := f.newAccount(t, domain.NewPrincipal(), 0)

	err := f.ledger.FreezeAccount(ctx, src, f.asset, Signer(f.owner))
	assert.ErrorIs(t, err, sentinel.ErrUnauthorized, "only the freeze authority may freeze")

	require.NoError(t, f.ledger.FreezeAccount(ctx, src, f.asset, Signer(f.freezeAuth)))

	err = f.ledger.Transfer(ctx, src, dst, 10, Signer(f.owner))
	assert.ErrorIs(t, err, sentinel.ErrFrozen)

	require.NoError(t, f.ledger.ThawAccount(ctx, src, f.asset, Signer(f.freezeAuth)))
	require.NoError(t, f.ledger.Transfer(ctx, src, dst, 10, Signer(f.owner)))
}

func TestSetAccountOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	newOwner := domain.NewPrincipal()

	err := f.ledger.SetAccountOwner(ctx, f.acct, newOwner, Signer(newOwner))
	assert.ErrorIs(t, err, sentinel.ErrUnauthorized)

	require.NoError(t, f.ledger.SetAccountOwner(ctx, f.acct, newOwner, Signer(f.owner)))
	acc, _ := f.ledger.Account(ctx, f.acct)
	assert.Equal(t, newOwner, acc.Owner)
}

func TestRunInTxRollsBackOnError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	src := f.newAccount(t, f.owner, 100)
	dst := f.newAccount(t, domain.NewPrincipal(), 0)

	boom := errors.New("boom")
	err := f.ledger.RunInTx(ctx, func(ctx context.Context) error {
		if err := f.ledger.Transfer(ctx, src, dst, 40, Signer(f.owner)); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	srcAcc, _ := f.ledger.Account(ctx, src)
	dstAcc, _ := f.ledger.Account(ctx, dst)
	assert.Equal(t, uint64(100), srcAcc.Balance, "rollback must restore the debit")
	assert.Equal(t, uint64(0), dstAcc.Balance, "rollback must restore the credit")
}

func TestCreateAccountRejectsUnknownAssetAndDuplicates(t *testing.T) {
	f := newFixture(t)

	err := f.ledger.CreateAccount(TokenAccount{ID: domain.NewAccountID(), Asset: domain.NewAssetID()})
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	err = f.ledger.CreateAccount(TokenAccount{ID: f.acct, Asset: f.asset})
	assert.ErrorIs(t, err, sentinel.ErrAlreadyExists)
}
