package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks ConfigSource,EpochStore,ClaimStore,AuditPublisher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/provenance-io/hastra-sol-vault-mint/internal/authority"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/ledger"
	registrymodels "github.com/provenance-io/hastra-sol-vault-mint/internal/registry/models"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/rewards/merkle"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/rewards/models"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/rewards/service/mocks"
	dErrors "github.com/provenance-io/hastra-sol-vault-mint/pkg/domain-errors"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/domain"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/platform/audit"
)

// ServiceSuite exercises the service against mocked stores so that store
// failures and publisher failures can be simulated directly. Happy paths that
// only need in-memory fixtures live in service_test.go.
type ServiceSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	mockConfig *mocks.MockConfigSource
	mockEpochs *mocks.MockEpochStore
	mockClaims *mocks.MockClaimStore
	mockAudit  *mocks.MockAuditPublisher
	ledger     *ledger.InMemory
	provider   *authority.Provider
	service    *Service

	admin     domain.Principal
	user      domain.Principal
	synthetic domain.AssetID
	account   domain.AccountID
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockConfig = mocks.NewMockConfigSource(s.ctrl)
	s.mockEpochs = mocks.NewMockEpochStore(s.ctrl)
	s.mockClaims = mocks.NewMockClaimStore(s.ctrl)
	s.mockAudit = mocks.NewMockAuditPublisher(s.ctrl)

	s.ledger = ledger.NewInMemory()
	s.provider = authority.NewProvider(domain.NewPrincipal())
	s.admin = domain.NewPrincipal()
	s.user = domain.NewPrincipal()
	s.synthetic = domain.NewAssetID()
	s.account = domain.NewAccountID()

	s.Require().NoError(s.ledger.CreateAsset(ledger.Asset{
		ID:              s.synthetic,
		MintAuthority:   s.provider.Authority(authority.MintAuthority),
		FreezeAuthority: s.provider.Authority(authority.FreezeAuthority),
	}))
	s.Require().NoError(s.ledger.CreateAccount(ledger.TokenAccount{
		ID:    s.account,
		Asset: s.synthetic,
		Owner: s.user,
	}))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = New(
		s.mockConfig,
		s.mockEpochs,
		s.mockClaims,
		s.ledger,
		s.provider,
		WithLogger(logger),
		WithAuditPublisher(s.mockAudit),
	)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) activeConfig() *registrymodels.Config {
	return &registrymodels.Config{
		SyntheticAsset:        s.synthetic,
		RewardsAdministrators: []domain.Principal{s.admin},
	}
}

// singleLeafEpoch returns an epoch whose root commits to exactly one entry,
// so a claim for that entry verifies with an empty proof.
func (s *ServiceSuite) singleLeafEpoch(index, amount uint64) models.Epoch {
	return models.Epoch{
		Index:      index,
		MerkleRoot: merkle.Leaf(s.user, amount, index),
		Total:      amount,
	}
}

func (s *ServiceSuite) TestCreateEpochEmitsAuditEvent() {
	ctx := context.Background()
	root := merkle.Root{0xAB}

	s.mockConfig.EXPECT().Get(ctx).Return(s.activeConfig(), nil)
	s.mockEpochs.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, epoch models.Epoch) error {
			s.Equal(uint64(7), epoch.Index)
			s.Equal(root, epoch.MerkleRoot)
			s.Equal(uint64(500), epoch.Total)
			s.False(epoch.CreatedAt.IsZero())
			return nil
		})
	s.mockAudit.EXPECT().Emit(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, event audit.Event) error {
			s.Equal(string(audit.EventRewardsEpochCreated), event.Action)
			s.Equal(s.admin.String(), event.Admin)
			s.Equal(uint64(500), event.Amount)
			s.Equal(uint64(7), event.Epoch)
			return nil
		})

	s.NoError(s.service.CreateEpoch(ctx, s.admin, 7, root, 500))
}

func (s *ServiceSuite) TestCreateEpochStoreFailureIsInternal() {
	ctx := context.Background()

	s.mockConfig.EXPECT().Get(ctx).Return(s.activeConfig(), nil)
	s.mockEpochs.EXPECT().Create(ctx, gomock.Any()).Return(errors.New("disk full"))

	err := s.service.CreateEpoch(ctx, s.admin, 7, merkle.Root{}, 500)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ServiceSuite) TestCreateEpochConfigLoadFailure() {
	ctx := context.Background()

	s.mockConfig.EXPECT().Get(ctx).Return(nil, errors.New("store offline"))

	err := s.service.CreateEpoch(ctx, s.admin, 7, merkle.Root{}, 500)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ServiceSuite) TestClaimRecordFailureIsInternal() {
	ctx := context.Background()

	s.mockConfig.EXPECT().Get(ctx).Return(s.activeConfig(), nil)
	s.mockEpochs.EXPECT().Find(ctx, uint64(3)).Return(s.singleLeafEpoch(3, 100), nil)
	s.mockClaims.EXPECT().Create(ctx, gomock.Any()).Return(errors.New("disk full"))

	err := s.service.Claim(ctx, s.user, 3, 100, nil, s.account)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))

	acc, lerr := s.ledger.Account(ctx, s.account)
	s.Require().NoError(lerr)
	s.Zero(acc.Balance, "nothing may be minted when the claim record fails")
}

func (s *ServiceSuite) TestClaimUnwindsRecordWhenMintFails() {
	ctx := context.Background()

	s.Require().NoError(s.ledger.FreezeAccount(ctx, s.account, s.synthetic,
		s.provider.SignAs(authority.FreezeAuthority)))

	s.mockConfig.EXPECT().Get(ctx).Return(s.activeConfig(), nil)
	s.mockEpochs.EXPECT().Find(ctx, uint64(3)).Return(s.singleLeafEpoch(3, 100), nil)
	s.mockClaims.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	s.mockClaims.EXPECT().Delete(ctx, uint64(3), s.user).Return(nil)

	err := s.service.Claim(ctx, s.user, 3, 100, nil, s.account)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *ServiceSuite) TestClaimSucceedsWhenAuditPublishFails() {
	ctx := context.Background()

	s.mockConfig.EXPECT().Get(ctx).Return(s.activeConfig(), nil)
	s.mockEpochs.EXPECT().Find(ctx, uint64(3)).Return(s.singleLeafEpoch(3, 100), nil)
	s.mockClaims.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	s.mockAudit.EXPECT().Emit(ctx, gomock.Any()).Return(errors.New("queue full"))

	s.NoError(s.service.Claim(ctx, s.user, 3, 100, nil, s.account))

	acc, err := s.ledger.Account(ctx, s.account)
	s.Require().NoError(err)
	s.Equal(uint64(100), acc.Balance)
}

func (s *ServiceSuite) TestClaimedStoreFailureIsInternal() {
	ctx := context.Background()

	s.mockClaims.EXPECT().Find(ctx, uint64(3), s.user).Return(models.Claim{}, errors.New("store offline"))

	_, err := s.service.Claimed(ctx, 3, s.user)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}
