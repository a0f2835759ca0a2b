package handler

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/provenance-io/hastra-sol-vault-mint/internal/rewards/merkle"
	"github.com/provenance-io/hastra-sol-vault-mint/internal/rewards/models"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/domain"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/platform/middleware/auth"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) CreateEpoch(ctx context.Context, admin domain.Principal, index uint64, root merkle.Root, total uint64) error {
	args := m.Called(ctx, admin, index, root, total)
	return args.Error(0)
}

func (m *MockService) Claim(ctx context.Context, caller domain.Principal, epochIndex uint64, amount uint64, proof []merkle.ProofNode, to domain.AccountID) error {
	args := m.Called(ctx, caller, epochIndex, amount, proof, to)
	return args.Error(0)
}

func (m *MockService) ExternalProgramMint(ctx context.Context, caller domain.Principal, amount uint64, to domain.AccountID) error {
	args := m.Called(ctx, caller, amount, to)
	return args.Error(0)
}

func (m *MockService) Epoch(ctx context.Context, index uint64) (models.Epoch, error) {
	args := m.Called(ctx, index)
	return args.Get(0).(models.Epoch), args.Error(1)
}

func (m *MockService) Epochs(ctx context.Context) ([]models.Epoch, error) {
	args := m.Called(ctx)
	if epochs := args.Get(0); epochs != nil {
		return epochs.([]models.Epoch), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) Claimed(ctx context.Context, epoch uint64, user domain.Principal) (bool, error) {
	args := m.Called(ctx, epoch, user)
	return args.Bool(0), args.Error(1)
}

func newRouter(svc Service, caller domain.Principal) http.Handler {
	h := New(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	// Stand-in for the auth middleware.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.WithPrincipal(req.Context(), caller)))
		})
	})
	h.Register(r)
	return r
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func hexHash(b byte) string {
	var h [32]byte
	h[0] = b
	return hex.EncodeToString(h[:])
}

func TestHandleCreateEpoch(t *testing.T) {
	admin := domain.NewPrincipal()
	root := merkle.Root{0xAB}

	svc := new(MockService)
	svc.On("CreateEpoch", mock.Anything, admin, uint64(3), root, uint64(900)).Return(nil)

	w := postJSON(t, newRouter(svc, admin), "/rewards/epochs", CreateEpochRequest{
		Index:      3,
		MerkleRoot: hex.EncodeToString(root[:]),
		Total:      900,
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestHandleCreateEpoch_BadRoot(t *testing.T) {
	svc := new(MockService)

	w := postJSON(t, newRouter(svc, domain.NewPrincipal()), "/rewards/epochs", CreateEpochRequest{
		Index:      3,
		MerkleRoot: "not-hex",
		Total:      900,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation_failed")
	svc.AssertNotCalled(t, "CreateEpoch")
}

func TestHandleClaim(t *testing.T) {
	caller := domain.NewPrincipal()
	to := domain.NewAccountID()
	sibling := [32]byte{0x01}
	wantProof := []merkle.ProofNode{{Sibling: sibling, IsLeft: true}}

	svc := new(MockService)
	svc.On("Claim", mock.Anything, caller, uint64(3), uint64(100), wantProof, to).Return(nil)

	w := postJSON(t, newRouter(svc, caller), "/rewards/claims", ClaimRequest{
		Epoch:  3,
		Amount: 100,
		Proof: []ProofNodeDTO{
			// Upper case and padding normalize away.
			{Sibling: "  " + strings.ToUpper(hex.EncodeToString(sibling[:])) + "  ", IsLeft: true},
		},
		ToAccount: to.String(),
	})

	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}

func TestHandleClaim_ZeroAmount(t *testing.T) {
	svc := new(MockService)

	w := postJSON(t, newRouter(svc, domain.NewPrincipal()), "/rewards/claims", ClaimRequest{
		Epoch:     3,
		Amount:    0,
		ToAccount: domain.NewAccountID().String(),
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_amount")
	svc.AssertNotCalled(t, "Claim")
}

func TestHandleClaim_OversizedProof(t *testing.T) {
	svc := new(MockService)

	proof := make([]ProofNodeDTO, MaxProofNodes+1)
	for i := range proof {
		proof[i] = ProofNodeDTO{Sibling: hexHash(byte(i))}
	}

	w := postJSON(t, newRouter(svc, domain.NewPrincipal()), "/rewards/claims", ClaimRequest{
		Epoch:     3,
		Amount:    100,
		Proof:     proof,
		ToAccount: domain.NewAccountID().String(),
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Claim")
}

func TestHandleExternalMint(t *testing.T) {
	caller := domain.NewPrincipal()
	to := domain.NewAccountID()

	svc := new(MockService)
	svc.On("ExternalProgramMint", mock.Anything, caller, uint64(5_000), to).Return(nil)

	w := postJSON(t, newRouter(svc, caller), "/rewards/external-mint", ExternalMintRequest{
		Amount:    5_000,
		ToAccount: to.String(),
	})

	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}

func TestHandleGetEpoch(t *testing.T) {
	root := merkle.Root{0xCD}
	epoch := models.Epoch{
		Index:      7,
		MerkleRoot: root,
		Total:      1_500,
		CreatedAt:  time.Now().UTC(),
	}

	svc := new(MockService)
	svc.On("Epoch", mock.Anything, uint64(7)).Return(epoch, nil)

	req := httptest.NewRequest(http.MethodGet, "/rewards/epochs/7", nil)
	w := httptest.NewRecorder()
	newRouter(svc, domain.NewPrincipal()).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp EpochResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint64(7), resp.Index)
	assert.Equal(t, hex.EncodeToString(root[:]), resp.MerkleRoot)
	assert.Equal(t, uint64(1_500), resp.Total)
}

func TestHandleGetClaim(t *testing.T) {
	user := domain.NewPrincipal()

	svc := new(MockService)
	svc.On("Claimed", mock.Anything, uint64(7), user).Return(true, nil)

	req := httptest.NewRequest(http.MethodGet, "/rewards/epochs/7/claims/"+user.String(), nil)
	w := httptest.NewRecorder()
	newRouter(svc, domain.NewPrincipal()).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp ClaimStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Claimed)
	assert.Equal(t, user.String(), resp.User)
}
