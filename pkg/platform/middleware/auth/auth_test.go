package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/provenance-io/hastra-sol-vault-mint/pkg/domain"
)

// MockTokenValidator is a testify mock for TokenValidator
type MockTokenValidator struct {
	mock.Mock
}

func (m *MockTokenValidator) ValidateToken(tokenString string) (domain.Principal, error) {
	args := m.Called(tokenString)
	return args.Get(0).(domain.Principal), args.Error(1)
}

// mockHandler is a test handler that captures if it was called and the context
type mockHandler struct {
	called  bool
	context context.Context
}

func (m *mockHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.called = true
	m.context = r.Context()
	w.WriteHeader(http.StatusOK)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRequireAuth_ValidToken(t *testing.T) {
	principal := domain.NewPrincipal()
	validator := new(MockTokenValidator)
	validator.On("ValidateToken", "good-token").Return(principal, nil)

	next := &mockHandler{}
	handler := RequireAuth(validator, discardLogger())(next)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, next.called)
	assert.Equal(t, principal, GetPrincipal(next.context))
	validator.AssertExpectations(t)
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	validator := new(MockTokenValidator)
	next := &mockHandler{}
	handler := RequireAuth(validator, discardLogger())(next)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, next.called)
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	validator := new(MockTokenValidator)
	next := &mockHandler{}
	handler := RequireAuth(validator, discardLogger())(next)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Basic abc123")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, next.called)
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	validator := new(MockTokenValidator)
	validator.On("ValidateToken", "bad-token").Return(domain.Principal{}, errors.New("invalid token"))

	next := &mockHandler{}
	handler := RequireAuth(validator, discardLogger())(next)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, next.called)
	validator.AssertExpectations(t)
}

func TestGetPrincipal_Unset(t *testing.T) {
	assert.True(t, GetPrincipal(context.Background()).IsZero())
}
