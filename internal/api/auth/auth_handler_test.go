package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// MockAuthService is a mock implementation of the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req types.RegisterRequest) (*types.UserAuth, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserAuth), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*types.TokenResponse, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TokenResponse), args.Error(1)
}

func (m *MockAuthService) RefreshSession(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TokenResponse), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func setupAuthHandlerTest() (*AuthHandler, *MockAuthService) {
	mockService := new(MockAuthService)
	return NewAuthHandler(mockService, slog.New(slog.NewTextHandler(io.Discard, nil))), mockService
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		handler, mockService := setupAuthHandlerTest()
		req := types.RegisterRequest{Username: "traveller", Email: "t@example.com", Password: "password123"}
		mockService.On("Register", mock.Anything, req).
			Return(&types.UserAuth{ID: uuid.New(), Username: "traveller", Email: "t@example.com", PasswordHash: "secret-hash"}, nil).Once()

		body, _ := json.Marshal(req)
		rr := httptest.NewRecorder()
		handler.Register(rr, httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body)))

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.NotContains(t, rr.Body.String(), "secret-hash")
		mockService.AssertExpectations(t)
	})

	t.Run("ValidationFailure", func(t *testing.T) {
		handler, mockService := setupAuthHandlerTest()
		rr := httptest.NewRecorder()
		handler.Register(rr, httptest.NewRequest(http.MethodPost, "/auth/register",
			bytes.NewBufferString(`{"username":"ab","email":"not-an-email","password":"short"}`)))

		require.Equal(t, http.StatusBadRequest, rr.Code)
		var resp api.Response
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Contains(t, resp.Fields, "username")
		assert.Contains(t, resp.Fields, "email")
		assert.Contains(t, resp.Fields, "password")
		mockService.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})

	t.Run("Conflict", func(t *testing.T) {
		handler, mockService := setupAuthHandlerTest()
		mockService.On("Register", mock.Anything, mock.Anything).Return(nil, api.ErrConflict).Once()

		rr := httptest.NewRecorder()
		handler.Register(rr, httptest.NewRequest(http.MethodPost, "/auth/register",
			bytes.NewBufferString(`{"username":"traveller","email":"t@example.com","password":"password123"}`)))

		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMock  func(m *MockAuthService)
		wantStatus int
	}{
		{
			name: "success",
			body: `{"email":"t@example.com","password":"password123"}`,
			setupMock: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "t@example.com", "password123").
					Return(&types.TokenResponse{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer"}, nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "bad credentials",
			body: `{"email":"t@example.com","password":"nope"}`,
			setupMock: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "t@example.com", "nope").Return(nil, errInvalidCredentials).Once()
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed json",
			body:       `{"email":`,
			setupMock:  func(m *MockAuthService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "internal error hidden",
			body: `{"email":"t@example.com","password":"password123"}`,
			setupMock: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "t@example.com", "password123").Return(nil, errors.New("pool closed")).Once()
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mockService := setupAuthHandlerTest()
			tt.setupMock(mockService)

			rr := httptest.NewRecorder()
			handler.Login(rr, httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(tt.body)))

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.NotContains(t, rr.Body.String(), "pool closed")
			mockService.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_RefreshAndLogout(t *testing.T) {
	handler, mockService := setupAuthHandlerTest()
	mockService.On("RefreshSession", mock.Anything, "r1").
		Return(&types.TokenResponse{AccessToken: "a2", RefreshToken: "r2", TokenType: "Bearer"}, nil).Once()
	mockService.On("Logout", mock.Anything, "r2").Return(nil).Once()

	rr := httptest.NewRecorder()
	handler.RefreshSession(rr, httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewBufferString(`{"refresh_token":"r1"}`)))
	require.Equal(t, http.StatusOK, rr.Code)
	var tokens types.TokenResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tokens))
	assert.Equal(t, "r2", tokens.RefreshToken)

	rr = httptest.NewRecorder()
	handler.Logout(rr, httptest.NewRequest(http.MethodPost, "/auth/logout", bytes.NewBufferString(`{"refresh_token":"r2"}`)))
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = httptest.NewRecorder()
	handler.Logout(rr, httptest.NewRequest(http.MethodPost, "/auth/logout", bytes.NewBufferString(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	mockService.AssertExpectations(t)
}
