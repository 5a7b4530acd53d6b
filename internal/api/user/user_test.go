package user

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/api/auth"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserProfile(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockUserService) UpdateUserProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileRequest) (*types.User, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockUserService) GetUserStats(ctx context.Context, userID uuid.UUID) (*types.UserStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserStats), args.Error(1)
}

func setupUserHandlerTest() (*HandlerImpl, *MockUserService) {
	svc := new(MockUserService)
	return NewHandlerImpl(svc, slog.New(slog.NewTextHandler(io.Discard, nil))), svc
}

func authedRequest(method, target string, body io.Reader, userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, body)
	return req.WithContext(auth.WithUserID(req.Context(), userID.String()))
}

func TestHandlerImpl_GetUserProfile(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h, svc := setupUserHandlerTest()
		userID := uuid.New()
		svc.On("GetUserProfile", mock.Anything, userID).
			Return(&types.User{ID: userID, Username: "traveller"}, nil).Once()

		rr := httptest.NewRecorder()
		h.GetUserProfile(rr, authedRequest(http.MethodGet, "/users/me", nil, userID))

		require.Equal(t, http.StatusOK, rr.Code)
		var got types.User
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, "traveller", got.Username)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		h, svc := setupUserHandlerTest()
		rr := httptest.NewRecorder()
		h.GetUserProfile(rr, httptest.NewRequest(http.MethodGet, "/users/me", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		svc.AssertNotCalled(t, "GetUserProfile", mock.Anything, mock.Anything)
	})

	t.Run("missing user", func(t *testing.T) {
		h, svc := setupUserHandlerTest()
		userID := uuid.New()
		svc.On("GetUserProfile", mock.Anything, userID).Return(nil, api.ErrNotFound).Once()

		rr := httptest.NewRecorder()
		h.GetUserProfile(rr, authedRequest(http.MethodGet, "/users/me", nil, userID))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestHandlerImpl_UpdateUserProfile(t *testing.T) {
	h, svc := setupUserHandlerTest()
	userID := uuid.New()
	name := "new-name"
	svc.On("UpdateUserProfile", mock.Anything, userID, types.UpdateProfileRequest{Username: &name}).
		Return(&types.User{ID: userID, Username: name}, nil).Once()

	rr := httptest.NewRecorder()
	h.UpdateUserProfile(rr, authedRequest(http.MethodPatch, "/users/me", bytes.NewBufferString(`{"username":"new-name"}`), userID))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.UpdateUserProfile(rr, authedRequest(http.MethodPatch, "/users/me", bytes.NewBufferString(`{"username":"x"}`), userID))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	svc.AssertExpectations(t)
}

func TestHandlerImpl_GetUserStats(t *testing.T) {
	h, svc := setupUserHandlerTest()
	userID := uuid.New()
	svc.On("GetUserStats", mock.Anything, userID).
		Return(&types.UserStats{UserID: userID, TripsCount: 2, DaysPlanned: 9, BudgetPlanned: 45000}, nil).Once()

	rr := httptest.NewRecorder()
	h.GetUserStats(rr, authedRequest(http.MethodGet, "/users/me/stats", nil, userID))

	require.Equal(t, http.StatusOK, rr.Code)
	var got types.UserStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, 9, got.DaysPlanned)
}

func TestPostgresUserRepo(t *testing.T) {
	ctx := context.Background()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()
	repo := NewPostgresUserRepo(mockPool, slog.New(slog.NewTextHandler(io.Discard, nil)))
	userID := uuid.New()

	t.Run("GetUserByID", func(t *testing.T) {
		now := time.Now()
		mockPool.ExpectQuery("SELECT id, username, email, role, created_at, updated_at").
			WithArgs(userID).
			WillReturnRows(pgxmock.NewRows([]string{"id", "username", "email", "role", "created_at", "updated_at"}).
				AddRow(userID, "traveller", "t@example.com", "user", now, now))

		u, err := repo.GetUserByID(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "traveller", u.Username)
	})

	t.Run("GetStats not found", func(t *testing.T) {
		mockPool.ExpectQuery("SELECT id, trips_count, days_planned, budget_planned").
			WithArgs(userID).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetStats(ctx, userID)
		assert.ErrorIs(t, err, api.ErrNotFound)
	})

	t.Run("UpdateProfile builds SET clause", func(t *testing.T) {
		name := "renamed"
		mockPool.ExpectExec(`UPDATE users SET username = \$1, updated_at = NOW\(\) WHERE id = \$2`).
			WithArgs("renamed", userID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, repo.UpdateProfile(ctx, userID, types.UpdateProfileRequest{Username: &name}))
	})

	t.Run("UpdateProfile no fields", func(t *testing.T) {
		require.NoError(t, repo.UpdateProfile(ctx, userID, types.UpdateProfileRequest{}))
	})

	assert.NoError(t, mockPool.ExpectationsWereMet())
}
