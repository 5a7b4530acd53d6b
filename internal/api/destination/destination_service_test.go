package destination

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Upsert(ctx context.Context, name string) (*types.Destination, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Destination), args.Error(1)
}

func (m *MockRepository) Get(ctx context.Context, id uuid.UUID) (*types.Destination, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Destination), args.Error(1)
}

func (m *MockRepository) ListPopular(ctx context.Context, limit int) ([]types.Destination, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]types.Destination), args.Error(1)
}

func TestServiceImpl_ListPopularClampsLimit(t *testing.T) {
	repo := new(MockRepository)
	svc := NewServiceImpl(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	repo.On("ListPopular", mock.Anything, MaxPopularLimit).Return([]types.Destination{}, nil).Once()
	repo.On("ListPopular", mock.Anything, DefaultPopularLimit).Return([]types.Destination{}, nil).Once()

	_, err := svc.ListPopular(context.Background(), 500)
	require.NoError(t, err)
	_, err = svc.ListPopular(context.Background(), 0)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestServiceImpl_RecordTrip(t *testing.T) {
	repo := new(MockRepository)
	svc := NewServiceImpl(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	repo.On("Upsert", mock.Anything, "Lisbon").Return(&types.Destination{Slug: "lisbon", TripCount: 1}, nil).Once()

	dest, err := svc.RecordTrip(context.Background(), "Lisbon")
	require.NoError(t, err)
	assert.Equal(t, 1, dest.TripCount)
}
