package itinerary

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-trip-planner/config"
	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

type MockContentGenerator struct {
	mock.Mock
}

func (m *MockContentGenerator) GenerateContent(ctx context.Context, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	args := m.Called(ctx, prompt, cfg)
	return args.String(0), args.Error(1)
}

func (m *MockContentGenerator) ModelName() string {
	return "gemini-test"
}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) SaveInteraction(ctx context.Context, interaction types.LlmInteraction) (uuid.UUID, error) {
	args := m.Called(ctx, interaction)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func setupItineraryServiceTest(ai ContentGenerator) (*ServiceImpl, *MockRepository) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := new(MockRepository)
	cfg := config.GeminiConfig{Model: "gemini-test", Temperature: 0.5, Timeout: time.Second}
	return NewServiceImpl(ai, repo, cfg, logger), repo
}

func outcome(want string) any {
	return mock.MatchedBy(func(i types.LlmInteraction) bool { return i.Outcome == want })
}

const fourDayAIResponse = "```json\n" + `{
	"destination": "Istanbul",
	"estimated_cost": {"total": 20000, "accommodation": 8000, "food": 6000, "activities": 4000, "transport": 2000},
	"days": [
		{"day": 1, "title": "Sultanahmet", "activities": [
			{"time": "09:00", "name": "Hagia Sophia", "type": "Museum", "cost": 0},
			{"time": "12:30", "name": "Balik Ekmek", "type": "food", "cost": 150}
		]},
		{"day": 2, "title": "Bosphorus", "activities": [
			{"time": "10:00", "name": "Ferry Cruise", "type": "safari", "cost": 300}
		]}
	]
}` + "\n```"

func TestServiceImpl_Generate(t *testing.T) {
	userID := uuid.New()
	req := istanbulRequest(4)

	t.Run("AI response is normalized", func(t *testing.T) {
		ai := new(MockContentGenerator)
		service, repo := setupItineraryServiceTest(ai)

		ai.On("GenerateContent", mock.Anything, mock.MatchedBy(func(p string) bool {
			return assert.ObjectsAreEqual(BuildItineraryPrompt(req), p)
		}), mock.Anything).Return(fourDayAIResponse, nil).Once()
		repo.On("SaveInteraction", mock.Anything, mock.MatchedBy(func(i types.LlmInteraction) bool {
			return i.UserID == userID && i.ModelUsed == "gemini-test" && i.Outcome == "ai" && i.ResponseText == fourDayAIResponse
		})).Return(uuid.New(), nil).Once()

		result, err := service.Generate(context.Background(), userID, req)
		require.NoError(t, err)

		assert.Equal(t, types.SourceAI, result.Source)
		assert.Empty(t, result.FallbackReason)
		it := result.Itinerary
		require.Len(t, it.Days, 4)
		assert.Equal(t, "Sultanahmet", it.Days[0].Title)
		assert.Equal(t, "Day 3 - Istanbul Adventure", it.Days[2].Title)
		assert.Equal(t, "Day 4 - Istanbul Adventure", it.Days[3].Title)
		assert.Equal(t, types.ActivityAttraction, it.Days[0].Activities[0].Type)
		assert.Equal(t, types.ActivityRestaurant, it.Days[0].Activities[1].Type)
		assert.Equal(t, types.ActivityActivity, it.Days[1].Activities[0].Type)
		assert.Equal(t, 20000, it.EstimatedCost.Total)
		assert.Equal(t, it.EstimatedCost.Total, it.EstimatedCost.Sum())

		ai.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	fallbackCases := []struct {
		name   string
		text   string
		err    error
		reason string
	}{
		{"provider error", "", errors.New("503 service unavailable"), ReasonProviderError},
		{"no JSON", "I'm sorry, I can't help with that.", nil, ReasonNoJSON},
		{"parse error", `{"days": [1, 2,]}`, nil, ReasonParseError},
		{"empty itinerary", `{"days": []}`, nil, ReasonEmpty},
	}
	for _, tc := range fallbackCases {
		t.Run("falls back on "+tc.name, func(t *testing.T) {
			ai := new(MockContentGenerator)
			service, repo := setupItineraryServiceTest(ai)

			ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(tc.text, tc.err).Once()
			repo.On("SaveInteraction", mock.Anything, outcome(tc.reason)).Return(uuid.New(), nil).Once()

			result, err := service.Generate(context.Background(), userID, req)
			require.NoError(t, err)
			assert.Equal(t, types.SourceFallback, result.Source)
			assert.Equal(t, tc.reason, result.FallbackReason)
			assert.Equal(t, Fallback(req), result.Itinerary)

			repo.AssertExpectations(t)
		})
	}

	t.Run("unconfigured provider uses fallback without saving", func(t *testing.T) {
		service, repo := setupItineraryServiceTest(nil)

		result, err := service.Generate(context.Background(), userID, req)
		require.NoError(t, err)
		assert.Equal(t, types.SourceFallback, result.Source)
		assert.Equal(t, ReasonUnconfigured, result.FallbackReason)
		repo.AssertNotCalled(t, "SaveInteraction", mock.Anything, mock.Anything)
	})

	t.Run("interaction save failure is not surfaced", func(t *testing.T) {
		ai := new(MockContentGenerator)
		service, repo := setupItineraryServiceTest(ai)

		ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(fourDayAIResponse, nil).Once()
		repo.On("SaveInteraction", mock.Anything, mock.Anything).Return(uuid.Nil, errors.New("db down")).Once()

		result, err := service.Generate(context.Background(), userID, req)
		require.NoError(t, err)
		assert.Equal(t, types.SourceAI, result.Source)
	})

	t.Run("invalid request is rejected before the AI call", func(t *testing.T) {
		ai := new(MockContentGenerator)
		service, repo := setupItineraryServiceTest(ai)

		for _, days := range []int{0, 366} {
			_, err := service.Generate(context.Background(), userID, istanbulRequest(days))
			assert.ErrorIs(t, err, api.ErrInvalidTripRequest)
		}
		ai.AssertNotCalled(t, "GenerateContent", mock.Anything, mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "SaveInteraction", mock.Anything, mock.Anything)
	})

	t.Run("provider call is bounded by the timeout", func(t *testing.T) {
		ai := new(MockContentGenerator)
		service, repo := setupItineraryServiceTest(ai)
		service.timeout = 20 * time.Millisecond

		ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				<-args.Get(0).(context.Context).Done()
			}).
			Return("", context.DeadlineExceeded).Once()
		repo.On("SaveInteraction", mock.Anything, outcome(ReasonProviderError)).Return(uuid.New(), nil).Once()

		result, err := service.Generate(context.Background(), userID, req)
		require.NoError(t, err)
		assert.Equal(t, ReasonProviderError, result.FallbackReason)
	})
}
