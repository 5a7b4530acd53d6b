package itinerary

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

func TestDailyBudget(t *testing.T) {
	tests := []struct {
		name string
		req  types.TripRequest
		want int
	}{
		{"total budget spread over days", types.TripRequest{DayCount: 4, TotalBudget: 10000}, 2500},
		{"integer division", types.TripRequest{DayCount: 3, TotalBudget: 1000}, 333},
		{"tier times members", types.TripRequest{DayCount: 3, Budget: types.BudgetLow, MemberCount: 3}, 6000},
		{"member default by travel type", types.TripRequest{DayCount: 3, Budget: types.BudgetHigh, TravelType: types.TravelFamily}, 40000},
		{"unknown tier is medium", types.TripRequest{DayCount: 1, Budget: "lavish", MemberCount: 1}, 5000},
		{"zero days guarded", types.TripRequest{TotalBudget: 700}, 700},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DailyBudget(tt.req))
		})
	}
}

func TestSplitCost(t *testing.T) {
	for _, total := range []int{0, 1, 7, 99, 1000, 15000, 123457} {
		c := SplitCost(total)
		assert.Equal(t, total, c.Total)
		assert.Equal(t, c.Total, c.Sum())
		assert.GreaterOrEqual(t, c.Transport, 0)
	}
	assert.Equal(t, types.EstimatedCost{}, SplitCost(-50))
}

func TestSplitCost_LargeTotals(t *testing.T) {
	for _, total := range []int{math.MaxInt64 / 10, math.MaxInt64 / 3, math.MaxInt64 - 1, math.MaxInt64} {
		c := SplitCost(total)
		assert.GreaterOrEqual(t, c.Accommodation, 0, total)
		assert.GreaterOrEqual(t, c.Food, 0, total)
		assert.GreaterOrEqual(t, c.Activities, 0, total)
		assert.GreaterOrEqual(t, c.Transport, 0, total)
		assert.Equal(t, total, c.Sum(), total)
		assert.GreaterOrEqual(t, c.Accommodation, c.Food)
	}
	assert.Equal(t, 400_000_000_000_000_000, SplitCost(1_000_000_000_000_000_000).Accommodation)
}

func TestTripBudget_Saturates(t *testing.T) {
	req := types.TripRequest{DayCount: 365, Budget: types.BudgetHigh, MemberCount: math.MaxInt64 / 1000}
	assert.Equal(t, math.MaxInt, TripBudget(req))
	assert.Equal(t, 30000, TripBudget(types.TripRequest{DayCount: 3, Budget: types.BudgetMedium, MemberCount: 2}))
}

func TestEstimateCarbonFootprint(t *testing.T) {
	prev := -1
	for days := 0; days <= 30; days++ {
		cf := EstimateCarbonFootprint(days)
		assert.GreaterOrEqual(t, cf.Total, 0)
		assert.Greater(t, cf.Total, prev)
		assert.Equal(t, cf.Total, cf.Transport+cf.Accommodation)
		prev = cf.Total
	}
	assert.Equal(t, 35*7, EstimateCarbonFootprint(7).Total)
}

func TestDefaultMemberCount(t *testing.T) {
	assert.Equal(t, 1, DefaultMemberCount(types.TravelSolo))
	assert.Equal(t, 2, DefaultMemberCount(types.TravelCouple))
	assert.Equal(t, 4, DefaultMemberCount(types.TravelFriends))
	assert.Equal(t, 4, DefaultMemberCount(types.TravelFamily))
	assert.Equal(t, 1, DefaultMemberCount("crowd"))
}

func TestNormalizeActivityType(t *testing.T) {
	tests := map[string]types.ActivityType{
		"safari":        types.ActivityActivity,
		"temple":        types.ActivitySpiritual,
		"food":          types.ActivityRestaurant,
		"Museum":        types.ActivityAttraction,
		"  BAZAAR ":     types.ActivityShopping,
		"adventure":     types.ActivityActivity,
		"nature":        types.ActivityNature,
		"Entertainment": types.ActivityEntertainment,
		"":              types.ActivityActivity,
	}
	for raw, want := range tests {
		assert.Equal(t, want, NormalizeActivityType(raw), raw)
	}
}
