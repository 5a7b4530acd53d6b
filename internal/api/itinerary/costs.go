package itinerary

import (
	"math"
	"net/url"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const (
	// MaxGenerationDays bounds programmatic generation. The HTTP surface
	// caps trips lower.
	MaxGenerationDays = 365

	baseDailyFootprint = 35
	// carbonMultiplier applies to every destination.
	carbonMultiplier = 1

	mapSearchBase = "https://www.google.com/maps/search/?api=1&query="
)

// per person, per day
var tierDailyRates = map[types.BudgetTier]int{
	types.BudgetLow:    2000,
	types.BudgetMedium: 5000,
	types.BudgetHigh:   10000,
}

var defaultMembers = map[types.TravelType]int{
	types.TravelSolo:    1,
	types.TravelCouple:  2,
	types.TravelFriends: 4,
	types.TravelFamily:  4,
}

// TierDailyRate returns the per-person daily rate for tier, treating unknown
// tiers as medium.
func TierDailyRate(tier types.BudgetTier) int {
	if rate, ok := tierDailyRates[tier]; ok {
		return rate
	}
	return tierDailyRates[types.BudgetMedium]
}

// DefaultMemberCount is the group size assumed for a travel type.
func DefaultMemberCount(travelType types.TravelType) int {
	if n, ok := defaultMembers[travelType]; ok {
		return n
	}
	return 1
}

// DailyBudget is the per-day budget for the whole group. An explicit total
// budget is spread evenly over the trip; without one the tier rate is
// multiplied by the group size.
func DailyBudget(req types.TripRequest) int {
	days := max(req.DayCount, 1)
	if req.TotalBudget > 0 {
		return req.TotalBudget / days
	}

	members := req.MemberCount
	if members < 1 {
		members = DefaultMemberCount(req.TravelType)
	}
	return mulSat(TierDailyRate(req.Budget), members)
}

// TripBudget is the daily budget over the whole trip.
func TripBudget(req types.TripRequest) int {
	return mulSat(DailyBudget(req), max(req.DayCount, 0))
}

// SplitCost divides total 40/30/20 between accommodation, food and
// activities. Transport takes the remainder so the parts always add up.
func SplitCost(total int) types.EstimatedCost {
	total = max(total, 0)
	c := types.EstimatedCost{
		Total:         total,
		Accommodation: share(total, 40),
		Food:          share(total, 30),
		Activities:    share(total, 20),
	}
	c.Transport = total - c.Accommodation - c.Food - c.Activities
	return c
}

// EstimateCarbonFootprint returns the kg CO2e estimate for a trip of days.
func EstimateCarbonFootprint(days int) types.CarbonFootprint {
	total := mulSat(baseDailyFootprint*carbonMultiplier, max(days, 0))
	transport := share(total, 60)
	return types.CarbonFootprint{
		Total:         total,
		Transport:     transport,
		Accommodation: total - transport,
	}
}

// share returns pct percent of n, rounded down, for n >= 0. Dividing first
// keeps it from overflowing on large budgets.
func share(n, pct int) int {
	return n/100*pct + n%100*pct/100
}

// mulSat multiplies non-negative a and b, saturating at math.MaxInt.
func mulSat(a, b int) int {
	if a <= 0 || b <= 0 {
		return 0
	}
	if a > math.MaxInt/b {
		return math.MaxInt
	}
	return a * b
}

// addSat adds non-negative a and b, saturating at math.MaxInt.
func addSat(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

// MapSearchURL links to a Google Maps search for query.
func MapSearchURL(query string) string {
	return mapSearchBase + url.QueryEscape(query)
}
