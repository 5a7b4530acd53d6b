package itinerary

import (
	"fmt"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// Fallback builds a rule-based itinerary without calling the AI provider.
// Every day follows the same three-activity pattern, so identical requests
// produce identical itineraries.
func Fallback(req types.TripRequest) types.Itinerary {
	dayCount := max(req.DayCount, 0)
	destination := req.Destination
	dailyBudget := DailyBudget(req)

	days := make([]types.Day, 0, dayCount)
	for n := 1; n <= dayCount; n++ {
		days = append(days, types.Day{
			Day:   n,
			Title: fmt.Sprintf("Day %d - %s in %s", n, dayTheme(n, dayCount), destination),
			Activities: []types.Activity{
				{
					Time:        "09:00",
					Name:        destination + " City Tour",
					Description: fmt.Sprintf("Start the morning with a guided walk through the main neighbourhoods of %s.", destination),
					Duration:    "3 hours",
					Cost:        share(dailyBudget, 30),
					Type:        types.ActivityActivity,
					Location:    destination,
					MapURL:      MapSearchURL(destination + " city tour"),
				},
				{
					Time:        "13:00",
					Name:        "Local Cuisine in " + destination,
					Description: fmt.Sprintf("Lunch at a well-reviewed local restaurant serving dishes %s is known for.", destination),
					Duration:    "1.5 hours",
					Cost:        share(dailyBudget, 20),
					Type:        types.ActivityRestaurant,
					Location:    destination,
					MapURL:      MapSearchURL(destination + " restaurants"),
				},
				{
					Time:        "15:30",
					Name:        destination + " Landmarks",
					Description: fmt.Sprintf("Visit one of the best-known attractions of %s in the afternoon.", destination),
					Duration:    "2.5 hours",
					Cost:        share(dailyBudget, 25),
					Type:        types.ActivityAttraction,
					Location:    destination,
					MapURL:      MapSearchURL(destination + " attractions"),
				},
			},
		})
	}

	return types.Itinerary{
		Destination:     destination,
		TotalDays:       dayCount,
		EstimatedCost:   SplitCost(TripBudget(req)),
		CarbonFootprint: EstimateCarbonFootprint(dayCount),
		Days:            days,
	}
}

var middleThemes = []string{"Culture and History", "Local Life", "Hidden Gems", "Markets and Flavours"}

func dayTheme(n, total int) string {
	switch {
	case n == 1:
		return "Arrival and First Impressions"
	case n == total:
		return "Farewell"
	default:
		return middleThemes[(n-2)%len(middleThemes)]
	}
}
