package itinerary

import (
	"fmt"
	"strings"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// BuildItineraryPrompt renders req into the itinerary prompt sent to the AI
// provider.
func BuildItineraryPrompt(req types.TripRequest) string {
	members := req.MemberCount
	if members < 1 {
		members = DefaultMemberCount(req.TravelType)
	}

	dates := "flexible dates"
	if !req.StartDate.IsZero() && !req.EndDate.IsZero() {
		dates = fmt.Sprintf("%s to %s", req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02"))
	}

	origin := req.Origin
	if origin == "" {
		origin = "not specified"
	}

	allowed := make([]string, 0, len(types.ActivityTypes))
	for _, t := range types.ActivityTypes {
		allowed = append(allowed, string(t))
	}

	return fmt.Sprintf(`
Plan a %[1]d-day trip to %[2]s for a %[3]s group of %[4]d travelling from %[5]s (%[6]s).
Budget tier: %[7]s. Daily budget for the whole group: about %[8]d. Interests: %[9]s.

Return the response STRICTLY as a JSON object without any additional text, markdown or code fences.
Use this exact structure:
{
  "destination": "%[2]s",
  "total_days": %[1]d,
  "estimated_cost": {"total": 0, "accommodation": 0, "food": 0, "activities": 0, "transport": 0},
  "carbon_footprint": {"total": 0, "transport": 0, "accommodation": 0},
  "days": [
    {
      "day": 1,
      "title": "Short theme for the day",
      "activities": [
        {
          "time": "09:00",
          "name": "Place or activity name",
          "description": "One or two sentences",
          "duration": "2 hours",
          "cost": 0,
          "type": "attraction",
          "location": "Neighbourhood or area in %[2]s",
          "address": "Street address if known"
        }
      ]
    }
  ]
}

Rules:
- Produce exactly %[1]d entries in "days", numbered 1 to %[1]d.
- Give each day 3 to 6 activities in chronological order, with "time" in 24-hour HH:MM format.
- "type" must be one of: %[10]s.
- All costs are whole numbers in local currency for the whole group. Use 0 when unknown.
- Only recommend real places that exist in %[2]s.
`,
		req.DayCount,
		req.Destination,
		req.TravelType,
		members,
		origin,
		dates,
		req.Budget,
		DailyBudget(req),
		strings.Join(req.Preferences, ", "),
		strings.Join(allowed, ", "),
	)
}
