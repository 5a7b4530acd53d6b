package itinerary

import (
	"fmt"
	"strings"
	"time"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// default start times for activities that arrive without a usable one
var activitySlots = []string{"09:00", "12:30", "15:00", "18:00", "20:00", "21:30"}

const defaultDuration = "2 hours"

// Normalize reconciles a possibly partial candidate against req and always
// returns an itinerary with exactly req.DayCount days numbered from 1,
// canonical activity types and a cost breakdown whose parts sum to the
// total. Days beyond req.DayCount are dropped.
func Normalize(candidate *types.CandidateItinerary, req types.TripRequest) types.Itinerary {
	if candidate == nil {
		candidate = &types.CandidateItinerary{}
	}

	dayCount := max(req.DayCount, 0)
	dailyBudget := DailyBudget(req)

	destination := req.Destination
	if destination == "" {
		destination = string(candidate.Destination)
	}

	days := make([]types.Day, 0, dayCount)
	for i, cd := range candidate.Days {
		if i >= dayCount {
			break
		}
		days = append(days, normalizeDay(cd, i+1, destination, dailyBudget))
	}
	for n := len(days) + 1; n <= dayCount; n++ {
		days = append(days, paddingDay(n, destination, dailyBudget))
	}

	itineraryDestination := string(candidate.Destination)
	if itineraryDestination == "" {
		itineraryDestination = destination
	}

	return types.Itinerary{
		Destination:     itineraryDestination,
		TotalDays:       dayCount,
		EstimatedCost:   reconcileCost(candidate.EstimatedCost, TripBudget(req)),
		CarbonFootprint: reconcileCarbon(candidate.CarbonFootprint, dayCount),
		Days:            days,
	}
}

func normalizeDay(cd types.CandidateDay, n int, destination string, dailyBudget int) types.Day {
	title := string(cd.Title)
	if title == "" {
		title = fmt.Sprintf("Day %d in %s", n, destination)
	}

	activities := make([]types.Activity, 0, len(cd.Activities))
	for i, ca := range cd.Activities {
		activities = append(activities, normalizeActivity(ca, i, destination))
	}
	if len(activities) == 0 {
		activities = append(activities, paddingActivity(destination, dailyBudget))
	}

	return types.Day{Day: n, Title: title, Activities: activities}
}

func normalizeActivity(ca types.CandidateActivity, idx int, destination string) types.Activity {
	name := string(ca.Name)
	if name == "" {
		name = "Explore " + destination
	}
	location := string(ca.Location)
	if location == "" {
		location = destination
	}
	duration := string(ca.Duration)
	if duration == "" {
		duration = defaultDuration
	}

	a := types.Activity{
		Time:        normalizeClock(string(ca.Time), idx),
		Name:        name,
		Description: string(ca.Description),
		Duration:    duration,
		Cost:        max(int(ca.Cost), 0),
		Type:        NormalizeActivityType(string(ca.Type)),
		Location:    location,
		Address:     string(ca.Address),
		PlaceID:     string(ca.PlaceID),
		MapURL:      string(ca.MapURL),
	}
	if r := float64(ca.Rating); r > 0 && r <= 5 {
		a.Rating = &r
	}
	for _, p := range ca.Photos {
		if isHTTPURL(p) {
			a.Photos = append(a.Photos, p)
		}
	}
	if !isHTTPURL(a.MapURL) {
		a.MapURL = MapSearchURL(name + " " + destination)
	}
	return a
}

var clockLayouts = []string{"15:04", "3:04 PM", "3:04PM", "3PM", "3 PM"}

// normalizeClock returns raw as HH:MM when it parses as a time of day, or
// the default slot for the activity's position.
func normalizeClock(raw string, idx int) string {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("15:04")
		}
	}
	return activitySlots[min(idx, len(activitySlots)-1)]
}

func paddingDay(n int, destination string, dailyBudget int) types.Day {
	return types.Day{
		Day:        n,
		Title:      fmt.Sprintf("Day %d - %s Adventure", n, destination),
		Activities: []types.Activity{paddingActivity(destination, dailyBudget)},
	}
}

func paddingActivity(destination string, dailyBudget int) types.Activity {
	return types.Activity{
		Time:        activitySlots[0],
		Name:        "Explore " + destination,
		Description: fmt.Sprintf("A free day to wander %s and discover it at your own pace.", destination),
		Duration:    "Full day",
		Cost:        share(dailyBudget, 30),
		Type:        types.ActivityActivity,
		Location:    destination,
		MapURL:      MapSearchURL(destination),
	}
}

// reconcileCost keeps a candidate breakdown when it is usable. Without a
// positive total the budget split is used; when the parts disagree with the
// total, transport absorbs the difference if it can and the split is
// recomputed from the candidate total otherwise.
func reconcileCost(c *types.CandidateCost, budgetTotal int) types.EstimatedCost {
	if c == nil || c.Total <= 0 {
		return SplitCost(budgetTotal)
	}

	cost := types.EstimatedCost{
		Total:         int(c.Total),
		Accommodation: max(int(c.Accommodation), 0),
		Food:          max(int(c.Food), 0),
		Activities:    max(int(c.Activities), 0),
		Transport:     max(int(c.Transport), 0),
	}
	fixed := addSat(addSat(cost.Accommodation, cost.Food), cost.Activities)
	if fixed == 0 && cost.Transport == 0 {
		return SplitCost(cost.Total)
	}
	if fixed > cost.Total {
		return SplitCost(cost.Total)
	}
	cost.Transport = cost.Total - fixed
	return cost
}

func reconcileCarbon(c *types.CandidateCarbon, days int) types.CarbonFootprint {
	if c == nil || c.Total <= 0 {
		return EstimateCarbonFootprint(days)
	}

	total := int(c.Total)
	transport := max(int(c.Transport), 0)
	if transport == 0 || transport > total {
		transport = share(total, 60)
	}
	return types.CarbonFootprint{
		Total:         total,
		Transport:     transport,
		Accommodation: total - transport,
	}
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://")
}
