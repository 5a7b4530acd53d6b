package trip

import (
	"fmt"
	"strings"
	"time"

	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/api/itinerary"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const (
	dateLayout = "2006-01-02"
	// MaxTripDays caps trips created over HTTP.
	MaxTripDays = 30
)

// BuildTripRequest turns the HTTP body into generation parameters. The day
// count comes from the dates when days is absent; when both are given they
// must agree.
func BuildTripRequest(in types.CreateTripRequest) (types.TripRequest, error) {
	req := types.TripRequest{
		Origin:      strings.TrimSpace(in.Origin),
		Destination: strings.TrimSpace(in.Destination),
		DayCount:    in.Days,
		Budget:      in.Budget,
		TotalBudget: in.TotalBudget,
		TravelType:  in.TravelType,
		MemberCount: in.MemberCount,
	}

	var err error
	if in.StartDate != "" {
		if req.StartDate, err = time.Parse(dateLayout, in.StartDate); err != nil {
			return types.TripRequest{}, fmt.Errorf("start_date: %w", api.ErrInvalidTripRequest)
		}
	}
	if in.EndDate != "" {
		if req.EndDate, err = time.Parse(dateLayout, in.EndDate); err != nil {
			return types.TripRequest{}, fmt.Errorf("end_date: %w", api.ErrInvalidTripRequest)
		}
	}

	switch {
	case !req.StartDate.IsZero() && !req.EndDate.IsZero():
		if req.EndDate.Before(req.StartDate) {
			return types.TripRequest{}, fmt.Errorf("end_date is before start_date: %w", api.ErrInvalidTripRequest)
		}
		derived := int(req.EndDate.Sub(req.StartDate).Hours()/24) + 1
		if req.DayCount == 0 {
			req.DayCount = derived
		} else if req.DayCount != derived {
			return types.TripRequest{}, fmt.Errorf("days (%d) does not match the %d days between start_date and end_date: %w",
				req.DayCount, derived, api.ErrInvalidTripRequest)
		}
	case !req.EndDate.IsZero():
		return types.TripRequest{}, fmt.Errorf("end_date requires start_date: %w", api.ErrInvalidTripRequest)
	case !req.StartDate.IsZero() && req.DayCount > 0:
		req.EndDate = req.StartDate.AddDate(0, 0, req.DayCount-1)
	}

	if req.DayCount <= 0 {
		return types.TripRequest{}, fmt.Errorf("days or start_date and end_date are required: %w", api.ErrInvalidTripRequest)
	}
	if req.DayCount > MaxTripDays {
		return types.TripRequest{}, fmt.Errorf("trip is %d days, at most %d allowed: %w",
			req.DayCount, MaxTripDays, api.ErrInvalidTripRequest)
	}

	if req.MemberCount <= 0 {
		req.MemberCount = itinerary.DefaultMemberCount(req.TravelType)
	}

	req.Preferences = dedupePreferences(in.Preferences)
	if len(req.Preferences) == 0 {
		return types.TripRequest{}, fmt.Errorf("at least one preference is required: %w", api.ErrInvalidTripRequest)
	}
	return req, nil
}

// TripRequestFromTrip rebuilds the generation parameters of a stored trip.
func TripRequestFromTrip(t *types.Trip) types.TripRequest {
	req := types.TripRequest{
		Origin:      t.Origin,
		Destination: t.Destination,
		DayCount:    t.Days,
		Budget:      t.Budget,
		TotalBudget: t.TotalBudget,
		TravelType:  t.TravelType,
		MemberCount: t.MemberCount,
		Preferences: t.Preferences,
	}
	if t.StartDate != nil {
		req.StartDate = *t.StartDate
	}
	if t.EndDate != nil {
		req.EndDate = *t.EndDate
	}
	return req
}

// dedupePreferences trims tags and drops case-insensitive repeats, keeping
// the first spelling.
func dedupePreferences(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, p := range in {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		key := strings.ToLower(p)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

func defaultTitle(req types.TripRequest) string {
	if req.DayCount == 1 {
		return fmt.Sprintf("Day trip to %s", req.Destination)
	}
	return fmt.Sprintf("%d days in %s", req.DayCount, req.Destination)
}

// plannedBudget is what a trip adds to its owner's budget_planned.
func plannedBudget(req types.TripRequest, it types.Itinerary) int {
	if req.TotalBudget > 0 {
		return req.TotalBudget
	}
	return it.EstimatedCost.Total
}

func datePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
