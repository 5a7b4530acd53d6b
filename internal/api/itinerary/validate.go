package itinerary

import (
	"fmt"
	"strings"

	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// ValidateTripRequest rejects requests that generation cannot serve. The
// returned error wraps api.ErrInvalidTripRequest.
func ValidateTripRequest(req types.TripRequest) error {
	if req.DayCount <= 0 || req.DayCount > MaxGenerationDays {
		return fmt.Errorf("%w: day count must be between 1 and %d, got %d",
			api.ErrInvalidTripRequest, MaxGenerationDays, req.DayCount)
	}
	if strings.TrimSpace(req.Destination) == "" {
		return fmt.Errorf("%w: destination is required", api.ErrInvalidTripRequest)
	}
	return nil
}
