package itinerary

import (
	"strings"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// activitySynonyms maps lowercased words an AI provider tends to use onto the
// canonical activity types. Entries here win over the canonical set, so
// "food" and "adventure" collapse to restaurant and activity.
var activitySynonyms = map[string]types.ActivityType{
	"food":        types.ActivityRestaurant,
	"dining":      types.ActivityRestaurant,
	"meal":        types.ActivityRestaurant,
	"breakfast":   types.ActivityRestaurant,
	"lunch":       types.ActivityRestaurant,
	"dinner":      types.ActivityRestaurant,
	"cafe":        types.ActivityRestaurant,
	"cuisine":     types.ActivityRestaurant,
	"street food": types.ActivityRestaurant,

	"temple":    types.ActivitySpiritual,
	"shrine":    types.ActivitySpiritual,
	"church":    types.ActivitySpiritual,
	"mosque":    types.ActivitySpiritual,
	"cathedral": types.ActivitySpiritual,
	"monastery": types.ActivitySpiritual,
	"religious": types.ActivitySpiritual,

	"market":   types.ActivityShopping,
	"bazaar":   types.ActivityShopping,
	"mall":     types.ActivityShopping,
	"souvenir": types.ActivityShopping,

	"monument": types.ActivityAttraction,
	"museum":   types.ActivityAttraction,
	"palace":   types.ActivityAttraction,
	"fort":     types.ActivityAttraction,
	"landmark": types.ActivityAttraction,
	"castle":   types.ActivityAttraction,

	"tour":       types.ActivityActivity,
	"experience": types.ActivityActivity,
	"adventure":  types.ActivityActivity,
	"excursion":  types.ActivityActivity,

	"heritage": types.ActivityCultural,
	"culture":  types.ActivityCultural,
	"festival": types.ActivityCultural,
	"gallery":  types.ActivityCultural,

	"viewpoint": types.ActivitySightseeing,
	"sight":     types.ActivitySightseeing,

	"nightlife": types.ActivityEntertainment,
	"show":      types.ActivityEntertainment,
	"concert":   types.ActivityEntertainment,

	"beach":  types.ActivityNature,
	"park":   types.ActivityNature,
	"garden": types.ActivityNature,
	"hike":   types.ActivityNature,
	"hiking": types.ActivityNature,

	"spa":      types.ActivityRelaxation,
	"wellness": types.ActivityRelaxation,
	"leisure":  types.ActivityRelaxation,

	"accommodation": types.ActivityHotel,
	"lodging":       types.ActivityHotel,
	"check-in":      types.ActivityHotel,

	"travel":   types.ActivityTransport,
	"transfer": types.ActivityTransport,
	"flight":   types.ActivityTransport,
	"train":    types.ActivityTransport,
	"taxi":     types.ActivityTransport,
}

// NormalizeActivityType maps raw onto the canonical activity types. Unknown
// values become "activity".
func NormalizeActivityType(raw string) types.ActivityType {
	key := strings.ToLower(strings.TrimSpace(raw))
	if t, ok := activitySynonyms[key]; ok {
		return t
	}
	if t := types.ActivityType(key); t.Valid() {
		return t
	}
	return types.ActivityActivity
}
