package types

// ActivityType is the closed set of activity categories an itinerary may use.
type ActivityType string

const (
	ActivityAttraction    ActivityType = "attraction"
	ActivityRestaurant    ActivityType = "restaurant"
	ActivityHotel         ActivityType = "hotel"
	ActivityActivity      ActivityType = "activity"
	ActivityTransport     ActivityType = "transport"
	ActivityFood          ActivityType = "food"
	ActivitySpiritual     ActivityType = "spiritual"
	ActivityShopping      ActivityType = "shopping"
	ActivityCultural      ActivityType = "cultural"
	ActivitySightseeing   ActivityType = "sightseeing"
	ActivityEntertainment ActivityType = "entertainment"
	ActivityNature        ActivityType = "nature"
	ActivityAdventure     ActivityType = "adventure"
	ActivityRelaxation    ActivityType = "relaxation"
)

// ActivityTypes lists every canonical activity type.
var ActivityTypes = []ActivityType{
	ActivityAttraction, ActivityRestaurant, ActivityHotel, ActivityActivity,
	ActivityTransport, ActivityFood, ActivitySpiritual, ActivityShopping,
	ActivityCultural, ActivitySightseeing, ActivityEntertainment, ActivityNature,
	ActivityAdventure, ActivityRelaxation,
}

// Valid reports whether t is one of the canonical activity types.
func (t ActivityType) Valid() bool {
	for _, v := range ActivityTypes {
		if t == v {
			return true
		}
	}
	return false
}

// GenerationSource records which path produced an itinerary.
type GenerationSource string

const (
	SourceAI       GenerationSource = "ai"
	SourceFallback GenerationSource = "fallback"
)

// Itinerary is the canonical day-by-day plan stored with a trip.
type Itinerary struct {
	Destination     string          `json:"destination"`
	TotalDays       int             `json:"total_days"`
	EstimatedCost   EstimatedCost   `json:"estimated_cost"`
	CarbonFootprint CarbonFootprint `json:"carbon_footprint"`
	Days            []Day           `json:"days"`
}

type EstimatedCost struct {
	Total         int `json:"total"`
	Accommodation int `json:"accommodation"`
	Food          int `json:"food"`
	Activities    int `json:"activities"`
	Transport     int `json:"transport"`
}

// Sum is the total of the four cost components.
func (c EstimatedCost) Sum() int {
	return c.Accommodation + c.Food + c.Activities + c.Transport
}

// CarbonFootprint is expressed in kg CO2e.
type CarbonFootprint struct {
	Total         int `json:"total"`
	Transport     int `json:"transport"`
	Accommodation int `json:"accommodation"`
}

type Day struct {
	Day        int        `json:"day"`
	Title      string     `json:"title"`
	Activities []Activity `json:"activities"`
}

type Activity struct {
	Time        string       `json:"time"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Duration    string       `json:"duration"`
	Cost        int          `json:"cost"`
	Type        ActivityType `json:"type"`
	Location    string       `json:"location"`
	Address     string       `json:"address,omitempty"`
	PlaceID     string       `json:"place_id,omitempty"`
	Rating      *float64     `json:"rating,omitempty"`
	Photos      []string     `json:"photos,omitempty"`
	MapURL      string       `json:"map_url,omitempty"`
}

// GenerationResult is an itinerary together with how it was produced.
type GenerationResult struct {
	Itinerary      Itinerary        `json:"itinerary"`
	Source         GenerationSource `json:"source"`
	FallbackReason string           `json:"fallback_reason,omitempty"`
}
