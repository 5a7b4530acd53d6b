package types

import (
	"time"

	"github.com/google/uuid"
)

type BudgetTier string

const (
	BudgetLow    BudgetTier = "low"
	BudgetMedium BudgetTier = "medium"
	BudgetHigh   BudgetTier = "high"
)

type TravelType string

const (
	TravelSolo    TravelType = "solo"
	TravelCouple  TravelType = "couple"
	TravelFriends TravelType = "friends"
	TravelFamily  TravelType = "family"
)

type TripStatus string

const (
	TripPlanned   TripStatus = "planned"
	TripOngoing   TripStatus = "ongoing"
	TripCompleted TripStatus = "completed"
	TripCancelled TripStatus = "cancelled"
)

// TripRequest holds the parameters itinerary generation works from. It is
// built per request and never persisted as is.
type TripRequest struct {
	Origin      string
	Destination string
	StartDate   time.Time
	EndDate     time.Time
	DayCount    int
	Budget      BudgetTier
	TotalBudget int
	TravelType  TravelType
	MemberCount int
	Preferences []string
}

// CreateTripRequest is the JSON body of POST /trips.
type CreateTripRequest struct {
	Title       string     `json:"title" validate:"omitempty,max=200"`
	Origin      string     `json:"origin" validate:"omitempty,max=200"`
	Destination string     `json:"destination" validate:"required,min=2,max=200"`
	StartDate   string     `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string     `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Days        int        `json:"days" validate:"omitempty,min=1,max=30"`
	Budget      BudgetTier `json:"budget" validate:"required,oneof=low medium high"`
	TotalBudget int        `json:"total_budget" validate:"omitempty,min=1,max=1000000000000"`
	TravelType  TravelType `json:"travel_type" validate:"required,oneof=solo couple friends family"`
	MemberCount int        `json:"member_count" validate:"omitempty,min=1,max=50"`
	Preferences []string   `json:"preferences" validate:"required,min=1,max=20,dive,required,max=50"`
	Notes       string     `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateTripRequest is the JSON body of PATCH /trips/{tripID}. The
// itinerary itself cannot be edited.
type UpdateTripRequest struct {
	Title  *string     `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Notes  *string     `json:"notes,omitempty" validate:"omitempty,max=2000"`
	Status *TripStatus `json:"status,omitempty" validate:"omitempty,oneof=planned ongoing completed cancelled"`
}

type Trip struct {
	ID              uuid.UUID         `json:"id"`
	UserID          uuid.UUID         `json:"user_id"`
	Title           string            `json:"title"`
	Origin          string            `json:"origin,omitempty"`
	Destination     string            `json:"destination"`
	StartDate       *time.Time        `json:"start_date,omitempty"`
	EndDate         *time.Time        `json:"end_date,omitempty"`
	Days            int               `json:"days"`
	Budget          BudgetTier        `json:"budget"`
	TotalBudget     int               `json:"total_budget"`
	PlannedBudget   int               `json:"planned_budget"`
	TravelType      TravelType        `json:"travel_type"`
	MemberCount     int               `json:"member_count"`
	Preferences     []string          `json:"preferences"`
	Status          TripStatus        `json:"status"`
	Notes           string            `json:"notes,omitempty"`
	Itinerary       Itinerary         `json:"itinerary"`
	ItinerarySource GenerationSource  `json:"itinerary_source"`
	Enrichment      *EnrichmentReport `json:"enrichment,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// TripSummary is the list view of a trip, without the itinerary body.
type TripSummary struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Destination string     `json:"destination"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	Days        int        `json:"days"`
	Budget      BudgetTier `json:"budget"`
	Status      TripStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

type PaginatedTrips struct {
	Trips    []TripSummary `json:"trips"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Total    int           `json:"total"`
}
