package types

import (
	"time"

	"github.com/google/uuid"
)

// Destination counts how often a place has been planned for.
type Destination struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	TripCount int       `json:"trip_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
