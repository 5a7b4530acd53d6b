package types

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserStats are the per-user aggregates kept in step with trip creation
// and deletion.
type UserStats struct {
	UserID        uuid.UUID `json:"user_id"`
	TripsCount    int       `json:"trips_count"`
	DaysPlanned   int       `json:"days_planned"`
	BudgetPlanned int       `json:"budget_planned"`
}

// UpdateProfileRequest is the JSON body of PATCH /users/me.
type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
}
