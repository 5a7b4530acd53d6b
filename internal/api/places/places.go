package places

import (
	"context"
	"errors"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// ErrNoMatch is returned when a lookup finds no place for the query.
var ErrNoMatch = errors.New("no matching place")

// Provider looks places and their photos up in an external directory.
type Provider interface {
	SearchPlace(ctx context.Context, query, destination string) (*types.PlaceMatch, error)
	GetPhotos(ctx context.Context, placeID string, limit int) ([]string, error)
}
