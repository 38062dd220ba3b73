package adapter

import (
	"context"

	"tripreel/internal/domain/model"
)

// PlacesAdapter supplies destination data used by itinerary generation and by
// the clip photo-set builder (attraction photos ranked by rating).
type PlacesAdapter interface {
	DestinationInfo(ctx context.Context, destination string) (*model.DestinationInfo, error)
	TopAttractions(ctx context.Context, destination string, limit int) ([]model.Place, error)
	TopActivities(ctx context.Context, destination string, limit int) ([]model.Place, error)
	Hotels(ctx context.Context, destination string) ([]model.Hotel, error)
	Restaurants(ctx context.Context, destination string) ([]model.Restaurant, error)
}
