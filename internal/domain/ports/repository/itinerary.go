package repository

import (
	"context"

	"tripreel/internal/domain/model"
)

type ItineraryRepository interface {
	Save(ctx context.Context, tx Tx, it *model.Itinerary) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Itinerary, error)
	Count(ctx context.Context, tx Tx) (int, error)
}
