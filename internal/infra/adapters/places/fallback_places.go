package places

import (
	"context"
	"strings"

	"tripreel/internal/domain/model"
	"tripreel/internal/domain/ports/adapter"
)

var _ adapter.PlacesAdapter = (*FallbackPlaces)(nil)

// FallbackPlaces serves canned data for a handful of cities so the service
// works end to end without a Google API key. Unknown destinations get the
// default set with a titled name.
type FallbackPlaces struct{}

func NewFallbackPlaces() *FallbackPlaces { return &FallbackPlaces{} }

// NewPlacesAdapter picks the real API when a key is configured.
func NewPlacesAdapter(googleAPIKey string) adapter.PlacesAdapter {
	if googleAPIKey == "" {
		return NewFallbackPlaces()
	}
	return NewGooglePlaces(googleAPIKey)
}

var fallbackDestinations = map[string]model.DestinationInfo{
	"bali":     {Name: "Bali", Country: "Indonesia", Label: "Bali, Indonesia", Confidence: "high"},
	"paris":    {Name: "Paris", Country: "France", Label: "Paris, France", Confidence: "high"},
	"tokyo":    {Name: "Tokyo", Country: "Japan", Label: "Tokyo, Japan", Confidence: "high"},
	"new york": {Name: "New York", Country: "USA", Label: "New York, USA", Confidence: "high"},
	"london":   {Name: "London", Country: "United Kingdom", Label: "London, United Kingdom", Confidence: "high"},
}

var fallbackAttractions = map[string][]model.Place{
	"bali": {
		{Name: "Ubud Rice Terraces", Category: "Natural Wonder", Rating: 4.7},
		{Name: "Tanah Lot Temple", Category: "Historical", Rating: 4.6},
		{Name: "Uluwatu Temple", Category: "Historical", Rating: 4.6},
	},
	"paris": {
		{Name: "Eiffel Tower", Category: "Landmark", Rating: 4.7},
		{Name: "Louvre Museum", Category: "Cultural", Rating: 4.7},
		{Name: "Montmartre", Category: "Sightseeing", Rating: 4.6},
	},
	"tokyo": {
		{Name: "Senso-ji Temple", Category: "Historical", Rating: 4.5},
		{Name: "Shibuya Crossing", Category: "Landmark", Rating: 4.6},
		{Name: "Meiji Shrine", Category: "Historical", Rating: 4.6},
	},
}

var fallbackActivities = map[string][]model.Place{
	"bali": {
		{Name: "Balinese Cooking Class", Category: "Cultural", Rating: 4.8, EstimatedPrice: 35},
		{Name: "Yoga Retreat", Category: "Wellness", Rating: 4.7, EstimatedPrice: 25},
		{Name: "Mount Batur Sunrise Trek", Category: "Adventure", Rating: 4.7, EstimatedPrice: 45},
	},
	"paris": {
		{Name: "Seine River Cruise", Category: "Sightseeing", Rating: 4.6, EstimatedPrice: 30},
		{Name: "Wine Tasting", Category: "Cultural", Rating: 4.8, EstimatedPrice: 55},
	},
	"tokyo": {
		{Name: "Sushi Making Workshop", Category: "Cultural", Rating: 4.8, EstimatedPrice: 60},
		{Name: "Robot Restaurant Show", Category: "Entertainment", Rating: 4.3, EstimatedPrice: 70},
	},
}

var fallbackHotels = map[string][]model.Hotel{
	"bali": {
		{Name: "Bali Budget Inn", Tier: "budget", PricePerNight: 35, Rating: 4.2},
		{Name: "Komaneka Resort", Tier: "mid-range", PricePerNight: 80, Rating: 4.6},
		{Name: "Four Seasons Bali", Tier: "luxury", PricePerNight: 250, Rating: 4.9},
	},
	"paris": {
		{Name: "Hotel des Arts", Tier: "budget", PricePerNight: 90, Rating: 4.1},
		{Name: "Le Marais Boutique", Tier: "mid-range", PricePerNight: 180, Rating: 4.5},
		{Name: "The Ritz Paris", Tier: "luxury", PricePerNight: 900, Rating: 4.8},
	},
	"tokyo": {
		{Name: "Capsule Inn Akihabara", Tier: "budget", PricePerNight: 40, Rating: 4.0},
		{Name: "Shinjuku Granbell", Tier: "mid-range", PricePerNight: 150, Rating: 4.4},
		{Name: "Park Hyatt Tokyo", Tier: "luxury", PricePerNight: 600, Rating: 4.7},
	},
}

var fallbackRestaurants = map[string][]model.Restaurant{
	"bali": {
		{Name: "Warung Biah Biah", AvgMealPrice: 8, Rating: 4.5},
		{Name: "Locavore", AvgMealPrice: 45, Rating: 4.8},
	},
	"paris": {
		{Name: "Bouillon Chartier", AvgMealPrice: 20, Rating: 4.3},
		{Name: "Le Comptoir", AvgMealPrice: 55, Rating: 4.6},
	},
	"tokyo": {
		{Name: "Ichiran Ramen", AvgMealPrice: 12, Rating: 4.4},
		{Name: "Sukiyabashi Jiro", AvgMealPrice: 300, Rating: 4.7},
	},
}

func (f *FallbackPlaces) DestinationInfo(ctx context.Context, destination string) (*model.DestinationInfo, error) {
	key := strings.ToLower(strings.TrimSpace(destination))
	if info, ok := fallbackDestinations[key]; ok {
		return &info, nil
	}
	name := titleCase(destination)
	return &model.DestinationInfo{
		Name:       name,
		Label:      name,
		Confidence: "low",
	}, nil
}

func (f *FallbackPlaces) TopAttractions(ctx context.Context, destination string, limit int) ([]model.Place, error) {
	return clampPlaces(lookupFallback(fallbackAttractions, destination), limit), nil
}

func (f *FallbackPlaces) TopActivities(ctx context.Context, destination string, limit int) ([]model.Place, error) {
	return clampPlaces(lookupFallback(fallbackActivities, destination), limit), nil
}

func (f *FallbackPlaces) Hotels(ctx context.Context, destination string) ([]model.Hotel, error) {
	return lookupFallback(fallbackHotels, destination), nil
}

func (f *FallbackPlaces) Restaurants(ctx context.Context, destination string) ([]model.Restaurant, error) {
	return lookupFallback(fallbackRestaurants, destination), nil
}

// lookupFallback falls back to the bali set for unknown cities, matching the
// behavior users see in demo mode.
func lookupFallback[T any](data map[string][]T, destination string) []T {
	key := strings.ToLower(strings.TrimSpace(destination))
	// Inputs like "Paris, France" should still match the city entry.
	if i := strings.IndexByte(key, ','); i >= 0 {
		key = strings.TrimSpace(key[:i])
	}
	if items, ok := data[key]; ok {
		return items
	}
	return data["bali"]
}

func clampPlaces(places []model.Place, limit int) []model.Place {
	if limit > 0 && len(places) > limit {
		return places[:limit]
	}
	return places
}
