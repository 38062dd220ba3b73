// File: internal/infra/adapters/places/google_places.go
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"tripreel/internal/domain/model"
	"tripreel/internal/domain/ports/adapter"
)

var _ adapter.PlacesAdapter = (*GooglePlaces)(nil)

// GooglePlaces resolves destinations and ranks nearby attractions through the
// Google Places and Geocoding APIs. Results carry photo URLs built from the
// photo_reference of the top photo, since the clip photo-set builder only
// wants places it can actually show.
type GooglePlaces struct {
	apiKey     string
	baseURL    string // https://maps.googleapis.com/maps/api/place
	geocodeURL string
	client     *http.Client
}

func NewGooglePlaces(apiKey string) *GooglePlaces {
	return &GooglePlaces{
		apiKey:     apiKey,
		baseURL:    "https://maps.googleapis.com/maps/api/place",
		geocodeURL: "https://maps.googleapis.com/maps/api/geocode/json",
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *GooglePlaces) DestinationInfo(ctx context.Context, destination string) (*model.DestinationInfo, error) {
	q := url.Values{}
	q.Set("address", destination)
	q.Set("key", g.apiKey)

	var out struct {
		Status  string `json:"status"`
		Results []struct {
			AddressComponents []struct {
				LongName string   `json:"long_name"`
				Types    []string `json:"types"`
			} `json:"address_components"`
			Geometry struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := g.getJSON(ctx, g.geocodeURL+"?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	if out.Status != "OK" || len(out.Results) == 0 {
		return nil, fmt.Errorf("geocoding failed for %q: %s", destination, out.Status)
	}

	city := titleCase(destination)
	country := ""
	for _, comp := range out.Results[0].AddressComponents {
		for _, t := range comp.Types {
			if t == "locality" {
				city = comp.LongName
			}
			if t == "country" {
				country = comp.LongName
			}
		}
	}

	info := &model.DestinationInfo{
		Name:       city,
		Country:    country,
		Label:      city,
		Confidence: "high",
	}
	if country != "" {
		info.Label = city + ", " + country
	}
	return info, nil
}

func (g *GooglePlaces) TopAttractions(ctx context.Context, destination string, limit int) ([]model.Place, error) {
	lat, lng, err := g.locate(ctx, destination)
	if err != nil {
		return nil, err
	}

	var all []model.Place
	for _, placeType := range []string{"tourist_attraction", "museum", "park"} {
		q := url.Values{}
		q.Set("location", fmt.Sprintf("%f,%f", lat, lng))
		q.Set("radius", "10000")
		q.Set("type", placeType)
		q.Set("key", g.apiKey)

		results, err := g.nearbySearch(ctx, q)
		if err != nil {
			return nil, err
		}
		category := titleCase(strings.ReplaceAll(placeType, "_", " "))
		for _, res := range results {
			if p, ok := g.toPlace(res, category, 0); ok {
				all = append(all, p)
			}
		}
	}
	return rankPlaces(all, limit), nil
}

func (g *GooglePlaces) TopActivities(ctx context.Context, destination string, limit int) ([]model.Place, error) {
	lat, lng, err := g.locate(ctx, destination)
	if err != nil {
		return nil, err
	}

	var all []model.Place
	for _, keyword := range []string{"activities tours experiences", "things to do entertainment"} {
		q := url.Values{}
		q.Set("location", fmt.Sprintf("%f,%f", lat, lng))
		q.Set("radius", "10000")
		q.Set("keyword", keyword)
		q.Set("key", g.apiKey)

		results, err := g.nearbySearch(ctx, q)
		if err != nil {
			return nil, err
		}
		for _, res := range results {
			if p, ok := g.toPlace(res, categorizeActivity(res.Types), estimateActivityPrice(res.PriceLevel)); ok {
				all = append(all, p)
			}
		}
	}
	return rankPlaces(all, limit), nil
}

func (g *GooglePlaces) Hotels(ctx context.Context, destination string) ([]model.Hotel, error) {
	lat, lng, err := g.locate(ctx, destination)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("location", fmt.Sprintf("%f,%f", lat, lng))
	q.Set("radius", "10000")
	q.Set("type", "lodging")
	q.Set("key", g.apiKey)

	results, err := g.nearbySearch(ctx, q)
	if err != nil {
		return nil, err
	}
	var out []model.Hotel
	for _, res := range results {
		out = append(out, model.Hotel{
			Name:          res.Name,
			Tier:          hotelTier(res.PriceLevel),
			PricePerNight: estimateHotelPrice(res.PriceLevel),
			Rating:        res.Rating,
			PhotoURL:      g.photoURL(res),
		})
	}
	return out, nil
}

func (g *GooglePlaces) Restaurants(ctx context.Context, destination string) ([]model.Restaurant, error) {
	lat, lng, err := g.locate(ctx, destination)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("location", fmt.Sprintf("%f,%f", lat, lng))
	q.Set("radius", "10000")
	q.Set("type", "restaurant")
	q.Set("key", g.apiKey)

	results, err := g.nearbySearch(ctx, q)
	if err != nil {
		return nil, err
	}
	var out []model.Restaurant
	for _, res := range results {
		out = append(out, model.Restaurant{
			Name:         res.Name,
			AvgMealPrice: estimateMealPrice(res.PriceLevel),
			Rating:       res.Rating,
			PhotoURL:     g.photoURL(res),
		})
	}
	return out, nil
}

// --- internal ---

type placeResult struct {
	Name             string   `json:"name"`
	Rating           float64  `json:"rating"`
	UserRatingsTotal int      `json:"user_ratings_total"`
	PriceLevel       int      `json:"price_level"`
	Types            []string `json:"types"`
	Photos           []struct {
		PhotoReference string `json:"photo_reference"`
	} `json:"photos"`
}

func (g *GooglePlaces) nearbySearch(ctx context.Context, q url.Values) ([]placeResult, error) {
	var out struct {
		Status  string        `json:"status"`
		Results []placeResult `json:"results"`
	}
	if err := g.getJSON(ctx, g.baseURL+"/nearbysearch/json?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	if out.Status != "OK" && out.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("places search failed: %s", out.Status)
	}
	return out.Results, nil
}

func (g *GooglePlaces) locate(ctx context.Context, destination string) (float64, float64, error) {
	q := url.Values{}
	q.Set("address", destination)
	q.Set("key", g.apiKey)

	var out struct {
		Status  string `json:"status"`
		Results []struct {
			Geometry struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := g.getJSON(ctx, g.geocodeURL+"?"+q.Encode(), &out); err != nil {
		return 0, 0, err
	}
	if out.Status != "OK" || len(out.Results) == 0 {
		return 0, 0, fmt.Errorf("geocoding failed for %q: %s", destination, out.Status)
	}
	loc := out.Results[0].Geometry.Location
	return loc.Lat, loc.Lng, nil
}

func (g *GooglePlaces) getJSON(ctx context.Context, fullURL string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("places http %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

// toPlace keeps only well-rated results that carry a photo.
func (g *GooglePlaces) toPlace(res placeResult, category string, price float64) (model.Place, bool) {
	if res.Rating < 4.0 || len(res.Photos) == 0 {
		return model.Place{}, false
	}
	photo := g.photoURL(res)
	if photo == "" {
		return model.Place{}, false
	}
	return model.Place{
		Name:           res.Name,
		Category:       category,
		Rating:         res.Rating,
		EstimatedPrice: price,
		PhotoURL:       photo,
	}, true
}

func (g *GooglePlaces) photoURL(res placeResult) string {
	if len(res.Photos) == 0 || res.Photos[0].PhotoReference == "" {
		return ""
	}
	return fmt.Sprintf("%s/photo?maxwidth=800&photo_reference=%s&key=%s",
		g.baseURL, res.Photos[0].PhotoReference, g.apiKey)
}

// rankPlaces dedupes by name and orders by rating weighted with review volume.
func rankPlaces(places []model.Place, limit int) []model.Place {
	seen := map[string]struct{}{}
	var unique []model.Place
	for _, p := range places {
		if _, ok := seen[p.Name]; ok {
			continue
		}
		seen[p.Name] = struct{}{}
		unique = append(unique, p)
	}
	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Rating > unique[j].Rating
	})
	if limit > 0 && len(unique) > limit {
		unique = unique[:limit]
	}
	return unique
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func categorizeActivity(types []string) string {
	has := func(names ...string) bool {
		for _, t := range types {
			for _, n := range names {
				if t == n {
					return true
				}
			}
		}
		return false
	}
	switch {
	case has("spa"):
		return "Wellness"
	case has("amusement_park", "aquarium", "zoo"):
		return "Entertainment"
	case has("art_gallery", "museum"):
		return "Cultural"
	default:
		return "Sightseeing"
	}
}

func hotelTier(priceLevel int) string {
	switch {
	case priceLevel <= 1:
		return "budget"
	case priceLevel == 2:
		return "mid-range"
	default:
		return "luxury"
	}
}

func estimateHotelPrice(priceLevel int) float64 {
	prices := map[int]float64{0: 30, 1: 60, 2: 120, 3: 250, 4: 400}
	if p, ok := prices[priceLevel]; ok {
		return p
	}
	return 120
}

func estimateMealPrice(priceLevel int) float64 {
	prices := map[int]float64{0: 5, 1: 10, 2: 25, 3: 50, 4: 100}
	if p, ok := prices[priceLevel]; ok {
		return p
	}
	return 25
}

func estimateActivityPrice(priceLevel int) float64 {
	prices := map[int]float64{0: 0, 1: 15, 2: 35, 3: 75, 4: 150}
	if p, ok := prices[priceLevel]; ok {
		return p
	}
	return 35
}
