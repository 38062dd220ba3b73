// File: internal/usecase/itinerary_uc.go
package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"tripreel/internal/domain"
	"tripreel/internal/domain/model"
	"tripreel/internal/domain/ports/adapter"
	"tripreel/internal/domain/ports/repository"
	"tripreel/internal/infra/metrics"
)

// Compile-time check
var _ ItineraryUseCase = (*itineraryUC)(nil)

// GenerateItineraryRequest carries the trip parameters collected from the
// caller before generation.
type GenerateItineraryRequest struct {
	Destination        string  `json:"destination"`
	Duration           int     `json:"duration"`
	Travelers          int     `json:"travelers"`
	TotalBudget        float64 `json:"total_budget"`
	ActivityPreference string  `json:"activity_preference"`
	IncludeFlights     bool    `json:"include_flights"`
	IncludeHotels      bool    `json:"include_hotels"`
}

// BudgetValidation is the result of the pre-generation budget check.
type BudgetValidation struct {
	Sufficient  bool               `json:"sufficient"`
	MinimumCost float64            `json:"minimum_cost"`
	Shortfall   float64            `json:"shortfall"`
	Message     string             `json:"message"`
	Costs       map[string]float64 `json:"costs"`
}

type ItineraryUseCase interface {
	// ValidateBudget estimates the minimum viable cost for the trip and
	// reports whether the stated budget covers it.
	ValidateBudget(ctx context.Context, req GenerateItineraryRequest) (*BudgetValidation, error)

	// Generate builds and persists a full itinerary: normalized destination,
	// budget breakdown and one day plan per trip day.
	Generate(ctx context.Context, req GenerateItineraryRequest) (*model.Itinerary, error)

	Get(ctx context.Context, id string) (*model.Itinerary, error)

	// ReallocateBudget spreads the itinerary's unallocated remainder across
	// the selected categories, proportional to their current amounts.
	ReallocateBudget(ctx context.Context, itineraryID string, categories []string) (*model.Itinerary, error)
}

type itineraryUC struct {
	repo   repository.ItineraryRepository
	dest   DestinationUseCase
	places adapter.PlacesAdapter
	ai     adapter.AIServiceAdapter
	model  string
	log    *zerolog.Logger
}

func NewItineraryUseCase(
	repo repository.ItineraryRepository,
	dest DestinationUseCase,
	places adapter.PlacesAdapter,
	ai adapter.AIServiceAdapter,
	aiModel string,
	logger *zerolog.Logger,
) *itineraryUC {
	return &itineraryUC{repo: repo, dest: dest, places: places, ai: ai, model: aiModel, log: logger}
}

// Per-person daily minimums used by the budget check.
const (
	minFoodPerPersonDay      = 40
	minTransportPerPersonDay = 15
	minActivityPerPersonDay  = 30
	defaultFlightPrice       = 500
)

// minHotelPrices is the cheapest realistic nightly rate per city, used when
// no live hotel data is available.
var minHotelPrices = map[string]float64{
	"bali":      60,
	"paris":     120,
	"tokyo":     100,
	"new york":  150,
	"london":    130,
	"rome":      90,
	"barcelona": 85,
	"dubai":     140,
	"bangkok":   50,
	"singapore": 110,
}

func (uc *itineraryUC) ValidateBudget(ctx context.Context, req GenerateItineraryRequest) (*BudgetValidation, error) {
	if err := validateTripRequest(req); err != nil {
		return nil, err
	}

	costs := map[string]float64{}
	if req.IncludeFlights {
		costs["flights"] = defaultFlightPrice * float64(req.Travelers)
	}
	if req.IncludeHotels {
		nightly := minHotelPrice(req.Destination)
		costs["hotels"] = nightly * float64(req.Duration) * float64(roomsFor(req.Travelers))
	}
	perPersonDays := float64(req.Duration) * float64(req.Travelers)
	costs["food"] = minFoodPerPersonDay * perPersonDays
	costs["transport"] = minTransportPerPersonDay * perPersonDays
	costs["activities"] = minActivityPerPersonDay * perPersonDays

	var total float64
	for _, c := range costs {
		total += c
	}

	// A budget within 10% of the estimate is still workable.
	sufficient := req.TotalBudget >= total*0.90
	v := &BudgetValidation{
		Sufficient:  sufficient,
		MinimumCost: total,
		Costs:       costs,
	}
	if sufficient {
		v.Message = fmt.Sprintf("Budget of $%.0f covers the trip (minimum estimated cost: $%.0f).", req.TotalBudget, total)
	} else {
		v.Shortfall = total - req.TotalBudget
		v.Message = fmt.Sprintf("Budget of $%.0f falls short of the $%.0f minimum. Add at least $%.0f or shorten the trip.", req.TotalBudget, total, v.Shortfall)
	}
	return v, nil
}

func (uc *itineraryUC) Generate(ctx context.Context, req GenerateItineraryRequest) (*model.Itinerary, error) {
	if err := validateTripRequest(req); err != nil {
		return nil, err
	}
	val, err := uc.ValidateBudget(ctx, req)
	if err != nil {
		return nil, err
	}
	if !val.Sufficient {
		return nil, fmt.Errorf("%w: %s", domain.ErrInsufficientBudget, val.Message)
	}

	info, err := uc.dest.Parse(ctx, req.Destination)
	if err != nil {
		return nil, fmt.Errorf("parse destination: %w", err)
	}

	attractions, err := uc.places.TopAttractions(ctx, info.Label, 12)
	if err != nil {
		uc.log.Warn().Err(err).Str("destination", info.Label).Msg("attractions lookup failed")
	}
	activities, err := uc.places.TopActivities(ctx, info.Label, 8)
	if err != nil {
		uc.log.Warn().Err(err).Str("destination", info.Label).Msg("activities lookup failed")
	}
	hotels, _ := uc.places.Hotels(ctx, info.Label)
	restaurants, _ := uc.places.Restaurants(ctx, info.Label)

	days := uc.generateDays(ctx, req, info, attractions, activities, restaurants)

	it := &model.Itinerary{
		ID:                 ulid.Make().String(),
		Destination:        *info,
		Duration:           req.Duration,
		Travelers:          req.Travelers,
		TotalBudget:        req.TotalBudget,
		ActivityPreference: req.ActivityPreference,
		IncludeFlights:     req.IncludeFlights,
		IncludeHotels:      req.IncludeHotels,
		Budget:             buildBudgetBreakdown(req, hotels, restaurants),
		Days:               days,
		AttractionsSummary: attractionsSummary(attractions),
		CreatedAt:          time.Now(),
	}

	if err := uc.repo.Save(ctx, repository.NoTX, it); err != nil {
		return nil, fmt.Errorf("save itinerary: %w", err)
	}
	uc.log.Info().Str("itinerary_id", it.ID).Str("destination", info.Label).Int("days", len(days)).Msg("itinerary generated")
	return it, nil
}

func (uc *itineraryUC) Get(ctx context.Context, id string) (*model.Itinerary, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrInvalidArgument
	}
	return uc.repo.FindByID(ctx, repository.NoTX, id)
}

func (uc *itineraryUC) ReallocateBudget(ctx context.Context, itineraryID string, categories []string) (*model.Itinerary, error) {
	if len(categories) == 0 {
		return nil, domain.ErrInvalidArgument
	}
	it, err := uc.repo.FindByID(ctx, repository.NoTX, itineraryID)
	if err != nil {
		return nil, err
	}

	remaining := it.Budget.RemainingBudget
	if remaining <= 0 {
		return it, nil
	}

	selected := make([]string, 0, len(categories))
	var selectedTotal float64
	for _, name := range categories {
		cat, ok := it.Budget.Categories[name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown budget category %q", domain.ErrInvalidArgument, name)
		}
		selected = append(selected, name)
		selectedTotal += cat.Amount
	}

	for _, name := range selected {
		cat := it.Budget.Categories[name]
		var share float64
		if selectedTotal > 0 {
			share = remaining * (cat.Amount / selectedTotal)
		} else {
			share = remaining / float64(len(selected))
		}
		cat.Amount += share
		it.Budget.Categories[name] = cat
	}

	it.Budget.TotalAllocated += remaining
	it.Budget.RemainingBudget = 0
	recomputePercentages(&it.Budget, it.TotalBudget)

	if err := uc.repo.Save(ctx, repository.NoTX, it); err != nil {
		return nil, fmt.Errorf("save itinerary: %w", err)
	}
	return it, nil
}

func validateTripRequest(req GenerateItineraryRequest) error {
	if strings.TrimSpace(req.Destination) == "" {
		return fmt.Errorf("%w: destination is required", domain.ErrInvalidArgument)
	}
	if req.Duration < 1 || req.Duration > 30 {
		return fmt.Errorf("%w: duration must be between 1 and 30 days", domain.ErrInvalidArgument)
	}
	if req.Travelers < 1 || req.Travelers > 20 {
		return fmt.Errorf("%w: travelers must be between 1 and 20", domain.ErrInvalidArgument)
	}
	if req.TotalBudget <= 0 {
		return fmt.Errorf("%w: budget must be positive", domain.ErrInvalidArgument)
	}
	return nil
}

// roomsFor assumes double occupancy.
func roomsFor(travelers int) int {
	return (travelers + 1) / 2
}

func minHotelPrice(destination string) float64 {
	key := strings.ToLower(destination)
	if i := strings.Index(key, ","); i >= 0 {
		key = key[:i]
	}
	key = strings.TrimSpace(key)
	if p, ok := minHotelPrices[key]; ok {
		return p
	}
	return 100
}

// buildBudgetBreakdown allocates the full budget across categories. Fixed
// costs (flights, hotels, food) come off the top, the rest is split between
// local travel, activities and a buffer.
func buildBudgetBreakdown(req GenerateItineraryRequest, hotels []model.Hotel, restaurants []model.Restaurant) model.BudgetBreakdown {
	cats := map[string]model.BudgetCategory{}
	remaining := req.TotalBudget

	if req.IncludeFlights {
		amount := defaultFlightPrice * float64(req.Travelers)
		if amount > remaining {
			amount = remaining
		}
		cats["flights"] = model.BudgetCategory{Amount: amount, Note: "round-trip estimate"}
		remaining -= amount
	}

	if req.IncludeHotels {
		nightly := avgHotelPrice(hotels, req.Destination)
		amount := nightly * float64(req.Duration) * float64(roomsFor(req.Travelers))
		if limit := remaining * 0.40; amount > limit {
			amount = limit
		}
		cats["hotels"] = model.BudgetCategory{Amount: amount, Note: "mid-range, double occupancy"}
		remaining -= amount
	}

	meal := avgMealPrice(restaurants)
	food := meal * 3 * float64(req.Duration) * float64(req.Travelers)
	if limit := remaining * 0.35; food > limit {
		food = limit
	}
	cats["food"] = model.BudgetCategory{Amount: food, Note: "three meals a day"}
	remaining -= food

	// Split what is left 20/35/10; the ratios sum to 0.65 of the pre-split
	// remainder, so the three shares consume it exactly.
	cats["travel"] = model.BudgetCategory{Amount: remaining * 0.20 / 0.65, Note: "local transport"}
	cats["activities"] = model.BudgetCategory{Amount: remaining * 0.35 / 0.65}
	cats["buffer"] = model.BudgetCategory{Amount: remaining * 0.10 / 0.65, Note: "unexpected expenses"}

	b := model.BudgetBreakdown{Categories: cats}
	for _, c := range cats {
		b.TotalAllocated += c.Amount
	}
	b.RemainingBudget = req.TotalBudget - b.TotalAllocated
	if b.RemainingBudget < 0.01 {
		b.RemainingBudget = 0
	}
	recomputePercentages(&b, req.TotalBudget)
	return b
}

func recomputePercentages(b *model.BudgetBreakdown, totalBudget float64) {
	if totalBudget <= 0 {
		return
	}
	for name, cat := range b.Categories {
		cat.Percentage = cat.Amount / totalBudget * 100
		b.Categories[name] = cat
	}
}

func avgHotelPrice(hotels []model.Hotel, destination string) float64 {
	if len(hotels) == 0 {
		return minHotelPrice(destination)
	}
	var sum float64
	for _, h := range hotels {
		sum += h.PricePerNight
	}
	return sum / float64(len(hotels))
}

func avgMealPrice(restaurants []model.Restaurant) float64 {
	if len(restaurants) == 0 {
		return 25
	}
	var sum float64
	for _, r := range restaurants {
		sum += r.AvgMealPrice
	}
	return sum / float64(len(restaurants))
}

func attractionsSummary(attractions []model.Place) string {
	names := make([]string, 0, 5)
	for _, a := range attractions {
		names = append(names, a.Name)
		if len(names) == 5 {
			break
		}
	}
	return strings.Join(names, ", ")
}

const dayPlannerSystem = `You are a travel planner. Build a daily itinerary using ONLY the attractions, activities and restaurants provided. Each day has a morning, afternoon and evening entry. Day 1 starts with arrival, the last day ends with departure.

Respond ONLY with a valid JSON array, one object per day, in this exact format:
[{"day":1,"title":"Short Day Title","morning":{"name":"...","description":"...","category":"...","estimated_cost":30},"afternoon":{...},"evening":{...}}]`

// generateDays asks the LLM for day plans and falls back to a deterministic
// rotation over the place data when the reply is unusable.
func (uc *itineraryUC) generateDays(
	ctx context.Context,
	req GenerateItineraryRequest,
	info *model.DestinationInfo,
	attractions, activities []model.Place,
	restaurants []model.Restaurant,
) []model.DayPlan {
	days, err := uc.daysWithLLM(ctx, req, info, attractions, activities, restaurants)
	if err != nil {
		uc.log.Warn().Err(err).Str("destination", info.Label).Msg("llm day planning failed, using fallback itinerary")
		metrics.IncAIFallback("day_planning")
		days = fallbackDays(req.Duration, info, attractions, activities, restaurants)
	}
	attachPhotos(days, attractions, activities)
	return days
}

func (uc *itineraryUC) daysWithLLM(
	ctx context.Context,
	req GenerateItineraryRequest,
	info *model.DestinationInfo,
	attractions, activities []model.Place,
	restaurants []model.Restaurant,
) ([]model.DayPlan, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan a %d-day trip to %s for %d traveler(s). Activity preference: %s.\n\nAttractions:\n",
		req.Duration, info.Label, req.Travelers, orDefault(req.ActivityPreference, "balanced"))
	for _, a := range attractions {
		fmt.Fprintf(&b, "- %s (rating %.1f, ~$%.0f)\n", a.Name, a.Rating, a.EstimatedPrice)
	}
	b.WriteString("\nActivities:\n")
	for _, a := range activities {
		fmt.Fprintf(&b, "- %s (%s, ~$%.0f)\n", a.Name, a.Category, a.EstimatedPrice)
	}
	b.WriteString("\nRestaurants:\n")
	for _, r := range restaurants {
		fmt.Fprintf(&b, "- %s (avg meal $%.0f)\n", r.Name, r.AvgMealPrice)
	}

	reply, err := uc.ai.Chat(ctx, uc.model, []adapter.Message{
		{Role: "system", Content: dayPlannerSystem},
		{Role: "user", Content: b.String()},
	})
	if err != nil {
		return nil, err
	}

	var days []model.DayPlan
	if err := json.Unmarshal([]byte(stripCodeFence(reply)), &days); err != nil {
		return nil, err
	}
	if len(days) != req.Duration {
		return nil, fmt.Errorf("%w: planner returned %d days, want %d", domain.ErrOperationFailed, len(days), req.Duration)
	}
	for i := range days {
		days[i].Day = i + 1
		if days[i].Title == "" {
			days[i].Title = fmt.Sprintf("Day %d in %s", i+1, info.Name)
		}
	}
	return days, nil
}

// fallbackDays builds a usable itinerary without the LLM: arrival day,
// departure day, and a rotation over attractions and activities in between.
func fallbackDays(duration int, info *model.DestinationInfo, attractions, activities []model.Place, restaurants []model.Restaurant) []model.DayPlan {
	days := make([]model.DayPlan, 0, duration)
	for day := 1; day <= duration; day++ {
		switch {
		case day == 1:
			days = append(days, model.DayPlan{
				Day:       1,
				Title:     "Arrival and First Impressions",
				Morning:   model.Activity{Name: "Arrive and Check In", Description: "Settle into your accommodation in " + info.Name, Category: "Logistics"},
				Afternoon: placeActivity(attractions, 0, model.Activity{Name: "Explore the Neighborhood", Category: "Sightseeing"}),
				Evening:   dinnerActivity(restaurants, 0, "Welcome Dinner"),
			})
		case day == duration && duration > 1:
			days = append(days, model.DayPlan{
				Day:       day,
				Title:     "Departure Day",
				Morning:   placeActivity(attractions, day-1, model.Activity{Name: "Morning Stroll", Category: "Sightseeing"}),
				Afternoon: model.Activity{Name: "Last-Minute Shopping", Description: "Pick up souvenirs before heading out", Category: "Shopping", EstimatedCost: 30},
				Evening:   model.Activity{Name: "Departure", Description: "Head to the airport", Category: "Logistics"},
			})
		default:
			days = append(days, model.DayPlan{
				Day:       day,
				Title:     "Exploring " + info.Name,
				Morning:   placeActivity(attractions, day-1, model.Activity{Name: "City Walk", Category: "Sightseeing"}),
				Afternoon: placeActivity(activities, day-2, model.Activity{Name: "Free Afternoon", Category: "Leisure"}),
				Evening:   dinnerActivity(restaurants, day-1, "Dinner Out"),
			})
		}
	}
	return days
}

func placeActivity(places []model.Place, idx int, fallback model.Activity) model.Activity {
	if len(places) == 0 {
		return fallback
	}
	p := places[idx%len(places)]
	return model.Activity{
		Name:          p.Name,
		Description:   "Visit " + p.Name,
		Category:      orDefault(p.Category, "Sightseeing"),
		EstimatedCost: p.EstimatedPrice,
		PhotoURL:      p.PhotoURL,
		Rating:        p.Rating,
	}
}

func dinnerActivity(restaurants []model.Restaurant, idx int, name string) model.Activity {
	a := model.Activity{Name: name, Category: "Dining", EstimatedCost: 25}
	if len(restaurants) > 0 {
		r := restaurants[idx%len(restaurants)]
		a.Description = "Dinner at " + r.Name
		a.EstimatedCost = r.AvgMealPrice
		a.PhotoURL = r.PhotoURL
		a.Rating = r.Rating
	}
	return a
}

// attachPhotos fills missing photo URLs on LLM-planned activities by matching
// entry names against the place data.
func attachPhotos(days []model.DayPlan, attractions, activities []model.Place) {
	byName := map[string]model.Place{}
	for _, p := range append(append([]model.Place{}, attractions...), activities...) {
		byName[strings.ToLower(p.Name)] = p
	}
	fill := func(a *model.Activity) {
		if a.PhotoURL != "" {
			return
		}
		if p, ok := byName[strings.ToLower(a.Name)]; ok {
			a.PhotoURL = p.PhotoURL
			if a.Rating == 0 {
				a.Rating = p.Rating
			}
		}
	}
	for i := range days {
		fill(&days[i].Morning)
		fill(&days[i].Afternoon)
		fill(&days[i].Evening)
	}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
