package model

import "time"

// Activity is a single morning/afternoon/evening entry of a day plan.
type Activity struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	EstimatedCost float64 `json:"estimated_cost"`
	PhotoURL      string  `json:"photo_url,omitempty"`
	Rating        float64 `json:"rating,omitempty"`
}

// DayPlan is one itinerary day: morning/afternoon/evening entries plus a
// short title used by the clip prompt builder.
type DayPlan struct {
	Day       int      `json:"day"`
	Title     string   `json:"title"`
	Morning   Activity `json:"morning"`
	Afternoon Activity `json:"afternoon"`
	Evening   Activity `json:"evening"`
}

type BudgetCategory struct {
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
	Note       string  `json:"note,omitempty"`
}

type BudgetBreakdown struct {
	Categories      map[string]BudgetCategory `json:"categories"`
	TotalAllocated  float64                   `json:"total_allocated"`
	RemainingBudget float64                   `json:"remaining_budget"`
}

// Itinerary is the persisted result of itinerary generation. It is the
// upstream producer of the day plans consumed by the video pipeline.
type Itinerary struct {
	ID                 string          `json:"id"`
	Destination        DestinationInfo `json:"destination"`
	Duration           int             `json:"duration"`
	Travelers          int             `json:"travelers"`
	TotalBudget        float64         `json:"total_budget"`
	ActivityPreference string          `json:"activity_preference"`
	IncludeFlights     bool            `json:"include_flights"`
	IncludeHotels      bool            `json:"include_hotels"`
	Budget             BudgetBreakdown `json:"budget_breakdown"`
	Days               []DayPlan       `json:"daily_activities"`
	AttractionsSummary string          `json:"attractions_summary"`
	CreatedAt          time.Time       `json:"created_at"`
}
