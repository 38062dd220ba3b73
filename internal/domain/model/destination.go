package model

// DestinationInfo is the normalized destination produced by the destination
// parser: free-form input like "Finland" or "take me to NYC" resolved to a
// concrete city and country.
type DestinationInfo struct {
	Name        string `json:"name"`    // city, e.g. "Helsinki"
	Country     string `json:"country"` // e.g. "Finland"
	Label       string `json:"label"`   // "City, Country"
	CountryOnly bool   `json:"country_only"`
	Confidence  string `json:"confidence"` // high|medium|low
}

// Place is an attraction or activity candidate supplied by the places
// adapter, ranked by rating when clip photos are selected.
type Place struct {
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	Rating         float64 `json:"rating"`
	EstimatedPrice float64 `json:"estimated_price"`
	PhotoURL       string  `json:"photo_url,omitempty"`
}

type Hotel struct {
	Name          string  `json:"name"`
	Tier          string  `json:"tier"` // budget|mid-range|luxury
	PricePerNight float64 `json:"price_per_night"`
	Rating        float64 `json:"rating"`
	PhotoURL      string  `json:"photo_url,omitempty"`
}

type Restaurant struct {
	Name         string  `json:"name"`
	AvgMealPrice float64 `json:"avg_meal_price"`
	Rating       float64 `json:"rating"`
	PhotoURL     string  `json:"photo_url,omitempty"`
}
