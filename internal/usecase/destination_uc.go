// File: internal/usecase/destination_uc.go
package usecase

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"

	"tripreel/internal/domain"
	"tripreel/internal/domain/model"
	"tripreel/internal/domain/ports/adapter"
	"tripreel/internal/infra/metrics"
)

// Compile-time check
var _ DestinationUseCase = (*destinationUC)(nil)

// DestinationUseCase normalizes free-form destination input ("Finland",
// "take me to NYC") into a concrete city and country.
type DestinationUseCase interface {
	Parse(ctx context.Context, input string) (*model.DestinationInfo, error)
}

type destinationUC struct {
	ai     adapter.AIServiceAdapter
	places adapter.PlacesAdapter
	model  string
	log    *zerolog.Logger
}

func NewDestinationUseCase(ai adapter.AIServiceAdapter, places adapter.PlacesAdapter, model string, logger *zerolog.Logger) *destinationUC {
	return &destinationUC{ai: ai, places: places, model: model, log: logger}
}

const destinationParserSystem = `You are a travel destination parser. Extract and normalize destination information from any user input.

Rules:
1. If user gives a COUNTRY name only, suggest the BEST MAJOR TOURIST CITY in that country
2. If user gives a CITY name, keep it as is
3. Handle misspellings, nicknames, informal names
4. Handle natural language like "I want to visit X" or "Take me to Y"
5. Always return valid JSON

Examples:
- "Finland" -> city: "Helsinki", country: "Finland", is_country_only: true
- "I want to visit Japan" -> city: "Tokyo", country: "Japan", is_country_only: true
- "NYC" -> city: "New York City", country: "USA", is_country_only: false
- "Parris" -> city: "Paris", country: "France", is_country_only: false

Respond ONLY with valid JSON in this exact format:
{
  "city": "City Name",
  "country": "Country Name",
  "is_country_only": true/false,
  "confidence": "high/medium/low",
  "normalized_name": "City, Country"
}`

// Parse asks the LLM first; any provider or parse failure degrades to the
// places adapter, and finally to a cleaned-up echo of the input.
func (uc *destinationUC) Parse(ctx context.Context, input string) (*model.DestinationInfo, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, domain.ErrInvalidArgument
	}

	if info, err := uc.parseWithLLM(ctx, input); err == nil {
		return info, nil
	} else {
		uc.log.Warn().Err(err).Str("input", input).Msg("llm destination parse failed, using fallback")
		metrics.IncAIFallback("destination_parse")
	}

	if info, err := uc.places.DestinationInfo(ctx, input); err == nil {
		return info, nil
	}

	// Last resort: echo the input stripped of common phrasing.
	name := stripTravelPhrases(input)
	return &model.DestinationInfo{
		Name:       name,
		Label:      name,
		Confidence: "low",
	}, nil
}

func (uc *destinationUC) parseWithLLM(ctx context.Context, input string) (*model.DestinationInfo, error) {
	reply, err := uc.ai.Chat(ctx, uc.model, []adapter.Message{
		{Role: "system", Content: destinationParserSystem},
		{Role: "user", Content: "Parse this destination: " + input},
	})
	if err != nil {
		return nil, err
	}

	var parsed struct {
		City           string `json:"city"`
		Country        string `json:"country"`
		IsCountryOnly  bool   `json:"is_country_only"`
		Confidence     string `json:"confidence"`
		NormalizedName string `json:"normalized_name"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(reply)), &parsed); err != nil {
		return nil, err
	}
	if parsed.City == "" {
		return nil, domain.ErrOperationFailed
	}

	info := &model.DestinationInfo{
		Name:        parsed.City,
		Country:     parsed.Country,
		Label:       parsed.NormalizedName,
		CountryOnly: parsed.IsCountryOnly,
		Confidence:  parsed.Confidence,
	}
	if info.Label == "" {
		info.Label = info.Name
		if info.Country != "" {
			info.Label = info.Name + ", " + info.Country
		}
	}
	if info.Confidence == "" {
		info.Confidence = "high"
	}
	return info, nil
}

// stripCodeFence removes the markdown wrapper some models put around JSON.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.Index(s, "```"); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}

var travelPhrases = []string{
	"i want to visit", "i want to go to", "take me to", "planning a trip to",
	"show me", "visit", "trip to",
}

func stripTravelPhrases(input string) string {
	lower := strings.ToLower(input)
	for _, phrase := range travelPhrases {
		if i := strings.Index(lower, phrase); i >= 0 {
			input = input[i+len(phrase):]
			break
		}
	}
	return strings.Trim(strings.TrimSpace(input), ".,!?")
}
