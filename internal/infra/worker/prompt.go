// File: internal/infra/worker/prompt.go
package worker

import (
	"fmt"
	"strings"

	"tripreel/internal/domain/model"
)

// PromptBuilder turns one itinerary day into an 8-second vlog prompt for the
// generation capability. The build is deterministic: the same day plan always
// yields the same prompt, so a resubmitted day reproduces its predecessor.
type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// Build produces a timeline-guided prompt: weights per activity, normalized
// to 8 seconds, with scene descriptions looked up from the activity names.
func (b *PromptBuilder) Build(day model.DayPlan) string {
	morning := orActivity(day.Morning.Name, "morning exploration")
	afternoon := orActivity(day.Afternoon.Name, "afternoon adventure")
	evening := orActivity(day.Evening.Name, "evening relaxation")

	mw := activityWeight(morning)
	aw := activityWeight(afternoon)
	ew := activityWeight(evening)
	total := mw + aw + ew

	morningEnd := round1(mw / total * 8)
	afternoonEnd := round1(morningEnd + aw/total*8)
	_ = ew

	return fmt.Sprintf("[0.0s-%.1fs] The person from the reference photo %s. "+
		"[%.1fs-%.1fs] Then they are %s. "+
		"[%.1fs-8.0s] The day ends with them %s. "+
		"Travel vlog style, the same person throughout all scenes, energetic dynamic camera movements, "+
		"cinematic transitions between activities, genuine emotional reactions, warm vibrant color grading.",
		morningEnd, vlogVisual(morning),
		morningEnd, afternoonEnd, vlogVisual(afternoon),
		afternoonEnd, vlogVisual(evening))
}

// activityWeight scores how many of the 8 seconds an activity deserves.
// Visually striking activities get more screen time than logistics.
func activityWeight(name string) float64 {
	lower := strings.ToLower(name)
	switch {
	case containsAny(lower, "beach", "waterfall", "sunset", "sunrise", "snorkel", "diving", "hike", "trek"):
		return 3.0
	case containsAny(lower, "temple", "rice terrace", "mountain", "lake", "boat", "cruise", "cultural show"):
		return 2.5
	case containsAny(lower, "spa", "massage", "dinner", "restaurant", "market", "shopping", "museum"):
		return 2.0
	case containsAny(lower, "coffee", "cafe", "breakfast", "lunch", "walk", "stroll"):
		return 1.5
	case containsAny(lower, "arrival", "check-in", "check in", "departure", "transfer", "airport"):
		return 1.0
	}
	return 2.0
}

// vlogVisual converts an activity name into an energetic scene description.
func vlogVisual(name string) string {
	lower := strings.ToLower(name)
	switch {
	case containsAny(lower, "beach", "swimming", "swim"):
		return "running excitedly into crystal-clear turquoise waves, splashing joyfully, spinning around with arms wide open"
	case containsAny(lower, "temple", "church", "mosque", "shrine"):
		return "walking slowly through magnificent ancient architecture, eyes widening in awe, gently touching ornate carvings"
	case containsAny(lower, "hike", "trek"):
		return "conquering scenic mountain trails, reaching a viewpoint and throwing arms up in triumph at the panorama"
	case containsAny(lower, "rice", "terrace", "farm"):
		return "walking through emerald green terraced fields, running fingers through rice stalks with pure joy"
	case containsAny(lower, "snorkel", "diving", "underwater"):
		return "plunging into crystal waters, swimming alongside colorful tropical fish, pointing excitedly at marine life"
	case containsAny(lower, "waterfall", "falls"):
		return "approaching a thundering waterfall, getting splashed by cool mist, laughing with delight"
	case containsAny(lower, "sunset", "sunrise"):
		return "silhouetted against a blazing orange sky, arms raised in triumph, turning to camera with the biggest smile"
	case containsAny(lower, "spa", "massage", "relax"):
		return "melting into pure relaxation during a traditional spa treatment, expression of complete bliss"
	case containsAny(lower, "shop", "market", "bazaar"):
		return "excitedly exploring colorful market stalls, holding up unique treasures with delight"
	case containsAny(lower, "show", "dance", "performance", "cultural"):
		return "watching a mesmerizing traditional performance with sparkling eyes, clapping along enthusiastically"
	case containsAny(lower, "boat", "cruise", "sailing"):
		return "standing at the bow of a boat with wind in their hair, arms spread wide, watching stunning scenery glide past"
	case containsAny(lower, "dinner", "restaurant", "dining"):
		return "savoring an elegant dinner in beautiful ambiance, clinking glasses joyfully, tasting dishes with pure delight"
	case containsAny(lower, "food", "eat", "cuisine", "taste"):
		return "eagerly trying sizzling street food, eyes closing in pleasure, steam rising from mouthwatering dishes"
	case containsAny(lower, "coffee", "cafe", "breakfast"):
		return "savoring the first sip of perfect local coffee, satisfied smile, soaking in the morning atmosphere"
	case containsAny(lower, "arrival", "check-in", "check in", "hotel"):
		return "arriving with excited anticipation, first glimpse of new surroundings, spontaneous happy dance"
	case containsAny(lower, "departure", "leaving", "airport"):
		return "taking one last loving look around, hand on heart, bittersweet smile of incredible memories made"
	}
	return fmt.Sprintf("enthusiastically enjoying %s, genuine smile of pure travel happiness, soaking in every moment", name)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func orActivity(name, def string) string {
	if strings.TrimSpace(name) == "" {
		return def
	}
	return name
}

func round1(f float64) float64 {
	return float64(int(f*10+0.5)) / 10
}
