//go:build !integration

package worker

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"tripreel/internal/domain/model"
)

func TestPromptBuilder(t *testing.T) {
	t.Run("should weight visually striking activities higher", func(t *testing.T) {
		day := model.DayPlan{
			Day:       2,
			Morning:   model.Activity{Name: "Beach Swimming"},
			Afternoon: model.Activity{Name: "Airport Transfer"},
			Evening:   model.Activity{Name: "Sunset Viewpoint"},
		}
		prompt := NewPromptBuilder().Build(day)

		// beach 3.0, transfer 1.0, sunset 3.0 over 8s: morning ends at ~3.4s
		if !strings.Contains(prompt, "[0.0s-3.4s]") {
			t.Errorf("expected morning segment ending at 3.4s, got %q", prompt)
		}
		if !strings.Contains(prompt, "turquoise waves") {
			t.Errorf("expected beach visual in prompt, got %q", prompt)
		}
		if !strings.Contains(prompt, "reference photo") {
			t.Errorf("prompt must anchor the person to the reference photo")
		}
	})

	t.Run("should always span exactly eight seconds", func(t *testing.T) {
		days := []model.DayPlan{
			{Morning: model.Activity{Name: "Temple Visit"}, Afternoon: model.Activity{Name: "Street Food Tour"}, Evening: model.Activity{Name: "Night Market"}},
			{Morning: model.Activity{Name: "Arrival"}, Afternoon: model.Activity{Name: "Hotel Check-in"}, Evening: model.Activity{Name: "Welcome Dinner"}},
			{}, // empty day falls back to generic activity names
		}
		re := regexp.MustCompile(`\[(\d+\.\d)s-8\.0s\]`)
		for i, day := range days {
			prompt := NewPromptBuilder().Build(day)
			m := re.FindStringSubmatch(prompt)
			if m == nil {
				t.Fatalf("day %d: no closing segment ending at 8.0s in %q", i, prompt)
			}
			if start, _ := strconv.ParseFloat(m[1], 64); start <= 0 || start >= 8 {
				t.Errorf("day %d: evening segment starts at %.1f", i, start)
			}
		}
	})

	t.Run("should describe unknown activities generically", func(t *testing.T) {
		day := model.DayPlan{Morning: model.Activity{Name: "Volcano Quad Biking"}}
		prompt := NewPromptBuilder().Build(day)
		if !strings.Contains(prompt, "Volcano Quad Biking") {
			t.Errorf("expected activity name carried into generic visual, got %q", prompt)
		}
	})
}

func TestBuildPhotoSet(t *testing.T) {
	attractions := []model.Place{
		{Name: "Uluwatu Temple", PhotoURL: "https://photos.example.com/uluwatu.jpg"},
		{Name: "Rice Terrace", PhotoURL: "https://photos.example.com/terrace.jpg"},
	}

	t.Run("should put the user photo first and cap the set", func(t *testing.T) {
		day := model.DayPlan{
			Morning:   model.Activity{PhotoURL: "https://photos.example.com/morning.jpg"},
			Afternoon: model.Activity{PhotoURL: "https://photos.example.com/afternoon.jpg"},
			Evening:   model.Activity{PhotoURL: "https://photos.example.com/evening.jpg"},
		}
		photos := BuildPhotoSet("https://cdn.example.com/me.jpg", day, attractions)

		if len(photos) != model.MaxClipPhotos {
			t.Fatalf("expected %d photos, got %d", model.MaxClipPhotos, len(photos))
		}
		if photos[0] != "https://cdn.example.com/me.jpg" {
			t.Errorf("user photo must come first, got %q", photos[0])
		}
	})

	t.Run("should skip placeholders and non-http urls", func(t *testing.T) {
		day := model.DayPlan{
			Morning:   model.Activity{PhotoURL: "https://via.placeholder.com/800"},
			Afternoon: model.Activity{PhotoURL: "file:///tmp/x.jpg"},
		}
		photos := BuildPhotoSet("https://cdn.example.com/me.jpg", day, attractions)

		for _, p := range photos {
			if strings.Contains(p, "placeholder") || !strings.HasPrefix(p, "http") {
				t.Errorf("unusable photo slipped through: %q", p)
			}
		}
		if photos[1] != "https://photos.example.com/uluwatu.jpg" {
			t.Errorf("expected attraction photo to fill the slot, got %q", photos[1])
		}
	})

	t.Run("should deduplicate repeated urls", func(t *testing.T) {
		day := model.DayPlan{
			Morning:   model.Activity{PhotoURL: "https://photos.example.com/uluwatu.jpg"},
			Afternoon: model.Activity{PhotoURL: "https://photos.example.com/uluwatu.jpg"},
		}
		photos := BuildPhotoSet("https://cdn.example.com/me.jpg", day, attractions)

		seen := map[string]bool{}
		for _, p := range photos {
			if seen[p] {
				t.Errorf("duplicate photo %q", p)
			}
			seen[p] = true
		}
	})

	t.Run("should work with only the user photo", func(t *testing.T) {
		photos := BuildPhotoSet("https://cdn.example.com/me.jpg", model.DayPlan{}, nil)
		if len(photos) != 1 || photos[0] != "https://cdn.example.com/me.jpg" {
			t.Errorf("expected just the user photo, got %v", photos)
		}
	})
}
