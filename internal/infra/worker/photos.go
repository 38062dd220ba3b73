// File: internal/infra/worker/photos.go
package worker

import (
	"strings"

	"tripreel/internal/domain/model"
)

// BuildPhotoSet assembles the reference image list for one day's clip. The
// user photo always comes first so the capability keeps the same person in
// frame; remaining slots are filled from the day's activity photos, then from
// top-rated attraction photos.
func BuildPhotoSet(userPhotoURL string, day model.DayPlan, attractions []model.Place) []string {
	photos := make([]string, 0, model.MaxClipPhotos)
	seen := map[string]struct{}{}

	add := func(url string) {
		if len(photos) >= model.MaxClipPhotos {
			return
		}
		if !usablePhoto(url) {
			return
		}
		if _, dup := seen[url]; dup {
			return
		}
		seen[url] = struct{}{}
		photos = append(photos, url)
	}

	add(userPhotoURL)
	add(day.Morning.PhotoURL)
	add(day.Afternoon.PhotoURL)
	add(day.Evening.PhotoURL)
	for _, a := range attractions {
		add(a.PhotoURL)
	}
	return photos
}

// usablePhoto rejects placeholders and anything the capability cannot fetch.
func usablePhoto(url string) bool {
	url = strings.TrimSpace(url)
	if url == "" {
		return false
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return false
	}
	lower := strings.ToLower(url)
	return !strings.Contains(lower, "placeholder") && !strings.Contains(lower, "via.placeholder")
}
