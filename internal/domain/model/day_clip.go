package model

import "time"

type DayClipStatus string

const (
	DayClipStatusPending    DayClipStatus = "pending"
	DayClipStatusSubmitted  DayClipStatus = "submitted"
	DayClipStatusPolling    DayClipStatus = "polling"
	DayClipStatusDownloaded DayClipStatus = "downloaded"
	DayClipStatusFailed     DayClipStatus = "failed"
)

// MaxClipPhotos caps the reference photo set sent to the generation
// capability. The first entry is always the user photo.
const MaxClipPhotos = 3

// DayClip is one day's generation attempt, child of a VideoJob. Rows are never
// deleted; they are kept for diagnostics even after the job fails.
type DayClip struct {
	JobID        string
	DayNumber    int // 1..TotalDays, unique within a job
	TaskID       string
	Photos       []string
	Prompt       string
	Status       DayClipStatus
	VideoURL     string
	LocalPath    string
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Terminal reports whether the clip reached downloaded or failed.
func (c *DayClip) Terminal() bool {
	return c.Status == DayClipStatusDownloaded || c.Status == DayClipStatusFailed
}
