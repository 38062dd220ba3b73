package model

import (
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"tripreel/internal/domain"
)

type VideoJobStatus string

const (
	VideoJobStatusQueued     VideoJobStatus = "queued"
	VideoJobStatusProcessing VideoJobStatus = "processing"
	VideoJobStatusCompleted  VideoJobStatus = "completed"
	VideoJobStatusFailed     VideoJobStatus = "failed"
	VideoJobStatusCancelled  VideoJobStatus = "cancelled"
)

// VideoJob tracks one full-itinerary video request: one generated clip per
// itinerary day, merged into a single final artifact.
type VideoJob struct {
	ID              string
	ItineraryID     string
	Destination     string
	TotalDays       int
	UserPhotoURL    string
	Status          VideoJobStatus
	Progress        int // 0..100, reaches 100 only on completed
	CurrentDay      int
	CompletedDays   int
	CurrentStage    string
	FinalVideoURL   string
	FinalVideoPath  string
	ErrorMessage    string
	NotifyChatID    int64 // optional Telegram chat for completion notice
	CancelRequested bool
	Notified        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewVideoJob creates a queued job. IDs are ULIDs so the claim query's
// ORDER BY id follows creation order.
func NewVideoJob(itineraryID, destination string, totalDays int, userPhotoURL string, notifyChatID int64) (*VideoJob, error) {
	if strings.TrimSpace(itineraryID) == "" {
		return nil, domain.ErrInvalidArgument
	}
	if totalDays < 1 {
		return nil, domain.ErrInvalidArgument
	}
	if strings.TrimSpace(userPhotoURL) == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &VideoJob{
		ID:           ulid.Make().String(),
		ItineraryID:  itineraryID,
		Destination:  destination,
		TotalDays:    totalDays,
		UserPhotoURL: userPhotoURL,
		Status:       VideoJobStatusQueued,
		CurrentStage: "Waiting for a worker...",
		NotifyChatID: notifyChatID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Terminal reports whether no further status transition is permitted.
func (j *VideoJob) Terminal() bool {
	switch j.Status {
	case VideoJobStatusCompleted, VideoJobStatusFailed, VideoJobStatusCancelled:
		return true
	}
	return false
}

// ProgressFor computes the day-based progress percentage. While every day is
// done but the merge has not finished, progress stays at 99 so that 100 holds
// exactly on completed.
func ProgressFor(completedDays, totalDays int) int {
	if totalDays <= 0 {
		return 0
	}
	p := completedDays * 100 / totalDays
	if p >= 100 {
		return 99
	}
	return p
}
