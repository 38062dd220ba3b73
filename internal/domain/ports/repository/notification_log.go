package repository

import (
	"context"
)

// NotificationLogRepository deduplicates completion notices: one row per
// (job id, kind) that was actually sent.
type NotificationLogRepository interface {
	// Save records that a notification was sent.
	Save(ctx context.Context, tx Tx, jobID, kind string) error
	// Exists checks if a specific notification has already been sent.
	Exists(ctx context.Context, tx Tx, jobID, kind string) (bool, error)
}
