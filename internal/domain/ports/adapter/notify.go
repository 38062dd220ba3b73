package adapter

import "context"

// Notifier delivers a job-completion message to the chat the caller
// registered with the job.
type Notifier interface {
	Send(ctx context.Context, chatID int64, text string) error
}
