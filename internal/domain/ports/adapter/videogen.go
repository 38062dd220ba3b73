package adapter

import "context"

type GenerationStatus string

const (
	GenerationPending    GenerationStatus = "pending"
	GenerationProcessing GenerationStatus = "processing"
	GenerationSuccess    GenerationStatus = "success"
	GenerationFailed     GenerationStatus = "failed"
)

// PollResult is one observation of an external generation task.
type PollResult struct {
	Status    GenerationStatus
	ResultURL string // set when Status == GenerationSuccess
	Error     string // capability-reported message when Status == GenerationFailed
}

// VideoGenAdapter is the port for the external generation capability:
// submit a prompt plus up to three reference image URLs, poll the returned
// task to a terminal state, then fetch the produced bytes.
type VideoGenAdapter interface {
	// UploadFile publishes a local file and returns a URL the capability can
	// fetch. Needed for user photos stored under the local uploads dir.
	UploadFile(ctx context.Context, localPath string) (string, error)

	// Submit starts a generation task and returns its external task id.
	Submit(ctx context.Context, prompt string, imageURLs []string) (string, error)

	// Poll reports the task's current state.
	Poll(ctx context.Context, taskID string) (PollResult, error)

	// Fetch downloads the result to destPath.
	Fetch(ctx context.Context, resultURL, destPath string) error
}
