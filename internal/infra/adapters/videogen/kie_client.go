// File: internal/infra/adapters/videogen/kie_client.go
package videogen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tripreel/internal/domain"
	"tripreel/internal/domain/ports/adapter"
	"tripreel/internal/infra/metrics"
)

var _ adapter.VideoGenAdapter = (*KieClient)(nil)

// KieClient implements adapter.VideoGenAdapter against the KIE veo API.
// Generation runs as an async task: POST /generate returns a task id, then
// GET /record-info reports successFlag 0 (running), 1 (done) or 2/3 (failed).
type KieClient struct {
	apiKey        string
	baseURL       string // e.g. https://api.kie.ai/api/v1/veo
	uploadBaseURL string // e.g. https://kieai.redpandaai.co
	model         string
	submitRetries int
	retryBackoff  time.Duration
	client        *http.Client
}

const negativePrompt = "different person, wrong identity, wrong face, static image, " +
	"no movement, frozen, text overlay, watermark, logo, boring, dull, lifeless, sad expression"

func NewKieClient(apiKey, baseURL, uploadBaseURL, model string, submitRetries int) (*KieClient, error) {
	if apiKey == "" {
		return nil, errors.New("kie api key empty")
	}
	if baseURL == "" {
		baseURL = "https://api.kie.ai/api/v1/veo"
	}
	if uploadBaseURL == "" {
		uploadBaseURL = "https://kieai.redpandaai.co"
	}
	if model == "" {
		model = "veo3"
	}
	if submitRetries <= 0 {
		submitRetries = 3
	}
	return &KieClient{
		apiKey:        apiKey,
		baseURL:       strings.TrimRight(baseURL, "/"),
		uploadBaseURL: strings.TrimRight(uploadBaseURL, "/"),
		model:         model,
		submitRetries: submitRetries,
		retryBackoff:  2 * time.Second,
		client:        &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// UploadFile publishes a local photo via the file-stream-upload endpoint and
// returns the public URL the generation backend can fetch.
func (k *KieClient) UploadFile(ctx context.Context, localPath string) (string, error) {
	start := time.Now()
	url, err := k.uploadFile(ctx, localPath)
	metrics.ObserveVideoGenCall("upload", int(time.Since(start).Milliseconds()), err == nil)
	return url, err
}

func (k *KieClient) uploadFile(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open upload file: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filepath.Base(localPath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", err
	}
	if err := w.WriteField("uploadPath", "travel-videos"); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		k.uploadBaseURL+"/api/file-stream-upload", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+k.apiKey)

	resp, err := k.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("upload http %d", resp.StatusCode)
	}

	var out struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
		Data struct {
			DownloadURL string `json:"downloadUrl"`
			URL         string `json:"url"`
			FileURL     string `json:"fileUrl"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Code != 200 {
		return "", fmt.Errorf("upload api error: %s", out.Msg)
	}
	url := out.Data.DownloadURL
	if url == "" {
		url = out.Data.URL
	}
	if url == "" {
		url = out.Data.FileURL
	}
	if url == "" {
		return "", errors.New("upload returned no file url")
	}
	return url, nil
}

// Submit starts a generation task. Transient failures (network errors and 5xx
// responses) are retried with a doubling backoff; API rejections are not,
// those surface as domain.ErrSubmissionRejected right away.
func (k *KieClient) Submit(ctx context.Context, prompt string, imageURLs []string) (string, error) {
	var lastErr error
	backoff := k.retryBackoff

	for attempt := 1; attempt <= k.submitRetries; attempt++ {
		start := time.Now()
		taskID, retryable, err := k.submitOnce(ctx, prompt, imageURLs)
		metrics.ObserveVideoGenCall("submit", int(time.Since(start).Milliseconds()), err == nil)
		if err == nil {
			return taskID, nil
		}
		if !retryable {
			return "", err
		}
		lastErr = err
		if attempt == k.submitRetries {
			break
		}
		metrics.IncSubmitRetry()
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return "", ctx.Err()
		}
		backoff *= 2
	}
	return "", fmt.Errorf("%w: %v", domain.ErrSubmissionRejected, lastErr)
}

func (k *KieClient) submitOnce(ctx context.Context, prompt string, imageURLs []string) (taskID string, retryable bool, err error) {
	payload := map[string]any{
		"prompt":            prompt,
		"imageUrls":         imageURLs,
		"model":             k.model,
		"aspectRatio":       "16:9",
		"generationType":    "REFERENCE_2_VIDEO",
		"enableTranslation": true,
		"enableFallback":    true,
		"personGeneration":  "allow_adult",
		"generateAudio":     true,
		"negativePrompt":    negativePrompt,
	}
	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, k.baseURL+"/generate", bytes.NewReader(b))
	if err != nil {
		return "", false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+k.apiKey)

	resp, err := k.client.Do(req)
	if err != nil {
		return "", true, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		return "", true, fmt.Errorf("submit http %d", resp.StatusCode)
	}
	if resp.StatusCode >= 300 {
		return "", false, fmt.Errorf("%w: submit http %d", domain.ErrSubmissionRejected, resp.StatusCode)
	}

	var out struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
		Data struct {
			TaskID string `json:"taskId"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", true, err
	}
	if out.Code != 200 {
		return "", false, fmt.Errorf("%w: %s", domain.ErrSubmissionRejected, out.Msg)
	}
	if out.Data.TaskID == "" {
		return "", false, fmt.Errorf("%w: no task id returned", domain.ErrSubmissionRejected)
	}
	return out.Data.TaskID, false, nil
}

func (k *KieClient) Poll(ctx context.Context, taskID string) (adapter.PollResult, error) {
	start := time.Now()
	res, err := k.poll(ctx, taskID)
	metrics.ObserveVideoGenCall("poll", int(time.Since(start).Milliseconds()), err == nil)
	return res, err
}

func (k *KieClient) poll(ctx context.Context, taskID string) (adapter.PollResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		k.baseURL+"/record-info?taskId="+taskID, nil)
	if err != nil {
		return adapter.PollResult{}, err
	}
	req.Header.Set("Authorization", "Bearer "+k.apiKey)

	resp, err := k.client.Do(req)
	if err != nil {
		return adapter.PollResult{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return adapter.PollResult{}, fmt.Errorf("poll http %d", resp.StatusCode)
	}

	var out struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
		Data struct {
			SuccessFlag  int    `json:"successFlag"`
			ErrorMessage string `json:"errorMessage"`
			Response     struct {
				ResultUrls []string `json:"resultUrls"`
			} `json:"response"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return adapter.PollResult{}, err
	}
	if out.Code != 200 {
		return adapter.PollResult{}, fmt.Errorf("poll api error: %s", out.Msg)
	}

	switch out.Data.SuccessFlag {
	case 1:
		if len(out.Data.Response.ResultUrls) == 0 {
			return adapter.PollResult{
				Status: adapter.GenerationFailed,
				Error:  "task succeeded but returned no result url",
			}, nil
		}
		return adapter.PollResult{
			Status:    adapter.GenerationSuccess,
			ResultURL: out.Data.Response.ResultUrls[0],
		}, nil
	case 2, 3:
		msg := out.Data.ErrorMessage
		if msg == "" {
			msg = "generation failed"
		}
		return adapter.PollResult{Status: adapter.GenerationFailed, Error: msg}, nil
	default:
		return adapter.PollResult{Status: adapter.GenerationProcessing}, nil
	}
}

// Fetch streams the produced clip to destPath. A partial download is removed
// so a later retry never finds a truncated file.
func (k *KieClient) Fetch(ctx context.Context, resultURL, destPath string) error {
	start := time.Now()
	err := k.fetch(ctx, resultURL, destPath)
	metrics.ObserveVideoGenCall("fetch", int(time.Since(start).Milliseconds()), err == nil)
	return err
}

func (k *KieClient) fetch(ctx context.Context, resultURL, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resultURL, nil)
	if err != nil {
		return err
	}

	// Downloads run much longer than API calls.
	dlClient := &http.Client{Timeout: 2 * time.Minute}
	resp, err := dlClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDownloadFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: http %d", domain.ErrDownloadFailed, resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(destPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(destPath)
		return fmt.Errorf("%w: %v", domain.ErrDownloadFailed, err)
	}
	return f.Close()
}
