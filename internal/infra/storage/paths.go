// File: internal/infra/storage/paths.go
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"tripreel/internal/config"
)

// Layout maps job artifacts onto the local filesystem:
//
//	uploads/<file>            user photos received over the API
//	clips/<jobID>/day_N.mp4   per-day clips while a job runs
//	videos/<jobID>.mp4        merged final videos
type Layout struct {
	uploadsDir string
	clipsDir   string
	videosDir  string
}

func NewLayout(cfg *config.StorageConfig) *Layout {
	return &Layout{
		uploadsDir: cfg.UploadsDir,
		clipsDir:   cfg.ClipsDir,
		videosDir:  cfg.VideosDir,
	}
}

// EnsureDirs creates the top-level directories at startup.
func (l *Layout) EnsureDirs() error {
	for _, dir := range []string{l.uploadsDir, l.clipsDir, l.videosDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create storage dir %q: %w", dir, err)
		}
	}
	return nil
}

func (l *Layout) UploadsDir() string { return l.uploadsDir }

func (l *Layout) VideosDir() string { return l.videosDir }

func (l *Layout) UploadPath(filename string) string {
	// Never trust a client-supplied path component.
	return filepath.Join(l.uploadsDir, filepath.Base(filename))
}

func (l *Layout) JobClipDir(jobID string) string {
	return filepath.Join(l.clipsDir, jobID)
}

func (l *Layout) DayClipPath(jobID string, dayNumber int) string {
	return filepath.Join(l.clipsDir, jobID, fmt.Sprintf("day_%d.mp4", dayNumber))
}

func (l *Layout) FinalVideoPath(jobID string) string {
	return filepath.Join(l.videosDir, jobID+".mp4")
}
