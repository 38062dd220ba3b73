// File: internal/infra/media/merger.go
package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"tripreel/internal/domain"
)

const ffmpegCommand = "ffmpeg"

type commandRunner func(ctx context.Context, name string, args ...string) error

// Merger concatenates per-day clips into the final travel video using the
// ffmpeg concat demuxer. All clips come from the same capability with the same
// codec settings, so stream copy is enough and no re-encode happens.
type Merger struct {
	logger zerolog.Logger
	run    commandRunner
}

func NewMerger(logger zerolog.Logger) *Merger {
	return &Merger{
		logger: logger.With().Str("component", "merger").Logger(),
		run:    defaultCommandRunner,
	}
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (m *Merger) WithCommandRunner(r commandRunner) {
	if m != nil && r != nil {
		m.run = r
	}
}

// Merge writes the concatenation of clipPaths (in order) to outputPath.
// The operation is atomic: ffmpeg writes a temporary file that is renamed on
// success, so a crash never leaves a half-written final video behind.
func (m *Merger) Merge(ctx context.Context, clipPaths []string, outputPath string) error {
	if len(clipPaths) == 0 {
		return fmt.Errorf("%w: no clips to merge", domain.ErrMergeFailed)
	}
	for _, p := range clipPaths {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("%w: clip not found %q: %v", domain.ErrMergeFailed, p, err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}

	listPath, err := writeConcatList(clipPaths)
	if err != nil {
		return err
	}
	defer os.Remove(listPath)

	dir := filepath.Dir(outputPath)
	base := filepath.Base(outputPath)
	tmpPath := filepath.Join(dir, ".merge-"+base+".tmp.mp4")

	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		tmpPath,
	}

	m.logger.Debug().
		Int("clips", len(clipPaths)).
		Str("output", outputPath).
		Msg("executing ffmpeg concat")

	if err := m.run(ctx, ffmpegCommand, args...); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", domain.ErrMergeFailed, err)
	}
	if _, err := os.Stat(tmpPath); err != nil {
		return fmt.Errorf("%w: ffmpeg produced no output: %v", domain.ErrMergeFailed, err)
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", domain.ErrMergeFailed, err)
	}

	m.logger.Info().
		Int("clips", len(clipPaths)).
		Str("output", outputPath).
		Msg("clips merged")
	return nil
}

// writeConcatList produces the file list the concat demuxer reads. Single
// quotes inside paths are escaped the way ffmpeg expects.
func writeConcatList(clipPaths []string) (string, error) {
	f, err := os.CreateTemp("", "tripreel-concat-*.txt")
	if err != nil {
		return "", err
	}
	for _, p := range clipPaths {
		abs, err := filepath.Abs(p)
		if err != nil {
			f.Close()
			os.Remove(f.Name())
			return "", err
		}
		escaped := strings.ReplaceAll(abs, "'", `'\''`)
		if _, err := fmt.Fprintf(f, "file '%s'\n", escaped); err != nil {
			f.Close()
			os.Remove(f.Name())
			return "", err
		}
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func defaultCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		// Include output in error for debugging
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
