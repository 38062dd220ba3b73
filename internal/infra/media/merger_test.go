//go:build !integration

package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"tripreel/internal/domain"
)

func writeClip(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte("clip"), 0o644); err != nil {
		t.Fatalf("writing fixture clip: %v", err)
	}
	return p
}

func TestMerger_Merge(t *testing.T) {
	t.Run("builds the concat invocation and renames the temp output", func(t *testing.T) {
		dir := t.TempDir()
		clips := []string{
			writeClip(t, dir, "day_1.mp4"),
			writeClip(t, dir, "day_2.mp4"),
		}
		output := filepath.Join(dir, "final", "video.mp4")

		var gotArgs []string
		m := NewMerger(zerolog.Nop())
		m.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
			if name != "ffmpeg" {
				t.Errorf("expected ffmpeg, got %s", name)
			}
			gotArgs = args
			// Simulate ffmpeg writing the temp output.
			return os.WriteFile(args[len(args)-1], []byte("merged"), 0o644)
		})

		if err := m.Merge(context.Background(), clips, output); err != nil {
			t.Fatalf("Merge failed: %v", err)
		}

		joined := strings.Join(gotArgs, " ")
		if !strings.Contains(joined, "-f concat") || !strings.Contains(joined, "-c copy") {
			t.Errorf("unexpected ffmpeg args: %v", gotArgs)
		}

		got, err := os.ReadFile(output)
		if err != nil {
			t.Fatalf("final output missing: %v", err)
		}
		if string(got) != "merged" {
			t.Errorf("wrong output content: %q", got)
		}

		// The list file index is -i's successor.
		for i, a := range gotArgs {
			if a == "-i" {
				if _, err := os.Stat(gotArgs[i+1]); !errors.Is(err, os.ErrNotExist) {
					t.Errorf("concat list file should be cleaned up")
				}
			}
		}
	})

	t.Run("lists clips in the given order", func(t *testing.T) {
		dir := t.TempDir()
		clips := []string{
			writeClip(t, dir, "day_1.mp4"),
			writeClip(t, dir, "day_2.mp4"),
			writeClip(t, dir, "day_3.mp4"),
		}

		var listContent string
		m := NewMerger(zerolog.Nop())
		m.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
			for i, a := range args {
				if a == "-i" {
					b, err := os.ReadFile(args[i+1])
					if err != nil {
						t.Fatalf("reading concat list: %v", err)
					}
					listContent = string(b)
				}
			}
			return os.WriteFile(args[len(args)-1], nil, 0o644)
		})

		if err := m.Merge(context.Background(), clips, filepath.Join(dir, "out.mp4")); err != nil {
			t.Fatalf("Merge failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(listContent), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected 3 entries, got %d: %q", len(lines), listContent)
		}
		for i, line := range lines {
			if !strings.Contains(line, "day_") || !strings.Contains(line, "mp4") {
				t.Errorf("line %d malformed: %q", i, line)
			}
		}
		if !strings.Contains(lines[0], "day_1") || !strings.Contains(lines[2], "day_3") {
			t.Errorf("clips out of order: %q", listContent)
		}
	})

	t.Run("rejects an empty clip list", func(t *testing.T) {
		m := NewMerger(zerolog.Nop())
		err := m.Merge(context.Background(), nil, filepath.Join(t.TempDir(), "out.mp4"))
		if !errors.Is(err, domain.ErrMergeFailed) {
			t.Fatalf("expected ErrMergeFailed, got %v", err)
		}
	})

	t.Run("rejects a missing clip", func(t *testing.T) {
		m := NewMerger(zerolog.Nop())
		err := m.Merge(context.Background(), []string{"/nope/day_1.mp4"}, filepath.Join(t.TempDir(), "out.mp4"))
		if !errors.Is(err, domain.ErrMergeFailed) {
			t.Fatalf("expected ErrMergeFailed, got %v", err)
		}
	})

	t.Run("cleans up the temp file when ffmpeg fails", func(t *testing.T) {
		dir := t.TempDir()
		clip := writeClip(t, dir, "day_1.mp4")
		output := filepath.Join(dir, "out.mp4")

		m := NewMerger(zerolog.Nop())
		m.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
			os.WriteFile(args[len(args)-1], []byte("partial"), 0o644)
			return errors.New("ffmpeg exploded")
		})

		err := m.Merge(context.Background(), []string{clip}, output)
		if !errors.Is(err, domain.ErrMergeFailed) {
			t.Fatalf("expected ErrMergeFailed, got %v", err)
		}
		entries, _ := os.ReadDir(dir)
		for _, e := range entries {
			if strings.HasPrefix(e.Name(), ".merge-") {
				t.Errorf("temp file left behind: %s", e.Name())
			}
		}
		if _, err := os.Stat(output); !errors.Is(err, os.ErrNotExist) {
			t.Error("final output must not exist after failure")
		}
	})
}
