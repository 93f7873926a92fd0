package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lumpiluk/photo-editing-analysis/models"
)

// stubExtractor returns canned tags, looked up by full path or base
// filename, and records the batches it was asked to extract.
type stubExtractor struct {
	tags  map[string]models.Tags
	calls [][]string
}

func (s *stubExtractor) Extract(ctx context.Context, paths []string) (map[string]models.Tags, error) {
	s.calls = append(s.calls, append([]string(nil), paths...))

	out := make(map[string]models.Tags, len(paths))
	for _, p := range paths {
		tags, ok := s.tags[filepath.Clean(p)]
		if !ok {
			tags, ok = s.tags[filepath.Base(p)]
		}
		if !ok {
			tags = models.Tags{}
		}
		out[filepath.Clean(p)] = tags
	}
	return out, nil
}

// writePhoto creates a placeholder file with the given mtime, creating
// intermediate directories as needed.
func writePhoto(t *testing.T, dir, name string, mtime time.Time) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("test"), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("failed to set mtime on %s: %v", path, err)
	}
	return path
}

// baseTime is an arbitrary fixed point for mtime-based fixtures.
var baseTime = time.Date(2025, 6, 14, 10, 0, 0, 0, time.Local)
