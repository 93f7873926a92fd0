package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/lumpiluk/photo-editing-analysis/models"
)

// ExifTool extracts metadata by invoking the external exiftool binary
// once per batch. -G qualifies tag names with their group
// ("EXIF:FocalLength"), -n keeps numeric tags numeric, -fast2 skips
// the slow trailer scan on raw files.
type ExifTool struct {
	Bin string
}

func NewExifTool() *ExifTool {
	return &ExifTool{Bin: "exiftool"}
}

// Available reports whether the binary can be found in PATH.
func (e *ExifTool) Available() bool {
	_, err := exec.LookPath(e.Bin)
	return err == nil
}

func (e *ExifTool) Extract(ctx context.Context, paths []string) (map[string]models.Tags, error) {
	if len(paths) == 0 {
		return map[string]models.Tags{}, nil
	}

	args := append([]string{"-json", "-G", "-n", "-fast2"}, paths...)
	cmd := exec.CommandContext(ctx, e.Bin, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = os.Stderr

	// exiftool exits non-zero when any file in the batch fails but
	// still prints results for the rest; keep whatever we got.
	if err := cmd.Run(); err != nil && out.Len() == 0 {
		return nil, fmt.Errorf("exiftool: %w", err)
	}
	return parseExifToolOutput(out.Bytes())
}

// parseExifToolOutput decodes exiftool's -json output (an array of
// objects, one per file) into a mapping keyed by the cleaned
// SourceFile path, which exiftool echoes as the path it was given.
func parseExifToolOutput(data []byte) (map[string]models.Tags, error) {
	var entries []map[string]any
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse exiftool output: %w", err)
	}

	result := make(map[string]models.Tags, len(entries))
	for _, entry := range entries {
		src, _ := entry["SourceFile"].(string)
		if src == "" {
			continue
		}
		tags := make(models.Tags, len(entry))
		for k, v := range entry {
			if k == "SourceFile" {
				continue
			}
			tags[k] = v
		}
		result[filepath.Clean(src)] = tags
	}
	return result, nil
}
