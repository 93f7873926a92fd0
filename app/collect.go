package app

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/lumpiluk/photo-editing-analysis/models"
)

// Default glob patterns for the two file classes.
const (
	DefaultRawGlob    = "*.CR3"
	DefaultEditedGlob = "converted*/*.jpg"
)

// exifTimeLayout is how EXIF encodes DateTimeOriginal.
const exifTimeLayout = "2006:01:02 15:04:05"

// CollectFiles walks folder and returns the files whose folder-relative
// path matches pattern. Matching is case-insensitive and the pattern
// may span subdirectories ("converted*/*.jpg"). Unreadable entries are
// skipped with a warning. The result is sorted by path.
func CollectFiles(folder, pattern string) ([]string, error) {
	loweredPattern := strings.ToLower(filepath.ToSlash(pattern))

	var files []string
	err := filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Printf("Warning: skipping %s: %v", path, err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(folder, path)
		if err != nil {
			return nil
		}
		ok, err := doublestar.Match(loweredPattern, strings.ToLower(filepath.ToSlash(rel)))
		if err != nil {
			return err
		}
		if ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// BuildRecords turns collected files into photo records with a
// timestamp from the configured source. meta is keyed by file path
// and may be nil when no extractor ran; files whose timestamp cannot
// be obtained are skipped with a warning. The result is sorted by
// timestamp.
func BuildRecords(files []string, meta map[string]models.Tags, source string) []models.PhotoRecord {
	records := make([]models.PhotoRecord, 0, len(files))
	for _, f := range files {
		var tags models.Tags
		if meta != nil {
			tags = meta[f]
		}

		ts, ok := timestampFor(f, tags, source)
		if !ok {
			continue
		}
		records = append(records, models.PhotoRecord{Path: f, Timestamp: ts, Tags: tags})
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp < records[j].Timestamp
	})
	return records
}

func timestampFor(path string, tags models.Tags, source string) (float64, bool) {
	switch source {
	case TimestampSourceExif:
		ts, ok := exifTimestamp(tags)
		if !ok {
			log.Printf("Warning: %s: no usable EXIF:DateTimeOriginal, skipping file", path)
		}
		return ts, ok
	default: // mtime
		info, err := os.Stat(path)
		if err != nil {
			log.Printf("Warning: cannot stat %s: %v", path, err)
			return 0, false
		}
		return float64(info.ModTime().UnixNano()) / 1e9, true
	}
}

// exifTimestamp parses EXIF:DateTimeOriginal as local time. Trailing
// subseconds or zone offsets some writers append are ignored.
func exifTimestamp(tags models.Tags) (float64, bool) {
	s, _ := tags["EXIF:DateTimeOriginal"].(string)
	if len(s) > len(exifTimeLayout) {
		s = s[:len(exifTimeLayout)]
	}
	t, err := time.ParseInLocation(exifTimeLayout, s, time.Local)
	if err != nil {
		return 0, false
	}
	return float64(t.Unix()), true
}
