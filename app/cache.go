package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/lumpiluk/photo-editing-analysis/models"
)

// CacheFileName is the fixed name of the per-folder metadata cache for
// a class, stored inside the analyzed folder itself.
func CacheFileName(class models.Class) string {
	if class == models.ClassRaw {
		return "metadata_raw.json"
	}
	return "metadata_edited.json"
}

// MetadataCache is the path-to-tags mapping persisted beside the
// photos of one folder/class. Entries are keyed by folder-relative
// slash path, so edited files with the same name in different
// converted* subdirectories stay distinct. Concurrent runs against the
// same folder are unsupported; the last writer wins.
type MetadataCache struct {
	folder  string
	path    string
	entries map[string]models.Tags
}

// LoadCache reads the cache file for folder/class if it exists. A
// missing or malformed file yields an empty cache, never an error.
func LoadCache(folder string, class models.Class) *MetadataCache {
	c := &MetadataCache{
		folder:  folder,
		path:    filepath.Join(folder, CacheFileName(class)),
		entries: make(map[string]models.Tags),
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		return c
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		log.Printf("Warning: ignoring malformed cache %s: %v", c.path, err)
		c.entries = make(map[string]models.Tags)
	}
	return c
}

// Merge reconciles the cache with the current folder contents: files
// without a cache entry are extracted and added, entries whose file is
// gone are dropped. The returned mapping is the merged state, keyed by
// the files' paths as given. Merging the same file set twice is a
// no-op.
func (c *MetadataCache) Merge(ctx context.Context, files []string, ex models.Extractor) (map[string]models.Tags, error) {
	valid := make(map[string]bool, len(files))
	var missing []string
	for _, f := range files {
		key := c.relKey(f)
		valid[key] = true
		if _, ok := c.entries[key]; !ok {
			missing = append(missing, f)
		}
	}

	if len(missing) > 0 {
		extracted, err := ex.Extract(ctx, missing)
		if err != nil {
			return nil, fmt.Errorf("extract metadata: %w", err)
		}
		for _, f := range missing {
			if tags, ok := extracted[filepath.Clean(f)]; ok {
				c.entries[c.relKey(f)] = tags
			}
		}
	}

	for key := range c.entries {
		if !valid[key] {
			delete(c.entries, key)
		}
	}

	merged := make(map[string]models.Tags, len(files))
	for _, f := range files {
		if tags, ok := c.entries[c.relKey(f)]; ok {
			merged[f] = tags
		}
	}
	return merged, nil
}

// relKey is the cache key for a collected file: its path relative to
// the cached folder, in slash form.
func (c *MetadataCache) relKey(path string) string {
	rel, err := filepath.Rel(c.folder, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// Save overwrites the cache file with the merged mapping. Keys are
// emitted sorted, so identical states serialize identically.
func (c *MetadataCache) Save() error {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	return nil
}

// Path returns the cache file location.
func (c *MetadataCache) Path() string {
	return c.path
}
