package models

import "context"

// Tags holds the extracted metadata of a single photo, keyed by
// qualified tag name, e.g. "EXIF:FocalLength" or "Composite:LightValue".
// Values are whatever the extractor produced (numbers or strings).
type Tags map[string]any

// PhotoRecord is one discovered file: its path, its timestamp in unix
// seconds, and the metadata tags if an extractor ran. Immutable after
// creation.
type PhotoRecord struct {
	Path      string
	Timestamp float64
	Tags      Tags
}

// Class separates unprocessed camera output from exported images.
type Class string

const (
	ClassRaw    Class = "raw"
	ClassEdited Class = "edited"
)

// Group is a named collection of records that is plotted as one series.
// Folder is empty for groups aggregated over all input folders.
type Group struct {
	Label   string
	Class   Class
	Folder  string
	Records []PhotoRecord
}

// Extractor obtains metadata for a batch of files, keyed by the
// cleaned input path. A file that cannot be read must not fail the
// whole batch; it either gets an empty tag map or no entry at all.
type Extractor interface {
	Extract(ctx context.Context, paths []string) (map[string]Tags, error)
}
