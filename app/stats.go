package app

import (
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/lumpiluk/photo-editing-analysis/models"
)

// Timestamps returns the timestamps of a group's records. Records are
// sorted by timestamp when groups are built, so the result is
// ascending.
func Timestamps(g models.Group) []float64 {
	ts := make([]float64, len(g.Records))
	for i, r := range g.Records {
		ts[i] = r.Timestamp
	}
	return ts
}

// Deltas returns the consecutive differences of a sorted timestamp
// sequence. Differences are taken over the full sequence, session
// boundaries included.
func Deltas(sorted []float64) []float64 {
	if len(sorted) < 2 {
		return nil
	}
	deltas := make([]float64, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		deltas[i-1] = sorted[i] - sorted[i-1]
	}
	return deltas
}

// HoursOfDay returns the local-time hour (0-23) of each record's
// timestamp.
func HoursOfDay(records []models.PhotoRecord) []int {
	hours := make([]int, len(records))
	for i, r := range records {
		hours[i] = time.Unix(int64(r.Timestamp), 0).Hour()
	}
	return hours
}

// HourCounts buckets hours into a 24-slot count distribution.
func HourCounts(hours []int) [24]int {
	var counts [24]int
	for _, h := range hours {
		counts[h]++
	}
	return counts
}

// MetadataSeries extracts the named tag from each record as a float64.
// Records without a usable value are dropped with a warning, or kept
// as a NaN sentinel when nanIfMissing is set.
func MetadataSeries(records []models.PhotoRecord, tag string, nanIfMissing bool) []float64 {
	var out []float64
	for _, r := range records {
		if v, ok := r.Tags[tag]; ok {
			if f, ok := CoerceNumber(v); ok {
				out = append(out, f)
				continue
			}
		}
		if nanIfMissing {
			out = append(out, math.NaN())
			continue
		}
		log.Printf("Warning: %s: no usable %q tag, dropping from series", r.Path, tag)
	}
	return out
}

// CoerceNumber converts an extracted tag value to float64. Numeric
// tags arrive as JSON numbers (float64 after a cache round trip);
// string-typed tags may be rationals like "1/250" or carry a unit
// suffix like "50.0 mm".
func CoerceNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		s := strings.TrimSpace(x)
		if num, den, found := strings.Cut(s, "/"); found {
			n, errN := strconv.ParseFloat(strings.TrimSpace(num), 64)
			d, errD := strconv.ParseFloat(strings.TrimSpace(den), 64)
			if errN == nil && errD == nil && d != 0 {
				return n / d, true
			}
			return 0, false
		}
		if i := strings.IndexByte(s, ' '); i > 0 {
			s = s[:i]
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Summarize condenses groups into the per-run record kept in the
// history database.
func Summarize(groups []models.Group) models.RunSummary {
	summary := models.RunSummary{}
	for _, g := range groups {
		sessions := Segment(Timestamps(g), DefaultSessionGap)
		total := 0.0
		for _, s := range sessions {
			total += s.Duration()
		}
		summary.Groups = append(summary.Groups, models.GroupSummary{
			Label:            g.Label,
			FileCount:        len(g.Records),
			SessionCount:     len(sessions),
			TotalDurationSec: total,
		})
	}
	return summary
}
