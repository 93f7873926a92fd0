package app

import (
	"context"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/lumpiluk/photo-editing-analysis/models"
)

// NativeExtractor decodes EXIF in-process. It only understands the
// JPEG/TIFF containers goexif supports and a fixed tag set, but needs
// no external binary. Composite tags that exiftool would compute
// (LightValue, FocalLength35efl, ScaleFactor35efl) are derived here so
// the same plot definitions work with either extractor.
type NativeExtractor struct{}

func (NativeExtractor) Extract(ctx context.Context, paths []string) (map[string]models.Tags, error) {
	result := make(map[string]models.Tags, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tags, err := decodeNative(p)
		if err != nil {
			log.Printf("Warning: no EXIF metadata in %s: %v", p, err)
			tags = models.Tags{}
		}
		result[filepath.Clean(p)] = tags
	}
	return result, nil
}

func decodeNative(path string) (models.Tags, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return nil, err
	}

	tags := models.Tags{}
	if dt, err := x.DateTime(); err == nil {
		tags["EXIF:DateTimeOriginal"] = dt.Format(exifTimeLayout)
	}

	fNumber, okF := ratTag(x, exif.FNumber)
	if okF {
		tags["EXIF:FNumber"] = fNumber
	}
	expTime, okT := ratTag(x, exif.ExposureTime)
	if okT {
		tags["EXIF:ExposureTime"] = expTime
	}
	iso, okI := intTag(x, exif.ISOSpeedRatings)
	if okI {
		tags["EXIF:ISO"] = iso
	}
	focal, okFL := ratTag(x, exif.FocalLength)
	if okFL {
		tags["EXIF:FocalLength"] = focal
	}
	if focal35, ok := intTag(x, exif.FocalLengthIn35mmFilm); ok && focal35 > 0 {
		tags["Composite:FocalLength35efl"] = focal35
		if okFL && focal > 0 {
			tags["Composite:ScaleFactor35efl"] = focal35 / focal
		}
	}

	// lv = 2*log2(N) - log2(t) - log2(ISO/100), per the common EXIF
	// composite-tag convention.
	if okF && okT && okI && fNumber > 0 && expTime > 0 && iso > 0 {
		lv := 2*math.Log2(fNumber) - math.Log2(expTime) - math.Log2(iso/100)
		tags["Composite:LightValue"] = lv
	}
	return tags, nil
}

func ratTag(x *exif.Exif, field exif.FieldName) (float64, bool) {
	tag, err := x.Get(field)
	if err != nil {
		return 0, false
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		return 0, false
	}
	return float64(num) / float64(den), true
}

func intTag(x *exif.Exif, field exif.FieldName) (float64, bool) {
	tag, err := x.Get(field)
	if err != nil {
		return 0, false
	}
	v, err := tag.Int(0)
	if err != nil {
		return 0, false
	}
	return float64(v), true
}
