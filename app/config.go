package app

import (
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/viper"

	"github.com/lumpiluk/photo-editing-analysis/models"
)

const (
	TimestampSourceMtime = "mtime"
	TimestampSourceExif  = "exif"

	ExtractorExifTool = "exiftool"
	ExtractorNative   = "native"
)

// LoadConfig reads an optional YAML config file into an AppConfig.
// Flags on the command line override whatever the file sets.
func LoadConfig(path string) (*models.AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg models.AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyDefaults fills the fields the user left empty.
func ApplyDefaults(cfg *models.AppConfig) {
	if cfg.RawGlob == "" {
		cfg.RawGlob = DefaultRawGlob
	}
	if cfg.EditedGlob == "" {
		cfg.EditedGlob = DefaultEditedGlob
	}
	if cfg.TimestampSource == "" {
		cfg.TimestampSource = TimestampSourceMtime
	}
	if cfg.Extractor == "" {
		cfg.Extractor = ExtractorExifTool
	}
}

// ZipCustomPlots aligns the three repeatable custom-plot flags into
// plot definitions. All three must be given the same number of times.
func ZipCustomPlots(outs, tags, labels []string) ([]models.CustomPlot, error) {
	if len(outs) == 0 && len(tags) == 0 && len(labels) == 0 {
		return nil, nil
	}
	if len(outs) != len(tags) || len(outs) != len(labels) {
		return nil, fmt.Errorf(
			"-custom-plot, -custom-tag and -custom-label must be used together "+
				"and the same number of times (got %d, %d and %d)",
			len(outs), len(tags), len(labels))
	}
	plots := make([]models.CustomPlot, len(outs))
	for i := range outs {
		plots[i] = models.CustomPlot{Out: outs[i], Tag: tags[i], Label: labels[i]}
	}
	return plots, nil
}

// Validate fails fast on configuration errors before any collection or
// plotting work starts.
func Validate(cfg *models.AppConfig) error {
	if len(cfg.Folders) == 0 {
		return fmt.Errorf("no input folders given")
	}
	for _, folder := range cfg.Folders {
		info, err := os.Stat(folder)
		if err != nil {
			return fmt.Errorf("the provided folder does not seem to exist: %s", folder)
		}
		if !info.IsDir() {
			return fmt.Errorf("not a directory: %s", folder)
		}
	}

	for _, pattern := range []string{cfg.RawGlob, cfg.EditedGlob} {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid glob pattern: %q", pattern)
		}
	}

	switch cfg.CompareFolders {
	case "", string(models.ClassRaw), string(models.ClassEdited):
	default:
		return fmt.Errorf("-compare-folders must be %q or %q, got %q",
			models.ClassRaw, models.ClassEdited, cfg.CompareFolders)
	}
	if cfg.CompareFolders != "" && len(cfg.FolderLabels) != len(cfg.Folders) {
		return fmt.Errorf(
			"when using -compare-folders, -folder-label must be given once per "+
				"folder (%d labels for %d folders)",
			len(cfg.FolderLabels), len(cfg.Folders))
	}

	switch cfg.TimestampSource {
	case TimestampSourceMtime, TimestampSourceExif:
	default:
		return fmt.Errorf("-timestamp-source must be %q or %q, got %q",
			TimestampSourceMtime, TimestampSourceExif, cfg.TimestampSource)
	}
	switch cfg.Extractor {
	case ExtractorExifTool, ExtractorNative:
	default:
		return fmt.Errorf("-extractor must be %q or %q, got %q",
			ExtractorExifTool, ExtractorNative, cfg.Extractor)
	}

	for _, c := range cfg.CustomPlots {
		if c.Out == "" || c.Tag == "" || c.Label == "" {
			return fmt.Errorf("custom plot needs out, tag and label (got %+v)", c)
		}
	}

	if !anyPlotRequested(cfg) {
		return fmt.Errorf("no plots requested; pass at least one -*-plot flag")
	}
	return nil
}

func anyPlotRequested(cfg *models.AppConfig) bool {
	p := cfg.Plots
	return p.Delta != "" || p.Sessions != "" || p.HourOfDay != "" ||
		p.FocalLengths != "" || p.Focal35 != "" || p.ExposureTimes != "" ||
		p.Apertures != "" || p.ISOs != "" || p.LightValues != "" ||
		p.CropFactors != "" || len(cfg.CustomPlots) > 0
}

// needsMetadata reports whether the run has to invoke an extractor at
// all: either a metadata-derived plot was requested or timestamps come
// from EXIF instead of file mtimes.
func needsMetadata(cfg *models.AppConfig) bool {
	if cfg.TimestampSource == TimestampSourceExif {
		return true
	}
	p := cfg.Plots
	return p.FocalLengths != "" || p.Focal35 != "" || p.ExposureTimes != "" ||
		p.Apertures != "" || p.ISOs != "" || p.LightValues != "" ||
		p.CropFactors != "" || len(cfg.CustomPlots) > 0
}
