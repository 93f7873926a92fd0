package models

// PlotsConfig maps each built-in plot kind to its output file path.
// An empty path means the plot is not requested.
type PlotsConfig struct {
	Delta         string `mapstructure:"delta"`
	Sessions      string `mapstructure:"sessions"`
	HourOfDay     string `mapstructure:"hour_of_day"`
	FocalLengths  string `mapstructure:"focal_lengths"`
	Focal35       string `mapstructure:"focal_lengths_full_frame"`
	ExposureTimes string `mapstructure:"exposure_times"`
	Apertures     string `mapstructure:"apertures"`
	ISOs          string `mapstructure:"isos"`
	LightValues   string `mapstructure:"light_values"`
	CropFactors   string `mapstructure:"crop_factors"`
}

// CustomPlot is a user-supplied metadata plot: output file, qualified
// tag name, and x-axis label.
type CustomPlot struct {
	Out   string `mapstructure:"out"`
	Tag   string `mapstructure:"tag"`
	Label string `mapstructure:"label"`
}

type AppConfig struct {
	Folders         []string     `mapstructure:"folders"`
	RawGlob         string       `mapstructure:"raw_files_glob"`
	EditedGlob      string       `mapstructure:"edited_files_glob"`
	CompareFolders  string       `mapstructure:"compare_folders"` // "", "raw" or "edited"
	FolderLabels    []string     `mapstructure:"folder_labels"`
	CacheMetadata   bool         `mapstructure:"cache_metadata"`
	NaNIfMissing    bool         `mapstructure:"nan_if_missing"`
	TimestampSource string       `mapstructure:"timestamp_source"` // "mtime" or "exif"
	Extractor       string       `mapstructure:"extractor"`        // "exiftool" or "native"
	HistoryDB       string       `mapstructure:"history_db"`
	Plots           PlotsConfig  `mapstructure:"plots"`
	CustomPlots     []CustomPlot `mapstructure:"custom_plots"`
}
