package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/lumpiluk/photo-editing-analysis/app"
	"github.com/lumpiluk/photo-editing-analysis/models"
)

// stringList collects a repeatable flag.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	var (
		configPath = flag.String("config", "", "Optional YAML config file; flags override its values")

		deltaPlot     = flag.String("delta-plot", "", "Output file for the time-between-photos plot")
		sessionsPlot  = flag.String("sessions-plot", "", "Output file for the session durations plot")
		hourOfDayPlot = flag.String("hour-of-day-plot", "", "Output file for the hour-of-day histogram")
		focalPlot     = flag.String("focal-lengths-plot", "", "Output file for the focal length plot")
		focal35Plot   = flag.String("focal-35-plot", "", "Output file for the 35 mm equivalent focal length plot")
		exposurePlot  = flag.String("exposure-times-plot", "", "Output file for the exposure time plot")
		aperturesPlot = flag.String("apertures-plot", "", "Output file for the aperture plot")
		isosPlot      = flag.String("isos-plot", "", "Output file for the ISO plot")
		lightPlot     = flag.String("light-values-plot", "", "Output file for the light value plot")
		cropPlot      = flag.String("crop-factors-plot", "", "Output file for the crop factor plot")

		rawGlob    = flag.String("raw-files-glob", "", "Glob for raw files within each folder (default "+app.DefaultRawGlob+"); quote it so the shell does not expand it")
		editedGlob = flag.String("edited-files-glob", "", "Glob for edited files within each folder (default "+app.DefaultEditedGlob+")")

		compareFolders = flag.String("compare-folders", "", "Compare folders instead of raw vs. edited: \"raw\" or \"edited\"")
		cacheMetadata  = flag.Bool("cache-metadata", false, "Persist extracted metadata as a JSON file inside each folder")
		nanIfMissing   = flag.Bool("nan-if-missing", false, "Keep a NaN placeholder for files without the plotted tag instead of dropping them")
		tsSource       = flag.String("timestamp-source", "", "Timestamp source: \"mtime\" (default) or \"exif\"")
		extractor      = flag.String("extractor", "", "Metadata extractor: \"exiftool\" (default) or \"native\"")

		historyDB   = flag.String("history-db", "", "SQLite file recording a summary of each run")
		showHistory = flag.Bool("show-history", false, "Print recent runs from -history-db and exit")

		folderLabels stringList
		customPlots  stringList
		customTags   stringList
		customLabels stringList
	)
	flag.Var(&folderLabels, "folder-label", "Legend label for one folder; repeat once per folder (with -compare-folders)")
	flag.Var(&customPlots, "custom-plot", "Output file for a custom metadata plot; repeatable, needs matching -custom-tag and -custom-label")
	flag.Var(&customTags, "custom-tag", "Qualified tag name for a custom plot, e.g. EXIF:LensModel")
	flag.Var(&customLabels, "custom-label", "X-axis label for a custom plot")
	flag.Usage = usage
	flag.Parse()

	cfg := &models.AppConfig{}
	if *configPath != "" {
		loaded, err := app.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("error: load config: %v", err)
		}
		cfg = loaded
	}

	// Flags that were set on the command line win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "delta-plot":
			cfg.Plots.Delta = *deltaPlot
		case "sessions-plot":
			cfg.Plots.Sessions = *sessionsPlot
		case "hour-of-day-plot":
			cfg.Plots.HourOfDay = *hourOfDayPlot
		case "focal-lengths-plot":
			cfg.Plots.FocalLengths = *focalPlot
		case "focal-35-plot":
			cfg.Plots.Focal35 = *focal35Plot
		case "exposure-times-plot":
			cfg.Plots.ExposureTimes = *exposurePlot
		case "apertures-plot":
			cfg.Plots.Apertures = *aperturesPlot
		case "isos-plot":
			cfg.Plots.ISOs = *isosPlot
		case "light-values-plot":
			cfg.Plots.LightValues = *lightPlot
		case "crop-factors-plot":
			cfg.Plots.CropFactors = *cropPlot
		case "raw-files-glob":
			cfg.RawGlob = *rawGlob
		case "edited-files-glob":
			cfg.EditedGlob = *editedGlob
		case "compare-folders":
			cfg.CompareFolders = *compareFolders
		case "folder-label":
			cfg.FolderLabels = folderLabels
		case "cache-metadata":
			cfg.CacheMetadata = *cacheMetadata
		case "nan-if-missing":
			cfg.NaNIfMissing = *nanIfMissing
		case "timestamp-source":
			cfg.TimestampSource = *tsSource
		case "extractor":
			cfg.Extractor = *extractor
		case "history-db":
			cfg.HistoryDB = *historyDB
		}
	})
	if len(customPlots)+len(customTags)+len(customLabels) > 0 {
		zipped, err := app.ZipCustomPlots(customPlots, customTags, customLabels)
		if err != nil {
			log.Fatalf("error: %v", err)
		}
		cfg.CustomPlots = zipped
	}
	cfg.Folders = append(cfg.Folders, flag.Args()...)

	if *showHistory {
		if cfg.HistoryDB == "" {
			log.Fatalf("error: -show-history needs -history-db")
		}
		if err := app.PrintHistory(cfg.HistoryDB, 20); err != nil {
			log.Fatalf("error: %v", err)
		}
		return
	}

	if err := app.Run(context.Background(), cfg); err != nil {
		log.Fatalf("error: %v", err)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `photostat - analyze and plot metrics for your photo collections

Usage: photostat [flags] folder [folder...]

Each folder is expected to contain raw files and edited images, as
selected by -raw-files-glob and -edited-files-glob. Every requested
plot is written as an ECDF (or histogram) to the given file; the
format follows the file extension (.png, .svg, .pdf, ...).

Flags:
`)
	flag.PrintDefaults()
}
