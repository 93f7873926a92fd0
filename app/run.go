package app

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/lumpiluk/photo-editing-analysis/models"
	"github.com/lumpiluk/photo-editing-analysis/plots"
)

// Run executes one full analysis: validate, collect files, obtain
// timestamps and metadata, render every requested plot, record the run
// summary. Per-file problems are skipped with a warning; configuration
// problems and groups without plottable data abort before any plot
// file is written.
func Run(ctx context.Context, cfg *models.AppConfig) error {
	ApplyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return err
	}

	var ex models.Extractor
	if needsMetadata(cfg) {
		var err error
		ex, err = newExtractor(cfg)
		if err != nil {
			return err
		}
	}

	groups, err := collectGroups(ctx, cfg, ex)
	if err != nil {
		return err
	}

	if err := renderPlots(cfg, groups); err != nil {
		return err
	}

	if cfg.HistoryDB != "" {
		history, err := OpenHistory(cfg.HistoryDB)
		if err != nil {
			return err
		}
		defer history.Close()
		if err := history.Record(Summarize(groups)); err != nil {
			return err
		}
	}
	return nil
}

func newExtractor(cfg *models.AppConfig) (models.Extractor, error) {
	switch cfg.Extractor {
	case ExtractorNative:
		return NativeExtractor{}, nil
	default:
		et := NewExifTool()
		if !et.Available() {
			return nil, fmt.Errorf(
				"exiftool not found in PATH; install it or use -extractor native")
		}
		return et, nil
	}
}

// collectGroups builds the groups to compare: one per folder when
// -compare-folders is active, otherwise raw vs. edited aggregated over
// all folders.
func collectGroups(ctx context.Context, cfg *models.AppConfig, ex models.Extractor) ([]models.Group, error) {
	if cfg.CompareFolders != "" {
		class := models.Class(cfg.CompareFolders)
		pattern := cfg.RawGlob
		if class == models.ClassEdited {
			pattern = cfg.EditedGlob
		}

		groups := make([]models.Group, 0, len(cfg.Folders))
		for i, folder := range cfg.Folders {
			records, err := folderRecords(ctx, cfg, ex, folder, class, pattern)
			if err != nil {
				return nil, err
			}
			groups = append(groups, models.Group{
				Label:   cfg.FolderLabels[i],
				Class:   class,
				Folder:  folder,
				Records: records,
			})
		}
		return groups, nil
	}

	raw := models.Group{Label: "Raw photos", Class: models.ClassRaw}
	edited := models.Group{Label: "Edited photos", Class: models.ClassEdited}
	for _, folder := range cfg.Folders {
		r, err := folderRecords(ctx, cfg, ex, folder, models.ClassRaw, cfg.RawGlob)
		if err != nil {
			return nil, err
		}
		raw.Records = append(raw.Records, r...)

		e, err := folderRecords(ctx, cfg, ex, folder, models.ClassEdited, cfg.EditedGlob)
		if err != nil {
			return nil, err
		}
		edited.Records = append(edited.Records, e...)
	}
	sortGroup(&raw)
	sortGroup(&edited)
	return []models.Group{raw, edited}, nil
}

// folderRecords collects one folder/class and, when an extractor is
// configured, merges its metadata through the per-folder cache.
func folderRecords(ctx context.Context, cfg *models.AppConfig, ex models.Extractor, folder string, class models.Class, pattern string) ([]models.PhotoRecord, error) {
	files, err := CollectFiles(folder, pattern)
	if err != nil {
		return nil, fmt.Errorf("collect %s files in %s: %w", class, folder, err)
	}

	var meta map[string]models.Tags
	if ex != nil {
		cache := LoadCache(folder, class)
		meta, err = cache.Merge(ctx, files, ex)
		if err != nil {
			return nil, fmt.Errorf("metadata for %s files in %s: %w", class, folder, err)
		}
		if cfg.CacheMetadata {
			if err := cache.Save(); err != nil {
				return nil, err
			}
		}
	}

	return BuildRecords(files, meta, cfg.TimestampSource), nil
}

// metadataPlot ties a requested output file to the tag it plots and
// its axis styling.
type metadataPlot struct {
	Out    string
	Tag    string
	XLabel string
	LogX   bool
	Ticks  []float64
	Format func(float64) string
}

func metadataPlotSpecs(cfg *models.AppConfig) []metadataPlot {
	var specs []metadataPlot
	p := cfg.Plots

	if p.FocalLengths != "" {
		specs = append(specs, metadataPlot{
			Out: p.FocalLengths, Tag: "EXIF:FocalLength",
			XLabel: "Focal length in mm",
		})
	}
	if p.Focal35 != "" {
		specs = append(specs, metadataPlot{
			Out: p.Focal35, Tag: "Composite:FocalLength35efl",
			XLabel: "Focal length in mm (35 mm equiv.)",
		})
	}
	if p.ExposureTimes != "" {
		specs = append(specs, metadataPlot{
			Out: p.ExposureTimes, Tag: "EXIF:ExposureTime",
			XLabel: "Exposure time in seconds",
			LogX:   true, Format: plots.FormatFraction,
		})
	}
	if p.Apertures != "" {
		specs = append(specs, metadataPlot{
			Out: p.Apertures, Tag: "EXIF:FNumber",
			XLabel: "Aperture",
			LogX:   true,
			Ticks:  []float64{1, 2, 4, 8, 16},
			Format: plots.FormatAperture,
		})
	}
	if p.ISOs != "" {
		specs = append(specs, metadataPlot{
			Out: p.ISOs, Tag: "EXIF:ISO",
			XLabel: "ISO",
			LogX:   true,
			Ticks:  []float64{100, 400, 1600, 6400, 25600},
			Format: plots.FormatPlain,
		})
	}
	if p.LightValues != "" {
		specs = append(specs, metadataPlot{
			Out: p.LightValues, Tag: "Composite:LightValue",
			XLabel: "Light value (EV at ISO 100)",
		})
	}
	if p.CropFactors != "" {
		specs = append(specs, metadataPlot{
			Out: p.CropFactors, Tag: "Composite:ScaleFactor35efl",
			XLabel: "Scale factor (compared to 35 mm film)",
		})
	}
	for _, c := range cfg.CustomPlots {
		specs = append(specs, metadataPlot{Out: c.Out, Tag: c.Tag, XLabel: c.Label})
	}
	return specs
}

// seriesLabels returns the legend labels for a plot kind. Folder
// comparisons use the user-supplied labels everywhere; the default
// raw-vs-edited mode names each plot's series after what it shows.
func seriesLabels(cfg *models.AppConfig, kind string) []string {
	if cfg.CompareFolders != "" {
		return cfg.FolderLabels
	}
	switch kind {
	case "delta":
		return []string{"Photos shot", "Photos edited"}
	case "sessions":
		return []string{"Photo shoot sessions", "Editing sessions"}
	default:
		return []string{"Raw photos", "Edited photos"}
	}
}

// renderJob is a fully computed, validated plot waiting to be written.
type renderJob struct {
	out    string
	render func() error
}

// renderPlots computes and validates the series of every requested
// plot before writing the first file, so a group without usable data
// never leaves partial output behind.
func renderPlots(cfg *models.AppConfig, groups []models.Group) error {
	jobs, err := planPlots(cfg, groups)
	if err != nil {
		return err
	}
	for _, job := range jobs {
		if err := job.render(); err != nil {
			return fmt.Errorf("%s: %w", job.out, err)
		}
		log.Printf("Wrote %s", job.out)
	}
	return nil
}

func planPlots(cfg *models.AppConfig, groups []models.Group) ([]renderJob, error) {
	var jobs []renderJob

	if out := cfg.Plots.Delta; out != "" {
		labels := seriesLabels(cfg, "delta")
		series := make([]plots.Series, len(groups))
		for i, g := range groups {
			series[i] = plots.Series{Label: labels[i], Values: Deltas(Timestamps(g))}
			if !series[i].HasData() {
				return nil, fmt.Errorf("%s: no photo intervals in group %q", out, labels[i])
			}
		}
		opts := plots.Options{
			XLabel: "Time between photos in seconds",
			XMax:   5 * 60,
		}
		jobs = append(jobs, renderJob{out, func() error {
			return plots.ECDF(series, opts, out)
		}})
	}

	if out := cfg.Plots.Sessions; out != "" {
		labels := seriesLabels(cfg, "sessions")
		series := make([]plots.Series, len(groups))
		note := ""
		for i, g := range groups {
			sessions := Segment(Timestamps(g), DefaultSessionGap)
			durations := SessionDurations(sessions)
			minutes := make([]float64, len(durations))
			total := 0.0
			for j, d := range durations {
				minutes[j] = d / 60
				total += d
			}
			series[i] = plots.Series{Label: labels[i], Values: minutes}
			if !series[i].HasData() {
				return nil, fmt.Errorf("%s: no sessions in group %q", out, labels[i])
			}
			if note != "" {
				note += "\n"
			}
			note += fmt.Sprintf("%s total: %d, duration: %.2f hours",
				labels[i], len(sessions), total/3600)
		}
		opts := plots.Options{
			XLabel: "Session duration in minutes",
			Note:   note,
		}
		jobs = append(jobs, renderJob{out, func() error {
			return plots.ECDF(series, opts, out)
		}})
	}

	if out := cfg.Plots.HourOfDay; out != "" {
		labels := seriesLabels(cfg, "metadata")
		series := make([]plots.HourSeries, len(groups))
		for i, g := range groups {
			if len(g.Records) == 0 {
				return nil, fmt.Errorf("%s: no files in group %q", out, labels[i])
			}
			series[i] = plots.HourSeries{
				Label:  labels[i],
				Counts: HourCounts(HoursOfDay(g.Records)),
			}
		}
		jobs = append(jobs, renderJob{out, func() error {
			return plots.HourHistogram(series, out)
		}})
	}

	labels := seriesLabels(cfg, "metadata")
	for _, spec := range metadataPlotSpecs(cfg) {
		series := make([]plots.Series, len(groups))
		for i, g := range groups {
			values := MetadataSeries(g.Records, spec.Tag, cfg.NaNIfMissing)
			series[i] = plots.Series{Label: labels[i], Values: values}
			if !series[i].HasData() {
				return nil, fmt.Errorf("%s: no %q values in group %q", spec.Out, spec.Tag, labels[i])
			}
		}
		opts := plots.Options{
			XLabel:     spec.XLabel,
			LogX:       spec.LogX,
			XTicks:     spec.Ticks,
			TickFormat: spec.Format,
		}
		out := spec.Out
		jobs = append(jobs, renderJob{out, func() error {
			return plots.ECDF(series, opts, out)
		}})
	}
	return jobs, nil
}

func sortGroup(g *models.Group) {
	// Aggregating over folders interleaves timestamps; restore order.
	sort.Slice(g.Records, func(i, j int) bool {
		return g.Records[i].Timestamp < g.Records[j].Timestamp
	})
}
