// Package plots renders value series as empirical CDFs or histograms
// and writes them to vector or raster files; the format follows the
// output file extension.
package plots

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Series is one labeled value collection, drawn in its own color.
type Series struct {
	Label  string
	Values []float64
}

// HasData reports whether the series holds at least one finite value,
// i.e. whether ECDF would draw a curve for it.
func (s Series) HasData() bool {
	for _, v := range s.Values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

// Options controls the axes of an ECDF plot.
type Options struct {
	XLabel string
	// XMax > 0 caps the x axis (the delta plot cuts off at 300 s so
	// the within-session distribution stays readable).
	XMax float64
	// LogX switches the x axis to a log scale, for tags spanning
	// orders of magnitude (exposure time, aperture, ISO).
	LogX bool
	// XTicks places ticks at fixed values instead of the automatic
	// ones.
	XTicks []float64
	// TickFormat renders tick labels, e.g. exposure times as "1/250".
	TickFormat func(float64) string
	// Note is an extra line of text above the plot, used for the
	// per-group session totals.
	Note string
}

// Standard plot size, in the spirit of a small paper figure.
const (
	plotWidth  = 4 * vg.Inch
	plotHeight = 3 * vg.Inch
)

// ECDF renders one empirical cumulative distribution step curve per
// series. Non-finite values (the NaN missing-value sentinel) are
// excluded from the curve; their count is appended to the legend
// label. A series without any finite value is an error.
func ECDF(series []Series, opts Options, outPath string) error {
	p := plot.New()
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = "Proportion"
	p.Y.Min, p.Y.Max = 0, 1
	p.Title.Text = opts.Note

	if opts.LogX {
		p.X.Scale = plot.LogScale{}
		p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	if len(opts.XTicks) > 0 {
		p.X.Tick.Marker = plot.ConstantTicks(constantTicks(opts.XTicks, opts.TickFormat))
	} else if opts.TickFormat != nil {
		p.X.Tick.Marker = formattedTicker{base: p.X.Tick.Marker, format: opts.TickFormat}
	}

	minPositive := math.Inf(1)
	for i, s := range series {
		values := finiteSorted(s.Values)
		if len(values) == 0 {
			return fmt.Errorf("series %q has no values to plot", s.Label)
		}
		if values[0] > 0 && values[0] < minPositive {
			minPositive = values[0]
		}

		line, err := plotter.NewLine(ecdfPoints(values))
		if err != nil {
			return fmt.Errorf("plot series %q: %w", s.Label, err)
		}
		line.StepStyle = plotter.PostStep
		line.Color = plotutil.Color(i)
		p.Add(line)

		label := s.Label
		if missing := len(s.Values) - len(values); missing > 0 {
			label = fmt.Sprintf("%s (%d missing)", label, missing)
		}
		p.Legend.Add(label, line)
	}

	if opts.XMax > 0 {
		p.X.Min = 0
		p.X.Max = opts.XMax
	}
	if opts.LogX && !math.IsInf(minPositive, 1) {
		// A log axis cannot start at zero.
		p.X.Min = minPositive
	}

	if err := p.Save(plotWidth, plotHeight, outPath); err != nil {
		return fmt.Errorf("save plot %s: %w", outPath, err)
	}
	return nil
}

// HourSeries is a per-hour count distribution for one group.
type HourSeries struct {
	Label  string
	Counts [24]int
}

// HourHistogram renders grouped bars over the 24 hours of the day.
func HourHistogram(series []HourSeries, outPath string) error {
	if len(series) == 0 {
		return fmt.Errorf("no series to plot")
	}

	p := plot.New()
	p.X.Label.Text = "Hour of day"
	p.Y.Label.Text = "Number of photos"

	barWidth := vg.Points(10) / vg.Length(len(series))
	for i, s := range series {
		values := make(plotter.Values, len(s.Counts))
		for h, c := range s.Counts {
			values[h] = float64(c)
		}
		bars, err := plotter.NewBarChart(values, barWidth)
		if err != nil {
			return fmt.Errorf("plot series %q: %w", s.Label, err)
		}
		bars.LineStyle.Width = 0
		bars.Color = plotutil.Color(i)
		bars.Offset = barWidth*vg.Length(i) - barWidth*vg.Length(len(series)-1)/2
		p.Add(bars)
		p.Legend.Add(s.Label, bars)
	}
	p.Legend.Top = true

	// Label every second hour to keep the axis readable.
	names := make([]string, 24)
	for h := 0; h < 24; h += 2 {
		names[h] = strconv.Itoa(h)
	}
	p.NominalX(names...)

	if err := p.Save(plotWidth, plotHeight, outPath); err != nil {
		return fmt.Errorf("save plot %s: %w", outPath, err)
	}
	return nil
}

// FormatFraction renders sub-second exposure times the way
// photographers read them: "1/250" below one second, "2s" above.
func FormatFraction(v float64) string {
	switch {
	case v <= 0:
		return "0"
	case v < 1:
		return fmt.Sprintf("1/%.0f", math.Round(1/v))
	case v == math.Trunc(v):
		return fmt.Sprintf("%ds", int(v))
	default:
		return fmt.Sprintf("%.1fs", v)
	}
}

// FormatAperture renders f-numbers as f-stops.
func FormatAperture(v float64) string {
	return fmt.Sprintf("f/%g", v)
}

// FormatPlain renders tick values without scientific notation, for
// ISO values like 6400.
func FormatPlain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ecdfPoints maps finite, ascending values to their step points: the
// i-th point is (values[i], (i+1)/n), so the proportion climbs to
// exactly 1 at the largest value.
func ecdfPoints(values []float64) plotter.XYs {
	pts := make(plotter.XYs, len(values))
	n := float64(len(values))
	for i, v := range values {
		pts[i] = plotter.XY{X: v, Y: float64(i+1) / n}
	}
	return pts
}

func finiteSorted(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}

func constantTicks(values []float64, format func(float64) string) []plot.Tick {
	if format == nil {
		format = FormatPlain
	}
	ticks := make([]plot.Tick, len(values))
	for i, v := range values {
		ticks[i] = plot.Tick{Value: v, Label: format(v)}
	}
	return ticks
}

// formattedTicker keeps the base ticker's tick placement but rewrites
// the labels.
type formattedTicker struct {
	base   plot.Ticker
	format func(float64) string
}

func (t formattedTicker) Ticks(min, max float64) []plot.Tick {
	ticks := t.base.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = t.format(ticks[i].Value)
		}
	}
	return ticks
}
