// Package chart renders the series of a sweep.Analysis with gonum/plot.
//
// It only draws: every value it plots has already been computed by package
// sweep. One two-panel chart is written per benchmark, plus a chart of the
// cross-benchmark average and one comparing sets-dominant with
// assoc-dominant configurations at equal capacity.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/inference-sim/cachesweep/sweep"
)

// ValidFormats is the set of supported image formats.
var ValidFormats = map[string]bool{"png": true, "svg": true}

var optimumColor = color.RGBA{R: 220, G: 20, B: 60, A: 255}

// Renderer writes chart files into OutputDir.
type Renderer struct {
	OutputDir string
	Width     vg.Length // size of one chart; two-panel charts are twice as wide
	Height    vg.Length
	Format    string // "png" or "svg"
}

// NewRenderer returns a renderer with sizes given in inches.
func NewRenderer(outputDir string, widthIn, heightIn float64, format string) (*Renderer, error) {
	if !ValidFormats[format] {
		return nil, fmt.Errorf("unknown chart format %q", format)
	}
	if widthIn <= 0 || heightIn <= 0 {
		return nil, fmt.Errorf("chart size must be positive, got %vx%v", widthIn, heightIn)
	}
	return &Renderer{
		OutputDir: outputDir,
		Width:     vg.Length(widthIn) * vg.Inch,
		Height:    vg.Length(heightIn) * vg.Inch,
		Format:    format,
	}, nil
}

// RenderAll writes every chart for the analysis and returns the written paths.
// Empty series are skipped.
func (r *Renderer) RenderAll(a *sweep.Analysis) ([]string, error) {
	if err := os.MkdirAll(r.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating chart directory: %w", err)
	}

	var written []string
	for _, b := range a.Benchmarks {
		logrus.Infof("Plotting results for %s...", b.Benchmark)
		path, err := r.RenderBenchmark(b)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if len(a.Global.Configs) > 0 {
		path, err := r.RenderAverage(a.Global)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if len(a.Tradeoff.SizeIndices) > 0 {
		path, err := r.RenderTradeoff(a.Tradeoff)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func (r *Renderer) path(base string) string {
	return filepath.Join(r.OutputDir, base+"."+r.Format)
}

// RenderBenchmark draws IL1 and DL1 miss rate vs nsets side by side, one line
// per associativity, with the benchmark optimum marked on both panels.
func (r *Renderer) RenderBenchmark(b sweep.BenchmarkResult) (string, error) {
	if len(b.Records) == 0 {
		return "", errors.New("benchmark has no records")
	}
	il1 := newLogXPlot(b.Benchmark+": IL1 Miss Rate vs NSets", "Miss Rate")
	dl1 := newLogXPlot(b.Benchmark+": DL1 Miss Rate vs NSets", "Miss Rate")

	assocs := b.Associativities()
	colors := seriesColors(len(assocs))
	for i, a := range assocs {
		var il1Pts, dl1Pts plotter.XYs
		for _, rec := range b.Records {
			if rec.Assoc != a {
				continue
			}
			il1Pts = append(il1Pts, plotter.XY{X: float64(rec.NSets), Y: rec.IL1Miss})
			dl1Pts = append(dl1Pts, plotter.XY{X: float64(rec.NSets), Y: rec.DL1Miss})
		}
		label := fmt.Sprintf("Assoc %d", a)
		if err := addSeries(il1, label, il1Pts, colors[i], draw.CircleGlyph{}); err != nil {
			return "", err
		}
		if err := addSeries(dl1, label, dl1Pts, colors[i], draw.SquareGlyph{}); err != nil {
			return "", err
		}
	}

	o := b.Optimal
	note := fmt.Sprintf("optimal s%d a%d", o.NSets, o.Assoc)
	if err := markOptimum(il1, float64(o.NSets), o.IL1Miss, note); err != nil {
		return "", err
	}
	if err := markOptimum(dl1, float64(o.NSets), o.DL1Miss, note); err != nil {
		return "", err
	}
	setLogAxis(il1, recordNSets(b.Records))
	setLogAxis(dl1, recordNSets(b.Records))

	path := r.path(b.Benchmark + "_miss_rate")
	if err := r.savePanels(path, il1, dl1); err != nil {
		return "", err
	}
	return path, nil
}

// RenderAverage draws the cross-benchmark mean of il1+dl1 vs nsets per
// associativity with the global optimum marked.
func (r *Renderer) RenderAverage(g sweep.GlobalResult) (string, error) {
	p := newLogXPlot("Average Miss Rate (IL1+DL1) across Benchmarks", "Avg Total Miss Rate")

	var assocs []int
	for _, c := range g.Configs {
		if len(assocs) == 0 || assocs[len(assocs)-1] != c.Assoc {
			assocs = append(assocs, c.Assoc)
		}
	}
	colors := seriesColors(len(assocs))
	var nsets []int
	for i, a := range assocs {
		var pts plotter.XYs
		for _, c := range g.Configs {
			if c.Assoc == a {
				pts = append(pts, plotter.XY{X: float64(c.NSets), Y: c.AvgTotalMiss})
				nsets = append(nsets, c.NSets)
			}
		}
		if err := addSeries(p, fmt.Sprintf("Assoc %d", a), pts, colors[i], draw.CircleGlyph{}); err != nil {
			return "", err
		}
	}
	if o := g.Optimal; o != nil {
		note := fmt.Sprintf("optimal s%d a%d", o.NSets, o.Assoc)
		if err := markOptimum(p, float64(o.NSets), o.AvgTotalMiss, note); err != nil {
			return "", err
		}
	}
	setLogAxis(p, nsets)

	path := r.path("average_miss_rate")
	if err := p.Save(r.Width, r.Height, path); err != nil {
		return "", fmt.Errorf("saving %s: %w", path, err)
	}
	return path, nil
}

// RenderTradeoff draws the sets-dominant and assoc-dominant means per size
// index. Absent means leave gaps in the line.
func (r *Renderer) RenderTradeoff(t sweep.TradeoffResult) (string, error) {
	p := newLogXPlot("Sets vs Associativity at Equal Capacity", "Avg Total Miss Rate")
	p.X.Label.Text = "Size Index (nsets x assoc)"

	colors := seriesColors(2)
	series := []struct {
		label string
		vals  []*float64
		shape draw.GlyphDrawer
	}{
		{"Sets dominant (nsets > assoc)", t.SetsDominant, draw.CircleGlyph{}},
		{"Assoc dominant (assoc > nsets)", t.AssocDominant, draw.TriangleGlyph{}},
	}
	for i, s := range series {
		runs := contiguousRuns(t.SizeIndices, s.vals)
		for j, pts := range runs {
			label := s.label
			if j > 0 {
				label = ""
			}
			if err := addSeries(p, label, pts, colors[i], s.shape); err != nil {
				return "", err
			}
		}
	}
	setLogAxis(p, t.SizeIndices)

	path := r.path("size_tradeoff")
	if err := p.Save(r.Width, r.Height, path); err != nil {
		return "", fmt.Errorf("saving %s: %w", path, err)
	}
	return path, nil
}

func (r *Renderer) savePanels(path string, left, right *plot.Plot) error {
	c, err := draw.NewFormattedCanvas(2*r.Width, r.Height, r.Format)
	if err != nil {
		return fmt.Errorf("creating canvas: %w", err)
	}
	tiles := draw.Tiles{
		Rows:      1,
		Cols:      2,
		PadX:      5 * vg.Millimeter,
		PadTop:    2 * vg.Millimeter,
		PadBottom: 2 * vg.Millimeter,
		PadLeft:   2 * vg.Millimeter,
		PadRight:  2 * vg.Millimeter,
	}
	canvases := plot.Align([][]*plot.Plot{{left, right}}, tiles, draw.New(c))
	left.Draw(canvases[0][0])
	right.Draw(canvases[0][1])

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := c.WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

func newLogXPlot(title, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Number of Sets (nsets)"
	p.Y.Label.Text = yLabel
	p.X.Scale = plot.LogScale{}
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	return p
}

// addSeries adds a line with point markers. An empty label keeps the series out of the legend.
// addSeries draws pts as a line with point glyphs. NaN points are dropped,
// since plotter rejects them and one NaN run must not fail the whole chart.
func addSeries(p *plot.Plot, label string, pts plotter.XYs, c color.Color, shape draw.GlyphDrawer) error {
	pts = dropNaN(pts)
	if len(pts) == 0 {
		return nil
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("series %q: %w", label, err)
	}
	line.Color = c
	line.Width = vg.Points(1.5)
	points.Color = c
	points.Shape = shape
	p.Add(line, points)
	if label != "" {
		p.Legend.Add(label, line, points)
	}
	return nil
}

func markOptimum(p *plot.Plot, x, y float64, note string) error {
	if math.IsNaN(y) {
		return nil
	}
	pt := plotter.XYs{{X: x, Y: y}}
	s, err := plotter.NewScatter(pt)
	if err != nil {
		return fmt.Errorf("optimum marker: %w", err)
	}
	s.GlyphStyle.Shape = draw.CrossGlyph{}
	s.GlyphStyle.Radius = vg.Points(6)
	s.GlyphStyle.Color = optimumColor

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: pt, Labels: []string{note}})
	if err != nil {
		return fmt.Errorf("optimum label: %w", err)
	}
	labels.Offset = vg.Point{X: vg.Points(6), Y: vg.Points(6)}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Color = optimumColor
	}
	p.Add(s, labels)
	p.Legend.Add("Optimal", s)
	return nil
}

func dropNaN(pts plotter.XYs) plotter.XYs {
	kept := pts[:0:0]
	for _, pt := range pts {
		if !math.IsNaN(pt.X) && !math.IsNaN(pt.Y) {
			kept = append(kept, pt)
		}
	}
	return kept
}

// setLogAxis labels each distinct x value, since log-scale default ticks only
// mark powers of ten. A single x value gets one octave of room on each side.
func setLogAxis(p *plot.Plot, values []int) {
	seen := make(map[int]bool, len(values))
	var ticks plot.ConstantTicks
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		ticks = append(ticks, plot.Tick{Value: float64(v), Label: strconv.Itoa(v)})
	}
	p.X.Tick.Marker = ticks
	if len(seen) == 1 {
		p.X.Min = ticks[0].Value / 2
		p.X.Max = ticks[0].Value * 2
	}
}

func recordNSets(records []sweep.MetricRecord) []int {
	out := make([]int, 0, len(records))
	for _, r := range records {
		out = append(out, r.NSets)
	}
	return out
}

// contiguousRuns splits a series with absent entries into runs of present points.
func contiguousRuns(xs []int, vals []*float64) []plotter.XYs {
	var (
		runs []plotter.XYs
		cur  plotter.XYs
	)
	for i, v := range vals {
		if v == nil {
			if len(cur) > 0 {
				runs = append(runs, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: float64(xs[i]), Y: *v})
	}
	if len(cur) > 0 {
		runs = append(runs, cur)
	}
	return runs
}

// seriesColors returns n qualitative colors, cycling when n exceeds the palette.
func seriesColors(n int) []color.Color {
	const minColors, maxColors = 3, 9
	pal, err := brewer.GetPalette(brewer.TypeQualitative, "Set1", min(max(n, minColors), maxColors))
	if err != nil {
		logrus.WithError(err).Debug("palette unavailable, falling back to black")
		out := make([]color.Color, n)
		for i := range out {
			out[i] = color.Black
		}
		return out
	}
	base := pal.Colors()
	out := make([]color.Color, n)
	for i := range out {
		out[i] = base[i%len(base)]
	}
	return out
}
