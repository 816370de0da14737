package charts

import (
	"fmt"
	"image/color"
	"math"

	"boxoffice-report/internal/infra/fs"
	logging "boxoffice-report/internal/infra/log"
	"boxoffice-report/internal/movies"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	titleFontSize = 16.0
	axisFontSize  = 12.0

	maxBarWidth   = 48.0 // points
	plotAreaRatio = 0.82 // share of the figure width left for data after axes
)

var (
	blueDark    = color.RGBA{R: 0x1f, G: 0x3b, B: 0x5a, A: 0xff}
	blueLight   = color.RGBA{R: 0x9e, G: 0xca, B: 0xe1, A: 0xff}
	orangeDark  = color.RGBA{R: 0x7f, G: 0x27, B: 0x04, A: 0xff}
	orangeLight = color.RGBA{R: 0xfd, G: 0xae, B: 0x6b, A: 0xff}
	purpleDark  = color.RGBA{R: 0x3f, G: 0x00, B: 0x7d, A: 0xff}
	purpleLight = color.RGBA{R: 0xbc, G: 0xbd, B: 0xdc, A: 0xff}
	lineRed     = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	pointBlue   = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xb0}
	missingGrey = color.RGBA{R: 0xc8, G: 0xc8, B: 0xc8, A: 0xff}

	set1  = hexPalette(0xe41a1c, 0x377eb8, 0x4daf4a, 0x984ea3, 0xff7f00, 0xffff33, 0xa65628, 0xf781bf, 0x999999)
	set2  = hexPalette(0x66c2a5, 0xfc8d62, 0x8da0cb, 0xe78ac3, 0xa6d854, 0xffd92f, 0xe5c494, 0xb3b3b3)
	dark2 = hexPalette(0x1b9e77, 0xd95f02, 0x7570b3, 0xe7298a, 0x66a61e, 0xe6ab02, 0xa6761d, 0x666666)

	coolBlue = color.RGBA{R: 59, G: 76, B: 192, A: 0xff}
	warmRed  = color.RGBA{R: 180, G: 4, B: 38, A: 0xff}
	neutral  = color.RGBA{R: 221, G: 221, B: 221, A: 0xff}
)

func hexPalette(codes ...uint32) []color.Color {
	out := make([]color.Color, len(codes))
	for i, c := range codes {
		out[i] = color.RGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: 0xff}
	}
	return out
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 { return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t)) }
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 0xff}
}

// gradient spreads n colours evenly from one end to the other.
func gradient(from, to color.RGBA, n int) []color.Color {
	if n <= 1 {
		return []color.Color{from}
	}
	out := make([]color.Color, n)
	for i := range out {
		out[i] = lerp(from, to, float64(i)/float64(n-1))
	}
	return out
}

// coolwarm maps v in [-1, 1] onto a blue-grey-red diverging scale. NaN is grey.
func coolwarm(v float64) color.RGBA {
	if math.IsNaN(v) {
		return missingGrey
	}
	v = math.Max(-1, math.Min(1, v))
	if v < 0 {
		return lerp(neutral, coolBlue, -v)
	}
	return lerp(neutral, warmRed, v)
}

// moneyTicks relabels the default ticks with compact dollar amounts.
type moneyTicks struct{}

func (moneyTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = FormatUSD(ticks[i].Value)
		}
	}
	return ticks
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(titleFontSize)
	p.X.Label.Text = xLabel
	p.X.Label.TextStyle.Font.Size = vg.Points(axisFontSize)
	p.Y.Label.Text = yLabel
	p.Y.Label.TextStyle.Font.Size = vg.Points(axisFontSize)
	return p
}

func horizontalGrid() *plotter.Grid {
	g := plotter.NewGrid()
	g.Vertical.Color = nil
	return g
}

func rotateTickLabels(p *plot.Plot) {
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
}

// savePlot renders p to a PNG of the given size and resolution.
func savePlot(p *plot.Plot, w, h vg.Length, dpi int, path string) error {
	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))
	p.Draw(draw.New(c))

	f, err := fs.CreateFile(path)
	if err != nil {
		return err
	}
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to save chart: %w", err)
	}
	return nil
}

type barSpec struct {
	title, xLabel, yLabel string
	stats                 []movies.GroupStat
	label                 func(string) string
	palette               []color.Color
	money                 bool
}

// rankedBars draws one bar per group in the order given.
func rankedBars(spec barSpec) (*plot.Plot, error) {
	p := newPlot(spec.title, spec.xLabel, spec.yLabel)

	width := vg.Points(math.Min(maxBarWidth, 10*72*plotAreaRatio/float64(len(spec.stats))*0.7))
	labels := make([]string, len(spec.stats))
	for i, s := range spec.stats {
		bars, err := plotter.NewBarChart(plotter.Values{s.Mean}, width)
		if err != nil {
			return nil, fmt.Errorf("failed to build bar %q: %w", s.Label, err)
		}
		bars.XMin = float64(i)
		bars.Color = spec.palette[i%len(spec.palette)]
		bars.LineStyle.Width = vg.Length(0)
		p.Add(bars)

		labels[i] = s.Label
		if spec.label != nil {
			labels[i] = spec.label(s.Label)
		}
	}

	p.Add(horizontalGrid())
	p.NominalX(labels...)
	rotateTickLabels(p)
	if spec.money {
		p.Y.Tick.Marker = moneyTicks{}
	}
	return p, nil
}

type scatterSpec struct {
	name, title, xLabel, yLabel string
	x, y                        movies.Metric
	palette                     []color.Color
	moneyX, moneyY              bool
}

// scatterByGenre draws one coloured series per genre. Genres are laid down
// alphabetically and points keep record order within a genre.
func scatterByGenre(spec scatterSpec, t *movies.Table) (*plot.Plot, error) {
	p := newPlot(spec.title, spec.xLabel, spec.yLabel)
	p.Add(plotter.NewGrid())

	plotted, dropped := 0, 0
	for i, genre := range movies.Labels(t, movies.ByGenre) {
		g := genre
		xs, ys, d := movies.Points(t.Filter(func(r movies.MovieRecord) bool { return r.Genre == g }), spec.x, spec.y)
		dropped += d
		if len(xs) == 0 {
			continue
		}
		s, err := plotter.NewScatter(toXYs(xs, ys))
		if err != nil {
			return nil, fmt.Errorf("failed to build scatter for %q: %w", g, err)
		}
		s.GlyphStyle.Color = spec.palette[i%len(spec.palette)]
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(3.5)
		p.Add(s)
		p.Legend.Add(g, s)
		plotted += len(xs)
	}

	if dropped > 0 {
		logging.LogWarn("Skipped non-finite points", zap.String("chart", spec.name), zap.Int("dropped", dropped))
	}
	if plotted == 0 {
		return nil, fmt.Errorf("%s: %w", spec.title, movies.ErrNoPoints)
	}

	p.Legend.Top = true
	p.Legend.Left = true
	if spec.moneyX {
		p.X.Tick.Marker = moneyTicks{}
	}
	if spec.moneyY {
		p.Y.Tick.Marker = moneyTicks{}
	}
	return p, nil
}

type regressionSpec struct {
	title, xLabel, yLabel string
	xs, ys                []float64
	fit                   movies.LinearFit
}

// regressionPlot draws the points and the fitted line over their x range.
func regressionPlot(spec regressionSpec) (*plot.Plot, error) {
	p := newPlot(spec.title, spec.xLabel, spec.yLabel)
	p.Add(plotter.NewGrid())

	s, err := plotter.NewScatter(toXYs(spec.xs, spec.ys))
	if err != nil {
		return nil, fmt.Errorf("failed to build scatter: %w", err)
	}
	s.GlyphStyle.Color = pointBlue
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Radius = vg.Points(4)

	line := plotter.NewFunction(spec.fit.At)
	line.XMin = spec.fit.MinX
	line.XMax = spec.fit.MaxX
	line.Samples = 2
	line.Color = lineRed
	line.Width = vg.Points(2)

	p.Add(s, line)
	p.X.Tick.Marker = moneyTicks{}
	p.Y.Tick.Marker = moneyTicks{}
	return p, nil
}

// boxSlot is one box: group picks the x tick, series picks the colour and offset.
type boxSlot struct {
	group  int
	series int
	values []float64
}

type boxSpec struct {
	title, xLabel, yLabel string
	groups                []string // x tick labels
	series                []string // legend entries
	slots                 []boxSlot
	palette               []color.Color
	width                 vg.Length
	money                 bool
	rotateLabels          bool
	single                bool // one box per group, centred, no legend
}

// groupedBoxes places len(series) boxes side by side inside each group.
func groupedBoxes(spec boxSpec) (*plot.Plot, error) {
	p := newPlot(spec.title, spec.xLabel, spec.yLabel)
	p.Add(horizontalGrid())

	unit := float64(spec.width) * plotAreaRatio / float64(len(spec.groups))
	span := 0.8
	perSeries := span / float64(len(spec.series))
	if spec.single {
		perSeries = 0.5
	}
	boxWidth := vg.Length(math.Max(2, unit*perSeries*0.85))

	for _, slot := range spec.slots {
		loc := float64(slot.group)
		if !spec.single {
			loc += (float64(slot.series) - float64(len(spec.series)-1)/2) * perSeries
		}
		b, err := plotter.NewBoxPlot(boxWidth, loc, plotter.Values(slot.values))
		if err != nil {
			return nil, fmt.Errorf("failed to build box plot: %w", err)
		}
		b.FillColor = spec.palette[slot.series%len(spec.palette)]
		p.Add(b)
	}

	if !spec.single {
		for i, name := range spec.series {
			swatch, err := plotter.NewScatter(plotter.XYs{{}})
			if err != nil {
				return nil, err
			}
			swatch.GlyphStyle = draw.GlyphStyle{
				Color:  spec.palette[i%len(spec.palette)],
				Shape:  draw.BoxGlyph{},
				Radius: vg.Points(5),
			}
			p.Legend.Add(name, swatch)
		}
		p.Legend.Top = true
	}

	p.NominalX(spec.groups...)
	p.X.Min = -0.5
	p.X.Max = float64(len(spec.groups)) - 0.5
	if spec.rotateLabels {
		rotateTickLabels(p)
	}
	if spec.money {
		p.Y.Tick.Marker = moneyTicks{}
	}
	return p, nil
}

func toXYs(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	return pts
}
