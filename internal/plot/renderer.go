// Package plot draws a function with its integral area shaded and exports
// the figure as a raster image.
package plot

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/njchilds90/integralcalc/internal/calcerr"
	"github.com/njchilds90/integralcalc/symbolic"
)

const (
	curveSamples = 1000
	fillSamples  = 500
	// fallbackBound replaces an infinite limit.
	fallbackBound = 10.0
	// padding extends the curve beyond the limits on both sides.
	padding = 2.0

	TitleDefault = "Function plot"
	TitleInvalid = "Invalid function for plotting"

	AdvisoryInfinite   = "Warning: plotted on [-10, 10] because of infinite limits."
	AdvisoryEvaluation = "Warning: could not evaluate the function on the range; the plot may be incomplete."
)

// Palette of the figure.
var (
	ColorBackground = mustHex("#F7F9FB")
	ColorPanel      = mustHex("#E9EDF2")
	ColorText       = mustHex("#4A4A4A")
	ColorCurve      = mustHex("#AECBFF")
	ColorArea       = withAlpha(mustHex("#B7E8B9"), 0.6)
	ColorError      = mustHex("#FFADAD")
)

// Config sets the exported image size.
type Config struct {
	// Width and Height are in inches.
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`
	DPI    int     `mapstructure:"dpi"`
}

// DefaultConfig is a 7x5 inch figure at 300 DPI.
func DefaultConfig() Config { return Config{Width: 7, Height: 5, DPI: 300} }

// Figure is the result of a Render. Samples are kept so text front ends
// can draw their own chart.
type Figure struct {
	Plot     *gplot.Plot
	Title    string
	Function symbolic.Expr
	// Lower and Upper are the resolved numeric limits.
	Lower, Upper float64
	// Samples where f is not finite are NaN or ±Inf and mark gaps.
	CurveX, CurveY []float64
	FillX, FillY   []float64
	// Status is an advisory for the status line, empty when none.
	Status string
}

// Drawn reports whether the curve was drawn.
func (f *Figure) Drawn() bool { return len(f.CurveY) > 0 }

// Renderer holds the current figure.
type Renderer struct {
	cfg     Config
	log     *zap.Logger
	current *Figure
}

// NewRenderer returns a renderer showing an empty figure.
func NewRenderer(cfg Config, log *zap.Logger) *Renderer {
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.DPI <= 0 {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = zap.NewNop()
	}
	r := &Renderer{cfg: cfg, log: log}
	r.Clear()
	return r
}

// Current is the figure shown now.
func (r *Renderer) Current() *Figure { return r.current }

// Clear replaces the figure with an empty styled one.
func (r *Renderer) Clear() *Figure {
	r.current = &Figure{Plot: newStyledPlot(TitleDefault), Title: TitleDefault}
	return r.current
}

// Render draws f over the interval [lower, upper]. It never fails: problems
// leave a cleared canvas and an advisory in Figure.Status.
func (r *Renderer) Render(f, lower, upper symbolic.Expr) *Figure {
	fig := r.Clear()
	fig.Function = f

	lo, hi, pad, status := resolveBounds(lower, upper)
	fig.Lower, fig.Upper, fig.Status = lo, hi, status
	curveLo, curveHi := lo, hi
	if pad {
		curveLo, curveHi = lo-padding, hi+padding
	}

	fn, err := symbolic.Lambdify(f, "x")
	if err != nil {
		fig.Title = TitleInvalid
		fig.Plot.Title.Text = TitleInvalid
		fig.Plot.Title.TextStyle.Color = ColorError
		r.log.Debug("function not plottable", zap.String("function", f.String()), zap.Error(err))
		return fig
	}

	xs := floats.Span(make([]float64, curveSamples), curveLo, curveHi)
	fx := floats.Span(make([]float64, fillSamples), lo, hi)
	ys, fy := fn.Map(xs), fn.Map(fx)
	curve := finiteRuns(xs, ys)
	if len(curve) == 0 {
		fig.Status = AdvisoryEvaluation
		r.log.Debug("function not finite on range", zap.String("function", f.String()),
			zap.Float64("from", curveLo), zap.Float64("to", curveHi))
		return fig
	}

	var areas []*plotter.Polygon
	for _, run := range finiteRuns(fx, fy) {
		area, err := plotter.NewPolygon(areaOutline(run))
		if err != nil {
			fig.Status = AdvisoryEvaluation
			return fig
		}
		area.Color = ColorArea
		area.LineStyle.Width = 0
		areas = append(areas, area)
		fig.Plot.Add(area)
	}
	for i, run := range curve {
		line, err := plotter.NewLine(run)
		if err != nil {
			fig.Status = AdvisoryEvaluation
			return fig
		}
		line.LineStyle.Color = ColorCurve
		line.LineStyle.Width = vg.Points(2)
		fig.Plot.Add(line)
		if i == 0 {
			fig.Plot.Legend.Add("f(x) = "+f.String(), line)
		}
	}
	if len(areas) > 0 {
		fig.Plot.Legend.Add("Integral area", areas[0])
	}
	fig.CurveX, fig.CurveY, fig.FillX, fig.FillY = xs, ys, fx, fy
	r.log.Debug("function plotted", zap.String("function", f.String()),
		zap.Float64("lower", lo), zap.Float64("upper", hi))
	return fig
}

// Export writes the current figure at the configured DPI. The format
// follows the extension: .png, .jpg or .jpeg.
func (r *Renderer) Export(path string) error {
	const op = "plot.export"
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
		return calcerr.IOError(op, path, fmt.Errorf("unsupported image format %q", ext))
	}
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(r.cfg.Width)*vg.Inch, vg.Length(r.cfg.Height)*vg.Inch),
		vgimg.UseDPI(r.cfg.DPI),
		vgimg.UseBackgroundColor(ColorPanel),
	)
	r.current.Plot.Draw(draw.New(c))

	out, err := os.Create(path)
	if err != nil {
		return calcerr.IOError(op, path, err)
	}
	if ext == ".png" {
		_, err = vgimg.PngCanvas{Canvas: c}.WriteTo(out)
	} else {
		_, err = vgimg.JpegCanvas{Canvas: c}.WriteTo(out)
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return calcerr.IOError(op, path, err)
	}
	r.log.Info("plot exported", zap.String("path", path), zap.Int("dpi", r.cfg.DPI))
	return nil
}

func newStyledPlot(title string) *gplot.Plot {
	p := gplot.New()
	p.BackgroundColor = ColorBackground
	p.Title.Text = title
	p.Title.TextStyle.Color = ColorText
	p.X.Label.Text = "x"
	p.Y.Label.Text = "f(x)"
	for _, ax := range []*gplot.Axis{&p.X, &p.Y} {
		ax.Color = ColorText
		ax.Label.TextStyle.Color = ColorText
		ax.Tick.Color = ColorText
		ax.Tick.Label.Color = ColorText
	}
	grid := plotter.NewGrid()
	grid.Vertical.Color = withAlpha(ColorText, 0.5)
	grid.Vertical.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	grid.Horizontal.Color = grid.Vertical.Color
	grid.Horizontal.Dashes = grid.Vertical.Dashes
	p.Add(grid)
	p.Legend.Top = true
	return p
}

// resolveBounds turns the limits into plotting numbers. Infinite limits
// become ±10 with an advisory; a limit that is not a number makes the
// window [-10, 10] with no padding.
func resolveBounds(lower, upper symbolic.Expr) (lo, hi float64, pad bool, status string) {
	if symbolic.InfinitySign(lower) != 0 || symbolic.InfinitySign(upper) != 0 {
		lo, hi = -fallbackBound, fallbackBound
		if symbolic.InfinitySign(lower) == 0 {
			lo = evalOr(lower, -fallbackBound)
		}
		if symbolic.InfinitySign(upper) == 0 {
			hi = evalOr(upper, fallbackBound)
		}
		return lo, hi, true, AdvisoryInfinite
	}
	a, errA := symbolic.Evalf(lower)
	b, errB := symbolic.Evalf(upper)
	if errA != nil || errB != nil || !finite(a) || !finite(b) {
		return -fallbackBound, fallbackBound, false, ""
	}
	return a, b, true, ""
}

func evalOr(e symbolic.Expr, fallback float64) float64 {
	v, err := symbolic.Evalf(e)
	if err != nil || !finite(v) {
		return fallback
	}
	return v
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// finiteRuns splits the samples into runs of finite points. The gaps are
// where the function is undefined, as ln(x) is left of zero.
func finiteRuns(xs, ys []float64) []plotter.XYs {
	var runs []plotter.XYs
	var cur plotter.XYs
	for i := range xs {
		if !finite(ys[i]) {
			if len(cur) > 0 {
				runs = append(runs, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: xs[i], Y: ys[i]})
	}
	if len(cur) > 0 {
		runs = append(runs, cur)
	}
	return runs
}

// areaOutline closes the region between a run of the curve and the x axis.
func areaOutline(run plotter.XYs) plotter.XYs {
	pts := make(plotter.XYs, len(run), len(run)+2)
	copy(pts, run)
	return append(pts, plotter.XY{X: run[len(run)-1].X}, plotter.XY{X: run[0].X})
}

func mustHex(s string) color.NRGBA {
	var c color.NRGBA
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		panic(errors.New("plot: bad colour " + s))
	}
	c.A = 0xff
	return c
}

func withAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = uint8(math.Round(a * 255))
	return c
}
