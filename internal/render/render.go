// Package render turns sweep results into image files. Each call receives a
// self-contained Request; no canvas state is shared between calls.
package render

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/iwvelando/dac-optimizer/internal/sweep"
	"github.com/iwvelando/dac-optimizer/pkg/constants"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Kind selects the plot type.
type Kind int

const (
	// Contour is a filled contour plot of a 2-D grid.
	Contour Kind = iota
	// Line plots one or more 1-D series.
	Line
)

func (k Kind) String() string {
	switch k {
	case Contour:
		return "contour"
	case Line:
		return "line"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Series is a named line of a Line request.
type Series struct {
	Label string
	Xs    []float64
	Ys    []float64
}

// Request describes one image.
type Request struct {
	Kind   Kind
	Title  string
	XLabel string
	YLabel string
	Path   string

	// Grid and Levels are used by Contour requests.
	Grid   sweep.Grid
	Levels int

	// Series is used by Line requests.
	Series []Series

	// LimitY fixes the y-axis to [YMin, YMax].
	LimitY bool
	YMin   float64
	YMax   float64
}

// Renderer produces an image for a Request.
type Renderer interface {
	Render(req Request) error
}

// ErrEmptyRequest is returned for requests without data to draw.
var ErrEmptyRequest = errors.New("render request has no data")

// PlotRenderer renders with gonum/plot. The image format follows the
// extension of Request.Path (png, svg, pdf, ...).
type PlotRenderer struct {
	Width  vg.Length
	Height vg.Length
}

// NewPlotRenderer returns a renderer producing images of the given size in
// inches; zero sizes fall back to the defaults.
func NewPlotRenderer(widthInches, heightInches float64) *PlotRenderer {
	if widthInches <= 0 {
		widthInches = constants.DefaultPlotWidthInches
	}
	if heightInches <= 0 {
		heightInches = constants.DefaultPlotHeightInches
	}
	return &PlotRenderer{
		Width:  vg.Length(widthInches) * vg.Inch,
		Height: vg.Length(heightInches) * vg.Inch,
	}
}

// Render draws req and saves it to req.Path.
func (r *PlotRenderer) Render(req Request) error {
	if req.Path == "" {
		return fmt.Errorf("render request %q has no output path", req.Title)
	}

	p := plot.New()
	p.Title.Text = req.Title
	p.X.Label.Text = req.XLabel
	p.Y.Label.Text = req.YLabel

	var err error
	switch req.Kind {
	case Contour:
		err = addContour(p, req)
	case Line:
		err = addLines(p, req)
	default:
		err = fmt.Errorf("unsupported render kind %v", req.Kind)
	}
	if err != nil {
		return err
	}

	if req.LimitY {
		p.Y.Min = req.YMin
		p.Y.Max = req.YMax
	}

	if dir := filepath.Dir(req.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if err := p.Save(r.Width, r.Height, req.Path); err != nil {
		return fmt.Errorf("failed to save %s: %w", req.Path, err)
	}
	return nil
}

func addContour(p *plot.Plot, req Request) error {
	cols, rows := req.Grid.Dims()
	if cols < 2 || rows < 2 {
		return fmt.Errorf("%w: contour needs at least 2x2 cells, got %dx%d", ErrEmptyRequest, cols, rows)
	}
	levels := req.Levels
	if levels <= 0 {
		levels = constants.DefaultContourLevels
	}

	g := newGridXYZ(req.Grid)
	if g.finite == 0 {
		return fmt.Errorf("%w: every cell is NaN", ErrEmptyRequest)
	}

	cm := moreland.ExtendedBlackBody()
	cm.SetMin(g.min)
	cm.SetMax(g.max)

	heat := plotter.NewHeatMap(g, cm.Palette(levels))
	heat.NaN = color.Transparent
	p.Add(heat)

	// Contour tracing does not cope with gaps, so isolines are only drawn
	// over fully defined grids.
	if g.finite == cols*rows {
		lines := plotter.NewContour(g, contourLevels(g.min, g.max, levels), cm.Palette(levels))
		p.Add(lines)
	}
	return nil
}

func addLines(p *plot.Plot, req Request) error {
	if len(req.Series) == 0 {
		return fmt.Errorf("%w: line plot without series", ErrEmptyRequest)
	}
	var args []interface{}
	for _, s := range req.Series {
		if len(s.Xs) != len(s.Ys) {
			return fmt.Errorf("series %q has %d x values and %d y values", s.Label, len(s.Xs), len(s.Ys))
		}
		pts := make(plotter.XYs, 0, len(s.Xs))
		for i := range s.Xs {
			// plotter rejects non-finite points; skipping them leaves a gap.
			if math.IsNaN(s.Ys[i]) || math.IsInf(s.Ys[i], 0) {
				continue
			}
			pts = append(pts, plotter.XY{X: s.Xs[i], Y: s.Ys[i]})
		}
		if len(pts) == 0 {
			continue
		}
		if s.Label != "" {
			args = append(args, s.Label)
		}
		args = append(args, pts)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: no finite points", ErrEmptyRequest)
	}
	return plotutil.AddLines(p, args...)
}

func contourLevels(min, max float64, n int) []float64 {
	levels := make([]float64, n)
	step := (max - min) / float64(n+1)
	for i := range levels {
		levels[i] = min + step*float64(i+1)
	}
	return levels
}

// gridXYZ adapts sweep.Grid to plotter.GridXYZ. Min and Max skip
// non-finite cells.
type gridXYZ struct {
	g        sweep.Grid
	min, max float64
	finite   int
}

func newGridXYZ(g sweep.Grid) gridXYZ {
	out := gridXYZ{g: g, min: math.Inf(1), max: math.Inf(-1)}
	for _, row := range g.Values {
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			out.finite++
			out.min = math.Min(out.min, v)
			out.max = math.Max(out.max, v)
		}
	}
	if out.finite > 0 && out.min == out.max {
		out.min--
		out.max++
	}
	return out
}

func (g gridXYZ) Dims() (c, r int) { return g.g.Dims() }
func (g gridXYZ) X(c int) float64  { return g.g.Xs[c] }
func (g gridXYZ) Y(r int) float64  { return g.g.Ys[r] }
func (g gridXYZ) Min() float64     { return g.min }
func (g gridXYZ) Max() float64     { return g.max }

// Z reports infinities as NaN so they are drawn as gaps.
func (g gridXYZ) Z(c, r int) float64 {
	v := g.g.Values[r][c]
	if math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}
