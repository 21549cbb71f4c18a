// Package render draws analysis results as PNG figures with gonum/plot.
package render

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// ErrNoPoints indicates a chart without any drawable point.
var ErrNoPoints = errors.New("render: nothing to plot")

// Series is one curve of a chart.
type Series struct {
	Name   string
	X, Y   []float64
	YErr   []float64 // optional symmetric error bars
	Dashed bool
	Points bool // draw markers instead of a line
	Color  color.Color
}

// Func is an analytic curve drawn over the chart's X range.
type Func struct {
	Name   string
	F      func(float64) float64
	Dashed bool
	Color  color.Color
}

type Chart struct {
	Title  string
	XLabel string
	YLabel string
	LogX   bool
	LogY   bool
	Series []Series
	Funcs  []Func
}

// Renderer saves charts at a fixed size.
type Renderer struct {
	Width  vg.Length
	Height vg.Length
}

// New returns a renderer for figures of widthCm x heightCm.
func New(widthCm, heightCm float64) *Renderer {
	return &Renderer{Width: vg.Length(widthCm) * vg.Centimeter, Height: vg.Length(heightCm) * vg.Centimeter}
}

var dashes = []vg.Length{vg.Points(5), vg.Points(3)}

// Plot builds the gonum plot for c. Points that cannot be shown on a log
// axis are dropped.
func (c *Chart) Plot() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.Add(plotter.NewGrid())
	if c.LogX {
		p.X.Scale = plot.LogScale{}
		p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	if c.LogY {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}

	drawn := 0
	for i, s := range c.Series {
		pts, errs := c.points(s)
		if len(pts) == 0 {
			continue
		}
		drawn++

		col := s.Color
		if col == nil {
			col = plotutil.Color(i)
		}

		if s.Points {
			sc, err := plotter.NewScatter(pts)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", s.Name, err)
			}
			sc.Color = col
			sc.Shape = plotutil.Shape(i)
			p.Add(sc)
			if s.Name != "" {
				p.Legend.Add(s.Name, sc)
			}
		} else {
			line, err := plotter.NewLine(pts)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", s.Name, err)
			}
			line.Color = col
			line.Width = vg.Points(1)
			if s.Dashed {
				line.Dashes = dashes
			}
			p.Add(line)
			if s.Name != "" {
				p.Legend.Add(s.Name, line)
			}
		}

		if errs != nil {
			bars, err := plotter.NewYErrorBars(errorPoints{XYs: pts, YErrors: errs})
			if err != nil {
				return nil, fmt.Errorf("%s: %w", s.Name, err)
			}
			bars.Color = col
			p.Add(bars)
		}
	}

	for i, f := range c.Funcs {
		fn := plotter.NewFunction(f.F)
		fn.Color = f.Color
		if fn.Color == nil {
			fn.Color = plotutil.Color(len(c.Series) + i)
		}
		fn.Width = vg.Points(1)
		if f.Dashed {
			fn.Dashes = dashes
		}
		p.Add(fn)
		if f.Name != "" {
			p.Legend.Add(f.Name, fn)
		}
	}

	if drawn == 0 {
		return nil, ErrNoPoints
	}

	p.Legend.Top = true
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

type errorPoints struct {
	plotter.XYs
	plotter.YErrors
}

func (c *Chart) points(s Series) (plotter.XYs, plotter.YErrors) {
	n := min(len(s.X), len(s.Y))
	pts := make(plotter.XYs, 0, n)
	var errs plotter.YErrors
	if len(s.YErr) >= n && s.YErr != nil {
		errs = make(plotter.YErrors, 0, n)
	}
	for i := 0; i < n; i++ {
		x, y := s.X[i], s.Y[i]
		if !finite(x) || !finite(y) || (c.LogX && x <= 0) || (c.LogY && y <= 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: x, Y: y})
		if errs != nil {
			e := math.Abs(s.YErr[i])
			low := e
			if c.LogY && y-low <= 0 {
				low = 0
			}
			errs = append(errs, struct{ Low, High float64 }{low, e})
		}
	}
	return pts, errs
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Save renders c into path; the format follows the extension.
func (r *Renderer) Save(c *Chart, path string) error {
	p, err := c.Plot()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := p.Save(r.Width, r.Height, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
