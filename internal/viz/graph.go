package viz

import (
	"errors"
	"math"

	"github.com/guptarohit/asciigraph"
)

// ErrNoData is returned when a graph would have no finite samples.
var ErrNoData = errors.New("viz: nothing to plot")

const (
	DefaultGraphWidth  = 72
	DefaultGraphHeight = 12
)

// GraphOptions sizes a terminal line chart. Zero values use the defaults.
type GraphOptions struct {
	Width     int
	Height    int
	Caption   string
	Precision uint
}

func (o GraphOptions) options() []asciigraph.Option {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = DefaultGraphWidth
	}
	if h <= 0 {
		h = DefaultGraphHeight
	}
	opts := []asciigraph.Option{asciigraph.Width(w), asciigraph.Height(h)}
	if o.Caption != "" {
		opts = append(opts, asciigraph.Caption(o.Caption))
	}
	if o.Precision > 0 {
		opts = append(opts, asciigraph.Precision(o.Precision))
	}
	return opts
}

// Graph plots ys against their index. Non-finite values are dropped.
func Graph(ys []float64, opts GraphOptions) (string, error) {
	vals := finite(ys)
	if len(vals) == 0 {
		return "", ErrNoData
	}
	return asciigraph.Plot(vals, opts.options()...), nil
}

// GraphMany overlays several series, each resampled to a common length.
func GraphMany(series [][]float64, opts GraphOptions) (string, error) {
	var data [][]float64
	for _, s := range series {
		if v := finite(s); len(v) > 0 {
			data = append(data, v)
		}
	}
	if len(data) == 0 {
		return "", ErrNoData
	}
	o := opts.options()
	if len(data) > 1 {
		colors := []asciigraph.AnsiColor{asciigraph.Cyan, asciigraph.Red, asciigraph.Green, asciigraph.Yellow, asciigraph.Magenta}
		o = append(o, asciigraph.SeriesColors(colors[:min(len(data), len(colors))]...))
	}
	return asciigraph.PlotMany(data, o...), nil
}

// Log10 maps positive values to log10 and everything else to NaN, for
// plotting quantities that span decades.
func Log10(ys []float64) []float64 {
	out := make([]float64, len(ys))
	for i, v := range ys {
		if v > 0 {
			out[i] = math.Log10(v)
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

func finite(ys []float64) []float64 {
	out := make([]float64, 0, len(ys))
	for _, v := range ys {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}
