package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/san-kum/simstats/internal/collision"
	"github.com/san-kum/simstats/internal/diffusion"
	"github.com/san-kum/simstats/internal/magnet"
	"github.com/san-kum/simstats/internal/oscillator"
)

var (
	red  = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	blue = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
)

// MSDChart plots the curve with standard errors and both least-squares
// lines.
func MSDChart(curve *diffusion.Curve, fit *diffusion.FitResult) *Chart {
	c := &Chart{
		Title:  fmt.Sprintf("MSD over %d trajectories", curve.Trajectories),
		XLabel: "t (s)",
		YLabel: "MSD (m²)",
		Series: []Series{{Name: "MSD", X: curve.T, Y: curve.MSD, YErr: curve.StdErr, Points: true, Color: blue}},
	}
	if fit != nil {
		c.Funcs = append(c.Funcs,
			Func{
				Name:  fmt.Sprintf("4Dt + b, D=%.3e ± %.1e", fit.D, fit.DErr),
				F:     func(t float64) float64 { return 4*fit.D*t + fit.Intercept },
				Color: red,
			},
			Func{
				Name:   fmt.Sprintf("4Dt, D=%.3e", fit.DOrigin),
				F:      func(t float64) float64 { return 4 * fit.DOrigin * t },
				Dashed: true,
			},
		)
	}
	return c
}

// SweepChart plots the mean squared fit error against candidate D.
func SweepChart(fit *diffusion.FitResult) *Chart {
	return &Chart{
		Title:  fmt.Sprintf("fit error, minimum at D=%.3e", fit.DSweep),
		XLabel: "D (m²/s)",
		YLabel: "E(D)",
		Series: []Series{
			{Name: "E(D)", X: fit.SweepD, Y: fit.SweepError},
			{Name: "minimum", X: []float64{fit.DSweep}, Y: []float64{fit.MinError}, Points: true, Color: red},
		},
	}
}

// MagnetizationChart plots |M| against MCS for every p.
func MagnetizationChart(series []*magnet.Series) *Chart {
	c := &Chart{Title: "magnetization", XLabel: "MCS", YLabel: "|M|"}
	for _, s := range series {
		abs := make([]float64, len(s.Mag))
		for i, m := range s.Mag {
			abs[i] = math.Abs(m)
		}
		c.Series = append(c.Series, Series{Name: fmt.Sprintf("p = %g", s.P), X: s.MCS, Y: abs})
	}
	return c
}

// ObservablesCharts plots <|M|> and the susceptibility (log axis) against p.
func ObservablesCharts(obs []magnet.Observables) (*Chart, *Chart) {
	p := make([]float64, len(obs))
	m := make([]float64, len(obs))
	chi := make([]float64, len(obs))
	for i, o := range obs {
		p[i], m[i], chi[i] = o.P, o.AvgMag, o.Susceptibility
	}
	mag := &Chart{
		Title: "stationary magnetization", XLabel: "p", YLabel: "<|M|>",
		Series: []Series{{X: p, Y: m, Color: blue}, {X: p, Y: m, Points: true, Color: blue}},
	}
	susc := &Chart{
		Title: "susceptibility", XLabel: "p", YLabel: "χ", LogY: true,
		Series: []Series{{X: p, Y: chi, Color: red}, {X: p, Y: chi, Points: true, Color: red}},
	}
	return mag, susc
}

// FrequencyChart plots collision frequency against temperature.
func FrequencyChart(points []collision.Point) *Chart {
	t := make([]float64, len(points))
	f := make([]float64, len(points))
	e := make([]float64, len(points))
	for i, p := range points {
		t[i], f[i], e[i] = p.Temperature, p.Freq, p.FreqStd
	}
	return &Chart{
		Title: "obstacle collision frequency", XLabel: "T", YLabel: "collisions/s",
		Series: []Series{{X: t, Y: f, YErr: e, Points: true}},
	}
}

// CollisionsChart plots cumulative collisions against time, one curve per
// speed. With limit > 0 only first collisions up to limit are shown.
func CollisionsChart(points []collision.Point, limit float64) *Chart {
	c := &Chart{Title: "obstacle collisions", XLabel: "t (s)", YLabel: "collisions"}
	if limit > 0 {
		c.Title = "particles that hit the obstacle"
		c.YLabel = "particles"
	}
	for _, p := range points {
		x, y := p.Counts.Time, p.Counts.All
		if limit > 0 {
			x, y = p.Counts.FirstCurve(limit)
		}
		c.Series = append(c.Series, Series{Name: fmt.Sprintf("v=%g m/s", p.V), X: x, Y: y})
	}
	return c
}

// PressureChart plots mean total pressure against temperature.
func PressureChart(points []collision.PressurePoint) *Chart {
	t := make([]float64, len(points))
	m := make([]float64, len(points))
	e := make([]float64, len(points))
	for i, p := range points {
		t[i], m[i], e[i] = p.Temperature, p.Mean, p.Std
	}
	return &Chart{
		Title: "pressure", XLabel: "T", YLabel: "P (N/m)",
		Series: []Series{{X: t, Y: m, YErr: e, Points: true}},
	}
}

// PressureSeriesChart plots obstacle and wall pressure against time.
func PressureSeriesChart(p *collision.Pressure) *Chart {
	return &Chart{
		Title: "pressure", XLabel: "t (s)", YLabel: "P (N/m)",
		Series: []Series{
			{Name: "obstacle", X: p.Time, Y: p.Obstacle, Color: color.RGBA{R: 0xff, G: 0x8b, B: 0x1f, A: 0xff}},
			{Name: "walls", X: p.Time, Y: p.Walls, Color: color.RGBA{R: 0x1f, G: 0x80, B: 0xff, A: 0xff}},
		},
	}
}

// PositionsChart plots every method against the dashed analytic solution.
func PositionsChart(run *oscillator.Comparison) *Chart {
	c := &Chart{
		Title:  fmt.Sprintf("damped oscillator, dt=%.0e", run.Dt),
		XLabel: "t (s)",
		YLabel: "r (m)",
		Series: []Series{{Name: "analytic", X: run.T, Y: run.Analytic, Dashed: true, Color: color.Black}},
	}
	for i, name := range run.Methods {
		c.Series = append(c.Series, Series{Name: name, X: run.T, Y: run.Positions[i]})
	}
	return c
}

// ErrorsChart plots mean squared error against dt on log-log axes.
func ErrorsChart(et *oscillator.ErrorTable) *Chart {
	c := &Chart{Title: "mean squared error", XLabel: "dt (s)", YLabel: "MSE", LogX: true, LogY: true}
	for _, name := range et.Methods {
		mse, _ := et.Column(name)
		c.Series = append(c.Series,
			Series{Name: name, X: et.Dt, Y: mse},
		)
	}
	return c
}
