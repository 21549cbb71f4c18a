package main

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/simstats/internal/config"
	"github.com/san-kum/simstats/internal/integrators"
	"github.com/san-kum/simstats/internal/oscillator"
	"github.com/san-kum/simstats/internal/render"
	"github.com/san-kum/simstats/internal/storage"
	"github.com/san-kum/simstats/internal/viz"
)

var (
	dts       []float64
	methods   []string
	oscMass   float64
	oscK      float64
	oscGamma  float64
	oscTf     float64
	oscR0     float64
	positions bool
)

func oscillatorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oscillator",
		Short: "damped oscillator integrator comparison",
	}
	cmd.AddCommand(oscillatorRunCmd(), oscillatorPlotCmd())
	return cmd
}

func applyOscillatorFlags(cmd *cobra.Command, o *config.OscillatorConfig) {
	f := cmd.Flags()
	if f.Changed("dt") {
		o.Dts = dts
	}
	if f.Changed("integrators") {
		o.Integrators = methods
	}
	if f.Changed("m") {
		o.Mass = oscMass
	}
	if f.Changed("k") {
		o.K = oscK
	}
	if f.Changed("gamma") {
		o.Gamma = oscGamma
	}
	if f.Changed("tf") {
		o.Tf = oscTf
	}
	if f.Changed("r0") {
		o.R0 = oscR0
	}
}

func oscillatorRunCmd() *cobra.Command {
	defaults := config.DefaultConfig().Oscillator
	cmd := &cobra.Command{
		Use:   "run",
		Short: "integrate with every method and dt, write results and errors",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			o := &a.cfg.Oscillator
			applyOscillatorFlags(cmd, o)
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			p := oscillator.Params{M: o.Mass, K: o.K, Gamma: o.Gamma, Tf: o.Tf, R0: o.R0}

			dir, err := a.outPath("")
			if err != nil {
				return err
			}
			fmt.Printf("integrating %s for %d dt values\n", strings.Join(o.Integrators, ", "), len(o.Dts))
			et, err := oscillator.Sweep(p, o.Dts, o.Integrators, oscillator.SweepOptions{Dir: dir, Logger: a.lg})
			if err != nil {
				return err
			}
			errPath := filepath.Join(dir, oscillator.ErrorsFile)
			if err := oscillator.WriteErrors(errPath, et); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", errPath)
			fmt.Println(viz.ErrorTable(et))

			if err := a.savePlot(render.ErrorsChart(et), "grafico_errores_ecm.png"); err != nil {
				return err
			}
			results := errorResults(et)
			if positions && len(o.Dts) > 0 {
				dt := slices.Max(o.Dts)
				run, err := oscillator.Run(p, dt, o.Integrators)
				if err != nil {
					return err
				}
				if err := a.savePlot(render.PositionsChart(run), positionsName(dt)); err != nil {
					return err
				}
				freqs, err := oscillator.EstimateFrequencies(p, run)
				if err != nil {
					a.lg.Printf("warning: frequency estimate: %v", err)
				} else {
					metrics := []viz.Metric{
						{Label: "expected", Value: fmt.Sprintf("%.4f rad/s", freqs.Expected)},
						{Label: "analytic", Value: fmt.Sprintf("%.4f rad/s", freqs.Analytic)},
					}
					results["omega_expected"] = freqs.Expected
					for j, m := range run.Methods {
						metrics = append(metrics, viz.Metric{Label: m, Value: fmt.Sprintf("%.4f rad/s", freqs.Methods[j])})
						results["omega_"+m] = freqs.Methods[j]
					}
					fmt.Println(viz.MetricsPanel(fmt.Sprintf("dominant frequency, dt=%g", dt), metrics))
				}
			}

			if show {
				series := make([][]float64, 0, len(et.Methods))
				for _, m := range et.Methods {
					col, _ := et.Column(m)
					series = append(series, viz.Log10(col))
				}
				a.terminal("log10 MSE per method, dt descending", series...)
			}

			return a.record(storage.Run{
				Kind:    "oscillator",
				Inputs:  []string{dir},
				Params:  oscillatorParams(o),
				Results: results,
				Series:  errorSeries(et),
			})
		},
	}
	f := cmd.Flags()
	f.Float64SliceVar(&dts, "dt", defaults.Dts, "time steps")
	f.StringSliceVar(&methods, "integrators", defaults.Integrators, "methods: "+strings.Join(integrators.Names(), ", "))
	f.Float64Var(&oscMass, "m", defaults.Mass, "mass")
	f.Float64Var(&oscK, "k", defaults.K, "spring constant")
	f.Float64Var(&oscGamma, "gamma", defaults.Gamma, "damping coefficient")
	f.Float64Var(&oscTf, "tf", defaults.Tf, "final time")
	f.Float64Var(&oscR0, "r0", defaults.R0, "initial position")
	f.BoolVar(&positions, "positions", true, "plot positions for the largest dt")
	return cmd
}

func oscillatorPlotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plot [dir]",
		Short: "plot errors and positions from existing result files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			dir := a.cfg.OutDir
			if len(args) > 0 {
				dir = args[0]
			}

			et, err := oscillator.ReadErrors(filepath.Join(dir, oscillator.ErrorsFile), a.lg)
			if err != nil {
				return err
			}
			fmt.Println(viz.ErrorTable(et))
			if err := a.savePlot(render.ErrorsChart(et), "grafico_errores_ecm.png"); err != nil {
				return err
			}

			files, err := filepath.Glob(filepath.Join(dir, "resultados_dt_*.csv"))
			if err != nil {
				return err
			}
			for _, path := range files {
				run, err := oscillator.ReadResults(path, a.lg)
				if err != nil {
					a.lg.Printf("warning: skipping %s: %v", path, err)
					continue
				}
				label := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(path), "resultados_dt_"), ".csv")
				if err := a.savePlot(render.PositionsChart(run), "grafico_posiciones_"+label+".png"); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func positionsName(dt float64) string {
	label := strings.TrimSuffix(strings.TrimPrefix(oscillator.ResultsFile(dt), "resultados_dt_"), ".csv")
	return "grafico_posiciones_" + label + ".png"
}

func oscillatorParams(o *config.OscillatorConfig) map[string]string {
	return map[string]string{
		"m":           fmt.Sprint(o.Mass),
		"k":           fmt.Sprint(o.K),
		"gamma":       fmt.Sprint(o.Gamma),
		"tf":          fmt.Sprint(o.Tf),
		"r0":          fmt.Sprint(o.R0),
		"dts":         formatFloats(o.Dts),
		"integrators": strings.Join(o.Integrators, ","),
	}
}

func errorResults(et *oscillator.ErrorTable) map[string]float64 {
	res := make(map[string]float64)
	for i, dt := range et.Dt {
		for j, m := range et.Methods {
			res[fmt.Sprintf("ecm_%s_dt%.0e", m, dt)] = et.MSE[i][j]
		}
	}
	return res
}

func errorSeries(et *oscillator.ErrorTable) *storage.Series {
	s := storage.NewSeries().Add("dt", et.Dt)
	for _, m := range et.Methods {
		col, _ := et.Column(m)
		s.Add("ecm_"+m, col)
	}
	return s
}
