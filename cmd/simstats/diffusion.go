package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/simstats/internal/config"
	"github.com/san-kum/simstats/internal/diffusion"
	"github.com/san-kum/simstats/internal/render"
	"github.com/san-kum/simstats/internal/storage"
	"github.com/san-kum/simstats/internal/trajectory"
	"github.com/san-kum/simstats/internal/viz"
)

var (
	cutoff      float64
	points      int
	tmin        float64
	tmax        float64
	sweepPoints int
	sweepMax    float64
	refine      bool
	tolerance   float64
	layout      string
)

func addFitFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&cutoff, "cutoff", 0, "ignore samples after this time (0 keeps all)")
	f.IntVar(&points, "points", config.DefaultPoints, "reference grid points")
	f.Float64Var(&tmin, "tmin", 0, "fit window start")
	f.Float64Var(&tmax, "tmax", 0, "fit window end (0 leaves it open)")
	f.IntVar(&sweepPoints, "sweep-points", config.DefaultSweepPoints, "candidate D values in the sweep")
	f.Float64Var(&sweepMax, "sweep-max", 0, "upper end of the D sweep (0 uses twice the through-origin estimate)")
	f.BoolVar(&refine, "refine", false, "refine the sweep minimum with Nelder-Mead")
	f.Float64Var(&tolerance, "tolerance", config.DefaultTolerance, "relative disagreement that triggers a warning")
}

// applyFitFlags copies the fit flags given on the command line into cfg.
func applyFitFlags(cmd *cobra.Command, d *config.DiffusionConfig) error {
	f := cmd.Flags()
	if f.Changed("cutoff") {
		d.Cutoff = cutoff
	}
	if f.Changed("points") {
		d.Points = points
	}
	if f.Changed("tmin") {
		d.TMin = tmin
	}
	if f.Changed("tmax") {
		d.TMax = tmax
	}
	if f.Changed("sweep-points") {
		d.SweepPoints = sweepPoints
	}
	if f.Changed("sweep-max") {
		d.SweepMax = sweepMax
	}
	if f.Changed("refine") {
		d.Refine = refine
	}
	if f.Changed("tolerance") {
		d.Tolerance = tolerance
	}
	if f.Changed("layout") {
		l, err := parseLayout(layout)
		if err != nil {
			return err
		}
		d.Layout = l
	}
	return nil
}

// parseLayout reads "time,x,y" zero-based column indices.
func parseLayout(s string) (trajectory.Layout, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return trajectory.Layout{}, fmt.Errorf("layout %q: want time,x,y", s)
	}
	var cols [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 {
			return trajectory.Layout{}, fmt.Errorf("layout %q: bad column %q", s, p)
		}
		cols[i] = v
	}
	return trajectory.Layout{Time: cols[0], X: cols[1], Y: cols[2]}, nil
}

func msdCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "msd [glob...]",
		Short: "mean squared displacement and diffusion coefficient",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			d := &a.cfg.Diffusion
			if err := applyFitFlags(cmd, d); err != nil {
				return err
			}
			patterns := d.Glob
			if len(args) > 0 {
				patterns = args
			}

			trajs, err := trajectory.LoadGlob(patterns, d.Layout, trajectory.Options{Cutoff: d.Cutoff, Logger: a.lg})
			if err != nil {
				return err
			}
			fmt.Printf("loaded %d trajectories\n", len(trajs))
			return a.fitMSD("msd", trajs, patterns)
		},
	}
	addFitFlags(cmd)
	cmd.Flags().StringVar(&layout, "layout", "5,1,2", "zero-based time,x,y columns")
	return cmd
}

var (
	synthD     float64
	synthN     int
	synthSteps int
	synthDt    float64
	irregular  bool
	seed       uint64
	writeDir   string
)

func synthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "synth",
		Short: "fit D on synthetic random walks with a known coefficient",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			if err := applyFitFlags(cmd, &a.cfg.Diffusion); err != nil {
				return err
			}

			trajs, err := diffusion.Synthesize(diffusion.SynthOptions{
				D:            synthD,
				Trajectories: synthN,
				Steps:        synthSteps,
				Dt:           synthDt,
				Irregular:    irregular,
				Seed:         seed,
			})
			if err != nil {
				return err
			}
			if a.cfg.Diffusion.Cutoff > 0 {
				for _, tr := range trajs {
					tr.Truncate(a.cfg.Diffusion.Cutoff)
				}
			}
			if writeDir != "" {
				if err := writeTrajectories(writeDir, trajs); err != nil {
					return err
				}
				fmt.Printf("wrote %d trajectories to %s\n", len(trajs), writeDir)
			}
			fmt.Printf("generated %d walks with D=%g\n", len(trajs), synthD)
			return a.fitMSD("synth", trajs, []string{fmt.Sprintf("synthetic:D=%g,seed=%d", synthD, seed)})
		},
	}
	addFitFlags(cmd)
	f := cmd.Flags()
	f.Float64Var(&synthD, "d", 1e-3, "diffusion coefficient of the walks")
	f.IntVar(&synthN, "trajectories", 200, "number of walks")
	f.IntVar(&synthSteps, "steps", 500, "steps per walk")
	f.Float64Var(&synthDt, "dt", 1e-2, "mean time step")
	f.BoolVar(&irregular, "irregular", false, "exponentially distributed time steps")
	f.Uint64Var(&seed, "seed", 1, "random seed")
	f.StringVar(&writeDir, "write", "", "also write the walks as trajectory files into this directory")
	return cmd
}

// fitMSD aggregates, fits, plots and records a diffusion run.
func (a *app) fitMSD(kind string, trajs []*trajectory.Trajectory, inputs []string) error {
	d := a.cfg.Diffusion
	curve, err := diffusion.Aggregate(trajs, diffusion.AggregateOptions{
		Points: d.Points,
		Cutoff: d.Cutoff,
		Logger: a.lg,
	})
	if err != nil {
		return err
	}
	fit, err := diffusion.Fit(curve, diffusion.FitOptions{
		TMin:        d.TMin,
		TMax:        d.TMax,
		SweepPoints: d.SweepPoints,
		SweepMax:    d.SweepMax,
		Refine:      d.Refine,
		Tolerance:   d.Tolerance,
		Logger:      a.lg,
	})
	if err != nil {
		return err
	}

	fmt.Println(viz.FitSummary(fit))
	a.terminal("MSD vs t", curve.MSD)

	if err := a.savePlot(render.MSDChart(curve, fit), "coeficiente_difusion.png"); err != nil {
		return err
	}
	if err := a.savePlot(render.SweepChart(fit), "error_vs_d.png"); err != nil {
		return err
	}

	return a.record(storage.Run{
		Kind:   kind,
		Inputs: inputs,
		Params: map[string]string{
			"points":       strconv.Itoa(d.Points),
			"cutoff":       fmt.Sprint(d.Cutoff),
			"tmin":         fmt.Sprint(d.TMin),
			"tmax":         fmt.Sprint(d.TMax),
			"sweep_points": strconv.Itoa(d.SweepPoints),
			"refine":       strconv.FormatBool(d.Refine),
		},
		Results: map[string]float64{
			"d":            fit.D,
			"d_err":        fit.DErr,
			"d_origin":     fit.DOrigin,
			"d_sweep":      fit.DSweep,
			"min_error":    fit.MinError,
			"intercept":    fit.Intercept,
			"r2":           fit.R2,
			"trajectories": float64(curve.Trajectories),
		},
		Series: storage.NewSeries().
			Add("t", curve.T).
			Add("msd", curve.MSD).
			Add("stderr", curve.StdErr),
	})
}

// writeTrajectories writes each walk in the default "collision_num x y vx
// vy time" layout so msd can read them back.
func writeTrajectories(dir string, trajs []*trajectory.Trajectory) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for i, tr := range trajs {
		f, err := os.Create(filepath.Join(dir, fmt.Sprintf("special_collisions_%03d.txt", i)))
		if err != nil {
			return err
		}
		w := bufio.NewWriter(f)
		for j := range tr.T {
			fmt.Fprintf(w, "%d %.10g %.10g 0 0 %.10g\n", j, tr.X[j], tr.Y[j], tr.T[j])
		}
		if err := w.Flush(); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
