package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/san-kum/simstats/internal/config"
	"github.com/san-kum/simstats/internal/magnet"
	"github.com/san-kum/simstats/internal/render"
	"github.com/san-kum/simstats/internal/storage"
	"github.com/san-kum/simstats/internal/tui"
	"github.com/san-kum/simstats/internal/viz"
)

var (
	latticeSize int
	fromStep    int
)

func applySize(cmd *cobra.Command, size *int) {
	if cmd.Flags().Changed("size") {
		*size = latticeSize
	}
}

func magnetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "magnet [glob...]",
		Short: "stationary magnetization and susceptibility per p",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			m := &a.cfg.Magnet
			applySize(cmd, &m.Size)
			patterns := []string{m.Glob}
			if len(args) > 0 {
				patterns = args
			}

			obs, series, err := magnet.AnalyzeGlob(patterns, magnet.Options{
				Size:   m.Size,
				From:   fromStep,
				Logger: a.lg,
			})
			if err != nil {
				return err
			}
			fmt.Println(viz.ObservablesTable(obs))

			path, err := a.outPath("resultados_finales.txt")
			if err != nil {
				return err
			}
			if err := writeFile(path, func(w *bufio.Writer) error { return magnet.WriteSummary(w, obs) }); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)

			if err := a.savePlot(render.MagnetizationChart(series), "evolucion_magnetizacion.png"); err != nil {
				return err
			}
			magChart, chiChart := render.ObservablesCharts(obs)
			if err := a.savePlot(magChart, "resultados_observables.png"); err != nil {
				return err
			}
			if err := a.savePlot(chiChart, "susceptibilidad.png"); err != nil {
				return err
			}

			ps := make([]float64, len(obs))
			mags := make([]float64, len(obs))
			sq := make([]float64, len(obs))
			chi := make([]float64, len(obs))
			for i, o := range obs {
				ps[i], mags[i], sq[i], chi[i] = o.P, o.AvgMag, o.AvgMagSquared, o.Susceptibility
			}
			a.terminal("<|m|> vs p", mags)
			a.terminal("log10 χ vs p", viz.Log10(chi))

			results := map[string]float64{"files": float64(len(obs))}
			if i := argmax(chi); i >= 0 {
				results["p_max_susceptibility"] = ps[i]
				results["max_susceptibility"] = chi[i]
			}
			return a.record(storage.Run{
				Kind:    "magnet",
				Inputs:  patterns,
				Params:  map[string]string{"size": strconv.Itoa(m.Size), "from_step": strconv.Itoa(fromStep)},
				Results: results,
				Series: storage.NewSeries().
					Add("p", ps).
					Add("avg_mag", mags).
					Add("avg_mag_squared", sq).
					Add("susceptibility", chi),
			})
		},
	}
	cmd.Flags().IntVar(&latticeSize, "size", config.DefaultLatticeSize, "lattice side N")
	cmd.Flags().IntVar(&fromStep, "from-step", -1, "first stationary MCS (overrides the file flags)")
	return cmd
}

var (
	interactive    bool
	stationaryStep int
)

func stationaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stationary [file...]",
		Short: "mark the stationary regime of magnetization files",
		Long: "With --step, rewrite the stationary column of each file (1 for mcs >= step).\n" +
			"With --interactive, pick the step per file in a terminal UI.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			applySize(cmd, &a.cfg.Magnet.Size)

			if interactive {
				var series []*magnet.Series
				for _, path := range args {
					s, err := magnet.Load(path, a.lg)
					if err != nil {
						a.lg.Printf("warning: skipping %s: %v", path, err)
						continue
					}
					series = append(series, s)
				}
				return tui.Run(series, a.cfg.Magnet.Size)
			}

			if !cmd.Flags().Changed("step") {
				return fmt.Errorf("stationary: either --step or --interactive is required")
			}
			for _, path := range args {
				n, err := magnet.MarkStationary(path, stationaryStep)
				if err != nil {
					return err
				}
				fmt.Printf("%s: %d rows stationary from mcs %d\n", path, n, stationaryStep)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&stationaryStep, "step", 0, "first stationary MCS")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick the step interactively")
	cmd.Flags().IntVar(&latticeSize, "size", config.DefaultLatticeSize, "lattice side N")
	return cmd
}

func argmax(v []float64) int {
	best := -1
	for i, x := range v {
		if best < 0 || x > v[best] {
			best = i
		}
	}
	return best
}

// writeFile creates path and hands a buffered writer to fill.
func writeFile(path string, fill func(w *bufio.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := fill(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
