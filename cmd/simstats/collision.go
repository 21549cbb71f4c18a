package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/san-kum/simstats/internal/collision"
	"github.com/san-kum/simstats/internal/config"
	"github.com/san-kum/simstats/internal/render"
	"github.com/san-kum/simstats/internal/storage"
	"github.com/san-kum/simstats/internal/viz"
)

var (
	velocities []float64
	mass       float64
	eventDt    float64
	limit      float64
	blocks     int
	pressureT0 float64
)

func addCollisionFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64SliceVar(&velocities, "v", nil, "initial speeds (default from config)")
	f.Float64Var(&mass, "mass", 1, "particle mass")
}

func applyCollisionFlags(cmd *cobra.Command, c *config.CollisionConfig) {
	f := cmd.Flags()
	if f.Changed("v") {
		c.Velocities = velocities
	}
	if f.Changed("mass") {
		c.Mass = mass
	}
	if f.Changed("event-dt") {
		c.EventDt = eventDt
	}
	if f.Changed("limit") {
		c.Limit = limit
	}
	if f.Changed("blocks") {
		c.Blocks = blocks
	}
	if f.Changed("t0") {
		c.PressureT0 = pressureT0
	}
}

func inputDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

func collisionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collisions [dir]",
		Short: "collision frequency vs temperature",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			c := &a.cfg.Collision
			applyCollisionFlags(cmd, c)
			dir := inputDir(args)

			pts, err := collision.AnalyzeCounts(dir, c.Velocities, collision.Options{
				Mass:    c.Mass,
				EventDt: c.EventDt,
				Blocks:  c.Blocks,
				Logger:  a.lg,
			})
			if err != nil {
				return err
			}
			fmt.Println(viz.FrequencyTable(pts))

			if err := a.savePlot(render.FrequencyChart(pts), "frecuencia_vs_temperatura.png"); err != nil {
				return err
			}
			if err := a.savePlot(render.CollisionsChart(pts, c.Limit), "collisions_evolution.png"); err != nil {
				return err
			}

			vs := make([]float64, len(pts))
			temps := make([]float64, len(pts))
			freq := make([]float64, len(pts))
			std := make([]float64, len(pts))
			for i, p := range pts {
				vs[i], temps[i], freq[i], std[i] = p.V, p.Temperature, p.Freq, p.FreqStd
			}
			a.terminal("collision frequency vs T", freq)

			return a.record(storage.Run{
				Kind:   "collisions",
				Inputs: []string{dir},
				Params: map[string]string{
					"velocities": formatFloats(c.Velocities),
					"mass":       fmt.Sprint(c.Mass),
					"event_dt":   fmt.Sprint(c.EventDt),
					"blocks":     fmt.Sprint(c.Blocks),
				},
				Results: map[string]float64{"speeds": float64(len(pts))},
				Series: storage.NewSeries().
					Add("v", vs).
					Add("temperature", temps).
					Add("frequency", freq).
					Add("frequency_std", std),
			})
		},
	}
	addCollisionFlags(cmd)
	f := cmd.Flags()
	f.Float64Var(&eventDt, "event-dt", config.DefaultEventDt, "time per event when the file has no time column")
	f.Float64Var(&limit, "limit", config.DefaultLimit, "first-collision count that ends the curve")
	f.IntVar(&blocks, "blocks", config.DefaultBlocks, "blocks for the frequency uncertainty")
	return cmd
}

func pressureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pressure [dir]",
		Short: "stationary pressure vs temperature",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			c := &a.cfg.Collision
			applyCollisionFlags(cmd, c)
			dir := inputDir(args)

			pts, err := collision.AnalyzePressure(dir, c.Velocities, c.PressureT0, collision.Options{
				Mass:   c.Mass,
				Logger: a.lg,
			})
			if err != nil {
				return err
			}
			fmt.Println(viz.PressureTable(pts))

			if err := a.savePlot(render.PressureChart(pts), "presion_vs_temperatura.png"); err != nil {
				return err
			}
			for _, p := range pts {
				name := fmt.Sprintf("presion_tiempo_v%g.png", p.V)
				if err := a.savePlot(render.PressureSeriesChart(p.Series), name); err != nil {
					return err
				}
			}

			vs := make([]float64, len(pts))
			temps := make([]float64, len(pts))
			mean := make([]float64, len(pts))
			std := make([]float64, len(pts))
			for i, p := range pts {
				vs[i], temps[i], mean[i], std[i] = p.V, p.Temperature, p.Mean, p.Std
			}
			a.terminal("mean pressure vs T", mean)

			return a.record(storage.Run{
				Kind:   "pressure",
				Inputs: []string{dir},
				Params: map[string]string{
					"velocities": formatFloats(c.Velocities),
					"mass":       fmt.Sprint(c.Mass),
					"t0":         fmt.Sprint(c.PressureT0),
				},
				Results: map[string]float64{"speeds": float64(len(pts))},
				Series: storage.NewSeries().
					Add("v", vs).
					Add("temperature", temps).
					Add("pressure", mean).
					Add("pressure_std", std),
			})
		},
	}
	addCollisionFlags(cmd)
	cmd.Flags().Float64Var(&pressureT0, "t0", 0, "discard samples before this time")
	return cmd
}
