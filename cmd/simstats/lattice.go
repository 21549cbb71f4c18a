package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/simstats/internal/lattice"
	"github.com/san-kum/simstats/internal/storage"
)

var (
	propsFile  string
	fps        int
	scale      int
	frameMCS   int
	containerR float64
	obstacleR  float64
	gifName    string
)

func latticeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lattice <results-file>",
		Short: "animate spin lattice frames and draw a heatmap",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			l := &a.cfg.Lattice
			f := cmd.Flags()
			switch {
			case f.Changed("size"):
				l.Size = latticeSize
			case propsFile != "":
				n, err := lattice.ReadSize(propsFile)
				if err != nil {
					return err
				}
				l.Size = n
			}
			if f.Changed("fps") {
				l.FPS = fps
			}
			if f.Changed("scale") {
				l.Scale = scale
			}

			frames, err := lattice.LoadFrames(args[0], l.Size, a.lg)
			if err != nil {
				return err
			}
			fmt.Printf("loaded %d frames of %dx%d\n", len(frames), l.Size, l.Size)

			mcs := make([]float64, len(frames))
			mag := make([]float64, len(frames))
			for i, fr := range frames {
				mcs[i], mag[i] = float64(fr.MCS), fr.Magnetization()
			}
			a.terminal("frame magnetization", mag)

			name := gifName
			if name == "" {
				name = "lattice.gif"
			}
			if err := a.writeGIF(name, func(w *os.File) error {
				return lattice.EncodeFramesGIF(w, frames, l.Scale, l.FPS)
			}); err != nil {
				return err
			}

			target := frames[len(frames)-1]
			if f.Changed("frame") {
				target = lattice.FindFrame(frames, frameMCS)
				if target == nil {
					return fmt.Errorf("no frame at mcs %d: %w", frameMCS, lattice.ErrNoFrames)
				}
			}
			path, err := a.outPath(fmt.Sprintf("lattice_mcs%d.png", target.MCS))
			if err != nil {
				return err
			}
			if err := a.renderer.SaveHeatMap(target, path); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)

			return a.record(storage.Run{
				Kind:   "lattice",
				Inputs: []string{args[0]},
				Params: map[string]string{"size": fmt.Sprint(l.Size), "fps": fmt.Sprint(l.FPS)},
				Results: map[string]float64{
					"frames":              float64(len(frames)),
					"final_magnetization": mag[len(mag)-1],
				},
				Series: storage.NewSeries().Add("mcs", mcs).Add("magnetization", mag),
			})
		},
	}
	f := cmd.Flags()
	f.IntVar(&latticeSize, "size", 0, "lattice side N (default from config or --props)")
	f.StringVar(&propsFile, "props", "", "simulator .properties file holding N")
	f.IntVar(&fps, "fps", 0, "animation frames per second")
	f.IntVar(&scale, "scale", 0, "pixels per spin")
	f.IntVar(&frameMCS, "frame", 0, "MCS of the frame drawn as a heatmap (default last)")
	f.StringVar(&gifName, "gif", "", "animation file name")
	return cmd
}

func particlesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "particles <snapshots-file>",
		Short: "animate particle snapshots inside the circular container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			l := &a.cfg.Lattice
			f := cmd.Flags()
			if f.Changed("fps") {
				l.FPS = fps
			}
			if f.Changed("container") {
				l.ContainerRadius = containerR
			}
			if f.Changed("obstacle") {
				l.ObstacleRadius = obstacleR
			}

			snaps, err := lattice.LoadSnapshots(args[0], a.lg)
			if err != nil {
				return err
			}
			fmt.Printf("loaded %d snapshots\n", len(snaps))

			name := gifName
			if name == "" {
				name = "particles.gif"
			}
			return a.writeGIF(name, func(w *os.File) error {
				return lattice.EncodeSnapshotsGIF(w, snaps, lattice.Scene{
					ContainerRadius: l.ContainerRadius,
					ObstacleRadius:  l.ObstacleRadius,
					FPS:             l.FPS,
				})
			})
		},
	}
	f := cmd.Flags()
	f.IntVar(&fps, "fps", 0, "animation frames per second")
	f.Float64Var(&containerR, "container", 0, "container radius")
	f.Float64Var(&obstacleR, "obstacle", 0, "obstacle radius")
	f.StringVar(&gifName, "gif", "", "animation file name")
	return cmd
}

// writeGIF creates name in the output directory and encodes into it.
func (a *app) writeGIF(name string, encode func(w *os.File) error) error {
	if !strings.HasSuffix(name, ".gif") {
		name += ".gif"
	}
	path, err := a.outPath(name)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("%s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
