package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/san-kum/simstats/internal/config"
	"github.com/san-kum/simstats/internal/render"
	"github.com/san-kum/simstats/internal/storage"
	"github.com/san-kum/simstats/internal/viz"
)

var (
	configFile string
	preset     string
	dataDir    string
	outDir     string
	show       bool
	noSave     bool
	theme      string
)

// main registers the analysis commands and exits with status 1 when the
// selected command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "simstats",
		Short:         "analysis and plots for simulation outputs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "apply a named preset before the config file")
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "results store directory")
	pf.StringVar(&outDir, "out", config.DefaultOutDir, "directory for figures and tables")
	pf.BoolVar(&show, "show", false, "also draw terminal charts")
	pf.BoolVar(&noSave, "no-save", false, "do not record the run in the results store")
	pf.StringVar(&theme, "theme", "minimal", "terminal colour theme")

	rootCmd.AddCommand(
		msdCmd(),
		synthCmd(),
		magnetCmd(),
		stationaryCmd(),
		collisionsCmd(),
		pressureCmd(),
		oscillatorCmd(),
		latticeCmd(),
		particlesCmd(),
		listCmd(),
		showCmd(),
		exportJSONCmd(),
		presetsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app is the per-invocation state shared by the analysis commands.
type app struct {
	cfg      *config.Config
	lg       *log.Logger
	renderer *render.Renderer
	store    *storage.Store
}

// setup resolves the configuration (defaults, preset, file, environment,
// then any persistent flag set on the command line) and validates it.
func setup(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Resolve(preset, configFile)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("out") {
		cfg.OutDir = outDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	viz.SetTheme(theme)

	return &app{
		cfg:      cfg,
		lg:       log.New(os.Stderr, "", 0),
		renderer: render.New(cfg.Render.Width, cfg.Render.Height),
		store:    storage.New(cfg.DataDir),
	}, nil
}

// outPath returns name inside the output directory, creating it if needed.
func (a *app) outPath(name string) (string, error) {
	if err := os.MkdirAll(a.cfg.OutDir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(a.cfg.OutDir, name), nil
}

// savePlot renders c to name in the output directory. A chart with nothing
// drawable is logged and skipped.
func (a *app) savePlot(c *render.Chart, name string) error {
	path, err := a.outPath(name)
	if err != nil {
		return err
	}
	if err := a.renderer.Save(c, path); err != nil {
		if errors.Is(err, render.ErrNoPoints) {
			a.lg.Printf("warning: %s: nothing to plot", name)
			return nil
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

// record saves run in the results store unless --no-save is set.
func (a *app) record(run storage.Run) error {
	if noSave {
		return nil
	}
	if err := a.store.Init(); err != nil {
		return err
	}
	id, err := a.store.Save(run)
	if err != nil {
		return err
	}
	fmt.Printf("saved run: %s\n", id)
	return nil
}

// terminal prints an asciigraph chart of series when --show is set.
func (a *app) terminal(caption string, series ...[]float64) {
	if !show {
		return
	}
	out, err := viz.GraphMany(series, viz.GraphOptions{Caption: caption})
	if err != nil {
		a.lg.Printf("warning: %s: %v", caption, err)
		return
	}
	fmt.Println(out)
	fmt.Println()
}

func formatFloats(vs []float64) string {
	s := ""
	for i, v := range vs {
		if i > 0 {
			s += ","
		}
		s += fmt.Sprintf("%g", v)
	}
	return s
}
