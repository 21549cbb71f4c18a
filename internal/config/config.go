package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/simstats/internal/trajectory"
)

const (
	DefaultDataDir     = "./data"
	DefaultOutDir      = "."
	DefaultWidthCm     = 16.0
	DefaultHeightCm    = 10.0
	DefaultPoints      = 100
	DefaultSweepPoints = 100
	DefaultTolerance   = 0.1
	DefaultLatticeSize = 50
	DefaultEventDt     = 0.01
	DefaultLimit       = 200
	DefaultBlocks      = 10
	DefaultFPS         = 5
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	DataDir string `yaml:"data_dir" env:"DATA"`
	OutDir  string `yaml:"out_dir" env:"OUT"`

	Render     RenderConfig     `yaml:"render"`
	Diffusion  DiffusionConfig  `yaml:"diffusion"`
	Magnet     MagnetConfig     `yaml:"magnet"`
	Collision  CollisionConfig  `yaml:"collision"`
	Oscillator OscillatorConfig `yaml:"oscillator"`
	Lattice    LatticeConfig    `yaml:"lattice"`
}

// RenderConfig sizes PNG figures in centimetres.
type RenderConfig struct {
	Width  float64 `yaml:"width" env:"WIDTH"`
	Height float64 `yaml:"height" env:"HEIGHT"`
}

type DiffusionConfig struct {
	Glob        []string          `yaml:"glob"`
	Layout      trajectory.Layout `yaml:"layout"`
	Cutoff      float64           `yaml:"cutoff"`
	Points      int               `yaml:"points"`
	TMin        float64           `yaml:"tmin"`
	TMax        float64           `yaml:"tmax"`
	SweepPoints int               `yaml:"sweep_points"`
	SweepMax    float64           `yaml:"sweep_max"`
	Refine      bool              `yaml:"refine"`
	Tolerance   float64           `yaml:"tolerance"`
}

type MagnetConfig struct {
	Glob string `yaml:"glob"`
	Size int    `yaml:"size"`
}

type CollisionConfig struct {
	Velocities []float64 `yaml:"velocities"`
	Mass       float64   `yaml:"mass"`
	EventDt    float64   `yaml:"event_dt"`
	Limit      float64   `yaml:"limit"`
	Blocks     int       `yaml:"blocks"`
	PressureT0 float64   `yaml:"pressure_t0"`
}

type OscillatorConfig struct {
	Mass        float64   `yaml:"mass"`
	K           float64   `yaml:"k"`
	Gamma       float64   `yaml:"gamma"`
	Tf          float64   `yaml:"tf"`
	R0          float64   `yaml:"r0"`
	Dts         []float64 `yaml:"dts"`
	Integrators []string  `yaml:"integrators"`
}

type LatticeConfig struct {
	Size            int     `yaml:"size"`
	FPS             int     `yaml:"fps"`
	Scale           int     `yaml:"scale"`
	ContainerRadius float64 `yaml:"container_radius"`
	ObstacleRadius  float64 `yaml:"obstacle_radius"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir: DefaultDataDir,
		OutDir:  DefaultOutDir,
		Render: RenderConfig{
			Width:  DefaultWidthCm,
			Height: DefaultHeightCm,
		},
		Diffusion: DiffusionConfig{
			Glob:        []string{"special_collisions_*.txt"},
			Layout:      trajectory.DefaultLayout,
			Points:      DefaultPoints,
			SweepPoints: DefaultSweepPoints,
			Tolerance:   DefaultTolerance,
		},
		Magnet: MagnetConfig{
			Glob: "magnetizacion_p*.txt",
			Size: DefaultLatticeSize,
		},
		Collision: CollisionConfig{
			Velocities: []float64{1, 3, 6, 10},
			Mass:       1,
			EventDt:    DefaultEventDt,
			Limit:      DefaultLimit,
			Blocks:     DefaultBlocks,
		},
		Oscillator: OscillatorConfig{
			Mass:        70,
			K:           10000,
			Gamma:       100,
			Tf:          5,
			R0:          1,
			Dts:         []float64{1e-2, 1e-3, 1e-4, 1e-5, 1e-6},
			Integrators: []string{"verlet", "beeman", "gear5"},
		},
		Lattice: LatticeConfig{
			Size:            DefaultLatticeSize,
			FPS:             DefaultFPS,
			Scale:           8,
			ContainerRadius: 0.05,
			ObstacleRadius:  0.005,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides fields from SIMSTATS_* environment variables.
func (c *Config) ApplyEnv() error {
	return env.ParseWithOptions(c, env.Options{Prefix: "SIMSTATS_"})
}

// Resolve builds the effective configuration: defaults, then the named
// preset, then the file at path, then the environment. Empty arguments are
// skipped.
func Resolve(preset, path string) (*Config, error) {
	cfg := DefaultConfig()
	if preset != "" {
		p, err := ApplyPreset(cfg, preset)
		if err != nil {
			return nil, err
		}
		cfg = p
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("%w: figure size %gx%g", ErrInvalid, c.Render.Width, c.Render.Height)
	}
	d := c.Diffusion
	if d.Points < 2 {
		return fmt.Errorf("%w: diffusion points %d < 2", ErrInvalid, d.Points)
	}
	if d.SweepPoints < 2 {
		return fmt.Errorf("%w: sweep points %d < 2", ErrInvalid, d.SweepPoints)
	}
	if d.TMax > 0 && d.TMin >= d.TMax {
		return fmt.Errorf("%w: fit window [%g, %g]", ErrInvalid, d.TMin, d.TMax)
	}
	if c.Magnet.Size <= 0 || c.Lattice.Size <= 0 {
		return fmt.Errorf("%w: lattice size must be positive", ErrInvalid)
	}
	if c.Collision.Mass <= 0 || c.Collision.EventDt <= 0 || c.Collision.Blocks < 1 {
		return fmt.Errorf("%w: collision mass, event dt and blocks must be positive", ErrInvalid)
	}
	if c.Lattice.FPS <= 0 || c.Lattice.Scale <= 0 {
		return fmt.Errorf("%w: lattice fps and scale must be positive", ErrInvalid)
	}
	o := c.Oscillator
	if o.Mass <= 0 || o.K <= 0 || o.Gamma < 0 || o.Tf <= 0 {
		return fmt.Errorf("%w: oscillator m=%g k=%g gamma=%g tf=%g", ErrInvalid, o.Mass, o.K, o.Gamma, o.Tf)
	}
	if o.K/o.Mass <= o.Gamma*o.Gamma/(4*o.Mass*o.Mass) {
		return fmt.Errorf("%w: oscillator is not underdamped", ErrInvalid)
	}
	for _, dt := range o.Dts {
		if dt <= 0 {
			return fmt.Errorf("%w: non-positive dt %g", ErrInvalid, dt)
		}
	}
	return nil
}
