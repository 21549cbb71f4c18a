package config

import (
	"fmt"
	"sort"
)

// Preset adjusts a configuration for a recurring analysis.
type Preset struct {
	Description string
	Apply       func(*Config)
}

var Presets = map[string]Preset{
	"msd-long": {
		Description: "MSD up to 2 s, least-squares fit for t >= 0.425 s",
		Apply: func(c *Config) {
			c.Diffusion.Cutoff = 2.0
			c.Diffusion.TMin = 0.425
			c.Diffusion.TMax = 0
		},
	},
	"msd-short": {
		Description: "MSD up to 2 s, fit window t <= 0.425 s",
		Apply: func(c *Config) {
			c.Diffusion.Cutoff = 2.0
			c.Diffusion.TMin = 0
			c.Diffusion.TMax = 0.425
		},
	},
	"msd-refined": {
		Description: "MSD fit with a fine sweep and Nelder-Mead refinement",
		Apply: func(c *Config) {
			c.Diffusion.Cutoff = 2.0
			c.Diffusion.SweepPoints = 1000
			c.Diffusion.Refine = true
		},
	},
	"oscillator-quick": {
		Description: "integrator comparison down to dt = 1e-4",
		Apply: func(c *Config) {
			c.Oscillator.Dts = []float64{1e-2, 1e-3, 1e-4}
		},
	},
	"oscillator-all": {
		Description: "every integrator, including rk4 and euler",
		Apply: func(c *Config) {
			c.Oscillator.Integrators = []string{"verlet", "beeman", "gear5", "rk4", "euler"}
		},
	},
	"ising-small": {
		Description: "20x20 spin lattice",
		Apply: func(c *Config) {
			c.Magnet.Size = 20
			c.Lattice.Size = 20
			c.Lattice.Scale = 16
		},
	},
	"collisions-fine": {
		Description: "finer event spacing and 20 frequency blocks",
		Apply: func(c *Config) {
			c.Collision.EventDt = 0.001
			c.Collision.Blocks = 20
		},
	},
}

// ApplyPreset applies the named preset to cfg and returns it.
func ApplyPreset(cfg *Config, name string) (*Config, error) {
	p, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown preset %q", ErrInvalid, name)
	}
	p.Apply(cfg)
	return cfg, nil
}

// GetPreset returns the default configuration with the named preset applied,
// or nil when there is no such preset.
func GetPreset(name string) *Config {
	cfg, err := ApplyPreset(DefaultConfig(), name)
	if err != nil {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
