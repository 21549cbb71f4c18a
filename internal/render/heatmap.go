package render

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"

	"github.com/san-kum/simstats/internal/lattice"
)

// spinGrid adapts a lattice frame to plotter.GridXYZ with row 0 on top.
type spinGrid struct {
	f *lattice.Frame
}

func (g spinGrid) Dims() (int, int) { return g.f.Size(), g.f.Size() }
func (g spinGrid) Z(c, r int) float64 {
	return float64(g.f.Spins[g.f.Size()-1-r][c])
}
func (g spinGrid) X(c int) float64 { return float64(c) }
func (g spinGrid) Y(r int) float64 { return float64(r) }

// SaveHeatMap renders one lattice frame as a PNG.
func (r *Renderer) SaveHeatMap(f *lattice.Frame, path string) error {
	if f.Size() == 0 {
		return fmt.Errorf("%s: %w", path, ErrNoPoints)
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("MCS %d, M = %.3f", f.MCS, f.Magnetization())
	p.HideAxes()

	hm := plotter.NewHeatMap(spinGrid{f}, palette.Heat(2, 1))
	hm.Min, hm.Max = -1, 1
	p.Add(hm)

	side := min(r.Width, r.Height)
	if err := p.Save(side, side, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
