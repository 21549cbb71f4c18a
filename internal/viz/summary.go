package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/san-kum/simstats/internal/collision"
	"github.com/san-kum/simstats/internal/diffusion"
	"github.com/san-kum/simstats/internal/magnet"
	"github.com/san-kum/simstats/internal/oscillator"
)

// Metric is one labelled value in a summary panel.
type Metric struct {
	Label string
	Value string
}

// MetricsPanel renders a titled block of aligned label/value pairs.
func MetricsPanel(title string, metrics []Metric) string {
	width := 0
	for _, m := range metrics {
		width = max(width, lipgloss.Width(m.Label))
	}
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(title))
	for _, m := range metrics {
		b.WriteString("\n")
		b.WriteString(MetricLabel.Render(fmt.Sprintf("%-*s", width, m.Label)))
		b.WriteString("  ")
		b.WriteString(MetricValue.Render(m.Value))
	}
	return Panel.Render(b.String())
}

// Table renders rows under a header with the theme colours.
func Table(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(Subtle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return MetricValue.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	return t.Render()
}

func FitSummary(r *diffusion.FitResult) string {
	metrics := []Metric{
		{"D (least squares)", fmt.Sprintf("%.6e ± %.2e", r.D, r.DErr)},
		{"D (through origin)", fmt.Sprintf("%.6e", r.DOrigin)},
		{"D (sweep)", fmt.Sprintf("%.6e", r.DSweep)},
		{"min error", fmt.Sprintf("%.6e", r.MinError)},
		{"intercept", fmt.Sprintf("%.4e", r.Intercept)},
		{"R²", fmt.Sprintf("%.5f", r.R2)},
		{"window", fmt.Sprintf("[%g, %g] (%d points)", r.TMin, r.TMax, r.Points)},
	}
	out := MetricsPanel("diffusion coefficient", metrics)
	if r.Disagreement() > diffusion.DefaultTolerance {
		out += "\n" + WarnStyle.Render(fmt.Sprintf("estimates differ by %.0f%%", 100*r.Disagreement()))
	}
	return out
}

func ObservablesTable(obs []magnet.Observables) string {
	rows := make([][]string, len(obs))
	for i, o := range obs {
		rows[i] = []string{
			fmt.Sprintf("%g", o.P),
			fmt.Sprintf("%.6f", o.AvgMag),
			fmt.Sprintf("%.6f", o.AvgMagSquared),
			fmt.Sprintf("%.6e", o.Susceptibility),
			fmt.Sprintf("%d", o.Samples),
		}
	}
	return Table([]string{"p", "<|m|>", "<m²>", "χ", "samples"}, rows)
}

func ErrorTable(et *oscillator.ErrorTable) string {
	headers := append([]string{"dt"}, et.Methods...)
	rows := make([][]string, len(et.Dt))
	for i, dt := range et.Dt {
		row := []string{fmt.Sprintf("%.0e", dt)}
		for _, v := range et.MSE[i] {
			row = append(row, fmt.Sprintf("%.4e", v))
		}
		rows[i] = row
	}
	return Table(headers, rows)
}

func FrequencyTable(points []collision.Point) string {
	rows := make([][]string, len(points))
	for i, p := range points {
		rows[i] = []string{
			fmt.Sprintf("%g", p.V),
			fmt.Sprintf("%.4f", p.Temperature),
			fmt.Sprintf("%.4f", p.Freq),
			fmt.Sprintf("%.4f", p.FreqStd),
		}
	}
	return Table([]string{"v0", "T", "frequency", "std"}, rows)
}

func PressureTable(points []collision.PressurePoint) string {
	rows := make([][]string, len(points))
	for i, p := range points {
		rows[i] = []string{
			fmt.Sprintf("%g", p.V),
			fmt.Sprintf("%.4f", p.Temperature),
			fmt.Sprintf("%.6e", p.Mean),
			fmt.Sprintf("%.6e", p.Std),
		}
	}
	return Table([]string{"v0", "T", "pressure", "std"}, rows)
}
