package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	HeaderStyle lipgloss.Style
	MetricLabel lipgloss.Style
	MetricValue lipgloss.Style
	Subtle      lipgloss.Style
	KeyHint     lipgloss.Style
	Selected    lipgloss.Style
	WarnStyle   lipgloss.Style
	Panel       lipgloss.Style

	SparkHigh lipgloss.Style
	SparkMid  lipgloss.Style
	SparkLow  lipgloss.Style
)

func init() { applyTheme(CurrentTheme) }

func applyTheme(t Theme) {
	HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Secondary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(t.Muted)
	MetricLabel = lipgloss.NewStyle().Foreground(t.Muted)
	MetricValue = lipgloss.NewStyle().Foreground(t.Secondary).Bold(true)
	Subtle = lipgloss.NewStyle().Foreground(t.Muted)
	KeyHint = lipgloss.NewStyle().Foreground(t.Muted).Italic(true)
	Selected = lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	WarnStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Warning)
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Muted).
		Padding(0, 1)

	SparkHigh = lipgloss.NewStyle().Foreground(t.Success)
	SparkMid = lipgloss.NewStyle().Foreground(t.Warning)
	SparkLow = lipgloss.NewStyle().Foreground(t.Error)
}

// Sparkline renders values as a one-line bar strip of at most width cells.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	vals := finite(values)
	if len(vals) == 0 {
		return strings.Repeat("─", width)
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := max(len(vals)/width, 1)
	var b strings.Builder
	for i := 0; i < width && i*step < len(vals); i++ {
		norm := (vals[i*step] - lo) / rng
		idx := min(max(int(norm*float64(len(chars)-1)), 0), len(chars)-1)
		c := string(chars[idx])
		switch {
		case norm > 0.7:
			b.WriteString(SparkHigh.Render(c))
		case norm > 0.3:
			b.WriteString(SparkMid.Render(c))
		default:
			b.WriteString(SparkLow.Render(c))
		}
	}
	return b.String()
}

// Separator draws a muted rule of the given width.
func Separator(width int) string {
	if width < 8 {
		return Subtle.Render(strings.Repeat("─", max(width, 0)))
	}
	mid := width / 2
	return Subtle.Render(strings.Repeat("─", mid-3) + " ◆ " + strings.Repeat("─", width-mid-3))
}
