// Package tui is an interactive picker for the start of the stationary
// regime in magnetization histories. Choosing a step rewrites the file's
// stationary column through magnet.MarkStationary.
package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/simstats/internal/magnet"
	"github.com/san-kum/simstats/internal/viz"
)

type markedMsg struct {
	file   int
	step   int
	marked int
	err    error
}

type model struct {
	series []*magnet.Series
	size   int
	file   int
	cursor []int

	status string
	err    error

	width int
	mark  func(path string, step int) (int, error)
}

// NewPicker builds the picker over series for an size x size lattice. Each
// cursor starts at the first flagged row, or halfway when none is flagged.
func NewPicker(series []*magnet.Series, size int) tea.Model {
	return newModel(series, size)
}

func newModel(series []*magnet.Series, size int) model {
	m := model{
		series: series,
		size:   size,
		cursor: make([]int, len(series)),
		width:  80,
		mark:   magnet.MarkStationary,
	}
	for i, s := range series {
		m.cursor[i] = s.Len() / 2
		for j, st := range s.Stationary {
			if st {
				m.cursor[i] = j
				break
			}
		}
	}
	return m
}

// Run starts the picker on the terminal and blocks until the user quits.
func Run(series []*magnet.Series, size int) error {
	if len(series) == 0 {
		return magnet.ErrNoData
	}
	_, err := tea.NewProgram(NewPicker(series, size)).Run()
	return err
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case markedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.status = ""
			return m, nil
		}
		m.err = nil
		s := m.series[msg.file]
		for i, mcs := range s.MCS {
			s.Stationary[i] = mcs >= float64(msg.step)
		}
		m.status = fmt.Sprintf("%s: marked %d rows from mcs %d", filepath.Base(s.Path), msg.marked, msg.step)
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if len(m.series) == 0 {
		return m, tea.Quit
	}
	s := m.series[m.file]
	unit := max(s.Len()/100, 1)

	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "left", "h":
		m.move(-unit)
	case "right", "l":
		m.move(unit)
	case "shift+left", "H":
		m.move(-10 * unit)
	case "shift+right", "L":
		m.move(10 * unit)
	case "home", "g":
		m.cursor[m.file] = 0
	case "end", "G":
		m.cursor[m.file] = max(s.Len()-1, 0)
	case "tab", "n":
		m.file = (m.file + 1) % len(m.series)
	case "shift+tab", "p":
		m.file = (m.file + len(m.series) - 1) % len(m.series)
	case "enter", "m":
		return m, m.markCmd()
	}
	return m, nil
}

func (m *model) move(delta int) {
	n := m.series[m.file].Len()
	m.cursor[m.file] = min(max(m.cursor[m.file]+delta, 0), max(n-1, 0))
}

// Step is the mcs value under the cursor of the current file.
func (m model) Step() int {
	s := m.series[m.file]
	if s.Len() == 0 {
		return 0
	}
	return int(s.MCS[m.cursor[m.file]])
}

func (m model) markCmd() tea.Cmd {
	file, step := m.file, m.Step()
	path := m.series[file].Path
	mark := m.mark
	return func() tea.Msg {
		n, err := mark(path, step)
		return markedMsg{file: file, step: step, marked: n, err: err}
	}
}

func (m model) View() string {
	if len(m.series) == 0 {
		return "no series\n"
	}
	s := m.series[m.file]
	w := max(m.width-4, 20)

	var b strings.Builder
	title := fmt.Sprintf("%s  (%d/%d)", filepath.Base(s.Path), m.file+1, len(m.series))
	if s.P >= 0 {
		title += fmt.Sprintf("  p=%g", s.P)
	}
	b.WriteString(viz.HeaderStyle.Render(title))
	b.WriteString("\n\n")

	b.WriteString(viz.Sparkline(s.Mag, w))
	b.WriteString("\n")
	b.WriteString(caret(m.cursor[m.file], s.Len(), w))
	b.WriteString("\n\n")

	metrics := []viz.Metric{{Label: "mcs", Value: fmt.Sprintf("%d", m.Step())}}
	if obs, err := magnet.Analyze(s, m.size, m.Step()); err == nil {
		metrics = append(metrics,
			viz.Metric{Label: "<|m|>", Value: fmt.Sprintf("%.5f", obs.AvgMag)},
			viz.Metric{Label: "χ", Value: fmt.Sprintf("%.4e", obs.Susceptibility)},
			viz.Metric{Label: "samples", Value: fmt.Sprintf("%d", obs.Samples)},
		)
	}
	b.WriteString(viz.MetricsPanel("stationary window", metrics))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(viz.WarnStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(viz.Subtle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(viz.KeyHint.Render("←/→ move  H/L jump  tab next file  enter mark  q quit"))
	b.WriteString("\n")
	return b.String()
}

// caret places a marker under the sparkline cell holding index i.
func caret(i, n, width int) string {
	if n == 0 {
		return ""
	}
	step := max(n/width, 1)
	col := min(i/step, width-1)
	return strings.Repeat(" ", col) + viz.Selected.Render("^")
}
