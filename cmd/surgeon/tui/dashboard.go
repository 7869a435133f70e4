// Package tui is surgeon's status dashboard: a read-only view of each
// bank's current level, deliberately thin rather than a full tracker UI
// (see cmd/surgeon's descriptor/bank/run commands for everything else).
// Grounded on the teacher's internal/views meter-bar rendering
// (termenv.ColorProfile + go-colorful HCL blending over lipgloss text).
package tui

import (
	"fmt"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

const barWidth = 24

// LevelSource reports every bank's current stereo peak level in dBFS.
type LevelSource func() []float32

type tickMsg time.Time

// Dashboard is a bubbletea model rendering one meter bar per bank.
type Dashboard struct {
	levels LevelSource
	peaks  []float32
}

// NewDashboard builds a dashboard polling levels every tick.
func NewDashboard(levels LevelSource) *Dashboard {
	return &Dashboard{levels: levels}
}

func (d *Dashboard) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (d *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return d, tea.Quit
		}
	case tickMsg:
		d.peaks = d.levels()
		return d, tick()
	}
	return d, nil
}

func (d *Dashboard) View() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Render("surgeon — bank levels")

	profile := termenv.ColorProfile()
	var rows []string
	for i, level := range d.peaks {
		hex := levelColor(level).Hex()
		styled := termenv.String(barFor(level)).Foreground(profile.Color(hex)).String()
		rows = append(rows, fmt.Sprintf("bank %-2d %s %6.1f dB", i, styled, level))
	}
	if len(rows) == 0 {
		rows = append(rows, "(no banks)")
	}

	body := lipgloss.JoinVertical(lipgloss.Left, rows...)
	footer := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("q: quit")
	return lipgloss.NewStyle().Padding(1, 2).Render(title + "\n\n" + body + "\n\n" + footer)
}

// levelColor blends dark gray to warm orange across a -48..+12 dBFS range,
// the same span the teacher's getLevelColorSmooth uses.
func levelColor(db float32) colorful.Color {
	lo, _ := colorful.Hex("#404040")
	hi, _ := colorful.Hex("#FF6B35")
	return lo.BlendHcl(hi, normalize(db))
}

func barFor(db float32) string {
	filled := int(normalize(db) * barWidth)
	bar := make([]byte, 0, barWidth*3)
	for i := 0; i < barWidth; i++ {
		if i < filled {
			bar = append(bar, []byte("█")...)
		} else {
			bar = append(bar, []byte("▒")...)
		}
	}
	return string(bar)
}

func normalize(db float32) float64 {
	t := (float64(db) + 48) / 60
	return math.Max(0, math.Min(1, t))
}

// Run starts the dashboard program and blocks until the user quits.
func Run(levels LevelSource) error {
	_, err := tea.NewProgram(NewDashboard(levels), tea.WithAltScreen()).Run()
	return err
}
