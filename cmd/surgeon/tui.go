package main

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/schollz/collidertracker/cmd/surgeon/tui"
	"github.com/schollz/collidertracker/engine"
	"github.com/schollz/collidertracker/internal/storage"
)

func newTUICmd() *cobra.Command {
	var projectDir string
	var seed int64

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Run the project live and watch per-bank levels",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(projectDir, seed)
		},
	}
	cmd.Flags().StringVar(&projectDir, "project", "", "project directory to load (required)")
	cmd.Flags().Int64Var(&seed, "seed", 1, "drift RNG seed")
	cmd.MarkFlagRequired("project")
	return cmd
}

// runDashboard ticks a project's banks in the background at their step
// cadence and shows a live peak meter per bank until the user quits.
func runDashboard(projectDir string, seed int64) error {
	state, err := storage.Load(projectDir)
	if err != nil {
		return fmt.Errorf("load project: %w", err)
	}

	fs := engine.OSFileSystem{}
	rng := engine.NewMathRand(seed)
	sys := engine.NewSystemHandler(len(state.Banks), defaultPads, defaultRingCapacity, fs, rng)
	for i := range sys.Banks {
		bank := state.Banks[i]
		sys.Banks[i].Bank = &bank
		sys.Banks[i].Tempo = state.Tempo
		sys.Banks[i].StepDiv = state.StepDiv
	}
	sys.AssignTempo(state.Tempo)

	meter := newPeakMeter(len(sys.Banks))
	done := make(chan struct{})
	go meter.drive(sys, state.Tempo, state.StepDiv, done)
	defer close(done)

	return tui.Run(meter.levels)
}

// peakMeter tracks the loudest sample seen per bank since the last read,
// decoupling the render loop's rate from the dashboard's poll rate.
type peakMeter struct {
	mu    sync.Mutex
	peaks []float32
}

func newPeakMeter(banks int) *peakMeter {
	return &peakMeter{peaks: make([]float32, banks)}
}

func (m *peakMeter) observe(bank int, left, right float32) {
	peak := float32(math.Max(math.Abs(float64(left)), math.Abs(float64(right))))
	m.mu.Lock()
	if peak > m.peaks[bank] {
		m.peaks[bank] = peak
	}
	m.mu.Unlock()
}

// levels reports each bank's peak in dBFS since the previous call, then
// resets the window.
func (m *peakMeter) levels() []float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]float32, len(m.peaks))
	for i, peak := range m.peaks {
		out[i] = dbfs(peak)
		m.peaks[i] = 0
	}
	return out
}

func dbfs(peak float32) float32 {
	if peak <= 0 {
		return -96
	}
	return float32(20 * math.Log10(float64(peak)))
}

func (m *peakMeter) drive(sys *engine.SystemHandler, tempo, stepDiv float64, done <-chan struct{}) {
	stepSeconds := 60 / tempo / stepDiv
	samplesPerStep := int(stepSeconds * engine.SampleRate)
	if samplesPerStep <= 0 {
		samplesPerStep = engine.SampleRate / 4
	}

	ticker := time.NewTicker(time.Second / engine.SampleRate)
	defer ticker.Stop()

	rendered := 0
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if rendered%samplesPerStep == 0 {
				if err := sys.Tick(); err != nil {
					return
				}
			}
			for i := range sys.Banks {
				left, right, err := sys.Banks[i].ReadAttenuated()
				if err != nil {
					return
				}
				m.observe(i, left, right)
			}
			rendered++
		}
	}
}
