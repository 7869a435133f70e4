package midiclock

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/schollz/collidertracker/engine"
)

func TestClockDividerEmitsOneStepPerPeriod(t *testing.T) {
	d := NewClockDivider(6)
	completed := 0
	for i := 0; i < 24; i++ {
		if d.Pulse() {
			completed++
		}
	}
	assert.Equal(t, 4, completed)
}

func TestClockDividerDefaultsToSixteenthNotes(t *testing.T) {
	d := NewClockDivider(0)
	assert.Equal(t, standardPulsesPerQuarterNote/4, d.pulsesPerStep)
}

func TestClockDividerResetRealignsBoundary(t *testing.T) {
	d := NewClockDivider(4)
	d.Pulse()
	d.Pulse()
	d.Reset()
	assert.False(t, d.Pulse())
	assert.False(t, d.Pulse())
	assert.False(t, d.Pulse())
	assert.True(t, d.Pulse())
}

func TestNoteRouterMapsWithinRangeOnly(t *testing.T) {
	r := NewNoteRouter(36, 8) // notes 36..43 -> pads 0..7

	t.Run("note at base maps to pad 0", func(t *testing.T) {
		pad, step, ok := r.NoteOnStep(36)
		assert.True(t, ok)
		assert.Equal(t, uint8(0), pad)
		assert.Equal(t, engine.EventHold, step.Event.Kind)
	})

	t.Run("note at top of range maps to last pad", func(t *testing.T) {
		pad, _, ok := r.NoteOnStep(43)
		assert.True(t, ok)
		assert.Equal(t, uint8(7), pad)
	})

	t.Run("note below range is ignored", func(t *testing.T) {
		_, _, ok := r.NoteOnStep(35)
		assert.False(t, ok)
	})

	t.Run("note above range is ignored", func(t *testing.T) {
		_, _, ok := r.NoteOnStep(44)
		assert.False(t, ok)
	})

	t.Run("note off resolves to a sync step", func(t *testing.T) {
		pad, step, ok := r.NoteOffStep(40)
		assert.True(t, ok)
		assert.Equal(t, uint8(4), pad)
		assert.Equal(t, engine.EventSync, step.Event.Kind)
	})
}
