// Package midiclock adapts an external MIDI clock/note source into the
// engine's step ticks and pad events: a 24-PPQN timing-clock stream divided
// down to one tick per musical step, and note on/off mapped to Hold/Sync
// pad triggers. It replaces the teacher's hand-rolled CoreMIDI device
// wrapper with gomidi/midi/v2's real driver for the input side.
package midiclock

import (
	"fmt"
	"strings"

	clog "github.com/charmbracelet/log"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/schollz/collidertracker/engine"
	"github.com/schollz/collidertracker/internal/music"
)

// standardPulsesPerQuarterNote is the MIDI clock's fixed resolution.
const standardPulsesPerQuarterNote = 24

// ClockDivider turns a stream of MIDI timing-clock pulses into one step
// tick per pulsesPerStep pulses (e.g. 6 for sixteenth-note steps at the
// standard 24-PPQN rate).
type ClockDivider struct {
	pulsesPerStep int
	pulse         int
}

// NewClockDivider builds a divider for stepDiv pulses per step, defaulting
// to sixteenth notes (24/4) if stepDiv is non-positive.
func NewClockDivider(stepDiv int) *ClockDivider {
	if stepDiv <= 0 {
		stepDiv = standardPulsesPerQuarterNote / 4
	}
	return &ClockDivider{pulsesPerStep: stepDiv}
}

// Pulse registers one timing-clock pulse and reports whether it just
// completed a step.
func (c *ClockDivider) Pulse() bool {
	c.pulse++
	if c.pulse >= c.pulsesPerStep {
		c.pulse = 0
		return true
	}
	return false
}

// Reset zeroes the pulse counter, realigning the next step boundary to the
// next pulse (used on transport start/continue).
func (c *ClockDivider) Reset() { c.pulse = 0 }

// NoteRouter maps MIDI note numbers in [base, base+pads) onto pad indices
// and renders note on/off as logical Hold/Sync steps.
type NoteRouter struct {
	base int
	pads int
}

// NewNoteRouter builds a router covering `pads` consecutive notes starting
// at MIDI note `base`.
func NewNoteRouter(base, pads int) *NoteRouter {
	return &NoteRouter{base: base, pads: pads}
}

// PadForNote resolves a MIDI note number to a pad index, if it falls
// within the router's configured range.
func (r *NoteRouter) PadForNote(note uint8) (uint8, bool) {
	idx := int(note) - r.base
	if idx < 0 || idx >= r.pads {
		return 0, false
	}
	return uint8(idx), true
}

// NoteOnStep resolves a MIDI note-on into the pad it targets and the Hold
// step to push onto that pad's input lane.
func (r *NoteRouter) NoteOnStep(note uint8) (pad uint8, step engine.Step, ok bool) {
	pad, ok = r.PadForNote(note)
	if !ok {
		return
	}
	step = engine.Step{HasEvent: true, Event: engine.HoldEvent(pad)}
	return
}

// NoteOffStep resolves a MIDI note-off into the pad it targets and the
// Sync step that stops it.
func (r *NoteRouter) NoteOffStep(note uint8) (pad uint8, step engine.Step, ok bool) {
	pad, ok = r.PadForNote(note)
	if !ok {
		return
	}
	step = engine.Step{HasEvent: true, Event: engine.SyncEvent()}
	return
}

// Open finds and opens the input port whose name contains nameHint
// (case-insensitive), mirroring the teacher's substring device lookup.
func Open(nameHint string) (drivers.In, error) {
	var candidates []string
	for _, in := range midi.GetInPorts() {
		candidates = append(candidates, in.String())
	}
	for _, name := range candidates {
		if strings.Contains(strings.ToLower(name), strings.ToLower(nameHint)) {
			return midi.FindInPort(name)
		}
	}
	return nil, fmt.Errorf("midiclock: no input port matching %q (have %v)", nameHint, candidates)
}

// Handlers bundles the callbacks Listen drives off an incoming MIDI
// stream: one per completed step tick, one per resolved pad event.
type Handlers struct {
	OnStep func()
	OnPad  func(pad uint8, step engine.Step)
}

// Listen subscribes to in, dividing timing-clock pulses through divider
// and routing note on/off through router, until the returned stop func is
// called.
func Listen(in drivers.In, divider *ClockDivider, router *NoteRouter, h Handlers) (func(), error) {
	return midi.ListenTo(in, func(msg midi.Message, _ int32) {
		var ch, key, vel uint8
		switch {
		case msg.GetNoteOn(&ch, &key, &vel):
			if pad, step, ok := router.NoteOnStep(key); ok {
				clog.Debug("midi note on", "note", music.MidiToNoteName(int(key)), "pad", pad)
				h.OnPad(pad, step)
			}
		case msg.GetNoteOff(&ch, &key, &vel):
			if pad, step, ok := router.NoteOffStep(key); ok {
				h.OnPad(pad, step)
			}
		case msg.Is(midi.TimingClockMsg):
			if divider.Pulse() {
				h.OnStep()
			}
		case msg.Is(midi.StartMsg), msg.Is(midi.ContinueMsg):
			divider.Reset()
		}
	})
}
