package engine

// EventKind tags the three shapes a logical Event (or ActiveEvent) can take.
type EventKind uint8

const (
	EventSync EventKind = iota
	EventHold
	EventLoop
)

// Event is the copyable, storable shape: no open file, just the data needed
// to later resolve one. It appears both as an input (from pads/MIDI) and
// frozen inside a Step in a Phrase.
type Event struct {
	Kind  EventKind
	Index uint8  // pad index, for Hold/Loop
	Len   uint16 // loop length in steps, for Loop
}

func SyncEvent() Event                  { return Event{Kind: EventSync} }
func HoldEvent(index uint8) Event       { return Event{Kind: EventHold, Index: index} }
func LoopEvent(index uint8, n uint16) Event {
	return Event{Kind: EventLoop, Index: index, Len: n}
}

// ActiveEvent mirrors Event but owns a resolved Onset (and thus a live file
// handle) plus a running, signed tick counter. Signed so that reverse
// playback from tick 0 decrements cleanly instead of wrapping.
type ActiveEvent struct {
	Kind      EventKind
	Onset     *Onset // nil when Kind == EventSync
	TickCount int64
	Len       uint16 // loop length in steps, for Loop
}

// NewSyncActiveEvent is the empty/idle active event: no file, nothing playing.
func NewSyncActiveEvent() *ActiveEvent {
	return &ActiveEvent{Kind: EventSync}
}

// closeOnset closes and releases an active event's onset, if any.
func (a *ActiveEvent) closeOnset() error {
	if a.Onset == nil {
		return nil
	}
	err := a.Onset.Close()
	a.Onset = nil
	return err
}

// Transition applies an incoming logical event to the active event.
// kitIndex/kitDrift/rng drive kit drift-selection when the input names a
// pad rather than repeating the currently-held onset.
func (a *ActiveEvent) Transition(in Event, bank *Bank, kitIndex int, kitDrift float64, rng Rand, pads int, fs FileSystem) error {
	switch in.Kind {
	case EventSync:
		if err := a.closeOnset(); err != nil {
			return err
		}
		a.Kind = EventSync
		a.TickCount = 0
		a.Len = 0
		return nil

	case EventHold:
		return a.transitionInto(EventHold, in.Index, 0, bank, kitIndex, kitDrift, rng, pads, fs)

	case EventLoop:
		return a.transitionInto(EventLoop, in.Index, in.Len, bank, kitIndex, kitDrift, rng, pads, fs)
	}
	return nil
}

// transitionInto handles the Hold/Loop destination cases uniformly: same-pad
// reuse (clone + recast, no reseek) versus a different pad (drift-select a
// kit, close old, open + seek new).
func (a *ActiveEvent) transitionInto(kind EventKind, index uint8, length uint16, bank *Bank, kitIndex int, kitDrift float64, rng Rand, pads int, fs FileSystem) error {
	if a.Kind != EventSync && a.Onset != nil && a.Onset.PadIndex == index {
		cloned, err := fs.Clone(a.Onset.Wav.File)
		if err != nil {
			return err
		}
		old := a.Onset
		a.Onset = &Onset{
			PadIndex: old.PadIndex,
			Pan:      old.Pan,
			Start:    old.Start,
			Wav:      old.Wav,
		}
		a.Onset.Wav.File = cloned
		if err := old.Wav.File.Close(); err != nil {
			return err
		}
		a.Kind = kind
		a.Len = length
		if kind == EventHold {
			a.TickCount = 0
		}
		return nil
	}

	kit := bank.GenerateKit(kitIndex, kitDrift, rng)
	if err := a.closeOnset(); err != nil {
		return err
	}
	a.Kind = EventSync
	a.TickCount = 0
	a.Len = 0
	if kit == nil {
		return nil
	}
	pan := GeneratePan(index, pads)
	onset, err := kit.OnsetSeek(nil, index, pan, fs)
	if err != nil {
		return err
	}
	if onset == nil {
		return nil
	}
	a.Onset = onset
	a.Kind = kind
	a.TickCount = 0
	a.Len = length
	return nil
}

// Tick advances the active event's step clock. reverse is the
// bank's reverse flag; xorReverse additionally flips direction (used by
// record/pool playback reversing an already-reverse step). Hold/Loop push a
// deferred seek on the onset's Wav; Sync is a no-op.
func (a *ActiveEvent) Tick(reverse, xorReverse bool, loopDiv float64) {
	if a.Kind == EventSync || a.Onset == nil {
		return
	}
	if reverse != xorReverse {
		a.TickCount--
	} else {
		a.TickCount++
	}
	a.Resync(loopDiv)
}

// Resync recomputes and pushes the deferred seek for the active event's
// current tick count without advancing it — used to keep a Loop or Hold
// event's playhead consistent immediately after the bank's reverse flag
// changes, rather than waiting for the next step tick.
func (a *ActiveEvent) Resync(loopDiv float64) {
	if a.Kind == EventSync || a.Onset == nil {
		return
	}
	wav := &a.Onset.Wav
	if wav.Steps == nil || *wav.Steps == 0 {
		return
	}
	steps := int64(*wav.Steps)
	pcmLen := wav.PCMLen
	start := int64(a.Onset.Start) * 2

	tick := a.TickCount
	if a.Kind == EventLoop {
		if loopDiv <= 0 {
			loopDiv = 1
		}
		period := int64(float64(a.Len) / loopDiv)
		if period <= 0 {
			return
		}
		tick = ((tick % period) + period) % period
	}

	offset := start + (pcmLen/steps)*tick
	offset &^= 1 // keep 16-bit aligned
	wav.PushSeek(offset)
}
