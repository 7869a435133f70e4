package engine

// SampleRate is the engine's nominal sample rate in Hz. Source files must
// already be at this rate — the core performs no rate conversion.
const SampleRate = 44100

// Mod is a multiplicative "base * offset" composed knob, used for speed and
// loop-division rate controls.
type Mod struct {
	Base   float64
	Offset float64
}

// Net returns the knob's effective value.
func (m Mod) Net() float64 {
	return m.Base * m.Offset
}

// BankHandler is the per-voice real-time engine: it composes the three
// lanes with the bank's real-time knobs, runs the step clock, and renders
// attenuated stereo samples.
type BankHandler struct {
	Bank   *Bank
	Input  *InputLane
	Record *RecordLane
	Pool   *PoolLane
	Grain  *GrainReader

	Gain    float64
	Width   float64 // stereo width, [0,1]
	Speed   Mod
	LoopDiv Mod
	Tempo   float64 // process-wide BPM, assigned by the system handler
	StepDiv float64 // steps per quarter note
	Reverse bool

	KitIndex    int
	KitDrift    float64
	EventDrift  float64
	PhraseDrift float64

	pads int
	fs   FileSystem
	rng  Rand
}

// NewBankHandler builds a handler over an empty bank sized for pads pads
// and a record ring of ringCapacity steps (normally STEPS).
func NewBankHandler(pads, ringCapacity int, fs FileSystem, rng Rand) *BankHandler {
	return &BankHandler{
		Bank:    NewBank(pads),
		Input:   NewInputLane(),
		Record:  NewRecordLane(ringCapacity),
		Pool:    NewPoolLane(),
		Grain:   NewGrainReader(),
		Gain:    1,
		Width:   1,
		Speed:   Mod{Base: 1, Offset: 1},
		LoopDiv: Mod{Base: 1, Offset: 1},
		StepDiv: 4,
		pads:    pads,
		fs:      fs,
		rng:     rng,
	}
}

// Tick advances the bank handler by one musical step: the input lane's
// newly observed step (if any) is recorded into the record ring, then the
// record and pool lanes each advance their own playback cursor.
func (h *BankHandler) Tick() error {
	loopDiv := h.LoopDiv.Net()
	step, applied, err := h.Input.Tick(h.Bank, h.KitIndex, h.KitDrift, h.rng, h.pads, h.fs, h.Reverse, loopDiv)
	if err != nil {
		return err
	}
	if applied {
		h.Record.Push(step)
	}
	if err := h.Record.Tick(h.Bank, h.KitIndex, h.KitDrift, h.EventDrift, h.rng, h.pads, h.fs, h.Reverse, loopDiv); err != nil {
		return err
	}
	if err := h.Pool.Tick(h.Bank, h.KitIndex, h.KitDrift, h.EventDrift, h.PhraseDrift, h.rng, h.pads, h.fs, h.Reverse, loopDiv); err != nil {
		return err
	}
	return nil
}

// Stop resets the handler's clocks: the active events of all three lanes
// are pulled back to tick 0; open files are left alone.
func (h *BankHandler) Stop() {
	h.Input.Active.TickCount = 0
	if h.Record.Active != nil {
		h.Record.Active.Active.TickCount = 0
		h.Record.Active.StepIndex = 0
	}
	if h.Pool.Active != nil {
		h.Pool.Active.Active.TickCount = 0
		h.Pool.Active.StepIndex = 0
	}
	h.Reverse = false
}

// AssignReverse flips the bank's reverse knob and resyncs every currently
// active Hold or Loop event's deferred seek so a reverse-start doesn't briefly play
// forward before the next tick recomputes position (carried over from the
// original implementation's resync-on-reverse behavior, not present in the
// distilled transition table).
func (h *BankHandler) AssignReverse(reverse bool) {
	h.Reverse = reverse
	loopDiv := h.LoopDiv.Net()
	for _, active := range []*ActiveEvent{h.Input.Active, activePhraseEvent(h.Record.Active), activePhraseEvent(h.Pool.Active)} {
		if active == nil {
			continue
		}
		active.Resync(loopDiv)
	}
}

func activePhraseEvent(ap *ActivePhrase) *ActiveEvent {
	if ap == nil {
		return nil
	}
	return ap.Active
}

// currentActive selects the lane that contributes audio this sample: Input
// if non-Sync, else Record's active, else Pool's active, else none.
func (h *BankHandler) currentActive() *ActiveEvent {
	if h.Input.Active.Kind != EventSync {
		return h.Input.Active
	}
	if h.Record.Active != nil && h.Record.Active.Active.Kind != EventSync {
		return h.Record.Active.Active
	}
	if h.Pool.Active != nil && h.Pool.Active.Active.Kind != EventSync {
		return h.Pool.Active.Active
	}
	return nil
}

// loopByteLen computes a Loop event's window length in bytes.
func (h *BankHandler) loopByteLen(onset *Onset, numSteps uint16) int64 {
	loopDiv := h.LoopDiv.Net()
	if loopDiv <= 0 {
		loopDiv = 1
	}
	steps := float64(numSteps) / loopDiv
	wav := &onset.Wav
	if wav.Steps != nil && *wav.Steps > 0 {
		return int64(steps * float64(wav.PCMLen) / float64(*wav.Steps))
	}
	if h.Tempo <= 0 {
		return wav.PCMLen
	}
	return int64(steps * SampleRate * 60 / h.Tempo * loopDiv)
}

// enforceLoopBounds force-seeks the active Loop event back inside its
// window whenever the playhead has drifted outside it.
func (h *BankHandler) enforceLoopBounds(active *ActiveEvent) error {
	if active.Kind != EventLoop || active.Onset == nil {
		return nil
	}
	wav := &active.Onset.Wav
	start := int64(active.Onset.Start) * 2
	length := h.loopByteLen(active.Onset, active.Len)
	if length <= 0 {
		return nil
	}
	end := start + length
	pos, err := wav.Pos()
	if err != nil {
		return err
	}
	// A window that extends past EOF wraps: a position before start is
	// still inside the window if it falls in the wrapped tail at the
	// file's front (pos + PCMLen <= end).
	if pos <= end && !(pos < start && pos+wav.PCMLen > end) {
		return nil
	}
	if h.Reverse {
		return wav.seekRelative(end)
	}
	return wav.seekRelative(start)
}

// ReadAttenuated produces one stereo sample pair for this bank. Silence (0, 0) is returned when no lane has an active, non-Sync
// event — not an error.
func (h *BankHandler) ReadAttenuated() (float32, float32, error) {
	active := h.currentActive()
	if active == nil || active.Onset == nil {
		return 0, 0, nil
	}

	if err := h.enforceLoopBounds(active); err != nil {
		return 0, 0, err
	}

	wav := &active.Onset.Wav
	stretch := float32(1)
	if wav.Tempo != nil && *wav.Tempo > 0 {
		stretch = float32(h.Tempo * h.StepDiv / float64(*wav.Tempo))
	}
	speed := h.Speed.Net()
	pitch := float32(speed)
	if h.Reverse {
		pitch = -pitch
	}

	sample, err := h.Grain.ReadInterpolated(stretch, pitch, wav)
	if err != nil {
		return 0, 0, err
	}

	pan := active.Onset.Pan
	left := sample * float32(1+h.Width*(absF(pan-0.5)-1)) * float32(h.Gain)
	right := sample * float32(1+h.Width*(absF(pan+0.5)-1)) * float32(h.Gain)
	return left, right, nil
}

func absF(x float32) float64 {
	v := float64(x)
	if v < 0 {
		return -v
	}
	return v
}

// TakeRecord bakes the record lane's ring and stores it as the bank's
// phrase slot at padIndex, ready for pool assembly.
func (h *BankHandler) TakeRecord(padIndex uint8) *Phrase {
	phrase := h.Record.Save()
	h.Bank.Phrases[padIndex] = phrase
	return phrase
}

// ClearPool empties the pool lane's programmed sequence.
func (h *BankHandler) ClearPool() {
	h.Pool.ClearPool()
}

// PushPool appends a phrase slot to the pool lane's programmed sequence.
func (h *BankHandler) PushPool(padIndex uint8) {
	h.Pool.PushPhrase(padIndex)
}
