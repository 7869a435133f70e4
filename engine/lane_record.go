package engine

// ActivePhrase is a playback cursor over a baked Phrase: the step it's
// currently on, the phrase's logical length at seed time, and the active
// event driven by that phrase. It keeps no reverse flag of its own; each
// step's Reverse bit is applied when processStep handles that step.
type ActivePhrase struct {
	StepIndex int
	StepCount int
	Active    *ActiveEvent
}

func newActivePhrase(stepCount int) *ActivePhrase {
	return &ActivePhrase{StepIndex: 0, StepCount: stepCount, Active: NewSyncActiveEvent()}
}

// processStep applies one phrase step to an active phrase's active event:
// a step carrying an event transitions it; a step with no event merely
// advances the existing active event's clock, using the step's own reverse
// bit as the tick's xor-reverse term.
func processStep(ap *ActivePhrase, step Step, bank *Bank, kitIndex int, kitDrift float64, rng Rand, pads int, fs FileSystem, bankReverse bool, loopDiv float64) error {
	if step.HasEvent {
		return ap.Active.Transition(step.Event, bank, kitIndex, kitDrift, rng, pads, fs)
	}
	ap.Active.Tick(bankReverse, step.Reverse, loopDiv)
	return nil
}

// RecordLane holds a fixed-size rolling ring of recently observed input
// Steps, an optional baked source Phrase, and an optional active playback
// cursor over it.
type RecordLane struct {
	ring     []Step
	count    int // number of valid entries currently in the ring
	start    int // ring index of the oldest entry
	Source   *Phrase
	Active   *ActivePhrase
}

// NewRecordLane allocates a ring of the given capacity (STEPS).
func NewRecordLane(capacity int) *RecordLane {
	return &RecordLane{ring: make([]Step, capacity)}
}

// Push enqueues an observed input Step; once the ring is full, the oldest
// step is dropped to make room.
func (l *RecordLane) Push(step Step) {
	capacity := len(l.ring)
	if capacity == 0 {
		return
	}
	if l.count < capacity {
		idx := (l.start + l.count) % capacity
		l.ring[idx] = step
		l.count++
		return
	}
	l.ring[l.start] = step
	l.start = (l.start + 1) % capacity
}

// Save bakes the ring, in chronological order, into a fresh source Phrase.
func (l *RecordLane) Save() *Phrase {
	p := NewPhrase(len(l.ring), uint16(l.count))
	for i := 0; i < l.count; i++ {
		p.Steps[i] = l.ring[(l.start+i)%len(l.ring)]
	}
	l.Source = p
	return p
}

// Trim shortens the source phrase's logical length.
func (l *RecordLane) Trim(n uint16) {
	if l.Source != nil {
		l.Source.Trim(n)
	}
}

// Tick advances the record lane by one step.
func (l *RecordLane) Tick(bank *Bank, kitIndex int, kitDrift, eventDrift float64, rng Rand, pads int, fs FileSystem, bankReverse bool, loopDiv float64) error {
	if l.Source == nil {
		return nil
	}
	if l.Active == nil {
		l.Active = newActivePhrase(int(l.Source.Len))
		step, ok := l.Source.GenerateStep(l.Active.StepIndex, eventDrift, rng)
		if !ok {
			return nil
		}
		return processStep(l.Active, step, bank, kitIndex, kitDrift, rng, pads, fs, bankReverse, loopDiv)
	}
	if l.Active.StepCount <= 0 {
		return nil
	}
	l.Active.StepIndex = (l.Active.StepIndex + 1) % l.Active.StepCount
	step, ok := l.Source.GenerateStep(l.Active.StepIndex, eventDrift, rng)
	if !ok {
		return nil
	}
	return processStep(l.Active, step, bank, kitIndex, kitDrift, rng, pads, fs, bankReverse, loopDiv)
}
