package engine

// PoolLane is a user-programmed sequence of phrase slots played back in
// order, with phrase-level drift applied at phrase boundaries.
type PoolLane struct {
	PhraseIndex  uint16
	Phrases      []uint8 // append-only list of pad indices naming phrases in the bank
	SourcePhrase *uint8  // pad index of the currently selected phrase, if any
	Active       *ActivePhrase
}

func NewPoolLane() *PoolLane {
	return &PoolLane{}
}

// PushPhrase appends a phrase slot (named by pad index) to the programmed
// sequence.
func (l *PoolLane) PushPhrase(padIndex uint8) {
	l.Phrases = append(l.Phrases, padIndex)
}

// ClearPool empties the programmed sequence and any in-flight playback,
// closing the active event's onset first rather than dropping it.
func (l *PoolLane) ClearPool() {
	l.Phrases = nil
	l.PhraseIndex = 0
	l.SourcePhrase = nil
	_ = l.silence()
}

// liveEntries returns the indices into l.Phrases whose named phrase slot is
// currently non-empty in bank.
func (l *PoolLane) liveEntries(bank *Bank) []int {
	live := make([]int, 0, len(l.Phrases))
	for i, padIdx := range l.Phrases {
		if int(padIdx) < len(bank.Phrases) && bank.Phrases[padIdx] != nil {
			live = append(live, i)
		}
	}
	return live
}

// tryIncrementPhrase advances phrase_index modulo the number of currently
// live entries, then applies phrase-drift over those live entries to pick
// the next source phrase. Clears the
// source phrase when no entry resolves.
func (l *PoolLane) tryIncrementPhrase(bank *Bank, phraseDrift float64, rng Rand) {
	live := l.liveEntries(bank)
	if len(live) == 0 {
		l.SourcePhrase = nil
		return
	}
	l.PhraseIndex = uint16((int(l.PhraseIndex) + 1) % len(live))
	d := SampleDrift(phraseDrift, len(live), rng)
	chosen := (int(l.PhraseIndex) + d) % len(live)
	padIdx := l.Phrases[live[chosen]]
	l.SourcePhrase = &padIdx
}

// seedActive resolves the current source phrase and restarts playback at
// step 0 over it. An existing active phrase's StepCount/StepIndex are
// rewritten in place rather than replaced outright, so processStep carries
// the live active event (and its open onset, if any) across the switch; it
// only transitions — and only then closes the old onset — when the new
// phrase's first step actually names an event.
func (l *PoolLane) seedActive(bank *Bank, kitIndex int, kitDrift, eventDrift float64, rng Rand, pads int, fs FileSystem, bankReverse bool, loopDiv float64) error {
	if l.SourcePhrase == nil {
		return nil
	}
	phrase := bank.Phrases[*l.SourcePhrase]
	if phrase == nil {
		l.SourcePhrase = nil
		return nil
	}
	if l.Active == nil {
		l.Active = newActivePhrase(int(phrase.Len))
	} else {
		l.Active.StepCount = int(phrase.Len)
		l.Active.StepIndex = 0
	}
	step, ok := phrase.GenerateStep(0, eventDrift, rng)
	if !ok {
		return nil
	}
	return processStep(l.Active, step, bank, kitIndex, kitDrift, rng, pads, fs, bankReverse, loopDiv)
}

// silence closes any open onset on the active phrase's active event and
// drops the active phrase, used when the pool runs out of live phrase
// slots to play.
func (l *PoolLane) silence() error {
	if l.Active == nil {
		return nil
	}
	err := l.Active.Active.closeOnset()
	l.Active = nil
	return err
}

// Tick advances the pool lane by one step.
func (l *PoolLane) Tick(bank *Bank, kitIndex int, kitDrift, eventDrift, phraseDrift float64, rng Rand, pads int, fs FileSystem, bankReverse bool, loopDiv float64) error {
	if l.Active == nil {
		if l.SourcePhrase == nil {
			l.tryIncrementPhrase(bank, phraseDrift, rng)
		}
		return l.seedActive(bank, kitIndex, kitDrift, eventDrift, rng, pads, fs, bankReverse, loopDiv)
	}

	if l.Active.StepCount <= 0 {
		return nil
	}
	next := l.Active.StepIndex + 1
	if next >= l.Active.StepCount {
		l.tryIncrementPhrase(bank, phraseDrift, rng)
		if l.SourcePhrase == nil {
			return l.silence()
		}
		return l.seedActive(bank, kitIndex, kitDrift, eventDrift, rng, pads, fs, bankReverse, loopDiv)
	}

	l.Active.StepIndex = next
	phrase := bank.Phrases[*l.SourcePhrase]
	if phrase == nil {
		l.SourcePhrase = nil
		return l.silence()
	}
	step, ok := phrase.GenerateStep(l.Active.StepIndex, eventDrift, rng)
	if !ok {
		return nil
	}
	return processStep(l.Active, step, bank, kitIndex, kitDrift, rng, pads, fs, bankReverse, loopDiv)
}
