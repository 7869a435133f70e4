package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolLaneLiveEntriesSkipsEmptySlots(t *testing.T) {
	bank := NewBank(8)
	bank.Phrases[5] = NewPhrase(4, 1)

	l := NewPoolLane()
	l.PushPhrase(2)
	l.PushPhrase(5)

	assert.Equal(t, []int{1}, l.liveEntries(bank))
}

func TestPoolLaneTryIncrementPhraseAlwaysResolvesTheOnlyLiveSlot(t *testing.T) {
	// spec scenario: phrases=[2,5], only slot 5 present in the bank.
	bank := NewBank(8)
	bank.Phrases[5] = NewPhrase(4, 1)

	l := NewPoolLane()
	l.PushPhrase(2)
	l.PushPhrase(5)

	for i := 0; i < 3; i++ {
		l.tryIncrementPhrase(bank, 0, fixedRand{})
		if assert.NotNil(t, l.SourcePhrase) {
			assert.Equal(t, uint8(5), *l.SourcePhrase)
		}
	}
}

func TestPoolLaneTryIncrementPhraseClearsSourceWhenNothingLive(t *testing.T) {
	bank := NewBank(8)
	l := NewPoolLane()
	l.PushPhrase(2)
	l.SourcePhrase = func() *uint8 { v := uint8(2); return &v }()

	l.tryIncrementPhrase(bank, 0, fixedRand{})
	assert.Nil(t, l.SourcePhrase)
}

func TestPoolLaneTickCarriesActiveEventAcrossPhraseBoundary(t *testing.T) {
	fs := newMemFS()
	bank := makeBankWithOnePad(fs, "a.pcm", 2000)

	holding := NewPhrase(4, 1)
	holding.Steps[0] = Step{HasEvent: true, Event: HoldEvent(0)}
	bank.Phrases[3] = holding

	silent := NewPhrase(4, 1)
	bank.Phrases[7] = silent

	l := NewPoolLane()
	l.PushPhrase(3)
	l.PushPhrase(7)
	rng := fixedRand{uniform: 0, bernoulli: false}

	// tick 1: seeds from scratch onto the no-event phrase (slot 7); nothing
	// plays yet.
	assert.NoError(t, l.Tick(bank, 0, 0, 0, 0, rng, 8, fs, false, 1))
	assert.Equal(t, EventSync, l.Active.Active.Kind)

	// tick 2: phrase boundary switches to the Hold phrase (slot 3); the
	// active event transitions to Hold and opens a file.
	assert.NoError(t, l.Tick(bank, 0, 0, 0, 0, rng, 8, fs, false, 1))
	assert.Equal(t, EventHold, l.Active.Active.Kind)
	onset := l.Active.Active.Onset
	if assert.NotNil(t, onset) {
		assert.False(t, onset.Wav.File.(*memFile).closed)
	}

	// tick 3: phrase boundary switches back to the no-event phrase (slot
	// 7). The in-flight Hold must survive untouched — same onset, still
	// playing, file still open — since the new phrase's first step names
	// no event of its own.
	assert.NoError(t, l.Tick(bank, 0, 0, 0, 0, rng, 8, fs, false, 1))
	assert.Equal(t, EventHold, l.Active.Active.Kind)
	assert.Same(t, onset, l.Active.Active.Onset)
	assert.False(t, onset.Wav.File.(*memFile).closed)
}

func TestPoolLaneTickSilencesWhenNoPhraseSlotIsLive(t *testing.T) {
	fs := newMemFS()
	bank := makeBankWithOnePad(fs, "a.pcm", 2000)

	holding := NewPhrase(4, 1)
	holding.Steps[0] = Step{HasEvent: true, Event: HoldEvent(0)}
	bank.Phrases[3] = holding

	l := NewPoolLane()
	l.PushPhrase(3)
	rng := fixedRand{uniform: 0, bernoulli: false}

	assert.NoError(t, l.Tick(bank, 0, 0, 0, 0, rng, 8, fs, false, 1))
	assert.Equal(t, EventHold, l.Active.Active.Kind)
	onset := l.Active.Active.Onset
	file := onset.Wav.File.(*memFile)

	// the only phrase slot disappears; the next boundary tick must close
	// the open file rather than merely dropping the reference to it.
	bank.Phrases[3] = nil
	assert.NoError(t, l.Tick(bank, 0, 0, 0, 0, rng, 8, fs, false, 1))
	assert.Nil(t, l.Active)
	assert.True(t, file.closed)
}

func TestPoolLaneClearPoolClosesActiveOnset(t *testing.T) {
	fs := newMemFS()
	bank := makeBankWithOnePad(fs, "a.pcm", 2000)

	holding := NewPhrase(4, 1)
	holding.Steps[0] = Step{HasEvent: true, Event: HoldEvent(0)}
	bank.Phrases[3] = holding

	l := NewPoolLane()
	l.PushPhrase(3)
	rng := fixedRand{uniform: 0, bernoulli: false}

	assert.NoError(t, l.Tick(bank, 0, 0, 0, 0, rng, 8, fs, false, 1))
	file := l.Active.Active.Onset.Wav.File.(*memFile)

	l.ClearPool()
	assert.Nil(t, l.Active)
	assert.Empty(t, l.Phrases)
	assert.True(t, file.closed)
}
