package engine

// SystemHandler fans out over B bank handlers sharing one file system and
// one random source.
type SystemHandler struct {
	Banks []*BankHandler
	fs    FileSystem
	rng   Rand
}

// NewSystemHandler builds B banks, each with pads pad slots and a record
// ring sized ringCapacity (normally STEPS).
func NewSystemHandler(banks, pads, ringCapacity int, fs FileSystem, rng Rand) *SystemHandler {
	s := &SystemHandler{
		Banks: make([]*BankHandler, banks),
		fs:    fs,
		rng:   rng,
	}
	for i := range s.Banks {
		s.Banks[i] = NewBankHandler(pads, ringCapacity, fs, rng)
	}
	return s
}

// Tick advances every bank's clock by exactly one step. After Tick returns,
// every bank has run its quantized transitions and phrase ticks — this is
// the system's global synchronization point.
func (s *SystemHandler) Tick() error {
	for _, b := range s.Banks {
		if err := b.Tick(); err != nil {
			return err
		}
	}
	return nil
}

// Stop resets every bank's clock and reverse state without closing files.
func (s *SystemHandler) Stop() {
	for _, b := range s.Banks {
		b.Stop()
	}
}

// AssignTempo propagates a process-wide tempo change to every bank.
func (s *SystemHandler) AssignTempo(bpm float64) {
	for _, b := range s.Banks {
		b.Tempo = bpm
	}
}

// ReadAll mixes every bank's stereo output additively into (left, right).
func (s *SystemHandler) ReadAll() (float32, float32, error) {
	var left, right float32
	for _, b := range s.Banks {
		l, r, err := b.ReadAttenuated()
		if err != nil {
			return 0, 0, err
		}
		left += l
		right += r
	}
	return left, right, nil
}

// ReadAllInto fills an interleaved stereo buffer (L,R,L,R,...) by calling
// ReadAll once per frame. buf's length must be even.
func (s *SystemHandler) ReadAllInto(buf []float32) error {
	for i := 0; i+1 < len(buf); i += 2 {
		l, r, err := s.ReadAll()
		if err != nil {
			return err
		}
		buf[i] = l
		buf[i+1] = r
	}
	return nil
}
