package engine

// SampleRef is the logical (on-disk) description of a sample file: its
// path, optional tempo/step metadata, and PCM length in bytes. It is the
// value-type half of an Onset — what a Bank snapshot stores — as opposed to
// Onset, which additionally owns an open File.
type SampleRef struct {
	Path     string
	Tempo    *float32
	Steps    *uint16
	PCMStart int64 // byte offset where headerless 16-bit mono PCM begins
	PCMBytes int64 // length of the PCM region, in bytes
}

// KitOnset is a pad's onset as stored in a Kit: a SampleRef plus the sample
// offset (in samples) of the onset within that file.
type KitOnset struct {
	Ref   SampleRef
	Start uint64
}

// Kit maps pad index to onset; absent entries mean "no sound".
type Kit struct {
	Onsets []*KitOnset // len == PADS
}

// NewKit allocates an empty kit with the given pad count.
func NewKit(pads int) *Kit {
	return &Kit{Onsets: make([]*KitOnset, pads)}
}

func closeIfPresent(toClose File) error {
	if toClose == nil {
		return nil
	}
	return wrapIO("close", toClose.Close())
}

// Onset opens the onset at index without seeking (the file is left where
// Open positions it). Transition does not call it directly; it reopens
// through OnsetSeek. If toClose is non-nil it is closed first. Returns
// (nil, nil) if the pad has no onset.
func (k *Kit) Onset(toClose File, index uint8, pan float32, fs FileSystem) (*Onset, error) {
	slot := k.Onsets[index]
	if slot == nil {
		return nil, nil
	}
	if err := closeIfPresent(toClose); err != nil {
		return nil, err
	}
	f, err := fs.Open(slot.Ref.Path)
	if err != nil {
		return nil, wrapIO("open", err)
	}
	return &Onset{
		PadIndex: index,
		Pan:      pan,
		Start:    slot.Start,
		Wav: Wav{
			File:     f,
			Tempo:    slot.Ref.Tempo,
			Steps:    slot.Ref.Steps,
			PCMStart: slot.Ref.PCMStart,
			PCMLen:   slot.Ref.PCMBytes,
		},
	}, nil
}

// OnsetSeek is Onset, but additionally seeks the new file to the onset's
// start (used when transitioning into Hold).
func (k *Kit) OnsetSeek(toClose File, index uint8, pan float32, fs FileSystem) (*Onset, error) {
	onset, err := k.Onset(toClose, index, pan, fs)
	if err != nil || onset == nil {
		return onset, err
	}
	if _, err := onset.Wav.File.Seek(onset.Wav.PCMStart+int64(onset.Start)*2, 0); err != nil {
		return nil, wrapIO("seek", err)
	}
	return onset, nil
}
