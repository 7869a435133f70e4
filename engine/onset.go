package engine

// Onset is a labeled playback anchor inside a sample file: a pad index, a
// pan derived from that index, the source Wav, and the onset's sample-offset
// start within the file.
type Onset struct {
	PadIndex uint8
	Pan      float32
	Wav      Wav
	Start    uint64 // sample offset within the file
}

// GeneratePan derives pan from a pad index, spread evenly across [-0.5, 0.5].
func GeneratePan(index uint8, pads int) float32 {
	return float32(index)/float32(pads) - 0.5
}

// Close releases the onset's underlying file handle.
func (o *Onset) Close() error {
	if o.Wav.File == nil {
		return nil
	}
	err := o.Wav.File.Close()
	o.Wav.File = nil
	return err
}
