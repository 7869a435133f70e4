package engine

import "io"

// Wav is a playhead into a headerless, little-endian signed 16-bit mono PCM
// region of a file: [pcmStart, pcmStart+pcmLen). Seeks are always expressed
// and satisfied modulo pcmLen so the playhead wraps endlessly inside its
// onset.
type Wav struct {
	File File

	// Tempo is the source BPM, if the sample carries tempo metadata.
	Tempo *float32
	// Steps is the number of musical steps the sample spans, if known.
	Steps *uint16

	PCMStart int64
	PCMLen   int64

	seekTo    int64
	hasSeekTo bool
}

// Pos returns the current byte position relative to PCMStart.
func (w *Wav) Pos() (int64, error) {
	pos, err := w.File.StreamPosition()
	if err != nil {
		return 0, wrapIO("stream_position", err)
	}
	return pos - w.PCMStart, nil
}

// positiveMod returns a non-negative representative of a mod m (m > 0).
func positiveMod(a, m int64) int64 {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

// ForceSeek seeks so that (pos - PCMStart) ≡ -offset (mod PCMLen), using the
// positive representative of that residue.
func (w *Wav) ForceSeek(offset int64) error {
	if w.PCMLen <= 0 {
		return nil
	}
	rem := positiveMod(-offset, w.PCMLen)
	if _, err := w.File.Seek(w.PCMStart+rem, io.SeekStart); err != nil {
		return wrapIO("seek", err)
	}
	w.hasSeekTo = false
	return nil
}

// PushSeek records a deferred seek to be applied on the next FlushSeek,
// coalescing per-sample tick updates into per-grain I/O.
func (w *Wav) PushSeek(offset int64) {
	w.seekTo = offset
	w.hasSeekTo = true
}

// FlushSeek applies and clears any pending deferred seek.
func (w *Wav) FlushSeek() error {
	if !w.hasSeekTo {
		return nil
	}
	offset := w.seekTo
	w.hasSeekTo = false
	return w.ForceSeek(offset)
}

// Read fills bytes completely, wrapping to the start of the PCM region on
// EOF so that forward progress is always made.
func (w *Wav) Read(bytes []byte) error {
	slice := bytes
	for len(slice) > 0 {
		pos, err := w.Pos()
		if err != nil {
			return err
		}
		remaining := w.PCMLen - pos
		if remaining <= 0 {
			if err := w.ForceSeek(0); err != nil {
				return err
			}
			continue
		}
		length := int64(len(slice))
		if length > remaining {
			length = remaining
		}
		n, err := w.File.Read(slice[:length])
		if err != nil && err != io.EOF {
			return wrapIO("read", err)
		}
		if n == 0 {
			if err := w.ForceSeek(0); err != nil {
				return err
			}
			continue
		}
		slice = slice[n:]
	}
	return nil
}
