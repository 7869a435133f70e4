package engine

import "encoding/binary"

// GrainLen is the compile-time grain size in samples.
const GrainLen = 512

// GrainReader is a sliding-window interpolating reader: it keeps a small
// ring of PCM bytes around the file's current position and produces one
// mono, linearly-interpolated sample per call at an arbitrary (possibly
// negative, possibly non-integer) rate.
type GrainReader struct {
	buffer []byte // 2*GrainLen + 2 bytes: GrainLen+1 samples, the extra word is lookahead
	idx    float32
}

// NewGrainReader allocates a reader's backing buffer once, up front, so the
// audio path never allocates. The index starts at GrainLen so the first
// read fills the buffer from the file before interpolating.
func NewGrainReader() *GrainReader {
	return &GrainReader{
		buffer: make([]byte, 2*GrainLen+2),
		idx:    GrainLen,
	}
}

// seekRelative seeks wav so its position relative to PCMStart is target,
// wrapping modulo PCMLen. This is the grain reader's only seek primitive;
// it reuses Wav's modular addressing for every reposition (not only the
// EOF-wrap case) because a hosted file cannot honor an absolute seek before
// byte zero, and wrapping is exactly the behavior an onset's cyclic PCM
// region wants at either boundary.
func (w *Wav) seekRelative(target int64) error {
	return w.ForceSeek(-target)
}

func (g *GrainReader) fillBackwards(wav *Wav) error {
	const grainLen = GrainLen
	for g.idx < 0 {
		if err := wav.FlushSeek(); err != nil {
			return err
		}
		pos, err := wav.Pos()
		if err != nil {
			return err
		}
		if err := wav.seekRelative(pos - 4*grainLen); err != nil {
			return err
		}
		if err := wav.Read(g.buffer); err != nil {
			return err
		}
		pos, err = wav.Pos()
		if err != nil {
			return err
		}
		if err := wav.seekRelative(pos - 2); err != nil {
			return err
		}
		g.idx += float32(grainLen)
	}
	return nil
}

func (g *GrainReader) fillForwards(wav *Wav) error {
	const grainLen = GrainLen
	for int(g.idx) >= grainLen {
		if err := wav.FlushSeek(); err != nil {
			return err
		}
		if err := wav.Read(g.buffer); err != nil {
			return err
		}
		pos, err := wav.Pos()
		if err != nil {
			return err
		}
		if err := wav.seekRelative(pos - 2); err != nil {
			return err
		}
		g.idx -= float32(grainLen)
	}
	return nil
}

// ReadInterpolated produces one mono sample in [-1, 1]. stretch is carried
// for a future scrub-compensation feature but is currently unused — the
// behavior stays pitch-only scaling.
func (g *GrainReader) ReadInterpolated(stretch, pitch float32, wav *Wav) (float32, error) {
	_ = stretch
	if err := g.fillBackwards(wav); err != nil {
		return 0, err
	}
	if err := g.fillForwards(wav); err != nil {
		return 0, err
	}

	i := int(g.idx)
	frac := g.idx - float32(i)
	a := float32(int16(binary.LittleEndian.Uint16(g.buffer[i*2:i*2+2]))) / 32767.0
	b := float32(int16(binary.LittleEndian.Uint16(g.buffer[(i+1)*2:(i+1)*2+2]))) / 32767.0
	sample := a*(1-frac) + b*frac

	g.idx += pitch
	return sample, nil
}
