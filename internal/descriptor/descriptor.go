// Package descriptor derives the logical sample-descriptor record (tempo,
// step count, onset offsets) from a WAV file on disk. It is read-only and
// never touches the engine's host File contract; the engine only ever sees
// the resulting engine.SampleRef value.
package descriptor

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-audio/wav"

	"github.com/schollz/collidertracker/engine"
)

// Descriptor is the logical sample-descriptor record: optional tempo
// (BPM), optional step count, and a list of onset sample offsets. A bare
// sample with no detected tempo/steps gets the default of one onset at 0.
type Descriptor struct {
	Tempo  *float32
	Steps  *uint16
	Onsets []uint64
}

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 65534
)

// Load opens path, locates its PCM region, and guesses tempo/step count
// from the filename and duration. The returned pcmStart/pcmBytes describe
// the byte range engine.SampleRef expects.
func Load(path string) (d Descriptor, pcmStart int64, pcmBytes int64, err error) {
	f, openErr := os.Open(path)
	if openErr != nil {
		err = fmt.Errorf("descriptor: open %s: %w", path, openErr)
		return
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		err = fmt.Errorf("descriptor: %s: %w", path, engine.ErrBadFormat)
		return
	}
	dec.ReadInfo()

	seconds, err := durationSeconds(dec)
	if err != nil {
		return
	}

	if int(dec.WavAudioFormat) == wavFormatPCM || int(dec.WavAudioFormat) == wavFormatExtensible {
		if !dec.WasPCMAccessed() && dec.PCMChunk == nil {
			if fwdErr := dec.FwdToPCM(); fwdErr != nil {
				err = fmt.Errorf("descriptor: locate PCM in %s: %w", path, fwdErr)
				return
			}
		}
		pcmBytes = dec.PCMLen()
		// go-audio/wav positions the reader at the first PCM byte once the
		// chunk has been located; query it for the start offset.
		if pos, posErr := f.Seek(0, io.SeekCurrent); posErr == nil {
			pcmStart = pos
		}
	}

	beats, bpm, guessErr := guessTempo(path, seconds)
	onsets := []uint64{0}
	if guessErr != nil {
		return Descriptor{Onsets: onsets}, pcmStart, pcmBytes, nil
	}

	bpm32 := float32(bpm)
	var steps *uint16
	if nonSixteenBeats := math.Mod(beats, 16) != 0; !nonSixteenBeats && beats > 0 {
		s := uint16(beats)
		steps = &s
	}
	return Descriptor{Tempo: &bpm32, Steps: steps, Onsets: onsets}, pcmStart, pcmBytes, nil
}

func durationSeconds(dec *wav.Decoder) (float64, error) {
	if int(dec.WavAudioFormat) != wavFormatPCM && int(dec.WavAudioFormat) != wavFormatExtensible {
		dur, err := dec.Duration()
		if err != nil {
			return 0, fmt.Errorf("descriptor: duration: %w", err)
		}
		return dur.Seconds(), nil
	}
	if dec.SampleRate == 0 {
		return 0, fmt.Errorf("descriptor: invalid sample rate")
	}
	bytesPerSample := int64(dec.BitDepth) / 8
	chans := int64(dec.NumChans)
	if bytesPerSample <= 0 || chans <= 0 {
		return 0, fmt.Errorf("descriptor: invalid bit depth/channel count")
	}
	if !dec.WasPCMAccessed() && dec.PCMChunk == nil {
		if err := dec.FwdToPCM(); err != nil {
			return 0, fmt.Errorf("descriptor: locate PCM: %w", err)
		}
	}
	totalBytes := dec.PCMLen()
	if totalBytes <= 0 {
		return 0, fmt.Errorf("descriptor: no PCM data")
	}
	frameSize := bytesPerSample * chans
	totalFrames := totalBytes / frameSize
	return float64(totalFrames) / float64(dec.SampleRate), nil
}

var (
	beatsPattern = regexp.MustCompile(`\w+[beats](\d+)`)
	bpmPattern   = regexp.MustCompile(`\w+[bpm]([0-9]+)`)
	digitsRun    = regexp.MustCompile("[0-9]+")
)

// guessTempo mirrors getbpm.go's two-pass strategy: first try an
// explicit "bpmNNN"/"beatsNNN" token in the filename, falling back to a
// brute-force nearest-fit search over plausible beat/BPM combinations when
// no BPM is found, the BPM is outside 100..200, or the beat count is not a
// multiple of 16.
func guessTempo(path string, seconds float64) (beats float64, bpm float64, err error) {
	beats, bpm, err = tempoFromName(path, seconds)
	nonSixteenBeats := math.Mod(beats, 16) != 0
	if err != nil || bpm < 100 || bpm > 200 || nonSixteenBeats {
		beats, bpm = tempoByFit(seconds)
		err = nil
	}
	return
}

func tempoFromName(path string, seconds float64) (beats float64, bpm float64, err error) {
	_, fname := filepath.Split(path)
	fname = strings.ToLower(fname)

	m := bpmPattern.FindStringSubmatch(fname)
	if len(m) < 2 {
		err = fmt.Errorf("descriptor: no bpm token in %s", fname)
		for _, num := range digitsRun.FindAllString(fname, -1) {
			bpm, err = strconv.ParseFloat(num, 64)
			if err == nil && bpm >= 100 && bpm <= 200 && math.Mod(bpm, 5) == 0 {
				break
			}
			err = fmt.Errorf("descriptor: no bpm detected")
		}
		if err != nil {
			return
		}
	} else {
		bpm, err = strconv.ParseFloat(m[1], 64)
		if err != nil {
			return
		}
	}

	if m = beatsPattern.FindStringSubmatch(fname); len(m) > 1 {
		beats, _ = strconv.ParseFloat(m[1], 64)
	}
	if beats == 0 {
		beats = math.Round(seconds / (60 / bpm))
	}
	return
}

// tempoByFit brute-forces the (beats, bpm) pair whose implied duration is
// closest to seconds, preferring power-of-two beat counts on ties.
func tempoByFit(seconds float64) (beats float64, bpm float64) {
	type guess struct{ diff, bpm, beats float64 }
	var guesses []guess
	for beat := 1.0; beat <= 128; beat++ {
		for bp := 100.0; bp < 200; bp++ {
			guesses = append(guesses, guess{math.Abs(seconds - beat*2.0*60.0/bp), bp, beat * 2.0})
		}
	}
	sort.Slice(guesses, func(i, j int) bool {
		if guesses[i].diff != guesses[j].diff {
			return guesses[i].diff < guesses[j].diff
		}
		iPow := isPowerOfTwo(guesses[i].beats)
		jPow := isPowerOfTwo(guesses[j].beats)
		if iPow != jPow {
			return iPow
		}
		return guesses[i].beats < guesses[j].beats
	})
	return guesses[0].beats, guesses[0].bpm
}

func isPowerOfTwo(n float64) bool {
	if n < 1 {
		return false
	}
	log2 := math.Log2(n)
	return math.Abs(log2-math.Round(log2)) < 1e-9
}

// ToSampleRef builds an engine.SampleRef for path, suitable for a single
// KitOnset at the descriptor's first onset offset.
func ToSampleRef(path string) (engine.SampleRef, error) {
	d, pcmStart, pcmBytes, err := Load(path)
	if err != nil {
		return engine.SampleRef{}, err
	}
	return engine.SampleRef{
		Path:     path,
		Tempo:    d.Tempo,
		Steps:    d.Steps,
		PCMStart: pcmStart,
		PCMBytes: pcmBytes,
	}, nil
}
