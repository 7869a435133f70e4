package descriptor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// The pack carries no fixture WAV files for this package, unlike the
// teacher's own getbpm_test.go (which reads checked-in samples); these
// tests synthesize a minimal mono 16-bit PCM WAV instead.
func writeTestWAV(t *testing.T, name string, sampleRate, numFrames int) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	samples := make([]int, numFrames)
	buf := &audio.IntBuffer{
		Data:           samples,
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return path
}

func TestLoadComputesPCMLength(t *testing.T) {
	path := writeTestWAV(t, "loop_bpm120_beats8.wav", 44100, 44100*4) // 4s @ 120bpm = 8 beats
	d, pcmStart, pcmBytes, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if pcmStart <= 0 {
		t.Errorf("expected positive pcmStart, got %d", pcmStart)
	}
	wantBytes := int64(44100 * 4 * 2) // 16-bit mono
	if pcmBytes != wantBytes {
		t.Errorf("pcmBytes = %d, want %d", pcmBytes, wantBytes)
	}
	if d.Tempo == nil || *d.Tempo != 120 {
		t.Errorf("tempo = %v, want 120", d.Tempo)
	}
	if d.Steps == nil || *d.Steps != 8 {
		t.Errorf("steps = %v, want 8", d.Steps)
	}
	if len(d.Onsets) != 1 || d.Onsets[0] != 0 {
		t.Errorf("onsets = %v, want [0]", d.Onsets)
	}
}

func TestLoadFallsBackToFitGuessWithoutNameHints(t *testing.T) {
	path := writeTestWAV(t, "unnamed.wav", 44100, 44100*2)
	d, _, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Tempo == nil {
		t.Error("expected a guessed tempo even without filename hints")
	}
}

func TestToSampleRefPopulatesEngineFields(t *testing.T) {
	path := writeTestWAV(t, "kick_bpm140_beats4.wav", 44100, 44100*2)
	ref, err := ToSampleRef(path)
	if err != nil {
		t.Fatalf("ToSampleRef: %v", err)
	}
	if ref.Path != path {
		t.Errorf("path = %q, want %q", ref.Path, path)
	}
	if ref.PCMBytes != int64(44100*2*2) {
		t.Errorf("PCMBytes = %d, want %d", ref.PCMBytes, 44100*2*2)
	}
}
