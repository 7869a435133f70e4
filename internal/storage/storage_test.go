package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/schollz/collidertracker/engine"
	"github.com/schollz/collidertracker/internal/project"
)

func sampleState() ProjectState {
	bank := engine.Bank{Kits: make([]*engine.Kit, 8), Phrases: make([]*engine.Phrase, 8)}
	bank.Kits[0] = engine.NewKit(8)
	return ProjectState{Banks: []engine.Bank{bank}, Tempo: 120, StepDiv: 1}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := sampleState()

	assert.NoError(t, Save(dir, want))
	assert.FileExists(t, filepath.Join(dir, project.SnapshotFile))

	got, err := Load(dir)
	assert.NoError(t, err)
	assert.Equal(t, want.Tempo, got.Tempo)
	assert.Equal(t, want.StepDiv, got.StepDiv)
	assert.Len(t, got.Banks, 1)
	assert.NotNil(t, got.Banks[0].Kits[0])
}

func TestLoadMissingSnapshotErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoadEmptyBanksIsDataNotFound(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, Save(dir, ProjectState{}))
	_, err := Load(dir)
	assert.ErrorIs(t, err, engine.ErrDataNotFound)
}

func TestAutoSaverDebouncesToOneWrite(t *testing.T) {
	dir := t.TempDir()
	calls := 0
	a := NewAutoSaver(dir, 20*time.Millisecond, func() ProjectState {
		calls++
		return sampleState()
	})

	for i := 0; i < 5; i++ {
		a.Trigger()
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, 1, calls)
	assert.FileExists(t, filepath.Join(dir, project.SnapshotFile))
}

func TestAutoSaverSaveNowCancelsPending(t *testing.T) {
	dir := t.TempDir()
	a := NewAutoSaver(dir, time.Hour, sampleState)

	a.Trigger()
	assert.NoError(t, a.SaveNow())
	assert.FileExists(t, filepath.Join(dir, project.SnapshotFile))
}
