// Package storage persists a project's banks to a gzipped JSON snapshot,
// with a debounced autosave timer for real-time callers that mutate state
// on every tick.
package storage

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	clog "github.com/charmbracelet/log"
	jsoniter "github.com/json-iterator/go"

	"github.com/schollz/collidertracker/engine"
	"github.com/schollz/collidertracker/internal/project"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ProjectState is the on-disk shape of a whole project: every bank's
// kit/phrase snapshot plus the system-wide tempo and step division.
type ProjectState struct {
	Banks   []engine.Bank
	Tempo   float64
	StepDiv float64
}

// Save gzip+JSON-encodes state into dir/project.SnapshotFile, creating dir
// if needed.
func Save(dir string, state ProjectState) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("storage: create project dir %s: %w", dir, err)
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("storage: marshal project state: %w", err)
	}

	path := filepath.Join(dir, project.SnapshotFile)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("storage: create %s: %w", path, err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	if _, err := gz.Write(data); err != nil {
		gz.Close()
		return fmt.Errorf("storage: write gzipped snapshot: %w", err)
	}
	return gz.Close()
}

// Load reads and decodes a snapshot previously written by Save.
func Load(dir string) (ProjectState, error) {
	path := filepath.Join(dir, project.SnapshotFile)
	f, err := os.Open(path)
	if err != nil {
		return ProjectState{}, fmt.Errorf("storage: open %s: %w", path, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return ProjectState{}, fmt.Errorf("storage: %s: %w", path, engine.ErrBadFormat)
	}
	defer gz.Close()

	data, err := io.ReadAll(gz)
	if err != nil {
		return ProjectState{}, fmt.Errorf("storage: read snapshot: %w", err)
	}

	var state ProjectState
	if err := json.Unmarshal(data, &state); err != nil {
		return ProjectState{}, fmt.Errorf("storage: unmarshal snapshot: %w", err)
	}
	if len(state.Banks) == 0 {
		return ProjectState{}, engine.ErrDataNotFound
	}
	return state, nil
}

// AutoSaver debounces repeated save requests into a single write after a
// quiet period, so a real-time caller can call Trigger on every edit
// without hammering disk.
type AutoSaver struct {
	mu       sync.Mutex
	timer    *time.Timer
	debounce time.Duration
	dir      string
	snapshot func() ProjectState
}

// NewAutoSaver builds an AutoSaver that writes to dir, pulling the state
// to save from snapshot at the moment the debounce timer fires.
func NewAutoSaver(dir string, debounce time.Duration, snapshot func() ProjectState) *AutoSaver {
	return &AutoSaver{dir: dir, debounce: debounce, snapshot: snapshot}
}

// Trigger (re)starts the debounce timer; only the last call within the
// debounce window results in a save.
func (a *AutoSaver) Trigger() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.debounce, func() {
		start := time.Now()
		if err := Save(a.dir, a.snapshot()); err != nil {
			clog.Error("autosave failed", "dir", a.dir, "err", err)
			return
		}
		clog.Debug("autosaved", "dir", a.dir, "ms", time.Since(start).Milliseconds())
	})
}

// SaveNow cancels any pending debounced save and writes immediately.
func (a *AutoSaver) SaveNow() error {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
	}
	a.mu.Unlock()
	return Save(a.dir, a.snapshot())
}
