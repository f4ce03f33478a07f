package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tOgg1/uplink/internal/logging"
)

const (
	// CurrentVersion is the on-disk schema version.
	CurrentVersion = 1

	defaultDebounce = 1 * time.Second
)

type fileState struct {
	Version int `json:"version"`
	AppState
}

// Persister writes snapshots to a JSON file. Writes are debounced, atomic
// and guarded by an advisory file lock so several processes can share a file.
type Persister struct {
	path     string
	lockPath string
	logger   zerolog.Logger

	mu       sync.Mutex
	pending  AppState
	latest   uint64
	dirty    bool
	timer    *time.Timer
	debounce time.Duration
}

// NewPersister creates a Persister for path. An empty path disables writes.
func NewPersister(path string, debounce time.Duration) *Persister {
	path = strings.TrimSpace(path)
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Persister{
		path:     path,
		lockPath: path + ".lock",
		debounce: debounce,
		logger:   logging.Component("state"),
	}
}

// Path returns the state file path.
func (p *Persister) Path() string { return p.path }

// Load reads the state file. A missing or empty file yields Default().
func (p *Persister) Load() (AppState, error) {
	if p.path == "" {
		return Default(), nil
	}

	var out fileState
	err := withFileLock(p.lockPath, func() error {
		payload, err := os.ReadFile(p.path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return err
		}
		if len(payload) == 0 {
			return nil
		}
		return json.Unmarshal(payload, &out)
	})
	if err != nil {
		return Default(), fmt.Errorf("load state %s: %w", p.path, err)
	}
	if out.Version > CurrentVersion {
		return Default(), fmt.Errorf("load state %s: unsupported version %d", p.path, out.Version)
	}

	loaded := out.AppState
	if loaded.Language == "" {
		loaded.Language = Default().Language
	}
	return loaded, nil
}

// Save schedules a debounced write of s. A snapshot older than one already
// accepted is dropped.
func (p *Persister) Save(s AppState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s.Revision < p.latest {
		p.logger.Debug().Uint64("revision", s.Revision).Uint64("latest", p.latest).Msg("dropping stale state snapshot")
		return
	}
	p.latest = s.Revision
	p.pending = s
	p.dirty = true
	if p.path == "" {
		return
	}
	if p.timer == nil {
		p.timer = time.AfterFunc(p.debounce, func() {
			if err := p.SaveNow(); err != nil {
				p.logger.Warn().Err(err).Str("path", p.path).Msg("failed to save state")
			}
		})
		return
	}
	_ = p.timer.Reset(p.debounce)
}

// SaveNow writes the latest snapshot immediately if it is unsaved.
func (p *Persister) SaveNow() error {
	p.mu.Lock()
	if p.path == "" || !p.dirty {
		p.mu.Unlock()
		return nil
	}
	snapshot := fileState{Version: CurrentVersion, AppState: p.pending}
	p.dirty = false
	p.mu.Unlock()

	if err := withFileLock(p.lockPath, func() error {
		return writeAtomicJSON(p.path, snapshot)
	}); err != nil {
		p.mu.Lock()
		p.dirty = true
		p.mu.Unlock()
		return err
	}
	return nil
}

// Close stops the debounce timer and flushes unsaved state.
func (p *Persister) Close() error {
	p.mu.Lock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.mu.Unlock()
	return p.SaveNow()
}

func withFileLock(lockPath string, fn func() error) error {
	if strings.TrimSpace(lockPath) == "" {
		return fn()
	}
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("lock %s: %w", lockPath, err)
	}
	defer func() {
		_ = syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
	}()
	return fn()
}

func writeAtomicJSON(path string, state fileState) error {
	payload, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
