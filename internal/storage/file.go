package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// File persists the credential record as a JSON state file created 0600
// under a 0700 directory.
type File struct {
	path string

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// DefaultStatePath returns the default session state file location.
func DefaultStatePath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".guardweb", "session.json")
}

// NewFile creates a file-backed store at path. An empty path selects
// DefaultStatePath.
func NewFile(path string) *File {
	if path == "" {
		path = DefaultStatePath()
	}
	return &File{path: path}
}

// Path returns the state file location.
func (f *File) Path() string {
	return f.path
}

func (f *File) Load(context.Context) (Record, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("read state file: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("parse state file: %w", err)
	}
	if !rec.Complete() {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (f *File) Save(_ context.Context, rec Record) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	// Write-then-rename so a concurrent reader never sees a partial record.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

func (f *File) Clear(context.Context) error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove state file: %w", err)
	}
	return nil
}

// Watch invokes onChange whenever another process rewrites or removes the
// state file. The watcher runs until Close is called. Calling Watch twice
// returns an error.
func (f *File) Watch(onChange func()) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.watcher != nil {
		return fmt.Errorf("state file watcher already running")
	}

	// The file itself may not exist yet; watch its directory.
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return fmt.Errorf("watch state dir: %w", err)
	}

	f.watcher = w
	f.done = make(chan struct{})
	go f.watchLoop(w, f.done, onChange)
	return nil
}

func (f *File) watchLoop(w *fsnotify.Watcher, done chan struct{}, onChange func()) {
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ev.Name != f.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				onChange()
			}
		case _, ok := <-w.Errors:
			if !ok {
				return
			}
		case <-done:
			return
		}
	}
}

// Close stops the watcher, if any.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.watcher == nil {
		return nil
	}
	close(f.done)
	err := f.watcher.Close()
	f.watcher = nil
	f.done = nil
	return err
}
