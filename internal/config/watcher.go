package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/Zeuyel/MathImage/internal/typ"
)

// Watcher monitors the settings file and reloads the store when an external
// writer (the shell's settings flow, or a hand edit) changes it
type Watcher struct {
	store       *Store
	watcher     *fsnotify.Watcher
	callbacks   []func(typ.Settings)
	stopCh      chan struct{}
	mu          sync.RWMutex
	running     bool
	lastModTime time.Time
}

// NewWatcher creates a settings watcher for the store
func NewWatcher(store *Store) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		store:   store,
		watcher: watcher,
		stopCh:  make(chan struct{}),
	}, nil
}

// AddCallback registers a function called with the reloaded settings
func (w *Watcher) AddCallback(callback func(typ.Settings)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start begins watching for settings file changes
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("watcher is already running")
	}

	if stat, err := os.Stat(w.store.ConfigFile()); err == nil {
		w.lastModTime = stat.ModTime()
	}

	// Watch the directory, not the file: saves replace the file by rename,
	// which would silently drop a watch on the file itself
	if err := w.watcher.Add(w.store.ConfigDir()); err != nil {
		return fmt.Errorf("failed to watch settings directory: %w", err)
	}

	w.running = true
	go w.watchLoop()
	return nil
}

// Stop stops the watcher
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}
	w.running = false
	close(w.stopCh)
	return w.watcher.Close()
}

func (w *Watcher) watchLoop() {
	var debounceTimer *time.Timer

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Name != w.store.ConfigFile() {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			// Debounce rapid file changes
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(500*time.Millisecond, w.handleChange)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logrus.Warnf("Settings watcher error: %v", err)

		case <-w.stopCh:
			return
		}
	}
}

func (w *Watcher) handleChange() {
	stat, err := os.Stat(w.store.ConfigFile())
	if err != nil {
		return
	}

	w.mu.Lock()
	if !stat.ModTime().After(w.lastModTime) {
		w.mu.Unlock()
		return
	}
	w.lastModTime = stat.ModTime()
	w.mu.Unlock()

	if err := w.store.Reload(); err != nil {
		logrus.Errorf("Failed to reload settings: %v", err)
		return
	}

	settings := w.store.Snapshot()

	w.mu.RLock()
	callbacks := make([]func(typ.Settings), len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.RUnlock()

	for _, callback := range callbacks {
		callback(settings)
	}

	logrus.Debugln("Settings reloaded")
}
