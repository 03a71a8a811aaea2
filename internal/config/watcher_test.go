package config

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/Zeuyel/MathImage/internal/typ"
)

// TestWatcher_ReloadsOnExternalWrite tests that an external edit to the
// settings file reaches registered callbacks
func TestWatcher_ReloadsOnExternalWrite(t *testing.T) {
	store := newTestStore(t)

	watcher, err := NewWatcher(store)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	notified := make(chan typ.Settings, 1)
	watcher.AddCallback(func(s typ.Settings) {
		select {
		case notified <- s:
		default:
		}
	})

	if err := watcher.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer watcher.Stop()

	// The watcher compares mtimes, make sure the edit is strictly newer
	time.Sleep(1100 * time.Millisecond)

	edited := store.Snapshot()
	edited.Model = "written-externally"
	data, err := json.MarshalIndent(edited, "", "  ")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(store.ConfigFile(), data, 0600); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-notified:
		if got.Model != "written-externally" {
			t.Errorf("callback settings Model = %q, want written-externally", got.Model)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("callback was not invoked after settings file change")
	}

	if store.Snapshot().Model != "written-externally" {
		t.Errorf("store Model = %q after reload", store.Snapshot().Model)
	}
}

// TestWatcher_StartTwice tests that double start is rejected
func TestWatcher_StartTwice(t *testing.T) {
	store := newTestStore(t)

	watcher, err := NewWatcher(store)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := watcher.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer watcher.Stop()

	if err := watcher.Start(); err == nil {
		t.Error("second Start() succeeded, want error")
	}
}

// TestWatcher_StopIdempotent tests that Stop can be called repeatedly
func TestWatcher_StopIdempotent(t *testing.T) {
	store := newTestStore(t)

	watcher, err := NewWatcher(store)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := watcher.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := watcher.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if err := watcher.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
}
