package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

// waitFor polls cond until it holds or the timeout passes
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func startWatcher(t *testing.T, path string, calls *atomic.Int32) context.CancelFunc {
	t.Helper()
	fw := NewFileWatcher(path, 20*time.Millisecond, func(ctx context.Context) {
		calls.Add(1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- fw.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Run() = %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Error("watcher did not stop")
		}
	})

	// give the watcher time to register before the test touches files
	time.Sleep(50 * time.Millisecond)
	return cancel
}

func TestFileWatcherDetectsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "status.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	var calls atomic.Int32
	startWatcher(t, path, &calls)

	if err := os.WriteFile(path, []byte(`{"skyrimse": {}}`), 0o644); err != nil {
		t.Fatalf("failed to update file: %v", err)
	}

	if !waitFor(t, 2*time.Second, func() bool { return calls.Load() >= 1 }) {
		t.Fatal("expected change callback after write")
	}
}

func TestFileWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "status.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	var calls atomic.Int32
	fw := NewFileWatcher(path, 300*time.Millisecond, func(ctx context.Context) {
		calls.Add(1)
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go fw.Run(ctx)
	time.Sleep(50 * time.Millisecond)

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
			t.Fatalf("failed to update file: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	if !waitFor(t, 2*time.Second, func() bool { return calls.Load() >= 1 }) {
		t.Fatal("expected a change callback")
	}
	time.Sleep(400 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("expected burst to collapse into 1 callback, got %d", got)
	}
}

func TestFileWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "status.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	var calls atomic.Int32
	startWatcher(t, path, &calls)

	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0o644); err != nil {
		t.Fatalf("failed to write other file: %v", err)
	}

	time.Sleep(200 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("expected no callback for unrelated files, got %d", got)
	}
}

func TestFileWatcherMissingDirectory(t *testing.T) {
	fw := NewFileWatcher(filepath.Join(t.TempDir(), "missing", "status.json"), DefaultDebounce, func(context.Context) {})

	if err := fw.Run(context.Background()); err == nil {
		t.Error("expected error when the directory does not exist")
	}
}

func TestRelevant(t *testing.T) {
	fw := NewFileWatcher("/srv/ctd/status.json", DefaultDebounce, nil)

	testCases := []struct {
		name     string
		event    fsnotify.Event
		expected bool
	}{
		{"write", fsnotify.Event{Name: "/srv/ctd/status.json", Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: "/srv/ctd/status.json", Op: fsnotify.Create}, true},
		{"rename", fsnotify.Event{Name: "/srv/ctd/status.json", Op: fsnotify.Rename}, true},
		{"chmod", fsnotify.Event{Name: "/srv/ctd/status.json", Op: fsnotify.Chmod}, false},
		{"remove", fsnotify.Event{Name: "/srv/ctd/status.json", Op: fsnotify.Remove}, false},
		{"other file", fsnotify.Event{Name: "/srv/ctd/status.json.tmp", Op: fsnotify.Write}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := fw.relevant(tc.event); got != tc.expected {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}
