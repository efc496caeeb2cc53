package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestWatcher(t *testing.T, debounce time.Duration) *Watcher {
	t.Helper()
	w, err := New(debounce)
	if err != nil {
		t.Skipf("fsnotify unavailable: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w
}

func waitEvent(t *testing.T, w *Watcher, timeout time.Duration) (Event, bool) {
	t.Helper()
	select {
	case ev := <-w.Events():
		return ev, true
	case err := <-w.Errors():
		t.Fatalf("watch error: %v", err)
		return Event{}, false
	case <-time.After(timeout):
		return Event{}, false
	}
}

func TestWatchDeliversWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(path, []byte("one\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w := newTestWatcher(t, 10*time.Millisecond)
	if err := w.Watch(path); err != nil {
		t.Fatalf("watch failed: %v", err)
	}

	if err := os.WriteFile(path, []byte("two\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ev, ok := waitEvent(t, w, 2*time.Second)
	if !ok {
		t.Fatal("expected an event")
	}
	abs, _ := filepath.Abs(path)
	if ev.Path != abs {
		t.Errorf("expected path %s, got %s", abs, ev.Path)
	}
	if ev.Removed {
		t.Error("write should not be reported as removal")
	}
}

func TestWatchIgnoresUntrackedFiles(t *testing.T) {
	dir := t.TempDir()
	tracked := filepath.Join(dir, "tracked.txt")
	other := filepath.Join(dir, "other.txt")
	if err := os.WriteFile(tracked, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	w := newTestWatcher(t, 10*time.Millisecond)
	if err := w.Watch(tracked); err != nil {
		t.Fatalf("watch failed: %v", err)
	}

	if err := os.WriteFile(other, []byte("y"), 0644); err != nil {
		t.Fatal(err)
	}

	if ev, ok := waitEvent(t, w, 300*time.Millisecond); ok {
		t.Errorf("expected no event for untracked file, got %+v", ev)
	}
}

func TestWatchDebounceCoalesces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(path, []byte("0"), 0644); err != nil {
		t.Fatal(err)
	}

	w := newTestWatcher(t, 150*time.Millisecond)
	if err := w.Watch(path); err != nil {
		t.Fatalf("watch failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte{byte('0' + i)}, 0644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	if _, ok := waitEvent(t, w, 2*time.Second); !ok {
		t.Fatal("expected a coalesced event")
	}
	if ev, ok := waitEvent(t, w, 300*time.Millisecond); ok {
		t.Errorf("expected a single coalesced event, got extra %+v", ev)
	}
}

func TestWatchRemove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	w := newTestWatcher(t, 10*time.Millisecond)
	if err := w.Watch(path); err != nil {
		t.Fatalf("watch failed: %v", err)
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	ev, ok := waitEvent(t, w, 2*time.Second)
	if !ok {
		t.Fatal("expected a removal event")
	}
	if !ev.Removed {
		t.Errorf("expected Removed, got %+v", ev)
	}
}

func TestWatchAfterClose(t *testing.T) {
	w := newTestWatcher(t, 0)
	if err := w.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second close should be a no-op, got %v", err)
	}
	if err := w.Watch("somewhere"); err != ErrClosed {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}
