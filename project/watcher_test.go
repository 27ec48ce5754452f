package project

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchPicksUpNewFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.gd", "extends Node\n\nfunc _ready():\n    pass\n")

	w, err := Watch(root)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	if len(w.Current().Files()) != 1 {
		t.Fatalf("expected 1 file in initial snapshot, got %d", len(w.Current().Files()))
	}

	writeFile(t, root, "b.gd", "extends Node\n\nfunc _ready():\n    pass\n")

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(w.Current().Files()) == 2 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected watcher to pick up b.gd within the deadline, saw %d files", len(w.Current().Files()))
}

func TestWatchCloseStopsTheLoop(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.gd", "extends Node\n\nfunc _ready():\n    pass\n")

	w, err := Watch(root)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close should be a no-op, got: %v", err)
	}

	before := w.Current()
	writeFile(t, root, "b.gd", "extends Node\n\nfunc _ready():\n    pass\n")
	time.Sleep(250 * time.Millisecond)
	if w.Current() != before {
		t.Fatalf("expected snapshot to stay fixed after Close")
	}
}

func TestAddRecursiveCoversSubdirectories(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "nested", "deeper")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	w, err := Watch(root)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	writeFile(t, root, "nested/deeper/c.gd", "extends Node\n\nfunc _ready():\n    pass\n")

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(w.Current().Files()) == 1 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected watcher to pick up a file created in a pre-existing subdirectory")
}
