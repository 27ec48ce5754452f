package project

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func TestScanFindsGDScriptFilesAndSkipsOthers(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "player.gd", "extends Node\n\nfunc _ready():\n    pass\n")
	writeFile(t, root, "nested/enemy.gd", "extends Node\n\nfunc _ready():\n    pass\n")
	writeFile(t, root, "readme.txt", "not a script")

	snap, err := Scan(root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(snap.Files()) != 2 {
		t.Fatalf("expected 2 scanned files, got %d", len(snap.Files()))
	}
	if snap.File("player.gd") == nil {
		t.Fatalf("expected player.gd to be scanned")
	}
	if snap.File("nested/enemy.gd") == nil {
		t.Fatalf("expected nested/enemy.gd to be scanned")
	}
}

func TestScanExtractsClassName(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "player.gd", "extends Node\nclass_name Player\n\nfunc _ready():\n    pass\n")

	snap, err := Scan(root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	f := snap.File("player.gd")
	if f == nil {
		t.Fatalf("expected player.gd to be scanned")
	}
	if f.ClassName != "Player" {
		t.Fatalf("expected ClassName %q, got %q", "Player", f.ClassName)
	}
	if snap.byClass["Player"] != f {
		t.Fatalf("expected byClass index to map Player to the same file")
	}
}

func TestScanKeepsFilesWithParseErrors(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "broken.gd", "func test(:\n    pass\n")

	snap, err := Scan(root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	f := snap.File("broken.gd")
	if f == nil {
		t.Fatalf("expected broken.gd to still be scanned")
	}
	if len(f.ParseErrs) == 0 {
		t.Fatalf("expected broken.gd to carry parse errors")
	}
}

func TestFileUsagesExcludesGivenIDAndUnparsedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.gd", "extends Node\n\nfunc _ready():\n    pass\n")
	writeFile(t, root, "b.gd", "extends Node\n\nfunc _ready():\n    pass\n")

	snap, err := Scan(root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	usages := snap.FileUsages("a.gd")
	if len(usages) != 1 {
		t.Fatalf("expected 1 usage excluding a.gd, got %d", len(usages))
	}
}
