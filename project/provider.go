package project

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gdtoolkit/sema/runtimeinfo"
)

// Extension adapts a Snapshot into a runtimeinfo.ProjectExtension,
// giving the GD6xxx resource diagnostics a real project tree to check
// preload/load paths and extends headers against. Resource resolution
// stops at "does something exist at this path" — no .tscn/.tres
// parsing, per the Non-goals carried from the provider interface.
type Extension struct {
	snap *Snapshot
}

// NewExtension wraps snap. A nil snap is valid and behaves as an empty
// project (every lookup misses).
func NewExtension(snap *Snapshot) *Extension {
	return &Extension{snap: snap}
}

// GetResource reports whether path resolves to a file under the
// project root, stripping any "scheme://" prefix first. The kind in
// the returned ResourceInfo is a guess from the file extension, not a
// parse of the resource's contents.
func (e *Extension) GetResource(path string) (runtimeinfo.ResourceInfo, bool) {
	if e.snap == nil {
		return runtimeinfo.ResourceInfo{}, false
	}
	_, rest := runtimeinfo.ParseResourcePath(path)
	id := filepath.ToSlash(rest)

	if f := e.snap.File(id); f != nil {
		return runtimeinfo.ResourceInfo{Path: path, Type: "GDScript"}, true
	}

	full := filepath.Join(e.snap.root, filepath.FromSlash(id))
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return runtimeinfo.ResourceInfo{}, false
	}
	return runtimeinfo.ResourceInfo{Path: path, Type: resourceKind(id)}, true
}

// GetScript resolves name against the project's class_name index
// first (the common case: `extends SomeRegisteredClass`), then falls
// back to treating it as a scheme-prefixed or bare file id.
func (e *Extension) GetScript(name string) (runtimeinfo.ScriptInfo, bool) {
	if e.snap == nil {
		return runtimeinfo.ScriptInfo{}, false
	}
	if f, ok := e.snap.byClass[name]; ok {
		return runtimeinfo.ScriptInfo{Path: f.Path, ClassName: f.ClassName}, true
	}
	_, rest := runtimeinfo.ParseResourcePath(name)
	id := filepath.ToSlash(rest)
	if f := e.snap.File(id); f != nil && f.ClassName != "" {
		return runtimeinfo.ScriptInfo{Path: f.Path, ClassName: f.ClassName}, true
	}
	return runtimeinfo.ScriptInfo{}, false
}

// ProviderWithProject combines a base runtimeinfo.Provider (typically
// *runtimeinfo.BuiltinProvider) with a Snapshot's Extension so a single
// value satisfies both Provider and runtimeinfo.ProjectExtension. This
// is the provider cmd/semalint hands the diagnostic engine once a
// project root is known.
type ProviderWithProject struct {
	runtimeinfo.Provider
	*Extension
}

// NewProviderWithProject combines base with a project snapshot.
func NewProviderWithProject(base runtimeinfo.Provider, snap *Snapshot) ProviderWithProject {
	return ProviderWithProject{Provider: base, Extension: NewExtension(snap)}
}

func resourceKind(id string) string {
	switch strings.ToLower(filepath.Ext(id)) {
	case ".gd":
		return "GDScript"
	case ".tscn":
		return "PackedScene"
	case ".tres":
		return "Resource"
	case ".png", ".jpg", ".jpeg", ".svg", ".webp":
		return "Texture2D"
	default:
		return "Resource"
	}
}
