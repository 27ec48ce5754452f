// Package project implements a read-only project snapshot and
// filesystem watcher: a map of file id to parsed text/tree/scope,
// feeding both the flow
// analyzer's cross-file container-usage reducer (flow.CollectCrossFileUsage)
// and an optional runtimeinfo.ProjectExtension so the diagnostic
// engine's GD6xxx resource checks have real project data to consult.
package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gdtoolkit/sema/flow"
	"github.com/gdtoolkit/sema/parse"
	"github.com/gdtoolkit/sema/scope"
	"github.com/gdtoolkit/sema/syntax"
)

// File is one parsed script in a Snapshot.
type File struct {
	// Path is the file's id: its path relative to the project root,
	// forward-slash separated regardless of host OS.
	Path      string
	Text      []byte
	Tree      *syntax.Tree
	Graph     *scope.Graph
	ClassName string
	ParseErrs []error
}

// Snapshot is a read-only, immutable map of file id to parsed file.
// project.Watcher hands out a fresh Snapshot on every filesystem
// change instead of mutating one in place.
type Snapshot struct {
	root  string
	files map[string]*File
	// byClass indexes files that declared a class_name, for
	// ProjectExtension.GetScript's by-name lookups.
	byClass map[string]*File
}

// Root returns the directory Scan was given.
func (s *Snapshot) Root() string { return s.root }

// File returns the parsed file at id (its project-relative,
// forward-slash path), or nil if no such file was scanned.
func (s *Snapshot) File(id string) *File { return s.files[id] }

// Files returns every scanned file, in no particular order.
func (s *Snapshot) Files() []*File {
	out := make([]*File, 0, len(s.files))
	for _, f := range s.files {
		out = append(out, f)
	}
	return out
}

// FileUsages projects every file except excludeID into
// flow.FileUsage values, the read-only slice
// flow.CollectCrossFileUsage consumes.
func (s *Snapshot) FileUsages(excludeID string) []flow.FileUsage {
	var out []flow.FileUsage
	for id, f := range s.files {
		if id == excludeID || f.Tree == nil || f.Graph == nil {
			continue
		}
		out = append(out, flow.FileUsage{Tree: f.Tree, Graph: f.Graph})
	}
	return out
}

// Scan walks root for ".gd" files, parses each with the gdscript
// façade parser, builds its scope graph, and returns the resulting
// Snapshot. A file that fails to parse is still included (with its
// partial tree and ParseErrs set) rather than dropped, matching the
// incremental parser's own error-recovery stance.
func Scan(root string) (*Snapshot, error) {
	s := &Snapshot{root: root, files: map[string]*File{}, byClass: map[string]*File{}}
	parser := parse.GDScriptParser{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".gd") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("project: relativize %s: %w", path, err)
		}
		id := filepath.ToSlash(rel)
		text, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("project: read %s: %w", path, err)
		}
		tree, errs := parser.ParseFile(string(text))
		f := &File{Path: id, Text: text, Tree: tree, ParseErrs: errs}
		if tree != nil && tree.Root != nil {
			f.Graph = scope.Build(tree)
			f.ClassName = extractClassName(tree.ClassDecl())
		}
		s.files[id] = f
		if f.ClassName != "" {
			s.byClass[f.ClassName] = f
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// extractClassName scans a class declaration's header tokens for a
// `class_name <Identifier>` pair. Unlike every other member kind,
// extends/class_name headers are appended as bare tokens directly into
// class.Children by parseClassBody's root-header loop, not wrapped in
// their own node, so this walks tokens rather than child nodes.
func extractClassName(class *syntax.Node) string {
	if class == nil {
		return ""
	}
	sawClassName := false
	for _, c := range class.Children {
		tok, ok := c.(*syntax.Token)
		if !ok {
			continue
		}
		if tok.Category == syntax.CategoryKeyword && tok.Text == "class_name" {
			sawClassName = true
			continue
		}
		if sawClassName {
			if tok.Category == syntax.CategoryIdentifier {
				return tok.Text
			}
			sawClassName = false
		}
	}
	return ""
}
