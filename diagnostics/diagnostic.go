// Package diagnostics implements a rule-based diagnostic engine: a
// static table of rule records, each producing zero or more
// Diagnostic values from a parsed class, its scope graph, its
// per-method flow analyses, and the runtime provider. Positions are
// carried internally as 0-based line/column pairs (syntax.Position's
// own coordinate system); the report writers of §6 convert them with
// ExternalPosition, adding the caller's line/column base (1 by default
// in config.Options, 0 allowed) before printing.
package diagnostics

import (
	"sort"

	"github.com/gdtoolkit/sema/syntax"
)

// Severity classifies how strongly a Diagnostic should be surfaced.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityHint
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "Error"
	case SeverityWarning:
		return "Warning"
	case SeverityHint:
		return "Hint"
	default:
		return "Unknown"
	}
}

// Category groups diagnostic codes by their GDxxxx family.
type Category int

const (
	CategorySyntax Category = iota
	CategoryScope
	CategoryTypes
	CategoryCallAndControlFlow
	CategoryResources
	CategorySignalsAndDuckTyping
	CategoryAbstract
)

// Range is a half-open source range expressed in the tree's native
// 0-based line/column coordinates.
type Range struct {
	Start syntax.Position
	End   syntax.Position
}

// RangeOfNode returns the range spanning n's first through last token.
// A node with no tokens (an empty block) collapses to a zero-width
// range at the zero position.
func RangeOfNode(n *syntax.Node) Range {
	first, last := n.FirstToken(), n.LastToken()
	if first == nil || last == nil {
		return Range{}
	}
	return Range{Start: first.Start, End: last.End}
}

// Diagnostic is one finding: a stable code, its severity, the message,
// the source range, and the file it was found in. Suggestion is set
// only by the undefined-variable/undefined-function rules (§4.9).
type Diagnostic struct {
	Code       string
	Severity   Severity
	Category   Category
	Message    string
	Range      Range
	FileID     string
	Suggestion string
}

// Sort orders diagnostics for deterministic output: stable by
// (start_line, start_column, code).
func Sort(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Range.Start.Line != b.Range.Start.Line {
			return a.Range.Start.Line < b.Range.Start.Line
		}
		if a.Range.Start.Column != b.Range.Start.Column {
			return a.Range.Start.Column < b.Range.Start.Column
		}
		return a.Code < b.Code
	})
}

// ExternalPosition converts a 0-based internal position to the
// line/column pair external consumers (editors, LSP-shaped tools)
// expect. lineBase/columnBase is almost always 1 (most tools are
// 1-based); config.Options carries them as a schema-validated knob
// for the rare consumer that wants 0-based numbering instead.
func ExternalPosition(p syntax.Position, lineBase, columnBase int) (line, column int) {
	return p.Line + lineBase, p.Column + columnBase
}
