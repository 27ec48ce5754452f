package diagnostics

import (
	"regexp"
	"strings"

	"github.com/gdtoolkit/sema/syntax"
)

// directivePattern implements the suppression-directive grammar:
// `gd:\s*(ignore|disable|enable)(\s*=\s*<code>(\s*,\s*<code>)*)?` where
// <code> matches GD\d{4}. Matching is case-insensitive.
var directivePattern = regexp.MustCompile(`(?i)gd:\s*(ignore|disable|enable)(?:\s*=\s*(GD\d{4}(?:\s*,\s*GD\d{4})*))?`)

type directiveKind int

const (
	directiveIgnore directiveKind = iota
	directiveDisable
	directiveEnable
)

type directive struct {
	kind  directiveKind
	line  int // 0-based line the comment token sits on
	codes []string
}

func parseDirective(comment *syntax.Token) (directive, bool) {
	m := directivePattern.FindStringSubmatch(comment.Text)
	if m == nil {
		return directive{}, false
	}
	var kind directiveKind
	switch strings.ToLower(m[1]) {
	case "ignore":
		kind = directiveIgnore
	case "disable":
		kind = directiveDisable
	case "enable":
		kind = directiveEnable
	}
	var codes []string
	if m[2] != "" {
		for _, c := range strings.Split(m[2], ",") {
			codes = append(codes, strings.ToUpper(strings.TrimSpace(c)))
		}
	}
	return directive{kind: kind, line: comment.Start.Line, codes: codes}, true
}

// suppressor answers, for a given (line, code), whether a diagnostic
// there should be dropped. It is built once per file from every
// comment token in the tree and then consulted per-diagnostic.
type suppressor struct {
	// ignoreLines maps a 0-based line to the set of codes `# gd:ignore`
	// suppresses there (nil set means "all codes").
	ignoreLines map[int]map[string]bool
	ignoreAll   map[int]bool
	// disables is the ordered list of disable/enable directives,
	// applied in line order to decide whether a later line's code is
	// currently suppressed by an enclosing disable block.
	disables []directive
}

// newSuppressor scans tree for every comment token and classifies it as
// a directive. A directive is recognized whether it sits inline on a
// statement's own line or alone on the line immediately preceding one —
// both cases reduce to "the diagnostic's own line or the line above it"
// at the call site, so this builder only needs to record the directive's
// own line; Suppressed checks a diagnostic's line and line-1.
func newSuppressor(tree *syntax.Tree, opts Options) *suppressor {
	s := &suppressor{ignoreLines: map[int]map[string]bool{}, ignoreAll: map[int]bool{}}
	if !opts.EnableSuppressionDirectives || tree.Root == nil {
		return s
	}
	for _, tok := range tree.Root.AllTokens() {
		if tok.Category != syntax.CategoryComment {
			continue
		}
		d, ok := parseDirective(tok)
		if !ok {
			continue
		}
		switch d.kind {
		case directiveIgnore:
			if len(d.codes) == 0 {
				s.ignoreAll[d.line] = true
			} else {
				set := s.ignoreLines[d.line]
				if set == nil {
					set = map[string]bool{}
					s.ignoreLines[d.line] = set
				}
				for _, c := range d.codes {
					set[c] = true
				}
			}
		case directiveDisable, directiveEnable:
			s.disables = append(s.disables, d)
		}
	}
	return s
}

// Suppressed reports whether a diagnostic at (line, code) should be
// dropped.
func (s *suppressor) Suppressed(line int, code string) bool {
	for _, checkLine := range [2]int{line, line - 1} {
		if s.ignoreAll[checkLine] {
			return true
		}
		if set := s.ignoreLines[checkLine]; set != nil && set[code] {
			return true
		}
	}
	return s.disabledAt(line, code)
}

// disabledAt replays the ordered disable/enable directives up to and
// including line, tracking whether code (or "all codes", when a
// directive carried no explicit list) is currently disabled.
func (s *suppressor) disabledAt(line int, code string) bool {
	allDisabled := false
	disabledCodes := map[string]bool{}
	for _, d := range s.disables {
		if d.line > line {
			break
		}
		switch d.kind {
		case directiveDisable:
			if len(d.codes) == 0 {
				allDisabled = true
			} else {
				for _, c := range d.codes {
					disabledCodes[c] = true
				}
			}
		case directiveEnable:
			if len(d.codes) == 0 {
				allDisabled = false
				disabledCodes = map[string]bool{}
			} else {
				for _, c := range d.codes {
					delete(disabledCodes, c)
				}
			}
		}
	}
	return allDisabled || disabledCodes[code]
}
