package diagnostics

import (
	"strings"

	"github.com/gdtoolkit/sema/gdscript"
	"github.com/gdtoolkit/sema/syntax"
)

// FromParseErrors translates the parser façade's own syntax failures
// into GD1xxx diagnostics. It accepts the raw []error parse.Parser
// returns; any error that is not a gdscript.ParseError (a parser façade
// other than package gdscript) is reported at the zero position rather
// than dropped.
func FromParseErrors(fileID string, errs []error) []Diagnostic {
	var out []Diagnostic
	for _, err := range errs {
		pos := syntax.Position{}
		if pe, ok := err.(gdscript.ParseError); ok {
			pos = syntax.Position{Line: pe.Line, Column: pe.Column}
		}
		out = append(out, Diagnostic{
			Code:     syntaxErrorCode(err.Error()),
			Severity: SeverityError,
			Category: CategorySyntax,
			Message:  err.Error(),
			Range:    Range{Start: pos, End: pos},
			FileID:   fileID,
		})
	}
	return out
}

// syntaxErrorCode classifies a parser error message into GD1002
// (unmatched bracket) when the expected token it reports was a
// closing bracket/paren/brace, and GD1001 (invalid token) otherwise.
func syntaxErrorCode(message string) string {
	for _, closer := range []string{`')'`, `']'`, `'}'`} {
		if strings.Contains(message, closer) {
			return "GD1002"
		}
	}
	return "GD1001"
}
