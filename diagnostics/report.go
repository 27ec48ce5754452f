package diagnostics

import (
	"fmt"
	"io"

	"github.com/gdtoolkit/sema/flow"
)

// WriteBlockReport renders diags in a block-verified format:
//
//	<file-path>
//	  <code> <message> [# <status>]
//	    line: <1-based line>
//	    column: <1-based column>
//	    severity: <severity>
//	    category: <category>
//	    suggestion: <suggestion>
//
// status, when statusOf is non-nil, is appended after a "# " marker on
// the key line (one of OK/FP/SKIP); callers without an external
// verification oracle to compare against pass a nil statusOf and get
// a plain, unverified block. diags is sorted in place before writing,
// so callers see the file's diagnostics in deterministic order.
// lineBase/columnBase come from config.Options (ExternalLineBase/
// ExternalColumnBase); pass 1, 1 for the conventional 1-based output.
func WriteBlockReport(w io.Writer, filePath string, diags []Diagnostic, lineBase, columnBase int, statusOf func(Diagnostic) string) error {
	Sort(diags)
	if _, err := fmt.Fprintln(w, filePath); err != nil {
		return err
	}
	for _, d := range diags {
		line, col := ExternalPosition(d.Range.Start, lineBase, columnBase)
		keyLine := fmt.Sprintf("  %s %s", d.Code, d.Message)
		if statusOf != nil {
			if status := statusOf(d); status != "" {
				keyLine += " # " + status
			}
		}
		if _, err := fmt.Fprintln(w, keyLine); err != nil {
			return err
		}
		details := []struct {
			key, value string
		}{
			{"line", fmt.Sprint(line)},
			{"column", fmt.Sprint(col)},
			{"severity", d.Severity.String()},
			{"category", categoryName(d.Category)},
		}
		if d.Suggestion != "" {
			details = append(details, struct{ key, value string }{"suggestion", d.Suggestion})
		}
		for _, kv := range details {
			if _, err := fmt.Fprintf(w, "    %s: %s\n", kv.key, kv.value); err != nil {
				return err
			}
		}
	}
	return nil
}

func categoryName(c Category) string {
	switch c {
	case CategorySyntax:
		return "Syntax"
	case CategoryScope:
		return "Scope"
	case CategoryTypes:
		return "Types"
	case CategoryCallAndControlFlow:
		return "Call/ControlFlow"
	case CategoryResources:
		return "Resources"
	case CategorySignalsAndDuckTyping:
		return "Signals/DuckTyping"
	case CategoryAbstract:
		return "Abstract"
	default:
		return "Unknown"
	}
}

// MethodNarrowings is one method's recorded narrowing events, the
// unit WriteNarrowingReport groups its output by.
type MethodNarrowings struct {
	MethodName string
	Events     []flow.NarrowingEvent
}

// WriteNarrowingReport renders a flow-narrowing report:
//
//	<file-path>
//	  <method>()
//	    <line>:<col> <var> -> <narrowed-type> (base: <base-type>)
//
// lineBase/columnBase come from config.Options the same way
// WriteBlockReport's do.
func WriteNarrowingReport(w io.Writer, filePath string, methods []MethodNarrowings, lineBase, columnBase int) error {
	if _, err := fmt.Fprintln(w, filePath); err != nil {
		return err
	}
	for _, m := range methods {
		if len(m.Events) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "  %s()\n", m.MethodName); err != nil {
			return err
		}
		for _, ev := range m.Events {
			line, col := ExternalPosition(ev.Pos, lineBase, columnBase)
			base := "variant"
			if ev.BaseType != nil {
				base = ev.BaseType.String()
			}
			if _, err := fmt.Fprintf(w, "    %d:%d %s -> %s (base: %s)\n",
				line, col, ev.Var, ev.NarrowedType, base); err != nil {
				return err
			}
		}
	}
	return nil
}
