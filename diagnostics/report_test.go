package diagnostics

import (
	"strings"
	"testing"

	"github.com/gdtoolkit/sema/flow"
	"github.com/gdtoolkit/sema/semtype"
	"github.com/gdtoolkit/sema/syntax"
)

func TestWriteBlockReportFormatsKeyAndDetailLines(t *testing.T) {
	diags := []Diagnostic{{
		Code:     "GD2001",
		Severity: SeverityError,
		Category: CategoryScope,
		Message:  `undefined variable "x"`,
		Range:    Range{Start: syntax.Position{Line: 4, Column: 2}},
		FileID:   "res://test.gd",
	}}
	var sb strings.Builder
	if err := WriteBlockReport(&sb, "res://test.gd", diags, 1, 1, nil); err != nil {
		t.Fatalf("WriteBlockReport: %v", err)
	}
	out := sb.String()
	wantLines := []string{
		"res://test.gd",
		`  GD2001 undefined variable "x"`,
		"    line: 5",
		"    column: 3",
		"    severity: Error",
		"    category: Scope",
	}
	for _, want := range wantLines {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestWriteBlockReportHonorsZeroBasedNumbering(t *testing.T) {
	diags := []Diagnostic{{
		Code:    "GD2001",
		Message: "m",
		Range:   Range{Start: syntax.Position{Line: 4, Column: 2}},
	}}
	var sb strings.Builder
	if err := WriteBlockReport(&sb, "f.gd", diags, 0, 0, nil); err != nil {
		t.Fatalf("WriteBlockReport: %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, "line: 4") || !strings.Contains(out, "column: 2") {
		t.Fatalf("expected 0-based line/column to pass through unshifted, got:\n%s", out)
	}
}

func TestWriteBlockReportAppendsStatusSuffix(t *testing.T) {
	diags := []Diagnostic{{Code: "GD2001", Message: "m", Range: Range{}}}
	var sb strings.Builder
	err := WriteBlockReport(&sb, "f.gd", diags, 1, 1, func(Diagnostic) string { return "OK" })
	if err != nil {
		t.Fatalf("WriteBlockReport: %v", err)
	}
	if !strings.Contains(sb.String(), "GD2001 m # OK") {
		t.Fatalf("expected status suffix in output, got:\n%s", sb.String())
	}
}

func TestWriteNarrowingReportGroupsByMethodAndSkipsEmpty(t *testing.T) {
	methods := []MethodNarrowings{
		{MethodName: "no_guards", Events: nil},
		{
			MethodName: "handle",
			Events: []flow.NarrowingEvent{{
				Var:          "data",
				NarrowedType: semtype.Named("Dictionary"),
				BaseType:     semtype.Primitive(semtype.Variant),
				Pos:          syntax.Position{Line: 2, Column: 7},
			}},
		},
	}
	var sb strings.Builder
	if err := WriteNarrowingReport(&sb, "res://test.gd", methods, 1, 1); err != nil {
		t.Fatalf("WriteNarrowingReport: %v", err)
	}
	out := sb.String()
	if strings.Contains(out, "no_guards") {
		t.Errorf("expected method with no events to be skipped, got:\n%s", out)
	}
	if !strings.Contains(out, "handle()") {
		t.Errorf("expected handle() header, got:\n%s", out)
	}
	if !strings.Contains(out, "3:8 data -> Dictionary (base: variant)") {
		t.Errorf("expected narrowing line, got:\n%s", out)
	}
}
