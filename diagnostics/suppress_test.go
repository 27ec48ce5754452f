package diagnostics

import "testing"

func TestInlineIgnoreDirectiveSuppressesDiagnosticOnSameLine(t *testing.T) {
	src := "func test():\n    print(missing_name) # gd:ignore\n"
	diags := mustDiagnose(t, src, DefaultOptions())
	if hasCode(diags, "GD2001") {
		t.Fatalf("expected inline gd:ignore to suppress GD2001, got %v", codes(diags))
	}
}

func TestIgnoreDirectiveOnPrecedingLineSuppressesNextLine(t *testing.T) {
	src := "func test():\n    # gd:ignore\n    print(missing_name)\n"
	diags := mustDiagnose(t, src, DefaultOptions())
	if hasCode(diags, "GD2001") {
		t.Fatalf("expected preceding-line gd:ignore to suppress GD2001, got %v", codes(diags))
	}
}

func TestIgnoreDirectiveWithCodeListOnlySuppressesListedCodes(t *testing.T) {
	src := "func test():\n    print(missing_name) # gd:ignore=GD5001\n"
	diags := mustDiagnose(t, src, DefaultOptions())
	if !hasCode(diags, "GD2001") {
		t.Fatalf("expected GD2001 to still fire when ignore lists an unrelated code, got %v", codes(diags))
	}
}

func TestDisableEnableTimelineSuppressesOnlyBetweenDirectives(t *testing.T) {
	src := "func test():\n" +
		"    print(missing_one) # first\n" +
		"    # gd:disable=GD2001\n" +
		"    print(missing_two)\n" +
		"    # gd:enable=GD2001\n" +
		"    print(missing_three)\n"
	diags := mustDiagnose(t, src, DefaultOptions())
	if !hasCode(diags, "GD2001") {
		t.Fatalf("expected at least one GD2001 (before disable and after enable), got %v", codes(diags))
	}
	count := 0
	for _, d := range diags {
		if d.Code == "GD2001" {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("expected exactly 2 GD2001 diagnostics (missing_one and missing_three), got %d: %v", count, codes(diags))
	}
}

func TestSuppressionDirectivesAreCaseInsensitive(t *testing.T) {
	src := "func test():\n    print(missing_name) # GD:IGNORE\n"
	diags := mustDiagnose(t, src, DefaultOptions())
	if hasCode(diags, "GD2001") {
		t.Fatalf("expected case-insensitive gd:ignore to suppress GD2001, got %v", codes(diags))
	}
}

func TestSuppressionDirectivesAreIgnoredWhenDisabledInOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.EnableSuppressionDirectives = false
	src := "func test():\n    print(missing_name) # gd:ignore\n"
	diags := mustDiagnose(t, src, opts)
	if !hasCode(diags, "GD2001") {
		t.Fatalf("expected GD2001 to still fire when suppression directives are disabled, got %v", codes(diags))
	}
}
