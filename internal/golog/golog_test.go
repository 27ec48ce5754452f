package golog

import (
	"strings"
	"testing"
)

func TestLoggerFiltersBelowConfiguredLevel(t *testing.T) {
	var sb strings.Builder
	l := New(&sb, Warn)
	l.Infof("should not appear")
	l.Warnf("should appear: %d", 42)

	out := sb.String()
	if strings.Contains(out, "should not appear") {
		t.Errorf("expected Info to be filtered out at Warn level, got:\n%s", out)
	}
	if !strings.Contains(out, "[WARN] should appear: 42") {
		t.Errorf("expected formatted WARN line, got:\n%s", out)
	}
}

func TestSetLevelChangesFiltering(t *testing.T) {
	var sb strings.Builder
	l := New(&sb, Error)
	l.Warnf("filtered")
	l.SetLevel(Debug)
	l.Debugf("now visible")

	out := sb.String()
	if strings.Contains(out, "filtered") {
		t.Errorf("expected first Warnf to be filtered, got:\n%s", out)
	}
	if !strings.Contains(out, "[DEBUG] now visible") {
		t.Errorf("expected DEBUG line after SetLevel, got:\n%s", out)
	}
}
