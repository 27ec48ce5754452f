package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gdtoolkit/sema/diagnostics"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadJSONFillsDefaultsForUnsetFields(t *testing.T) {
	path := writeTemp(t, "opts.json", `{"maxAffectedMembers": 5}`)
	opts, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, opts.MaxAffectedMembers)
	assert.Equal(t, Default().CrossMemberThreshold, opts.CrossMemberThreshold)
	assert.Equal(t, 1, opts.ExternalLineBase)
}

func TestLoadYAMLEquivalentToJSON(t *testing.T) {
	path := writeTemp(t, "opts.yaml", "maxAffectedMembers: 7\nenableDuckTypingDiagnostics: true\n")
	opts, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, opts.MaxAffectedMembers)
	assert.True(t, opts.EnableDuckTypingDiagnostics)
}

func TestLoadRejectsUnknownField(t *testing.T) {
	path := writeTemp(t, "opts.json", `{"totallyMadeUp": true}`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsInvalidSeverityEnum(t *testing.T) {
	path := writeTemp(t, "opts.json", `{"duckTypingSeverity": "catastrophic"}`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsNonexistentFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestDiagnosticsProjectsMatchingFields(t *testing.T) {
	opts := Default()
	opts.EnableDuckTypingDiagnostics = true
	opts.DuckTypingSeverity = "warning"
	opts.EnableResourceChecks = true
	opts.EnableSuppressionDirectives = false

	got := opts.Diagnostics()
	assert.True(t, got.EnableDuckTypingDiagnostics)
	assert.Equal(t, diagnostics.SeverityWarning, got.DuckTypingSeverity)
	assert.True(t, got.EnableResourceChecks)
	assert.False(t, got.EnableSuppressionDirectives)
}
