// Package config implements the toolkit's options surface:
// incremental-parser thresholds, diagnostic rule toggles, and the
// external line/column numbering base, loaded from a JSON or YAML
// file and validated against an embedded JSON Schema before use.
package config

import "github.com/gdtoolkit/sema/diagnostics"

// Options is the toolkit's full configuration surface: a plain struct
// with JSON/YAML tags, validated against schema.json before use.
type Options struct {
	// MaxAffectedMembers is loaded and schema-validated but not read by
	// any package in this module; the incremental parser takes its
	// member cap from parse.Options.MaxAffectedMembers.
	MaxAffectedMembers int `json:"maxAffectedMembers" yaml:"maxAffectedMembers"`

	// CrossMemberThreshold is loaded and schema-validated but not read
	// by any package in this module; the incremental parser's change-size
	// limit is parse.Options.CrossMemberThresholdFraction, a fraction of
	// the file's length.
	CrossMemberThreshold int `json:"crossMemberThreshold" yaml:"crossMemberThreshold"`

	// EnableDuckTypingDiagnostics turns on the GD7xxx unguarded-access
	// rules. Off by default.
	EnableDuckTypingDiagnostics bool `json:"enableDuckTypingDiagnostics" yaml:"enableDuckTypingDiagnostics"`

	// DuckTypingSeverity is one of "error", "warning", "hint".
	DuckTypingSeverity string `json:"duckTypingSeverity" yaml:"duckTypingSeverity"`

	// EnableResourceChecks turns on the GD6xxx preload/load path
	// check; it additionally requires a project-capable runtime
	// provider at call time.
	EnableResourceChecks bool `json:"enableResourceChecks" yaml:"enableResourceChecks"`

	// EnableSuppressionDirectives turns `# gd:ignore`/`# gd:disable`/
	// `# gd:enable` comments on or off.
	EnableSuppressionDirectives bool `json:"enableSuppressionDirectives" yaml:"enableSuppressionDirectives"`

	// ExternalLineBase and ExternalColumnBase control the numbering
	// base diagnostic positions are reported at externally. Both
	// default to 1, but a caller embedding this toolkit in a 0-based
	// tool surface can override them.
	ExternalLineBase   int `json:"externalLineBase" yaml:"externalLineBase"`
	ExternalColumnBase int `json:"externalColumnBase" yaml:"externalColumnBase"`
}

// Default returns the stock incremental-parser thresholds,
// diagnostics.DefaultOptions' rule toggles, and 1-based numbering.
func Default() Options {
	d := diagnostics.DefaultOptions()
	return Options{
		MaxAffectedMembers:          3,
		CrossMemberThreshold:        1,
		EnableDuckTypingDiagnostics: d.EnableDuckTypingDiagnostics,
		DuckTypingSeverity:          severityName(d.DuckTypingSeverity),
		EnableResourceChecks:        d.EnableResourceChecks,
		EnableSuppressionDirectives: d.EnableSuppressionDirectives,
		ExternalLineBase:            1,
		ExternalColumnBase:          1,
	}
}

// Diagnostics projects the subset of Options diagnostics.Diagnose
// consumes into a diagnostics.Options value.
func (o Options) Diagnostics() diagnostics.Options {
	return diagnostics.Options{
		EnableDuckTypingDiagnostics: o.EnableDuckTypingDiagnostics,
		DuckTypingSeverity:          severityFromName(o.DuckTypingSeverity),
		EnableResourceChecks:        o.EnableResourceChecks,
		EnableSuppressionDirectives: o.EnableSuppressionDirectives,
	}
}

func severityName(s diagnostics.Severity) string {
	switch s {
	case diagnostics.SeverityError:
		return "error"
	case diagnostics.SeverityWarning:
		return "warning"
	default:
		return "hint"
	}
}

func severityFromName(name string) diagnostics.Severity {
	switch name {
	case "error":
		return diagnostics.SeverityError
	case "warning":
		return diagnostics.SeverityWarning
	default:
		return diagnostics.SeverityHint
	}
}
