package diagnostics

// Options toggles individual rule categories and suppression-directive
// handling. config.Options (the outer, schema-validated configuration
// surface) carries the same switches as flat fields and builds a value
// of this type through its Diagnostics method; diagnostics itself ships
// conservative defaults so it is usable standalone in tests.
type Options struct {
	// EnableDuckTypingDiagnostics turns on the GD7xxx unguarded-access
	// rules. Off by default.
	EnableDuckTypingDiagnostics bool
	// DuckTypingSeverity is the severity duck-typing diagnostics are
	// reported at when enabled.
	DuckTypingSeverity Severity
	// EnableResourceChecks turns on the GD6xxx preload/load path check.
	// It additionally requires a runtimeinfo.ProjectExtension-capable
	// provider at call time; this flag alone is not sufficient.
	EnableResourceChecks bool
	// EnableSuppressionDirectives turns `# gd:ignore`/`# gd:disable`/
	// `# gd:enable` comments on or off. When false, directives are
	// ignored entirely and every diagnostic fires regardless of
	// comments in the source.
	EnableSuppressionDirectives bool
}

// DefaultOptions returns conservative defaults: duck typing off,
// suppression directives on, resource checks off (since they also
// require a project-capable provider the caller must supply).
func DefaultOptions() Options {
	return Options{
		EnableDuckTypingDiagnostics: false,
		DuckTypingSeverity:          SeverityHint,
		EnableResourceChecks:        false,
		EnableSuppressionDirectives: true,
	}
}
