package diagnostics

import (
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/gdtoolkit/sema/runtimeinfo"
	"github.com/gdtoolkit/sema/scope"
)

// suggestNearest implements the §4.9 suggestion subsystem: a fuzzy
// nearest-match search over every name visible at s (its scope chain)
// plus the runtime provider's global names, returning the best match
// for name or "" if nothing ranks.
func suggestNearest(name string, s *scope.Scope, provider runtimeinfo.Provider) string {
	var candidates []string
	for _, c := range visibleNames(s, provider) {
		if c != name {
			candidates = append(candidates, c)
		}
	}
	ranks := fuzzy.RankFindFold(name, candidates)
	if len(ranks) == 0 {
		return ""
	}
	return ranks[0].Target
}

func visibleNames(s *scope.Scope, provider runtimeinfo.Provider) []string {
	var out []string
	for cur := s; cur != nil; cur = cur.Parent() {
		for _, sym := range cur.Symbols() {
			out = append(out, sym.Name)
		}
	}
	if bp, ok := provider.(*runtimeinfo.BuiltinProvider); ok {
		out = append(out, bp.GlobalNames()...)
	}
	return out
}
