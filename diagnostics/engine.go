package diagnostics

import (
	"github.com/gdtoolkit/sema/infer"
	"github.com/gdtoolkit/sema/runtimeinfo"
	"github.com/gdtoolkit/sema/scope"
	"github.com/gdtoolkit/sema/syntax"
)

// context bundles everything a rule's analyser function needs. It is
// built once per Diagnose call and handed to every rule record's fn.
type context struct {
	tree     *syntax.Tree
	class    *syntax.Node
	graph    *scope.Graph
	engine   *infer.Engine
	provider runtimeinfo.Provider
	opts     Options
	fileID   string
}

// rule is one entry of the static rule table: an id, a human name,
// whether it runs unless the caller's Options turns it off, and the
// function that produces its diagnostics.
type rule struct {
	id               string
	name             string
	enabledByDefault bool
	enabled          func(Options) bool
	fn               func(*context) []Diagnostic
}

func methodsOf(tree *syntax.Tree) []*syntax.Node {
	var out []*syntax.Node
	if tree.Root == nil {
		return out
	}
	for _, n := range tree.Root.AllNodes() {
		if n.Kind == syntax.NodeMethodDecl {
			out = append(out, n)
		}
	}
	return out
}

func perMethod(fn func(method *syntax.Node, ctx *context) []Diagnostic) func(*context) []Diagnostic {
	return func(ctx *context) []Diagnostic {
		var out []Diagnostic
		for _, m := range methodsOf(ctx.tree) {
			out = append(out, fn(m, ctx)...)
		}
		return out
	}
}

var ruleTable = []rule{
	{
		id: "GD2", name: "scope", enabledByDefault: true,
		fn: func(ctx *context) []Diagnostic {
			return ScopeDiagnostics(ctx.tree, ctx.graph, ctx.provider, ctx.fileID)
		},
	},
	{
		id: "GD2003", name: "duplicate-declaration", enabledByDefault: true,
		fn: func(ctx *context) []Diagnostic {
			return DuplicateDiagnostics(ctx.tree, ctx.fileID)
		},
	},
	{
		id: "GD3", name: "types", enabledByDefault: true,
		fn: perMethod(func(method *syntax.Node, ctx *context) []Diagnostic {
			return TypeDiagnostics(method, ctx.engine, ctx.graph, ctx.provider, ctx.fileID)
		}),
	},
	{
		id: "GD5", name: "call-and-control-flow", enabledByDefault: true,
		fn: func(ctx *context) []Diagnostic {
			var out []Diagnostic
			out = append(out, ClassControlFlowDiagnostics(ctx.class, ctx.fileID)...)
			for _, m := range methodsOf(ctx.tree) {
				out = append(out, CallDiagnostics(m, ctx.engine, ctx.graph, ctx.provider, ctx.fileID)...)
			}
			return out
		},
	},
	{
		id: "GD6", name: "resources", enabledByDefault: false,
		enabled: func(o Options) bool { return o.EnableResourceChecks },
		fn: func(ctx *context) []Diagnostic {
			return ResourceDiagnostics(ctx.class, ctx.provider, ctx.opts, ctx.fileID)
		},
	},
	{
		id: "GD7-signal", name: "signals", enabledByDefault: true,
		fn: perMethod(func(method *syntax.Node, ctx *context) []Diagnostic {
			return SignalDiagnostics(method, ctx.graph, ctx.fileID)
		}),
	},
	{
		id: "GD7-duck", name: "duck-typing", enabledByDefault: false,
		enabled: func(o Options) bool { return o.EnableDuckTypingDiagnostics },
		fn: perMethod(func(method *syntax.Node, ctx *context) []Diagnostic {
			return DuckTypingDiagnostics(method, ctx.engine, ctx.graph, ctx.opts, ctx.fileID)
		}),
	},
	{
		id: "GD8", name: "abstract", enabledByDefault: true,
		fn: func(ctx *context) []Diagnostic {
			return AbstractDiagnostics(ctx.class, ctx.graph, ctx.fileID)
		},
	},
}

// Diagnose runs every enabled rule in the table over tree, applies
// suppression directives, and returns the result sorted in
// deterministic (line, column, code) order. parseErrors, when
// non-nil, is folded in as GD1xxx diagnostics ahead of everything
// else — a file that failed to parse still gets whatever partial tree
// the parser recovered analysed.
func Diagnose(tree *syntax.Tree, graph *scope.Graph, engine *infer.Engine, provider runtimeinfo.Provider, opts Options, fileID string, parseErrors []error) []Diagnostic {
	var out []Diagnostic
	out = append(out, FromParseErrors(fileID, parseErrors)...)

	class := tree.ClassDecl()
	if class != nil {
		ctx := &context{tree: tree, class: class, graph: graph, engine: engine, provider: provider, opts: opts, fileID: fileID}
		for _, r := range ruleTable {
			on := r.enabledByDefault
			if r.enabled != nil {
				on = r.enabled(opts)
			}
			if !on {
				continue
			}
			out = append(out, r.fn(ctx)...)
		}
	}

	suppressor := newSuppressor(tree, opts)
	filtered := out[:0]
	for _, d := range out {
		if suppressor.Suppressed(d.Range.Start.Line, d.Code) {
			continue
		}
		filtered = append(filtered, d)
	}
	Sort(filtered)
	return filtered
}
