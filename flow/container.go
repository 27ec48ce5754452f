package flow

import (
	"github.com/gdtoolkit/sema/infer"
	"github.com/gdtoolkit/sema/scope"
	"github.com/gdtoolkit/sema/semtype"
	"github.com/gdtoolkit/sema/syntax"
)

// ReduceContainerProfile folds a symbol's observed usages into a
// single inferred element type and, when any observation carried a
// key, a key type: homogeneous observations collapse to one concrete
// type, mixed ones union, and no observations at all yields Variant.
func ReduceContainerProfile(observations []ContainerObservation) (elementType, keyType *semtype.Type) {
	if len(observations) == 0 {
		return semtype.Primitive(semtype.Variant), nil
	}
	var values, keys []*semtype.Type
	for _, o := range observations {
		if o.ValueType != nil {
			values = append(values, o.ValueType)
		}
		if o.KeyType != nil {
			keys = append(keys, o.KeyType)
		}
	}
	elementType = semtype.Primitive(semtype.Variant)
	if len(values) > 0 {
		elementType = semtype.Union(values...)
	}
	if len(keys) > 0 {
		keyType = semtype.Union(keys...)
	}
	return elementType, keyType
}

// FileUsage pairs a parsed file's tree and scope graph for cross-file
// container collection — the read-only project snapshot the caller
// (typically package project) assembles once and reuses across
// queries.
type FileUsage struct {
	Tree  *syntax.Tree
	Graph *scope.Graph
}

// CollectCrossFileUsage is a pure reducer: given a read-only snapshot
// of other files, it finds every
// `<expr>.memberName.append(v)` and `<expr>.memberName[k] = v` site
// where <expr>'s inferred type names className, and returns the
// observations those sites imply. It does not look at declarations
// inside className's own file — only external usages.
func CollectCrossFileUsage(files []FileUsage, engine *infer.Engine, className, memberName string) []ContainerObservation {
	var out []ContainerObservation
	for _, f := range files {
		out = append(out, collectFileUsage(f, engine, className, memberName)...)
	}
	return out
}

func collectFileUsage(f FileUsage, engine *infer.Engine, className, memberName string) []ContainerObservation {
	var out []ContainerObservation
	if f.Tree == nil || f.Tree.Root == nil {
		return out
	}
	for _, n := range f.Tree.Root.AllNodes() {
		switch n.Kind {
		case syntax.NodeExpressionStmt:
			inner := firstNode(n)
			if inner == nil || inner.Kind != syntax.NodeCallExpr || callName(inner) != "append" {
				continue
			}
			recv := callReceiver(inner)
			if recv == nil || recv.Kind != syntax.NodeMemberAccessExpr {
				continue
			}
			base, member, ok := splitMemberAccess(recv)
			if !ok || member != memberName {
				continue
			}
			s := f.Graph.ScopeFor(n)
			if engine.InferType(base, s, nil).Name != className {
				continue
			}
			args := callArgs(inner)
			if len(args) == 1 {
				out = append(out, ContainerObservation{Symbol: memberName, ValueType: engine.InferType(args[0], s, nil)})
			}
		case syntax.NodeAssignmentStmt:
			operands := exprChildren(n)
			if len(operands) != 2 || operands[0].Kind != syntax.NodeIndexerExpr {
				continue
			}
			idxOperands := exprChildren(operands[0])
			if len(idxOperands) != 2 || idxOperands[0].Kind != syntax.NodeMemberAccessExpr {
				continue
			}
			base, member, ok := splitMemberAccess(idxOperands[0])
			if !ok || member != memberName {
				continue
			}
			s := f.Graph.ScopeFor(n)
			if engine.InferType(base, s, nil).Name != className {
				continue
			}
			out = append(out, ContainerObservation{
				Symbol:    memberName,
				KeyType:   engine.InferType(idxOperands[1], s, nil),
				ValueType: engine.InferType(operands[1], s, nil),
			})
		}
	}
	return out
}

func splitMemberAccess(n *syntax.Node) (base *syntax.Node, member string, ok bool) {
	if n.Kind != syntax.NodeMemberAccessExpr || len(n.Children) == 0 {
		return nil, "", false
	}
	base, ok = n.Children[0].(*syntax.Node)
	if !ok {
		return nil, "", false
	}
	member = ""
	for i := len(n.Children) - 1; i >= 0; i-- {
		if t, tok := n.Children[i].(*syntax.Token); tok && t.Category == syntax.CategoryIdentifier {
			member = t.Text
			break
		}
	}
	if member == "" {
		return nil, "", false
	}
	return base, member, true
}
