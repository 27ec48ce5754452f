// Package runtimeinfo defines the external runtime/engine catalog that
// type inference and diagnostics consult whenever local scope lookup
// fails: global functions, global constants, built-in engine classes
// and their members/signals. BuiltinProvider ships a concrete,
// data-table-driven catalog so callers have something real to use
// without standing up an actual game engine.
package runtimeinfo

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/gdtoolkit/sema/semtype"
)

// Parameter is one entry of a function or signal's parameter list.
type Parameter struct {
	Name string
	Type *semtype.Type
}

// FunctionInfo describes a global function's signature.
type FunctionInfo struct {
	Parameters []Parameter
	ReturnType *semtype.Type
	IsVarargs  bool
}

// ConstantKind classifies a global constant for display/grouping
// purposes; both kinds resolve to an ordinary numeric type.
type ConstantKind int

const (
	ConstantNumeric ConstantKind = iota
	ConstantKeyCode
)

// ConstantInfo describes a global constant.
type ConstantInfo struct {
	Type *semtype.Type
	Kind ConstantKind
}

// MemberKind classifies what GetMember found.
type MemberKind int

const (
	MemberMethod MemberKind = iota
	MemberProperty
	MemberSignal
)

// MemberInfo describes one class member.
type MemberInfo struct {
	Kind      MemberKind
	Signature *semtype.Type // Callable[...] for methods, the property's type otherwise
}

// SignalInfo describes one class signal.
type SignalInfo struct {
	Name       string
	Parameters []Parameter
}

// ResourceInfo and ScriptInfo back the optional ProjectExtension
// capability; they are deliberately thin, since full resource-format
// parsing is out of scope here.
type ResourceInfo struct {
	Path string
	Type string
}

type ScriptInfo struct {
	Path      string
	ClassName string
}

// Provider is the interface type inference and diagnostics consult for
// the built-ins below whenever scope.Scope.Lookup fails. self, null,
// true and false are not resolved through it; its callers handle those
// names themselves.
type Provider interface {
	IsKnownType(name string) bool
	GetGlobalFunction(name string) (FunctionInfo, bool)
	GetGlobalConstant(name string) (ConstantInfo, bool)
	GetMember(className, member string) (MemberInfo, bool)
	SignalsOf(className string) []SignalInfo
}

// ProjectExtension is implemented by a Provider that can additionally
// resolve res:// paths against a real project tree. BuiltinProvider
// does not implement it; callers type-assert for it and treat its
// absence as "no project context available", never as an error.
type ProjectExtension interface {
	GetResource(path string) (ResourceInfo, bool)
	GetScript(path string) (ScriptInfo, bool)
}

// ParseResourcePath splits a resource path into its scheme ("res",
// "user", "") and the remainder. Any scheme or a bare relative path is
// accepted; an unrecognized scheme is never itself a diagnosable
// error, matching the decision recorded in DESIGN.md.
func ParseResourcePath(path string) (scheme, rest string) {
	if i := strings.Index(path, "://"); i >= 0 {
		return path[:i], path[i+3:]
	}
	return "", path
}

// MinimumEngineVersion is the oldest engine API version a catalog may
// declare; NewBuiltinProvider rejects anything older.
const MinimumEngineVersion = "v4.0.0"

// BuiltinProvider is a concrete, in-memory Provider covering the
// numeric global functions, KEY_* constants and a small set of named
// engine classes.
type BuiltinProvider struct {
	engineVersion string
	functions     map[string]FunctionInfo
	constants     map[string]ConstantInfo
	classes       map[string]classEntry
}

type classEntry struct {
	members map[string]MemberInfo
	signals []SignalInfo
}

// NewBuiltinProvider builds a catalog declaring engineVersion (a
// semver string such as "v4.2.1"). It fails if engineVersion is not a
// valid semver or is older than MinimumEngineVersion.
func NewBuiltinProvider(engineVersion string) (*BuiltinProvider, error) {
	if !semver.IsValid(engineVersion) {
		return nil, fmt.Errorf("runtimeinfo: %q is not a valid engine version", engineVersion)
	}
	if semver.Compare(engineVersion, MinimumEngineVersion) < 0 {
		return nil, fmt.Errorf("runtimeinfo: engine version %s is older than the minimum supported %s", engineVersion, MinimumEngineVersion)
	}
	p := &BuiltinProvider{
		engineVersion: engineVersion,
		functions:     map[string]FunctionInfo{},
		constants:     map[string]ConstantInfo{},
		classes:       map[string]classEntry{},
	}
	p.registerFunctions()
	p.registerConstants()
	p.registerClasses()
	return p, nil
}

// EngineVersion returns the version the catalog was built for.
func (p *BuiltinProvider) EngineVersion() string { return p.engineVersion }

func (p *BuiltinProvider) IsKnownType(name string) bool {
	switch name {
	case semtype.Int, semtype.Float, semtype.Bool, semtype.String, semtype.Void, semtype.Variant, semtype.NullType:
		return true
	}
	if strings.HasPrefix(name, "Packed") && strings.HasSuffix(name, "Array") {
		return true
	}
	_, ok := p.classes[name]
	return ok
}

func (p *BuiltinProvider) GetGlobalFunction(name string) (FunctionInfo, bool) {
	f, ok := p.functions[name]
	return f, ok
}

func (p *BuiltinProvider) GetGlobalConstant(name string) (ConstantInfo, bool) {
	c, ok := p.constants[name]
	return c, ok
}

func (p *BuiltinProvider) GetMember(className, member string) (MemberInfo, bool) {
	c, ok := p.classes[className]
	if !ok {
		return MemberInfo{}, false
	}
	m, ok := c.members[member]
	return m, ok
}

func (p *BuiltinProvider) SignalsOf(className string) []SignalInfo {
	return p.classes[className].signals
}

// GlobalNames returns every global function and constant name the
// catalog declares, for callers building a fuzzy-suggestion or
// completion candidate list. Order is unspecified.
func (p *BuiltinProvider) GlobalNames() []string {
	out := make([]string, 0, len(p.functions)+len(p.constants))
	for name := range p.functions {
		out = append(out, name)
	}
	for name := range p.constants {
		out = append(out, name)
	}
	return out
}

func param(name, typeName string) Parameter {
	return Parameter{Name: name, Type: semtype.Named(typeName)}
}

func (p *BuiltinProvider) registerFunctions() {
	f := semtype.Primitive(semtype.Float)
	i := semtype.Primitive(semtype.Int)
	s := semtype.Primitive(semtype.String)
	v := semtype.Primitive(semtype.Void)
	variant := semtype.Primitive(semtype.Variant)

	p.functions["abs"] = FunctionInfo{Parameters: []Parameter{{Name: "x", Type: f}}, ReturnType: f}
	p.functions["absi"] = FunctionInfo{Parameters: []Parameter{{Name: "x", Type: i}}, ReturnType: i}
	p.functions["min"] = FunctionInfo{Parameters: []Parameter{{Name: "a", Type: f}, {Name: "b", Type: f}}, ReturnType: f, IsVarargs: true}
	p.functions["max"] = FunctionInfo{Parameters: []Parameter{{Name: "a", Type: f}, {Name: "b", Type: f}}, ReturnType: f, IsVarargs: true}
	p.functions["mini"] = FunctionInfo{Parameters: []Parameter{{Name: "a", Type: i}, {Name: "b", Type: i}}, ReturnType: i, IsVarargs: true}
	p.functions["maxi"] = FunctionInfo{Parameters: []Parameter{{Name: "a", Type: i}, {Name: "b", Type: i}}, ReturnType: i, IsVarargs: true}
	p.functions["clamp"] = FunctionInfo{Parameters: []Parameter{{Name: "value", Type: f}, {Name: "min", Type: f}, {Name: "max", Type: f}}, ReturnType: f}
	p.functions["clampi"] = FunctionInfo{Parameters: []Parameter{{Name: "value", Type: i}, {Name: "min", Type: i}, {Name: "max", Type: i}}, ReturnType: i}
	p.functions["randi"] = FunctionInfo{ReturnType: i}
	p.functions["randf"] = FunctionInfo{ReturnType: f}
	p.functions["randi_range"] = FunctionInfo{Parameters: []Parameter{{Name: "from", Type: i}, {Name: "to", Type: i}}, ReturnType: i}

	// Extra numeric helpers; every engine of this shape has them and
	// nothing narrows their type.
	p.functions["floor"] = FunctionInfo{Parameters: []Parameter{{Name: "x", Type: f}}, ReturnType: f}
	p.functions["ceil"] = FunctionInfo{Parameters: []Parameter{{Name: "x", Type: f}}, ReturnType: f}
	p.functions["round"] = FunctionInfo{Parameters: []Parameter{{Name: "x", Type: f}}, ReturnType: f}
	p.functions["sign"] = FunctionInfo{Parameters: []Parameter{{Name: "x", Type: f}}, ReturnType: f}
	p.functions["lerp"] = FunctionInfo{Parameters: []Parameter{{Name: "from", Type: f}, {Name: "to", Type: f}, {Name: "weight", Type: f}}, ReturnType: f}
	p.functions["typeof"] = FunctionInfo{Parameters: []Parameter{{Name: "variable", Type: variant}}, ReturnType: i}
	p.functions["is_instance_valid"] = FunctionInfo{Parameters: []Parameter{{Name: "instance", Type: variant}}, ReturnType: semtype.Primitive(semtype.Bool)}
	p.functions["is_instance_of"] = FunctionInfo{Parameters: []Parameter{{Name: "value", Type: variant}, {Name: "type", Type: variant}}, ReturnType: semtype.Primitive(semtype.Bool)}

	p.functions["str"] = FunctionInfo{Parameters: []Parameter{{Name: "value", Type: variant}}, ReturnType: s, IsVarargs: true}
	p.functions["print"] = FunctionInfo{Parameters: []Parameter{{Name: "value", Type: variant}}, ReturnType: v, IsVarargs: true}
	p.functions["printerr"] = FunctionInfo{Parameters: []Parameter{{Name: "value", Type: variant}}, ReturnType: v, IsVarargs: true}
	p.functions["push_error"] = FunctionInfo{Parameters: []Parameter{{Name: "value", Type: variant}}, ReturnType: v, IsVarargs: true}
	p.functions["push_warning"] = FunctionInfo{Parameters: []Parameter{{Name: "value", Type: variant}}, ReturnType: v, IsVarargs: true}
}

func (p *BuiltinProvider) registerConstants() {
	p.constants["PI"] = ConstantInfo{Type: semtype.Primitive(semtype.Float), Kind: ConstantNumeric}
	p.constants["TAU"] = ConstantInfo{Type: semtype.Primitive(semtype.Float), Kind: ConstantNumeric}
	p.constants["INF"] = ConstantInfo{Type: semtype.Primitive(semtype.Float), Kind: ConstantNumeric}
	p.constants["NAN"] = ConstantInfo{Type: semtype.Primitive(semtype.Float), Kind: ConstantNumeric}

	keyInt := semtype.Primitive(semtype.Int)
	for _, letter := range "ABCDEFGHIJKLMNOPQRSTUVWXYZ" {
		p.constants["KEY_"+string(letter)] = ConstantInfo{Type: keyInt, Kind: ConstantKeyCode}
	}
	for d := 0; d <= 9; d++ {
		p.constants[fmt.Sprintf("KEY_%d", d)] = ConstantInfo{Type: keyInt, Kind: ConstantKeyCode}
	}
	for _, name := range []string{
		"KEY_SPACE", "KEY_ENTER", "KEY_ESCAPE", "KEY_TAB", "KEY_BACKSPACE",
		"KEY_SHIFT", "KEY_CTRL", "KEY_ALT", "KEY_META",
		"KEY_LEFT", "KEY_RIGHT", "KEY_UP", "KEY_DOWN",
	} {
		p.constants[name] = ConstantInfo{Type: keyInt, Kind: ConstantKeyCode}
	}
}

func (p *BuiltinProvider) registerClasses() {
	nodeMembers := map[string]MemberInfo{
		"name": {Kind: MemberProperty, Signature: semtype.Primitive(semtype.String)},
		"get_parent": {Kind: MemberMethod, Signature: semtype.Callable(nil, semtype.Named("Node"))},
		"add_child": {Kind: MemberMethod, Signature: semtype.Callable(
			[]*semtype.Type{semtype.Named("Node")}, semtype.Primitive(semtype.Void))},
		"queue_free": {Kind: MemberMethod, Signature: semtype.Callable(nil, semtype.Primitive(semtype.Void))},
		"is_inside_tree": {Kind: MemberMethod, Signature: semtype.Callable(nil, semtype.Primitive(semtype.Bool))},
	}
	nodeSignals := []SignalInfo{
		{Name: "tree_entered"},
		{Name: "tree_exited"},
		{Name: "ready"},
	}
	p.classes["Node"] = classEntry{members: nodeMembers, signals: nodeSignals}

	node2D := cloneClassEntry(p.classes["Node"])
	node2D.members["position"] = MemberInfo{Kind: MemberProperty, Signature: semtype.Named("Vector2")}
	node2D.members["rotation"] = MemberInfo{Kind: MemberProperty, Signature: semtype.Primitive(semtype.Float)}
	p.classes["Node2D"] = node2D

	sprite := cloneClassEntry(node2D)
	sprite.members["texture"] = MemberInfo{Kind: MemberProperty, Signature: semtype.Named("Texture2D")}
	p.classes["Sprite2D"] = sprite

	area2D := cloneClassEntry(node2D)
	area2D.signals = append(area2D.signals,
		SignalInfo{Name: "body_entered", Parameters: []Parameter{param("body", "Node2D")}},
		SignalInfo{Name: "body_exited", Parameters: []Parameter{param("body", "Node2D")}},
	)
	p.classes["Area2D"] = area2D

	control := cloneClassEntry(p.classes["Node"])
	control.members["visible"] = MemberInfo{Kind: MemberProperty, Signature: semtype.Primitive(semtype.Bool)}
	p.classes["Control"] = control
}

func cloneClassEntry(c classEntry) classEntry {
	members := make(map[string]MemberInfo, len(c.members))
	for k, v := range c.members {
		members[k] = v
	}
	signals := make([]SignalInfo, len(c.signals))
	copy(signals, c.signals)
	return classEntry{members: members, signals: signals}
}
