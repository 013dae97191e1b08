// Package resolve implements the NameResolver described in spec §4.1:
// turning qualified, relative, and unqualified source-level names into
// fully-qualified names using namespace and import ("use") rules.
//
// Grounded on the teacher's internal/php/type_analysis.go
// (collectNamespaceUses, addUseClause, resolveRawTypeName) and
// internal/php/class_analysis.go (qualifyClassName, namespaceForNode),
// generalized from the teacher's per-call inline logic into a standalone,
// cloneable type with an explicit classStack so nested and anonymous
// class declarations resolve `self`/`parent`/`static` correctly.
package resolve

import (
	"strings"

	"github.com/shinyvision/phpls/internal/symkind"
)

const sep = `\`

// Rule is one entry of a namespace-use import table: `use Target as Name`.
type Rule struct {
	Kind   symkind.Kind
	Name   string // alias, or the target's last segment when unaliased
	Target string // fully-qualified name the alias stands for
}

// classFrame tracks the enclosing class while resolving self/static/parent.
type classFrame struct {
	this string
	base string
}

// NameResolver holds the name-resolution context lexically visible at a
// point in a document: the current namespace, the accumulated import
// rules, and a stack of enclosing class declarations.
type NameResolver struct {
	namespaceName string
	rules         []Rule
	classStack    []classFrame
}

// New creates a resolver rooted at the given namespace (empty for the
// global namespace).
func New(namespace string) *NameResolver {
	return &NameResolver{namespaceName: namespace}
}

// Clone returns an independent copy, used when SymbolTable reconstructs
// the resolver state visible at an arbitrary position (spec §4.3
// "nameResolver(pos)").
func (r *NameResolver) Clone() *NameResolver {
	c := &NameResolver{namespaceName: r.namespaceName}
	c.rules = append(c.rules, r.rules...)
	c.classStack = append(c.classStack, r.classStack...)
	return c
}

// Namespace returns the current namespace FQN.
func (r *NameResolver) Namespace() string { return r.namespaceName }

// SetNamespace enters a new namespace block, resetting the import table
// (namespace-use rules never cross a namespace boundary in a single file).
func (r *NameResolver) SetNamespace(name string) {
	r.namespaceName = name
	r.rules = nil
}

// AddRule records one namespace-use clause. Name is the alias if one was
// given, otherwise the last segment of target — the caller (SymbolReader)
// computes that per spec §4.3's use-clause naming rule.
func (r *NameResolver) AddRule(kind symkind.Kind, name, target string) {
	r.rules = append(r.rules, Rule{Kind: kind, Name: name, Target: target})
}

// PushClass enters a class declaration in source order. base is the
// resolved FQN of the immediate parent class, or "" if there is none.
func (r *NameResolver) PushClass(this, base string) {
	r.classStack = append(r.classStack, classFrame{this: this, base: base})
}

// PopClass leaves the innermost class declaration.
func (r *NameResolver) PopClass() {
	if len(r.classStack) > 0 {
		r.classStack = r.classStack[:len(r.classStack)-1]
	}
}

func (r *NameResolver) currentClass() (classFrame, bool) {
	if len(r.classStack) == 0 {
		return classFrame{}, false
	}
	return r.classStack[len(r.classStack)-1], true
}

// ResolveRelative concatenates the current namespace and name. A `""`
// name returns the namespace itself (spec §8 invariant 3).
func (r *NameResolver) ResolveRelative(name string) string {
	if name == "" {
		return r.namespaceName
	}
	if r.namespaceName == "" {
		return name
	}
	return r.namespaceName + sep + name
}

// ResolveNotFullyQualified applies the full §4.1 rule set to a
// qualified/unqualified/relative-qualified name written in source. It
// never fails: an unresolvable name passes through unchanged.
func (r *NameResolver) ResolveNotFullyQualified(name string, kind symkind.Kind) string {
	switch name {
	case "self", "static", "$this":
		if frame, ok := r.currentClass(); ok {
			return frame.this
		}
		return name
	case "parent":
		if frame, ok := r.currentClass(); ok && frame.base != "" {
			return frame.base
		}
		return name
	}

	if strings.HasPrefix(name, "namespace"+sep) {
		return r.ResolveRelative(strings.TrimPrefix(name, "namespace"+sep))
	}

	if idx := strings.Index(name, sep); idx >= 0 {
		head, rest := name[:idx], name[idx:]
		if target, ok := r.lookupRule(head, symkind.Class); ok {
			return target + rest
		}
		return r.ResolveRelative(name)
	}

	if target, ok := r.lookupRule(name, kind); ok {
		return target
	}
	return r.ResolveRelative(name)
}

func (r *NameResolver) lookupRule(name string, kind symkind.Kind) (string, bool) {
	for i := len(r.rules) - 1; i >= 0; i-- {
		rule := r.rules[i]
		if rule.Name == name && (rule.Kind == kind || rule.Kind == symkind.Class) {
			return rule.Target, true
		}
	}
	return "", false
}

// Rules exposes the accumulated import table, e.g. for completion
// strategies that offer already-imported names.
func (r *NameResolver) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}
