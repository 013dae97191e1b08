package variable

import (
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/shinyvision/phpls/internal/nodeutil"
	"github.com/shinyvision/phpls/internal/resolve"
	"github.com/shinyvision/phpls/internal/symbol"
	"github.com/shinyvision/phpls/internal/symkind"
	"github.com/shinyvision/phpls/internal/typestring"
)

// MemberResolver is the subset of SymbolStore's contract
// ExpressionTypeResolver needs: class lookup for TypeAggregate and
// function-symbol lookup by FQN. Kept as a narrow interface here so this
// package never imports the store package (store depends on symbol and
// reference, not the other way around).
type MemberResolver interface {
	symbol.ClassLookup
	FunctionSymbol(fqn string) (*symbol.Symbol, bool)
}

// Resolver evaluates expression nodes to a TypeString (spec §4.5
// ExpressionTypeResolver), grounded on the teacher's
// inferExpressionTypeNames expression-type switch (member access,
// variable, qualified name, literals, new, cast, parenthesized) —
// generalized to consult a VariableTable and a cross-document
// MemberResolver instead of a flat per-function map.
type Resolver struct {
	Content  []byte
	NameRes  *resolve.NameResolver
	Vars     *Table
	Store    MemberResolver
	SelfFQN  string // enclosing class FQN, for self/static/$this/parent
	BaseFQN  string // enclosing class's immediate parent, for `parent`
}

// Resolve evaluates node. Any missing piece yields the empty TypeString;
// this never panics or returns an error (spec §4.5 "the resolver never
// throws").
func (r *Resolver) Resolve(node sitter.Node) typestring.TypeString {
	if node.IsNull() {
		return typestring.Empty
	}
	switch node.Type() {
	case "variable_name":
		name := nodeutil.VariableName(node, r.Content)
		if name == "this" {
			if r.SelfFQN != "" {
				return typestring.New(r.SelfFQN)
			}
			return typestring.Empty
		}
		return r.Vars.GetType(name)

	case "subscript_expression":
		base := node.NamedChild(0)
		return r.Resolve(base).ArrayDereference()

	case "member_access_expression", "nullsafe_member_access_expression", "member_call_expression":
		receiver := nodeutil.ReceiverNode(node)
		name := nodeutil.MemberName(node, r.Content)
		recvType := r.Resolve(receiver)
		return r.memberType(recvType.AtomicClassArray(), name, false)

	case "scoped_property_access_expression", "scoped_call_expression", "class_constant_access_expression":
		scopeNode := node.ChildByFieldName("scope")
		name := nodeutil.MemberName(node, r.Content)
		classFQN := r.resolveScopeClass(scopeNode)
		if classFQN == "" {
			return typestring.Empty
		}
		return r.memberType([]string{classFQN}, name, true)

	case "function_call_expression":
		fnNode := node.ChildByFieldName("function")
		if fnNode.IsNull() {
			return typestring.Empty
		}
		switch fnNode.Type() {
		case "qualified_name", "relative_name", "name":
			fqn := r.NameRes.ResolveNotFullyQualified(strings.TrimSpace(fnNode.Content(r.Content)), symkind.Function)
			if fn, ok := r.Store.FunctionSymbol(fqn); ok {
				return fn.Type
			}
		}
		return typestring.Empty

	case "object_creation_expression":
		for i := uint32(0); i < node.NamedChildCount(); i++ {
			if node.NamedChild(i).Type() == "anonymous_class" {
				return typestring.Empty // caller substitutes the synthetic FQN
			}
		}
		if classNode := node.ChildByFieldName("class"); !classNode.IsNull() {
			switch classNode.Type() {
			case "qualified_name", "relative_name", "name":
				return typestring.New(r.NameRes.ResolveNotFullyQualified(strings.TrimSpace(classNode.Content(r.Content)), symkind.Class))
			case "variable_name":
				return r.Resolve(classNode)
			}
		}
		return typestring.Empty

	case "ternary_expression":
		var out typestring.TypeString
		if t := node.ChildByFieldName("consequence"); !t.IsNull() {
			out = out.Merge(r.Resolve(t))
		}
		if e := node.ChildByFieldName("alternative"); !e.IsNull() {
			out = out.Merge(r.Resolve(e))
		}
		if out.IsEmpty() {
			if cond := node.ChildByFieldName("condition"); !cond.IsNull() {
				out = out.Merge(r.Resolve(cond))
			}
		}
		return out

	case "binary_expression":
		if strings.Contains(node.Content(r.Content), "??") {
			var out typestring.TypeString
			for i := uint32(0); i < node.NamedChildCount(); i++ {
				out = out.Merge(r.Resolve(node.NamedChild(i)))
			}
			return out
		}
		return typestring.Empty

	case "assignment_expression":
		if rhs := node.ChildByFieldName("right"); !rhs.IsNull() {
			return r.Resolve(rhs)
		}
		return typestring.Empty

	case "parenthesized_expression":
		if node.NamedChildCount() > 0 {
			return r.Resolve(node.NamedChild(0))
		}
		return typestring.Empty

	case "qualified_name", "relative_name", "name":
		return typestring.New(r.NameRes.ResolveNotFullyQualified(strings.TrimSpace(node.Content(r.Content)), symkind.Class))

	case "array_creation_expression":
		return typestring.New("array")

	case "integer":
		return typestring.New("int")
	case "float":
		return typestring.New("float")
	case "string", "encapsed_string":
		return typestring.New("string")
	case "boolean":
		return typestring.New("bool")
	case "null":
		return typestring.New("null")

	case "cast_expression":
		if t := node.ChildByFieldName("type"); !t.IsNull() {
			return typestring.New(strings.ToLower(strings.TrimSpace(t.Content(r.Content))))
		}
		return typestring.Empty
	}
	return typestring.Empty
}

func (r *Resolver) resolveScopeClass(scopeNode sitter.Node) string {
	if scopeNode.IsNull() {
		return ""
	}
	switch scopeNode.Type() {
	case "relative_scope":
		text := strings.TrimSpace(scopeNode.Content(r.Content))
		switch text {
		case "self", "static":
			return r.SelfFQN
		case "parent":
			return r.BaseFQN
		}
		return r.NameRes.ResolveNotFullyQualified(text, symkind.Class)
	case "qualified_name", "relative_name", "name":
		return r.NameRes.ResolveNotFullyQualified(strings.TrimSpace(scopeNode.Content(r.Content)), symkind.Class)
	case "variable_name":
		return strings.Join(r.Resolve(scopeNode).AtomicClassArray(), "|")
	}
	return ""
}

// memberType performs TypeAggregate member lookup (Override policy —
// the resolver wants a single best answer) across every class atom and
// merges the results, per spec §4.5's receiver resolution.
func (r *Resolver) memberType(classes []string, name string, static bool) typestring.TypeString {
	var out typestring.TypeString
	for _, cls := range classes {
		closure := symbol.Closure(r.Store, cls)
		if closure == nil {
			continue
		}
		members := symbol.Members(closure, symbol.Override)
		for _, m := range members {
			if m.Symbol.Modifiers.Has(symkind.Static) != static {
				continue
			}
			if matchesMemberName(m.Symbol, name) {
				out = out.Merge(m.Symbol.Type)
			}
		}
	}
	return out
}

func matchesMemberName(s *symbol.Symbol, name string) bool {
	if s.Kind == symkind.Property {
		return strings.TrimPrefix(s.Name, "$") == name
	}
	return s.Name == name
}
