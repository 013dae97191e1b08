package core

import (
	"sort"
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/shinyvision/phpls/internal/nodeutil"
	"github.com/shinyvision/phpls/internal/reference"
	"github.com/shinyvision/phpls/internal/symbol"
	"github.com/shinyvision/phpls/internal/symkind"
	"github.com/shinyvision/phpls/internal/traverse"
)

const maxCompletionItems = 200

// declarationKeywords answers the "declaration body" strategy — PHP has
// no completable expression here, only modifier/declaration keywords.
var declarationKeywords = []string{
	"public", "protected", "private", "static", "abstract", "final",
	"readonly", "const", "function", "var", "use",
}

// ProvideCompletions runs spec §4.9's strategy chain in priority order
// and returns the first strategy whose context matches (spec: "the
// first one whose canSuggest(traverser) returns true answers").
func (c *Core) ProvideCompletions(uri string, pos symbol.Position) CompletionResult {
	c.mu.Lock()
	doc, ok := c.docs[uri]
	c.mu.Unlock()
	if !ok {
		return CompletionResult{}
	}
	tree, content, table, refs := doc.snapshot()
	if tree == nil || table == nil {
		return CompletionResult{}
	}
	t := traverse.New(tree, content)
	point := sitter.Point{Row: uint32(pos.Line), Column: uint32(pos.Character)}
	node, found := t.DescendantAt(point)
	if !found {
		node = t.Root()
	}

	resolver := table.NameResolverAt(pos)
	prefix := completionPrefix(node, content, pos)

	ctx := completionCtx{
		core: c, t: t, node: node, pos: pos, prefix: prefix,
		table: table, refs: refs, resolver: resolver,
	}

	strategies := []func(completionCtx) (CompletionResult, bool){
		classTypeDesignatorStrategy,
		memberAccessStrategy,
		baseOrInterfaceClauseStrategy,
		traitUseStrategy,
		namespaceUseStrategy,
		typeDeclarationStrategy,
		methodHeaderStrategy,
		declarationBodyStrategy,
		simpleVariableStrategy,
	}
	for _, strat := range strategies {
		if result, ok := strat(ctx); ok {
			return capResult(result)
		}
	}
	return capResult(catchAllStrategy(ctx))
}

type completionCtx struct {
	core     *Core
	t        traverse.Traverser
	node     sitter.Node
	pos      symbol.Position
	prefix   string
	table    *symbol.SymbolTable
	refs     *reference.ReferenceTable
	resolver interface {
		ResolveNotFullyQualified(name string, kind symkind.Kind) string
	}
}

// completionPrefix extracts the partial identifier text already typed
// to the left of pos, used both to filter candidates and compute
// sortText/insertText.
func completionPrefix(node sitter.Node, content []byte, pos symbol.Position) string {
	switch node.Type() {
	case "name", "qualified_name", "variable_name", "variable":
		text := node.Content(content)
		start := node.StartPoint()
		if int(start.Row) != pos.Line {
			return ""
		}
		offset := pos.Character - int(start.Column)
		if offset < 0 {
			offset = 0
		}
		if offset > len(text) {
			offset = len(text)
		}
		return text[:offset]
	default:
		return ""
	}
}

func capResult(result CompletionResult) CompletionResult {
	if len(result.Items) <= maxCompletionItems {
		return result
	}
	result.Items = result.Items[:maxCompletionItems]
	result.IsIncomplete = true
	return result
}

func matchesPrefix(name, prefix string) bool {
	if prefix == "" {
		return true
	}
	return strings.HasPrefix(strings.ToLower(name), strings.ToLower(prefix))
}

// classTypeDesignatorStrategy covers `new |` — suggest every class-like
// symbol (spec §4.9 "class-type designators after new").
func classTypeDesignatorStrategy(ctx completionCtx) (CompletionResult, bool) {
	if _, ok := ctx.t.AncestorOfType(ctx.node, "object_creation_expression"); !ok {
		return CompletionResult{}, false
	}
	return CompletionResult{Items: classItems(ctx, symkind.Class)}, true
}

// memberAccessStrategy covers `$x->|` / `$x::|` — members of the
// receiver's resolved type(s) (spec §4.9 "scoped and object member
// access").
func memberAccessStrategy(ctx completionCtx) (CompletionResult, bool) {
	access, ok := ctx.t.AncestorOfType(ctx.node,
		"member_access_expression", "member_call_expression",
		"scoped_property_access_expression", "scoped_call_expression")
	if !ok {
		return CompletionResult{}, false
	}
	wantMethod := access.Type() == "member_call_expression" || access.Type() == "scoped_call_expression"
	classes := receiverClasses(ctx, access)

	var items []CompletionItem
	seen := map[string]bool{}
	for _, cls := range classes {
		members := symbol.Members(symbol.Closure(ctx.core.sym, cls), symbol.Override)
		for _, m := range members {
			name := m.Symbol.DisplayName()
			if seen[name] || !matchesPrefix(name, ctx.prefix) {
				continue
			}
			if wantMethod && m.Symbol.Kind != symkind.Method && m.Symbol.Kind != symkind.Constructor {
				continue
			}
			if !wantMethod && m.Symbol.Kind != symkind.Property && m.Symbol.Kind != symkind.ClassConstant {
				continue
			}
			seen[name] = true
			items = append(items, completionItemFor(m.Symbol))
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Label < items[j].Label })
	return CompletionResult{Items: items}, true
}

// receiverClasses resolves the class(es) an object/scoped member-access
// expression's receiver can be an instance of, by re-using whatever the
// ReferenceReader already recorded at the receiver's anchor node (spec
// §4.5's ExpressionTypeResolver already did this work once when the
// document was last analyzed; completion reuses its output rather than
// re-deriving variable types from scratch).
func receiverClasses(ctx completionCtx, access sitter.Node) []string {
	scopeNode := access.ChildByFieldName("scope")
	if !scopeNode.IsNull() {
		raw := strings.TrimSpace(scopeNode.Content(ctx.t.Content))
		switch raw {
		case "self", "static":
			if fqn, ok := enclosingClassFQN(ctx, access); ok {
				return []string{fqn}
			}
			return nil
		case "parent":
			if fqn, ok := enclosingClassFQN(ctx, access); ok {
				if sym, ok := ctx.core.sym.ClassSymbol(fqn); ok {
					for _, a := range sym.Associated {
						if a.Kind == symkind.Class {
							return []string{a.FQN}
						}
					}
				}
			}
			return nil
		default:
			return []string{ctx.resolver.ResolveNotFullyQualified(raw, symkind.Class)}
		}
	}

	receiver := nodeutil.ReceiverNode(access)
	if receiver.IsNull() || ctx.refs == nil {
		return nil
	}
	anchor := receiverAnchor(receiver)
	ref := ctx.refs.At(symbol.Position{Line: int(anchor.StartPoint().Row), Character: int(anchor.StartPoint().Column)})
	if ref == nil {
		return nil
	}
	return ref.Type.AtomicClassArray()
}

// receiverAnchor finds the node within a receiver expression whose
// position the ReferenceReader actually recorded a typed Reference at —
// a bare variable, the name field of a nested member/scoped access, or
// the class field of `new X()`.
func receiverAnchor(node sitter.Node) sitter.Node {
	switch node.Type() {
	case "member_access_expression", "member_call_expression",
		"scoped_property_access_expression", "scoped_call_expression":
		if n := node.ChildByFieldName("name"); !n.IsNull() {
			return n
		}
		return node
	case "object_creation_expression":
		if n := node.ChildByFieldName("class"); !n.IsNull() {
			return n
		}
		return node
	case "parenthesized_expression":
		if node.NamedChildCount() > 0 {
			return receiverAnchor(node.NamedChild(0))
		}
		return node
	default:
		return node
	}
}

func enclosingClassFQN(ctx completionCtx, node sitter.Node) (string, bool) {
	classNode, ok := ctx.t.AncestorOfType(node, "class_declaration", "interface_declaration", "trait_declaration", "enum_declaration")
	if !ok {
		return "", false
	}
	nameNode := classNode.ChildByFieldName("name")
	if nameNode.IsNull() {
		return "", false
	}
	return ctx.resolver.ResolveNotFullyQualified(nameNode.Content(ctx.t.Content), symkind.Class), true
}

// baseOrInterfaceClauseStrategy covers `class X extends |` / `implements |`.
func baseOrInterfaceClauseStrategy(ctx completionCtx) (CompletionResult, bool) {
	if _, ok := ctx.t.AncestorOfType(ctx.node, "base_clause", "class_interface_clause"); !ok {
		return CompletionResult{}, false
	}
	items := append(classItems(ctx, symkind.Class), classItems(ctx, symkind.Interface)...)
	return CompletionResult{Items: items}, true
}

// traitUseStrategy covers `use |;` inside a class body.
func traitUseStrategy(ctx completionCtx) (CompletionResult, bool) {
	if _, ok := ctx.t.AncestorOfType(ctx.node, "use_declaration"); !ok {
		return CompletionResult{}, false
	}
	if _, inClass := ctx.t.AncestorOfType(ctx.node, "class_declaration"); !inClass {
		return CompletionResult{}, false
	}
	return CompletionResult{Items: classItems(ctx, symkind.Trait)}, true
}

// namespaceUseStrategy covers `use |;` and group-use
// `use Foo\{|};` at the top level.
func namespaceUseStrategy(ctx completionCtx) (CompletionResult, bool) {
	if _, ok := ctx.t.AncestorOfType(ctx.node, "namespace_use_declaration", "namespace_use_group"); !ok {
		return CompletionResult{}, false
	}
	items := append(classItems(ctx, symkind.Class), classItems(ctx, symkind.Interface)...)
	items = append(items, classItems(ctx, symkind.Trait)...)
	return CompletionResult{Items: items}, true
}

// typeDeclarationStrategy covers parameter/property/return type
// positions (spec §4.9 "type declarations").
func typeDeclarationStrategy(ctx completionCtx) (CompletionResult, bool) {
	if _, ok := ctx.t.AncestorOfType(ctx.node,
		"named_type", "optional_type", "union_type", "property_declaration",
		"return_type"); !ok {
		return CompletionResult{}, false
	}
	items := append(classItems(ctx, symkind.Class), classItems(ctx, symkind.Interface)...)
	return CompletionResult{Items: items}, true
}

// methodHeaderStrategy offers inherited methods not yet overridden,
// when completing inside a method declaration header (spec §4.9
// "method-declaration headers offer inherited overrides").
func methodHeaderStrategy(ctx completionCtx) (CompletionResult, bool) {
	methodNode, ok := ctx.t.AncestorOfType(ctx.node, "method_declaration")
	if !ok {
		return CompletionResult{}, false
	}
	nameNode := methodNode.ChildByFieldName("name")
	if !nameNode.IsNull() && nameNode.StartPoint().Row != uint32(ctx.pos.Line) {
		return CompletionResult{}, false
	}
	classNode, ok := ctx.t.AncestorOfType(methodNode, "class_declaration")
	if !ok {
		return CompletionResult{}, false
	}
	classNameNode := classNode.ChildByFieldName("name")
	if classNameNode.IsNull() {
		return CompletionResult{}, false
	}
	fqn := ctx.resolver.ResolveNotFullyQualified(classNameNode.Content(ctx.t.Content), symkind.Class)
	declared := map[string]bool{}
	if sym, ok := ctx.core.sym.ClassSymbol(fqn); ok {
		for _, m := range sym.Children {
			if m.Kind == symkind.Method {
				declared[m.Name] = true
			}
		}
	}
	var items []CompletionItem
	for _, m := range symbol.Members(symbol.Closure(ctx.core.sym, fqn), symbol.Override) {
		if m.Symbol.Kind != symkind.Method || declared[m.Symbol.Name] {
			continue
		}
		if !matchesPrefix(m.Symbol.Name, ctx.prefix) {
			continue
		}
		items = append(items, completionItemFor(m.Symbol))
	}
	return CompletionResult{Items: items}, true
}

// declarationBodyStrategy offers modifier/declaration keywords inside a
// class body at a statement boundary.
func declarationBodyStrategy(ctx completionCtx) (CompletionResult, bool) {
	if _, ok := ctx.t.AncestorOfType(ctx.node, "declaration_list"); !ok {
		return CompletionResult{}, false
	}
	if _, inClass := ctx.t.AncestorOfType(ctx.node, "class_declaration", "interface_declaration", "trait_declaration"); !inClass {
		return CompletionResult{}, false
	}
	var items []CompletionItem
	for _, kw := range declarationKeywords {
		if matchesPrefix(kw, ctx.prefix) {
			items = append(items, CompletionItem{Label: kw, Kind: symkind.Unknown, InsertText: kw})
		}
	}
	return CompletionResult{Items: items}, true
}

// simpleVariableStrategy covers a bare `$|` (spec §4.9 "simple
// variables"): the parameters of the enclosing function, method,
// closure or arrow function that match the prefix, deduped. Local
// variables assigned in the body are not offered.
func simpleVariableStrategy(ctx completionCtx) (CompletionResult, bool) {
	if ctx.node.Type() != "variable_name" && ctx.node.Type() != "variable" {
		return CompletionResult{}, false
	}
	var items []CompletionItem
	seen := map[string]bool{}
	fn, ok := ctx.t.AncestorOfType(ctx.node, "function_definition", "method_declaration", "anonymous_function_creation_expression", "arrow_function")
	if ok {
		collectParamVars(fn, ctx.t.Content, &items, seen, ctx.prefix)
	}
	return CompletionResult{Items: items}, true
}

func collectParamVars(fn sitter.Node, content []byte, items *[]CompletionItem, seen map[string]bool, prefix string) {
	params := fn.ChildByFieldName("parameters")
	if params.IsNull() {
		return
	}
	for i := uint32(0); i < params.NamedChildCount(); i++ {
		p := params.NamedChild(i)
		nameNode := p.ChildByFieldName("name")
		if nameNode.IsNull() {
			continue
		}
		name := strings.TrimPrefix(nameNode.Content(content), "$")
		if seen[name] || !matchesPrefix(name, prefix) {
			continue
		}
		seen[name] = true
		*items = append(*items, CompletionItem{Label: name, Kind: symkind.Variable, InsertText: name})
	}
}

// catchAllStrategy is spec §4.9's final fallback: every indexed
// class-like symbol and function whose name matches the typed prefix.
// Variables are not offered here.
func catchAllStrategy(ctx completionCtx) CompletionResult {
	var items []CompletionItem
	for _, s := range ctx.core.sym.FindByPrefix(ctx.prefix) {
		if s.Kind.IsClassLike() || s.Kind == symkind.Function {
			items = append(items, completionItemFor(s))
		}
	}
	return CompletionResult{Items: items}
}

func classItems(ctx completionCtx, kind symkind.Kind) []CompletionItem {
	var items []CompletionItem
	for _, s := range ctx.core.sym.FindByPrefix(ctx.prefix) {
		if s.Kind == kind {
			items = append(items, completionItemFor(s))
		}
	}
	return items
}

func completionItemFor(s *symbol.Symbol) CompletionItem {
	detail := ""
	if !s.Type.IsEmpty() {
		detail = s.Type.String()
	}
	return CompletionItem{
		Label:         s.DisplayName(),
		Kind:          s.Kind,
		Detail:        detail,
		Documentation: s.Doc.Summary,
		InsertText:    s.DisplayName(),
	}
}
