package reference

import (
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/shinyvision/phpls/internal/nodeutil"
	"github.com/shinyvision/phpls/internal/phpdoc"
	"github.com/shinyvision/phpls/internal/resolve"
	"github.com/shinyvision/phpls/internal/symbol"
	"github.com/shinyvision/phpls/internal/symkind"
	"github.com/shinyvision/phpls/internal/typestring"
	"github.com/shinyvision/phpls/internal/variable"
)

// Reader is the composed visitor of spec §4.6: it runs a NameResolver,
// a VariableTable, and reference emission in lockstep over one parse
// tree. It is intentionally a single pass (rather than three separate
// sub-visitor objects) because all three need the same traversal order
// to stay synchronized — the "collaborating sub-visitors" of the spec
// collapse naturally into one walker's local state.
type Reader struct {
	uri   string
	store variable.MemberResolver
}

// NewReader builds a reader for one document. store provides the
// cross-document class/function lookups ExpressionTypeResolver needs.
func NewReader(uri string, store variable.MemberResolver) *Reader {
	return &Reader{uri: uri, store: store}
}

type walker struct {
	uri      string
	content  []byte
	resolver *resolve.NameResolver
	vars     *variable.Table
	store    variable.MemberResolver
	selfFQN  string
	baseFQN  string
}

// Read builds the ReferenceTable for tree.
func (r *Reader) Read(tree *sitter.Tree, content []byte) *ReferenceTable {
	if tree == nil {
		return NewTable(r.uri, symbol.Range{})
	}
	root := tree.RootNode()
	if root.IsNull() {
		return NewTable(r.uri, symbol.Range{})
	}
	table := NewTable(r.uri, rangeFromNode(root))
	w := &walker{
		uri:      r.uri,
		content:  content,
		resolver: resolve.New(""),
		vars:     variable.New(),
		store:    r.store,
	}
	w.walkTopLevel(root, table.Root)
	return table
}

func rangeFromNode(node sitter.Node) symbol.Range {
	return symbol.Range{
		Start: symbol.Position{Line: int(node.StartPoint().Row), Character: int(node.StartPoint().Column)},
		End:   symbol.Position{Line: int(node.EndPoint().Row), Character: int(node.EndPoint().Column)},
	}
}

func (w *walker) loc(node sitter.Node) symbol.Location {
	return symbol.Location{URI: w.uri, Range: rangeFromNode(node)}
}

func (w *walker) emit(scope *Scope, kind symkind.Kind, name string, node sitter.Node, typ typestring.TypeString, alt ...string) {
	scope.AddReference(&Reference{Kind: kind, Name: name, Location: w.loc(node), Type: typ, AltName: alt})
}

func (w *walker) exprResolver() *variable.Resolver {
	return &variable.Resolver{
		Content: w.content,
		NameRes: w.resolver,
		Vars:    w.vars,
		Store:   w.store,
		SelfFQN: w.selfFQN,
		BaseFQN: w.baseFQN,
	}
}

func (w *walker) walkTopLevel(node sitter.Node, scope *Scope) {
	for i := uint32(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "namespace_definition":
			w.handleNamespace(child, scope)
		case "namespace_use_declaration":
			w.handleUseDeclaration(child, scope)
		case "class_declaration", "interface_declaration", "trait_declaration":
			w.handleClassLike(child, scope)
		case "function_definition":
			w.handleFunctionLike(child, scope, "")
		default:
			w.walkExpr(child, scope)
		}
	}
}

func (w *walker) handleNamespace(node sitter.Node, scope *Scope) {
	ns := ""
	if n := node.ChildByFieldName("name"); !n.IsNull() {
		ns = nodeutil.NormalizeFQN(n.Content(w.content))
	}
	body := node.ChildByFieldName("body")
	prev := w.resolver.Namespace()
	w.resolver.SetNamespace(ns)
	if !body.IsNull() {
		w.walkTopLevel(body, scope)
		w.resolver.SetNamespace(prev)
	}
}

func (w *walker) handleUseDeclaration(node sitter.Node, scope *Scope) {
	kind := symkind.Class
	if t := node.ChildByFieldName("type"); !t.IsNull() {
		switch strings.TrimSpace(t.Content(w.content)) {
		case "function":
			kind = symkind.Function
		case "const":
			kind = symkind.Constant
		}
	}
	prefix := ""
	for i := uint32(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "namespace_name":
			prefix = nodeutil.NormalizeFQN(child.Content(w.content))
		case "namespace_use_group":
			for j := uint32(0); j < child.NamedChildCount(); j++ {
				if inner := child.NamedChild(j); inner.Type() == "namespace_use_clause" {
					w.addUseClause(inner, prefix, kind, scope)
				}
			}
		case "namespace_use_clause":
			w.addUseClause(child, "", kind, scope)
		}
	}
}

func (w *walker) addUseClause(clause sitter.Node, prefix string, kind symkind.Kind, scope *Scope) {
	if clause.IsNull() {
		return
	}
	alias := ""
	if a := clause.ChildByFieldName("alias"); !a.IsNull() {
		alias = strings.TrimSpace(a.Content(w.content))
	}
	var nameNode sitter.Node
	for i := uint32(0); i < clause.NamedChildCount(); i++ {
		if clause.FieldNameForNamedChild(i) == "alias" {
			continue
		}
		c := clause.NamedChild(i)
		switch c.Type() {
		case "qualified_name", "relative_name", "name":
			nameNode = c
		}
		if !nameNode.IsNull() {
			break
		}
	}
	if nameNode.IsNull() {
		return
	}
	base := strings.TrimSpace(nameNode.Content(w.content))
	full := base
	if prefix != "" {
		full = prefix + `\` + strings.TrimLeft(base, `\`)
	}
	full = nodeutil.NormalizeFQN(full)
	if full == "" {
		return
	}
	if alias == "" {
		alias = nodeutil.ShortName(full)
	}
	w.resolver.AddRule(kind, alias, full)
	w.emit(scope, kind, full, nameNode, typestring.Empty)
}

func (w *walker) handleClassLike(node sitter.Node, scope *Scope) {
	kind := symkind.Class
	switch node.Type() {
	case "interface_declaration":
		kind = symkind.Interface
	case "trait_declaration":
		kind = symkind.Trait
	}
	name := ""
	if n := node.ChildByFieldName("name"); !n.IsNull() {
		name = strings.TrimSpace(n.Content(w.content))
	}
	fqn := w.resolver.ResolveRelative(name)

	baseFQN := ""
	for i := uint32(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "base_clause":
			for j := uint32(0); j < child.NamedChildCount(); j++ {
				n := child.NamedChild(j)
				raw := strings.TrimSpace(n.Content(w.content))
				resolved := w.resolver.ResolveNotFullyQualified(raw, symkind.Class)
				w.emit(scope, symkind.Class, resolved, n, typestring.Empty)
				if baseFQN == "" {
					baseFQN = resolved
				}
			}
		case "class_interface_clause":
			for j := uint32(0); j < child.NamedChildCount(); j++ {
				n := child.NamedChild(j)
				raw := strings.TrimSpace(n.Content(w.content))
				resolved := w.resolver.ResolveNotFullyQualified(raw, symkind.Class)
				w.emit(scope, symkind.Interface, resolved, n, typestring.Empty)
			}
		}
	}

	w.resolver.PushClass(fqn, baseFQN)
	prevSelf, prevBase := w.selfFQN, w.baseFQN
	w.selfFQN, w.baseFQN = fqn, baseFQN

	classScope := scope.AddScope(rangeFromNode(node))
	if body := node.ChildByFieldName("body"); !body.IsNull() {
		w.walkClassBody(body, classScope, fqn)
	}

	w.selfFQN, w.baseFQN = prevSelf, prevBase
	w.resolver.PopClass()
}

func (w *walker) walkClassBody(body sitter.Node, scope *Scope, fqn string) {
	for i := uint32(0); i < body.NamedChildCount(); i++ {
		child := body.NamedChild(i)
		switch child.Type() {
		case "method_declaration":
			w.handleFunctionLike(child, scope, fqn)
		case "property_declaration":
			w.emitTypeRef(child.ChildByFieldName("type"), scope)
		case "use_declaration":
			for j := uint32(0); j < child.NamedChildCount(); j++ {
				n := child.NamedChild(j)
				switch n.Type() {
				case "qualified_name", "relative_name", "name":
					raw := strings.TrimSpace(n.Content(w.content))
					w.emit(scope, symkind.Trait, w.resolver.ResolveNotFullyQualified(raw, symkind.Class), n, typestring.Empty)
				}
			}
		default:
			w.walkExpr(child, scope)
		}
	}
}

func (w *walker) emitTypeRef(typeNode sitter.Node, scope *Scope) {
	if typeNode.IsNull() {
		return
	}
	ts := typestring.Parse(strings.TrimSpace(typeNode.Content(w.content))).NameResolve(w.resolver)
	atoms := ts.AtomicClassArray()
	if len(atoms) == 0 {
		return
	}
	alt := atoms[1:]
	w.emit(scope, symkind.Class, atoms[0], typeNode, typestring.Empty, alt...)
}

func (w *walker) handleFunctionLike(node sitter.Node, scope *Scope, classFQN string) {
	w.emitTypeRef(node.ChildByFieldName("return_type"), scope)

	fnScope := scope.AddScope(rangeFromNode(node))
	w.vars.PushScope()
	if params := node.ChildByFieldName("parameters"); !params.IsNull() {
		for i := uint32(0); i < params.NamedChildCount(); i++ {
			p := params.NamedChild(i)
			switch p.Type() {
			case "simple_parameter", "variadic_parameter", "property_promotion_parameter":
				w.emitTypeRef(p.ChildByFieldName("type"), fnScope)
				name := nodeutil.VariableName(p.ChildByFieldName("name"), w.content)
				var typ typestring.TypeString
				if t := p.ChildByFieldName("type"); !t.IsNull() {
					typ = typestring.Parse(strings.TrimSpace(t.Content(w.content))).NameResolve(w.resolver)
				}
				w.vars.SetType(name, typ)
				if def := p.ChildByFieldName("default_value"); !def.IsNull() {
					w.walkExpr(def, fnScope)
				}
			}
		}
	}
	if body := node.ChildByFieldName("body"); !body.IsNull() {
		w.walkExpr(body, fnScope)
	}
	w.vars.PopScope()
	_ = classFQN
}

// walkExpr is the generic statement/expression sweep: it handles
// control-flow constructs that affect the VariableTable and emits a
// Reference for every name-bearing node it recognizes, recursing into
// everything else so no subtree goes unvisited.
func (w *walker) walkExpr(node sitter.Node, scope *Scope) {
	if node.IsNull() {
		return
	}
	switch node.Type() {
	case "expression_statement":
		w.applyVarDocAnnotation(node, scope)
	case "if_statement":
		w.handleIf(node, scope)
		return
	case "foreach_statement":
		w.handleForeach(node, scope)
		return
	case "catch_clause":
		w.handleCatch(node, scope)
		return
	case "assignment_expression":
		w.handleAssignment(node, scope)
		return
	case "variable_name":
		name := nodeutil.VariableName(node, w.content)
		w.emit(scope, symkind.Variable, name, node, w.vars.GetType(name))
		return
	case "member_access_expression", "nullsafe_member_access_expression", "member_call_expression":
		w.handleMemberAccess(node, scope)
		return
	case "scoped_property_access_expression", "scoped_call_expression", "class_constant_access_expression":
		w.handleScopedAccess(node, scope)
		return
	case "function_call_expression":
		w.handleFunctionCall(node, scope)
		return
	case "object_creation_expression":
		w.handleObjectCreation(node, scope)
		return
	case "anonymous_function_creation_expression", "arrow_function":
		w.handleClosure(node, scope)
		return
	case "qualified_name", "relative_name", "name":
		resolved := w.resolver.ResolveNotFullyQualified(strings.TrimSpace(node.Content(w.content)), symkind.Class)
		w.emit(scope, symkind.Class, resolved, node, typestring.Empty)
		return
	}
	for i := uint32(0); i < node.NamedChildCount(); i++ {
		w.walkExpr(node.NamedChild(i), scope)
	}
}

// applyVarDocAnnotation handles a `/** @var T $x */` comment immediately
// preceding a bare statement by recording T as $x's type for the rest of
// the enclosing scope (spec §8's S5 scenario: a variable with no other
// type information still hovers with its @var-declared type).
func (w *walker) applyVarDocAnnotation(stmt sitter.Node, scope *Scope) {
	doc := phpdoc.Parse(nodeutil.CommentBefore(stmt, w.content))
	if len(doc.Tags) == 0 {
		return
	}
	var names []string
	collectVariableNames(stmt, w.content, &names)
	for _, name := range names {
		if docType := doc.VarType(name); docType != "" {
			w.vars.SetType(name, typestring.Parse(docType).NameResolve(w.resolver))
		}
	}
}

func collectVariableNames(node sitter.Node, content []byte, out *[]string) {
	if node.IsNull() {
		return
	}
	if node.Type() == "variable_name" {
		*out = append(*out, nodeutil.VariableName(node, content))
		return
	}
	for i := uint32(0); i < node.NamedChildCount(); i++ {
		collectVariableNames(node.NamedChild(i), content, out)
	}
}

func (w *walker) handleIf(node sitter.Node, scope *Scope) {
	cond := node.ChildByFieldName("condition")
	w.walkExpr(cond, scope)

	w.vars.PushBranch()
	w.applyInstanceofNarrowing(cond)
	if body := node.ChildByFieldName("body"); !body.IsNull() {
		w.walkExpr(body, scope)
	}
	w.vars.PopBranch()

	for i := uint32(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.Type() == "else_clause" || child.Type() == "else_if_clause" {
			w.vars.PushBranch()
			w.walkExpr(child, scope)
			w.vars.PopBranch()
		}
	}
	w.vars.PruneBranches()
}

// applyInstanceofNarrowing handles `$x instanceof T` by setting the
// variable's type to T for the duration of the current branch (spec
// §4.5 "v instanceof T in a conditional records type(v) := T inside the
// branch").
func (w *walker) applyInstanceofNarrowing(cond sitter.Node) {
	if cond.IsNull() {
		return
	}
	if cond.Type() == "instanceof_expression" {
		left := cond.ChildByFieldName("left")
		right := cond.ChildByFieldName("right")
		if left.Type() == "variable_name" && !right.IsNull() {
			name := nodeutil.VariableName(left, w.content)
			resolved := w.resolver.ResolveNotFullyQualified(strings.TrimSpace(right.Content(w.content)), symkind.Class)
			w.vars.SetType(name, typestring.New(resolved))
		}
		return
	}
	for i := uint32(0); i < cond.NamedChildCount(); i++ {
		w.applyInstanceofNarrowing(cond.NamedChild(i))
	}
}

func (w *walker) handleForeach(node sitter.Node, scope *Scope) {
	collection := node.ChildByFieldName("collection")
	w.walkExpr(collection, scope)
	collType := w.exprResolver().Resolve(collection)

	valueNode := node.ChildByFieldName("value")
	if !valueNode.IsNull() {
		name := nodeutil.VariableName(valueNode, w.content)
		w.vars.SetType(name, collType.ArrayDereference())
		w.emit(scope, symkind.Variable, name, valueNode, collType.ArrayDereference())
	}
	if keyNode := node.ChildByFieldName("key"); !keyNode.IsNull() {
		name := nodeutil.VariableName(keyNode, w.content)
		w.vars.SetType(name, typestring.New("mixed"))
	}
	if body := node.ChildByFieldName("body"); !body.IsNull() {
		w.walkExpr(body, scope)
	}
}

func (w *walker) handleCatch(node sitter.Node, scope *Scope) {
	var exTypes typestring.TypeString
	for i := uint32(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "qualified_name", "relative_name", "name":
			raw := strings.TrimSpace(child.Content(w.content))
			resolved := w.resolver.ResolveNotFullyQualified(raw, symkind.Class)
			exTypes = exTypes.Merge(typestring.New(resolved))
			w.emit(scope, symkind.Class, resolved, child, typestring.Empty)
		case "variable_name":
			name := nodeutil.VariableName(child, w.content)
			w.vars.SetType(name, exTypes)
		}
	}
	if body := node.ChildByFieldName("body"); !body.IsNull() {
		w.walkExpr(body, scope)
	}
}

func (w *walker) handleAssignment(node sitter.Node, scope *Scope) {
	left := node.ChildByFieldName("left")
	right := node.ChildByFieldName("right")
	if !right.IsNull() {
		w.walkExpr(right, scope)
	}
	rhsType := w.exprResolver().Resolve(right)
	if left.Type() == "variable_name" {
		name := nodeutil.VariableName(left, w.content)
		w.vars.SetType(name, rhsType)
		w.emit(scope, symkind.Variable, name, left, rhsType)
		return
	}
	w.walkExpr(left, scope)
}

func (w *walker) handleMemberAccess(node sitter.Node, scope *Scope) {
	receiver := nodeutil.ReceiverNode(node)
	w.walkExpr(receiver, scope)
	name := nodeutil.MemberName(node, w.content)
	nameNode := node.ChildByFieldName("name")
	recvType := w.exprResolver().Resolve(receiver)
	classes := recvType.AtomicClassArray()

	kind := symkind.Property
	if node.Type() == "member_call_expression" {
		kind = symkind.Method
	}
	var best typestring.TypeString
	var winner string
	var alt []string
	for _, cls := range classes {
		closure := symbol.Closure(w.store, cls)
		members := symbol.Members(closure, symbol.Override)
		for _, m := range members {
			if !matchesKindName(m.Symbol, kind, name) {
				continue
			}
			if winner == "" {
				winner = cls
				best = m.Symbol.Type
			} else {
				alt = append(alt, cls)
			}
		}
	}
	if !nameNode.IsNull() {
		w.emit(scope, kind, name, nameNode, best, alt...)
	}
	if node.Type() == "member_call_expression" {
		if args := node.ChildByFieldName("arguments"); !args.IsNull() {
			w.walkExpr(args, scope)
		}
	}
}

func matchesKindName(s *symbol.Symbol, kind symkind.Kind, name string) bool {
	if s.Kind == symkind.Property {
		return kind == symkind.Property && strings.TrimPrefix(s.Name, "$") == name
	}
	if s.Kind == symkind.Method || s.Kind == symkind.Constructor {
		return kind == symkind.Method && s.Name == name
	}
	return false
}

func (w *walker) handleScopedAccess(node sitter.Node, scope *Scope) {
	scopeNode := node.ChildByFieldName("scope")
	name := nodeutil.MemberName(node, w.content)
	nameNode := node.ChildByFieldName("name")

	classFQN := ""
	switch {
	case scopeNode.Type() == "relative_scope":
		text := strings.TrimSpace(scopeNode.Content(w.content))
		switch text {
		case "self", "static":
			classFQN = w.selfFQN
		case "parent":
			classFQN = w.baseFQN
		default:
			classFQN = w.resolver.ResolveNotFullyQualified(text, symkind.Class)
		}
	case scopeNode.Type() == "qualified_name", scopeNode.Type() == "relative_name", scopeNode.Type() == "name":
		raw := strings.TrimSpace(scopeNode.Content(w.content))
		classFQN = w.resolver.ResolveNotFullyQualified(raw, symkind.Class)
		w.emit(scope, symkind.Class, classFQN, scopeNode, typestring.Empty)
	default:
		w.walkExpr(scopeNode, scope)
	}

	kind := symkind.ClassConstant
	if node.Type() == "scoped_property_access_expression" {
		kind = symkind.Property
	} else if node.Type() == "scoped_call_expression" {
		kind = symkind.Method
	}

	if classFQN != "" && !nameNode.IsNull() {
		closure := symbol.Closure(w.store, classFQN)
		members := symbol.Members(closure, symbol.Override)
		for _, m := range members {
			if matchesKindName(m.Symbol, kind, name) || (kind == symkind.ClassConstant && m.Symbol.Kind == symkind.ClassConstant && m.Symbol.Name == name) {
				w.emit(scope, kind, name, nameNode, m.Symbol.Type)
				break
			}
		}
	}
	if node.Type() == "scoped_call_expression" {
		if args := node.ChildByFieldName("arguments"); !args.IsNull() {
			w.walkExpr(args, scope)
		}
	}
}

func (w *walker) handleFunctionCall(node sitter.Node, scope *Scope) {
	fnNode := node.ChildByFieldName("function")
	if !fnNode.IsNull() {
		switch fnNode.Type() {
		case "qualified_name", "relative_name", "name":
			raw := strings.TrimSpace(fnNode.Content(w.content))
			resolved := w.resolver.ResolveNotFullyQualified(raw, symkind.Function)
			var typ typestring.TypeString
			if fn, ok := w.store.FunctionSymbol(resolved); ok {
				typ = fn.Type
			}
			w.emit(scope, symkind.Function, resolved, fnNode, typ)
		default:
			w.walkExpr(fnNode, scope)
		}
	}
	if args := node.ChildByFieldName("arguments"); !args.IsNull() {
		w.walkExpr(args, scope)
	}
}

func (w *walker) handleObjectCreation(node sitter.Node, scope *Scope) {
	for i := uint32(0); i < node.NamedChildCount(); i++ {
		if anon := node.NamedChild(i); anon.Type() == "anonymous_class" {
			w.handleAnonymousClass(anon, scope)
			if args := node.ChildByFieldName("arguments"); !args.IsNull() {
				w.walkExpr(args, scope)
			}
			return
		}
	}
	classNode := node.ChildByFieldName("class")
	if !classNode.IsNull() {
		switch classNode.Type() {
		case "qualified_name", "relative_name", "name":
			raw := strings.TrimSpace(classNode.Content(w.content))
			resolved := w.resolver.ResolveNotFullyQualified(raw, symkind.Class)
			w.emit(scope, symkind.Constructor, resolved, classNode, typestring.New(resolved), resolved)
		default:
			w.walkExpr(classNode, scope)
		}
	}
	if args := node.ChildByFieldName("arguments"); !args.IsNull() {
		w.walkExpr(args, scope)
	}
}

func (w *walker) handleAnonymousClass(node sitter.Node, scope *Scope) {
	fqn := syntheticFQN(w.uri, node)
	baseFQN := ""
	classScope := scope.AddScope(rangeFromNode(node))
	for i := uint32(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "base_clause":
			for j := uint32(0); j < child.NamedChildCount(); j++ {
				n := child.NamedChild(j)
				raw := strings.TrimSpace(n.Content(w.content))
				resolved := w.resolver.ResolveNotFullyQualified(raw, symkind.Class)
				w.emit(classScope, symkind.Class, resolved, n, typestring.Empty)
				baseFQN = resolved
			}
		case "class_interface_clause":
			for j := uint32(0); j < child.NamedChildCount(); j++ {
				n := child.NamedChild(j)
				raw := strings.TrimSpace(n.Content(w.content))
				w.emit(classScope, symkind.Interface, w.resolver.ResolveNotFullyQualified(raw, symkind.Class), n, typestring.Empty)
			}
		}
	}
	w.resolver.PushClass(fqn, baseFQN)
	prevSelf, prevBase := w.selfFQN, w.baseFQN
	w.selfFQN, w.baseFQN = fqn, baseFQN
	if body := node.ChildByFieldName("body"); !body.IsNull() {
		w.walkClassBody(body, classScope, fqn)
	}
	w.selfFQN, w.baseFQN = prevSelf, prevBase
	w.resolver.PopClass()
}

func (w *walker) handleClosure(node sitter.Node, scope *Scope) {
	fnScope := scope.AddScope(rangeFromNode(node))
	w.vars.PushScope()
	if params := node.ChildByFieldName("parameters"); !params.IsNull() {
		for i := uint32(0); i < params.NamedChildCount(); i++ {
			p := params.NamedChild(i)
			if p.Type() != "simple_parameter" && p.Type() != "variadic_parameter" {
				continue
			}
			name := nodeutil.VariableName(p.ChildByFieldName("name"), w.content)
			var typ typestring.TypeString
			if t := p.ChildByFieldName("type"); !t.IsNull() {
				typ = typestring.Parse(strings.TrimSpace(t.Content(w.content))).NameResolve(w.resolver)
			}
			w.vars.SetType(name, typ)
		}
	}
	if body := node.ChildByFieldName("body"); !body.IsNull() {
		w.walkExpr(body, fnScope)
	}
	w.vars.PopScope()
}

func syntheticFQN(uri string, node sitter.Node) string {
	return uri + "#" + itoa(node.StartByte())
}

func itoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
