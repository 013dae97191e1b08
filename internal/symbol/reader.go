package symbol

import (
	"fmt"
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/shinyvision/phpls/internal/nodeutil"
	"github.com/shinyvision/phpls/internal/phpdoc"
	"github.com/shinyvision/phpls/internal/resolve"
	"github.com/shinyvision/phpls/internal/symkind"
	"github.com/shinyvision/phpls/internal/typestring"
)

// Reader builds a SymbolTable from a parse tree for one document.
type Reader struct {
	uri string
}

// NewReader creates a reader that stamps locations with uri.
func NewReader(uri string) *Reader {
	return &Reader{uri: uri}
}

// Read walks tree and returns the resulting SymbolTable. content is the
// document's source bytes; hash is the caller-computed content hash
// stored on the table for cache validity.
func (r *Reader) Read(tree *sitter.Tree, content []byte, hash string) *SymbolTable {
	table := NewTable(r.uri, hash)
	if tree == nil {
		return table
	}
	root := tree.RootNode()
	if root.IsNull() {
		return table
	}
	resolver := resolve.New("")
	r.walkTopLevel(root, content, resolver, table.Root)
	return table
}

func (r *Reader) loc(node sitter.Node) Location {
	return Location{URI: r.uri, Range: rangeFromNode(node)}
}

func rangeFromNode(node sitter.Node) Range {
	return Range{Start: posFromPoint(node.StartPoint()), End: posFromPoint(node.EndPoint())}
}

func posFromPoint(p sitter.Point) Position {
	return Position{Line: int(p.Row), Character: int(p.Column)}
}

// walkTopLevel handles the statements that may appear at program scope or
// inside a compound-form namespace block.
func (r *Reader) walkTopLevel(node sitter.Node, content []byte, resolver *resolve.NameResolver, parent *Symbol) {
	for i := uint32(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "namespace_definition":
			r.handleNamespace(child, content, resolver, parent)
		case "namespace_use_declaration":
			r.handleUseDeclaration(child, content, resolver, parent)
		case "class_declaration", "interface_declaration", "trait_declaration":
			r.handleClassLike(child, content, resolver, parent)
		case "function_definition":
			r.handleFunction(child, content, resolver, parent)
		case "const_declaration":
			r.handleTopLevelConst(child, content, resolver, parent)
		default:
			r.collectAnonymous(child, content, resolver, parent)
		}
	}
}

func (r *Reader) handleTopLevelConst(node sitter.Node, content []byte, resolver *resolve.NameResolver, parent *Symbol) {
	doc := phpdoc.Parse(nodeutil.CommentBefore(node, content))
	for i := uint32(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.Type() != "const_element" {
			continue
		}
		nameNode := child.ChildByFieldName("name")
		if nameNode.IsNull() {
			continue
		}
		name := strings.TrimSpace(nameNode.Content(content))
		value := ""
		if valueNode := child.ChildByFieldName("value"); !valueNode.IsNull() {
			value = strings.TrimSpace(valueNode.Content(content))
		}
		parent.Children = append(parent.Children, &Symbol{
			Kind:        symkind.Constant,
			Name:        resolver.ResolveRelative(name),
			Location:    r.loc(child),
			HasLocation: true,
			Value:       value,
			Doc:         doc,
		})
	}
}

func (r *Reader) handleNamespace(node sitter.Node, content []byte, resolver *resolve.NameResolver, parent *Symbol) {
	ns := ""
	if nameNode := node.ChildByFieldName("name"); !nameNode.IsNull() {
		ns = nodeutil.NormalizeFQN(nameNode.Content(content))
	}
	body := node.ChildByFieldName("body")
	sym := &Symbol{Kind: symkind.Namespace, Name: ns, Location: r.loc(node), HasLocation: true}
	parent.Children = append(parent.Children, sym)

	prevNS := resolver.Namespace()
	resolver.SetNamespace(ns)
	if !body.IsNull() {
		r.walkTopLevel(body, content, resolver, sym)
		resolver.SetNamespace(prevNS)
	}
}

func (r *Reader) handleUseDeclaration(node sitter.Node, content []byte, resolver *resolve.NameResolver, parent *Symbol) {
	kind := symkind.Class
	if typeNode := node.ChildByFieldName("type"); !typeNode.IsNull() {
		switch strings.TrimSpace(typeNode.Content(content)) {
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
			prefix = nodeutil.NormalizeFQN(child.Content(content))
		case "namespace_use_group":
			for j := uint32(0); j < child.NamedChildCount(); j++ {
				if inner := child.NamedChild(j); inner.Type() == "namespace_use_clause" {
					r.addUseClause(inner, prefix, kind, content, resolver, parent)
				}
			}
		case "namespace_use_clause":
			r.addUseClause(child, "", kind, content, resolver, parent)
		}
	}
}

func (r *Reader) addUseClause(clause sitter.Node, prefix string, kind symkind.Kind, content []byte, resolver *resolve.NameResolver, parent *Symbol) {
	if clause.IsNull() {
		return
	}
	alias := ""
	if aliasNode := clause.ChildByFieldName("alias"); !aliasNode.IsNull() {
		alias = strings.TrimSpace(aliasNode.Content(content))
	}

	var nameNode sitter.Node
	for i := uint32(0); i < clause.NamedChildCount(); i++ {
		if clause.FieldNameForNamedChild(i) == "alias" {
			continue
		}
		child := clause.NamedChild(i)
		switch child.Type() {
		case "qualified_name", "relative_name", "name":
			nameNode = child
		}
		if !nameNode.IsNull() {
			break
		}
	}
	if nameNode.IsNull() {
		return
	}

	base := strings.TrimSpace(nameNode.Content(content))
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

	resolver.AddRule(kind, alias, full)
	sym := &Symbol{
		Kind:        kind,
		Name:        alias,
		Modifiers:   symkind.Use,
		Location:    r.loc(clause),
		HasLocation: true,
		Associated:  []Assoc{{Kind: kind, FQN: full}},
	}
	parent.Children = append(parent.Children, sym)
}

func (r *Reader) handleClassLike(node sitter.Node, content []byte, resolver *resolve.NameResolver, parent *Symbol) {
	kind := symkind.Class
	switch node.Type() {
	case "interface_declaration":
		kind = symkind.Interface
	case "trait_declaration":
		kind = symkind.Trait
	}

	name := ""
	if nameNode := node.ChildByFieldName("name"); !nameNode.IsNull() {
		name = strings.TrimSpace(nameNode.Content(content))
	}
	fqn := resolver.ResolveRelative(name)

	sym := &Symbol{
		Kind:        kind,
		Name:        fqn,
		Location:    r.loc(node),
		HasLocation: true,
		Doc:         phpdoc.Parse(nodeutil.CommentBefore(node, content)),
	}
	r.collectClassModifiers(node, content, sym)

	baseFQN := ""
	for i := uint32(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "base_clause":
			baseKind := symkind.Class
			if kind == symkind.Interface {
				baseKind = symkind.Interface
			}
			for j := uint32(0); j < child.NamedChildCount(); j++ {
				raw := strings.TrimSpace(child.NamedChild(j).Content(content))
				resolved := resolver.ResolveNotFullyQualified(raw, symkind.Class)
				sym.Associated = append(sym.Associated, Assoc{Kind: baseKind, FQN: resolved})
				if baseFQN == "" {
					baseFQN = resolved
				}
			}
		case "class_interface_clause":
			for j := uint32(0); j < child.NamedChildCount(); j++ {
				raw := strings.TrimSpace(child.NamedChild(j).Content(content))
				resolved := resolver.ResolveNotFullyQualified(raw, symkind.Class)
				sym.Associated = append(sym.Associated, Assoc{Kind: symkind.Interface, FQN: resolved})
			}
		}
	}

	resolver.PushClass(fqn, baseFQN)
	if body := node.ChildByFieldName("body"); !body.IsNull() {
		r.walkClassBody(body, content, resolver, sym, fqn)
	}
	resolver.PopClass()

	parent.Children = append(parent.Children, sym)
}

func (r *Reader) collectClassModifiers(node sitter.Node, content []byte, sym *Symbol) {
	for i := uint32(0); i < node.NamedChildCount(); i++ {
		switch node.NamedChild(i).Type() {
		case "abstract_modifier":
			sym.Modifiers |= symkind.Abstract
		case "final_modifier":
			sym.Modifiers |= symkind.Final
		}
	}
}

func (r *Reader) walkClassBody(body sitter.Node, content []byte, resolver *resolve.NameResolver, classSym *Symbol, fqn string) {
	for i := uint32(0); i < body.NamedChildCount(); i++ {
		child := body.NamedChild(i)
		switch child.Type() {
		case "property_declaration":
			r.handleProperty(child, content, resolver, classSym, fqn)
		case "method_declaration":
			r.handleMethod(child, content, resolver, classSym, fqn)
		case "const_declaration", "class_const_declaration":
			r.handleClassConst(child, content, resolver, classSym, fqn)
		case "use_declaration":
			for j := uint32(0); j < child.NamedChildCount(); j++ {
				traitChild := child.NamedChild(j)
				switch traitChild.Type() {
				case "qualified_name", "relative_name", "name":
					raw := strings.TrimSpace(traitChild.Content(content))
					classSym.Associated = append(classSym.Associated, Assoc{
						Kind: symkind.Trait,
						FQN:  resolver.ResolveNotFullyQualified(raw, symkind.Class),
					})
				}
			}
		default:
			r.collectAnonymous(child, content, resolver, classSym)
		}
	}
}

func (r *Reader) handleProperty(node sitter.Node, content []byte, resolver *resolve.NameResolver, classSym *Symbol, fqn string) {
	var declared typestring.TypeString
	if typeNode := node.ChildByFieldName("type"); !typeNode.IsNull() {
		declared = typestring.Parse(strings.TrimSpace(typeNode.Content(content))).NameResolve(resolver)
	}
	mods := propertyModifiers(node, content)
	doc := phpdoc.Parse(nodeutil.CommentBefore(node, content))

	for i := uint32(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.Type() != "property_element" {
			continue
		}
		nameNode := child.ChildByFieldName("name")
		name := nodeutil.VariableName(nameNode, content)
		if name == "" {
			continue
		}
		typ := declared
		if docType := doc.VarType(name); docType != "" {
			typ = typestring.Parse(docType).NameResolve(resolver)
		}
		propSym := &Symbol{
			Kind:        symkind.Property,
			Name:        "$" + name,
			Modifiers:   mods,
			Type:        typ,
			Location:    r.loc(child),
			HasLocation: true,
			Scope:       fqn,
			Doc:         doc,
		}
		classSym.Children = append(classSym.Children, propSym)
	}
}

func propertyModifiers(node sitter.Node, content []byte) symkind.Modifier {
	var mods symkind.Modifier
	sawVisibility := false
	for i := uint32(0); i < node.NamedChildCount(); i++ {
		switch node.NamedChild(i).Type() {
		case "visibility_modifier":
			sawVisibility = true
			mods |= visibilityModifier(node.NamedChild(i).Content(content))
		case "static_modifier":
			mods |= symkind.Static
		case "abstract_modifier":
			mods |= symkind.Abstract
		case "final_modifier":
			mods |= symkind.Final
		}
	}
	if !sawVisibility {
		mods |= symkind.Public
	}
	return mods
}

func visibilityModifier(text string) symkind.Modifier {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "private":
		return symkind.Private
	case "protected":
		return symkind.Protected
	default:
		return symkind.Public
	}
}

func (r *Reader) handleClassConst(node sitter.Node, content []byte, resolver *resolve.NameResolver, classSym *Symbol, fqn string) {
	mods := propertyModifiers(node, content)
	doc := phpdoc.Parse(nodeutil.CommentBefore(node, content))
	for i := uint32(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.Type() != "const_element" {
			continue
		}
		nameNode := child.ChildByFieldName("name")
		if nameNode.IsNull() {
			continue
		}
		name := strings.TrimSpace(nameNode.Content(content))
		value := ""
		if valueNode := child.ChildByFieldName("value"); !valueNode.IsNull() {
			value = strings.TrimSpace(valueNode.Content(content))
		}
		classSym.Children = append(classSym.Children, &Symbol{
			Kind:        symkind.ClassConstant,
			Name:        name,
			Modifiers:   mods,
			Location:    r.loc(child),
			HasLocation: true,
			Scope:       fqn,
			Value:       value,
			Doc:         doc,
		})
	}
}

func (r *Reader) handleFunction(node sitter.Node, content []byte, resolver *resolve.NameResolver, parent *Symbol) {
	name := ""
	if nameNode := node.ChildByFieldName("name"); !nameNode.IsNull() {
		name = strings.TrimSpace(nameNode.Content(content))
	}
	fqn := resolver.ResolveRelative(name)
	sym := r.buildFunctionSymbol(node, content, resolver, symkind.Function, fqn, "")
	parent.Children = append(parent.Children, sym)
	if body := node.ChildByFieldName("body"); !body.IsNull() {
		r.collectAnonymous(body, content, resolver, sym)
	}
}

func (r *Reader) handleMethod(node sitter.Node, content []byte, resolver *resolve.NameResolver, classSym *Symbol, fqn string) {
	name := ""
	if nameNode := node.ChildByFieldName("name"); !nameNode.IsNull() {
		name = strings.TrimSpace(nameNode.Content(content))
	}
	kind := symkind.Method
	if strings.EqualFold(name, "__construct") {
		kind = symkind.Constructor
	}
	mods := propertyModifiers(node, content)
	for i := uint32(0); i < node.NamedChildCount(); i++ {
		if node.NamedChild(i).Type() == "abstract_modifier" {
			mods |= symkind.Abstract
		}
	}

	sym := r.buildFunctionSymbol(node, content, resolver, kind, name, fqn)
	sym.Modifiers |= mods
	classSym.Children = append(classSym.Children, sym)

	// Promoted constructor properties become class members too.
	if params := node.ChildByFieldName("parameters"); !params.IsNull() {
		for i := uint32(0); i < params.NamedChildCount(); i++ {
			p := params.NamedChild(i)
			if p.Type() != "property_promotion_parameter" {
				continue
			}
			classSym.Children = append(classSym.Children, r.promotedProperty(p, content, resolver, fqn))
		}
	}

	if body := node.ChildByFieldName("body"); !body.IsNull() {
		r.collectAnonymous(body, content, resolver, sym)
	}
}

func (r *Reader) promotedProperty(node sitter.Node, content []byte, resolver *resolve.NameResolver, fqn string) *Symbol {
	mods := propertyModifiers(node, content)
	var typ typestring.TypeString
	if typeNode := node.ChildByFieldName("type"); !typeNode.IsNull() {
		typ = typestring.Parse(strings.TrimSpace(typeNode.Content(content))).NameResolve(resolver)
	}
	name := nodeutil.VariableName(node.ChildByFieldName("name"), content)
	return &Symbol{
		Kind:        symkind.Property,
		Name:        "$" + name,
		Modifiers:   mods,
		Type:        typ,
		Location:    r.loc(node),
		HasLocation: true,
		Scope:       fqn,
	}
}

// buildFunctionSymbol builds a Function/Method/Constructor symbol common
// to top-level functions and class methods, including its Parameter
// children and declared/doc return type.
func (r *Reader) buildFunctionSymbol(node sitter.Node, content []byte, resolver *resolve.NameResolver, kind symkind.Kind, name, scope string) *Symbol {
	doc := phpdoc.Parse(nodeutil.CommentBefore(node, content))
	var retType typestring.TypeString
	if returnNode := node.ChildByFieldName("return_type"); !returnNode.IsNull() {
		retType = typestring.Parse(strings.TrimSpace(returnNode.Content(content))).NameResolve(resolver)
	}
	if docReturn := doc.ReturnType(); docReturn != "" {
		retType = typestring.Parse(docReturn).NameResolve(resolver)
	}

	sym := &Symbol{
		Kind:        kind,
		Name:        name,
		Type:        retType,
		Location:    r.loc(node),
		HasLocation: true,
		Scope:       scope,
		Doc:         doc,
	}

	if params := node.ChildByFieldName("parameters"); !params.IsNull() {
		for i := uint32(0); i < params.NamedChildCount(); i++ {
			p := params.NamedChild(i)
			switch p.Type() {
			case "simple_parameter", "variadic_parameter", "property_promotion_parameter":
				sym.Children = append(sym.Children, r.buildParameter(p, content, resolver, doc))
			}
		}
	}
	return sym
}

func (r *Reader) buildParameter(node sitter.Node, content []byte, resolver *resolve.NameResolver, fnDoc phpdoc.Doc) *Symbol {
	name := nodeutil.VariableName(node.ChildByFieldName("name"), content)
	var typ typestring.TypeString
	if typeNode := node.ChildByFieldName("type"); !typeNode.IsNull() {
		typ = typestring.Parse(strings.TrimSpace(typeNode.Content(content))).NameResolve(resolver)
	}
	if docType := fnDoc.ParamType(name); docType != "" {
		typ = typestring.Parse(docType).NameResolve(resolver)
	}
	value := ""
	if defNode := node.ChildByFieldName("default_value"); !defNode.IsNull() {
		value = strings.TrimSpace(defNode.Content(content))
	}
	return &Symbol{
		Kind:        symkind.Parameter,
		Name:        name,
		Type:        typ,
		Value:       value,
		Location:    r.loc(node),
		HasLocation: true,
	}
}

// collectAnonymous sweeps an arbitrary statement/expression subtree for
// nested container declarations: closures, arrow functions, and
// anonymous classes, which still need their own Symbol per spec §4.3
// even though they never appear as named top-level/class-body
// declarations.
func (r *Reader) collectAnonymous(node sitter.Node, content []byte, resolver *resolve.NameResolver, parent *Symbol) {
	if node.IsNull() {
		return
	}
	switch node.Type() {
	case "anonymous_function_creation_expression", "arrow_function":
		synthetic := fmt.Sprintf("%s#%d", r.uri, node.StartByte())
		sym := r.buildFunctionSymbol(node, content, resolver, symkind.Function, synthetic, "")
		sym.Modifiers |= symkind.Anonymous
		parent.Children = append(parent.Children, sym)
		if body := node.ChildByFieldName("body"); !body.IsNull() {
			r.collectAnonymous(body, content, resolver, sym)
		}
		return
	case "object_creation_expression":
		for i := uint32(0); i < node.NamedChildCount(); i++ {
			if anon := node.NamedChild(i); anon.Type() == "anonymous_class" {
				r.handleAnonymousClass(anon, content, resolver, parent)
				return
			}
		}
	case "class_declaration", "interface_declaration", "trait_declaration":
		r.handleClassLike(node, content, resolver, parent)
		return
	}
	for i := uint32(0); i < node.NamedChildCount(); i++ {
		r.collectAnonymous(node.NamedChild(i), content, resolver, parent)
	}
}

func (r *Reader) handleAnonymousClass(node sitter.Node, content []byte, resolver *resolve.NameResolver, parent *Symbol) {
	fqn := fmt.Sprintf("%s#%d", r.uri, node.StartByte())
	sym := &Symbol{
		Kind:        symkind.Class,
		Name:        fqn,
		Modifiers:   symkind.Anonymous,
		Location:    r.loc(node),
		HasLocation: true,
	}

	baseFQN := ""
	for i := uint32(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "base_clause":
			for j := uint32(0); j < child.NamedChildCount(); j++ {
				raw := strings.TrimSpace(child.NamedChild(j).Content(content))
				resolved := resolver.ResolveNotFullyQualified(raw, symkind.Class)
				sym.Associated = append(sym.Associated, Assoc{Kind: symkind.Class, FQN: resolved})
				baseFQN = resolved
			}
		case "class_interface_clause":
			for j := uint32(0); j < child.NamedChildCount(); j++ {
				raw := strings.TrimSpace(child.NamedChild(j).Content(content))
				resolved := resolver.ResolveNotFullyQualified(raw, symkind.Class)
				sym.Associated = append(sym.Associated, Assoc{Kind: symkind.Interface, FQN: resolved})
			}
		}
	}

	resolver.PushClass(fqn, baseFQN)
	if body := node.ChildByFieldName("body"); !body.IsNull() {
		r.walkClassBody(body, content, resolver, sym, fqn)
	}
	resolver.PopClass()

	parent.Children = append(parent.Children, sym)
}
