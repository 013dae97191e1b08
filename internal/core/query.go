package core

import (
	"strings"

	"github.com/shinyvision/phpls/internal/reference"
	"github.com/shinyvision/phpls/internal/symbol"
	"github.com/shinyvision/phpls/internal/symkind"
)

// ProvideDefinition resolves the reference at pos to the location(s) of
// the symbol(s) it names (spec §6 `provideDefinition`). A reference can
// carry more than one AltName (e.g. a constructor call also resolving
// as its class), so this can return more than one location.
func (c *Core) ProvideDefinition(uri string, pos symbol.Position) []symbol.Location {
	refs := c.referencesFor(uri)
	if refs == nil {
		return nil
	}
	ref := refs.At(pos)
	if ref == nil {
		return nil
	}
	var out []symbol.Location
	for _, sym := range c.lookupSymbols(ref) {
		if sym.HasLocation {
			out = append(out, sym.Location)
		}
	}
	return out
}

// ProvideReferences finds every occurrence of the name the reference at
// pos resolves to, across every indexed document (spec §6
// `provideReferences`). When context.IncludeDeclaration is set the
// declaring symbol's own location is included first.
func (c *Core) ProvideReferences(uri string, pos symbol.Position, includeDeclaration bool) []symbol.Location {
	refs := c.referencesFor(uri)
	if refs == nil {
		return nil
	}
	ref := refs.At(pos)
	if ref == nil {
		return nil
	}

	var out []symbol.Location
	if includeDeclaration {
		for _, sym := range c.lookupSymbols(ref) {
			if sym.HasLocation {
				out = append(out, sym.Location)
			}
		}
	}
	for _, name := range c.candidateNames(ref) {
		for _, hit := range c.refs.FindReferences(name) {
			out = append(out, hit.Location)
		}
	}
	return out
}

// ProvideHover renders a one-line description of the symbol under pos
// (spec §6 `provideHover`). The reference table is consulted first: a
// method/function body is covered end-to-end by its own declaration's
// Location.Range (internal/symbol/reader.go's buildFunctionSymbol/
// handleMethod use the whole node for r.loc(node)), so checking
// table.At(pos) first would make every position inside a method body
// resolve to the enclosing method instead of whatever is actually under
// the cursor. Declaration-name positions carry no reference (references
// only cover usages), so they fall through to table.At(pos) correctly.
func (c *Core) ProvideHover(uri string, pos symbol.Position) (HoverResult, bool) {
	refs := c.referencesFor(uri)
	if refs != nil {
		if ref := refs.At(pos); ref != nil {
			if matches := c.lookupSymbols(ref); len(matches) > 0 {
				return HoverResult{Contents: hoverText(matches[0]), Range: ref.Location.Range}, true
			}
			return HoverResult{Contents: hoverFallback(ref), Range: ref.Location.Range}, true
		}
	}

	table := c.tableFor(uri)
	if table == nil {
		return HoverResult{}, false
	}
	if sym := table.At(pos); sym != nil && sym.HasLocation {
		return HoverResult{Contents: hoverText(sym), Range: sym.Location.Range}, true
	}
	return HoverResult{}, false
}

// hoverFallback renders a reference with no resolved declaring symbol
// (an unindexed class, or a variable whose type came from inference
// rather than a declared symbol). A Variable reference's Type is
// populated by reference.Reader even with no declaring symbol to point
// at (internal/reference/reader.go's w.vars.GetType(name)), so spec
// §8's S5 scenario — hovering `$x` after `/** @var \X $x */` — still
// needs to surface it.
func hoverFallback(ref *reference.Reference) string {
	if ref.Kind == symkind.Variable && !ref.Type.IsEmpty() {
		return ref.Type.String() + " $" + ref.Name
	}
	return ref.Name
}

// hoverText renders sym's declaration. Method/Function/Constructor use
// the same `function name(params): type` shape signatureOf builds for
// signature-help (spec §8's S1 scenario), since a bare `Kind Name: Type`
// rendering reads nothing like a PHP declaration for callables.
func hoverText(sym *symbol.Symbol) string {
	var b strings.Builder
	switch sym.Kind {
	case symkind.Method, symkind.Function, symkind.Constructor:
		b.WriteString("function ")
		b.WriteString(signatureOf(sym).Label)
	default:
		b.WriteString(sym.Kind.String())
		b.WriteByte(' ')
		b.WriteString(sym.DisplayName())
		if !sym.Type.IsEmpty() {
			b.WriteString(": ")
			b.WriteString(sym.Type.String())
		}
	}
	if sym.Doc.Summary != "" {
		b.WriteString("\n\n")
		b.WriteString(sym.Doc.Summary)
	}
	return b.String()
}

// ProvideSignatureHelp reports the enclosing call's candidate
// signatures (spec §6 `provideSignatureHelp`). Only the function/method
// being called (not overload resolution by argument type, which PHP
// does not do) is reported, matching spec §4.9's completion scope.
func (c *Core) ProvideSignatureHelp(uri string, pos symbol.Position) (SignatureHelpResult, bool) {
	refs := c.referencesFor(uri)
	if refs == nil {
		return SignatureHelpResult{}, false
	}
	ref := callReferenceNear(refs, pos)
	if ref == nil {
		return SignatureHelpResult{}, false
	}
	if matches := c.lookupSymbols(ref); len(matches) > 0 {
		var sigs []Signature
		for _, m := range matches {
			sigs = append(sigs, signatureOf(m))
		}
		return SignatureHelpResult{Signatures: sigs}, true
	}
	return SignatureHelpResult{}, false
}

func callReferenceNear(refs *reference.ReferenceTable, pos symbol.Position) *reference.Reference {
	return refs.At(pos)
}

func signatureOf(sym *symbol.Symbol) Signature {
	var params []string
	for _, child := range sym.Children {
		if child.Kind == symkind.Parameter {
			label := child.DisplayName()
			if !child.Type.IsEmpty() {
				label = child.Type.String() + " " + label
			}
			params = append(params, label)
		}
	}
	label := sym.DisplayName() + "(" + strings.Join(params, ", ") + ")"
	if !sym.Type.IsEmpty() {
		label += ": " + sym.Type.String()
	}
	return Signature{Label: label, Documentation: sym.Doc.Summary, Parameters: params}
}

// candidateNames returns every FQN a Class/Function/Constructor
// reference could resolve to, Name first then AltName (spec §4.8
// "constructor calls dual-index as both Constructor and Class").
func (c *Core) candidateNames(ref *reference.Reference) []string {
	names := []string{ref.Name}
	names = append(names, ref.AltName...)
	return names
}

// lookupSymbols resolves a Reference to the declaring symbol(s). Class,
// Constructor, and Function references carry a resolver-qualified FQN
// in Name (reader.go's handleObjectCreation/handleFunctionCall/
// emitTypeRef), so those resolve via the FQN indexes: Constructor and
// Function to the first candidate name found, other kinds to one class
// symbol per candidate name (Name, then each AltName) that is indexed.
// Property/Method references carry only the bare member name
// (reader.go's handleMemberAccess never learns a single owning class
// when resolution is ambiguous across a union type), so those fall
// back to a cross-class name scan that can return more than one match.
func (c *Core) lookupSymbols(ref *reference.Reference) []*symbol.Symbol {
	switch ref.Kind {
	case symkind.Property, symkind.Method:
		return c.sym.MembersNamed(ref.Kind, ref.Name)
	case symkind.Constructor:
		for _, name := range c.candidateNames(ref) {
			if sym, ok := c.sym.ClassSymbol(name); ok {
				return []*symbol.Symbol{sym}
			}
		}
		return nil
	case symkind.Function:
		for _, name := range c.candidateNames(ref) {
			if sym, ok := c.sym.FunctionSymbol(name); ok {
				return []*symbol.Symbol{sym}
			}
		}
		return nil
	default:
		var out []*symbol.Symbol
		for _, name := range c.candidateNames(ref) {
			if sym, ok := c.sym.ClassSymbol(name); ok {
				out = append(out, sym)
			}
		}
		return out
	}
}

// ProvideDocumentFormattingEdits and ProvideDocumentRangeFormattingEdits
// live in format.go.
