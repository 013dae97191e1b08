package server

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/shinyvision/phpls/internal/core"
	"github.com/shinyvision/phpls/internal/symbol"
	"github.com/shinyvision/phpls/internal/symkind"
)

// This file holds every glsp protocol_3_16 <-> plain-Go conversion, per
// SPEC_FULL.md §7's "server package as thin glsp-facing wrappers"
// guidance — the core package never imports protocol_3_16.

func toPosition(p protocol.Position) symbol.Position {
	return symbol.Position{Line: int(p.Line), Character: int(p.Character)}
}

func fromPosition(p symbol.Position) protocol.Position {
	return protocol.Position{Line: uint32(p.Line), Character: uint32(p.Character)}
}

func fromRange(r symbol.Range) protocol.Range {
	return protocol.Range{Start: fromPosition(r.Start), End: fromPosition(r.End)}
}

func toRange(r protocol.Range) symbol.Range {
	return symbol.Range{Start: toPosition(r.Start), End: toPosition(r.End)}
}

func fromLocation(l symbol.Location) protocol.Location {
	return protocol.Location{URI: protocol.DocumentUri(l.URI), Range: fromRange(l.Range)}
}

func fromLocations(locs []symbol.Location) []protocol.Location {
	out := make([]protocol.Location, 0, len(locs))
	for _, l := range locs {
		out = append(out, fromLocation(l))
	}
	return out
}

func fromTextEdits(edits []core.TextEdit) []protocol.TextEdit {
	out := make([]protocol.TextEdit, 0, len(edits))
	for _, e := range edits {
		out = append(out, protocol.TextEdit{Range: fromRange(e.Range), NewText: e.NewText})
	}
	return out
}

func symbolKindToCompletionKind(k symkind.Kind) protocol.CompletionItemKind {
	switch k {
	case symkind.Class, symkind.Interface, symkind.Trait:
		return protocol.CompletionItemKindClass
	case symkind.Method:
		return protocol.CompletionItemKindMethod
	case symkind.Function:
		return protocol.CompletionItemKindFunction
	case symkind.Constructor:
		return protocol.CompletionItemKindConstructor
	case symkind.Property:
		return protocol.CompletionItemKindProperty
	case symkind.Constant, symkind.ClassConstant:
		return protocol.CompletionItemKindConstant
	case symkind.Variable, symkind.Parameter:
		return protocol.CompletionItemKindVariable
	case symkind.Namespace:
		return protocol.CompletionItemKindModule
	default:
		return protocol.CompletionItemKindKeyword
	}
}

func symkindToSymbolKind(k symkind.Kind) protocol.SymbolKind {
	switch k {
	case symkind.Class:
		return protocol.SymbolKindClass
	case symkind.Interface:
		return protocol.SymbolKindInterface
	case symkind.Trait:
		return protocol.SymbolKindClass
	case symkind.Method:
		return protocol.SymbolKindMethod
	case symkind.Function:
		return protocol.SymbolKindFunction
	case symkind.Constructor:
		return protocol.SymbolKindConstructor
	case symkind.Property:
		return protocol.SymbolKindProperty
	case symkind.Constant:
		return protocol.SymbolKindConstant
	case symkind.ClassConstant:
		return protocol.SymbolKindConstant
	case symkind.Namespace:
		return protocol.SymbolKindNamespace
	case symkind.Variable, symkind.Parameter:
		return protocol.SymbolKindVariable
	default:
		return protocol.SymbolKindVariable
	}
}

func fromCompletionResult(r core.CompletionResult) *protocol.CompletionList {
	items := make([]protocol.CompletionItem, 0, len(r.Items))
	for _, it := range r.Items {
		kind := symbolKindToCompletionKind(it.Kind)
		item := protocol.CompletionItem{
			Label: it.Label,
			Kind:  &kind,
		}
		if it.Detail != "" {
			d := it.Detail
			item.Detail = &d
		}
		if it.Documentation != "" {
			item.Documentation = it.Documentation
		}
		if it.InsertText != "" {
			t := it.InsertText
			item.InsertText = &t
		}
		if it.SortText != "" {
			s := it.SortText
			item.SortText = &s
		}
		items = append(items, item)
	}
	return &protocol.CompletionList{IsIncomplete: r.IsIncomplete, Items: items}
}

func fromSignatureHelp(r core.SignatureHelpResult) *protocol.SignatureHelp {
	sigs := make([]protocol.SignatureInformation, 0, len(r.Signatures))
	for _, sg := range r.Signatures {
		info := protocol.SignatureInformation{Label: sg.Label}
		if sg.Documentation != "" {
			info.Documentation = sg.Documentation
		}
		for _, p := range sg.Parameters {
			label := p
			info.Parameters = append(info.Parameters, protocol.ParameterInformation{Label: label})
		}
		sigs = append(sigs, info)
	}
	active := uint32(r.ActiveSignature)
	activeParam := uint32(r.ActiveParameter)
	return &protocol.SignatureHelp{
		Signatures:      sigs,
		ActiveSignature: &active,
		ActiveParameter: &activeParam,
	}
}

func fromHover(r core.HoverResult) *protocol.Hover {
	rng := fromRange(r.Range)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{Kind: protocol.Markdown, Value: r.Contents},
		Range:    &rng,
	}
}

func fromDocumentSymbols(infos []core.DocumentSymbolInfo) []protocol.SymbolInformation {
	out := make([]protocol.SymbolInformation, 0, len(infos))
	for _, info := range infos {
		si := protocol.SymbolInformation{
			Name:     info.Name,
			Kind:     symkindToSymbolKind(info.Kind),
			Location: fromLocation(info.Location),
		}
		if info.ContainerName != "" {
			cn := info.ContainerName
			si.ContainerName = &cn
		}
		out = append(out, si)
	}
	return out
}
