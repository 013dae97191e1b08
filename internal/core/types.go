package core

import (
	"github.com/shinyvision/phpls/internal/symbol"
	"github.com/shinyvision/phpls/internal/symkind"
)

// TextEdit is one `{range, text}` replacement (spec §6 `editDocument`,
// `provideDocumentFormattingEdits`). Whole marks a full-document
// replacement (LSP's TextDocumentContentChangeEventWhole), in which
// case Range is ignored.
type TextEdit struct {
	Range   symbol.Range
	NewText string
	Whole   bool
}

// DocumentSymbolInfo answers both `documentSymbols` and
// `workspaceSymbols` (spec §6): `{name, kind, containerName, location}`.
type DocumentSymbolInfo struct {
	Name          string
	Kind          symkind.Kind
	ContainerName string
	Location      symbol.Location
}

// CompletionItem is one candidate (spec §6 `provideCompletions`).
type CompletionItem struct {
	Label         string
	Kind          symkind.Kind
	Detail        string
	Documentation string
	InsertText    string
	SortText      string
}

// CompletionResult is `provideCompletions`'s return shape.
type CompletionResult struct {
	IsIncomplete bool
	Items        []CompletionItem
}

// Signature is one overload in a SignatureHelp result.
type Signature struct {
	Label         string
	Documentation string
	Parameters    []string
}

// SignatureHelpResult is `provideSignatureHelp`'s return shape.
type SignatureHelpResult struct {
	Signatures      []Signature
	ActiveSignature int
	ActiveParameter int
}

// HoverResult is `provideHover`'s return shape.
type HoverResult struct {
	Contents string
	Range    symbol.Range
}
