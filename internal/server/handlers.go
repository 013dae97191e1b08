package server

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Every handler here resolves the request into a core.Core call and
// converts the result back to protocol_3_16 types via convert.go — the
// teacher's internal/server/definitions.go and completions.go did the
// equivalent translation for Symfony-specific service/twig lookups;
// these replace that domain with the spec's generic PHP symbol and
// reference model.

func (s *Server) onDefinition(_ *glsp.Context, p *protocol.DefinitionParams) (any, error) {
	locs := s.core.ProvideDefinition(string(p.TextDocument.URI), toPosition(p.Position))
	if len(locs) == 0 {
		return nil, nil
	}
	return fromLocations(locs), nil
}

func (s *Server) onReferences(_ *glsp.Context, p *protocol.ReferenceParams) ([]protocol.Location, error) {
	includeDecl := p.Context.IncludeDeclaration
	locs := s.core.ProvideReferences(string(p.TextDocument.URI), toPosition(p.Position), includeDecl)
	if len(locs) == 0 {
		return nil, nil
	}
	return fromLocations(locs), nil
}

func (s *Server) onHover(_ *glsp.Context, p *protocol.HoverParams) (*protocol.Hover, error) {
	result, ok := s.core.ProvideHover(string(p.TextDocument.URI), toPosition(p.Position))
	if !ok {
		return nil, nil
	}
	return fromHover(result), nil
}

func (s *Server) onSignatureHelp(_ *glsp.Context, p *protocol.SignatureHelpParams) (*protocol.SignatureHelp, error) {
	result, ok := s.core.ProvideSignatureHelp(string(p.TextDocument.URI), toPosition(p.Position))
	if !ok {
		return nil, nil
	}
	return fromSignatureHelp(result), nil
}

func (s *Server) onCompletion(_ *glsp.Context, p *protocol.CompletionParams) (any, error) {
	result := s.core.ProvideCompletions(string(p.TextDocument.URI), toPosition(p.Position))
	return fromCompletionResult(result), nil
}

func (s *Server) onDocumentSymbol(_ *glsp.Context, p *protocol.DocumentSymbolParams) (any, error) {
	infos := s.core.DocumentSymbols(string(p.TextDocument.URI))
	if len(infos) == 0 {
		return nil, nil
	}
	return fromDocumentSymbols(infos), nil
}

func (s *Server) onWorkspaceSymbol(_ *glsp.Context, p *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	infos := s.core.WorkspaceSymbols(p.Query)
	if len(infos) == 0 {
		return nil, nil
	}
	return fromDocumentSymbols(infos), nil
}

func (s *Server) onDocumentFormatting(_ *glsp.Context, p *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	edits := s.core.ProvideDocumentFormattingEdits(string(p.TextDocument.URI))
	if len(edits) == 0 {
		return nil, nil
	}
	return fromTextEdits(edits), nil
}

func (s *Server) onDocumentRangeFormatting(_ *glsp.Context, p *protocol.DocumentRangeFormattingParams) ([]protocol.TextEdit, error) {
	edits := s.core.ProvideDocumentRangeFormattingEdits(string(p.TextDocument.URI), toRange(p.Range))
	if len(edits) == 0 {
		return nil, nil
	}
	return fromTextEdits(edits), nil
}
