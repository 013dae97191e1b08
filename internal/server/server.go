// Package server wires the glsp stdio transport to internal/core: every
// handler here is a thin translator between protocol_3_16 wire types and
// the core's plain-Go API (SPEC_FULL.md §7), grounded on the
// teacher's internal/server/server.go (Handler struct wiring,
// initialize/initialized/shutdown/setTrace, RunStdio) — generalized
// from Symfony-container-specific completions/definitions to the
// spec's symbol/reference/completion operations.
package server

import (
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	"github.com/shinyvision/phpls/internal/cache"
	"github.com/shinyvision/phpls/internal/config"
	"github.com/shinyvision/phpls/internal/core"
	"github.com/shinyvision/phpls/internal/utils"
	"github.com/shinyvision/phpls/internal/workspace"
)

const lsName = "phpls"

var version = "0.1.0"

type Server struct {
	config  *config.Config
	core    *core.Core
	cache   *cache.Cache
	watcher *workspace.Watcher
	h       protocol.Handler
	logger  commonlog.Logger
}

func NewServer() *Server {
	s := &Server{
		config: config.NewConfig(),
		logger: commonlog.GetLoggerf("phpls.server"),
	}
	s.h = protocol.Handler{
		Initialize:                  s.initialize,
		Initialized:                 s.initialized,
		Shutdown:                    s.shutdown,
		SetTrace:                    s.setTrace,
		TextDocumentDidOpen:         s.didOpen,
		TextDocumentDidChange:       s.didChange,
		TextDocumentDidClose:        s.didClose,
		TextDocumentDefinition:      s.onDefinition,
		TextDocumentCompletion:      s.onCompletion,
		TextDocumentHover:           s.onHover,
		TextDocumentSignatureHelp:   s.onSignatureHelp,
		TextDocumentReferences:      s.onReferences,
		TextDocumentDocumentSymbol:  s.onDocumentSymbol,
		WorkspaceSymbol:             s.onWorkspaceSymbol,
		TextDocumentFormatting:      s.onDocumentFormatting,
		TextDocumentRangeFormatting: s.onDocumentRangeFormatting,
	}
	return s
}

func (s *Server) Run() {
	srv := glspserver.NewServer(&s.h, lsName, false)
	srv.RunStdio()
}

func (s *Server) initialize(_ *glsp.Context, params *protocol.InitializeParams) (any, error) {
	caps := s.h.CreateServerCapabilities()
	openClose := true
	change := protocol.TextDocumentSyncKindIncremental
	caps.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &openClose,
		Change:    &change,
	}
	defProvider := true
	caps.DefinitionProvider = defProvider
	caps.HoverProvider = true
	caps.ReferencesProvider = true
	caps.DocumentSymbolProvider = true
	caps.WorkspaceSymbolProvider = true
	caps.DocumentFormattingProvider = true
	caps.DocumentRangeFormattingProvider = true
	caps.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{"$", ">", ":"},
	}
	caps.SignatureHelpProvider = &protocol.SignatureHelpOptions{
		TriggerCharacters: []string{"(", ","},
	}

	if params.RootURI != nil {
		s.config.WorkspaceRoot = utils.UriToPath(*params.RootURI)
	} else if len(params.WorkspaceFolders) > 0 {
		s.config.WorkspaceRoot = utils.UriToPath(params.WorkspaceFolders[0].URI)
	} else {
		s.config.WorkspaceRoot = "."
	}

	if params.InitializationOptions != nil {
		if m, ok := params.InitializationOptions.(map[string]any); ok {
			if phpp, ok := m["php_path"]; ok {
				if str, ok := phpp.(string); ok && str != "" {
					s.config.PhpPath = str
				}
			}
			if vdp, ok := m["vendor_dir"]; ok {
				if str, ok := vdp.(string); ok && str != "" {
					s.config.VendorDir = str
				}
			}
			if cp, ok := m["cache_path"]; ok {
				if str, ok := cp.(string); ok && str != "" {
					s.openCache(str)
				}
			}
		}
	}

	s.config.LoadAutoloadMap()
	s.core = core.New(s.config, s.cache)
	s.core.ScanWorkspace()
	if w, err := s.core.WatchWorkspace(); err != nil {
		s.logger.Warningf("workspace watcher disabled: %v", err)
	} else {
		s.watcher = w
	}

	return protocol.InitializeResult{
		Capabilities: caps,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &version,
		},
	}, nil
}

func (s *Server) openCache(path string) {
	c, err := cache.Open(path, false)
	if err != nil {
		s.logger.Warningf("persisted cache disabled: %v", err)
		return
	}
	s.cache = c
}

func (s *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error { return nil }

func (s *Server) shutdown(_ *glsp.Context) error {
	if s.watcher != nil {
		_ = s.watcher.Stop()
	}
	if s.cache != nil {
		_ = s.cache.Close()
	}
	return nil
}

func (s *Server) setTrace(_ *glsp.Context, p *protocol.SetTraceParams) error {
	protocol.SetTraceValue(p.Value)
	return nil
}

func (s *Server) didOpen(_ *glsp.Context, p *protocol.DidOpenTextDocumentParams) error {
	s.core.OpenDocument(string(p.TextDocument.URI), p.TextDocument.Text, int32(p.TextDocument.Version))
	return nil
}

func (s *Server) didChange(_ *glsp.Context, p *protocol.DidChangeTextDocumentParams) error {
	uri := string(p.TextDocument.URI)
	var edits []core.TextEdit
	for _, c := range p.ContentChanges {
		switch ch := c.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			edits = append(edits, core.TextEdit{NewText: ch.Text, Whole: true})
		case protocol.TextDocumentContentChangeEvent:
			edits = append(edits, core.TextEdit{Range: toRange(ch.Range), NewText: ch.Text})
		}
	}
	s.core.EditDocument(uri, int32(p.TextDocument.Version), edits)
	return nil
}

func (s *Server) didClose(_ *glsp.Context, p *protocol.DidCloseTextDocumentParams) error {
	s.core.CloseDocument(string(p.TextDocument.URI))
	return nil
}
