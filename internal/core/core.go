package core

import (
	"sort"
	"strings"
	"sync"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"github.com/tliron/commonlog"

	"github.com/shinyvision/phpls/internal/cache"
	"github.com/shinyvision/phpls/internal/config"
	"github.com/shinyvision/phpls/internal/reference"
	"github.com/shinyvision/phpls/internal/store"
	"github.com/shinyvision/phpls/internal/symbol"
	"github.com/shinyvision/phpls/internal/workspace"
)

// Core is the analysis engine behind spec §6's external interface: it
// owns every open document plus the two cross-document stores, and
// exposes a plain-Go API the `server` package's glsp handlers translate
// LSP protocol types into.
type Core struct {
	mu     sync.Mutex
	cfg    *config.Config
	docs   map[string]*document
	sym    *store.SymbolStore
	refs   *store.ReferenceStore
	cache  *cache.Cache // nil when no persisted cache is configured
	logger commonlog.Logger
}

// New builds a Core. cfg.WorkspaceRoot should already be set; persisted
// caching is optional — pass a nil *cache.Cache to run memory-only.
func New(cfg *config.Config, c *cache.Cache) *Core {
	core := &Core{
		cfg:    cfg,
		docs:   make(map[string]*document),
		cache:  c,
		logger: commonlog.GetLoggerf("phpls.core"),
	}
	core.sym = store.NewSymbolStore(cfg.MaxCachedDocuments, core.loadExternalClass)
	core.refs = store.NewReferenceStore(cfg.MaxCachedDocuments)
	return core
}

// loadExternalClass backs store.Loader: resolve fqn via the autoload
// map, parse the file it points at, and hand back its SymbolTable —
// grounded on the teacher's internal/php/external.go
// ensureExternalClassLoaded (resolve → parse on demand → cache).
func (c *Core) loadExternalClass(fqn string) (*symbol.SymbolTable, string, bool) {
	path, ok := c.cfg.ResolveClassFile(strings.TrimPrefix(fqn, `\`))
	if !ok {
		return nil, "", false
	}
	uri := pathToURI(path)
	if table, ok := c.sym.Table(uri); ok {
		return table, uri, true
	}
	doc := newDocument(uri)
	content, err := readFile(path)
	if err != nil {
		return nil, "", false
	}
	if err := doc.setText(content); err != nil {
		return nil, "", false
	}
	doc.analyze(symbolReader(uri), nil)
	_, _, table, _ := doc.snapshot()
	if table == nil {
		return nil, "", false
	}
	return table, uri, true
}

// ScanWorkspace seeds SymbolStore from every PHP file under the
// configured workspace root, so `workspaceSymbols` answers queries
// before the editor has opened anything (spec §9 addition, grounded on
// gnana997-uispec's WorkspaceScanner). No ReferenceTable is built for
// scanned files; ReferenceStore is filled only by opened documents.
func (c *Core) ScanWorkspace() {
	if c.cfg.WorkspaceRoot == "" {
		return
	}
	scanner := workspace.NewScanner(workspace.DefaultScanOptions())
	files, err := scanner.Discover(c.cfg.WorkspaceRoot)
	if err != nil {
		c.logger.Warningf("workspace scan failed: %v", err)
		return
	}
	for _, path := range files {
		uri := pathToURI(path)
		content, err := readFile(path)
		if err != nil {
			continue
		}
		doc := newDocument(uri)
		if err := doc.setText(content); err != nil {
			continue
		}
		doc.analyze(symbolReader(uri), nil)
		_, _, table, _ := doc.snapshot()
		if table != nil {
			c.sym.Put(uri, table)
		}
	}
	c.logger.Infof("workspace scan indexed %d files", len(files))
}

// WatchWorkspace starts an fsnotify watcher that re-analyzes changed
// files and forgets removed ones, for edits made outside the editor
// (spec §9 addition).
func (c *Core) WatchWorkspace() (*workspace.Watcher, error) {
	w, err := workspace.NewWatcher(workspace.DefaultScanOptions(), c.cfg.DebounceMillis, func(path string, kind workspace.ChangeKind) {
		uri := pathToURI(path)
		if kind == workspace.Removed {
			c.Forget(uri)
			return
		}
		content, err := readFile(path)
		if err != nil {
			return
		}
		c.mu.Lock()
		_, open := c.docs[uri]
		c.mu.Unlock()
		if open {
			return // the editor owns this document; an external write will arrive as editDocument too
		}
		doc := newDocument(uri)
		if err := doc.setText(content); err != nil {
			return
		}
		doc.analyze(symbolReader(uri), nil)
		_, _, table, _ := doc.snapshot()
		if table != nil {
			c.sym.Put(uri, table)
		}
	})
	if err != nil {
		return nil, err
	}
	if err := w.Start(c.cfg.WorkspaceRoot); err != nil {
		return nil, err
	}
	return w, nil
}

func symbolReader(uri string) *symbol.Reader {
	return symbol.NewReader(uri)
}

// OpenDocument parses, builds, and indexes uri (spec §6 `openDocument`).
func (c *Core) OpenDocument(uri, text string, version int32) {
	c.mu.Lock()
	doc, ok := c.docs[uri]
	if !ok {
		doc = newDocument(uri)
		c.docs[uri] = doc
	}
	c.mu.Unlock()

	doc.version = version
	_ = doc.setText([]byte(text))
	c.flush(uri, doc)
}

// EditDocument applies changes in order against the document's current
// text, then marks the parse dirty (spec §6 `editDocument`). Each
// change's Range addresses the text *before* any later change in the
// same batch is applied, per LSP's ordering contract.
func (c *Core) EditDocument(uri string, version int32, changes []TextEdit) {
	c.mu.Lock()
	doc, ok := c.docs[uri]
	c.mu.Unlock()
	if !ok {
		return
	}

	_, content, _, _ := doc.snapshot()
	text := string(content)
	for _, ch := range changes {
		text = applyEdit(text, ch)
	}
	doc.version = version
	_ = doc.setText([]byte(text))
	c.flush(uri, doc)
}

// CloseDocument flushes uri to the persisted cache and drops its
// in-memory parse tree, but keeps its symbols indexed for workspace
// queries (spec §6 `closeDocument`).
func (c *Core) CloseDocument(uri string) {
	c.mu.Lock()
	doc, ok := c.docs[uri]
	delete(c.docs, uri)
	c.mu.Unlock()
	if !ok {
		return
	}
	if c.cache != nil {
		_, _, table, refs := doc.snapshot()
		if table != nil {
			if err := c.cache.PutSymbolTable(table); err != nil {
				c.logger.Warningf("cache write failed for %s: %v", uri, err)
			}
		}
		if refs != nil {
			if err := c.cache.PutReferenceTable(uri, table.Hash, refs); err != nil {
				c.logger.Warningf("cache write failed for %s: %v", uri, err)
			}
		}
	}
	doc.close()
}

// Forget removes uri's symbols and references entirely (spec §6
// `forget`) — the file was deleted, not merely closed.
func (c *Core) Forget(uri string) {
	c.mu.Lock()
	doc, ok := c.docs[uri]
	delete(c.docs, uri)
	c.mu.Unlock()
	if ok {
		doc.close()
	}
	c.sym.Forget(uri)
	c.refs.Forget(uri)
	if c.cache != nil {
		c.cache.Forget(uri)
	}
}

// flush is the "force the parse to finish before reading" primitive
// spec §5 requires every query path to call (see document.go's analyze
// doc comment for why this core has nothing else to flush). It rebuilds
// both the SymbolTable and the ReferenceTable and republishes them into
// the cross-document stores so later lookups (including lookups from
// *other* documents resolving a name this one declares) see the update.
func (c *Core) flush(uri string, doc *document) {
	doc.analyze(symbolReader(uri), func(tree *sitter.Tree, content []byte) *reference.ReferenceTable {
		return reference.NewReader(uri, c.sym).Read(tree, content)
	})
	_, _, table, refs := doc.snapshot()
	if table != nil {
		c.sym.Put(uri, table)
	}
	if refs != nil {
		c.refs.Put(uri, refs)
	}
}

// DocumentSymbols lists every symbol declared in one document.
func (c *Core) DocumentSymbols(uri string) []DocumentSymbolInfo {
	table := c.tableFor(uri)
	if table == nil {
		return nil
	}
	var out []DocumentSymbolInfo
	var walk func(s *symbol.Symbol, container string)
	walk = func(s *symbol.Symbol, container string) {
		if s.HasLocation {
			out = append(out, DocumentSymbolInfo{
				Name:          s.DisplayName(),
				Kind:          s.Kind,
				ContainerName: container,
				Location:      s.Location,
			})
		}
		nextContainer := container
		if s.Kind.IsClassLike() {
			nextContainer = s.Name
		}
		for _, child := range s.Children {
			walk(child, nextContainer)
		}
	}
	walk(table.Root, "")
	return out
}

// WorkspaceSymbols answers a prefix-filtered cross-document symbol
// search (spec §6 `workspaceSymbols`).
func (c *Core) WorkspaceSymbols(query string) []DocumentSymbolInfo {
	var out []DocumentSymbolInfo
	for _, sym := range c.sym.FindByPrefix(query) {
		if !sym.HasLocation {
			continue
		}
		container := ""
		if sym.Scope != "" {
			container = sym.Scope
		}
		out = append(out, DocumentSymbolInfo{
			Name:          sym.DisplayName(),
			Kind:          sym.Kind,
			ContainerName: container,
			Location:      sym.Location,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (c *Core) tableFor(uri string) *symbol.SymbolTable {
	c.mu.Lock()
	doc, ok := c.docs[uri]
	c.mu.Unlock()
	if ok {
		_, _, table, _ := doc.snapshot()
		if table != nil {
			return table
		}
	}
	if table, ok := c.sym.Table(uri); ok {
		return table
	}
	if c.cache != nil {
		if table, ok := c.cache.GetSymbolTable(uri, ""); ok {
			return table
		}
	}
	return nil
}

func (c *Core) referencesFor(uri string) *reference.ReferenceTable {
	if table, ok := c.refs.Table(uri); ok {
		return table
	}
	if c.cache != nil {
		if table, ok := c.cache.GetReferenceTable(uri, ""); ok {
			return table
		}
	}
	return nil
}
