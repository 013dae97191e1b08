// Package store implements SymbolStore and ReferenceStore (spec §4.7/§4.8):
// the cross-document indexes that let a single document's analysis consult
// class hierarchies and find references anywhere in the workspace.
//
// Grounded on the teacher's internal/php/document_store.go (the bounded
// slice-plus-map LRU that evicts the least-recently-touched *closed*
// document) and internal/php/external.go (ensureExternalClassLoaded's
// "resolve via autoload, parse on demand, cache the result" idiom) —
// generalized from a single flat document cache into two focused stores
// layered on hashicorp/golang-lru/v2 (bounded per-document table cache,
// per gnana997-uispec's SymbolIndexer) plus an emirpasic/gods red-black
// tree keyed by symbol name; prefix search walks every entry of that
// tree in key order.
package store

import (
	"sort"
	"strings"
	"sync"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/emirpasic/gods/utils"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/shinyvision/phpls/internal/symbol"
	"github.com/shinyvision/phpls/internal/symkind"
)

// Loader resolves a class-like or function FQN this store doesn't yet
// know about, typically via the Composer autoload map, parsing the
// backing file and returning the SymbolTable it produced plus the URI
// it was stored under. ok is false when the FQN cannot be resolved
// (not in the autoload map, or the file no longer exists).
type Loader func(fqn string) (table *symbol.SymbolTable, uri string, ok bool)

// nameEntry is one red-black tree leaf: every symbol sharing one exact
// name (multiple classes/functions can share a short name across
// namespaces).
type nameEntry struct {
	name    string
	symbols []*symbol.Symbol
}

// SymbolStore is the workspace-wide symbol.ClassLookup: a bounded cache
// of per-document SymbolTables, an FQN index for O(1) class/function
// lookup, and a name-ordered tree for prefix search (workspace symbol
// search, completion).
type SymbolStore struct {
	mu       sync.RWMutex
	tables   *lru.Cache[string, *symbol.SymbolTable]
	byFQN    map[string]*symbol.Symbol
	byURI    map[string][]string // uri -> FQNs it contributed, for eviction
	byName   *redblacktree.Tree  // name -> *nameEntry
	loader   Loader
}

// NewSymbolStore creates a store bounded to cacheSize tables in memory.
// loader may be nil (no cross-workspace autoload resolution — only
// documents explicitly Put will be found).
func NewSymbolStore(cacheSize int, loader Loader) *SymbolStore {
	if cacheSize <= 0 {
		cacheSize = 256
	}
	s := &SymbolStore{
		byFQN:  make(map[string]*symbol.Symbol),
		byURI:  make(map[string][]string),
		byName: redblacktree.NewWith(utils.StringComparator),
		loader: loader,
	}
	tables, _ := lru.NewWithEvict[string, *symbol.SymbolTable](cacheSize, func(uri string, _ *symbol.SymbolTable) {
		s.forget(uri)
	})
	s.tables = tables
	return s
}

// Put indexes (or re-indexes) one document's SymbolTable.
func (s *SymbolStore) Put(uri string, table *symbol.SymbolTable) {
	s.mu.Lock()
	s.removeContributionsLocked(uri)
	var fqns []string
	for _, sym := range table.All() {
		if sym.Kind.IsClassLike() || sym.Scope == "" && (sym.Kind == symkind.Function || sym.Kind == symkind.Constant) {
			fqn := symbolFQN(sym)
			s.byFQN[fqn] = sym
			s.indexNameLocked(sym)
			fqns = append(fqns, fqn)
		}
	}
	s.byURI[uri] = fqns
	s.mu.Unlock()

	s.tables.Add(uri, table)
}

// Forget evicts one document's contributions without going through the
// LRU (spec §6 `forget(uri)` — the document was deleted or closed and
// will not be reopened).
func (s *SymbolStore) Forget(uri string) {
	s.tables.Remove(uri)
	s.forget(uri)
}

func (s *SymbolStore) forget(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeContributionsLocked(uri)
}

func (s *SymbolStore) removeContributionsLocked(uri string) {
	for _, fqn := range s.byURI[uri] {
		sym, ok := s.byFQN[fqn]
		if !ok {
			continue
		}
		delete(s.byFQN, fqn)
		s.unindexNameLocked(sym)
	}
	delete(s.byURI, uri)
}

func (s *SymbolStore) indexNameLocked(sym *symbol.Symbol) {
	key := sym.Name
	if !sym.Kind.CaseSensitiveKey() {
		key = strings.ToLower(key)
	}
	node, found := s.byName.Get(key)
	var entry *nameEntry
	if found {
		entry = node.(*nameEntry)
	} else {
		entry = &nameEntry{name: key}
	}
	entry.symbols = append(entry.symbols, sym)
	s.byName.Put(key, entry)
}

func (s *SymbolStore) unindexNameLocked(sym *symbol.Symbol) {
	key := sym.Name
	if !sym.Kind.CaseSensitiveKey() {
		key = strings.ToLower(key)
	}
	node, found := s.byName.Get(key)
	if !found {
		return
	}
	entry := node.(*nameEntry)
	for i, s2 := range entry.symbols {
		if s2 == sym {
			entry.symbols = append(entry.symbols[:i], entry.symbols[i+1:]...)
			break
		}
	}
	if len(entry.symbols) == 0 {
		s.byName.Remove(key)
	} else {
		s.byName.Put(key, entry)
	}
}

func symbolFQN(sym *symbol.Symbol) string {
	if sym.Scope != "" {
		return sym.Scope + "::" + sym.Name
	}
	return sym.Name
}

// Table returns a cached document's SymbolTable, if present.
func (s *SymbolStore) Table(uri string) (*symbol.SymbolTable, bool) {
	return s.tables.Get(uri)
}

// MembersNamed scans every indexed class-like symbol's direct children
// for a Property or Method matching name (spec §6 `provideDefinition`
// on a member reference, which carries only the bare member name — see
// reference.Reader.handleMemberAccess — not a class-qualified FQN).
// Ambiguous across classes by design; callers typically present every
// match.
func (s *SymbolStore) MembersNamed(kind symkind.Kind, name string) []*symbol.Symbol {
	s.mu.RLock()
	classes := make([]*symbol.Symbol, 0, len(s.byFQN))
	for _, sym := range s.byFQN {
		if sym.Kind.IsClassLike() {
			classes = append(classes, sym)
		}
	}
	s.mu.RUnlock()

	var out []*symbol.Symbol
	for _, cls := range classes {
		for _, m := range cls.Children {
			if memberMatches(m, kind, name) {
				out = append(out, m)
			}
		}
	}
	return out
}

func memberMatches(s *symbol.Symbol, kind symkind.Kind, name string) bool {
	if s.Kind != kind {
		return false
	}
	return s.DisplayName() == name
}

// ClassSymbol implements symbol.ClassLookup, consulting the in-memory
// index first and falling back to Loader for classes belonging to
// documents never analyzed in this session.
func (s *SymbolStore) ClassSymbol(fqn string) (*symbol.Symbol, bool) {
	s.mu.RLock()
	sym, ok := s.byFQN[fqn]
	s.mu.RUnlock()
	if ok {
		return sym, true
	}
	return s.loadExternal(fqn)
}

// FunctionSymbol implements variable.MemberResolver's FunctionSymbol
// requirement, identically to ClassSymbol but for top-level functions.
func (s *SymbolStore) FunctionSymbol(fqn string) (*symbol.Symbol, bool) {
	s.mu.RLock()
	sym, ok := s.byFQN[fqn]
	s.mu.RUnlock()
	if ok {
		return sym, true
	}
	return s.loadExternal(fqn)
}

func (s *SymbolStore) loadExternal(fqn string) (*symbol.Symbol, bool) {
	if s.loader == nil {
		return nil, false
	}
	table, uri, ok := s.loader(fqn)
	if !ok || table == nil {
		return nil, false
	}
	s.Put(uri, table)
	s.mu.RLock()
	sym, found := s.byFQN[fqn]
	s.mu.RUnlock()
	return sym, found
}

// keyMatch is one byName entry (one key: the symbol's whole name,
// lowercased unless its kind is case-sensitive) that matched a
// FindByPrefix query, carried through to ranking below.
type keyMatch struct {
	key   string
	exact bool
	syms  []*symbol.Symbol
}

// FindByPrefix returns every indexed symbol whose key starts with
// prefix, compared case-insensitively. The key is the symbol's whole
// name (the FQN for class-likes and functions); no separate last-segment
// key is indexed, so `Foo` does not find `App\Foo`. Matches are ranked
// with keys equal to the query first, then by key length, shortest
// first.
func (s *SymbolStore) FindByPrefix(prefix string) []*symbol.Symbol {
	if prefix == "" {
		return s.All()
	}
	lowered := strings.ToLower(prefix)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []keyMatch
	it := s.byName.Iterator()
	for it.Next() {
		entry := it.Value().(*nameEntry)
		if !strings.HasPrefix(strings.ToLower(entry.name), lowered) && !strings.HasPrefix(entry.name, prefix) {
			continue
		}
		exact := strings.EqualFold(entry.name, prefix) || entry.name == prefix
		matches = append(matches, keyMatch{key: entry.name, exact: exact, syms: entry.symbols})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].exact != matches[j].exact {
			return matches[i].exact
		}
		if len(matches[i].key) != len(matches[j].key) {
			return len(matches[i].key) < len(matches[j].key)
		}
		return matches[i].key < matches[j].key
	})

	var out []*symbol.Symbol
	for _, m := range matches {
		out = append(out, m.syms...)
	}
	return out
}

// All returns every indexed symbol, in ascending name order.
func (s *SymbolStore) All() []*symbol.Symbol {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*symbol.Symbol
	it := s.byName.Iterator()
	for it.Next() {
		entry := it.Value().(*nameEntry)
		out = append(out, entry.symbols...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
