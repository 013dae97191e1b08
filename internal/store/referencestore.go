package store

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/shinyvision/phpls/internal/reference"
)

// ReferenceStore is the workspace-wide find-references index: a bounded
// cache of per-document ReferenceTables plus an inverted FQN index built
// from them, grounded the same way as SymbolStore on the teacher's
// bounded document cache (internal/php/document_store.go), generalized
// per spec §4.8 "find all references to a symbol across the workspace".
type ReferenceStore struct {
	tables *lru.Cache[string, *reference.ReferenceTable]
	byFQN  map[string][]*reference.Reference
	byURI  map[string][]string
}

// NewReferenceStore creates a store bounded to cacheSize tables in memory.
func NewReferenceStore(cacheSize int) *ReferenceStore {
	if cacheSize <= 0 {
		cacheSize = 256
	}
	s := &ReferenceStore{
		byFQN: make(map[string][]*reference.Reference),
		byURI: make(map[string][]string),
	}
	tables, _ := lru.NewWithEvict[string, *reference.ReferenceTable](cacheSize, func(uri string, _ *reference.ReferenceTable) {
		s.forget(uri)
	})
	s.tables = tables
	return s
}

// Put indexes (or re-indexes) one document's ReferenceTable.
func (s *ReferenceStore) Put(uri string, table *reference.ReferenceTable) {
	s.forget(uri)
	var fqns []string
	for _, ref := range table.All() {
		s.byFQN[ref.Name] = append(s.byFQN[ref.Name], ref)
		fqns = append(fqns, ref.Name)
	}
	s.byURI[uri] = fqns
	s.tables.Add(uri, table)
}

// Forget evicts one document's contributions.
func (s *ReferenceStore) Forget(uri string) {
	s.tables.Remove(uri)
	s.forget(uri)
}

func (s *ReferenceStore) forget(uri string) {
	for _, fqn := range s.byURI[uri] {
		refs := s.byFQN[fqn]
		kept := refs[:0]
		for _, r := range refs {
			if r.Location.URI != uri {
				kept = append(kept, r)
			}
		}
		if len(kept) == 0 {
			delete(s.byFQN, fqn)
		} else {
			s.byFQN[fqn] = kept
		}
	}
	delete(s.byURI, uri)
}

// Table returns a cached document's ReferenceTable, if present.
func (s *ReferenceStore) Table(uri string) (*reference.ReferenceTable, bool) {
	return s.tables.Get(uri)
}

// FindReferences returns every known reference resolving to fqn,
// across every document the store has indexed (spec §6
// `provideReferences`). It also matches references whose AltName
// contains fqn (e.g. a constructor call also
// referencing its class).
func (s *ReferenceStore) FindReferences(fqn string) []*reference.Reference {
	out := append([]*reference.Reference(nil), s.byFQN[fqn]...)
	for name, refs := range s.byFQN {
		if name == fqn {
			continue
		}
		for _, r := range refs {
			for _, alt := range r.AltName {
				if alt == fqn {
					out = append(out, r)
				}
			}
		}
	}
	return out
}
