package symbol

import (
	"github.com/shinyvision/phpls/internal/resolve"
	"github.com/shinyvision/phpls/internal/symkind"
)

// SymbolTable is the per-document tree of symbols (spec §3).
type SymbolTable struct {
	URI  string
	Hash string
	Root *Symbol
}

// NewTable creates an empty table rooted at a File symbol.
func NewTable(uri, hash string) *SymbolTable {
	return &SymbolTable{
		URI:  uri,
		Hash: hash,
		Root: &Symbol{Kind: symkind.File, Name: uri},
	}
}

// All performs a linear scan of every symbol in the table, root included.
func (t *SymbolTable) All() []*Symbol {
	if t == nil || t.Root == nil {
		return nil
	}
	var out []*Symbol
	var walk func(*Symbol)
	walk = func(s *Symbol) {
		out = append(out, s)
		for _, c := range s.Children {
			walk(c)
		}
	}
	walk(t.Root)
	return out
}

// At returns the innermost symbol whose location range contains pos
// (spec §4.3 "Position-indexed lookup"), or nil if none does.
func (t *SymbolTable) At(pos Position) *Symbol {
	if t == nil || t.Root == nil {
		return nil
	}
	best := (*Symbol)(nil)
	var walk func(*Symbol)
	walk = func(s *Symbol) {
		if s.HasLocation && !s.Location.Range.Contains(pos) && s != t.Root {
			return
		}
		if s.HasLocation {
			best = s
		}
		for _, c := range s.Children {
			walk(c)
		}
	}
	walk(t.Root)
	return best
}

// NameResolverAt reconstructs the NameResolver state lexically visible at
// pos: the namespace in effect and every namespace-use rule declared
// before pos (spec §4.3 "nameResolver(pos)").
func (t *SymbolTable) NameResolverAt(pos Position) *resolve.NameResolver {
	r := resolve.New("")
	if t == nil || t.Root == nil {
		return r
	}
	for _, child := range t.Root.Children {
		if child.HasLocation && pos.Before(child.Location.Range.Start) {
			continue
		}
		switch {
		case child.Kind == symkind.Namespace:
			r.SetNamespace(child.Name)
			for _, inner := range child.Children {
				if inner.Modifiers.Has(symkind.Use) && len(inner.Associated) > 0 && !(inner.HasLocation && pos.Before(inner.Location.Range.Start)) {
					r.AddRule(inner.Associated[0].Kind, inner.Name, inner.Associated[0].FQN)
				}
			}
		case child.Modifiers.Has(symkind.Use) && len(child.Associated) > 0:
			target := child.Associated[0]
			r.AddRule(target.Kind, child.Name, target.FQN)
		}
	}
	return r
}
