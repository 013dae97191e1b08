package reference

import (
	"bytes"
	"encoding/gob"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/emirpasic/gods/utils"

	"github.com/shinyvision/phpls/internal/symbol"
)

func posKey(p symbol.Position) int64 {
	return int64(p.Line)<<32 | int64(uint32(p.Character))
}

// scopeChild is either a leaf Reference or a nested Scope, keyed by its
// start position in the parent's ordered tree.
type scopeChild struct {
	ref   *Reference
	scope *Scope
}

// Scope is one node of the ReferenceTable's nested hierarchy: a range
// plus ordered children, each either a Reference or another Scope (spec
// §3 ReferenceTable). Children are kept in an emirpasic/gods red-black
// tree keyed by start offset, giving O(log n) position lookup (spec §3
// "position lookup is O(log n) via binary search on sorted ranges"),
// grounded on foursquare-scala-gazelle's ordered-tree usage.
type Scope struct {
	Range    symbol.Range
	children *redblacktree.Tree
}

func newScope(rng symbol.Range) *Scope {
	return &Scope{Range: rng, children: redblacktree.NewWith(utils.Int64Comparator)}
}

// AddReference inserts a Reference in source order.
func (s *Scope) AddReference(ref *Reference) {
	s.children.Put(posKey(ref.Location.Range.Start), scopeChild{ref: ref})
}

// AddScope inserts a nested Scope in source order and returns it.
func (s *Scope) AddScope(rng symbol.Range) *Scope {
	child := newScope(rng)
	s.children.Put(posKey(rng.Start), scopeChild{scope: child})
	return child
}

// References returns every Reference directly owned by this scope (not
// recursing into nested scopes), in source order.
func (s *Scope) References() []*Reference {
	var out []*Reference
	it := s.children.Iterator()
	for it.Next() {
		c := it.Value().(scopeChild)
		if c.ref != nil {
			out = append(out, c.ref)
		}
	}
	return out
}

// Scopes returns every directly nested Scope, in source order.
func (s *Scope) Scopes() []*Scope {
	var out []*Scope
	it := s.children.Iterator()
	for it.Next() {
		c := it.Value().(scopeChild)
		if c.scope != nil {
			out = append(out, c.scope)
		}
	}
	return out
}

// All recursively collects every Reference owned by this scope and its
// descendants.
func (s *Scope) All() []*Reference {
	out := s.References()
	for _, child := range s.Scopes() {
		out = append(out, child.All()...)
	}
	return out
}

// At returns the Reference at pos (if any), searching the innermost
// enclosing scope first, via a floor lookup on the ordered tree.
func (s *Scope) At(pos symbol.Position) *Reference {
	node, found := s.children.Floor(posKey(pos))
	if !found {
		return nil
	}
	c := node.Value.(scopeChild)
	if c.scope != nil {
		if c.scope.Range.Contains(pos) {
			if r := c.scope.At(pos); r != nil {
				return r
			}
		}
	}
	if c.ref != nil && c.ref.Location.Range.Contains(pos) {
		return c.ref
	}
	return nil
}

// gobScope is Scope's flattened wire form — its children live in an
// emirpasic/gods red-black tree, which gob cannot reach directly since
// its fields are unexported, so encoding/decoding replays the ordered
// child list instead (used by internal/cache to persist ReferenceTable).
type gobScope struct {
	Range    symbol.Range
	Refs     []*Reference
	Children []*Scope
}

func (s *Scope) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	g := gobScope{Range: s.Range, Refs: s.References(), Children: s.Scopes()}
	if err := gob.NewEncoder(&buf).Encode(g); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Scope) GobDecode(data []byte) error {
	var g gobScope
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&g); err != nil {
		return err
	}
	*s = *newScope(g.Range)
	for _, ref := range g.Refs {
		s.AddReference(ref)
	}
	for _, child := range g.Children {
		dst := s.AddScope(child.Range)
		*dst = *child
	}
	return nil
}

// ReferenceTable is the per-document hierarchy rooted at the whole file.
type ReferenceTable struct {
	URI  string
	Root *Scope
}

// NewTable creates an empty table spanning the given document range.
func NewTable(uri string, docRange symbol.Range) *ReferenceTable {
	return &ReferenceTable{URI: uri, Root: newScope(docRange)}
}

// At finds the Reference at pos, or nil.
func (t *ReferenceTable) At(pos symbol.Position) *Reference {
	if t == nil || t.Root == nil {
		return nil
	}
	return t.Root.At(pos)
}

// All returns every reference in the table.
func (t *ReferenceTable) All() []*Reference {
	if t == nil || t.Root == nil {
		return nil
	}
	return t.Root.All()
}
