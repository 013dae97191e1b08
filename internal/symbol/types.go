// Package symbol implements the Symbol/SymbolTable data model (spec §3),
// the SymbolReader that builds a SymbolTable from a parse tree
// (spec §4.3), and TypeAggregate (spec §4.4).
//
// Grounded on the teacher's internal/php/class_analysis.go
// (classInfoFromNode's FQN construction), internal/php/context.go
// (functionInfoFromMethod, buildMethodMetadata/collectAncestorClasses),
// internal/php/property_analysis.go (property/promoted-property
// declarations), and internal/php/type_analysis.go (addUseClause's
// alias/last-segment naming rule) — generalized from the teacher's flat
// per-kind collectors into one scope-stack visitor producing a single
// owned symbol tree, per spec §4.3.
package symbol

import (
	"github.com/shinyvision/phpls/internal/phpdoc"
	"github.com/shinyvision/phpls/internal/symkind"
	"github.com/shinyvision/phpls/internal/typestring"
)

// Position is zero-based (line, character), UTF-16 code units per §6.
type Position struct {
	Line      int
	Character int
}

func (p Position) Before(o Position) bool {
	return p.Line < o.Line || (p.Line == o.Line && p.Character < o.Character)
}

func (p Position) After(o Position) bool { return o.Before(p) }

// Range is half-open on the end (spec §6 "Positions").
type Range struct {
	Start Position
	End   Position
}

// Contains reports whether pos lies within [Start, End).
func (r Range) Contains(pos Position) bool {
	return !pos.Before(r.Start) && pos.Before(r.End)
}

// ContainsRange reports whether other is nested within r.
func (r Range) ContainsRange(other Range) bool {
	return !other.Start.Before(r.Start) && !r.End.Before(other.End)
}

// Location is a range inside one document.
type Location struct {
	URI   string
	Range Range
}

// Assoc is a weak reference by FQN+kind — imports/extends/implements/uses
// (spec §3 Symbol.associated).
type Assoc struct {
	Kind symkind.Kind
	FQN  string
}

// Symbol is one declared or synthetic entity (spec §3).
type Symbol struct {
	Kind        symkind.Kind
	Name        string
	Modifiers   symkind.Modifier
	Type        typestring.TypeString
	Location    Location
	HasLocation bool
	Scope       string // enclosing class FQN, if any
	Value       string
	Doc         phpdoc.Doc
	Associated  []Assoc
	Children    []*Symbol
}

// DisplayName strips the `$` marker from instance property names,
// keeping it for static properties per spec §3's invariant.
func (s *Symbol) DisplayName() string {
	if s.Kind == symkind.Property && !s.Modifiers.Has(symkind.Static) {
		if len(s.Name) > 0 && s.Name[0] == '$' {
			return s.Name[1:]
		}
	}
	return s.Name
}
