package symbol

import "github.com/shinyvision/phpls/internal/symkind"

// ClassLookup resolves a class-like FQN to its declaring Symbol,
// regardless of which document's SymbolTable owns it. SymbolStore
// implements this (spec §4.4 operates across the whole workspace, not
// just one document).
type ClassLookup interface {
	ClassSymbol(fqn string) (*Symbol, bool)
}

// MergePolicy selects how TypeAggregate resolves members that appear at
// more than one tier of the closure (spec §4.4).
type MergePolicy int

const (
	// None returns every member from every tier, including shadowed
	// duplicates.
	None MergePolicy = iota
	// Documented keeps the first occurrence per (kind,name); later
	// occurrences contribute documentation only if the winner has none.
	Documented
	// Override keeps only the first occurrence per (kind,name).
	Override
)

// Member pairs a merged member with the FQN of the class tier it came
// from, needed for visibility filtering relative to the caller's class
// context.
type Member struct {
	Symbol *Symbol
	Owner  string
}

// Closure computes the transitive closure over a class's `associated`
// extends/implements/uses edges, ordered self → base chain → interfaces
// → traits, with cycle protection via a visited-FQN set (spec §4.4,
// grounded on the teacher's class_analysis.go collectAllAncestors /
// context.go collectAncestorClasses BFS-with-visited idiom).
func Closure(lookup ClassLookup, fqn string) []*Symbol {
	visited := map[string]bool{}
	var bases, ifaces, traits []*Symbol
	self, ok := lookup.ClassSymbol(fqn)
	if !ok {
		return nil
	}
	visited[fqn] = true

	var walkBases func(sym *Symbol)
	walkBases = func(sym *Symbol) {
		for _, a := range sym.Associated {
			if a.Kind != symkind.Class || visited[a.FQN] {
				continue
			}
			visited[a.FQN] = true
			base, ok := lookup.ClassSymbol(a.FQN)
			if !ok {
				continue
			}
			bases = append(bases, base)
			walkBases(base)
		}
	}
	walkBases(self)

	tiers := append([]*Symbol{self}, bases...)
	var walkIfaces func(sym *Symbol)
	walkIfaces = func(sym *Symbol) {
		for _, a := range sym.Associated {
			if a.Kind != symkind.Interface || visited[a.FQN] {
				continue
			}
			visited[a.FQN] = true
			iface, ok := lookup.ClassSymbol(a.FQN)
			if !ok {
				continue
			}
			ifaces = append(ifaces, iface)
			walkIfaces(iface)
		}
	}
	for _, t := range tiers {
		walkIfaces(t)
	}

	var walkTraits func(sym *Symbol)
	walkTraits = func(sym *Symbol) {
		for _, a := range sym.Associated {
			if a.Kind != symkind.Trait || visited[a.FQN] {
				continue
			}
			visited[a.FQN] = true
			trait, ok := lookup.ClassSymbol(a.FQN)
			if !ok {
				continue
			}
			traits = append(traits, trait)
			walkTraits(trait)
		}
	}
	for _, t := range tiers {
		walkTraits(t)
	}

	out := append([]*Symbol{}, tiers...)
	out = append(out, ifaces...)
	out = append(out, traits...)
	return out
}

func memberKey(s *Symbol) string { return s.Kind.String() + "#" + s.Name }

// Members flattens the member (Property/Method/ClassConstant/Constructor) children of
// every tier of closure according to policy.
func Members(closure []*Symbol, policy MergePolicy) []Member {
	var out []Member
	seen := map[string]int{} // memberKey -> index in out, for Documented/Override
	for _, tier := range closure {
		for _, child := range tier.Children {
			switch child.Kind {
			case symkind.Property, symkind.Method, symkind.ClassConstant, symkind.Constructor:
			default:
				continue
			}
			key := memberKey(child)
			if idx, ok := seen[key]; ok {
				switch policy {
				case None:
					out = append(out, Member{Symbol: child, Owner: tier.Name})
				case Documented:
					if out[idx].Symbol.Doc.Summary == "" && len(out[idx].Symbol.Doc.Tags) == 0 {
						out[idx].Symbol.Doc = child.Doc
					}
				case Override:
					// discard later occurrence
				}
				continue
			}
			seen[key] = len(out)
			out = append(out, Member{Symbol: child, Owner: tier.Name})
		}
	}
	return out
}

// FilterVisibility drops members not visible from callerClass (spec
// §4.4): from the owning class all are visible; from a subclass Private
// is hidden; from anywhere else both Private and Protected are hidden.
// isSubclass reports whether callerClass derives from member.Owner.
func FilterVisibility(members []Member, callerClass string, isSubclass func(owner, caller string) bool) []Member {
	var out []Member
	for _, m := range members {
		switch {
		case m.Owner == callerClass:
			out = append(out, m)
		case m.Symbol.Modifiers.Has(symkind.Private):
			continue
		case m.Symbol.Modifiers.Has(symkind.Protected):
			if isSubclass != nil && isSubclass(m.Owner, callerClass) {
				out = append(out, m)
			}
		default:
			out = append(out, m)
		}
	}
	return out
}
