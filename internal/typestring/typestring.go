// Package typestring implements TypeString (spec §3/§4.2): the
// pipe-joined union-type notation (`A|B[]|int`) used throughout the
// analysis core for declared types, PhpDoc tags, and inferred
// expression types.
//
// Grounded on the teacher's internal/php/type_analysis.go
// (collectTypeNames' union_type/nullable_type/array-suffix handling) and
// internal/php/variable_analysis.go's docblock `|`-splitting
// (parseDocblockVar), lifted into a standalone value type.
package typestring

import (
	"sort"
	"strings"

	"github.com/shinyvision/phpls/internal/resolve"
)

var primitives = map[string]bool{
	"int": true, "string": true, "bool": true, "float": true,
	"array": true, "callable": true, "mixed": true, "void": true,
	"null": true, "self": true, "static": true, "$this": true,
	"object": true, "iterable": true, "false": true, "true": true,
}

// IsPrimitive reports whether an atom name (with any `[]` suffix already
// stripped) is one of the built-in pseudo-types passed through unchanged
// by nameResolve.
func IsPrimitive(atom string) bool {
	return primitives[atom]
}

// TypeString is an immutable-by-convention set of type atoms. The zero
// value is the empty type string.
type TypeString struct {
	atoms []string // insertion order, deduplicated
}

// Empty is the canonical empty TypeString.
var Empty = TypeString{}

// IsEmpty reports whether the type string has no atoms.
func (t TypeString) IsEmpty() bool { return len(t.atoms) == 0 }

// New builds a TypeString from already-split atom names.
func New(atoms ...string) TypeString {
	var t TypeString
	for _, a := range atoms {
		t = t.add(a)
	}
	return t
}

// Parse splits source text on `|` into atoms, e.g. "A|B[]|int". Each
// atom keeps its own `[]` suffix (possibly repeated for nested arrays).
func Parse(text string) TypeString {
	text = strings.TrimSpace(text)
	if text == "" {
		return Empty
	}
	var t TypeString
	for _, part := range strings.Split(text, "|") {
		part = strings.TrimSpace(part)
		part = strings.TrimPrefix(part, "?")
		if part == "" {
			continue
		}
		if part == "null" {
			t = t.add("null")
			continue
		}
		t = t.add(part)
	}
	return t
}

func (t TypeString) add(atom string) TypeString {
	for _, a := range t.atoms {
		if a == atom {
			return t
		}
	}
	out := TypeString{atoms: make([]string, len(t.atoms), len(t.atoms)+1)}
	copy(out.atoms, t.atoms)
	out.atoms = append(out.atoms, atom)
	return out
}

// Merge returns the set-union of the atoms of t and other. Commutative,
// associative, idempotent (spec §8 invariant 4).
func (t TypeString) Merge(other TypeString) TypeString {
	out := t
	for _, a := range other.atoms {
		out = out.add(a)
	}
	return out
}

// Atoms returns the atoms in insertion order.
func (t TypeString) Atoms() []string {
	out := make([]string, len(t.atoms))
	copy(out, t.atoms)
	return out
}

// baseAndDepth splits an atom into its bare name and its `[]` nesting depth.
func baseAndDepth(atom string) (string, int) {
	depth := 0
	for strings.HasSuffix(atom, "[]") {
		atom = strings.TrimSuffix(atom, "[]")
		depth++
	}
	return atom, depth
}

// AtomicClassArray returns the class-like atoms only (primitives and
// `null` excluded), with any array-suffix stripped (spec §4.2
// `atomicClassArray`).
func (t TypeString) AtomicClassArray() []string {
	var out []string
	seen := map[string]bool{}
	for _, a := range t.atoms {
		base, _ := baseAndDepth(a)
		if IsPrimitive(base) || base == "" {
			continue
		}
		if !seen[base] {
			seen[base] = true
			out = append(out, base)
		}
	}
	return out
}

// ArrayDereference strips one level of `[]` from every atom that has
// one; `array` and `iterable` become `mixed` (an element type could
// not be determined), and any other atom with no `[]` suffix is
// dropped. Each call removes one level, so dereferencing twice yields
// two fewer levels than the original when applicable.
func (t TypeString) ArrayDereference() TypeString {
	var out TypeString
	for _, a := range t.atoms {
		if strings.HasSuffix(a, "[]") {
			out = out.add(strings.TrimSuffix(a, "[]"))
		} else if a == "array" || a == "iterable" {
			out = out.add("mixed")
		}
	}
	return out
}

// NameResolve replaces every unqualified class-like atom with its FQN via
// the given resolver; primitive atoms and already-FQN atoms (leading
// `\`) pass through unchanged, except self/static/$this which the
// resolver substitutes with the enclosing class FQN when one is known.
func (t TypeString) NameResolve(r *resolve.NameResolver) TypeString {
	var out TypeString
	for _, a := range t.atoms {
		base, depth := baseAndDepth(a)
		resolved := base
		switch {
		case IsPrimitive(base):
			switch base {
			case "self", "static", "$this":
				resolved = r.ResolveNotFullyQualified(base, 0)
			default:
				resolved = base
			}
		case strings.HasPrefix(base, `\`):
			resolved = base
		default:
			resolved = r.ResolveNotFullyQualified(base, 0)
		}
		for i := 0; i < depth; i++ {
			resolved += "[]"
		}
		out = out.add(resolved)
	}
	return out
}

// String renders the canonical pipe-joined form, atoms sorted for a
// stable serialization (comparison ignores order, but a canonical form
// needs one to compare by string equality in tests and caches).
func (t TypeString) String() string {
	if len(t.atoms) == 0 {
		return ""
	}
	sorted := make([]string, len(t.atoms))
	copy(sorted, t.atoms)
	sort.Strings(sorted)
	return strings.Join(sorted, "|")
}

// Equal reports set-equality of atoms, ignoring order.
func (t TypeString) Equal(other TypeString) bool {
	return t.String() == other.String()
}

// GobEncode/GobDecode let TypeString round-trip through encoding/gob
// despite its backing slice being unexported — the persisted cache
// (internal/cache) stores whole Symbol/Reference trees this way.
func (t TypeString) GobEncode() ([]byte, error) {
	return []byte(strings.Join(t.atoms, "|")), nil
}

func (t *TypeString) GobDecode(data []byte) error {
	*t = Parse(string(data))
	return nil
}
