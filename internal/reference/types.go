// Package reference implements Reference/ReferenceTable (spec §3) and
// the ReferenceReader (spec §4.6) that builds a per-document reference
// table by walking the parse tree in lockstep with a NameResolver and a
// VariableTable.
//
// Grounded on the teacher's internal/php/context.go (refreshForNode's
// walk-up-from-a-dirty-node idiom) and internal/php/node_utils.go
// (VariableNameFromNode, memberAccessPropertyName) for leaf-level name
// extraction. The teacher never builds a reference table at all — it
// only keeps flat type maps — so the nested Scope-tree ReferenceTable
// itself is new code written in the teacher's stack-based traversal
// idiom (no recursion library, NamedChildCount/NamedChild loops).
package reference

import (
	"github.com/shinyvision/phpls/internal/symbol"
	"github.com/shinyvision/phpls/internal/symkind"
	"github.com/shinyvision/phpls/internal/typestring"
)

// Reference is one resolved name occurrence (spec §3).
type Reference struct {
	Kind     symkind.Kind
	Name     string // FQN for class-like, function and constructor references; the bare name for member, class-constant and variable references
	Location symbol.Location
	Type     typestring.TypeString
	AltName  []string // alternative identities, e.g. constructor also resolving as class
}
