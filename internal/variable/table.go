// Package variable implements VariableTable and ExpressionTypeResolver
// (spec §3/§4.5): the flow-sensitive variable→type map with scope/branch
// frames, and the recursive expression-to-TypeString evaluator built on
// top of it.
//
// Grounded on the teacher's internal/php/variable_analysis.go
// (collectVariableTypesForFunction's per-function `map[string][]TypeOccurrence`
// and inferExpressionTypeNames' expression-type switch). The teacher's
// flat per-function map has no branch-sensitivity (no if/instanceof
// narrowing); here it becomes the spec's scope/branch frame stack because
// SPEC_FULL's scenario S3 requires `instanceof` narrowing inside an `if`.
package variable

import "github.com/shinyvision/phpls/internal/typestring"

type frameKind int

const (
	scopeFrame frameKind = iota
	branchFrame
)

type frame struct {
	kind     frameKind
	vars     map[string]typestring.TypeString
	branches []*frame
}

func newFrame(kind frameKind) *frame {
	return &frame{kind: kind, vars: make(map[string]typestring.TypeString)}
}

// Table is a stack of scope/branch frames (spec §3 VariableTable).
type Table struct {
	stack []*frame
}

// New creates a VariableTable with one open Scope frame (e.g. a
// function or method body).
func New() *Table {
	t := &Table{}
	t.PushScope()
	return t
}

func (t *Table) top() *frame {
	if len(t.stack) == 0 {
		return nil
	}
	return t.stack[len(t.stack)-1]
}

// PushScope opens a new, isolated variable scope (function, method,
// closure, or class-body-for-statics).
func (t *Table) PushScope() {
	t.stack = append(t.stack, newFrame(scopeFrame))
}

// PopScope closes the innermost scope, discarding its bindings.
func (t *Table) PopScope() {
	if len(t.stack) > 0 {
		t.stack = t.stack[:len(t.stack)-1]
	}
}

// PushBranch appends a new Branch frame to the current frame's branches
// and makes it the stack top (spec §3 `pushBranch`). Successive branches
// of the same if/elseif/elseif/else chain are pushed and popped in turn
// without a PruneBranches call in between, so they all attach as
// *siblings* of the same parent frame — the reading of §9's open
// question this implementation follows.
func (t *Table) PushBranch() {
	parent := t.top()
	if parent == nil {
		t.PushScope()
		parent = t.top()
	}
	b := newFrame(branchFrame)
	parent.branches = append(parent.branches, b)
	t.stack = append(t.stack, b)
}

// PopBranch closes the innermost branch frame, returning to its parent.
// The branch's bindings remain recorded on the parent's `branches` list
// until PruneBranches commits them.
func (t *Table) PopBranch() {
	if len(t.stack) > 0 {
		t.stack = t.stack[:len(t.stack)-1]
	}
}

// PruneBranches merges every branch recorded on the current frame into
// it, taking the union of observed types per variable, then clears the
// branch list (spec §3 `pruneBranches`).
func (t *Table) PruneBranches() {
	cur := t.top()
	if cur == nil {
		return
	}
	for _, b := range cur.branches {
		for name, typ := range b.vars {
			cur.vars[name] = cur.vars[name].Merge(typ)
		}
	}
	cur.branches = nil
}

// SetType records the type of a variable assignment on the top frame.
func (t *Table) SetType(name string, typ typestring.TypeString) {
	top := t.top()
	if top == nil {
		return
	}
	top.vars[name] = typ
}

// GetType searches top-down, stopping at (but including) the nearest
// Scope frame — a narrower closure/function scope never sees an outer
// scope's locals.
func (t *Table) GetType(name string) typestring.TypeString {
	for i := len(t.stack) - 1; i >= 0; i-- {
		f := t.stack[i]
		if typ, ok := f.vars[name]; ok {
			return typ
		}
		if f.kind == scopeFrame {
			break
		}
	}
	return typestring.Empty
}
