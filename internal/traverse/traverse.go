// Package traverse implements ParseTreeTraverser (spec §2 row 1): the
// pre/post-order walk, spine, and ancestor/child search used by every
// higher component (SymbolReader, ReferenceReader, completion
// strategies) instead of each repeating its own tree-sitter walk.
//
// Grounded directly on the teacher's own tree-sitter usage —
// internal/php/document.go's GetNodeAt (NamedDescendantForPointRange)
// and the stack-based `stack := []sitter.Node{root}` walk repeated in
// internal/php/class_analysis.go, internal/php/type_analysis.go, and
// internal/php/context.go — lifted here into one reusable type instead
// of being copy-pasted into every visitor.
package traverse

import (
	"context"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// Traverser wraps a parsed tree and its source bytes for position
// lookups and structural walks. It never owns the tree (the document
// does, per spec §9 "Parse tree ownership") and is cheap to construct.
type Traverser struct {
	Tree    *sitter.Tree
	Content []byte
}

// New wraps a tree and its backing content.
func New(tree *sitter.Tree, content []byte) Traverser {
	return Traverser{Tree: tree, Content: content}
}

// Root returns the tree's root node, or the zero Node if there is none.
func (t Traverser) Root() sitter.Node {
	if t.Tree == nil {
		return sitter.Node{}
	}
	return t.Tree.RootNode()
}

// DescendantAt returns the innermost named node containing point.
func (t Traverser) DescendantAt(point sitter.Point) (sitter.Node, bool) {
	root := t.Root()
	if root.IsNull() {
		return sitter.Node{}, false
	}
	node := root.NamedDescendantForPointRange(point, point)
	if node.IsNull() {
		return sitter.Node{}, false
	}
	return node, true
}

// Spine returns the ancestor chain from node up to (and including) the
// root, innermost first. Per spec §9, this is just a slice of the
// tree's own cheap node handles, not a cloned subtree.
func (t Traverser) Spine(node sitter.Node) []sitter.Node {
	var spine []sitter.Node
	for cur := node; !cur.IsNull(); cur = cur.Parent() {
		spine = append(spine, cur)
	}
	return spine
}

// AncestorOfType returns the nearest ancestor (inclusive of node itself)
// whose Type() is one of the given types.
func (t Traverser) AncestorOfType(node sitter.Node, types ...string) (sitter.Node, bool) {
	for cur := node; !cur.IsNull(); cur = cur.Parent() {
		for _, ty := range types {
			if cur.Type() == ty {
				return cur, true
			}
		}
	}
	return sitter.Node{}, false
}

// ChildrenOfType returns the named children of node whose Type() matches
// one of the given types, in source order.
func (t Traverser) ChildrenOfType(node sitter.Node, types ...string) []sitter.Node {
	var out []sitter.Node
	for i := uint32(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		for _, ty := range types {
			if child.Type() == ty {
				out = append(out, child)
				break
			}
		}
	}
	return out
}

// VisitFunc is called for every node during a Preorder/Postorder walk.
// Returning false from a Preorder visit skips that node's subtree.
type VisitFunc func(node sitter.Node) bool

// Preorder walks node and its descendants, stack-based exactly as the
// teacher's per-file walks do, checking ctx between pops so long
// traversals are cancellable (spec §5 "visitors check it between
// nodes"). Returning false from visit prunes that subtree.
func Preorder(ctx context.Context, root sitter.Node, visit VisitFunc) {
	if root.IsNull() {
		return
	}
	stack := []sitter.Node{root}
	for len(stack) > 0 {
		select {
		case <-ctx.Done():
			return
		default:
		}
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !visit(node) {
			continue
		}
		for i := int(node.NamedChildCount()) - 1; i >= 0; i-- {
			stack = append(stack, node.NamedChild(uint32(i)))
		}
	}
}

// Postorder walks node and its descendants, invoking visit after all of
// a node's children have been visited.
func Postorder(ctx context.Context, root sitter.Node, visit VisitFunc) {
	if root.IsNull() {
		return
	}
	type frame struct {
		node    sitter.Node
		visited bool
	}
	stack := []frame{{node: root}}
	for len(stack) > 0 {
		select {
		case <-ctx.Done():
			return
		default:
		}
		top := &stack[len(stack)-1]
		if top.visited {
			visit(top.node)
			stack = stack[:len(stack)-1]
			continue
		}
		top.visited = true
		node := top.node
		for i := int(node.NamedChildCount()) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: node.NamedChild(uint32(i))})
		}
	}
}
