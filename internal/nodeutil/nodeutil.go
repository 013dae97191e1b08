// Package nodeutil holds small tree-sitter node helpers shared by the
// symbol, variable, and reference packages, so each doesn't repeat its
// own copy of leaf-level name extraction.
//
// Grounded verbatim in spirit on the teacher's internal/php/node_utils.go
// (VariableNameFromNode, memberAccessPropertyName), generalized slightly
// (member access works for any receiver, not only `$this`).
package nodeutil

import (
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// VariableName extracts the bare identifier (without the leading `$`)
// from a variable_name / by_ref / name node.
func VariableName(node sitter.Node, content []byte) string {
	if node.IsNull() {
		return ""
	}
	switch node.Type() {
	case "variable_name":
		for i := uint32(0); i < node.NamedChildCount(); i++ {
			child := node.NamedChild(i)
			if child.Type() == "name" {
				return child.Content(content)
			}
		}
		return strings.TrimPrefix(node.Content(content), "$")
	case "by_ref":
		for i := uint32(0); i < node.NamedChildCount(); i++ {
			child := node.NamedChild(i)
			if child.Type() == "variable_name" {
				return VariableName(child, content)
			}
		}
	case "name":
		return node.Content(content)
	}
	return strings.TrimPrefix(strings.TrimSpace(node.Content(content)), "$")
}

// MemberName extracts the `name` field text of a member_access_expression
// or nullsafe_member_access_expression / scoped_call_expression, or ""
// if node isn't one of those.
func MemberName(node sitter.Node, content []byte) string {
	if node.IsNull() {
		return ""
	}
	switch node.Type() {
	case "member_access_expression", "nullsafe_member_access_expression",
		"member_call_expression", "scoped_property_access_expression",
		"scoped_call_expression", "class_constant_access_expression":
		nameNode := node.ChildByFieldName("name")
		if nameNode.IsNull() {
			return ""
		}
		return strings.TrimSpace(nameNode.Content(content))
	}
	return ""
}

// ReceiverNode returns the `object`/`scope` field of a member/scoped
// access expression — the node whose type we must resolve.
func ReceiverNode(node sitter.Node) sitter.Node {
	switch node.Type() {
	case "member_access_expression", "nullsafe_member_access_expression", "member_call_expression":
		return node.ChildByFieldName("object")
	case "scoped_property_access_expression", "scoped_call_expression", "class_constant_access_expression":
		return node.ChildByFieldName("scope")
	}
	return sitter.Node{}
}

// NormalizeFQN trims stray leading separators/backslash doubling the way
// the teacher's normalizeFQN does.
func NormalizeFQN(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, `\\`, `\`))
	name = strings.TrimLeft(name, `?\`)
	return name
}

// ShortName returns the last backslash-separated segment of a name.
func ShortName(qualified string) string {
	if i := strings.LastIndex(qualified, `\`); i >= 0 && i+1 < len(qualified) {
		return qualified[i+1:]
	}
	return qualified
}

// CommentBefore returns the text of the nearest preceding sibling
// `comment` node directly attached to node (no blank statement between),
// or "" if none.
func CommentBefore(node sitter.Node, content []byte) string {
	if node.IsNull() {
		return ""
	}
	parent := node.Parent()
	if parent.IsNull() {
		return ""
	}
	var prev sitter.Node
	for i := uint32(0); i < parent.NamedChildCount(); i++ {
		child := parent.NamedChild(i)
		if child.StartByte() == node.StartByte() && child.EndByte() == node.EndByte() {
			break
		}
		prev = child
	}
	if prev.IsNull() || prev.Type() != "comment" {
		return ""
	}
	return prev.Content(content)
}
