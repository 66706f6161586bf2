package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/tsdoc/internal/syntax"
)

// nodeText extracts the text content of a tree-sitter node.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// spanOf converts a node's byte range into a syntax span.
func spanOf(node *sitter.Node) syntax.Span {
	if node == nil {
		return syntax.Span{}
	}
	return syntax.Span{Lo: int(node.StartByte()), Hi: int(node.EndByte())}
}

// namedChildren returns the named children of node, skipping comments.
func namedChildren(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	var results []*sitter.Node
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(uint(i))
		if child == nil || child.Kind() == "comment" {
			continue
		}
		results = append(results, child)
	}
	return results
}

// firstNamedChild returns the first named, non-comment child of node.
func firstNamedChild(node *sitter.Node) *sitter.Node {
	if children := namedChildren(node); len(children) > 0 {
		return children[0]
	}
	return nil
}

// findChildByType finds the first child node with the given type.
func findChildByType(node *sitter.Node, nodeType string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child != nil && child.Kind() == nodeType {
			return child
		}
	}
	return nil
}

// hasToken reports whether node has a direct anonymous child with the given text.
func hasToken(node *sitter.Node, token string) bool {
	if node == nil {
		return false
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child != nil && !child.IsNamed() && child.Kind() == token {
			return true
		}
	}
	return false
}

// sequence lowers a comma separated list that may contain holes, such as an
// array literal or array pattern. A nil entry marks a hole; a trailing comma
// does not add one.
func sequence[T any](node *sitter.Node, lower func(*sitter.Node) T) []T {
	var (
		out     []T
		cur     T
		hasCur  bool
		zero    T
		started bool
	)
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child == nil {
			continue
		}
		switch {
		case child.Kind() == "comment":
		case !child.IsNamed() && child.Kind() == "[":
			started = true
		case !child.IsNamed() && child.Kind() == ",":
			if hasCur {
				out = append(out, cur)
			} else {
				out = append(out, zero)
			}
			cur, hasCur = zero, false
		case !child.IsNamed() && child.Kind() == "]":
			if hasCur {
				out = append(out, cur)
			}
			cur, hasCur = zero, false
		case child.IsNamed() && started:
			cur, hasCur = lower(child), true
		}
	}
	return out
}

// collapse joins whitespace runs so multi-line source reads as one line.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
