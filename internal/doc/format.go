package doc

import (
	"fmt"
	"io"
	"strings"

	"github.com/mvp-joe/tsdoc/internal/jsdoc"
)

// FormatText writes nodes as plain text, one block per node:
//
//	Defined in a.ts:3:6
//
//	const port: number
//	  The port to listen on.
func FormatText(w io.Writer, nodes []Node) error {
	for i := range nodes {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, formatNode(&nodes[i])); err != nil {
			return err
		}
	}
	return nil
}

func formatNode(n *Node) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Defined in %s:%d:%d\n\n", n.Location.Filename, n.Location.Line, n.Location.Col))
	sb.WriteString(Signature(n))
	sb.WriteString("\n")

	if n.JSDoc != nil {
		if n.JSDoc.Doc != "" {
			writeIndented(&sb, n.JSDoc.Doc)
		}
		for _, tag := range n.JSDoc.Tags {
			writeIndented(&sb, formatTag(tag))
		}
	}
	return sb.String()
}

// Signature renders the declaration line of a node, e.g. `const x: number`.
func Signature(n *Node) string {
	var sb strings.Builder
	switch n.DeclarationKind {
	case DeclarationExport:
		sb.WriteString("export ")
	case DeclarationDeclare:
		sb.WriteString("declare ")
	}
	if n.VariableDef != nil {
		sb.WriteString(n.VariableDef.Kind.String())
		sb.WriteString(" ")
	}
	sb.WriteString(n.Name)
	if repr := n.TypeRepr(); repr != "" {
		sb.WriteString(": ")
		sb.WriteString(repr)
	}
	return sb.String()
}

func formatTag(tag jsdoc.Tag) string {
	switch tag.Kind {
	case jsdoc.TagUnsupported:
		return tag.Value
	case jsdoc.TagType:
		return "@type {" + tag.Value + "}"
	}
	if tag.Value == "" {
		return "@" + string(tag.Kind)
	}
	if tag.Kind == jsdoc.TagExample {
		return "@example\n" + tag.Value
	}
	return "@" + string(tag.Kind) + " " + tag.Value
}

func writeIndented(sb *strings.Builder, text string) {
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			sb.WriteString("\n")
			continue
		}
		sb.WriteString("  ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
}
