// Package doc turns parsed modules into documentation nodes.
package doc

import (
	"github.com/mvp-joe/tsdoc/internal/jsdoc"
	"github.com/mvp-joe/tsdoc/internal/variable"
)

// NodeKind is the kind of documented symbol.
type NodeKind string

const (
	NodeKindVariable NodeKind = "variable"
)

// DeclarationKind describes how a symbol is visible outside its module.
type DeclarationKind string

const (
	DeclarationExport  DeclarationKind = "export"
	DeclarationPrivate DeclarationKind = "private"
	DeclarationDeclare DeclarationKind = "declare"
)

// Location is where a documented binding is declared. Line is 1-based,
// Col is a 0-based byte column.
type Location struct {
	Filename  string `json:"filename"`
	Line      int    `json:"line"`
	Col       int    `json:"col"`
	ByteIndex int    `json:"byteIndex"`
}

// Node is the documentation of a single bound name.
type Node struct {
	Name            string                `json:"name"`
	Kind            NodeKind              `json:"kind"`
	Location        Location              `json:"location"`
	DeclarationKind DeclarationKind       `json:"declarationKind"`
	JSDoc           *jsdoc.JSDoc          `json:"jsDoc,omitempty"`
	VariableDef     *variable.VariableDef `json:"variableDef,omitempty"`
}

// TypeRepr returns the printed type of a variable node, or "" when unknown.
func (n *Node) TypeRepr() string {
	if n.VariableDef == nil || n.VariableDef.TSType == nil {
		return ""
	}
	return n.VariableDef.TSType.String()
}

// FileDocs is the documentation extracted from one source file.
type FileDocs struct {
	// Path is relative to the project root, with forward slashes.
	Path string `json:"path"`
	// Hash is the hex SHA-256 of the file contents.
	Hash  string `json:"hash"`
	Nodes []Node `json:"nodes"`
}
