package syntax

import "sort"

// Span is a half-open range of byte offsets into a module's source.
type Span struct {
	Lo int
	Hi int
}

// Pos returns the span itself so that every node embedding Span satisfies Node.
func (s Span) Pos() Span { return s }

// Text returns the source text covered by the span.
func (s Span) Text(src []byte) string {
	if s.Lo < 0 || s.Hi > len(src) || s.Lo > s.Hi {
		return ""
	}
	return string(src[s.Lo:s.Hi])
}

// Node is implemented by every syntax node.
type Node interface {
	Pos() Span
}

// Position is a human-readable source location.
// Line is 1-based, Col is a 0-based byte column.
type Position struct {
	Line int
	Col  int
}

// Module is a parsed source file.
type Module struct {
	Path   string
	Source []byte
	Body   []Stmt

	lineStarts []int
}

// NewModule creates a module and indexes its line starts.
func NewModule(path string, source []byte, body []Stmt) *Module {
	m := &Module{
		Path:   path,
		Source: source,
		Body:   body,
	}
	m.lineStarts = append(m.lineStarts, 0)
	for i, b := range source {
		if b == '\n' {
			m.lineStarts = append(m.lineStarts, i+1)
		}
	}
	return m
}

// Position converts a byte offset into a line/column pair.
func (m *Module) Position(offset int) Position {
	if len(m.lineStarts) == 0 {
		return Position{Line: 1, Col: offset}
	}
	// index of the last line start <= offset
	i := sort.Search(len(m.lineStarts), func(i int) bool {
		return m.lineStarts[i] > offset
	}) - 1
	if i < 0 {
		i = 0
	}
	return Position{Line: i + 1, Col: offset - m.lineStarts[i]}
}

// Text returns the source text of a node.
func (m *Module) Text(n Node) string {
	if n == nil {
		return ""
	}
	return n.Pos().Text(m.Source)
}
