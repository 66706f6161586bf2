package doc

import (
	"github.com/mvp-joe/tsdoc/internal/jsdoc"
	"github.com/mvp-joe/tsdoc/internal/symbols"
	"github.com/mvp-joe/tsdoc/internal/syntax"
	"github.com/mvp-joe/tsdoc/internal/variable"
)

// Options controls which declarations are documented.
type Options struct {
	// Private includes declarations that are neither exported nor ambient.
	Private bool
}

// Generator produces documentation nodes for modules.
type Generator struct {
	opts Options
}

// NewGenerator creates a generator.
func NewGenerator(opts Options) *Generator {
	return &Generator{opts: opts}
}

// Generate documents every top-level variable binding of the module in
// source order.
func (g *Generator) Generate(info *symbols.ModuleInfo) []Node {
	mod := info.Module()
	if mod == nil {
		return nil
	}

	var nodes []Node
	for _, stmt := range mod.Body {
		declKind := DeclarationPrivate
		raw := ""
		if exp, ok := stmt.(*syntax.ExportDecl); ok {
			declKind = DeclarationExport
			raw = exp.JSDoc
		}
		decl, ok := syntax.Unwrap(stmt).(*syntax.VarDecl)
		if !ok {
			continue
		}
		if decl.Declare && declKind != DeclarationExport {
			declKind = DeclarationDeclare
		}
		if declKind == DeclarationPrivate && !g.opts.Private {
			continue
		}
		if decl.JSDoc != "" {
			raw = decl.JSDoc
		}
		doc := jsdoc.Parse(raw)

		for _, d := range decl.Decls {
			pos := mod.Position(d.Lo)
			for _, b := range variable.Extract(info, decl, d) {
				def := b.Def
				nodes = append(nodes, Node{
					Name: b.Name,
					Kind: NodeKindVariable,
					Location: Location{
						Filename:  mod.Path,
						Line:      pos.Line,
						Col:       pos.Col,
						ByteIndex: d.Lo,
					},
					DeclarationKind: declKind,
					JSDoc:           doc,
					VariableDef:     &def,
				})
			}
		}
	}
	return nodes
}

// PublicOnly returns the nodes that are visible outside their module.
func PublicOnly(nodes []Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if n.DeclarationKind != DeclarationPrivate {
			out = append(out, n)
		}
	}
	return out
}
