package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/tsdoc/internal/syntax"
)

func (l *lowerer) pat(n *sitter.Node) syntax.Pat {
	if n == nil {
		return &syntax.InvalidPat{}
	}
	switch n.Kind() {
	case "identifier", "this", "shorthand_property_identifier_pattern":
		return &syntax.IdentPat{Span: spanOf(n), Ident: l.ident(n)}
	case "object_pattern":
		return l.objectPat(n)
	case "array_pattern":
		return l.arrayPat(n)
	case "rest_pattern":
		return &syntax.RestPat{Span: spanOf(n), Arg: l.pat(firstNamedChild(n))}
	case "assignment_pattern":
		return &syntax.AssignPat{
			Span:  spanOf(n),
			Left:  l.pat(n.ChildByFieldName("left")),
			Right: l.expr(n.ChildByFieldName("right")),
		}
	}
	return &syntax.InvalidPat{Span: spanOf(n)}
}

// objectPat lowers `{ ... }`. Properties after a rest element only occur in
// erroneous source and are dropped.
func (l *lowerer) objectPat(n *sitter.Node) *syntax.ObjectPat {
	pat := &syntax.ObjectPat{Span: spanOf(n)}
	for _, child := range namedChildren(n) {
		var prop syntax.ObjectPatProp
		switch child.Kind() {
		case "pair_pattern":
			prop = &syntax.KeyValuePatProp{
				Span:  spanOf(child),
				Key:   l.propName(child.ChildByFieldName("key")),
				Value: l.pat(child.ChildByFieldName("value")),
			}
		case "shorthand_property_identifier_pattern":
			prop = &syntax.AssignPatProp{Span: spanOf(child), Key: l.ident(child)}
		case "object_assignment_pattern":
			left := child.ChildByFieldName("left")
			if left == nil || left.Kind() != "shorthand_property_identifier_pattern" {
				continue
			}
			prop = &syntax.AssignPatProp{
				Span:  spanOf(child),
				Key:   l.ident(left),
				Value: l.expr(child.ChildByFieldName("right")),
			}
		case "rest_pattern":
			prop = &syntax.RestPat{Span: spanOf(child), Arg: l.pat(firstNamedChild(child))}
		default:
			continue
		}
		pat.Props = append(pat.Props, prop)
		if _, ok := prop.(*syntax.RestPat); ok {
			break
		}
	}
	return pat
}

// arrayPat lowers `[ ... ]`, keeping holes as nil elements. Elements after a
// rest element are dropped.
func (l *lowerer) arrayPat(n *sitter.Node) *syntax.ArrayPat {
	elems := sequence(n, l.pat)
	for i, e := range elems {
		if _, ok := e.(*syntax.RestPat); ok {
			elems = elems[:i+1]
			break
		}
	}
	return &syntax.ArrayPat{Span: spanOf(n), Elems: elems}
}

// withTypeAnn attaches a declarator or parameter annotation to its pattern.
func withTypeAnn(p syntax.Pat, ann *syntax.TypeAnn) syntax.Pat {
	switch p := p.(type) {
	case *syntax.IdentPat:
		p.TypeAnn = ann
	case *syntax.ObjectPat:
		p.TypeAnn = ann
	case *syntax.ArrayPat:
		p.TypeAnn = ann
	case *syntax.RestPat:
		p.TypeAnn = ann
	}
	return p
}

// params lowers formal_parameters.
func (l *lowerer) params(n *sitter.Node) []*syntax.Param {
	var out []*syntax.Param
	for _, child := range namedChildren(n) {
		switch child.Kind() {
		case "required_parameter", "optional_parameter":
			p := l.pat(child.ChildByFieldName("pattern"))
			if ann := l.typeAnn(child.ChildByFieldName("type")); ann != nil {
				p = withTypeAnn(p, ann)
			}
			if child.Kind() == "optional_parameter" {
				if id, ok := p.(*syntax.IdentPat); ok {
					id.Optional = true
				}
			}
			if value := child.ChildByFieldName("value"); value != nil {
				p = &syntax.AssignPat{Span: spanOf(child), Left: p, Right: l.expr(value)}
			}
			out = append(out, &syntax.Param{Span: spanOf(child), Pat: p})
		default:
			// plain JavaScript parameters are bare patterns
			out = append(out, &syntax.Param{Span: spanOf(child), Pat: l.pat(child)})
		}
	}
	return out
}

func (l *lowerer) propName(n *sitter.Node) syntax.PropName {
	if n == nil {
		return &syntax.IdentName{}
	}
	switch n.Kind() {
	case "string":
		return &syntax.StrName{Span: spanOf(n), Value: unquote(l.text(n))}
	case "number":
		raw := l.text(n)
		if isBigInt(raw) {
			return &syntax.BigIntName{Span: spanOf(n), Raw: raw}
		}
		return &syntax.NumName{Span: spanOf(n), Value: parseNumber(raw), Raw: raw}
	case "computed_property_name":
		return &syntax.ComputedName{Span: spanOf(n), Expr: l.expr(firstNamedChild(n))}
	}
	return &syntax.IdentName{Span: spanOf(n), Name: l.text(n)}
}
