package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/tsdoc/internal/syntax"
)

// typeAnn lowers a `: Type` annotation. Nil nodes give a nil annotation.
func (l *lowerer) typeAnn(n *sitter.Node) *syntax.TypeAnn {
	if n == nil {
		return nil
	}
	switch n.Kind() {
	case "type_annotation", "opting_type_annotation", "omitting_type_annotation", "adding_type_annotation":
		inner := firstNamedChild(n)
		if inner == nil {
			return nil
		}
		return &syntax.TypeAnn{Span: spanOf(n), Type: l.typeNode(inner)}
	}
	// return types of arrow functions may be a bare type
	return &syntax.TypeAnn{Span: spanOf(n), Type: l.typeNode(n)}
}

func (l *lowerer) typeParams(n *sitter.Node) []string {
	var out []string
	for _, child := range namedChildren(n) {
		if child.Kind() != "type_parameter" {
			continue
		}
		out = append(out, l.text(child.ChildByFieldName("name")))
	}
	return out
}

func (l *lowerer) typeNode(n *sitter.Node) syntax.TypeNode {
	if n == nil {
		return &syntax.OtherType{}
	}
	span := spanOf(n)
	switch n.Kind() {
	case "predefined_type", "this_type":
		return &syntax.KeywordType{Span: span, Keyword: l.text(n)}
	case "type_identifier", "nested_type_identifier", "identifier":
		return &syntax.TypeRef{Span: span, Name: l.text(n)}
	case "generic_type":
		ref := &syntax.TypeRef{Span: span, Name: l.text(n.ChildByFieldName("name"))}
		for _, arg := range namedChildren(n.ChildByFieldName("type_arguments")) {
			ref.Args = append(ref.Args, l.typeNode(arg))
		}
		return ref
	case "array_type":
		return &syntax.ArrayType{Span: span, Elem: l.typeNode(firstNamedChild(n))}
	case "tuple_type":
		tuple := &syntax.TupleType{Span: span}
		for _, elem := range namedChildren(n) {
			tuple.Elems = append(tuple.Elems, l.tupleElem(elem))
		}
		return tuple
	case "optional_type":
		return &syntax.OptionalType{Span: span, Type: l.typeNode(firstNamedChild(n))}
	case "rest_type":
		return &syntax.RestType{Span: span, Type: l.typeNode(firstNamedChild(n))}
	case "object_type":
		return l.objectType(n)
	case "union_type":
		return &syntax.UnionType{Span: span, Types: l.flatten(n, "union_type")}
	case "intersection_type":
		return &syntax.IntersectionType{Span: span, Types: l.flatten(n, "intersection_type")}
	case "literal_type":
		return l.literalType(n)
	case "template_literal_type":
		if len(namedChildren(n)) == 0 || findChildByType(n, "template_type") == nil {
			text := l.text(n)
			return &syntax.LitType{Span: span, Kind: syntax.LitTemplate, Str: unquote(text), Raw: text}
		}
	case "parenthesized_type":
		return &syntax.ParenType{Span: span, Type: l.typeNode(firstNamedChild(n))}
	case "function_type":
		return &syntax.FnType{
			Span:       span,
			Params:     l.params(n.ChildByFieldName("parameters")),
			Return:     l.typeNode(n.ChildByFieldName("return_type")),
			TypeParams: l.typeParams(n.ChildByFieldName("type_parameters")),
		}
	case "constructor_type":
		return &syntax.FnType{
			Span:        span,
			Params:      l.params(n.ChildByFieldName("parameters")),
			Return:      l.typeNode(n.ChildByFieldName("type")),
			TypeParams:  l.typeParams(n.ChildByFieldName("type_parameters")),
			Constructor: true,
		}
	case "readonly_type":
		return &syntax.TypeOperator{Span: span, Op: "readonly", Type: l.typeNode(firstNamedChild(n))}
	case "index_type_query":
		return &syntax.TypeOperator{Span: span, Op: "keyof", Type: l.typeNode(firstNamedChild(n))}
	case "type_query":
		return &syntax.TypeQuery{Span: span, Expr: collapse(l.text(firstNamedChild(n)))}
	case "lookup_type":
		children := namedChildren(n)
		if len(children) == 2 {
			return &syntax.IndexedAccessType{
				Span:  span,
				Obj:   l.typeNode(children[0]),
				Index: l.typeNode(children[1]),
			}
		}
	}
	return &syntax.OtherType{Span: span}
}

// flatten collects the members of a left-nested union or intersection.
func (l *lowerer) flatten(n *sitter.Node, kind string) []syntax.TypeNode {
	var out []syntax.TypeNode
	for _, child := range namedChildren(n) {
		if child.Kind() == kind {
			out = append(out, l.flatten(child, kind)...)
			continue
		}
		out = append(out, l.typeNode(child))
	}
	return out
}

func (l *lowerer) tupleElem(n *sitter.Node) syntax.TypeNode {
	switch n.Kind() {
	case "tuple_parameter":
		if ann := l.typeAnn(n.ChildByFieldName("type")); ann != nil {
			return ann.Type
		}
	case "optional_tuple_parameter":
		if ann := l.typeAnn(n.ChildByFieldName("type")); ann != nil {
			return &syntax.OptionalType{Span: spanOf(n), Type: ann.Type}
		}
	default:
		return l.typeNode(n)
	}
	return &syntax.OtherType{Span: spanOf(n)}
}

func (l *lowerer) literalType(n *sitter.Node) syntax.TypeNode {
	span := spanOf(n)
	inner := firstNamedChild(n)
	if inner == nil {
		return &syntax.OtherType{Span: span}
	}
	raw := l.text(inner)
	switch inner.Kind() {
	case "string":
		return &syntax.LitType{Span: span, Kind: syntax.LitString, Str: unquote(raw), Raw: raw}
	case "number":
		if isBigInt(raw) {
			return &syntax.LitType{Span: span, Kind: syntax.LitBigInt, Raw: raw}
		}
		return &syntax.LitType{Span: span, Kind: syntax.LitNumber, Num: parseNumber(raw), Raw: raw}
	case "unary_expression":
		arg := l.text(inner.ChildByFieldName("argument"))
		if l.text(inner.ChildByFieldName("operator")) == "-" {
			if isBigInt(arg) {
				return &syntax.LitType{Span: span, Kind: syntax.LitBigInt, Raw: raw}
			}
			return &syntax.LitType{Span: span, Kind: syntax.LitNumber, Num: -parseNumber(arg), Raw: raw}
		}
	case "true", "false":
		return &syntax.LitType{Span: span, Kind: syntax.LitBool, Bool: inner.Kind() == "true", Raw: raw}
	case "null", "undefined":
		return &syntax.KeywordType{Span: span, Keyword: raw}
	}
	return &syntax.OtherType{Span: span}
}

func (l *lowerer) objectType(n *sitter.Node) *syntax.TypeLit {
	lit := &syntax.TypeLit{Span: spanOf(n)}
	for _, m := range namedChildren(n) {
		span := spanOf(m)
		switch m.Kind() {
		case "property_signature":
			lit.Members = append(lit.Members, &syntax.PropSig{
				Span:     span,
				Key:      l.propName(m.ChildByFieldName("name")),
				Optional: hasToken(m, "?"),
				Readonly: hasToken(m, "readonly"),
				TypeAnn:  l.typeAnn(m.ChildByFieldName("type")),
			})
		case "method_signature":
			lit.Members = append(lit.Members, &syntax.MethodSig{
				Span:       span,
				Key:        l.propName(m.ChildByFieldName("name")),
				Optional:   hasToken(m, "?"),
				Params:     l.params(m.ChildByFieldName("parameters")),
				ReturnType: l.typeAnn(m.ChildByFieldName("return_type")),
			})
		case "call_signature":
			lit.Members = append(lit.Members, &syntax.CallSig{
				Span:       span,
				Params:     l.params(m.ChildByFieldName("parameters")),
				ReturnType: l.typeAnn(m.ChildByFieldName("return_type")),
			})
		case "construct_signature":
			lit.Members = append(lit.Members, &syntax.ConstructSig{
				Span:       span,
				Params:     l.params(m.ChildByFieldName("parameters")),
				ReturnType: l.typeAnn(m.ChildByFieldName("type")),
			})
		case "index_signature":
			lit.Members = append(lit.Members, l.indexSig(m))
		}
	}
	return lit
}

func (l *lowerer) indexSig(n *sitter.Node) *syntax.IndexSig {
	sig := &syntax.IndexSig{
		Span:     spanOf(n),
		Readonly: hasToken(n, "readonly"),
		TypeAnn:  l.typeAnn(n.ChildByFieldName("type")),
	}
	if name := n.ChildByFieldName("name"); name != nil {
		param := &syntax.IdentPat{Span: spanOf(name), Ident: l.ident(name)}
		if idx := n.ChildByFieldName("index_type"); idx != nil {
			param.TypeAnn = &syntax.TypeAnn{Span: spanOf(idx), Type: l.typeNode(idx)}
		}
		sig.Params = []*syntax.Param{{Span: spanOf(name), Pat: param}}
	} else if clause := findChildByType(n, "mapped_type_clause"); clause != nil {
		// `[K in T]` is kept as a single parameter named by its source
		sig.Params = []*syntax.Param{{
			Span: spanOf(clause),
			Pat:  &syntax.IdentPat{Span: spanOf(clause), Ident: &syntax.Ident{Span: spanOf(clause), Name: collapse(l.text(clause))}},
		}}
	}
	return sig
}
