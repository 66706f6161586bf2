package tstype

import (
	"strings"

	"github.com/mvp-joe/tsdoc/internal/syntax"
)

// FromAnnotation converts a `: Type` annotation into a TypeDef.
func FromAnnotation(src []byte, ann *syntax.TypeAnn) *TypeDef {
	if ann == nil || ann.Type == nil {
		return nil
	}
	return New(src, ann.Type)
}

// New converts a type node into a TypeDef. Repr is the node's source text
// with whitespace collapsed.
func New(src []byte, node syntax.TypeNode) *TypeDef {
	if node == nil {
		return nil
	}
	t := &TypeDef{Repr: reprOf(src, node)}

	switch n := node.(type) {
	case *syntax.KeywordType:
		t.Kind = KindKeyword
		t.Keyword = n.Keyword
	case *syntax.TypeRef:
		t.Kind = KindTypeRef
		t.TypeRef = &TypeRefDef{TypeName: n.Name, TypeParams: newList(src, n.Args)}
	case *syntax.ArrayType:
		t.Kind = KindArray
		t.Array = New(src, n.Elem)
	case *syntax.TupleType:
		t.Kind = KindTuple
		t.Tuple = newList(src, n.Elems)
		if t.Tuple == nil {
			t.Tuple = []*TypeDef{}
		}
	case *syntax.TypeLit:
		t.Kind = KindTypeLiteral
		t.TypeLiteral = newTypeLiteral(src, n)
	case *syntax.UnionType:
		t.Kind = KindUnion
		t.Union = newList(src, n.Types)
	case *syntax.IntersectionType:
		t.Kind = KindIntersection
		t.Intersection = newList(src, n.Types)
	case *syntax.LitType:
		t.Kind = KindLiteral
		t.Literal = newLiteral(n)
	case *syntax.ParenType:
		t.Kind = KindParenthesized
		t.Parenthesized = New(src, n.Type)
	case *syntax.FnType:
		t.Kind = KindFnOrConstructor
		t.FnOrConstructor = &FnOrConstructorDef{
			Constructor: n.Constructor,
			Params:      newParams(src, n.Params),
			TypeParams:  n.TypeParams,
			TSType:      New(src, n.Return),
		}
	case *syntax.TypeOperator:
		t.Kind = KindTypeOperator
		t.TypeOperator = &TypeOperatorDef{Operator: n.Op, TSType: New(src, n.Type)}
	case *syntax.TypeQuery:
		t.Kind = KindTypeQuery
		t.TypeQuery = n.Expr
	case *syntax.OptionalType:
		t.Kind = KindOptional
		t.Optional = New(src, n.Type)
	case *syntax.RestType:
		t.Kind = KindRest
		t.Rest = New(src, n.Type)
	case *syntax.IndexedAccessType:
		t.Kind = KindIndexedAccess
		t.IndexedAccess = &IndexedAccessDef{
			ObjType:   New(src, n.Obj),
			IndexType: New(src, n.Index),
		}
	}
	return t
}

func reprOf(src []byte, n syntax.Node) string {
	return strings.Join(strings.Fields(n.Pos().Text(src)), " ")
}

func newList(src []byte, nodes []syntax.TypeNode) []*TypeDef {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]*TypeDef, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, New(src, n))
	}
	return out
}

func newLiteral(n *syntax.LitType) *LiteralDef {
	switch n.Kind {
	case syntax.LitString:
		s := n.Str
		return &LiteralDef{Kind: LiteralString, String: &s}
	case syntax.LitTemplate:
		s := n.Str
		return &LiteralDef{Kind: LiteralTemplate, String: &s}
	case syntax.LitBigInt:
		s := strings.TrimSuffix(n.Raw, "n")
		return &LiteralDef{Kind: LiteralBigInt, String: &s}
	case syntax.LitBool:
		b := n.Bool
		return &LiteralDef{Kind: LiteralBoolean, Boolean: &b}
	default:
		v := n.Num
		return &LiteralDef{Kind: LiteralNumber, Number: &v}
	}
}

func newTypeLiteral(src []byte, n *syntax.TypeLit) *TypeLiteralDef {
	lit := &TypeLiteralDef{Properties: []PropertyDef{}}
	for _, m := range n.Members {
		switch m := m.(type) {
		case *syntax.PropSig:
			_, computed := m.Key.(*syntax.ComputedName)
			lit.Properties = append(lit.Properties, PropertyDef{
				Name:     syntax.PropNameToString(src, m.Key),
				Optional: m.Optional,
				Readonly: m.Readonly,
				Computed: computed,
				TSType:   FromAnnotation(src, m.TypeAnn),
			})
		case *syntax.MethodSig:
			lit.Methods = append(lit.Methods, MethodDef{
				Name:       syntax.PropNameToString(src, m.Key),
				Optional:   m.Optional,
				Params:     newParams(src, m.Params),
				ReturnType: FromAnnotation(src, m.ReturnType),
			})
		case *syntax.CallSig:
			lit.CallSignatures = append(lit.CallSignatures, SignatureDef{
				Params:     newParams(src, m.Params),
				ReturnType: FromAnnotation(src, m.ReturnType),
			})
		case *syntax.ConstructSig:
			// construct signatures are documented as call signatures
			// returning the constructed type
			lit.CallSignatures = append(lit.CallSignatures, SignatureDef{
				Params:     newParams(src, m.Params),
				ReturnType: FromAnnotation(src, m.ReturnType),
			})
		case *syntax.IndexSig:
			lit.IndexSignatures = append(lit.IndexSignatures, IndexSignatureDef{
				Readonly: m.Readonly,
				Params:   newParams(src, m.Params),
				TSType:   FromAnnotation(src, m.TypeAnn),
			})
		}
	}
	return lit
}

// NewParams converts function parameters into ParamDefs.
func NewParams(src []byte, params []*syntax.Param) []ParamDef {
	return newParams(src, params)
}

func newParams(src []byte, params []*syntax.Param) []ParamDef {
	out := make([]ParamDef, 0, len(params))
	for _, p := range params {
		out = append(out, newParam(src, p.Pat))
	}
	return out
}

func newParam(src []byte, pat syntax.Pat) ParamDef {
	switch p := pat.(type) {
	case *syntax.IdentPat:
		name := ""
		if p.Ident != nil {
			name = p.Ident.Name
		}
		return ParamDef{Name: name, Optional: p.Optional, TSType: FromAnnotation(src, p.TypeAnn)}
	case *syntax.RestPat:
		inner := newParam(src, p.Arg)
		inner.Rest = true
		if p.TypeAnn != nil {
			inner.TSType = FromAnnotation(src, p.TypeAnn)
		}
		return inner
	case *syntax.AssignPat:
		inner := newParam(src, p.Left)
		inner.Optional = true
		return inner
	case *syntax.ObjectPat:
		return ParamDef{Name: patternText(src, p), TSType: FromAnnotation(src, p.TypeAnn)}
	case *syntax.ArrayPat:
		return ParamDef{Name: patternText(src, p), TSType: FromAnnotation(src, p.TypeAnn)}
	}
	if pat == nil {
		return ParamDef{}
	}
	return ParamDef{Name: reprOf(src, pat)}
}

// patternText is the source of a destructuring pattern without its annotation.
func patternText(src []byte, p syntax.Pat) string {
	span := p.Pos()
	var ann *syntax.TypeAnn
	switch p := p.(type) {
	case *syntax.ObjectPat:
		ann = p.TypeAnn
	case *syntax.ArrayPat:
		ann = p.TypeAnn
	}
	if ann != nil && ann.Lo > span.Lo && ann.Lo <= span.Hi {
		span.Hi = ann.Lo
	}
	return strings.Join(strings.Fields(span.Text(src)), " ")
}
