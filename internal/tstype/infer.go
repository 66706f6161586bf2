package tstype

import (
	"strings"

	"github.com/mvp-joe/tsdoc/internal/syntax"
)

// InferSimpleTypeFromVarDecl infers the type of a declarator from the literal
// shape of its initializer. Immutable bindings keep literal types, mutable
// ones are widened to the matching keyword. It returns nil when the
// initializer is missing or its type cannot be read off its shape.
func InferSimpleTypeFromVarDecl(src []byte, d *syntax.VarDeclarator, immutable bool) *TypeDef {
	if d == nil || d.Init == nil {
		return nil
	}
	in := inferrer{src: src}
	return in.expr(d.Init, immutable)
}

type inferrer struct {
	src []byte
	// asConst is set while inferring the operand of `as const`.
	asConst bool
}

func (in inferrer) expr(e syntax.Expr, literal bool) *TypeDef {
	switch e := e.(type) {
	case *syntax.StrLit:
		if literal {
			return StringLiteral(e.Value)
		}
		return Keyword("string")
	case *syntax.NumLit:
		if literal {
			return NumberLiteral(e.Value)
		}
		return Keyword("number")
	case *syntax.BigIntLit:
		if literal {
			return bigIntLiteral(e.Raw)
		}
		return Keyword("bigint")
	case *syntax.BoolLit:
		if literal {
			return BooleanLiteral(e.Value)
		}
		return Keyword("boolean")
	case *syntax.TplLit:
		if literal && len(e.Exprs) == 0 && len(e.Quasis) == 1 {
			return StringLiteral(e.Quasis[0])
		}
		return Keyword("string")
	case *syntax.NullLit:
		return Keyword("null")
	case *syntax.Ident:
		if e.Name == "undefined" {
			return Keyword("undefined")
		}
		return nil
	case *syntax.RegexLit:
		return RefOf("RegExp")
	case *syntax.NewExpr:
		callee, ok := e.Callee.(*syntax.Ident)
		if !ok {
			return nil
		}
		return RefOf(callee.Name, newList(in.src, e.TypeArgs)...)
	case *syntax.AsExpr:
		if e.Const {
			c := inferrer{src: in.src, asConst: true}
			return c.expr(e.Expr, true)
		}
		return New(in.src, e.Type)
	case *syntax.SatisfiesExpr:
		return in.expr(e.Expr, literal)
	case *syntax.ParenExpr:
		return in.expr(e.Expr, literal)
	case *syntax.UnaryExpr:
		return in.unary(e, literal)
	case *syntax.FnExpr:
		return in.fn(e.Params, e.ReturnType, e.TypeParams)
	case *syntax.ArrowExpr:
		return in.fn(e.Params, e.ReturnType, e.TypeParams)
	case *syntax.ObjectLit:
		return in.object(e)
	case *syntax.ArrayLit:
		return in.array(e)
	}
	return nil
}

func (in inferrer) unary(e *syntax.UnaryExpr, literal bool) *TypeDef {
	switch e.Op {
	case "-", "+":
		if num, ok := e.Arg.(*syntax.NumLit); ok && literal {
			if e.Op == "-" {
				return NumberLiteral(-num.Value)
			}
			return NumberLiteral(num.Value)
		}
		if big, ok := e.Arg.(*syntax.BigIntLit); ok && e.Op == "-" {
			if literal {
				return bigIntLiteral("-" + big.Raw)
			}
			return Keyword("bigint")
		}
		return Keyword("number")
	case "~":
		return Keyword("number")
	case "!":
		return Keyword("boolean")
	case "typeof":
		return Keyword("string")
	case "void":
		return Keyword("undefined")
	}
	return nil
}

func (in inferrer) fn(params []*syntax.Param, ret *syntax.TypeAnn, typeParams []string) *TypeDef {
	t := &TypeDef{
		Kind: KindFnOrConstructor,
		FnOrConstructor: &FnOrConstructorDef{
			Params:     newParams(in.src, params),
			TypeParams: typeParams,
			TSType:     FromAnnotation(in.src, ret),
		},
	}
	t.Repr = t.String()
	return t
}

// object infers `{ ... }`. Every member must be a key/value pair with an
// inferable value; spreads, methods and shorthands give up.
func (in inferrer) object(e *syntax.ObjectLit) *TypeDef {
	props := make([]PropertyDef, 0, len(e.Props))
	for _, p := range e.Props {
		kv, ok := p.(*syntax.KeyValueProp)
		if !ok {
			return nil
		}
		if _, computed := kv.Key.(*syntax.ComputedName); computed {
			return nil
		}
		t := in.expr(kv.Value, in.asConst)
		if t == nil {
			return nil
		}
		props = append(props, PropertyDef{
			Name:     syntax.PropNameToString(in.src, kv.Key),
			Readonly: in.asConst,
			TSType:   t,
		})
	}
	return TypeLiteralOf(props...)
}

// array infers `[...]` as `T[]`, with T the union of the distinct element
// types. Under `as const` it becomes a readonly tuple of literal types.
func (in inferrer) array(e *syntax.ArrayLit) *TypeDef {
	if in.asConst {
		elems := make([]*TypeDef, 0, len(e.Elems))
		for _, el := range e.Elems {
			if el == nil {
				return nil
			}
			t := in.expr(el, true)
			if t == nil {
				return nil
			}
			elems = append(elems, t)
		}
		return readonly(TupleOf(elems...))
	}

	if len(e.Elems) == 0 {
		return nil
	}
	var distinct []*TypeDef
	seen := make(map[string]bool)
	for _, el := range e.Elems {
		if el == nil {
			return nil
		}
		t := in.expr(el, false)
		if t == nil {
			return nil
		}
		if seen[t.Repr] {
			continue
		}
		seen[t.Repr] = true
		distinct = append(distinct, t)
	}
	if len(distinct) == 1 {
		return ArrayOf(distinct[0])
	}
	return ArrayOf(UnionOf(distinct...))
}

func readonly(t *TypeDef) *TypeDef {
	r := &TypeDef{
		Kind:         KindTypeOperator,
		TypeOperator: &TypeOperatorDef{Operator: "readonly", TSType: t},
	}
	r.Repr = r.String()
	return r
}

func bigIntLiteral(raw string) *TypeDef {
	s := strings.TrimSuffix(raw, "n")
	t := &TypeDef{
		Kind:    KindLiteral,
		Literal: &LiteralDef{Kind: LiteralBigInt, String: &s},
	}
	t.Repr = t.String()
	return t
}
