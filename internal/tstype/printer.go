package tstype

import (
	"strconv"
	"strings"
)

// String renders the type as TypeScript source.
func (t *TypeDef) String() string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *TypeDef) write(b *strings.Builder) {
	if t == nil {
		b.WriteString("unknown")
		return
	}
	switch t.Kind {
	case KindKeyword:
		b.WriteString(t.Keyword)
	case KindLiteral:
		writeLiteral(b, t.Literal)
	case KindTypeRef:
		b.WriteString(t.TypeRef.TypeName)
		if len(t.TypeRef.TypeParams) > 0 {
			b.WriteByte('<')
			writeList(b, t.TypeRef.TypeParams, ", ")
			b.WriteByte('>')
		}
	case KindUnion:
		writeList(b, t.Union, " | ")
	case KindIntersection:
		writeList(b, t.Intersection, " & ")
	case KindArray:
		if needsParens(t.Array) {
			b.WriteByte('(')
			t.Array.write(b)
			b.WriteByte(')')
		} else {
			t.Array.write(b)
		}
		b.WriteString("[]")
	case KindTuple:
		b.WriteByte('[')
		writeList(b, t.Tuple, ", ")
		b.WriteByte(']')
	case KindTypeLiteral:
		writeTypeLiteral(b, t.TypeLiteral)
	case KindFnOrConstructor:
		fn := t.FnOrConstructor
		if fn.Constructor {
			b.WriteString("new ")
		}
		if len(fn.TypeParams) > 0 {
			b.WriteString("<" + strings.Join(fn.TypeParams, ", ") + ">")
		}
		writeParams(b, fn.Params)
		b.WriteString(" => ")
		fn.TSType.write(b)
	case KindParenthesized:
		b.WriteByte('(')
		t.Parenthesized.write(b)
		b.WriteByte(')')
	case KindOptional:
		t.Optional.write(b)
		b.WriteByte('?')
	case KindRest:
		b.WriteString("...")
		t.Rest.write(b)
	case KindTypeOperator:
		b.WriteString(t.TypeOperator.Operator)
		b.WriteByte(' ')
		t.TypeOperator.TSType.write(b)
	case KindTypeQuery:
		b.WriteString("typeof ")
		b.WriteString(t.TypeQuery)
	case KindIndexedAccess:
		t.IndexedAccess.ObjType.write(b)
		b.WriteByte('[')
		t.IndexedAccess.IndexType.write(b)
		b.WriteByte(']')
	default:
		b.WriteString(t.Repr)
	}
}

func needsParens(t *TypeDef) bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case KindUnion, KindIntersection, KindFnOrConstructor, KindTypeOperator, KindOptional:
		return true
	}
	return false
}

func writeList(b *strings.Builder, types []*TypeDef, sep string) {
	for i, t := range types {
		if i > 0 {
			b.WriteString(sep)
		}
		if t == nil {
			b.WriteString("unknown")
			continue
		}
		t.write(b)
	}
}

func writeLiteral(b *strings.Builder, lit *LiteralDef) {
	switch lit.Kind {
	case LiteralString:
		b.WriteString(strconv.Quote(deref(lit.String)))
	case LiteralTemplate:
		b.WriteString("`" + deref(lit.String) + "`")
	case LiteralBigInt:
		b.WriteString(deref(lit.String) + "n")
	case LiteralNumber:
		if lit.Number != nil {
			b.WriteString(strconv.FormatFloat(*lit.Number, 'g', -1, 64))
		}
	case LiteralBoolean:
		if lit.Boolean != nil {
			b.WriteString(strconv.FormatBool(*lit.Boolean))
		}
	}
}

func writeTypeLiteral(b *strings.Builder, lit *TypeLiteralDef) {
	var members []string
	for _, p := range lit.Properties {
		var m strings.Builder
		if p.Readonly {
			m.WriteString("readonly ")
		}
		m.WriteString(p.Name)
		if p.Optional {
			m.WriteByte('?')
		}
		if p.TSType != nil {
			m.WriteString(": ")
			p.TSType.write(&m)
		}
		members = append(members, m.String())
	}
	for _, meth := range lit.Methods {
		var m strings.Builder
		m.WriteString(meth.Name)
		if meth.Optional {
			m.WriteByte('?')
		}
		writeParams(&m, meth.Params)
		writeReturn(&m, meth.ReturnType)
		members = append(members, m.String())
	}
	for _, sig := range lit.CallSignatures {
		var m strings.Builder
		writeParams(&m, sig.Params)
		writeReturn(&m, sig.ReturnType)
		members = append(members, m.String())
	}
	for _, idx := range lit.IndexSignatures {
		var m strings.Builder
		if idx.Readonly {
			m.WriteString("readonly ")
		}
		m.WriteByte('[')
		for i, p := range idx.Params {
			if i > 0 {
				m.WriteString(", ")
			}
			writeParam(&m, p)
		}
		m.WriteByte(']')
		writeReturn(&m, idx.TSType)
		members = append(members, m.String())
	}
	if len(members) == 0 {
		b.WriteString("{}")
		return
	}
	b.WriteString("{ ")
	b.WriteString(strings.Join(members, "; "))
	b.WriteString(" }")
}

func writeParams(b *strings.Builder, params []ParamDef) {
	b.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		writeParam(b, p)
	}
	b.WriteByte(')')
}

func writeParam(b *strings.Builder, p ParamDef) {
	if p.Rest {
		b.WriteString("...")
	}
	b.WriteString(p.Name)
	if p.Optional {
		b.WriteByte('?')
	}
	if p.TSType != nil {
		b.WriteString(": ")
		p.TSType.write(b)
	}
}

func writeReturn(b *strings.Builder, t *TypeDef) {
	if t == nil {
		return
	}
	b.WriteString(": ")
	t.write(b)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
