package parser

import (
	"strconv"
	"strings"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/tsdoc/internal/syntax"
)

func (l *lowerer) expr(n *sitter.Node) syntax.Expr {
	if n == nil {
		return &syntax.OtherExpr{}
	}
	span := spanOf(n)
	switch n.Kind() {
	case "identifier", "undefined":
		return &syntax.Ident{Span: span, Name: l.text(n)}
	case "string":
		return &syntax.StrLit{Span: span, Value: unquote(l.text(n))}
	case "template_string":
		return l.template(n)
	case "number":
		raw := l.text(n)
		if isBigInt(raw) {
			return &syntax.BigIntLit{Span: span, Raw: raw}
		}
		return &syntax.NumLit{Span: span, Value: parseNumber(raw), Raw: raw}
	case "true", "false":
		return &syntax.BoolLit{Span: span, Value: n.Kind() == "true"}
	case "null":
		return &syntax.NullLit{Span: span}
	case "regex":
		return &syntax.RegexLit{
			Span:    span,
			Pattern: l.text(n.ChildByFieldName("pattern")),
			Flags:   l.text(n.ChildByFieldName("flags")),
		}
	case "object":
		return l.object(n)
	case "array":
		return &syntax.ArrayLit{Span: span, Elems: sequence(n, l.expr)}
	case "spread_element":
		return &syntax.SpreadElem{Span: span, Arg: l.expr(firstNamedChild(n))}
	case "new_expression":
		e := &syntax.NewExpr{Span: span, Callee: l.expr(n.ChildByFieldName("constructor"))}
		args := n.ChildByFieldName("type_arguments")
		if args == nil {
			args = findChildByType(n, "type_arguments")
		}
		for _, arg := range namedChildren(args) {
			e.TypeArgs = append(e.TypeArgs, l.typeNode(arg))
		}
		return e
	case "arrow_function":
		e := &syntax.ArrowExpr{
			Span:       span,
			ReturnType: l.typeAnn(n.ChildByFieldName("return_type")),
			TypeParams: l.typeParams(n.ChildByFieldName("type_parameters")),
			Async:      hasToken(n, "async"),
		}
		if single := n.ChildByFieldName("parameter"); single != nil {
			e.Params = []*syntax.Param{{Span: spanOf(single), Pat: l.pat(single)}}
		} else {
			e.Params = l.params(n.ChildByFieldName("parameters"))
		}
		return e
	case "function_expression", "function", "generator_function":
		return &syntax.FnExpr{
			Span:       span,
			Ident:      l.ident(n.ChildByFieldName("name")),
			Params:     l.params(n.ChildByFieldName("parameters")),
			ReturnType: l.typeAnn(n.ChildByFieldName("return_type")),
			TypeParams: l.typeParams(n.ChildByFieldName("type_parameters")),
			Async:      hasToken(n, "async"),
			Generator:  hasToken(n, "*"),
		}
	case "as_expression":
		children := namedChildren(n)
		e := &syntax.AsExpr{Span: span}
		if len(children) > 0 {
			e.Expr = l.expr(children[0])
		}
		if len(children) > 1 {
			e.Type = l.typeNode(children[len(children)-1])
		} else {
			e.Const = hasToken(n, "const")
		}
		return e
	case "satisfies_expression":
		children := namedChildren(n)
		e := &syntax.SatisfiesExpr{Span: span}
		if len(children) > 0 {
			e.Expr = l.expr(children[0])
		}
		if len(children) > 1 {
			e.Type = l.typeNode(children[len(children)-1])
		}
		return e
	case "type_assertion":
		// <T>expr
		children := namedChildren(n)
		e := &syntax.AsExpr{Span: span}
		if len(children) == 2 {
			e.Type = l.typeNode(firstNamedChild(children[0]))
			e.Expr = l.expr(children[1])
		}
		return e
	case "parenthesized_expression":
		return &syntax.ParenExpr{Span: span, Expr: l.expr(firstNamedChild(n))}
	case "unary_expression":
		return &syntax.UnaryExpr{
			Span: span,
			Op:   l.text(n.ChildByFieldName("operator")),
			Arg:  l.expr(n.ChildByFieldName("argument")),
		}
	}
	return &syntax.OtherExpr{Span: span}
}

func (l *lowerer) object(n *sitter.Node) *syntax.ObjectLit {
	obj := &syntax.ObjectLit{Span: spanOf(n)}
	for _, child := range namedChildren(n) {
		span := spanOf(child)
		switch child.Kind() {
		case "pair":
			obj.Props = append(obj.Props, &syntax.KeyValueProp{
				Span:  span,
				Key:   l.propName(child.ChildByFieldName("key")),
				Value: l.expr(child.ChildByFieldName("value")),
			})
		case "shorthand_property_identifier":
			obj.Props = append(obj.Props, &syntax.ShorthandProp{Span: span, Key: l.ident(child)})
		case "spread_element":
			obj.Props = append(obj.Props, &syntax.SpreadElem{Span: span, Arg: l.expr(firstNamedChild(child))})
		case "method_definition":
			obj.Props = append(obj.Props, &syntax.MethodProp{Span: span, Key: l.propName(child.ChildByFieldName("name"))})
		}
	}
	return obj
}

// template lowers a template literal into its cooked text segments and
// substitutions.
func (l *lowerer) template(n *sitter.Node) *syntax.TplLit {
	tpl := &syntax.TplLit{Span: spanOf(n)}
	var quasi strings.Builder
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(uint(i))
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "string_fragment":
			quasi.WriteString(l.text(child))
		case "escape_sequence":
			quasi.WriteString(unescape(l.text(child)))
		case "template_substitution":
			tpl.Quasis = append(tpl.Quasis, quasi.String())
			quasi.Reset()
			tpl.Exprs = append(tpl.Exprs, l.expr(firstNamedChild(child)))
		}
	}
	tpl.Quasis = append(tpl.Quasis, quasi.String())
	return tpl
}

func isBigInt(raw string) bool {
	return strings.HasSuffix(raw, "n")
}

// parseNumber evaluates a numeric literal, including hex, octal and binary
// forms and `_` separators. Malformed literals evaluate to 0.
func parseNumber(raw string) float64 {
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0o") || strings.HasPrefix(lower, "0b") {
		v, err := strconv.ParseUint(lower, 0, 64)
		if err != nil {
			return 0
		}
		return float64(v)
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, "_", ""), 64)
	if err != nil {
		return 0
	}
	return v
}

// unquote strips the quotes of a string literal and decodes its escapes.
// Text that is not quoted is returned unchanged.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	q := s[0]
	if (q != '"' && q != '\'' && q != '`') || s[len(s)-1] != q {
		return s
	}
	return unescape(s[1 : len(s)-1])
}

// unescape decodes JavaScript escape sequences.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '\n':
			// line continuation
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		case 'x':
			if i+2 < len(s) {
				if v, err := strconv.ParseUint(s[i+1:i+3], 16, 8); err == nil {
					b.WriteRune(rune(v))
					i += 2
					continue
				}
			}
			b.WriteByte('x')
		case 'u':
			r, n := unicodeEscape(s[i+1:])
			if n == 0 {
				b.WriteByte('u')
				continue
			}
			b.WriteRune(r)
			i += n
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// unicodeEscape decodes the body of a `\u` escape, either `XXXX` or `{X...}`,
// and returns the rune and the number of bytes consumed.
func unicodeEscape(s string) (rune, int) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 0 {
			return 0, 0
		}
		v, err := strconv.ParseUint(s[1:end], 16, 32)
		if err != nil || !utf8.ValidRune(rune(v)) {
			return 0, 0
		}
		return rune(v), end + 1
	}
	if len(s) < 4 {
		return 0, 0
	}
	v, err := strconv.ParseUint(s[:4], 16, 16)
	if err != nil {
		return 0, 0
	}
	return rune(v), 4
}
