package variable

// Test Plan for Extract:
// - Plain identifier with annotation (const x: number = 1)
// - Alias chase inherits the referenced annotation (const z = y)
// - Alias chase falls back to the referenced initializer, using the referenced kind
// - Alias chase skips sites that are not variable declarators
// - Annotation beats both alias chase and inference
// - Local inference when nothing else applies
// - Object destructuring projects through a type literal, with renames
// - Object rest uses its own annotation and is emitted last
// - Nested object values are emitted under the key without a type
// - Array destructuring over a tuple skips holes and projects positionally
// - Array rest without annotation over an array type gets the whole array type
// - Array rest over a tuple without annotation has no type
// - Default-valued and nested array elements are skipped
// - Unsupported top-level patterns produce nothing
// - Declaration kind is copied onto every binding
// - Rest followed by another element panics
// - Returned types are owned by each binding

import (
	"strings"
	"testing"

	"github.com/mvp-joe/tsdoc/internal/symbols"
	"github.com/mvp-joe/tsdoc/internal/syntax"
	"github.com/mvp-joe/tsdoc/internal/tstype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture builds syntax nodes whose spans point into src.
type fixture struct {
	t   *testing.T
	src string
}

func (f fixture) span(part string) syntax.Span {
	f.t.Helper()
	i := strings.Index(f.src, part)
	require.GreaterOrEqual(f.t, i, 0, "%q not in source", part)
	return syntax.Span{Lo: i, Hi: i + len(part)}
}

// spanAfter locates part after the first occurrence of anchor.
func (f fixture) spanAfter(anchor, part string) syntax.Span {
	f.t.Helper()
	a := strings.Index(f.src, anchor)
	require.GreaterOrEqual(f.t, a, 0, "%q not in source", anchor)
	i := strings.Index(f.src[a:], part)
	require.GreaterOrEqual(f.t, i, 0, "%q not after %q", part, anchor)
	return syntax.Span{Lo: a + i, Hi: a + i + len(part)}
}

func (f fixture) kw(word string) *syntax.KeywordType {
	return &syntax.KeywordType{Span: f.span(word), Keyword: word}
}

func (f fixture) ann(t syntax.TypeNode) *syntax.TypeAnn {
	return &syntax.TypeAnn{Span: t.Pos(), Type: t}
}

func (f fixture) module(stmts ...syntax.Stmt) *symbols.ModuleInfo {
	return symbols.NewModuleInfo(syntax.NewModule("test.ts", []byte(f.src), stmts))
}

func identPat(name string, ann *syntax.TypeAnn) *syntax.IdentPat {
	return &syntax.IdentPat{Ident: &syntax.Ident{Name: name}, TypeAnn: ann}
}

func varDecl(kind syntax.DeclKind, decls ...*syntax.VarDeclarator) *syntax.VarDecl {
	return &syntax.VarDecl{Kind: kind, Decls: decls}
}

func names(bindings []Binding) []string {
	out := make([]string, 0, len(bindings))
	for _, b := range bindings {
		out = append(out, b.Name)
	}
	return out
}

func reprs(bindings []Binding) []string {
	out := make([]string, 0, len(bindings))
	for _, b := range bindings {
		out = append(out, b.Def.TSType.String())
	}
	return out
}

func TestExtract_IdentifierWithAnnotation(t *testing.T) {
	t.Parallel()

	// Setup
	f := fixture{t: t, src: "const x: number = 1;"}
	d := &syntax.VarDeclarator{
		Name: identPat("x", f.ann(f.kw("number"))),
		Init: &syntax.NumLit{Value: 1, Raw: "1"},
	}
	decl := varDecl(syntax.DeclConst, d)

	// Execute
	got := Extract(f.module(decl), decl, d)

	// Verify
	require.Len(t, got, 1)
	assert.Equal(t, "x", got[0].Name)
	assert.Equal(t, syntax.DeclConst, got[0].Def.Kind)
	require.NotNil(t, got[0].Def.TSType)
	assert.Equal(t, tstype.KindKeyword, got[0].Def.TSType.Kind)
	assert.Equal(t, "number", got[0].Def.TSType.Keyword)
}

func TestExtract_AliasInheritsAnnotation(t *testing.T) {
	t.Parallel()

	// Setup
	f := fixture{t: t, src: `const y: string = "hi"; const z = y;`}
	yDecl := &syntax.VarDeclarator{
		Name: identPat("y", f.ann(f.kw("string"))),
		Init: &syntax.StrLit{Value: "hi"},
	}
	zDecl := &syntax.VarDeclarator{
		Name: identPat("z", nil),
		Init: &syntax.Ident{Name: "y"},
	}
	first := varDecl(syntax.DeclConst, yDecl)
	second := varDecl(syntax.DeclConst, zDecl)

	// Execute
	got := Extract(f.module(first, second), second, zDecl)

	// Verify
	require.Len(t, got, 1)
	assert.Equal(t, "z", got[0].Name)
	assert.Equal(t, syntax.DeclConst, got[0].Def.Kind)
	require.NotNil(t, got[0].Def.TSType)
	assert.Equal(t, "string", got[0].Def.TSType.Keyword)
}

func TestExtract_AliasFallsBackToReferencedInitializer(t *testing.T) {
	t.Parallel()

	// Test: let z = y where y is const "hi" keeps the literal type of y
	f := fixture{t: t, src: `const y = "hi"; let z = y;`}
	yDecl := &syntax.VarDeclarator{Name: identPat("y", nil), Init: &syntax.StrLit{Value: "hi"}}
	zDecl := &syntax.VarDeclarator{Name: identPat("z", nil), Init: &syntax.Ident{Name: "y"}}
	first := varDecl(syntax.DeclConst, yDecl)
	second := varDecl(syntax.DeclLet, zDecl)

	got := Extract(f.module(first, second), second, zDecl)

	require.Len(t, got, 1)
	assert.Equal(t, syntax.DeclLet, got[0].Def.Kind)
	assert.Equal(t, `"hi"`, got[0].Def.TSType.String())

	// Test: a mutable referenced declaration is widened
	f = fixture{t: t, src: `let y = "hi"; const z = y;`}
	yDecl = &syntax.VarDeclarator{Name: identPat("y", nil), Init: &syntax.StrLit{Value: "hi"}}
	zDecl = &syntax.VarDeclarator{Name: identPat("z", nil), Init: &syntax.Ident{Name: "y"}}
	first = varDecl(syntax.DeclLet, yDecl)
	second = varDecl(syntax.DeclConst, zDecl)

	got = Extract(f.module(first, second), second, zDecl)

	require.Len(t, got, 1)
	assert.Equal(t, "string", got[0].Def.TSType.String())
}

func TestExtract_AliasSkipsNonVariableSites(t *testing.T) {
	t.Parallel()

	// Setup: `interface y {}` comes first, then `const y: number = 1`
	f := fixture{t: t, src: "interface y {} const y: number = 1; const z = y;"}
	yDecl := &syntax.VarDeclarator{Name: identPat("y", f.ann(f.kw("number"))), Init: &syntax.NumLit{Value: 1, Raw: "1"}}
	zDecl := &syntax.VarDeclarator{Name: identPat("z", nil), Init: &syntax.Ident{Name: "y"}}
	second := varDecl(syntax.DeclConst, zDecl)
	info := f.module(
		&syntax.InterfaceDecl{Ident: &syntax.Ident{Name: "y"}},
		varDecl(syntax.DeclConst, yDecl),
		second,
	)

	// Execute
	got := Extract(info, second, zDecl)

	// Verify
	require.Len(t, got, 1)
	assert.Equal(t, "number", got[0].Def.TSType.String())
}

func TestExtract_AliasToUnknownIdentifier(t *testing.T) {
	t.Parallel()

	f := fixture{t: t, src: "const z = missing;"}
	zDecl := &syntax.VarDeclarator{Name: identPat("z", nil), Init: &syntax.Ident{Name: "missing"}}
	decl := varDecl(syntax.DeclConst, zDecl)

	got := Extract(f.module(decl), decl, zDecl)

	require.Len(t, got, 1)
	assert.Equal(t, "z", got[0].Name)
	assert.Nil(t, got[0].Def.TSType)
}

func TestExtract_AnnotationTakesPrecedence(t *testing.T) {
	t.Parallel()

	// Test: the annotation wins over an aliased annotation
	f := fixture{t: t, src: "const y: string = ''; const z: number = y;"}
	yDecl := &syntax.VarDeclarator{Name: identPat("y", f.ann(f.kw("string"))), Init: &syntax.StrLit{}}
	zDecl := &syntax.VarDeclarator{Name: identPat("z", f.ann(f.kw("number"))), Init: &syntax.Ident{Name: "y"}}
	first := varDecl(syntax.DeclConst, yDecl)
	second := varDecl(syntax.DeclConst, zDecl)

	got := Extract(f.module(first, second), second, zDecl)

	require.Len(t, got, 1)
	assert.Equal(t, "number", got[0].Def.TSType.String())

	// Test: the annotation wins over the initializer's literal shape
	f = fixture{t: t, src: "const s: unknown = 1;"}
	d := &syntax.VarDeclarator{Name: identPat("s", f.ann(f.kw("unknown"))), Init: &syntax.NumLit{Value: 1, Raw: "1"}}
	decl := varDecl(syntax.DeclConst, d)

	got = Extract(f.module(decl), decl, d)

	require.Len(t, got, 1)
	assert.Equal(t, "unknown", got[0].Def.TSType.String())
}

func TestExtract_LocalInference(t *testing.T) {
	t.Parallel()

	f := fixture{t: t, src: "var n = 3, m = 4;"}
	n := &syntax.VarDeclarator{Name: identPat("n", nil), Init: &syntax.NumLit{Value: 3, Raw: "3"}}
	m := &syntax.VarDeclarator{Name: identPat("m", nil), Init: &syntax.NumLit{Value: 4, Raw: "4"}}
	decl := varDecl(syntax.DeclVar, n, m)
	info := f.module(decl)

	got := append(Extract(info, decl, n), Extract(info, decl, m)...)

	assert.Equal(t, []string{"n", "m"}, names(got))
	assert.Equal(t, []string{"number", "number"}, reprs(got))
	for _, b := range got {
		assert.Equal(t, syntax.DeclVar, b.Def.Kind)
	}
}

// typeLiteral builds `{ a: number; b: string }` from f's source.
func typeLiteral(f fixture, lit string) *syntax.TypeLit {
	return &syntax.TypeLit{
		Span: f.span(lit),
		Members: []syntax.TypeMember{
			&syntax.PropSig{Key: &syntax.IdentName{Name: "a"}, TypeAnn: &syntax.TypeAnn{Type: &syntax.KeywordType{Span: f.spanAfter(lit, "number"), Keyword: "number"}}},
			&syntax.PropSig{Key: &syntax.IdentName{Name: "b"}, TypeAnn: &syntax.TypeAnn{Type: &syntax.KeywordType{Span: f.spanAfter(lit, "string"), Keyword: "string"}}},
		},
	}
}

func TestExtract_ObjectDestructuringWithRename(t *testing.T) {
	t.Parallel()

	// Setup
	lit := "{ a: number; b: string }"
	f := fixture{t: t, src: "let { a, b: bb } : " + lit + " = obj;"}
	pat := &syntax.ObjectPat{
		Props: []syntax.ObjectPatProp{
			&syntax.AssignPatProp{Key: &syntax.Ident{Name: "a"}},
			&syntax.KeyValuePatProp{Key: &syntax.IdentName{Name: "b"}, Value: identPat("bb", nil)},
		},
		TypeAnn: f.ann(typeLiteral(f, lit)),
	}
	d := &syntax.VarDeclarator{Name: pat, Init: &syntax.Ident{Name: "obj"}}
	decl := varDecl(syntax.DeclLet, d)

	// Execute
	got := Extract(f.module(decl), decl, d)

	// Verify
	assert.Equal(t, []string{"a", "bb"}, names(got))
	assert.Equal(t, []string{"number", "string"}, reprs(got))
	for _, b := range got {
		assert.Equal(t, syntax.DeclLet, b.Def.Kind)
	}
}

func TestExtract_ObjectRestWithOwnAnnotation(t *testing.T) {
	t.Parallel()

	// Setup: the rest annotation cannot be written in source, so its type
	// node points at trailing text.
	lit := "{ a: number; b: string }"
	f := fixture{t: t, src: "const { a, ...rest }: " + lit + " = obj; Record<string,string>"}
	record := &syntax.TypeRef{
		Span: f.span("Record<string,string>"),
		Name: "Record",
		Args: []syntax.TypeNode{
			&syntax.KeywordType{Span: f.spanAfter("Record", "string"), Keyword: "string"},
			&syntax.KeywordType{Span: f.spanAfter("Record<string,", "string"), Keyword: "string"},
		},
	}
	pat := &syntax.ObjectPat{
		Props: []syntax.ObjectPatProp{
			&syntax.AssignPatProp{Key: &syntax.Ident{Name: "a"}},
			&syntax.RestPat{Arg: identPat("rest", nil), TypeAnn: f.ann(record)},
		},
		TypeAnn: f.ann(typeLiteral(f, lit)),
	}
	d := &syntax.VarDeclarator{Name: pat, Init: &syntax.Ident{Name: "obj"}}
	decl := varDecl(syntax.DeclConst, d)

	// Execute
	got := Extract(f.module(decl), decl, d)

	// Verify
	require.Len(t, got, 2)
	assert.Equal(t, []string{"a", "rest"}, names(got))
	assert.Equal(t, "number", got[0].Def.TSType.String())
	rest := got[1].Def.TSType
	require.NotNil(t, rest)
	assert.Equal(t, tstype.KindTypeRef, rest.Kind)
	assert.Equal(t, "Record<string,string>", rest.Repr)
	assert.Equal(t, syntax.DeclConst, got[1].Def.Kind)
}

func TestExtract_ObjectRestWithoutAnnotation(t *testing.T) {
	t.Parallel()

	lit := "{ a: number; b: string }"
	f := fixture{t: t, src: "const { ...rest }: " + lit + " = obj;"}
	pat := &syntax.ObjectPat{
		Props:   []syntax.ObjectPatProp{&syntax.RestPat{Arg: identPat("rest", nil)}},
		TypeAnn: f.ann(typeLiteral(f, lit)),
	}
	d := &syntax.VarDeclarator{Name: pat}
	decl := varDecl(syntax.DeclConst, d)

	got := Extract(f.module(decl), decl, d)

	require.Len(t, got, 1)
	assert.Equal(t, "rest", got[0].Name)
	assert.Nil(t, got[0].Def.TSType)
}

func TestExtract_ObjectNestedValueHasNoType(t *testing.T) {
	t.Parallel()

	lit := "{ a: number; b: string }"
	f := fixture{t: t, src: "const { a: { x }, b }: " + lit + " = obj;"}
	pat := &syntax.ObjectPat{
		Props: []syntax.ObjectPatProp{
			&syntax.KeyValuePatProp{
				Key:   &syntax.IdentName{Name: "a"},
				Value: &syntax.ObjectPat{Props: []syntax.ObjectPatProp{&syntax.AssignPatProp{Key: &syntax.Ident{Name: "x"}}}},
			},
			&syntax.AssignPatProp{Key: &syntax.Ident{Name: "b"}},
		},
		TypeAnn: f.ann(typeLiteral(f, lit)),
	}
	d := &syntax.VarDeclarator{Name: pat}
	decl := varDecl(syntax.DeclConst, d)

	got := Extract(f.module(decl), decl, d)

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Name)
	assert.Nil(t, got[0].Def.TSType)
	assert.Equal(t, "b", got[1].Name)
	assert.Equal(t, "string", got[1].Def.TSType.String())
}

func TestExtract_ObjectWithoutTypeLiteral(t *testing.T) {
	t.Parallel()

	// Test: a type reference has no property table to project from
	f := fixture{t: t, src: "const { a }: Foo = obj;"}
	pat := &syntax.ObjectPat{
		Props:   []syntax.ObjectPatProp{&syntax.AssignPatProp{Key: &syntax.Ident{Name: "a"}}},
		TypeAnn: f.ann(&syntax.TypeRef{Span: f.span("Foo"), Name: "Foo"}),
	}
	d := &syntax.VarDeclarator{Name: pat}
	decl := varDecl(syntax.DeclConst, d)

	got := Extract(f.module(decl), decl, d)

	require.Len(t, got, 1)
	assert.Nil(t, got[0].Def.TSType)
}

func TestExtract_ArrayOverTupleWithHole(t *testing.T) {
	t.Parallel()

	// Setup
	tuple := "[number, boolean, string]"
	f := fixture{t: t, src: "const [p, , q] : " + tuple + " = t;"}
	pat := &syntax.ArrayPat{
		Elems: []syntax.Pat{identPat("p", nil), nil, identPat("q", nil)},
		TypeAnn: f.ann(&syntax.TupleType{
			Span:  f.span(tuple),
			Elems: []syntax.TypeNode{f.kw("number"), f.kw("boolean"), f.kw("string")},
		}),
	}
	d := &syntax.VarDeclarator{Name: pat, Init: &syntax.Ident{Name: "t"}}
	decl := varDecl(syntax.DeclConst, d)

	// Execute
	got := Extract(f.module(decl), decl, d)

	// Verify
	assert.Equal(t, []string{"p", "q"}, names(got))
	assert.Equal(t, []string{"number", "string"}, reprs(got))
}

func TestExtract_ArrayRestOverArrayType(t *testing.T) {
	t.Parallel()

	// Setup
	f := fixture{t: t, src: "const [first, ...tail] : number[] = arr;"}
	arrType := &syntax.ArrayType{Span: f.span("number[]"), Elem: f.kw("number")}
	pat := &syntax.ArrayPat{
		Elems:   []syntax.Pat{identPat("first", nil), &syntax.RestPat{Arg: identPat("tail", nil)}},
		TypeAnn: f.ann(arrType),
	}
	d := &syntax.VarDeclarator{Name: pat, Init: &syntax.Ident{Name: "arr"}}
	decl := varDecl(syntax.DeclConst, d)

	// Execute
	got := Extract(f.module(decl), decl, d)

	// Verify
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Name)
	assert.Equal(t, tstype.KindKeyword, got[0].Def.TSType.Kind)
	assert.Equal(t, "number", got[0].Def.TSType.Keyword)
	assert.Equal(t, "tail", got[1].Name)
	require.NotNil(t, got[1].Def.TSType)
	assert.Equal(t, tstype.KindArray, got[1].Def.TSType.Kind)
	assert.Equal(t, "number[]", got[1].Def.TSType.Repr)
}

func TestExtract_ArrayEveryElementGetsElementType(t *testing.T) {
	t.Parallel()

	f := fixture{t: t, src: "let [a, b, c]: string[] = xs;"}
	pat := &syntax.ArrayPat{
		Elems:   []syntax.Pat{identPat("a", nil), identPat("b", nil), identPat("c", nil)},
		TypeAnn: f.ann(&syntax.ArrayType{Span: f.span("string[]"), Elem: f.kw("string")}),
	}
	d := &syntax.VarDeclarator{Name: pat}
	decl := varDecl(syntax.DeclLet, d)

	got := Extract(f.module(decl), decl, d)

	assert.Equal(t, []string{"a", "b", "c"}, names(got))
	assert.Equal(t, []string{"string", "string", "string"}, reprs(got))
}

func TestExtract_ArrayRestOverTuple(t *testing.T) {
	t.Parallel()

	// Test: [x, ...ys]: [number, string] gives ys no type, and an index past
	// the tuple gets none either
	f := fixture{t: t, src: "const [x, y, z, ...ys]: [number, string] = t;"}
	pat := &syntax.ArrayPat{
		Elems: []syntax.Pat{
			identPat("x", nil),
			identPat("y", nil),
			identPat("z", nil),
			&syntax.RestPat{Arg: identPat("ys", nil)},
		},
		TypeAnn: f.ann(&syntax.TupleType{
			Span:  f.span("[number, string]"),
			Elems: []syntax.TypeNode{f.kw("number"), f.kw("string")},
		}),
	}
	d := &syntax.VarDeclarator{Name: pat}
	decl := varDecl(syntax.DeclConst, d)

	got := Extract(f.module(decl), decl, d)

	require.Len(t, got, 4)
	assert.Equal(t, []string{"x", "y", "z", "ys"}, names(got))
	assert.Equal(t, "number", got[0].Def.TSType.String())
	assert.Equal(t, "string", got[1].Def.TSType.String())
	assert.Nil(t, got[2].Def.TSType)
	assert.Nil(t, got[3].Def.TSType)
}

func TestExtract_ArraySkipsUnsupportedElements(t *testing.T) {
	t.Parallel()

	f := fixture{t: t, src: "const [a = 1, [b], c, ...[d]]: number[] = xs;"}
	pat := &syntax.ArrayPat{
		Elems: []syntax.Pat{
			&syntax.AssignPat{Left: identPat("a", nil), Right: &syntax.NumLit{Value: 1, Raw: "1"}},
			&syntax.ArrayPat{Elems: []syntax.Pat{identPat("b", nil)}},
			identPat("c", nil),
			&syntax.RestPat{Arg: &syntax.ArrayPat{Elems: []syntax.Pat{identPat("d", nil)}}},
		},
		TypeAnn: f.ann(&syntax.ArrayType{Span: f.span("number[]"), Elem: f.kw("number")}),
	}
	d := &syntax.VarDeclarator{Name: pat}
	decl := varDecl(syntax.DeclConst, d)

	got := Extract(f.module(decl), decl, d)

	assert.Equal(t, []string{"c"}, names(got))
	assert.Equal(t, []string{"number"}, reprs(got))
}

func TestExtract_UnsupportedPattern(t *testing.T) {
	t.Parallel()

	f := fixture{t: t, src: "const x = 1;"}
	d := &syntax.VarDeclarator{Name: &syntax.InvalidPat{}, Init: &syntax.NumLit{Value: 1, Raw: "1"}}
	decl := varDecl(syntax.DeclConst, d)
	info := f.module(decl)

	assert.Empty(t, Extract(info, decl, d))

	assign := &syntax.VarDeclarator{Name: &syntax.AssignPat{Left: identPat("x", nil)}}
	assert.Empty(t, Extract(info, decl, assign))
	assert.Empty(t, Extract(info, nil, d))
}

func TestExtract_RestNotLastPanics(t *testing.T) {
	t.Parallel()

	f := fixture{t: t, src: "const x = 1;"}
	objDecl := &syntax.VarDeclarator{Name: &syntax.ObjectPat{Props: []syntax.ObjectPatProp{
		&syntax.RestPat{Arg: identPat("rest", nil)},
		&syntax.AssignPatProp{Key: &syntax.Ident{Name: "a"}},
	}}}
	arrDecl := &syntax.VarDeclarator{Name: &syntax.ArrayPat{Elems: []syntax.Pat{
		&syntax.RestPat{Arg: identPat("rest", nil)},
		identPat("a", nil),
	}}}
	decl := varDecl(syntax.DeclConst, objDecl, arrDecl)
	info := f.module(decl)

	assert.Panics(t, func() { Extract(info, decl, objDecl) })
	assert.Panics(t, func() { Extract(info, decl, arrDecl) })
}

func TestExtract_TypesAreOwned(t *testing.T) {
	t.Parallel()

	// Setup
	f := fixture{t: t, src: "const [a, b]: string[] = xs;"}
	arrType := &syntax.ArrayType{Span: f.span("string[]"), Elem: f.kw("string")}
	d := &syntax.VarDeclarator{Name: &syntax.ArrayPat{
		Elems:   []syntax.Pat{identPat("a", nil), identPat("b", nil)},
		TypeAnn: f.ann(arrType),
	}}
	decl := varDecl(syntax.DeclConst, d)

	// Execute
	got := Extract(f.module(decl), decl, d)

	// Verify
	require.Len(t, got, 2)
	require.NotSame(t, got[0].Def.TSType, got[1].Def.TSType)
	got[0].Def.TSType.Keyword = "changed"
	assert.Equal(t, "string", got[1].Def.TSType.Keyword)
}
