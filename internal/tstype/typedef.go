package tstype

// Kind discriminates the shape of a TypeDef. The empty kind marks syntax
// that is not modelled; Repr still carries its source text.
type Kind string

const (
	KindKeyword         Kind = "keyword"
	KindLiteral         Kind = "literal"
	KindTypeRef         Kind = "typeRef"
	KindUnion           Kind = "union"
	KindIntersection    Kind = "intersection"
	KindArray           Kind = "array"
	KindTuple           Kind = "tuple"
	KindTypeLiteral     Kind = "typeLiteral"
	KindFnOrConstructor Kind = "fnOrConstructor"
	KindParenthesized   Kind = "parenthesized"
	KindOptional        Kind = "optional"
	KindRest            Kind = "rest"
	KindTypeOperator    Kind = "typeOperator"
	KindTypeQuery       Kind = "typeQuery"
	KindIndexedAccess   Kind = "indexedAccess"
)

// TypeDef is the documentation model of a type. Exactly one of the shape
// fields is set, matching Kind.
type TypeDef struct {
	Repr            string              `json:"repr"`
	Kind            Kind                `json:"kind,omitempty"`
	Keyword         string              `json:"keyword,omitempty"`
	Literal         *LiteralDef         `json:"literal,omitempty"`
	TypeRef         *TypeRefDef         `json:"typeRef,omitempty"`
	Union           []*TypeDef          `json:"union,omitempty"`
	Intersection    []*TypeDef          `json:"intersection,omitempty"`
	Array           *TypeDef            `json:"array,omitempty"`
	Tuple           []*TypeDef          `json:"tuple,omitempty"`
	TypeLiteral     *TypeLiteralDef     `json:"typeLiteral,omitempty"`
	FnOrConstructor *FnOrConstructorDef `json:"fnOrConstructor,omitempty"`
	Parenthesized   *TypeDef            `json:"parenthesized,omitempty"`
	Optional        *TypeDef            `json:"optional,omitempty"`
	Rest            *TypeDef            `json:"rest,omitempty"`
	TypeOperator    *TypeOperatorDef    `json:"typeOperator,omitempty"`
	TypeQuery       string              `json:"typeQuery,omitempty"`
	IndexedAccess   *IndexedAccessDef   `json:"indexedAccess,omitempty"`
}

// LiteralKind discriminates literal types.
type LiteralKind string

const (
	LiteralString   LiteralKind = "string"
	LiteralNumber   LiteralKind = "number"
	LiteralBigInt   LiteralKind = "bigInt"
	LiteralBoolean  LiteralKind = "boolean"
	LiteralTemplate LiteralKind = "template"
)

type LiteralDef struct {
	Kind    LiteralKind `json:"kind"`
	String  *string     `json:"string,omitempty"`
	Number  *float64    `json:"number,omitempty"`
	Boolean *bool       `json:"boolean,omitempty"`
}

type TypeRefDef struct {
	TypeName   string     `json:"typeName"`
	TypeParams []*TypeDef `json:"typeParams,omitempty"`
}

// TypeLiteralDef is an object type. Properties are looked up by name in
// declaration order.
type TypeLiteralDef struct {
	Properties      []PropertyDef       `json:"properties"`
	Methods         []MethodDef         `json:"methods,omitempty"`
	CallSignatures  []SignatureDef      `json:"callSignatures,omitempty"`
	IndexSignatures []IndexSignatureDef `json:"indexSignatures,omitempty"`
}

type PropertyDef struct {
	Name     string   `json:"name"`
	Optional bool     `json:"optional"`
	Readonly bool     `json:"readonly"`
	Computed bool     `json:"computed"`
	TSType   *TypeDef `json:"tsType"`
}

type MethodDef struct {
	Name       string     `json:"name"`
	Optional   bool       `json:"optional"`
	Params     []ParamDef `json:"params"`
	ReturnType *TypeDef   `json:"returnType"`
}

type SignatureDef struct {
	Params     []ParamDef `json:"params"`
	ReturnType *TypeDef   `json:"returnType"`
}

type IndexSignatureDef struct {
	Readonly bool       `json:"readonly"`
	Params   []ParamDef `json:"params"`
	TSType   *TypeDef   `json:"tsType"`
}

// ParamDef is a parameter of a function type or signature. Name holds the
// source text of destructured parameters.
type ParamDef struct {
	Name     string   `json:"name"`
	Optional bool     `json:"optional"`
	Rest     bool     `json:"rest"`
	TSType   *TypeDef `json:"tsType"`
}

type FnOrConstructorDef struct {
	Constructor bool       `json:"constructor"`
	Params      []ParamDef `json:"params"`
	TypeParams  []string   `json:"typeParams,omitempty"`
	TSType      *TypeDef   `json:"tsType"`
}

type TypeOperatorDef struct {
	Operator string   `json:"operator"`
	TSType   *TypeDef `json:"tsType"`
}

type IndexedAccessDef struct {
	ObjType   *TypeDef `json:"objType"`
	IndexType *TypeDef `json:"indexType"`
}

// Keyword returns the predefined type with the given name.
func Keyword(name string) *TypeDef {
	return &TypeDef{Repr: name, Kind: KindKeyword, Keyword: name}
}

// StringLiteral returns the literal type of a string value.
func StringLiteral(s string) *TypeDef {
	t := &TypeDef{
		Kind:    KindLiteral,
		Literal: &LiteralDef{Kind: LiteralString, String: &s},
	}
	t.Repr = t.String()
	return t
}

// NumberLiteral returns the literal type of a number value.
func NumberLiteral(n float64) *TypeDef {
	t := &TypeDef{
		Kind:    KindLiteral,
		Literal: &LiteralDef{Kind: LiteralNumber, Number: &n},
	}
	t.Repr = t.String()
	return t
}

// BooleanLiteral returns `true` or `false` as a type.
func BooleanLiteral(b bool) *TypeDef {
	t := &TypeDef{
		Kind:    KindLiteral,
		Literal: &LiteralDef{Kind: LiteralBoolean, Boolean: &b},
	}
	t.Repr = t.String()
	return t
}

// RefOf returns a type reference.
func RefOf(name string, args ...*TypeDef) *TypeDef {
	t := &TypeDef{
		Kind:    KindTypeRef,
		TypeRef: &TypeRefDef{TypeName: name, TypeParams: args},
	}
	t.Repr = t.String()
	return t
}

// ArrayOf returns `elem[]`.
func ArrayOf(elem *TypeDef) *TypeDef {
	t := &TypeDef{Kind: KindArray, Array: elem}
	t.Repr = t.String()
	return t
}

// TupleOf returns `[elems...]`.
func TupleOf(elems ...*TypeDef) *TypeDef {
	t := &TypeDef{Kind: KindTuple, Tuple: elems}
	t.Repr = t.String()
	return t
}

// UnionOf returns `a | b | ...`.
func UnionOf(types ...*TypeDef) *TypeDef {
	t := &TypeDef{Kind: KindUnion, Union: types}
	t.Repr = t.String()
	return t
}

// Prop builds a property for TypeLiteralOf.
func Prop(name string, t *TypeDef) PropertyDef {
	return PropertyDef{Name: name, TSType: t}
}

// TypeLiteralOf returns an object type with the given properties.
func TypeLiteralOf(props ...PropertyDef) *TypeDef {
	if props == nil {
		props = []PropertyDef{}
	}
	t := &TypeDef{Kind: KindTypeLiteral, TypeLiteral: &TypeLiteralDef{Properties: props}}
	t.Repr = t.String()
	return t
}

// Property returns the type of the first property named name, and whether
// such a property exists. The returned type may be nil.
func (l *TypeLiteralDef) Property(name string) (*TypeDef, bool) {
	if l == nil {
		return nil, false
	}
	for i := range l.Properties {
		if l.Properties[i].Name == name {
			return l.Properties[i].TSType, true
		}
	}
	return nil, false
}
