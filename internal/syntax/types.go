package syntax

// TypeAnn is a `: Type` annotation.
type TypeAnn struct {
	Span
	Type TypeNode
}

// LitKind discriminates literal types.
type LitKind int

const (
	LitString LitKind = iota
	LitNumber
	LitBigInt
	LitBool
	LitTemplate
)

type (
	// TypeNode is a type expression.
	TypeNode interface {
		Node
		typeNode()
	}

	// KeywordType is a predefined type such as `number` or `unknown`.
	KeywordType struct {
		Span
		Keyword string
	}

	// TypeRef is a named type with optional type arguments.
	TypeRef struct {
		Span
		Name string
		Args []TypeNode
	}

	ArrayType struct {
		Span
		Elem TypeNode
	}

	TupleType struct {
		Span
		Elems []TypeNode
	}

	// TypeLit is an object type `{ ... }`.
	TypeLit struct {
		Span
		Members []TypeMember
	}

	UnionType struct {
		Span
		Types []TypeNode
	}

	IntersectionType struct {
		Span
		Types []TypeNode
	}

	LitType struct {
		Span
		Kind LitKind
		Str  string
		Num  float64
		Bool bool
		Raw  string
	}

	ParenType struct {
		Span
		Type TypeNode
	}

	// FnType is a function or constructor type.
	FnType struct {
		Span
		Params      []*Param
		Return      TypeNode
		TypeParams  []string
		Constructor bool
	}

	// TypeOperator is `keyof T`, `readonly T` or `unique T`.
	TypeOperator struct {
		Span
		Op   string
		Type TypeNode
	}

	// TypeQuery is `typeof expr`.
	TypeQuery struct {
		Span
		Expr string
	}

	OptionalType struct {
		Span
		Type TypeNode
	}

	RestType struct {
		Span
		Type TypeNode
	}

	IndexedAccessType struct {
		Span
		Obj   TypeNode
		Index TypeNode
	}

	// OtherType is type syntax the pipeline does not model.
	OtherType struct {
		Span
	}
)

func (*KeywordType) typeNode()       {}
func (*TypeRef) typeNode()           {}
func (*ArrayType) typeNode()         {}
func (*TupleType) typeNode()         {}
func (*TypeLit) typeNode()           {}
func (*UnionType) typeNode()         {}
func (*IntersectionType) typeNode()  {}
func (*LitType) typeNode()           {}
func (*ParenType) typeNode()         {}
func (*FnType) typeNode()            {}
func (*TypeOperator) typeNode()      {}
func (*TypeQuery) typeNode()         {}
func (*OptionalType) typeNode()      {}
func (*RestType) typeNode()          {}
func (*IndexedAccessType) typeNode() {}
func (*OtherType) typeNode()         {}

type (
	// TypeMember is a member of an object type.
	TypeMember interface {
		Node
		typeMemberNode()
	}

	// PropSig is `key?: Type`.
	PropSig struct {
		Span
		Key      PropName
		Optional bool
		Readonly bool
		TypeAnn  *TypeAnn
	}

	MethodSig struct {
		Span
		Key        PropName
		Optional   bool
		Params     []*Param
		ReturnType *TypeAnn
	}

	// IndexSig is `[key: K]: V`.
	IndexSig struct {
		Span
		Params   []*Param
		TypeAnn  *TypeAnn
		Readonly bool
	}

	CallSig struct {
		Span
		Params     []*Param
		ReturnType *TypeAnn
	}

	ConstructSig struct {
		Span
		Params     []*Param
		ReturnType *TypeAnn
	}
)

func (*PropSig) typeMemberNode()      {}
func (*MethodSig) typeMemberNode()    {}
func (*IndexSig) typeMemberNode()     {}
func (*CallSig) typeMemberNode()      {}
func (*ConstructSig) typeMemberNode() {}
