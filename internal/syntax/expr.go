package syntax

type (
	// Expr is an expression.
	Expr interface {
		Node
		exprNode()
	}

	// Ident is an identifier reference or binding.
	Ident struct {
		Span
		Name string
	}

	StrLit struct {
		Span
		Value string
	}

	NumLit struct {
		Span
		Value float64
		Raw   string
	}

	BigIntLit struct {
		Span
		Raw string
	}

	BoolLit struct {
		Span
		Value bool
	}

	NullLit struct {
		Span
	}

	RegexLit struct {
		Span
		Pattern string
		Flags   string
	}

	// TplLit is a template literal. Quasis has one more entry than Exprs.
	TplLit struct {
		Span
		Quasis []string
		Exprs  []Expr
	}

	ObjectLit struct {
		Span
		Props []ObjectLitProp
	}

	// ArrayLit is an array literal. Nil entries are holes.
	ArrayLit struct {
		Span
		Elems []Expr
	}

	NewExpr struct {
		Span
		Callee   Expr
		TypeArgs []TypeNode
	}

	FnExpr struct {
		Span
		Ident      *Ident
		Params     []*Param
		ReturnType *TypeAnn
		TypeParams []string
		Async      bool
		Generator  bool
	}

	ArrowExpr struct {
		Span
		Params     []*Param
		ReturnType *TypeAnn
		TypeParams []string
		Async      bool
	}

	// AsExpr is `expr as Type`. Type is nil and Const is set for `as const`.
	AsExpr struct {
		Span
		Expr  Expr
		Type  TypeNode
		Const bool
	}

	SatisfiesExpr struct {
		Span
		Expr Expr
		Type TypeNode
	}

	ParenExpr struct {
		Span
		Expr Expr
	}

	UnaryExpr struct {
		Span
		Op  string
		Arg Expr
	}

	// SpreadElem is `...expr` in an array or object literal.
	SpreadElem struct {
		Span
		Arg Expr
	}

	// OtherExpr is any expression the pipeline does not model.
	OtherExpr struct {
		Span
	}
)

func (*Ident) exprNode()         {}
func (*StrLit) exprNode()        {}
func (*NumLit) exprNode()        {}
func (*BigIntLit) exprNode()     {}
func (*BoolLit) exprNode()       {}
func (*NullLit) exprNode()       {}
func (*RegexLit) exprNode()      {}
func (*TplLit) exprNode()        {}
func (*ObjectLit) exprNode()     {}
func (*ArrayLit) exprNode()      {}
func (*NewExpr) exprNode()       {}
func (*FnExpr) exprNode()        {}
func (*ArrowExpr) exprNode()     {}
func (*AsExpr) exprNode()        {}
func (*SatisfiesExpr) exprNode() {}
func (*ParenExpr) exprNode()     {}
func (*UnaryExpr) exprNode()     {}
func (*SpreadElem) exprNode()    {}
func (*OtherExpr) exprNode()     {}

type (
	// ObjectLitProp is one member of an object literal.
	ObjectLitProp interface {
		Node
		objectLitPropNode()
	}

	KeyValueProp struct {
		Span
		Key   PropName
		Value Expr
	}

	ShorthandProp struct {
		Span
		Key *Ident
	}

	// MethodProp covers methods, getters and setters.
	MethodProp struct {
		Span
		Key PropName
	}
)

func (*KeyValueProp) objectLitPropNode()  {}
func (*ShorthandProp) objectLitPropNode() {}
func (*MethodProp) objectLitPropNode()    {}
func (*SpreadElem) objectLitPropNode()    {}

// Param is a function parameter.
type Param struct {
	Span
	Pat Pat
}
