package syntax

import "fmt"

// DeclKind is the keyword that introduced a variable declaration.
type DeclKind int

const (
	// DeclVar is a `var` declaration.
	DeclVar DeclKind = iota
	// DeclLet is a mutable block binding.
	DeclLet
	// DeclConst is an immutable binding.
	DeclConst
)

func (k DeclKind) String() string {
	switch k {
	case DeclVar:
		return "var"
	case DeclLet:
		return "let"
	case DeclConst:
		return "const"
	default:
		return fmt.Sprintf("DeclKind(%d)", int(k))
	}
}

// MarshalText encodes the kind as its keyword.
func (k DeclKind) MarshalText() ([]byte, error) {
	switch k {
	case DeclVar, DeclLet, DeclConst:
		return []byte(k.String()), nil
	}
	return nil, fmt.Errorf("unknown declaration kind %d", int(k))
}

// UnmarshalText decodes a keyword into a kind.
func (k *DeclKind) UnmarshalText(text []byte) error {
	kind, err := ParseDeclKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// ParseDeclKind maps a declaration keyword to its kind.
func ParseDeclKind(s string) (DeclKind, error) {
	switch s {
	case "var":
		return DeclVar, nil
	case "let":
		return DeclLet, nil
	case "const":
		return DeclConst, nil
	}
	return DeclVar, fmt.Errorf("unknown declaration keyword %q", s)
}

type (
	// Stmt is a top-level statement.
	Stmt interface {
		Node
		stmtNode()
	}

	// VarDecl is a `var`, `let` or `const` statement.
	VarDecl struct {
		Span
		Kind    DeclKind
		Decls   []*VarDeclarator
		Declare bool
		JSDoc   string
	}

	// VarDeclarator is one `pattern [= init]` entry of a VarDecl.
	VarDeclarator struct {
		Span
		Name     Pat
		Init     Expr
		Definite bool
	}

	// ExportDecl wraps an exported declaration.
	ExportDecl struct {
		Span
		Decl    Stmt
		Default bool
		JSDoc   string
	}

	FnDecl struct {
		Span
		Ident   *Ident
		Declare bool
	}

	ClassDecl struct {
		Span
		Ident   *Ident
		Declare bool
	}

	InterfaceDecl struct {
		Span
		Ident *Ident
	}

	TypeAliasDecl struct {
		Span
		Ident *Ident
		Type  TypeNode
	}

	EnumDecl struct {
		Span
		Ident *Ident
		Const bool
	}

	// ImportDecl introduces local bindings for imported names.
	ImportDecl struct {
		Span
		Specifiers []*ImportSpecifier
		Src        string
		TypeOnly   bool
	}

	// ImportSpecifier is a single imported binding.
	// Imported is empty for default and namespace imports.
	ImportSpecifier struct {
		Span
		Local     *Ident
		Imported  string
		Namespace bool
	}

	// OtherStmt is any statement the documentation pipeline ignores.
	OtherStmt struct {
		Span
	}
)

func (*VarDecl) stmtNode()       {}
func (*ExportDecl) stmtNode()    {}
func (*FnDecl) stmtNode()        {}
func (*ClassDecl) stmtNode()     {}
func (*InterfaceDecl) stmtNode() {}
func (*TypeAliasDecl) stmtNode() {}
func (*EnumDecl) stmtNode()      {}
func (*ImportDecl) stmtNode()    {}
func (*OtherStmt) stmtNode()     {}

// Unwrap returns the declaration inside an export, or the statement itself.
func Unwrap(s Stmt) Stmt {
	if e, ok := s.(*ExportDecl); ok {
		return e.Decl
	}
	return s
}
