package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/tsdoc/internal/syntax"
)

// lowerer converts a tree-sitter tree into the syntax model. It only holds
// the source; every lowered node owns its data.
type lowerer struct {
	src []byte
}

func (l *lowerer) text(n *sitter.Node) string {
	return nodeText(n, l.src)
}

func (l *lowerer) ident(n *sitter.Node) *syntax.Ident {
	if n == nil {
		return nil
	}
	return &syntax.Ident{Span: spanOf(n), Name: l.text(n)}
}

// program lowers the top-level statements and attaches to each the JSDoc
// comment directly in front of it.
func (l *lowerer) program(root *sitter.Node) []syntax.Stmt {
	var (
		body    []syntax.Stmt
		pending string
	)
	for i := 0; i < int(root.NamedChildCount()); i++ {
		n := root.NamedChild(uint(i))
		if n == nil {
			continue
		}
		if n.Kind() == "comment" {
			if text := l.text(n); strings.HasPrefix(text, "/**") && !strings.HasPrefix(text, "/**/") {
				pending = text
			}
			continue
		}
		stmt := l.stmt(n)
		attachJSDoc(stmt, pending)
		pending = ""
		body = append(body, stmt)
	}
	return body
}

func attachJSDoc(stmt syntax.Stmt, doc string) {
	if doc == "" {
		return
	}
	switch s := stmt.(type) {
	case *syntax.VarDecl:
		s.JSDoc = doc
	case *syntax.ExportDecl:
		s.JSDoc = doc
		attachJSDoc(s.Decl, doc)
	}
}

func (l *lowerer) stmt(n *sitter.Node) syntax.Stmt {
	switch n.Kind() {
	case "lexical_declaration", "variable_declaration":
		return l.varDecl(n)
	case "export_statement":
		decl := n.ChildByFieldName("declaration")
		if decl == nil {
			return &syntax.OtherStmt{Span: spanOf(n)}
		}
		return &syntax.ExportDecl{
			Span:    spanOf(n),
			Decl:    l.stmt(decl),
			Default: hasToken(n, "default"),
		}
	case "ambient_declaration":
		inner := firstNamedChild(n)
		if inner == nil {
			return &syntax.OtherStmt{Span: spanOf(n)}
		}
		stmt := l.stmt(inner)
		switch s := stmt.(type) {
		case *syntax.VarDecl:
			s.Declare = true
		case *syntax.FnDecl:
			s.Declare = true
		case *syntax.ClassDecl:
			s.Declare = true
		}
		return stmt
	case "function_declaration", "generator_function_declaration", "function_signature":
		return &syntax.FnDecl{Span: spanOf(n), Ident: l.ident(n.ChildByFieldName("name"))}
	case "class_declaration", "abstract_class_declaration":
		return &syntax.ClassDecl{Span: spanOf(n), Ident: l.ident(n.ChildByFieldName("name"))}
	case "interface_declaration":
		return &syntax.InterfaceDecl{Span: spanOf(n), Ident: l.ident(n.ChildByFieldName("name"))}
	case "type_alias_declaration":
		return &syntax.TypeAliasDecl{
			Span:  spanOf(n),
			Ident: l.ident(n.ChildByFieldName("name")),
			Type:  l.typeNode(n.ChildByFieldName("value")),
		}
	case "enum_declaration":
		return &syntax.EnumDecl{
			Span:  spanOf(n),
			Ident: l.ident(n.ChildByFieldName("name")),
			Const: hasToken(n, "const"),
		}
	case "import_statement":
		return l.importDecl(n)
	}
	return &syntax.OtherStmt{Span: spanOf(n)}
}

func (l *lowerer) varDecl(n *sitter.Node) *syntax.VarDecl {
	decl := &syntax.VarDecl{Span: spanOf(n), Kind: syntax.DeclVar}
	if n.Kind() == "lexical_declaration" {
		decl.Kind = syntax.DeclConst
		if kind, err := syntax.ParseDeclKind(l.text(n.ChildByFieldName("kind"))); err == nil {
			decl.Kind = kind
		}
	}
	for _, child := range namedChildren(n) {
		if child.Kind() == "variable_declarator" {
			decl.Decls = append(decl.Decls, l.declarator(child))
		}
	}
	return decl
}

func (l *lowerer) declarator(n *sitter.Node) *syntax.VarDeclarator {
	d := &syntax.VarDeclarator{
		Span:     spanOf(n),
		Name:     l.pat(n.ChildByFieldName("name")),
		Definite: hasToken(n, "!"),
	}
	if value := n.ChildByFieldName("value"); value != nil {
		d.Init = l.expr(value)
	}
	if ann := l.typeAnn(n.ChildByFieldName("type")); ann != nil {
		d.Name = withTypeAnn(d.Name, ann)
	}
	return d
}

func (l *lowerer) importDecl(n *sitter.Node) *syntax.ImportDecl {
	decl := &syntax.ImportDecl{
		Span:     spanOf(n),
		Src:      unquote(l.text(n.ChildByFieldName("source"))),
		TypeOnly: hasToken(n, "type"),
	}
	clause := findChildByType(n, "import_clause")
	for _, c := range namedChildren(clause) {
		switch c.Kind() {
		case "identifier":
			decl.Specifiers = append(decl.Specifiers, &syntax.ImportSpecifier{
				Span:  spanOf(c),
				Local: l.ident(c),
			})
		case "namespace_import":
			decl.Specifiers = append(decl.Specifiers, &syntax.ImportSpecifier{
				Span:      spanOf(c),
				Local:     l.ident(firstNamedChild(c)),
				Namespace: true,
			})
		case "named_imports":
			for _, spec := range namedChildren(c) {
				if spec.Kind() != "import_specifier" {
					continue
				}
				name := spec.ChildByFieldName("name")
				local := name
				if alias := spec.ChildByFieldName("alias"); alias != nil {
					local = alias
				}
				decl.Specifiers = append(decl.Specifiers, &syntax.ImportSpecifier{
					Span:     spanOf(spec),
					Local:    l.ident(local),
					Imported: unquote(l.text(name)),
				})
			}
		}
	}
	return decl
}
