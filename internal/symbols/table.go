// Package symbols hoists the top-level bindings of a module into a single
// module scope so that identifier references can be resolved to their
// declaration sites.
package symbols

import "github.com/mvp-joe/tsdoc/internal/syntax"

// SiteKind is the kind of declaration that introduced a binding.
type SiteKind int

const (
	SiteVar SiteKind = iota
	SiteFunction
	SiteClass
	SiteInterface
	SiteTypeAlias
	SiteEnum
	SiteImport
)

func (k SiteKind) String() string {
	switch k {
	case SiteVar:
		return "var"
	case SiteFunction:
		return "function"
	case SiteClass:
		return "class"
	case SiteInterface:
		return "interface"
	case SiteTypeAlias:
		return "typeAlias"
	case SiteEnum:
		return "enum"
	case SiteImport:
		return "import"
	}
	return "unknown"
}

// DeclSite is one declaration of a symbol. Decl and Declarator are set only
// for variable sites.
type DeclSite struct {
	Kind       SiteKind
	Span       syntax.Span
	Decl       *syntax.VarDecl
	Declarator *syntax.VarDeclarator
}

// VarDeclarator returns the declaration and declarator of a variable site.
func (s DeclSite) VarDeclarator() (*syntax.VarDecl, *syntax.VarDeclarator, bool) {
	if s.Kind != SiteVar || s.Decl == nil || s.Declarator == nil {
		return nil, nil, false
	}
	return s.Decl, s.Declarator, true
}

// Symbol is a module-scope name with its declaration sites in source order.
type Symbol struct {
	Name  string
	Decls []DeclSite
}

// Table is the module scope of a single source file.
type Table struct {
	symbols map[string]*Symbol
	order   []*Symbol
}

// Build hoists every top-level binding of mod.
func Build(mod *syntax.Module) *Table {
	t := &Table{symbols: make(map[string]*Symbol)}
	if mod == nil {
		return t
	}
	for _, stmt := range mod.Body {
		t.hoist(syntax.Unwrap(stmt))
	}
	return t
}

func (t *Table) hoist(stmt syntax.Stmt) {
	switch s := stmt.(type) {
	case *syntax.VarDecl:
		for _, d := range s.Decls {
			for _, id := range syntax.BindingIdents(d.Name) {
				t.declare(id, DeclSite{Kind: SiteVar, Span: d.Span, Decl: s, Declarator: d})
			}
		}
	case *syntax.FnDecl:
		t.declare(s.Ident, DeclSite{Kind: SiteFunction, Span: s.Span})
	case *syntax.ClassDecl:
		t.declare(s.Ident, DeclSite{Kind: SiteClass, Span: s.Span})
	case *syntax.InterfaceDecl:
		t.declare(s.Ident, DeclSite{Kind: SiteInterface, Span: s.Span})
	case *syntax.TypeAliasDecl:
		t.declare(s.Ident, DeclSite{Kind: SiteTypeAlias, Span: s.Span})
	case *syntax.EnumDecl:
		t.declare(s.Ident, DeclSite{Kind: SiteEnum, Span: s.Span})
	case *syntax.ImportDecl:
		for _, spec := range s.Specifiers {
			t.declare(spec.Local, DeclSite{Kind: SiteImport, Span: spec.Span})
		}
	}
}

func (t *Table) declare(id *syntax.Ident, site DeclSite) {
	if id == nil || id.Name == "" {
		return
	}
	sym, ok := t.symbols[id.Name]
	if !ok {
		sym = &Symbol{Name: id.Name}
		t.symbols[id.Name] = sym
		t.order = append(t.order, sym)
	}
	sym.Decls = append(sym.Decls, site)
}

// Lookup returns the symbol declared under name, or nil.
func (t *Table) Lookup(name string) *Symbol {
	return t.symbols[name]
}

// Resolve returns the symbol an identifier reference refers to, or nil when
// it is not declared at module scope.
func (t *Table) Resolve(id *syntax.Ident) *Symbol {
	if id == nil {
		return nil
	}
	return t.symbols[id.Name]
}

// Symbols returns all symbols in order of first declaration.
func (t *Table) Symbols() []*Symbol {
	return t.order
}

// ModuleInfo bundles a parsed module with its symbol table.
type ModuleInfo struct {
	mod   *syntax.Module
	table *Table
}

// NewModuleInfo builds the symbol table for mod.
func NewModuleInfo(mod *syntax.Module) *ModuleInfo {
	return &ModuleInfo{mod: mod, table: Build(mod)}
}

func (m *ModuleInfo) Module() *syntax.Module { return m.mod }

func (m *ModuleInfo) Table() *Table { return m.table }

func (m *ModuleInfo) Source() []byte {
	if m.mod == nil {
		return nil
	}
	return m.mod.Source
}

func (m *ModuleInfo) SymbolFromIdent(id *syntax.Ident) *Symbol {
	return m.table.Resolve(id)
}
