// Package variable documents the bindings introduced by a single variable
// declarator.
//
// A declarator may bind one name (`const x = 1`) or many through
// destructuring (`const { a, b: c, ...rest } = obj`). Extract resolves one
// type for the whole declarator and projects it through the pattern so that
// every bound name gets its own entry.
package variable

import (
	"github.com/mvp-joe/tsdoc/internal/symbols"
	"github.com/mvp-joe/tsdoc/internal/syntax"
	"github.com/mvp-joe/tsdoc/internal/tstype"
)

// ModuleInfo gives Extract access to the module source and its symbol table.
type ModuleInfo interface {
	Source() []byte
	SymbolFromIdent(id *syntax.Ident) *symbols.Symbol
}

// VariableDef is the documentation of one bound name.
type VariableDef struct {
	TSType *tstype.TypeDef `json:"tsType"`
	Kind   syntax.DeclKind `json:"kind"`
}

// Binding pairs a bound name with its documentation.
type Binding struct {
	Name string
	Def  VariableDef
}

// Extract returns one binding per name introduced by d, in source order.
// Patterns other than identifiers, object patterns and array patterns
// produce no bindings. Extract never modifies its inputs and the returned
// types share no structure with them.
func Extract(info ModuleInfo, decl *syntax.VarDecl, d *syntax.VarDeclarator) []Binding {
	if decl == nil || d == nil {
		return nil
	}
	ann, ok := classify(d.Name)
	if !ok {
		return nil
	}

	e := extractor{
		src:  info.Source(),
		kind: decl.Kind,
		top:  resolveTopType(info, decl, d, ann),
	}

	switch pat := d.Name.(type) {
	case *syntax.IdentPat:
		e.emit(pat.Ident.Name, e.top)
	case *syntax.ObjectPat:
		e.object(pat)
	case *syntax.ArrayPat:
		e.array(pat)
	}
	return e.out
}

// classify reports whether the pattern is one Extract documents, together
// with its top-level annotation.
func classify(p syntax.Pat) (*syntax.TypeAnn, bool) {
	switch p := p.(type) {
	case *syntax.IdentPat:
		if p.Ident == nil {
			return nil, false
		}
		return p.TypeAnn, true
	case *syntax.ObjectPat:
		return p.TypeAnn, true
	case *syntax.ArrayPat:
		return p.TypeAnn, true
	}
	return nil, false
}

// resolveTopType picks the type of the whole declarator: its own annotation,
// then the annotation or inferred shape of the identifier it is initialised
// from, then the inferred shape of its own initializer.
func resolveTopType(info ModuleInfo, decl *syntax.VarDecl, d *syntax.VarDeclarator, ann *syntax.TypeAnn) *tstype.TypeDef {
	src := info.Source()
	if ann != nil {
		if t := tstype.FromAnnotation(src, ann); t != nil {
			return t
		}
	}
	if ref, ok := d.Init.(*syntax.Ident); ok {
		if t := aliasedType(info, ref); t != nil {
			return t
		}
	}
	return tstype.InferSimpleTypeFromVarDecl(src, d, decl.Kind == syntax.DeclConst)
}

// aliasedType follows ref one hop to the declarations of the symbol it names.
// The first site with an annotated identifier binding or an inferable
// initializer wins.
func aliasedType(info ModuleInfo, ref *syntax.Ident) *tstype.TypeDef {
	sym := info.SymbolFromIdent(ref)
	if sym == nil {
		return nil
	}
	src := info.Source()
	for _, site := range sym.Decls {
		decl, d, ok := site.VarDeclarator()
		if !ok {
			continue
		}
		if id, ok := d.Name.(*syntax.IdentPat); ok && id.TypeAnn != nil {
			if t := tstype.FromAnnotation(src, id.TypeAnn); t != nil {
				return t
			}
		}
		if t := tstype.InferSimpleTypeFromVarDecl(src, d, decl.Kind == syntax.DeclConst); t != nil {
			return t
		}
	}
	return nil
}

type extractor struct {
	src  []byte
	kind syntax.DeclKind
	top  *tstype.TypeDef
	out  []Binding
}

func (e *extractor) emit(name string, t *tstype.TypeDef) {
	e.out = append(e.out, Binding{
		Name: name,
		Def:  VariableDef{TSType: t.Clone(), Kind: e.kind},
	})
}

func (e *extractor) object(pat *syntax.ObjectPat) {
	reachedRest := false
	for _, prop := range pat.Props {
		if reachedRest {
			panic("variable: object rest element is not last")
		}
		switch prop := prop.(type) {
		case *syntax.KeyValuePatProp:
			name := syntax.PropNameToString(e.src, prop.Key)
			if id, ok := prop.Value.(*syntax.IdentPat); ok && id.Ident != nil {
				e.emit(id.Ident.Name, e.property(name))
			} else {
				// nested patterns are not projected
				e.emit(name, nil)
			}
		case *syntax.AssignPatProp:
			if prop.Key == nil {
				continue
			}
			e.emit(prop.Key.Name, e.property(prop.Key.Name))
		case *syntax.RestPat:
			reachedRest = true
			id, ok := prop.Arg.(*syntax.IdentPat)
			if !ok || id.Ident == nil {
				continue
			}
			e.emit(id.Ident.Name, tstype.FromAnnotation(e.src, prop.TypeAnn))
		}
	}
}

// property projects the top-level type onto the first property named name.
func (e *extractor) property(name string) *tstype.TypeDef {
	if e.top == nil || e.top.Kind != tstype.KindTypeLiteral {
		return nil
	}
	t, _ := e.top.TypeLiteral.Property(name)
	return t
}

func (e *extractor) array(pat *syntax.ArrayPat) {
	reachedRest := false
	for i, elem := range pat.Elems {
		if reachedRest {
			panic("variable: array rest element is not last")
		}
		switch elem := elem.(type) {
		case nil:
			// hole
		case *syntax.IdentPat:
			if elem.Ident == nil {
				continue
			}
			e.emit(elem.Ident.Name, e.element(i))
		case *syntax.RestPat:
			reachedRest = true
			id, ok := elem.Arg.(*syntax.IdentPat)
			if !ok || id.Ident == nil {
				continue
			}
			t := tstype.FromAnnotation(e.src, elem.TypeAnn)
			if t == nil && e.top != nil && e.top.Kind == tstype.KindArray {
				t = e.top
			}
			e.emit(id.Ident.Name, t)
		}
	}
}

// element projects the top-level type onto position i.
func (e *extractor) element(i int) *tstype.TypeDef {
	if e.top == nil {
		return nil
	}
	switch e.top.Kind {
	case tstype.KindArray:
		return e.top.Array
	case tstype.KindTuple:
		if i < len(e.top.Tuple) {
			return e.top.Tuple[i]
		}
	}
	return nil
}
