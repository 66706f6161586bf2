package syntax

import (
	"strconv"
	"strings"
)

type (
	// Pat is a binding pattern.
	Pat interface {
		Node
		patNode()
	}

	// IdentPat binds a single name, optionally annotated.
	IdentPat struct {
		Span
		Ident    *Ident
		TypeAnn  *TypeAnn
		Optional bool
	}

	// ObjectPat is an object destructuring pattern. A rest property, if
	// present, is the last element of Props.
	ObjectPat struct {
		Span
		Props   []ObjectPatProp
		TypeAnn *TypeAnn
	}

	// ArrayPat is an array destructuring pattern. Nil entries in Elems are
	// holes. A rest element, if present, is the last element.
	ArrayPat struct {
		Span
		Elems   []Pat
		TypeAnn *TypeAnn
	}

	// RestPat is `...arg` inside an object or array pattern.
	RestPat struct {
		Span
		Arg     Pat
		TypeAnn *TypeAnn
	}

	// AssignPat is a pattern with a default value.
	AssignPat struct {
		Span
		Left  Pat
		Right Expr
	}

	// InvalidPat is a pattern the parser could not lower.
	InvalidPat struct {
		Span
	}
)

func (*IdentPat) patNode()   {}
func (*ObjectPat) patNode()  {}
func (*ArrayPat) patNode()   {}
func (*RestPat) patNode()    {}
func (*AssignPat) patNode()  {}
func (*InvalidPat) patNode() {}

type (
	// ObjectPatProp is one property of an object pattern.
	ObjectPatProp interface {
		Node
		objectPatPropNode()
	}

	// KeyValuePatProp is `key: pattern`.
	KeyValuePatProp struct {
		Span
		Key   PropName
		Value Pat
	}

	// AssignPatProp is a shorthand property, `key` or `key = default`.
	AssignPatProp struct {
		Span
		Key   *Ident
		Value Expr
	}
)

func (*KeyValuePatProp) objectPatPropNode() {}
func (*AssignPatProp) objectPatPropNode()   {}
func (*RestPat) objectPatPropNode()         {}

type (
	// PropName is a property key.
	PropName interface {
		Node
		propNameNode()
	}

	IdentName struct {
		Span
		Name string
	}

	StrName struct {
		Span
		Value string
	}

	NumName struct {
		Span
		Value float64
		Raw   string
	}

	BigIntName struct {
		Span
		Raw string
	}

	// ComputedName is `[expr]`.
	ComputedName struct {
		Span
		Expr Expr
	}
)

func (*IdentName) propNameNode()    {}
func (*StrName) propNameNode()      {}
func (*NumName) propNameNode()      {}
func (*BigIntName) propNameNode()   {}
func (*ComputedName) propNameNode() {}

// PropNameToString renders a property key the way it is looked up in a
// type literal's property table.
func PropNameToString(src []byte, key PropName) string {
	switch k := key.(type) {
	case *IdentName:
		return k.Name
	case *StrName:
		return k.Value
	case *NumName:
		return strconv.FormatFloat(k.Value, 'g', -1, 64)
	case *BigIntName:
		return strings.TrimSuffix(k.Raw, "n")
	case *ComputedName:
		if k.Expr == nil {
			return k.Text(src)
		}
		return "[" + k.Expr.Pos().Text(src) + "]"
	}
	return ""
}

// BindingIdents returns every identifier a pattern binds, in source order.
func BindingIdents(p Pat) []*Ident {
	var out []*Ident
	var walk func(Pat)
	walk = func(p Pat) {
		switch p := p.(type) {
		case *IdentPat:
			if p.Ident != nil {
				out = append(out, p.Ident)
			}
		case *ObjectPat:
			for _, prop := range p.Props {
				switch prop := prop.(type) {
				case *KeyValuePatProp:
					walk(prop.Value)
				case *AssignPatProp:
					if prop.Key != nil {
						out = append(out, prop.Key)
					}
				case *RestPat:
					walk(prop.Arg)
				}
			}
		case *ArrayPat:
			for _, elem := range p.Elems {
				if elem != nil {
					walk(elem)
				}
			}
		case *RestPat:
			walk(p.Arg)
		case *AssignPat:
			walk(p.Left)
		}
	}
	walk(p)
	return out
}
