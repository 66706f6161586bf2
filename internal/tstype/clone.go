package tstype

// Clone returns a deep copy of t. Projected types are cloned so that
// bindings never share mutable structure with each other.
func (t *TypeDef) Clone() *TypeDef {
	if t == nil {
		return nil
	}
	c := *t
	if t.Literal != nil {
		lit := *t.Literal
		if lit.String != nil {
			s := *lit.String
			lit.String = &s
		}
		if lit.Number != nil {
			n := *lit.Number
			lit.Number = &n
		}
		if lit.Boolean != nil {
			v := *lit.Boolean
			lit.Boolean = &v
		}
		c.Literal = &lit
	}
	if t.TypeRef != nil {
		c.TypeRef = &TypeRefDef{
			TypeName:   t.TypeRef.TypeName,
			TypeParams: cloneList(t.TypeRef.TypeParams),
		}
	}
	c.Union = cloneList(t.Union)
	c.Intersection = cloneList(t.Intersection)
	c.Array = t.Array.Clone()
	c.Tuple = cloneList(t.Tuple)
	if t.TypeLiteral != nil {
		c.TypeLiteral = t.TypeLiteral.clone()
	}
	if t.FnOrConstructor != nil {
		fn := *t.FnOrConstructor
		fn.Params = cloneParams(fn.Params)
		fn.TypeParams = append([]string(nil), fn.TypeParams...)
		fn.TSType = fn.TSType.Clone()
		c.FnOrConstructor = &fn
	}
	c.Parenthesized = t.Parenthesized.Clone()
	c.Optional = t.Optional.Clone()
	c.Rest = t.Rest.Clone()
	if t.TypeOperator != nil {
		c.TypeOperator = &TypeOperatorDef{
			Operator: t.TypeOperator.Operator,
			TSType:   t.TypeOperator.TSType.Clone(),
		}
	}
	if t.IndexedAccess != nil {
		c.IndexedAccess = &IndexedAccessDef{
			ObjType:   t.IndexedAccess.ObjType.Clone(),
			IndexType: t.IndexedAccess.IndexType.Clone(),
		}
	}
	return &c
}

func (l *TypeLiteralDef) clone() *TypeLiteralDef {
	c := &TypeLiteralDef{
		Properties: make([]PropertyDef, len(l.Properties)),
	}
	for i, p := range l.Properties {
		p.TSType = p.TSType.Clone()
		c.Properties[i] = p
	}
	for _, m := range l.Methods {
		m.Params = cloneParams(m.Params)
		m.ReturnType = m.ReturnType.Clone()
		c.Methods = append(c.Methods, m)
	}
	for _, s := range l.CallSignatures {
		s.Params = cloneParams(s.Params)
		s.ReturnType = s.ReturnType.Clone()
		c.CallSignatures = append(c.CallSignatures, s)
	}
	for _, s := range l.IndexSignatures {
		s.Params = cloneParams(s.Params)
		s.TSType = s.TSType.Clone()
		c.IndexSignatures = append(c.IndexSignatures, s)
	}
	return c
}

func cloneList(types []*TypeDef) []*TypeDef {
	if types == nil {
		return nil
	}
	out := make([]*TypeDef, len(types))
	for i, t := range types {
		out[i] = t.Clone()
	}
	return out
}

func cloneParams(params []ParamDef) []ParamDef {
	if params == nil {
		return nil
	}
	out := make([]ParamDef, len(params))
	for i, p := range params {
		p.TSType = p.TSType.Clone()
		out[i] = p
	}
	return out
}
