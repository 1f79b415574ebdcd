package types

// Equal reports whether a and b are the same type expression. Unions compare
// without regard to member order; records, refs and TypeVars compare by name.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch a := a.(type) {
	case anyType, noneType:
		return true
	case *Scalar:
		return a.name == b.(*Scalar).name
	case *Class:
		return a.typ == b.(*Class).typ
	case *ListType:
		return Equal(a.Elem, b.(*ListType).Elem)
	case *SetType:
		return Equal(a.Elem, b.(*SetType).Elem)
	case *DictType:
		bd := b.(*DictType)
		return Equal(a.Key, bd.Key) && Equal(a.Value, bd.Value)
	case *TupleType:
		bt := b.(*TupleType)
		return a.Variadic == bt.Variadic && equalList(a.Elems, bt.Elems)
	case *UnionType:
		bu := b.(*UnionType)
		if len(a.Members) != len(bu.Members) {
			return false
		}
		for _, m := range a.Members {
			if !contains(bu.Members, m) {
				return false
			}
		}
		return true
	case *CallableType:
		bc := b.(*CallableType)
		if a.AnyParams != bc.AnyParams || !Equal(a.Result, bc.Result) {
			return false
		}
		return a.AnyParams || equalList(a.Params, bc.Params)
	case *NewTypeType:
		bn := b.(*NewTypeType)
		return a.Name == bn.Name && Equal(a.Super, bn.Super)
	case *TypeVarType:
		bv := b.(*TypeVarType)
		return a.Name == bv.Name && Equal(a.Bound, bv.Bound) && equalList(a.Constraints, bv.Constraints)
	case *RefType:
		return a.Name == b.(*RefType).Name
	case *RecordType:
		return a.Name == b.(*RecordType).Name
	}
	return false
}

// Args returns the type arguments of a generic type: the element of a list
// or set, key and value of a dict, tuple elements, union members, or the
// parameters followed by the result of a callable.
func Args(t Type) []Type {
	switch t := t.(type) {
	case *ListType:
		return []Type{t.Elem}
	case *SetType:
		return []Type{t.Elem}
	case *DictType:
		return []Type{t.Key, t.Value}
	case *TupleType:
		return t.Elems
	case *UnionType:
		return t.Members
	case *CallableType:
		if t.AnyParams {
			if t.Result == nil {
				return nil
			}
			return []Type{t.Result}
		}
		args := make([]Type, 0, len(t.Params)+1)
		args = append(args, t.Params...)
		return append(args, t.Result)
	}
	return nil
}

// IsGeneric reports whether t is one of the parameterized container kinds.
func IsGeneric(t Type) bool {
	switch t.Kind() {
	case KindList, KindSet, KindDict, KindTuple, KindCallable:
		return true
	}
	return false
}

func equalList(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func contains(list []Type, t Type) bool {
	for _, m := range list {
		if Equal(m, t) {
			return true
		}
	}
	return false
}
