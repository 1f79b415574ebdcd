// Package types defines the type expressions that values are validated
// against: scalars, Go classes, generic containers, unions, callables,
// NewTypes, TypeVars, forward references and records.
package types

import (
	"reflect"
)

// Kind identifies the shape of a type expression.
type Kind int

const (
	KindAny Kind = iota
	KindNone
	KindScalar
	KindClass
	KindList
	KindSet
	KindDict
	KindTuple
	KindUnion
	KindCallable
	KindNewType
	KindTypeVar
	KindRef
	KindRecord
)

var kindNames = map[Kind]string{
	KindAny:      "any",
	KindNone:     "none",
	KindScalar:   "scalar",
	KindClass:    "class",
	KindList:     "list",
	KindSet:      "set",
	KindDict:     "dict",
	KindTuple:    "tuple",
	KindUnion:    "union",
	KindCallable: "callable",
	KindNewType:  "newtype",
	KindTypeVar:  "typevar",
	KindRef:      "ref",
	KindRecord:   "record",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Type is a type expression. String returns the compact form used when the
// type is nested inside another expression; see Format for the top-level form.
type Type interface {
	Kind() Kind
	String() string
}

// Attribute is a named, typed slot that a value is validated for. A nil Type
// means the attribute is unconstrained.
type Attribute struct {
	Name string
	Type Type
}

type anyType struct{}

func (anyType) Kind() Kind     { return KindAny }
func (anyType) String() string { return "Any" }

type noneType struct{}

func (noneType) Kind() Kind     { return KindNone }
func (noneType) String() string { return "None" }

var (
	// Any accepts every value.
	Any Type = anyType{}

	// None accepts only nil.
	None Type = noneType{}
)

// Scalar is a builtin value type matched by reflect kind, so named Go types
// with a matching underlying kind are accepted too.
type Scalar struct {
	name   string
	accept func(t reflect.Type) bool
}

func (s *Scalar) Kind() Kind     { return KindScalar }
func (s *Scalar) String() string { return s.name }

// Name of the scalar, e.g. "str".
func (s *Scalar) Name() string { return s.name }

// Accepts reports whether values of the Go type t are instances of s.
func (s *Scalar) Accepts(t reflect.Type) bool {
	return t != nil && s.accept(t)
}

var (
	Str = &Scalar{name: "str", accept: func(t reflect.Type) bool {
		return t.Kind() == reflect.String
	}}
	Int = &Scalar{name: "int", accept: func(t reflect.Type) bool {
		switch t.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			return true
		}
		return false
	}}
	Float = &Scalar{name: "float", accept: func(t reflect.Type) bool {
		return t.Kind() == reflect.Float32 || t.Kind() == reflect.Float64
	}}
	Bool = &Scalar{name: "bool", accept: func(t reflect.Type) bool {
		return t.Kind() == reflect.Bool
	}}
	Bytes = &Scalar{name: "bytes", accept: func(t reflect.Type) bool {
		return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8
	}}
)

// Class matches values whose dynamic Go type is assignable to a reflect.Type.
// For interface types that means the value implements the interface.
type Class struct {
	typ reflect.Type
}

// ClassOf returns a Class for t.
func ClassOf(t reflect.Type) *Class {
	return &Class{typ: t}
}

func (c *Class) Kind() Kind     { return KindClass }
func (c *Class) String() string { return c.typ.String() }

// Type returns the wrapped Go type.
func (c *Class) Type() reflect.Type { return c.typ }

// Accepts reports whether values of the Go type t are instances of c.
func (c *Class) Accepts(t reflect.Type) bool {
	return t != nil && t.AssignableTo(c.typ)
}

// ListType is a homogeneous sequence: a Go slice or array.
type ListType struct {
	Elem Type
}

func List(elem Type) *ListType { return &ListType{Elem: elem} }

func (l *ListType) Kind() Kind     { return KindList }
func (l *ListType) String() string { return "List[" + l.Elem.String() + "]" }

// SetType is a Go set: a map whose values are struct{} or bool.
type SetType struct {
	Elem Type
}

func Set(elem Type) *SetType { return &SetType{Elem: elem} }

func (s *SetType) Kind() Kind     { return KindSet }
func (s *SetType) String() string { return "Set[" + s.Elem.String() + "]" }

// DictType is a Go map.
type DictType struct {
	Key   Type
	Value Type
}

func Dict(key, value Type) *DictType { return &DictType{Key: key, Value: value} }

func (d *DictType) Kind() Kind { return KindDict }
func (d *DictType) String() string {
	return "Dict[" + d.Key.String() + ", " + d.Value.String() + "]"
}

// TupleType is a fixed-arity sequence, or a homogeneous sequence of any
// length when Variadic is set (Tuple[T, ...]).
type TupleType struct {
	Elems    []Type
	Variadic bool
}

func Tuple(elems ...Type) *TupleType { return &TupleType{Elems: elems} }

// VarTuple is Tuple[elem, ...].
func VarTuple(elem Type) *TupleType { return &TupleType{Elems: []Type{elem}, Variadic: true} }

func (t *TupleType) Kind() Kind { return KindTuple }
func (t *TupleType) String() string {
	if t.Variadic {
		return "Tuple[" + t.Elems[0].String() + ", ...]"
	}
	if len(t.Elems) == 0 {
		return "Tuple[()]"
	}
	return "Tuple[" + joinTypes(t.Elems) + "]"
}

// UnionType accepts a value matching any of its members.
type UnionType struct {
	Members []Type
}

// Union returns the union of members. A single member is returned as is and
// nested unions are flattened.
func Union(members ...Type) Type {
	var flat []Type
	for _, m := range members {
		if u, ok := m.(*UnionType); ok {
			for _, inner := range u.Members {
				flat = appendUnique(flat, inner)
			}
			continue
		}
		flat = appendUnique(flat, m)
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return &UnionType{Members: flat}
}

// Optional is Union[t, None].
func Optional(t Type) Type { return Union(t, None) }

func (u *UnionType) Kind() Kind { return KindUnion }
func (u *UnionType) String() string {
	if inner, ok := u.optionalOf(); ok {
		return "Optional[" + inner.String() + "]"
	}
	return "Union[" + joinTypes(u.Members) + "]"
}

// HasNone reports whether None is one of the members.
func (u *UnionType) HasNone() bool {
	for _, m := range u.Members {
		if m.Kind() == KindNone {
			return true
		}
	}
	return false
}

func (u *UnionType) optionalOf() (Type, bool) {
	if len(u.Members) != 2 {
		return nil, false
	}
	switch {
	case u.Members[1].Kind() == KindNone:
		return u.Members[0], true
	case u.Members[0].Kind() == KindNone:
		return u.Members[1], true
	}
	return nil, false
}

// CallableType matches Go func values by signature. With AnyParams set the
// parameter list is not checked, and a nil Result additionally means the
// result is not checked either (a bare Callable).
type CallableType struct {
	Params    []Type
	Result    Type
	AnyParams bool
}

// Callable is Callable[[params...], result].
func Callable(params []Type, result Type) *CallableType {
	if params == nil {
		params = []Type{}
	}
	if result == nil {
		result = None
	}
	return &CallableType{Params: params, Result: result}
}

// CallableReturning is Callable[..., result].
func CallableReturning(result Type) *CallableType {
	if result == nil {
		result = None
	}
	return &CallableType{AnyParams: true, Result: result}
}

// AnyCallable is the bare Callable, matching every func.
func AnyCallable() *CallableType { return &CallableType{AnyParams: true} }

func (c *CallableType) Kind() Kind { return KindCallable }
func (c *CallableType) String() string {
	if c.Bare() {
		return "Callable"
	}
	params := "..."
	if !c.AnyParams {
		params = "[" + joinTypes(c.Params) + "]"
	}
	return "Callable[" + params + ", " + c.Result.String() + "]"
}

// Bare reports whether c matches every func.
func (c *CallableType) Bare() bool { return c.AnyParams && c.Result == nil }

// NewTypeType is a distinct name for an existing type. Values are validated
// against Super.
type NewTypeType struct {
	Name  string
	Super Type
}

func NewType(name string, super Type) *NewTypeType {
	return &NewTypeType{Name: name, Super: super}
}

func (n *NewTypeType) Kind() Kind     { return KindNewType }
func (n *NewTypeType) String() string { return n.Name }

// TypeVarType is a type variable. With a Bound, values must match the bound;
// with Constraints, values must match one of them; otherwise anything goes.
type TypeVarType struct {
	Name        string
	Bound       Type
	Constraints []Type
}

// TypeVar returns an unconstrained type variable, or one constrained to the
// given types.
func TypeVar(name string, constraints ...Type) *TypeVarType {
	return &TypeVarType{Name: name, Constraints: constraints}
}

// BoundTypeVar returns a type variable bound to bound.
func BoundTypeVar(name string, bound Type) *TypeVarType {
	return &TypeVarType{Name: name, Bound: bound}
}

func (v *TypeVarType) Kind() Kind     { return KindTypeVar }
func (v *TypeVarType) String() string { return "~" + v.Name }

// RefType is a forward reference to a named type, resolved through a
// Namespace when first needed.
type RefType struct {
	Name string
}

func Ref(name string) *RefType { return &RefType{Name: name} }

func (r *RefType) Kind() Kind     { return KindRef }
func (r *RefType) String() string { return r.Name }

func appendUnique(list []Type, t Type) []Type {
	for _, existing := range list {
		if Equal(existing, t) {
			return list
		}
	}
	return append(list, t)
}
