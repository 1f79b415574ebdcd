package types

import (
	"reflect"
)

// FromGo returns the type expression describing the dynamic type of v.
func FromGo(v any) Type {
	return Of(reflect.TypeOf(v))
}

// For returns the type expression describing T.
func For[T any]() Type {
	return Of(reflect.TypeFor[T]())
}

// Of maps a Go type onto a type expression. Defined (named) types become
// classes so they keep their identity; unnamed builtins map onto scalars and
// generic containers. Functions map onto Callable with their results folded
// into None, the single result, or a Tuple.
func Of(t reflect.Type) Type {
	if t == nil {
		return None
	}
	if t.Name() != "" && t.PkgPath() != "" {
		if t.Kind() == reflect.Interface && t.NumMethod() == 0 {
			return Any
		}
		return ClassOf(t)
	}

	switch t.Kind() {
	case reflect.String:
		return Str

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Int

	case reflect.Float32, reflect.Float64:
		return Float

	case reflect.Bool:
		return Bool

	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return Bytes
		}
		return List(Of(t.Elem()))

	case reflect.Array:
		return List(Of(t.Elem()))

	case reflect.Map:
		if isSetElem(t.Elem()) && t.Elem().Kind() == reflect.Struct {
			return Set(Of(t.Key()))
		}
		return Dict(Of(t.Key()), Of(t.Elem()))

	case reflect.Func:
		return Signature(t)

	case reflect.Interface:
		if t.NumMethod() == 0 {
			return Any
		}
		return ClassOf(t)

	default:
		return ClassOf(t)
	}
}

// Signature returns the Callable describing the func type t, which may be a
// defined type such as http.HandlerFunc.
func Signature(t reflect.Type) *CallableType {
	params := make([]Type, t.NumIn())
	for i := 0; i < t.NumIn(); i++ {
		params[i] = Of(t.In(i))
	}
	var result Type
	switch t.NumOut() {
	case 0:
		result = None
	case 1:
		result = Of(t.Out(0))
	default:
		results := make([]Type, t.NumOut())
		for i := 0; i < t.NumOut(); i++ {
			results[i] = Of(t.Out(i))
		}
		result = Tuple(results...)
	}
	return Callable(params, result)
}

// isSetElem reports whether a map with element type t is used as a set.
func isSetElem(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Struct:
		return t.NumField() == 0
	case reflect.Bool:
		return true
	}
	return false
}

// IsSetMap reports whether t is a map used as a set (map[K]struct{} or
// map[K]bool).
func IsSetMap(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Map && isSetElem(t.Elem())
}
