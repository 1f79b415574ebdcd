package validation

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/deepnoodle-ai/strict/types"
)

// isNone reports whether v stands for a missing value: untyped nil, or a nil
// pointer or interface. Nil slices and maps are empty collections, not None.
func isNone(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// isEmpty reports whether v is falsy: None, a zero scalar, or an empty
// string or collection.
func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array, reflect.Chan:
		return rv.Len() == 0
	case reflect.Ptr, reflect.Interface, reflect.Func:
		return rv.IsNil()
	}
	return rv.IsZero()
}

// isInstance reports whether value is an instance of the structural type t,
// without looking at elements.
func isInstance(value any, t types.Type) bool {
	if t.Kind() == types.KindNone {
		return isNone(value)
	}
	if isNone(value) {
		return false
	}
	rt := reflect.TypeOf(value)
	switch t := t.(type) {
	case *types.Scalar:
		return t.Accepts(rt)
	case *types.Class:
		return t.Accepts(rt)
	case *types.ListType, *types.TupleType:
		return rt.Kind() == reflect.Slice || rt.Kind() == reflect.Array
	case *types.SetType:
		return types.IsSetMap(rt)
	case *types.DictType:
		return rt.Kind() == reflect.Map
	case *types.CallableType:
		return rt.Kind() == reflect.Func && !reflect.ValueOf(value).IsNil()
	case *types.RecordType:
		return isRecordValue(rt)
	}
	return false
}

func isRecordValue(rt reflect.Type) bool {
	switch rt.Kind() {
	case reflect.Map:
		return rt.Key().Kind() == reflect.String
	case reflect.Struct:
		return true
	case reflect.Ptr:
		return rt.Elem().Kind() == reflect.Struct
	}
	return false
}

// sortedKeys returns the keys of a map value ordered by their printed form so
// that the first reported failure is stable.
func sortedKeys(rv reflect.Value) []reflect.Value {
	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
	})
	return keys
}

// recordFields exposes the named values of a record-shaped value.
type recordFields struct {
	lookup func(name string) (any, bool)
	keys   []string
	isMap  bool
}

func fieldsOf(value any) recordFields {
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}

	if rv.Kind() == reflect.Map {
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		keyType := rv.Type().Key()
		return recordFields{
			isMap: true,
			keys:  keys,
			lookup: func(name string) (any, bool) {
				v := rv.MapIndex(reflect.ValueOf(name).Convert(keyType))
				if !v.IsValid() {
					return nil, false
				}
				return v.Interface(), true
			},
		}
	}

	index := structFieldIndex(rv.Type())
	return recordFields{
		lookup: func(name string) (any, bool) {
			i, ok := index[name]
			if !ok {
				return nil, false
			}
			fv, err := rv.FieldByIndexErr(i)
			if err != nil {
				return nil, false
			}
			return fv.Interface(), true
		},
	}
}

// structFieldIndex maps the json name (or Go name) of every exported field to
// its index.
func structFieldIndex(t reflect.Type) map[string][]int {
	index := make(map[string][]int, t.NumField())
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		name := f.Name
		if tag := f.Tag.Get("json"); tag != "" {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		index[name] = f.Index
	}
	return index
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
