package types

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrDuplicateName is returned when a name is registered twice.
var ErrDuplicateName = errors.New("name already registered")

// maxRefDepth bounds chains of references to references.
const maxRefDepth = 32

// Namespace resolves names to types.
type Namespace interface {
	Lookup(name string) (Type, bool)
}

// UnresolvedReferenceError is returned when a forward reference names a type
// that no namespace knows about.
type UnresolvedReferenceError struct {
	Name string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("unresolved type reference %q", e.Name)
}

// CyclicReferenceError is returned when a reference leads back to itself
// without passing through a container or record.
type CyclicReferenceError struct {
	Name string
}

func (e *CyclicReferenceError) Error() string {
	return fmt.Sprintf("type reference %q refers to itself without a container or record", e.Name)
}

// Registry is a concurrency-safe Namespace that types can be added to.
type Registry struct {
	mu    sync.RWMutex
	types map[string]Type
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]Type)}
}

// Default is the registry consulted last when resolving references.
var Default = NewRegistry()

// Register adds t under name.
func (r *Registry) Register(name string, t Type) error {
	if name == "" {
		return fmt.Errorf("cannot register type without a name")
	}
	if t == nil {
		return fmt.Errorf("cannot register nil type as %q", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.types[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	r.types[name] = t
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, t Type) {
	if err := r.Register(name, t); err != nil {
		panic(err)
	}
}

// Lookup implements Namespace.
func (r *Registry) Lookup(name string) (Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type chain []Namespace

func (c chain) Lookup(name string) (Type, bool) {
	for _, ns := range c {
		if ns == nil {
			continue
		}
		if t, ok := ns.Lookup(name); ok {
			return t, true
		}
	}
	return nil, false
}

// Chain returns a Namespace that consults each namespace in order. Nil
// namespaces are skipped.
func Chain(namespaces ...Namespace) Namespace {
	return chain(namespaces)
}

// ResolveRef follows a reference until it names a non-reference type.
func ResolveRef(ref *RefType, ns Namespace) (Type, error) {
	var t Type = ref
	for depth := 0; depth < maxRefDepth; depth++ {
		r, ok := t.(*RefType)
		if !ok {
			return t, nil
		}
		if ns == nil {
			return nil, &UnresolvedReferenceError{Name: r.Name}
		}
		resolved, found := ns.Lookup(r.Name)
		if !found {
			return nil, &UnresolvedReferenceError{Name: r.Name}
		}
		t = resolved
	}
	return nil, fmt.Errorf("type reference %q: too many levels of indirection", ref.Name)
}

// Resolve returns t with every reference replaced by the type it names.
// Records are nominal and are not descended into, and a reference met again
// while its own type is being expanded is left in place, so recursive types
// resolve lazily during validation.
func Resolve(t Type, ns Namespace) (Type, error) {
	return resolve(t, ns, make(map[string]bool))
}

func resolve(t Type, ns Namespace, active map[string]bool) (Type, error) {
	switch t := t.(type) {
	case nil:
		return nil, nil
	case *RefType:
		if active[t.Name] {
			return t, nil
		}
		resolved, err := ResolveRef(t, ns)
		if err != nil {
			return nil, err
		}
		active[t.Name] = true
		defer delete(active, t.Name)
		return resolve(resolved, ns, active)
	case *ListType:
		elem, err := resolve(t.Elem, ns, active)
		if err != nil {
			return nil, err
		}
		return List(elem), nil
	case *SetType:
		elem, err := resolve(t.Elem, ns, active)
		if err != nil {
			return nil, err
		}
		return Set(elem), nil
	case *DictType:
		key, err := resolve(t.Key, ns, active)
		if err != nil {
			return nil, err
		}
		value, err := resolve(t.Value, ns, active)
		if err != nil {
			return nil, err
		}
		return Dict(key, value), nil
	case *TupleType:
		elems, err := resolveList(t.Elems, ns, active)
		if err != nil {
			return nil, err
		}
		return &TupleType{Elems: elems, Variadic: t.Variadic}, nil
	case *UnionType:
		members, err := resolveList(t.Members, ns, active)
		if err != nil {
			return nil, err
		}
		return Union(members...), nil
	case *CallableType:
		params, err := resolveList(t.Params, ns, active)
		if err != nil {
			return nil, err
		}
		result, err := resolve(t.Result, ns, active)
		if err != nil {
			return nil, err
		}
		return &CallableType{Params: params, Result: result, AnyParams: t.AnyParams}, nil
	case *NewTypeType:
		super, err := resolve(t.Super, ns, active)
		if err != nil {
			return nil, err
		}
		return NewType(t.Name, super), nil
	case *TypeVarType:
		bound, err := resolve(t.Bound, ns, active)
		if err != nil {
			return nil, err
		}
		constraints, err := resolveList(t.Constraints, ns, active)
		if err != nil {
			return nil, err
		}
		return &TypeVarType{Name: t.Name, Bound: bound, Constraints: constraints}, nil
	default:
		return t, nil
	}
}

// Unresolved returns the names of references in t that ns cannot resolve,
// descending into records once each.
func Unresolved(t Type, ns Namespace) []string {
	seen := make(map[string]bool)
	var missing []string
	var walk func(t Type)
	walk = func(t Type) {
		switch t := t.(type) {
		case nil:
		case *RefType:
			if seen["ref:"+t.Name] {
				return
			}
			seen["ref:"+t.Name] = true
			resolved, err := ResolveRef(t, ns)
			if err != nil {
				missing = append(missing, t.Name)
				return
			}
			walk(resolved)
		case *RecordType:
			if seen["record:"+t.Name] {
				return
			}
			seen["record:"+t.Name] = true
			for _, f := range t.Fields {
				walk(f.Type)
			}
		case *NewTypeType:
			walk(t.Super)
		case *TypeVarType:
			walk(t.Bound)
			for _, c := range t.Constraints {
				walk(c)
			}
		default:
			for _, arg := range Args(t) {
				walk(arg)
			}
		}
	}
	walk(t)
	return missing
}

// Unproductive returns the names of references in t that lead back to
// themselves through unions, NewTypes and TypeVars alone, without passing
// through a container or record. No value can be checked against such a
// type in finite time.
func Unproductive(t Type, ns Namespace) []string {
	reported := make(map[string]bool)
	var cycles []string
	path := make(map[string]bool)
	var walk func(t Type)
	walk = func(t Type) {
		switch t := t.(type) {
		case *RefType:
			if path[t.Name] {
				if !reported[t.Name] {
					reported[t.Name] = true
					cycles = append(cycles, t.Name)
				}
				return
			}
			resolved, err := ResolveRef(t, ns)
			if err != nil {
				return
			}
			path[t.Name] = true
			walk(resolved)
			delete(path, t.Name)
		case *UnionType:
			for _, m := range t.Members {
				walk(m)
			}
		case *NewTypeType:
			walk(t.Super)
		case *TypeVarType:
			walk(t.Bound)
			for _, c := range t.Constraints {
				walk(c)
			}
		}
	}
	walk(t)
	return cycles
}

func resolveList(list []Type, ns Namespace, active map[string]bool) ([]Type, error) {
	if list == nil {
		return nil, nil
	}
	out := make([]Type, len(list))
	for i, t := range list {
		resolved, err := resolve(t, ns, active)
		if err != nil {
			return nil, err
		}
		out[i] = resolved
	}
	return out, nil
}
