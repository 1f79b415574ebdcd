package validation

import (
	"github.com/deepnoodle-ai/strict/types"
)

// typeMatching reports whether the declared type of a func argument or result
// satisfies the type expected by a Callable. Unlike value validation it
// compares type expressions, so a union matches when any member does.
func (c *checker) typeMatching(actual, expected types.Type) bool {
	if actual == nil || expected == nil {
		return actual == nil && expected == nil
	}
	// A comparison met again while it is still open can only be decided by
	// itself, so it does not match.
	key := actual.String() + " <: " + expected.String()
	if c.matching[key] {
		return false
	}
	if c.matching == nil {
		c.matching = make(map[string]bool)
	}
	c.matching[key] = true
	defer delete(c.matching, key)

	actual, expected = c.simplify(actual), c.simplify(expected)

	if expected.Kind() == types.KindAny || types.Equal(actual, expected) {
		return true
	}

	switch e := expected.(type) {
	case *types.UnionType:
		return c.matchesAny(actual, e.Members)
	case *types.TypeVarType:
		return c.matchesAny(actual, e.Constraints)
	}

	if actual.Kind() != expected.Kind() || !types.IsGeneric(expected) {
		return false
	}
	if at, ok := actual.(*types.TupleType); ok && at.Variadic != expected.(*types.TupleType).Variadic {
		return false
	}
	if ac, ok := actual.(*types.CallableType); ok && ac.AnyParams != expected.(*types.CallableType).AnyParams {
		return false
	}

	actualArgs, expectedArgs := types.Args(actual), types.Args(expected)
	for i := 0; i < max(len(actualArgs), len(expectedArgs)); i++ {
		if !c.typeMatching(argAt(actualArgs, i), argAt(expectedArgs, i)) {
			return false
		}
	}
	return true
}

func (c *checker) matchesAny(actual types.Type, members []types.Type) bool {
	for _, m := range members {
		if c.typeMatching(actual, m) {
			return true
		}
	}
	return false
}

// simplify reduces t to the type that decides matching: references are
// resolved, NewTypes become their supertype and a bound TypeVar its bound. An
// unconstrained TypeVar matches anything.
func (c *checker) simplify(t types.Type) types.Type {
	seen := make(map[string]bool)
	for {
		switch v := t.(type) {
		case *types.RefType:
			if seen[v.Name] {
				return t
			}
			seen[v.Name] = true
			resolved, err := types.ResolveRef(v, c.ns)
			if err != nil {
				return t
			}
			t = resolved
		case *types.NewTypeType:
			t = v.Super
		case *types.TypeVarType:
			switch {
			case v.Bound != nil:
				t = v.Bound
			case len(v.Constraints) == 0:
				return types.Any
			default:
				return t
			}
		default:
			return t
		}
	}
}
