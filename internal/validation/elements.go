package validation

import (
	"errors"
	"reflect"

	"github.com/deepnoodle-ai/strict/internal/typeerr"
	"github.com/deepnoodle-ai/strict/slogger"
	"github.com/deepnoodle-ai/strict/types"
)

// checker validates the value of one attribute. Nested record fields get a
// checker of their own so errors name the full field path.
type checker struct {
	attr   types.Attribute
	ns     types.Namespace
	logger slogger.Logger

	// references expanded since the last container or record was entered
	expanding map[string]bool
	// type comparisons in progress
	matching map[string]bool
}

// descend returns a checker for the elements of a container of the same
// attribute.
func (c *checker) descend() *checker {
	return &checker{attr: c.attr, ns: c.ns, logger: c.logger}
}

func (c *checker) validateElements(value any, expected types.Type) error {
	if expected == nil {
		return nil
	}

	switch t := expected.(type) {
	case *types.RefType:
		return c.validateRef(value, t)
	case *types.NewTypeType:
		return c.validateElements(value, t.Super)
	case *types.TypeVarType:
		switch {
		case t.Bound != nil:
			return c.validateElements(value, t.Bound)
		case len(t.Constraints) > 0:
			return c.handleUnionLike(value, t, t.Constraints)
		}
		return nil
	case *types.UnionType:
		return c.handleUnionLike(value, t, t.Members)
	}

	if expected.Kind() == types.KindAny {
		return nil
	}
	if !isInstance(value, expected) {
		return &typeerr.AttributeTypeError{Value: value, Attribute: c.attr}
	}

	switch t := expected.(type) {
	case *types.ListType:
		return c.handleSequence(value, t.Elem)
	case *types.SetType:
		return c.handleSet(value, t.Elem)
	case *types.DictType:
		return c.handleDict(value, t)
	case *types.TupleType:
		return c.handleTuple(value, t)
	case *types.CallableType:
		return c.handleCallable(value, t)
	case *types.RecordType:
		return c.handleRecord(value, t)
	}
	return nil
}

func (c *checker) validateRef(value any, ref *types.RefType) error {
	if c.expanding[ref.Name] {
		return &types.CyclicReferenceError{Name: ref.Name}
	}
	resolved, err := types.ResolveRef(ref, c.ns)
	if err != nil {
		return err
	}
	c.logger.Debug("resolved forward reference", "attribute", c.attr.Name, "ref", ref.Name, "type", resolved.String())

	if c.expanding == nil {
		c.expanding = make(map[string]bool)
	}
	c.expanding[ref.Name] = true
	defer delete(c.expanding, ref.Name)
	return c.validateElements(value, resolved)
}

func (c *checker) handleSequence(container any, elem types.Type) error {
	rv := reflect.ValueOf(container)
	inner := c.descend()
	for i := 0; i < rv.Len(); i++ {
		if err := inner.validateElements(rv.Index(i).Interface(), elem); err != nil {
			return addContainer(err, container)
		}
	}
	return nil
}

func (c *checker) handleSet(container any, elem types.Type) error {
	inner := c.descend()
	for _, key := range sortedKeys(reflect.ValueOf(container)) {
		if err := inner.validateElements(key.Interface(), elem); err != nil {
			return addContainer(err, container)
		}
	}
	return nil
}

func (c *checker) handleDict(container any, expected *types.DictType) error {
	rv := reflect.ValueOf(container)
	inner := c.descend()
	for _, key := range sortedKeys(rv) {
		if err := inner.validateElements(key.Interface(), expected.Key); err != nil {
			return addContainer(err, container)
		}
		if err := inner.validateElements(rv.MapIndex(key).Interface(), expected.Value); err != nil {
			return addContainer(err, container)
		}
	}
	return nil
}

func (c *checker) handleTuple(container any, expected *types.TupleType) error {
	rv := reflect.ValueOf(container)
	tupleTypes := expected.Elems
	if expected.Variadic {
		tupleTypes = make([]types.Type, rv.Len())
		for i := range tupleTypes {
			tupleTypes[i] = expected.Elems[0]
		}
	}

	if rv.Len() != len(tupleTypes) {
		return &typeerr.TupleError{Container: container, AttributeType: c.attr.Type, TupleTypes: tupleTypes}
	}

	inner := c.descend()
	for i, elemType := range tupleTypes {
		if err := inner.validateElements(rv.Index(i).Interface(), elemType); err != nil {
			return addContainer(err, container)
		}
	}
	return nil
}

func (c *checker) handleCallable(fn any, expected *types.CallableType) error {
	if expected.Bare() {
		return nil
	}
	signature := types.Signature(reflect.TypeOf(fn))
	actualArgs := types.Args(signature)
	if expected.AnyParams {
		actualArgs = []types.Type{signature.Result}
	}
	expectedArgs := types.Args(expected)

	for i := 0; i < max(len(actualArgs), len(expectedArgs)); i++ {
		actual, want := argAt(actualArgs, i), argAt(expectedArgs, i)
		if !c.typeMatching(actual, want) {
			return &typeerr.CallableError{
				Attribute: c.attr,
				Signature: signature,
				Callable:  expected,
				Mismatch:  actual,
				Expected:  want,
			}
		}
	}
	return nil
}

func (c *checker) handleUnionLike(value any, unionLike types.Type, members []types.Type) error {
	if isNone(value) {
		for _, m := range members {
			if m.Kind() == types.KindNone {
				return nil
			}
		}
	}

	for _, m := range members {
		err := c.validateElements(value, m)
		if err == nil {
			return nil
		}
		var (
			bad   typeerr.BadTypeError
			cycle *types.CyclicReferenceError
		)
		if errors.As(err, &cycle) {
			c.logger.Debug("union member refers back to itself", "attribute", c.attr.Name, "member", m.String())
			continue
		}
		if !errors.As(err, &bad) {
			return err
		}
		c.logger.Debug("union member rejected value", "attribute", c.attr.Name, "member", m.String(), "error", err)
	}
	return &typeerr.UnionLikeError{Value: value, AttributeName: c.attr.Name, UnionType: unionLike}
}

func (c *checker) handleRecord(value any, record *types.RecordType) error {
	fields := fieldsOf(value)
	for _, f := range record.Fields {
		attr := types.Attribute{Name: joinPath(c.attr.Name, f.Name), Type: f.Type}
		v, ok := fields.lookup(f.Name)
		if !ok {
			if f.Required {
				return &typeerr.MissingAttributeError{Record: record.Name, Attribute: attr}
			}
			continue
		}
		if f.NonEmpty && isEmpty(v) {
			return &typeerr.EmptyError{Value: v, Attribute: attr}
		}
		child := &checker{attr: attr, ns: c.ns, logger: c.logger}
		if err := child.validateElements(v, f.Type); err != nil {
			return err
		}
	}

	if record.Closed && fields.isMap {
		for _, key := range fields.keys {
			if _, declared := record.Field(key); declared || record.Ignored(key) {
				continue
			}
			return &typeerr.UnknownAttributeError{Record: record.Name, Path: c.attr.Name, Key: key}
		}
	}
	return nil
}

func addContainer(err error, container any) error {
	var bad typeerr.BadTypeError
	if errors.As(err, &bad) {
		bad.AddContainer(container)
	}
	return err
}

func argAt(args []types.Type, i int) types.Type {
	if i < len(args) {
		return args[i]
	}
	return nil
}
