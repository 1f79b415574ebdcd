// Package typeerr defines the errors reported when a value does not match the
// type declared for its attribute.
package typeerr

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/deepnoodle-ai/strict/types"
)

// TypeValidationError is implemented by every type validation failure.
type TypeValidationError interface {
	error
	typeValidationError()
}

// BadTypeError is a validation failure caused by a value of the wrong shape.
// When the offending value sits inside collections, each enclosing container
// is recorded, innermost first.
type BadTypeError interface {
	TypeValidationError
	AddContainer(container any)
	Containers() []any
}

var (
	_ BadTypeError = (*AttributeTypeError)(nil)
	_ BadTypeError = (*TupleError)(nil)
	_ BadTypeError = (*UnionLikeError)(nil)
	_ BadTypeError = (*CallableError)(nil)
	_ BadTypeError = (*EmptyError)(nil)
	_ BadTypeError = (*MissingAttributeError)(nil)
	_ BadTypeError = (*UnknownAttributeError)(nil)
)

// containerTrail is embedded by every BadTypeError implementation.
type containerTrail struct {
	containers []any
}

func (c *containerTrail) typeValidationError() {}

// AddContainer records container as the next enclosing collection.
func (c *containerTrail) AddContainer(container any) {
	c.containers = append(c.containers, container)
}

// Containers returns the enclosing collections, innermost first.
func (c *containerTrail) Containers() []any {
	return c.containers
}

func (c *containerTrail) render(msg string) string {
	if len(c.containers) == 0 {
		return msg
	}
	parts := make([]string, len(c.containers))
	for i, container := range c.containers {
		parts[i] = formatValue(container)
	}
	return msg + " in " + strings.Join(parts, " in ")
}

// AttributeTypeError reports a value that is not an instance of the type
// declared for its attribute.
type AttributeTypeError struct {
	containerTrail
	Value     any
	Attribute types.Attribute
}

func (e *AttributeTypeError) Error() string {
	return e.render(fmt.Sprintf("%s must be %s (got %s that is a %s)",
		e.Attribute.Name, types.Format(e.Attribute.Type), formatValue(e.Value), typeName(e.Value)))
}

// TupleError reports a tuple whose length does not match its declared types.
type TupleError struct {
	containerTrail
	Container     any
	AttributeType types.Type
	TupleTypes    []types.Type
}

func (e *TupleError) Error() string {
	received := lenOf(e.Container)
	comparison := "more"
	if received < len(e.TupleTypes) {
		comparison = "fewer"
	}
	return e.render(fmt.Sprintf("Element %s has %s elements than types specified in %s. Expected %d received %d",
		formatValue(e.Container), comparison, types.Format(e.AttributeType), len(e.TupleTypes), received))
}

// UnionLikeError reports a value that matches none of the members of a union
// or of a constrained TypeVar.
type UnionLikeError struct {
	containerTrail
	Value         any
	AttributeName string
	UnionType     types.Type
}

func (e *UnionLikeError) Error() string {
	return e.render(fmt.Sprintf("Value of %s %s is not of type %s",
		e.AttributeName, formatValue(e.Value), types.Format(e.UnionType)))
}

// CallableError reports a func whose signature does not match the expected
// Callable. Mismatch and Expected are the first differing pair of argument
// types; either is nil when the signatures differ in length.
type CallableError struct {
	containerTrail
	Attribute types.Attribute
	Signature types.Type
	Callable  types.Type
	Mismatch  types.Type
	Expected  types.Type
}

func (e *CallableError) Error() string {
	return e.render(fmt.Sprintf("%s must be %s (got %s): %s is not %s",
		e.Attribute.Name, types.Format(e.Callable), types.Format(e.Signature),
		describeArg(e.Mismatch), describeArg(e.Expected)))
}

// EmptyError reports an empty value for an attribute that must not be empty.
type EmptyError struct {
	containerTrail
	Value     any
	Attribute types.Attribute
}

func (e *EmptyError) Error() string {
	return e.render(fmt.Sprintf("%s can not be empty (got %s)", e.Attribute.Name, formatValue(e.Value)))
}

// MissingAttributeError reports a required record field that has no value.
type MissingAttributeError struct {
	containerTrail
	Record    string
	Attribute types.Attribute
}

func (e *MissingAttributeError) Error() string {
	return e.render(fmt.Sprintf("%s is required by %s (expected %s)",
		e.Attribute.Name, e.Record, types.Format(e.Attribute.Type)))
}

// UnknownAttributeError reports a key that a closed record does not declare.
type UnknownAttributeError struct {
	containerTrail
	Record string
	Path   string
	Key    string
}

func (e *UnknownAttributeError) Error() string {
	name := e.Key
	if e.Path != "" {
		name = e.Path + "." + e.Key
	}
	return e.render(fmt.Sprintf("%s is not an attribute of %s", name, e.Record))
}

func formatValue(v any) string {
	if v == nil {
		return "None"
	}
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", v)
}

func lenOf(v any) int {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.String, reflect.Chan:
		return rv.Len()
	}
	return 0
}

func typeName(v any) string {
	if v == nil {
		return "None"
	}
	return reflect.TypeOf(v).String()
}

func describeArg(t types.Type) string {
	if t == nil {
		return "missing"
	}
	return types.Format(t)
}
