package strict

import (
	"github.com/deepnoodle-ai/strict/internal/typeerr"
	"github.com/deepnoodle-ai/strict/internal/validation"
	"github.com/deepnoodle-ai/strict/types"
)

// Error kinds.
type (
	TypeValidationError   = typeerr.TypeValidationError
	BadTypeError          = typeerr.BadTypeError
	AttributeTypeError    = typeerr.AttributeTypeError
	TupleError            = typeerr.TupleError
	UnionLikeError        = typeerr.UnionLikeError
	CallableError         = typeerr.CallableError
	EmptyError            = typeerr.EmptyError
	MissingAttributeError = typeerr.MissingAttributeError
	UnknownAttributeError = typeerr.UnknownAttributeError
)

// Validation.
type (
	Attribute = types.Attribute
	Validator = validation.Validator
	Option    = validation.Option
	Observer  = validation.Observer
)

var (
	// TypeValidator returns a Validator checking values against the type of
	// their attribute.
	TypeValidator = validation.TypeValidator

	// Validate checks a single named value against a type.
	Validate = validation.Validate

	// ResolveTypes replaces forward references in attribute types.
	ResolveTypes = validation.ResolveTypes

	WithEmptyOK   = validation.WithEmptyOK
	WithNamespace = validation.WithNamespace
	WithLogger    = validation.WithLogger
	WithObserver  = validation.WithObserver
)

// ErrorCode returns a short identifier for the kind of a validation error,
// such as "attribute_type" or "union_like".
func ErrorCode(err error) string {
	return typeerr.Code(err)
}
