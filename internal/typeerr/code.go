package typeerr

import (
	"errors"

	"github.com/deepnoodle-ai/strict/types"
)

// Code returns a short stable identifier for the kind of err, suitable for
// metric labels and machine-readable reports. Nil yields "".
func Code(err error) string {
	if err == nil {
		return ""
	}
	var (
		attrErr     *AttributeTypeError
		tupleErr    *TupleError
		unionErr    *UnionLikeError
		callableErr *CallableError
		emptyErr    *EmptyError
		missingErr  *MissingAttributeError
		unknownErr  *UnknownAttributeError
		refErr      *types.UnresolvedReferenceError
		cycleErr    *types.CyclicReferenceError
	)
	switch {
	case errors.As(err, &attrErr):
		return "attribute_type"
	case errors.As(err, &tupleErr):
		return "tuple"
	case errors.As(err, &unionErr):
		return "union_like"
	case errors.As(err, &callableErr):
		return "callable"
	case errors.As(err, &emptyErr):
		return "empty"
	case errors.As(err, &missingErr):
		return "missing_attribute"
	case errors.As(err, &unknownErr):
		return "unknown_attribute"
	case errors.As(err, &refErr):
		return "unresolved_reference"
	case errors.As(err, &cycleErr):
		return "cyclic_reference"
	}
	return "other"
}
