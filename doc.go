// Package strict validates Go values against the type declared for the
// attribute they are assigned to. Types are written as expressions such as
// "Dict[str, List[Optional[int]]]" or built with the [types] package, and
// failures are reported as typed errors that name the attribute, the offending
// value and every collection it sits in.
//
// The core names are:
//
//   - [TypeValidator] returns a [Validator] checking a value for an [Attribute].
//   - [TypeValidationError] is implemented by every failure, and
//     [BadTypeError] by failures caused by a value of the wrong shape.
//   - [AttributeTypeError], [TupleError], [UnionLikeError] and friends carry
//     the details of each kind of failure.
//
// # Quick Start
//
//	validate := strict.TypeValidator(strict.WithEmptyOK(false))
//	attr := strict.Attribute{Name: "tags", Type: types.MustParse("List[str]", nil)}
//	if err := validate(nil, attr, []any{"a", 1}); err != nil {
//	    var typeErr *strict.AttributeTypeError
//	    if errors.As(err, &typeErr) {
//	        fmt.Println(typeErr) // tags must be List[str] (got 1 that is a int) in [a 1]
//	    }
//	}
//
// Struct validation through `strict` tags is in the
// [github.com/deepnoodle-ai/strict/record] package, and YAML or JSON schema
// documents are in [github.com/deepnoodle-ai/strict/schema].
package strict
