package strict_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/deepnoodle-ai/strict"
	"github.com/deepnoodle-ai/strict/internal/typeerr"
	"github.com/deepnoodle-ai/strict/internal/validation"
	"github.com/deepnoodle-ai/strict/types"
	"github.com/stretchr/testify/require"
)

func TestReexportsAreAliases(t *testing.T) {
	var attrErr error = &typeerr.AttributeTypeError{Attribute: strict.Attribute{Name: "a", Type: types.Int}}

	var viaRoot *strict.AttributeTypeError
	require.True(t, errors.As(attrErr, &viaRoot))

	var tve strict.TypeValidationError
	require.True(t, errors.As(attrErr, &tve))
	var bad strict.BadTypeError
	require.True(t, errors.As(attrErr, &bad))

	var validator validation.Validator = strict.TypeValidator()
	var _ strict.Validator = validator
}

func TestTypeValidator(t *testing.T) {
	validate := strict.TypeValidator(strict.WithEmptyOK(false))
	attr := strict.Attribute{Name: "tags", Type: types.MustParse("List[str]", nil)}

	require.NoError(t, validate(nil, attr, []string{"a"}))

	err := validate(nil, attr, []any{"a", 1})
	var typeErr *strict.AttributeTypeError
	require.ErrorAs(t, err, &typeErr)
	require.EqualError(t, err, "tags must be List[str] (got 1 that is a int) in [a 1]")
	require.Equal(t, "attribute_type", strict.ErrorCode(err))

	err = validate(nil, attr, []string{})
	var emptyErr *strict.EmptyError
	require.ErrorAs(t, err, &emptyErr)
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		expr  string
		value any
		check func(err error) bool
	}{
		{"Tuple[int, int]", []int{1}, func(err error) bool {
			var e *strict.TupleError
			return errors.As(err, &e)
		}},
		{"int | str", 1.5, func(err error) bool {
			var e *strict.UnionLikeError
			return errors.As(err, &e)
		}},
		{"Callable[[int], int]", func(string) int { return 0 }, func(err error) bool {
			var e *strict.CallableError
			return errors.As(err, &e)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			err := strict.Validate("x", types.MustParse(tt.expr, nil), tt.value)
			require.Error(t, err)
			require.True(t, tt.check(err), "unexpected error %T", err)
		})
	}
}

func TestResolveTypes(t *testing.T) {
	ns := types.NewRegistry()
	ns.MustRegister("Score", types.Float)

	attrs := []strict.Attribute{{Name: "score", Type: types.MustParse("Optional[Score]", nil)}}
	require.NoError(t, strict.ResolveTypes(attrs, ns))
	require.Equal(t, "Optional[float]", attrs[0].Type.String())
}

func ExampleTypeValidator() {
	validate := strict.TypeValidator()
	attr := strict.Attribute{Name: "point", Type: types.Tuple(types.Int, types.Int)}
	fmt.Println(validate(nil, attr, []int{1, 2, 3}))
	// Output: Element [1 2 3] has more elements than types specified in Tuple[int, int]. Expected 2 received 3
}
