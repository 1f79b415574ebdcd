package validation

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/strict/internal/typeerr"
	"github.com/deepnoodle-ai/strict/slogger"
	"github.com/deepnoodle-ai/strict/types"
	"github.com/stretchr/testify/require"
)

type userID int

type greeter interface {
	Greet() string
}

type english struct{}

func (english) Greet() string { return "hello" }

func TestScalars(t *testing.T) {
	tests := []struct {
		name    string
		typ     types.Type
		value   any
		wantErr string
	}{
		{name: "str", typ: types.Str, value: "abc"},
		{name: "int", typ: types.Int, value: 42},
		{name: "named int", typ: types.Int, value: userID(7)},
		{name: "float", typ: types.Float, value: 1.5},
		{name: "bool", typ: types.Bool, value: true},
		{name: "bytes", typ: types.Bytes, value: []byte("raw")},
		{name: "any", typ: types.Any, value: struct{}{}},
		{name: "none", typ: types.None, value: nil},
		{
			name:    "int is not str",
			typ:     types.Str,
			value:   3,
			wantErr: "x must be str (got 3 that is a int)",
		},
		{
			name:    "int is not float",
			typ:     types.Float,
			value:   3,
			wantErr: "x must be float (got 3 that is a int)",
		},
		{
			name:    "nil is not str",
			typ:     types.Str,
			value:   nil,
			wantErr: "x must be str (got None that is a None)",
		},
		{
			name:    "value is not none",
			typ:     types.None,
			value:   "a",
			wantErr: `x must be None (got "a" that is a string)`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate("x", tt.typ, tt.value)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.EqualError(t, err, tt.wantErr)
			var attrErr *typeerr.AttributeTypeError
			require.ErrorAs(t, err, &attrErr)
		})
	}
}

func TestUntypedAttributeAcceptsAnything(t *testing.T) {
	validate := TypeValidator()
	require.NoError(t, validate(nil, types.Attribute{Name: "x"}, map[int]string{1: "a"}))
}

func TestClass(t *testing.T) {
	greeterType := types.For[greeter]()
	require.NoError(t, Validate("g", greeterType, english{}))

	err := Validate("g", greeterType, "hi")
	require.Error(t, err)
	require.Contains(t, err.Error(), "g must be validation.greeter")
}

func TestLists(t *testing.T) {
	require.NoError(t, Validate("numbers", types.List(types.Int), []int{1, 2, 3}))
	require.NoError(t, Validate("numbers", types.List(types.Int), [2]int{1, 2}))
	require.NoError(t, Validate("numbers", types.List(types.Int), []int(nil)))

	err := Validate("numbers", types.List(types.Int), []any{1, 2, "3"})
	require.EqualError(t, err, `numbers must be List[int] (got "3" that is a string) in [1 2 3]`)

	var bad typeerr.BadTypeError
	require.ErrorAs(t, err, &bad)
	require.Len(t, bad.Containers(), 1)

	err = Validate("numbers", types.List(types.Int), "123")
	require.EqualError(t, err, `numbers must be List[int] (got "123" that is a string)`)
}

func TestNestedContainers(t *testing.T) {
	typ := types.List(types.List(types.Int))
	value := []any{[]any{1}, []any{2, "x"}}

	err := Validate("matrix", typ, value)
	require.EqualError(t, err, `matrix must be List[List[int]] (got "x" that is a string) in [2 x] in [[1] [2 x]]`)

	var attrErr *typeerr.AttributeTypeError
	require.ErrorAs(t, err, &attrErr)
	require.Len(t, attrErr.Containers(), 2)
}

func TestDicts(t *testing.T) {
	typ := types.Dict(types.Str, types.Int)
	require.NoError(t, Validate("counts", typ, map[string]int{"a": 1}))
	require.NoError(t, Validate("counts", typ, map[string]any{"a": 1, "b": 2}))

	err := Validate("counts", typ, map[string]any{"a": 1, "b": "2"})
	require.EqualError(t, err, `counts must be Dict[str, int] (got "2" that is a string) in map[a:1 b:2]`)

	err = Validate("counts", typ, map[any]int{1: 1})
	require.EqualError(t, err, "counts must be Dict[str, int] (got 1 that is a int) in map[1:1]")

	err = Validate("counts", typ, []string{"a"})
	require.EqualError(t, err, "counts must be Dict[str, int] (got [a] that is a []string)")
}

func TestSets(t *testing.T) {
	typ := types.Set(types.Str)
	require.NoError(t, Validate("tags", typ, map[string]struct{}{"a": {}}))
	require.NoError(t, Validate("tags", typ, map[string]bool{"a": true}))

	err := Validate("tags", typ, map[any]struct{}{"a": {}, 2: {}})
	require.Error(t, err)
	require.True(t, strings.HasPrefix(err.Error(), "tags must be Set[str] (got 2 that is a int) in "))

	err = Validate("tags", typ, map[string]int{"a": 1})
	require.EqualError(t, err, "tags must be Set[str] (got map[a:1] that is a map[string]int)")
}

func TestTuples(t *testing.T) {
	typ := types.Tuple(types.Int, types.Str)
	require.NoError(t, Validate("pair", typ, []any{1, "a"}))

	err := Validate("pair", typ, []any{1, "a", 2})
	require.EqualError(t, err, "Element [1 a 2] has more elements than types specified in Tuple[int, str]. Expected 2 received 3")
	var tupleErr *typeerr.TupleError
	require.ErrorAs(t, err, &tupleErr)

	err = Validate("pair", typ, []any{1})
	require.EqualError(t, err, "Element [1] has fewer elements than types specified in Tuple[int, str]. Expected 2 received 1")

	err = Validate("pair", typ, []any{"a", "b"})
	require.EqualError(t, err, `pair must be Tuple[int, str] (got "a" that is a string) in [a b]`)

	require.NoError(t, Validate("empty", types.Tuple(), []any{}))
}

func TestVariadicTuples(t *testing.T) {
	typ := types.VarTuple(types.Int)
	require.NoError(t, Validate("ids", typ, []int{}))
	require.NoError(t, Validate("ids", typ, []int{1, 2, 3, 4}))

	err := Validate("ids", typ, []any{1, "2"})
	require.EqualError(t, err, `ids must be Tuple[int, ...] (got "2" that is a string) in [1 2]`)
}

func TestTupleInsideList(t *testing.T) {
	typ := types.List(types.Tuple(types.Int, types.Int))
	err := Validate("points", typ, []any{[]any{1, 2}, []any{3}})
	require.EqualError(t, err, "Element [3] has fewer elements than types specified in List[Tuple[int, int]]. Expected 2 received 1 in [[1 2] [3]]")
}

func TestUnions(t *testing.T) {
	typ := types.Union(types.Int, types.Str)
	require.NoError(t, Validate("id", typ, 1))
	require.NoError(t, Validate("id", typ, "a"))

	err := Validate("id", typ, 1.5)
	require.EqualError(t, err, "Value of id 1.5 is not of type Union[int, str]")
	var unionErr *typeerr.UnionLikeError
	require.ErrorAs(t, err, &unionErr)

	err = Validate("ids", types.List(typ), []any{1, true})
	require.EqualError(t, err, "Value of ids true is not of type Union[int, str] in [1 true]")
}

func TestOptional(t *testing.T) {
	typ := types.Optional(types.List(types.Str))
	require.NoError(t, Validate("names", typ, nil))
	require.NoError(t, Validate("names", typ, []string{"a"}))

	var missing *[]string
	require.NoError(t, Validate("names", typ, missing))

	err := Validate("names", typ, []any{"a", 1})
	require.EqualError(t, err, "Value of names [a 1] is not of type Optional[List[str]]")
}

func TestNewType(t *testing.T) {
	userIDType := types.NewType("UserID", types.Int)
	require.NoError(t, Validate("owner", userIDType, 12))

	err := Validate("owner", userIDType, "12")
	require.EqualError(t, err, `owner must be NewType(UserID, int) (got "12" that is a string)`)

	err = Validate("owners", types.List(userIDType), []any{1, "2"})
	require.EqualError(t, err, `owners must be List[UserID] (got "2" that is a string) in [1 2]`)
}

func TestBoundTypeVar(t *testing.T) {
	tv := types.BoundTypeVar("SomeTypeVar", types.Str)

	tests := []struct {
		name    string
		typ     types.Type
		value   any
		wantErr string
	}{
		{name: "match", typ: tv, value: "hello"},
		{
			name:    "mismatch",
			typ:     tv,
			value:   1,
			wantErr: "x must be TypeVar(SomeTypeVar, bound=str) (got 1 that is a int)",
		},
		{name: "list match", typ: types.List(tv), value: []string{"a", "b"}},
		{
			name:    "list mismatch",
			typ:     types.List(tv),
			value:   []any{"a", 2},
			wantErr: `x must be List[~SomeTypeVar] (got 2 that is a int) in [a 2]`,
		},
		{name: "tuple match", typ: types.Tuple(tv, types.Int), value: []any{"a", 1}},
		{
			name:    "tuple mismatch",
			typ:     types.Tuple(tv, types.Int),
			value:   []any{1, 1},
			wantErr: "x must be Tuple[~SomeTypeVar, int] (got 1 that is a int) in [1 1]",
		},
		{name: "optional none", typ: types.Optional(tv), value: nil},
		{name: "optional match", typ: types.Optional(tv), value: "a"},
		{
			name:    "optional mismatch",
			typ:     types.Optional(tv),
			value:   1,
			wantErr: "Value of x 1 is not of type Optional[~SomeTypeVar]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate("x", tt.typ, tt.value)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestConstrainedTypeVar(t *testing.T) {
	tv := types.TypeVar("SomeTypeVar", types.Str, types.Int)
	require.NoError(t, Validate("x", tv, "a"))
	require.NoError(t, Validate("x", tv, 1))

	err := Validate("x", tv, 1.5)
	require.EqualError(t, err, "Value of x 1.5 is not of type TypeVar(SomeTypeVar, str, int)")
	var unionErr *typeerr.UnionLikeError
	require.ErrorAs(t, err, &unionErr)
}

func TestConstrainedTypeVarInContainers(t *testing.T) {
	tv := types.TypeVar("SomeTypeVar", types.Str, types.Int)

	tests := []struct {
		name    string
		typ     types.Type
		value   any
		wantErr string
	}{
		{name: "list of mixed members", typ: types.List(tv), value: []any{"foo", 5}},
		{name: "tuple", typ: types.Tuple(tv), value: []any{"foo"}},
		{name: "optional none", typ: types.Optional(tv), value: nil},
		{name: "optional member", typ: types.Optional(tv), value: 5},
		{name: "dict values", typ: types.Dict(types.Str, tv), value: map[string]any{"a": 1, "b": "x"}},
		{
			name:    "list with a non-member",
			typ:     types.List(tv),
			value:   []any{"foo", 1.5},
			wantErr: "Value of x 1.5 is not of type TypeVar(SomeTypeVar, str, int) in [foo 1.5]",
		},
		{
			name:    "tuple with a non-member",
			typ:     types.Tuple(tv),
			value:   []any{1.5},
			wantErr: "Value of x 1.5 is not of type TypeVar(SomeTypeVar, str, int) in [1.5]",
		},
		{
			name:    "tuple arity",
			typ:     types.Tuple(tv),
			value:   []any{"foo", 5},
			wantErr: "Element [foo 5] has more elements than types specified in Tuple[~SomeTypeVar]. Expected 1 received 2",
		},
		{
			name:    "optional non-member",
			typ:     types.Optional(tv),
			value:   1.5,
			wantErr: "Value of x 1.5 is not of type Optional[~SomeTypeVar]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate("x", tt.typ, tt.value)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestUnconstrainedTypeVar(t *testing.T) {
	tv := types.TypeVar("T")
	for _, v := range []any{nil, 1, "a", []int{1}} {
		require.NoError(t, Validate("x", tv, v))
	}
}

func TestCallables(t *testing.T) {
	add := func(a, b int) int { return a + b }
	greet := func(name string) string { return "hi " + name }
	noop := func() {}

	tests := []struct {
		name    string
		typ     types.Type
		value   any
		wantErr string
	}{
		{name: "bare", typ: types.AnyCallable(), value: add},
		{name: "signature", typ: types.Callable([]types.Type{types.Int, types.Int}, types.Int), value: add},
		{name: "any params", typ: types.CallableReturning(types.Str), value: greet},
		{name: "no results", typ: types.Callable(nil, types.None), value: noop},
		{name: "any param", typ: types.Callable([]types.Type{types.Any}, types.Str), value: greet},
		{name: "union param", typ: types.Callable([]types.Type{types.Union(types.Int, types.Str)}, types.Str), value: greet},
		{
			name:    "wrong param",
			typ:     types.Callable([]types.Type{types.Int}, types.Str),
			value:   greet,
			wantErr: "fn must be Callable[[int], str] (got Callable[[str], str]): str is not int",
		},
		{
			name:    "missing param",
			typ:     types.Callable([]types.Type{types.Int, types.Int, types.Int}, types.Int),
			value:   add,
			wantErr: "fn must be Callable[[int, int, int], int] (got Callable[[int, int], int]): missing is not int",
		},
		{
			name:    "wrong result",
			typ:     types.CallableReturning(types.Int),
			value:   greet,
			wantErr: "fn must be Callable[..., int] (got Callable[[str], str]): str is not int",
		},
		{
			name:    "not a func",
			typ:     types.AnyCallable(),
			value:   "f",
			wantErr: `fn must be Callable (got "f" that is a string)`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate("fn", tt.typ, tt.value)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestCallableArityMismatch(t *testing.T) {
	one := func(a int) int { return a }
	err := Validate("fn", types.Callable([]types.Type{types.Int, types.Int}, types.Int), one)
	var callableErr *typeerr.CallableError
	require.ErrorAs(t, err, &callableErr)
	require.Nil(t, callableErr.Mismatch)
	require.True(t, types.Equal(types.Int, callableErr.Expected))

	err = Validate("fn", types.Callable([]types.Type{types.Int}, types.Int), func(a, b int) {})
	require.ErrorAs(t, err, &callableErr)
}

func TestCallableWithMultipleResults(t *testing.T) {
	split := func(s string) (string, error) { return s, nil }
	errType := types.For[error]()
	require.NoError(t, Validate("fn", types.Callable([]types.Type{types.Str}, types.Tuple(types.Str, errType)), split))
}

func TestForwardReferences(t *testing.T) {
	ns := types.NewRegistry()
	require.NoError(t, ns.Register("Name", types.Str))

	validate := TypeValidator(WithNamespace(ns))
	attr := types.Attribute{Name: "names", Type: types.List(types.Ref("Name"))}
	require.NoError(t, validate(nil, attr, []string{"a"}))

	err := validate(nil, attr, []any{1})
	require.EqualError(t, err, "names must be List[Name] (got 1 that is a int) in [1]")

	err = Validate("x", types.Ref("Missing"), 1)
	var unresolved *types.UnresolvedReferenceError
	require.ErrorAs(t, err, &unresolved)
	require.Equal(t, "Missing", unresolved.Name)

	var tve typeerr.TypeValidationError
	require.False(t, errors.As(err, &tve))
}

type instanceNamespace map[string]types.Type

func (n instanceNamespace) Lookup(name string) (types.Type, bool) {
	t, ok := n[name]
	return t, ok
}

func TestInstanceNamespaceTakesPrecedence(t *testing.T) {
	ns := types.NewRegistry()
	require.NoError(t, ns.Register("Value", types.Str))
	instance := instanceNamespace{"Value": types.Int}

	validate := TypeValidator(WithNamespace(ns))
	attr := types.Attribute{Name: "v", Type: types.Ref("Value")}
	require.NoError(t, validate(instance, attr, 1))
	require.NoError(t, validate(nil, attr, "a"))
	require.Error(t, validate(instance, attr, "a"))
}

func TestSelfReferenceWithoutContainer(t *testing.T) {
	ns := types.NewRegistry()
	ns.MustRegister("A", types.Union(types.Ref("A"), types.Int))
	ns.MustRegister("Loop", types.NewType("Loop", types.Ref("Loop")))
	opt := WithNamespace(ns)

	require.NoError(t, Validate("x", types.Ref("A"), 5, opt))
	require.NoError(t, Validate("x", types.List(types.Ref("A")), []any{1, 2}, opt))

	var unionErr *typeerr.UnionLikeError
	require.ErrorAs(t, Validate("x", types.Ref("A"), "s", opt), &unionErr)

	var cycle *types.CyclicReferenceError
	require.ErrorAs(t, Validate("x", types.Ref("Loop"), 1, opt), &cycle)
	require.Equal(t, "Loop", cycle.Name)

	var callableErr *typeerr.CallableError
	err := Validate("fn", types.Callable([]types.Type{types.Ref("A")}, types.None), func(s string) {}, opt)
	require.ErrorAs(t, err, &callableErr)
	require.NoError(t, Validate("fn", types.Callable([]types.Type{types.Ref("A")}, types.None), func(n int) {}, opt))
}

func TestRecursiveReference(t *testing.T) {
	ns := types.NewRegistry()
	require.NoError(t, ns.Register("Tree", types.Dict(types.Str, types.Ref("Tree"))))

	tree := map[string]any{"a": map[string]any{"b": map[string]any{}}}
	require.NoError(t, Validate("tree", types.Ref("Tree"), tree, WithNamespace(ns)))

	bad := map[string]any{"a": map[string]any{"b": 1}}
	err := Validate("tree", types.Ref("Tree"), bad, WithNamespace(ns))
	var attrErr *typeerr.AttributeTypeError
	require.ErrorAs(t, err, &attrErr)
	require.Len(t, attrErr.Containers(), 2)
}

func TestEmptyValues(t *testing.T) {
	validate := TypeValidator(WithEmptyOK(false))
	attr := types.Attribute{Name: "name", Type: types.Str}

	require.NoError(t, validate(nil, attr, "a"))
	err := validate(nil, attr, "")
	require.EqualError(t, err, `name can not be empty (got "")`)
	var emptyErr *typeerr.EmptyError
	require.ErrorAs(t, err, &emptyErr)

	err = validate(nil, types.Attribute{Name: "ids", Type: types.List(types.Int)}, []int{})
	require.EqualError(t, err, "ids can not be empty (got [])")

	require.NoError(t, TypeValidator()(nil, attr, ""))
}

func TestIsEmpty(t *testing.T) {
	var nilPtr *int
	var nilFunc func()
	tests := []struct {
		value any
		want  bool
	}{
		{nil, true},
		{"", true},
		{0, true},
		{0.0, true},
		{false, true},
		{[]int{}, true},
		{map[string]int{}, true},
		{nilPtr, true},
		{nilFunc, true},
		{"a", false},
		{1, false},
		{true, false},
		{[]int{0}, false},
		{struct{ A int }{1}, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%T(%v)", tt.value, tt.value), func(t *testing.T) {
			require.Equal(t, tt.want, isEmpty(tt.value))
		})
	}
}

type Stamp struct {
	Name string `json:"name"`
}

type Stamped struct {
	*Stamp
	Tags []string `json:"tags"`
}

func TestRecords(t *testing.T) {
	address, err := types.NewRecord("Address", []types.Field{
		{Name: "city", Type: types.Str, Required: true},
		{Name: "zip", Type: types.Str},
	}, types.Closed())
	require.NoError(t, err)

	user, err := types.NewRecord("User", []types.Field{
		{Name: "name", Type: types.Str, Required: true, NonEmpty: true},
		{Name: "tags", Type: types.List(types.Str)},
		{Name: "address", Type: address},
	}, types.Closed(), types.Ignore("x-*"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		value   any
		wantErr string
	}{
		{
			name:  "valid",
			value: map[string]any{"name": "ann", "tags": []any{"a"}, "address": map[string]any{"city": "Oslo"}},
		},
		{
			name:  "ignored key",
			value: map[string]any{"name": "ann", "x-trace": 1},
		},
		{
			name:    "missing",
			value:   map[string]any{"tags": []any{}},
			wantErr: "user.name is required by User (expected str)",
		},
		{
			name:    "empty",
			value:   map[string]any{"name": ""},
			wantErr: `user.name can not be empty (got "")`,
		},
		{
			name:    "wrong field type",
			value:   map[string]any{"name": "ann", "tags": []any{"a", 1}},
			wantErr: "user.tags must be List[str] (got 1 that is a int) in [a 1]",
		},
		{
			name:    "unknown key",
			value:   map[string]any{"name": "ann", "age": 3},
			wantErr: "user.age is not an attribute of User",
		},
		{
			name:    "nested unknown key",
			value:   map[string]any{"name": "ann", "address": map[string]any{"city": "Oslo", "street": "x"}},
			wantErr: "user.address.street is not an attribute of Address",
		},
		{
			name:    "nested missing",
			value:   map[string]any{"name": "ann", "address": map[string]any{}},
			wantErr: "user.address.city is required by Address (expected str)",
		},
		{
			name:    "struct through nil embedded pointer",
			value:   Stamped{Tags: []string{"a"}},
			wantErr: "user.name is required by User (expected str)",
		},
		{
			name:  "struct through embedded pointer",
			value: &Stamped{Stamp: &Stamp{Name: "ann"}},
		},
		{
			name:    "not a record",
			value:   []string{"ann"},
			wantErr: "user must be User (got [ann] that is a []string)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate("user", user, tt.value)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.EqualError(t, err, tt.wantErr)
		})
	}
}

type account struct {
	Owner   string   `json:"owner"`
	Members []string `json:"members,omitempty"`
	Secret  string   `json:"-"`
	Limit   int
}

func TestStructRecords(t *testing.T) {
	record, err := types.NewRecord("Account", []types.Field{
		{Name: "owner", Type: types.Str, Required: true, NonEmpty: true},
		{Name: "members", Type: types.List(types.Str)},
		{Name: "Limit", Type: types.Int},
	}, types.Closed())
	require.NoError(t, err)

	require.NoError(t, Validate("account", record, account{Owner: "ann", Limit: 3}))
	require.NoError(t, Validate("account", record, &account{Owner: "ann"}))

	err = Validate("account", record, account{})
	require.EqualError(t, err, `account.owner can not be empty (got "")`)

	var nilAccount *account
	err = Validate("account", record, nilAccount)
	var attrErr *typeerr.AttributeTypeError
	require.ErrorAs(t, err, &attrErr)
}

type recordingObserver struct {
	calls []string
}

func (o *recordingObserver) ObserveValidation(attr types.Attribute, err error) {
	o.calls = append(o.calls, fmt.Sprintf("%s:%s", attr.Name, typeerr.Code(err)))
}

func TestObserver(t *testing.T) {
	observer := &recordingObserver{}
	validate := TypeValidator(WithObserver(observer))

	require.NoError(t, validate(nil, types.Attribute{Name: "a", Type: types.Int}, 1))
	require.Error(t, validate(nil, types.Attribute{Name: "b", Type: types.Int}, "1"))
	require.Error(t, validate(nil, types.Attribute{Name: "c", Type: types.Union(types.Int, types.Bool)}, "1"))

	require.Equal(t, []string{"a:", "b:attribute_type", "c:union_like"}, observer.calls)
}

type captureLogger struct {
	debug []string
}

func (l *captureLogger) Debug(msg string, keysAndValues ...any) { l.debug = append(l.debug, msg) }
func (l *captureLogger) Info(msg string, keysAndValues ...any)  {}
func (l *captureLogger) Warn(msg string, keysAndValues ...any)  {}
func (l *captureLogger) Error(msg string, keysAndValues ...any) {}
func (l *captureLogger) With(keysAndValues ...any) slogger.Logger {
	return l
}

func TestLogger(t *testing.T) {
	ns := types.NewRegistry()
	require.NoError(t, ns.Register("Name", types.Str))
	logger := &captureLogger{}

	err := Validate("x", types.Union(types.Int, types.Ref("Name")), true, WithNamespace(ns), WithLogger(logger))
	require.Error(t, err)
	require.Contains(t, logger.debug, "resolved forward reference")
	require.Contains(t, logger.debug, "union member rejected value")
}

func TestResolveTypes(t *testing.T) {
	ns := types.NewRegistry()
	require.NoError(t, ns.Register("Name", types.Str))

	attrs := []types.Attribute{
		{Name: "names", Type: types.List(types.Ref("Name"))},
		{Name: "free"},
	}
	require.NoError(t, ResolveTypes(attrs, ns))
	require.True(t, types.Equal(types.List(types.Str), attrs[0].Type))

	err := ResolveTypes([]types.Attribute{{Name: "x", Type: types.Ref("Nope")}}, ns)
	var unresolved *types.UnresolvedReferenceError
	require.ErrorAs(t, err, &unresolved)
}
