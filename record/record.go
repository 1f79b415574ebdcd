// Package record validates Go structs whose fields declare their type in a
// `strict` struct tag.
//
//	type User struct {
//	  Name  string   `json:"name" strict:"str;nonempty"`
//	  Tags  []string `json:"tags,omitempty" strict:"List[str]"`
//	  Owner any      `json:"owner" strict:"Optional[User]"`
//	}
//	users, err := record.For[User]()
//	err = users.Validate(user)
package record

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/deepnoodle-ai/strict/internal/typeerr"
	"github.com/deepnoodle-ai/strict/internal/validation"
	"github.com/deepnoodle-ai/strict/types"
)

// TagName is the struct tag holding a field's type expression.
const TagName = "strict"

// Record validates values of one struct type.
type Record struct {
	goType    reflect.Type
	recordTyp *types.RecordType
	fields    []field
	self      *selfNamespace
	validate  validation.Validator
	nonEmpty  validation.Validator
}

type field struct {
	index []int
	attr  types.Attribute
	decl  types.Field
}

// For returns the Record for the struct type T.
func For[T any](opts ...validation.Option) (*Record, error) {
	return forType(reflect.TypeFor[T](), opts)
}

// New returns the Record for the struct type of prototype, which may be a
// struct value or a pointer to one.
func New(prototype any, opts ...validation.Option) (*Record, error) {
	t := reflect.TypeOf(prototype)
	if t == nil {
		return nil, fmt.Errorf("cannot build a record for nil value")
	}
	return forType(t, opts)
}

// MustNew is like New but panics on error.
func MustNew(prototype any, opts ...validation.Option) *Record {
	r, err := New(prototype, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

func forType(t reflect.Type, opts []validation.Option) (*Record, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("cannot build a record for %s: not a struct", t)
	}

	// The record's own name resolves to itself so fields can refer to it.
	r := &Record{goType: t, self: &selfNamespace{name: t.Name()}}

	var decls []types.Field
	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		tag, ok := sf.Tag.Lookup(TagName)
		if !ok || tag == "-" {
			continue
		}
		name, required := parseJSONTag(sf)
		if name == "-" {
			continue
		}

		decl, err := parseStrictTag(tag, sf, r.self)
		if err != nil {
			return nil, fmt.Errorf("failed to read field %s.%s: %w", t.Name(), sf.Name, err)
		}
		decl.Name = name
		decl.Required = checkRequired(sf, required)
		decl.Description = sf.Tag.Get("description")

		decls = append(decls, decl)
		r.fields = append(r.fields, field{
			index: sf.Index,
			attr:  types.Attribute{Name: name, Type: decl.Type},
			decl:  decl,
		})
	}

	name := t.Name()
	if name == "" {
		name = t.String()
	}
	recordTyp, err := types.NewRecord(name, decls)
	if err != nil {
		return nil, err
	}
	r.self.record = recordTyp
	r.recordTyp = recordTyp

	r.validate = validation.TypeValidator(opts...)
	nonEmptyOpts := append(append([]validation.Option{}, opts...), validation.WithEmptyOK(false))
	r.nonEmpty = validation.TypeValidator(nonEmptyOpts...)
	return r, nil
}

// parseStrictTag reads `<type expr>[;nonempty]`. An empty expression takes
// the type from the Go field.
func parseStrictTag(tag string, sf reflect.StructField, ns types.Namespace) (types.Field, error) {
	parts := strings.Split(tag, ";")
	var decl types.Field
	for _, opt := range parts[1:] {
		switch strings.TrimSpace(opt) {
		case "nonempty":
			decl.NonEmpty = true
		case "":
		default:
			return decl, fmt.Errorf("unknown %s tag option %q", TagName, opt)
		}
	}

	expr := strings.TrimSpace(parts[0])
	if expr == "" {
		decl.Type = types.Of(sf.Type)
		return decl, nil
	}
	t, err := types.Parse(expr, ns)
	if err != nil {
		return decl, err
	}
	decl.Type = t
	return decl, nil
}

// parseJSONTag returns the field name from the json tag and whether the
// field is required (not omitempty).
func parseJSONTag(sf reflect.StructField) (name string, required bool) {
	jsonTag := sf.Tag.Get("json")
	if jsonTag == "" {
		return sf.Name, true
	}
	parts := strings.Split(jsonTag, ",")
	name = parts[0]
	if name == "" {
		name = sf.Name
	}
	required = true
	for _, part := range parts[1:] {
		if part == "omitempty" {
			required = false
			break
		}
	}
	return name, required
}

// checkRequired lets an explicit required tag override the json tag.
func checkRequired(sf reflect.StructField, jsonRequired bool) bool {
	if req := sf.Tag.Get("required"); req != "" {
		if val, err := strconv.ParseBool(req); err == nil {
			return val
		}
	}
	return jsonRequired
}

// Name of the record: the Go type name.
func (r *Record) Name() string { return r.recordTyp.Name }

// Type returns the record type, usable to validate maps such as decoded JSON.
func (r *Record) Type() *types.RecordType { return r.recordTyp }

// Attributes returns the typed fields in declaration order.
func (r *Record) Attributes() []types.Attribute {
	attrs := make([]types.Attribute, len(r.fields))
	for i, f := range r.fields {
		attrs[i] = f.attr
	}
	return attrs
}

// Validate checks v and returns the first failure. v may be a value of the
// record's struct type, a pointer to one, or a string-keyed map.
func (r *Record) Validate(v any) error {
	errs := r.check(v, true)
	if len(errs) == 0 {
		return nil
	}
	return errs[0]
}

// ValidateAll checks every field of v and joins the failures.
func (r *Record) ValidateAll(v any) error {
	return errors.Join(r.check(v, false)...)
}

func (r *Record) check(v any, firstOnly bool) []error {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr && !rv.IsNil() {
		rv = rv.Elem()
	}
	if !rv.IsValid() || rv.Type() != r.goType {
		err := r.validate(r.namespaceFor(v), types.Attribute{Name: r.Name(), Type: r.recordTyp}, v)
		if err != nil {
			return []error{err}
		}
		return nil
	}

	instance := r.namespaceFor(v)
	var errs []error
	for _, f := range r.fields {
		validate := r.validate
		if f.decl.NonEmpty {
			validate = r.nonEmpty
		}
		fv, err := rv.FieldByIndexErr(f.index)
		if err != nil {
			// promoted through a nil embedded pointer
			if f.decl.Required {
				errs = append(errs, &typeerr.MissingAttributeError{Record: r.Name(), Attribute: f.attr})
				if firstOnly {
					break
				}
			}
			continue
		}
		if err := validate(instance, f.attr, fv.Interface()); err != nil {
			errs = append(errs, err)
			if firstOnly {
				break
			}
		}
	}
	return errs
}

// namespaceFor puts v first when it resolves names itself, then the record.
func (r *Record) namespaceFor(v any) types.Namespace {
	if ns, ok := v.(types.Namespace); ok {
		return types.Chain(ns, r.self)
	}
	return r.self
}

// selfNamespace resolves the name of the record being built to the record.
type selfNamespace struct {
	name   string
	record *types.RecordType
}

func (s *selfNamespace) Lookup(name string) (types.Type, bool) {
	if s.record == nil || name != s.name {
		return nil, false
	}
	return s.record, true
}
