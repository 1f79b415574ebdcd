// Package schema loads record and type declarations from YAML or JSON files
// and validates documents against them.
package schema

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/deepnoodle-ai/strict/internal/validation"
	"github.com/deepnoodle-ai/strict/slogger"
	"github.com/deepnoodle-ai/strict/types"
)

var (
	// ErrDuplicateDeclaration is returned when a name is declared twice.
	ErrDuplicateDeclaration = errors.New("duplicate declaration")

	// ErrUnresolved is returned when a schema refers to names it does not
	// declare.
	ErrUnresolved = errors.New("unresolved type references")

	// ErrCyclicType is returned when a declared type refers to itself without
	// passing through a container or record.
	ErrCyclicType = errors.New("types refer to themselves without a container or record")

	// ErrUnknownRecord is returned when validating against an undeclared record.
	ErrUnknownRecord = errors.New("unknown record")
)

// Schema is a compiled Document. Its registry resolves every declared name,
// so records may refer to each other and to themselves.
type Schema struct {
	doc      *Document
	registry *types.Registry
	records  map[string]*types.RecordType
}

// Load reads a schema file, or every schema file in a directory, and
// compiles it.
func Load(path string) (*Schema, error) {
	doc, err := load(path)
	if err != nil {
		return nil, err
	}
	return Compile(doc)
}

// Parse decodes and compiles a schema held in data. format is "yaml", "yml"
// or "json".
func Parse(data []byte, format string) (*Schema, error) {
	var (
		doc *Document
		err error
	)
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "yaml", "yml":
		doc, err = ParseYAML(data)
	case "json":
		doc, err = ParseJSON(data)
	default:
		return nil, fmt.Errorf("unsupported schema format: %q", format)
	}
	if err != nil {
		return nil, err
	}
	return Compile(doc)
}

// Compile checks the declarations of doc and builds their types.
func Compile(doc *Document) (*Schema, error) {
	s := &Schema{
		doc:      doc,
		registry: types.NewRegistry(),
		records:  make(map[string]*types.RecordType, len(doc.Records)),
	}

	for _, name := range sortedNames(doc.Types) {
		t, err := compileType(name, doc.Types[name])
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", name, err)
		}
		if err := s.register(name, t); err != nil {
			return nil, err
		}
	}
	for _, name := range sortedNames(doc.Records) {
		record, err := compileRecord(name, doc.Records[name])
		if err != nil {
			return nil, err
		}
		if err := s.register(name, record); err != nil {
			return nil, err
		}
		s.records[name] = record
	}

	var missing []string
	for _, name := range s.registry.Names() {
		t, _ := s.registry.Lookup(name)
		missing = append(missing, types.Unresolved(t, s.registry)...)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnresolved, strings.Join(uniqueSorted(missing), ", "))
	}

	var cyclic []string
	for _, name := range sortedNames(doc.Types) {
		cyclic = append(cyclic, types.Unproductive(types.Ref(name), s.registry)...)
	}
	if len(cyclic) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrCyclicType, strings.Join(uniqueSorted(cyclic), ", "))
	}
	return s, nil
}

func (s *Schema) register(name string, t types.Type) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := s.registry.Register(name, t); err != nil {
		if errors.Is(err, types.ErrDuplicateName) {
			return fmt.Errorf("%w: %s", ErrDuplicateDeclaration, name)
		}
		return err
	}
	return nil
}

// checkName rejects names that would be read as builtins or generics.
func checkName(name string) error {
	t, err := types.Parse(name, nil)
	if err != nil || t.Kind() != types.KindRef {
		return fmt.Errorf("invalid name %q: names must not shadow builtin types", name)
	}
	return nil
}

func compileType(name string, decl TypeDecl) (types.Type, error) {
	set := 0
	for _, present := range []bool{decl.Alias != "", decl.NewType != "", decl.TypeVar != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("exactly one of alias, newtype or typevar is required")
	}

	switch {
	case decl.Alias != "":
		return types.Parse(decl.Alias, nil)

	case decl.NewType != "":
		super, err := types.Parse(decl.NewType, nil)
		if err != nil {
			return nil, err
		}
		return types.NewType(name, super), nil

	default:
		tv := decl.TypeVar
		if tv.Bound != "" && len(tv.Constraints) > 0 {
			return nil, fmt.Errorf("a typevar cannot be both bound and constrained")
		}
		if len(tv.Constraints) == 1 {
			return nil, fmt.Errorf("a typevar needs at least two constraints")
		}
		if tv.Bound != "" {
			bound, err := types.Parse(tv.Bound, nil)
			if err != nil {
				return nil, err
			}
			return types.BoundTypeVar(name, bound), nil
		}
		constraints := make([]types.Type, len(tv.Constraints))
		for i, expr := range tv.Constraints {
			c, err := types.Parse(expr, nil)
			if err != nil {
				return nil, err
			}
			constraints[i] = c
		}
		return types.TypeVar(name, constraints...), nil
	}
}

func compileRecord(name string, decl RecordDecl) (*types.RecordType, error) {
	fields := make([]types.Field, 0, len(decl.Fields))
	for _, fieldName := range sortedNames(decl.Fields) {
		f := decl.Fields[fieldName]
		if f.Type == "" {
			return nil, fmt.Errorf("record %s: field %s: type is required", name, fieldName)
		}
		t, err := types.Parse(f.Type, nil)
		if err != nil {
			return nil, fmt.Errorf("record %s: field %s: %w", name, fieldName, err)
		}
		fields = append(fields, types.Field{
			Name:        fieldName,
			Type:        t,
			Required:    f.IsRequired(),
			NonEmpty:    !f.IsEmptyOK(),
			Description: f.Description,
		})
	}

	var opts []types.RecordOption
	if decl.Closed {
		opts = append(opts, types.Closed())
	}
	if len(decl.Ignore) > 0 {
		opts = append(opts, types.Ignore(decl.Ignore...))
	}
	return types.NewRecord(name, fields, opts...)
}

// Document returns the declarations the schema was compiled from.
func (s *Schema) Document() *Document { return s.doc }

// Namespace resolves every name the schema declares.
func (s *Schema) Namespace() types.Namespace { return s.registry }

// Records returns the declared record names in sorted order.
func (s *Schema) Records() []string {
	return sortedNames(s.records)
}

// Record returns the record called name.
func (s *Schema) Record(name string) (*types.RecordType, bool) {
	r, ok := s.records[name]
	return r, ok
}

// Validate checks value against the record called name. The logger carried
// by ctx receives debug output.
func (s *Schema) Validate(ctx context.Context, name string, value any, opts ...validation.Option) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	record, ok := s.records[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRecord, name)
	}
	base := []validation.Option{
		validation.WithNamespace(s.registry),
		validation.WithLogger(slogger.Ctx(ctx)),
	}
	validate := validation.TypeValidator(append(base, opts...)...)
	return validate(nil, types.Attribute{Name: name, Type: record}, value)
}

func uniqueSorted(names []string) []string {
	sort.Strings(names)
	out := names[:0]
	for _, name := range names {
		if len(out) == 0 || out[len(out)-1] != name {
			out = append(out, name)
		}
	}
	return out
}
