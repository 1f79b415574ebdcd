package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
	jsoniter "github.com/json-iterator/go"
)

// strictJSON rejects unknown keys, matching yaml.Strict for YAML documents.
var strictJSON = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	DisallowUnknownFields:  true,
}.Froze()

// Document is the decoded form of a schema file.
//
//	types:
//	  UserID: {newtype: str}
//	  Num: {typevar: {constraints: [int, float]}}
//	  Names: List[str]
//	records:
//	  user:
//	    closed: true
//	    ignore: ["x-*"]
//	    fields:
//	      id: UserID
//	      name: {type: str, empty_ok: false}
//	      manager: {type: "Optional[user]", required: false}
type Document struct {
	Types   map[string]TypeDecl   `yaml:"types,omitempty" json:"types,omitempty"`
	Records map[string]RecordDecl `yaml:"records,omitempty" json:"records,omitempty"`
}

// TypeDecl declares a named type. Exactly one of Alias, NewType and TypeVar
// is set. A plain string is shorthand for an alias.
type TypeDecl struct {
	Alias       string       `yaml:"alias,omitempty" json:"alias,omitempty"`
	NewType     string       `yaml:"newtype,omitempty" json:"newtype,omitempty"`
	TypeVar     *TypeVarDecl `yaml:"typevar,omitempty" json:"typevar,omitempty"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
}

// TypeVarDecl is either bound or constrained, or neither.
type TypeVarDecl struct {
	Bound       string   `yaml:"bound,omitempty" json:"bound,omitempty"`
	Constraints []string `yaml:"constraints,omitempty" json:"constraints,omitempty"`
}

// RecordDecl declares a record and its fields.
type RecordDecl struct {
	Description string               `yaml:"description,omitempty" json:"description,omitempty"`
	Closed      bool                 `yaml:"closed,omitempty" json:"closed,omitempty"`
	Ignore      []string             `yaml:"ignore,omitempty" json:"ignore,omitempty"`
	Fields      map[string]FieldDecl `yaml:"fields,omitempty" json:"fields,omitempty"`
}

// FieldDecl declares one record field. A plain string is shorthand for a
// required field of that type. Fields are required and accept empty values
// unless stated otherwise.
type FieldDecl struct {
	Type        string `yaml:"type" json:"type"`
	Required    *bool  `yaml:"required,omitempty" json:"required,omitempty"`
	EmptyOK     *bool  `yaml:"empty_ok,omitempty" json:"empty_ok,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// IsRequired reports whether the field must be present.
func (f FieldDecl) IsRequired() bool {
	return f.Required == nil || *f.Required
}

// IsEmptyOK reports whether an empty value is accepted.
func (f FieldDecl) IsEmptyOK() bool {
	return f.EmptyOK == nil || *f.EmptyOK
}

type (
	typeDecl  TypeDecl
	fieldDecl FieldDecl
)

func (d *TypeDecl) UnmarshalYAML(data []byte) error {
	if alias, ok := yamlString(data); ok {
		*d = TypeDecl{Alias: alias}
		return nil
	}
	var raw typeDecl
	if err := yaml.UnmarshalWithOptions(data, &raw, yaml.Strict()); err != nil {
		return err
	}
	*d = TypeDecl(raw)
	return nil
}

func (d *TypeDecl) UnmarshalJSON(data []byte) error {
	if isJSONString(data) {
		var alias string
		if err := strictJSON.Unmarshal(data, &alias); err != nil {
			return err
		}
		*d = TypeDecl{Alias: alias}
		return nil
	}
	var raw typeDecl
	if err := strictJSON.Unmarshal(data, &raw); err != nil {
		return err
	}
	*d = TypeDecl(raw)
	return nil
}

func (f *FieldDecl) UnmarshalYAML(data []byte) error {
	if typ, ok := yamlString(data); ok {
		*f = FieldDecl{Type: typ}
		return nil
	}
	var raw fieldDecl
	if err := yaml.UnmarshalWithOptions(data, &raw, yaml.Strict()); err != nil {
		return err
	}
	*f = FieldDecl(raw)
	return nil
}

func (f *FieldDecl) UnmarshalJSON(data []byte) error {
	if isJSONString(data) {
		var typ string
		if err := strictJSON.Unmarshal(data, &typ); err != nil {
			return err
		}
		*f = FieldDecl{Type: typ}
		return nil
	}
	var raw fieldDecl
	if err := strictJSON.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = FieldDecl(raw)
	return nil
}

// yamlString returns the scalar held by data when it is a string.
func yamlString(data []byte) (string, bool) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func isJSONString(data []byte) bool {
	trimmed := strings.TrimSpace(string(data))
	return strings.HasPrefix(trimmed, `"`)
}

// ParseFile loads a Document from a file. The file extension is used to
// determine the format (JSON or YAML).
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		return ParseJSON(data)
	case ".yml", ".yaml":
		return ParseYAML(data)
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// ParseYAML loads a Document from YAML
func ParseYAML(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.Strict()); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ParseJSON loads a Document from JSON
func ParseJSON(data []byte) (*Document, error) {
	var doc Document
	if err := strictJSON.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// LoadDirectory loads all YAML and JSON files from a directory and merges
// them into a single Document. Files are loaded in lexicographical order and
// may not declare the same name twice.
func LoadDirectory(dirPath string) (*Document, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".yml" || ext == ".yaml" || ext == ".json" {
			files = append(files, filepath.Join(dirPath, entry.Name()))
		}
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, fmt.Errorf("no yaml or json files found in directory: %s", dirPath)
	}

	merged := &Document{}
	for _, file := range files {
		doc, err := ParseFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse file %s: %w", file, err)
		}
		if err := merged.Merge(doc); err != nil {
			return nil, fmt.Errorf("failed to merge file %s: %w", file, err)
		}
	}
	return merged, nil
}

// Merge adds the declarations of other to d. A name declared by both is an
// error.
func (d *Document) Merge(other *Document) error {
	if d.Types == nil {
		d.Types = make(map[string]TypeDecl, len(other.Types))
	}
	if d.Records == nil {
		d.Records = make(map[string]RecordDecl, len(other.Records))
	}
	for _, name := range sortedNames(other.Types) {
		if d.declares(name) {
			return fmt.Errorf("%w: %s", ErrDuplicateDeclaration, name)
		}
		d.Types[name] = other.Types[name]
	}
	for _, name := range sortedNames(other.Records) {
		if d.declares(name) {
			return fmt.Errorf("%w: %s", ErrDuplicateDeclaration, name)
		}
		d.Records[name] = other.Records[name]
	}
	return nil
}

func (d *Document) declares(name string) bool {
	_, isType := d.Types[name]
	_, isRecord := d.Records[name]
	return isType || isRecord
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
