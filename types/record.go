package types

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Field is one named slot of a record.
type Field struct {
	Name        string
	Type        Type
	Required    bool
	NonEmpty    bool
	Description string
}

// RecordType describes map-shaped (or struct) values by their fields. A
// closed record rejects keys it does not declare, except keys matching one of
// its ignore patterns.
type RecordType struct {
	Name   string
	Fields []Field
	Closed bool

	patterns []string
	ignore   []glob.Glob
}

// RecordOption configures a record built by NewRecord.
type RecordOption func(r *RecordType) error

// Closed rejects undeclared keys.
func Closed() RecordOption {
	return func(r *RecordType) error {
		r.Closed = true
		return nil
	}
}

// Ignore exempts keys matching any of the glob patterns from the closed check.
func Ignore(patterns ...string) RecordOption {
	return func(r *RecordType) error {
		for _, pattern := range patterns {
			g, err := glob.Compile(pattern)
			if err != nil {
				return fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
			}
			r.patterns = append(r.patterns, pattern)
			r.ignore = append(r.ignore, g)
		}
		return nil
	}
}

// NewRecord returns a record type with the given fields.
func NewRecord(name string, fields []Field, opts ...RecordOption) (*RecordType, error) {
	if name == "" {
		return nil, fmt.Errorf("record name is required")
	}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("record %s: field name is required", name)
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("record %s: duplicate field %q", name, f.Name)
		}
		seen[f.Name] = true
	}
	r := &RecordType{Name: name, Fields: fields}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, fmt.Errorf("record %s: %w", name, err)
		}
	}
	return r, nil
}

func (r *RecordType) Kind() Kind     { return KindRecord }
func (r *RecordType) String() string { return r.Name }

// Field returns the field called name.
func (r *RecordType) Field(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Ignored reports whether key matches one of the ignore patterns.
func (r *RecordType) Ignored(key string) bool {
	for _, g := range r.ignore {
		if g.Match(key) {
			return true
		}
	}
	return false
}

// IgnorePatterns returns the patterns given to Ignore.
func (r *RecordType) IgnorePatterns() []string {
	return r.patterns
}
