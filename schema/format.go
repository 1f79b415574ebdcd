package schema

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/strict/types"
)

// Format renders the schema in a canonical, line-oriented form: names are
// sorted and every type is written in its normalized spelling, so two
// schemas that declare the same things format identically.
func (s *Schema) Format() string {
	var b strings.Builder

	typeNames := sortedNames(s.doc.Types)
	if len(typeNames) > 0 {
		b.WriteString("types:\n")
		for _, name := range typeNames {
			t, _ := s.registry.Lookup(name)
			fmt.Fprintf(&b, "  %s = %s\n", name, describe(t))
		}
	}

	recordNames := s.Records()
	if len(recordNames) > 0 {
		b.WriteString("records:\n")
		for _, name := range recordNames {
			writeRecord(&b, s.records[name])
		}
	}
	return b.String()
}

func describe(t types.Type) string {
	switch t.(type) {
	case *types.NewTypeType, *types.TypeVarType:
		return types.Format(t)
	}
	return "alias " + t.String()
}

func writeRecord(b *strings.Builder, r *types.RecordType) {
	b.WriteString("  ")
	b.WriteString(r.Name)
	var flags []string
	if r.Closed {
		flags = append(flags, "closed")
	}
	for _, pattern := range r.IgnorePatterns() {
		flags = append(flags, "ignore "+pattern)
	}
	if len(flags) > 0 {
		b.WriteString(" (" + strings.Join(flags, ", ") + ")")
	}
	b.WriteString(":\n")

	for _, f := range r.Fields {
		fmt.Fprintf(b, "    %s: %s", f.Name, f.Type.String())
		if !f.Required {
			b.WriteString(" optional")
		}
		if f.NonEmpty {
			b.WriteString(" nonempty")
		}
		b.WriteString("\n")
	}
}
