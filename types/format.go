package types

import (
	"strings"
)

// Format renders t for messages. NewTypes and TypeVars are spelled out with
// their supertype, bound or constraints; everything else uses t.String().
func Format(t Type) string {
	switch t := t.(type) {
	case nil:
		return "Any"
	case *NewTypeType:
		return "NewType(" + t.Name + ", " + Format(t.Super) + ")"
	case *TypeVarType:
		var b strings.Builder
		b.WriteString("TypeVar(")
		b.WriteString(t.Name)
		if t.Bound != nil {
			b.WriteString(", bound=")
			b.WriteString(Format(t.Bound))
		} else {
			for _, c := range t.Constraints {
				b.WriteString(", ")
				b.WriteString(Format(c))
			}
		}
		b.WriteString(")")
		return b.String()
	default:
		return t.String()
	}
}

func joinTypes(list []Type) string {
	parts := make([]string, len(list))
	for i, t := range list {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}
